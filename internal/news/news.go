// Package news classifies and summarizes raw AI news articles into report records.
//
// The mapping from an article's text to its summary and keywords is pure: the same
// title and description always produce the same output. Only ProcessedAt depends
// on the clock.
package news

import (
	"time"
	"unicode/utf8"
)

const (
	DefaultMaxChars    = 100
	DefaultMaxKeywords = 5
)

// RawArticle is one collected news item as it appears in the input batch.
type RawArticle struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
}

// ResolveDescription returns the description, falling back to the summary field.
func (a RawArticle) ResolveDescription() string {
	if a.Description != "" {
		return a.Description
	}
	return a.Summary
}

// ProcessedArticle is the record handed to the report renderer.
type ProcessedArticle struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PubDate     string    `json:"pubDate"`
	Summary     string    `json:"summary"`
	Keywords    []string  `json:"keywords"`
	ProcessedAt time.Time `json:"processedAt"`
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
