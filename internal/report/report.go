// Package report renders a processed batch as an HTML page or a Markdown brief.
package report

import (
	"strings"
	"time"

	"github.com/deusflow/aibrief/internal/news"
)

const (
	DefaultTitle = "今日AI简报"

	unknownSource  = "Unknown"
	unknownTitle   = "No title"
	unknownSummary = "No summary available"
	unknownDate    = "Unknown date"

	readText       = "查看原文 →"
	sampleReadText = "查看源站 →"
)

// Stats is the header block of a report.
type Stats struct {
	TotalArticles int
	Sources       int
	TotalKeywords int
}

// Page is everything a renderer needs.
type Page struct {
	Title       string
	GeneratedAt time.Time
	Articles    []news.ProcessedArticle
}

// Card is one article prepared for display.
type Card struct {
	Index    int
	Source   string
	Title    string
	Summary  string
	Keywords []string
	Date     string
	Link     string
	Sample   bool
}

func (c Card) ButtonText() string {
	if c.Sample {
		return sampleReadText
	}
	return readText
}

func (c Card) ButtonClass() string {
	if c.Sample {
		return "read-btn sample-link"
	}
	return "read-btn"
}

// ComputeStats counts articles, distinct sources and keyword tags.
func ComputeStats(articles []news.ProcessedArticle) Stats {
	sources := make(map[string]struct{})
	stats := Stats{TotalArticles: len(articles)}
	for _, a := range articles {
		sources[orDefault(a.Source, unknownSource)] = struct{}{}
		stats.TotalKeywords += len(a.Keywords)
	}
	stats.Sources = len(sources)
	return stats
}

// IsSampleLink reports whether link points at a listing page rather than an article.
func IsSampleLink(link string) bool {
	for _, marker := range []string{"/category/", "/topic/", "/tag/"} {
		if strings.Contains(link, marker) {
			return true
		}
	}
	return false
}

// BuildCards prepares articles for display in input order.
func BuildCards(articles []news.ProcessedArticle) []Card {
	cards := make([]Card, 0, len(articles))
	for i, a := range articles {
		date := unknownDate
		if a.PubDate != "" {
			date = DisplayDate(a.PubDate)
		}
		link := orDefault(a.Link, "#")

		cards = append(cards, Card{
			Index:    i + 1,
			Source:   orDefault(a.Source, unknownSource),
			Title:    orDefault(a.Title, unknownTitle),
			Summary:  orDefault(a.Summary, unknownSummary),
			Keywords: a.Keywords,
			Date:     date,
			Link:     link,
			Sample:   IsSampleLink(link),
		})
	}
	return cards
}

func (p Page) title() string {
	return orDefault(p.Title, DefaultTitle)
}

func (p Page) generatedAt() time.Time {
	if p.GeneratedAt.IsZero() {
		return time.Now()
	}
	return p.GeneratedAt
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
