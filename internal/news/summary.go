package news

import (
	"strings"
)

const ellipsis = "..."

// SynthesizeSummary builds a one-sentence Chinese summary:
//
//	<category>：<subject><action><topic>[<elaboration><closing>]
//
// The result is never empty and never longer than maxChars characters.
// maxChars <= 0 selects DefaultMaxChars.
func SynthesizeSummary(title, description string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text := strings.ToLower(title + " " + CleanText(description))

	var b strings.Builder
	b.WriteString(firstMatch(text, categoryRules, categoryGeneral))
	b.WriteString("：")
	b.WriteString(subject(title, text))
	b.WriteString(firstMatch(text, actionRules, defaultAction))
	b.WriteString(firstMatch(text, topicRules, defaultTopic))

	summary := b.String()
	if maxChars-runeLen(summary) >= elaborationHeadroom {
		summary += firstMatch(summary, elaborationRules, defaultElaboration)
		summary += firstMatch(text, closingRules, defaultClosing)
	}

	return Truncate(summary, maxChars)
}

// subject picks the organization the article is about, falling back to the
// first word of the original-case title.
func subject(title, text string) string {
	if s := firstMatch(text, subjectRules, ""); s != "" {
		return s
	}

	words := strings.Fields(title)
	if len(words) > 0 && runeLen(words[0]) < subjectMaxRunes {
		return words[0]
	}
	return genericSubject
}

// Truncate shortens s to at most maxChars characters, ending with "..." when
// there is room for it.
func Truncate(s string, maxChars int) string {
	if runeLen(s) <= maxChars {
		return s
	}
	if maxChars <= 0 {
		return ""
	}

	runes := []rune(s)
	if maxChars <= len(ellipsis) {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-len(ellipsis)]) + ellipsis
}
