package news

import "strings"

// keywordList accumulates tags in scan order, dropping repeats.
type keywordList struct {
	items []string
	seen  map[string]bool
	max   int
}

func newKeywordList(max int) *keywordList {
	return &keywordList{
		items: make([]string, 0, max),
		seen:  make(map[string]bool, max),
		max:   max,
	}
}

func (k *keywordList) add(keyword string) {
	if k.full() || k.seen[keyword] {
		return
	}
	k.seen[keyword] = true
	k.items = append(k.items, keyword)
}

func (k *keywordList) full() bool {
	return len(k.items) >= k.max
}

// ExtractKeywords returns up to maxKeywords tags found in the title and description.
// Terms, organizations and institutions are scanned in that order, then the derived
// research/funding/partnership/product tags. maxKeywords <= 0 selects DefaultMaxKeywords.
func ExtractKeywords(title, description string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	text := strings.ToLower(title + " " + CleanText(description))
	found := newKeywordList(maxKeywords)

	for _, pattern := range termPatterns {
		if strings.Contains(text, strings.ToLower(pattern)) {
			if organizationSet[pattern] {
				found.add(pattern)
			} else {
				found.add(strings.ToLower(pattern))
			}
		}
	}

	for _, names := range [][]string{organizations, institutions} {
		for _, name := range names {
			if strings.Contains(text, strings.ToLower(name)) {
				found.add(name)
			}
		}
	}

	for _, r := range signalRules {
		if containsAny(text, r.terms) {
			found.add(r.value)
		}
	}

	return found.items
}
