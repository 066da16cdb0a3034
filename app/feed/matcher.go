package feed

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run returns the keywords contained in the entry's title and body joined
// without a separator, compared case-insensitively, in the order they appear
// in keywords.
func (m *Matcher) Run(entry Entry, keywords []string) []string {
	matched := []string{}
	if len(keywords) == 0 {
		return matched
	}

	caser := cases.Lower(language.Und)
	text := caser.String(entry.Title + entry.Body)

	for _, keyword := range keywords {
		if m.matchesKeyword(caser, text, keyword) {
			matched = append(matched, keyword)
		}
	}

	return matched
}

func (m *Matcher) matchesKeyword(caser cases.Caser, text, keyword string) bool {
	if keyword == "" {
		return false
	}
	return strings.Contains(text, caser.String(keyword))
}
