package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyURL     = errors.New("feed URL is empty")
	ErrEmptyKeyword = errors.New("keyword is empty")
)

// keywordSeparator joins matched keywords in the matched_keywords column.
const keywordSeparator = ", "

// NewEntry is a normalized entry ready to be recorded
type NewEntry struct {
	FeedID          int64
	Title           string
	Content         string
	Link            string
	PublishedAt     *time.Time
	MatchedKeywords []string
}

type InsertResult int

const (
	Inserted InsertResult = iota
	Duplicate
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

type FilterType string

const (
	FilterTitle    FilterType = "title"
	FilterKeywords FilterType = "keywords"
)

// ParseFilterType maps a request value onto a FilterType; anything unknown
// falls back to title filtering.
func ParseFilterType(s string) FilterType {
	if FilterType(strings.ToLower(strings.TrimSpace(s))) == FilterKeywords {
		return FilterKeywords
	}
	return FilterTitle
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// EntryQuery describes a page of the news listing
type EntryQuery struct {
	Page       int
	PerPage    int
	Keyword    string
	FilterType FilterType
}

func (q EntryQuery) normalize() EntryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.FilterType != FilterKeywords {
		q.FilterType = FilterTitle
	}
	return q
}

// joinKeywords renders the display form kept in matched_keywords. It is not
// reversible when a keyword contains the separator; matched_keywords_json
// holds the exact list.
func joinKeywords(keywords []string) string {
	return strings.Join(keywords, keywordSeparator)
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode matched keywords: %w", err)
	}
	return string(data), nil
}

func decodeKeywords(s string) ([]string, error) {
	keywords := []string{}
	if s == "" {
		return keywords, nil
	}
	if err := json.Unmarshal([]byte(s), &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode matched keywords %q: %w", s, err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}
