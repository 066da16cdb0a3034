package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// RawEntry holds the fields of a parsed feed item as found in the document;
// any of them may be empty.
type RawEntry struct {
	Title       string
	Description string
	Summary     string
	Link        string
	Published   string
}

// Entry is the canonical form of a feed item
type Entry struct {
	Title       string
	Body        string
	Link        string
	PublishedAt *time.Time // nil when the source omits or malforms the date
}

// Seed file types

type Seed struct {
	Feeds    []SeedFeed `yaml:"feeds"`
	Keywords []string   `yaml:"keywords"`
}

type SeedFeed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// Export types

type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
	Generator   string
}
