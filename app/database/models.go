package database

import (
	"time"
)

// Feed represents a configured syndication source
type Feed struct {
	ID        int64
	URL       string
	Name      string
	CreatedAt time.Time
}

// Keyword represents a watchlist keyword
type Keyword struct {
	ID        int64
	Text      string
	CreatedAt time.Time
}

// Entry represents a stored feed entry joined with its feed's display name
type Entry struct {
	ID              int64
	FeedID          int64
	Source          string // Feed display name, empty when the feed was deleted
	Title           string
	Content         string
	Link            string
	PublishedAt     *time.Time
	DiscoveredAt    time.Time
	MatchedKeywords []string
}
