package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/rss-watch/app/database"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator()

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	entries := []database.Entry{
		{
			ID:              1,
			Source:          "Example News",
			Title:           "Budget Update",
			Link:            "https://example.com/l1",
			Content:         "Details & numbers",
			PublishedAt:     &published,
			DiscoveredAt:    published.Add(time.Minute),
			MatchedKeywords: []string{"budget"},
		},
		{
			ID:           2,
			Title:        "Undated",
			Link:         "https://example.com/l2",
			DiscoveredAt: time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	rss, err := generator.Run(Channel{
		Title:     "Watchlist",
		Link:      "http://localhost:8080",
		SelfURL:   "http://localhost:8080/feeds/matched.xml",
		Generator: "RSS-Watch/dev",
	}, entries)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<title>Watchlist</title>`,
		`<atom:link href="http://localhost:8080/feeds/matched.xml" rel="self" type="application/rss+xml" />`,
		`<generator>RSS-Watch/dev</generator>`,
		`<guid isPermaLink="true">https://example.com/l1</guid>`,
		`<title>Budget Update</title>`,
		`<description>Details &amp; numbers</description>`,
		`<pubDate>Mon, 03 Jul 2023 10:00:00 +0000</pubDate>`,
		`<source>Example News</source>`,
		`<category>budget</category>`,
		`<description>No description available</description>`,
		`<pubDate>Sat, 01 Jul 2023 08:00:00 +0000</pubDate>`,
		`<lastBuildDate>Mon, 03 Jul 2023 10:00:00 +0000</lastBuildDate>`,
	}

	for _, fragment := range expected {
		if !strings.Contains(rss, fragment) {
			t.Errorf("Expected RSS to contain %q", fragment)
		}
	}

	if strings.Count(rss, "<item>") != 2 {
		t.Errorf("Expected 2 items, got %d", strings.Count(rss, "<item>"))
	}
}

func TestGenerateWithEmptyEntries(t *testing.T) {
	rss, err := NewGenerator().Run(Channel{}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, "<title>Keyword watchlist</title>") {
		t.Error("Expected default channel title")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Expected no items")
	}
	if strings.Contains(rss, "atom:link href") {
		t.Error("Expected no self link without SelfURL")
	}
}

func TestIsURLMethod(t *testing.T) {
	generator := NewGenerator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com/item", true},
		{"http://example.com/item", true},
		{"urn:uuid:1234", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := generator.isURL(tt.input); got != tt.expected {
			t.Errorf("isURL(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
