package database

import (
	"context"
	"errors"
	"testing"
)

func TestCreateFeed(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedRepository(newTestDB(t))

	feed, created, err := repo.CreateFeed(ctx, " https://example.com/rss ", "Example")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !created {
		t.Error("Expected feed to be created")
	}
	if feed.URL != "https://example.com/rss" {
		t.Errorf("Expected trimmed URL, got '%s'", feed.URL)
	}
	if feed.Name != "Example" {
		t.Errorf("Expected name 'Example', got '%s'", feed.Name)
	}

	again, created, err := repo.CreateFeed(ctx, "https://example.com/rss", "Other name")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created {
		t.Error("Expected duplicate URL not to create a feed")
	}
	if again.ID != feed.ID {
		t.Errorf("Expected existing feed %d, got %d", feed.ID, again.ID)
	}

	count, err := repo.GetFeedCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 feed, got %d", count)
	}
}

func TestCreateFeedDefaultsNameToURL(t *testing.T) {
	repo := NewFeedRepository(newTestDB(t))

	feed, _, err := repo.CreateFeed(context.Background(), "https://example.com/atom", "")
	if err != nil {
		t.Fatal(err)
	}
	if feed.Name != "https://example.com/atom" {
		t.Errorf("Expected name to default to URL, got '%s'", feed.Name)
	}
}

func TestCreateFeedRejectsEmptyURL(t *testing.T) {
	repo := NewFeedRepository(newTestDB(t))

	_, _, err := repo.CreateFeed(context.Background(), "   ", "Nothing")
	if !errors.Is(err, ErrEmptyURL) {
		t.Errorf("Expected ErrEmptyURL, got: %v", err)
	}
}

func TestFeedIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedRepository(newTestDB(t))

	first, _, err := repo.CreateFeed(ctx, "https://a.example.com/rss", "A")
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := repo.CreateFeed(ctx, "https://b.example.com/rss", "B")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteFeed(ctx, second.ID); err != nil {
		t.Fatalf("Expected no error deleting feed, got: %v", err)
	}

	third, _, err := repo.CreateFeed(ctx, "https://c.example.com/rss", "C")
	if err != nil {
		t.Fatal(err)
	}

	if third.ID <= second.ID || third.ID <= first.ID {
		t.Errorf("Expected monotonic id after deletion, got %d (previous %d)", third.ID, second.ID)
	}

	feeds, err := repo.ListFeeds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(feeds) != 2 {
		t.Fatalf("Expected 2 feeds, got %d", len(feeds))
	}
	if feeds[0].ID != first.ID || feeds[1].ID != third.ID {
		t.Errorf("Expected feeds ordered by id, got %d, %d", feeds[0].ID, feeds[1].ID)
	}
}

func TestDeleteFeedNotFound(t *testing.T) {
	repo := NewFeedRepository(newTestDB(t))

	if err := repo.DeleteFeed(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}

	if _, err := repo.GetFeed(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from GetFeed, got: %v", err)
	}
}
