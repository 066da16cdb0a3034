package tasks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
)

// FeedStats counts what happened to the entries of one feed
type FeedStats struct {
	Total      int
	New        int
	Duplicates int
	Skipped    int
	Errors     int
}

type ProcessFeedTask struct {
	Task
	Feed       database.Feed
	Keywords   []string
	fetcher    FetcherInterface
	normalizer *feed.Normalizer
	matcher    *feed.Matcher
	entryRepo  database.EntryRepositoryInterface
	stats      FeedStats
}

func NewProcessFeedTask(f database.Feed, keywords []string, fetcher FetcherInterface, normalizer *feed.Normalizer,
	matcher *feed.Matcher, entryRepo database.EntryRepositoryInterface) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, cmp.Or(f.Name, f.URL)),
		Feed:       f,
		Keywords:   keywords,
		fetcher:    fetcher,
		normalizer: normalizer,
		matcher:    matcher,
		entryRepo:  entryRepo,
	}
}

func (t *ProcessFeedTask) Stats() FeedStats {
	return t.stats
}

// Execute fetches the feed and records every entry not seen before. A fetch
// failure is returned; per-entry failures are logged and skipped.
func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	_, rawEntries, err := t.fetcher.Run(ctx, t.Feed.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	t.stats.Total = len(rawEntries)

	for _, raw := range rawEntries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.processEntry(ctx, raw)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"total", t.stats.Total,
		"new", t.stats.New,
		"duplicates", t.stats.Duplicates,
		"skipped", t.stats.Skipped,
		"errors", t.stats.Errors)

	return nil
}

func (t *ProcessFeedTask) processEntry(ctx context.Context, raw feed.RawEntry) {
	entry, err := t.normalizer.Run(raw)
	if err != nil {
		if errors.Is(err, feed.ErrMissingLink) {
			slog.Debug("Entry skipped", "feed", t.FeedName, "title", raw.Title, "reason", err)
			t.stats.Skipped++
			return
		}
		slog.Warn("Failed to normalize entry", "feed", t.FeedName, "title", raw.Title, "error", err)
		t.stats.Errors++
		return
	}

	matched := t.matcher.Run(entry, t.Keywords)

	result, err := t.entryRepo.InsertEntryIfNew(ctx, database.NewEntry{
		FeedID:          t.Feed.ID,
		Title:           entry.Title,
		Content:         entry.Body,
		Link:            entry.Link,
		PublishedAt:     entry.PublishedAt,
		MatchedKeywords: matched,
	})
	if err != nil {
		slog.Error("Failed to store entry", "feed", t.FeedName, "link", entry.Link, "error", err)
		t.stats.Errors++
		return
	}

	switch result {
	case database.Inserted:
		t.stats.New++
		if len(matched) > 0 {
			slog.Debug("Entry matched", "feed", t.FeedName, "link", entry.Link, "keywords", matched)
		}
	case database.Duplicate:
		t.stats.Duplicates++
	}
}
