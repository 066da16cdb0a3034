package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
)

// SyncSeedTask adds the feeds and keywords of a seed file to the store.
// Existing rows are left alone and nothing is deleted.
type SyncSeedTask struct {
	Task
	Seed            *feed.Seed
	feedRepo        database.FeedRepositoryInterface
	keywordRepo     database.KeywordRepositoryInterface
	CreatedFeeds    int
	CreatedKeywords int
}

func NewSyncSeedTask(seed *feed.Seed, feedRepo database.FeedRepositoryInterface, keywordRepo database.KeywordRepositoryInterface) *SyncSeedTask {
	return &SyncSeedTask{
		Task:        NewTask(TaskTypeSyncSeed, ""),
		Seed:        seed,
		feedRepo:    feedRepo,
		keywordRepo: keywordRepo,
	}
}

func (t *SyncSeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.Seed == nil {
		return nil
	}

	var errs []error

	for _, seedFeed := range t.Seed.Feeds {
		f, created, err := t.feedRepo.CreateFeed(ctx, seedFeed.URL, seedFeed.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to sync feed %s: %w", seedFeed.URL, err))
			continue
		}
		if created {
			t.CreatedFeeds++
			slog.Debug("Feed added from seed", "id", f.ID, "url", f.URL, "name", f.Name)
		}
	}

	for _, text := range t.Seed.Keywords {
		keyword, created, err := t.keywordRepo.CreateKeyword(ctx, text)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to sync keyword %q: %w", text, err))
			continue
		}
		if created {
			t.CreatedKeywords++
			slog.Debug("Keyword added from seed", "id", keyword.ID, "keyword", keyword.Text)
		}
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"duration", t.GetDuration(),
		"feeds", len(t.Seed.Feeds),
		"keywords", len(t.Seed.Keywords),
		"created_feeds", t.CreatedFeeds,
		"created_keywords", t.CreatedKeywords)

	return errors.Join(errs...)
}
