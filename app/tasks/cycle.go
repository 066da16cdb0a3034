package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
)

// CycleResult summarizes one ingestion cycle
type CycleResult struct {
	TaskID      string
	Feeds       int
	FailedFeeds int
	Entries     int
	New         int
	Duplicates  int
	Skipped     int
	Errors      int
	Duration    time.Duration
}

// Cycle polls every configured feed once and records new entries.
type Cycle struct {
	feedRepo    database.FeedRepositoryInterface
	keywordRepo database.KeywordRepositoryInterface
	entryRepo   database.EntryRepositoryInterface
	fetcher     FetcherInterface
	normalizer  *feed.Normalizer
	matcher     *feed.Matcher
	workerCount int
}

func NewCycle(feedRepo database.FeedRepositoryInterface, keywordRepo database.KeywordRepositoryInterface,
	entryRepo database.EntryRepositoryInterface, fetcher FetcherInterface, workerCount int) *Cycle {
	return &Cycle{
		feedRepo:    feedRepo,
		keywordRepo: keywordRepo,
		entryRepo:   entryRepo,
		fetcher:     fetcher,
		normalizer:  feed.NewNormalizer(),
		matcher:     feed.NewMatcher(),
		workerCount: max(workerCount, 1),
	}
}

// Run executes one cycle. Failures never escape: they are logged and counted.
func (c *Cycle) Run(ctx context.Context, taskID string) CycleResult {
	start := time.Now()
	result := CycleResult{TaskID: taskID}

	feeds, keywords, err := c.snapshot(ctx)
	if err != nil {
		slog.Error("Failed to load cycle configuration", "task_id", taskID, "error", err)
		result.Duration = time.Since(start)
		return result
	}

	if len(feeds) == 0 {
		slog.Warn("No feeds configured, nothing to poll", "task_id", taskID)
		result.Duration = time.Since(start)
		return result
	}

	result.Feeds = len(feeds)

	queue := make(chan *ProcessFeedTask)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range min(c.workerCount, len(feeds)) {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range queue {
				err := c.executeTask(ctx, workerID, task)
				stats := task.Stats()

				mu.Lock()
				if err != nil {
					result.FailedFeeds++
				}
				result.Entries += stats.Total
				result.New += stats.New
				result.Duplicates += stats.Duplicates
				result.Skipped += stats.Skipped
				result.Errors += stats.Errors
				mu.Unlock()
			}
		}(i)
	}

	for _, f := range feeds {
		queue <- NewProcessFeedTask(f, keywords, c.fetcher, c.normalizer, c.matcher, c.entryRepo)
	}
	close(queue)
	wg.Wait()

	result.Duration = time.Since(start)

	slog.Info("Ingestion cycle completed",
		"task_id", taskID,
		"feeds", result.Feeds,
		"failed_feeds", result.FailedFeeds,
		"entries", result.Entries,
		"new", result.New,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
		"errors", result.Errors,
		"duration", result.Duration)

	return result
}

// snapshot reads the feed and keyword lists once for the whole cycle.
func (c *Cycle) snapshot(ctx context.Context) ([]database.Feed, []string, error) {
	feeds, err := c.feedRepo.ListFeeds(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	keywords, err := c.keywordRepo.ListKeywords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list keywords: %w", err)
	}

	texts := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		texts = append(texts, keyword.Text)
	}

	return feeds, texts, nil
}

func (c *Cycle) executeTask(ctx context.Context, workerID int, task *ProcessFeedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			slog.Error("Worker task panicked", "worker_id", workerID, "type", string(task.GetType()), "feed", task.GetFeedName(), "error", err)
		}
	}()

	task.Start()

	if err = task.Execute(ctx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "feed", task.GetFeedName(), "url", task.Feed.URL, "error", err)
	}

	return err
}

// IngestCycleTask runs a Cycle under its own task id
type IngestCycleTask struct {
	Task
	cycle  *Cycle
	result CycleResult
}

func NewIngestCycleTask(cycle *Cycle) *IngestCycleTask {
	return &IngestCycleTask{
		Task:  NewTask(TaskTypeIngestCycle, ""),
		cycle: cycle,
	}
}

func (t *IngestCycleTask) Execute(ctx context.Context) error {
	t.result = t.cycle.Run(ctx, t.ID)
	return nil
}

func (t *IngestCycleTask) Result() CycleResult {
	return t.result
}
