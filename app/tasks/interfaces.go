package tasks

import (
	"context"

	"github.com/lysyi3m/rss-watch/app/feed"
)

// TaskSchedulerInterface is the part of the scheduler used by main and the
// HTTP API.
//
//	scheduler := NewScheduler(cycle, time.Minute, false)
//	scheduler.Start()
//	defer scheduler.Stop()
//	taskID := scheduler.Trigger()
type TaskSchedulerInterface interface {
	Start() error
	Stop()
	Trigger() string
}

// FetcherInterface retrieves and parses one feed document.
type FetcherInterface interface {
	Run(ctx context.Context, url string) (*feed.Metadata, []feed.RawEntry, error)
}

var (
	_ TaskSchedulerInterface = (*Scheduler)(nil)
	_ FetcherInterface       = (*feed.Fetcher)(nil)
)
