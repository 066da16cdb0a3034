package api

import (
	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
	"github.com/lysyi3m/rss-watch/app/tasks"
)

type GeneratorInterface interface {
	Run(channel feed.Channel, entries []database.Entry) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	feedRepo    database.FeedRepositoryInterface
	keywordRepo database.KeywordRepositoryInterface
	entryRepo   database.EntryRepositoryInterface
	generator   GeneratorInterface
	scheduler   tasks.TaskSchedulerInterface
	baseURL     string
	version     string
}

type createFeedRequest struct {
	URL  string `json:"url" binding:"required"`
	Name string `json:"name"`
}

type createKeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}
