package database

import "context"

type FeedRepositoryInterface interface {
	ListFeeds(ctx context.Context) ([]Feed, error)
	GetFeed(ctx context.Context, id int64) (*Feed, error)
	CreateFeed(ctx context.Context, url, name string) (*Feed, bool, error)
	DeleteFeed(ctx context.Context, id int64) error
	GetFeedCount(ctx context.Context) (int, error)
}

type KeywordRepositoryInterface interface {
	ListKeywords(ctx context.Context) ([]Keyword, error)
	CreateKeyword(ctx context.Context, text string) (*Keyword, bool, error)
	DeleteKeyword(ctx context.Context, id int64) error
}

type EntryRepositoryInterface interface {
	InsertEntryIfNew(ctx context.Context, entry NewEntry) (InsertResult, error)
	QueryEntries(ctx context.Context, query EntryQuery) ([]Entry, int, error)
	GetRecentEntries(ctx context.Context, limit int, keyword string) ([]Entry, error)
	GetEntryCount(ctx context.Context) (int, error)
}

var (
	_ FeedRepositoryInterface    = (*FeedRepository)(nil)
	_ KeywordRepositoryInterface = (*KeywordRepository)(nil)
	_ EntryRepositoryInterface   = (*EntryRepository)(nil)
)
