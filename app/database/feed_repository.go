package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// FeedRepository handles database operations for feeds
type FeedRepository struct {
	db *DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// ListFeeds returns all configured feeds ordered by id
func (r *FeedRepository) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, name, created_at
		FROM feeds
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	feeds := []Feed{}
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeed retrieves a feed by id; ErrNotFound when it does not exist
func (r *FeedRepository) GetFeed(ctx context.Context, id int64) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, name, created_at
		FROM feeds
		WHERE id = ?
	`, id)

	return scanFeed(row)
}

func (r *FeedRepository) getFeedByURL(ctx context.Context, url string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, name, created_at
		FROM feeds
		WHERE url = ?
	`, url)

	return scanFeed(row)
}

// CreateFeed registers a feed. When the URL is already registered the existing
// feed is returned and created is false.
func (r *FeedRepository) CreateFeed(ctx context.Context, url, name string) (*Feed, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, false, ErrEmptyURL
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = url
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (url, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`, url, name, formatTime(time.Now()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create feed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	feed, err := r.getFeedByURL(ctx, url)
	if err != nil {
		return nil, false, err
	}

	return feed, affected > 0, nil
}

// DeleteFeed removes a feed. Entries discovered from it are kept.
func (r *FeedRepository) DeleteFeed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM feeds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetFeedCount returns the total number of feeds
func (r *FeedRepository) GetFeedCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var createdAt string

	err := row.Scan(&feed.ID, &feed.URL, &feed.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed row: %w", err)
	}

	feed.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &feed, nil
}
