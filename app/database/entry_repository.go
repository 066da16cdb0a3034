package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// EntryRepository handles database operations for discovered entries
type EntryRepository struct {
	db  *DB
	now func() time.Time
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db, now: time.Now}
}

// InsertEntryIfNew records an entry unless one with the same link exists.
// The UNIQUE constraint on link decides; there is no prior lookup, so two
// concurrent inserts of one link yield exactly one Inserted.
func (r *EntryRepository) InsertEntryIfNew(ctx context.Context, entry NewEntry) (InsertResult, error) {
	link := strings.TrimSpace(entry.Link)
	if link == "" {
		return Duplicate, fmt.Errorf("entry link is empty")
	}

	var publishedAt sql.NullString
	if entry.PublishedAt != nil {
		publishedAt = sql.NullString{String: formatTime(*entry.PublishedAt), Valid: true}
	}

	matched := joinKeywords(entry.MatchedKeywords)
	matchedJSON, err := encodeKeywords(entry.MatchedKeywords)
	if err != nil {
		return Duplicate, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (
			feed_id, title, content, link, published_at, found_at,
			matched_keywords, matched_keywords_json, search_title, search_keywords
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO NOTHING
	`, entry.FeedID, entry.Title, entry.Content, link, publishedAt, formatTime(r.now()),
		matched, matchedJSON, fold(entry.Title), fold(matched))
	if err != nil {
		return Duplicate, fmt.Errorf("failed to insert entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Duplicate, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return Duplicate, nil
	}

	return Inserted, nil
}

const entryColumns = `
	e.id, e.feed_id, COALESCE(f.name, ''), e.title, e.content, e.link,
	e.published_at, e.found_at, e.matched_keywords_json`

const entryOrder = `ORDER BY e.published_at IS NULL, e.published_at DESC, e.id DESC`

// QueryEntries returns one page of entries, newest publication first with
// undated entries last, plus the number of entries matching the filter.
func (r *EntryRepository) QueryEntries(ctx context.Context, query EntryQuery) ([]Entry, int, error) {
	query = query.normalize()

	where := ""
	var args []any
	if query.Keyword != "" {
		column := "e.search_title"
		if query.FilterType == FilterKeywords {
			column = "e.search_keywords"
		}
		where = fmt.Sprintf("WHERE instr(%s, ?) > 0", column)
		args = append(args, fold(query.Keyword))
	}

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries e "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	offset := (query.Page - 1) * query.PerPage
	pageArgs := append(args, query.PerPage, offset)

	entries, err := r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries e
		LEFT JOIN feeds f ON f.id = e.feed_id
		`+where+`
		`+entryOrder+`
		LIMIT ? OFFSET ?
	`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetRecentEntries returns the newest entries, optionally only those tagged
// with a keyword.
func (r *EntryRepository) GetRecentEntries(ctx context.Context, limit int, keyword string) ([]Entry, error) {
	if limit < 1 {
		limit = DefaultPerPage
	}

	where := ""
	args := []any{}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		where = "WHERE instr(e.search_keywords, ?) > 0"
		args = append(args, fold(keyword))
	}
	args = append(args, limit)

	return r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries e
		LEFT JOIN feeds f ON f.id = e.feed_id
		`+where+`
		`+entryOrder+`
		LIMIT ?
	`, args...)
}

// GetEntryCount returns the total number of stored entries
func (r *EntryRepository) GetEntryCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}

func (r *EntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var publishedAt sql.NullString
		var foundAt, matched string

		err := rows.Scan(
			&entry.ID, &entry.FeedID, &entry.Source, &entry.Title, &entry.Content, &entry.Link,
			&publishedAt, &foundAt, &matched,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}

		if entry.PublishedAt, err = parseNullTime(publishedAt); err != nil {
			return nil, err
		}
		if entry.DiscoveredAt, err = parseTime(foundAt); err != nil {
			return nil, err
		}
		if entry.MatchedKeywords, err = decodeKeywords(matched); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}
