package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// KeywordRepository handles database operations for watchlist keywords
type KeywordRepository struct {
	db *DB
}

// NewKeywordRepository creates a new keyword repository
func NewKeywordRepository(db *DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// ListKeywords returns all keywords in creation order
func (r *KeywordRepository) ListKeywords(ctx context.Context) ([]Keyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, keyword, created_at
		FROM keywords
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	keywords := []Keyword{}
	for rows.Next() {
		var kw Keyword
		var createdAt string
		if err := rows.Scan(&kw.ID, &kw.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		if kw.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	return keywords, nil
}

// CreateKeyword adds a keyword. Keywords are unique regardless of case; adding
// an existing one returns it with created set to false.
func (r *KeywordRepository) CreateKeyword(ctx context.Context, text string) (*Keyword, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, ErrEmptyKeyword
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO keywords (keyword, created_at)
		VALUES (?, ?)
		ON CONFLICT (keyword) DO NOTHING
	`, text, formatTime(time.Now()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create keyword: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	var kw Keyword
	var createdAt string
	err = r.db.QueryRowContext(ctx, `
		SELECT id, keyword, created_at
		FROM keywords
		WHERE keyword = ?
	`, text).Scan(&kw.ID, &kw.Text, &createdAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load keyword: %w", err)
	}
	if kw.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, false, err
	}

	return &kw, affected > 0, nil
}

// DeleteKeyword removes a keyword. Entries already tagged with it keep the tag.
func (r *KeywordRepository) DeleteKeyword(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM keywords WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
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
