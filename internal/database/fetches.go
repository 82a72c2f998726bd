package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// PutPage stores page, replacing any earlier response for the same URL.
func (cdb *CrawlDB) PutPage(ctx context.Context, page *model.Page) error {
	query := `
	INSERT INTO fetches (url, status_code, content_type, body, hash, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		hash = excluded.hash,
		fetched_at = excluded.fetched_at
	`

	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := cdb.db.ExecContext(ctx, query,
		page.URL,
		page.StatusCode,
		page.ContentType,
		page.Body,
		page.Hash,
		formatTimestamp(fetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to store page %s: %w", page.URL, err)
	}
	return nil
}

// GetPage returns the stored response for url, or nil if there is none.
func (cdb *CrawlDB) GetPage(ctx context.Context, url string) (*model.Page, error) {
	query := `
	SELECT url, status_code, content_type, body, hash, fetched_at
	FROM fetches
	WHERE url = ?
	`

	var (
		page      model.Page
		fetchedAt string
	)
	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&page.URL,
		&page.StatusCode,
		&page.ContentType,
		&page.Body,
		&page.Hash,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", url, err)
	}
	page.FetchedAt = parseTimestamp(fetchedAt)
	return &page, nil
}

// FetchStats summarizes the fetches table.
type FetchStats struct {
	Pages  int
	Bytes  int64
	Oldest time.Time
	Newest time.Time
}

// FetchStats returns counts over the stored pages.
func (cdb *CrawlDB) FetchStats(ctx context.Context) (FetchStats, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0),
		COALESCE(MIN(fetched_at), ''), COALESCE(MAX(fetched_at), '')
	FROM fetches
	`

	var (
		stats          FetchStats
		oldest, newest string
	)
	if err := cdb.db.QueryRowContext(ctx, query).Scan(&stats.Pages, &stats.Bytes, &oldest, &newest); err != nil {
		return FetchStats{}, fmt.Errorf("failed to read fetch stats: %w", err)
	}
	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)
	return stats, nil
}

// PruneFetches deletes pages fetched before cutoff and returns how many
// were removed.
func (cdb *CrawlDB) PruneFetches(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := cdb.db.ExecContext(ctx, `DELETE FROM fetches WHERE fetched_at < ?`, formatTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune fetches: %w", err)
	}
	return result.RowsAffected()
}
