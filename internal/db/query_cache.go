package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"priceintel/internal/models"
)

// GetCacheEntry reads a cache row by key. Expired rows are reported as a
// miss even while still physically present. A successful read increments the
// access counter and refreshes last_access inline.
func (d *DB) GetCacheEntry(ctx context.Context, key string) (*models.CacheEntry, error) {
	var e models.CacheEntry
	err := d.Pool.QueryRow(ctx, `
		UPDATE query_cache
		SET access_count = access_count + 1, last_access = NOW()
		WHERE cache_key = $1 AND expires_at > NOW()
		RETURNING id, subject, cache_key, payload, record_count,
		          query_time_ms, created_at, expires_at, access_count, last_access
	`, key).Scan(
		&e.ID, &e.Subject, &e.Key, &e.Payload, &e.RecordCount,
		&e.QueryTimeMS, &e.CreatedAt, &e.ExpiresAt, &e.AccessCount, &e.LastAccess,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return &e, nil
}

// PutCacheEntry upserts a cache row by key; an overwrite resets the access
// counter and the expiry clock.
func (d *DB) PutCacheEntry(ctx context.Context, e *models.CacheEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO query_cache (
			id, subject, cache_key, payload, record_count,
			query_time_ms, expires_at, access_count, last_access
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, NOW())
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			record_count = EXCLUDED.record_count,
			query_time_ms = EXCLUDED.query_time_ms,
			created_at = NOW(),
			expires_at = EXCLUDED.expires_at,
			access_count = 1,
			last_access = NOW()
	`, e.ID, e.Subject, e.Key, e.Payload, e.RecordCount, e.QueryTimeMS, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// CountCacheEntries returns the total number of rows, expired included.
func (d *DB) CountCacheEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM query_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// EvictLeastUsed deletes the n rows ranked lowest by access count, oldest
// access first. Returns the number of rows removed.
func (d *DB) EvictLeastUsed(ctx context.Context, n int) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `
		DELETE FROM query_cache
		WHERE id IN (
			SELECT id FROM query_cache
			ORDER BY access_count ASC, last_access ASC
			LIMIT $1
		)
	`, n)
	if err != nil {
		return 0, fmt.Errorf("failed to evict cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InvalidateCacheSubject expires every row for a subject without deleting
// the rows; the next read treats them as misses.
func (d *DB) InvalidateCacheSubject(ctx context.Context, subject string) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `
		UPDATE query_cache SET expires_at = NOW() WHERE subject = $1
	`, subject)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate cache subject: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeExpiredCache deletes rows past their expiry.
func (d *DB) PurgeExpiredCache(ctx context.Context) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM query_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeStaleCache deletes rows not read for the given duration.
func (d *DB) PurgeStaleCache(ctx context.Context, unusedFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-unusedFor)
	tag, err := d.Pool.Exec(ctx, `DELETE FROM query_cache WHERE last_access < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CacheStats aggregates the observability counters for the health report.
func (d *DB) CacheStats(ctx context.Context) (models.CacheStats, error) {
	var s models.CacheStats
	err := d.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(access_count), 0),
			COALESCE(SUM(CASE WHEN expires_at > NOW() THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at <= NOW() THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(query_time_ms), 0),
			COALESCE(percentile_cont(0.5) WITHIN GROUP (ORDER BY query_time_ms), 0),
			COALESCE(percentile_cont(0.95) WITHIN GROUP (ORDER BY query_time_ms), 0),
			MAX(last_access)
		FROM query_cache
	`).Scan(
		&s.TotalEntries, &s.TotalHits, &s.ValidEntries, &s.Expired,
		&s.AvgQueryMS, &s.MedianQueryMS, &s.P95QueryMS, &s.LastAccess,
	)
	if err != nil {
		return s, fmt.Errorf("failed to read cache stats: %w", err)
	}
	if s.TotalEntries > 0 {
		s.PercentValid = float64(s.ValidEntries) / float64(s.TotalEntries) * 100
	}
	return s, nil
}

// TopCacheSubjects lists the most-read valid subjects.
func (d *DB) TopCacheSubjects(ctx context.Context, limit int) ([]models.CacheSubjectUsage, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT subject, access_count, record_count, last_access, expires_at
		FROM query_cache
		WHERE expires_at > NOW()
		ORDER BY access_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top cache subjects: %w", err)
	}
	defer rows.Close()

	var usages []models.CacheSubjectUsage
	for rows.Next() {
		var u models.CacheSubjectUsage
		if err := rows.Scan(&u.Subject, &u.AccessCount, &u.RecordCount, &u.LastAccess, &u.ExpiresAt); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
