// Package cache is the TTL- and capacity-bounded store for expensive
// external query results, keyed by a digest of the subject and its filters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"priceintel/internal/db"
	"priceintel/internal/metrics"
	"priceintel/internal/models"
)

const (
	// DefaultTTL keeps results for a week; procurement prices move slowly.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultCapacity bounds the table; crossing it evicts the
	// least-used tenth before the insert.
	DefaultCapacity = 10000
	// DefaultStaleAfter is how long an entry may go unread before the
	// maintenance job drops it regardless of TTL.
	DefaultStaleAfter = 30 * 24 * time.Hour

	evictFraction = 10 // one tenth
)

// Store is the persistence slice the cache needs.
type Store interface {
	GetCacheEntry(ctx context.Context, key string) (*models.CacheEntry, error)
	PutCacheEntry(ctx context.Context, e *models.CacheEntry) error
	CountCacheEntries(ctx context.Context) (int64, error)
	EvictLeastUsed(ctx context.Context, n int) (int64, error)
	InvalidateCacheSubject(ctx context.Context, subject string) (int64, error)
	PurgeExpiredCache(ctx context.Context) (int64, error)
	PurgeStaleCache(ctx context.Context, unusedFor time.Duration) (int64, error)
	CacheStats(ctx context.Context) (models.CacheStats, error)
	TopCacheSubjects(ctx context.Context, limit int) ([]models.CacheSubjectUsage, error)
}

// Cache fronts the query_cache table with deterministic keys, TTL expiry and
// capacity-triggered eviction.
type Cache struct {
	store    Store
	capacity int64
	ttl      time.Duration
	logger   *slog.Logger
}

func New(store Store, capacity int64, ttl time.Duration, logger *slog.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, capacity: capacity, ttl: ttl, logger: logger}
}

// Get returns the payload cached for (subject, filters), or db.ErrCacheMiss
// for both absent and expired entries. A hit bumps the entry's access count.
func (c *Cache) Get(ctx context.Context, subject string, filters map[string]string) (*models.CacheEntry, error) {
	key, err := Key(subject, filters)
	if err != nil {
		return nil, err
	}

	entry, err := c.store.GetCacheEntry(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrCacheMiss) {
			metrics.RecordCacheLookup("miss")
		}
		return nil, err
	}
	metrics.RecordCacheLookup("hit")
	return entry, nil
}

// Set stores payload under (subject, filters). When the table is at
// capacity the least-used tenth is evicted first; an eviction failure is
// logged but does not block the write.
func (c *Cache) Set(ctx context.Context, subject string, filters map[string]string, payload []byte, recordCount int, queryTime time.Duration) error {
	key, err := Key(subject, filters)
	if err != nil {
		return err
	}

	count, err := c.store.CountCacheEntries(ctx)
	if err != nil {
		c.logger.Error("cache count failed", "error", err)
	} else if count >= c.capacity {
		evicted, err := c.store.EvictLeastUsed(ctx, int(c.capacity/evictFraction))
		if err != nil {
			c.logger.Error("cache eviction failed", "error", err)
		} else {
			c.logger.Info("cache evicted least-used entries", "evicted", evicted)
		}
	}

	now := time.Now()
	entry := &models.CacheEntry{
		ID:          uuid.New(),
		Subject:     subject,
		Key:         key,
		Payload:     payload,
		RecordCount: recordCount,
		QueryTimeMS: queryTime.Milliseconds(),
		ExpiresAt:   now.Add(c.ttl),
		AccessCount: 1,
		LastAccess:  now,
	}
	if err := c.store.PutCacheEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to cache %q: %w", subject, err)
	}
	return nil
}

// Invalidate expires every entry for the subject without deleting rows, so
// stats keep seeing them until the next purge.
func (c *Cache) Invalidate(ctx context.Context, subject string) (int64, error) {
	return c.store.InvalidateCacheSubject(ctx, subject)
}

// PurgeExpired deletes entries past their TTL.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	return c.store.PurgeExpiredCache(ctx)
}

// PurgeStale deletes entries unread for DefaultStaleAfter.
func (c *Cache) PurgeStale(ctx context.Context) (int64, error) {
	return c.store.PurgeStaleCache(ctx, DefaultStaleAfter)
}

// Stats reports cache usage and latency aggregates.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	return c.store.CacheStats(ctx)
}

// TopSubjects lists the most-read cached subjects.
func (c *Cache) TopSubjects(ctx context.Context, limit int) ([]models.CacheSubjectUsage, error) {
	return c.store.TopCacheSubjects(ctx, limit)
}

// Health evaluates the stats against advisory thresholds. Issues never make
// the cache unusable; they flag that a purge or a capacity bump is due.
func (c *Cache) Health(ctx context.Context) (models.CacheHealth, error) {
	stats, err := c.store.CacheStats(ctx)
	if err != nil {
		return models.CacheHealth{}, err
	}

	issues := []string{}
	if stats.Expired > 100 {
		issues = append(issues, fmt.Sprintf("%d expired entries awaiting purge", stats.Expired))
	}
	if stats.TotalEntries > 0 && stats.PercentValid < 50 {
		issues = append(issues, fmt.Sprintf("only %.1f%% of entries still valid", stats.PercentValid))
	}
	if float64(stats.TotalEntries) > float64(c.capacity)*0.9 {
		issues = append(issues, fmt.Sprintf("cache at %d of %d capacity", stats.TotalEntries, c.capacity))
	}

	status := "ok"
	if len(issues) > 0 {
		status = "warning"
	}
	return models.CacheHealth{Status: status, Issues: issues, Stats: stats}, nil
}
