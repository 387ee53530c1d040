package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"priceintel/internal/models"
)

func putTestCacheEntry(t *testing.T, database *DB, subject, key string, expiresAt time.Time) {
	t.Helper()
	entry := &models.CacheEntry{
		ID:          uuid.New(),
		Subject:     subject,
		Key:         key,
		Payload:     []byte(`{"items":[]}`),
		RecordCount: 0,
		QueryTimeMS: 10,
		ExpiresAt:   expiresAt,
		AccessCount: 1,
		LastAccess:  time.Now(),
	}
	if err := database.PutCacheEntry(context.Background(), entry); err != nil {
		t.Fatalf("PutCacheEntry: %v", err)
	}
}

func TestCacheEntryHitBumpsAccess(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	putTestCacheEntry(t, database, "notebook", "key-1", time.Now().Add(time.Hour))

	first, err := database.GetCacheEntry(ctx, "key-1")
	if err != nil {
		t.Fatalf("GetCacheEntry: %v", err)
	}
	second, err := database.GetCacheEntry(ctx, "key-1")
	if err != nil {
		t.Fatalf("GetCacheEntry: %v", err)
	}
	if second.AccessCount != first.AccessCount+1 {
		t.Errorf("access count = %d then %d, want an increment per hit",
			first.AccessCount, second.AccessCount)
	}
}

func TestCacheEntryExpiredIsMiss(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	putTestCacheEntry(t, database, "notebook", "key-expired", time.Now().Add(-time.Minute))

	if _, err := database.GetCacheEntry(ctx, "key-expired"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss for an expired entry", err)
	}

	purged, err := database.PurgeExpiredCache(ctx)
	if err != nil {
		t.Fatalf("PurgeExpiredCache: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
}

func TestEvictLeastUsed(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Three entries; bump the last two so key-0 is the least used.
	for i := 0; i < 3; i++ {
		putTestCacheEntry(t, database, "notebook", fmt.Sprintf("key-%d", i), time.Now().Add(time.Hour))
	}
	for i := 1; i < 3; i++ {
		if _, err := database.GetCacheEntry(ctx, fmt.Sprintf("key-%d", i)); err != nil {
			t.Fatalf("GetCacheEntry: %v", err)
		}
	}

	evicted, err := database.EvictLeastUsed(ctx, 1)
	if err != nil {
		t.Fatalf("EvictLeastUsed: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}

	if _, err := database.GetCacheEntry(ctx, "key-0"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("key-0 should have been evicted, err = %v", err)
	}
	if _, err := database.GetCacheEntry(ctx, "key-2"); err != nil {
		t.Errorf("key-2 should have survived: %v", err)
	}
}

func TestInvalidateCacheSubject(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	putTestCacheEntry(t, database, "notebook", "key-a", time.Now().Add(time.Hour))
	putTestCacheEntry(t, database, "chair", "key-b", time.Now().Add(time.Hour))

	expired, err := database.InvalidateCacheSubject(ctx, "notebook")
	if err != nil {
		t.Fatalf("InvalidateCacheSubject: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}

	if _, err := database.GetCacheEntry(ctx, "key-a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("invalidated subject still readable, err = %v", err)
	}
	if _, err := database.GetCacheEntry(ctx, "key-b"); err != nil {
		t.Errorf("other subject affected: %v", err)
	}
}

func TestCacheStats(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	putTestCacheEntry(t, database, "notebook", "key-valid", time.Now().Add(time.Hour))
	putTestCacheEntry(t, database, "chair", "key-dead", time.Now().Add(-time.Hour))

	stats, err := database.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("total = %d, want 2", stats.TotalEntries)
	}
	if stats.ValidEntries != 1 || stats.Expired != 1 {
		t.Errorf("valid/expired = %d/%d, want 1/1", stats.ValidEntries, stats.Expired)
	}
	if stats.PercentValid != 50 {
		t.Errorf("percent valid = %v, want 50", stats.PercentValid)
	}
}

func TestTopCacheSubjects(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	putTestCacheEntry(t, database, "notebook", "key-hot", time.Now().Add(time.Hour))
	putTestCacheEntry(t, database, "chair", "key-cold", time.Now().Add(time.Hour))
	for i := 0; i < 3; i++ {
		if _, err := database.GetCacheEntry(ctx, "key-hot"); err != nil {
			t.Fatalf("GetCacheEntry: %v", err)
		}
	}

	subjects, err := database.TopCacheSubjects(ctx, 5)
	if err != nil {
		t.Fatalf("TopCacheSubjects: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(subjects))
	}
	if subjects[0].Subject != "notebook" {
		t.Errorf("hottest subject = %q, want notebook", subjects[0].Subject)
	}
}
