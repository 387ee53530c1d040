package jobs

import (
	"context"
	"log"
	"time"

	"priceintel/internal/cache"
)

// CacheMaintainer periodically purges expired and stale query cache rows so
// the inline eviction path rarely has to fire.
type CacheMaintainer struct {
	cache    *cache.Cache
	interval time.Duration
}

// NewCacheMaintainer creates a new cache maintenance job.
func NewCacheMaintainer(c *cache.Cache, interval time.Duration) *CacheMaintainer {
	return &CacheMaintainer{cache: c, interval: interval}
}

// Start begins the background maintenance loop.
func (m *CacheMaintainer) Start(ctx context.Context) {
	log.Printf("Cache maintainer started (interval: %v)", m.interval)

	// Run immediately on start
	m.run(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache maintainer stopped")
			return
		case <-ticker.C:
			m.run(ctx)
		}
	}
}

func (m *CacheMaintainer) run(ctx context.Context) {
	expired, err := m.cache.PurgeExpired(ctx)
	if err != nil {
		log.Printf("Cache maintainer: failed to purge expired entries: %v", err)
	} else if expired > 0 {
		log.Printf("Cache maintainer: purged %d expired entries", expired)
	}

	stale, err := m.cache.PurgeStale(ctx)
	if err != nil {
		log.Printf("Cache maintainer: failed to purge stale entries: %v", err)
	} else if stale > 0 {
		log.Printf("Cache maintainer: purged %d stale entries", stale)
	}
}
