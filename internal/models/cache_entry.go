package models

import (
	"time"

	"github.com/google/uuid"
)

// CacheEntry is one cached external-lookup result. An entry is a miss once
// now > ExpiresAt even if the row is still physically present.
type CacheEntry struct {
	ID          uuid.UUID `json:"id"`
	Subject     string    `json:"subject"`
	Key         string    `json:"key"`
	Payload     []byte    `json:"payload"`
	RecordCount int       `json:"record_count"`
	QueryTimeMS int64     `json:"query_time_ms"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessCount int64     `json:"access_count"`
	LastAccess  time.Time `json:"last_access"`
}

// CacheStats is the observability surface of the query cache. It feeds the
// health report and the metrics endpoint; it has no bearing on correctness.
type CacheStats struct {
	TotalEntries  int64      `json:"total_entries"`
	TotalHits     int64      `json:"total_hits"`
	ValidEntries  int64      `json:"valid_entries"`
	Expired       int64      `json:"expired_entries"`
	PercentValid  float64    `json:"percent_valid"`
	AvgQueryMS    float64    `json:"avg_query_ms"`
	MedianQueryMS float64    `json:"median_query_ms"`
	P95QueryMS    float64    `json:"p95_query_ms"`
	LastAccess    *time.Time `json:"last_access"`
}

// CacheSubjectUsage ranks a cached subject by how often it was read.
type CacheSubjectUsage struct {
	Subject     string     `json:"subject"`
	AccessCount int64      `json:"access_count"`
	RecordCount int        `json:"record_count"`
	LastAccess  *time.Time `json:"last_access"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// CacheHealth aggregates stats plus advisory warnings.
type CacheHealth struct {
	Status string     `json:"status"` // "ok" or "warning"
	Issues []string   `json:"issues"`
	Stats  CacheStats `json:"stats"`
}
