package db

import "errors"

// Domain-level database error sentinels.
var (
	// Catalog errors
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrDuplicateCode        = errors.New("catalog code already exists")

	// Lexicon errors
	ErrKeywordNotFound = errors.New("keyword not found")

	// Cache errors
	ErrCacheMiss = errors.New("cache entry not found or expired")

	// Government item errors
	ErrGovItemNotFound = errors.New("government item not found")
)
