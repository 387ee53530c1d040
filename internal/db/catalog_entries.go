package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"priceintel/internal/models"
)

// CatalogSearchResult pairs a catalog entry with its combined relevance
// score: raw full-text rank plus the exact-substring boost.
type CatalogSearchResult struct {
	Entry models.CatalogEntry
	Score float64
}

// Substring boosts added on top of the full-text rank when the nucleus word
// appears verbatim in a catalog field.
const (
	boostDescription = 100
	boostShortName   = 80
	boostSubcategory = 40
	boostCategory    = 30
)

// SearchCatalogEntries runs a full-text relevance query over the catalog
// cache. The nucleus word, when present, adds a fixed boost for exact
// substring matches so concrete nouns outrank loosely related entries.
func (d *DB) SearchCatalogEntries(ctx context.Context, term, nucleus string, limit int) ([]CatalogSearchResult, error) {
	likePattern := "%"
	if nucleus != "" {
		likePattern = "%" + nucleus + "%"
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT
			id, code, description, short_name, category, subcategory,
			keywords, confidence, consult_count, avg_gov_price,
			last_consulted, created_at, updated_at,
			ts_rank(search_vector, query) +
			CASE
				WHEN description ILIKE $2 THEN $3::float8
				WHEN short_name ILIKE $2 THEN $4::float8
				WHEN coalesce(subcategory, '') ILIKE $2 THEN $5::float8
				WHEN category ILIKE $2 THEN $6::float8
				ELSE 0
			END AS score
		FROM catalog_entries, plainto_tsquery('simple', $1) query
		WHERE search_vector @@ query
		ORDER BY score DESC, consult_count DESC, confidence DESC
		LIMIT $7
	`, term, likePattern, boostDescription, boostShortName, boostSubcategory, boostCategory, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog entries: %w", err)
	}
	defer rows.Close()

	return scanCatalogResults(rows)
}

// FuzzyCatalogCandidates fetches entries whose description or keyword bag
// contains the given word. Used by the looser fallback tier when the
// full-text search and the external API both come up empty.
func (d *DB) FuzzyCatalogCandidates(ctx context.Context, word string, limit int) ([]models.CatalogEntry, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT
			id, code, description, short_name, category, subcategory,
			keywords, confidence, consult_count, avg_gov_price,
			last_consulted, created_at, updated_at
		FROM catalog_entries
		WHERE description ILIKE '%' || $1 || '%'
		   OR keywords ILIKE '%' || $1 || '%'
		ORDER BY consult_count DESC, confidence DESC
		LIMIT $2
	`, word, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fuzzy candidates: %w", err)
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetCatalogEntryByCode looks up a single entry by its official code.
func (d *DB) GetCatalogEntryByCode(ctx context.Context, code int64) (*models.CatalogEntry, error) {
	row := d.Pool.QueryRow(ctx, `
		SELECT
			id, code, description, short_name, category, subcategory,
			keywords, confidence, consult_count, avg_gov_price,
			last_consulted, created_at, updated_at
		FROM catalog_entries
		WHERE code = $1
	`, code)

	e, err := scanCatalogEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	return &e, nil
}

// InsertCatalogEntry persists a newly resolved mapping.
func (d *DB) InsertCatalogEntry(ctx context.Context, e *models.CatalogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO catalog_entries (
			id, code, description, short_name, category, subcategory,
			keywords, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO NOTHING
	`, e.ID, e.Code, e.Description, e.ShortName, e.Category, e.Subcategory, e.Keywords, e.Confidence)
	if err != nil {
		return fmt.Errorf("failed to insert catalog entry: %w", err)
	}
	return nil
}

// MergeCatalogKeywords grows an entry's keyword bag by union with the new
// keywords, preserving first-seen order and dropping duplicates.
func (d *DB) MergeCatalogKeywords(ctx context.Context, code int64, newKeywords string) error {
	var current string
	err := d.Pool.QueryRow(ctx, `
		SELECT keywords FROM catalog_entries WHERE code = $1
	`, code).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCatalogEntryNotFound
		}
		return fmt.Errorf("failed to read keywords: %w", err)
	}

	merged := mergeKeywordBags(current, newKeywords)
	if merged == current {
		return nil
	}

	_, err = d.Pool.Exec(ctx, `
		UPDATE catalog_entries
		SET keywords = $2, updated_at = NOW()
		WHERE code = $1
	`, code, merged)
	if err != nil {
		return fmt.Errorf("failed to merge keywords: %w", err)
	}
	return nil
}

// IncrementConsultCount bumps the consultation counter on every cache hit.
func (d *DB) IncrementConsultCount(ctx context.Context, code int64) error {
	_, err := d.Pool.Exec(ctx, `
		UPDATE catalog_entries
		SET consult_count = consult_count + 1, last_consulted = NOW()
		WHERE code = $1
	`, code)
	return err
}

// mergeKeywordBags unions two space-separated keyword bags, lowercased,
// keeping first occurrence order.
func mergeKeywordBags(current, added string) string {
	seen := make(map[string]bool)
	var merged []string
	for _, w := range strings.Fields(strings.ToLower(current + " " + added)) {
		if !seen[w] {
			seen[w] = true
			merged = append(merged, w)
		}
	}
	return strings.Join(merged, " ")
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogEntry(row rowScanner) (models.CatalogEntry, error) {
	var e models.CatalogEntry
	err := row.Scan(
		&e.ID, &e.Code, &e.Description, &e.ShortName, &e.Category,
		&e.Subcategory, &e.Keywords, &e.Confidence, &e.ConsultCount,
		&e.AvgGovPrice, &e.LastConsulted, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanCatalogResults(rows pgx.Rows) ([]CatalogSearchResult, error) {
	var results []CatalogSearchResult
	for rows.Next() {
		var r CatalogSearchResult
		err := rows.Scan(
			&r.Entry.ID, &r.Entry.Code, &r.Entry.Description, &r.Entry.ShortName,
			&r.Entry.Category, &r.Entry.Subcategory, &r.Entry.Keywords,
			&r.Entry.Confidence, &r.Entry.ConsultCount, &r.Entry.AvgGovPrice,
			&r.Entry.LastConsulted, &r.Entry.CreatedAt, &r.Entry.UpdatedAt,
			&r.Score,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
