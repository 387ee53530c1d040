package db

import (
	"context"
	"fmt"

	"priceintel/internal/models"
)

// GovItemFilter narrows a government item search.
type GovItemFilter struct {
	Region    string
	ValidOnly bool
	Limit     int
	Offset    int
}

// SearchGovItems free-text matches government-contracted line items against
// a search term. Falls back to a substring match when the full-text query
// finds nothing, mirroring the keyword fallback used by the catalog search.
func (d *DB) SearchGovItems(ctx context.Context, term string, filter GovItemFilter) ([]models.GovItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	items, err := d.queryGovItems(ctx, `
		SELECT
			id, description, unit_price, unit, quantity, agency, region,
			catalog_code, notice_number, valid_until, created_at
		FROM gov_items
		WHERE search_vector @@ plainto_tsquery('simple', $1)
		  AND ($2 = '' OR region = $2)
		  AND (NOT $3 OR valid_until IS NULL OR valid_until >= CURRENT_DATE)
		ORDER BY ts_rank(search_vector, plainto_tsquery('simple', $1)) DESC
		LIMIT $4 OFFSET $5
	`, term, filter.Region, filter.ValidOnly, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	return d.queryGovItems(ctx, `
		SELECT
			id, description, unit_price, unit, quantity, agency, region,
			catalog_code, notice_number, valid_until, created_at
		FROM gov_items
		WHERE description ILIKE '%' || $1 || '%'
		  AND ($2 = '' OR region = $2)
		  AND (NOT $3 OR valid_until IS NULL OR valid_until >= CURRENT_DATE)
		ORDER BY unit_price ASC
		LIMIT $4 OFFSET $5
	`, term, filter.Region, filter.ValidOnly, limit, filter.Offset)
}

func (d *DB) queryGovItems(ctx context.Context, query string, args ...any) ([]models.GovItem, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search gov items: %w", err)
	}
	defer rows.Close()

	var items []models.GovItem
	for rows.Next() {
		var it models.GovItem
		err := rows.Scan(
			&it.ID, &it.Description, &it.UnitPrice, &it.Unit, &it.Quantity,
			&it.Agency, &it.Region, &it.CatalogCode, &it.NoticeNumber,
			&it.ValidUntil, &it.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
