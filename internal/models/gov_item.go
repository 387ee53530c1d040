package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GovItem is a government-contracted line item with its registered unit
// price. Rows come from synced procurement records; the storage engine
// behind them is plumbing, the comparator only reads.
type GovItem struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Agency       string          `json:"agency"`
	Region       *string         `json:"region"`
	CatalogCode  *int64          `json:"catalog_code"`
	NoticeNumber *string         `json:"notice_number"`
	ValidUntil   *time.Time      `json:"valid_until"`
	CreatedAt    time.Time       `json:"created_at"`
}
