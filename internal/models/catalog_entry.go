package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogEntry is a locally cached mapping from free-text descriptions to an
// official catalog code. Entries are created on the first successful
// resolution; the keyword bag grows by union on reuse and the consultation
// counter increments on every hit.
type CatalogEntry struct {
	ID            uuid.UUID        `json:"id"`
	Code          int64            `json:"code"`
	Description   string           `json:"description"`
	ShortName     string           `json:"short_name"`
	Category      string           `json:"category"`
	Subcategory   *string          `json:"subcategory"`
	Keywords      string           `json:"keywords"` // space-separated, deduplicated
	Confidence    float64          `json:"confidence"`
	ConsultCount  int64            `json:"consult_count"`
	AvgGovPrice   *decimal.Decimal `json:"avg_gov_price"`
	LastConsulted *time.Time       `json:"last_consulted"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
