package models

// Resolution sources for a catalog match. Every tier of the matcher returns
// the same CatalogMatch shape so callers never inspect types at runtime.
const (
	MatchSourceCache      = "cache"
	MatchSourceExternal   = "external"
	MatchSourceCacheFuzzy = "cache_fuzzy"
)

// CatalogMatch is the unified result of resolving text to a catalog code,
// regardless of which tier (local cache, external API, fuzzy fallback)
// produced it.
type CatalogMatch struct {
	Code         int64   `json:"code"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Subcategory  *string `json:"subcategory,omitempty"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"source"`
	ConsultCount int64   `json:"consult_count"`
}
