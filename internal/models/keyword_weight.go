package models

import "time"

// Weight bounds for the learned lexicon. Feedback can never push a word
// outside this range.
const (
	MinKeywordWeight = 0.5
	MaxKeywordWeight = 3.0

	// DefaultKeywordWeight is assumed for words the lexicon has never seen.
	DefaultKeywordWeight = 1.0
)

// KeywordWeight is a learned multiplier reflecting how useful a word has
// historically been for catalog resolution. Rows are created on first
// extraction and never deleted; the weight moves only via explicit feedback.
type KeywordWeight struct {
	Word        string    `json:"word"`
	Weight      float64   `json:"weight"`
	Occurrences int64     `json:"occurrences"`
	LastUpdated time.Time `json:"last_updated"`
}
