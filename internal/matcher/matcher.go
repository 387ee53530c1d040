package matcher

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"priceintel/internal/clients"
	"priceintel/internal/config"
	"priceintel/internal/db"
	"priceintel/internal/extractor"
	"priceintel/internal/metrics"
	"priceintel/internal/models"
)

const (
	// DefaultMinScore is the similarity floor for accepting an external
	// catalog candidate. The fuzzy fallback relaxes it by 20%.
	DefaultMinScore   = 0.7
	fuzzyRelaxFactor  = 0.8
	externalFetchSize = 10
	fuzzyFetchSize    = 5
	fuzzyProbeWords   = 3
)

// CatalogStore is the slice of the database layer the matcher needs.
type CatalogStore interface {
	SearchCatalogEntries(ctx context.Context, term, nucleus string, limit int) ([]db.CatalogSearchResult, error)
	FuzzyCatalogCandidates(ctx context.Context, word string, limit int) ([]models.CatalogEntry, error)
	InsertCatalogEntry(ctx context.Context, e *models.CatalogEntry) error
	MergeCatalogKeywords(ctx context.Context, code int64, keywords string) error
	IncrementConsultCount(ctx context.Context, code int64) error
}

// ExternalCatalog is the official catalog service.
type ExternalCatalog interface {
	Search(ctx context.Context, term string, limit int) ([]clients.CatalogItem, error)
}

// Options tune a single resolution.
type Options struct {
	// ForceExternal skips the local tier and goes straight to the catalog
	// service, refreshing the stored entry.
	ForceExternal bool
	// MinScore overrides the configured similarity floor when > 0.
	MinScore float64
}

// Matcher resolves free-text item descriptions to official catalog codes,
// trying the local store first, then the external catalog, then a fuzzy
// sweep of the local store with a relaxed threshold.
type Matcher struct {
	store     CatalogStore
	external  ExternalCatalog
	extractor *extractor.Extractor
	scoring   config.Scoring
	logger    *slog.Logger
}

func New(store CatalogStore, external ExternalCatalog, ex *extractor.Extractor, scoring config.Scoring, logger *slog.Logger) *Matcher {
	return &Matcher{store: store, external: external, extractor: ex, scoring: scoring, logger: logger}
}

// Resolve maps text to a catalog code, or nil when no tier produces an
// acceptable match. Failures along the way are logged and degrade to the
// next tier; Resolve itself never fails.
func (m *Matcher) Resolve(ctx context.Context, text string, opts Options) *models.CatalogMatch {
	text = strings.TrimSpace(text)
	if len(text) < 3 {
		return nil
	}

	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = m.scoring.MinMatchScore
	}
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	if !opts.ForceExternal {
		if match := m.fromStore(ctx, text, minScore); match != nil {
			metrics.RecordResolution(match.Source)
			return match
		}
	}

	if match := m.fromExternal(ctx, text, minScore); match != nil {
		metrics.RecordResolution(match.Source)
		return match
	}

	if match := m.fromFuzzy(ctx, text, minScore*fuzzyRelaxFactor); match != nil {
		metrics.RecordResolution(match.Source)
		return match
	}

	m.logger.Info("no catalog match", "text", text)
	return nil
}

// fromStore runs the ranked full-text lookup against locally stored entries.
// A hit only counts when its combined score clears minScore; weak matches
// fall through to the external tier.
func (m *Matcher) fromStore(ctx context.Context, text string, minScore float64) *models.CatalogMatch {
	term := extractor.DeriveSearchTerm(text)
	if term == "" {
		return nil
	}
	nucleus := strings.Fields(term)[0]

	results, err := m.store.SearchCatalogEntries(ctx, term, nucleus, 1)
	if err != nil {
		m.logger.Error("catalog store lookup failed", "term", term, "error", err)
		return nil
	}
	if len(results) == 0 || results[0].Score < minScore {
		return nil
	}

	entry := results[0].Entry
	if err := m.store.IncrementConsultCount(ctx, entry.Code); err != nil {
		m.logger.Error("failed to increment consult count", "code", entry.Code, "error", err)
	}
	return &models.CatalogMatch{
		Code:         entry.Code,
		Description:  entry.Description,
		Category:     entry.Category,
		Subcategory:  entry.Subcategory,
		Confidence:   entry.Confidence,
		Source:       models.MatchSourceCache,
		ConsultCount: entry.ConsultCount + 1,
	}
}

// fromExternal queries the catalog service and keeps the best candidate if
// it clears minScore, persisting it for future local hits.
func (m *Matcher) fromExternal(ctx context.Context, text string, minScore float64) *models.CatalogMatch {
	term := m.extractor.Extract(ctx, text, 3).Term()
	if term == "" {
		return nil
	}

	start := time.Now()
	items, err := m.external.Search(ctx, term, externalFetchSize)
	metrics.ObserveExternalCall("catalog", time.Since(start).Seconds())
	if err != nil {
		m.logger.Error("external catalog search failed", "term", term, "error", err)
		return nil
	}

	var best *clients.CatalogItem
	bestScore := 0.0
	for i := range items {
		score := Similarity(text, items[i].Description)
		if score > bestScore {
			best = &items[i]
			bestScore = score
		}
	}
	if best == nil || bestScore < minScore {
		return nil
	}

	m.persist(ctx, text, best, bestScore)

	var sub *string
	if best.Subcategory != "" {
		sub = &best.Subcategory
	}
	return &models.CatalogMatch{
		Code:        best.Code,
		Description: best.Description,
		Category:    best.Category,
		Subcategory: sub,
		Confidence:  bestScore,
		Source:      models.MatchSourceExternal,
	}
}

// fromFuzzy probes the local store word by word with substring matching,
// accepting anything above the relaxed threshold.
func (m *Matcher) fromFuzzy(ctx context.Context, text string, threshold float64) *models.CatalogMatch {
	var best *models.CatalogEntry
	bestScore := 0.0

	probes := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) < 3 {
			continue
		}
		probes++
		if probes > fuzzyProbeWords {
			break
		}

		candidates, err := m.store.FuzzyCatalogCandidates(ctx, word, fuzzyFetchSize)
		if err != nil {
			m.logger.Error("fuzzy catalog probe failed", "word", word, "error", err)
			continue
		}
		for i := range candidates {
			score := Similarity(text, candidates[i].Description)
			if score > bestScore {
				best = &candidates[i]
				bestScore = score
			}
		}
	}

	if best == nil || bestScore < threshold {
		return nil
	}

	if err := m.store.IncrementConsultCount(ctx, best.Code); err != nil {
		m.logger.Error("failed to increment consult count", "code", best.Code, "error", err)
	}
	return &models.CatalogMatch{
		Code:         best.Code,
		Description:  best.Description,
		Category:     best.Category,
		Subcategory:  best.Subcategory,
		Confidence:   bestScore,
		Source:       models.MatchSourceCacheFuzzy,
		ConsultCount: best.ConsultCount + 1,
	}
}

// persist stores an accepted external candidate locally. If the code already
// exists the keyword bag is merged instead, so repeated resolutions widen
// the entry's reach.
func (m *Matcher) persist(ctx context.Context, text string, item *clients.CatalogItem, score float64) {
	keywords := m.extractor.Extract(ctx, text, 10).Term()

	var sub *string
	if item.Subcategory != "" {
		sub = &item.Subcategory
	}
	entry := &models.CatalogEntry{
		ID:          uuid.New(),
		Code:        item.Code,
		Description: item.Description,
		ShortName:   item.ShortName,
		Category:    item.Category,
		Subcategory: sub,
		Keywords:    keywords,
		Confidence:  score,
	}
	if err := m.store.InsertCatalogEntry(ctx, entry); err != nil {
		m.logger.Error("failed to store catalog entry", "code", item.Code, "error", err)
		return
	}
	if err := m.store.MergeCatalogKeywords(ctx, item.Code, keywords); err != nil {
		m.logger.Error("failed to merge catalog keywords", "code", item.Code, "error", err)
	}
	if err := m.store.IncrementConsultCount(ctx, item.Code); err != nil {
		m.logger.Error("failed to increment consult count", "code", item.Code, "error", err)
	}
}

// Suggestion is one ranked candidate from the local store.
type Suggestion struct {
	Match models.CatalogMatch `json:"match"`
	Score float64             `json:"score"`
}

// Suggest returns up to limit ranked local candidates for the text without
// touching the external catalog or any counters. Used for typeahead.
func (m *Matcher) Suggest(ctx context.Context, text string, limit int) ([]Suggestion, error) {
	term := extractor.DeriveSearchTerm(text)
	if term == "" {
		return []Suggestion{}, nil
	}
	nucleus := strings.Fields(term)[0]

	results, err := m.store.SearchCatalogEntries(ctx, term, nucleus, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, Suggestion{
			Match: models.CatalogMatch{
				Code:         r.Entry.Code,
				Description:  r.Entry.Description,
				Category:     r.Entry.Category,
				Subcategory:  r.Entry.Subcategory,
				Confidence:   r.Entry.Confidence,
				Source:       models.MatchSourceCache,
				ConsultCount: r.Entry.ConsultCount,
			},
			Score: r.Score,
		})
	}
	return suggestions, nil
}
