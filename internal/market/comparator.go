// Package market compares registered government prices against live
// marketplace offers and surfaces the overpriced contracts.
package market

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"priceintel/internal/config"
	"priceintel/internal/db"
	"priceintel/internal/matcher"
	"priceintel/internal/metrics"
	"priceintel/internal/models"
	"priceintel/internal/validation"
)

const offerFetchSize = 50

// GovStore reads registered government line items.
type GovStore interface {
	SearchGovItems(ctx context.Context, term string, filter db.GovItemFilter) ([]models.GovItem, error)
}

// Marketplace searches live offers.
type Marketplace interface {
	SearchOffers(ctx context.Context, keyword string, limit int) ([]models.MarketOffer, error)
}

// Comparator pairs government items with marketplace offers and classifies
// the price margins. Marketplace outages degrade to government-only output
// with a warning instead of failing the whole comparison.
type Comparator struct {
	gov     GovStore
	market  Marketplace
	scoring config.Scoring
	logger  *slog.Logger
}

func NewComparator(gov GovStore, market Marketplace, scoring config.Scoring, logger *slog.Logger) *Comparator {
	return &Comparator{gov: gov, market: market, scoring: scoring, logger: logger}
}

// FindOpportunities runs the full comparison for a search term. Only pairs
// where the marketplace price strictly undercuts the registered price become
// opportunities; results are ranked by absolute margin, largest first.
func (c *Comparator) FindOpportunities(ctx context.Context, term string, filter db.GovItemFilter) (*models.ComparisonResult, error) {
	term, err := validation.SearchTerm(term)
	if err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		Term:          term,
		Opportunities: []models.Opportunity{},
	}

	govItems, err := c.gov.SearchGovItems(ctx, term, filter)
	if err != nil {
		return nil, err
	}
	result.GovItems = govItems
	if len(govItems) == 0 {
		result.Warnings = append(result.Warnings, "no government items matched the term")
		return result, nil
	}

	start := time.Now()
	offers, err := c.market.SearchOffers(ctx, term, offerFetchSize)
	metrics.ObserveExternalCall("marketplace", time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("marketplace unavailable, returning government data only",
			"term", term, "error", err)
		result.Warnings = append(result.Warnings, "marketplace unavailable; government data only")
		return result, nil
	}
	result.MarketOffers = offers
	if len(offers) == 0 {
		result.Warnings = append(result.Warnings, "no marketplace offers found for the term")
		return result, nil
	}

	for _, gov := range govItems {
		offer, score := bestOffer(gov, offers, c.scoring.PairThreshold)
		if opp, ok := c.buildOpportunity(gov, offer, score); ok {
			result.Opportunities = append(result.Opportunities, opp)
		}
	}

	sort.SliceStable(result.Opportunities, func(i, j int) bool {
		return result.Opportunities[i].Margin.GreaterThan(result.Opportunities[j].Margin)
	})
	return result, nil
}

// bestOffer picks the offer whose title best overlaps the item description.
// Below the threshold the first offer stands in, since the whole offer list
// already came from the same search term.
func bestOffer(gov models.GovItem, offers []models.MarketOffer, threshold float64) (models.MarketOffer, float64) {
	best := offers[0]
	bestScore := 0.0
	for _, offer := range offers {
		score := matcher.WordOverlap(gov.Description, offer.Title)
		if score > bestScore {
			best = offer
			bestScore = score
		}
	}
	if bestScore <= threshold {
		return offers[0], matcher.WordOverlap(gov.Description, offers[0].Title)
	}
	return best, bestScore
}

// buildOpportunity computes the margin for a pairing. Pairs where the
// government price does not strictly exceed the offer are dropped.
func (c *Comparator) buildOpportunity(gov models.GovItem, offer models.MarketOffer, score float64) (models.Opportunity, bool) {
	margin := gov.UnitPrice.Sub(offer.Price)
	if !margin.IsPositive() || !gov.UnitPrice.IsPositive() {
		return models.Opportunity{}, false
	}

	// Classification uses the exact percentage; rounding is display only,
	// so 29.999% stays below the 30% cutoff.
	pct := margin.Div(gov.UnitPrice).Mul(decimal.NewFromInt(100))
	return models.Opportunity{
		Gov:        gov,
		Offer:      offer,
		Margin:     margin.Round(2),
		MarginPct:  pct.Round(2),
		Tier:       c.classify(pct),
		MatchScore: score,
	}, true
}

func (c *Comparator) classify(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(c.scoring.MarginExcellent)):
		return models.TierExcellent
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(c.scoring.MarginVeryGood)):
		return models.TierVeryGood
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(c.scoring.MarginGood)):
		return models.TierGood
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(c.scoring.MarginReasonable)):
		return models.TierReasonable
	default:
		return models.TierLow
	}
}
