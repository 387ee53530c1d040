package market

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"priceintel/internal/config"
	"priceintel/internal/db"
	"priceintel/internal/models"
	"priceintel/internal/validation"
)

type fakeGovStore struct {
	items []models.GovItem
	err   error
}

func (f *fakeGovStore) SearchGovItems(ctx context.Context, term string, filter db.GovItemFilter) ([]models.GovItem, error) {
	return f.items, f.err
}

type fakeMarketplace struct {
	offers []models.MarketOffer
	err    error
}

func (f *fakeMarketplace) SearchOffers(ctx context.Context, keyword string, limit int) ([]models.MarketOffer, error) {
	return f.offers, f.err
}

func govItem(description string, price float64) models.GovItem {
	return models.GovItem{
		ID:          uuid.New(),
		Description: description,
		UnitPrice:   decimal.NewFromFloat(price),
		Unit:        "unit",
		Quantity:    decimal.NewFromInt(1),
		Agency:      "Test Agency",
	}
}

func offer(title string, price float64) models.MarketOffer {
	return models.MarketOffer{
		ID:    "OFF-" + title,
		Title: title,
		Price: decimal.NewFromFloat(price),
	}
}

func newTestComparator(gov *fakeGovStore, market *fakeMarketplace) *Comparator {
	return NewComparator(gov, market, config.DefaultScoring(), slog.Default())
}

func TestFindOpportunitiesRejectsShortTerm(t *testing.T) {
	c := newTestComparator(&fakeGovStore{}, &fakeMarketplace{})

	_, err := c.FindOpportunities(context.Background(), "ab", db.GovItemFilter{})
	var vErr *validation.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want a validation error", err)
	}
}

func TestFindOpportunitiesTierClassification(t *testing.T) {
	tests := []struct {
		name       string
		govPrice   float64
		offerPrice float64
		wantTier   string
	}{
		{"excellent at exactly 30 percent", 1000, 700, models.TierExcellent},
		{"very good just under 30 percent", 1000, 700.01, models.TierVeryGood},
		{"very good at 25 percent", 1000, 750, models.TierVeryGood},
		{"very good at exactly 20 percent", 1000, 800, models.TierVeryGood},
		{"good just under 20 percent", 1000, 800.01, models.TierGood},
		{"good at 15 percent", 1000, 850, models.TierGood},
		{"good at exactly 10 percent", 1000, 900, models.TierGood},
		{"reasonable just under 10 percent", 1000, 900.01, models.TierReasonable},
		{"reasonable at 8 percent", 1000, 920, models.TierReasonable},
		{"reasonable at exactly 5 percent", 1000, 950, models.TierReasonable},
		{"low just under 5 percent", 1000, 950.01, models.TierLow},
		{"low at 3 percent", 1000, 970, models.TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gov := &fakeGovStore{items: []models.GovItem{govItem("dell notebook 15 inch", tt.govPrice)}}
			market := &fakeMarketplace{offers: []models.MarketOffer{offer("dell notebook 15 inch", tt.offerPrice)}}
			c := newTestComparator(gov, market)

			result, err := c.FindOpportunities(context.Background(), "notebook", db.GovItemFilter{})
			if err != nil {
				t.Fatalf("FindOpportunities: %v", err)
			}
			if len(result.Opportunities) != 1 {
				t.Fatalf("opportunities = %d, want 1", len(result.Opportunities))
			}
			if got := result.Opportunities[0].Tier; got != tt.wantTier {
				t.Errorf("tier = %q, want %q", got, tt.wantTier)
			}
		})
	}
}

func TestFindOpportunitiesRequiresPositiveMargin(t *testing.T) {
	gov := &fakeGovStore{items: []models.GovItem{
		govItem("notebook priced at cost", 100),
		govItem("notebook priced below market", 90),
	}}
	market := &fakeMarketplace{offers: []models.MarketOffer{offer("notebook", 100)}}
	c := newTestComparator(gov, market)

	result, err := c.FindOpportunities(context.Background(), "notebook", db.GovItemFilter{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(result.Opportunities) != 0 {
		t.Errorf("opportunities = %d, want 0 when no margin is strictly positive", len(result.Opportunities))
	}
}

func TestFindOpportunitiesRankedByMargin(t *testing.T) {
	gov := &fakeGovStore{items: []models.GovItem{
		govItem("notebook small overprice", 500),
		govItem("notebook large overprice", 900),
	}}
	market := &fakeMarketplace{offers: []models.MarketOffer{offer("notebook", 400)}}
	c := newTestComparator(gov, market)

	result, err := c.FindOpportunities(context.Background(), "notebook", db.GovItemFilter{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(result.Opportunities) != 2 {
		t.Fatalf("opportunities = %d, want 2", len(result.Opportunities))
	}
	first := result.Opportunities[0]
	second := result.Opportunities[1]
	if !first.Margin.GreaterThan(second.Margin) {
		t.Errorf("ranking broken: %v before %v", first.Margin, second.Margin)
	}
	if first.Margin.String() != "500" {
		t.Errorf("top margin = %v, want 500", first.Margin)
	}
}

func TestFindOpportunitiesMarketplaceDownDegrades(t *testing.T) {
	gov := &fakeGovStore{items: []models.GovItem{govItem("dell notebook", 1000)}}
	market := &fakeMarketplace{err: errors.New("connection refused")}
	c := newTestComparator(gov, market)

	result, err := c.FindOpportunities(context.Background(), "notebook", db.GovItemFilter{})
	if err != nil {
		t.Fatalf("a marketplace outage must not fail the comparison: %v", err)
	}
	if len(result.GovItems) != 1 {
		t.Errorf("gov items = %d, want 1", len(result.GovItems))
	}
	if len(result.Opportunities) != 0 {
		t.Errorf("opportunities = %d, want 0 without offers", len(result.Opportunities))
	}

	degraded := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "marketplace unavailable") {
			degraded = true
		}
	}
	if !degraded {
		t.Errorf("warnings = %v, want a marketplace degradation notice", result.Warnings)
	}
}

func TestFindOpportunitiesNoGovItems(t *testing.T) {
	c := newTestComparator(&fakeGovStore{}, &fakeMarketplace{})

	result, err := c.FindOpportunities(context.Background(), "notebook", db.GovItemFilter{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(result.Opportunities) != 0 || len(result.Warnings) == 0 {
		t.Errorf("want empty result with a warning, got %+v", result)
	}
}

func TestFindOpportunitiesPairsByOverlap(t *testing.T) {
	gov := &fakeGovStore{items: []models.GovItem{govItem("swivel office chair with armrests", 500)}}
	market := &fakeMarketplace{offers: []models.MarketOffer{
		offer("dell notebook 15 inch", 100),
		offer("swivel office chair", 300),
	}}
	c := newTestComparator(gov, market)

	result, err := c.FindOpportunities(context.Background(), "chair", db.GovItemFilter{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(result.Opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(result.Opportunities))
	}
	if got := result.Opportunities[0].Offer.Title; got != "swivel office chair" {
		t.Errorf("paired offer = %q, want the overlapping title", got)
	}
}
