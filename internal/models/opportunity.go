package models

import "github.com/shopspring/decimal"

// Margin classification tiers, from best to worst.
const (
	TierExcellent  = "EXCELLENT"
	TierVeryGood   = "VERY_GOOD"
	TierGood       = "GOOD"
	TierReasonable = "REASONABLE"
	TierLow        = "LOW"
)

// Opportunity pairs a government-priced item with a marketplace offer whose
// price undercuts it. Opportunities are computed on demand and never
// persisted; only pairs with a strictly positive margin qualify.
type Opportunity struct {
	Gov        GovItem         `json:"government_item"`
	Offer      MarketOffer     `json:"market_offer"`
	Margin     decimal.Decimal `json:"margin_absolute"`
	MarginPct  decimal.Decimal `json:"margin_percentage"`
	Tier       string          `json:"tier"`
	MatchScore float64         `json:"match_score"`
}

// ComparisonResult is the output of a full opportunity search. Warnings
// carry non-fatal degradations, e.g. the marketplace being unreachable.
type ComparisonResult struct {
	Term          string        `json:"term"`
	Opportunities []Opportunity `json:"opportunities"`
	GovItems      []GovItem     `json:"government_items"`
	MarketOffers  []MarketOffer `json:"market_offers"`
	Warnings      []string      `json:"warnings,omitempty"`
}
