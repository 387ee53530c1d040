package market

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"priceintel/internal/models"
)

// PriceStats summarizes the unit-price distribution of a set of government
// items, for the price reference endpoint.
type PriceStats struct {
	Count  int             `json:"count"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	StdDev decimal.Decimal `json:"std_dev"`
	P25    decimal.Decimal `json:"p25"`
	P75    decimal.Decimal `json:"p75"`
}

// SummarizePrices computes distribution stats over the items' unit prices.
// Returns a zero-count summary for an empty slice.
func SummarizePrices(items []models.GovItem) PriceStats {
	if len(items) == 0 {
		return PriceStats{}
	}

	prices := make([]float64, 0, len(items))
	for _, item := range items {
		p, _ := item.UnitPrice.Float64()
		prices = append(prices, p)
	}
	sort.Float64s(prices)

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	mean := sum / float64(len(prices))

	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))

	return PriceStats{
		Count:  len(prices),
		Min:    money(prices[0]),
		Max:    money(prices[len(prices)-1]),
		Mean:   money(mean),
		Median: money(percentile(prices, 0.50)),
		StdDev: money(math.Sqrt(variance)),
		P25:    money(percentile(prices, 0.25)),
		P75:    money(percentile(prices, 0.75)),
	}
}

// percentile interpolates linearly between the two nearest ranks of an
// already sorted slice.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
