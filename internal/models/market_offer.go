package models

import "github.com/shopspring/decimal"

// MarketOffer is a single marketplace listing returned by the external
// marketplace client.
type MarketOffer struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Available    int             `json:"available"`
	Condition    string          `json:"condition"`
	FreeShipping bool            `json:"free_shipping"`
	Permalink    string          `json:"permalink"`
	Thumbnail    string          `json:"thumbnail"`
}
