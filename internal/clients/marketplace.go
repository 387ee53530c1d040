package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"

	"priceintel/internal/models"
)

const marketplaceTimeout = 10 * time.Second

// MarketplaceClient searches a public marketplace for current offers. Some
// marketplace deployments require OAuth2; pass a TokenSource to authenticate,
// or nil for anonymous access.
type MarketplaceClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewMarketplaceClient(baseURL string, ts oauth2.TokenSource, logger *slog.Logger) *MarketplaceClient {
	client := &http.Client{Timeout: marketplaceTimeout}
	if ts != nil {
		client = oauth2.NewClient(context.Background(), ts)
		client.Timeout = marketplaceTimeout
	}
	return &MarketplaceClient{baseURL: baseURL, http: client, logger: logger}
}

// SearchOffers returns active listings for the keyword, cheapest first as the
// marketplace ranks them. No retry here: the comparator degrades to
// government-only results when the marketplace is down.
func (c *MarketplaceClient) SearchOffers(ctx context.Context, keyword string, limit int) ([]models.MarketOffer, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/sites/search?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ExternalServiceError{Service: "marketplace", Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []models.MarketOffer{}, nil
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, &ExternalServiceError{Service: "marketplace", StatusCode: resp.StatusCode, Retryable: true}
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, &ExternalServiceError{Service: "marketplace", StatusCode: resp.StatusCode}
	}

	var body struct {
		Results []struct {
			ID        string  `json:"id"`
			Title     string  `json:"title"`
			Price     float64 `json:"price"`
			Currency  string  `json:"currency_id"`
			Available int     `json:"available_quantity"`
			Condition string  `json:"condition"`
			Shipping  struct {
				FreeShipping bool `json:"free_shipping"`
			} `json:"shipping"`
			Permalink string `json:"permalink"`
			Thumbnail string `json:"thumbnail"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ExternalServiceError{Service: "marketplace", Retryable: true, Err: err}
	}

	offers := make([]models.MarketOffer, 0, len(body.Results))
	for _, r := range body.Results {
		offers = append(offers, models.MarketOffer{
			ID:           r.ID,
			Title:        r.Title,
			Price:        decimal.NewFromFloat(r.Price),
			Currency:     r.Currency,
			Available:    r.Available,
			Condition:    r.Condition,
			FreeShipping: r.Shipping.FreeShipping,
			Permalink:    r.Permalink,
			Thumbnail:    r.Thumbnail,
		})
	}
	return offers, nil
}
