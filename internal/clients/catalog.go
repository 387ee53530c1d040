package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	catalogRetryAttempts = 3
	catalogRetryDelay    = 2 * time.Second
	catalogTimeout       = 30 * time.Second
)

// CatalogItem is a single row from the official catalog service.
type CatalogItem struct {
	Code        int64  `json:"code"`
	Description string `json:"description"`
	ShortName   string `json:"short_name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Unit        string `json:"unit"`
}

// CatalogClient queries the official item catalog over HTTP. Transient
// failures (network errors, 5xx) are retried with a fixed delay; 4xx
// responses fail immediately and a 404 means no results rather than an error.
type CatalogClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	// sleep is swapped out in tests so retry paths run without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewCatalogClient(baseURL string, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: catalogTimeout},
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Search queries the catalog for items matching term. An empty slice with a
// nil error means the catalog has nothing for this term.
func (c *CatalogClient) Search(ctx context.Context, term string, limit int) ([]CatalogItem, error) {
	q := url.Values{}
	q.Set("text", term)
	q.Set("size", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/items?%s", c.baseURL, q.Encode())

	var lastErr error
	for attempt := 1; attempt <= catalogRetryAttempts; attempt++ {
		items, err := c.fetch(ctx, endpoint)
		if err == nil {
			return items, nil
		}
		lastErr = err

		var svcErr *ExternalServiceError
		if errors.As(err, &svcErr) && !svcErr.Retryable {
			return nil, err
		}

		c.logger.Warn("catalog request failed",
			"attempt", attempt, "max_attempts", catalogRetryAttempts, "error", err)

		if attempt < catalogRetryAttempts {
			if err := c.sleep(ctx, catalogRetryDelay); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func (c *CatalogClient) fetch(ctx context.Context, endpoint string) ([]CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ExternalServiceError{Service: "catalog", Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []CatalogItem{}, nil
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, &ExternalServiceError{Service: "catalog", StatusCode: resp.StatusCode, Retryable: true}
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, &ExternalServiceError{Service: "catalog", StatusCode: resp.StatusCode}
	}

	var body struct {
		Items []CatalogItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ExternalServiceError{Service: "catalog", Retryable: true, Err: err}
	}
	return body.Items, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
