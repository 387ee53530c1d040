package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestCatalogClient(baseURL string) *CatalogClient {
	c := NewCatalogClient(baseURL, slog.Default())
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func TestCatalogSearchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("text"); got != "notebook dell" {
			t.Errorf("text = %q, want %q", got, "notebook dell")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"code":150743,"description":"notebook 15 inch","category":"computing"}]}`))
	}))
	defer srv.Close()

	items, err := newTestCatalogClient(srv.URL).Search(context.Background(), "notebook dell", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Code != 150743 {
		t.Errorf("items = %+v, want one with code 150743", items)
	}
}

func TestCatalogSearchNotFoundMeansEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	items, err := newTestCatalogClient(srv.URL).Search(context.Background(), "nothing", 10)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want empty", items)
	}
}

func TestCatalogSearchRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	if _, err := newTestCatalogClient(srv.URL).Search(context.Background(), "notebook", 10); err != nil {
		t.Fatalf("Search should succeed on the third attempt: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestCatalogSearchGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestCatalogClient(srv.URL).Search(context.Background(), "notebook", 10)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != catalogRetryAttempts {
		t.Errorf("attempts = %d, want %d", attempts, catalogRetryAttempts)
	}

	var svcErr *ExternalServiceError
	if !errors.As(err, &svcErr) || !svcErr.Retryable {
		t.Errorf("err = %v, want a retryable ExternalServiceError", err)
	}
}

func TestCatalogSearchClientErrorIsTerminal(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestCatalogClient(srv.URL).Search(context.Background(), "notebook", 10)
	if err == nil {
		t.Fatal("expected an error for a 400")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for a terminal status", attempts)
	}

	var svcErr *ExternalServiceError
	if !errors.As(err, &svcErr) || svcErr.Retryable {
		t.Errorf("err = %v, want a non-retryable ExternalServiceError", err)
	}
}
