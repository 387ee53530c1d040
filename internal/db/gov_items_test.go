package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func insertTestGovItem(t *testing.T, database *DB, description string, price float64, region string, validUntil *time.Time) {
	t.Helper()
	var regionPtr *string
	if region != "" {
		regionPtr = &region
	}
	_, err := database.Pool.Exec(context.Background(), `
		INSERT INTO gov_items (id, description, unit_price, unit, quantity, agency, region, valid_until)
		VALUES ($1, $2, $3, 'unit', 1, 'Test Agency', $4, $5)
	`, uuid.New(), description, decimal.NewFromFloat(price), regionPtr, validUntil)
	if err != nil {
		t.Fatalf("insert gov item: %v", err)
	}
}

func TestSearchGovItemsFullText(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	insertTestGovItem(t, database, "notebook 15 inch core i5", 3500, "", nil)
	insertTestGovItem(t, database, "swivel office chair", 800, "", nil)

	items, err := database.SearchGovItems(ctx, "notebook", GovItemFilter{})
	if err != nil {
		t.Fatalf("SearchGovItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Description != "notebook 15 inch core i5" {
		t.Errorf("description = %q", items[0].Description)
	}
}

func TestSearchGovItemsSubstringFallback(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	insertTestGovItem(t, database, "multifunctional printing station", 1200, "", nil)

	// "printin" is not a full word, so the tsquery pass finds nothing and
	// the substring pass must take over.
	items, err := database.SearchGovItems(ctx, "printin", GovItemFilter{})
	if err != nil {
		t.Fatalf("SearchGovItems: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1 via substring fallback", len(items))
	}
}

func TestSearchGovItemsRegionFilter(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	insertTestGovItem(t, database, "notebook north batch", 3000, "north", nil)
	insertTestGovItem(t, database, "notebook south batch", 3100, "south", nil)

	items, err := database.SearchGovItems(ctx, "notebook", GovItemFilter{Region: "north"})
	if err != nil {
		t.Fatalf("SearchGovItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Region == nil || *items[0].Region != "north" {
		t.Errorf("region = %v, want north", items[0].Region)
	}
}

func TestSearchGovItemsValidOnly(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -30)
	future := time.Now().AddDate(0, 0, 30)
	insertTestGovItem(t, database, "notebook lapsed registration", 3000, "", &past)
	insertTestGovItem(t, database, "notebook current registration", 3100, "", &future)
	insertTestGovItem(t, database, "notebook open ended", 3200, "", nil)

	items, err := database.SearchGovItems(ctx, "notebook", GovItemFilter{ValidOnly: true})
	if err != nil {
		t.Fatalf("SearchGovItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (expired row excluded)", len(items))
	}
	for _, it := range items {
		if it.Description == "notebook lapsed registration" {
			t.Error("expired registration leaked into valid-only results")
		}
	}
}
