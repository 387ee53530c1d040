package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"priceintel/internal/cache"
	"priceintel/internal/db"
	"priceintel/internal/market"
	"priceintel/internal/models"
	"priceintel/internal/validation"
)

// OpportunityHandler exposes the price comparison pipeline. Results are
// served from the query cache when a fresh entry exists; a comparison run
// writes its result back for the next caller.
type OpportunityHandler struct {
	comparator *market.Comparator
	cache      *cache.Cache
	db         *db.DB
}

// NewOpportunityHandler creates a new opportunity API handler.
func NewOpportunityHandler(comparator *market.Comparator, queryCache *cache.Cache, database *db.DB) *OpportunityHandler {
	return &OpportunityHandler{comparator: comparator, cache: queryCache, db: database}
}

// Search compares government prices against marketplace offers for a term.
func (h *OpportunityHandler) Search(c fiber.Ctx) error {
	term, err := validation.SearchTerm(c.Query("term", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	filter := db.GovItemFilter{
		Region:    c.Query("region", ""),
		ValidOnly: fiber.Query(c, "valid_only", false),
		Limit:     fiber.Query(c, "limit", 20),
	}
	filters := map[string]string{
		"region":     filter.Region,
		"valid_only": boolFilter(filter.ValidOnly),
		"limit":      strconv.Itoa(filter.Limit),
	}

	if !fiber.Query(c, "refresh", false) {
		if entry, err := h.cache.Get(c.Context(), term, filters); err == nil {
			var cached models.ComparisonResult
			if decodeErr := json.Unmarshal(entry.Payload, &cached); decodeErr == nil {
				return jsonSuccess(c, cached)
			} else {
				slog.Error("failed to decode cached comparison", "term", term, "error", decodeErr)
			}
		}
	}

	start := time.Now()
	result, err := h.comparator.FindOpportunities(c.Context(), term, filter)
	if err != nil {
		var vErr *validation.ValidationError
		if errors.As(err, &vErr) {
			return jsonError(c, fiber.StatusBadRequest, vErr.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "comparison failed")
	}

	// Degraded runs are not cached; a marketplace hiccup should not be
	// served for a week.
	if len(result.Warnings) == 0 {
		if payload, err := json.Marshal(result); err == nil {
			if err := h.cache.Set(c.Context(), term, filters, payload, len(result.Opportunities), time.Since(start)); err != nil {
				slog.Error("failed to cache comparison", "term", term, "error", err)
			}
		}
	}

	return jsonSuccess(c, result)
}

// PriceReference summarizes the government price distribution for a term.
func (h *OpportunityHandler) PriceReference(c fiber.Ctx) error {
	term, err := validation.SearchTerm(c.Query("term", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	filter := db.GovItemFilter{
		Region:    c.Query("region", ""),
		ValidOnly: fiber.Query(c, "valid_only", false),
		Limit:     fiber.Query(c, "limit", 100),
	}
	items, err := h.db.SearchGovItems(c.Context(), term, filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "price lookup failed")
	}

	return jsonSuccess(c, fiber.Map{
		"term":  term,
		"stats": market.SummarizePrices(items),
		"items": items,
	})
}

func boolFilter(v bool) string {
	if v {
		return "true"
	}
	return ""
}
