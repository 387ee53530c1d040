package api

import (
	"github.com/gofiber/fiber/v3"

	"priceintel/internal/matcher"
	"priceintel/internal/validation"
)

// CatalogHandler exposes catalog code resolution.
type CatalogHandler struct {
	matcher *matcher.Matcher
}

// NewCatalogHandler creates a new catalog API handler.
func NewCatalogHandler(m *matcher.Matcher) *CatalogHandler {
	return &CatalogHandler{matcher: m}
}

// Match resolves free text to the best catalog code, or 404 when every tier
// comes up empty.
func (h *CatalogHandler) Match(c fiber.Ctx) error {
	text, err := validation.SearchTerm(c.Query("q", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	opts := matcher.Options{
		ForceExternal: fiber.Query(c, "force_external", false),
		MinScore:      fiber.Query(c, "min_score", 0.0),
	}

	match := h.matcher.Resolve(c.Context(), text, opts)
	if match == nil {
		return jsonError(c, fiber.StatusNotFound, "no catalog match")
	}
	return jsonSuccess(c, match)
}

// Suggest returns ranked local candidates for typeahead.
func (h *CatalogHandler) Suggest(c fiber.Ctx) error {
	text, err := validation.SearchTerm(c.Query("q", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	limit := fiber.Query(c, "limit", 12)
	if limit < 1 || limit > 50 {
		limit = 12
	}

	suggestions, err := h.matcher.Suggest(c.Context(), text, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "suggestion lookup failed")
	}
	return jsonSuccess(c, suggestions)
}
