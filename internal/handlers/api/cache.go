package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"priceintel/internal/cache"
)

// CacheHandler exposes query cache observability and invalidation.
type CacheHandler struct {
	cache *cache.Cache
}

// NewCacheHandler creates a new cache API handler.
func NewCacheHandler(c *cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Stats reports usage and latency aggregates.
func (h *CacheHandler) Stats(c fiber.Ctx) error {
	stats, err := h.cache.Stats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read cache stats")
	}
	return jsonSuccess(c, stats)
}

// Health reports the stats plus advisory warnings.
func (h *CacheHandler) Health(c fiber.Ctx) error {
	health, err := h.cache.Health(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read cache health")
	}
	return jsonSuccess(c, health)
}

// TopSubjects lists the most-read cached subjects.
func (h *CacheHandler) TopSubjects(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	subjects, err := h.cache.TopSubjects(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read cache subjects")
	}
	return jsonSuccess(c, subjects)
}

// Invalidate expires every cached entry for a subject.
func (h *CacheHandler) Invalidate(c fiber.Ctx) error {
	subject := strings.TrimSpace(c.Params("subject"))
	if subject == "" {
		return jsonError(c, fiber.StatusBadRequest, "subject is required")
	}

	expired, err := h.cache.Invalidate(c.Context(), subject)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to invalidate subject")
	}
	return jsonSuccess(c, fiber.Map{"subject": subject, "expired": expired})
}
