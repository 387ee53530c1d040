package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"priceintel/internal/db"
	"priceintel/internal/extractor"
	"priceintel/internal/models"
)

// KeywordHandler exposes keyword extraction and lexicon feedback.
type KeywordHandler struct {
	extractor *extractor.Extractor
	db        *db.DB
}

// NewKeywordHandler creates a new keyword API handler.
func NewKeywordHandler(ex *extractor.Extractor, database *db.DB) *KeywordHandler {
	return &KeywordHandler{extractor: ex, db: database}
}

// Extract runs the extraction pipeline on free text and returns the ranked
// keywords with their scoring breakdown.
func (h *KeywordHandler) Extract(c fiber.Ctx) error {
	var body struct {
		Text  string `json:"text"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(body.Text) == "" {
		return jsonError(c, fiber.StatusBadRequest, "text is required")
	}

	result := h.extractor.Extract(c.Context(), body.Text, body.Limit)
	return jsonSuccess(c, result)
}

// Feedback adjusts the learned weight of one keyword. Positive feedback
// raises it, negative lowers it, both within the clamp bounds.
func (h *KeywordHandler) Feedback(c fiber.Ctx) error {
	word := strings.ToLower(strings.TrimSpace(c.Params("word")))
	if word == "" {
		return jsonError(c, fiber.StatusBadRequest, "keyword is required")
	}

	var body struct {
		Helpful bool `json:"helpful"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	var err error
	if body.Helpful {
		err = h.extractor.FeedbackPositive(c.Context(), word)
	} else {
		err = h.extractor.FeedbackNegative(c.Context(), word)
	}
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not in lexicon")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to record feedback")
	}

	weight, err := h.db.GetKeywordWeight(c.Context(), word)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read updated weight")
	}
	return jsonSuccess(c, fiber.Map{"word": word, "weight": weight})
}

// lexiconReport aggregates the learned lexicon for the report endpoint.
type lexiconReport struct {
	TotalWords int                    `json:"total_words"`
	Boosted    int                    `json:"boosted"`
	Demoted    int                    `json:"demoted"`
	Words      []models.KeywordWeight `json:"words"`
}

// Lexicon returns the learned weights, heaviest first.
func (h *KeywordHandler) Lexicon(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 100)
	if limit < 0 {
		limit = 0
	}

	words, err := h.db.ListKeywordWeights(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load lexicon")
	}

	report := lexiconReport{TotalWords: len(words), Words: words}
	for _, w := range words {
		switch {
		case w.Weight > models.DefaultKeywordWeight:
			report.Boosted++
		case w.Weight < models.DefaultKeywordWeight:
			report.Demoted++
		}
	}
	return jsonSuccess(c, report)
}
