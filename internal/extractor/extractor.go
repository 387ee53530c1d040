// Package extractor turns free-text procurement descriptions into a ranked,
// deduplicated keyword list using pattern rules and a persisted
// learned-weight lexicon.
package extractor

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"priceintel/internal/models"
)

// DefaultLimit is the number of keywords returned when the caller does not
// ask for a specific count.
const DefaultLimit = 4

// Feedback deltas applied to a word's learned weight.
const (
	positiveFeedbackDelta = 0.1
	negativeFeedbackDelta = -0.05
)

// Keyword tiers, in descending base relevance.
const (
	TierBrand    = "brand"    // known manufacturer, 10x
	TierProduct  = "product"  // known product family, 5x
	TierSpecCode = "spec"     // short token with digits, 3x
	TierNoun     = "noun"     // specific noun of 6+ chars, 2x
	TierCommon   = "common"   // everything else, 1x
)

// LexiconStore persists learned keyword weights.
type LexiconStore interface {
	RecordKeywordUsage(ctx context.Context, word string) error
	GetKeywordWeight(ctx context.Context, word string) (float64, error)
	AdjustKeywordWeight(ctx context.Context, word string, delta float64) error
}

// Extractor extracts and ranks keywords. Lexicon failures degrade silently:
// extraction always produces a result.
type Extractor struct {
	lexicon LexiconStore
}

// New creates an extractor backed by the given lexicon store.
func New(lexicon LexiconStore) *Extractor {
	return &Extractor{lexicon: lexicon}
}

// Score explains why one keyword ranked where it did.
type Score struct {
	Word          string  `json:"word"`
	Relevance     float64 `json:"relevance"`
	Tier          string  `json:"tier"`
	LearnedWeight float64 `json:"learned_weight"`
}

// Result is the outcome of one extraction.
type Result struct {
	Keywords    []string `json:"keywords"`
	Breakdown   []Score  `json:"breakdown"`
	CoreFound   bool     `json:"core_found"`
	QuotedFound int      `json:"quoted_found"`
	Candidates  int      `json:"candidates"`
}

// Term joins the extracted keywords into a single search term.
func (r Result) Term() string {
	return strings.Join(r.Keywords, " ")
}

// Extract runs the full pipeline: isolate the core phrase or quoted text,
// normalize, tokenize, classify into tiers, apply learned weights, rank,
// deduplicate and truncate. As a side effect every returned word is
// upserted into the lexicon. Never fails; inputs shorter than 3 characters
// yield exactly the fallback keyword.
func (e *Extractor) Extract(ctx context.Context, text string, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	text = strings.TrimSpace(text)
	if len(text) < 3 {
		return fallbackResult()
	}

	quoted := quotedStrings(text)
	core := corePhrase(text)

	source := text
	switch {
	case core != "":
		source = core
	case len(quoted) > 0:
		source = strings.Join(quoted, " ")
	}

	tokens := tokenize(normalize(source))
	if len(tokens) == 0 {
		return fallbackResult()
	}

	scores := make([]Score, 0, len(tokens))
	for _, tok := range tokens {
		base, tier := classify(tok)
		weight := e.learnedWeight(ctx, tok)
		scores = append(scores, Score{
			Word:          tok,
			Relevance:     base * weight,
			Tier:          tier,
			LearnedWeight: weight,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Relevance > scores[j].Relevance
	})

	// Deduplicate keeping the first (highest-ranked) occurrence, then cut
	// to the requested limit.
	seen := make(map[string]bool)
	top := make([]Score, 0, limit)
	for _, s := range scores {
		if seen[s.Word] {
			continue
		}
		seen[s.Word] = true
		top = append(top, s)
		if len(top) == limit {
			break
		}
	}

	result := Result{
		Breakdown:   top,
		CoreFound:   core != "",
		QuotedFound: len(quoted),
		Candidates:  len(tokens),
	}
	for _, s := range top {
		result.Keywords = append(result.Keywords, s.Word)
	}

	e.recordUsage(ctx, result.Keywords)

	return result
}

// FeedbackPositive nudges a word's weight up by 0.1, capped at the maximum.
func (e *Extractor) FeedbackPositive(ctx context.Context, word string) error {
	return e.lexicon.AdjustKeywordWeight(ctx, strings.ToLower(strings.TrimSpace(word)), positiveFeedbackDelta)
}

// FeedbackNegative nudges a word's weight down by 0.05, floored at the
// minimum.
func (e *Extractor) FeedbackNegative(ctx context.Context, word string) error {
	return e.lexicon.AdjustKeywordWeight(ctx, strings.ToLower(strings.TrimSpace(word)), negativeFeedbackDelta)
}

// learnedWeight reads a word's persisted weight, degrading to the default
// when the store fails or the word is unseen.
func (e *Extractor) learnedWeight(ctx context.Context, word string) float64 {
	w, err := e.lexicon.GetKeywordWeight(ctx, word)
	if err != nil {
		return models.DefaultKeywordWeight
	}
	return w
}

// recordUsage upserts every returned word. Store errors are logged and
// swallowed: the lexicon is a re-ranking signal, not ground truth.
func (e *Extractor) recordUsage(ctx context.Context, words []string) {
	for _, w := range words {
		if err := e.lexicon.RecordKeywordUsage(ctx, w); err != nil {
			slog.Error("failed to record keyword usage", "word", w, "error", err)
		}
	}
}

func fallbackResult() Result {
	return Result{
		Keywords: []string{FallbackKeyword},
		Breakdown: []Score{{
			Word:          FallbackKeyword,
			Relevance:     models.DefaultKeywordWeight,
			Tier:          TierCommon,
			LearnedWeight: models.DefaultKeywordWeight,
		}},
	}
}

// classify assigns a token its tier and base relevance multiplier.
func classify(word string) (float64, string) {
	switch {
	case knownBrands[word]:
		return 10.0, TierBrand
	case isKnownProduct(word):
		return 5.0, TierProduct
	case digitPattern.MatchString(word) && len(word) <= 10:
		return 3.0, TierSpecCode
	case len(word) >= 6:
		return 2.0, TierNoun
	default:
		return 1.0, TierCommon
	}
}

func isKnownProduct(word string) bool {
	for _, p := range productPatterns {
		if p.MatchString(word) {
			return true
		}
	}
	return false
}

// corePhrase returns the object captured by a descriptive pattern, or "".
func corePhrase(text string) string {
	for _, p := range corePhrasePatterns {
		if m := p.FindStringSubmatch(text); m != nil && m[1] != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// quotedStrings collects unique lowercased substrings longer than 3 chars
// found inside quotes.
func quotedStrings(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range quotedPattern.FindAllStringSubmatch(text, -1) {
		for _, group := range m[1:] {
			g := strings.ToLower(strings.TrimSpace(group))
			if len(g) > 3 && !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out
}

// normalize lowercases and strips administrative boilerplate.
func normalize(text string) string {
	text = strings.ToLower(text)
	for _, p := range boilerplatePatterns {
		text = p.ReplaceAllString(text, "")
	}
	return text
}

// tokenize splits on non-alphanumeric boundaries and drops short tokens and
// stop words.
func tokenize(text string) []string {
	var tokens []string
	for _, tok := range nonAlnumPattern.Split(text, -1) {
		if len(tok) >= 3 && !stopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Nucleus picks the single most concrete word of a token list: a known
// product noun first, then the first word of 6+ characters, then the first
// word. Returns "" for an empty list.
func Nucleus(words []string) string {
	for _, w := range words {
		for _, noun := range nucleusNouns {
			if w == noun {
				return w
			}
		}
	}
	for _, w := range words {
		if len(w) >= 6 {
			return w
		}
	}
	if len(words) > 0 {
		return words[0]
	}
	return ""
}

// DeriveSearchTerm builds the full-text query used against the catalog: the
// nucleus word duplicated to bias ranking, followed by up to 5 secondary
// tokens. Falls back to the first 8 tokens when no nucleus stands out.
func DeriveSearchTerm(text string) string {
	source := text
	if core := corePhrase(text); core != "" {
		source = core
	}

	tokens := tokenize(normalize(source))
	if len(tokens) == 0 {
		return ""
	}

	nucleus := Nucleus(tokens)
	if nucleus == "" {
		if len(tokens) > 8 {
			tokens = tokens[:8]
		}
		return strings.Join(tokens, " ")
	}

	parts := []string{nucleus, nucleus}
	secondaries := 0
	for _, t := range tokens {
		if t == nucleus {
			continue
		}
		parts = append(parts, t)
		secondaries++
		if secondaries == 5 {
			break
		}
	}
	return strings.Join(parts, " ")
}
