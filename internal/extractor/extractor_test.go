package extractor

import (
	"context"
	"errors"
	"testing"
)

// fakeLexicon is an in-memory LexiconStore.
type fakeLexicon struct {
	weights map[string]float64
	usage   map[string]int
	deltas  map[string]float64
	fail    bool
}

func newFakeLexicon() *fakeLexicon {
	return &fakeLexicon{
		weights: make(map[string]float64),
		usage:   make(map[string]int),
		deltas:  make(map[string]float64),
	}
}

func (f *fakeLexicon) RecordKeywordUsage(ctx context.Context, word string) error {
	if f.fail {
		return errors.New("store down")
	}
	f.usage[word]++
	return nil
}

func (f *fakeLexicon) GetKeywordWeight(ctx context.Context, word string) (float64, error) {
	if f.fail {
		return 0, errors.New("store down")
	}
	w, ok := f.weights[word]
	if !ok {
		return 0, errors.New("not found")
	}
	return w, nil
}

func (f *fakeLexicon) AdjustKeywordWeight(ctx context.Context, word string, delta float64) error {
	if f.fail {
		return errors.New("store down")
	}
	f.deltas[word] += delta
	return nil
}

func TestExtractShortInputFallsBack(t *testing.T) {
	e := New(newFakeLexicon())

	for _, input := range []string{"", "  ", "tv", "a"} {
		result := e.Extract(context.Background(), input, 4)
		if len(result.Keywords) != 1 || result.Keywords[0] != FallbackKeyword {
			t.Errorf("Extract(%q) = %v, want [%q]", input, result.Keywords, FallbackKeyword)
		}
	}
}

func TestExtractRanksBrandFirst(t *testing.T) {
	e := New(newFakeLexicon())

	result := e.Extract(context.Background(), "Acquisition of 10 Dell notebooks for the education department", 4)

	if len(result.Keywords) == 0 {
		t.Fatal("expected keywords, got none")
	}
	if result.Keywords[0] != "dell" {
		t.Errorf("top keyword = %q, want %q", result.Keywords[0], "dell")
	}
	if !result.CoreFound {
		t.Error("expected the core phrase to be detected")
	}
	for _, kw := range result.Keywords {
		if kw == "department" || kw == "education" {
			t.Errorf("boilerplate word %q leaked into keywords", kw)
		}
	}
}

func TestExtractRespectsLimit(t *testing.T) {
	e := New(newFakeLexicon())

	result := e.Extract(context.Background(), "Acquisition of Dell notebooks with Intel processors and Samsung monitors plus HP printers", 2)
	if len(result.Keywords) != 2 {
		t.Fatalf("len(keywords) = %d, want 2", len(result.Keywords))
	}
}

func TestExtractLearnedWeightReorders(t *testing.T) {
	lex := newFakeLexicon()
	lex.weights["notebooks"] = 3.0

	e := New(lex)
	result := e.Extract(context.Background(), "Acquisition of 10 Dell notebooks for the education department", 4)

	// 5x product base * 3.0 learned beats 10x brand * 1.0 default.
	if result.Keywords[0] != "notebooks" {
		t.Errorf("top keyword = %q, want %q", result.Keywords[0], "notebooks")
	}
}

func TestExtractRecordsUsage(t *testing.T) {
	lex := newFakeLexicon()
	e := New(lex)

	result := e.Extract(context.Background(), "Acquisition of 10 Dell notebooks", 4)
	for _, kw := range result.Keywords {
		if lex.usage[kw] != 1 {
			t.Errorf("usage[%q] = %d, want 1", kw, lex.usage[kw])
		}
	}
}

func TestExtractSurvivesStoreFailure(t *testing.T) {
	lex := newFakeLexicon()
	lex.fail = true

	e := New(lex)
	result := e.Extract(context.Background(), "Acquisition of 10 Dell notebooks", 4)
	if len(result.Keywords) == 0 {
		t.Fatal("extraction should not depend on the lexicon store")
	}
	for _, s := range result.Breakdown {
		if s.LearnedWeight != 1.0 {
			t.Errorf("weight for %q = %v, want default 1.0", s.Word, s.LearnedWeight)
		}
	}
}

func TestExtractQuotedText(t *testing.T) {
	e := New(newFakeLexicon())

	result := e.Extract(context.Background(), `Purchase items including "swivel chair" models`, 4)
	if result.QuotedFound != 1 {
		t.Fatalf("QuotedFound = %d, want 1", result.QuotedFound)
	}

	found := false
	for _, kw := range result.Keywords {
		if kw == "chair" {
			found = true
		}
	}
	if !found {
		t.Errorf("keywords %v should contain %q from the quoted text", result.Keywords, "chair")
	}
}

func TestFeedbackDeltas(t *testing.T) {
	lex := newFakeLexicon()
	e := New(lex)
	ctx := context.Background()

	if err := e.FeedbackPositive(ctx, " Chair "); err != nil {
		t.Fatalf("FeedbackPositive: %v", err)
	}
	if err := e.FeedbackNegative(ctx, "chair"); err != nil {
		t.Fatalf("FeedbackNegative: %v", err)
	}

	want := positiveFeedbackDelta + negativeFeedbackDelta
	if got := lex.deltas["chair"]; got != want {
		t.Errorf("accumulated delta = %v, want %v", got, want)
	}
}

func TestNucleus(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{"product noun wins", []string{"blue", "ergonomic", "chair"}, "chair"},
		{"long word next", []string{"blue", "ergonomic"}, "ergonomic"},
		{"first word as last resort", []string{"abc", "def"}, "abc"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nucleus(tt.words); got != tt.want {
				t.Errorf("Nucleus(%v) = %q, want %q", tt.words, got, tt.want)
			}
		})
	}
}

func TestDeriveSearchTerm(t *testing.T) {
	got := DeriveSearchTerm("Acquisition of 10 Dell notebooks for the education department")
	want := "notebooks notebooks dell"
	if got != want {
		t.Errorf("DeriveSearchTerm = %q, want %q", got, want)
	}

	if got := DeriveSearchTerm("!!!"); got != "" {
		t.Errorf("DeriveSearchTerm on junk = %q, want empty", got)
	}
}
