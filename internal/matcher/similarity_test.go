package matcher

import (
	"math"
	"testing"
)

func TestSimilarityIdentical(t *testing.T) {
	inputs := []string{
		"notebook",
		"swivel office chair with armrests",
		"  Mixed Case Input  ",
	}
	for _, in := range inputs {
		if got := Similarity(in, in); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", in, in, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"dell notebook 15 inch", "notebook dell core i5"},
		{"office chair", "chair with wheels"},
		{"ink cartridge black", "toner cartridge"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"notebook", "xyzzy"},
		{"a", "completely different thing"},
		{"swivel chair", "swivel chair deluxe"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarityOrdersByCloseness(t *testing.T) {
	base := "notebook dell 15 inch core i5"
	close := Similarity(base, "notebook dell core i5 8gb")
	far := Similarity(base, "liquid detergent 500 ml bottle")
	if close <= far {
		t.Errorf("close match %v should beat far match %v", close, far)
	}
}

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "swivel office chair", "swivel office chair", 1.0},
		{"disjoint", "notebook dell", "liquid detergent", 0.0},
		{"empty side", "", "notebook", 0.0},
		{"stop words only", "the of for", "notebook", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("WordOverlap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	// Half the larger set shared.
	got := WordOverlap("notebook dell", "notebook dell case bag")
	if got != 0.5 {
		t.Errorf("partial overlap = %v, want 0.5", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"chair", "chairs", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
