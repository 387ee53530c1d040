package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scoring collects the tunable thresholds of the matching and comparison
// pipeline. Defaults reflect production values; a YAML file can override
// any subset.
type Scoring struct {
	// Minimum blended similarity for accepting an external catalog candidate.
	MinMatchScore float64 `yaml:"min_match_score"`

	// Minimum word overlap for pairing a government item with an offer.
	PairThreshold float64 `yaml:"pair_threshold"`

	// Margin percentage cutoffs for classification, best tier first.
	MarginExcellent  float64 `yaml:"margin_excellent"`
	MarginVeryGood   float64 `yaml:"margin_very_good"`
	MarginGood       float64 `yaml:"margin_good"`
	MarginReasonable float64 `yaml:"margin_reasonable"`
}

// DefaultScoring returns the production thresholds.
func DefaultScoring() Scoring {
	return Scoring{
		MinMatchScore:    0.7,
		PairThreshold:    0.3,
		MarginExcellent:  30,
		MarginVeryGood:   20,
		MarginGood:       10,
		MarginReasonable: 5,
	}
}

// LoadScoring reads overrides from path on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadScoring(path string) (Scoring, error) {
	s := DefaultScoring()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read scoring file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse scoring file: %w", err)
	}

	if s.MarginExcellent < s.MarginVeryGood || s.MarginVeryGood < s.MarginGood ||
		s.MarginGood < s.MarginReasonable || s.MarginReasonable < 0 {
		return s, fmt.Errorf("scoring margins must be ordered excellent >= very_good >= good >= reasonable >= 0")
	}
	return s, nil
}
