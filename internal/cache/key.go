package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Key derives the deterministic cache key for a subject and its filters:
// SHA-256 over the lowercased subject and the filters serialized with sorted
// keys. Filters with empty values are dropped, so {"region": ""} and no
// filter at all produce the same key.
func Key(subject string, filters map[string]string) (string, error) {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return "", fmt.Errorf("cache key requires a subject")
	}

	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([][2]string, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, [2]string{k, filters[k]})
	}
	canonical, err := json.Marshal(ordered)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize filters: %w", err)
	}

	sum := sha256.Sum256([]byte(subject + "|" + string(canonical)))
	return hex.EncodeToString(sum[:]), nil
}
