package matcher

import (
	"regexp"
	"strings"
)

// Component weights of the blended similarity score. Kept as named
// constants so the split is visible in one place.
const (
	charRatioWeight   = 0.3
	editDistWeight    = 0.3
	wordOverlapWeight = 0.4

	// editDistMaxLen truncates inputs before the edit-distance pass;
	// normalization still uses the full lengths.
	editDistMaxLen = 255
)

var wordCleanPattern = regexp.MustCompile(`[^a-z0-9\s]`)

// overlapStopWords is the small stop list used by the word-overlap variant
// when pairing government items with marketplace offers.
var overlapStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "for": true,
	"with": true, "in": true, "and": true, "to": true,
}

// Similarity blends three lexical signals into a [0,1] score:
// character-level ratio (30%), normalized edit distance (30%) and
// significant-word overlap (40%). Symmetric, and 1.0 for identical inputs.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}

	charScore := charRatio(a, b)

	editScore := 0.0
	maxLen := max(len(a), len(b))
	if maxLen > 0 {
		dist := levenshtein(truncate(a, editDistMaxLen), truncate(b, editDistMaxLen))
		editScore = 1 - float64(dist)/float64(maxLen)
	}

	wordScore := wordSetOverlap(wordSet(a), wordSet(b))

	return charScore*charRatioWeight + editScore*editDistWeight + wordScore*wordOverlapWeight
}

// WordOverlap is the lighter pairing score used by the market comparator:
// shared significant words over the larger word set, stop words removed.
// Symmetric; returns 0 when either side has no significant words.
func WordOverlap(a, b string) float64 {
	setA := significantWords(a)
	setB := significantWords(b)
	return wordSetOverlap(setA, setB)
}

func wordSetOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	return float64(common) / float64(max(len(a), len(b)))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(wordCleanPattern.ReplaceAllString(s, "")) {
		set[w] = true
	}
	return set
}

func significantWords(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if !overlapStopWords[w] {
			set[w] = true
		}
	}
	return set
}

// charRatio approximates a symmetric character-level similarity: twice the
// matched character count (via recursive longest common substring) over the
// combined length.
func charRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(2*commonChars(a, b)) / float64(total)
}

// commonChars counts matching characters by locating the longest common
// substring and recursing into the flanks.
func commonChars(a, b string) int {
	posA, posB, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	count := length
	count += commonChars(a[:posA], b[:posB])
	count += commonChars(a[posA+length:], b[posB+length:])
	return count
}

func longestCommonSubstring(a, b string) (posA, posB, length int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > length {
				posA, posB, length = i, j, k
			}
		}
	}
	return posA, posB, length
}

// levenshtein computes the classic edit distance with a two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
