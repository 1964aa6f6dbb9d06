package fuzzy

import (
	"strings"
	"unicode/utf8"
)

// LevenshteinDistance calculates the edit distance between two strings in runes
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows are enough
	prev := make([]int, len(r2)+1)
	cur := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		cur[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(r2)]
}

// Threshold is the typo tolerance for a query: Hangul syllables carry more
// information than Latin letters, so short queries get no tolerance at all.
func Threshold(query string) int {
	n := utf8.RuneCountInString(normalizeString(query))
	switch {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// Match checks if query fuzzy-matches text
func Match(query, text string) bool {
	return Score(query, text) > 0
}

// Score rates how well text matches query; 0 means no match.
// Substring hits score highest, then whole words, then word prefixes
// (Korean words usually carry a trailing particle), then near-miss words.
func Score(query, text string) float64 {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" || text == "" {
		return 0
	}

	score := 0.0
	if strings.Contains(text, query) {
		score += 100.0
		if containsWord(text, query) {
			score += 50.0
		}
		return score
	}

	threshold := Threshold(query)
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) {
			score += 40.0
			continue
		}
		if threshold == 0 {
			continue
		}
		if dist := LevenshteinDistance(query, word); dist <= threshold {
			score += 50.0 - float64(dist)*15
			continue
		}
		// compare against the word without its last syllable (particle)
		if r := []rune(word); len(r) > 2 {
			if dist := LevenshteinDistance(query, string(r[:len(r)-1])); dist <= threshold {
				score += 30.0 - float64(dist)*10
			}
		}
	}
	return score
}

// normalizeString lowercases and collapses whitespace
func normalizeString(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
