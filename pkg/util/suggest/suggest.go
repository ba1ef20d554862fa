// Package suggest ranks candidates by similarity to a given input.
package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
)

const DefaultMinimumSimilarityScore = 0.5

// Similar returns the candidates scoring at least minScore against given,
// best match first.
func Similar(given string, candidates []string, minScore float64) []string {
	if given == "" {
		return nil
	}
	var result []suggestion
	for _, text := range candidates {
		score := Score(given, text)
		if score < minScore {
			continue
		}
		result = append(result, suggestion{text: text, score: score})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].score > result[j].score
	})
	out := make([]string, len(result))
	for i, s := range result {
		out[i] = s.text
	}
	return out
}

// DidYouMean returns a hint naming the most similar candidate, or an empty string.
func DidYouMean(given string, candidates []string) string {
	s := Similar(given, candidates, DefaultMinimumSimilarityScore)
	if len(s) == 0 {
		return ""
	}
	return ", did you mean " + s[0] + "?"
}

type suggestion struct {
	text  string
	score float64
}

// Score calculates the similarity score in the range of 0..1 of two strings.
// A score of 1 means the strings are identical, and 0 means they have nothing in common.
func Score(given, suggestion string) float64 {
	return levenshtein.Similarity(given, suggestion, nil)
}
