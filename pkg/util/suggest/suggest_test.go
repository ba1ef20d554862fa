package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilar(t *testing.T) {
	candidates := []string{"suppress", "randomize"}
	assert.Equal(t, []string{"suppress"}, Similar("supress", candidates, DefaultMinimumSimilarityScore))
	assert.Empty(t, Similar("xyz", candidates, DefaultMinimumSimilarityScore))
	assert.Empty(t, Similar("", candidates, 0))
	assert.Equal(t, 1.0, Score("team.color", "team.color"))
}

func TestDidYouMean(t *testing.T) {
	assert.Equal(t, ", did you mean randomize?", DidYouMean("randomise", []string{"suppress", "randomize"}))
	assert.Empty(t, DidYouMean("none", []string{"suppress", "randomize"}))
}
