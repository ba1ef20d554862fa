package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New("b", "a")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Insert("c", "a").Delete("b")
	require.Equal(t, 2, s.Len())
	require.ElementsMatch(t, []string{"a", "c"}, s.UnsortedList())
	require.Equal(t, []string{"a", "c"}, Sorted(s))
}
