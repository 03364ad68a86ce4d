package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestFindsNearMisspelling(t *testing.T) {
	s := New()
	hint, ok := s.Closest("armroy", []string{"intro", "armory", "cellar"})
	require.True(t, ok)
	assert.Equal(t, "armory", hint)
}

func TestClosestNoneWithinDistance(t *testing.T) {
	s := New()
	_, ok := s.Closest("zzzzzzzzzz", []string{"intro", "armory"})
	assert.False(t, ok)
}

func TestClosestSkipsExactMatch(t *testing.T) {
	s := New()
	_, ok := s.Closest("armory", []string{"armory"})
	assert.False(t, ok, "an exact match has nothing to suggest")
}

func TestClosestEmptyCandidates(t *testing.T) {
	s := New()
	_, ok := s.Closest("anything", nil)
	assert.False(t, ok)
}
