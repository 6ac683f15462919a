package wlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pavcheck/internal/pav"
)

func TestContinuationsEmptyHistory(t *testing.T) {
	// With full symmetry the only committee worth considering is {0,1}, and
	// the candidate deviations collapse to one singleton, one overlapping
	// pair, and one disjoint pair.
	conts, err := Continuations(4, 2, nil)
	require.NoError(t, err)

	require.Len(t, conts, 3)
	for _, h := range conts {
		require.Len(t, h, 1)
		assert.Equal(t, pav.SetOf(0, 1), h[0].Committee)
		assert.False(t, h[0].Deviation.SubsetOf(h[0].Committee))
	}
	assert.Equal(t, pav.SetOf(2), conts[0][0].Deviation)
	assert.Equal(t, pav.SetOf(0, 2), conts[1][0].Deviation)
	assert.Equal(t, pav.SetOf(2, 3), conts[2][0].Deviation)
}

func TestContinuationsCommitteeContainsPastDeviations(t *testing.T) {
	h := History{{Committee: pav.SetOf(0, 1), Deviation: pav.SetOf(2)}}
	conts, err := Continuations(4, 2, h)
	require.NoError(t, err)
	require.NotEmpty(t, conts)

	for _, next := range conts {
		require.Len(t, next, 2)
		last := next[1]
		assert.True(t, pav.SetOf(2).SubsetOf(last.Committee),
			"new committee %s must contain the past deviation", last.Committee)
		assert.False(t, last.Deviation.SubsetOf(last.Committee))
		// The prefix is preserved untouched.
		assert.Equal(t, h[0], next[0])
	}
}

func TestContinuationsPreservesHistoryIndependence(t *testing.T) {
	h := History{{Committee: pav.SetOf(0, 1), Deviation: pav.SetOf(2)}}
	conts, err := Continuations(4, 2, h)
	require.NoError(t, err)
	require.Greater(t, len(conts), 1)

	// Appending to one continuation must not leak into its siblings.
	conts[0] = append(conts[0], Step{Committee: pav.SetOf(1, 2), Deviation: pav.SetOf(3)})
	assert.Len(t, conts[1], 2)
	assert.Equal(t, h[0], conts[1][0])
}

func TestContinuationsDeviationsAreCanonical(t *testing.T) {
	conts, err := Continuations(5, 2, nil)
	require.NoError(t, err)

	for _, next := range conts {
		last := next[len(next)-1]
		refined, err := Generate(5, append(History(nil).distinguished(), last.Committee))
		require.NoError(t, err)
		assert.True(t, refined.IsCanonical(last.Deviation),
			"deviation %s for committee %s", last.Deviation, last.Committee)
	}
}

func TestContinuationsOverfullHistory(t *testing.T) {
	// Past deviations already exceed the committee size.
	h := History{
		{Committee: pav.SetOf(0, 1), Deviation: pav.SetOf(2, 3)},
		{Committee: pav.SetOf(2, 3), Deviation: pav.SetOf(0, 1)},
	}
	_, err := Continuations(4, 2, h)
	assert.ErrorIs(t, err, ErrHistoryShape)
}
