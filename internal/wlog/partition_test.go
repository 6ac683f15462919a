package wlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pavcheck/internal/pav"
)

func TestGenerateNoDistinguished(t *testing.T) {
	p, err := Generate(5, nil)
	require.NoError(t, err)

	require.Len(t, p.Blocks(), 1, "no constraints leaves one block")
	assert.Equal(t, pav.Ground(5), p.Blocks()[0])
	assert.Equal(t, 5, p.N())
}

func TestGenerateSignatureBlocks(t *testing.T) {
	// Committee {0..7} and deviation {0,1,8,9} over 10 alternatives split the
	// ground set into committee∩deviation, committee-only, and deviation-only.
	committee := pav.SetOf(0, 1, 2, 3, 4, 5, 6, 7)
	deviation := pav.SetOf(0, 1, 8, 9)

	p, err := Generate(10, []pav.Set{committee, deviation})
	require.NoError(t, err)

	require.Len(t, p.Blocks(), 3)
	assert.Equal(t, pav.SetOf(0, 1), p.Blocks()[0])
	assert.Equal(t, pav.SetOf(2, 3, 4, 5, 6, 7), p.Blocks()[1])
	assert.Equal(t, pav.SetOf(8, 9), p.Blocks()[2])
}

func TestGenerateBlocksPartitionGround(t *testing.T) {
	distinguished := []pav.Set{pav.SetOf(0, 3), pav.SetOf(3, 4, 5), pav.SetOf(1)}
	p, err := Generate(7, distinguished)
	require.NoError(t, err)

	var union pav.Set
	for i, b := range p.Blocks() {
		assert.Equal(t, pav.Set(0), union&b, "block %d overlaps earlier blocks", i)
		union |= b
	}
	assert.Equal(t, pav.Ground(7), union)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(4, []pav.Set{pav.SetOf(5)})
	assert.ErrorIs(t, err, ErrOutsideGroundSet)

	many := make([]pav.Set, 65)
	for i := range many {
		many[i] = pav.SetOf(0)
	}
	_, err = Generate(4, many)
	assert.ErrorIs(t, err, ErrTooManyDistinguished)
}

func TestBlockOf(t *testing.T) {
	p, err := Generate(6, []pav.Set{pav.SetOf(0, 1, 2)})
	require.NoError(t, err)

	assert.Equal(t, pav.SetOf(0, 1, 2), p.BlockOf(1))
	assert.Equal(t, pav.SetOf(3, 4, 5), p.BlockOf(4))
}

func TestCanonicalize(t *testing.T) {
	p, err := Generate(6, []pav.Set{pav.SetOf(0, 1, 2)})
	require.NoError(t, err)

	// One pick in {0,1,2} moves to 0, two picks in {3,4,5} move to {3,4}.
	assert.Equal(t, pav.SetOf(0, 3, 4), p.Canonicalize(pav.SetOf(2, 4, 5)))
	// Already canonical sets are fixed points.
	assert.Equal(t, pav.SetOf(0, 3, 4), p.Canonicalize(pav.SetOf(0, 3, 4)))
	assert.Equal(t, pav.Set(0), p.Canonicalize(pav.Set(0)))
}

func TestCanonicalizeIdempotent(t *testing.T) {
	p, err := Generate(6, []pav.Set{pav.SetOf(1, 4), pav.SetOf(2, 3, 4)})
	require.NoError(t, err)

	for _, s := range pav.Universe(6) {
		c := p.Canonicalize(s)
		require.Equal(t, c, p.Canonicalize(c), "canonicalize(%s)", s)
		require.True(t, p.IsCanonical(c))
	}
}

func TestIsCanonicalMatchesCanonicalize(t *testing.T) {
	p, err := Generate(6, []pav.Set{pav.SetOf(0, 1, 2)})
	require.NoError(t, err)

	for _, s := range pav.Universe(6) {
		want := s == p.Canonicalize(s)
		require.Equal(t, want, p.IsCanonical(s), "set %s", s)
	}
}

func TestIsCanonicalOutsideGround(t *testing.T) {
	p, err := Generate(4, nil)
	require.NoError(t, err)
	assert.False(t, p.IsCanonical(pav.SetOf(6)))
}

// Each orbit under within-block permutations must contain exactly one
// canonical representative, otherwise the wlog reduction would either lose
// cases or double-count them.
func TestOneCanonicalPerOrbit(t *testing.T) {
	p, err := Generate(6, []pav.Set{pav.SetOf(0, 1, 2), pav.SetOf(2, 3)})
	require.NoError(t, err)

	// Orbits are determined by the per-block membership counts.
	type signature [8]int
	canonicalPerOrbit := make(map[signature]int)
	totalPerOrbit := make(map[signature]int)
	for _, s := range pav.Universe(6) {
		var sig signature
		for i, b := range p.Blocks() {
			sig[i] = (s & b).Card()
		}
		totalPerOrbit[sig]++
		if p.IsCanonical(s) {
			canonicalPerOrbit[sig]++
		}
	}
	assert.Equal(t, len(totalPerOrbit), len(canonicalPerOrbit))
	for sig, count := range canonicalPerOrbit {
		assert.Equal(t, 1, count, "orbit %v", sig)
	}
}
