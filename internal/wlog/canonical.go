package wlog

import (
	"pavcheck/internal/pav"
)

// lowest returns the m lowest-indexed elements of block.
func lowest(block pav.Set, m int) pav.Set {
	var out pav.Set
	for x := 0; x < pav.MaxGroundSet && m > 0; x++ {
		if block.Contains(x) {
			out = out.Add(x)
			m--
		}
	}
	return out
}

// Canonicalize returns the canonical representative of s's orbit under
// within-block permutations: in each block, the membership count of s is kept
// but shifted onto the block's lowest-indexed elements.
func (p Partition) Canonicalize(s pav.Set) pav.Set {
	var out pav.Set
	for _, block := range p.blocks {
		out |= lowest(block, (s & block).Card())
	}
	return out
}

// IsCanonical reports whether s is the lexicographically minimal member of its
// orbit. Equivalent to s == p.Canonicalize(s), but checked block by block so a
// mismatch short-circuits. s must be contained in the ground set; a singleton
// block is trivially canonical for any membership count.
func (p Partition) IsCanonical(s pav.Set) bool {
	if !s.SubsetOf(pav.Ground(p.n)) {
		return false
	}
	for _, block := range p.blocks {
		picked := s & block
		if picked != lowest(block, picked.Card()) {
			return false
		}
	}
	return true
}
