package wlog

import (
	"pavcheck/internal/pav"
)

// Partition groups the ground set into blocks of mutually interchangeable
// elements. Two elements share a block iff they belong to exactly the same
// distinguished sets. Blocks are pairwise disjoint, jointly exhaustive, and
// ordered by their least element.
type Partition struct {
	n      int
	blocks []pav.Set
}

// Generate computes the coarsest partition of {0..n-1} consistent with the
// distinguished sets: each element's signature is the subset of distinguished
// sets containing it, and elements with equal signatures form a block.
//
// An automorphism of the proof state fixes every distinguished set iff it only
// permutes elements within blocks of this partition.
func Generate(n int, distinguished []pav.Set) (Partition, error) {
	if len(distinguished) > 64 {
		return Partition{}, ErrTooManyDistinguished
	}
	ground := pav.Ground(n)
	for _, d := range distinguished {
		if !d.SubsetOf(ground) {
			return Partition{}, ErrOutsideGroundSet
		}
	}

	sig := make([]uint64, n)
	for i, d := range distinguished {
		for x := 0; x < n; x++ {
			if d.Contains(x) {
				sig[x] |= 1 << uint(i)
			}
		}
	}

	var blocks []pav.Set
	assigned := make([]bool, n)
	for x := 0; x < n; x++ {
		if assigned[x] {
			continue
		}
		block := pav.SetOf(x)
		for y := x + 1; y < n; y++ {
			if !assigned[y] && sig[y] == sig[x] {
				block = block.Add(y)
				assigned[y] = true
			}
		}
		assigned[x] = true
		blocks = append(blocks, block)
	}
	return Partition{n: n, blocks: blocks}, nil
}

// N returns the ground-set size the partition was built over.
func (p Partition) N() int {
	return p.n
}

// Blocks returns the partition blocks ordered by least element. The slice is
// shared; callers must not modify it.
func (p Partition) Blocks() []pav.Set {
	return p.blocks
}

// BlockOf returns the block containing x.
func (p Partition) BlockOf(x int) pav.Set {
	for _, b := range p.blocks {
		if b.Contains(x) {
			return b
		}
	}
	return 0
}
