package pav

import "math/big"

// Harmonic is a memoized table of harmonic numbers H(r) = 1/1 + ... + 1/r as
// exact rationals, with H(0) = 0.
//
// The table is fully built at construction and never written afterwards, so a
// single Harmonic may be shared by concurrent batch workers. Callers must
// treat the returned *big.Rat values as immutable; use them only as operands,
// never as receivers.
type Harmonic struct {
	vals []*big.Rat
}

// NewHarmonic precomputes H(0)..H(max). Committee sizes are bounded by 13 in
// this system, so max stays tiny; memoization is a performance nicety, the
// values are exact either way.
func NewHarmonic(max int) *Harmonic {
	if max < 0 {
		max = 0
	}
	vals := make([]*big.Rat, max+1)
	vals[0] = new(big.Rat)
	for r := 1; r <= max; r++ {
		vals[r] = new(big.Rat).Add(vals[r-1], big.NewRat(1, int64(r)))
	}
	return &Harmonic{vals: vals}
}

// H returns H(r). r must lie in [0, max]; the table grows only at
// construction, so an out-of-range r is a programming error and panics.
func (h *Harmonic) H(r int) *big.Rat {
	return h.vals[r]
}

// Max returns the largest r the table covers.
func (h *Harmonic) Max() int {
	return len(h.vals) - 1
}
