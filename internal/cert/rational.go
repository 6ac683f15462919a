package cert

import (
	"fmt"
	"math/big"
)

// FormatRat renders a rational in the exact text form used throughout the
// store and the YAML surface: "p/q" in lowest terms, or a bare integer when
// the denominator is 1. ParseRat inverts it byte-for-byte: big.Rat normalizes
// to lowest terms, so format→parse→format is the identity.
func FormatRat(r *big.Rat) string {
	return r.RatString()
}

// ParseRat parses the exact text form produced by FormatRat.
func ParseRat(text string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("cert: invalid rational %q", text)
	}
	return r, nil
}
