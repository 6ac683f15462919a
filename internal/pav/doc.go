// Package pav holds the primitives every other package composes: bitset
// encodings of ballots and committees over a small ground set, approval
// utilities, exact harmonic numbers, and swap enumeration.
//
// Ground sets never exceed 16 alternatives in this system, so a Set is a
// uint32 bitmask. All arithmetic that feeds the verifier is exact: harmonic
// numbers are *big.Rat, never floats.
package pav
