// Package lp builds the frequency LP whose duals the verifier checks.
//
// For a ground set A, committee W of size k, and deviation target T, the
// primal assigns a nonnegative frequency to every ballot subject to:
//
//   - normalization: frequencies sum to 1;
//   - swap stability: for every swap (x ∈ W, y ∉ W), the expected PAV score of
//     W−{x}+{y} does not exceed that of W;
//   - deviation: ballots strictly preferring T to W carry frequency ≥ |T|/k.
//
// The package exposes the constraint coefficients symbolically rather than
// through a solver API, so the optimizer-facing model and the verifier derive
// every coefficient from the same implementation. That sharing is a soundness
// requirement, not a convenience: a formula duplicated in the verifier could
// silently diverge from the one the solver saw.
package lp
