// Package verify implements the central correctness argument: exact
// dual-feasibility checking for the frequency LPs built by internal/lp.
//
// A dual certificate is accepted only if every sign constraint holds and, for
// literally every ballot in the 2^n universe, the dual constraint
//
//	alpha + Σ beta_{x,y}·[H(u(B,W−x+y)) − H(u(B,W))] − gamma·[B prefers T]
//
// dominates the ballot's objective coefficient under exact rational
// comparison. No tolerance, no sampling, no pruning: the proof requires every
// ballot, and the check is cheap enough to afford it.
//
// The verifier is agnostic to how a dual was obtained. It depends only on the
// LP instance's coefficient formulas and the stored rational values, which is
// what makes a stored certificate independently auditable: the snapping oracle
// may guess wrong, but it can never make an unsound certificate pass.
//
// Batch verification of independent certificates is embarrassingly parallel
// and runs on a fixed-size errgroup pool; a failing certificate is recorded
// under its key while sibling checks continue, so a batch run reports every
// failing case rather than stopping at the first.
package verify
