// Package wlog prunes the exponential ballot/deviation search space by
// exploiting label-permutation symmetry.
//
// Given the subsets already distinguished by a proof state (committees and
// deviations seen so far), elements are interchangeable exactly when they lie
// in the same distinguished subsets. Generate groups elements into such blocks;
// IsCanonical decides whether a set is the lexicographically minimal
// representative of its within-block permutation orbit. The check is a
// closed-form per-block comparison: a set is canonical iff inside every block
// it consists of the block's lowest-indexed elements. No permutations are
// ever enumerated.
//
// The filter only reduces which items get checked. Each surviving item's
// verification remains exact and self-contained; canonicalization is never
// part of the correctness argument itself.
package wlog
