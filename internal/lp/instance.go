package lp

import (
	"errors"
	"math/big"

	"pavcheck/internal/pav"
)

var (
	// ErrGroundSetSize indicates n outside [1, pav.MaxGroundSet].
	ErrGroundSetSize = errors.New("lp: ground-set size out of range")
	// ErrCommitteeSize indicates |committee| != k.
	ErrCommitteeSize = errors.New("lp: committee size does not match k")
	// ErrOutsideGroundSet indicates the committee or deviation references
	// elements outside the ground set.
	ErrOutsideGroundSet = errors.New("lp: set not contained in ground set")
	// ErrDeviationInCommittee indicates the deviation is a subset of the
	// committee and therefore cannot block it.
	ErrDeviationInCommittee = errors.New("lp: deviation contained in committee")
)

// Instance is the LP family determined by (A, k, committee, T). The variable
// set (one frequency per ballot) and constraint set are fully determined by
// these four values.
type Instance struct {
	N         int
	K         int
	Committee pav.Set
	Deviation pav.Set

	harm    *pav.Harmonic
	swaps   []pav.Swap
	ballots []pav.Set
}

// New validates the parameters and precomputes the swap list, the ballot
// universe, and the harmonic table (to k+1, the largest utility a swapped
// committee can reach).
func New(n, k int, committee, deviation pav.Set) (*Instance, error) {
	if n < 1 || n > pav.MaxGroundSet {
		return nil, ErrGroundSetSize
	}
	ground := pav.Ground(n)
	if !committee.SubsetOf(ground) || !deviation.SubsetOf(ground) {
		return nil, ErrOutsideGroundSet
	}
	if committee.Card() != k {
		return nil, ErrCommitteeSize
	}
	if deviation.SubsetOf(committee) {
		return nil, ErrDeviationInCommittee
	}
	return &Instance{
		N:         n,
		K:         k,
		Committee: committee,
		Deviation: deviation,
		harm:      pav.NewHarmonic(k + 1),
		swaps:     pav.Swaps(n, committee),
		ballots:   pav.Universe(n),
	}, nil
}

// Ballots returns the full ballot universe (all 2^n subsets). Shared
// read-only.
func (in *Instance) Ballots() []pav.Set {
	return in.ballots
}

// Swaps returns the k·(n−k) swaps of the committee in deterministic order.
func (in *Instance) Swaps() []pav.Swap {
	return in.swaps
}

// Harmonic exposes the instance's harmonic table.
func (in *Instance) Harmonic() *pav.Harmonic {
	return in.harm
}

// scoreDelta is the one shared implementation of a ballot's PAV score change
// when the committee moves from `from` to `to`:
// H(utility(ballot,to)) − H(utility(ballot,from)).
// Every swap coefficient and every marginal objective goes through here.
func (in *Instance) scoreDelta(ballot, from, to pav.Set) *big.Rat {
	return new(big.Rat).Sub(
		in.harm.H(pav.Utility(ballot, to)),
		in.harm.H(pav.Utility(ballot, from)),
	)
}

// SwapCoeff is the ballot's coefficient in the swap constraint for sw:
// H(utility(ballot, W−x+y)) − H(utility(ballot, W)).
func (in *Instance) SwapCoeff(ballot pav.Set, sw pav.Swap) *big.Rat {
	return in.scoreDelta(ballot, in.Committee, pav.Apply(in.Committee, sw))
}

// DeviationCoeff is 1 iff the ballot strictly prefers the deviation target to
// the committee, else 0. The empty ballot prefers nothing and contributes 0.
func (in *Instance) DeviationCoeff(ballot pav.Set) int {
	if pav.Utility(ballot, in.Deviation) > pav.Utility(ballot, in.Committee) {
		return 1
	}
	return 0
}

// DeviationShare is the deviation constraint's right-hand side |T|/k.
func (in *Instance) DeviationShare() *big.Rat {
	return big.NewRat(int64(in.Deviation.Card()), int64(in.K))
}
