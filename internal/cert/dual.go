package cert

import (
	"fmt"
	"math/big"

	"pavcheck/internal/lp"
	"pavcheck/internal/pav"
)

// Dual is a dual assignment for one frequency LP: one unconstrained scalar for
// the normalization constraint, one nonnegative multiplier per swap, and one
// nonnegative multiplier for the deviation constraint.
//
// Swaps whose multiplier is exactly zero may be omitted from Beta; the
// verifier treats absence as zero.
type Dual struct {
	Alpha *big.Rat
	Beta  map[pav.Swap]*big.Rat
	Gamma *big.Rat
}

// Objective kinds understood by the certificate store.
const (
	KindFreq        = "freq"
	KindNegFreq     = "neg_freq"
	KindMarginal    = "marginal"
	KindNegMarginal = "neg_marginal"
)

// ObjectiveSpec names a proof obligation's objective declaratively so it can
// be persisted alongside the dual and rebuilt against a fresh instance at
// verification time.
type ObjectiveSpec struct {
	Kind string
	// Ballot is the target ballot for freq / neg_freq.
	Ballot pav.Set
	// Alternative is the removed committee member for marginal / neg_marginal.
	Alternative int
}

// Build resolves the declared objective into an lp.Objective over the given
// instance.
func (o ObjectiveSpec) Build(in *lp.Instance) (lp.Objective, error) {
	switch o.Kind {
	case KindFreq:
		return lp.Indicator(o.Ballot), nil
	case KindNegFreq:
		return lp.NegIndicator(o.Ballot), nil
	case KindMarginal:
		if !in.Committee.Contains(o.Alternative) {
			return lp.Objective{}, fmt.Errorf("cert: marginal alternative %d not in committee", o.Alternative)
		}
		return in.MarginalRemoval(o.Alternative), nil
	case KindNegMarginal:
		if !in.Committee.Contains(o.Alternative) {
			return lp.Objective{}, fmt.Errorf("cert: marginal alternative %d not in committee", o.Alternative)
		}
		return in.NegMarginalRemoval(o.Alternative), nil
	default:
		return lp.Objective{}, fmt.Errorf("cert: unknown objective kind %q", o.Kind)
	}
}

// Record is one persisted proof obligation: the LP instance parameters, the
// objective, the dual certificate, and the claimed primal bound the dual is
// supposed to certify. Immutable after creation.
type Record struct {
	Key       string
	N         int
	K         int
	Committee pav.Set
	Deviation pav.Set
	Objective ObjectiveSpec
	Claimed   *big.Rat
	Dual      Dual
}

// Instance builds the LP instance the record refers to.
func (r *Record) Instance() (*lp.Instance, error) {
	return lp.New(r.N, r.K, r.Committee, r.Deviation)
}

// StepSwap addresses a swap multiplier within a multi-step proof history.
type StepSwap struct {
	Step int
	pav.Swap
}

// Farkas is an infeasibility certificate for a recursive proof history: the
// LP extended with one swap-stability family and one deviation constraint per
// step has no feasible point, witnessed by alpha, per-step swap multipliers,
// and per-step deviation multipliers.
type Farkas struct {
	Alpha *big.Rat
	Beta  map[StepSwap]*big.Rat
	Gamma []*big.Rat
}
