package verify

import (
	"math/big"

	"pavcheck/internal/cert"
	"pavcheck/internal/lp"
	"pavcheck/internal/pav"
)

// Verifier checks dual certificates against one LP instance. It re-derives
// every constraint coefficient from the instance; the external solver's model
// never enters the picture.
type Verifier struct {
	inst *lp.Instance
}

// New creates a verifier for the given instance.
func New(inst *lp.Instance) *Verifier {
	return &Verifier{inst: inst}
}

// Verify checks that the dual certifies an upper bound on the objective:
//
//  1. every beta ≥ 0 and gamma ≥ 0 (alpha is unconstrained);
//  2. for every ballot B in the full universe,
//     alpha + Σ beta·SwapCoeff(B) − gamma·DeviationCoeff(B) ≥ objective(B)
//     holds exactly;
//  3. on success, returns the dual objective alpha − (|T|/k)·gamma.
//
// Any violated ballot constraint is a hard failure carrying the ballot and
// both sides of the inequality.
func (v *Verifier) Verify(d *cert.Dual, obj lp.Objective) (*big.Rat, error) {
	if d.Gamma.Sign() < 0 {
		return nil, &SignError{Variable: "gamma", Value: d.Gamma}
	}
	// Collect nonzero betas in deterministic order; zero entries contribute
	// nothing and absent entries are exact zeros.
	valid := make(map[pav.Swap]bool, len(v.inst.Swaps()))
	for _, sw := range v.inst.Swaps() {
		valid[sw] = true
	}
	type betaTerm struct {
		swap  pav.Swap
		value *big.Rat
	}
	var betas []betaTerm
	for _, sw := range v.inst.Swaps() {
		b, ok := d.Beta[sw]
		if !ok || b.Sign() == 0 {
			continue
		}
		if b.Sign() < 0 {
			return nil, &SignError{Variable: "beta" + sw.String(), Value: b}
		}
		betas = append(betas, betaTerm{swap: sw, value: b})
	}
	for sw := range d.Beta {
		if !valid[sw] {
			return nil, &UnknownSwapError{Swap: sw}
		}
	}

	term := new(big.Rat)
	zero := new(big.Rat)
	for _, ballot := range v.inst.Ballots() {
		lhs := new(big.Rat).Set(d.Alpha)
		for _, bt := range betas {
			coeff := v.inst.SwapCoeff(ballot, bt.swap)
			if coeff.Sign() != 0 {
				lhs.Add(lhs, term.Mul(bt.value, coeff))
			}
		}
		if v.inst.DeviationCoeff(ballot) == 1 {
			lhs.Sub(lhs, d.Gamma)
		}
		bound := obj.Coeff(ballot)
		if bound == nil {
			bound = zero
		}
		if lhs.Cmp(bound) < 0 {
			return nil, &BoundError{
				Ballot: ballot,
				LHS:    lhs,
				Bound:  new(big.Rat).Set(bound),
			}
		}
	}

	value := new(big.Rat).Mul(v.inst.DeviationShare(), d.Gamma)
	return value.Sub(d.Alpha, value), nil
}

// CheckRecord rebuilds a stored record's instance and objective, verifies the
// dual, and requires the computed dual objective to equal the record's claimed
// bound exactly. Returns the verified value.
func CheckRecord(rec *cert.Record) (*big.Rat, error) {
	inst, err := rec.Instance()
	if err != nil {
		return nil, err
	}
	obj, err := rec.Objective.Build(inst)
	if err != nil {
		return nil, err
	}
	value, err := New(inst).Verify(&rec.Dual, obj)
	if err != nil {
		return nil, err
	}
	if rec.Claimed != nil && value.Cmp(rec.Claimed) != 0 {
		return nil, &ValueMismatchError{Key: rec.Key, Claimed: rec.Claimed, Computed: value}
	}
	return value, nil
}
