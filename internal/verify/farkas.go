package verify

import (
	"fmt"
	"math/big"

	"pavcheck/internal/cert"
	"pavcheck/internal/lp"
	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// VerifyFarkas checks an infeasibility certificate for a recursive proof
// history over the ground set {0..n-1} with committee size k.
//
// The certified claim: no ballot-frequency distribution is simultaneously
// swap-stable for every committee in the history and blocked by every
// deviation (a ballot stops counting toward later deviations once one of its
// preferred deviations has fired). Infeasibility is witnessed by
//
//	lhs(B) = alpha + Σ_t Σ_{(x,y)} beta_{t,x,y}·swapCoeff_t(B) − gamma_t·[B active and prefers T_t]
//
// being ≥ 0 for every ballot while alpha − Σ_t (|T_t|/k)·gamma_t ≤ −1.
//
// Swap coefficients come from the instance builder, the same single
// implementation the feasible-case verifier uses.
func VerifyFarkas(n, k int, h wlog.History, fc *cert.Farkas) error {
	if len(h) == 0 {
		return fmt.Errorf("farkas: empty history")
	}
	if len(fc.Gamma) != len(h) {
		return fmt.Errorf("farkas: %d gamma values for %d history steps", len(fc.Gamma), len(h))
	}
	for t, g := range fc.Gamma {
		if g.Sign() < 0 {
			return &SignError{Variable: fmt.Sprintf("gamma[%d]", t), Value: g}
		}
	}

	insts := make([]*lp.Instance, len(h))
	for t, st := range h {
		inst, err := lp.New(n, k, st.Committee, st.Deviation)
		if err != nil {
			return fmt.Errorf("farkas: step %d: %w", t, err)
		}
		insts[t] = inst
	}

	// Per step, the nonzero swap multipliers in deterministic order.
	type betaTerm struct {
		swap  pav.Swap
		value *big.Rat
	}
	betas := make([][]betaTerm, len(h))
	known := make(map[cert.StepSwap]bool)
	for t, inst := range insts {
		for _, sw := range inst.Swaps() {
			key := cert.StepSwap{Step: t, Swap: sw}
			known[key] = true
			b, ok := fc.Beta[key]
			if !ok || b.Sign() == 0 {
				continue
			}
			if b.Sign() < 0 {
				return &SignError{Variable: fmt.Sprintf("beta[%d]%s", t, sw), Value: b}
			}
			betas[t] = append(betas[t], betaTerm{swap: sw, value: b})
		}
	}
	for key := range fc.Beta {
		if !known[key] {
			return &UnknownSwapError{Swap: key.Swap}
		}
	}

	term := new(big.Rat)
	for _, ballot := range pav.Universe(n) {
		lhs := new(big.Rat).Set(fc.Alpha)
		for t := range h {
			for _, bt := range betas[t] {
				coeff := insts[t].SwapCoeff(ballot, bt.swap)
				if coeff.Sign() != 0 {
					lhs.Add(lhs, term.Mul(bt.value, coeff))
				}
			}
			if insts[t].DeviationCoeff(ballot) == 1 {
				lhs.Sub(lhs, fc.Gamma[t])
				break // ballot becomes inactive
			}
		}
		if lhs.Sign() < 0 {
			return &BoundError{Ballot: ballot, LHS: lhs, Bound: new(big.Rat)}
		}
	}

	// alpha − Σ (|T_t|/k)·gamma_t must certify the contradiction.
	value := new(big.Rat).Set(fc.Alpha)
	for t := range h {
		value.Sub(value, term.Mul(insts[t].DeviationShare(), fc.Gamma[t]))
	}
	if value.Cmp(big.NewRat(-1, 1)) > 0 {
		return &FarkasBoundError{Value: value}
	}
	return nil
}
