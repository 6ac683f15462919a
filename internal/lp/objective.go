package lp

import (
	"fmt"
	"math/big"

	"pavcheck/internal/pav"
)

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

// Objective maps each ballot to its coefficient in the LP objective. Coeff may
// return nil for an exact zero; callers treat nil and 0/1 identically. The
// returned values are shared and must not be mutated.
type Objective struct {
	Name  string
	Coeff func(ballot pav.Set) *big.Rat
}

// Indicator is the objective selecting a single target ballot's frequency.
func Indicator(target pav.Set) Objective {
	return Objective{
		Name: fmt.Sprintf("freq_%s", target),
		Coeff: func(b pav.Set) *big.Rat {
			if b == target {
				return ratOne
			}
			return nil
		},
	}
}

// NegIndicator negates Indicator; maximizing it bounds the target frequency
// from below.
func NegIndicator(target pav.Set) Objective {
	return Objective{
		Name: fmt.Sprintf("neg_freq_%s", target),
		Coeff: func(b pav.Set) *big.Rat {
			if b == target {
				return ratNegOne
			}
			return nil
		},
	}
}

// MarginalRemoval is the expected PAV score change when member x leaves the
// committee: H(utility(ballot, W−{x})) − H(utility(ballot, W)), which is
// −1/utility for ballots approving x and 0 otherwise. Defined on the instance
// because it shares scoreDelta with the swap coefficients.
func (in *Instance) MarginalRemoval(x int) Objective {
	reduced := in.Committee.Remove(x)
	return Objective{
		Name: fmt.Sprintf("marginal_%d", x),
		Coeff: func(b pav.Set) *big.Rat {
			return in.scoreDelta(b, in.Committee, reduced)
		},
	}
}

// NegMarginalRemoval negates MarginalRemoval.
func (in *Instance) NegMarginalRemoval(x int) Objective {
	inner := in.MarginalRemoval(x)
	return Objective{
		Name: fmt.Sprintf("neg_marginal_%d", x),
		Coeff: func(b pav.Set) *big.Rat {
			return new(big.Rat).Neg(inner.Coeff(b))
		},
	}
}
