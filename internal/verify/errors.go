package verify

import (
	"errors"
	"fmt"
	"math/big"

	"pavcheck/internal/pav"
)

// SignError reports a dual variable violating its required sign: some beta or
// gamma is negative. Fatal for the certificate under check; it cannot corrupt
// other certificates.
type SignError struct {
	Variable string // "gamma" or "beta(x,y)"
	Value    *big.Rat
}

func (e *SignError) Error() string {
	return fmt.Sprintf("dual variable %s = %s violates nonnegativity", e.Variable, e.Value.RatString())
}

// BoundError reports a ballot whose dual constraint fails: lhs < bound. Both
// sides are carried exactly so the offending inequality can be inspected
// without re-deriving it.
type BoundError struct {
	Ballot pav.Set
	LHS    *big.Rat
	Bound  *big.Rat
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("ballot %s violates dual constraint: lhs %s < objective %s",
		e.Ballot, e.LHS.RatString(), e.Bound.RatString())
}

// UnknownSwapError reports a beta entry addressing a pair that is not a swap
// of the instance's committee.
type UnknownSwapError struct {
	Swap pav.Swap
}

func (e *UnknownSwapError) Error() string {
	return fmt.Sprintf("beta entry %s is not a swap of the committee", e.Swap)
}

// ValueMismatchError reports a feasible dual whose objective value differs
// from the claimed primal bound stored with the certificate.
type ValueMismatchError struct {
	Key      string
	Claimed  *big.Rat
	Computed *big.Rat
}

func (e *ValueMismatchError) Error() string {
	return fmt.Sprintf("certificate %q: dual objective %s does not equal claimed bound %s",
		e.Key, e.Computed.RatString(), e.Claimed.RatString())
}

// FarkasBoundError reports a Farkas certificate whose final bound
// alpha − Σ (|T_t|/k)·gamma_t fails to reach −1.
type FarkasBoundError struct {
	Value *big.Rat
}

func (e *FarkasBoundError) Error() string {
	return fmt.Sprintf("farkas objective %s is not ≤ -1", e.Value.RatString())
}

// IsCertificateError reports whether err is one of the per-certificate
// verification failures (as opposed to a structural error that should abort a
// batch run).
func IsCertificateError(err error) bool {
	var se *SignError
	var be *BoundError
	var ue *UnknownSwapError
	var ve *ValueMismatchError
	var fe *FarkasBoundError
	return errors.As(err, &se) || errors.As(err, &be) || errors.As(err, &ue) ||
		errors.As(err, &ve) || errors.As(err, &fe)
}
