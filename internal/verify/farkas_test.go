package verify

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pavcheck/internal/cert"
	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// The minimal infeasible history: n=2, k=1, committee {0} blocked by {1}. By
// symmetry {1} would then be blocked by {0}, so no stable distribution exists
// already after one step.
func minimalHistory() wlog.History {
	return wlog.History{{Committee: pav.SetOf(0), Deviation: pav.SetOf(1)}}
}

func minimalFarkas() *cert.Farkas {
	return &cert.Farkas{
		Alpha: big.NewRat(1, 1),
		Beta: map[cert.StepSwap]*big.Rat{
			{Step: 0, Swap: pav.Swap{X: 0, Y: 1}}: big.NewRat(1, 1),
		},
		Gamma: []*big.Rat{big.NewRat(2, 1)},
	}
}

func TestVerifyFarkasAccepts(t *testing.T) {
	err := VerifyFarkas(2, 1, minimalHistory(), minimalFarkas())
	require.NoError(t, err)
}

func TestVerifyFarkasRejectsWeakBound(t *testing.T) {
	fc := minimalFarkas()
	// gamma too small: every ballot constraint still holds but the final
	// bound lands at -1/2 instead of -1.
	fc.Gamma[0] = big.NewRat(3, 2)

	err := VerifyFarkas(2, 1, minimalHistory(), fc)
	var boundErr *FarkasBoundError
	require.ErrorAs(t, err, &boundErr)
	assert.Equal(t, 0, boundErr.Value.Cmp(big.NewRat(-1, 2)))
	assert.True(t, IsCertificateError(err))
}

func TestVerifyFarkasRejectsBallotViolation(t *testing.T) {
	fc := minimalFarkas()
	// Pushing gamma up without adjusting beta drives the {1} ballot negative.
	fc.Gamma[0] = big.NewRat(3, 1)

	err := VerifyFarkas(2, 1, minimalHistory(), fc)
	var boundErr *BoundError
	require.ErrorAs(t, err, &boundErr)
	assert.Equal(t, pav.SetOf(1), boundErr.Ballot)
}

func TestVerifyFarkasRejectsNegativeMultipliers(t *testing.T) {
	fc := minimalFarkas()
	fc.Gamma[0] = big.NewRat(-1, 1)
	var signErr *SignError
	require.ErrorAs(t, VerifyFarkas(2, 1, minimalHistory(), fc), &signErr)

	fc = minimalFarkas()
	fc.Beta[cert.StepSwap{Step: 0, Swap: pav.Swap{X: 0, Y: 1}}] = big.NewRat(-1, 1)
	require.ErrorAs(t, VerifyFarkas(2, 1, minimalHistory(), fc), &signErr)
}

func TestVerifyFarkasRejectsUnknownStepSwap(t *testing.T) {
	fc := minimalFarkas()
	// Step 1 does not exist in a one-step history.
	fc.Beta[cert.StepSwap{Step: 1, Swap: pav.Swap{X: 0, Y: 1}}] = big.NewRat(1, 1)

	err := VerifyFarkas(2, 1, minimalHistory(), fc)
	var unknownErr *UnknownSwapError
	require.ErrorAs(t, err, &unknownErr)
}

func TestVerifyFarkasShapeErrors(t *testing.T) {
	err := VerifyFarkas(2, 1, nil, minimalFarkas())
	assert.Error(t, err)
	assert.False(t, IsCertificateError(err))

	fc := minimalFarkas()
	fc.Gamma = append(fc.Gamma, big.NewRat(1, 1))
	err = VerifyFarkas(2, 1, minimalHistory(), fc)
	assert.Error(t, err)
	assert.False(t, IsCertificateError(err))
}

// A ballot deactivates at its first preferred deviation: later steps may not
// subtract their gamma from it again.
func TestVerifyFarkasDeactivation(t *testing.T) {
	// Two steps over n=3, k=1: {0} blocked by {1}, then {1} blocked by {2}.
	h := wlog.History{
		{Committee: pav.SetOf(0), Deviation: pav.SetOf(1)},
		{Committee: pav.SetOf(1), Deviation: pav.SetOf(2)},
	}
	// Ballot {1,2} prefers {1} already at step 0, so step 1's gamma never
	// touches it. A certificate that would need the double subtraction to
	// fail must therefore pass.
	fc := &cert.Farkas{
		Alpha: big.NewRat(2, 1),
		Beta: map[cert.StepSwap]*big.Rat{
			{Step: 0, Swap: pav.Swap{X: 0, Y: 1}}: big.NewRat(1, 1),
			{Step: 0, Swap: pav.Swap{X: 0, Y: 2}}: big.NewRat(1, 1),
			{Step: 1, Swap: pav.Swap{X: 1, Y: 2}}: big.NewRat(1, 1),
		},
		Gamma: []*big.Rat{big.NewRat(2, 1), big.NewRat(2, 1)},
	}

	// Spot-check the arithmetic for ballot {1}: step 0 contributes
	// beta(0,1)*1 = +1 and beta(0,2)*0, then the ballot prefers {1} and
	// deactivates with -gamma_0. lhs = 2 + 1 - 2 = 1 >= 0. Ballot {2} walks
	// both steps: +1 at step 0, then at step 1 it prefers {2}: +1 - 2, so
	// lhs = 2 + 1 + 1 - 2 = 2 >= 0.
	err := VerifyFarkas(3, 1, h, fc)
	require.NoError(t, err)
}
