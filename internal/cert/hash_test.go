package cert

import (
	"math/big"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

func sampleRecord() *Record {
	return &Record{
		Key:       "s1",
		N:         4,
		K:         2,
		Committee: pav.SetOf(0, 1),
		Deviation: pav.SetOf(2),
		Objective: ObjectiveSpec{Kind: KindFreq, Ballot: pav.SetOf(0)},
		Claimed:   big.NewRat(1, 4),
		Dual: Dual{
			Alpha: big.NewRat(1, 2),
			Beta:  map[pav.Swap]*big.Rat{{X: 0, Y: 2}: big.NewRat(1, 2)},
			Gamma: big.NewRat(1, 2),
		},
	}
}

func TestRecordCanonicalForm(t *testing.T) {
	rec := sampleRecord()

	canonical, err := MarshalCanonical(rec.canonicalMap())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "record", canonical)
}

func TestRecordIDStable(t *testing.T) {
	first, err := sampleRecord().ID()
	require.NoError(t, err)
	again, err := sampleRecord().ID()
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Len(t, first, 64, "hex-encoded SHA-256")
}

func TestRecordIDSensitivity(t *testing.T) {
	base, err := sampleRecord().ID()
	require.NoError(t, err)

	mutations := map[string]func(*Record){
		"key":       func(r *Record) { r.Key = "s2" },
		"committee": func(r *Record) { r.Committee = pav.SetOf(0, 2) },
		"objective": func(r *Record) { r.Objective.Kind = KindNegFreq },
		"claimed":   func(r *Record) { r.Claimed = big.NewRat(1, 3) },
		"alpha":     func(r *Record) { r.Dual.Alpha = big.NewRat(1, 3) },
		"beta":      func(r *Record) { r.Dual.Beta[pav.Swap{X: 1, Y: 3}] = big.NewRat(1, 8) },
		"gamma":     func(r *Record) { r.Dual.Gamma = new(big.Rat) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord()
			mutate(rec)
			id, err := rec.ID()
			require.NoError(t, err)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestRecordIDClaimedOptional(t *testing.T) {
	rec := sampleRecord()
	rec.Claimed = nil
	id, err := rec.ID()
	require.NoError(t, err)

	withClaimed, err := sampleRecord().ID()
	require.NoError(t, err)
	assert.NotEqual(t, withClaimed, id)
}

func TestFarkasIDStable(t *testing.T) {
	h := wlog.History{{Committee: pav.SetOf(0), Deviation: pav.SetOf(1)}}
	fc := &Farkas{
		Alpha: big.NewRat(1, 1),
		Beta:  map[StepSwap]*big.Rat{{Step: 0, Swap: pav.Swap{X: 0, Y: 1}}: big.NewRat(1, 1)},
		Gamma: []*big.Rat{big.NewRat(2, 1)},
	}

	first, err := FarkasID(2, 1, h, fc)
	require.NoError(t, err)
	again, err := FarkasID(2, 1, h, fc)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, first, 64)

	// Same payload under the certificate domain must not collide.
	fc.Gamma[0] = big.NewRat(3, 1)
	changed, err := FarkasID(2, 1, h, fc)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestDomainSeparation(t *testing.T) {
	a := hashWithDomain(DomainCertificate, []byte("payload"))
	b := hashWithDomain(DomainFarkas, []byte("payload"))
	assert.NotEqual(t, a, b)
}
