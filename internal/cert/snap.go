package cert

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// ToleranceError reports a float dual value with no library rational within
// tolerance. During certificate generation this is a warning (the closest
// match is recorded and generation continues); if the guess was wrong, the
// exact verifier rejects the resulting certificate, so a bad snap can never
// certify anything.
type ToleranceError struct {
	Value     float64
	Closest   *big.Rat
	Tolerance float64
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf("snap: no library rational within %g of %v (closest %s)",
		e.Tolerance, e.Value, FormatRat(e.Closest))
}

// Library is a finite, sorted set of candidate exact rationals that solver
// floats are snapped to. Built once, read-only afterwards.
type Library struct {
	entries []*big.Rat // ascending, deduplicated
}

// HarmonicDenominators derives the denominators that actually arise from the
// LP's structure for committee size k: the denominators of every harmonic
// difference H(a)−H(b) with a,b ≤ k+1, their pairwise LCMs, and those scaled
// by k (the deviation share contributes a factor of k). This replaces the
// hand-maintained list of "extra" rationals the systematic sweep used to miss.
func HarmonicDenominators(k int) []int {
	harm := make([]*big.Rat, k+2)
	harm[0] = new(big.Rat)
	for r := 1; r <= k+1; r++ {
		harm[r] = new(big.Rat).Add(harm[r-1], big.NewRat(1, int64(r)))
	}
	seen := map[int]bool{1: true}
	add := func(d int64) {
		if d > 0 && d <= math.MaxInt32 {
			seen[int(d)] = true
		}
	}
	base := []int64{}
	for a := 0; a <= k+1; a++ {
		for b := 0; b < a; b++ {
			d := new(big.Rat).Sub(harm[a], harm[b]).Denom().Int64()
			add(d)
			base = append(base, d)
		}
	}
	for _, d1 := range base {
		for _, d2 := range base {
			add(lcm(d1, d2))
		}
	}
	for d := range seen {
		add(int64(d) * int64(k))
	}
	out := make([]int, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// NewLibrary builds the snapping library: every p/q with q in the denominator
// set and |p/q| ≤ maxAbs. Typical use combines a small systematic sweep with
// the structure-derived denominators:
//
//	lib := cert.NewLibrary(append(seq(1, 60), cert.HarmonicDenominators(k)...), 20)
func NewLibrary(denominators []int, maxAbs int) *Library {
	seen := make(map[string]bool)
	var entries []*big.Rat
	for _, q := range denominators {
		if q < 1 {
			continue
		}
		limit := int64(maxAbs) * int64(q)
		for p := -limit; p <= limit; p++ {
			r := big.NewRat(p, int64(q))
			key := r.RatString()
			if !seen[key] {
				seen[key] = true
				entries = append(entries, r)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Cmp(entries[j]) < 0 })
	return &Library{entries: entries}
}

// SweepDenominators returns 1..max, the plain systematic sweep.
func SweepDenominators(max int) []int {
	out := make([]int, max)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Len returns the number of library entries.
func (l *Library) Len() int {
	return len(l.entries)
}

// Snap returns the library entry closest to x. If the closest entry is farther
// than tol away, it is still returned alongside a *ToleranceError, mirroring
// the generation pipeline's record-and-continue behavior.
//
// The result is an unverified hint: only the exact feasibility check
// downstream decides whether the snapped value is sound.
func (l *Library) Snap(x float64, tol float64) (*big.Rat, error) {
	if len(l.entries) == 0 {
		return nil, fmt.Errorf("snap: empty library")
	}
	target := new(big.Rat).SetFloat64(x)
	if target == nil {
		return nil, fmt.Errorf("snap: non-finite value %v", x)
	}
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Cmp(target) >= 0
	})
	best := l.entries[min(i, len(l.entries)-1)]
	if i > 0 {
		lo := l.entries[i-1]
		if distance(lo, x) < distance(best, x) {
			best = lo
		}
	}
	if distance(best, x) > tol {
		return best, &ToleranceError{Value: x, Closest: best, Tolerance: tol}
	}
	return best, nil
}

func distance(r *big.Rat, x float64) float64 {
	f, _ := r.Float64()
	return math.Abs(f - x)
}
