package wlog

import (
	"pavcheck/internal/pav"
)

// Step is one stage of a recursive proof: a committee and a deviation that
// blocks it. Each committee in a valid history contains every earlier
// deviation.
type Step struct {
	Committee pav.Set
	Deviation pav.Set
}

// History is an ordered list of steps.
type History []Step

// distinguished collects the sets that pin down the symmetry of a history:
// every deviation and every committee seen so far.
func (h History) distinguished() []pav.Set {
	out := make([]pav.Set, 0, 2*len(h))
	for _, st := range h {
		out = append(out, st.Deviation)
	}
	for _, st := range h {
		out = append(out, st.Committee)
	}
	return out
}

// Continuations enumerates the symmetry-reduced (committee, deviation)
// extensions of a history over the ground set {0..n-1} with committee size k.
//
// A new committee must contain all past deviations; the remaining seats are
// filled with a wlog-canonical choice of newcomers. For each new committee,
// candidate deviations are the wlog-canonical sets of size 1..k (canonical
// with respect to the symmetry that additionally fixes the new committee) that
// are not contained in it.
func Continuations(n, k int, h History) ([]History, error) {
	var past pav.Set
	for _, st := range h {
		past |= st.Deviation
	}
	toFill := k - past.Card()
	if toFill < 0 {
		return nil, ErrHistoryShape
	}
	remaining := pav.Ground(n) &^ past

	base, err := Generate(n, h.distinguished())
	if err != nil {
		return nil, err
	}

	var out []History
	for _, newcomers := range pav.Subsets(remaining, toFill) {
		if !base.IsCanonical(newcomers) {
			continue
		}
		committee := past | newcomers

		refined, err := Generate(n, append(h.distinguished(), committee))
		if err != nil {
			return nil, err
		}
		for ell := 1; ell <= k; ell++ {
			for _, t := range pav.Subsets(pav.Ground(n), ell) {
				if !refined.IsCanonical(t) || t.SubsetOf(committee) {
					continue
				}
				next := make(History, len(h), len(h)+1)
				copy(next, h)
				out = append(out, append(next, Step{Committee: committee, Deviation: t}))
			}
		}
	}
	return out, nil
}
