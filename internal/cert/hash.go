package cert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// Domain prefixes for content-addressed certificate identity. The version
// suffix leaves room for algorithm migration.
const (
	DomainCertificate = "pavcheck/certificate/v1"
	DomainFarkas      = "pavcheck/farkas/v1"
)

// hashWithDomain computes SHA-256 over domain + 0x00 + data. The null
// separator removes domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalMap flattens a Record into the restricted value tree accepted by
// MarshalCanonical. Rationals become exact strings, sets become member arrays.
func (r *Record) canonicalMap() map[string]any {
	swaps := make([]pav.Swap, 0, len(r.Dual.Beta))
	for sw := range r.Dual.Beta {
		swaps = append(swaps, sw)
	}
	sort.Slice(swaps, func(i, j int) bool {
		if swaps[i].X != swaps[j].X {
			return swaps[i].X < swaps[j].X
		}
		return swaps[i].Y < swaps[j].Y
	})
	betas := make([]any, len(swaps))
	for i, sw := range swaps {
		betas[i] = map[string]any{
			"x":     sw.X,
			"y":     sw.Y,
			"value": FormatRat(r.Dual.Beta[sw]),
		}
	}

	m := map[string]any{
		"key":       r.Key,
		"n":         r.N,
		"k":         r.K,
		"committee": intList(r.Committee),
		"deviation": intList(r.Deviation),
		"objective": map[string]any{
			"kind":        r.Objective.Kind,
			"ballot":      intList(r.Objective.Ballot),
			"alternative": r.Objective.Alternative,
		},
		"alpha": FormatRat(r.Dual.Alpha),
		"gamma": FormatRat(r.Dual.Gamma),
		"beta":  betas,
	}
	if r.Claimed != nil {
		m["claimed"] = FormatRat(r.Claimed)
	}
	return m
}

func intList(s pav.Set) []any {
	members := s.Members()
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}

// ID computes the content-addressed identity of a record. Stable across
// processes and store round-trips given equal contents.
func (r *Record) ID() (string, error) {
	canonical, err := MarshalCanonical(r.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("certificate ID: %w", err)
	}
	return hashWithDomain(DomainCertificate, canonical), nil
}

// FarkasID computes the content-addressed identity of an infeasibility
// certificate together with the history it refutes.
func FarkasID(n, k int, h wlog.History, fc *Farkas) (string, error) {
	keys := make([]StepSwap, 0, len(fc.Beta))
	for key := range fc.Beta {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Step != keys[j].Step {
			return keys[i].Step < keys[j].Step
		}
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})
	betas := make([]any, len(keys))
	for i, key := range keys {
		betas[i] = map[string]any{
			"step":  key.Step,
			"x":     key.X,
			"y":     key.Y,
			"value": FormatRat(fc.Beta[key]),
		}
	}
	gammas := make([]any, len(fc.Gamma))
	for i, g := range fc.Gamma {
		gammas[i] = FormatRat(g)
	}
	history := make([]any, len(h))
	for i, st := range h {
		history[i] = map[string]any{
			"committee": intList(st.Committee),
			"deviation": intList(st.Deviation),
		}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"n":       n,
		"k":       k,
		"history": history,
		"alpha":   FormatRat(fc.Alpha),
		"beta":    betas,
		"gamma":   gammas,
	})
	if err != nil {
		return "", fmt.Errorf("farkas ID: %w", err)
	}
	return hashWithDomain(DomainFarkas, canonical), nil
}
