package store

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"pavcheck/internal/cert"
	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// Column codecs. Every JSON column is written through the canonical marshaler
// so identical certificates produce byte-identical rows, which is what makes
// cert_hash comparable across databases.

type betaEntry struct {
	Step  int    `json:"step,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Value string `json:"value"`
}

// marshalBetas serializes single-instance swap multipliers, sorted by (x, y).
// Zero entries are dropped; the verifier treats absence as zero.
func marshalBetas(beta map[pav.Swap]*big.Rat) (string, error) {
	swaps := make([]pav.Swap, 0, len(beta))
	for sw := range beta {
		if beta[sw].Sign() != 0 {
			swaps = append(swaps, sw)
		}
	}
	sort.Slice(swaps, func(i, j int) bool {
		if swaps[i].X != swaps[j].X {
			return swaps[i].X < swaps[j].X
		}
		return swaps[i].Y < swaps[j].Y
	})
	entries := make([]any, len(swaps))
	for i, sw := range swaps {
		entries[i] = map[string]any{
			"x":     sw.X,
			"y":     sw.Y,
			"value": cert.FormatRat(beta[sw]),
		}
	}
	data, err := cert.MarshalCanonical(entries)
	if err != nil {
		return "", fmt.Errorf("marshal betas: %w", err)
	}
	return string(data), nil
}

func unmarshalBetas(data string) (map[pav.Swap]*big.Rat, error) {
	var entries []betaEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal betas: %w", err)
	}
	beta := make(map[pav.Swap]*big.Rat, len(entries))
	for _, e := range entries {
		r, err := cert.ParseRat(e.Value)
		if err != nil {
			return nil, fmt.Errorf("unmarshal betas: %w", err)
		}
		beta[pav.Swap{X: e.X, Y: e.Y}] = r
	}
	return beta, nil
}

// marshalStepBetas serializes multi-step swap multipliers, sorted by
// (step, x, y).
func marshalStepBetas(beta map[cert.StepSwap]*big.Rat) (string, error) {
	keys := make([]cert.StepSwap, 0, len(beta))
	for key := range beta {
		if beta[key].Sign() != 0 {
			keys = append(keys, key)
		}
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
	entries := make([]any, len(keys))
	for i, key := range keys {
		entries[i] = map[string]any{
			"step":  key.Step,
			"x":     key.X,
			"y":     key.Y,
			"value": cert.FormatRat(beta[key]),
		}
	}
	data, err := cert.MarshalCanonical(entries)
	if err != nil {
		return "", fmt.Errorf("marshal step betas: %w", err)
	}
	return string(data), nil
}

func unmarshalStepBetas(data string) (map[cert.StepSwap]*big.Rat, error) {
	var entries []betaEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal step betas: %w", err)
	}
	beta := make(map[cert.StepSwap]*big.Rat, len(entries))
	for _, e := range entries {
		r, err := cert.ParseRat(e.Value)
		if err != nil {
			return nil, fmt.Errorf("unmarshal step betas: %w", err)
		}
		beta[cert.StepSwap{Step: e.Step, Swap: pav.Swap{X: e.X, Y: e.Y}}] = r
	}
	return beta, nil
}

func marshalGammas(gammas []*big.Rat) (string, error) {
	values := make([]any, len(gammas))
	for i, g := range gammas {
		values[i] = cert.FormatRat(g)
	}
	data, err := cert.MarshalCanonical(values)
	if err != nil {
		return "", fmt.Errorf("marshal gammas: %w", err)
	}
	return string(data), nil
}

func unmarshalGammas(data string) ([]*big.Rat, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal gammas: %w", err)
	}
	gammas := make([]*big.Rat, len(values))
	for i, v := range values {
		r, err := cert.ParseRat(v)
		if err != nil {
			return nil, fmt.Errorf("unmarshal gammas: %w", err)
		}
		gammas[i] = r
	}
	return gammas, nil
}

type historyStep struct {
	Committee string `json:"committee"`
	Deviation string `json:"deviation"`
}

func marshalHistory(h wlog.History) (string, error) {
	steps := make([]any, len(h))
	for i, st := range h {
		steps[i] = map[string]any{
			"committee": st.Committee.String(),
			"deviation": st.Deviation.String(),
		}
	}
	data, err := cert.MarshalCanonical(steps)
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}
	return string(data), nil
}

func unmarshalHistory(data string) (wlog.History, error) {
	var steps []historyStep
	if err := json.Unmarshal([]byte(data), &steps); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	h := make(wlog.History, len(steps))
	for i, st := range steps {
		committee, err := pav.ParseSet(st.Committee)
		if err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}
		deviation, err := pav.ParseSet(st.Deviation)
		if err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}
		h[i] = wlog.Step{Committee: committee, Deviation: deviation}
	}
	return h, nil
}
