package store

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"

	"gopkg.in/yaml.v3"

	"pavcheck/internal/cert"
	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// The YAML export is the human-readable mirror of the database: sets become
// member lists, rationals stay exact "p/q" strings. Importing an export into
// an empty database reproduces the original rows byte for byte.

// ExportVersion is the current export document version.
const ExportVersion = 1

// ExportDoc is the top-level YAML document.
type ExportDoc struct {
	Version      int            `json:"version" yaml:"version"`
	Certificates []ExportCert   `json:"certificates" yaml:"certificates"`
	Farkas       []ExportFarkas `json:"farkas" yaml:"farkas"`
}

// ExportCert is one certificate in export form.
type ExportCert struct {
	Key       string          `json:"key" yaml:"key"`
	N         int             `json:"n" yaml:"n"`
	K         int             `json:"k" yaml:"k"`
	Committee []int           `json:"committee" yaml:"committee"`
	Deviation []int           `json:"deviation" yaml:"deviation"`
	Objective ExportObjective `json:"objective" yaml:"objective"`
	Claimed   string          `json:"claimed,omitempty" yaml:"claimed,omitempty"`
	Alpha     string          `json:"alpha" yaml:"alpha"`
	Gamma     string          `json:"gamma" yaml:"gamma"`
	Beta      []ExportBeta    `json:"beta" yaml:"beta"`
}

// ExportObjective names the objective declaratively.
type ExportObjective struct {
	Kind        string `json:"kind" yaml:"kind"`
	Ballot      []int  `json:"ballot" yaml:"ballot"`
	Alternative int    `json:"alternative" yaml:"alternative"`
}

// ExportBeta is one swap multiplier.
type ExportBeta struct {
	Step  int    `json:"step,omitempty" yaml:"step,omitempty"`
	X     int    `json:"x" yaml:"x"`
	Y     int    `json:"y" yaml:"y"`
	Value string `json:"value" yaml:"value"`
}

// ExportFarkas is one infeasibility certificate in export form.
type ExportFarkas struct {
	Key     string       `json:"key" yaml:"key"`
	N       int          `json:"n" yaml:"n"`
	K       int          `json:"k" yaml:"k"`
	History []ExportStep `json:"history" yaml:"history"`
	Alpha   string       `json:"alpha" yaml:"alpha"`
	Gammas  []string     `json:"gammas" yaml:"gammas"`
	Betas   []ExportBeta `json:"betas" yaml:"betas"`
}

// ExportStep is one history step in export form.
type ExportStep struct {
	Committee []int `json:"committee" yaml:"committee"`
	Deviation []int `json:"deviation" yaml:"deviation"`
}

// Export writes every stored certificate to w as a YAML document, ordered by
// key.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	return s.export(ctx, w, "")
}

// ExportKey writes the certificate stored under one key. The key may name a
// dual or a farkas certificate.
func (s *Store) ExportKey(ctx context.Context, w io.Writer, key string) error {
	return s.export(ctx, w, key)
}

func (s *Store) export(ctx context.Context, w io.Writer, key string) error {
	records, err := s.ListCertificates(ctx, 0)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	farkas, err := s.ListFarkas(ctx, 0)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if key != "" {
		records, farkas = filterKey(records, farkas, key)
		if len(records)+len(farkas) == 0 {
			return &MissingCertificateError{Key: key}
		}
	}

	doc := ExportDoc{
		Version:      ExportVersion,
		Certificates: make([]ExportCert, len(records)),
		Farkas:       make([]ExportFarkas, len(farkas)),
	}
	for i, rec := range records {
		doc.Certificates[i] = exportCert(rec)
	}
	for i, fr := range farkas {
		doc.Farkas[i] = exportFarkas(fr)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML export from r, validates it against the export schema,
// and writes every certificate into the store. Existing keys are left
// untouched per the store's idempotent write contract.
func (s *Store) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	var doc ExportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("import: parse: %w", err)
	}
	if err := ValidateExport(&doc); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	for i := range doc.Certificates {
		rec, err := importCert(&doc.Certificates[i])
		if err != nil {
			return fmt.Errorf("import: certificate %q: %w", doc.Certificates[i].Key, err)
		}
		if err := s.PutCertificate(ctx, rec); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	for i := range doc.Farkas {
		ef := &doc.Farkas[i]
		n, k, h, fc, err := importFarkas(ef)
		if err != nil {
			return fmt.Errorf("import: farkas %q: %w", ef.Key, err)
		}
		if err := s.PutFarkas(ctx, ef.Key, n, k, h, fc); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return nil
}

func filterKey(records []*cert.Record, farkas []*FarkasRow, key string) ([]*cert.Record, []*FarkasRow) {
	recs := records[:0:0]
	for _, rec := range records {
		if rec.Key == key {
			recs = append(recs, rec)
		}
	}
	rows := farkas[:0:0]
	for _, fr := range farkas {
		if fr.Key == key {
			rows = append(rows, fr)
		}
	}
	return recs, rows
}

func exportCert(rec *cert.Record) ExportCert {
	ec := ExportCert{
		Key:       rec.Key,
		N:         rec.N,
		K:         rec.K,
		Committee: rec.Committee.Members(),
		Deviation: rec.Deviation.Members(),
		Objective: ExportObjective{
			Kind:        rec.Objective.Kind,
			Ballot:      rec.Objective.Ballot.Members(),
			Alternative: rec.Objective.Alternative,
		},
		Alpha: cert.FormatRat(rec.Dual.Alpha),
		Gamma: cert.FormatRat(rec.Dual.Gamma),
		Beta:  []ExportBeta{},
	}
	if rec.Claimed != nil {
		ec.Claimed = cert.FormatRat(rec.Claimed)
	}
	swaps := make([]pav.Swap, 0, len(rec.Dual.Beta))
	for sw := range rec.Dual.Beta {
		if rec.Dual.Beta[sw].Sign() != 0 {
			swaps = append(swaps, sw)
		}
	}
	sort.Slice(swaps, func(i, j int) bool {
		if swaps[i].X != swaps[j].X {
			return swaps[i].X < swaps[j].X
		}
		return swaps[i].Y < swaps[j].Y
	})
	for _, sw := range swaps {
		ec.Beta = append(ec.Beta, ExportBeta{
			X: sw.X, Y: sw.Y, Value: cert.FormatRat(rec.Dual.Beta[sw]),
		})
	}
	return ec
}

func importCert(ec *ExportCert) (*cert.Record, error) {
	rec := &cert.Record{
		Key:       ec.Key,
		N:         ec.N,
		K:         ec.K,
		Committee: pav.SetOf(ec.Committee...),
		Deviation: pav.SetOf(ec.Deviation...),
		Objective: cert.ObjectiveSpec{
			Kind:        ec.Objective.Kind,
			Ballot:      pav.SetOf(ec.Objective.Ballot...),
			Alternative: ec.Objective.Alternative,
		},
	}
	var err error
	if ec.Claimed != "" {
		if rec.Claimed, err = cert.ParseRat(ec.Claimed); err != nil {
			return nil, err
		}
	}
	if rec.Dual.Alpha, err = cert.ParseRat(ec.Alpha); err != nil {
		return nil, err
	}
	if rec.Dual.Gamma, err = cert.ParseRat(ec.Gamma); err != nil {
		return nil, err
	}
	rec.Dual.Beta = make(map[pav.Swap]*big.Rat, len(ec.Beta))
	for _, eb := range ec.Beta {
		r, err := cert.ParseRat(eb.Value)
		if err != nil {
			return nil, err
		}
		rec.Dual.Beta[pav.Swap{X: eb.X, Y: eb.Y}] = r
	}
	return rec, nil
}

func exportFarkas(fr *FarkasRow) ExportFarkas {
	ef := ExportFarkas{
		Key:     fr.Key,
		N:       fr.N,
		K:       fr.K,
		History: make([]ExportStep, len(fr.History)),
		Alpha:   cert.FormatRat(fr.Farkas.Alpha),
		Gammas:  make([]string, len(fr.Farkas.Gamma)),
		Betas:   []ExportBeta{},
	}
	for i, st := range fr.History {
		ef.History[i] = ExportStep{
			Committee: st.Committee.Members(),
			Deviation: st.Deviation.Members(),
		}
	}
	for i, g := range fr.Farkas.Gamma {
		ef.Gammas[i] = cert.FormatRat(g)
	}
	keys := make([]cert.StepSwap, 0, len(fr.Farkas.Beta))
	for key := range fr.Farkas.Beta {
		if fr.Farkas.Beta[key].Sign() != 0 {
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
	for _, key := range keys {
		ef.Betas = append(ef.Betas, ExportBeta{
			Step: key.Step, X: key.X, Y: key.Y,
			Value: cert.FormatRat(fr.Farkas.Beta[key]),
		})
	}
	return ef
}

func importFarkas(ef *ExportFarkas) (int, int, wlog.History, *cert.Farkas, error) {
	h := make(wlog.History, len(ef.History))
	for i, st := range ef.History {
		h[i] = wlog.Step{
			Committee: pav.SetOf(st.Committee...),
			Deviation: pav.SetOf(st.Deviation...),
		}
	}
	fc := &cert.Farkas{
		Beta:  make(map[cert.StepSwap]*big.Rat, len(ef.Betas)),
		Gamma: make([]*big.Rat, len(ef.Gammas)),
	}
	var err error
	if fc.Alpha, err = cert.ParseRat(ef.Alpha); err != nil {
		return 0, 0, nil, nil, err
	}
	for i, v := range ef.Gammas {
		if fc.Gamma[i], err = cert.ParseRat(v); err != nil {
			return 0, 0, nil, nil, err
		}
	}
	for _, eb := range ef.Betas {
		r, err := cert.ParseRat(eb.Value)
		if err != nil {
			return 0, 0, nil, nil, err
		}
		fc.Beta[cert.StepSwap{Step: eb.Step, Swap: pav.Swap{X: eb.X, Y: eb.Y}}] = r
	}
	return ef.N, ef.K, h, fc, nil
}
