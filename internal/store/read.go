package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pavcheck/internal/cert"
	"pavcheck/internal/pav"
	"pavcheck/internal/wlog"
)

// FarkasRow is a stored infeasibility certificate together with the history
// it refutes.
type FarkasRow struct {
	Key     string
	N       int
	K       int
	History wlog.History
	Farkas  cert.Farkas
	Hash    string
}

// GetCertificate retrieves a single certificate by key.
// Returns *MissingCertificateError if the key is not stored.
func (s *Store) GetCertificate(ctx context.Context, key string) (*cert.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, n, k, committee, deviation, objective_kind, objective_ballot,
		       objective_alt, claimed, alpha, gamma, betas
		FROM certificates
		WHERE key = ?
	`, key)

	rec, err := scanCertificate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &MissingCertificateError{Key: key}
	}
	return rec, err
}

// ListCertificates returns all certificates, optionally filtered by committee
// size (k <= 0 means no filter). Ordered by key for deterministic batch runs.
func (s *Store) ListCertificates(ctx context.Context, k int) ([]*cert.Record, error) {
	query := `
		SELECT key, n, k, committee, deviation, objective_kind, objective_ballot,
		       objective_alt, claimed, alpha, gamma, betas
		FROM certificates
	`
	var args []any
	if k > 0 {
		query += ` WHERE k = ?`
		args = append(args, k)
	}
	query += ` ORDER BY key COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}
	defer rows.Close()

	records := []*cert.Record{}
	for rows.Next() {
		rec, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return records, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCertificate(row scannable) (*cert.Record, error) {
	var (
		rec       cert.Record
		committee string
		deviation string
		ballot    string
		claimed   sql.NullString
		alpha     string
		gamma     string
		betas     string
	)
	err := row.Scan(
		&rec.Key, &rec.N, &rec.K, &committee, &deviation,
		&rec.Objective.Kind, &ballot, &rec.Objective.Alternative,
		&claimed, &alpha, &gamma, &betas,
	)
	if err != nil {
		return nil, err
	}

	if rec.Committee, err = pav.ParseSet(committee); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	if rec.Deviation, err = pav.ParseSet(deviation); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	if rec.Objective.Ballot, err = pav.ParseSet(ballot); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	if claimed.Valid {
		if rec.Claimed, err = cert.ParseRat(claimed.String); err != nil {
			return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
		}
	}
	if rec.Dual.Alpha, err = cert.ParseRat(alpha); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	if rec.Dual.Gamma, err = cert.ParseRat(gamma); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	if rec.Dual.Beta, err = unmarshalBetas(betas); err != nil {
		return nil, fmt.Errorf("scan certificate %q: %w", rec.Key, err)
	}
	return &rec, nil
}

// GetFarkas retrieves a single infeasibility certificate by key.
// Returns *MissingCertificateError if the key is not stored.
func (s *Store) GetFarkas(ctx context.Context, key string) (*FarkasRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, n, k, history, alpha, gammas, betas, cert_hash
		FROM farkas_certificates
		WHERE key = ?
	`, key)

	fr, err := scanFarkas(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &MissingCertificateError{Key: key}
	}
	return fr, err
}

// ListFarkas returns all infeasibility certificates, optionally filtered by
// committee size (k <= 0 means no filter), ordered by key.
func (s *Store) ListFarkas(ctx context.Context, k int) ([]*FarkasRow, error) {
	query := `
		SELECT key, n, k, history, alpha, gammas, betas, cert_hash
		FROM farkas_certificates
	`
	var args []any
	if k > 0 {
		query += ` WHERE k = ?`
		args = append(args, k)
	}
	query += ` ORDER BY key COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query farkas certificates: %w", err)
	}
	defer rows.Close()

	out := []*FarkasRow{}
	for rows.Next() {
		fr, err := scanFarkas(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate farkas certificates: %w", err)
	}
	return out, nil
}

func scanFarkas(row scannable) (*FarkasRow, error) {
	var (
		fr      FarkasRow
		history string
		alpha   string
		gammas  string
		betas   string
	)
	err := row.Scan(&fr.Key, &fr.N, &fr.K, &history, &alpha, &gammas, &betas, &fr.Hash)
	if err != nil {
		return nil, err
	}

	if fr.History, err = unmarshalHistory(history); err != nil {
		return nil, fmt.Errorf("scan farkas %q: %w", fr.Key, err)
	}
	if fr.Farkas.Alpha, err = cert.ParseRat(alpha); err != nil {
		return nil, fmt.Errorf("scan farkas %q: %w", fr.Key, err)
	}
	if fr.Farkas.Gamma, err = unmarshalGammas(gammas); err != nil {
		return nil, fmt.Errorf("scan farkas %q: %w", fr.Key, err)
	}
	if fr.Farkas.Beta, err = unmarshalStepBetas(betas); err != nil {
		return nil, fmt.Errorf("scan farkas %q: %w", fr.Key, err)
	}
	return &fr, nil
}
