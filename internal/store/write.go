package store

import (
	"context"
	"fmt"

	"pavcheck/internal/cert"
	"pavcheck/internal/wlog"
)

// PutCertificate inserts a certificate record.
// Uses ON CONFLICT(key) DO NOTHING for idempotency - certificates are
// immutable, so a duplicate key is silently ignored rather than overwritten.
//
// All rational values are stored as exact "p/q" strings and the dual's swap
// multipliers as canonical JSON, so a read returns exactly what was written.
func (s *Store) PutCertificate(ctx context.Context, rec *cert.Record) error {
	betasJSON, err := marshalBetas(rec.Dual.Beta)
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}

	hash, err := rec.ID()
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}

	var claimed any
	if rec.Claimed != nil {
		claimed = cert.FormatRat(rec.Claimed)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO certificates
		(key, n, k, committee, deviation, objective_kind, objective_ballot, objective_alt,
		 claimed, alpha, gamma, betas, cert_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`,
		rec.Key,
		rec.N,
		rec.K,
		rec.Committee.String(),
		rec.Deviation.String(),
		rec.Objective.Kind,
		rec.Objective.Ballot.String(),
		rec.Objective.Alternative,
		claimed,
		cert.FormatRat(rec.Dual.Alpha),
		cert.FormatRat(rec.Dual.Gamma),
		betasJSON,
		hash,
	)
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}

	return nil
}

// PutFarkas inserts an infeasibility certificate for a proof history.
// Same idempotency contract as PutCertificate.
func (s *Store) PutFarkas(ctx context.Context, key string, n, k int, h wlog.History, fc *cert.Farkas) error {
	historyJSON, err := marshalHistory(h)
	if err != nil {
		return fmt.Errorf("put farkas: %w", err)
	}

	betasJSON, err := marshalStepBetas(fc.Beta)
	if err != nil {
		return fmt.Errorf("put farkas: %w", err)
	}

	gammasJSON, err := marshalGammas(fc.Gamma)
	if err != nil {
		return fmt.Errorf("put farkas: %w", err)
	}

	hash, err := cert.FarkasID(n, k, h, fc)
	if err != nil {
		return fmt.Errorf("put farkas: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO farkas_certificates
		(key, n, k, history, alpha, gammas, betas, cert_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`,
		key,
		n,
		k,
		historyJSON,
		cert.FormatRat(fc.Alpha),
		gammasJSON,
		betasJSON,
		hash,
	)
	if err != nil {
		return fmt.Errorf("put farkas: %w", err)
	}

	return nil
}
