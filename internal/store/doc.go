// Package store provides SQLite-backed durable storage for proof
// certificates.
//
// Two representations are kept in sync: the database rows (machine readable,
// canonical JSON columns, content hashes) and the YAML export (human
// readable). Round-tripping a database through export and import reproduces
// the original rows exactly, so either form can serve as the archival copy.
//
// The store never judges a certificate. Verification happens in
// internal/verify; the store's only invariants are durability, idempotent
// writes, and lossless exact-rational round-trips.
package store
