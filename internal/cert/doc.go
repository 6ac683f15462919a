// Package cert defines the proof-certificate data model: exact-rational dual
// solutions, Farkas infeasibility certificates for recursive proof histories,
// and the record envelope that ties a dual to its LP instance, objective, and
// claimed bound.
//
// Certificates are produced once (by an external solver plus the snapping
// oracle), persisted, and consumed read-only; nothing in this package mutates
// a certificate after creation. Records are content-addressed: a canonical
// JSON serialization (sorted keys, NFC strings, no floats, no null) is hashed
// with a domain-separated SHA-256 to give every certificate a stable identity.
package cert
