// Package ident derives stable identifiers.
//
// Content-addressed ids (ConsequenceID) are SHA-256 digests over a domain
// prefix and the RFC 8785 canonical JSON of the identifying tuple, so the same
// inputs always produce the same id across processes and retries. Random ids
// for new documents come from a Generator.
package ident
