package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainConsequence = "touchbase/consequence/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConsequenceID computes the content-addressed id of a consequence.
// The id depends only on the game, the two participants and the type, so
// resolving the same game twice always targets the same ledger documents.
func ConsequenceID(gameID, playerID, targetID, kind string) (string, error) {
	for name, v := range map[string]string{
		"game_id":   gameID,
		"player_id": playerID,
		"target_id": targetID,
		"type":      kind,
	} {
		if v == "" {
			return "", fmt.Errorf("ConsequenceID: %s is required", name)
		}
	}

	canonical, err := MarshalCanonical(map[string]string{
		"game_id":   gameID,
		"player_id": playerID,
		"target_id": targetID,
		"type":      kind,
	})
	if err != nil {
		return "", fmt.Errorf("ConsequenceID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainConsequence, canonical), nil
}

// MustConsequenceID is like ConsequenceID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConsequenceID(gameID, playerID, targetID, kind string) string {
	id, err := ConsequenceID(gameID, playerID, targetID, kind)
	if err != nil {
		panic(err)
	}
	return id
}
