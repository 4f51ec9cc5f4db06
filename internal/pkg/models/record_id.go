package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RecordID builds the deterministic fixture identifier used for idempotency.
//
// The participant pair is unordered: RecordID(tier, a, b, t) == RecordID(tier, b, a, t),
// so the same fixture scraped with swapped sides never creates a second row.
// Names are normalized before hashing because the site is not consistent about
// whitespace across markup revisions.
func RecordID(tier Tier, participantA, participantB, tournamentName string) string {
	a := normalizeKeyPart(participantA)
	b := normalizeKeyPart(participantB)
	if a > b {
		a, b = b, a
	}

	key := string(tier) + "|" + a + "|" + b + "|" + normalizeKeyPart(tournamentName)

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
