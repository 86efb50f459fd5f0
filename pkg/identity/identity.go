// Package identity derives the pseudonymous user identifier stored on
// documents in place of the raw authentication subject id.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUID maps an auth subject id to its stable pseudonymous identifier:
// the lowercase hex SHA-256 digest. Deterministic and one-way, so stored
// documents never carry the raw subject id.
func HashUID(subjectID string) string {
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}
