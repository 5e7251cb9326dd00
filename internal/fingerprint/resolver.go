// Package fingerprint derives pseudo-identities for anonymous viewers.
// A fingerprint is the dedup key used in lieu of an account: the same
// (origin, signature) pair always resolves to the same token, and the token
// is not reversible to either input.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Resolve hashes the viewer's network origin (client IP) and client
// signature (User-Agent) into a stable identity token.
//
// An empty origin is valid: when the origin lookup fails upstream, dedup
// degrades to signature-only rather than failing the visit. An origin change
// (e.g. a mobile network switch) produces a different token; that is an
// accepted limitation of fingerprint dedup.
func Resolve(origin, signature string) string {
	sum := sha256.Sum256([]byte(origin + "|" + signature))
	return hex.EncodeToString(sum[:])
}
