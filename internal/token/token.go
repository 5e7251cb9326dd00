// Package token mints the unguessable public codes used in share URLs.
package token

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CodeLength is the length of a forward share code.
const CodeLength = 8

// maxByte is the largest multiple of len(alphabet) that fits in a byte.
// Bytes at or above it are rejected so every alphabet character is equally
// likely; reducing a raw byte mod 62 would favor the first 8 characters.
const maxByte = 256 - 256%len(alphabet)

// New returns a uniformly random base62 string of length n.
func New(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("token: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// NewCode returns a fresh forward share code.
func NewCode() (string, error) {
	return New(CodeLength)
}
