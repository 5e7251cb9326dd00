package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	code, err := New(16)
	assert.NoError(t, err)
	assert.Len(t, code, 16)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestNewDrawsUniformly(t *testing.T) {
	// Reducing raw bytes mod 62 would make "0" through "7" about 25% more
	// frequent than the rest. With half a million runes the per-character
	// spread of an unbiased draw stays well under the 15% tolerance.
	counts := make(map[rune]int, len(alphabet))
	for i := 0; i < 128; i++ {
		code, err := New(4096)
		assert.NoError(t, err)
		for _, r := range code {
			counts[r]++
		}
	}

	assert.Len(t, counts, len(alphabet), "every alphabet character should occur")
	min, max := counts['0'], counts['0']
	for _, n := range counts {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	assert.Less(t, float64(max)/float64(min), 1.15)
}

func TestNewCodeUniqueEnough(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := NewCode()
		assert.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}
