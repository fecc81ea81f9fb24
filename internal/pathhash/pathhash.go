// Package pathhash computes rolling hashes over slash-separated paths.
//
// The hash of a path equals the hash obtained by feeding its segments into a
// Hasher one after another, so a caller walking a path left to right can read
// the hash of every prefix without rehashing it.
package pathhash

import (
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Seed is the hash of the empty path.
var Seed = xxhash.New().Sum64()

// Hasher accumulates a path hash segment by segment.
type Hasher struct {
	caseSensitive bool
	d             *xxhash.Digest
	buf           [utf8.UTFMax]byte
}

// New returns a Hasher positioned at the empty prefix.
func New(caseSensitive bool) *Hasher {
	return &Hasher{caseSensitive: caseSensitive, d: xxhash.New()}
}

// Write extends the hashed prefix with s.
func (h *Hasher) Write(s string) {
	if h.caseSensitive {
		_, _ = h.d.WriteString(s)
		return
	}
	for _, r := range s {
		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			h.buf[0] = byte(r)
			_, _ = h.d.Write(h.buf[:1])
			continue
		}
		n := utf8.EncodeRune(h.buf[:], unicode.ToLower(r))
		_, _ = h.d.Write(h.buf[:n])
	}
}

// Sum returns the hash of everything written so far. It does not reset state.
func (h *Hasher) Sum() uint64 {
	return h.d.Sum64()
}

// Reset rewinds the hasher to the empty prefix.
func (h *Hasher) Reset() {
	h.d.Reset()
}

// Hash returns the hash of path under the given case policy.
func Hash(caseSensitive bool, path string) uint64 {
	h := New(caseSensitive)
	h.Write(path)
	return h.Sum()
}
