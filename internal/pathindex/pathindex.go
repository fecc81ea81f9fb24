// Package pathindex resolves paths to the most specific registered ancestor.
//
// An Index holds a set of registered root paths, each with a value. A query
// path is mapped to the value of the longest registered path that equals it or
// is one of its '/'-delimited ancestors. Every registered path also has its
// rolling hash recorded in a hash set, so a query costs O(len(path)) hashing
// plus one map probe per boundary whose prefix hash is known, instead of one
// prefix comparison per root.
//
// The hash set is append-only: Remove deletes the map entry but leaves the
// hash behind. The map is the source of truth for existence, so stale hashes
// only cost an extra probe.
//
// An Index is not safe for concurrent use; see Synchronized.
package pathindex

import (
	"strings"

	"modgraph/internal/pathhash"
)

// Index maps registered root paths to values.
type Index[V any] struct {
	caseSensitive bool
	paths         map[string]V
	hashes        map[uint64]struct{}
}

// New creates an empty index. caseSensitive selects both the hash folding and
// the key equality used for lookups.
func New[V any](caseSensitive bool) *Index[V] {
	return &Index[V]{
		caseSensitive: caseSensitive,
		paths:         make(map[string]V),
		hashes:        make(map[uint64]struct{}),
	}
}

// CaseSensitive reports the comparison policy chosen at construction.
func (x *Index[V]) CaseSensitive() bool {
	return x.caseSensitive
}

// Add registers value under path. A later Add for the same path replaces the
// earlier value.
func (x *Index[V]) Add(path string, value V) {
	p := trimTrailingSlash(path)
	x.paths[x.key(p)] = value
	x.hashes[pathhash.Hash(x.caseSensitive, p)] = struct{}{}
}

// Remove unregisters path. Its hash stays in the hash set.
func (x *Index[V]) Remove(path string) {
	delete(x.paths, x.key(trimTrailingSlash(path)))
}

// Clear removes every registered path and hash.
func (x *Index[V]) Clear() {
	x.paths = make(map[string]V)
	x.hashes = make(map[uint64]struct{})
}

// ContainsKey reports whether path itself is registered.
func (x *Index[V]) ContainsKey(path string) bool {
	_, ok := x.paths[x.key(trimTrailingSlash(path))]
	return ok
}

// Len returns the number of registered paths.
func (x *Index[V]) Len() int {
	return len(x.paths)
}

// Values returns all registered values in no particular order.
func (x *Index[V]) Values() []V {
	values := make([]V, 0, len(x.paths))
	for _, v := range x.paths {
		values = append(values, v)
	}
	return values
}

// GetMappingFor returns the value registered under the longest path that is
// equal to path or an ancestor of it.
func (x *Index[V]) GetMappingFor(path string) (V, bool) {
	p := trimTrailingSlash(path)

	// Candidate prefix lengths whose hash is known, shortest first.
	var matches []int
	if _, ok := x.hashes[pathhash.Seed]; ok {
		matches = append(matches, 0)
	}

	h := pathhash.New(x.caseSensitive)
	index := 0
	for index < len(p) {
		next := strings.IndexByte(p[index+1:], '/')
		if next < 0 {
			next = len(p)
		} else {
			next += index + 1
		}
		h.Write(p[index:next])
		if _, ok := x.hashes[h.Sum()]; ok {
			matches = append(matches, next)
		}
		index = next
	}

	for i := len(matches) - 1; i >= 0; i-- {
		if v, ok := x.paths[x.key(p[:matches[i]])]; ok {
			return v, true
		}
	}

	var zero V
	return zero, false
}

func (x *Index[V]) key(p string) string {
	if x.caseSensitive {
		return p
	}
	return strings.ToLower(p)
}

func trimTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}
