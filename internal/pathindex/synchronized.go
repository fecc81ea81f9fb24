package pathindex

import "sync"

// Synchronized guards an Index with a read-write lock for owners that share
// one index across goroutines.
type Synchronized[V any] struct {
	mu  sync.RWMutex
	idx *Index[V]
}

// NewSynchronized creates an empty, lock-guarded index.
func NewSynchronized[V any](caseSensitive bool) *Synchronized[V] {
	return &Synchronized[V]{idx: New[V](caseSensitive)}
}

func (s *Synchronized[V]) Add(path string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.Add(path, value)
}

func (s *Synchronized[V]) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.Remove(path)
}

func (s *Synchronized[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.Clear()
}

func (s *Synchronized[V]) ContainsKey(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.ContainsKey(path)
}

func (s *Synchronized[V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.Values()
}

func (s *Synchronized[V]) GetMappingFor(path string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.GetMappingFor(path)
}

// Replace swaps in a freshly built index under the write lock.
func (s *Synchronized[V]) Replace(idx *Index[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = idx
}
