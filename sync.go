package mtree

import "sync"

// SyncTree wraps a *Tree with a single sync.RWMutex guarding the whole
// tree, for callers that need concurrent access despite the core itself
// being single-threaded. The insert/split path can mutate an unbounded
// chain of ancestors, so anything finer-grained would need the split
// algorithm redesigned first.
//
// SyncTree is additive: *Tree remains usable unwrapped, with zero locking
// overhead, for callers who supply their own synchronization or need none.
type SyncTree[T Key[T]] struct {
	mu   sync.RWMutex
	tree *Tree[T]
}

// NewSyncTree wraps an existing *Tree. The wrapper takes over all access;
// callers should not use tree directly once wrapped.
func NewSyncTree[T Key[T]](tree *Tree[T]) *SyncTree[T] {
	return &SyncTree[T]{tree: tree}
}

func (s *SyncTree[T]) Insert(entry Entry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Insert(entry)
}

func (s *SyncTree[T]) DeleteEntry(entry Entry[T]) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.DeleteEntry(entry)
}

func (s *SyncTree[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Clear()
}

func (s *SyncTree[T]) RangeQuery(query T, radius float64) []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.RangeQuery(query, radius)
}

func (s *SyncTree[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Size()
}

func (s *SyncTree[T]) MemoryUsage() uintptr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.MemoryUsage()
}

func (s *SyncTree[T]) Dump() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Dump()
}
