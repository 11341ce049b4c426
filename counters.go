package mtree

import "sync"

// Counters is an optional, caller-owned record of distance-function calls
// made by a Tree, split into build-time (Insert/split/descent) and
// query-time (RangeQuery/DeleteEntry traversal) buckets. It is mutex-guarded
// rather than atomic so a *Counters can be safely shared with a SyncTree
// wrapper without additional synchronization.
type Counters struct {
	mu    sync.RWMutex
	build uint64
	query uint64
}

// NewCounters returns a zeroed Counters ready to be attached to a Tree via
// Tree.SetCounters.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) addBuild(n uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.build += n
	c.mu.Unlock()
}

func (c *Counters) addQuery(n uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.query += n
	c.mu.Unlock()
}

// Snapshot returns the current (build, query) distance-call totals.
func (c *Counters) Snapshot() (build, query uint64) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.build, c.query
}

// Reset zeroes both counters so the caller can measure a fresh phase of
// work (e.g. "distance evaluations during this one RangeQuery").
func (c *Counters) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.build = 0
	c.query = 0
	c.mu.Unlock()
}
