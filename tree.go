// Package mtree implements a dynamic, paged index over a generic metric
// space. Given any key type equipped with a distance function
// satisfying the triangle inequality, Tree supports insertion and range
// search, pruning subtrees whose cover radii cannot overlap the query ball.
package mtree

import (
	"fmt"
	"unsafe"
)

// DefaultNRoutes and DefaultLeafCap are the fanout and leaf capacity used by
// NewDefaultTree.
const (
	DefaultNRoutes = 16
	DefaultLeafCap = 250
)

// promoteIterations is the fixed number of farthest-point probe rounds used
// by promote.
const promoteIterations = 5

// Tree owns the root of an M-Tree and drives insertion, range query,
// delete, clear, size and memory-usage accounting. The zero value is not
// usable; construct with NewTree or NewDefaultTree.
type Tree[T Key[T]] struct {
	nroutes int
	leafcap int

	root  node[T]
	count int

	ctrs *Counters
}

// NewTree constructs an empty Tree with the given internal fanout and leaf
// capacity. An nroutes below 2 (a split always installs two routes) or a
// leafcap below 1 is replaced by the corresponding default.
func NewTree[T Key[T]](nroutes, leafcap int) *Tree[T] {
	if nroutes < 2 {
		nroutes = DefaultNRoutes
	}
	if leafcap < 1 {
		leafcap = DefaultLeafCap
	}
	return &Tree[T]{nroutes: nroutes, leafcap: leafcap}
}

// NewDefaultTree constructs an empty Tree using DefaultNRoutes and
// DefaultLeafCap.
func NewDefaultTree[T Key[T]]() *Tree[T] {
	return NewTree[T](DefaultNRoutes, DefaultLeafCap)
}

// SetCounters attaches an observability record that every distance
// evaluation made by the tree's own code will be credited to. Pass nil to
// detach.
func (t *Tree[T]) SetCounters(c *Counters) {
	t.ctrs = c
}

// Counters returns the currently attached observability record, or nil.
func (t *Tree[T]) Counters() *Counters {
	return t.ctrs
}

// Size returns the logical number of entries stored in the tree.
func (t *Tree[T]) Size() int {
	return t.count
}

// Insert adds entry to the tree, descending from the root and choosing at
// each internal node the routing object closest to the new key, growing
// that route's cover radius if necessary, until a leaf is reached. A full
// leaf triggers split.
func (t *Tree[T]) Insert(entry Entry[T]) {
	if t.root == nil {
		leaf := newLeafNode[T](t.leafcap)
		leaf.storeEntry(DBEntry[T]{ID: entry.ID, Key: entry.Key, D: 0})
		t.root = leaf
		t.count++
		return
	}

	var cur node[T] = t.root
	d := 0.0
	for cur != nil {
		switch n := cur.(type) {
		case *internalNode[T]:
			var robj RoutingObject[T]
			n.selectRoute(entry.Key, &robj, true, t.ctrs)
			d = measureBuild(robj.Key, entry.Key, t.ctrs)
			cur = robj.subtree
		case *leafNode[T]:
			if !n.isFull() {
				n.storeEntry(DBEntry[T]{ID: entry.ID, Key: entry.Key, D: d})
			} else {
				newTop := t.split(n, entry)
				if newTop != nil {
					t.root = newTop
				}
			}
			cur = nil
		default:
			panic(fmt.Errorf("%w", ErrUnknownNodeKind))
		}
	}

	t.count++
}

// promote selects two well-separated pivots from entries: an iterative
// farthest-point probe that alternates which of two slots the running pivot
// occupies, emitting the final two probe endpoints.
func (t *Tree[T]) promote(entries []DBEntry[T]) (robj1, robj2 RoutingObject[T]) {
	var slots [2]T
	current := 0
	slots[current%2] = entries[0].Key

	for i := 0; i < promoteIterations; i++ {
		maxPos := -1
		maxD := 0.0
		pivot := slots[current%2]
		for j, e := range entries {
			d := measureBuild(pivot, e.Key, t.ctrs)
			if d > maxD {
				maxPos = j
				maxD = d
			}
		}
		if maxPos < 0 {
			// every remaining entry coincides with the pivot (duplicate
			// keys); hold the probe steady rather than index with -1.
			maxPos = 0
		}
		current++
		slots[current%2] = entries[maxPos].Key
	}

	robj1.Key = slots[0]
	robj2.Key = slots[1]
	robj1.D = 0
	robj2.D = 0
	return robj1, robj2
}

// partition assigns each entry to whichever of robj1/robj2 is closer (ties
// go to robj2), records each entry's distance to its chosen pivot in its D
// field, and sets the corresponding pivot's CoverRadius to the maximum
// assigned distance on that side.
func (t *Tree[T]) partition(entries []DBEntry[T], robj1, robj2 *RoutingObject[T]) (e1, e2 []DBEntry[T]) {
	radius1, radius2 := 0.0, 0.0
	for _, e := range entries {
		d1 := measureBuild(robj1.Key, e.Key, t.ctrs)
		d2 := measureBuild(robj2.Key, e.Key, t.ctrs)
		if d1 < d2 {
			e1 = append(e1, DBEntry[T]{ID: e.ID, Key: e.Key, D: d1})
			if d1 > radius1 {
				radius1 = d1
			}
		} else {
			e2 = append(e2, DBEntry[T]{ID: e.ID, Key: e.Key, D: d2})
			if d2 > radius2 {
				radius2 = d2
			}
		}
	}
	robj1.CoverRadius = radius1
	robj2.CoverRadius = radius2
	return e1, e2
}

// split performs the split-and-promote procedure on a full leaf that just
// failed to accept nobj. It returns a non-nil node only when the split leaf
// was the root, in which case the returned internal node is the new root.
func (t *Tree[T]) split(leaf *leafNode[T], nobj Entry[T]) node[T] {
	entries := leaf.getEntries()
	entries = append(entries, DBEntry[T]{ID: nobj.ID, Key: nobj.Key, D: 0})

	robj1, robj2 := t.promote(entries)
	e1, e2 := t.partition(entries, &robj1, &robj2)
	if len(e1) == 0 {
		// every key is identical, so both pivots coincide and partition sent
		// all entries to robj2; divide them evenly so neither leaf overflows.
		half := len(e2) / 2
		e1, e2 = e2[:half], e2[half:]
	}

	sibling := newLeafNode[T](t.leafcap)
	leaf.clear()
	for _, e := range e1 {
		leaf.storeEntry(e)
	}
	for _, e := range e2 {
		sibling.storeEntry(e)
	}
	robj1.subtree = leaf
	robj2.subtree = sibling

	return t.attachSplitRoutes(leaf, sibling, robj1, robj2)
}

// attachSplitRoutes handles the three ways a split's two new routes can
// attach to the rest of the tree: original was the root, parent has room,
// or parent is full. It returns the new root in the first case and nil in
// the other two; a full parent is never split in turn.
func (t *Tree[T]) attachSplitRoutes(original, sibling node[T], robj1, robj2 RoutingObject[T]) node[T] {
	p, rdx := original.parentNode()

	if p == nil {
		// Original node was the root: allocate a new internal node holding
		// both routing objects.
		top := newInternalNode[T](t.nroutes)
		i1 := top.storeRoute(robj1)
		top.setChildNode(original, i1)
		i2 := top.storeRoute(robj2)
		top.setChildNode(sibling, i2)
		return top
	}

	if !p.isFull() {
		// Still room in the parent: refresh the slot the un-split node
		// occupied, recomputing d against the grandparent if one exists.
		gp, gdx := p.parentNode()
		if gp != nil {
			var pobj RoutingObject[T]
			gp.getRoute(gdx, &pobj)
			robj1.D = measureBuild(pobj.Key, robj1.Key, t.ctrs)
			robj2.D = measureBuild(pobj.Key, robj2.Key, t.ctrs)
		}

		p.confirmRoute(robj1, rdx)
		p.setChildNode(original, rdx)

		i2 := p.storeRoute(robj2)
		p.setChildNode(sibling, i2)
		return nil
	}

	// Parent node overflows: splice a brand new internal node with exactly
	// these two routes under the slot the un-split node occupied, without
	// re-promoting the parent's existing routes. This can leave the tree no
	// longer globally height-balanced.
	var pobj RoutingObject[T]
	p.getRoute(rdx, &pobj)
	robj1.D = measureBuild(pobj.Key, robj1.Key, t.ctrs)
	robj2.D = measureBuild(pobj.Key, robj2.Key, t.ctrs)

	qnode := newInternalNode[T](t.nroutes)
	i1 := qnode.storeRoute(robj1)
	qnode.setChildNode(original, i1)
	i2 := qnode.storeRoute(robj2)
	qnode.setChildNode(sibling, i2)

	p.setChildNode(qnode, rdx)
	return nil
}

// DeleteEntry descends the tree via selectRoute without growing cover radii,
// then removes every entry in the reached leaf whose key is at zero
// distance from entry.Key. Returns the count removed. No rebalancing or
// cover-radius shrinking occurs, and only the single path selectRoute
// chooses is ever visited: a matching key in a different subtree is not
// found.
func (t *Tree[T]) DeleteEntry(entry Entry[T]) int {
	var cur node[T] = t.root
	count := 0
	for cur != nil {
		switch n := cur.(type) {
		case *internalNode[T]:
			var robj RoutingObject[T]
			n.selectRoute(entry.Key, &robj, false, t.ctrs)
			cur = robj.subtree
		case *leafNode[T]:
			count = n.deleteEntry(entry.Key, t.ctrs)
			cur = nil
		default:
			panic(fmt.Errorf("%w", ErrUnknownNodeKind))
		}
	}
	t.count -= count
	return count
}

// RangeQuery returns every entry whose key lies within radius of query: a
// breadth-first traversal seeded with the root, pruning via the two-stage
// triangle-inequality filter at every internal node and leaf. Result order
// is unspecified.
func (t *Tree[T]) RangeQuery(query T, radius float64) []Entry[T] {
	var results []Entry[T]
	if t.root == nil {
		return results
	}

	queue := []node[T]{t.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		switch n := cur.(type) {
		case *internalNode[T]:
			n.selectRoutes(query, radius, &queue, t.ctrs)
		case *leafNode[T]:
			n.selectEntries(query, radius, &results, t.ctrs)
		default:
			panic(fmt.Errorf("%w", ErrUnknownNodeKind))
		}
	}
	return results
}

// Clear removes every entry from the tree and resets size to 0.
func (t *Tree[T]) Clear() {
	if t.root == nil {
		t.count = 0
		return
	}

	queue := []node[T]{t.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if in, ok := cur.(*internalNode[T]); ok {
			for i := 0; i < in.cap; i++ {
				if child := in.getChildNode(i); child != nil {
					queue = append(queue, child)
				}
			}
		}
		cur.clear()
	}

	t.root = nil
	t.count = 0
}

// MemoryUsage returns a best-effort byte estimate: the sum of per-node-kind
// struct sizes times node counts, plus per-entry overhead, plus the Tree
// struct itself. Exactness is not attempted.
func (t *Tree[T]) MemoryUsage() uintptr {
	var nInternal, nLeaf int

	if t.root != nil {
		queue := []node[T]{t.root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			switch n := cur.(type) {
			case *internalNode[T]:
				nInternal++
				for i := 0; i < n.cap; i++ {
					if child := n.getChildNode(i); child != nil {
						queue = append(queue, child)
					}
				}
			case *leafNode[T]:
				nLeaf++
			}
		}
	}

	var internalSample internalNode[T]
	var leafSample leafNode[T]
	var entrySample DBEntry[T]
	var treeSample Tree[T]

	return uintptr(nInternal)*unsafe.Sizeof(internalSample) +
		uintptr(nLeaf)*unsafe.Sizeof(leafSample) +
		uintptr(t.count)*unsafe.Sizeof(entrySample) +
		unsafe.Sizeof(treeSample)
}
