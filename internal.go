package mtree

import "fmt"

// internalNode holds at most cap occupied routing slots. A vacant slot is
// identified by RoutingObject.subtree == nil.
type internalNode[T Key[T]] struct {
	routes []RoutingObject[T]
	count  int
	cap    int

	p     *internalNode[T]
	pslot int
}

func newInternalNode[T Key[T]](cap int) *internalNode[T] {
	return &internalNode[T]{routes: make([]RoutingObject[T], cap), cap: cap}
}

func (n *internalNode[T]) size() int    { return n.count }
func (n *internalNode[T]) isFull() bool { return n.count >= n.cap }

func (n *internalNode[T]) parentNode() (*internalNode[T], int) { return n.p, n.pslot }

func (n *internalNode[T]) setParentNode(p *internalNode[T], slot int) {
	n.p = p
	n.pslot = slot
}

func (n *internalNode[T]) clear() {
	n.routes = make([]RoutingObject[T], n.cap)
	n.count = 0
}

// getRoutes returns a copy of every occupied routing object.
func (n *internalNode[T]) getRoutes() []RoutingObject[T] {
	out := make([]RoutingObject[T], 0, n.count)
	for i := range n.routes {
		if n.routes[i].Occupied() {
			out = append(out, n.routes[i])
		}
	}
	return out
}

// getRoute looks up the route at slot.
func (n *internalNode[T]) getRoute(slot int, out *RoutingObject[T]) {
	*out = n.routes[slot]
}

// selectRoute returns the slot whose routing key is closest to newKey,
// ties broken by the lowest slot index. If insert is true and the minimum
// distance exceeds the chosen slot's cover radius, the cover radius is
// grown to admit newKey. Panics with ErrEmptyNode if the node holds no
// occupied slots, which cannot happen in a well-formed tree.
func (n *internalNode[T]) selectRoute(newKey T, out *RoutingObject[T], insert bool, ctrs *Counters) int {
	minPos := -1
	minDist := 0.0

	for i := range n.routes {
		if !n.routes[i].Occupied() {
			continue
		}
		var d float64
		if insert {
			d = measureBuild(newKey, n.routes[i].Key, ctrs)
		} else {
			d = measureQuery(newKey, n.routes[i].Key, ctrs)
		}
		if minPos < 0 || d < minDist {
			minPos = i
			minDist = d
		}
	}

	if minPos < 0 {
		panic(fmt.Errorf("%w", ErrEmptyNode))
	}

	if insert && minDist > n.routes[minPos].CoverRadius {
		n.routes[minPos].CoverRadius = minDist
	}

	*out = n.routes[minPos]
	return minPos
}

// selectRoutes applies the internal pruning filter and enqueues every
// surviving child onto the work queue.
func (n *internalNode[T]) selectRoutes(query T, radius float64, queue *[]node[T], ctrs *Counters) {
	dp := 0.0
	if n.p != nil {
		var pobj RoutingObject[T]
		n.p.getRoute(n.pslot, &pobj)
		dp = measureQuery(query, pobj.Key, ctrs)
	}

	for i := range n.routes {
		r := &n.routes[i]
		if !r.Occupied() {
			continue
		}
		if abs(dp-r.D) > radius+r.CoverRadius {
			continue
		}
		if measureQuery(r.Key, query, ctrs) <= radius+r.CoverRadius {
			*queue = append(*queue, r.subtree)
		}
	}
}

// storeRoute places robj in the first vacant slot and returns its index.
// Panics with ErrCapacityExceeded if the node is already full.
func (n *internalNode[T]) storeRoute(robj RoutingObject[T]) int {
	for i := range n.routes {
		if !n.routes[i].Occupied() {
			n.routes[i] = robj
			n.count++
			return i
		}
	}
	panic(fmt.Errorf("%w: internal node holds %d/%d routes", ErrCapacityExceeded, n.count, n.cap))
}

// confirmRoute overwrites an existing occupied routing entry in place, used
// by split to refresh a pivot whose cover radius and contents changed.
func (n *internalNode[T]) confirmRoute(robj RoutingObject[T], slot int) {
	n.routes[slot] = robj
}

// setChildNode installs child into slot's subtree reference and sets the
// child's back-pointer to (n, slot).
func (n *internalNode[T]) setChildNode(child node[T], slot int) {
	n.routes[slot].subtree = child
	child.setParentNode(n, slot)
}

func (n *internalNode[T]) getChildNode(slot int) node[T] {
	return n.routes[slot].subtree
}
