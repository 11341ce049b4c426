package mtree

import "errors"

// Sentinel errors for internal logic-bug conditions. A well-formed tree
// never triggers these during normal operation; the public
// Insert/DeleteEntry/RangeQuery/Clear surface never returns them. They are
// wrapped with fmt.Errorf and passed to panic at the point of violation so
// a recovering caller can still errors.Is the cause.
var (
	// ErrCapacityExceeded signals a store attempted on a node already at
	// its construction-time capacity. The insert algorithm's split-first
	// discipline is supposed to prevent this from ever firing.
	ErrCapacityExceeded = errors.New("mtree: node at capacity")

	// ErrEmptyNode signals SelectRoute was called on an internal node with
	// no occupied routing slots, which cannot happen in a well-formed tree.
	ErrEmptyNode = errors.New("mtree: internal node has no occupied routes")

	// ErrUnknownNodeKind signals a node reference matched neither the leaf
	// nor internal case in a type switch. Go's type system makes this
	// unreachable outside memory corruption or a broken node constructor.
	ErrUnknownNodeKind = errors.New("mtree: unrecognized node kind")
)
