package mtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafNodeStoreAndCapacity(t *testing.T) {
	leaf := newLeafNode[hammingKey](3)
	require.Equal(t, 0, leaf.size())
	require.False(t, leaf.isFull())

	for i := 0; i < 3; i++ {
		idx := leaf.storeEntry(DBEntry[hammingKey]{ID: int64(i), Key: hammingKey(i), D: 0})
		assert.Equal(t, i, idx)
	}
	require.True(t, leaf.isFull())

	assert.Panics(t, func() {
		leaf.storeEntry(DBEntry[hammingKey]{ID: 99, Key: hammingKey(99), D: 0})
	})
}

func TestLeafNodeSelectEntriesPrunesOnRadius(t *testing.T) {
	leaf := newLeafNode[hammingKey](10)
	// root leaf: there is no parent route, so parent distance and every D
	// field are 0 and only the second-stage distance check decides.
	leaf.storeEntry(DBEntry[hammingKey]{ID: 1, Key: hammingKey(0b0000), D: 0})
	leaf.storeEntry(DBEntry[hammingKey]{ID: 2, Key: hammingKey(0b1111), D: 0})

	var results []Entry[hammingKey]
	leaf.selectEntries(hammingKey(0b0000), 1, &results, nil)

	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestLeafNodeDeleteEntrySwapWithLast(t *testing.T) {
	leaf := newLeafNode[hammingKey](10)
	leaf.storeEntry(DBEntry[hammingKey]{ID: 1, Key: hammingKey(5), D: 0})
	leaf.storeEntry(DBEntry[hammingKey]{ID: 2, Key: hammingKey(5), D: 0})
	leaf.storeEntry(DBEntry[hammingKey]{ID: 3, Key: hammingKey(7), D: 0})

	removed := leaf.deleteEntry(hammingKey(5), nil)
	assert.Equal(t, 2, removed)
	require.Equal(t, 1, leaf.size())
	assert.Equal(t, int64(3), leaf.entries[0].ID)
}

func TestInternalNodeSelectRouteGrowsCoverRadiusOnInsert(t *testing.T) {
	n := newInternalNode[hammingKey](2)
	r1 := RoutingObject[hammingKey]{ID: 1, Key: hammingKey(0), CoverRadius: 1}
	leaf1 := newLeafNode[hammingKey](10)
	idx := n.storeRoute(r1)
	n.setChildNode(leaf1, idx)

	var out RoutingObject[hammingKey]
	slot := n.selectRoute(hammingKey(0b111), &out, true, nil) // distance 3 > cover radius 1
	assert.Equal(t, idx, slot)
	assert.Equal(t, float64(3), n.routes[slot].CoverRadius)
}

func TestInternalNodeSelectRouteNoGrowthWithoutInsertFlag(t *testing.T) {
	n := newInternalNode[hammingKey](2)
	r1 := RoutingObject[hammingKey]{ID: 1, Key: hammingKey(0), CoverRadius: 1}
	leaf1 := newLeafNode[hammingKey](10)
	idx := n.storeRoute(r1)
	n.setChildNode(leaf1, idx)

	var out RoutingObject[hammingKey]
	n.selectRoute(hammingKey(0b111), &out, false, nil)
	assert.Equal(t, float64(1), n.routes[idx].CoverRadius)
}

func TestInternalNodeSelectRouteOnEmptyNodePanics(t *testing.T) {
	n := newInternalNode[hammingKey](2)
	var out RoutingObject[hammingKey]
	assert.PanicsWithError(t, ErrEmptyNode.Error(), func() {
		n.selectRoute(hammingKey(0), &out, false, nil)
	})
}

func TestInternalNodeStoreRouteCapacityExceeded(t *testing.T) {
	n := newInternalNode[hammingKey](1)
	idx := n.storeRoute(RoutingObject[hammingKey]{ID: 1, Key: hammingKey(0)})
	n.setChildNode(newLeafNode[hammingKey](10), idx) // occupies the only slot

	assert.Panics(t, func() {
		n.storeRoute(RoutingObject[hammingKey]{ID: 2, Key: hammingKey(1)})
	})
}

func TestInternalNodeSetChildNodeSetsBackPointer(t *testing.T) {
	n := newInternalNode[hammingKey](2)
	leaf := newLeafNode[hammingKey](10)
	idx := n.storeRoute(RoutingObject[hammingKey]{ID: 1, Key: hammingKey(0)})
	n.setChildNode(leaf, idx)

	p, slot := leaf.parentNode()
	assert.Same(t, n, p)
	assert.Equal(t, idx, slot)
}
