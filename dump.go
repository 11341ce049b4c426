package mtree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders the current shape of the tree as an indented diagnostic
// tree: internal nodes show their occupied routing keys, cover radii and
// pre-computed distances; leaves show their entry count. Purely for
// debugging and benchmarking, not a wire or persisted format.
func (t *Tree[T]) Dump() string {
	root := treeprint.New()
	root.SetValue(fmt.Sprintf("mtree (size=%d, nroutes=%d, leafcap=%d)", t.count, t.nroutes, t.leafcap))

	if t.root != nil {
		dumpNode(root, t.root)
	}
	return root.String()
}

func dumpNode[T Key[T]](branch treeprint.Tree, n node[T]) {
	switch v := n.(type) {
	case *internalNode[T]:
		for _, r := range v.getRoutes() {
			child := branch.AddBranch(fmt.Sprintf("route id=%d key=%v radius=%.4g d=%.4g", r.ID, r.Key, r.CoverRadius, r.D))
			dumpNode(child, r.subtree)
		}
	case *leafNode[T]:
		branch.AddNode(fmt.Sprintf("leaf (%d/%d entries)", v.size(), v.cap))
	default:
		branch.AddNode("?")
	}
}
