package roadmap

// Walk visits every node in depth-first pre-order, which is source order.
func Walk(forest []*Node, fn func(n *Node)) {
	for _, n := range forest {
		fn(n)
		Walk(n.Children, fn)
	}
}

// Find returns the node with the given id, or nil.
func Find(forest []*Node, id string) *Node {
	var found *Node
	Walk(forest, func(n *Node) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}

// Leaves returns the leaf nodes in source order.
func Leaves(forest []*Node) []*Node {
	var out []*Node
	Walk(forest, func(n *Node) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

// LeafCount returns the number of leaves. A parent contributes the sum of
// its children's counts and is never counted itself.
func LeafCount(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += countLeaves(n)
	}
	return total
}

func countLeaves(n *Node) int {
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += countLeaves(c)
	}
	return count
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(forest []*Node) int {
	deepest := 0
	for _, n := range forest {
		if d := 1 + Depth(n.Children); d > deepest {
			deepest = d
		}
	}
	return deepest
}
