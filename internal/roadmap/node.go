// Package roadmap turns free-form Markdown roadmap text into an ordered
// forest of nodes and provides read-only helpers over that forest.
package roadmap

// Level ranks. Headings map to 0-3, list items to ListLevel, and unmarked
// lines to ListLevel plus half their indentation.
const (
	rootLevel = -1
	ListLevel = 4
)

// Node is one item of a parsed roadmap. A node without children is a leaf;
// only leaves are meant to be completed.
type Node struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Level    int     `json:"level"`
	Children []*Node `json:"children"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}
