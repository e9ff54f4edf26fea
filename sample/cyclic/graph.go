// Package cyclic holds types that embed each other through pointers.
package cyclic

// Edge links two nodes.
type Edge struct {
	*Node

	Weight int
}

// Node is a graph vertex pointing at its first edge.
type Node struct {
	*Edge

	Label string
}

// Walker visits nodes and does not take part in the cycle.
type Walker interface {
	Visit(n *Node) error
}
