package kdtree

import "iter"

// Node is one position of the implicit tree.
type Node struct {
	Index int // position in Points
	Depth int
	Axis  int
	Size  int // points in the subtree rooted here
}

// All yields every node in order: left subtree, node, right subtree.
func (t *Tree[T]) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		t.walk(0, len(t.points), 0, yield)
	}
}

func (t *Tree[T]) walk(lo, hi, depth int, yield func(Node) bool) bool {
	n := hi - lo
	if n <= 0 {
		return true
	}
	m := lo + n/2
	return t.walk(lo, m, depth+1, yield) &&
		yield(Node{Index: m, Depth: depth, Axis: depth % t.dim, Size: n}) &&
		t.walk(m+1, hi, depth+1, yield)
}
