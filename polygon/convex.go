package polygon

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/royalcat/kdgeo/point"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrNotPlanar      = errors.New("polygon vertices must be 2-dimensional")
	ErrCollinear      = errors.New("polygon vertices are collinear")
	ErrNotConvex      = errors.New("polygon is not convex")
)

// ConvexPolygon is a validated convex ring stored counter-clockwise.
// The zero value is an empty polygon that contains nothing.
type ConvexPolygon[T point.Number] struct {
	// first vertex repeated at the end
	ring []point.Point[T]
}

// NewConvex validates the ring and normalizes it to counter-clockwise order.
// Collinear runs of vertices are accepted as long as every real turn goes the same way.
func NewConvex[T point.Number](vertices ...point.Point[T]) (*ConvexPolygon[T], error) {
	n := len(vertices)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, n)
	}
	for i, v := range vertices {
		if v.Dim() != 2 {
			return nil, fmt.Errorf("%w: vertex %d is %s", ErrNotPlanar, i, v)
		}
	}

	var left, right int
	for i := range n {
		a, b, c := vertices[i], vertices[(i+1)%n], vertices[(i+2)%n]
		switch turn := relativeLocation(a, b, c); {
		case turn > 0:
			left++
		case turn < 0:
			right++
		}
	}

	switch {
	case left == 0 && right == 0:
		return nil, ErrCollinear
	case left > 0 && right > 0:
		return nil, fmt.Errorf("%w: %d left and %d right turns", ErrNotConvex, left, right)
	}

	ring := make([]point.Point[T], n+1)
	copy(ring, vertices)
	ring[n] = vertices[0]
	if right > 0 {
		slices.Reverse(ring)
	}

	return &ConvexPolygon[T]{ring: ring}, nil
}

func (c *ConvexPolygon[T]) Size() int {
	if len(c.ring) == 0 {
		return 0
	}
	return len(c.ring) - 1
}

func (c *ConvexPolygon[T]) Vertex(i int) point.Point[T] {
	return c.ring[:c.Size()][i]
}

// Vertices returns a copy of the ring without the closing vertex.
func (c *ConvexPolygon[T]) Vertices() []point.Point[T] {
	return slices.Clone(c.ring[:c.Size()])
}

// All yields the vertices counter-clockwise starting from the first one.
func (c *ConvexPolygon[T]) All() iter.Seq2[int, point.Point[T]] {
	return slices.All(c.ring[:c.Size()])
}

// Backward yields the vertices clockwise starting from the last one.
func (c *ConvexPolygon[T]) Backward() iter.Seq2[int, point.Point[T]] {
	return slices.Backward(c.ring[:c.Size()])
}

func (c *ConvexPolygon[T]) Contains(q point.Point[T]) bool {
	return Contains(c.ring[:c.Size()], q)
}

func (c *ConvexPolygon[T]) Equal(o *ConvexPolygon[T]) bool {
	return slices.EqualFunc(c.ring, o.ring, point.Point[T].Equal)
}
