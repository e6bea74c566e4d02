package polygon

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/kdgeo/point"
)

// FromRing builds a convex polygon from an orb ring. A closing vertex is dropped.
func FromRing(r orb.Ring) (*ConvexPolygon[float64], error) {
	if r.Closed() && len(r) > 1 {
		r = r[:len(r)-1]
	}
	vertices := make([]point.Point[float64], len(r))
	for i, p := range r {
		vertices[i] = point.New(p.X(), p.Y())
	}
	return NewConvex(vertices...)
}

// Ring returns the closed counter-clockwise ring.
func (c *ConvexPolygon[T]) Ring() orb.Ring {
	ring := make(orb.Ring, len(c.ring))
	for i, v := range c.ring {
		ring[i] = orb.Point{float64(v.At(0)), float64(v.At(1))}
	}
	return ring
}

func (c *ConvexPolygon[T]) Bound() orb.Bound {
	return c.Ring().Bound()
}
