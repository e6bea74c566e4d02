package polygon

import "github.com/royalcat/kdgeo/point"

// Contains reports whether q lies inside the ring of 2-D vertices.
// The ring is closed implicitly; a repeated first vertex at the end is harmless.
// Neither orientation nor convexity is checked.
func Contains[T point.Number](ring []point.Point[T], q point.Point[T]) bool {
	return WindingNumber(ring, q) != 0
}

// WindingNumber counts how many times the ring winds counter-clockwise around q.
//
// An edge counts when it crosses the horizontal through q upwards with q strictly
// on its left, or downwards with q strictly on its right. The lower end of an edge
// is part of the crossing and the upper one is not, so points on the boundary
// resolve one way or the other depending on the edge direction.
func WindingNumber[T point.Number](ring []point.Point[T], q point.Point[T]) int {
	n := len(ring)
	if n == 0 {
		return 0
	}

	qy := q.At(1)
	wn := 0
	for i := range n {
		p0, p1 := ring[i], ring[(i+1)%n]
		switch {
		case p0.At(1) <= qy && p1.At(1) > qy:
			if relativeLocation(p0, p1, q) > 0 {
				wn++
			}
		case p0.At(1) > qy && p1.At(1) <= qy:
			if relativeLocation(p0, p1, q) < 0 {
				wn--
			}
		}
	}
	return wn
}

// relativeLocation is positive when q is left of p0->p1, negative when right
// and zero when the three points are collinear.
func relativeLocation[T point.Number](p0, p1, q point.Point[T]) float64 {
	x0, y0 := float64(p0.At(0)), float64(p0.At(1))
	x1, y1 := float64(p1.At(0)), float64(p1.At(1))
	qx, qy := float64(q.At(0)), float64(q.At(1))
	return (x1-x0)*(qy-y0) - (qx-x0)*(y1-y0)
}
