package kdtree

import (
	"math"

	"github.com/royalcat/kdgeo/point"
)

// Nearest returns the index of the point closest to q, or NotFound for an empty tree.
// When several points are equally close the first one met during the descent wins.
func (t *Tree[T]) Nearest(q point.Point[T]) int {
	if len(t.points) == 0 {
		return NotFound
	}
	t.mustMatch(q)

	s := nearestSearch[T]{
		points:   t.points,
		dim:      t.dim,
		query:    q,
		best:     NotFound,
		bestDist: math.Inf(1),
	}
	s.visit(0, len(t.points), 0)
	return s.best
}

// Search returns the index of a point equal to q, or NotFound.
func (t *Tree[T]) Search(q point.Point[T]) int {
	i := t.Nearest(q)
	if i == NotFound || !t.points[i].Equal(q) {
		return NotFound
	}
	return i
}

type nearestSearch[T point.Number] struct {
	points []point.Point[T]
	dim    int
	query  point.Point[T]

	best     int
	bestDist float64
}

func (s *nearestSearch[T]) visit(lo, hi, depth int) {
	n := hi - lo
	if n <= 0 {
		return
	}
	m := lo + n/2
	if n == 1 {
		s.consider(m)
		return
	}

	axis := depth % s.dim
	gap := float64(s.query.At(axis)) - float64(s.points[m].At(axis))
	if gap <= 0 {
		s.visit(lo, m, depth+1)
		s.consider(m)
		if gap*gap < s.bestDist {
			s.visit(m+1, hi, depth+1)
		}
	} else {
		s.visit(m+1, hi, depth+1)
		s.consider(m)
		if gap*gap < s.bestDist {
			s.visit(lo, m, depth+1)
		}
	}
}

func (s *nearestSearch[T]) consider(i int) {
	if d := s.query.SquaredDistance(s.points[i]); d < s.bestDist {
		s.best = i
		s.bestDist = d
	}
}
