package kdtree

import (
	"math"

	"github.com/royalcat/kdgeo/point"
)

// KNearest returns the indices of the min(k, Len) points closest to q, nearest first.
// A non-positive k yields nil.
func (t *Tree[T]) KNearest(q point.Point[T], k int) []int {
	if k <= 0 || len(t.points) == 0 {
		return nil
	}
	t.mustMatch(q)

	s := knnSearch[T]{
		points: t.points,
		dim:    t.dim,
		query:  q,
		k:      min(k, len(t.points)),
	}
	s.heap = make(candidateHeap, 0, s.k)
	s.visit(0, len(t.points), 0)

	out := make([]int, len(s.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = s.heap.pop().index
	}
	return out
}

type knnSearch[T point.Number] struct {
	points []point.Point[T]
	dim    int
	query  point.Point[T]
	k      int
	heap   candidateHeap
}

// bound is the distance a candidate has to beat to enter the result.
func (s *knnSearch[T]) bound() float64 {
	if len(s.heap) < s.k {
		return math.Inf(1)
	}
	return s.heap[0].dist
}

func (s *knnSearch[T]) visit(lo, hi, depth int) {
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
		if gap*gap < s.bound() {
			s.visit(m+1, hi, depth+1)
		}
	} else {
		s.visit(m+1, hi, depth+1)
		s.consider(m)
		if gap*gap < s.bound() {
			s.visit(lo, m, depth+1)
		}
	}
}

func (s *knnSearch[T]) consider(i int) {
	d := s.query.SquaredDistance(s.points[i])
	switch {
	case len(s.heap) < s.k:
		s.heap.push(candidate{index: i, dist: d})
	case d < s.heap[0].dist:
		s.heap[0] = candidate{index: i, dist: d}
		s.heap.down(0)
	}
}

type candidate struct {
	index int
	dist  float64
}

// candidateHeap is a max-heap on dist: the worst kept candidate sits at the top.
type candidateHeap []candidate

func (h *candidateHeap) push(c candidate) {
	*h = append(*h, c)
	h.up(len(*h) - 1)
}

func (h *candidateHeap) pop() candidate {
	old := *h
	n := len(old) - 1
	top := old[0]
	old[0] = old[n]
	*h = old[:n]
	if n > 0 {
		h.down(0)
	}
	return top
}

func (h candidateHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h[parent].dist >= h[i].dist {
			break
		}
		h[parent], h[i] = h[i], h[parent]
		i = parent
	}
}

func (h candidateHeap) down(i int) {
	n := len(h)
	for {
		largest := i
		left := 2*i + 1
		right := left + 1
		if left < n && h[left].dist > h[largest].dist {
			largest = left
		}
		if right < n && h[right].dist > h[largest].dist {
			largest = right
		}
		if largest == i {
			return
		}
		h[i], h[largest] = h[largest], h[i]
		i = largest
	}
}
