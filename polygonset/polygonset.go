package polygonset

import (
	"slices"
	"sync"

	"github.com/royalcat/kdgeo/point"
	"github.com/royalcat/kdgeo/polygon"
	"github.com/tidwall/qtree"
)

// Set maps points to the named convex regions containing them.
// Bounding boxes are kept in a quad tree; containment is decided by the polygon itself.
type Set[D any] struct {
	mu      sync.RWMutex
	regions []region[D]
	qt      qtree.QTree
}

func New[D any]() *Set[D] {
	return &Set[D]{}
}

type region[D any] struct {
	Data    D
	Polygon *polygon.ConvexPolygon[float64]
}

func (s *Set[D]) Insert(data D, p *polygon.ConvexPolygon[float64]) {
	bound := p.Bound()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.qt.Insert(bound.Min, bound.Max, len(s.regions))
	s.regions = append(s.regions, region[D]{Data: data, Polygon: p})
}

func (s *Set[D]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regions)
}

// QueryPoint returns the earliest inserted region containing q.
func (s *Set[D]) QueryPoint(q point.Point[float64]) (D, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out D
	best := -1
	s.search(q, func(id int) {
		if best == -1 || id < best {
			best = id
		}
	})
	if best == -1 {
		return out, false
	}
	return s.regions[best].Data, true
}

// QueryAll returns every region containing q in insertion order.
func (s *Set[D]) QueryAll(q point.Point[float64]) []D {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int
	s.search(q, func(id int) {
		ids = append(ids, id)
	})
	slices.Sort(ids)

	out := make([]D, len(ids))
	for i, id := range ids {
		out[i] = s.regions[id].Data
	}
	return out
}

func (s *Set[D]) search(q point.Point[float64], found func(id int)) {
	pt := [2]float64{q.At(0), q.At(1)}
	s.qt.Search(pt, pt, func(_, _ [2]float64, data interface{}) bool {
		id := data.(int)
		if s.regions[id].Polygon.Contains(q) {
			found(id)
		}
		return true
	})
}
