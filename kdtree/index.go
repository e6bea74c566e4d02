package kdtree

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/royalcat/kdgeo/point"
)

// Index owns a private copy of its points and serializes rebuilds against queries.
// Query results are copies, so they stay valid after a rebuild.
type Index[T point.Number] struct {
	mu   *xsync.RBMutex
	tree *Tree[T]

	logger *slog.Logger
}

func NewIndex[T point.Number](points []point.Point[T], opts ...Option) (*Index[T], error) {
	options := loadOptions(opts...)

	idx := &Index[T]{
		mu:     xsync.NewRBMutex(),
		tree:   &Tree[T]{},
		logger: options.logger,
	}
	if err := idx.Rebuild(points); err != nil {
		return nil, err
	}
	return idx, nil
}

// Rebuild replaces the indexed points. The caller's slice is not modified.
func (idx *Index[T]) Rebuild(points []point.Point[T]) error {
	start := time.Now()

	tree, err := Build(slices.Clone(points))
	if err != nil {
		return fmt.Errorf("error building index: %w", err)
	}

	idx.mu.Lock()
	idx.tree = tree
	idx.mu.Unlock()

	idx.logger.Info("Index built", "points", tree.Len(), "dim", tree.Dim(), "took", time.Since(start))
	return nil
}

func (idx *Index[T]) Len() int {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.tree.Len()
}

func (idx *Index[T]) Dim() int {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.tree.Dim()
}

func (idx *Index[T]) Nearest(q point.Point[T]) (point.Point[T], bool) {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)

	i := idx.tree.Nearest(q)
	if i == NotFound {
		return point.Point[T]{}, false
	}
	return idx.tree.Point(i), true
}

func (idx *Index[T]) Contains(q point.Point[T]) bool {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.tree.Search(q) != NotFound
}

func (idx *Index[T]) KNearest(q point.Point[T], k int) []point.Point[T] {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.collect(idx.tree.KNearest(q, k))
}

func (idx *Index[T]) Range(lo, hi point.Point[T]) []point.Point[T] {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.collect(idx.tree.Range(lo, hi))
}

func (idx *Index[T]) Radius(q point.Point[T], r T) []point.Point[T] {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return idx.collect(idx.tree.Radius(q, r))
}

// Snapshot returns the points in tree order along with their nodes.
func (idx *Index[T]) Snapshot() ([]point.Point[T], []Node) {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return slices.Clone(idx.tree.Points()), slices.Collect(idx.tree.All())
}

// points are immutable, so sharing them with the caller is safe
func (idx *Index[T]) collect(found []int) []point.Point[T] {
	if len(found) == 0 {
		return nil
	}
	out := make([]point.Point[T], len(found))
	for i, j := range found {
		out[i] = idx.tree.Point(j)
	}
	return out
}
