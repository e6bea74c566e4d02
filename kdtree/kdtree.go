package kdtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/royalcat/kdgeo/point"
)

// NotFound is returned by single-result queries when no point matches.
const NotFound = -1

var (
	ErrDimensionMismatch = errors.New("points have different dimensions")
	ErrZeroDimension     = errors.New("points have no coordinates")
)

// Tree is a static kd-tree embedded in the caller's point slice.
// The node of any subrange [lo,hi) sits at lo+(hi-lo)/2 and splits on axis depth%Dim.
// A built tree is read-only and safe for concurrent queries.
type Tree[T point.Number] struct {
	points []point.Point[T]
	dim    int
}

// Build reorders points in place into a kd-tree. The slice must not be modified
// while the tree is in use; rebuild after any change.
// NaN coordinates are not supported.
func Build[T point.Number](points []point.Point[T]) (*Tree[T], error) {
	tree := &Tree[T]{points: points}
	if len(points) == 0 {
		return tree, nil
	}

	tree.dim = points[0].Dim()
	if tree.dim == 0 {
		return nil, ErrZeroDimension
	}
	for i, p := range points {
		if p.Dim() != tree.dim {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, want %d", ErrDimensionMismatch, i, p.Dim(), tree.dim)
		}
	}

	tree.sort(0, len(points), 0)
	return tree, nil
}

func (t *Tree[T]) Len() int {
	return len(t.points)
}

// Dim is zero for an empty tree.
func (t *Tree[T]) Dim() int {
	return t.dim
}

func (t *Tree[T]) Point(i int) point.Point[T] {
	return t.points[i]
}

// Points returns the backing slice in tree order.
func (t *Tree[T]) Points() []point.Point[T] {
	return t.points
}

func (t *Tree[T]) mustMatch(q point.Point[T]) {
	if q.Dim() != t.dim {
		panic(fmt.Sprintf("kdtree: query has %d coordinates, tree has %d", q.Dim(), t.dim))
	}
}

////////////////////////////////////////////////////////////////
/// Sorting stuff
////////////////////////////////////////////////////////////////

func (t *Tree[T]) sort(lo, hi, depth int) {
	n := hi - lo
	if n <= 1 {
		return
	}

	m := lo + n/2
	t.sselect(m, lo, hi-1, depth%t.dim)

	t.sort(lo, m, depth+1)
	t.sort(m+1, hi, depth+1)
}

// sselect is Floyd-Rivest selection over the inclusive range [left,right]:
// afterwards points[k] has no greater axis value before it and no smaller one after it.
func (t *Tree[T]) sselect(k, left, right, axis int) {
	pts := t.points
	for right > left {
		if right-left > 600 {
			n := right - left + 1
			m := k - left + 1
			z := math.Log(float64(n))
			s := 0.5 * math.Exp(2.0*z/3.0)
			sds := 1.0
			if float64(m)-float64(n)/2.0 < 0 {
				sds = -1.0
			}
			sd := 0.5 * math.Sqrt(z*s*(float64(n)-s)/float64(n)) * sds
			newLeft := max(left, floor(float64(k)-float64(m)*s/float64(n)+sd))
			newRight := min(right, floor(float64(k)+float64(n-m)*s/float64(n)+sd))
			t.sselect(k, newLeft, newRight, axis)
		}

		v := pts[k].At(axis)
		i := left
		j := right

		t.swap(left, k)
		if pts[right].At(axis) > v {
			t.swap(left, right)
		}

		for i < j {
			t.swap(i, j)
			i++
			j--
			for pts[i].At(axis) < v {
				i++
			}
			for pts[j].At(axis) > v {
				j--
			}
		}

		if pts[left].At(axis) == v {
			t.swap(left, j)
		} else {
			j++
			t.swap(j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func (t *Tree[T]) swap(i, j int) {
	t.points[i], t.points[j] = t.points[j], t.points[i]
}

func floor(in float64) int {
	return int(math.Floor(in))
}
