package kdtree

import (
	"math"
	"reflect"

	"github.com/royalcat/kdgeo/point"
)

// Range returns the indices of points p with lo[a] <= p[a] <= hi[a] on every axis.
//
// A subtree is entered when the box reaches its side of the split, and a node is
// reported only when the box reaches both sides of its own split. Points are
// returned in no particular order.
func (t *Tree[T]) Range(lo, hi point.Point[T]) []int {
	if len(t.points) == 0 {
		return nil
	}
	t.mustMatch(lo)
	t.mustMatch(hi)

	var result []int
	stack := []int{0, len(t.points), 0}

	for len(stack) > 0 {
		depth := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		m := left + (right-left)/2
		p := t.points[m]
		axis := depth % t.dim

		goLeft := lo.At(axis) <= p.At(axis)
		goRight := hi.At(axis) >= p.At(axis)

		if goLeft && m > left {
			stack = append(stack, left, m, depth+1)
		}
		if goRight && m+1 < right {
			stack = append(stack, m+1, right, depth+1)
		}
		if goLeft && goRight && inBox(p, lo, hi) {
			result = append(result, m)
		}
	}

	return result
}

// Radius returns the indices of points strictly closer than r to q.
// A non-positive r yields nil.
func (t *Tree[T]) Radius(q point.Point[T], r T) []int {
	if r <= 0 || len(t.points) == 0 {
		return nil
	}
	t.mustMatch(q)

	minT, maxT := limits[T]()
	lo := make([]T, t.dim)
	hi := make([]T, t.dim)
	for a := range t.dim {
		c := q.At(a)
		// r > 0, so a wrapped integer result lands on the wrong side of c
		if lo[a] = c - r; lo[a] > c {
			lo[a] = minT
		}
		if hi[a] = c + r; hi[a] < c {
			hi[a] = maxT
		}
	}

	r2 := float64(r) * float64(r)
	found := t.Range(point.New(lo...), point.New(hi...))
	result := found[:0]
	for _, i := range found {
		if q.SquaredDistance(t.points[i]) < r2 {
			result = append(result, i)
		}
	}
	return result
}

func inBox[T point.Number](p, lo, hi point.Point[T]) bool {
	for a := range p.Dim() {
		if c := p.At(a); c < lo.At(a) || c > hi.At(a) {
			return false
		}
	}
	return true
}

// limits returns the bounds of an integer T. Floats saturate to infinity on
// their own, so they get zeros that are never used.
func limits[T point.Number]() (T, T) {
	var lo, hi int64
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case reflect.Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case reflect.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case reflect.Int:
		lo, hi = math.MinInt, math.MaxInt
	case reflect.Int64:
		lo, hi = math.MinInt64, math.MaxInt64
	}
	return T(lo), T(hi)
}
