package kdtree_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/fogleman/poissondisc"
	"github.com/royalcat/kdgeo/kdtree"
	"github.com/royalcat/kdgeo/point"
)

func randomFloats(rnd *rand.Rand, n, dim int) []point.Point[float64] {
	points := make([]point.Point[float64], n)
	coords := make([]float64, dim)
	for i := range points {
		for a := range coords {
			coords[a] = rnd.Float64()*200 - 100
		}
		points[i] = point.New(coords...)
	}
	return points
}

// randomInts draws from a small grid so duplicates and ties are common.
func randomInts(rnd *rand.Rand, n, dim, side int) []point.Point[int] {
	points := make([]point.Point[int], n)
	coords := make([]int, dim)
	for i := range points {
		for a := range coords {
			coords[a] = rnd.Intn(side) - side/2
		}
		points[i] = point.New(coords...)
	}
	return points
}

func poissonPoints(seed int64) []point.Point[float64] {
	samples := poissondisc.Sample(0, 0, 100, 100, 2, 30, rand.New(rand.NewSource(seed)))
	points := make([]point.Point[float64], len(samples))
	for i, s := range samples {
		points[i] = point.New(s.X, s.Y)
	}
	return points
}

func mustBuild[T point.Number](t testing.TB, points []point.Point[T]) *kdtree.Tree[T] {
	t.Helper()
	tree, err := kdtree.Build(points)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	return tree
}

func bruteNearestDist[T point.Number](points []point.Point[T], q point.Point[T]) float64 {
	best := -1.0
	for _, p := range points {
		if d := q.SquaredDistance(p); best < 0 || d < best {
			best = d
		}
	}
	return best
}

// bruteKNearestDists returns the k smallest squared distances, ascending.
func bruteKNearestDists[T point.Number](points []point.Point[T], q point.Point[T], k int) []float64 {
	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = q.SquaredDistance(p)
	}
	slices.Sort(dists)
	return dists[:min(k, len(dists))]
}

func bruteRange[T point.Number](points []point.Point[T], lo, hi point.Point[T]) []point.Point[T] {
	var out []point.Point[T]
	for _, p := range points {
		inside := true
		for a := range p.Dim() {
			if p.At(a) < lo.At(a) || p.At(a) > hi.At(a) {
				inside = false
				break
			}
		}
		if inside {
			out = append(out, p)
		}
	}
	return out
}

func bruteRadius[T point.Number](points []point.Point[T], q point.Point[T], r T) []point.Point[T] {
	var out []point.Point[T]
	r2 := float64(r) * float64(r)
	for _, p := range points {
		if q.SquaredDistance(p) < r2 {
			out = append(out, p)
		}
	}
	return out
}

func resolve[T point.Number](tree *kdtree.Tree[T], found []int) []point.Point[T] {
	out := make([]point.Point[T], len(found))
	for i, j := range found {
		out[i] = tree.Point(j)
	}
	return out
}

// sameSet compares two point multisets ignoring order.
func sameSet[T point.Number](t testing.TB, want, got []point.Point[T]) {
	t.Helper()
	want = slices.SortedFunc(slices.Values(want), point.Point[T].Compare)
	got = slices.SortedFunc(slices.Values(got), point.Point[T].Compare)
	if !slices.EqualFunc(want, got, point.Point[T].Equal) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// checkSplits verifies the partition of every node against its split axis.
func checkSplits[T point.Number](t testing.TB, points []point.Point[T], lo, hi, depth, dim int) {
	t.Helper()
	n := hi - lo
	if n <= 1 {
		return
	}
	m := lo + n/2
	axis := depth % dim
	v := points[m].At(axis)
	for i := lo; i < m; i++ {
		if points[i].At(axis) > v {
			t.Fatalf("point %s left of node %s on axis %d", points[i], points[m], axis)
		}
	}
	for i := m + 1; i < hi; i++ {
		if points[i].At(axis) < v {
			t.Fatalf("point %s right of node %s on axis %d", points[i], points[m], axis)
		}
	}
	checkSplits(t, points, lo, m, depth+1, dim)
	checkSplits(t, points, m+1, hi, depth+1, dim)
}
