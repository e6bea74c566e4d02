package point

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Number is the set of coordinate types a Point can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Point is an immutable tuple of coordinates. Its dimensionality is fixed when it is created.
type Point[T Number] struct {
	coords []T
}

// New copies coords into a new point.
func New[T Number](coords ...T) Point[T] {
	return Point[T]{coords: slices.Clone(coords)}
}

func (p Point[T]) Dim() int {
	return len(p.coords)
}

func (p Point[T]) At(axis int) T {
	return p.coords[axis]
}

// Coords returns a copy of the coordinates.
func (p Point[T]) Coords() []T {
	return slices.Clone(p.coords)
}

func (p Point[T]) Equal(o Point[T]) bool {
	return slices.Equal(p.coords, o.coords)
}

// Compare orders points lexicographically by coordinate.
func (p Point[T]) Compare(o Point[T]) int {
	return slices.Compare(p.coords, o.coords)
}

func (p Point[T]) Less(o Point[T]) bool {
	return p.Compare(o) < 0
}

func (p Point[T]) Add(o Point[T]) Point[T] {
	mustMatch(p, o)
	out := make([]T, len(p.coords))
	for i := range out {
		out[i] = p.coords[i] + o.coords[i]
	}
	return Point[T]{coords: out}
}

func (p Point[T]) Sub(o Point[T]) Point[T] {
	mustMatch(p, o)
	out := make([]T, len(p.coords))
	for i := range out {
		out[i] = p.coords[i] - o.coords[i]
	}
	return Point[T]{coords: out}
}

// SquaredDistance returns the squared euclidean distance between p and o.
//
// The sum is accumulated in float64. Integer differences are taken exactly when
// they fit in T, so the result is exact while every squared difference stays
// below 2^53 (differences up to about 2^26 per axis for int64 coordinates).
func (p Point[T]) SquaredDistance(o Point[T]) float64 {
	mustMatch(p, o)
	var dist float64
	for i, c := range p.coords {
		d := axisDiff(c, o.coords[i])
		dist += d * d
	}
	return dist
}

func axisDiff[T Number](a, b T) float64 {
	if !isInteger[T]() {
		return float64(a) - float64(b)
	}
	// a wrapped difference has the wrong sign
	if d := a - b; (a >= b) == (d >= 0) {
		return float64(d)
	}
	return float64(a) - float64(b)
}

func isInteger[T Number]() bool {
	half := 0.5
	return T(half) == 0
}

// Hash is consistent with Equal for every point without NaN coordinates.
func (p Point[T]) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, c := range p.coords {
		f := float64(c)
		if f == 0 {
			f = 0 // -0 and +0 are equal
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func mustMatch[T Number](p, o Point[T]) {
	if len(p.coords) != len(o.coords) {
		panic(fmt.Sprintf("point: dimension mismatch %d != %d", len(p.coords), len(o.coords)))
	}
}
