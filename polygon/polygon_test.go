package polygon_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/kdgeo/point"
	"github.com/royalcat/kdgeo/polygon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) point.Point[float64] {
	return point.New(x, y)
}

func triangle(t *testing.T) *polygon.ConvexPolygon[float64] {
	t.Helper()
	c, err := polygon.NewConvex(pt(0, 0), pt(2, 0), pt(1, 2))
	require.NoError(t, err)
	return c
}

func TestNewConvex(t *testing.T) {
	c := triangle(t)
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, []point.Point[float64]{pt(0, 0), pt(2, 0), pt(1, 2)}, c.Vertices())
}

func TestNewConvexClockwise(t *testing.T) {
	c, err := polygon.NewConvex(pt(0, 0), pt(1, 2), pt(2, 0))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Size())
	assert.True(t, c.Equal(triangle(t)), "got %s", c)

	var order []point.Point[float64]
	for _, v := range c.All() {
		order = append(order, v)
	}
	assert.Equal(t, []point.Point[float64]{pt(0, 0), pt(2, 0), pt(1, 2)}, order)

	var backward []point.Point[float64]
	for _, v := range c.Backward() {
		backward = append(backward, v)
	}
	assert.Equal(t, []point.Point[float64]{pt(1, 2), pt(2, 0), pt(0, 0)}, backward)
}

func TestNewConvexErrors(t *testing.T) {
	tests := []struct {
		name     string
		vertices []point.Point[float64]
		err      error
	}{
		{"Empty", nil, polygon.ErrTooFewVertices},
		{"TwoVertices", []point.Point[float64]{pt(0, 0), pt(1, 1)}, polygon.ErrTooFewVertices},
		{"Collinear", []point.Point[float64]{pt(0, 0), pt(1, 1), pt(2, 2)}, polygon.ErrCollinear},
		{"Repeated", []point.Point[float64]{pt(1, 1), pt(1, 1), pt(1, 1)}, polygon.ErrCollinear},
		{"Dart", []point.Point[float64]{pt(0, 0), pt(2, 0), pt(1, 1), pt(2, 2), pt(0, 2)}, polygon.ErrNotConvex},
		{"Bowtie", []point.Point[float64]{pt(0, 0), pt(2, 2), pt(2, 0), pt(0, 2)}, polygon.ErrNotConvex},
		{"ThreeDimensional", []point.Point[float64]{pt(0, 0), point.New(1.0, 0, 0), pt(0, 1)}, polygon.ErrNotPlanar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := polygon.NewConvex(tt.vertices...)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)
		})
	}
}

func TestNewConvexCollinearRun(t *testing.T) {
	c, err := polygon.NewConvex(pt(0, 0), pt(1, 0), pt(2, 0), pt(2, 2), pt(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Size())
	assert.True(t, c.Contains(pt(1, 1)))
}

func TestContainsTriangle(t *testing.T) {
	c := triangle(t)
	ring := c.Vertices()

	tests := []struct {
		name   string
		q      point.Point[float64]
		inside bool
	}{
		{"Interior", pt(1, 1), true},
		{"Above", pt(2, 2), false},
		{"Left", pt(-1, 0), false},
		{"BottomEdge", pt(1, 0), true},
		{"LeftEdge", pt(0.5, 1), true},
		{"RightEdge", pt(1.5, 1), false},
		{"FirstVertex", pt(0, 0), true},
		{"SecondVertex", pt(2, 0), false},
		{"Apex", pt(1, 2), false},
		{"Below", pt(1, -0.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, c.Contains(tt.q))
			assert.Equal(t, tt.inside, polygon.Contains(ring, tt.q))
		})
	}
}

func TestWindingNumberOrientation(t *testing.T) {
	ccw := []point.Point[int]{point.New(0, 0), point.New(4, 0), point.New(4, 4), point.New(0, 4)}
	cw := slices.Clone(ccw)
	slices.Reverse(cw)

	assert.Equal(t, 1, polygon.WindingNumber(ccw, point.New(2, 2)))
	assert.Equal(t, -1, polygon.WindingNumber(cw, point.New(2, 2)))
	assert.Equal(t, 0, polygon.WindingNumber(ccw, point.New(5, 2)))
	assert.Equal(t, 0, polygon.WindingNumber[int](nil, point.New(5, 2)))
}

func TestContainsNonConvex(t *testing.T) {
	dart := []point.Point[float64]{pt(0, 0), pt(2, 0), pt(1, 1), pt(2, 2), pt(0, 2)}

	assert.True(t, polygon.Contains(dart, pt(0.5, 1)))
	assert.False(t, polygon.Contains(dart, pt(1.8, 1)))
	assert.True(t, polygon.Contains(dart, pt(1.8, 0.1)))
}

func TestContainsAgreesWithOrb(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	hexagon, err := polygon.NewConvex(pt(2, 0), pt(4, 1), pt(4, 3), pt(2, 4), pt(0, 3), pt(0, 1))
	require.NoError(t, err)
	ring := hexagon.Ring()
	vertices := hexagon.Vertices()

	for range 2000 {
		q := pt(rnd.Float64()*6-1, rnd.Float64()*6-1)
		want := planar.RingContains(ring, orb.Point{q.At(0), q.At(1)})

		assert.Equal(t, want, hexagon.Contains(q), "query %s", q)
		assert.Equal(t, want, polygon.Contains(vertices, q), "query %s", q)
	}
}

func TestOrb(t *testing.T) {
	c, err := polygon.FromRing(orb.Ring{{0, 0}, {0, 3}, {3, 0}, {0, 0}})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Size())
	assert.Equal(t, orb.Ring{{0, 0}, {3, 0}, {0, 3}, {0, 0}}, c.Ring())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{3, 3}}, c.Bound())
	assert.Equal(t, orb.CCW, c.Ring().Orientation())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "[(0,0),(2,0),(1,2)]", triangle(t).String())

	ints, err := polygon.NewConvex(point.New(0, 0), point.New(0, 5), point.New(-5, 0))
	require.NoError(t, err)
	assert.Equal(t, "[(0,0),(0,5),(-5,0)]", ints.String())
}

func TestParse(t *testing.T) {
	c, err := polygon.Parse[float64](" [(0,0),(1,2),(2,0)]\n")
	require.NoError(t, err)
	assert.True(t, c.Equal(triangle(t)))

	empty, err := polygon.Parse[float64]("[]")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Size())
	assert.Equal(t, "[]", empty.String())
	assert.False(t, empty.Contains(pt(0, 0)))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"TrailingComma", "[(0,0),(2,0),(1,2),]", "invalid format for polygon: expected point but saw ']'"},
		{"OpeningBracket", "((0,0))", "invalid format for polygon: expected '[' but saw '('"},
		{"Separator", "[(0,0);(2,0)]", "invalid format for polygon: expected ',' or ']' but saw ';'"},
		{"Unterminated", "[(0,0),(2,0)", "invalid format for polygon: expected ',' or ']' but saw end of input"},
		{"BadPoint", "[(0,0),(2;0)]", "invalid format for point: expected ',' or ')' but saw ';'"},
		{"Trailing", "[]x", "invalid format for polygon: expected end of input but saw 'x'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := polygon.Parse[float64](tt.input)
			require.Error(t, err)
			assert.EqualError(t, err, tt.msg)
			assert.True(t, errors.Is(err, point.ErrInvalidFormat))
		})
	}

	_, err := polygon.Parse[float64]("[(0,0),(1,1),(2,2)]")
	assert.True(t, errors.Is(err, polygon.ErrCollinear))
}

func TestParseErrorOffset(t *testing.T) {
	_, err := polygon.Parse[float64]("[(0,0),(2;0)]")

	var syntaxErr *point.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 9, syntaxErr.Offset)
}

func TestUnmarshalText(t *testing.T) {
	c := triangle(t)
	require.NoError(t, c.UnmarshalText([]byte("[]")))
	assert.Equal(t, 3, c.Size())

	require.NoError(t, c.UnmarshalText([]byte("[(0,0),(4,0),(4,4),(0,4)]")))
	assert.Equal(t, 4, c.Size())

	require.Error(t, c.UnmarshalText([]byte("[(0,0),(4,0),]")))
	assert.Equal(t, 4, c.Size())
}

func TestTextRoundTrip(t *testing.T) {
	polygons := [][]point.Point[float64]{
		{pt(0, 0), pt(2, 0), pt(1, 2)},
		{pt(0.1, 0.2), pt(-3.75, 1e-9), pt(1e10, -7)},
		{pt(2, 0), pt(4, 1), pt(4, 3), pt(2, 4), pt(0, 3), pt(0, 1)},
	}

	for _, vertices := range polygons {
		c, err := polygon.NewConvex(vertices...)
		require.NoError(t, err)

		text, err := c.MarshalText()
		require.NoError(t, err)

		var out polygon.ConvexPolygon[float64]
		require.NoError(t, out.UnmarshalText(text))
		assert.True(t, c.Equal(&out), "%s != %s", c, &out)
	}
}

func FuzzContainsAgree(f *testing.F) {
	f.Add(1.0, 1.0)
	f.Add(1.0, 0.0)
	f.Add(0.0, 0.0)
	f.Add(1.5, 1.0)

	c, err := polygon.NewConvex(pt(0, 0), pt(2, 0), pt(1, 2))
	if err != nil {
		f.Fatalf("unexpected error: %s", err.Error())
	}
	ring := c.Vertices()

	f.Fuzz(func(t *testing.T, x, y float64) {
		q := pt(x, y)
		if c.Contains(q) != polygon.Contains(ring, q) {
			t.Fatalf("predicates disagree at %s", q)
		}
	})
}
