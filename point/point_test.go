package point_test

import (
	"errors"
	"math"
	"testing"

	"github.com/royalcat/kdgeo/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	a := point.New(1, 2, 3)
	b := point.New(4, -5, 6)

	assert.True(t, a.Add(b).Equal(point.New(5, -3, 9)))
	assert.True(t, b.Sub(a).Equal(point.New(3, -7, 3)))
	assert.Equal(t, 3, a.Dim())
	assert.Equal(t, -5, b.At(1))
	assert.InDelta(t, 9.0+49.0+9.0, a.SquaredDistance(b), 1e-9)
}

func TestNewCopiesInput(t *testing.T) {
	coords := []float64{1, 2}
	p := point.New(coords...)
	coords[0] = 42

	assert.Equal(t, 1.0, p.At(0))

	out := p.Coords()
	out[1] = 42
	assert.Equal(t, 2.0, p.At(1))
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b point.Point[int]
		want int
	}{
		{"Equal", point.New(1, 2), point.New(1, 2), 0},
		{"FirstAxis", point.New(0, 9), point.New(1, 0), -1},
		{"SecondAxis", point.New(1, 3), point.New(1, 2), 1},
		{"Negative", point.New(-1, 0), point.New(0, -1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, tt.want < 0, tt.a.Less(tt.b))
			assert.Equal(t, tt.want == 0, tt.a.Equal(tt.b))
		})
	}
}

func TestSquaredDistanceLargeIntegers(t *testing.T) {
	base := int64(1) << 62
	a := point.New(base, -base)

	assert.Equal(t, 1.0, a.SquaredDistance(point.New(base+1, -base)))
	assert.Equal(t, 9.0+16.0, a.SquaredDistance(point.New(base+3, -base-4)))
	assert.Less(t, a.SquaredDistance(point.New(base+1, -base)), a.SquaredDistance(point.New(base+3, -base)))

	extremes := point.New[int8](math.MinInt8, math.MaxInt8)
	assert.Equal(t, 255.0*255.0*2, extremes.SquaredDistance(point.New[int8](math.MaxInt8, math.MinInt8)))

	assert.InDelta(t, 0.25, point.New[float32](0.5).SquaredDistance(point.New[float32](1)), 1e-9)
}

func TestMismatchedDimensionsPanic(t *testing.T) {
	assert.Panics(t, func() {
		point.New(1, 2).Add(point.New(1, 2, 3))
	})
	assert.Panics(t, func() {
		point.New(1.0).SquaredDistance(point.New(1.0, 2.0))
	})
}

func TestHash(t *testing.T) {
	assert.Equal(t, point.New(1.5, -2.0).Hash(), point.New(1.5, -2.0).Hash())
	assert.Equal(t, point.New(0.0, 1.0).Hash(), point.New(math.Copysign(0, -1), 1.0).Hash())
	assert.NotEqual(t, point.New(1.0, 2.0).Hash(), point.New(2.0, 1.0).Hash())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "(1,2)", point.New(1.0, 2.0).String())
	assert.Equal(t, "(4.2,-3.7)", point.New[float32](4.2, -3.7).String())
	assert.Equal(t, "(-7,4,1)", point.New(-7, 4, 1).String())
	assert.Equal(t, "()", point.New[int]().String())
}

func TestParse(t *testing.T) {
	p, err := point.Parse[float32]("(4.2,-3.7)")
	require.NoError(t, err)
	assert.True(t, p.Equal(point.New[float32](4.2, -3.7)))

	q, err := point.Parse[int]("  (1,3,-2)\n")
	require.NoError(t, err)
	assert.True(t, q.Equal(point.New(1, 3, -2)))

	inf, err := point.Parse[float64]("(+Inf,-1e+21)")
	require.NoError(t, err)
	assert.Equal(t, "(+Inf,-1e+21)", inf.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		dim   int
		msg   string
	}{
		{"OpeningBracket", "[1,2)", 2, "invalid format for point: expected '(' but saw '['"},
		{"Delimiter", "(1;2)", 2, "invalid format for point: expected ',' but saw ';'"},
		{"Closing", "(1,2,3)", 2, "invalid format for point: expected ')' but saw ','"},
		{"Tab", "(1\t2)", 2, `invalid format for point: expected ',' but saw '\t'`},
		{"Newline", "(1\n,2)", 2, `invalid format for point: expected ',' but saw '\n'`},
		{"Control", "(1\x01,2)", 2, `invalid format for point: expected ',' but saw '\x01'`},
		{"Truncated", "(1,2", 2, "invalid format for point: expected ')' but saw end of input"},
		{"MissingCoordinate", "(1,)", 2, "invalid format for point: expected coordinate but saw ')'"},
		{"Unknown", "(1 2)", 0, "invalid format for point: expected ',' or ')' but saw ' '"},
		{"Trailing", "(1,2)x", 2, "invalid format for point: expected end of input but saw 'x'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := point.ParseN[float64](tt.input, tt.dim)
			require.Error(t, err)
			assert.EqualError(t, err, tt.msg)
			assert.True(t, errors.Is(err, point.ErrInvalidFormat))
		})
	}
}

func TestParseBadNumber(t *testing.T) {
	_, err := point.Parse[int]("(1.5,2)")
	require.Error(t, err)

	var syntaxErr *point.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "coordinate", syntaxErr.Expected)
	assert.Equal(t, 1, syntaxErr.Offset)
	assert.NotNil(t, syntaxErr.Err)
}

func TestParsePrefix(t *testing.T) {
	p, n, err := point.ParsePrefix[int]("(1,2),(3,4)")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, p.Equal(point.New(1, 2)))
}

func TestTextRoundTrip(t *testing.T) {
	points := []point.Point[float64]{
		point.New(0.1, 0.2),
		point.New(-1e-300, 1e300, 3),
		point.New(1.0 / 3.0),
	}

	for _, p := range points {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var out point.Point[float64]
		require.NoError(t, out.UnmarshalText(text))
		assert.True(t, p.Equal(out), "%s != %s", p, out)
	}
}

func FuzzTextRoundTrip(f *testing.F) {
	f.Add(int64(1), int64(2), int64(3))
	f.Add(int64(-9223372036854775808), int64(0), int64(9223372036854775807))

	f.Fuzz(func(t *testing.T, x, y, z int64) {
		p := point.New(x, y, z)
		out, err := point.Parse[int64](p.String())
		if err != nil {
			t.Fatalf("parse %s: %v", p, err)
		}
		if !p.Equal(out) {
			t.Fatalf("expected %s, got %s", p, out)
		}
	})
}
