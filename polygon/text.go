package polygon

import (
	"errors"
	"strings"

	"github.com/royalcat/kdgeo/point"
)

func (c *ConvexPolygon[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range c.All() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (c *ConvexPolygon[T]) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses and validates a polygon. Empty brackets leave c untouched.
func (c *ConvexPolygon[T]) UnmarshalText(text []byte) error {
	parsed, err := Parse[T](string(text))
	if err != nil {
		return err
	}
	if parsed.Size() == 0 {
		return nil
	}
	*c = *parsed
	return nil
}

// Parse reads `[p1,...,pn]` and validates the result with NewConvex.
// Empty brackets yield the empty polygon.
func Parse[T point.Number](s string) (*ConvexPolygon[T], error) {
	vertices, err := ParseRing[T](s)
	if err != nil {
		return nil, err
	}
	if len(vertices) == 0 {
		return &ConvexPolygon[T]{}, nil
	}
	return NewConvex(vertices...)
}

// ParseRing reads `[p1,...,pn]` without validating the vertices.
func ParseRing[T point.Number](s string) ([]point.Point[T], error) {
	i := skipSpace(s, 0)
	if i >= len(s) || s[i] != '[' {
		return nil, point.NewSyntaxError("polygon", "'['", s, i)
	}
	i++

	var vertices []point.Point[T]
	if i < len(s) && s[i] == ']' {
		return vertices, trailing(s, i+1)
	}

	for {
		if j := skipSpace(s, i); j >= len(s) || s[j] != '(' {
			return nil, point.NewSyntaxError("polygon", "point", s, j)
		}

		p, n, err := point.ParsePrefix[T](s[i:])
		if err != nil {
			var syntaxErr *point.SyntaxError
			if errors.As(err, &syntaxErr) {
				syntaxErr.Offset += i
			}
			return nil, err
		}
		vertices = append(vertices, p)
		i += n

		switch {
		case i < len(s) && s[i] == ',':
			i++
		case i < len(s) && s[i] == ']':
			return vertices, trailing(s, i+1)
		default:
			return nil, point.NewSyntaxError("polygon", "',' or ']'", s, i)
		}
	}
}

func trailing(s string, i int) error {
	if i = skipSpace(s, i); i < len(s) {
		return point.NewSyntaxError("polygon", "end of input", s, i)
	}
	return nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
