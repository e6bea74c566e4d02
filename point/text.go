package point

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid format")

// SyntaxError describes text that does not follow the `(c1,c2,...,cd)` point format
// or the `[p1,...,pn]` polygon format.
type SyntaxError struct {
	Kind     string // "point" or "polygon"
	Expected string
	Saw      string
	Offset   int
	Err      error // underlying number parsing error, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid format for %s: expected %s but saw %s", e.Kind, e.Expected, e.Saw)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NewSyntaxError reports that s[offset] is not what was expected.
func NewSyntaxError(kind, expected, s string, offset int) *SyntaxError {
	return &SyntaxError{Kind: kind, Expected: expected, Saw: Describe(s, offset), Offset: offset}
}

// Describe renders the byte at s[i] for an error message.
func Describe(s string, i int) string {
	if i >= len(s) {
		return "end of input"
	}
	c := s[i]
	switch {
	case c == '\t':
		return `'\t'`
	case c == '\n':
		return `'\n'`
	case c < 0x80 && strconv.IsPrint(rune(c)):
		return "'" + string(c) + "'"
	default:
		return fmt.Sprintf(`'\x%02x'`, c)
	}
}

func (p Point[T]) String() string {
	var sb strings.Builder
	p.appendTo(&sb)
	return sb.String()
}

func (p Point[T]) appendTo(sb *strings.Builder) {
	sb.WriteByte('(')
	for i, c := range p.coords {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatCoordinate(c))
	}
	sb.WriteByte(')')
}

func (p Point[T]) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Point[T]) UnmarshalText(text []byte) error {
	parsed, err := Parse[T](string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parse reads a point of any dimension. Surrounding whitespace is ignored.
func Parse[T Number](s string) (Point[T], error) {
	return parseWhole[T](s, -1)
}

// ParseN reads a point and requires it to have exactly dim coordinates.
// A dim of zero or less accepts any dimension.
func ParseN[T Number](s string, dim int) (Point[T], error) {
	return parseWhole[T](s, dim)
}

func parseWhole[T Number](s string, dim int) (Point[T], error) {
	p, n, err := parsePrefix[T](s, dim)
	if err != nil {
		return Point[T]{}, err
	}
	if i := skipSpace(s, n); i < len(s) {
		return Point[T]{}, NewSyntaxError("point", "end of input", s, i)
	}
	return p, nil
}

// ParsePrefix reads one point from the start of s and returns the number of bytes consumed.
func ParsePrefix[T Number](s string) (Point[T], int, error) {
	return parsePrefix[T](s, -1)
}

func parsePrefix[T Number](s string, dim int) (Point[T], int, error) {
	i := skipSpace(s, 0)
	if i >= len(s) || s[i] != '(' {
		return Point[T]{}, i, NewSyntaxError("point", "'('", s, i)
	}
	i++

	var coords []T
	if dim > 0 {
		coords = make([]T, 0, dim)
	}
	if i < len(s) && s[i] == ')' && dim <= 0 {
		return Point[T]{}, i + 1, nil
	}

	for {
		j := scanNumber(s, i)
		if j == i {
			return Point[T]{}, i, NewSyntaxError("point", "coordinate", s, i)
		}
		c, err := parseCoordinate[T](s[i:j])
		if err != nil {
			return Point[T]{}, i, &SyntaxError{Kind: "point", Expected: "coordinate", Saw: "'" + s[i:j] + "'", Offset: i, Err: err}
		}
		coords = append(coords, c)
		i = j

		switch {
		case dim > 0 && len(coords) < dim:
			if i >= len(s) || s[i] != ',' {
				return Point[T]{}, i, NewSyntaxError("point", "','", s, i)
			}
			i++
		case dim > 0:
			if i >= len(s) || s[i] != ')' {
				return Point[T]{}, i, NewSyntaxError("point", "')'", s, i)
			}
			return Point[T]{coords: coords}, i + 1, nil
		case i < len(s) && s[i] == ',':
			i++
		case i < len(s) && s[i] == ')':
			return Point[T]{coords: coords}, i + 1, nil
		default:
			return Point[T]{}, i, NewSyntaxError("point", "',' or ')'", s, i)
		}
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

// scanNumber returns the end of the numeric token starting at s[i].
func scanNumber(s string, i int) int {
	for i < len(s) {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '+', c == '-', c == '.', c == 'e', c == 'E':
		case strings.IndexByte("iInNfFaAtTyY", c) >= 0: // Inf, NaN, infinity
		default:
			return i
		}
		i++
	}
	return i
}

func parseCoordinate[T Number](tok string) (T, error) {
	typ := reflect.TypeFor[T]()
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tok, typ.Bits())
		return T(f), err
	default:
		n, err := strconv.ParseInt(tok, 10, typ.Bits())
		return T(n), err
	}
}

func formatCoordinate[T Number](c T) string {
	typ := reflect.TypeFor[T]()
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(float64(c), 'g', -1, typ.Bits())
	default:
		return strconv.FormatInt(int64(c), 10)
	}
}
