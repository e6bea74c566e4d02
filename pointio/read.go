package pointio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/btree"
	"github.com/royalcat/kdgeo/point"
)

// ReadAll reads one point per line. Blank lines and lines starting with '#' are skipped.
// The first point fixes the dimension unless dim is positive.
func ReadAll[T point.Number](r io.Reader, dim int) ([]point.Point[T], error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var points []point.Point[T]
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		p, err := point.ParseN[T](text, dim)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dim <= 0 {
			dim = p.Dim()
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading points: %w", err)
	}

	return points, nil
}

// Dedupe drops repeated points, keeping the first occurrence of each.
func Dedupe[T point.Number](points []point.Point[T]) []point.Point[T] {
	seen := btree.NewG(32, point.Point[T].Less)

	out := points[:0]
	for _, p := range points {
		if _, found := seen.ReplaceOrInsert(p); !found {
			out = append(out, p)
		}
	}
	clear(points[len(out):])
	return out
}

// Write prints points one per line.
func Write[T point.Number](w io.Writer, points []point.Point[T]) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		bw.WriteString(p.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
