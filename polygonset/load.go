package polygonset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/royalcat/kdgeo/polygon"
)

// Load reads one region per line: a name, a tab and a polygon in `[p1,...,pn]` form.
// Blank lines and lines starting with '#' are skipped.
func Load(r io.Reader) (*Set[string], error) {
	set := New[string]()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		name, ring, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected a name and a polygon separated by a tab", line)
		}
		p, err := polygon.Parse[float64](ring)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if p.Size() == 0 {
			return nil, fmt.Errorf("line %d: region %q has no vertices", line, name)
		}
		set.Insert(strings.TrimSpace(name), p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading polygons: %w", err)
	}

	return set, nil
}
