package server

import (
	"fmt"
	"strconv"

	"github.com/royalcat/kdgeo/point"
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

// unmarshalPointsListFast parses a JSON array of coordinate arrays, each with exactly dim numbers.
func unmarshalPointsListFast(data []byte, dim int, result *[]point.Point[float64]) error {
	i := 0
	n := len(data)

	coords := make([]float64, 0, dim)
	count := 0

	// Skip leading whitespace
	for i < n && isSpace(data[i]) {
		i++
	}

	if i >= n || data[i] != '[' {
		return fmt.Errorf("invalid format: expected '['")
	}
	i++

	for {
		for i < n && isSpace(data[i]) {
			i++
		}

		if i < n && data[i] == ']' && count == 0 {
			i++
			break
		}

		if i >= n || data[i] != '[' {
			return fmt.Errorf("invalid format: expected '[' for point")
		}
		i++

		coords = coords[:0]
		for j := 0; j < dim; j++ {
			for i < n && isSpace(data[i]) {
				i++
			}

			start := i
			// Find the end of the number
			for i < n && ((data[i] >= '0' && data[i] <= '9') || data[i] == '-' || data[i] == '+' || data[i] == '.' || data[i] == 'e' || data[i] == 'E') {
				i++
			}
			if start == i {
				return fmt.Errorf("invalid format: expected number at offset %d", i)
			}
			num, err := strconv.ParseFloat(string(data[start:i]), 64)
			if err != nil {
				return fmt.Errorf("invalid number: %v", err)
			}
			coords = append(coords, num)

			for i < n && isSpace(data[i]) {
				i++
			}

			if j < dim-1 {
				if i < n && data[i] == ',' {
					i++
				} else {
					return fmt.Errorf("invalid format: expected ',' between coordinates")
				}
			}
		}

		if i >= n || data[i] != ']' {
			return fmt.Errorf("invalid format: expected ']' after %d coordinates", dim)
		}
		i++

		*result = append(*result, point.New(coords...))
		count++

		for i < n && isSpace(data[i]) {
			i++
		}

		// Check for comma or end
		if i < n && data[i] == ',' {
			i++
			continue
		} else if i < n && data[i] == ']' {
			i++
			break
		}
		return fmt.Errorf("invalid format: expected ',' or ']' after point")
	}

	for i < n && isSpace(data[i]) {
		i++
	}
	if i != n {
		return fmt.Errorf("invalid format: unexpected data after list")
	}

	return nil
}
