// Package grid converts between labeled dungeon cells ("B3") and indices and
// measures step distance between cells. Movement is axis-aligned only.
package grid

import (
	"fmt"
	"strings"

	"github.com/nathoo/bossfight/types"
)

// Size is the side length of the square dungeon.
const Size = 5

// OutOfGridError indicates a coordinate or label outside the A1..E5 grid.
type OutOfGridError struct {
	Label string
}

func (e *OutOfGridError) Error() string {
	return fmt.Sprintf("%q is not a cell on the %dx%d grid (A1 to E5)", e.Label, Size, Size)
}

// Parse converts a label such as "b3" or "B3" into a Coord.
func Parse(label string) (types.Coord, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) != 2 {
		return types.Coord{}, &OutOfGridError{Label: label}
	}
	c := types.Coord{Row: int(s[0] - 'A'), Col: int(s[1] - '1')}
	if !InBounds(c) {
		return types.Coord{}, &OutOfGridError{Label: label}
	}
	return c, nil
}

// Label returns the row-letter/column-digit label for c, e.g. "C4".
// Out-of-grid coordinates render as "?".
func Label(c types.Coord) string {
	if !InBounds(c) {
		return "?"
	}
	return string(rune('A'+c.Row)) + string(rune('1'+c.Col))
}

// Labels renders a list of coordinates as "A1, B2".
func Labels(cs []types.Coord) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = Label(c)
	}
	return strings.Join(parts, ", ")
}

// InBounds reports whether c lies on the grid.
func InBounds(c types.Coord) bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Distance returns the Manhattan distance between two cells.
func Distance(a, b types.Coord) (int, error) {
	if !InBounds(a) {
		return 0, &OutOfGridError{Label: fmt.Sprintf("(%d,%d)", a.Row, a.Col)}
	}
	if !InBounds(b) {
		return 0, &OutOfGridError{Label: fmt.Sprintf("(%d,%d)", b.Row, b.Col)}
	}
	return abs(a.Row-b.Row) + abs(a.Col-b.Col), nil
}

// WithinRange reports whether b can be reached from a in at most n steps.
// Standing still is never "within range".
func WithinRange(n int, a, b types.Coord) (bool, error) {
	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	if a == b {
		return false, nil
	}
	return d <= n, nil
}

// Neighbors returns the on-grid cells sharing an edge with c, in
// up, down, left, right order.
func Neighbors(c types.Coord) []types.Coord {
	dirs := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	out := make([]types.Coord, 0, 4)
	for _, d := range dirs {
		n := types.Coord{Row: c.Row + d[0], Col: c.Col + d[1]}
		if InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Cells returns every cell in row-major order.
func Cells() []types.Coord {
	out := make([]types.Coord, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out = append(out, types.Coord{Row: r, Col: c})
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
