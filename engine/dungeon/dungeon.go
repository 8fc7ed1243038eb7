// Package dungeon generates the starting layout of a scenario: adventurer
// spawns, boss spawn and two blocked cells that never cut anyone off.
package dungeon

import (
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/types"
)

// Source is the randomness the generator draws from.
type Source interface {
	Intn(n int) int
}

// CornerPairs are the four spawn pairs for the adventurers: player A takes
// the first cell, player B the cell beside it (A1/A2, A2/A1, E5/E4, E4/E3).
var CornerPairs = [4][2]types.Coord{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
	{{Row: 0, Col: 1}, {Row: 0, Col: 0}},
	{{Row: 4, Col: 4}, {Row: 4, Col: 3}},
	{{Row: 4, Col: 3}, {Row: 4, Col: 2}},
}

// Generate draws a layout. Blocked pairs are resampled until the boss and
// both adventurers remain mutually reachable.
func Generate(src Source) types.Layout {
	pair := CornerPairs[src.Intn(len(CornerPairs))]
	l := types.Layout{PlayerA: pair[0], PlayerB: pair[1]}

	free := remove(grid.Cells(), l.PlayerA, l.PlayerB)
	l.Boss = free[src.Intn(len(free))]
	free = remove(free, l.Boss)

	for {
		i := src.Intn(len(free))
		j := src.Intn(len(free) - 1)
		if j >= i {
			j++
		}
		l.Blocked = [2]types.Coord{free[i], free[j]}
		if Connected(l) {
			return l
		}
	}
}

// Connected reports whether a 4-directional search from player A, treating
// blocked cells as walls, reaches player B and the boss.
func Connected(l types.Layout) bool {
	seen := Reachable(l.PlayerA, l.Blocked[:])
	return seen[l.PlayerB] && seen[l.Boss]
}

// Reachable returns every cell reachable from start without entering a
// blocked cell.
func Reachable(start types.Coord, blocked []types.Coord) map[types.Coord]bool {
	walls := make(map[types.Coord]bool, len(blocked))
	for _, b := range blocked {
		walls[b] = true
	}

	visited := map[types.Coord]bool{start: true}
	queue := []types.Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range grid.Neighbors(cur) {
			if walls[n] || visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return visited
}

// Labels converts a layout into its label form for instance files.
func Labels(l types.Layout) types.LayoutLabels {
	return types.LayoutLabels{
		PlayerA: grid.Label(l.PlayerA),
		PlayerB: grid.Label(l.PlayerB),
		Boss:    grid.Label(l.Boss),
		Blocked: [2]string{grid.Label(l.Blocked[0]), grid.Label(l.Blocked[1])},
	}
}

// FromLabels parses a labeled layout back into coordinates.
func FromLabels(ll types.LayoutLabels) (types.Layout, error) {
	var l types.Layout
	var err error
	if l.PlayerA, err = grid.Parse(ll.PlayerA); err != nil {
		return l, err
	}
	if l.PlayerB, err = grid.Parse(ll.PlayerB); err != nil {
		return l, err
	}
	if l.Boss, err = grid.Parse(ll.Boss); err != nil {
		return l, err
	}
	for i, b := range ll.Blocked {
		if l.Blocked[i], err = grid.Parse(b); err != nil {
			return l, err
		}
	}
	return l, nil
}

func remove(cells []types.Coord, drop ...types.Coord) []types.Coord {
	out := make([]types.Coord, 0, len(cells))
	for _, c := range cells {
		keep := true
		for _, d := range drop {
			if c == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}
