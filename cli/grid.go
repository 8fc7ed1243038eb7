package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/types"
)

var (
	styleAdventurer = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	styleBoss       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDown       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleEmpty      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	styleAxis       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Grid cell marks.
const (
	MarkPlayerA = "1"
	MarkPlayerB = "2"
	MarkBoss    = "B"
	MarkDown    = "x"
	MarkBlocked = "#"
	MarkEmpty   = "."
)

// RenderGrid draws the dungeon with rows A-E and columns 1-5. Adventurers
// at 0 hit points are drawn as x.
func RenderGrid(standing []engine.Standing, blocked []types.Coord) string {
	var cells [grid.Size][grid.Size]string
	for r := range cells {
		for c := range cells[r] {
			cells[r][c] = styleEmpty.Render(MarkEmpty)
		}
	}
	for _, b := range blocked {
		if grid.InBounds(b) {
			cells[b.Row][b.Col] = styleBlocked.Render(MarkBlocked)
		}
	}
	for _, st := range standing {
		pos, err := grid.Parse(st.Pos)
		if err != nil {
			continue
		}
		cells[pos.Row][pos.Col] = mark(st)
	}

	var b strings.Builder
	b.WriteString("  ")
	for c := 0; c < grid.Size; c++ {
		b.WriteString(" " + styleAxis.Render(string(rune('1'+c))))
	}
	for r := 0; r < grid.Size; r++ {
		b.WriteString("\n" + styleAxis.Render(string(rune('A'+r))) + " ")
		for c := 0; c < grid.Size; c++ {
			b.WriteString(" " + cells[r][c])
		}
	}
	return b.String()
}

func mark(st engine.Standing) string {
	switch st.ID {
	case types.Boss:
		return styleBoss.Render(MarkBoss)
	case types.PlayerA, types.PlayerB:
		if st.HP == 0 {
			return styleDown.Render(MarkDown)
		}
		if st.ID == types.PlayerA {
			return styleAdventurer.Render(MarkPlayerA)
		}
		return styleAdventurer.Render(MarkPlayerB)
	}
	return MarkEmpty
}
