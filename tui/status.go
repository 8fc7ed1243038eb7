package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/bossfight/types"
)

// renderStatusBar produces a full-width inverted line showing which game
// and round is on screen, the outcome, and everyone's hit points.
func (m Model) renderStatusBar() string {
	f := m.frames[m.cur]
	inst := m.tr.Instance

	where := "start"
	if f.round > 0 {
		where = fmt.Sprintf("round %d/%d", f.round, len(m.frames)-1)
	}
	left := fmt.Sprintf(" %s #%d | %s | %s", inst.Experiment, inst.ID, where, m.tr.Outcome)
	if m.errorsOnly {
		left += " | errors only"
	}

	var hp []string
	for _, st := range f.standing {
		name := "A"
		switch st.ID {
		case types.PlayerB:
			name = "B"
		case types.Boss:
			name = "Boss"
		}
		hp = append(hp, fmt.Sprintf("%s:%d", name, st.HP))
	}
	right := fmt.Sprintf("HP %s | Potions %d ", strings.Join(hp, " "), f.potions)
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = fmt.Sprintf("%s ", strings.Join(hp, " "))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
