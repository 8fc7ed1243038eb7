package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/bossfight/engine/events"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleHeading = lipgloss.NewStyle().Bold(true)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleReply = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleRecord = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// lineKind identifies how a replay line is styled.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeading
	kindPrompt
	kindReply
	kindError
	kindInfo
	kindWarn
	kindRecord
	kindSystem
)

// eventKind maps a transcript event to its line style.
func eventKind(typ, content string) lineKind {
	switch typ {
	case events.TypeSendMessage:
		return kindPrompt
	case events.TypeGetMessage:
		return kindReply
	case events.TypeError:
		return kindError
	case events.TypeInfo:
		if content == events.BadMove {
			return kindWarn
		}
		return kindInfo
	}
	return kindPlain
}

// renderLineKind applies the style for kind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindPrompt:
		return stylePrompt.Render(line)
	case kindReply:
		return styleReply.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindInfo:
		return styleInfo.Render(line)
	case kindWarn:
		return styleWarn.Render(line)
	case kindRecord:
		return styleRecord.Render(line)
	case kindSystem:
		return styleSystem.Render("[" + line + "]")
	default:
		return line
	}
}

// wordWrap wraps each line of text at word boundaries to width. Existing
// newlines are kept.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	if len(line) <= width {
		return line
	}
	var b strings.Builder
	n := 0
	for i, word := range strings.Fields(line) {
		switch {
		case i == 0:
		case n+1+len(word) > width:
			b.WriteString("\n")
			n = 0
		default:
			b.WriteString(" ")
			n++
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}
