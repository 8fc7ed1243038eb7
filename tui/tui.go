package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/bossfight/cli"
	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/resolve"
	"github.com/nathoo/bossfight/engine/save"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// rawLine stores an unstyled line with its classification so it can be
// re-wrapped when the terminal is resized.
type rawLine struct {
	text string
	kind lineKind
}

// frame is one screen of the replay: the board after a round and what
// happened during it. Frame 0 is the starting position.
type frame struct {
	round    int
	standing []engine.Standing
	potions  int
	lines    []rawLine
}

// Model is the Bubble Tea model for the replay viewer.
type Model struct {
	tr      *save.Transcript
	frames  []frame
	blocked []types.Coord

	viewport viewport.Model
	input    textinput.Model
	history  *History

	cur        int
	errorsOnly bool
	notice     string

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a viewer for tr.
func New(tr *save.Transcript) (Model, error) {
	s, err := state.New(tr.Instance)
	if err != nil {
		return Model{}, fmt.Errorf("rebuilding starting position: %w", err)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "next, prev, round <n>, errors, help"
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	return Model{
		tr:      tr,
		frames:  buildFrames(tr, s),
		blocked: s.Blocked[:],
		input:   ti,
		history: NewHistory(50),
	}, nil
}

// Run opens the viewer full screen.
func Run(tr *save.Transcript) error {
	m, err := New(tr)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func buildFrames(tr *save.Transcript, start *types.Scenario) []frame {
	inst := tr.Instance
	boss := inst.BossSheet
	first := frame{standing: engine.Standings(start), potions: start.Potions}
	first.lines = []rawLine{
		{text: fmt.Sprintf("%s: game %d", inst.Experiment, inst.ID), kind: kindHeading},
		{text: fmt.Sprintf("player a: %s (%d HP, AC %d)", inst.SheetA.ClassName, inst.SheetA.HitPoints, inst.SheetA.ArmorClass)},
		{text: fmt.Sprintf("player b: %s (%d HP, AC %d)", inst.SheetB.ClassName, inst.SheetB.HitPoints, inst.SheetB.ArmorClass)},
		{text: fmt.Sprintf("boss: %s %s (%d HP, AC %d, resists %s)",
			boss.Difficulty, boss.Size, boss.HitPoints, boss.ArmorClass, boss.Resistance)},
		{},
		{text: outcomeLine(tr), kind: kindSystem},
	}
	frames := []frame{first}

	byRound := map[int][]types.Event{}
	for _, e := range tr.Events {
		byRound[e.Round] = append(byRound[e.Round], e)
	}

	for _, r := range tr.Rounds {
		f := frame{round: r.Number, standing: r.Standing, potions: r.Potions}
		f.lines = append(f.lines, rawLine{text: fmt.Sprintf("Round %d", r.Number), kind: kindHeading})
		for _, rec := range r.Result.Records {
			f.lines = append(f.lines, rawLine{text: resolve.Describe(rec), kind: kindRecord})
		}
		for _, ch := range r.Result.Changes {
			f.lines = append(f.lines, rawLine{text: cli.DescribeChange(ch), kind: kindRecord})
		}
		for _, fl := range r.Result.Flags {
			f.lines = append(f.lines, rawLine{
				text: fmt.Sprintf("bad move by %s: %s", fl.Participant, strings.Join(fl.Notes, "; ")),
				kind: kindWarn,
			})
		}
		f.lines = append(f.lines, rawLine{})
		for _, e := range byRound[r.Number] {
			kind := eventKind(e.Action.Type, e.Action.Content)
			f.lines = append(f.lines, rawLine{
				text: fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Action.Type),
				kind: kindSystem,
			})
			f.lines = append(f.lines, rawLine{text: e.Action.Content, kind: kind})
		}
		frames = append(frames, f)
	}
	return frames
}

func outcomeLine(tr *save.Transcript) string {
	line := fmt.Sprintf("%s after %d rounds", tr.Outcome, tr.Summary.PlayedRounds)
	if tr.AbortReason != "" {
		line += ": " + tr.AbortReason
	}
	sc := "n/a"
	if tr.Score != nil {
		sc = fmt.Sprintf("%.3f", *tr.Score)
	}
	return line + " | score " + sc
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "tab":
			m = m.show(m.cur + 1)
			return m, nil
		case "shift+tab":
			m = m.show(m.cur - 1)
			return m, nil
		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter runs the submitted command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.input.SetValue("")
	if input == "" {
		input = "next"
	} else {
		m.history.Push(input)
	}

	m, quit := m.runCommand(input)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// runCommand executes one viewer command and reports whether to quit.
func (m Model) runCommand(input string) (Model, bool) {
	fields := strings.Fields(input)
	m.notice = ""
	switch fields[0] {
	case "q", "quit", "exit":
		return m, true
	case "n", "next":
		return m.show(m.cur + 1), false
	case "p", "prev":
		return m.show(m.cur - 1), false
	case "first", "start":
		return m.show(0), false
	case "last", "end":
		return m.show(len(m.frames) - 1), false
	case "errors":
		m.errorsOnly = !m.errorsOnly
		return m.show(m.cur), false
	case "help":
		m.notice = "next (enter, tab) | prev (shift+tab) | round <n> | first | last | errors | quit; PgUp/PgDn scroll"
		return m.show(m.cur), false
	case "round", "r":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				return m.showRound(n), false
			}
		}
	default:
		if n, err := strconv.Atoi(fields[0]); err == nil {
			return m.showRound(n), false
		}
	}
	m.notice = fmt.Sprintf("Unknown command: %s. Type help for commands.", input)
	return m.show(m.cur), false
}

func (m Model) showRound(n int) Model {
	for i, f := range m.frames {
		if f.round == n {
			return m.show(i)
		}
	}
	m.notice = fmt.Sprintf("No round %d in this episode.", n)
	return m.show(m.cur)
}

// show moves to frame i, clamped to the available frames.
func (m Model) show(i int) Model {
	if i < 0 {
		i = 0
	}
	if i >= len(m.frames) {
		i = len(m.frames) - 1
	}
	m.cur = i
	m.refreshViewport()
	return m
}

// content renders the current frame as plain lines: grid, notice, then
// the round's lines filtered by the errors-only toggle.
func (m Model) content(width int) []string {
	f := m.frames[m.cur]
	out := strings.Split(cli.RenderGrid(f.standing, m.blocked), "\n")
	out = append(out, "")
	if m.notice != "" {
		out = append(out, renderLineKind(wordWrap(m.notice, width), kindSystem), "")
	}
	for _, rl := range f.lines {
		if m.errorsOnly && (rl.kind == kindPrompt || rl.kind == kindReply) {
			continue
		}
		if rl.text == "" {
			out = append(out, "")
			continue
		}
		out = append(out, renderLineKind(wordWrap(rl.text, width), rl.kind))
	}
	return out
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}
	m.viewport.SetContent(strings.Join(m.content(width), "\n"))
	m.viewport.GotoTop()
}

// View renders the viewport, status bar and command line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap leaves Up/Down to command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
