// Package cli prints episodes, instance sets and the scoreboard as plain
// terminal output.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/effects"
	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/instance"
	"github.com/nathoo/bossfight/engine/resolve"
	"github.com/nathoo/bossfight/engine/save"
	"github.com/nathoo/bossfight/engine/score"
	"github.com/nathoo/bossfight/store"
	"github.com/nathoo/bossfight/types"
)

// CLI writes human-readable progress for episodes as they run.
type CLI struct {
	Out   io.Writer
	Trace bool // print every transcript event as it is recorded
}

// New creates a CLI writing to stdout.
func New() *CLI {
	return &CLI{Out: os.Stdout}
}

// Sink returns an event sink for engine.Options. It prints only when
// Trace is set.
func (c *CLI) Sink() events.Sink {
	return func(e types.Event) {
		if c.Trace {
			c.printTrace(e)
		}
	}
}

// Play runs eng to the end with gen, printing each round as it finishes.
func (c *CLI) Play(ctx context.Context, eng *engine.Engine, gen resolve.Generator) (types.Phase, error) {
	c.printHeader(eng)
	shown := 0
	for {
		done, err := eng.Step(ctx, gen)
		for ; shown < len(eng.Rounds); shown++ {
			c.printRound(eng, eng.Rounds[shown])
		}
		if err != nil {
			c.printSystem(fmt.Sprintf("Error: %v", err))
			c.printOutcome(eng)
			return eng.State.Phase, err
		}
		if done {
			break
		}
	}
	c.printOutcome(eng)
	return eng.State.Phase, nil
}

// Replay prints a saved episode without the interactive viewer.
func (c *CLI) Replay(tr *save.Transcript) {
	inst := tr.Instance
	c.printLine(fmt.Sprintf("Game %d (%s): %s and %s", inst.ID, inst.Experiment,
		inst.SheetA.ClassName, inst.SheetB.ClassName))
	var blocked []types.Coord
	for _, label := range inst.Dungeon.Blocked {
		if pos, err := grid.Parse(label); err == nil {
			blocked = append(blocked, pos)
		}
	}
	for _, r := range tr.Rounds {
		c.printRoundResult(r, blocked)
	}
	line := fmt.Sprintf("Outcome: %s after %d rounds, %d reprompts", tr.Outcome,
		tr.Summary.PlayedRounds, tr.Summary.Reprompts)
	if tr.AbortReason != "" {
		line += " (" + tr.AbortReason + ")"
	}
	c.printSystem(line)
	c.printSystem("score: " + FormatScore(tr.Report()))
}

// Instances lists a generated instance set, one line per instance.
func (c *CLI) Instances(set *instance.Set) {
	c.printSystem(fmt.Sprintf("Seed %d, %d experiments", set.Seed, len(set.Experiments)))
	for _, exp := range set.Experiments {
		c.printLine(exp.Name)
		for _, inst := range exp.Instances {
			d := inst.Dungeon
			c.printLine(fmt.Sprintf("  #%-2d %-8s + %-8s vs %s boss (%d HP, AC %d, resists %s)  A:%s B:%s boss:%s blocked:%s,%s",
				inst.ID, inst.ClassA, inst.ClassB, inst.BossSheet.Difficulty,
				inst.BossSheet.HitPoints, inst.BossSheet.ArmorClass, inst.BossSheet.Resistance,
				d.PlayerA, d.PlayerB, d.Boss, d.Blocked[0], d.Blocked[1]))
		}
	}
}

// Scoreboard prints per-experiment standings.
func (c *CLI) Scoreboard(standings []store.Standing) {
	if len(standings) == 0 {
		c.printSystem("No episodes recorded.")
		return
	}
	c.printLine(fmt.Sprintf("%-24s %8s %5s %5s %8s %10s", "experiment", "episodes", "won", "lost", "aborted", "mean score"))
	for _, st := range standings {
		mean := "n/a"
		if st.MeanScore != nil {
			mean = fmt.Sprintf("%.3f", *st.MeanScore)
		}
		c.printLine(fmt.Sprintf("%-24s %8d %5d %5d %8d %10s",
			st.Experiment, st.Episodes, st.Won, st.Lost, st.Aborted, mean))
	}
}

func (c *CLI) printHeader(eng *engine.Engine) {
	inst := eng.Instance
	boss := inst.BossSheet
	c.printLine(fmt.Sprintf("Game %d (%s): %s and %s against a %s %s boss (%d HP, AC %d, resists %s)",
		inst.ID, inst.Experiment, inst.SheetA.ClassName, inst.SheetB.ClassName,
		boss.Difficulty, boss.Size, boss.HitPoints, boss.ArmorClass, boss.Resistance))
	c.printLine(RenderGrid(engine.Standings(eng.State), eng.State.Blocked[:]))
	c.printLine("")
}

func (c *CLI) printRound(eng *engine.Engine, r engine.Round) {
	c.printRoundResult(r, eng.State.Blocked[:])
}

func (c *CLI) printRoundResult(r engine.Round, blocked []types.Coord) {
	c.printLine(fmt.Sprintf("Round %d", r.Number))
	if r.Number == resolve.HandshakeRound && len(r.Result.Records) == 0 {
		c.printLine("  roles confirmed")
	}
	for _, rec := range r.Result.Records {
		c.printLine("  " + resolve.Describe(rec))
	}
	for _, ch := range r.Result.Changes {
		c.printLine("  " + DescribeChange(ch))
	}
	for _, f := range r.Result.Flags {
		c.printLine(fmt.Sprintf("  [bad move] %s: %s", f.Participant, strings.Join(f.Notes, "; ")))
	}
	for _, id := range r.Result.Skipped {
		c.printLine(fmt.Sprintf("  %s is down and cannot act", id))
	}
	c.printLine(RenderGrid(r.Standing, blocked))
	c.printLine("")
}

// DescribeChange renders one hit-point change as a sentence.
func DescribeChange(ch effects.Change) string {
	from := strings.Join(ch.Sources, " and ")
	switch {
	case ch.Kind == effects.KindHeal:
		return fmt.Sprintf("%s heals %s for %d (%d -> %d HP)", from, ch.Target, ch.Amount, ch.Before, ch.After)
	case !ch.Applied:
		return fmt.Sprintf("%s rolls %d against %s and misses", from, ch.Amount, ch.Target)
	default:
		return fmt.Sprintf("%s deals %d to %s (%d -> %d HP)", from, ch.Amount, ch.Target, ch.Before, ch.After)
	}
}

func (c *CLI) printOutcome(eng *engine.Engine) {
	s := eng.State
	rep := eng.Report()
	line := fmt.Sprintf("Outcome: %s after %d rounds, %d reprompts", s.Phase, s.PlayedRounds, s.Reprompts)
	if s.AbortReason != "" {
		line += " (" + s.AbortReason + ")"
	}
	c.printSystem(line)
	c.printSystem(fmt.Sprintf("Violations: %d format, %d rule | valid moves: %d | suboptimal: %d | score: %s",
		rep.Totals.FormatViolations, rep.Totals.RuleViolations,
		rep.Totals.ValidMoves, rep.Totals.SuboptimalMoves, FormatScore(rep)))
}

// FormatScore renders a report's score, or "n/a" when it has none.
func FormatScore(rep score.Report) string {
	if !rep.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", rep.Score)
}

func (c *CLI) printTrace(e types.Event) {
	content := e.Action.Content
	if e.Action.Type == events.TypeSendMessage {
		// Prompts are long; the first line is enough to follow along.
		content, _, _ = strings.Cut(content, "\n")
	} else {
		content = strings.ReplaceAll(content, "\n", " | ")
	}
	c.printLine(fmt.Sprintf("[trace] r%d %s -> %s %s: %s", e.Round, e.From, e.To, e.Action.Type, content))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
