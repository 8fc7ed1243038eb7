package cli

import (
	"bytes"
	"context"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/nathoo/bossfight/agent"
	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/instance"
	"github.com/nathoo/bossfight/engine/score"
	"github.com/nathoo/bossfight/store"
	"github.com/nathoo/bossfight/types"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func testInstance() types.Instance {
	fighter := types.Sheet{
		ClassName: "Fighter", Stamina: 3, HitPoints: 30, ArmorClass: 9,
		Actions: []types.ActionDef{
			{Name: "Attack: Longsword", Dice: "2d8", Type: "Slashing", Condition: types.CondAdjacency},
		},
	}
	return types.Instance{
		ID: 5, Experiment: "melee-only_easy",
		SheetA: fighter, SheetB: fighter,
		BossSheet: types.Sheet{
			ClassName: "Boss", Difficulty: "easy", Size: "Large", Stamina: 3,
			HitPoints: 20, ArmorClass: 5, Resistance: "Fire",
			Actions: []types.ActionDef{
				{Name: "Attack: Melee attack", Dice: "2d6", Type: "Blunt", Condition: types.CondAdjacency},
			},
		},
		Dungeon: types.LayoutLabels{PlayerA: "A1", PlayerB: "B2", Boss: "A2", Blocked: [2]string{"E5", "D5"}},
	}
}

const hit = "MOVE: stay\nACTION: Attack: Longsword\nTARGET: boss in A2\nROLL: 10"

func TestRenderGrid(t *testing.T) {
	got := plain(RenderGrid([]engine.Standing{
		{ID: types.PlayerA, Pos: "A1", HP: 10},
		{ID: types.PlayerB, Pos: "C3", HP: 0},
		{ID: types.Boss, Pos: "B2", HP: 50},
	}, []types.Coord{{Row: 4, Col: 4}, {Row: 0, Col: 4}}))

	want := strings.Join([]string{
		"   1 2 3 4 5",
		"A  1 . . . #",
		"B  . B . . .",
		"C  . . x . .",
		"D  . . . . .",
		"E  . . . . #",
	}, "\n")
	if got != want {
		t.Errorf("grid:\n%s\nwant:\n%s", got, want)
	}
}

func TestPlay_PrintsRoundsAndOutcome(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{Out: &out}
	eng, err := engine.New(testInstance(), engine.Options{Sinks: []events.Sink{c.Sink()}})
	if err != nil {
		t.Fatal(err)
	}
	gen := agent.NewScripted(map[string][]string{
		types.PlayerA: {"Fighter", hit},
		types.PlayerB: {"Fighter", hit},
		types.Boss:    {"Dungeon Master", "MOVE: stay\nACTION: do nothing\nTARGET: none"},
	})

	phase, err := c.Play(context.Background(), eng, gen)
	if err != nil {
		t.Fatal(err)
	}
	if phase != types.PhaseWon {
		t.Fatalf("phase = %s", phase)
	}

	text := plain(out.String())
	for _, want := range []string{
		"Game 5 (melee-only_easy): Fighter and Fighter against a easy Large boss",
		"Round 1\n  roles confirmed",
		"Round 2",
		"player a stayed in A1 and used Attack: Longsword on boss in A2, rolling 10.",
		"player a and player b deals 20 to boss (20 -> 0 HP)",
		"[Outcome: won after 2 rounds, 0 reprompts]",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "[trace]") {
		t.Error("trace lines printed without Trace")
	}
}

func TestPlay_Trace(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{Out: &out, Trace: true}
	eng, err := engine.New(testInstance(), engine.Options{Sinks: []events.Sink{c.Sink()}})
	if err != nil {
		t.Fatal(err)
	}
	gen := agent.NewScripted(map[string][]string{types.PlayerA: {"Wizard", "Paladin"}})

	phase, _ := c.Play(context.Background(), eng, gen)
	if phase != types.PhaseAborted {
		t.Fatalf("phase = %s", phase)
	}
	text := plain(out.String())
	for _, want := range []string{
		"[trace] r1 Player 1 -> GM get message: Wizard",
		"[trace] r1 GM -> Player 1 error: invalid format",
		"score: n/a",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestScoreboard(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{Out: &out}
	c.Scoreboard(nil)
	if !strings.Contains(out.String(), "No episodes recorded.") {
		t.Errorf("empty board: %q", out.String())
	}

	out.Reset()
	mean := 0.25
	c.Scoreboard([]store.Standing{
		{Experiment: "balanced_hard", Episodes: 3, Won: 1, Lost: 1, Aborted: 1, MeanScore: &mean},
		{Experiment: "magic-only_easy", Episodes: 1, Aborted: 1},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[1], "0.250") || !strings.HasSuffix(lines[2], "n/a") {
		t.Errorf("rows = %q", lines[1:])
	}
}

func TestInstances(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{Out: &out}
	c.Instances(&instance.Set{Seed: 9, Experiments: []instance.Experiment{
		{Name: "balanced_easy", Instances: []types.Instance{testInstance()}},
	}})
	text := out.String()
	if !strings.Contains(text, "[Seed 9, 1 experiments]") || !strings.Contains(text, "A:A1 B:B2 boss:A2") {
		t.Errorf("output:\n%s", text)
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(score.Report{Score: math.NaN()}); got != "n/a" {
		t.Errorf("NaN score = %q", got)
	}
	if got := FormatScore(score.Report{Score: 0.5}); got != "0.500" {
		t.Errorf("score = %q", got)
	}
}
