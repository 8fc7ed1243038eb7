package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/prompt"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// script replies to each participant with its next canned line.
type script struct {
	replies map[string][]string
	calls   map[string]int
	err     error
}

func newScript(replies map[string][]string) *script {
	return &script{replies: replies, calls: map[string]int{}}
}

func (g *script) Respond(_ context.Context, req types.Request) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	i := g.calls[req.Participant]
	g.calls[req.Participant]++
	r := g.replies[req.Participant]
	if i >= len(r) {
		return "", fmt.Errorf("script for %s exhausted", req.Participant)
	}
	return r[i], nil
}

// testScenario: fighter (AC 9) in A1, cleric in A2, boss (40 HP, AC 8) in B1.
func testScenario(t *testing.T, round int) *types.Scenario {
	t.Helper()
	s, err := state.New(types.Instance{
		SheetA: types.Sheet{
			ClassName: "Fighter", Stamina: 3, HitPoints: 30, ArmorClass: 9,
			Actions: []types.ActionDef{
				{Name: "Attack: Longsword", Dice: "2d8", Type: "Slashing", Condition: types.CondAdjacency},
			},
		},
		SheetB: types.Sheet{
			ClassName: "Cleric", Stamina: 3, HitPoints: 24, ArmorClass: 12, SpellSlots: 2,
			Actions: []types.ActionDef{
				{Name: "Spell: Healing Word", Dice: "2d8", Type: "Healing", Condition: types.CondSpellSlot},
			},
		},
		BossSheet: types.Sheet{
			ClassName: "Boss", Stamina: 3, HitPoints: 40, ArmorClass: 8, Resistance: "Ice",
			Actions: []types.ActionDef{
				{Name: "Attack: Fire Breath", Dice: "2d6", Type: "Fire", Condition: types.CondNone},
			},
		},
		Dungeon: types.LayoutLabels{PlayerA: "A1", PlayerB: "A2", Boss: "B1", Blocked: [2]string{"D4", "E1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Phase = types.PhaseRound
	s.Round = round
	return s
}

func newResolver(t *testing.T, gen Generator) (*Resolver, *events.Recorder) {
	t.Helper()
	prompts, err := prompt.Default()
	if err != nil {
		t.Fatal(err)
	}
	rec := events.NewRecorder()
	return New(gen, prompts, rec, nil), rec
}

const (
	fighterHits = "MOVE: stay\nACTION: Attack: Longsword\nTARGET: boss in B1\nROLL: 10"
	clericHeals = "MOVE: stay\nACTION: Spell: Healing Word\nTARGET: player a in A1\nROLL: 5"
	bossBreath  = "MOVE: stay\nACTION: Attack: Fire Breath\nTARGET: player a in A1\nROLL: 6"
)

func contents(evs []types.Event, typ string) []string {
	var out []string
	for _, e := range evs {
		if e.Action.Type == typ {
			out = append(out, e.Action.Content)
		}
	}
	return out
}

func TestRound_Handshake(t *testing.T) {
	s := testScenario(t, 1)
	gen := newScript(map[string][]string{
		types.PlayerA: {"Fighter"},
		types.PlayerB: {"cleric."},
		types.Boss:    {"Dungeon Master"},
	})
	r, rec := newResolver(t, gen)

	res, err := r.Round(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase == types.PhaseAborted {
		t.Fatalf("aborted: %s", s.AbortReason)
	}
	if len(res.Records) != 0 {
		t.Error("handshake round produces no action records")
	}
	if got := contents(rec.Events(), events.TypeInfo); len(got) != 3 {
		t.Errorf("info events = %v, want three valid moves", got)
	}
	if !strings.Contains(state.Get(s, types.PlayerA).History[0].Content, "Fighter") {
		t.Error("adventurer intro should name the class")
	}
}

// Boss loses 10 (attack meets AC 8); boss roll 6 misses the fighter's AC 9.
func TestRound_CombatEffects(t *testing.T) {
	s := testScenario(t, 2)
	gen := newScript(map[string][]string{
		types.PlayerA: {fighterHits},
		types.PlayerB: {clericHeals},
		types.Boss:    {bossBreath},
	})
	r, _ := newResolver(t, gen)

	res, err := r.Round(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(res.Records))
	}
	if hp := state.Boss(s).HP; hp != 30 {
		t.Errorf("boss HP = %d, want 30", hp)
	}
	if hp := state.Get(s, types.PlayerA).HP; hp != 30 {
		t.Errorf("fighter HP = %d, want 30", hp)
	}
	if len(s.LastRound) != 3 {
		t.Error("LastRound not stored for the next prompt")
	}
	// Healing a full-health ally is flagged.
	if len(res.Flags) != 1 || res.Flags[0].Participant != types.PlayerB {
		t.Errorf("flags = %+v", res.Flags)
	}
}

func TestRound_RetryThenValid(t *testing.T) {
	s := testScenario(t, 2)
	gen := newScript(map[string][]string{
		types.PlayerA: {"MOVE: stay\nACTION: Attack: Longsword\nTARGET: boss in B1\nROLL: 20", fighterHits},
		types.PlayerB: {clericHeals},
		types.Boss:    {bossBreath},
	})
	r, rec := newResolver(t, gen)

	if _, err := r.Round(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if s.Phase == types.PhaseAborted {
		t.Fatalf("aborted: %s", s.AbortReason)
	}
	if s.Reprompts != 1 {
		t.Errorf("reprompts = %d, want 1", s.Reprompts)
	}

	hist := state.Get(s, types.PlayerA).History
	if len(hist) != 4 {
		t.Fatalf("history length = %d, want 4", len(hist))
	}
	if !strings.Contains(hist[2].Content, "impossible") {
		t.Errorf("retry prompt should carry the correction: %q", hist[2].Content)
	}
	if got := contents(rec.Events(), events.TypeError); len(got) != 1 || got[0] != "invalid move" {
		t.Errorf("error events = %v", got)
	}
}

func TestRound_DoubleFailureAborts(t *testing.T) {
	s := testScenario(t, 2)
	gen := newScript(map[string][]string{
		types.PlayerA: {"attack!", "MOVE: stay"},
		types.PlayerB: {clericHeals},
		types.Boss:    {bossBreath},
	})
	r, rec := newResolver(t, gen)

	res, err := r.Round(context.Background(), s)
	if err != nil {
		t.Fatalf("rule failures are not Go errors: %v", err)
	}
	if s.Phase != types.PhaseAborted {
		t.Fatal("expected abort after two invalid replies")
	}
	if gen.calls[types.PlayerB] != 0 || gen.calls[types.Boss] != 0 {
		t.Error("round should stop at the failing participant")
	}
	if len(res.Changes) != 0 || state.Boss(s).HP != 40 {
		t.Error("no effects apply in an aborted round")
	}
	errs := contents(rec.Events(), events.TypeError)
	if last := errs[len(errs)-1]; !strings.HasPrefix(last, events.FailedPrefix) {
		t.Errorf("last error = %q", last)
	}
	if s.Reprompts != 1 {
		t.Errorf("reprompts = %d, want 1", s.Reprompts)
	}
}

func TestRound_HandshakeMismatchAborts(t *testing.T) {
	s := testScenario(t, 1)
	gen := newScript(map[string][]string{
		types.PlayerA: {"Wizard", "I am the Fighter"},
	})
	r, rec := newResolver(t, gen)

	if _, err := r.Round(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if s.Phase != types.PhaseAborted {
		t.Fatal("expected abort")
	}
	if got := contents(rec.Events(), events.TypeError); got[0] != "invalid format" {
		t.Errorf("error events = %v", got)
	}
}

func TestRound_SkipsFallenAdventurer(t *testing.T) {
	s := testScenario(t, 3)
	state.Get(s, types.PlayerA).HP = 0
	gen := newScript(map[string][]string{
		types.PlayerB: {"MOVE: stay\nACTION: do nothing\nTARGET: none"},
		types.Boss:    {"MOVE: stay\nACTION: Attack: Fire Breath\nTARGET: player b in A2\nROLL: 12"},
	})
	r, _ := newResolver(t, gen)

	res, err := r.Round(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls[types.PlayerA] != 0 {
		t.Error("a fallen adventurer should not be prompted")
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != types.PlayerA {
		t.Errorf("skipped = %v", res.Skipped)
	}
	if hp := state.Get(s, types.PlayerB).HP; hp != 12 {
		t.Errorf("cleric HP = %d, want 12", hp)
	}
}

func TestRound_GeneratorErrorAborts(t *testing.T) {
	s := testScenario(t, 2)
	gen := newScript(nil)
	gen.err = errors.New("quota exceeded")
	r, _ := newResolver(t, gen)

	_, err := r.Round(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("err = %v", err)
	}
	if s.Phase != types.PhaseAborted || !strings.Contains(s.AbortReason, "quota") {
		t.Errorf("phase=%s reason=%q", s.Phase, s.AbortReason)
	}
}

func TestRound_Cancelled(t *testing.T) {
	s := testScenario(t, 2)
	r, _ := newResolver(t, newScript(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Round(ctx, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if s.Phase != types.PhaseAborted {
		t.Error("cancellation should abort")
	}
}

func TestPrompts_ByRound(t *testing.T) {
	s := testScenario(t, 2)
	r, _ := newResolver(t, newScript(nil))

	combat, err := r.basePrompt(s, state.Get(s, types.PlayerA))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(combat, "MOVE:") || !strings.Contains(combat, "Attack: Longsword") {
		t.Errorf("combat prompt missing rules or actions:\n%s", combat)
	}

	s.Round = 3
	s.LastRound = []types.ActionRecord{{Actor: types.PlayerA, Move: types.Coord{Row: 0, Col: 0}, Stayed: true,
		Action: "Attack: Longsword", Target: types.Boss, TargetPos: types.Coord{Row: 1, Col: 0}, Roll: 10}}
	next, err := r.basePrompt(s, state.Boss(s))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(next, "Round 3") || !strings.Contains(next, "player a stayed in A1 and used Attack: Longsword on boss in B1, rolling 10.") {
		t.Errorf("new turn prompt missing summary:\n%s", next)
	}
}
