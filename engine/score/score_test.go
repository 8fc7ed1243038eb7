package score

import (
	"math"
	"testing"

	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

func ev(round int, to, typ, content string) types.Event {
	return types.Event{Round: round, From: events.GM, To: to,
		Action: types.EventAction{Type: typ, Content: content}}
}

// A short transcript: a handshake, one retry, one flagged adventurer move.
func transcript() []types.Event {
	return []types.Event{
		ev(1, state.LabelPlayerA, events.TypeInfo, events.ValidMove),
		ev(1, state.LabelPlayerB, events.TypeError, "invalid format"),
		ev(1, state.LabelPlayerB, events.TypeInfo, events.ValidMove),
		ev(1, state.LabelDM, events.TypeInfo, events.ValidMove),
		ev(2, state.LabelPlayerA, events.TypeError, "invalid move"),
		ev(2, state.LabelPlayerA, events.TypeInfo, events.ValidMove),
		ev(2, state.LabelPlayerB, events.TypeInfo, events.ValidMove),
		ev(2, state.LabelPlayerB, events.TypeInfo, events.BadMove),
		ev(2, state.LabelDM, events.TypeError, "invalid target"),
		ev(2, state.LabelDM, events.TypeInfo, events.ValidMove),
		ev(3, state.LabelPlayerA, events.TypeInfo, events.ValidMove),
		ev(3, state.LabelPlayerB, events.TypeInfo, events.ValidMove),
		ev(3, state.LabelDM, events.TypeInfo, events.ValidMove),
	}
}

func TestCompute_Counts(t *testing.T) {
	rep := Compute(transcript(), Summary{MaxRounds: 15, PlayedRounds: 3, Lost: true})

	if len(rep.Rounds) != 3 {
		t.Fatalf("rounds = %d, want 3", len(rep.Rounds))
	}
	want := Counts{FormatViolations: 1, RuleViolations: 2, ValidMoves: 9, SuboptimalMoves: 1}
	if rep.Totals != want {
		t.Errorf("totals = %+v, want %+v", rep.Totals, want)
	}
	r2 := rep.Rounds[1]
	if r2.Round != 2 || r2.RuleViolations != 2 || r2.SuboptimalMoves != 1 {
		t.Errorf("round 2 = %+v", r2)
	}
}

func TestCompute_Outcomes(t *testing.T) {
	evs := transcript()
	tests := []struct {
		name    string
		sum     Summary
		defined bool
		success bool
		score   float64
	}{
		{"aborted", Summary{MaxRounds: 15, PlayedRounds: 3, Aborted: true}, false, false, 0},
		{"lost", Summary{MaxRounds: 15, PlayedRounds: 15, Lost: true}, true, false, 0},
		// speed 0.8, quality 1 - 1/4 = 0.75, H = 1.2/1.55.
		{"won", Summary{MaxRounds: 15, PlayedRounds: 3, Won: true}, true, true, 1 - 1.2/1.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Compute(evs, tt.sum)
			if rep.Defined() != tt.defined {
				t.Fatalf("defined = %v, want %v", rep.Defined(), tt.defined)
			}
			if rep.Success != tt.success {
				t.Errorf("success = %v", rep.Success)
			}
			if tt.defined && math.Abs(rep.Score-tt.score) > 1e-9 {
				t.Errorf("score = %v, want %v", rep.Score, tt.score)
			}
		})
	}
}

func TestCompute_NoCombatMovesMeansFullQuality(t *testing.T) {
	rep := Compute(nil, Summary{MaxRounds: 10, PlayedRounds: 5, Won: true})
	if rep.Quality != 1 {
		t.Errorf("quality = %v, want 1", rep.Quality)
	}
	// speed 0.5, quality 1, H = 2/3.
	if math.Abs(rep.Score-1.0/3.0) > 1e-9 {
		t.Errorf("score = %v", rep.Score)
	}
}

func TestCompute_IgnoresAbortNotice(t *testing.T) {
	evs := []types.Event{ev(2, events.GM, events.TypeError, events.FailedPrefix+"too many errors")}
	rep := Compute(evs, Summary{Aborted: true})
	if rep.Totals.RuleViolations != 0 || rep.Totals.FormatViolations != 0 {
		t.Errorf("abort notice counted as a violation: %+v", rep.Totals)
	}
}
