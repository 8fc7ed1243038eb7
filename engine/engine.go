// Package engine drives a scenario from setup to a final phase, one round
// per Step, and keeps the transcript the episode produced.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/prompt"
	"github.com/nathoo/bossfight/engine/resolve"
	"github.com/nathoo/bossfight/engine/score"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// ErrFinished is returned by Step once the scenario is in a final phase.
var ErrFinished = errors.New("scenario already finished")

// Options configures an Engine. Zero values pick the defaults.
type Options struct {
	Prompts *prompt.Set
	Logger  *slog.Logger
	Sinks   []events.Sink
}

// Standing is one participant's position and resources after a round.
type Standing struct {
	ID         string `json:"id"`
	Pos        string `json:"pos"`
	HP         int    `json:"hp"`
	SpellSlots int    `json:"spell_slots"`
}

// Round is everything one played round left behind.
type Round struct {
	Number   int            `json:"round"`
	Result   resolve.Result `json:"result"`
	Standing []Standing     `json:"standing"`
	Potions  int            `json:"potions"`
}

// Engine holds one scenario and its transcript.
type Engine struct {
	Instance types.Instance
	State    *types.Scenario
	RNG      *RNG
	Rounds   []Round

	rec     *events.Recorder
	prompts *prompt.Set
	log     *slog.Logger
}

// New creates an engine for inst. The RNG is seeded from the instance so
// scripted or autopilot participants replay identically.
func New(inst types.Instance, opts Options) (*Engine, error) {
	s, err := state.New(inst)
	if err != nil {
		return nil, err
	}
	prompts := opts.Prompts
	if prompts == nil {
		if prompts, err = prompt.Default(); err != nil {
			return nil, fmt.Errorf("loading prompts: %w", err)
		}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		Instance: inst,
		State:    s,
		RNG:      NewRNG(inst.Seed),
		rec:      events.NewRecorder(opts.Sinks...),
		prompts:  prompts,
		log:      log.With("game_id", inst.ID, "experiment", inst.Experiment),
	}, nil
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Step plays the next round with gen answering for every participant.
// It reports whether the scenario has reached a final phase. A non-nil
// error means the round could not be played to the end; the scenario is
// then aborted.
func (e *Engine) Step(ctx context.Context, gen resolve.Generator) (bool, error) {
	s := e.State
	if state.Terminal(s) {
		return true, ErrFinished
	}
	if e.settle() {
		return true, nil
	}

	s.Round++
	if s.Round > s.MaxRounds {
		e.finish(types.PhaseLost, "round limit reached")
		return true, nil
	}
	s.Phase = types.PhaseRound
	e.log.Debug("round start", "round", s.Round)

	res, err := resolve.New(gen, e.prompts, e.rec, e.log).Round(ctx, s)
	s.PlayedRounds++
	if s.Phase != types.PhaseAborted {
		s.CompletedRounds++
	}
	e.Rounds = append(e.Rounds, e.snapshot(res))
	if err != nil {
		return true, err
	}
	if s.Phase == types.PhaseAborted {
		return true, nil
	}
	return e.settle(), nil
}

// Play runs rounds until the scenario ends and returns its final phase.
func (e *Engine) Play(ctx context.Context, gen resolve.Generator) (types.Phase, error) {
	for {
		done, err := e.Step(ctx, gen)
		if err != nil {
			return e.State.Phase, err
		}
		if done {
			return e.State.Phase, nil
		}
	}
}

// Events returns the transcript recorded so far.
func (e *Engine) Events() []types.Event {
	return e.rec.Events()
}

// Summary returns the counters the scorer needs.
func (e *Engine) Summary() score.Summary {
	s := e.State
	return score.Summary{
		MaxRounds:       s.MaxRounds,
		PlayedRounds:    s.PlayedRounds,
		CompletedRounds: s.CompletedRounds,
		Reprompts:       s.Reprompts,
		Aborted:         s.Phase == types.PhaseAborted,
		Won:             s.Phase == types.PhaseWon,
		Lost:            s.Phase == types.PhaseLost,
	}
}

// Report scores the episode.
func (e *Engine) Report() score.Report {
	return score.Compute(e.Events(), e.Summary())
}

// settle moves the scenario to Won or Lost when the board decides it.
func (e *Engine) settle() bool {
	s := e.State
	switch {
	case state.Boss(s).HP == 0:
		e.finish(types.PhaseWon, "boss defeated")
	case state.AllDown(s):
		e.finish(types.PhaseLost, "both adventurers down")
	default:
		return false
	}
	return true
}

func (e *Engine) finish(phase types.Phase, why string) {
	e.State.Phase = phase
	e.log.Info("scenario finished", "phase", phase, "reason", why,
		"played_rounds", e.State.PlayedRounds, "reprompts", e.State.Reprompts)
}

func (e *Engine) snapshot(res resolve.Result) Round {
	s := e.State
	return Round{Number: s.Round, Result: res, Standing: Standings(s), Potions: s.Potions}
}

// Standings lists every participant's position and resources in turn order.
func Standings(s *types.Scenario) []Standing {
	out := make([]Standing, 0, len(s.Participants))
	for _, p := range s.Participants {
		out = append(out, Standing{
			ID:         p.ID,
			Pos:        grid.Label(p.Pos),
			HP:         p.HP,
			SpellSlots: p.SpellSlots,
		})
	}
	return out
}
