// Package resolve runs one round: it prompts each participant in turn,
// validates the reply, re-prompts once on a bad reply, and applies the
// round's effects once everyone has acted.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/bossfight/engine/effects"
	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/prompt"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/engine/validate"
	"github.com/nathoo/bossfight/types"
)

// MaxAttempts is the number of replies a participant gets per round.
const MaxAttempts = 2

// HandshakeRound is reserved for role confirmation; combat starts after it.
const HandshakeRound = 1

// Generator produces a participant's reply to the latest prompt in its
// history. Implementations may call a model or return scripted text.
type Generator interface {
	Respond(ctx context.Context, req types.Request) (string, error)
}

// Flag is a legal move the quality check found wanting.
type Flag struct {
	Participant string   `json:"participant"`
	Notes       []string `json:"notes"`
}

// Result is what one round produced.
type Result struct {
	Records []types.ActionRecord `json:"records"`
	Flags   []Flag               `json:"flags,omitempty"`
	Changes []effects.Change     `json:"changes,omitempty"`
	Skipped []string             `json:"skipped,omitempty"` // adventurers down at 0 HP
}

// Resolver drives rounds for one scenario.
type Resolver struct {
	gen     Generator
	prompts *prompt.Set
	rec     *events.Recorder
	log     *slog.Logger
}

// New creates a Resolver. A nil logger means slog.Default().
func New(gen Generator, prompts *prompt.Set, rec *events.Recorder, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{gen: gen, prompts: prompts, rec: rec, log: log}
}

// Round plays s.Round for every participant in turn order. A participant
// that fails twice aborts the scenario and the round stops there. The
// returned error is non-nil only for failures outside the game rules:
// cancellation, generator or template errors. Those abort the scenario too.
func (r *Resolver) Round(ctx context.Context, s *types.Scenario) (Result, error) {
	var res Result
	r.rec.SetRound(s.Round)

	for i := range s.Participants {
		p := &s.Participants[i]
		if s.Phase == types.PhaseAborted {
			break
		}
		if err := ctx.Err(); err != nil {
			r.abort(s, "cancelled: "+err.Error())
			return res, err
		}
		if p.Role == types.RoleAdventurer && p.HP == 0 {
			res.Skipped = append(res.Skipped, p.ID)
			continue
		}

		base, err := r.basePrompt(s, p)
		if err != nil {
			r.abort(s, err.Error())
			return res, err
		}
		vr, ok, err := r.turn(ctx, s, p, base)
		if err != nil {
			r.abort(s, fmt.Sprintf("%s could not respond: %v", p.Label, err))
			return res, err
		}
		if !ok {
			r.abort(s, fmt.Sprintf("%s gave %d invalid responses in round %d", p.Label, MaxAttempts, s.Round))
			break
		}
		if s.Round == HandshakeRound {
			continue
		}
		res.Records = append(res.Records, vr.Record)
		if vr.Suboptimal {
			res.Flags = append(res.Flags, Flag{Participant: p.ID, Notes: vr.Notes})
		}
	}

	if s.Phase == types.PhaseAborted || s.Round == HandshakeRound {
		return res, nil
	}

	res.Changes = effects.Apply(s, res.Records)
	s.LastRound = res.Records
	for _, c := range res.Changes {
		r.log.Debug("effect", "round", s.Round, "kind", c.Kind, "target", c.Target,
			"amount", c.Amount, "applied", c.Applied, "hp", c.After)
	}
	if boss := state.Boss(s); boss.HP == 0 {
		r.rec.Info(boss.Label, events.BossDefeated)
	}
	return res, nil
}

// turn runs the bounded request/validate loop for one participant.
func (r *Resolver) turn(ctx context.Context, s *types.Scenario, p *types.Participant, base string) (validate.Result, bool, error) {
	msg := base
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := ctx.Err(); err != nil {
				return validate.Result{}, false, err
			}
		}
		p.History = append(p.History, types.Message{Role: "user", Content: msg})
		r.rec.Send(p.Label, msg)

		raw, err := r.gen.Respond(ctx, types.Request{
			Participant: p.ID,
			Round:       s.Round,
			History:     append([]types.Message(nil), p.History...),
			View:        state.View(s, p.ID),
		})
		if err != nil {
			return validate.Result{}, false, err
		}
		p.History = append(p.History, types.Message{Role: "assistant", Content: raw})
		r.rec.Receive(p.Label, msg, raw)

		vr, err := r.check(s, p, raw)
		if err == nil {
			r.rec.Info(p.Label, events.ValidMove)
			if vr.Suboptimal {
				r.rec.Info(p.Label, events.BadMove)
			}
			return vr, true, nil
		}

		var v *validate.Violation
		if !errors.As(err, &v) {
			return validate.Result{}, false, err
		}
		r.rec.Error(p.Label, v.Kind.EventContent())
		r.log.Info("invalid response", "round", s.Round, "participant", p.ID,
			"kind", v.Kind, "attempt", attempt)

		if attempt == MaxAttempts {
			break
		}
		s.Reprompts++
		msg, err = r.prompts.Render(prompt.Reprompt, map[string]string{
			"error":  v.Message,
			"prompt": base,
		})
		if err != nil {
			return validate.Result{}, false, err
		}
	}
	return validate.Result{}, false, nil
}

func (r *Resolver) check(s *types.Scenario, p *types.Participant, raw string) (validate.Result, error) {
	if s.Round == HandshakeRound {
		return validate.Result{}, validate.ValidateHandshake(p, raw)
	}
	return validate.Validate(s, p.ID, raw)
}

func (r *Resolver) abort(s *types.Scenario, reason string) {
	s.Phase = types.PhaseAborted
	s.AbortReason = reason
	r.rec.Failed(reason)
	r.log.Warn("scenario aborted", "round", s.Round, "reason", reason)
}
