// Package agent provides the participants' voices: canned scripts, a
// Gemini-backed model, and an autopilot that plays legal moves.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/bossfight/types"
	"gopkg.in/yaml.v3"
)

// ErrScriptExhausted is returned when a script has no reply left.
var ErrScriptExhausted = errors.New("script exhausted")

// Func adapts an ordinary function to a generator.
type Func func(ctx context.Context, req types.Request) (string, error)

// Respond calls f.
func (f Func) Respond(ctx context.Context, req types.Request) (string, error) {
	return f(ctx, req)
}

// Generator mirrors the engine's collaborator interface.
type Generator interface {
	Respond(ctx context.Context, req types.Request) (string, error)
}

// Split sends adventurer requests to one generator and boss requests to
// another.
type Split struct {
	Adventurers Generator
	Boss        Generator
}

// Respond routes req by participant.
func (s Split) Respond(ctx context.Context, req types.Request) (string, error) {
	if req.Participant == types.Boss {
		return s.Boss.Respond(ctx, req)
	}
	return s.Adventurers.Respond(ctx, req)
}

// Scripted replies with fixed lines per participant, in order.
type Scripted struct {
	lines map[string][]string
	next  map[string]int
}

// NewScripted creates a script keyed by participant ID
// ("player a", "player b", "boss").
func NewScripted(lines map[string][]string) *Scripted {
	return &Scripted{lines: lines, next: map[string]int{}}
}

// LoadScript reads a YAML script file: one list of replies per
// participant ID.
func LoadScript(path string) (*Scripted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	var lines map[string][]string
	if err := yaml.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	for id := range lines {
		switch id {
		case types.PlayerA, types.PlayerB, types.Boss:
		default:
			return nil, fmt.Errorf("script %s: unknown participant %q", path, id)
		}
	}
	return NewScripted(lines), nil
}

// Respond returns the participant's next line.
func (s *Scripted) Respond(_ context.Context, req types.Request) (string, error) {
	i := s.next[req.Participant]
	lines := s.lines[req.Participant]
	if i >= len(lines) {
		return "", fmt.Errorf("%s after %d replies: %w", req.Participant, len(lines), ErrScriptExhausted)
	}
	s.next[req.Participant]++
	return strings.TrimSpace(lines[i]), nil
}
