// Package events records the transcript: every message sent to or received
// from a participant and every validation outcome, in order.
package events

import (
	"github.com/nathoo/bossfight/types"
)

// Action types.
const (
	TypeSendMessage = "send message"
	TypeGetMessage  = "get message"
	TypeError       = "error"
	TypeInfo        = "info"
)

// Outcome contents beyond the validator's violation words.
const (
	ValidMove    = "valid move"
	BadMove      = "bad move"
	BossDefeated = "boss defeated"
	FailedPrefix = "game failed due to: "
)

// GM is the sender of every prompt and the author of every verdict.
const GM = "GM"

// Sink receives each event as it is recorded.
type Sink func(types.Event)

// Recorder accumulates the transcript for one scenario.
type Recorder struct {
	round  int
	events []types.Event
	sinks  []Sink
}

// NewRecorder creates an empty recorder that also forwards to sinks.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks}
}

// SetRound stamps subsequent events with round n.
func (r *Recorder) SetRound(n int) {
	r.round = n
}

// Send records a prompt from the game master to a participant.
func (r *Recorder) Send(to, content string) {
	r.add(GM, to, types.EventAction{Type: TypeSendMessage, Content: content}, nil)
}

// Receive records a participant's reply together with the prompt it
// answered.
func (r *Recorder) Receive(from, prompt, raw string) {
	r.add(from, GM, types.EventAction{Type: TypeGetMessage, Content: raw},
		&types.Call{Prompt: prompt, RawResponse: raw})
}

// Error records a failed check about participant.
func (r *Recorder) Error(participant, content string) {
	r.add(GM, participant, types.EventAction{Type: TypeError, Content: content}, nil)
}

// Info records a passed check or a milestone about participant.
func (r *Recorder) Info(participant, content string) {
	r.add(GM, participant, types.EventAction{Type: TypeInfo, Content: content}, nil)
}

// Failed records the reason the scenario was aborted.
func (r *Recorder) Failed(reason string) {
	r.add(GM, GM, types.EventAction{Type: TypeError, Content: FailedPrefix + reason}, nil)
}

// Events returns a copy of the transcript so far.
func (r *Recorder) Events() []types.Event {
	return append([]types.Event(nil), r.events...)
}

func (r *Recorder) add(from, to string, action types.EventAction, call *types.Call) {
	e := types.Event{Round: r.round, From: from, To: to, Action: action, Call: call}
	r.events = append(r.events, e)
	for _, s := range r.sinks {
		s(e)
	}
}
