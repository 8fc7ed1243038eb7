// Package save implements JSON serialization of finished episodes.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/score"
	"github.com/nathoo/bossfight/types"
)

// Version is the transcript format written by Save.
const Version = "1"

// Transcript is the JSON-serializable record of one episode.
type Transcript struct {
	Version     string         `json:"version"`
	Instance    types.Instance `json:"instance"`
	RNGSeed     int64          `json:"rng_seed"`
	RNGPosition int64          `json:"rng_position"`
	Outcome     types.Phase    `json:"outcome"`
	AbortReason string         `json:"abort_reason,omitempty"`
	Summary     score.Summary  `json:"summary"`
	Counts      score.Counts   `json:"counts"`
	Score       *float64       `json:"score"` // null when aborted
	Rounds      []engine.Round `json:"rounds"`
	Events      []types.Event  `json:"events"`
}

// FromEngine captures the engine's episode as it stands.
func FromEngine(e *engine.Engine) *Transcript {
	rep := e.Report()
	t := &Transcript{
		Version:     Version,
		Instance:    e.Instance,
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
		Outcome:     e.State.Phase,
		AbortReason: e.State.AbortReason,
		Summary:     e.Summary(),
		Counts:      rep.Totals,
		Rounds:      e.Rounds,
		Events:      e.Events(),
	}
	if rep.Defined() {
		v := rep.Score
		t.Score = &v
	}
	return t
}

// Report rescores the saved events. Scoring is deterministic, so this
// matches what the engine reported when the episode ended.
func (t *Transcript) Report() score.Report {
	return score.Compute(t.Events, t.Summary)
}

// Save serializes a transcript to JSON bytes.
func Save(t *Transcript) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Load deserializes JSON bytes into a Transcript.
func Load(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Version != Version {
		return nil, fmt.Errorf("unsupported transcript version %q (want %q)", t.Version, Version)
	}
	// Ensure slices are never nil after load.
	if t.Rounds == nil {
		t.Rounds = []engine.Round{}
	}
	if t.Events == nil {
		t.Events = []types.Event{}
	}
	return &t, nil
}

// WriteFile saves t under dir as <experiment>_game_<id>.json, creating dir if needed,
// and returns the written path.
func WriteFile(dir string, t *Transcript) (string, error) {
	data, err := Save(t)
	if err != nil {
		return "", fmt.Errorf("encoding transcript: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s_game_%d.json", t.Instance.Experiment, t.Instance.ID)
	if t.Instance.Experiment == "" {
		name = fmt.Sprintf("game_%d.json", t.Instance.ID)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

// ReadFile loads a transcript from path.
func ReadFile(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	t, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}
