package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathoo/bossfight/engine/save"
	"github.com/nathoo/bossfight/engine/score"
	"github.com/nathoo/bossfight/types"
)

func openTest(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episodes.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, path
}

func transcript(experiment string, id int, outcome types.Phase, sc *float64) *save.Transcript {
	return &save.Transcript{
		Version:  save.Version,
		Instance: types.Instance{ID: id, Experiment: experiment},
		Outcome:  outcome,
		Summary:  score.Summary{MaxRounds: 15, PlayedRounds: 6, CompletedRounds: 6, Reprompts: 2},
		Counts:   score.Counts{FormatViolations: 1, RuleViolations: 1, ValidMoves: 18, SuboptimalMoves: 3},
		Score:    sc,
	}
}

func ptr(f float64) *float64 { return &f }

func mustSave(t *testing.T, s *Store, tr *save.Transcript) string {
	t.Helper()
	ep, err := FromTranscript(tr)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.SaveEpisode(context.Background(), ep)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestSaveAndGet(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()

	id := mustSave(t, s, transcript("balanced_easy", 4, types.PhaseWon, ptr(0.25)))
	ep, err := s.Episode(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if ep.Experiment != "balanced_easy" || ep.GameID != 4 || ep.Outcome != "won" {
		t.Errorf("episode = %+v", ep)
	}
	if ep.Reprompts != 2 || ep.SuboptimalMoves != 3 || ep.Score == nil || *ep.Score != 0.25 {
		t.Errorf("counters = %+v, score %v", ep, ep.Score)
	}
	got, err := save.Load(ep.Transcript)
	if err != nil || got.Instance.ID != 4 {
		t.Errorf("stored transcript did not load: %v", err)
	}

	var nf *NotFoundError
	if _, err := s.Episode(ctx, "missing"); !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestSaveEpisode_Rejects(t *testing.T) {
	s, _ := openTest(t)
	tests := []struct {
		name string
		ep   Episode
	}{
		{"no outcome", Episode{Transcript: []byte("{}")}},
		{"bad transcript", Episode{Outcome: "won", Transcript: []byte("{")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.SaveEpisode(context.Background(), tt.ep); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestListAndScoreboard(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	mustSave(t, s, transcript("magic-only_hard", 0, types.PhaseWon, ptr(0.2)))
	mustSave(t, s, transcript("magic-only_hard", 1, types.PhaseWon, ptr(0.4)))
	mustSave(t, s, transcript("magic-only_hard", 2, types.PhaseAborted, nil))
	mustSave(t, s, transcript("balanced_easy", 0, types.PhaseLost, ptr(0)))

	all, err := s.ListEpisodes(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].GameID != 0 || all[2].Outcome != "aborted" {
		t.Errorf("list = %+v", all)
	}
	if all[2].Score != nil {
		t.Error("aborted episode should have no score")
	}
	hard, err := s.ListEpisodes(ctx, "magic-only_hard")
	if err != nil || len(hard) != 3 {
		t.Fatalf("filtered list: %d, %v", len(hard), err)
	}

	board, err := s.Scoreboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != 2 {
		t.Fatalf("standings = %+v", board)
	}
	easy, mh := board[0], board[1]
	if easy.Experiment != "balanced_easy" || easy.Lost != 1 || *easy.MeanScore != 0 {
		t.Errorf("easy = %+v", easy)
	}
	if mh.Episodes != 3 || mh.Won != 2 || mh.Aborted != 1 {
		t.Errorf("hard = %+v", mh)
	}
	if mh.MeanScore == nil || math.Abs(*mh.MeanScore-0.3) > 1e-9 {
		t.Errorf("hard mean = %v, want 0.3 over scored episodes", mh.MeanScore)
	}
}

func TestOpen_Reopen(t *testing.T) {
	s, path := openTest(t)
	mustSave(t, s, transcript("melee-only_legendary", 9, types.PhaseLost, ptr(0)))
	s.Close()

	again, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen should skip applied migrations: %v", err)
	}
	defer again.Close()
	eps, err := again.ListEpisodes(context.Background(), "")
	if err != nil || len(eps) != 1 {
		t.Errorf("episodes after reopen = %d, %v", len(eps), err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Error("expected error")
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;")
	if got != "\nCREATE TABLE a (x);\n" {
		t.Errorf("got %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Error("file without markers is applied whole")
	}
}
