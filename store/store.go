// Package store keeps finished episodes in SQLite for the scoreboard.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nathoo/bossfight/engine/save"
	"github.com/nathoo/bossfight/store/migrations"
	_ "modernc.org/sqlite"
)

// Episode is one stored run.
type Episode struct {
	ID               string
	Experiment       string
	GameID           int
	Outcome          string
	AbortReason      string
	MaxRounds        int
	PlayedRounds     int
	CompletedRounds  int
	Reprompts        int
	FormatViolations int
	RuleViolations   int
	ValidMoves       int
	SuboptimalMoves  int
	Score            *float64 // nil when aborted
	Transcript       []byte
	CreatedAt        time.Time
}

// Standing aggregates the episodes of one experiment.
type Standing struct {
	Experiment string
	Episodes   int
	Won        int
	Lost       int
	Aborted    int
	MeanScore  *float64 // over scored episodes; nil when none
}

// NotFoundError indicates an episode ID the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("episode %q not found", e.ID)
}

// Store persists episodes in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path, creating it if needed, and applies
// the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FromTranscript flattens a transcript into an episode row.
func FromTranscript(t *save.Transcript) (Episode, error) {
	data, err := save.Save(t)
	if err != nil {
		return Episode{}, fmt.Errorf("encoding transcript: %w", err)
	}
	return Episode{
		Experiment:       t.Instance.Experiment,
		GameID:           t.Instance.ID,
		Outcome:          string(t.Outcome),
		AbortReason:      t.AbortReason,
		MaxRounds:        t.Summary.MaxRounds,
		PlayedRounds:     t.Summary.PlayedRounds,
		CompletedRounds:  t.Summary.CompletedRounds,
		Reprompts:        t.Summary.Reprompts,
		FormatViolations: t.Counts.FormatViolations,
		RuleViolations:   t.Counts.RuleViolations,
		ValidMoves:       t.Counts.ValidMoves,
		SuboptimalMoves:  t.Counts.SuboptimalMoves,
		Score:            t.Score,
		Transcript:       data,
	}, nil
}

// SaveEpisode inserts ep under a fresh ID and returns it.
func (s *Store) SaveEpisode(ctx context.Context, ep Episode) (string, error) {
	if ep.Outcome == "" {
		return "", errors.New("episode outcome is required")
	}
	if !json.Valid(ep.Transcript) {
		return "", errors.New("episode transcript must be JSON")
	}
	ep.ID = uuid.NewString()
	if ep.CreatedAt.IsZero() {
		ep.CreatedAt = s.now()
	}

	var score sql.NullFloat64
	if ep.Score != nil {
		score = sql.NullFloat64{Float64: *ep.Score, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (
		   id, experiment, game_id, outcome, abort_reason,
		   max_rounds, played_rounds, completed_rounds, reprompts,
		   format_violations, rule_violations, valid_moves, suboptimal_moves,
		   score, transcript, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ep.ID, ep.Experiment, ep.GameID, ep.Outcome, ep.AbortReason,
		ep.MaxRounds, ep.PlayedRounds, ep.CompletedRounds, ep.Reprompts,
		ep.FormatViolations, ep.RuleViolations, ep.ValidMoves, ep.SuboptimalMoves,
		score, ep.Transcript, ep.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert episode: %w", err)
	}
	return ep.ID, nil
}

const episodeColumns = `id, experiment, game_id, outcome, abort_reason,
	max_rounds, played_rounds, completed_rounds, reprompts,
	format_violations, rule_violations, valid_moves, suboptimal_moves,
	score, transcript, created_at`

// Episode returns one stored episode.
func (s *Store) Episode(ctx context.Context, id string) (Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	ep, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Episode{}, &NotFoundError{ID: id}
	}
	return ep, err
}

// ListEpisodes returns stored episodes, oldest first. An empty experiment
// lists every experiment.
func (s *Store) ListEpisodes(ctx context.Context, experiment string) ([]Episode, error) {
	q := `SELECT ` + episodeColumns + ` FROM episodes`
	var args []any
	if experiment != "" {
		q += ` WHERE experiment = ?`
		args = append(args, experiment)
	}
	q += ` ORDER BY created_at, experiment, game_id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// Scoreboard aggregates outcomes per experiment, sorted by name.
func (s *Store) Scoreboard(ctx context.Context) ([]Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT experiment,
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = 'aborted' THEN 1 ELSE 0 END),
		       AVG(score)
		  FROM episodes
		 GROUP BY experiment
		 ORDER BY experiment`)
	if err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		var mean sql.NullFloat64
		if err := rows.Scan(&st.Experiment, &st.Episodes, &st.Won, &st.Lost, &st.Aborted, &mean); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		if mean.Valid {
			v := mean.Float64
			st.MeanScore = &v
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(sc scanner) (Episode, error) {
	var ep Episode
	var score sql.NullFloat64
	var created int64
	err := sc.Scan(&ep.ID, &ep.Experiment, &ep.GameID, &ep.Outcome, &ep.AbortReason,
		&ep.MaxRounds, &ep.PlayedRounds, &ep.CompletedRounds, &ep.Reprompts,
		&ep.FormatViolations, &ep.RuleViolations, &ep.ValidMoves, &ep.SuboptimalMoves,
		&score, &ep.Transcript, &created)
	if err != nil {
		return Episode{}, err
	}
	if score.Valid {
		v := score.Float64
		ep.Score = &v
	}
	ep.CreatedAt = time.UnixMilli(created).UTC()
	return ep, nil
}
