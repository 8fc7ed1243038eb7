// Package score derives an episode's outcome and composite score from its
// finished transcript. It only reads; the scenario is never touched.
package score

import (
	"math"
	"strings"

	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/engine/validate"
	"github.com/nathoo/bossfight/types"
)

// Summary carries the counters the engine keeps alongside the transcript.
type Summary struct {
	MaxRounds       int  `json:"max_rounds"`
	PlayedRounds    int  `json:"played_rounds"`
	CompletedRounds int  `json:"completed_rounds"`
	Reprompts       int  `json:"reprompts"`
	Aborted         bool `json:"aborted"`
	Won             bool `json:"won"`
	Lost            bool `json:"lost"`
}

// Counts tallies validation outcomes.
type Counts struct {
	Round            int `json:"round,omitempty"`
	FormatViolations int `json:"format_violations"`
	RuleViolations   int `json:"rule_violations"`
	ValidMoves       int `json:"valid_moves"`
	SuboptimalMoves  int `json:"suboptimal_moves"`
}

// Report is the scored episode.
type Report struct {
	Rounds  []Counts `json:"rounds"`
	Totals  Counts   `json:"totals"`
	Success bool     `json:"success"`
	Speed   float64  `json:"speed"`
	Quality float64  `json:"quality"`
	// Score is NaN when the episode was aborted.
	Score float64 `json:"-"`
}

// Defined reports whether the episode has a composite score.
func (r Report) Defined() bool {
	return !math.IsNaN(r.Score)
}

// Compute scores a transcript. Aborted episodes have no score, lost ones
// score 0. A win scores 1 - H(speed, quality), where H is the harmonic
// mean, speed = 1 - played/max and quality = 1 - suboptimal/valid over the
// adventurers' combat moves (1 when there were none).
func Compute(evs []types.Event, sum Summary) Report {
	var rep Report
	byRound := map[int]*Counts{}
	var order []int
	count := func(round int) *Counts {
		c, ok := byRound[round]
		if !ok {
			c = &Counts{Round: round}
			byRound[round] = c
			order = append(order, round)
		}
		return c
	}

	advValid, advSubopt := 0, 0
	for _, e := range evs {
		switch e.Action.Type {
		case events.TypeError:
			if strings.HasPrefix(e.Action.Content, events.FailedPrefix) {
				continue
			}
			c := count(e.Round)
			if e.Action.Content == validate.ContentInvalidFormat {
				c.FormatViolations++
			} else {
				c.RuleViolations++
			}
		case events.TypeInfo:
			adventurer := e.To == state.LabelPlayerA || e.To == state.LabelPlayerB
			switch e.Action.Content {
			case events.ValidMove:
				count(e.Round).ValidMoves++
				if adventurer && e.Round > 1 {
					advValid++
				}
			case events.BadMove:
				count(e.Round).SuboptimalMoves++
				if adventurer {
					advSubopt++
				}
			}
		}
	}

	for _, r := range order {
		c := *byRound[r]
		rep.Rounds = append(rep.Rounds, c)
		rep.Totals.FormatViolations += c.FormatViolations
		rep.Totals.RuleViolations += c.RuleViolations
		rep.Totals.ValidMoves += c.ValidMoves
		rep.Totals.SuboptimalMoves += c.SuboptimalMoves
	}

	switch {
	case sum.Aborted:
		rep.Score = math.NaN()
		return rep
	case !sum.Won:
		rep.Score = 0
		return rep
	}

	rep.Success = true
	rep.Speed = 1
	if sum.MaxRounds > 0 {
		rep.Speed = 1 - float64(sum.PlayedRounds)/float64(sum.MaxRounds)
	}
	rep.Quality = 1
	if advValid > 0 {
		rep.Quality = 1 - float64(advSubopt)/float64(advValid)
	}
	rep.Score = 1 - harmonicMean(rep.Speed, rep.Quality)
	return rep
}

func harmonicMean(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}
