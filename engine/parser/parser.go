// Package parser converts a participant's four-line utterance into an
// Utterance. It checks shape only: tags, order and value syntax. Whether
// the move is legal is the validator's job.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/types"
)

// Line tags, in the order they must appear.
const (
	TagMove   = "MOVE:"
	TagAction = "ACTION:"
	TagTarget = "TARGET:"
	TagRoll   = "ROLL:"
)

var tagOrder = []string{TagMove, TagAction, TagTarget, TagRoll}

// Reserved values.
const (
	Stay      = "stay"
	DoNothing = "do nothing"
	NoTarget  = "none"
)

var descriptors = map[string]bool{
	types.PlayerA: true,
	types.PlayerB: true,
	types.Self:    true,
	types.Boss:    true,
}

// Utterance is the parsed form of one response.
type Utterance struct {
	Stay      bool
	Move      types.Coord
	Action    string // as written, trimmed
	Idle      bool   // "do nothing"
	Target    string // lowercased descriptor, "" when none
	TargetPos types.Coord
	Roll      int
}

// FormatError reports a malformed utterance. Message is written to be sent
// back to the participant.
type FormatError struct {
	Tag     string // offending tag, "" for line-count problems
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// Parse reads an utterance of the form
//
//	MOVE: <stay|RowCol>
//	ACTION: <action name | do nothing>
//	TARGET: <descriptor> in <RowCol>
//	ROLL: <non-negative integer>
//
// Blank lines are ignored. The ROLL line may be left out, and TARGET may be
// "none", only when the action is "do nothing".
func Parse(text string) (Utterance, error) {
	lines := nonBlankLines(text)
	if len(lines) > len(tagOrder) {
		return Utterance{}, &FormatError{Message: fmt.Sprintf(
			"Your response has %d lines. Reply with exactly four lines starting with MOVE:, ACTION:, TARGET: and ROLL:, and nothing else.",
			len(lines))}
	}

	values := make([]string, 0, len(tagOrder))
	for i, tag := range tagOrder {
		if i >= len(lines) {
			break
		}
		v, ok := cutTag(lines[i], tag)
		if !ok {
			return Utterance{}, &FormatError{Tag: tag, Message: fmt.Sprintf(
				"Line %d must start with %q. Reply with four lines in the order MOVE:, ACTION:, TARGET:, ROLL:.",
				i+1, tag)}
		}
		values = append(values, v)
	}

	var u Utterance
	if len(values) < 2 {
		return u, missingLine(len(values))
	}

	if err := parseMove(values[0], &u); err != nil {
		return u, err
	}
	if err := parseAction(values[1], &u); err != nil {
		return u, err
	}
	if len(values) < 3 || (len(values) < 4 && !u.Idle) {
		return u, missingLine(len(values))
	}
	if err := parseTarget(values[2], &u); err != nil {
		return u, err
	}
	if len(values) == 4 {
		if err := parseRoll(values[3], &u); err != nil {
			return u, err
		}
	}
	return u, nil
}

func missingLine(have int) error {
	tag := tagOrder[have]
	return &FormatError{Tag: tag, Message: fmt.Sprintf(
		"Your response is missing the %s line. Reply with exactly four lines: MOVE:, ACTION:, TARGET:, ROLL:.", tag)}
}

func parseMove(v string, u *Utterance) error {
	if strings.EqualFold(v, Stay) {
		u.Stay = true
		return nil
	}
	c, err := grid.Parse(v)
	if err != nil {
		return &FormatError{Tag: TagMove, Message: fmt.Sprintf(
			"MOVE must be 'stay' or a cell from A1 to E5 (e.g. 'MOVE: B3'); got %q.", v)}
	}
	u.Move = c
	return nil
}

func parseAction(v string, u *Utterance) error {
	if v == "" {
		return &FormatError{Tag: TagAction, Message: "ACTION must name one of your actions, or 'do nothing'."}
	}
	u.Action = v
	u.Idle = strings.EqualFold(v, DoNothing)
	return nil
}

func parseTarget(v string, u *Utterance) error {
	lower := strings.ToLower(v)
	if lower == NoTarget {
		if !u.Idle {
			return &FormatError{Tag: TagTarget, Message: "TARGET may only be 'none' when the action is 'do nothing'. Use 'TARGET: <player a|player b|self|boss> in <cell>'."}
		}
		return nil
	}

	desc, cell, ok := strings.Cut(lower, " in ")
	desc = strings.TrimSpace(desc)
	if !ok || !descriptors[desc] {
		return &FormatError{Tag: TagTarget, Message: fmt.Sprintf(
			"TARGET must look like 'player a in B2': one of player a, player b, self or boss, then 'in' and a cell; got %q.", v)}
	}
	pos, err := grid.Parse(cell)
	if err != nil {
		return &FormatError{Tag: TagTarget, Message: fmt.Sprintf(
			"TARGET cell must be between A1 and E5; got %q.", strings.TrimSpace(cell))}
	}
	u.Target = desc
	u.TargetPos = pos
	return nil
}

func parseRoll(v string, u *Utterance) error {
	if u.Idle {
		// The roll is irrelevant when doing nothing.
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			u.Roll = n
		}
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return &FormatError{Tag: TagRoll, Message: fmt.Sprintf(
			"ROLL must be a single non-negative whole number (e.g. 'ROLL: 9'); got %q.", v)}
	}
	u.Roll = n
	return nil
}

// cutTag strips tag from line and returns the trimmed value.
func cutTag(line, tag string) (string, bool) {
	rest, ok := strings.CutPrefix(line, tag)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func nonBlankLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// NormalizeHandshake lowercases s and drops punctuation and extra spacing,
// so "  dungeon master." and "Dungeon Master" compare equal.
func NormalizeHandshake(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
