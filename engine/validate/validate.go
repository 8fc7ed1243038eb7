// Package validate checks one parsed utterance against the board and the
// actor's sheet, and applies the move to the scenario when it is legal.
//
// Checks run in a fixed order and stop at the first failure:
// format, action name, roll range, destination, targeting, stamina,
// action condition, then revive and potion targeting.
package validate

import (
	"fmt"
	"strings"

	"github.com/nathoo/bossfight/engine/dice"
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/parser"
	"github.com/nathoo/bossfight/engine/rules"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// healThreshold is the hit-point fraction above which healing is wasted.
const healThreshold = 0.7

// Result is a validated move.
type Result struct {
	Record     types.ActionRecord
	Suboptimal bool
	Notes      []string // reasons the move was flagged
}

// Validate parses text as actorID's move and checks it. On success the
// actor's position, spell slots and the shared potion pool are updated and
// the move is returned. A rule failure returns a *Violation and leaves the
// scenario untouched.
func Validate(s *types.Scenario, actorID, text string) (Result, error) {
	actor := state.Get(s, actorID)
	if actor == nil {
		return Result{}, fmt.Errorf("unknown participant %q", actorID)
	}

	u, err := parser.Parse(text)
	if err != nil {
		return Result{}, violation(FormatViolation, err.Error())
	}

	var def types.ActionDef
	if !u.Idle {
		def, err = rules.FindAction(actor.Sheet, u.Action)
		if err != nil {
			return Result{}, violation(ActionUnknown, fmt.Sprintf(
				"%q is not one of your actions. Choose exactly one of: %s, or 'do nothing'.",
				u.Action, strings.Join(rules.ActionNames(actor.Sheet), "; ")))
		}

		expr, err := dice.Parse(def.Dice)
		if err != nil {
			return Result{}, violation(ActionUnknown, fmt.Sprintf("%s has no usable dice: %v", def.Name, err))
		}
		if !expr.Contains(u.Roll) {
			return Result{}, violation(RollOutOfRange, fmt.Sprintf(
				"A roll of %d is impossible for %s (%s). Roll between %d and %d.",
				u.Roll, def.Name, expr, expr.Min(), expr.Max()))
		}
	}

	dest := actor.Pos
	if !u.Stay {
		dest = u.Move
	}
	if state.IsBlocked(s, dest) {
		return Result{}, violation(OccupiedOrBlocked, fmt.Sprintf(
			"%s is blocked. Blocked cells are %s.", grid.Label(dest), grid.Labels(s.Blocked[:])))
	}
	if who := state.OccupiedBy(s, dest, actor.ID); who != "" {
		return Result{}, violation(OccupiedOrBlocked, fmt.Sprintf(
			"%s is occupied by %s. Move to a free cell or stay.", grid.Label(dest), who))
	}

	targetID, targetSelf := "", false
	if !u.Idle {
		targetID = u.Target
		if targetID == types.Self {
			targetID = actor.ID
		}
		if actor.Role == types.RoleDungeonMaster && targetID == actor.ID {
			return Result{}, violation(InvalidSelfTarget,
				"As the Dungeon Master you act for the boss and cannot target it. Target player a or player b.")
		}
		if targetID == actor.ID {
			targetSelf = true
			// "self" carries no position claim; a named own identity is
			// checked like any other participant.
			if u.Target != types.Self && u.TargetPos != actor.Pos {
				return Result{}, violation(TargetPositionMismatch, fmt.Sprintf(
					"%s is in %s, not %s.", actor.ID, grid.Label(actor.Pos), grid.Label(u.TargetPos)))
			}
		} else if t := state.Get(s, targetID); t.Pos != u.TargetPos {
			return Result{}, violation(TargetPositionMismatch, fmt.Sprintf(
				"%s is in %s, not %s.", targetID, grid.Label(t.Pos), grid.Label(u.TargetPos)))
		}
	}

	if dest != actor.Pos {
		ok, err := grid.WithinRange(actor.Sheet.Stamina, actor.Pos, dest)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			d, _ := grid.Distance(actor.Pos, dest)
			return Result{}, violation(MoveExceedsStamina, fmt.Sprintf(
				"%s is %d steps from %s but your stamina is %d. Diagonal steps count as two.",
				grid.Label(dest), d, grid.Label(actor.Pos), actor.Sheet.Stamina))
		}
	}

	if !u.Idle {
		if v := checkCondition(s, actor, def, dest, u.TargetPos, targetSelf); v != nil {
			return Result{}, v
		}
		if rules.IsRevivify(def) {
			ally := state.Ally(s, actor.ID)
			if ally == nil || targetID != ally.ID || ally.HP != 0 {
				return Result{}, violation(InvalidRevivifyTarget,
					"Revivify only works on your ally, and only while they are at 0 hit points.")
			}
		}
		if rules.IsPotion(def) && !targetSelf {
			return Result{}, violation(PotionMisuse,
				"A healing potion can only be used on yourself. Target self.")
		}
	}

	res := Result{Record: types.ActionRecord{
		Actor:     actor.ID,
		Move:      dest,
		Stayed:    u.Stay,
		Action:    parser.DoNothing,
		Target:    targetID,
		TargetPos: u.TargetPos,
		Roll:      u.Roll,
		Idle:      u.Idle,
	}}
	if !u.Idle {
		res.Record.Action = def.Name
		res.Record.DamageType = def.Type
	}
	if actor.Role == types.RoleAdventurer {
		res.Notes = assess(s, actor, def, u.Idle, targetID)
		res.Suboptimal = len(res.Notes) > 0
	}

	actor.Pos = dest
	if !u.Idle {
		if rules.IsSpell(def) && actor.SpellSlots > 0 {
			actor.SpellSlots--
		}
		if rules.IsPotion(def) && s.Potions > 0 {
			s.Potions--
		}
	}
	return res, nil
}

func checkCondition(s *types.Scenario, actor *types.Participant, def types.ActionDef,
	dest, targetPos types.Coord, targetSelf bool) *Violation {
	err := rules.Check(def, rules.Context{
		SpellSlots: actor.SpellSlots,
		Potions:    s.Potions,
		Dest:       dest,
		TargetPos:  targetPos,
		TargetSelf: targetSelf,
	})
	if err == nil {
		return nil
	}
	ue, ok := err.(*rules.UnmetError)
	if !ok {
		return violation(TargetOutOfRange, err.Error())
	}
	switch ue.Condition {
	case types.CondSpellSlot:
		return violation(OutOfSpellSlots, fmt.Sprintf(
			"You have no spell slots left, so you cannot cast %s. Choose an action that needs no slot.", def.Name))
	case types.CondPotions:
		return violation(OutOfPotions, "There are no healing potions left.")
	default:
		return violation(TargetOutOfRange, fmt.Sprintf(
			"%s needs an adjacent target: %s.", def.Name, ue.Detail))
	}
}

// ValidateHandshake checks a round-1 reply: adventurers confirm their class
// name, the boss-controller its role.
func ValidateHandshake(p *types.Participant, text string) error {
	want := p.Sheet.ClassName
	if p.Role == types.RoleDungeonMaster {
		want = state.DMHandshake
	}
	if parser.NormalizeHandshake(text) != parser.NormalizeHandshake(want) {
		return violation(RoundHandshakeMismatch, fmt.Sprintf(
			"Reply with exactly one line containing only %q.", want))
	}
	return nil
}
