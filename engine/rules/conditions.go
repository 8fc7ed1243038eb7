package rules

import (
	"fmt"

	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/types"
)

// Context is the board state a Condition is checked against.
type Context struct {
	SpellSlots int         // actor's remaining slots
	Potions    int         // shared pool
	Dest       types.Coord // where the actor will stand
	TargetPos  types.Coord
	TargetSelf bool
}

// UnmetError indicates an action whose Condition does not hold.
type UnmetError struct {
	Condition types.Condition
	Detail    string
}

func (e *UnmetError) Error() string {
	return fmt.Sprintf("condition %s not met: %s", e.Condition, e.Detail)
}

// Check returns an *UnmetError when a's Condition does not hold in ctx.
// Spells cost a slot whatever their Condition tag says.
func Check(a types.ActionDef, ctx Context) error {
	if (a.Condition == types.CondSpellSlot || IsSpell(a)) && ctx.SpellSlots <= 0 {
		return &UnmetError{Condition: types.CondSpellSlot, Detail: "no spell slots left"}
	}

	switch a.Condition {
	case types.CondAdjacency:
		if ctx.TargetSelf {
			return nil
		}
		d, err := grid.Distance(ctx.Dest, ctx.TargetPos)
		if err != nil {
			return err
		}
		if d > 1 {
			return &UnmetError{Condition: types.CondAdjacency, Detail: fmt.Sprintf(
				"target in %s is %d steps from %s; it must be adjacent",
				grid.Label(ctx.TargetPos), d, grid.Label(ctx.Dest))}
		}
	case types.CondPotions:
		if ctx.Potions <= 0 {
			return &UnmetError{Condition: types.CondPotions, Detail: "no potions left"}
		}
	}
	return nil
}
