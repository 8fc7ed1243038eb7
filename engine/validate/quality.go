package validate

import (
	"strings"

	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/rules"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// assess flags legal but poor adventurer moves. It reads the board before
// the move is applied and never rejects anything.
func assess(s *types.Scenario, actor *types.Participant, def types.ActionDef, idle bool, targetID string) []string {
	var notes []string
	boss := state.Boss(s)

	if idle {
		if hasDamagingOption(actor, boss) {
			notes = append(notes, "did nothing with a damaging action available")
		}
		return notes
	}

	if targetID == boss.ID && boss.Sheet.Resistance != "" &&
		strings.EqualFold(def.Type, boss.Sheet.Resistance) {
		notes = append(notes, "used "+def.Type+" damage against a boss resistant to it")
	}

	if _, ok := rules.Revivify(actor.Sheet); ok && !rules.IsRevivify(def) {
		if ally := state.Ally(s, actor.ID); ally != nil && ally.HP == 0 && actor.SpellSlots > 0 {
			notes = append(notes, "left a fallen ally unrevived with a spell slot free")
		}
	}

	if rules.IsHealing(def) && !rules.IsRevivify(def) {
		if t := state.Get(s, targetID); t != nil &&
			float64(t.HP) > healThreshold*float64(t.Sheet.HitPoints) {
			notes = append(notes, "healed a target above 70% of its hit points")
		}
	}
	return notes
}

// hasDamagingOption reports whether actor could have damaged the boss this
// turn: a ranged attack, or a melee attack on a boss within one move.
func hasDamagingOption(actor, boss *types.Participant) bool {
	for _, a := range actor.Sheet.Actions {
		if !rules.IsDamaging(a) {
			continue
		}
		if (a.Condition == types.CondSpellSlot || rules.IsSpell(a)) && actor.SpellSlots <= 0 {
			continue
		}
		if a.Condition == types.CondAdjacency {
			d, err := grid.Distance(actor.Pos, boss.Pos)
			if err != nil || d > actor.Sheet.Stamina+1 {
				continue
			}
		}
		return true
	}
	return false
}
