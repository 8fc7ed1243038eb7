// Package effects applies one round's validated actions to hit points.
// Damage lands before healing; every change is clamped to [0, max].
package effects

import (
	"github.com/nathoo/bossfight/engine/rules"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// Change kinds.
const (
	KindDamage = "damage"
	KindHeal   = "heal"
)

// Change is one hit-point change attempted this round.
type Change struct {
	Kind    string   `json:"kind"`
	Sources []string `json:"sources"`
	Target  string   `json:"target"`
	Amount  int      `json:"amount"`  // summed roll
	Applied bool     `json:"applied"` // false when the roll missed armor class
	Before  int      `json:"before"`
	After   int      `json:"after"`
}

// Apply resolves the round's records against the scenario:
//
//   - adventurer attacks, spells and cantrips aimed at the boss are summed
//     and land only if the total meets the boss's armor class;
//   - the boss's attack lands on its target only if the roll meets that
//     adventurer's armor class;
//   - healing then raises each target's hit points by the roll, capped at
//     the maximum.
func Apply(s *types.Scenario, records []types.ActionRecord) []Change {
	var changes []Change
	boss := state.Boss(s)

	party := Change{Kind: KindDamage, Target: boss.ID}
	for _, r := range records {
		if r.Actor == boss.ID || r.Idle || r.Target != boss.ID || !rules.IsDamaging(def(r)) {
			continue
		}
		party.Sources = append(party.Sources, r.Actor)
		party.Amount += r.Roll
	}
	if len(party.Sources) > 0 {
		party.Before = boss.HP
		if party.Amount >= boss.Sheet.ArmorClass {
			state.SetHP(boss, boss.HP-party.Amount)
			party.Applied = true
		}
		party.After = boss.HP
		changes = append(changes, party)
	}

	for _, r := range records {
		if r.Actor != boss.ID || r.Idle || !rules.IsDamaging(def(r)) {
			continue
		}
		target := state.Get(s, r.Target)
		if target == nil || target.Role != types.RoleAdventurer {
			continue
		}
		c := Change{Kind: KindDamage, Sources: []string{r.Actor}, Target: target.ID, Amount: r.Roll, Before: target.HP}
		if r.Roll >= target.Sheet.ArmorClass {
			state.SetHP(target, target.HP-r.Roll)
			c.Applied = true
		}
		c.After = target.HP
		changes = append(changes, c)
	}

	for _, r := range records {
		if r.Idle || !rules.IsHealing(def(r)) {
			continue
		}
		target := state.Get(s, r.Target)
		if target == nil {
			continue
		}
		c := Change{Kind: KindHeal, Sources: []string{r.Actor}, Target: target.ID, Amount: r.Roll, Before: target.HP, Applied: true}
		state.SetHP(target, target.HP+r.Roll)
		c.After = target.HP
		changes = append(changes, c)
	}
	return changes
}

func def(r types.ActionRecord) types.ActionDef {
	return types.ActionDef{Name: r.Action, Type: r.DamageType}
}
