package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/prompt"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// basePrompt renders the round's opening message for p: the handshake in
// round 1, the combat briefing in round 2 and a new-turn summary after.
func (r *Resolver) basePrompt(s *types.Scenario, p *types.Participant) (string, error) {
	dm := p.Role == types.RoleDungeonMaster

	if s.Round == HandshakeRound {
		if dm {
			return r.prompts.Render(prompt.IntroDM, map[string]string{})
		}
		return r.prompts.Render(prompt.IntroAdventurer, map[string]string{"class": p.Sheet.ClassName})
	}

	b := bindings(s, p)
	name := prompt.NewTurnAdventurer
	if dm {
		name = prompt.NewTurnDM
	}
	if s.Round == HandshakeRound+1 {
		rules, err := r.prompts.Render(prompt.Rules, b)
		if err != nil {
			return "", err
		}
		b["rules"] = rules
		name = prompt.CombatAdventurer
		if dm {
			name = prompt.CombatDM
		}
	}
	return r.prompts.Render(name, b)
}

func bindings(s *types.Scenario, p *types.Participant) map[string]string {
	boss := state.Boss(s)
	a := state.Get(s, types.PlayerA)
	b := state.Get(s, types.PlayerB)

	m := map[string]string{
		"self":            p.ID,
		"class":           p.Sheet.ClassName,
		"round":           strconv.Itoa(s.Round),
		"position":        grid.Label(p.Pos),
		"hp":              strconv.Itoa(p.HP),
		"max_hp":          strconv.Itoa(p.Sheet.HitPoints),
		"armor_class":     strconv.Itoa(p.Sheet.ArmorClass),
		"spell_slots":     strconv.Itoa(p.SpellSlots),
		"stamina":         strconv.Itoa(p.Sheet.Stamina),
		"actions":         actionList(p.Sheet),
		"blocked":         grid.Labels(s.Blocked[:]),
		"potions":         strconv.Itoa(s.Potions),
		"boss_position":   grid.Label(boss.Pos),
		"boss_hp":         strconv.Itoa(boss.HP),
		"boss_size":       boss.Sheet.Size,
		"boss_resistance": boss.Sheet.Resistance,
		"class_a":         a.Sheet.ClassName,
		"class_b":         b.Sheet.ClassName,
		"position_a":      grid.Label(a.Pos),
		"position_b":      grid.Label(b.Pos),
		"hp_a":            strconv.Itoa(a.HP),
		"hp_b":            strconv.Itoa(b.HP),
		"ac_a":            strconv.Itoa(a.Sheet.ArmorClass),
		"ac_b":            strconv.Itoa(b.Sheet.ArmorClass),
		"last_round":      summarize(s.LastRound),
	}
	if ally := state.Ally(s, p.ID); ally != nil {
		m["ally"] = ally.ID
		m["ally_class"] = ally.Sheet.ClassName
		m["ally_position"] = grid.Label(ally.Pos)
		m["ally_hp"] = strconv.Itoa(ally.HP)
	}
	return m
}

func actionList(s types.Sheet) string {
	var b strings.Builder
	for _, a := range s.Actions {
		fmt.Fprintf(&b, "- %s: %s %s", a.Name, a.Dice, a.Type)
		if a.Condition != types.CondNone && a.Condition != "" {
			fmt.Fprintf(&b, " (needs %s)", a.Condition)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// summarize describes the previous round's moves, one line per actor.
func summarize(records []types.ActionRecord) string {
	if len(records) == 0 {
		return "Nothing happened."
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = Describe(r)
	}
	return strings.Join(lines, "\n")
}

// Describe renders one validated action as a sentence, e.g.
// "player a stayed in A1 and used Attack: Longsword on boss in B1, rolling 10."
func Describe(r types.ActionRecord) string {
	where := "stayed in " + grid.Label(r.Move)
	if !r.Stayed {
		where = "moved to " + grid.Label(r.Move)
	}
	if r.Idle {
		return fmt.Sprintf("%s %s and did nothing.", r.Actor, where)
	}
	return fmt.Sprintf("%s %s and used %s on %s in %s, rolling %d.",
		r.Actor, where, r.Action, r.Target, grid.Label(r.TargetPos), r.Roll)
}
