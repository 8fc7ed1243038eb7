package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathoo/bossfight/engine/dice"
	"github.com/nathoo/bossfight/engine/grid"
	"github.com/nathoo/bossfight/engine/rules"
	"github.com/nathoo/bossfight/engine/state"
	"github.com/nathoo/bossfight/types"
)

// Source supplies the randomness the autopilot needs. *engine.RNG
// satisfies it.
type Source interface {
	Roll(sides int) int
	Intn(n int) int
}

// Autopilot derives a legal reply from the read-only board it is shown.
// It never looks at the prompt text.
type Autopilot struct {
	rng Source
}

// NewAutopilot creates an autopilot drawing dice from rng.
func NewAutopilot(rng Source) *Autopilot {
	return &Autopilot{rng: rng}
}

const idleReply = "MOVE: stay\nACTION: do nothing\nTARGET: none"

// Respond answers the handshake in round 1 and plays a move afterwards.
func (a *Autopilot) Respond(_ context.Context, req types.Request) (string, error) {
	b := newBoard(req.View)
	if b.self == nil {
		return "", fmt.Errorf("participant %q not on the board", req.View.Self)
	}
	if req.Round == 1 {
		if b.self.Role == types.RoleDungeonMaster {
			return state.DMHandshake, nil
		}
		return b.self.Sheet.ClassName, nil
	}
	if b.self.Role == types.RoleDungeonMaster {
		return a.bossMove(b), nil
	}
	return a.adventurerMove(b), nil
}

// board indexes a view for move planning.
type board struct {
	view types.View
	self *types.CombatantView
	boss *types.CombatantView
	ally *types.CombatantView
}

func newBoard(v types.View) *board {
	b := &board{view: v}
	for i := range v.Combatants {
		c := &v.Combatants[i]
		switch {
		case c.ID == v.Self:
			b.self = c
		case c.Role == types.RoleDungeonMaster:
			b.boss = c
		default:
			b.ally = c
		}
	}
	if b.self != nil && b.self.Role == types.RoleDungeonMaster {
		b.boss = b.self
	}
	return b
}

// free reports whether the actor could stand on c.
func (b *board) free(c types.Coord) bool {
	for _, bl := range b.view.Blocked {
		if bl == c {
			return false
		}
	}
	for _, o := range b.view.Combatants {
		if o.ID != b.self.ID && o.Pos == c {
			return false
		}
	}
	return true
}

// reach returns a cell within stamina from which target is adjacent,
// preferring to stay put. ok is false when none exists.
func (b *board) reach(target types.Coord) (dest types.Coord, stay, ok bool) {
	from := b.self.Pos
	if d, _ := grid.Distance(from, target); d <= 1 {
		return from, true, true
	}
	best, bestD := types.Coord{}, -1
	for _, c := range grid.Cells() {
		if c == from || !b.free(c) {
			continue
		}
		if d, _ := grid.Distance(c, target); d > 1 {
			continue
		}
		d, _ := grid.Distance(from, c)
		if d > b.self.Sheet.Stamina {
			continue
		}
		if bestD < 0 || d < bestD {
			best, bestD = c, d
		}
	}
	return best, false, bestD >= 0
}

// approach returns the reachable free cell closest to target.
func (b *board) approach(target types.Coord) (types.Coord, bool) {
	from := b.self.Pos
	best, _ := grid.Distance(from, target)
	dest, moved := from, false
	for _, c := range grid.Cells() {
		if c == from || !b.free(c) {
			continue
		}
		if d, _ := grid.Distance(from, c); d > b.self.Sheet.Stamina {
			continue
		}
		if d, _ := grid.Distance(c, target); d < best {
			best, dest, moved = d, c, true
		}
	}
	return dest, moved
}

func (a *Autopilot) adventurerMove(b *board) string {
	self := b.self

	if rev, ok := rules.Revivify(self.Sheet); ok && self.SpellSlots > 0 &&
		b.ally != nil && b.ally.HP == 0 {
		return a.reply(self.Pos, true, rev, b.ally.ID, b.ally.Pos)
	}

	if self.HP*2 < self.Sheet.HitPoints && b.view.Potions > 0 {
		for _, act := range self.Sheet.Actions {
			if rules.IsPotion(act) {
				return a.reply(self.Pos, true, act, types.Self, self.Pos)
			}
		}
	}

	if b.boss != nil {
		for _, act := range ranked(self, b.boss.Sheet.Resistance) {
			if act.Condition != types.CondAdjacency {
				return a.reply(self.Pos, true, act, types.Boss, b.boss.Pos)
			}
			if dest, stay, ok := b.reach(b.boss.Pos); ok {
				return a.reply(dest, stay, act, types.Boss, b.boss.Pos)
			}
		}
		if dest, moved := b.approach(b.boss.Pos); moved {
			return "MOVE: " + grid.Label(dest) + "\nACTION: do nothing\nTARGET: none"
		}
	}
	return idleReply
}

// ranked lists usable damaging actions, the ones the boss does not resist
// first and ranged before melee within each group.
func ranked(self *types.CombatantView, resistance string) []types.ActionDef {
	var groups [4][]types.ActionDef
	for _, act := range self.Sheet.Actions {
		if !rules.IsDamaging(act) {
			continue
		}
		if (act.Condition == types.CondSpellSlot || rules.IsSpell(act)) && self.SpellSlots <= 0 {
			continue
		}
		g := 0
		if strings.EqualFold(act.Type, resistance) {
			g = 2
		}
		if act.Condition == types.CondAdjacency {
			g++
		}
		groups[g] = append(groups[g], act)
	}
	var out []types.ActionDef
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (a *Autopilot) bossMove(b *board) string {
	var alive []*types.CombatantView
	for i := range b.view.Combatants {
		c := &b.view.Combatants[i]
		if c.Role == types.RoleAdventurer && c.HP > 0 {
			alive = append(alive, c)
		}
	}
	if len(alive) == 0 {
		return idleReply
	}
	target := alive[a.rng.Intn(len(alive))]
	for _, act := range b.self.Sheet.Actions {
		if !rules.IsDamaging(act) {
			continue
		}
		if act.Condition != types.CondAdjacency {
			return a.reply(b.self.Pos, true, act, target.ID, target.Pos)
		}
		if dest, stay, ok := b.reach(target.Pos); ok {
			return a.reply(dest, stay, act, target.ID, target.Pos)
		}
	}
	return idleReply
}

// reply formats a four-line utterance with a fair roll of act's dice.
func (a *Autopilot) reply(dest types.Coord, stay bool, act types.ActionDef, target string, at types.Coord) string {
	move := "stay"
	if !stay {
		move = grid.Label(dest)
	}
	roll := 0
	if expr, err := dice.Parse(act.Dice); err == nil {
		roll = expr.Roll(a.rng)
	}
	return strings.Join([]string{
		"MOVE: " + move,
		"ACTION: " + act.Name,
		"TARGET: " + target + " in " + grid.Label(at),
		fmt.Sprintf("ROLL: %d", roll),
	}, "\n")
}
