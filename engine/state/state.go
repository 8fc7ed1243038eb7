// Package state builds and queries the mutable scenario state: the three
// participants, the shared potion pool and the blocked cells.
package state

import (
	"fmt"

	"github.com/nathoo/bossfight/engine/dungeon"
	"github.com/nathoo/bossfight/types"
)

// Defaults applied when an instance leaves them unset.
const (
	DefaultMaxRounds = 15
	DefaultPotions   = 7
)

// Transcript labels for the game master and each participant.
const (
	LabelGM      = "GM"
	LabelPlayerA = "Player 1"
	LabelPlayerB = "Player 2"
	LabelDM      = "Dungeon Master"
)

// DMHandshake is the role label the boss-controller confirms in round 1.
const DMHandshake = "Dungeon Master"

// New creates a fresh scenario from an instance. Participants start at
// full hit points and spell slots on their spawn cells.
func New(inst types.Instance) (*types.Scenario, error) {
	layout, err := dungeon.FromLabels(inst.Dungeon)
	if err != nil {
		return nil, fmt.Errorf("instance %d dungeon: %w", inst.ID, err)
	}
	if !dungeon.Connected(layout) {
		return nil, fmt.Errorf("instance %d dungeon: spawns are not mutually reachable", inst.ID)
	}

	s := &types.Scenario{
		Phase:     types.PhaseSetup,
		MaxRounds: inst.MaxRounds,
		Potions:   inst.Potions,
		Blocked:   layout.Blocked,
	}
	if s.MaxRounds <= 0 {
		s.MaxRounds = DefaultMaxRounds
	}
	if s.Potions <= 0 {
		s.Potions = DefaultPotions
	}

	s.Participants[0] = newParticipant(types.PlayerA, LabelPlayerA, types.RoleAdventurer, inst.SheetA, layout.PlayerA)
	s.Participants[1] = newParticipant(types.PlayerB, LabelPlayerB, types.RoleAdventurer, inst.SheetB, layout.PlayerB)
	s.Participants[2] = newParticipant(types.Boss, LabelDM, types.RoleDungeonMaster, inst.BossSheet, layout.Boss)
	return s, nil
}

func newParticipant(id, label string, role types.Role, sheet types.Sheet, pos types.Coord) types.Participant {
	return types.Participant{
		ID:         id,
		Label:      label,
		Role:       role,
		Sheet:      sheet,
		Pos:        pos,
		HP:         sheet.HitPoints,
		SpellSlots: sheet.SpellSlots,
	}
}

// Get returns the participant with the given ID, or nil.
func Get(s *types.Scenario, id string) *types.Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// Boss returns the boss participant.
func Boss(s *types.Scenario) *types.Participant {
	return Get(s, types.Boss)
}

// Ally returns the other adventurer, or nil when id is not an adventurer.
func Ally(s *types.Scenario, id string) *types.Participant {
	switch id {
	case types.PlayerA:
		return Get(s, types.PlayerB)
	case types.PlayerB:
		return Get(s, types.PlayerA)
	}
	return nil
}

// Adventurers returns both adventurers in turn order.
func Adventurers(s *types.Scenario) []*types.Participant {
	return []*types.Participant{Get(s, types.PlayerA), Get(s, types.PlayerB)}
}

// IsBlocked reports whether c is one of the blocked cells.
func IsBlocked(s *types.Scenario, c types.Coord) bool {
	return s.Blocked[0] == c || s.Blocked[1] == c
}

// OccupiedBy returns the ID of the participant other than self standing
// on c, or "".
func OccupiedBy(s *types.Scenario, c types.Coord, self string) string {
	for _, p := range s.Participants {
		if p.ID != self && p.Pos == c {
			return p.ID
		}
	}
	return ""
}

// AllDown reports whether both adventurers are at 0 hit points.
func AllDown(s *types.Scenario) bool {
	for _, p := range Adventurers(s) {
		if p.HP > 0 {
			return false
		}
	}
	return true
}

// Terminal reports whether the scenario has reached a final phase.
func Terminal(s *types.Scenario) bool {
	switch s.Phase {
	case types.PhaseWon, types.PhaseLost, types.PhaseAborted:
		return true
	}
	return false
}

// SetHP sets hit points clamped to [0, max].
func SetHP(p *types.Participant, hp int) {
	switch {
	case hp < 0:
		hp = 0
	case hp > p.Sheet.HitPoints:
		hp = p.Sheet.HitPoints
	}
	p.HP = hp
}

// View returns a read-only snapshot of the board for the participant self.
func View(s *types.Scenario, self string) types.View {
	v := types.View{
		Self:    self,
		Round:   s.Round,
		Potions: s.Potions,
		Blocked: []types.Coord{s.Blocked[0], s.Blocked[1]},
	}
	for _, p := range s.Participants {
		sheet := p.Sheet
		sheet.Actions = append([]types.ActionDef(nil), p.Sheet.Actions...)
		v.Combatants = append(v.Combatants, types.CombatantView{
			ID:         p.ID,
			Role:       p.Role,
			Sheet:      sheet,
			Pos:        p.Pos,
			HP:         p.HP,
			SpellSlots: p.SpellSlots,
		})
	}
	return v
}
