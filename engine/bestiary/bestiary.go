// Package bestiary generates boss capability sheets whose strength is tied
// to a difficulty level.
package bestiary

import (
	"fmt"

	"github.com/nathoo/bossfight/types"
)

// Difficulty levels.
const (
	Easy      = "easy"
	Hard      = "hard"
	Legendary = "legendary"
)

// Difficulties lists every supported difficulty in ascending order.
var Difficulties = []string{Easy, Hard, Legendary}

// Source is the randomness the generator draws from.
type Source interface {
	Intn(n int) int
}

// Sizes in draw order; stamina depends on size.
var Sizes = []string{"Tiny", "Small", "Medium", "Large", "Huge", "Gargantuan"}

var sizeStamina = map[string]int{
	"Tiny": 2, "Small": 3, "Medium": 4, "Large": 3, "Huge": 2, "Gargantuan": 1,
}

// Resistances a boss can be drawn with.
var Resistances = []string{"Fire", "Ice", "Piercing", "Slashing", "Blunt"}

type tier struct {
	label        string
	hpMin, hpMax int
	acMin, acMax int
	dice         string
}

var tiers = map[string]tier{
	Easy:      {label: "Easy", hpMin: 20, hpMax: 80, acMin: 5, acMax: 9, dice: "2d6"},
	Hard:      {label: "Hard", hpMin: 80, hpMax: 150, acMin: 9, acMax: 13, dice: "3d6"},
	Legendary: {label: "Legendary", hpMin: 150, hpMax: 200, acMin: 14, acMax: 18, dice: "4d6"},
}

// specialActions maps a resistance to the boss's signature ranged action name.
var specialActions = map[string]string{
	"Fire":     "Attack: Fire Breath",
	"Ice":      "Attack: Ice Storm",
	"Piercing": "Attack: Arrow of Death",
	"Slashing": "Attack: Whip",
	"Blunt":    "Attack: Hammer Throw",
}

// UnknownDifficultyError indicates a difficulty outside Difficulties.
type UnknownDifficultyError struct {
	Difficulty string
}

func (e *UnknownDifficultyError) Error() string {
	return fmt.Sprintf("unknown difficulty %q (want easy, hard or legendary)", e.Difficulty)
}

// Generate draws a boss sheet for the given difficulty.
func Generate(difficulty string, src Source) (types.Sheet, error) {
	t, ok := tiers[difficulty]
	if !ok {
		return types.Sheet{}, &UnknownDifficultyError{Difficulty: difficulty}
	}

	size := Sizes[src.Intn(len(Sizes))]
	resistance := Resistances[src.Intn(len(Resistances))]

	return types.Sheet{
		ClassName:  "Boss",
		Size:       size,
		Stamina:    sizeStamina[size],
		Resistance: resistance,
		Difficulty: t.label,
		HitPoints:  between(src, t.hpMin, t.hpMax),
		ArmorClass: between(src, t.acMin, t.acMax),
		Actions: []types.ActionDef{
			{Name: "Attack: Melee attack", Dice: t.dice, Type: "Blunt", Condition: types.CondAdjacency},
			{Name: specialActions[resistance], Dice: t.dice, Type: resistance, Condition: types.CondNone},
		},
	}, nil
}

// between returns an integer in [lo, hi].
func between(src Source, lo, hi int) int {
	return lo + src.Intn(hi-lo+1)
}
