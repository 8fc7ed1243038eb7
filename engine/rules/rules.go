// Package rules classifies sheet actions and checks their Condition
// preconditions.
package rules

import (
	"strings"

	"github.com/nathoo/bossfight/types"
)

// Name fragments that give an action its meaning.
const (
	spellWord    = "spell"
	healingWord  = "healing"
	revivifyWord = "revivify"
	healingType  = "Healing"
)

var damagePrefixes = []string{"attack", "spell", "cantrip"}

// IsSpell reports whether casting a costs a spell slot.
func IsSpell(a types.ActionDef) bool {
	return strings.Contains(strings.ToLower(a.Name), spellWord)
}

// IsRevivify reports whether a is a revive-the-fallen action.
func IsRevivify(a types.ActionDef) bool {
	return strings.Contains(strings.ToLower(a.Name), revivifyWord)
}

// IsPotion reports whether a draws from the shared potion pool.
func IsPotion(a types.ActionDef) bool {
	return a.Condition == types.CondPotions
}

// IsHealing reports whether a restores hit points instead of dealing damage.
func IsHealing(a types.ActionDef) bool {
	name := strings.ToLower(a.Name)
	return strings.Contains(name, healingWord) ||
		strings.Contains(name, revivifyWord) ||
		strings.EqualFold(a.Type, healingType)
}

// IsDamaging reports whether a deals damage: an attack, spell or cantrip
// that does not heal.
func IsDamaging(a types.ActionDef) bool {
	if IsHealing(a) {
		return false
	}
	name := strings.ToLower(a.Name)
	for _, p := range damagePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Revivify returns the sheet's revive action, if it has one.
func Revivify(s types.Sheet) (types.ActionDef, bool) {
	for _, a := range s.Actions {
		if IsRevivify(a) {
			return a, true
		}
	}
	return types.ActionDef{}, false
}
