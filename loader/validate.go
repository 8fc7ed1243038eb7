package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/bossfight/engine/dice"
	"github.com/nathoo/bossfight/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known action conditions.
var validConditions = map[types.Condition]bool{
	types.CondNone:      true,
	types.CondSpellSlot: true,
	types.CondAdjacency: true,
	types.CondPotions:   true,
}

// validate checks every compiled sheet for playable values.
func validate(r *Roster) error {
	ve := &ValidationError{}

	if len(r.names) == 0 {
		ve.Errors = append(ve.Errors, "no classes defined")
	}

	for _, name := range r.names {
		s := r.sheets[strings.ToLower(name)]
		if s.Stamina <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: stamina must be positive", name))
		}
		if s.HitPoints <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: hit_points must be positive", name))
		}
		if s.ArmorClass < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: armor_class must not be negative", name))
		}
		if s.SpellSlots < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: spell_slots must not be negative", name))
		}
		if len(s.Actions) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: no actions", name))
		}
		validateActions(name, s, ve)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateActions(class string, s types.Sheet, ve *ValidationError) {
	seen := map[string]bool{}
	usesSlots := false
	for i, a := range s.Actions {
		if a.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: action %d has no name", class, i+1))
			continue
		}
		key := strings.ToLower(a.Name)
		if seen[key] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: duplicate action %q", class, a.Name))
		}
		seen[key] = true
		if key == "do nothing" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: %q is reserved", class, a.Name))
		}
		if _, err := dice.Parse(a.Dice); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q: action %q: %v", class, a.Name, err))
		}
		if !validConditions[a.Condition] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q: action %q has unknown condition %q", class, a.Name, a.Condition))
		}
		if a.Condition == types.CondSpellSlot {
			usesSlots = true
		}
	}
	if usesSlots && s.SpellSlots == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"class %q has spell-slot actions but no spell slots", class))
	}
}
