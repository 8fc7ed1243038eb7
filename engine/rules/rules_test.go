package rules

import (
	"errors"
	"testing"

	"github.com/nathoo/bossfight/types"
)

func testSheet() types.Sheet {
	return types.Sheet{
		ClassName:  "Cleric",
		SpellSlots: 2,
		Actions: []types.ActionDef{
			{Name: "Attack: Mace", Dice: "2d6", Type: "Blunt", Condition: types.CondAdjacency},
			{Name: "Cantrip: Sacred Flame", Dice: "2d8", Type: "Fire", Condition: types.CondNone},
			{Name: "Spell: Healing Word", Dice: "2d8", Type: "Healing", Condition: types.CondSpellSlot},
			{Name: "Spell: Revivify", Dice: "1d8", Type: "Healing", Condition: types.CondSpellSlot},
			{Name: "Use healing potion", Dice: "2d4", Type: "Healing", Condition: types.CondPotions},
		},
	}
}

func TestClassification(t *testing.T) {
	s := testSheet()
	tests := []struct {
		action                               string
		spell, revivify, potion, heal, damage bool
	}{
		{"Attack: Mace", false, false, false, false, true},
		{"Cantrip: Sacred Flame", false, false, false, false, true},
		{"Spell: Healing Word", true, false, false, true, false},
		{"Spell: Revivify", true, true, false, true, false},
		{"Use healing potion", false, false, true, true, false},
	}
	for _, tt := range tests {
		a, err := FindAction(s, tt.action)
		if err != nil {
			t.Fatal(err)
		}
		if IsSpell(a) != tt.spell || IsRevivify(a) != tt.revivify || IsPotion(a) != tt.potion ||
			IsHealing(a) != tt.heal || IsDamaging(a) != tt.damage {
			t.Errorf("%s: spell=%v revivify=%v potion=%v heal=%v damage=%v",
				tt.action, IsSpell(a), IsRevivify(a), IsPotion(a), IsHealing(a), IsDamaging(a))
		}
	}

	if _, ok := Revivify(s); !ok {
		t.Error("cleric sheet should have a revive action")
	}
	if _, ok := Revivify(types.Sheet{}); ok {
		t.Error("empty sheet has no revive action")
	}
}

func TestFindAction(t *testing.T) {
	s := testSheet()

	a, err := FindAction(s, "  attack: MACE ")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Attack: Mace" {
		t.Errorf("Name = %q", a.Name)
	}

	_, err = FindAction(s, "Attack: Greatsword")
	var ue *UnknownActionError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownActionError, got %v", err)
	}
	if len(ue.Choices) != 5 {
		t.Errorf("choices = %v", ue.Choices)
	}

	s.Actions = append(s.Actions, types.ActionDef{Name: "attack: mace", Dice: "1d4"})
	_, err = FindAction(s, "Attack: Mace")
	var ae *AmbiguityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	s := testSheet()
	mace, _ := FindAction(s, "Attack: Mace")
	flame, _ := FindAction(s, "Cantrip: Sacred Flame")
	word, _ := FindAction(s, "Spell: Healing Word")
	potion, _ := FindAction(s, "Use healing potion")
	freeSpell := types.ActionDef{Name: "Spell: Free", Dice: "1d4", Condition: types.CondNone}

	at := func(r, c int) types.Coord { return types.Coord{Row: r, Col: c} }

	tests := []struct {
		name string
		a    types.ActionDef
		ctx  Context
		want types.Condition // "" means met
	}{
		{"none always met", flame, Context{}, ""},
		{"adjacent target", mace, Context{Dest: at(1, 1), TargetPos: at(1, 2)}, ""},
		{"same-cell distance is adjacent", mace, Context{Dest: at(1, 1), TargetPos: at(1, 1)}, ""},
		{"diagonal is two steps", mace, Context{Dest: at(1, 1), TargetPos: at(2, 2)}, types.CondAdjacency},
		{"self target skips adjacency", mace, Context{Dest: at(0, 0), TargetPos: at(4, 4), TargetSelf: true}, ""},
		{"slot available", word, Context{SpellSlots: 1}, ""},
		{"no slots", word, Context{SpellSlots: 0}, types.CondSpellSlot},
		{"spell by name needs a slot", freeSpell, Context{SpellSlots: 0}, types.CondSpellSlot},
		{"potion available", potion, Context{Potions: 1}, ""},
		{"no potions", potion, Context{Potions: 0}, types.CondPotions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.a, tt.ctx)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ue *UnmetError
			if !errors.As(err, &ue) {
				t.Fatalf("expected UnmetError, got %v", err)
			}
			if ue.Condition != tt.want {
				t.Errorf("Condition = %q, want %q", ue.Condition, tt.want)
			}
		})
	}
}
