// Package loader loads adventurer class sheets authored in Lua into Go
// structs. The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/bossfight/types"
	lua "github.com/yuin/gopher-lua"
)

// rawClass holds a class table before compilation.
type rawClass struct {
	name  string
	table *lua.LTable
}

// Roster is the immutable set of class sheets, keyed case-insensitively.
type Roster struct {
	sheets map[string]types.Sheet
	names  []string
}

// NotFoundError indicates a class the roster does not define.
type NotFoundError struct {
	Class string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no capability sheet for class %q", e.Class)
}

// Lookup returns the sheet for a class name.
func (r *Roster) Lookup(class string) (types.Sheet, error) {
	s, ok := r.sheets[strings.ToLower(class)]
	if !ok {
		return types.Sheet{}, &NotFoundError{Class: class}
	}
	// Copy the action list so callers cannot mutate the roster.
	s.Actions = append([]types.ActionDef(nil), s.Actions...)
	return s, nil
}

// Names returns the defined class names, sorted.
func (r *Roster) Names() []string {
	return append([]string(nil), r.names...)
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into a Roster. A class defined
// twice keeps its last definition.
func compile(coll *collector) *Roster {
	r := &Roster{sheets: map[string]types.Sheet{}}
	for _, raw := range coll.classes {
		key := strings.ToLower(raw.name)
		if _, dup := r.sheets[key]; !dup {
			r.names = append(r.names, raw.name)
		}
		r.sheets[key] = compileClass(raw)
	}
	sort.Strings(r.names)
	return r
}

func compileClass(raw rawClass) types.Sheet {
	tbl := raw.table
	return types.Sheet{
		ClassName:  raw.name,
		Size:       getString(tbl, "size"),
		Stamina:    getInt(tbl, "stamina"),
		HitPoints:  getInt(tbl, "hit_points"),
		ArmorClass: getInt(tbl, "armor_class"),
		SpellSlots: getInt(tbl, "spell_slots"),
		Actions:    compileActions(getTable(tbl, "actions")),
	}
}

func compileActions(tbl *lua.LTable) []types.ActionDef {
	if tbl == nil {
		return nil
	}
	var out []types.ActionDef
	for i := 1; i <= tbl.MaxN(); i++ {
		at, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		cond := getString(at, "condition")
		if cond == "" {
			cond = string(types.CondNone)
		}
		out = append(out, types.ActionDef{
			Name:      getString(at, "name"),
			Dice:      getString(at, "dice"),
			Type:      getString(at, "type"),
			Condition: types.Condition(cond),
		})
	}
	return out
}
