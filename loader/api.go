package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Class "Wizard" { ... }: Class("Wizard") returns a function that takes the table.
	L.SetGlobal("Class", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.classes = append(coll.classes, rawClass{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// Action { name = "...", dice = "2d6", type = "Fire", condition = "spell-slot" }
	// Pass-through; condition defaults to "None".
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if tbl.RawGetString("condition") == lua.LNil {
			tbl.RawSetString("condition", lua.LString("None"))
		}
		L.Push(tbl)
		return 1
	}))

	// HealingPotion() is the shared-pool potion every adventurer carries.
	L.SetGlobal("HealingPotion", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString("Use healing potion"))
		tbl.RawSetString("dice", lua.LString("2d4"))
		tbl.RawSetString("type", lua.LString("Healing"))
		tbl.RawSetString("condition", lua.LString("potions"))
		L.Push(tbl)
		return 1
	}))
}
