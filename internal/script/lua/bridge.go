package lua

import (
	"github.com/lucasb-eyer/go-colorful"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modloader/internal/script"
)

// defaultTextColor is used when a script draws text without a color.
var defaultTextColor = colorful.Color{R: 1, G: 1, B: 1}

// argBase returns the index of the first real argument so that both
// ctx.text(...) and ctx:text(...) work.
func argBase(L *lua.LState) int {
	if L.GetTop() > 0 && L.Get(1).Type() == lua.LTTable {
		return 2
	}
	return 1
}

// checkColor reads an optional "#rrggbb" argument.
func checkColor(L *lua.LState, n int) colorful.Color {
	hex := L.OptString(n, "")
	if hex == "" {
		return defaultTextColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		L.ArgError(n, "invalid color "+hex)
		return defaultTextColor
	}
	return c
}

// newDrawContext exposes surf to a draw callback.
func newDrawContext(L *lua.LState, surf script.Surface) *lua.LTable {
	ctx := L.NewTable()
	L.SetFuncs(ctx, map[string]lua.LGFunction{
		"text": func(L *lua.LState) int {
			b := argBase(L)
			x := L.CheckInt(b)
			y := L.CheckInt(b + 1)
			text := L.CheckString(b + 2)
			surf.DrawText(x, y, text, checkColor(L, b+3))
			return 0
		},
		"width": func(L *lua.LState) int {
			w, _ := surf.Size()
			L.Push(lua.LNumber(w))
			return 1
		},
		"height": func(L *lua.LState) int {
			_, h := surf.Size()
			L.Push(lua.LNumber(h))
			return 1
		},
	})
	return ctx
}

// newOptionsContext exposes w to an options callback.
func newOptionsContext(L *lua.LState, w script.Widgets) *lua.LTable {
	ui := L.NewTable()
	L.SetFuncs(ui, map[string]lua.LGFunction{
		"text": func(L *lua.LState) int {
			w.Text(L.CheckString(argBase(L)))
			return 0
		},
		"text_colored": func(L *lua.LState) int {
			b := argBase(L)
			c := checkColor(L, b)
			w.TextColored(c, L.CheckString(b+1))
			return 0
		},
		"text_wrapped": func(L *lua.LState) int {
			w.TextWrapped(L.CheckString(argBase(L)))
			return 0
		},
		"separator": func(L *lua.LState) int {
			w.Separator()
			return 0
		},
		"same_line": func(L *lua.LState) int {
			w.SameLine()
			return 0
		},
		"checkbox": func(L *lua.LState) int {
			b := argBase(L)
			label := L.CheckString(b)
			checked := L.OptBool(b+1, false)
			if w.Checkbox(label, checked) {
				checked = !checked
			}
			L.Push(lua.LBool(checked))
			return 1
		},
	})
	return ui
}

// readMeta converts the script's global meta table.
func readMeta(L *lua.LState) script.Meta {
	tbl, ok := L.GetGlobal("meta").(*lua.LTable)
	if !ok {
		return script.Meta{}
	}
	str := func(key string) string {
		if v, ok := tbl.RawGetString(key).(lua.LString); ok {
			return string(v)
		}
		return ""
	}
	return script.Meta{
		Name:        str("name"),
		Author:      str("author"),
		Version:     str("version"),
		Description: str("description"),
		Unsafe:      lua.LVAsBool(tbl.RawGetString("unsafe")),
	}
}
