package lua

import lua "github.com/yuin/gopher-lua"

// Sandbox restricts what a script can reach.
type Sandbox struct {
	L *lua.LState

	unsafe bool
}

// safeModules can always be required.
var safeModules = map[string]bool{
	"string":    true,
	"table":     true,
	"math":      true,
	"coroutine": true,
}

// unsafeModules can be required once GrantUnsafe has been called.
var unsafeModules = map[string]bool{
	"io":    true,
	"os":    true,
	"debug": true,
}

// NewSandbox creates a sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install removes functions that load code from disk and replaces require
// with a whitelist.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// installSafeRequire clears package.path so nothing is loaded from disk and
// only allows modules that are already open.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.moduleAllowed(name) {
			if unsafeModules[name] {
				L.RaiseError("module %q requires the script to be declared unsafe", name)
			} else {
				L.RaiseError("module %q is not available", name)
			}
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}

// GrantUnsafe opens io, os and debug. Scripts that declare themselves
// unsafe get them; the host warns the user and keeps the script disabled
// until the user opts in.
func (s *Sandbox) GrantUnsafe() {
	if s.unsafe {
		return
	}
	s.unsafe = true
	lua.OpenIo(s.L)
	lua.OpenOs(s.L)
	lua.OpenDebug(s.L)
}

// moduleAllowed reports whether require(name) may succeed.
func (s *Sandbox) moduleAllowed(name string) bool {
	return safeModules[name] || (s.unsafe && unsafeModules[name])
}
