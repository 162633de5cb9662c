package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modloader/internal/script"
)

// Script is a mod script running in its own sandboxed State.
type Script struct {
	engine *Engine
	state  *State

	meta    script.Meta
	enabled bool

	// loaded is false when the main chunk failed; such a script keeps its
	// error result and does nothing else.
	loaded bool

	result    string
	hasResult bool

	messages []script.Message
}

var _ script.Script = (*Script)(nil)

func newScript(e *Engine, path string, enabled bool) *Script {
	s := &Script{
		engine: e,
		state:  NewState(WithExecutionTimeout(e.executionTimeout)),
	}
	s.state.RegisterFunc("message", s.luaMessage)
	s.state.RegisterFunc("print", s.luaPrint)

	if err := s.state.DoFile(path); err != nil {
		s.setResult(err.Error())
		return s
	}
	s.loaded = true

	s.meta = readMeta(s.state.L)
	if s.meta.Unsafe {
		s.state.Sandbox().GrantUnsafe()
	}
	s.setResult(script.ResultMetadataFetched)

	s.SetEnabled(enabled)
	return s
}

// Update implements script.Script.
func (s *Script) Update() {
	if !s.loaded || !s.enabled {
		return
	}
	if !s.state.HasFunction("update") {
		s.setResult(script.ResultOK)
		return
	}
	if _, err := s.state.Call("update"); err != nil {
		s.setResult(err.Error())
		return
	}
	s.setResult(script.ResultOK)
}

// Messages implements script.Script.
func (s *Script) Messages() []script.Message {
	out := make([]script.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Result implements script.Script.
func (s *Script) Result() (string, bool) {
	return s.result, s.hasResult
}

// Meta implements script.Script.
func (s *Script) Meta() script.Meta {
	return s.meta
}

// Enabled implements script.Script.
func (s *Script) Enabled() bool {
	return s.enabled
}

// SetEnabled implements script.Script. on_enable and on_disable run on
// transitions only.
func (s *Script) SetEnabled(enabled bool) {
	if s.enabled == enabled {
		return
	}
	s.enabled = enabled
	if !s.loaded {
		return
	}

	hook := "on_disable"
	if enabled {
		hook = "on_enable"
	}
	if !s.state.HasFunction(hook) {
		return
	}
	if _, err := s.state.Call(hook); err != nil {
		s.setResult(err.Error())
	}
}

// DrawOptions implements script.Script.
func (s *Script) DrawOptions(w script.Widgets) {
	if !s.loaded || !s.state.HasFunction("options") {
		return
	}
	if _, err := s.state.Call("options", newOptionsContext(s.state.L, w)); err != nil {
		s.setResult(err.Error())
	}
}

// Draw implements script.Script. It ignores the enabled flag.
func (s *Script) Draw(surf script.Surface) {
	if !s.loaded || !s.state.HasFunction("draw") {
		return
	}
	if _, err := s.state.Call("draw", newDrawContext(s.state.L, surf)); err != nil {
		s.setResult(err.Error())
	}
}

// Close implements script.Script.
func (s *Script) Close() error {
	s.messages = nil
	return s.state.Close()
}

func (s *Script) setResult(res string) {
	s.result = res
	s.hasResult = true
}

func (s *Script) pushMessage(text string) {
	s.messages = append(s.messages, script.Message{
		Text:      text,
		Timestamp: s.engine.stamp(),
	})
	if over := len(s.messages) - s.engine.maxMessages; over > 0 {
		s.messages = append(s.messages[:0], s.messages[over:]...)
	}
}

func (s *Script) luaMessage(L *lua.LState) int {
	s.pushMessage(L.CheckString(1))
	return 0
}

func (s *Script) luaPrint(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	s.pushMessage(strings.Join(parts, "\t"))
	return 0
}
