package lua

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single call into Lua.
const DefaultExecutionTimeout = 250 * time.Millisecond

// State wraps a gopher-lua state with a sandbox and per-call timeouts.
//
// gopher-lua's LState is not goroutine-safe and neither is State. The mod
// manager drives every state from the host's main loop.
type State struct {
	L *lua.LState

	executionTimeout time.Duration
	sandbox          *Sandbox
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each DoFile, DoString and
// Call. Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L)
	state.sandbox.Install()

	return state
}

// openSafeLibraries opens the Lua standard libraries that cannot reach
// outside the process.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	lua.OpenCoroutine(L)
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// Call calls a global Lua function with the given arguments and returns
// every value it returned.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}

	fnVal := s.L.GetGlobal(fn)
	if fnVal == lua.LNil {
		return nil, fmt.Errorf("function %q not found", fn)
	}
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	stackTop := s.L.GetTop()
	var results []lua.LValue
	err := s.run(func() error {
		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}
		nRet := s.L.GetTop() - stackTop
		results = make([]lua.LValue, 0, max(nRet, 0))
		for i := 0; i < nRet; i++ {
			results = append(results, s.L.Get(stackTop+i+1))
		}
		return nil
	})
	s.L.SetTop(stackTop)
	return results, err
}

// HasFunction returns true if name is a global Lua function.
func (s *State) HasFunction(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// Sandbox returns the state's sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// run executes fn under the execution timeout and turns Go panics raised
// from inside Lua callbacks into errors.
func (s *State) run(fn func() error) (err error) {
	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
