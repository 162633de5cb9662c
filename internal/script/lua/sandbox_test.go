package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		assert.Equal(t, glua.LNil, s.GetGlobal(fn), fn)
	}
	for _, lib := range []string{"io", "os", "debug"} {
		assert.Equal(t, glua.LNil, s.GetGlobal(lib), lib)
	}
}

func TestSandboxRequire(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`local m = require("math"); assert(m.floor(1.5) == 1)`))
	assert.Error(t, s.DoString(`require("socket")`))
	assert.Error(t, s.DoString(`require("io")`))

	assert.True(t, s.Sandbox().moduleAllowed("string"))
	assert.False(t, s.Sandbox().moduleAllowed("os"))
	assert.False(t, s.Sandbox().moduleAllowed(" string"))
}

func TestSandboxGrantUnsafe(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.Sandbox().GrantUnsafe()
	s.Sandbox().GrantUnsafe()

	assert.True(t, s.Sandbox().unsafe)
	assert.True(t, s.Sandbox().moduleAllowed("os"))
	require.NoError(t, s.DoString(`assert(type(require("os").time()) == "number")`))
}

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`function add(a, b) return a + b, "done" end`))

	results, err := s.Call("add", glua.LNumber(2), glua.LNumber(3))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, glua.LNumber(5), results[0])
	assert.Equal(t, glua.LString("done"), results[1])
	assert.Equal(t, 0, s.L.GetTop(), "stack is restored")

	_, err = s.Call("missing")
	assert.Error(t, err)

	require.NoError(t, s.DoString(`notfn = 3`))
	_, err = s.Call("notfn")
	assert.Error(t, err)
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	assert.True(t, s.closed)

	assert.ErrorIs(t, s.DoString("x = 1"), ErrStateClosed)
	_, err := s.Call("f")
	assert.ErrorIs(t, err, ErrStateClosed)
	assert.False(t, s.HasFunction("f"))
}
