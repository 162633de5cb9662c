package mod

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/modloader/internal/host"
	"github.com/dshills/modloader/internal/script"
)

type fixture struct {
	engine *fakeEngine
	host   *fakeHost
	logs   *observer.ObservedLogs
	m      *Manager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		engine: newFakeEngine(),
		host:   &fakeHost{screen: host.ScreenMenu},
		logs:   logs,
	}
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	f.m = NewManager(f.engine, f.host, opts...)
	t.Cleanup(func() { _ = f.m.Close() })
	return f
}

func names(infos []ModInfo) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name)
	}
	return out
}

func errorLogs(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterLevelExact(zapcore.ErrorLevel).All() {
		out = append(out, e.Message)
	}
	return out
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.m.Register("a", "a.lua", 1, true))
	assert.False(t, f.m.Register("a", "other.lua", 99, false))

	mods := f.m.Mods()
	require.Len(t, mods, 1)
	assert.Equal(t, "a.lua", mods[0].Path)
	assert.Equal(t, int64(1), mods[0].Priority)
}

func TestRegisterPriorityOrder(t *testing.T) {
	f := newFixture(t)

	f.m.Register("five-a", "1.lua", 5, true)
	f.m.Register("one", "2.lua", 1, true)
	f.m.Register("five-b", "3.lua", 5, true)
	f.m.Register("ten", "4.lua", 10, true)

	assert.Equal(t, []string{"ten", "five-a", "five-b", "one"}, names(f.m.Mods()))
}

func TestRegisterNegativePriorities(t *testing.T) {
	f := newFixture(t)

	f.m.Register("low", "1.lua", -10, true)
	f.m.Register("zero", "2.lua", 0, true)
	f.m.Register("lower", "3.lua", -20, true)
	f.m.Register("low-2", "4.lua", -10, true)

	assert.Equal(t, []string{"zero", "low", "low-2", "lower"}, names(f.m.Mods()))
}

func TestRegisterNotifiesHostForEnabledMods(t *testing.T) {
	f := newFixture(t)

	f.m.Register("off", "off.lua", 0, false)
	assert.Empty(t, f.host.modTypes)

	f.m.Register("on", "on.lua", 0, true)
	assert.Equal(t, []host.ModType{host.ModTypeScript}, f.host.modTypes)
}

func TestRegisterAfterCommit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	assert.False(t, f.m.Register("late", "late.lua", 0, true))
	assert.Empty(t, f.m.Mods())
}

func TestScriptModsDisabled(t *testing.T) {
	f := newFixture(t, WithScriptModsDisabled())

	assert.True(t, f.m.Register("a", "a.lua", 0, true))
	assert.Empty(t, f.m.Mods())
	assert.Empty(t, f.host.modTypes)
	assert.True(t, f.m.NeedsWindow())

	require.NoError(t, f.m.Commit(fakeSettings{}))
	assert.Empty(t, f.engine.created)

	w := &recordingWidgets{}
	f.m.WindowDraw(w)
	assert.Equal(t, []string{"separator", "wrapped:" + disabledNotice}, w.calls)
}

func TestCommitInstantiatesEnabledMods(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 2, true)
	f.m.Register("b", "b.lua", 1, false)
	f.m.Register("c", "c.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{}))

	require.Len(t, f.engine.created, 2)
	for _, s := range f.engine.created {
		assert.Equal(t, []bool{true}, s.enableCalls, s.path)
	}

	for _, info := range f.m.Mods() {
		assert.Equal(t, info.Enabled, info.HasScript, info.Name)
	}
	assert.Empty(t, f.logs.FilterLevelExact(zapcore.ErrorLevel).All(), "sentinel result is not logged")
}

func TestCommitUnsafeForcesDisabled(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["bad.lua"] = func(s *fakeScript) { s.meta.Unsafe = true }
	f.m.Register("bad", "bad.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{}))

	rec, ok := f.m.Record("bad")
	require.True(t, ok)
	assert.True(t, rec.Unsafe())
	assert.False(t, rec.ScriptEnabled())

	s := f.engine.latest("bad.lua")
	assert.False(t, s.enabled)
	assert.Empty(t, s.enableCalls)
}

func TestCommitCreateFailureLeavesModInert(t *testing.T) {
	f := newFixture(t)
	f.engine.fail["broken.lua"] = true
	f.m.Register("broken", "broken.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{}))

	rec, _ := f.m.Record("broken")
	assert.Nil(t, rec.Script())
	assert.Equal(t, 1, f.logs.FilterMessage("failed to create script").Len())

	f.m.Update()
	f.m.Draw(&recordingSurface{width: 80, height: 24})
	assert.False(t, f.m.SetScriptEnabled("broken", true))
}

func TestCommitLogsLoadError(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) { s.result = "main.lua:3: syntax error" }
	f.m.Register("a", "a.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{}))

	assert.Equal(t, []string{"main.lua:3: syntax error"}, errorLogs(f.logs))
	rec, _ := f.m.Record("a")
	assert.Equal(t, "main.lua:3: syntax error", rec.LastError())
}

func TestCommitTwice(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{}))
	err := f.m.Commit(fakeSettings{})

	assert.ErrorIs(t, err, ErrAlreadyCommitted)
	assert.Len(t, f.engine.created, 1)
}

func TestCommitConsole(t *testing.T) {
	consoleOn := fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}

	tests := []struct {
		name     string
		settings fakeSettings
		want     bool
	}{
		{"off by default", fakeSettings{}, false},
		{"enabled", consoleOn, true},
		{"speedrun wins", fakeSettings{
			SectionScript + "." + KeyDeveloperConsole: true,
			SectionGeneral + "." + KeySpeedrunMode:    true,
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := &fakeConsole{}
			dir := t.TempDir()
			f := newFixture(t,
				WithDataDir(dir),
				WithConsoleFactory(func() (Console, error) { return console, nil }),
			)

			require.NoError(t, f.m.Commit(tt.settings))

			if !tt.want {
				assert.Nil(t, f.m.Console())
				return
			}
			assert.Same(t, console, f.m.Console())
			assert.Equal(t, DefaultConsoleHistorySize, console.maxHistory)
			assert.Equal(t, []string{filepath.Join(dir, HistoryFile)}, console.loaded)
		})
	}
}

func TestCommitConsoleHistorySize(t *testing.T) {
	console := &fakeConsole{}
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))

	require.NoError(t, f.m.Commit(fakeSettings{
		SectionScript + "." + KeyDeveloperConsole:   true,
		SectionScript + "." + KeyConsoleHistorySize: 5,
	}))
	assert.Equal(t, 5, console.maxHistory)
}

func TestCommitConsoleFactoryError(t *testing.T) {
	f := newFixture(t, WithConsoleFactory(func() (Console, error) {
		return nil, errors.New("no lua")
	}))
	f.m.Register("a", "a.lua", 0, true)

	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	assert.Nil(t, f.m.Console())
	assert.Equal(t, 1, f.logs.FilterMessage("failed to create developer console").Len())
	assert.Len(t, f.engine.created, 1)
}

func TestUpdateDeduplicatesErrors(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) {
		s.results = []string{"ok", "ok", "Error A", "Error A", "Error B"}
	}
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	for range 5 {
		f.m.Update()
	}

	assert.Equal(t, []string{"Error A", "Error B"}, errorLogs(f.logs))
	rec, _ := f.m.Record("a")
	assert.Equal(t, "Error B", rec.LastError())

	entry := f.logs.FilterLevelExact(zapcore.ErrorLevel).All()[0]
	assert.Equal(t, "a", entry.ContextMap()["mod"])
}

func TestUpdateRepeatsErrorAfterDifferentOne(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) {
		s.results = []string{"Error A", "Error B", "Error A"}
	}
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	for range 3 {
		f.m.Update()
	}
	assert.Equal(t, []string{"Error A", "Error B", "Error A"}, errorLogs(f.logs))
}

func TestUpdateMessageTimestamps(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) {
		s.messages = []script.Message{
			{Text: "three", Timestamp: 3},
			{Text: "seven", Timestamp: 7},
			{Text: "five", Timestamp: 5},
		}
	}
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.Update()

	rec, _ := f.m.Record("a")
	assert.Equal(t, int64(7), rec.LastMessageTimestamp())

	infos := f.logs.FilterLevelExact(zapcore.InfoLevel).FilterField(zap.String("mod", "a"))
	assert.Equal(t, 3, infos.Len())

	// Messages already seen are not logged again.
	s := f.engine.latest("a.lua")
	s.messages = append(s.messages,
		script.Message{Text: "six", Timestamp: 6},
		script.Message{Text: "eight", Timestamp: 8},
	)
	f.m.Update()

	infos = f.logs.FilterLevelExact(zapcore.InfoLevel).FilterField(zap.String("mod", "a"))
	require.Equal(t, 4, infos.Len())
	assert.Equal(t, "eight", infos.All()[3].Message)
	assert.Equal(t, int64(8), rec.LastMessageTimestamp())
}

func TestUpdateOrderFollowsPriority(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{"low.lua", "high.lua"} {
		f.engine.setup[p] = func(s *fakeScript) {
			s.messages = []script.Message{{Text: s.path, Timestamp: 1}}
		}
	}
	f.m.Register("low", "low.lua", 1, true)
	f.m.Register("high", "high.lua", 2, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.Update()

	var got []string
	for _, e := range f.logs.FilterLevelExact(zapcore.InfoLevel).All() {
		if _, ok := e.ContextMap()["mod"]; ok {
			got = append(got, e.Message)
		}
	}
	assert.Equal(t, []string{"high.lua", "low.lua"}, got)
}

func TestUpdateRecoversPanics(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["bad.lua"] = func(s *fakeScript) { s.panicOnUpdate = true }
	f.m.Register("bad", "bad.lua", 2, true)
	f.m.Register("good", "good.lua", 1, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	assert.NotPanics(t, f.m.Update)
	assert.NotPanics(t, f.m.Update)

	assert.Equal(t, []string{"panic: script exploded"}, errorLogs(f.logs))
	assert.Equal(t, 2, f.engine.latest("good.lua").updates)
}

func TestCommitRecoversPanics(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["bad.lua"] = func(s *fakeScript) { s.panicOnMeta = true }
	f.m.Register("bad", "bad.lua", 2, true)
	f.m.Register("good", "good.lua", 1, true)

	require.NotPanics(t, func() {
		require.NoError(t, f.m.Commit(fakeSettings{}))
	})

	assert.Equal(t, []string{"panic: meta exploded"}, errorLogs(f.logs))
	bad := f.engine.latest("bad.lua")
	assert.Equal(t, 1, bad.closed)
	assert.Empty(t, bad.enableCalls)
	assert.Equal(t, []bool{true}, f.engine.latest("good.lua").enableCalls)

	f.m.Update()
	assert.Zero(t, bad.updates)
	assert.Equal(t, 1, f.engine.latest("good.lua").updates)
}

func TestDrawRecoversPanics(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["bad.lua"] = func(s *fakeScript) { s.panicOnDraw = true }
	f.m.Register("bad", "bad.lua", 2, true)
	f.m.Register("good", "good.lua", 1, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	surface := &recordingSurface{width: 80, height: 24}
	assert.NotPanics(t, func() { f.m.Draw(surface) })
	assert.NotPanics(t, func() { f.m.Draw(surface) })

	assert.Equal(t, []string{"panic: draw exploded"}, errorLogs(f.logs))
	bad := f.engine.latest("bad.lua")
	assert.Equal(t, 1, bad.draws)
	assert.Equal(t, 1, bad.closed)
	assert.Equal(t, 2, f.engine.latest("good.lua").draws)
}

func TestWindowDrawRecoversPanics(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["bad.lua"] = func(s *fakeScript) { s.panicOnOptions = true }
	f.m.Register("bad", "bad.lua", 2, true)
	f.m.Register("good", "good.lua", 1, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	w := &recordingWidgets{}
	assert.NotPanics(t, func() { f.m.WindowDraw(w) })
	assert.Contains(t, w.calls, "text:options of good.lua")

	w.calls = nil
	assert.NotPanics(t, func() { f.m.WindowDraw(w) })
	assert.NotContains(t, w.calls, "checkbox:bad:on")
	assert.Contains(t, w.calls, "text:options of good.lua")

	assert.Equal(t, []string{"panic: options exploded"}, errorLogs(f.logs))
	assert.Equal(t, 1, f.engine.latest("bad.lua").options)
}

func TestUpdateSkipsInertMods(t *testing.T) {
	f := newFixture(t)
	f.m.Register("off", "off.lua", 0, false)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.Update()
	assert.Empty(t, f.engine.created)
}

func TestUpdateForwardsConsoleMessages(t *testing.T) {
	console := &fakeConsole{
		messages: []script.Message{{Text: "> 1+1"}, {Text: "2"}},
	}
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	f.m.Update()
	f.m.Update()

	assert.Equal(t, 2, console.updates)
	assert.Equal(t, 2, console.consumed)
	logged := f.logs.FilterField(zap.String("source", "dev-console"))
	require.Equal(t, 2, logged.Len())
	assert.Equal(t, "2", logged.All()[1].Message)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) { s.results = []string{"Error A"} }
	f.m.Register("a", "a.lua", 2, true)
	f.m.Register("b", "b.lua", 1, true)
	f.m.Register("c", "c.lua", 0, false)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.Update()
	require.True(t, f.m.SetScriptEnabled("b", false))

	oldA := f.engine.latest("a.lua")
	oldB := f.engine.latest("b.lua")
	require.NoError(t, f.m.Refresh())

	assert.Equal(t, 1, oldA.closed)
	assert.Equal(t, 1, oldB.closed)
	assert.Len(t, f.engine.created, 5, "every record is recreated")

	recA, _ := f.m.Record("a")
	assert.Empty(t, recA.LastError())
	assert.NotSame(t, oldA, recA.Script())

	assert.True(t, f.engine.latest("a.lua").enabled)
	assert.False(t, f.engine.latest("b.lua").enabled)
	assert.False(t, f.engine.latest("c.lua").enabled)

	assert.Equal(t, []string{"a", "b", "c"}, names(f.m.Mods()))
}

func TestRefreshLogsErrorAgain(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) { s.results = []string{"Error A"} }
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.Update()
	require.NoError(t, f.m.Refresh())
	f.m.Update()

	assert.Equal(t, []string{"Error A", "Error A"}, errorLogs(f.logs))
}

func TestRefreshCreateFailure(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	old := f.engine.latest("a.lua")
	f.engine.fail["a.lua"] = true
	require.NoError(t, f.m.Refresh())

	assert.Equal(t, 1, old.closed)
	rec, _ := f.m.Record("a")
	assert.Nil(t, rec.Script())
}

func TestRefreshBeforeCommit(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 0, true)

	assert.ErrorIs(t, f.m.Refresh(), ErrNotCommitted)
	assert.Empty(t, f.engine.created)
}

func TestNeedsWindow(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.m.NeedsWindow(), "nothing registered")

	f.m.SetForceShowOptions(true)
	assert.False(t, f.m.NeedsWindow(), "force does not beat empty")
	f.m.SetForceShowOptions(false)

	f.m.Register("a", "a.lua", 0, false)
	assert.True(t, f.m.NeedsWindow())

	f.host.screen = host.ScreenGame
	assert.False(t, f.m.NeedsWindow())

	f.m.SetForceShowOptions(true)
	assert.True(t, f.m.ForceShowOptions())
	assert.True(t, f.m.NeedsWindow())
}

func TestNeedsWindowWithOnlyConsole(t *testing.T) {
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return &fakeConsole{}, nil }))
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	assert.True(t, f.m.NeedsWindow())
}

func TestWindowDrawCursorTransitions(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	w := &recordingWidgets{}
	f.m.WindowDraw(w)
	f.m.WindowDraw(w)
	assert.Equal(t, 1, f.host.shown)
	assert.Equal(t, 0, f.host.hidden)

	f.host.screen = host.ScreenGame
	f.m.WindowDraw(w)
	f.m.WindowDraw(w)
	assert.Equal(t, 1, f.host.shown)
	assert.Equal(t, 1, f.host.hidden)

	f.m.SetForceShowOptions(true)
	f.m.WindowDraw(w)
	assert.Equal(t, 2, f.host.shown)
}

func TestWindowDrawEmpty(t *testing.T) {
	f := newFixture(t)
	w := &recordingWidgets{}
	f.m.WindowDraw(w)

	assert.Empty(t, w.calls)
	assert.Zero(t, f.host.shown)
}

func TestWindowDrawHiddenDrawsNothing(t *testing.T) {
	f := newFixture(t)
	f.host.screen = host.ScreenGame
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	w := &recordingWidgets{}
	f.m.WindowDraw(w)
	assert.Empty(t, w.calls)
}

func TestWindowDrawModSection(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) {
		s.meta = script.Meta{Name: "Alpha", Author: "ann", Version: "1.2", Description: "does alpha things"}
	}
	f.engine.setup["b.lua"] = func(s *fakeScript) {
		s.meta = script.Meta{Name: "Beta", Author: "bob"}
	}
	f.m.Register("a", "a.lua", 2, true)
	f.m.Register("b", "b.lua", 1, true)
	f.m.Register("c", "c.lua", 0, false)
	require.NoError(t, f.m.Commit(fakeSettings{}))
	require.True(t, f.m.SetScriptEnabled("b", false))

	w := &recordingWidgets{}
	f.m.WindowDraw(w)

	assert.Equal(t, []string{
		"separator",
		"checkbox:Alpha:on",
		"same_line",
		"text:|",
		"same_line",
		"text:Version 1.2",
		"right:by ann",
		"wrapped:does alpha things",
		"text:options of a.lua",
		"separator",
		"checkbox:Beta:off",
		"right:by bob",
	}, w.calls)
}

func TestWindowDrawCheckboxTogglesScript(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) { s.meta.Name = "Alpha" }
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	f.m.WindowDraw(&recordingWidgets{toggle: map[string]bool{"Alpha": true}})

	rec, _ := f.m.Record("a")
	assert.False(t, rec.ScriptEnabled())
	s := f.engine.latest("a.lua")
	assert.Equal(t, []bool{true, false}, s.enableCalls)

	f.m.WindowDraw(&recordingWidgets{toggle: map[string]bool{"Alpha": true}})
	assert.True(t, rec.ScriptEnabled())
	assert.True(t, s.enabled)
}

func TestWindowDrawUnsafeWarning(t *testing.T) {
	f := newFixture(t)
	f.engine.setup["a.lua"] = func(s *fakeScript) {
		s.meta = script.Meta{Name: "Danger", Author: "eve", Unsafe: true}
	}
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))

	w := &recordingWidgets{}
	f.m.WindowDraw(w)
	assert.Contains(t, w.calls, "colored:"+unsafeWarning)
	assert.Zero(t, f.engine.latest("a.lua").options)

	// Opting in hides the warning and shows the mod's options.
	w = &recordingWidgets{toggle: map[string]bool{"Danger": true}}
	f.m.WindowDraw(w)
	w = &recordingWidgets{}
	f.m.WindowDraw(w)
	assert.NotContains(t, w.calls, "colored:"+unsafeWarning)
	assert.Equal(t, 2, f.engine.latest("a.lua").options)
}

func TestWindowDrawConsolePanel(t *testing.T) {
	console := &fakeConsole{}
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	w := &recordingWidgets{}
	f.m.WindowDraw(w)

	assert.Equal(t, []string{"separator", "text:Dev-Console"}, w.calls)
	assert.Equal(t, 1, console.options)
}

func TestSetScriptEnabledUnknown(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.m.SetScriptEnabled("nope", true))
}

func TestDrawIgnoresScriptEnabled(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 1, true)
	f.m.Register("b", "b.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))
	require.True(t, f.m.SetScriptEnabled("b", false))

	f.m.Draw(&recordingSurface{width: 80, height: 24})

	assert.Equal(t, 1, f.engine.latest("a.lua").draws)
	assert.Equal(t, 1, f.engine.latest("b.lua").draws)
}

func TestDrawOnlineBanner(t *testing.T) {
	tests := []struct {
		name    string
		screen  host.Screen
		enabled bool
		want    bool
	}{
		{"online with enabled script", host.ScreenOnline, true, true},
		{"online with every script disabled", host.ScreenOnline, false, false},
		{"local play", host.ScreenGame, true, false},
		{"menu", host.ScreenMenu, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.m.Register("a", "a.lua", 0, true)
			require.NoError(t, f.m.Commit(fakeSettings{}))
			f.m.SetScriptEnabled("a", tt.enabled)
			f.host.screen = tt.screen

			surf := &recordingSurface{width: 120, height: 30}
			f.m.Draw(surf)

			if !tt.want {
				assert.Empty(t, surf.calls)
				return
			}
			require.Len(t, surf.calls, 30)
			for i, c := range surf.calls {
				assert.Equal(t, i, c.y)
				assert.Equal(t, bannerLine, c.text)
				assert.Equal(t, (120-len(bannerLine))/2, c.x)
			}
		})
	}
}

func TestDrawOnlineBannerCentersVertically(t *testing.T) {
	f := newFixture(t)
	f.m.Register("a", "a.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{}))
	f.host.screen = host.ScreenOnline

	surf := &recordingSurface{width: 80, height: 100}
	f.m.Draw(surf)

	require.Len(t, surf.calls, bannerRows)
	assert.Equal(t, (100-bannerRows)/2, surf.calls[0].y)
}

func TestBannerColorCycles(t *testing.T) {
	assert.Equal(t, bannerColor(3), bannerColor(3))
	assert.NotEqual(t, bannerColor(0), bannerColor(1))

	c := bannerColor(0)
	assert.InDelta(t, 0.5, c.R, 1e-9)
	for i := range bannerRows {
		c := bannerColor(i)
		for _, v := range []float64{c.R, c.G, c.B} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestDrawSavesConsoleHistory(t *testing.T) {
	console := &fakeConsole{}
	dir := t.TempDir()
	f := newFixture(t,
		WithDataDir(dir),
		WithConsoleFactory(func() (Console, error) { return console, nil }),
	)
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	surf := &recordingSurface{width: 80, height: 24}
	f.m.Draw(surf)
	assert.Empty(t, console.saved)
	assert.Equal(t, 1, console.draws)

	console.newHistory = true
	f.m.Draw(surf)
	f.m.Draw(surf)
	assert.Equal(t, []string{filepath.Join(dir, HistoryFile)}, console.saved)
}

func TestDrawHistorySaveFailure(t *testing.T) {
	console := &fakeConsole{newHistory: true, saveErr: errors.New("disk full")}
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	surface := &recordingSurface{width: 80, height: 24}
	for range 3 {
		f.m.Draw(surface)
	}

	assert.Len(t, console.saved, 3)
	warn := f.logs.FilterMessage("failed to save console history")
	require.Equal(t, 1, warn.Len())
	assert.Equal(t, zapcore.WarnLevel, warn.All()[0].Level)

	// A success clears the failure so the next one is reported again.
	console.saveErr = nil
	f.m.Draw(surface)
	console.newHistory = true
	console.saveErr = errors.New("disk full")
	f.m.Draw(surface)
	assert.Equal(t, 2, f.logs.FilterMessage("failed to save console history").Len())
}

func TestConsolePassthrough(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.m.IsConsoleToggled())
	assert.NotPanics(t, f.m.ToggleConsole)
	assert.Nil(t, f.m.Console())

	console := &fakeConsole{}
	g := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))
	require.NoError(t, g.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	g.m.ToggleConsole()
	assert.True(t, g.m.IsConsoleToggled())
	g.m.ToggleConsole()
	assert.False(t, g.m.IsConsoleToggled())
}

func TestCloseReleasesEverything(t *testing.T) {
	console := &fakeConsole{}
	f := newFixture(t, WithConsoleFactory(func() (Console, error) { return console, nil }))
	f.m.Register("a", "a.lua", 0, true)
	f.m.Register("b", "b.lua", 0, true)
	require.NoError(t, f.m.Commit(fakeSettings{SectionScript + "." + KeyDeveloperConsole: true}))

	require.NoError(t, f.m.Close())
	require.NoError(t, f.m.Close())

	for _, s := range f.engine.created {
		assert.Equal(t, 1, s.closed, s.path)
	}
	assert.Equal(t, 1, console.closed)
	assert.Nil(t, f.m.Console())
}
