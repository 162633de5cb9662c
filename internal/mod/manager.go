package mod

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dshills/modloader/internal/host"
	"github.com/dshills/modloader/internal/script"
)

// Manager owns every registered script mod and drives them once per frame.
//
// A Manager is not safe for concurrent use. The host calls Register for
// every mod, then Commit once, then Update and Draw every frame.
type Manager struct {
	engine script.Engine
	host   host.Host
	logger *zap.Logger

	newConsole ConsoleFactory
	dataDir    string

	// scriptModsDisabled turns the manager into a notice-only shell.
	scriptModsDisabled bool

	// records is sorted by priority, highest first.
	records []*Record
	byName  map[string]*Record

	console   Console
	committed bool

	// historyErr is the last history save failure, logged once.
	historyErr string

	forceShowOptions bool
	cursorShown      bool
	bannerFrame      int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConsoleFactory sets how the developer console is built at Commit.
// Without it no console is created.
func WithConsoleFactory(f ConsoleFactory) Option {
	return func(m *Manager) {
		m.newConsole = f
	}
}

// WithDataDir sets where console history is kept.
func WithDataDir(dir string) Option {
	return func(m *Manager) {
		m.dataDir = dir
	}
}

// WithScriptModsDisabled makes Register accept and drop every mod. The
// options window shows a notice instead.
func WithScriptModsDisabled() Option {
	return func(m *Manager) {
		m.scriptModsDisabled = true
	}
}

// NewManager creates a manager that creates scripts with engine.
func NewManager(engine script.Engine, h host.Host, opts ...Option) *Manager {
	m := &Manager{
		engine: engine,
		host:   h,
		logger: zap.NewNop(),
		byName: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a mod. It returns false if name is taken or the manager
// was already committed.
func (m *Manager) Register(name, path string, priority int64, enabled bool) bool {
	if m.scriptModsDisabled {
		return true
	}
	if m.committed {
		m.logger.Warn("mod registered after commit", zap.String("mod", name))
		return false
	}
	if _, exists := m.byName[name]; exists {
		return false
	}

	rec := newRecord(name, path, priority, enabled)
	pos := m.insertPosition(priority)
	m.records = append(m.records, nil)
	copy(m.records[pos+1:], m.records[pos:])
	m.records[pos] = rec
	m.byName[name] = rec

	if enabled {
		m.host.RegisterModType(host.ModTypeScript)
	}
	return true
}

// insertPosition returns the first index whose priority is strictly less
// than priority.
func (m *Manager) insertPosition(priority int64) int {
	lo, hi := 0, len(m.records)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if m.records[mid].priority >= priority {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Commit creates the console and a script for every enabled mod. It may be
// called once; use Refresh to reload.
func (m *Manager) Commit(settings Settings) error {
	if m.committed {
		return ErrAlreadyCommitted
	}
	m.committed = true

	if settings.GetBool(SectionScript, KeyDeveloperConsole, false) &&
		!settings.GetBool(SectionGeneral, KeySpeedrunMode, false) {
		m.openConsole(settings.GetInt(SectionScript, KeyConsoleHistorySize, DefaultConsoleHistorySize))
	}

	for _, rec := range m.records {
		if !rec.enabled {
			continue
		}
		handle, err := script.Open(m.engine, rec.path, false)
		if err != nil {
			m.logger.Warn("failed to create script", zap.String("mod", rec.name), zap.Error(err))
			continue
		}
		rec.handle = handle
		m.guard(rec, func() { m.startRecord(rec) })
	}
	return nil
}

func (m *Manager) startRecord(rec *Record) {
	m.testScriptResult(rec)

	s := rec.handle.Script()
	rec.unsafe = s.Meta().Unsafe
	if rec.unsafe {
		rec.scriptEnabled = false
	} else {
		s.SetEnabled(rec.scriptEnabled)
	}
}

// guard runs fn and reports a panic as the record's error. A record that
// panicked loses its script until the next Refresh.
func (m *Manager) guard(rec *Record, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.reportError(rec, fmt.Sprintf("panic: %v", r))
			rec.release()
		}
	}()
	fn()
}

func (m *Manager) openConsole(historySize int) {
	if m.newConsole == nil {
		return
	}
	console, err := m.newConsole()
	if err != nil {
		m.logger.Warn("failed to create developer console", zap.Error(err))
		return
	}
	console.SetMaxHistory(historySize)
	if err := console.LoadHistory(m.historyPath()); err != nil {
		m.logger.Warn("failed to load console history", zap.Error(err))
	}
	m.console = console
}

func (m *Manager) historyPath() string {
	return filepath.Join(m.dataDir, HistoryFile)
}

// Refresh reloads every mod's script from disk, keeping each mod's toggle.
// Script state is lost.
func (m *Manager) Refresh() error {
	if !m.committed {
		return ErrNotCommitted
	}

	for _, rec := range m.records {
		rec.release()
		rec.lastError = ""

		handle, err := script.Open(m.engine, rec.path, rec.scriptEnabled)
		if err != nil {
			m.logger.Warn("failed to reload script", zap.String("mod", rec.name), zap.Error(err))
			continue
		}
		rec.handle = handle
		m.guard(rec, func() { rec.unsafe = handle.Script().Meta().Unsafe })
	}
	m.logger.Info("reloaded script mods", zap.Int("count", len(m.records)))
	return nil
}

// Update ticks the console and every live script, logging new messages
// and errors.
func (m *Manager) Update() {
	if m.console != nil {
		m.console.Update()
		for _, msg := range m.console.Messages() {
			m.logger.Info(msg.Text, zap.String("source", "dev-console"))
		}
		m.console.ConsumeMessages()
	}

	for _, rec := range m.records {
		if rec.handle == nil {
			continue
		}
		m.guard(rec, func() { m.updateRecord(rec) })
	}
}

func (m *Manager) updateRecord(rec *Record) {
	s := rec.handle.Script()
	s.Update()
	m.testScriptResult(rec)

	newest := rec.lastMessageTimestamp
	for _, msg := range s.Messages() {
		if msg.Timestamp <= rec.lastMessageTimestamp {
			continue
		}
		m.logger.Info(msg.Text, zap.String("mod", rec.name))
		if msg.Timestamp > newest {
			newest = msg.Timestamp
		}
	}
	rec.lastMessageTimestamp = newest
}

// testScriptResult logs the script's result once if it is an error.
func (m *Manager) testScriptResult(rec *Record) {
	res, ok := rec.handle.Script().Result()
	if !ok || script.IsSentinel(res) {
		return
	}
	m.reportError(rec, res)
}

func (m *Manager) reportError(rec *Record, text string) {
	if text == rec.lastError {
		return
	}
	m.logger.Error(text, zap.String("mod", rec.name))
	rec.lastError = text
}

// SetScriptEnabled switches a mod's script on or off. It returns false for
// unknown mods and mods without a live script.
func (m *Manager) SetScriptEnabled(name string, enabled bool) bool {
	rec, ok := m.byName[name]
	if !ok || rec.handle == nil {
		return false
	}
	rec.scriptEnabled = enabled
	m.guard(rec, func() { rec.handle.Script().SetEnabled(enabled) })
	return true
}

// empty reports whether there is nothing to show at all.
func (m *Manager) empty() bool {
	return len(m.records) == 0 && m.console == nil && !m.scriptModsDisabled
}

// optionsVisible reports whether the options window should be shown.
func (m *Manager) optionsVisible() bool {
	return m.forceShowOptions || m.host.Screen() == host.ScreenMenu
}

// NeedsWindow reports whether the host should call WindowDraw this frame.
func (m *Manager) NeedsWindow() bool {
	if m.empty() {
		return false
	}
	return m.optionsVisible()
}

// SetForceShowOptions shows the options window on every screen.
func (m *Manager) SetForceShowOptions(force bool) {
	m.forceShowOptions = force
}

// ForceShowOptions reports whether the options window is forced on.
func (m *Manager) ForceShowOptions() bool {
	return m.forceShowOptions
}

// IsConsoleToggled reports whether the console is open.
func (m *Manager) IsConsoleToggled() bool {
	if m.console == nil {
		return false
	}
	return m.console.IsToggled()
}

// ToggleConsole opens or closes the console.
func (m *Manager) ToggleConsole() {
	if m.console == nil {
		return
	}
	m.console.Toggle()
}

// Console returns the developer console, or nil.
func (m *Manager) Console() Console {
	return m.console
}

// Mods returns a snapshot of every record in priority order.
func (m *Manager) Mods() []ModInfo {
	infos := make([]ModInfo, 0, len(m.records))
	for _, rec := range m.records {
		infos = append(infos, rec.info())
	}
	return infos
}

// Record returns the record registered under name.
func (m *Manager) Record(name string) (*Record, bool) {
	rec, ok := m.byName[name]
	return rec, ok
}

// Close releases every script and the console.
func (m *Manager) Close() error {
	for _, rec := range m.records {
		rec.release()
	}
	if m.console == nil {
		return nil
	}
	err := m.console.Close()
	m.console = nil
	return err
}
