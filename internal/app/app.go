// Package app runs the mod manager inside a terminal host. It wires the
// configuration, logging, mod discovery and the script engine together and
// drives the frame loop.
package app

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/modloader/internal/config"
	"github.com/dshills/modloader/internal/console"
	"github.com/dshills/modloader/internal/logging"
	"github.com/dshills/modloader/internal/mod"
	"github.com/dshills/modloader/internal/renderer/backend"
	"github.com/dshills/modloader/internal/script/lua"
	"github.com/dshills/modloader/internal/ui"
)

// DefaultFrameRate is how many frames per second the loop targets.
const DefaultFrameRate = 30

// Application owns every component of a running mod loader.
type Application struct {
	mu sync.Mutex

	config   *config.Config
	logger   *zap.Logger
	ring     *logging.Ring
	closeLog func()

	host    *terminalHost
	manager *mod.Manager
	console *console.Console

	loader    *mod.Loader
	order     *mod.LoadOrder
	orderPath string
	mods      []*mod.ModDir
	watcher   *mod.Watcher

	backend backend.Backend
	canvas  *ui.Canvas
	panel   *ui.Panel

	showLog   bool
	pointerX  int
	pointerY  int
	mouseDown bool

	running atomic.Bool
	done    chan struct{}
	once    sync.Once

	opts Options
}

// Options configures the application. Empty fields fall back to the
// settings file.
type Options struct {
	// ConfigPath is the path to the settings file.
	ConfigPath string

	// ModsDir overrides paths.mods_dir.
	ModsDir string

	// DataDir overrides paths.data_dir.
	DataDir string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// FrameRate overrides DefaultFrameRate.
	FrameRate int
}

// New loads the settings, discovers mods and commits the manager.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
		host: newTerminalHost(),
	}
	if err := app.bootstrap(); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := LoadConfig(app.opts)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	logCfg := cfg.Logging()
	app.logger, app.ring, app.closeLog, err = logging.New(logging.Config{Level: logCfg.Level, File: logCfg.File})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	// The log file is appended to; the session tells runs apart.
	app.logger = app.logger.With(zap.String("session", uuid.NewString()))

	scriptCfg := cfg.Script()
	paths := cfg.Paths()
	engine := lua.NewEngine(lua.WithScriptTimeout(scriptCfg.ExecutionTimeout))

	managerOpts := []mod.Option{
		mod.WithLogger(app.logger),
		mod.WithDataDir(paths.DataDir),
		mod.WithConsoleFactory(func() (mod.Console, error) {
			app.console = console.New(console.WithExecutionTimeout(scriptCfg.ExecutionTimeout))
			return app.console, nil
		}),
	}
	if scriptCfg.DisableScriptMods {
		managerOpts = append(managerOpts, mod.WithScriptModsDisabled())
	}
	app.manager = mod.NewManager(engine, app.host, managerOpts...)

	app.loader = mod.NewLoader(paths.ModsDir)
	app.orderPath = filepath.Join(paths.DataDir, mod.LoadOrderFile)
	if err := app.discover(); err != nil {
		return &InitError{Component: "mods", Err: err}
	}
	if err := app.manager.Commit(cfg); err != nil {
		return &InitError{Component: "mod manager", Err: err}
	}

	if scriptCfg.AutoReload {
		w, err := mod.NewWatcher(app.loader.PacksPath(), mod.WithWatcherLogger(app.logger))
		if err != nil {
			app.logger.Warn("auto reload unavailable", zap.Error(err))
		} else {
			app.watcher = w
		}
	}

	app.logger.Info("mod loader ready",
		zap.String("mods_dir", paths.ModsDir),
		zap.Int("mods", len(app.manager.Mods())),
	)
	return nil
}

// LoadConfig loads the settings file named by opts and applies the
// non-empty option overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		section, key, value string
	}{
		{config.SectionPaths, "mods_dir", opts.ModsDir},
		{config.SectionPaths, "data_dir", opts.DataDir},
		{config.SectionLogging, "level", opts.LogLevel},
		{config.SectionLogging, "file", opts.LogFile},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := cfg.Set(o.section, o.key, o.value); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// discover scans the mods directory, reconciles the load order with it
// and registers every scripted mod.
func (app *Application) discover() error {
	mods, err := app.loader.Discover()
	if err != nil {
		return err
	}
	for _, md := range mods {
		if md.Error != nil {
			app.logger.Warn("skipping mod", zap.String("mod", md.Name), zap.Error(md.Error))
		}
	}

	order, err := mod.ReadLoadOrder(app.orderPath)
	if err != nil {
		app.logger.Warn("ignoring load order", zap.String("path", app.orderPath), zap.Error(err))
		order = mod.NewLoadOrder()
	}
	if order.Sync(mods) {
		if err := order.Save(app.orderPath); err != nil {
			app.logger.Warn("failed to save load order", zap.Error(err))
		}
	}

	app.mods = mods
	app.order = order
	n := mod.RegisterAll(app.manager, mods, order)
	app.logger.Debug("registered mods", zap.Int("count", n), zap.Int("found", len(mods)))
	return nil
}

// SetBackend sets the display backend. Without one the application runs
// headless.
func (app *Application) SetBackend(b backend.Backend) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.backend = b
	app.canvas = ui.NewCanvas(b)
	app.panel = ui.NewPanel(b, "Mod Options")
}

// Shutdown stops the loop started by Run.
func (app *Application) Shutdown() {
	app.once.Do(func() {
		close(app.done)
		app.mu.Lock()
		b := app.backend
		app.mu.Unlock()
		if b != nil {
			b.Interrupt(nil)
		}
	})
}

// close releases every component. It is safe to call on a partially
// bootstrapped application.
func (app *Application) close() {
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.manager != nil {
		if err := app.manager.Close(); err != nil && app.logger != nil {
			app.logger.Warn("closing mod manager", zap.Error(err))
		}
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if app.closeLog != nil {
		app.closeLog()
		app.closeLog = nil
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the merged settings.
func (app *Application) Config() *config.Config {
	return app.config
}

// Manager returns the mod manager.
func (app *Application) Manager() *mod.Manager {
	return app.manager
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Mods returns the mod directories found at startup.
func (app *Application) Mods() []*mod.ModDir {
	return app.mods
}

// frameTime returns the frame interval.
func (app *Application) frameTime() time.Duration {
	rate := app.opts.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return time.Second / time.Duration(rate)
}
