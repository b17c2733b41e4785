// Package app provides the main application structure and coordination
// for gorp. It wires the process runner, the diagnostic classifier, the
// viewport and the renderer together and owns the event loop.
package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mzahniser/gorp/internal/config"
	"github.com/mzahniser/gorp/internal/config/watcher"
	"github.com/mzahniser/gorp/internal/diagnostic"
	"github.com/mzahniser/gorp/internal/integration/editor"
	"github.com/mzahniser/gorp/internal/integration/process"
	"github.com/mzahniser/gorp/internal/renderer"
	"github.com/mzahniser/gorp/internal/renderer/backend"
	"github.com/mzahniser/gorp/internal/renderer/viewport"
)

// Application is the central coordinator for all gorp components.
// Everything except the input poller and the line pump runs on the
// event loop goroutine.
type Application struct {
	mu sync.RWMutex

	backend  backend.Backend
	renderer *renderer.Renderer

	runner     *process.Runner
	store      *diagnostic.Store
	classifier *diagnostic.Classifier
	viewport   *viewport.Viewport
	launcher   *editor.Launcher
	watcher    *watcher.Watcher

	commands config.Commands
	settings config.Settings
	logger   *Logger

	// Lines of the current launch; nil once the pump has stopped.
	lines <-chan process.Line
	dirty bool

	// Test hooks, called on the event loop goroutine.
	onFinish func()
	onReload func()
	onFrame  func()

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// Commands are the build, clean and edit command lines.
	Commands config.Commands

	// CommandPaths are the command files Commands were loaded from. They
	// are reloaded when they change if Settings.UI.Watch is set.
	CommandPaths []string

	// Settings are the user preferences.
	Settings config.Settings

	// Logger receives application logs. Defaults to GetLogger().
	Logger *Logger

	// KillTimeout overrides the grace period before SIGKILL.
	KillTimeout time.Duration

	// EditRunner overrides how edit command lines are executed.
	EditRunner editor.Runner
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		commands: opts.Commands,
		settings: opts.Settings,
		logger:   opts.Logger,
		done:     make(chan struct{}),
		opts:     opts,
	}
	if app.logger == nil {
		app.logger = GetLogger()
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	if err := app.settings.Validate(); err != nil {
		return &InitError{Component: "settings", Err: err}
	}

	// 1. Diagnostics and pagination
	app.store = diagnostic.NewStore()
	app.classifier = diagnostic.NewClassifier(app.store)
	app.viewport = viewport.NewViewport(app.store, 80, 24)

	// 2. Process runner
	runnerOpts := []process.Option{
		process.WithErrorHandler(app.spawnFailed),
	}
	if app.opts.KillTimeout > 0 {
		runnerOpts = append(runnerOpts, process.WithKillTimeout(app.opts.KillTimeout))
	}
	app.runner = process.NewRunner(runnerOpts...)

	// 3. Editor
	app.launcher = editor.New(app.commands.Edit)
	if app.opts.EditRunner != nil {
		app.launcher.WithRunner(app.opts.EditRunner)
	}

	// 4. Command file watcher
	if app.settings.UI.Watch && len(app.opts.CommandPaths) > 0 {
		app.startWatcher()
	}

	return nil
}

// startWatcher watches the command files. Failures are non-fatal.
func (app *Application) startWatcher() {
	log := app.Logger().WithComponent("watcher")

	w, err := watcher.New()
	if err != nil {
		app.logComponentError("watcher", NewComponentError("watcher", "create", err))
		return
	}
	for _, path := range app.opts.CommandPaths {
		if err := w.Watch(path); err != nil {
			log.Debug("not watching command file", "path", path, "err", err)
			continue
		}
		log.Debug("watching command file", "path", path)
	}
	app.watcher = w
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run initializes the terminal, launches the build command and runs the
// event loop. Blocks until the user quits, which returns ErrQuit, or
// Shutdown is called, which returns nil.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.shutdown()

	if app.settings.UI.Mouse {
		b.EnableMouse()
	} else {
		b.DisableMouse()
	}
	errColor, warning, link := app.settings.Palette()
	app.renderer = renderer.New(b, renderer.Theme{Error: errColor, Warning: warning, Link: link})
	app.viewport.Resize(b.Size())

	app.Logger().Info("starting", "build", app.commands.Build, "clean", app.commands.Clean)
	app.launch(app.commands.Build, false)

	return app.eventLoop()
}

// Shutdown initiates graceful shutdown. It may be called from any
// goroutine. The event loop is woken through the backend's event queue
// and, should the queue refuse the interrupt, through the done channel.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		return
	}

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()

	if err := b.PostEvent(backend.Event{Type: backend.EventInterrupt}); err != nil {
		app.Logger().Debug("interrupt not queued", "err", err)
		app.closeDone()
	}
}

func (app *Application) closeDone() {
	app.doneOnce.Do(func() { close(app.done) })
}

// shutdown performs cleanup in reverse initialization order.
func (app *Application) shutdown() {
	app.closeDone()

	// 1. Stop the child before the terminal is restored
	app.stopProcess()

	// 2. Stop watching command files
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logComponentError("watcher", err)
		}
	}

	// 3. Restore the terminal
	if app.settings.UI.Mouse {
		app.backend.DisableMouse()
	}
	app.backend.Shutdown()

	app.Logger().Info("stopped")
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Commands returns the current command lines.
func (app *Application) Commands() config.Commands {
	return app.commands
}

// Store returns the diagnostics of the current launch.
func (app *Application) Store() *diagnostic.Store {
	return app.store
}

// Viewport returns the scroll and selection state.
func (app *Application) Viewport() *viewport.Viewport {
	return app.viewport
}

// Runner returns the process runner.
func (app *Application) Runner() *process.Runner {
	return app.runner
}

// Title returns the title bar text.
func (app *Application) Title() string {
	return app.classifier.Title()
}
