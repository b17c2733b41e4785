package app

import (
	"github.com/mzahniser/gorp/internal/config"
	"github.com/mzahniser/gorp/internal/config/watcher"
	"github.com/mzahniser/gorp/internal/integration/process"
)

// launch stops any running command and starts command, clearing the
// diagnostics of the previous run.
func (app *Application) launch(command string, cleaning bool) {
	app.stopProcess()

	app.classifier.Reset(command, cleaning)
	app.viewport.Reset()
	app.runner.Start(command)
	app.lines = app.runner.Lines()
	app.dirty = true

	app.Logger().WithComponent("runner").Info("launched",
		"run", app.runner.RunID(),
		"argv", app.runner.Argv(),
		"cleaning", cleaning,
	)
}

// stopProcess aborts the current launch, waits for its pump to stop
// and reaps the child.
func (app *Application) stopProcess() {
	if app.lines == nil && app.runner.State() != process.StateRunning {
		return
	}

	app.runner.Abort()
	if app.lines != nil {
		for range app.lines {
			// The pump exits promptly once aborted.
		}
		app.lines = nil
	}
	app.runner.Kill()

	app.Logger().WithComponent("runner").Debug("stopped", "run", app.runner.RunID())
}

// spawnFailed reports a command that could not be started. It runs
// inside Runner.Start on the event loop goroutine.
func (app *Application) spawnFailed(err error) {
	app.store.AppendOutput("gorp: " + err.Error())
	app.logComponentError("runner", NewComponentError("runner", "start", err))
}

// handleLine routes one line of the child's output.
func (app *Application) handleLine(line process.Line) {
	if line.Stream == process.StreamError {
		app.classifier.Error(line.Text)
	} else {
		app.classifier.Output(line.Text)
	}
	app.viewport.Clamp()
	app.dirty = true
}

// finish is called once the pump has delivered every line.
func (app *Application) finish() {
	app.lines = nil
	app.classifier.Finish()
	app.viewport.Clamp()
	app.dirty = true

	app.Logger().WithComponent("runner").Info("finished",
		"run", app.runner.RunID(),
		"exit", app.runner.ExitCode(),
		"messages", app.store.Len(),
	)

	if app.onFinish != nil {
		app.onFinish()
	}
}

// reloadCommands reloads the command files after one of them changed.
// The new commands apply to the next launch.
func (app *Application) reloadCommands(ev watcher.Event) {
	log := app.Logger().WithComponent("config")

	commands, err := config.LoadCommands(app.opts.CommandPaths...)
	if err != nil {
		log.Warn("keeping previous commands", "path", ev.Path, "err", err)
		return
	}

	app.commands = commands
	app.launcher.SetTemplate(commands.Edit)
	log.Info("reloaded commands", "path", ev.Path, "op", ev.Op, "build", commands.Build)

	if app.onReload != nil {
		app.onReload()
	}
}
