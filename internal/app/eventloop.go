package app

import (
	"context"
	"errors"
	"time"

	"github.com/mzahniser/gorp/internal/config/watcher"
	"github.com/mzahniser/gorp/internal/integration/editor"
	"github.com/mzahniser/gorp/internal/renderer"
	"github.com/mzahniser/gorp/internal/renderer/backend"
)

// frameTime is the minimum interval between two redraws.
const frameTime = time.Second / 60

// eventLoop is the main application loop. Lines are drained as fast as
// the pump delivers them and the screen is redrawn at most once a frame.
// The frame timer is armed only while a redraw is pending, so once the
// child is done only input, reloads or shutdown wake the loop.
func (app *Application) eventLoop() error {
	events := app.startInputPolling()

	frameTimer := time.NewTimer(frameTime)
	frameTimer.Stop()
	defer frameTimer.Stop()
	var frame <-chan time.Time

	var reloads <-chan watcher.Event
	var watchErrors <-chan error
	if app.watcher != nil {
		reloads = app.watcher.Events()
		watchErrors = app.watcher.Errors()
	}

	app.render()

	for {
		if app.dirty && frame == nil {
			frameTimer.Reset(frameTime)
			frame = frameTimer.C
		}

		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok || ev.Type == backend.EventInterrupt {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}

		case line, ok := <-app.lines:
			if !ok {
				app.finish()
				continue
			}
			app.handleLine(line)

		case ev, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			app.reloadCommands(ev)

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			app.logComponentError("watcher", err)

		case <-frame:
			frame = nil
			if app.onFrame != nil {
				app.onFrame()
			}
			if app.dirty {
				app.render()
			}
		}
	}
}

// render draws the current state.
func (app *Application) render() {
	app.dirty = false
	app.renderer.Render(renderer.Frame{
		Title:    app.classifier.Title(),
		Store:    app.store,
		Viewport: app.viewport,
	})
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	default:
		return nil
	}
}

// handleResize processes terminal resize events.
func (app *Application) handleResize(ev backend.Event) error {
	// Cells outside the new size must not survive the next frame.
	app.backend.Clear()
	app.viewport.Resize(ev.Width, ev.Height)
	app.dirty = true
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyDown:
		app.viewport.SelectNext()
	case backend.KeyUp:
		app.viewport.SelectPrevious()
	case backend.KeyPageDown:
		app.viewport.PageDown()
	case backend.KeyPageUp:
		app.viewport.PageUp()
	case backend.KeyEnter:
		app.activate(app.viewport.Selected())
	case backend.KeyBackspace, backend.KeyDelete:
		app.launch(app.commands.Clean, true)
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			return ErrQuit
		case ' ':
			app.launch(app.commands.Build, false)
		default:
			return nil
		}
	default:
		return nil
	}
	app.dirty = true
	return nil
}

// handleMouseEvent processes mouse input events.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	switch ev.MouseButton {
	case backend.MouseLeft:
		index, ok := app.viewport.SelectAt(ev.MouseY)
		if !ok {
			return nil
		}
		app.activate(index)
	case backend.MouseWheelUp:
		app.viewport.WheelUp()
	case backend.MouseWheelDown:
		app.viewport.WheelDown()
	default:
		return nil
	}
	app.dirty = true
	return nil
}

// activate opens the message at index in the editor.
func (app *Application) activate(index int) {
	m := app.store.At(index)
	if m == nil {
		return
	}

	log := app.Logger().WithComponent("editor")
	commandLine, err := app.launcher.Open(context.Background(), m)
	switch {
	case errors.Is(err, editor.ErrNoLocation):
		log.Debug("message has no location", "index", index)
	case err != nil:
		app.logComponentError("editor", NewOperationError("edit", m.File(), err).WithContext(commandLine))
	default:
		log.Info("opened editor", "command", commandLine)
	}
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking, so this goroutine exits only after the done
// channel is closed and backend.Shutdown() has unblocked it.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for {
			ev := app.backend.PollEvent()

			if ev.Type == backend.EventNone {
				select {
				case <-app.done:
					return
				default:
					continue
				}
			}

			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}
