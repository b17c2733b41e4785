// Package backend provides terminal abstraction for the renderer.
package backend

import (
	"errors"
	"sync"

	"github.com/mzahniser/gorp/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	// EventNone indicates no event, or that the backend was shut down.
	EventNone EventType = iota
	// EventKey indicates a keyboard event.
	EventKey
	// EventMouse indicates a mouse event.
	EventMouse
	// EventResize indicates terminal resize.
	EventResize
	// EventInterrupt wakes PollEvent without any input.
	EventInterrupt
)

var (
	// ErrUnsupportedEvent is returned by PostEvent for events a backend
	// cannot inject.
	ErrUnsupportedEvent = errors.New("event type cannot be posted")

	// ErrEventQueueFull is returned by PostEvent when the event was dropped.
	ErrEventQueueFull = errors.New("event queue full")
)

// Event represents a terminal input event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Key constants.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyCtrlC
)

// ModMask represents keyboard modifiers.
type ModMask int

// Modifier constants.
const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse buttons.
type MouseButton int

// Mouse button constants.
const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend abstracts terminal operations.
type Backend interface {
	// Init initializes the terminal.
	Init() error

	// Shutdown restores the terminal. A blocked PollEvent returns EventNone.
	Shutdown()

	// Size returns the terminal dimensions.
	Size() (width, height int)

	// SetCell sets a cell at the given position.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire screen.
	Clear()

	// Show flushes pending changes to the terminal.
	Show()

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent blocks until an event is available.
	PollEvent() Event

	// PostEvent queues an event for PollEvent. Every backend accepts
	// EventInterrupt.
	PostEvent(event Event) error

	// EnableMouse enables mouse button and wheel events.
	EnableMouse()

	// DisableMouse disables mouse events.
	DisableMouse()
}

// NullBackend is a no-op backend for testing.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	mouse         bool
	shows         int
	clears        int
	events        chan Event
	closed        chan struct{}
	closeOnce     sync.Once
}

// NewNullBackend creates a null backend with the given size.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x >= 0 && x < b.width && y >= 0 && y < b.height && y < len(b.cells) {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell drawn at the given position.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x >= 0 && x < b.width && y >= 0 && y < b.height && y < len(b.cells) {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clears++
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.shows++
}

func (b *NullBackend) HideCursor() {}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) error {
	select {
	case b.events <- event:
		return nil
	default:
		return ErrEventQueueFull
	}
}

func (b *NullBackend) EnableMouse() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mouse = true
}

func (b *NullBackend) DisableMouse() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mouse = false
}

// MouseEnabled reports whether mouse events are enabled.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.mouse
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows
}

// Clears returns how many times Clear was called.
func (b *NullBackend) Clears() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.clears
}

// Resize simulates a terminal resize and queues an EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.allocate()
	b.mu.Unlock()

	_ = b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Row returns the runes drawn on row y as a string.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= len(b.cells) {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		runes = append(runes, c.Rune)
	}
	return string(runes)
}
