package process

import (
	"errors"
	"fmt"
)

// State represents the state of a build process.
type State int

const (
	// StateNotStarted indicates no command has been launched yet.
	StateNotStarted State = iota
	// StateRunning indicates the child is running or its output is not yet drained.
	StateRunning
	// StateExited indicates the child exited, was killed, or failed to spawn.
	StateExited
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Stream identifies one of the child's output streams.
type Stream int

const (
	// StreamOutput is the child's standard output.
	StreamOutput Stream = iota
	// StreamError is the child's standard error.
	StreamError
)

// String returns the stream name.
func (s Stream) String() string {
	switch s {
	case StreamOutput:
		return "stdout"
	case StreamError:
		return "stderr"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Line is one complete line read from the child, without its newline.
type Line struct {
	Stream Stream
	Text   string
}

var (
	// ErrEmptyCommand is reported when a command string has no tokens.
	ErrEmptyCommand = errors.New("empty command")

	// ErrSpawn is reported when the child could not be started.
	ErrSpawn = errors.New("failed to start command")
)
