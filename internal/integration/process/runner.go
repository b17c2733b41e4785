package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	// readChunkSize is the size of a single read from a child pipe.
	readChunkSize = 1024

	// chunkBacklog bounds how far the pipe readers may run ahead of the consumer.
	chunkBacklog = 64

	// DefaultKillTimeout is how long Kill waits after SIGTERM before SIGKILL.
	DefaultKillTimeout = 2 * time.Second
)

type chunk struct {
	stream Stream
	data   []byte
}

// Option configures a Runner.
type Option func(*Runner)

// WithKillTimeout sets the grace period between SIGTERM and SIGKILL.
func WithKillTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.killTimeout = d
	}
}

// WithErrorHandler sets a callback that receives spawn failures.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runner) {
		r.onError = fn
	}
}

// Runner launches one build command at a time and delivers its output
// line by line.
//
// The child's stdout and stderr are read by background goroutines and
// handed over in chunks; ReadOutput, ReadError and IsDone reassemble the
// chunks into lines. Those three methods, Start and Kill must be called
// from a single goroutine. Abort and State may be called from any goroutine.
type Runner struct {
	killTimeout time.Duration
	onError     func(error)

	id      string
	argv    []string
	state   atomic.Int32
	code    atomic.Int32
	aborted atomic.Bool

	// Per-launch plumbing, replaced by each Start.
	chunks    chan chunk
	reaped    chan struct{}
	exited    chan struct{}
	abort     chan struct{}
	abortOnce *sync.Once
	signal    func(syscall.Signal) error
	pipes     []io.Closer

	output []byte
	errors []byte
}

// NewRunner creates a Runner with no child.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		killTimeout: DefaultKillTimeout,
	}
	r.code.Store(-1)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start kills any previous child, discards buffered output and launches
// command with stdout and stderr captured.
//
// A command that cannot be tokenized or spawned leaves the Runner in
// StateExited with no output, so IsDone reports true immediately.
func (r *Runner) Start(command string) {
	r.Kill()

	r.output = r.output[:0]
	r.errors = r.errors[:0]
	r.id = uuid.New().String()
	r.argv = Tokenize(command)
	r.code.Store(-1)
	r.aborted.Store(false)

	if len(r.argv) == 0 {
		r.fail(ErrEmptyCommand)
		return
	}

	cmd := exec.Command(r.argv[0], r.argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.fail(fmt.Errorf("%w: stdout pipe: %w", ErrSpawn, err))
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.fail(fmt.Errorf("%w: stderr pipe: %w", ErrSpawn, err))
		return
	}

	if err := cmd.Start(); err != nil {
		r.fail(fmt.Errorf("%w: %s: %w", ErrSpawn, r.argv[0], err))
		return
	}

	pid := cmd.Process.Pid
	r.signal = func(sig syscall.Signal) error {
		// Signal the whole process group so make's children go too.
		return unix.Kill(-pid, sig)
	}
	// cmd.Wait would close the pipes under the readers, so the child is
	// reaped through its Process and the pipes are closed here instead.
	r.attach(stdout, stderr, func() int {
		state, err := cmd.Process.Wait()
		if err != nil {
			return -1
		}
		return state.ExitCode()
	})
}

// attach starts the pipe readers and the reaper for one launch. The
// child is reaped as soon as it exits; the launch ends once it has been
// reaped and both pipes have reached EOF or been closed by Kill.
func (r *Runner) attach(stdout, stderr io.ReadCloser, wait func() int) {
	chunks := make(chan chunk, chunkBacklog)
	reaped := make(chan struct{})
	exited := make(chan struct{})

	r.chunks = chunks
	r.reaped = reaped
	r.exited = exited
	r.abort = make(chan struct{})
	r.abortOnce = new(sync.Once)
	r.pipes = []io.Closer{stdout, stderr}
	r.state.Store(int32(StateRunning))

	var g errgroup.Group
	g.Go(func() error { return readPipe(stdout, StreamOutput, chunks) })
	g.Go(func() error { return readPipe(stderr, StreamError, chunks) })

	go func() {
		r.code.Store(int32(wait()))
		close(reaped)
	}()

	go func() {
		_ = g.Wait()
		_ = stdout.Close()
		_ = stderr.Close()
		<-reaped
		close(exited)
	}()
}

func readPipe(rd io.Reader, stream Stream, out chan<- chunk) error {
	buf := make([]byte, readChunkSize)
	for {
		n, err := rd.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			out <- chunk{stream: stream, data: data}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (r *Runner) fail(err error) {
	r.state.Store(int32(StateExited))
	if r.onError != nil {
		r.onError(err)
	}
}

// ReadOutput returns the next complete stdout line, or "" if none is
// available before the child finishes.
func (r *Runner) ReadOutput() string {
	r.waitForLine()
	return takeLine(&r.output)
}

// ReadError returns the next complete stderr line, or "" if none is
// available before the child finishes.
func (r *Runner) ReadError() string {
	r.waitForLine()
	return takeLine(&r.errors)
}

// IsDone reports whether the child has exited and every complete line
// has been read. It is true before the first Start.
func (r *Runner) IsDone() bool {
	return r.State() != StateRunning && !hasLine(r.output) && !hasLine(r.errors)
}

// waitForLine blocks until either buffer holds a complete line, the child
// exits, or the launch is aborted.
func (r *Runner) waitForLine() {
	for r.State() == StateRunning && !hasLine(r.output) && !hasLine(r.errors) {
		select {
		case c := <-r.chunks:
			r.accept(c)
			r.drain()
		case <-r.exited:
			r.drain()
			r.finish()
		case <-r.abort:
			return
		}
	}
}

// drain moves every chunk that is already queued into the line buffers.
func (r *Runner) drain() {
	for {
		select {
		case c := <-r.chunks:
			r.accept(c)
		default:
			return
		}
	}
}

func (r *Runner) accept(c chunk) {
	if c.stream == StreamError {
		r.errors = append(r.errors, c.data...)
	} else {
		r.output = append(r.output, c.data...)
	}
}

// finish marks the child exited and drops unterminated trailing text.
func (r *Runner) finish() {
	r.output = dropPartial(r.output)
	r.errors = dropPartial(r.errors)
	r.state.Store(int32(StateExited))
}

// Abort stops the current launch from any goroutine: pending and future
// reads return immediately and the process group receives SIGTERM. The
// child is reaped by the next Kill or Start.
func (r *Runner) Abort() {
	once := r.abortOnce
	if once == nil {
		return
	}
	once.Do(func() {
		r.aborted.Store(true)
		close(r.abort)
		if r.signal != nil {
			_ = r.signal(unix.SIGTERM)
		}
	})
}

// Aborted reports whether the current launch was aborted.
func (r *Runner) Aborted() bool {
	return r.aborted.Load()
}

// Kill terminates a running child and waits for it to be reaped,
// escalating to SIGKILL after the kill timeout. Once the child is gone
// the pipes are closed, so a descendant that left the process group
// cannot hold Kill open. Buffered output is discarded. Kill is a no-op
// when no child is running.
func (r *Runner) Kill() {
	if r.State() != StateRunning {
		return
	}
	r.Abort()

	timer := time.NewTimer(r.killTimeout)
	defer timer.Stop()

	reaped, expired := r.reaped, timer.C
	for {
		select {
		case <-r.chunks:
			// Keep the readers unblocked until the pipes close.
		case <-reaped:
			r.closePipes()
			reaped, expired = nil, nil
		case <-r.exited:
			r.output = r.output[:0]
			r.errors = r.errors[:0]
			r.state.Store(int32(StateExited))
			return
		case <-expired:
			if r.signal != nil {
				_ = r.signal(unix.SIGKILL)
			}
			expired = nil
		}
	}
}

func (r *Runner) closePipes() {
	for _, p := range r.pipes {
		_ = p.Close()
	}
}

// State returns the current state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// RunID returns the identifier of the current launch, or "" before Start.
func (r *Runner) RunID() string {
	return r.id
}

// Argv returns the argument vector of the current launch.
func (r *Runner) Argv() []string {
	return r.argv
}

// ExitCode returns the child's exit status, or -1 if it has not exited,
// was killed by a signal, or never started.
func (r *Runner) ExitCode() int {
	if r.State() != StateExited {
		return -1
	}
	return int(r.code.Load())
}

func hasLine(buf []byte) bool {
	return bytes.IndexByte(buf, '\n') >= 0
}

// takeLine removes and returns the first complete line in buf.
func takeLine(buf *[]byte) string {
	i := bytes.IndexByte(*buf, '\n')
	if i < 0 {
		return ""
	}
	line := string((*buf)[:i])
	*buf = append((*buf)[:0], (*buf)[i+1:]...)
	return line
}

func dropPartial(buf []byte) []byte {
	return buf[:bytes.LastIndexByte(buf, '\n')+1]
}
