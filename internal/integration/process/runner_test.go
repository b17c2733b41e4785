package process

import (
	"errors"
	"io"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
	"time"
)

func collect(t *testing.T, r *Runner) (stdout, stderr []string) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range r.Lines() {
			if line.Stream == StreamError {
				stderr = append(stderr, line.Text)
			} else {
				stdout = append(stdout, line.Text)
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for output")
	}
	return stdout, stderr
}

func TestRunner_InitialState(t *testing.T) {
	r := NewRunner()

	if r.State() != StateNotStarted {
		t.Errorf("expected state StateNotStarted, got %v", r.State())
	}
	if !r.IsDone() {
		t.Error("expected IsDone() before the first Start")
	}
	if r.ExitCode() != -1 {
		t.Errorf("expected exit code -1, got %d", r.ExitCode())
	}
	if got := r.ReadOutput(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}

	// Kill and Abort without a child are no-ops.
	r.Kill()
	r.Abort()
}

func TestRunner_ChunkBoundaries(t *testing.T) {
	r := NewRunner()
	stdout := iotest.OneByteReader(strings.NewReader("first line\nsecond line\nunterminated"))
	stderr := iotest.HalfReader(strings.NewReader("main.cpp:1:2: error: bad\nnote\n"))
	r.attach(io.NopCloser(stdout), io.NopCloser(stderr), func() int { return 2 })

	out, errs := collect(t, r)

	if want := []string{"first line", "second line"}; !reflect.DeepEqual(out, want) {
		t.Errorf("expected stdout %q, got %q", want, out)
	}
	if want := []string{"main.cpp:1:2: error: bad", "note"}; !reflect.DeepEqual(errs, want) {
		t.Errorf("expected stderr %q, got %q", want, errs)
	}
	if !r.IsDone() {
		t.Error("expected IsDone() after draining")
	}
	if r.ExitCode() != 2 {
		t.Errorf("expected exit code 2, got %d", r.ExitCode())
	}
}

func TestRunner_LargeOutput(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("line of build output that is reasonably long\n")
	}

	r := NewRunner()
	r.attach(io.NopCloser(strings.NewReader(b.String())), io.NopCloser(strings.NewReader("")), func() int { return 0 })

	out, errs := collect(t, r)
	if len(out) != 5000 {
		t.Errorf("expected 5000 stdout lines, got %d", len(out))
	}
	if len(errs) != 0 {
		t.Errorf("expected no stderr lines, got %d", len(errs))
	}
}

func TestRunner_Start(t *testing.T) {
	r := NewRunner()
	r.Start(`sh -c 'echo out; echo err 1>&2; exit 3'`)

	if r.RunID() == "" {
		t.Error("expected a run ID after Start")
	}

	out, errs := collect(t, r)
	if !reflect.DeepEqual(out, []string{"out"}) {
		t.Errorf("expected stdout [out], got %q", out)
	}
	if !reflect.DeepEqual(errs, []string{"err"}) {
		t.Errorf("expected stderr [err], got %q", errs)
	}
	if r.State() != StateExited {
		t.Errorf("expected state StateExited, got %v", r.State())
	}
	if r.ExitCode() != 3 {
		t.Errorf("expected exit code 3, got %d", r.ExitCode())
	}
}

func TestRunner_SpawnFailure(t *testing.T) {
	var reported error
	r := NewRunner(WithErrorHandler(func(err error) { reported = err }))

	r.Start("gorp-test-command-that-does-not-exist --flag")

	if !errors.Is(reported, ErrSpawn) {
		t.Errorf("expected ErrSpawn, got %v", reported)
	}
	if !r.IsDone() {
		t.Error("expected IsDone() after a spawn failure")
	}
	if r.State() != StateExited {
		t.Errorf("expected state StateExited, got %v", r.State())
	}
	if got := r.ReadError(); got != "" {
		t.Errorf("expected no stderr, got %q", got)
	}
}

func TestRunner_EmptyCommand(t *testing.T) {
	var reported error
	r := NewRunner(WithErrorHandler(func(err error) { reported = err }))

	r.Start("   ")

	if !errors.Is(reported, ErrEmptyCommand) {
		t.Errorf("expected ErrEmptyCommand, got %v", reported)
	}
	if !r.IsDone() {
		t.Error("expected IsDone() for an empty command")
	}
}

func TestRunner_Kill(t *testing.T) {
	r := NewRunner(WithKillTimeout(500 * time.Millisecond))
	r.Start("sleep 30")

	if r.State() != StateRunning {
		t.Fatalf("expected state StateRunning, got %v", r.State())
	}

	start := time.Now()
	r.Kill()

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Kill took too long: %v", elapsed)
	}
	if r.State() != StateExited {
		t.Errorf("expected state StateExited, got %v", r.State())
	}
	if !r.IsDone() {
		t.Error("expected IsDone() after Kill")
	}
}

func TestRunner_KillDetachedDescendant(t *testing.T) {
	if _, err := exec.LookPath("setsid"); err != nil {
		t.Skip("setsid not available")
	}

	// The setsid child leaves the process group but inherits the pipes.
	r := NewRunner(WithKillTimeout(100 * time.Millisecond))
	r.Start("sh -c 'setsid sleep 5 & echo started; sleep 5'")

	if got := r.ReadOutput(); got != "started" {
		t.Fatalf("expected %q, got %q", "started", got)
	}

	done := make(chan struct{})
	go func() {
		r.Kill()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Kill blocked on pipes held by a detached descendant")
	}
	if r.State() != StateExited {
		t.Errorf("expected state StateExited, got %v", r.State())
	}
}

func TestRunner_AbortUnblocksLines(t *testing.T) {
	r := NewRunner()
	r.Start("sleep 30")

	lines := r.Lines()
	time.AfterFunc(50*time.Millisecond, r.Abort)

	select {
	case _, ok := <-lines:
		if ok {
			t.Error("expected no lines from sleep")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Abort did not stop the line pump")
	}

	if !r.Aborted() {
		t.Error("expected Aborted() after Abort")
	}
	r.Kill()
	if r.State() != StateExited {
		t.Errorf("expected state StateExited, got %v", r.State())
	}
}

func TestRunner_RestartDiscardsPrevious(t *testing.T) {
	r := NewRunner()
	r.Start("sleep 30")
	first := r.RunID()

	r.Start("echo again")
	if r.RunID() == first {
		t.Error("expected a new run ID for the second launch")
	}

	out, _ := collect(t, r)
	if !reflect.DeepEqual(out, []string{"again"}) {
		t.Errorf("expected stdout [again], got %q", out)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNotStarted, "not-started"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{State(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
