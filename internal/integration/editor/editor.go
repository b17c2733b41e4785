// Package editor opens a diagnostic's source location in the user's editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mzahniser/gorp/internal/config"
	"github.com/mzahniser/gorp/internal/diagnostic"
)

// ErrNoLocation is returned when a message names no source file.
var ErrNoLocation = errors.New("message has no source location")

// Runner executes a shell command line.
type Runner func(ctx context.Context, commandLine string) error

// Launcher starts the edit command for messages.
type Launcher struct {
	template string
	run      Runner
}

// New creates a launcher for an edit command template.
func New(template string) *Launcher {
	return &Launcher{
		template: template,
		run:      runDetached,
	}
}

// WithRunner replaces how command lines are executed.
func (l *Launcher) WithRunner(run Runner) *Launcher {
	l.run = run
	return l
}

// SetTemplate replaces the edit command template.
func (l *Launcher) SetTemplate(template string) {
	l.template = template
}

// Template returns the edit command template.
func (l *Launcher) Template() string {
	return l.template
}

// Open launches the editor at the message's location and returns the
// command line that was run.
func (l *Launcher) Open(ctx context.Context, m *diagnostic.Message) (string, error) {
	if m == nil || m.File() == "" {
		return "", ErrNoLocation
	}

	commandLine := Expand(l.template, m.File(), m.Line(), m.Column())
	if err := l.run(ctx, commandLine); err != nil {
		return commandLine, fmt.Errorf("launching editor: %w", err)
	}
	return commandLine, nil
}

// Expand replaces the first COLUMN, FILE and LINE placeholders in
// template, in that order. Unknown line and column numbers become 1.
func Expand(template, file string, line, column int) string {
	replacements := []struct {
		placeholder string
		value       string
	}{
		{config.PlaceholderColumn, position(column)},
		{config.PlaceholderFile, file},
		{config.PlaceholderLine, position(line)},
	}

	out := template
	for _, r := range replacements {
		out = strings.Replace(out, r.placeholder, r.value, 1)
	}
	return out
}

func position(n int) string {
	if n <= 0 {
		return "1"
	}
	return strconv.Itoa(n)
}

// runDetached runs commandLine in the background through sh, returning
// once the shell has forked it.
func runDetached(ctx context.Context, commandLine string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", "("+commandLine+" &)")
	return cmd.Run()
}
