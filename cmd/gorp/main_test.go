package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at empty temp dirs and
// returns a settings path that does not exist.
func isolate(t *testing.T) (home, work, settings string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return home, work, filepath.Join(home, "settings.toml")
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"-v", "-V", "--version"} {
		t.Run(arg, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{arg}, &stdout, &stderr)

			if code != 0 {
				t.Errorf("expected exit 0, got %d", code)
			}
			if stdout.String() != versionText+"\n\n" {
				t.Errorf("expected version text, got %q", stdout.String())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short", []string{"-h"}},
		{"long", []string{"--help"}},
		{"stray argument", []string{"all"}},
		{"unknown flag", []string{"--bogus"}},
		{"unknown shorthand", []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			if code != 0 {
				t.Errorf("expected exit 0, got %d", code)
			}
			if !strings.HasPrefix(stdout.String(), "This program parses the output of a build command") {
				t.Errorf("expected help text, got %q", stdout.String())
			}
			if stderr.Len() != 0 {
				t.Errorf("expected empty stderr, got %q", stderr.String())
			}
		})
	}
}

func TestRun_CommandsDefaults(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--commands"}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	expected := "build: make\nclean: make clean\nedit: gedit FILE +LINE:COLUMN\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestRun_CommandsLayered(t *testing.T) {
	home, work, _ := isolate(t)

	if err := os.WriteFile(filepath.Join(home, ".gorp"), []byte("build: make -j8\nedit: vim +LINE FILE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, ".gorp"), []byte("build: ninja\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c"}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	expected := "build: ninja\nclean: make clean\nedit: vim +LINE FILE\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestRun_VersionBeatsCommands(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	run([]string{"-c", "-v"}, &stdout, &stderr)

	if !strings.HasPrefix(stdout.String(), versionText) {
		t.Errorf("expected version text, got %q", stdout.String())
	}
}

func TestRun_BadSettings(t *testing.T) {
	_, _, settings := isolate(t)
	if err := os.WriteFile(settings, []byte("[colors\nerror = 'red'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--settings", settings}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("expected error message, got %q", stderr.String())
	}
}

func TestRun_BadLogLevel(t *testing.T) {
	_, _, settings := isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--settings", settings, "--log-level", "loud"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "log.level") {
		t.Errorf("expected log level error, got %q", stderr.String())
	}
}

func TestRun_RequiresTerminal(t *testing.T) {
	_, _, settings := isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--settings", settings}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "terminal") {
		t.Errorf("expected terminal error, got %q", stderr.String())
	}
}

func TestRun_LogFile(t *testing.T) {
	_, work, settings := isolate(t)
	logPath := filepath.Join(work, "gorp.log")

	var stdout, stderr bytes.Buffer
	run([]string{"--settings", settings, "--log-file", logPath}, &stdout, &stderr)

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("expected log file to be created: %v", err)
	}
}
