package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CommandFile is the name of a command file.
const CommandFile = ".gorp"

// Placeholders substituted into the edit command.
const (
	PlaceholderFile   = "FILE"
	PlaceholderLine   = "LINE"
	PlaceholderColumn = "COLUMN"
)

// Commands are the shell-free command lines gorp runs.
type Commands struct {
	Build string
	Clean string
	Edit  string
}

// DefaultCommands returns the commands used when no file sets them.
func DefaultCommands() Commands {
	return Commands{
		Build: "make",
		Clean: "make clean",
		Edit:  "gedit FILE +LINE:COLUMN",
	}
}

// CommandPaths returns the command files in the order they are applied.
func CommandPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, CommandFile))
	}
	return append(paths, CommandFile)
}

// LoadCommands applies each command file over the defaults. A missing
// file is skipped; an unreadable one stops loading with the commands
// gathered so far.
func LoadCommands(paths ...string) (Commands, error) {
	cmds := DefaultCommands()
	for _, path := range paths {
		if err := cmds.LoadFile(path); err != nil {
			return cmds, err
		}
	}
	return cmds, nil
}

// LoadFile applies one command file. A missing file is not an error.
func (c *Commands) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading command file %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Parse(f); err != nil {
		return fmt.Errorf("reading command file %s: %w", path, err)
	}
	return nil
}

// Parse applies "tag: command" lines from r. Unknown tags are ignored.
func (c *Commands) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c.apply(scanner.Text())
	}
	return scanner.Err()
}

func (c *Commands) apply(line string) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return
	}
	tag := line[:colon+1]
	value := strings.TrimLeftFunc(line[colon+1:], func(r rune) bool { return r <= ' ' })

	switch tag {
	case "build:":
		c.Build = value
	case "clean:":
		c.Clean = value
	case "edit:":
		c.Edit = value
	}
}

// WriteTo prints the commands in command file format.
func (c Commands) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "build: %s\nclean: %s\nedit: %s\n", c.Build, c.Clean, c.Edit)
	return int64(n), err
}
