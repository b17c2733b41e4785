package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mzahniser/gorp/internal/renderer/core"
)

// Settings are user preferences from the settings file.
type Settings struct {
	Log    LogSettings   `toml:"log"`
	Colors ColorSettings `toml:"colors"`
	UI     UISettings    `toml:"ui"`
}

// LogSettings configure the log file.
type LogSettings struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
	// File is where logs are written; empty disables logging.
	File string `toml:"file"`
}

// ColorSettings name the header color of each severity.
type ColorSettings struct {
	Error   string `toml:"error"`
	Warning string `toml:"warning"`
	Link    string `toml:"link"`
}

// UISettings toggle interface features.
type UISettings struct {
	// Mouse enables click to select and wheel scrolling.
	Mouse bool `toml:"mouse"`
	// Watch reloads command files when they change.
	Watch bool `toml:"watch"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{
			Level: "info",
		},
		Colors: ColorSettings{
			Error:   "red",
			Warning: "yellow",
			Link:    "cyan",
		},
		UI: UISettings{
			Mouse: true,
			Watch: true,
		},
	}
}

// SettingsPath returns the default settings file location.
func SettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gorp", "settings.toml")
}

// LoadSettings reads the settings file over the defaults. A missing file
// or empty path yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	if err := ParseSettings(path, data, &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

// ParseSettings decodes TOML data into settings and validates the result.
// Keys absent from data keep their current values.
func ParseSettings(source string, data []byte, settings *Settings) error {
	if err := toml.Unmarshal(data, settings); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			perr.Line, perr.Column = decodeErr.Position()
		}
		return perr
	}
	return settings.Validate()
}

// Validate checks the log level and colors.
func (s Settings) Validate() error {
	switch strings.ToLower(s.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidSetting, s.Log.Level)
	}

	for name, value := range map[string]string{
		"colors.error":   s.Colors.Error,
		"colors.warning": s.Colors.Warning,
		"colors.link":    s.Colors.Link,
	} {
		if _, err := core.ParseColor(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidSetting, name, err)
		}
	}
	return nil
}

// Palette returns the parsed header colors. Settings must be valid.
func (s Settings) Palette() (errColor, warning, link core.Color) {
	errColor, _ = core.ParseColor(s.Colors.Error)
	warning, _ = core.ParseColor(s.Colors.Warning)
	link, _ = core.ParseColor(s.Colors.Link)
	return errColor, warning, link
}
