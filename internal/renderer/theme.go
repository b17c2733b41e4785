package renderer

import (
	"github.com/mzahniser/gorp/internal/diagnostic"
	"github.com/mzahniser/gorp/internal/renderer/core"
)

// Theme holds the header colors for each severity.
type Theme struct {
	Error   core.Color
	Warning core.Color
	Link    core.Color
}

// DefaultTheme returns red errors, yellow warnings and cyan link errors.
func DefaultTheme() Theme {
	return Theme{
		Error:   core.ColorRed,
		Warning: core.ColorYellow,
		Link:    core.ColorCyan,
	}
}

// HeaderStyle returns the style of a message's header row.
func (t Theme) HeaderStyle(severity diagnostic.Severity) core.Style {
	switch severity {
	case diagnostic.SeverityError:
		return core.NewStyle(t.Error)
	case diagnostic.SeverityWarning:
		return core.NewStyle(t.Warning)
	default:
		return core.NewStyle(t.Link)
	}
}
