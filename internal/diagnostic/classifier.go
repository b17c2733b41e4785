package diagnostic

import (
	"strings"
)

const (
	markerLinkerFailed = ": error: ld returned"
	markerUndefined    = ": undefined reference"
	markerError        = ": error: "
	markerWarning      = ": warning: "

	// continuationLines is how many plain lines may follow a diagnostic.
	continuationLines = 2
)

// Classify returns the severity of a stderr line. The second result is
// false for the linker's closing "ld returned" line, which is dropped.
func Classify(text string) (Severity, bool) {
	switch {
	case strings.Contains(text, markerLinkerFailed):
		return SeverityPlain, false
	case strings.Contains(text, markerUndefined):
		return SeverityLink, true
	case strings.Contains(text, markerError):
		return SeverityError, true
	case strings.Contains(text, markerWarning):
		return SeverityWarning, true
	default:
		return SeverityPlain, true
	}
}

// Classifier builds a Store from the lines of one run.
type Classifier struct {
	store    *Store
	title    string
	cleaning bool

	previous string
	location string
	budget   int
}

// NewClassifier creates a classifier that fills store.
func NewClassifier(store *Store) *Classifier {
	return &Classifier{store: store}
}

// Reset clears the store and starts a run of command.
func (c *Classifier) Reset(command string, cleaning bool) {
	c.store.Reset()
	c.title = command
	c.cleaning = cleaning
	c.previous = ""
	c.location = ""
	c.budget = 0
}

// Store returns the store being filled.
func (c *Classifier) Store() *Store {
	return c.store
}

// Title returns the current title bar text.
func (c *Classifier) Title() string {
	return c.title
}

// Cleaning reports whether the run is a clean command.
func (c *Classifier) Cleaning() bool {
	return c.cleaning
}

// Error processes one stderr line.
func (c *Classifier) Error(text string) {
	c.store.AppendOutput(text)
	defer func() { c.previous = text }()

	severity, keep := Classify(text)
	if !keep {
		return
	}

	switch severity {
	case SeverityLink:
		c.store.increment(severity)
		c.store.Append(NewMessage(severity, LinkHeader, text))
	case SeverityError, SeverityWarning:
		c.store.increment(severity)
		if loc, ok := headerLocation(c.previous, text); ok {
			c.location = loc
		}
		c.budget = continuationLines
		c.store.Append(NewMessage(severity, c.location, text))
	default:
		if c.budget > 0 {
			if last := c.store.Last(); last != nil {
				last.AddText(text)
			}
			c.budget--
		}
	}
}

// headerLocation reports whether previous introduces text, as in
//
//	main.cpp: In function 'int main()':
//	main.cpp:4:3: error: ...
//
// and returns the context after the shared prefix.
func headerLocation(previous, text string) (string, bool) {
	pos := strings.IndexByte(text, ':') + 1
	if len(previous) <= pos || previous[pos] != ' ' {
		return "", false
	}
	if previous[:pos] != text[:pos] {
		return "", false
	}
	return previous[pos+1:], true
}

// Output processes one stdout line. Once diagnostics have appeared, the
// latest stdout line becomes the title.
func (c *Classifier) Output(text string) {
	c.store.AppendOutput(text)
	if c.store.Len() > 0 {
		c.title = text
	}
}

// Finish sets the completion title.
func (c *Classifier) Finish() {
	if c.cleaning {
		c.title = "Done cleaning."
		return
	}
	c.title = "Done building (" + Summary(
		c.store.Count(SeverityError),
		c.store.Count(SeverityWarning),
		c.store.Count(SeverityLink),
	) + ")."
}
