package diagnostic

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity classifies a line of compiler output.
type Severity int

const (
	// SeverityWarning is a compiler warning.
	SeverityWarning Severity = iota
	// SeverityError is a compiler error.
	SeverityError
	// SeverityLink is an unresolved symbol reported by the linker.
	SeverityLink
	// SeverityPlain is any other line.
	SeverityPlain
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityLink:
		return "link"
	case SeverityPlain:
		return "plain"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Unknown is the line or column of a message that does not name one.
const Unknown = -1

// LinkHeader is the header of every link error.
const LinkHeader = "Linker error:"

// HeaderMarker prefixes the header row when a message is drawn.
const HeaderMarker = "██ "

// Message is one diagnostic: a header, the line that triggered it, and
// up to two continuation lines.
type Message struct {
	severity Severity
	header   string
	lines    []string
	file     string
	line     int
	column   int
}

// NewMessage creates a message for a triggering line and parses the file,
// line and column it refers to.
func NewMessage(severity Severity, header, text string) *Message {
	m := &Message{
		severity: severity,
		header:   header,
		lines:    []string{text},
		line:     Unknown,
		column:   Unknown,
	}
	m.parseLocation(text)
	return m
}

// parseLocation reads "file:line:column: ..." from text. Lines starting
// with '(' come from the linker and name no file.
func (m *Message) parseLocation(text string) {
	if text == "" || text[0] == '(' {
		return
	}

	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		m.file = text
		return
	}
	m.file = text[:colon]
	if m.severity == SeverityLink {
		return
	}

	rest := text[colon+1:]
	m.line = leadingInt(rest)
	if next := strings.IndexByte(rest, ':'); next >= 0 {
		m.column = leadingInt(rest[next+1:])
	}
}

// leadingInt parses the decimal digits at the start of s, after optional
// blanks. It returns Unknown when there are none.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return Unknown
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return Unknown
	}
	return n
}

// AddText appends a continuation line.
func (m *Message) AddText(text string) {
	m.lines = append(m.lines, text)
}

// Severity returns the message severity.
func (m *Message) Severity() Severity { return m.severity }

// Header returns the location header, without the drawing marker.
func (m *Message) Header() string { return m.header }

// Lines returns the triggering line followed by any continuation lines.
func (m *Message) Lines() []string { return m.lines }

// Text returns every row of the message as drawn, header first.
func (m *Message) Text() []string {
	rows := make([]string, 0, len(m.lines)+1)
	rows = append(rows, HeaderMarker+m.header)
	return append(rows, m.lines...)
}

// Rows returns the number of screen rows the message occupies.
func (m *Message) Rows() int { return len(m.lines) + 1 }

// File returns the source path, or "" if the message names none.
func (m *Message) File() string { return m.file }

// Line returns the source line, or Unknown.
func (m *Message) Line() int { return m.line }

// Column returns the source column, or Unknown.
func (m *Message) Column() int { return m.column }
