// Package diagnostic turns a compiler's stderr stream into messages.
//
// A Classifier looks at each stderr line as it arrives, assigns it a
// Severity by substring, and either opens a new Message, continues the
// most recent one, or leaves it in the raw output log. GCC prints the
// enclosing function or template context on the line before a
// diagnostic; the Classifier keeps that line as the header of the
// messages that follow it.
package diagnostic
