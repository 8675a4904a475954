// Package notify surfaces transient, non-blocking notices to the user:
// successes, recoverable errors, hints. Nothing here is fatal; flows always
// return control to the user after notifying.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Kind classifies a notice.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Notifier receives transient notices.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Terminal writes notices to a writer, one line each, prefixed by kind.
type Terminal struct {
	W io.Writer
}

// NewTerminal returns a Terminal notifier writing to stderr.
func NewTerminal() *Terminal {
	return &Terminal{W: os.Stderr}
}

func (t *Terminal) Notify(kind Kind, message string) {
	prefix := map[Kind]string{
		Success: "✓",
		Error:   "✗",
		Info:    "•",
	}[kind]
	if prefix == "" {
		prefix = "•"
	}
	fmt.Fprintf(t.W, "%s %s\n", prefix, message)
}

// Discard drops all notices. Useful in tests and non-interactive paths.
type Discard struct{}

func (Discard) Notify(Kind, string) {}
