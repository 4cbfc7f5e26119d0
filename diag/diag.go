// Package diag defines the closed diagnostic-kind taxonomy the parser and
// elaborator report through, and the "[line:col] kind: message" formatting
// the CLI driver prints on the first error. Per the redesign direction
// carried into SPEC_FULL.md: user-facing failures are explicit error values,
// never panics. Panics in this module tree are reserved for invariant
// violations the `must` package already guards elsewhere.
package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ember-lang/emberc/source"
)

// Kind classifies a Diagnostic.
type Kind int

const (
	LexicalError Kind = iota
	SyntaxError
	ScopeError
	TypeError
	IRError
)

func (k Kind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case ScopeError:
		return "scope error"
	case TypeError:
		return "type error"
	case IRError:
		return "IR error"
	default:
		return "error"
	}
}

// Diagnostic is a single fail-fast compile error: a kind, a message, and the
// source coordinates it occurred at (when available).
type Diagnostic struct {
	Kind     Kind
	Location source.Location
	Message  string
}

// Error implements the error interface with the "[line:col] kind: message"
// format the driver prints to standard error (spec.md §7).
func (d *Diagnostic) Error() string {
	if d.Location.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Location, d.Kind, d.Message)
}

// New builds a Diagnostic with a formatted message.
func New(kind Kind, loc source.Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind/location context to an underlying error, preserving it
// as the error's cause so callers can still errors.Cause/errors.Is through
// to it.
func Wrap(kind Kind, loc source.Location, err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, (&Diagnostic{Kind: kind, Location: loc, Message: context}).Error())
}

// As reports whether err is (or wraps) a *Diagnostic, returning it if so.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
