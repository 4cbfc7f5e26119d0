// Package source carries the line/column coordinates that are attached to
// every token, AST node, and diagnostic produced by the front end.
package source

import "fmt"

// Location is a 1-based line/column pair identifying a point in a source
// file. The zero Location is used for synthetic nodes that have no text of
// their own (for example a TypeConv inserted by the elaborator reuses the
// location of the expression it wraps, so Location{} should not normally
// appear in a diagnostic).
type Location struct {
	Line      int
	Character int
}

// String renders the location the way diagnostics expect it: "line:col".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Character)
}

// IsZero reports whether l is the unset location.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Character == 0
}
