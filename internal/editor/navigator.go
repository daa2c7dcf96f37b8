package editor

import "github.com/scmview/scmview/internal/scm"

// Navigator steps the hunk cursor of diff editors. It does not wrap:
// HasNext goes false on the last hunk so the panel's fallback can move
// on to the next file instead.
type Navigator struct{}

// Compile-time check.
var _ scm.DiffNavigator = Navigator{}

// CanNavigate reports whether e is a diff editor with at least one hunk.
func (Navigator) CanNavigate(e scm.Editor) bool {
	d, ok := e.(*DiffEditor)
	return ok && len(d.hunks) > 0
}

// HasNext reports whether a hunk exists after the current one.
func (Navigator) HasNext(e scm.Editor) bool {
	d, ok := e.(*DiffEditor)
	return ok && d.idx < len(d.hunks)-1
}

// HasPrevious reports whether a hunk exists before the current one.
func (Navigator) HasPrevious(e scm.Editor) bool {
	d, ok := e.(*DiffEditor)
	return ok && d.idx > 0
}

// Next advances the hunk cursor. No-op on the last hunk.
func (Navigator) Next(e scm.Editor) {
	if d, ok := e.(*DiffEditor); ok && d.idx < len(d.hunks)-1 {
		d.idx++
	}
}

// Previous retreats the hunk cursor. No-op on the first hunk.
func (Navigator) Previous(e scm.Editor) {
	if d, ok := e.(*DiffEditor); ok && d.idx > 0 {
		d.idx--
	}
}
