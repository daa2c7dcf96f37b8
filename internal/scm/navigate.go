package scm

import "context"

// Editor is a handle to one open document pane.
type Editor interface {
	URI() string
	IsDiff() bool
}

// OpenOptions control how a resource is opened.
type OpenOptions struct {
	// PreserveFocus keeps focus on the panel list instead of moving it
	// to the opened editor.
	PreserveFocus bool
	// Staged selects the index side of the change for diff content.
	Staged bool
}

// EditorManager is the editor subsystem the controller drives. Open is
// the generic open action and may create a new editor; Activate reveals
// an editor that already exists.
type EditorManager interface {
	Open(ctx context.Context, uri string, opts OpenOptions) (Editor, error)
	Activate(e Editor) error
	All() []Editor
}

// DiffNavigator steps through hunks inside a single open diff editor.
// Navigation mutates the editor's internal cursor, never the panel
// selection.
type DiffNavigator interface {
	CanNavigate(e Editor) bool
	HasNext(e Editor) bool
	HasPrevious(e Editor) bool
	Next(e Editor)
	Previous(e Editor)
}

// Controller turns panel key events into cursor movement and editor
// opens. All collaborators are injected; the controller holds no state of
// its own beyond them.
type Controller struct {
	store   *Store
	cursor  *Cursor
	editors EditorManager
	diffs   DiffNavigator
}

// NewController wires a navigation controller to its collaborators.
func NewController(store *Store, cursor *Cursor, editors EditorManager, diffs DiffNavigator) *Controller {
	return &Controller{store: store, cursor: cursor, editors: editors, diffs: diffs}
}

// MoveDown selects the next resource and opens it, keeping focus on the
// list. With no selection it starts at the first resource. No-op at the
// end of the flattened order.
func (n *Controller) MoveDown(ctx context.Context) error {
	if _, ok := n.cursor.Selected(); !ok {
		return n.openFirst(ctx)
	}
	r, ok := n.cursor.Next()
	if !ok {
		return nil
	}
	_, err := n.OpenResource(ctx, r, true)
	return err
}

// MoveUp selects the previous resource and opens it, keeping focus on the
// list. No-op without a selection or at the start of the flattened order.
func (n *Controller) MoveUp(ctx context.Context) error {
	r, ok := n.cursor.Previous()
	if !ok {
		return nil
	}
	_, err := n.OpenResource(ctx, r, true)
	return err
}

// NextChange moves forward through changes, hunk by hunk: inside an open
// diff with hunks remaining it advances the diff cursor; otherwise it
// moves the selection to the next resource and opens it. With no
// selection it opens the first resource.
func (n *Controller) NextChange(ctx context.Context) error {
	sel, ok := n.cursor.Selected()
	if !ok {
		return n.openFirst(ctx)
	}
	ed, err := n.OpenResource(ctx, sel, true)
	if err != nil {
		return err
	}
	if n.diffs != nil && n.diffs.CanNavigate(ed) && n.diffs.HasNext(ed) {
		n.diffs.Next(ed)
		return nil
	}
	r, ok := n.cursor.Next()
	if !ok {
		return nil
	}
	_, err = n.OpenResource(ctx, r, true)
	return err
}

// PrevChange is the backward counterpart of NextChange. With no selection
// it is a no-op.
func (n *Controller) PrevChange(ctx context.Context) error {
	sel, ok := n.cursor.Selected()
	if !ok {
		return nil
	}
	ed, err := n.OpenResource(ctx, sel, true)
	if err != nil {
		return err
	}
	if n.diffs != nil && n.diffs.CanNavigate(ed) && n.diffs.HasPrevious(ed) {
		n.diffs.Previous(ed)
		return nil
	}
	r, ok := n.cursor.Previous()
	if !ok {
		return nil
	}
	_, err = n.OpenResource(ctx, r, true)
	return err
}

// OpenSelected opens the current selection, taking focus. No-op without a
// selection.
func (n *Controller) OpenSelected(ctx context.Context) error {
	sel, ok := n.cursor.Selected()
	if !ok {
		return nil
	}
	_, err := n.OpenResource(ctx, sel, false)
	return err
}

// OpenResource resolves a resource to an editor. Among the currently open
// editors a diff editor matching the URI wins, then a standalone editor
// matching the path; with neither open, the generic open action decides
// (usually creating a new editor). A failed open does not move the
// cursor back; the next refresh reconciles the selection.
func (n *Controller) OpenResource(ctx context.Context, r *Resource, preserveFocus bool) (Editor, error) {
	for _, e := range n.editors.All() {
		if e.IsDiff() && e.URI() == r.URI {
			return e, n.editors.Activate(e)
		}
	}
	for _, e := range n.editors.All() {
		if !e.IsDiff() && e.URI() == r.URI {
			return e, n.editors.Activate(e)
		}
	}
	return n.editors.Open(ctx, r.URI, OpenOptions{
		PreserveFocus: preserveFocus,
		Staged:        r.Group == GroupStaged,
	})
}

func (n *Controller) openFirst(ctx context.Context) error {
	flat := Flatten(n.store.Current())
	if len(flat) == 0 {
		return nil
	}
	first := flat[0]
	n.cursor.Select(first)
	_, err := n.OpenResource(ctx, first, true)
	return err
}
