package scm

import "sync"

// Cursor tracks the single selected resource within the flattened
// concatenation of all groups' resources. Selection is remembered by URI
// and re-resolved against the store on every read: after a refresh drops
// the URI, the selection silently reads as "none". Movement is linear with
// no wraparound, and the flattened order is recomputed per call; indices
// cached across refreshes would point at removed entries.
type Cursor struct {
	store *Store

	mu    sync.Mutex
	uri   string
	group GroupID
}

// NewCursor returns a cursor with no selection.
func NewCursor(store *Store) *Cursor { return &Cursor{store: store} }

// Select sets the selection unconditionally. The resource must belong to
// a currently stored group; selecting anything else is a caller error.
func (c *Cursor) Select(r *Resource) {
	c.mu.Lock()
	c.uri = r.URI
	c.group = r.Group
	c.mu.Unlock()
}

// Clear drops the selection.
func (c *Cursor) Clear() {
	c.mu.Lock()
	c.uri = ""
	c.mu.Unlock()
}

// Selected re-resolves the selection against the current groups. A URI
// that no longer exists clears the selection and reports false.
func (c *Cursor) Selected() (*Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked()
}

// Next advances to the resource after the current selection in flattened
// order and returns it. Without a selection, or at the last resource, it
// reports false and the selection is left as it was.
func (c *Cursor) Next() (*Resource, bool) {
	return c.move(+1)
}

// Previous retreats to the resource before the current selection in
// flattened order and returns it. Without a selection, or at the first
// resource, it reports false and the selection is left as it was.
func (c *Cursor) Previous() (*Resource, bool) {
	return c.move(-1)
}

func (c *Cursor) move(delta int) (*Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sel, ok := c.resolveLocked()
	if !ok {
		return nil, false
	}
	flat := Flatten(c.store.Current())
	idx := -1
	for i, r := range flat {
		if r == sel {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	target := idx + delta
	if target < 0 || target >= len(flat) {
		return nil, false
	}
	next := flat[target]
	c.uri = next.URI
	c.group = next.Group
	return next, true
}

// resolveLocked looks the remembered URI up in the store, preferring the
// group it was selected in. A vanished URI clears the selection.
func (c *Cursor) resolveLocked() (*Resource, bool) {
	if c.uri == "" {
		return nil, false
	}
	r, ok := c.store.Resolve(c.uri, c.group)
	if !ok {
		c.uri = ""
		return nil, false
	}
	c.group = r.Group
	return r, true
}
