package scm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeGroupStore builds a store with one resource per group:
// staged b.txt, unstaged a.txt, conflicted c.txt.
func threeGroupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	store.Update(mustClassify(t,
		change("b.txt", Added, true),
		change("a.txt", Modified, false),
		change("c.txt", Conflicted, false),
	))
	return store
}

func selectURI(t *testing.T, store *Store, cursor *Cursor, uri string, group GroupID) *Resource {
	t.Helper()
	r, ok := store.Resolve(uri, group)
	require.True(t, ok, "fixture resource %s must exist", uri)
	cursor.Select(r)
	return r
}

func TestCursor_SelectAndRead(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)

	_, ok := cursor.Selected()
	assert.False(t, ok)

	selectURI(t, store, cursor, "a.txt", GroupUnstaged)
	sel, ok := cursor.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.txt", sel.URI)
}

func TestCursor_TraversesGroupBoundaries(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)

	// Flattened order: b.txt (staged), a.txt (unstaged), c.txt (merge).
	selectURI(t, store, cursor, "b.txt", GroupStaged)

	r, ok := cursor.Next()
	require.True(t, ok)
	assert.Equal(t, "a.txt", r.URI)

	r, ok = cursor.Next()
	require.True(t, ok)
	assert.Equal(t, "c.txt", r.URI)
}

func TestCursor_NextThenPreviousRestores(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)
	selectURI(t, store, cursor, "a.txt", GroupUnstaged)

	_, ok := cursor.Next()
	require.True(t, ok)
	r, ok := cursor.Previous()
	require.True(t, ok)
	assert.Equal(t, "a.txt", r.URI)
}

func TestCursor_NoWraparound(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)

	selectURI(t, store, cursor, "c.txt", GroupMerge)
	for range 2 {
		r, ok := cursor.Next()
		assert.False(t, ok)
		assert.Nil(t, r)
		sel, selOk := cursor.Selected()
		require.True(t, selOk)
		assert.Equal(t, "c.txt", sel.URI, "boundary next must leave selection unchanged")
	}

	selectURI(t, store, cursor, "b.txt", GroupStaged)
	_, ok := cursor.Previous()
	assert.False(t, ok)
	sel, selOk := cursor.Selected()
	require.True(t, selOk)
	assert.Equal(t, "b.txt", sel.URI)
}

func TestCursor_MoveWithoutSelectionIsNoop(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)

	_, ok := cursor.Next()
	assert.False(t, ok)
	_, ok = cursor.Previous()
	assert.False(t, ok)
	_, ok = cursor.Selected()
	assert.False(t, ok)
}

func TestCursor_StaleSelectionClearsOnRead(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)
	selectURI(t, store, cursor, "a.txt", GroupUnstaged)

	// Refresh without a.txt: the remembered URI is gone.
	store.Update(mustClassify(t, change("b.txt", Added, true)))

	_, ok := cursor.Selected()
	assert.False(t, ok)
	_, ok = cursor.Next()
	assert.False(t, ok)
}

func TestCursor_ReresolvesByURIAcrossRefresh(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)
	selectURI(t, store, cursor, "a.txt", GroupUnstaged)

	// The user stages a.txt; after the refresh the URI lives in the
	// staged group. Selection follows the URI, not the dead pointer.
	store.Update(mustClassify(t, change("a.txt", Modified, true)))

	sel, ok := cursor.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.txt", sel.URI)
	assert.Equal(t, GroupStaged, sel.Group)
}

func TestCursor_ClearDropsSelection(t *testing.T) {
	t.Parallel()

	store := threeGroupStore(t)
	cursor := NewCursor(store)
	selectURI(t, store, cursor, "a.txt", GroupUnstaged)

	cursor.Clear()
	_, ok := cursor.Selected()
	assert.False(t, ok)
}

func TestFlatten_Order(t *testing.T) {
	t.Parallel()

	groups := mustClassify(t,
		change("u2.txt", Modified, false),
		change("s1.txt", Added, true),
		change("u1.txt", Untracked, false),
		change("m1.txt", Conflicted, false),
	)

	flat := Flatten(groups)
	uris := make([]string, len(flat))
	for i, r := range flat {
		uris[i] = r.URI
	}
	assert.Equal(t, []string{"s1.txt", "u1.txt", "u2.txt", "m1.txt"}, uris)
}
