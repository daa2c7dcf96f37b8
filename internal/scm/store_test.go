package scm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassify(t *testing.T, changes ...FileChange) []*ResourceGroup {
	t.Helper()
	groups, err := Classify(context.Background(), changes, nil)
	require.NoError(t, err)
	return groups
}

func TestStore_UpdateReplacesWholesale(t *testing.T) {
	t.Parallel()

	store := NewStore()
	assert.Empty(t, store.Current())

	first := mustClassify(t, change("a.txt", Modified, false))
	store.Update(first)
	assert.Equal(t, first, store.Current())

	second := mustClassify(t, change("b.txt", Added, true))
	store.Update(second)
	assert.Equal(t, second, store.Current())
}

func TestStore_NotifiesOncePerUpdate(t *testing.T) {
	t.Parallel()

	store := NewStore()
	fired := 0
	store.OnChange(func() { fired++ })

	store.Update(mustClassify(t, change("a.txt", Modified, false)))
	assert.Equal(t, 1, fired)

	store.Update(nil)
	assert.Equal(t, 2, fired)
}

func TestStore_StaleGenerationIsDiscarded(t *testing.T) {
	t.Parallel()

	store := NewStore()
	fired := 0
	store.OnChange(func() { fired++ })

	older := store.Begin()
	newer := store.Begin()

	staleGroups := mustClassify(t, change("stale.txt", Modified, false))
	assert.False(t, store.TryUpdate(older, staleGroups), "an overtaken refresh must not publish")
	assert.Empty(t, store.Current())
	assert.Zero(t, fired)

	freshGroups := mustClassify(t, change("fresh.txt", Modified, false))
	assert.True(t, store.TryUpdate(newer, freshGroups))
	assert.Equal(t, freshGroups, store.Current())
	assert.Equal(t, 1, fired)

	// The applied generation is spent: replaying it must not publish again.
	assert.False(t, store.TryUpdate(newer, staleGroups))
	assert.Equal(t, freshGroups, store.Current())
}

func TestStore_Resolve(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Update(mustClassify(t,
		change("a.txt", Modified, true),
		change("a.txt", Modified, false),
		change("b.txt", Added, true),
	))

	r, ok := store.Resolve("a.txt", GroupUnstaged)
	require.True(t, ok)
	assert.Equal(t, GroupUnstaged, r.Group)

	r, ok = store.Resolve("a.txt", GroupStaged)
	require.True(t, ok)
	assert.Equal(t, GroupStaged, r.Group)

	// Preferred group absent: fall back to wherever the URI lives.
	r, ok = store.Resolve("b.txt", GroupMerge)
	require.True(t, ok)
	assert.Equal(t, GroupStaged, r.Group)

	_, ok = store.Resolve("missing.txt", GroupUnstaged)
	assert.False(t, ok)
}
