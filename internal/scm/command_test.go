package scm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DispatchRunsBoundCommand(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var ran int
	reg.Register(Command{
		ID:  "scm.stage",
		Key: "s",
		Run: func(context.Context, CommandContext) error {
			ran++
			return nil
		},
	})

	handled, err := reg.Dispatch(context.Background(), "s", CommandContext{})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, ran)
}

func TestRegistry_DispatchUnboundKey(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	handled, err := reg.Dispatch(context.Background(), "z", CommandContext{})
	require.NoError(t, err)
	assert.False(t, handled, "unbound keys fall through to the caller")
}

func TestRegistry_DispatchDisabledCommandIsHandledNoop(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var ran int
	reg.Register(Command{
		ID:      "scm.commit",
		Key:     "c",
		Enabled: func(cc CommandContext) bool { return !cc.State.Clean },
		Run: func(context.Context, CommandContext) error {
			ran++
			return nil
		},
	})

	handled, err := reg.Dispatch(context.Background(), "c", CommandContext{State: RepoState{Clean: true}})
	require.NoError(t, err)
	assert.True(t, handled, "the key stays claimed even when the action is gated off")
	assert.Zero(t, ran)

	handled, err = reg.Dispatch(context.Background(), "c", CommandContext{State: RepoState{Clean: false}})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, ran)
}

func TestRegistry_DispatchPropagatesRunError(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(Command{
		ID:  "scm.push",
		Key: "P",
		Run: func(context.Context, CommandContext) error {
			return errors.New("no upstream configured")
		},
	})

	handled, err := reg.Dispatch(context.Background(), "P", CommandContext{})
	assert.True(t, handled)
	require.ErrorContains(t, err, "no upstream configured")
}

func TestRegistry_LaterRegistrationShadowsKey(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var got string
	reg.Register(Command{ID: "first", Key: "x", Run: func(context.Context, CommandContext) error {
		got = "first"
		return nil
	}})
	reg.Register(Command{ID: "second", Key: "x", Run: func(context.Context, CommandContext) error {
		got = "second"
		return nil
	}})

	_, err := reg.Dispatch(context.Background(), "x", CommandContext{})
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestRegistry_VisibleFiltersOnContext(t *testing.T) {
	t.Parallel()

	mergeOnly := func(cc CommandContext) bool {
		for _, g := range cc.Groups {
			if g.ID == GroupMerge {
				return true
			}
		}
		return false
	}

	reg := NewRegistry()
	reg.Register(Command{ID: "scm.refresh", Key: "r"})
	reg.Register(Command{ID: "scm.markResolved", Key: "m", Visible: mergeOnly})
	reg.Register(Command{ID: "scm.stage", Key: "s"})

	plain := reg.Visible(CommandContext{})
	require.Len(t, plain, 2)
	assert.Equal(t, "scm.refresh", plain[0].ID)
	assert.Equal(t, "scm.stage", plain[1].ID)

	merging := threeGroupStore(t).Current()
	all := reg.Visible(CommandContext{Groups: merging})
	require.Len(t, all, 3)
	assert.Equal(t, "scm.markResolved", all[1].ID, "registration order is preserved")
}

func TestRegistry_InvisibleCommandDoesNotDispatch(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var ran int
	reg.Register(Command{
		ID:      "scm.markResolved",
		Key:     "m",
		Visible: func(CommandContext) bool { return false },
		Run: func(context.Context, CommandContext) error {
			ran++
			return nil
		},
	})

	handled, err := reg.Dispatch(context.Background(), "m", CommandContext{})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Zero(t, ran)
}
