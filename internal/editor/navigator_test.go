package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedDiff(t *testing.T) *DiffEditor {
	t.Helper()
	d, err := ParseDiff("main.go", false, twoHunkDiff)
	require.NoError(t, err)
	require.Equal(t, 2, d.HunkCount())
	return d
}

func TestNavigator_StepsWithoutWrapping(t *testing.T) {
	t.Parallel()

	d := parsedDiff(t)
	nav := Navigator{}

	require.True(t, nav.CanNavigate(d))
	assert.False(t, nav.HasPrevious(d))
	assert.True(t, nav.HasNext(d))

	nav.Next(d)
	assert.Equal(t, 1, d.HunkIndex())
	assert.False(t, nav.HasNext(d), "last hunk has no next")

	nav.Next(d)
	assert.Equal(t, 1, d.HunkIndex(), "stepping past the end stays put")

	nav.Previous(d)
	assert.Equal(t, 0, d.HunkIndex())
	nav.Previous(d)
	assert.Equal(t, 0, d.HunkIndex(), "stepping before the start stays put")
}

func TestNavigator_IgnoresStandaloneEditors(t *testing.T) {
	t.Parallel()

	nav := Navigator{}
	fe := &FileEditor{uri: "notes.txt", contents: "hello\n"}

	assert.False(t, nav.CanNavigate(fe))
	assert.False(t, nav.HasNext(fe))
	assert.False(t, nav.HasPrevious(fe))
	nav.Next(fe)
	nav.Previous(fe)
}

func TestNavigator_EmptyDiffCannotNavigate(t *testing.T) {
	t.Parallel()

	d := &DiffEditor{uri: "main.go"}
	nav := Navigator{}
	assert.False(t, nav.CanNavigate(d))
}
