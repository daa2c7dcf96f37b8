package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/scm"
)

func scmOpts(preserveFocus, staged bool) scm.OpenOptions {
	return scm.OpenOptions{PreserveFocus: preserveFocus, Staged: staged}
}

// twoHunkDiff is a parseable unified diff with two hunks in one file.
const twoHunkDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,2 +1,3 @@
 package main
+import "fmt"

@@ -10,2 +11,2 @@ func main() {
-	run()
+	fmt.Println("run")
 	done()
`

type stubGit struct {
	git.Service
	diffs map[string]string
	files map[string]string
}

func (s stubGit) Diff(staged bool, path string) (string, error) {
	side := "worktree"
	if staged {
		side = "staged"
	}
	return s.diffs[side+":"+path], nil
}

func (s stubGit) FileContents(path string) (string, error) {
	c, ok := s.files[path]
	if !ok {
		return "", fmt.Errorf("open %s: no such file", path)
	}
	return c, nil
}

func TestManager_OpenParsesDiff(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{diffs: map[string]string{"worktree:main.go": twoHunkDiff}})

	ed, err := m.Open(context.Background(), "main.go", scmOpts(false, false))
	require.NoError(t, err)

	require.True(t, ed.IsDiff())
	d, ok := ed.(*DiffEditor)
	require.True(t, ok)
	assert.Equal(t, 2, d.HunkCount())
	assert.False(t, d.Staged())

	require.Len(t, m.All(), 1)
	assert.Same(t, ed, m.Active())
}

func TestManager_OpenStagedSideIsDistinct(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{
		diffs: map[string]string{"staged:main.go": twoHunkDiff},
		files: map[string]string{"main.go": "package main\n"},
	})

	staged, err := m.Open(context.Background(), "main.go", scmOpts(true, true))
	require.NoError(t, err)
	assert.True(t, staged.IsDiff())

	// The worktree side has no diff, so this opens a standalone editor.
	worktree, err := m.Open(context.Background(), "main.go", scmOpts(true, false))
	require.NoError(t, err)
	assert.False(t, worktree.IsDiff())

	assert.Len(t, m.All(), 2, "diff and standalone editors coexist per path")
}

func TestManager_OpenFallsBackToFileEditor(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{files: map[string]string{"notes.txt": "hello\nworld\n"}})

	ed, err := m.Open(context.Background(), "notes.txt", scmOpts(true, false))
	require.NoError(t, err)

	fe, ok := ed.(*FileEditor)
	require.True(t, ok)
	assert.Equal(t, "hello\nworld\n", fe.Contents())
}

func TestManager_OpenMissingFileFails(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{})

	_, err := m.Open(context.Background(), "gone.txt", scmOpts(true, false))
	require.ErrorContains(t, err, "gone.txt")
	assert.Empty(t, m.All())
}

func TestManager_ReopenReplacesSameKind(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{diffs: map[string]string{"worktree:main.go": twoHunkDiff}})

	first, err := m.Open(context.Background(), "main.go", scmOpts(false, false))
	require.NoError(t, err)
	second, err := m.Open(context.Background(), "main.go", scmOpts(false, false))
	require.NoError(t, err)

	require.Len(t, m.All(), 1, "reopening refreshes the pane instead of stacking")
	assert.NotSame(t, first, second)
	assert.Same(t, second, m.Active())
}

func TestManager_ActivateUnknownEditorFails(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{})
	err := m.Activate(&FileEditor{uri: "stray.txt"})
	require.ErrorContains(t, err, "stray.txt")
}

func TestManager_ResetClosesEverything(t *testing.T) {
	t.Parallel()

	m := NewManager(stubGit{diffs: map[string]string{"worktree:main.go": twoHunkDiff}})
	_, err := m.Open(context.Background(), "main.go", scmOpts(false, false))
	require.NoError(t, err)

	m.Reset()

	assert.Empty(t, m.All())
	assert.Nil(t, m.Active())
}

func TestManager_OpenHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(stubGit{})
	_, err := m.Open(ctx, "main.go", scmOpts(false, false))
	require.ErrorIs(t, err, context.Canceled)
}
