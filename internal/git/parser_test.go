package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusOutput_Empty(t *testing.T) {
	t.Parallel()

	result := ParseStatusOutput("")
	require.NotNil(t, result)
	assert.Zero(t, result.TotalCount())
}

func TestParseStatusOutput_Categories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		out       string
		staged    []string
		unstaged  []string
		untracked []string
		conflicts []string
	}{
		{
			name:     "worktree modification",
			out:      " M a.txt\x00",
			unstaged: []string{"a.txt"},
		},
		{
			name:   "staged addition",
			out:    "A  b.txt\x00",
			staged: []string{"b.txt"},
		},
		{
			name:     "dirty in index and worktree",
			out:      "MM c.txt\x00",
			staged:   []string{"c.txt"},
			unstaged: []string{"c.txt"},
		},
		{
			name:      "untracked",
			out:       "?? new.txt\x00",
			untracked: []string{"new.txt"},
		},
		{
			name:      "unmerged",
			out:       "UU conflict.txt\x00",
			conflicts: []string{"conflict.txt"},
		},
		{
			name:      "both added",
			out:       "AA both.txt\x00",
			conflicts: []string{"both.txt"},
		},
		{
			name:      "both deleted",
			out:       "DD gone.txt\x00",
			conflicts: []string{"gone.txt"},
		},
		{
			name:      "mixed set",
			out:       "A  b.txt\x00 M a.txt\x00?? x.txt\x00UU c.txt\x00",
			staged:    []string{"b.txt"},
			unstaged:  []string{"a.txt"},
			untracked: []string{"x.txt"},
			conflicts: []string{"c.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := ParseStatusOutput(tt.out)
			assert.Equal(t, tt.staged, paths(result.Staged))
			assert.Equal(t, tt.unstaged, paths(result.Unstaged))
			assert.Equal(t, tt.untracked, paths(result.Untracked))
			assert.Equal(t, tt.conflicts, paths(result.Conflicts))
		})
	}
}

func TestParseStatusOutput_Rename(t *testing.T) {
	t.Parallel()

	result := ParseStatusOutput("R  renamed.txt\x00original.txt\x00 M other.txt\x00")

	require.Len(t, result.Staged, 1)
	assert.Equal(t, "renamed.txt", result.Staged[0].Path)
	assert.Equal(t, "original.txt", result.Staged[0].OrigPath)
	assert.Equal(t, StatusRenamed, result.Staged[0].Staging)

	// The rename's extra record must not swallow the following entry.
	require.Len(t, result.Unstaged, 1)
	assert.Equal(t, "other.txt", result.Unstaged[0].Path)
}

func TestParseStatusOutput_PathWithSpaces(t *testing.T) {
	t.Parallel()

	result := ParseStatusOutput(" M dir with space/a file.txt\x00")
	require.Len(t, result.Unstaged, 1)
	assert.Equal(t, "dir with space/a file.txt", result.Unstaged[0].Path)
}

func TestParseStashList(t *testing.T) {
	t.Parallel()

	out := "stash@{0}: WIP on main: 1234abc initial commit\n" +
		"stash@{1}: On feature/x: saved work\n"

	entries := ParseStashList(out)
	require.Len(t, entries, 2)

	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, "1234abc initial commit", entries[0].Message)

	assert.Equal(t, 1, entries[1].Index)
	assert.Equal(t, "saved work", entries[1].Message)
	assert.Equal(t, "feature/x", entries[1].Branch)
}

func TestParseStashList_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseStashList(""))
}

func paths(files []FileStatus) []string {
	if len(files) == 0 {
		return nil
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
