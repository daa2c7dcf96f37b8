package scm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIcons struct {
	mu     sync.Mutex
	calls  []string
	IconFn func(ctx context.Context, uri string) (string, error)
}

func (s *stubIcons) Icon(ctx context.Context, uri string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, uri)
	s.mu.Unlock()
	if s.IconFn != nil {
		return s.IconFn(ctx, uri)
	}
	return "•", nil
}

func change(uri string, status ChangeStatus, staged bool) FileChange {
	return FileChange{URI: uri, Status: status, Staged: staged}
}

func groupNames(groups []*ResourceGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

func resourceURIs(g *ResourceGroup) []string {
	out := make([]string, len(g.Resources))
	for i, r := range g.Resources {
		out[i] = r.URI
	}
	return out
}

func TestClassify_Scenario(t *testing.T) {
	t.Parallel()

	changes := []FileChange{
		change("a.txt", Modified, false),
		change("b.txt", Added, true),
		change("c.txt", Conflicted, false),
	}

	groups, err := Classify(context.Background(), changes, &stubIcons{})
	require.NoError(t, err)

	require.Equal(t, []string{"Staged changes", "Changes", "Merged Changes"}, groupNames(groups))
	assert.Equal(t, []string{"b.txt"}, resourceURIs(groups[0]))
	assert.Equal(t, []string{"a.txt"}, resourceURIs(groups[1]))
	assert.Equal(t, []string{"c.txt"}, resourceURIs(groups[2]))
}

func TestClassify_EmptyInput(t *testing.T) {
	t.Parallel()

	groups, err := Classify(context.Background(), nil, &stubIcons{})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestClassify_SortsByBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uris []string
		want []string
	}{
		{
			name: "simple names",
			uris: []string{"z.txt", "a.txt"},
			want: []string{"a.txt", "z.txt"},
		},
		{
			name: "base name ignores directories",
			uris: []string{"deep/dir/b.txt", "z.txt", "a/c.txt"},
			want: []string{"deep/dir/b.txt", "a/c.txt", "z.txt"},
		},
		{
			name: "case-insensitive",
			uris: []string{"B.txt", "a.txt"},
			want: []string{"a.txt", "B.txt"},
		},
		{
			name: "full path breaks base-name ties",
			uris: []string{"b/file.txt", "a/file.txt"},
			want: []string{"a/file.txt", "b/file.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			changes := make([]FileChange, len(tt.uris))
			for i, uri := range tt.uris {
				changes[i] = change(uri, Modified, false)
			}
			groups, err := Classify(context.Background(), changes, &stubIcons{})
			require.NoError(t, err)
			require.Len(t, groups, 1)
			assert.Equal(t, "Changes", groups[0].Label)
			assert.Equal(t, tt.want, resourceURIs(groups[0]))
		})
	}
}

func TestClassify_DropsConflictedStaged(t *testing.T) {
	t.Parallel()

	changes := []FileChange{
		change("kept.txt", Conflicted, false),
		change("dropped.txt", Conflicted, true),
		change("staged.txt", Added, true),
	}

	groups, err := Classify(context.Background(), changes, &stubIcons{})
	require.NoError(t, err)

	total := 0
	for _, g := range groups {
		total += len(g.Resources)
	}
	// One conflicted-staged entry discarded.
	assert.Equal(t, len(changes)-1, total)
	for _, g := range groups {
		assert.NotContains(t, resourceURIs(g), "dropped.txt")
	}
}

func TestClassify_GroupOrderIsFixedSubsequence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changes []FileChange
		want    []GroupID
	}{
		{
			name:    "merge only",
			changes: []FileChange{change("c.txt", Conflicted, false)},
			want:    []GroupID{GroupMerge},
		},
		{
			name: "staged and merge",
			changes: []FileChange{
				change("c.txt", Conflicted, false),
				change("b.txt", Added, true),
			},
			want: []GroupID{GroupStaged, GroupMerge},
		},
		{
			name: "unstaged only",
			changes: []FileChange{
				change("a.txt", Modified, false),
				change("n.txt", Untracked, false),
			},
			want: []GroupID{GroupUnstaged},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			groups, err := Classify(context.Background(), tt.changes, &stubIcons{})
			require.NoError(t, err)

			ids := make([]GroupID, len(groups))
			for i, g := range groups {
				ids[i] = g.ID
				assert.NotEmpty(t, g.Resources, "no produced group may be empty")
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestClassify_ResolvesIconsForEveryResource(t *testing.T) {
	t.Parallel()

	icons := &stubIcons{IconFn: func(_ context.Context, uri string) (string, error) {
		return "icon:" + uri, nil
	}}
	changes := []FileChange{
		change("a.txt", Modified, false),
		change("b.txt", Added, true),
		change("c.txt", Conflicted, false),
	}

	groups, err := Classify(context.Background(), changes, icons)
	require.NoError(t, err)

	for _, g := range groups {
		for _, r := range g.Resources {
			assert.Equal(t, "icon:"+r.URI, r.Decoration.Icon)
		}
	}
	assert.Len(t, icons.calls, len(changes))
}

func TestClassify_IconFailureAbortsClassification(t *testing.T) {
	t.Parallel()

	lookupErr := errors.New("icon theme unavailable")
	icons := &stubIcons{IconFn: func(_ context.Context, uri string) (string, error) {
		if uri == "b.txt" {
			return "", lookupErr
		}
		return "•", nil
	}}
	changes := []FileChange{
		change("a.txt", Modified, false),
		change("b.txt", Added, true),
	}

	groups, err := Classify(context.Background(), changes, icons)
	require.ErrorIs(t, err, lookupErr)
	assert.Nil(t, groups)
}

func TestDecorationFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  ChangeStatus
		staged  bool
		letter  string
		color   ColorID
		tooltip string
	}{
		{Added, true, "A", ColorAdded, "Index Added"},
		{Modified, false, "M", ColorModified, "Modified"},
		{Deleted, false, "D", ColorDeleted, "Deleted"},
		{Renamed, true, "R", ColorRenamed, "Index Renamed"},
		{Untracked, false, "U", ColorUntracked, "Untracked"},
		{Conflicted, false, "!", ColorConflict, "Conflicted"},
	}

	for _, tt := range tests {
		d := DecorationFor(tt.status, tt.staged)
		assert.Equal(t, tt.letter, d.Letter)
		assert.Equal(t, tt.color, d.Color)
		assert.Equal(t, tt.tooltip, d.Tooltip)
	}
}
