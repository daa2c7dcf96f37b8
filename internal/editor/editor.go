// Package editor implements the open-pane registry behind the change
// panel: diff editors parsed from git output and standalone file editors
// for content without a diff. The panel's navigation layer talks to it
// through the scm interfaces only.
package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/scm"
)

// Manager keeps the ordered registry of open editors and the active one.
// Open may be called from command goroutines, so the registry is
// mutex-guarded.
type Manager struct {
	svc git.Service

	mu     sync.Mutex
	open   []scm.Editor
	active scm.Editor
}

// NewManager returns a manager with no open editors.
func NewManager(svc git.Service) *Manager {
	return &Manager{svc: svc}
}

// Open loads the resource and registers an editor for it: a diff editor
// when git reports changes for the requested side, otherwise a standalone
// editor over the worktree contents (the untracked-file case). A file
// that cannot be read is an open failure.
func (m *Manager) Open(ctx context.Context, uri string, opts scm.OpenOptions) (scm.Editor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := m.svc.Diff(opts.Staged, uri)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", uri, err)
	}

	var ed scm.Editor
	if strings.TrimSpace(text) != "" {
		de, err := ParseDiff(uri, opts.Staged, text)
		if err != nil {
			return nil, err
		}
		ed = de
	} else {
		contents, err := m.svc.FileContents(uri)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", uri, err)
		}
		ed = &FileEditor{uri: uri, contents: contents}
	}

	m.mu.Lock()
	m.replaceLocked(ed)
	m.active = ed
	m.mu.Unlock()
	return ed, nil
}

// replaceLocked drops any editor of the same URI and kind before
// appending, so reopening a resource refreshes its content instead of
// stacking panes.
func (m *Manager) replaceLocked(ed scm.Editor) {
	kept := m.open[:0]
	for _, e := range m.open {
		if e.URI() == ed.URI() && e.IsDiff() == ed.IsDiff() {
			continue
		}
		kept = append(kept, e)
	}
	m.open = append(kept, ed)
}

// Activate makes an already-open editor the active one.
func (m *Manager) Activate(e scm.Editor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, open := range m.open {
		if open == e {
			m.active = e
			return nil
		}
	}
	return fmt.Errorf("editor for %s is not open", e.URI())
}

// All returns the open editors in open order.
func (m *Manager) All() []scm.Editor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]scm.Editor, len(m.open))
	copy(out, m.open)
	return out
}

// Active returns the editor the preview pane should show, or nil.
func (m *Manager) Active() scm.Editor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Reset closes every editor. Called when the groups are replaced, since
// parsed diff content goes stale with them.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.open = nil
	m.active = nil
	m.mu.Unlock()
}

// Compile-time check.
var _ scm.EditorManager = (*Manager)(nil)

// DiffEditor is an open diff pane: the parsed fragments for one
// resource plus a hunk cursor. The cursor and the rendered hunk offsets
// are only touched from the program loop.
type DiffEditor struct {
	uri    string
	staged bool

	files []*gitdiff.File
	hunks []hunkRef
	idx   int

	// hunkLines holds the rendered line offset of each hunk header,
	// refreshed by Render. The panel scrolls its viewport with these.
	hunkLines []int
}

type hunkRef struct {
	file int
	frag *gitdiff.TextFragment
}

// ParseDiff builds a diff editor from raw git diff output. Besides the
// manager, the stash view uses this to preview stash contents.
func ParseDiff(uri string, staged bool, text string) (*DiffEditor, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse diff for %s: %w", uri, err)
	}
	d := &DiffEditor{uri: uri, staged: staged, files: files}
	for fi, f := range files {
		for _, frag := range f.TextFragments {
			d.hunks = append(d.hunks, hunkRef{file: fi, frag: frag})
		}
	}
	return d, nil
}

// URI returns the repo-relative path this editor shows.
func (d *DiffEditor) URI() string { return d.uri }

// IsDiff reports true.
func (d *DiffEditor) IsDiff() bool { return true }

// Staged reports whether the editor shows the index side.
func (d *DiffEditor) Staged() bool { return d.staged }

// HunkCount returns the number of hunks across all parsed files.
func (d *DiffEditor) HunkCount() int { return len(d.hunks) }

// HunkIndex returns the current hunk cursor position.
func (d *DiffEditor) HunkIndex() int { return d.idx }

// HunkLine returns the rendered line offset of hunk i, or 0 before the
// first Render.
func (d *DiffEditor) HunkLine(i int) int {
	if i < 0 || i >= len(d.hunkLines) {
		return 0
	}
	return d.hunkLines[i]
}

// FileEditor is an open standalone pane over raw file contents.
type FileEditor struct {
	uri      string
	contents string
}

// URI returns the repo-relative path this editor shows.
func (e *FileEditor) URI() string { return e.uri }

// IsDiff reports false.
func (e *FileEditor) IsDiff() bool { return false }

// Contents returns the file text as read at open time.
func (e *FileEditor) Contents() string { return e.contents }
