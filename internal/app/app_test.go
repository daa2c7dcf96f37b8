package app

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmview/scmview/internal/common"
	"github.com/scmview/scmview/internal/config"
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/ui"
	"github.com/scmview/scmview/internal/ui/components"
	"github.com/scmview/scmview/internal/ui/views"
)

func TestMain(m *testing.M) {
	// Plain-text frames keep the byte assertions below stable.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// fakeService serves canned repository state; methods the tests never
// reach panic through the embedded nil interface.
type fakeService struct {
	git.Service

	status  *git.StatusResult
	stashes []git.StashEntry
}

func (f *fakeService) RepoRoot() string               { return "/work/demo" }
func (f *fakeService) Upstream() string               { return "origin/main" }
func (f *fakeService) Branch() (string, error)        { return "main", nil }
func (f *fakeService) Head() (string, error)          { return "f00dcaf", nil }
func (f *fakeService) AheadBehind() (int, int, error) { return 1, 0, nil }
func (f *fakeService) IsClean() (bool, error)         { return false, nil }
func (f *fakeService) IsMerging() bool                { return false }
func (f *fakeService) IsRebasing() bool               { return false }
func (f *fakeService) Status() (*git.StatusResult, error) {
	return f.status, nil
}
func (f *fakeService) StashList() ([]git.StashEntry, error) {
	return f.stashes, nil
}

func appConfig() *config.Config {
	return &config.Config{
		DiffContextLines: 3,
		Keys:             config.DefaultKeyBindings(),
	}
}

func newTestApp(svc git.Service) Model {
	cfg := appConfig()
	styles := ui.DefaultStyles()
	return New(svc, cfg, styles, map[common.TabID]common.View{
		common.TabChanges: views.NewPanelView(svc, cfg, styles, nil, nil),
		common.TabStashes: views.NewStashesView(svc, cfg, styles),
	})
}

// recordView is a minimal common.View that records what the app does to
// it.
type recordView struct {
	inits   int
	msgs    []tea.Msg
	capture bool
	content string
}

func (r *recordView) Init() tea.Cmd { r.inits++; return nil }
func (r *recordView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	r.msgs = append(r.msgs, msg)
	return r, nil
}
func (r *recordView) View() string                      { return r.content }
func (r *recordView) SetSize(int, int)                  {}
func (r *recordView) ShortHelp() []components.HelpEntry { return nil }
func (r *recordView) InputCapture() bool                { return r.capture }

func newRecordApp(changes, stashes *recordView) Model {
	return New(&fakeService{}, appConfig(), ui.DefaultStyles(), map[common.TabID]common.View{
		common.TabChanges: changes,
		common.TabStashes: stashes,
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// ── Full program ────────────────────────────────────────────────────────────

func TestApp_ChangesStashesHelpQuit(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		status: &git.StatusResult{
			Staged:   []git.FileStatus{{Staging: git.StatusAdded, Path: "internal/auth/token.go"}},
			Unstaged: []git.FileStatus{{Worktree: git.StatusModified, Path: "README.md"}},
		},
		stashes: []git.StashEntry{{Index: 0, Message: "wip: half a refactor", Branch: "main"}},
	}
	tm := teatest.NewTestModel(t, newTestApp(svc), teatest.WithInitialTermSize(100, 30))

	// The changes panel loads first, with the branch in the status bar.
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Files (2)")) &&
			bytes.Contains(out, []byte("README.md")) &&
			bytes.Contains(out, []byte("main"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("stash@{0}")) &&
			bytes.Contains(out, []byte("wip: half a refactor"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Keyboard Shortcuts"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestApp_CleanRepoShowsEmptyState(t *testing.T) {
	t.Parallel()

	svc := &fakeService{status: &git.StatusResult{}}
	tm := teatest.NewTestModel(t, newTestApp(svc), teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("No changes"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// ── Update loop ─────────────────────────────────────────────────────────────

func TestModel_SwitchReinitsOnlyStaleViews(t *testing.T) {
	t.Parallel()

	changes, stashes := &recordView{}, &recordView{}
	m := newRecordApp(changes, stashes)
	m.Init()
	assert.Equal(t, 1, changes.inits)

	tab := tea.KeyMsg{Type: tea.KeyTab}

	m, _ = update(t, m, tab)
	assert.Equal(t, common.TabStashes, m.activeTab)
	assert.Equal(t, 1, stashes.inits, "first visit loads the view")

	m, _ = update(t, m, tab)
	assert.Equal(t, common.TabChanges, m.activeTab)
	assert.Equal(t, 1, changes.inits, "switching back to a loaded view is free")

	// A refresh invalidates the inactive view, so the next switch
	// reloads it.
	m, _ = update(t, m, common.RefreshMsg{})
	m, _ = update(t, m, tab)
	assert.Equal(t, 2, stashes.inits)
}

func TestModel_RefreshReachesOnlyActiveView(t *testing.T) {
	t.Parallel()

	changes, stashes := &recordView{}, &recordView{}
	m := newRecordApp(changes, stashes)
	m.Init()

	_, _ = update(t, m, common.RefreshMsg{})
	assert.Len(t, changes.msgs, 1)
	assert.Empty(t, stashes.msgs)
}

func TestModel_InputCaptureForwardsGlobalKeys(t *testing.T) {
	t.Parallel()

	changes := &recordView{capture: true}
	m := newRecordApp(changes, &recordView{})
	m.Init()

	quit := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	_, cmd := update(t, m, quit)
	assert.Nil(t, cmd, "q must not quit while the view captures input")
	require.Len(t, changes.msgs, 1)
	assert.Equal(t, quit, changes.msgs[0])
}

func TestModel_AltShortcutsSwitchTabs(t *testing.T) {
	t.Parallel()

	m := newRecordApp(&recordView{}, &recordView{})
	m.Init()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true})
	assert.Equal(t, common.TabStashes, m.activeTab)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}, Alt: true})
	assert.Equal(t, common.TabChanges, m.activeTab)
}

func TestModel_TabBarClickSwitchesTab(t *testing.T) {
	t.Parallel()

	m := newRecordApp(&recordView{}, &recordView{})
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	zones := components.TabZones(m.buildTabInfos(), 100)
	require.Len(t, zones, 2)

	m, _ = update(t, m, tea.MouseMsg{
		X: zones[1].Start, Y: 0,
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress,
	})
	assert.Equal(t, common.TabStashes, m.activeTab)
}

func TestModel_ContentClickLandsInViewCoordinates(t *testing.T) {
	t.Parallel()

	changes := &recordView{}
	m := newRecordApp(changes, &recordView{})
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	_, _ = update(t, m, tea.MouseMsg{
		X: 10, Y: components.TabBarRows + 4,
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress,
	})
	require.Len(t, changes.msgs, 1)
	fwd, ok := changes.msgs[0].(tea.MouseMsg)
	require.True(t, ok)
	assert.Equal(t, 4, fwd.Y, "views see Y relative to the content area")
}

func TestModel_StatusMessagesRenderInBar(t *testing.T) {
	t.Parallel()

	m := newRecordApp(&recordView{content: "body"}, &recordView{})
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, common.ErrMsg{Err: errors.New("push rejected")})
	assert.Contains(t, m.View(), "push rejected")

	m, _ = update(t, m, common.InfoMsg{Text: "Committed"})
	assert.Contains(t, m.View(), "Committed")
}

func TestModel_SwitchTabMsg(t *testing.T) {
	t.Parallel()

	m := newRecordApp(&recordView{}, &recordView{})
	m.Init()

	m, _ = update(t, m, common.SwitchTabMsg{Tab: common.TabStashes})
	assert.Equal(t, common.TabStashes, m.activeTab)
}
