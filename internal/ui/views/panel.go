package views

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scmview/scmview/internal/common"
	"github.com/scmview/scmview/internal/config"
	"github.com/scmview/scmview/internal/draft"
	"github.com/scmview/scmview/internal/editor"
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/scm"
	"github.com/scmview/scmview/internal/ui"
	"github.com/scmview/scmview/internal/ui/components"
)

// panelFocus selects which pane receives navigation keys.
type panelFocus int

const (
	focusList panelFocus = iota
	focusPreview
)

// Dialog tags route DialogResult messages back to the action that asked.
const (
	dialogDiscard   = "panel.discard"
	dialogForcePush = "panel.forcepush"
	dialogStashPush = "panel.stashpush"
)

// PanelView is the source-control panel: grouped changes on the left, a
// diff or file preview on the right. The group store, cursor and
// navigation controller do the bookkeeping; this view only translates
// terminal events and renders.
type PanelView struct {
	gitSvc   git.Service
	cfg      *config.Config
	keys     config.KeyBindings
	styles   ui.Styles
	store    *scm.Store
	cursor   *scm.Cursor
	nav      *scm.Controller
	editors  *editor.Manager
	registry *scm.Registry
	drafts   *draft.Store
	icons    scm.IconProvider

	width  int
	height int
	focus  panelFocus
	loaded bool
	repo   scm.RepoState

	previewVP  viewport.Model
	sideBySide bool

	// Commit message entry.
	commitMode bool
	amending   bool
	commitTA   textarea.Model
	draftText  string

	dialog        *components.Dialog
	pendingURI    string
	pendingStatus scm.ChangeStatus

	// Cached layout values from the last render, for mouse hit-testing.
	lastScrollStart int
	lastListH       int
	lastListYOffset int
}

type (
	// panelGroupsMsg carries one finished classification cycle.
	panelGroupsMsg struct {
		gen    uint64
		groups []*scm.ResourceGroup
		repo   scm.RepoState
	}
	// panelPreviewMsg signals that the active editor changed.
	panelPreviewMsg struct{}
	commitDraftMsg  struct{ text string }
	amendPrefillMsg struct{ text string }
	commitDoneMsg   struct{ amended bool }
)

// NewPanelView creates the changes panel. icons may be nil to disable
// file icons; drafts may be nil to disable commit message persistence.
func NewPanelView(gitSvc git.Service, cfg *config.Config, styles ui.Styles, icons scm.IconProvider, drafts *draft.Store) *PanelView {
	store := scm.NewStore()
	cursor := scm.NewCursor(store)
	editors := editor.NewManager(gitSvc)

	ta := textarea.New()
	ta.Placeholder = "Commit message…"
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.CharLimit = 0

	v := &PanelView{
		gitSvc:   gitSvc,
		cfg:      cfg,
		keys:     cfg.Keys,
		styles:   styles,
		store:    store,
		cursor:   cursor,
		nav:      scm.NewController(store, cursor, editors, editor.Navigator{}),
		editors:  editors,
		registry: scm.NewRegistry(),
		drafts:   drafts,
		icons:    icons,
		commitTA: ta,
	}
	v.sideBySide = cfg.SideBySideDiff
	v.registerCommands()
	return v
}

func (v *PanelView) Init() tea.Cmd {
	return tea.Batch(v.refresh(), v.loadDraft())
}

func (v *PanelView) SetSize(w, h int) {
	v.width = w
	v.height = h
	_, previewW := v.paneWidths()
	v.previewVP.Width = max(previewW-5, 1)
	v.previewVP.Height = max(h-3, 1)
	v.commitTA.SetWidth(ui.Clamp(w-12, 20, 72))
	v.syncPreview()
}

// paneWidths splits the content area: 2/5 list, 3/5 preview. Below 60
// columns the preview is dropped entirely.
func (v *PanelView) paneWidths() (listW, previewW int) {
	if v.width < 60 {
		return v.width, 0
	}
	listW = v.width * 2 / 5
	return listW, v.width - listW
}

// ── Refresh ─────────────────────────────────────────────────────────────────

// refresh stamps a new generation and reloads status in the background.
// A cycle that loses the race to a newer one is discarded on arrival.
func (v *PanelView) refresh() tea.Cmd {
	gen := v.store.Begin()
	svc, icons := v.gitSvc, v.icons
	return func() tea.Msg {
		res, err := svc.Status()
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		groups, err := scm.Classify(context.Background(), changesFromStatus(res), icons)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return common.ErrMsg{Err: err}
		}
		return panelGroupsMsg{gen: gen, groups: groups, repo: readRepoState(svc)}
	}
}

// ── Commands ────────────────────────────────────────────────────────────────

// registerCommands contributes the staging and sync actions. The command
// bar and dispatching both read this registry, so a command's predicates
// are the single place its availability is decided.
func (v *PanelView) registerCommands() {
	hasSelection := func(cc scm.CommandContext) bool { return cc.Selection != nil }
	inGroup := func(id scm.GroupID) func(scm.CommandContext) bool {
		return func(cc scm.CommandContext) bool {
			return cc.Selection != nil && cc.Selection.Group == id
		}
	}
	notInGroup := func(id scm.GroupID) func(scm.CommandContext) bool {
		return func(cc scm.CommandContext) bool {
			return cc.Selection != nil && cc.Selection.Group != id
		}
	}
	groupHas := func(ids ...scm.GroupID) func(scm.CommandContext) bool {
		return func(cc scm.CommandContext) bool {
			for _, g := range cc.Groups {
				for _, id := range ids {
					if g.ID == id && len(g.Resources) > 0 {
						return true
					}
				}
			}
			return false
		}
	}

	v.registry.Register(scm.Command{
		ID: "scm.toggleStaged", Title: "Toggle Staged", Key: v.keys.Space,
		Visible: hasSelection,
		Run: func(_ context.Context, cc scm.CommandContext) error {
			r := cc.Selection
			switch r.Group {
			case scm.GroupStaged:
				return v.gitSvc.Unstage(r.URI)
			case scm.GroupMerge:
				return v.gitSvc.MarkResolved(r.URI)
			default:
				return v.gitSvc.Stage(r.URI)
			}
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.stage", Title: "Stage", Key: v.keys.Stage,
		Visible: hasSelection, Enabled: notInGroup(scm.GroupStaged),
		Run: func(_ context.Context, cc scm.CommandContext) error {
			return v.gitSvc.Stage(cc.Selection.URI)
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.unstage", Title: "Unstage", Key: v.keys.Unstage,
		Visible: hasSelection, Enabled: inGroup(scm.GroupStaged),
		Run: func(_ context.Context, cc scm.CommandContext) error {
			return v.gitSvc.Unstage(cc.Selection.URI)
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.stageAll", Title: "Stage All", Key: v.keys.StageAll,
		Enabled: groupHas(scm.GroupUnstaged, scm.GroupMerge),
		Run: func(_ context.Context, _ scm.CommandContext) error {
			return v.gitSvc.StageAll()
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.unstageAll", Title: "Unstage All", Key: v.keys.UnstageAll,
		Enabled: groupHas(scm.GroupStaged),
		Run: func(_ context.Context, _ scm.CommandContext) error {
			return v.gitSvc.UnstageAll()
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.markResolved", Title: "Mark Resolved", Key: v.keys.MarkResolved,
		Visible: inGroup(scm.GroupMerge),
		Run: func(_ context.Context, cc scm.CommandContext) error {
			return v.gitSvc.MarkResolved(cc.Selection.URI)
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.discard", Title: "Discard", Key: v.keys.Discard,
		Visible: hasSelection, Enabled: notInGroup(scm.GroupStaged),
		Run: func(_ context.Context, cc scm.CommandContext) error {
			return discardResource(v.gitSvc, cc.Selection.URI, cc.Selection.Change.Status)
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.push", Title: "Push", Key: v.keys.Push,
		Run: func(_ context.Context, _ scm.CommandContext) error {
			return v.gitSvc.Push(false)
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.pull", Title: "Pull", Key: v.keys.Pull,
		Enabled: func(cc scm.CommandContext) bool { return cc.State.Upstream != "" },
		Run: func(_ context.Context, _ scm.CommandContext) error {
			return v.gitSvc.Pull()
		},
	})
	v.registry.Register(scm.Command{
		ID: "scm.fetch", Title: "Fetch", Key: v.keys.Fetch,
		Run: func(_ context.Context, _ scm.CommandContext) error {
			return v.gitSvc.Fetch()
		},
	})
}

func (v *PanelView) commandContext() scm.CommandContext {
	sel, _ := v.cursor.Selected()
	return scm.CommandContext{
		Selection: sel,
		Groups:    v.store.Current(),
		State:     v.repo,
	}
}

// dispatchCommand runs the registry command bound to key on a background
// command. The bound check is synchronous so unbound keys cost nothing.
func (v *PanelView) dispatchCommand(key string) (common.View, tea.Cmd) {
	if _, ok := v.registry.ByKey(key); !ok {
		return v, nil
	}
	cc := v.commandContext()
	reg := v.registry
	return v, func() tea.Msg {
		handled, err := reg.Dispatch(context.Background(), key, cc)
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		if !handled {
			return nil
		}
		return common.RefreshMsg{}
	}
}

// discardResource reverts worktree changes. Untracked files have nothing
// to restore, so discard means deletion.
func discardResource(svc git.Service, uri string, status scm.ChangeStatus) error {
	if status == scm.Untracked {
		return svc.CleanUntracked(uri)
	}
	return svc.Discard(uri)
}

// ── Update ──────────────────────────────────────────────────────────────────

func (v *PanelView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	// Dialog has exclusive input while visible. Its DialogResult still
	// falls through to the switch below.
	if v.dialog != nil && v.dialog.Visible() {
		if _, done := msg.(components.DialogResult); !done {
			d, cmd := v.dialog.Update(msg)
			v.dialog = &d
			return v, cmd
		}
	}

	switch msg := msg.(type) {
	case panelGroupsMsg:
		if !v.store.TryUpdate(msg.gen, msg.groups) {
			return v, nil // a newer refresh owns the store
		}
		v.loaded = true
		v.repo = msg.repo
		v.editors.Reset()
		if sel, ok := v.cursor.Selected(); ok {
			return v, v.openResourceCmd(sel, true)
		}
		v.syncPreview()
		return v, nil

	case panelPreviewMsg:
		v.syncPreview()
		return v, nil

	case commitDraftMsg:
		v.draftText = msg.text
		return v, nil

	case amendPrefillMsg:
		if v.commitMode && v.amending && strings.TrimSpace(v.commitTA.Value()) == "" {
			v.commitTA.SetValue(msg.text)
		}
		return v, nil

	case commitDoneMsg:
		v.draftText = ""
		text := "Committed"
		if msg.amended {
			text = "Amended last commit"
		}
		return v, tea.Batch(common.CmdInfo(text), common.CmdRefresh)

	case common.RefreshMsg:
		return v, v.refresh()

	case components.DialogResult:
		return v.handleDialogResult(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.KeyMsg:
		if v.commitMode {
			return v.updateCommit(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *PanelView) handleDialogResult(msg components.DialogResult) (common.View, tea.Cmd) {
	v.dialog = nil
	uri, status := v.pendingURI, v.pendingStatus
	v.pendingURI = ""
	if !msg.Confirmed {
		return v, nil
	}
	switch msg.Tag {
	case dialogDiscard:
		return v, v.discardCmd(uri, status)
	case dialogForcePush:
		return v, v.pushCmd(true)
	case dialogStashPush:
		return v, v.stashPushCmd(msg.Value)
	}
	return v, nil
}

func (v *PanelView) handleKey(msg tea.KeyMsg) (common.View, tea.Cmd) {
	s := msg.String()

	if v.focus == focusPreview {
		switch s {
		case "up", v.keys.Up:
			v.previewVP.ScrollUp(1)
			return v, nil
		case "down", v.keys.Down:
			v.previewVP.ScrollDown(1)
			return v, nil
		case "pgup", "ctrl+u":
			v.previewVP.HalfPageUp()
			return v, nil
		case "pgdown", "ctrl+d":
			v.previewVP.HalfPageDown()
			return v, nil
		case "g", "home":
			v.previewVP.GotoTop()
			return v, nil
		case "G", "end":
			v.previewVP.GotoBottom()
			return v, nil
		case "esc":
			v.focus = focusList
			return v, nil
		}
	}

	switch s {
	case "down", v.keys.Down:
		return v, v.navCmd(v.nav.MoveDown)
	case "up", v.keys.Up:
		return v, v.navCmd(v.nav.MoveUp)
	case "right":
		return v, v.navCmd(v.nav.NextChange)
	case "left":
		return v, v.navCmd(v.nav.PrevChange)

	case v.keys.Enter:
		if _, ok := v.cursor.Selected(); !ok {
			return v, nil
		}
		v.focus = focusPreview
		return v, v.navCmd(v.nav.OpenSelected)

	case "esc":
		v.focus = focusList
		return v, nil

	case v.keys.ToggleSideDiff:
		v.sideBySide = !v.sideBySide
		v.syncPreview()
		return v, nil

	case v.keys.OpenInEditor:
		if sel, ok := v.cursor.Selected(); ok {
			return v, v.openExternal(sel.URI)
		}
		return v, nil

	case v.keys.Commit:
		return v.enterCommitMode(false)

	case v.keys.AmendCommit:
		return v.enterCommitMode(true)

	case v.keys.StashPush:
		if v.repo.Clean {
			return v, common.CmdInfo("Nothing to stash")
		}
		d := components.NewInputDialog(v.styles, "Stash Changes", "stash message (optional)", dialogStashPush)
		v.dialog = &d
		return v, nil

	case v.keys.Discard:
		sel, ok := v.cursor.Selected()
		if !ok || sel.Group == scm.GroupStaged {
			return v, nil
		}
		if !v.cfg.ConfirmDestructive {
			return v.dispatchCommand(s)
		}
		v.confirmDiscard(sel)
		return v, nil

	case v.keys.Push:
		// Pushing while behind needs a force push; always confirm that.
		if v.repo.Behind > 0 {
			msg := fmt.Sprintf("%s is %d commit(s) ahead of local. Force push?", v.upstreamName(), v.repo.Behind)
			d := components.NewDangerDialog(v.styles, "Force Push", msg, dialogForcePush)
			v.dialog = &d
			return v, nil
		}
		return v.dispatchCommand(s)
	}

	return v.dispatchCommand(s)
}

func (v *PanelView) upstreamName() string {
	if v.repo.Upstream != "" {
		return v.repo.Upstream
	}
	return "The upstream"
}

func (v *PanelView) confirmDiscard(r *scm.Resource) {
	title := "Discard Changes"
	msg := fmt.Sprintf("Discard changes to %s? This cannot be undone.", r.Name())
	if r.Change.Status == scm.Untracked {
		title = "Delete Untracked File"
		msg = fmt.Sprintf("Delete %s? The file is untracked and its contents will be lost.", r.URI)
	}
	d := components.NewDangerDialog(v.styles, title, msg, dialogDiscard)
	v.dialog = &d
	v.pendingURI = r.URI
	v.pendingStatus = r.Change.Status
}

// navCmd wraps a controller movement in a background command. Opening a
// resource shells out for its diff, so it never runs on the update loop.
func (v *PanelView) navCmd(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return common.ErrMsg{Err: err}
		}
		return panelPreviewMsg{}
	}
}

func (v *PanelView) openResourceCmd(r *scm.Resource, preserveFocus bool) tea.Cmd {
	nav := v.nav
	return func() tea.Msg {
		if _, err := nav.OpenResource(context.Background(), r, preserveFocus); err != nil {
			return common.ErrMsg{Err: err}
		}
		return panelPreviewMsg{}
	}
}

// ── Mouse ───────────────────────────────────────────────────────────────────

func (v *PanelView) handleMouse(msg tea.MouseMsg) (common.View, tea.Cmd) {
	listW, previewW := v.paneWidths()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.X < listW || previewW == 0 {
			return v, v.navCmd(v.nav.MoveUp)
		}
		v.previewVP.ScrollUp(3)
		return v, nil

	case tea.MouseButtonWheelDown:
		if msg.X < listW || previewW == 0 {
			return v, v.navCmd(v.nav.MoveDown)
		}
		v.previewVP.ScrollDown(3)
		return v, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return v, nil
		}
		if msg.X >= listW && previewW > 0 {
			v.focus = focusPreview
			return v, nil
		}
		row := msg.Y - v.lastListYOffset
		if row < 0 || row >= v.lastListH {
			return v, nil
		}
		idx := row + v.lastScrollStart
		items := v.listItems(v.store.Current())
		if idx >= len(items) || items[idx].res == nil {
			return v, nil
		}
		r := items[idx].res
		v.cursor.Select(r)
		v.focus = focusList
		return v, v.openResourceCmd(r, true)
	}
	return v, nil
}

// ── Commit mode ─────────────────────────────────────────────────────────────

func (v *PanelView) enterCommitMode(amend bool) (common.View, tea.Cmd) {
	if !amend && v.groupCount(scm.GroupStaged) == 0 {
		return v, common.CmdInfo("No staged changes to commit")
	}
	v.commitMode = true
	v.amending = amend
	v.commitTA.SetValue(v.draftText)
	cmds := []tea.Cmd{v.commitTA.Focus()}
	if amend && strings.TrimSpace(v.draftText) == "" {
		cmds = append(cmds, v.amendPrefillCmd())
	}
	return v, tea.Batch(cmds...)
}

func (v *PanelView) updateCommit(msg tea.KeyMsg) (common.View, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		message := strings.TrimSpace(v.commitTA.Value())
		if message == "" {
			return v, common.CmdInfo("Empty commit message")
		}
		amend := v.amending
		v.exitCommitMode()
		// Keep the message as draft until the commit succeeds.
		v.draftText = message
		return v, v.commitCmd(message, amend)

	case "esc":
		text := v.commitTA.Value()
		v.exitCommitMode()
		v.draftText = text
		return v, v.saveDraft(text)
	}

	var cmd tea.Cmd
	v.commitTA, cmd = v.commitTA.Update(msg)
	return v, cmd
}

func (v *PanelView) exitCommitMode() {
	v.commitMode = false
	v.amending = false
	v.commitTA.Blur()
}

func (v *PanelView) commitCmd(message string, amend bool) tea.Cmd {
	svc, drafts := v.gitSvc, v.drafts
	root := v.gitSvc.RepoRoot()
	return func() tea.Msg {
		var err error
		if amend {
			err = svc.CommitAmend(message)
		} else {
			err = svc.Commit(message)
		}
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		if drafts != nil {
			_ = drafts.Clear(root)
		}
		return commitDoneMsg{amended: amend}
	}
}

func (v *PanelView) amendPrefillCmd() tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		text, err := svc.LastMessage()
		if err != nil || text == "" {
			return nil
		}
		return amendPrefillMsg{text: text}
	}
}

func (v *PanelView) loadDraft() tea.Cmd {
	if v.drafts == nil {
		return nil
	}
	drafts, root := v.drafts, v.gitSvc.RepoRoot()
	return func() tea.Msg {
		text, err := drafts.Load(root)
		if err != nil || text == "" {
			return nil
		}
		return commitDraftMsg{text: text}
	}
}

func (v *PanelView) saveDraft(text string) tea.Cmd {
	if v.drafts == nil {
		return nil
	}
	drafts, root := v.drafts, v.gitSvc.RepoRoot()
	return func() tea.Msg {
		if err := drafts.Save(root, text); err != nil {
			return common.ErrMsg{Err: err}
		}
		return nil
	}
}

// ── Actions ─────────────────────────────────────────────────────────────────

func (v *PanelView) discardCmd(uri string, status scm.ChangeStatus) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := discardResource(svc, uri, status); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

func (v *PanelView) pushCmd(force bool) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.Push(force); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

func (v *PanelView) stashPushCmd(message string) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.StashPush(strings.TrimSpace(message)); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

// openExternal suspends the TUI and opens the file in the configured
// editor, falling back to $EDITOR, then vi.
func (v *PanelView) openExternal(uri string) tea.Cmd {
	ed := v.cfg.Editor
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	if ed == "" {
		ed = "vi"
	}
	c := exec.Command(ed, filepath.Join(v.gitSvc.RepoRoot(), uri))
	c.Dir = v.gitSvc.RepoRoot()
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	})
}

// ── Preview ─────────────────────────────────────────────────────────────────

// syncPreview re-renders the active editor into the viewport. Diff
// previews scroll to the current hunk header.
func (v *PanelView) syncPreview() {
	ed := v.editors.Active()
	if ed == nil {
		v.previewVP.SetContent("")
		v.previewVP.GotoTop()
		return
	}
	w := v.previewVP.Width
	if w <= 0 {
		return
	}
	switch e := ed.(type) {
	case *editor.DiffEditor:
		v.previewVP.SetContent(e.Render(v.styles, w, v.sideBySide))
		v.previewVP.SetYOffset(e.HunkLine(e.HunkIndex()))
	case *editor.FileEditor:
		v.previewVP.SetContent(e.Render(v.styles, w))
		v.previewVP.GotoTop()
	}
}

// ── View ────────────────────────────────────────────────────────────────────

func (v *PanelView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.dialog != nil && v.dialog.Visible() {
		return ui.PlaceCentre(v.width, v.height, v.dialog.View())
	}
	if v.commitMode {
		return v.viewCommit()
	}
	if !v.loaded {
		return ui.PlaceCentre(v.width, v.height, v.styles.Muted.Render("Reading repository status…"))
	}

	groups := v.store.Current()
	if len(groups) == 0 {
		t := v.styles.Theme
		clean := lipgloss.NewStyle().Foreground(t.Success).Render("✓ No changes")
		hint := v.styles.Muted.Render("working tree clean")
		return ui.PlaceCentre(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center, clean, hint))
	}

	listW, previewW := v.paneWidths()
	left := v.viewList(listW, groups)
	if previewW == 0 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, v.viewPreview(previewW))
}

func (v *PanelView) viewCommit() string {
	t := v.styles.Theme
	title := "Commit"
	if v.amending {
		title = "Amend Last Commit"
	}
	head := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(title)
	summary := v.styles.Muted.Render(fmt.Sprintf("staged files: %d", v.groupCount(scm.GroupStaged)))
	hint := v.styles.Muted.Render("ctrl+s commit  esc cancel (message is kept)")
	box := lipgloss.JoinVertical(lipgloss.Left, head, "", summary, "", v.commitTA.View(), "", hint)
	return ui.PlaceCentre(v.width, v.height, v.styles.PanelFocused.Render(box))
}

// panelItem is one row of the flattened list: a group header when res is
// nil, a file entry otherwise.
type panelItem struct {
	res   *scm.Resource
	group scm.GroupID
	count int
}

func (v *PanelView) listItems(groups []*scm.ResourceGroup) []panelItem {
	items := make([]panelItem, 0, 16)
	for _, g := range groups {
		items = append(items, panelItem{group: g.ID, count: len(g.Resources)})
		for _, r := range g.Resources {
			items = append(items, panelItem{res: r, group: g.ID})
		}
	}
	return items
}

func (v *PanelView) viewList(listW int, groups []*scm.ResourceGroup) string {
	innerW := listW - 4
	items := v.listItems(groups)
	sel, _ := v.cursor.Selected()

	cursorIdx, total, pos := -1, 0, 0
	for i, it := range items {
		if it.res == nil {
			continue
		}
		total++
		if sel != nil && it.res == sel {
			cursorIdx = i
			pos = total
		}
	}

	listH := max(v.height-4, 1)
	scrollStart := 0
	if len(items) > listH {
		scrollStart = ui.Clamp(cursorIdx-listH/2, 0, len(items)-listH)
	}
	v.lastScrollStart = scrollStart
	v.lastListH = listH
	v.lastListYOffset = 2

	lines := make([]string, 0, listH+2)
	lines = append(lines, v.styles.PanelTitle.Render(fmt.Sprintf("Files (%d)", total)))
	end := min(scrollStart+listH, len(items))
	for i := scrollStart; i < end; i++ {
		lines = append(lines, v.renderListItem(items[i], items[i].res != nil && items[i].res == sel, innerW))
	}
	for len(lines) < listH+1 {
		lines = append(lines, "")
	}
	lines = append(lines, v.commandBar(innerW, pos, total))

	style := v.styles.Panel
	if v.focus == focusList {
		style = v.styles.PanelFocused
	}
	return style.Width(listW - 2).Height(v.height - 2).Render(strings.Join(lines, "\n"))
}

func (v *PanelView) renderListItem(it panelItem, selected bool, width int) string {
	if it.res == nil {
		t := v.styles.Theme
		fg := t.Modified
		switch it.group {
		case scm.GroupStaged:
			fg = t.Success
		case scm.GroupMerge:
			fg = t.Error
		}
		label := fmt.Sprintf("%s (%d)", it.group.Label(), it.count)
		return lipgloss.NewStyle().Foreground(fg).Bold(true).Render(ui.Truncate(label, width))
	}

	r := it.res
	icon := r.Decoration.Icon
	if icon != "" {
		icon += " "
	}
	name := ui.Truncate(r.Name(), max(width-8, 4))
	dir := path.Dir(r.URI)

	if selected {
		line := fmt.Sprintf("▸ %s %s%s", r.Decoration.Letter, icon, name)
		if dir != "." {
			line += "  " + dir
		}
		return v.styles.ListSelected.Render(ui.Truncate(line, width))
	}

	st := v.styles.DecorationStyle(r.Decoration.Color)
	line := fmt.Sprintf("  %s %s%s", st.Bold(true).Render(r.Decoration.Letter), icon, st.Render(name))
	if avail := width - lipgloss.Width(line) - 2; dir != "." && avail > 4 {
		line += "  " + v.styles.Muted.Render(ui.Truncate(dir, avail))
	}
	return line
}

// commandBar lists the currently applicable commands with a cursor
// position indicator on the right.
func (v *PanelView) commandBar(width, pos, total int) string {
	cc := v.commandContext()
	parts := make([]string, 0, 8)
	for _, c := range v.registry.Visible(cc) {
		if !c.IsEnabled(cc) {
			continue
		}
		k := c.Key
		if k == " " {
			k = "space"
		}
		parts = append(parts, ui.RenderKeyValue(v.styles, k, strings.ToLower(c.Title)))
	}
	if v.groupCount(scm.GroupStaged) > 0 {
		parts = append(parts, ui.RenderKeyValue(v.styles, v.keys.Commit, "commit"))
	}
	bar := strings.Join(parts, "  ")

	posStr := ""
	if pos > 0 {
		posStr = v.styles.Muted.Render(fmt.Sprintf("%d/%d", pos, total))
	}
	bar = lipgloss.NewStyle().MaxWidth(max(width-lipgloss.Width(posStr)-2, 0)).Render(bar)
	gap := width - lipgloss.Width(bar) - lipgloss.Width(posStr)
	if gap < 1 {
		gap = 1
	}
	return bar + strings.Repeat(" ", gap) + posStr
}

func (v *PanelView) viewPreview(previewW int) string {
	body := v.previewVP.View()
	if sb := components.RenderScrollbar(v.styles, v.previewVP.Height, v.previewVP.TotalLineCount(), v.previewVP.Height, v.previewVP.YOffset); sb != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sb)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, v.previewTitle(previewW-4), body)

	style := v.styles.Panel
	if v.focus == focusPreview {
		style = v.styles.PanelFocused
	}
	return style.Width(previewW - 2).Height(v.height - 2).Render(content)
}

func (v *PanelView) previewTitle(width int) string {
	ed := v.editors.Active()
	if ed == nil {
		return v.styles.PanelTitle.Render("Preview")
	}
	name := scm.DisplayName(ed.URI())
	switch e := ed.(type) {
	case *editor.DiffEditor:
		side := "worktree"
		if e.Staged() {
			side = "index"
		}
		title := fmt.Sprintf("Diff: %s (%s)", name, side)
		if n := e.HunkCount(); n > 0 {
			title += fmt.Sprintf("  hunk %d/%d", e.HunkIndex()+1, n)
		}
		return v.styles.PanelTitle.Render(ui.Truncate(title, width))
	default:
		return v.styles.PanelTitle.Render(ui.Truncate("File: "+name, width))
	}
}

func (v *PanelView) groupCount(id scm.GroupID) int {
	for _, g := range v.store.Current() {
		if g.ID == id {
			return len(g.Resources)
		}
	}
	return 0
}

// ── View interface ──────────────────────────────────────────────────────────

func (v *PanelView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "↓ / ↑", Desc: "Select next / previous change"},
		{Key: "→ / ←", Desc: "Step through hunks, then files"},
		{Key: "enter", Desc: "Open and focus the preview"},
		{Key: "space", Desc: "Toggle staged"},
		{Key: "s / u", Desc: "Stage / unstage file"},
		{Key: "S / U", Desc: "Stage / unstage everything"},
		{Key: "x", Desc: "Discard changes"},
		{Key: "m", Desc: "Mark conflict resolved"},
		{Key: "c / C", Desc: "Commit / amend last commit"},
		{Key: "P / p / f", Desc: "Push / pull / fetch"},
		{Key: "z", Desc: "Stash changes"},
		{Key: "e", Desc: "Open in external editor"},
		{Key: "v", Desc: "Toggle side-by-side diff"},
	}
}

func (v *PanelView) InputCapture() bool {
	return v.commitMode || (v.dialog != nil && v.dialog.Visible())
}
