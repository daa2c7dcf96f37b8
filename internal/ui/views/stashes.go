package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scmview/scmview/internal/common"
	"github.com/scmview/scmview/internal/config"
	"github.com/scmview/scmview/internal/editor"
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/ui"
	"github.com/scmview/scmview/internal/ui/components"
)

const (
	dialogStashDrop = "stashes.drop"
	dialogStashSave = "stashes.save"
)

// StashesView lists the stash stack with a diff preview pane.
type StashesView struct {
	gitSvc git.Service
	cfg    *config.Config
	styles ui.Styles

	width   int
	height  int
	entries []git.StashEntry
	cursor  int
	loaded  bool

	showDiff   bool
	diffVP     viewport.Model
	sideBySide bool

	dialog       *components.Dialog
	pendingIndex int
}

type (
	stashListMsg struct{ entries []git.StashEntry }
	stashDiffMsg struct {
		index int
		text  string
	}
)

// NewStashesView creates the stashes tab.
func NewStashesView(gitSvc git.Service, cfg *config.Config, styles ui.Styles) *StashesView {
	return &StashesView{
		gitSvc:     gitSvc,
		cfg:        cfg,
		styles:     styles,
		sideBySide: cfg.SideBySideDiff,
	}
}

func (v *StashesView) Init() tea.Cmd { return v.refresh() }

func (v *StashesView) SetSize(w, h int) {
	v.width = w
	v.height = h
	_, previewW := v.stashPaneWidths()
	v.diffVP.Width = max(previewW-5, 1)
	v.diffVP.Height = max(h-3, 1)
}

func (v *StashesView) stashPaneWidths() (listW, previewW int) {
	if v.width < 60 {
		return v.width, 0
	}
	listW = v.width * 2 / 5
	return listW, v.width - listW
}

func (v *StashesView) refresh() tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		entries, err := svc.StashList()
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		return stashListMsg{entries: entries}
	}
}

func (v *StashesView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	if v.dialog != nil && v.dialog.Visible() {
		if _, done := msg.(components.DialogResult); !done {
			d, cmd := v.dialog.Update(msg)
			v.dialog = &d
			return v, cmd
		}
	}

	switch msg := msg.(type) {
	case stashListMsg:
		v.entries = msg.entries
		v.loaded = true
		if v.cursor >= len(v.entries) {
			v.cursor = max(len(v.entries)-1, 0)
		}
		if len(v.entries) == 0 {
			v.showDiff = false
		}
		return v, nil

	case stashDiffMsg:
		// A slow show racing a cursor move must not clobber the preview.
		if msg.index != v.currentIndex() {
			return v, nil
		}
		v.showDiff = true
		v.syncDiff(msg.text)
		return v, nil

	case common.RefreshMsg:
		return v, v.refresh()

	case components.DialogResult:
		return v.handleDialogResult(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *StashesView) handleDialogResult(msg components.DialogResult) (common.View, tea.Cmd) {
	v.dialog = nil
	idx := v.pendingIndex
	if !msg.Confirmed {
		return v, nil
	}
	switch msg.Tag {
	case dialogStashDrop:
		return v, v.dropCmd(idx)
	case dialogStashSave:
		return v, v.saveCmd(msg.Value)
	}
	return v, nil
}

func (v *StashesView) handleKey(msg tea.KeyMsg) (common.View, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		return v.moveCursor(1)
	case "up", "k":
		return v.moveCursor(-1)
	case "home", "g":
		return v.moveCursorTo(0)
	case "end", "G":
		return v.moveCursorTo(len(v.entries) - 1)

	case "pgup", "ctrl+u":
		if v.showDiff {
			v.diffVP.HalfPageUp()
		}
		return v, nil
	case "pgdown", "ctrl+d":
		if v.showDiff {
			v.diffVP.HalfPageDown()
		}
		return v, nil

	case "enter", "d":
		if idx := v.currentIndex(); idx >= 0 {
			return v, v.showCmd(idx)
		}
		return v, nil

	case "esc":
		v.showDiff = false
		return v, nil

	case "v":
		v.sideBySide = !v.sideBySide
		if idx := v.currentIndex(); v.showDiff && idx >= 0 {
			return v, v.showCmd(idx)
		}
		return v, nil

	case "p":
		if idx := v.currentIndex(); idx >= 0 {
			return v, v.popCmd(idx)
		}
		return v, nil

	case "a":
		if idx := v.currentIndex(); idx >= 0 {
			return v, v.applyCmd(idx)
		}
		return v, nil

	case "D", "x":
		idx := v.currentIndex()
		if idx < 0 {
			return v, nil
		}
		if !v.cfg.ConfirmDestructive {
			return v, v.dropCmd(idx)
		}
		message := fmt.Sprintf("Drop stash@{%d}? Its changes will be lost.", idx)
		d := components.NewDangerDialog(v.styles, "Drop Stash", message, dialogStashDrop)
		v.dialog = &d
		v.pendingIndex = idx
		return v, nil

	case "z":
		d := components.NewInputDialog(v.styles, "Stash Changes", "stash message (optional)", dialogStashSave)
		v.dialog = &d
		return v, nil
	}
	return v, nil
}

func (v *StashesView) handleMouse(msg tea.MouseMsg) (common.View, tea.Cmd) {
	listW, previewW := v.stashPaneWidths()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if v.showDiff && previewW > 0 && msg.X >= listW {
			v.diffVP.ScrollUp(3)
			return v, nil
		}
		return v.moveCursor(-1)

	case tea.MouseButtonWheelDown:
		if v.showDiff && previewW > 0 && msg.X >= listW {
			v.diffVP.ScrollDown(3)
			return v, nil
		}
		return v.moveCursor(1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.X >= listW {
			return v, nil
		}
		idx := msg.Y - 2 // panel border + title row
		if idx >= 0 && idx < len(v.entries) {
			return v.moveCursorTo(idx)
		}
	}
	return v, nil
}

func (v *StashesView) currentIndex() int {
	if v.cursor < 0 || v.cursor >= len(v.entries) {
		return -1
	}
	return v.entries[v.cursor].Index
}

func (v *StashesView) moveCursor(delta int) (common.View, tea.Cmd) {
	return v.moveCursorTo(v.cursor + delta)
}

func (v *StashesView) moveCursorTo(idx int) (common.View, tea.Cmd) {
	if len(v.entries) == 0 {
		return v, nil
	}
	v.cursor = ui.Clamp(idx, 0, len(v.entries)-1)
	if v.showDiff {
		return v, v.showCmd(v.currentIndex())
	}
	return v, nil
}

// ── Commands ────────────────────────────────────────────────────────────────

func (v *StashesView) showCmd(idx int) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		text, err := svc.StashShow(idx)
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		return stashDiffMsg{index: idx, text: text}
	}
}

func (v *StashesView) saveCmd(message string) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.StashPush(strings.TrimSpace(message)); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

func (v *StashesView) popCmd(idx int) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.StashPop(idx); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

func (v *StashesView) applyCmd(idx int) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.StashApply(idx); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

func (v *StashesView) dropCmd(idx int) tea.Cmd {
	svc := v.gitSvc
	return func() tea.Msg {
		if err := svc.StashDrop(idx); err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.RefreshMsg{}
	}
}

// syncDiff parses the stash diff and renders it into the preview
// viewport. Output that does not parse is shown raw.
func (v *StashesView) syncDiff(text string) {
	w := v.diffVP.Width
	if w <= 0 {
		return
	}
	uri := fmt.Sprintf("stash@{%d}", v.currentIndex())
	if de, err := editor.ParseDiff(uri, false, text); err == nil {
		v.diffVP.SetContent(de.Render(v.styles, w, v.sideBySide))
	} else {
		v.diffVP.SetContent(text)
	}
	v.diffVP.GotoTop()
}

// ── View ────────────────────────────────────────────────────────────────────

func (v *StashesView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.dialog != nil && v.dialog.Visible() {
		return ui.PlaceCentre(v.width, v.height, v.dialog.View())
	}
	if !v.loaded {
		return ui.PlaceCentre(v.width, v.height, v.styles.Muted.Render("Reading stashes…"))
	}
	if len(v.entries) == 0 {
		empty := v.styles.Muted.Render("No stashes")
		hint := v.styles.Muted.Render("z stashes the working tree")
		return ui.PlaceCentre(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center, empty, hint))
	}

	listW, previewW := v.stashPaneWidths()
	left := v.viewStashList(listW)
	if previewW == 0 || !v.showDiff {
		if previewW == 0 {
			return left
		}
		placeholder := v.styles.Panel.Width(previewW - 2).Height(v.height - 2).
			Render(v.styles.Muted.Render("enter shows the stash diff"))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, placeholder)
	}

	body := v.diffVP.View()
	if sb := components.RenderScrollbar(v.styles, v.diffVP.Height, v.diffVP.TotalLineCount(), v.diffVP.Height, v.diffVP.YOffset); sb != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sb)
	}
	title := v.styles.PanelTitle.Render(ui.Truncate(fmt.Sprintf("stash@{%d}", v.currentIndex()), previewW-4))
	right := v.styles.PanelFocused.Width(previewW - 2).Height(v.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (v *StashesView) viewStashList(listW int) string {
	innerW := listW - 4
	listH := max(v.height-4, 1)

	scrollStart := 0
	if len(v.entries) > listH {
		scrollStart = ui.Clamp(v.cursor-listH/2, 0, len(v.entries)-listH)
	}

	lines := make([]string, 0, listH+2)
	lines = append(lines, v.styles.PanelTitle.Render(fmt.Sprintf("Stashes (%d)", len(v.entries))))

	end := min(scrollStart+listH, len(v.entries))
	for i := scrollStart; i < end; i++ {
		e := v.entries[i]
		ref := v.styles.StashRef.Render(fmt.Sprintf("stash@{%d}", e.Index))
		message := v.styles.Body.Render(ui.Truncate(e.Message, max(innerW-18, 8)))
		line := ref + " " + message
		if e.Branch != "" {
			if avail := innerW - lipgloss.Width(line) - 5; avail > 4 {
				line += " " + v.styles.Muted.Render("on "+ui.Truncate(e.Branch, avail))
			}
		}
		if i == v.cursor {
			plain := fmt.Sprintf("▸ stash@{%d} %s", e.Index, e.Message)
			lines = append(lines, v.styles.ListSelected.Render(ui.Truncate(plain, innerW)))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	for len(lines) < listH+1 {
		lines = append(lines, "")
	}

	bar := ui.RenderKeyValue(v.styles, "p", "pop") + "  " +
		ui.RenderKeyValue(v.styles, "a", "apply") + "  " +
		ui.RenderKeyValue(v.styles, "D", "drop") + "  " +
		ui.RenderKeyValue(v.styles, "z", "stash")
	pos := v.styles.Muted.Render(fmt.Sprintf("%d/%d", v.cursor+1, len(v.entries)))
	bar = lipgloss.NewStyle().MaxWidth(max(innerW-lipgloss.Width(pos)-2, 0)).Render(bar)
	gap := innerW - lipgloss.Width(bar) - lipgloss.Width(pos)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, bar+strings.Repeat(" ", gap)+pos)

	style := v.styles.PanelFocused
	if v.showDiff {
		style = v.styles.Panel
	}
	return style.Width(listW - 2).Height(v.height - 2).
		Render(strings.Join(lines, "\n"))
}

func (v *StashesView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "enter / d", Desc: "Show stash diff"},
		{Key: "p", Desc: "Pop stash"},
		{Key: "a", Desc: "Apply stash (keep it)"},
		{Key: "D", Desc: "Drop stash"},
		{Key: "z", Desc: "Stash the working tree"},
		{Key: "v", Desc: "Toggle side-by-side diff"},
	}
}

func (v *StashesView) InputCapture() bool {
	return v.dialog != nil && v.dialog.Visible()
}
