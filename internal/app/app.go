package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scmview/scmview/internal/common"
	"github.com/scmview/scmview/internal/config"
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/ui"
	"github.com/scmview/scmview/internal/ui/components"
)

// Model is the top-level Bubbletea model that orchestrates tabs and views.
type Model struct {
	git       git.Service
	cfg       *config.Config
	styles    ui.Styles
	keys      KeyMap
	width     int
	height    int
	activeTab common.TabID
	views     map[common.TabID]common.View
	showHelp  bool
	statusMsg string
	statusErr bool
	statusExp time.Time

	// Cached status bar data — refreshed via tea.Cmd, never computed in View().
	barData components.StatusBarData

	// viewStale tracks which views need a re-init on next switch. Every
	// view starts stale so its first visit loads it.
	viewStale map[common.TabID]bool
}

// statusBarMsg carries refreshed status bar data from a background command.
type statusBarMsg struct {
	data components.StatusBarData
}

// New creates a new application model.
func New(gitSvc git.Service, cfg *config.Config, styles ui.Styles, views map[common.TabID]common.View) Model {
	stale := make(map[common.TabID]bool, len(views))
	for id := range views {
		stale[id] = true
	}
	return Model{
		git:       gitSvc,
		cfg:       cfg,
		styles:    styles,
		keys:      DefaultKeyMap(),
		activeTab: common.TabChanges,
		views:     views,
		barData:   components.StatusBarData{RepoRoot: gitSvc.RepoRoot()},
		viewStale: stale,
	}
}

// Init initialises the active view and triggers the first status bar refresh.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshStatusBar()}
	if v, ok := m.views[m.activeTab]; ok {
		delete(m.viewStale, m.activeTab)
		if cmd := v.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// refreshStatusBar runs git queries in the background and returns a statusBarMsg.
func (m Model) refreshStatusBar() tea.Cmd {
	svc := m.git
	return func() tea.Msg {
		data := components.StatusBarData{
			RepoRoot: svc.RepoRoot(),
			Upstream: svc.Upstream(),
		}
		if branch, err := svc.Branch(); err == nil {
			data.Branch = branch
		}
		if head, err := svc.Head(); err == nil {
			data.Head = head
		}
		data.Ahead, data.Behind, _ = svc.AheadBehind()
		data.Clean, _ = svc.IsClean()
		data.Merging = svc.IsMerging()
		data.Rebasing = svc.IsRebasing()
		return statusBarMsg{data: data}
	}
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentH := m.contentHeight()
		for _, v := range m.views {
			v.SetSize(m.width, contentH)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		// If the active view is capturing text input (commit message,
		// dialog), forward ALL keys to it — don't intercept letters
		// for tab switching.
		if v, ok := m.views[m.activeTab]; ok && v.InputCapture() {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			// Same path a watcher event takes.
			return m, common.CmdRefresh
		case key.Matches(msg, m.keys.NextTab):
			return m, m.switchTo(m.neighborTab(1))
		case key.Matches(msg, m.keys.PrevTab):
			return m, m.switchTo(m.neighborTab(-1))

		// Mnemonic tab shortcuts. Alt+key never collides with
		// view-level bindings.
		case key.Matches(msg, m.keys.TabChanges):
			return m, m.switchTo(common.TabChanges)
		case key.Matches(msg, m.keys.TabStashes):
			return m, m.switchTo(common.TabStashes)

		case key.Matches(msg, m.keys.Back):
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
		}
		// Keys not handled globally are forwarded to the active view below.

	case statusBarMsg:
		m.barData = msg.data
		return m, nil

	case common.RefreshMsg:
		// Only refresh the ACTIVE view + status bar. Inactive views
		// reload when switched to (lazy init), so one filesystem event
		// doesn't fan out into git commands for every view.
		if v, ok := m.views[m.activeTab]; ok {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		for id := range m.views {
			if id != m.activeTab {
				m.viewStale[id] = true
			}
		}
		cmds = append(cmds, m.refreshStatusBar())
		return m, tea.Batch(cmds...)

	case common.ErrMsg:
		m.statusMsg = msg.Err.Error()
		m.statusErr = true
		m.statusExp = time.Now().Add(5 * time.Second)
		return m, nil

	case common.InfoMsg:
		m.statusMsg = msg.Text
		m.statusErr = false
		m.statusExp = time.Now().Add(3 * time.Second)
		return m, nil

	case common.SwitchTabMsg:
		return m, m.switchTo(msg.Tab)
	}

	// Forward unhandled messages to the active view. Dialog results
	// flow through here too: the view that opened the dialog owns it.
	if v, ok := m.views[m.activeTab]; ok {
		updated, cmd := v.Update(msg)
		m.views[m.activeTab] = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the entire UI. This is a pure function — no I/O.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showHelp {
		sections := components.GlobalHelpEntries()
		tabName := ""
		for _, t := range common.AllTabs {
			if t.ID == m.activeTab {
				tabName = t.Name
				break
			}
		}
		if v, ok := m.views[m.activeTab]; ok && tabName != "" {
			sections[tabName] = v.ShortHelp()
		}
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", sections, m.width, m.height)
	}

	tabBar := components.RenderTabs(m.styles, m.buildTabInfos(), m.width)

	content := ""
	if v, ok := m.views[m.activeTab]; ok {
		content = v.View()
	}
	content = lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).Render(content)

	barData := m.barData
	if m.statusMsg != "" && time.Now().Before(m.statusExp) {
		barData.Message = m.statusMsg
		barData.IsError = m.statusErr
	}
	statusBar := components.RenderStatusBar(m.styles, barData, m.width)

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) contentHeight() int {
	// height - tab bar - statusBar(1) - bottomPadding(1)
	h := m.height - components.TabBarRows - 2
	if h < 1 {
		h = 1
	}
	return h
}

// neighborTab returns the tab delta positions away in AllTabs order,
// wrapping around.
func (m Model) neighborTab(delta int) common.TabID {
	n := len(common.AllTabs)
	cur := 0
	for i, t := range common.AllTabs {
		if t.ID == m.activeTab {
			cur = i
			break
		}
	}
	return common.AllTabs[(cur+delta+n)%n].ID
}

// switchTo changes the active tab. The target view is re-initialised
// only when it is stale; switching back to an already loaded tab is
// instant.
func (m *Model) switchTo(tab common.TabID) tea.Cmd {
	m.activeTab = tab
	if !m.viewStale[tab] {
		return nil
	}
	delete(m.viewStale, tab)
	if v, ok := m.views[tab]; ok {
		return v.Init()
	}
	return nil
}

// handleMouse processes mouse events: tab clicks, scroll wheel, and click-through.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		// Scroll wheel in the tab bar cycles tabs.
		if msg.Y < components.TabBarRows {
			delta := 1
			if msg.Button == tea.MouseButtonWheelUp {
				delta = -1
			}
			return m, m.switchTo(m.neighborTab(delta))
		}
		// Adjust Y to be relative to the content area, then forward.
		msg.Y -= components.TabBarRows
		if v, ok := m.views[m.activeTab]; ok {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}

		// Click in tab bar — switch tabs.
		if msg.Y < components.TabBarRows {
			if tab, ok := m.tabAt(msg.X); ok && tab != m.activeTab {
				return m, m.switchTo(tab)
			}
			return m, nil
		}

		// Adjust Y to be relative to the content area, then forward.
		msg.Y -= components.TabBarRows
		if v, ok := m.views[m.activeTab]; ok {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// tabAt determines which tab was clicked given a screen X coordinate.
// Zones come from the tabs component, so hit-testing cannot drift from
// what RenderTabs drew.
func (m Model) tabAt(x int) (common.TabID, bool) {
	for _, zone := range components.TabZones(m.buildTabInfos(), m.width) {
		if x >= zone.Start && x < zone.End {
			return common.AllTabs[zone.Index].ID, true
		}
	}
	return 0, false
}

func (m Model) buildTabInfos() []components.TabInfo {
	infos := make([]components.TabInfo, len(common.AllTabs))
	for i, t := range common.AllTabs {
		infos[i] = components.TabInfo{
			Name:     t.Name,
			Icon:     t.Icon,
			Shortcut: t.Shortcut,
			Active:   t.ID == m.activeTab,
		}
	}
	return infos
}
