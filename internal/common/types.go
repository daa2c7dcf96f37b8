package common

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scmview/scmview/internal/ui/components"
)

// ── Tab identifiers ─────────────────────────────────────────────────────────

// TabID identifies which view/tab is active.
type TabID int

const (
	TabChanges TabID = iota
	TabStashes
)

// TabMeta describes a tab for display purposes.
type TabMeta struct {
	ID       TabID
	Name     string // Display name shown in the tab bar.
	Icon     string // Unicode icon (nerdfont-free, works in all terminals).
	Shortcut string // Mnemonic shortcut hint displayed in the tab (e.g., "c").
}

// AllTabs is the ordered list of tabs. Tab/Shift+Tab cycles through them,
// or use the shortcut key with alt.
var AllTabs = []TabMeta{
	{TabChanges, "Changes", "●", "c"},
	{TabStashes, "Stashes", "⊟", "t"},
}

// ── Sentinel errors ─────────────────────────────────────────────────────────

// ErrCanceled marks a user-initiated abort (declined dialog, abandoned
// prompt, empty commit message). Callers detect it with errors.Is and
// swallow it instead of reporting an error.
var ErrCanceled = errors.New("canceled")

// ── Custom messages ─────────────────────────────────────────────────────────

// RefreshMsg signals views to reload repository data.
type RefreshMsg struct{}

// ErrMsg carries an error to be displayed.
type ErrMsg struct{ Err error }

// InfoMsg carries an informational message.
type InfoMsg struct{ Text string }

// SwitchTabMsg requests a tab switch.
type SwitchTabMsg struct{ Tab TabID }

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}

// CmdRefresh returns a RefreshMsg (use as return from tea.Cmd).
func CmdRefresh() tea.Msg { return RefreshMsg{} }

// CmdErr creates a tea.Cmd that sends an ErrMsg. Cancellation is benign:
// it produces no message at all.
func CmdErr(err error) tea.Cmd {
	if err == nil || errors.Is(err, ErrCanceled) {
		return nil
	}
	return func() tea.Msg { return ErrMsg{Err: err} }
}

// CmdInfo creates a tea.Cmd that sends an InfoMsg.
func CmdInfo(text string) tea.Cmd {
	return func() tea.Msg { return InfoMsg{Text: text} }
}

// ── View interface ──────────────────────────────────────────────────────────

// View is the interface every tab view must implement.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []components.HelpEntry

	// InputCapture returns true when the view is in a text-input mode
	// (e.g. commit message editing) and wants to capture arrow keys,
	// letters, etc. instead of letting the app handle them for tab
	// switching.
	InputCapture() bool
}
