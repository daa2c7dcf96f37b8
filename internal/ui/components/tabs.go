package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/scmview/scmview/internal/ui"
)

// TabInfo describes a single tab for rendering.
type TabInfo struct {
	Name     string
	Icon     string
	Shortcut string
	Active   bool
}

// TabBarRows is the number of screen rows the tab bar occupies: one
// label row plus the underline.
const TabBarRows = 2

// safeIconWidth returns a conservative width estimate for a Unicode
// icon. Many TUI icons (● ⊟ ↻ etc.) render double-width in some
// terminals even though runewidth reports them as single-width, so any
// non-ASCII rune counts as 2 cells.
func safeIconWidth(icon string) int {
	w := 0
	for _, r := range icon {
		if r < 128 {
			w++
		} else {
			w += 2
		}
	}
	return w
}

// fullRowWidth is the label row width with full "icon Name" labels.
func fullRowWidth(tabs []TabInfo) int {
	w := 1 // left padding
	for _, tab := range tabs {
		w += 1 + safeIconWidth(tab.Icon) + 1 + utf8.RuneCountInString(tab.Name) + 1
	}
	return w
}

// RenderTabs renders the tab bar on a single row: full "icon Name"
// labels when they fit, icon-only when the terminal is very narrow. The
// underline carries a bold accent segment beneath the active tab.
func RenderTabs(styles ui.Styles, tabs []TabInfo, width int) string {
	t := styles.Theme

	activeStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	iconOnly := fullRowWidth(tabs) > width

	var row strings.Builder
	row.Grow(width + 32)
	row.WriteByte(' ')
	col := 1
	activeStart, activeEnd := -1, -1

	for _, tab := range tabs {
		label := tab.Icon + " " + tab.Name
		if iconOnly {
			label = tab.Icon
		}

		var styled string
		if tab.Active {
			styled = " " + activeStyle.Render(label) + " "
		} else {
			styled = " " + inactiveStyle.Render(label) + " "
		}

		w := lipgloss.Width(styled)
		if tab.Active {
			activeStart, activeEnd = col, col+w
		}
		row.WriteString(styled)
		col += w
	}

	labelRow := lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Background(t.Bg).
		Render(row.String())

	underline := buildUnderline(styles, width, activeStart, activeEnd)

	// Overlay a right-side hint.
	hintStyle := lipgloss.NewStyle().Foreground(t.TextSubtle).Faint(true)
	hint := hintStyle.Render("tab switch  ?help")
	hintW := lipgloss.Width(hint)
	if hintW+4 < width {
		hintStart := width - hintW - 1
		underline = buildUnderline(styles, hintStart, activeStart, activeEnd) + " " + hint
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		labelRow,
		lipgloss.NewStyle().Width(width).Render(underline),
	)
}

// TabZone is the clickable column range of one tab in the label row.
type TabZone struct {
	Index int
	Start int // inclusive X
	End   int // exclusive X
}

// TabZones returns the mouse hit zones matching RenderTabs' layout, so
// click handling cannot drift from rendering.
func TabZones(tabs []TabInfo, width int) []TabZone {
	iconOnly := fullRowWidth(tabs) > width
	zones := make([]TabZone, 0, len(tabs))
	col := 1
	for i, tab := range tabs {
		label := tab.Icon + " " + tab.Name
		if iconOnly {
			label = tab.Icon
		}
		w := lipgloss.Width(label) + 2
		zones = append(zones, TabZone{Index: i, Start: col, End: col + w})
		col += w
	}
	return zones
}

// buildUnderline builds a width-wide underline with a bold accent
// segment between activeStart..activeEnd and thin segments elsewhere.
func buildUnderline(styles ui.Styles, width, activeStart, activeEnd int) string {
	borderSt := lipgloss.NewStyle().Foreground(styles.Theme.Border)
	accentSt := lipgloss.NewStyle().Foreground(styles.Theme.Primary).Bold(true)

	if activeStart < 0 || activeEnd < 0 || width <= 0 {
		if width <= 0 {
			return ""
		}
		return borderSt.Render(strings.Repeat("─", width))
	}
	if activeEnd > width {
		activeEnd = width
	}
	if activeStart > width {
		activeStart = width
	}

	var b strings.Builder
	b.Grow(width * 4)
	if activeStart > 0 {
		b.WriteString(borderSt.Render(strings.Repeat("─", activeStart)))
	}
	if seg := activeEnd - activeStart; seg > 0 {
		b.WriteString(accentSt.Render(strings.Repeat("━", seg)))
	}
	if rem := width - activeEnd; rem > 0 {
		b.WriteString(borderSt.Render(strings.Repeat("─", rem)))
	}
	return b.String()
}
