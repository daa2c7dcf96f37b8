package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scmview/scmview/internal/ui"
)

// RenderScrollbar returns a vertical scrollbar track of the given
// height: a thumb proportional to the visible portion, positioned by the
// topmost visible line. Empty when all content fits.
func RenderScrollbar(styles ui.Styles, height, totalLines, visibleH, topLine int) string {
	if totalLines <= visibleH || height < 1 {
		return ""
	}

	t := styles.Theme

	thumbSize := height * visibleH / totalLines
	if thumbSize < 1 {
		thumbSize = 1
	}
	if thumbSize > height {
		thumbSize = height
	}

	maxTop := totalLines - visibleH
	if topLine < 0 {
		topLine = 0
	}
	if topLine > maxTop {
		topLine = maxTop
	}
	maxOffset := height - thumbSize
	thumbStart := 0
	if maxTop > 0 {
		thumbStart = topLine * maxOffset / maxTop
	}

	thumbStyle := lipgloss.NewStyle().Foreground(t.Primary)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border)

	var b strings.Builder
	b.Grow(height * 4)
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= thumbStart && i < thumbStart+thumbSize {
			b.WriteString(thumbStyle.Render("┃"))
		} else {
			b.WriteString(trackStyle.Render("│"))
		}
	}
	return b.String()
}
