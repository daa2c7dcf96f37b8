package editor

import (
	"strconv"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/scmview/scmview/internal/ui"
)

// Render produces the styled preview text and refreshes the hunk line
// offsets used for scrolling. The current hunk's header renders bold.
func (d *DiffEditor) Render(styles ui.Styles, width int, sideBySide bool) string {
	if sideBySide {
		return d.renderSideBySide(styles, width)
	}
	return d.renderUnified(styles)
}

func (d *DiffEditor) renderUnified(styles ui.Styles) string {
	var b strings.Builder
	line := 0
	hunk := 0
	d.hunkLines = d.hunkLines[:0]
	write := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		line++
	}

	for _, f := range d.files {
		write(styles.DiffHeader.Render("--- " + oldName(f)))
		write(styles.DiffHeader.Render("+++ " + newName(f)))
		if f.IsBinary {
			write(styles.Muted.Render("Binary file differs"))
			continue
		}
		for _, frag := range f.TextFragments {
			d.hunkLines = append(d.hunkLines, line)
			header := styles.DiffHunkHeader
			if hunk == d.idx {
				header = header.Bold(true).Italic(false)
			}
			write(header.Render(strings.TrimRight(frag.Header(), "\n")))
			hunk++

			for _, l := range frag.Lines {
				text := l.Op.String() + strings.TrimSuffix(l.Line, "\n")
				switch l.Op {
				case gitdiff.OpAdd:
					write(styles.DiffAdded.Render(text))
				case gitdiff.OpDelete:
					write(styles.DiffRemoved.Render(text))
				default:
					write(styles.DiffContext.Render(text))
				}
			}
		}
	}
	return b.String()
}

// renderSideBySide puts deletions on the left and additions on the
// right at line granularity. Headers and context span both panes.
func (d *DiffEditor) renderSideBySide(styles ui.Styles, totalWidth int) string {
	panelW := (totalWidth - 3) / 2 // 3 for separator
	if panelW < 20 {
		panelW = 20
	}
	sep := lipgloss.NewStyle().Foreground(styles.Theme.Border).Render(" │ ")

	var left, right []string
	d.hunkLines = d.hunkLines[:0]
	hunk := 0
	both := func(s string) {
		left = append(left, s)
		right = append(right, s)
	}

	for _, f := range d.files {
		both(styles.DiffHeader.Render(truncateTo("--- "+oldName(f), panelW)))
		both(styles.DiffHeader.Render(truncateTo("+++ "+newName(f), panelW)))
		if f.IsBinary {
			both(styles.Muted.Render("Binary file differs"))
			continue
		}
		for _, frag := range f.TextFragments {
			d.hunkLines = append(d.hunkLines, len(left))
			header := styles.DiffHunkHeader
			if hunk == d.idx {
				header = header.Bold(true).Italic(false)
			}
			both(header.Render(truncateTo(strings.TrimRight(frag.Header(), "\n"), panelW)))
			hunk++

			for _, l := range frag.Lines {
				text := strings.TrimSuffix(l.Line, "\n")
				switch l.Op {
				case gitdiff.OpDelete:
					left = append(left, styles.DiffRemoved.Render(truncateTo("-"+text, panelW)))
					right = append(right, "")
				case gitdiff.OpAdd:
					left = append(left, "")
					right = append(right, styles.DiffAdded.Render(truncateTo("+"+text, panelW)))
				default:
					both(styles.DiffContext.Render(truncateTo(" "+text, panelW)))
				}
			}
		}
	}

	var b strings.Builder
	for i := range left {
		b.WriteString(padTo(left[i], panelW) + sep + right[i] + "\n")
	}
	return b.String()
}

// Render returns the numbered file contents, each line wrapped to the
// pane width.
func (e *FileEditor) Render(styles ui.Styles, width int) string {
	body := width - 6 // line-number gutter
	if body < 20 {
		body = 20
	}
	var b strings.Builder
	for i, line := range strings.Split(strings.TrimSuffix(e.contents, "\n"), "\n") {
		b.WriteString(styles.DiffLineNum.Render(strconv.Itoa(i + 1)))
		b.WriteByte(' ')
		b.WriteString(styles.Body.Render(wrap.String(line, body)))
		b.WriteByte('\n')
	}
	return b.String()
}

func oldName(f *gitdiff.File) string {
	if f.OldName == "" {
		return "/dev/null"
	}
	return "a/" + f.OldName
}

func newName(f *gitdiff.File) string {
	if f.NewName == "" {
		return "/dev/null"
	}
	return "b/" + f.NewName
}

func truncateTo(s string, maxW int) string {
	runes := []rune(s)
	if len(runes) <= maxW {
		return s
	}
	if maxW <= 1 {
		return "…"
	}
	return string(runes[:maxW-1]) + "…"
}

func padTo(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
