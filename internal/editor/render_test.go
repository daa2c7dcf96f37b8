package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmview/scmview/internal/ui"
)

func TestDiffEditor_RenderUnified(t *testing.T) {
	t.Parallel()

	d := parsedDiff(t)
	out := d.Render(ui.DefaultStyles(), 80, false)

	assert.Contains(t, out, "--- a/main.go")
	assert.Contains(t, out, "+++ b/main.go")
	assert.Contains(t, out, `+import "fmt"`)
	assert.Contains(t, out, "-\trun()")
	assert.Equal(t, 2, strings.Count(out, "@@ -"))
}

func TestDiffEditor_RenderRecordsHunkOffsets(t *testing.T) {
	t.Parallel()

	d := parsedDiff(t)
	d.Render(ui.DefaultStyles(), 80, false)

	first := d.HunkLine(0)
	second := d.HunkLine(1)
	assert.Equal(t, 2, first, "first hunk follows the two file header lines")
	assert.Greater(t, second, first)
	assert.Zero(t, d.HunkLine(99), "out-of-range offsets read as top")
}

func TestDiffEditor_RenderSideBySide(t *testing.T) {
	t.Parallel()

	d := parsedDiff(t)
	out := d.Render(ui.DefaultStyles(), 90, true)

	assert.Contains(t, out, "│")
	assert.Contains(t, out, "-\trun()")
	assert.Contains(t, out, "+\tfmt.Println")
	assert.NotEmpty(t, d.HunkLine(1), "offsets are tracked in both modes")

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Contains(t, line, "│", "every row keeps the pane separator")
	}
}

func TestFileEditor_RenderNumbersLines(t *testing.T) {
	t.Parallel()

	fe := &FileEditor{uri: "notes.txt", contents: "alpha\nbeta\n"}
	out := fe.Render(ui.DefaultStyles(), 80)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1")
	assert.Contains(t, lines[0], "alpha")
	assert.Contains(t, lines[1], "beta")
}
