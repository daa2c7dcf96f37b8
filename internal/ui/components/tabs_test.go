package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmview/scmview/internal/ui"
)

func sampleTabs() []TabInfo {
	return []TabInfo{
		{Name: "Changes", Icon: "●", Shortcut: "c", Active: true},
		{Name: "Stashes", Icon: "⊟", Shortcut: "t"},
	}
}

func TestTabZones_OrderedAndDisjoint(t *testing.T) {
	t.Parallel()

	zones := TabZones(sampleTabs(), 100)
	require.Len(t, zones, 2)

	prevEnd := 0
	for i, z := range zones {
		assert.Equal(t, i, z.Index)
		assert.Greater(t, z.End, z.Start)
		assert.GreaterOrEqual(t, z.Start, prevEnd, "zones must not overlap")
		prevEnd = z.End
	}
}

func TestTabZones_NarrowWidthShrinksToIcons(t *testing.T) {
	t.Parallel()

	wide := TabZones(sampleTabs(), 100)
	narrow := TabZones(sampleTabs(), 10)
	require.Len(t, narrow, 2)
	assert.Less(t, narrow[1].End, wide[1].End)
}

func TestRenderTabs_TwoRowsWithNames(t *testing.T) {
	t.Parallel()

	out := RenderTabs(ui.DefaultStyles(), sampleTabs(), 100)
	assert.Contains(t, out, "Changes")
	assert.Contains(t, out, "Stashes")
	assert.Len(t, strings.Split(out, "\n"), TabBarRows)
}
