package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockPaint/internal/importer"
	"github.com/piwi3910/BlockPaint/internal/model"
)

func TestExportDXF_RoundTrip(t *testing.T) {
	canvas := model.NewCanvas(40, 40)
	for _, op := range []model.Operation{
		model.PointCut("0", model.Point{X: 15, Y: 25}),
		model.VerticalCut("0.2", 30),
	} {
		require.NoError(t, canvas.Apply(op))
	}

	path := filepath.Join(t.TempDir(), "blocks.dxf")
	require.NoError(t, ExportDXF(path, canvas))

	result := importer.ImportDXF(path)
	require.Empty(t, result.Errors)

	var want, got []model.Rect
	eachLeaf(canvas, func(_ string, leaf model.Leaf) { want = append(want, leaf.Rect) })
	for _, b := range result.Blocks {
		got = append(got, b.Rect())
	}
	assert.ElementsMatch(t, want, got)

	imported, err := result.Canvas()
	require.NoError(t, err)
	assert.Equal(t, 40, imported.Width)
	assert.Equal(t, 40, imported.Height)
}

func TestExportDXF_InvalidPath(t *testing.T) {
	assert.Error(t, ExportDXF("/nonexistent/dir/blocks.dxf", model.NewCanvas(4, 4)))
}
