package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BlockPaint/internal/model"
)

func saveDrawing(t *testing.T, draw func(d *drawing.Drawing)) string {
	t.Helper()
	d := dxf.NewDrawing()
	draw(d)
	path := filepath.Join(t.TempDir(), "blocks.dxf")
	require.NoError(t, d.SaveAs(path))
	return path
}

func rectangle(t *testing.T, d *drawing.Drawing, left, bottom, right, top float64) {
	t.Helper()
	_, err := d.LwPolyline(true,
		[]float64{left, bottom}, []float64{right, bottom},
		[]float64{right, top}, []float64{left, top})
	require.NoError(t, err)
}

func TestImportDXF_Polylines(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		rectangle(t, d, 0, 20, 40, 40)
		rectangle(t, d, 20, 0, 40, 20)
		rectangle(t, d, 0, 0, 20, 20)
	})

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Blocks, 3)

	// Numbered bottom to top, then left to right
	assert.Equal(t, "0", result.Blocks[0].BlockID)
	assert.Equal(t, [2]int{0, 0}, result.Blocks[0].BottomLeft)
	assert.Equal(t, [2]int{20, 0}, result.Blocks[1].BottomLeft)
	assert.Equal(t, [2]int{0, 20}, result.Blocks[2].BottomLeft)
	assert.Equal(t, [2]int{40, 40}, result.Blocks[2].TopRight)

	canvas, err := result.Canvas()
	require.NoError(t, err)
	assert.Equal(t, 40, canvas.Width)
	assert.Equal(t, 40, canvas.Height)
	c, err := canvas.ColorAt(model.Point{X: 30, Y: 30})
	require.NoError(t, err)
	assert.Equal(t, model.White, c)
}

func TestImportDXF_ChainedLines(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		// A 30x10 rectangle with its bottom edge drawn in two pieces, out of order
		for _, l := range [][4]float64{
			{30, 10, 0, 10},
			{0, 0, 12, 0},
			{30, 0, 30, 10},
			{12, 0, 30, 0},
			{0, 10, 0, 0},
		} {
			_, err := d.Line(l[0], l[1], 0, l[2], l[3], 0)
			require.NoError(t, err)
		}
	})

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Blocks, 1)
	assert.Equal(t, [2]int{0, 0}, result.Blocks[0].BottomLeft)
	assert.Equal(t, [2]int{30, 10}, result.Blocks[0].TopRight)
}

func TestImportDXF_SkipsNonRectangles(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		rectangle(t, d, 0, 0, 10, 10)
		_, err := d.LwPolyline(true, []float64{0, 0}, []float64{10, 0}, []float64{5, 8})
		require.NoError(t, err)
		rectangle(t, d, 0, 0, 10.4, 10)
	})

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	assert.Len(t, result.Blocks, 1)
	assert.Len(t, result.Warnings, 2)
}

func TestImportDXF_OutsideFirstQuadrant(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		rectangle(t, d, -5, 0, 5, 5)
	})

	result := ImportDXF(path)
	assert.Len(t, result.Errors, 1)
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/path/blocks.dxf")
	assert.NotEmpty(t, result.Errors)
}

func TestOutlineRect(t *testing.T) {
	r, ok := outlineRect([]point{{0, 0}, {5, 0}, {10, 0}, {10, 4}, {0, 4}})
	require.True(t, ok, "collinear vertices are dropped")
	assert.Equal(t, model.R(0, 0, 10, 4), r)

	r, ok = outlineRect([]point{{2.004, 1}, {8, 1}, {8, 6.996}, {2, 7}})
	require.True(t, ok, "near-integer corners snap to the grid")
	assert.Equal(t, model.R(2, 1, 8, 7), r)

	_, ok = outlineRect([]point{{0, 0}, {10, 0}, {12, 5}, {0, 5}})
	assert.False(t, ok)
}
