package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// DXF layer names written by ExportDXF.
const (
	LayerBlocks = "BLOCKS"
	LayerLabels = "LABELS"
)

// ExportDXF writes the block layout of c as a DXF drawing in pixel units:
// one closed polyline per painted rectangle on the BLOCKS layer and the
// block ids on the LABELS layer. The drawing reads back with
// importer.ImportDXF.
func ExportDXF(path string, c *model.Canvas) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerBlocks, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add blocks layer: %w", err)
	}
	var drawErr error
	eachLeaf(c, func(id string, leaf model.Leaf) {
		if drawErr != nil {
			return
		}
		r := leaf.Rect
		_, drawErr = d.LwPolyline(true,
			[]float64{float64(r.Left), float64(r.Bottom)},
			[]float64{float64(r.Right), float64(r.Bottom)},
			[]float64{float64(r.Right), float64(r.Top)},
			[]float64{float64(r.Left), float64(r.Top)},
		)
	})
	if drawErr != nil {
		return fmt.Errorf("failed to draw block outline: %w", drawErr)
	}

	if _, err := d.AddLayer(LayerLabels, color.Cyan, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add labels layer: %w", err)
	}
	eachLeaf(c, func(id string, leaf model.Leaf) {
		if drawErr != nil {
			return
		}
		r := leaf.Rect
		height := math.Min(8, float64(min(r.Width(), r.Height()))/4)
		_, drawErr = d.Text(id, float64(r.Left)+height/2, float64(r.Bottom)+height/2, 0, height)
	})
	if drawErr != nil {
		return fmt.Errorf("failed to draw block label: %w", drawErr)
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
