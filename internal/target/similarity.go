package target

import (
	"fmt"
	"math"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// SimilarityScale converts the summed pixel distance into score units.
const SimilarityScale = 0.005

// Similarity returns round(SimilarityScale * sum of the RGB distances)
// between every image pixel and the canvas color shown there.
//
// Pixels are visited block by block. If the blocks do not cover every
// pixel exactly once the canvas is malformed and an error is returned.
func (t *Image) Similarity(c *model.Canvas) (int64, error) {
	bounds := t.Bounds()
	var sum float64
	covered := 0

	paint := func(r model.Rect, color model.Color) {
		region, ok := r.Intersect(bounds)
		if !ok {
			return
		}
		for y := region.Bottom; y < region.Top; y++ {
			row := t.pix[y*t.width : (y+1)*t.width]
			for x := region.Left; x < region.Right; x++ {
				sum += row[x].Distance(color)
			}
		}
		covered += region.Area()
	}

	var err error
	c.Each(func(id string, b model.Block) {
		if err != nil {
			return
		}
		switch block := b.(type) {
		case *model.Leaf:
			paint(block.Rect, block.Color)
		case *model.Composite:
			area := 0
			for _, child := range block.Children {
				if _, ok := child.Rect.Intersect(block.Rect); !ok {
					continue
				}
				paint(child.Rect, child.Color)
				area += child.Rect.Area()
			}
			if area != block.Rect.Area() {
				err = fmt.Errorf("%w: children of block %q cover %d of %d pixels",
					model.ErrMalformedCanvas, id, area, block.Rect.Area())
			}
		default:
			err = fmt.Errorf("%w: unknown block type %T", model.ErrMalformedCanvas, b)
		}
	})
	if err != nil {
		return 0, err
	}
	if covered != bounds.Area() {
		return 0, fmt.Errorf("%w: canvas covers %d of %d image pixels",
			model.ErrMalformedCanvas, covered, bounds.Area())
	}
	return int64(math.Round(sum * SimilarityScale)), nil
}
