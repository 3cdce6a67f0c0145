// Package export writes search results to image, document, spreadsheet,
// and drawing formats.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// Render rasterizes c. The canvas origin is its bottom-left corner, so the
// rendered image is flipped vertically to put row 0 at the top.
func Render(c *model.Canvas) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	eachLeaf(c, func(_ string, leaf model.Leaf) {
		dst := image.Rect(leaf.Rect.Left, c.Height-leaf.Rect.Top, leaf.Rect.Right, c.Height-leaf.Rect.Bottom)
		draw.Draw(img, dst, image.NewUniform(leaf.Color.Std()), image.Point{}, draw.Src)
	})
	return img
}

// Scale enlarges img by an integer factor without smoothing, so block edges
// stay sharp.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ExportPNG renders c, enlarged by scale, to a PNG file.
func ExportPNG(path string, c *model.Canvas, scale int) error {
	data, err := encodePNG(Scale(Render(c), scale))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// eachLeaf calls fn for every painted rectangle of c in id order.
// Composite children are reported with their child id.
func eachLeaf(c *model.Canvas, fn func(id string, leaf model.Leaf)) {
	c.Each(func(id string, b model.Block) {
		switch block := b.(type) {
		case *model.Leaf:
			fn(id, *block)
		case *model.Composite:
			for i, child := range block.Children {
				fn(model.ChildID(id, i), child)
			}
		}
	})
}
