// Package target samples the image a canvas is meant to approximate.
//
// Canvas space has its origin in the bottom-left corner while images are
// stored top row first, so every lookup flips the vertical axis.
package target

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ErrOutOfBounds indicates a point that lies outside the image.
var ErrOutOfBounds = errors.New("target: point outside image")

// Image is an immutable target picture addressed in canvas coordinates.
type Image struct {
	src    image.Image
	width  int
	height int
	// pix holds the samples in canvas order: pix[y*width+x] is the color
	// shown at canvas point (x, y).
	pix []model.Color

	mode   model.SamplerMode
	stride int
}

// New copies src into a target image. An empty mode selects the
// most-frequent sampler and a non-positive stride selects the default.
func New(src image.Image, mode model.SamplerMode, stride int) *Image {
	img := normalize(src)
	b := img.Bounds()
	t := &Image{
		src:    img,
		width:  b.Dx(),
		height: b.Dy(),
		mode:   mode,
		stride: stride,
	}
	if t.mode == "" {
		t.mode = model.SampleMostFrequent
	}
	if t.stride <= 0 {
		t.stride = model.DefaultSampleStride
	}

	t.pix = make([]model.Color, t.width*t.height)
	for y := 0; y < t.height; y++ {
		row := b.Min.Y + t.height - y - 1
		for x := 0; x < t.width; x++ {
			t.pix[y*t.width+x] = model.FromStd(img.At(b.Min.X+x, row))
		}
	}
	return t
}

// normalize copies src into an image whose samples keep their straight RGB
// values. Opaque images lose nothing to premultiplication and take the
// faster RGBA copy.
func normalize(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return clone.AsRGBA(src)
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
		}
	}
	return dst
}

// FromSettings builds a target image using the sampler configured in s.
func FromSettings(src image.Image, s model.SearchSettings) *Image {
	return New(src, s.Sampler, s.SampleStride)
}

// Width returns the image width in pixels.
func (t *Image) Width() int { return t.width }

// Height returns the image height in pixels.
func (t *Image) Height() int { return t.height }

// Bounds returns the image rectangle in canvas space.
func (t *Image) Bounds() model.Rect { return model.R(0, 0, t.width, t.height) }

// Mode returns the representative color sampler in use.
func (t *Image) Mode() model.SamplerMode { return t.mode }

// Stride returns the sub-sampling stride of representative colors.
func (t *Image) Stride() int { return t.stride }

// Source returns the normalized image in storage order. Callers must not
// modify it.
func (t *Image) Source() image.Image { return t.src }

// ColorAt returns the sample shown at canvas point p.
func (t *Image) ColorAt(p model.Point) (model.Color, error) {
	if p.X < 0 || p.X >= t.width || p.Y < 0 || p.Y >= t.height {
		return model.Color{}, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, p, t.width, t.height)
	}
	return t.at(p.X, p.Y), nil
}

func (t *Image) at(x, y int) model.Color {
	return t.pix[y*t.width+x]
}
