package model

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit RGBA sample.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{R: 0, G: 0, B: 0, A: 255}
)

// RGBA builds a Color from its four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromStd converts any image/color value into a non-premultiplied Color.
func FromStd(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Std returns the color as an image/color value.
func (c Color) Std() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Distance is the Euclidean distance over the red, green and blue channels.
// Alpha is ignored.
func (c Color) Distance(other Color) float64 {
	dr := float64(c.R) - float64(other.R)
	dg := float64(c.G) - float64(other.G)
	db := float64(c.B) - float64(other.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func (c Color) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", c.R, c.G, c.B, c.A)
}
