package target

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// solid returns a w x h opaque image of one color.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestColorAt_FlipsVerticalAxis(t *testing.T) {
	img := solid(4, 3, blue)
	img.SetNRGBA(0, 0, red) // top-left in storage order

	tgt := New(img, "", 0)

	got, err := tgt.ColorAt(model.Point{X: 0, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, model.FromStd(red), got, "storage row 0 is the highest canvas row")

	got, err = tgt.ColorAt(model.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, model.FromStd(blue), got)
}

func TestColorAt_OutOfBounds(t *testing.T) {
	tgt := New(solid(4, 4, red), "", 0)
	for _, p := range []model.Point{{X: 4, Y: 0}, {X: 0, Y: 4}, {X: -1, Y: 0}} {
		_, err := tgt.ColorAt(p)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestNew_Defaults(t *testing.T) {
	tgt := New(solid(10, 20, red), "", -3)

	assert.Equal(t, model.SampleMostFrequent, tgt.Mode())
	assert.Equal(t, model.DefaultSampleStride, tgt.Stride())
	assert.Equal(t, model.R(0, 0, 10, 20), tgt.Bounds())
	assert.Equal(t, 10, tgt.Width())
	assert.Equal(t, 20, tgt.Height())
}

func TestNew_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 9, 9))
	for y := 5; y < 9; y++ {
		for x := 5; x < 9; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}
	img.SetNRGBA(8, 8, red) // bottom-right in storage order

	tgt := New(img, "", 1)
	got, err := tgt.ColorAt(model.Point{X: 3, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, model.FromStd(red), got)
}

func TestMostFrequentColor(t *testing.T) {
	// Left 6 columns red, right 4 columns blue.
	img := solid(10, 10, blue)
	for y := 0; y < 10; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, red)
		}
	}
	tgt := New(img, model.SampleMostFrequent, 1)

	assert.Equal(t, model.FromStd(red), tgt.RepresentativeColor(model.Square(10)))
	assert.Equal(t, model.FromStd(blue), tgt.RepresentativeColor(model.R(6, 0, 10, 10)))
}

func TestMostFrequentColor_TieGoesToFirstSample(t *testing.T) {
	img := solid(2, 1, blue)
	img.SetNRGBA(0, 0, red)
	tgt := New(img, model.SampleMostFrequent, 1)

	assert.Equal(t, model.FromStd(red), tgt.MostFrequentColor(model.R(0, 0, 2, 1)))
}

func TestMostFrequentColor_TieGoesToFirstEncountered(t *testing.T) {
	// Scan order is (0,0) red, (0,1) blue, (1,0) blue, (1,1) red.
	img := solid(2, 2, blue)
	img.SetNRGBA(0, 1, red) // canvas (0,0)
	img.SetNRGBA(1, 0, red) // canvas (1,1)
	tgt := New(img, model.SampleMostFrequent, 1)

	assert.Equal(t, model.FromStd(red), tgt.MostFrequentColor(model.Square(2)))
}

func TestMostFrequentColor_UsesStride(t *testing.T) {
	// Only columns 0 and 5 are sampled with stride 5; both are red.
	img := solid(10, 1, blue)
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(5, 0, red)
	tgt := New(img, model.SampleMostFrequent, 5)

	assert.Equal(t, model.FromStd(red), tgt.MostFrequentColor(model.R(0, 0, 10, 1)))
}

func TestRepresentativeColor_EmptyRegionIsWhite(t *testing.T) {
	tgt := New(solid(10, 10, red), "", 0)
	assert.Equal(t, model.White, tgt.MostFrequentColor(model.R(20, 20, 30, 30)))
	assert.Equal(t, model.White, tgt.MeanColor(model.R(20, 20, 30, 30)))
}

func TestNew_KeepsStraightColorOfTranslucentPixels(t *testing.T) {
	img := solid(2, 1, red)
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 201, G: 99, B: 7, A: 3})
	tgt := New(img, model.SampleMostFrequent, 1)

	got, err := tgt.ColorAt(model.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, model.RGBA(200, 100, 50, 0), got)

	got, err = tgt.ColorAt(model.Point{X: 1, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, model.RGBA(201, 99, 7, 3), got)
	assert.Equal(t, model.RGBA(201, 99, 7, 3), tgt.MostFrequentColor(model.R(1, 0, 2, 1)))
}

func TestMeanColor(t *testing.T) {
	img := solid(2, 1, color.NRGBA{R: 100, G: 0, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 11, B: 0, A: 255})
	tgt := New(img, model.SampleMean, 1)

	assert.Equal(t, model.RGBA(150, 5, 25, 255), tgt.RepresentativeColor(model.R(0, 0, 2, 1)))
}

func TestSimilarity_IdenticalIsZero(t *testing.T) {
	tgt := New(solid(40, 40, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), "", 0)
	got, err := tgt.Similarity(model.NewCanvas(40, 40))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestSimilarity_ScaledDistance(t *testing.T) {
	tgt := New(solid(20, 20, color.NRGBA{A: 255}), "", 0)

	// Every pixel is white against black: distance 255*sqrt(3).
	got, err := tgt.Similarity(model.NewCanvas(20, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(883), got) // round(400 * 441.67 * 0.005)

	c := model.NewCanvas(20, 20)
	require.NoError(t, c.Apply(model.VerticalCut("0", 10)))
	require.NoError(t, c.Apply(model.Recolor("0.0", model.Black)))
	got, err = tgt.Similarity(c)
	require.NoError(t, err)
	assert.Equal(t, int64(442), got) // round(200 * 441.67 * 0.005)
}

func TestSimilarity_CompositeBlocks(t *testing.T) {
	tgt := New(solid(10, 10, color.NRGBA{A: 255}), "", 0)
	comp, err := model.NewComposite(model.Square(10), []model.Block{
		&model.Leaf{Rect: model.R(0, 0, 5, 10), Color: model.Black},
		&model.Leaf{Rect: model.R(5, 0, 10, 10), Color: model.Black},
	})
	require.NoError(t, err)
	c := model.NewCanvasFromBlocks(10, 10, map[string]model.Block{"0": comp})

	got, err := tgt.Similarity(c)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestSimilarity_MalformedCanvas(t *testing.T) {
	tgt := New(solid(10, 10, red), "", 0)

	gap := model.NewCanvasFromBlocks(10, 10, map[string]model.Block{
		"0": &model.Leaf{Rect: model.R(0, 0, 10, 5), Color: model.Black},
	})
	_, err := tgt.Similarity(gap)
	assert.ErrorIs(t, err, model.ErrMalformedCanvas)

	comp, err := model.NewComposite(model.Square(10), []model.Block{
		&model.Leaf{Rect: model.R(0, 0, 5, 10), Color: model.Black},
	})
	require.NoError(t, err)
	holey := model.NewCanvasFromBlocks(10, 10, map[string]model.Block{"0": comp})
	_, err = tgt.Similarity(holey)
	assert.ErrorIs(t, err, model.ErrMalformedCanvas)
}
