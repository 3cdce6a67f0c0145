package target

import "github.com/piwi3910/BlockPaint/internal/model"

// RepresentativeColor returns the color chosen to paint region r using the
// configured sampler mode.
func (t *Image) RepresentativeColor(r model.Rect) model.Color {
	if t.mode == model.SampleMean {
		return t.MeanColor(r)
	}
	return t.MostFrequentColor(r)
}

// MostFrequentColor returns the most common sample of r on the stride grid.
// Ties go to the color encountered first, scanning columns left to right and
// each column bottom to top. An empty region yields white.
func (t *Image) MostFrequentColor(r model.Rect) model.Color {
	type tally struct {
		count int
		first int
	}
	tallies := make(map[model.Color]*tally)
	seen := 0
	t.scan(r, func(c model.Color) {
		if e, ok := tallies[c]; ok {
			e.count++
		} else {
			tallies[c] = &tally{count: 1, first: seen}
		}
		seen++
	})

	best, bestTally := model.White, tally{first: seen}
	for c, e := range tallies {
		if e.count > bestTally.count || (e.count == bestTally.count && e.first < bestTally.first) {
			best, bestTally = c, *e
		}
	}
	return best
}

// MeanColor returns the opaque per-channel average of the samples of r on
// the stride grid. An empty region yields white.
func (t *Image) MeanColor(r model.Rect) model.Color {
	var red, green, blue, n int
	t.scan(r, func(c model.Color) {
		red += int(c.R)
		green += int(c.G)
		blue += int(c.B)
		n++
	})
	if n == 0 {
		return model.White
	}
	return model.RGBA(uint8(red/n), uint8(green/n), uint8(blue/n), 255)
}

// scan visits the samples of r, clipped to the image, on the stride grid
// anchored at r's bottom-left corner.
func (t *Image) scan(r model.Rect, visit func(model.Color)) {
	clipped, ok := r.Intersect(t.Bounds())
	if !ok {
		return
	}
	for x := r.Left; x < r.Right; x += t.stride {
		if x < clipped.Left || x >= clipped.Right {
			continue
		}
		for y := r.Bottom; y < r.Top; y += t.stride {
			if y < clipped.Bottom || y >= clipped.Top {
				continue
			}
			visit(t.at(x, y))
		}
	}
}
