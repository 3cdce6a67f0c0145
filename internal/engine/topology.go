package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ErrUnknownAlgorithm is returned when an algorithm name matches no topology.
var ErrUnknownAlgorithm = errors.New("engine: unknown algorithm")

// Topology is a family of partitions of the canvas, parameterized by a
// vector of cut coordinates.
type Topology struct {
	Name        model.Algorithm
	Description string
	DefaultStep int

	space func(w, h, step int) []Param
	build func(v []int, w, h int, color func(model.Rect) model.Color) model.Log
}

// Space returns the coordinate grid of the topology on a w x h canvas.
// A non-positive step selects the topology default.
func (t Topology) Space(w, h, step int) Space {
	if step <= 0 {
		step = t.DefaultStep
	}
	return Space{Step: step, Params: t.space(w, h, step)}
}

// Build turns a coordinate vector into an operation log, painting every
// region with the sampler's representative color.
func (t Topology) Build(values []int, w, h int, s Sampler) model.Log {
	return t.build(values, w, h, s.RepresentativeColor)
}

var topologies = []Topology{
	{
		Name:        model.AlgorithmXCut,
		Description: "five vertical strips from four sequential vertical cuts",
		DefaultStep: 10,
		space:       func(w, h, step int) []Param { return chain("x", 4, w, step) },
		build:       buildXCut,
	},
	{
		Name:        model.AlgorithmYCut,
		Description: "five horizontal strips from four sequential horizontal cuts",
		DefaultStep: 10,
		space:       func(w, h, step int) []Param { return chain("y", 4, h, step) },
		build:       buildYCut,
	},
	{
		Name:        model.AlgorithmRect,
		Description: "a point cut and a second point cut of the top-right quadrant",
		DefaultStep: 16,
		space: func(w, h, step int) []Param {
			return []Param{
				{Name: "left", Min: step, Max: w - step, After: -1},
				{Name: "right", Max: w, After: 0},
				{Name: "bottom", Min: step, Max: h - step, After: -1},
				{Name: "top", Max: h, After: 2},
			}
		},
		build: buildRect,
	},
	{
		Name:        model.AlgorithmX3Y2,
		Description: "three columns, each split once horizontally",
		DefaultStep: 40,
		space: func(w, h, step int) []Param {
			return []Param{
				{Name: "x1", Min: step, Max: w - step, After: -1},
				{Name: "x2", Max: w, After: 0},
				{Name: "y1", Min: step, Max: h, After: -1},
				{Name: "y2", Min: step, Max: h, After: -1},
				{Name: "y3", Min: step, Max: h, After: -1},
			}
		},
		build: buildX3Y2,
	},
	{
		Name:        model.AlgorithmX3Y3,
		Description: "three columns, each split twice horizontally",
		DefaultStep: 50,
		space: func(w, h, step int) []Param {
			params := chain("x", 2, w, step)
			for col := 0; col < 3; col++ {
				first := len(params)
				params = append(params,
					Param{Name: fmt.Sprintf("y%d", 2*col+1), Min: step, Max: h - step, After: -1},
					Param{Name: fmt.Sprintf("y%d", 2*col+2), Max: h, After: first},
				)
			}
			return params
		},
		build: buildX3Y3,
	},
}

// chain returns n strictly increasing coordinates on [step, size), each
// leaving room for the ones after it.
func chain(prefix string, n, size, step int) []Param {
	params := make([]Param, n)
	for i := range params {
		params[i] = Param{
			Name:  fmt.Sprintf("%s%d", prefix, i+1),
			Min:   step,
			Max:   size - (n-1-i)*step,
			After: i - 1,
		}
	}
	return params
}

// Topologies returns every registered topology in documentation order.
func Topologies() []Topology {
	out := make([]Topology, len(topologies))
	copy(out, topologies)
	return out
}

// Lookup returns the topology registered under name.
func Lookup(name model.Algorithm) (Topology, error) {
	for _, t := range topologies {
		if t.Name == name {
			return t, nil
		}
	}
	return Topology{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func buildXCut(v []int, w, h int, color func(model.Rect) model.Color) model.Log {
	x1, x2, x3, x4 := v[0], v[1], v[2], v[3]
	return model.Log{
		model.Recolor("0", color(model.R(0, 0, x1, h))),
		model.VerticalCut("0", x1),
		model.Recolor("0.1", color(model.R(x1, 0, x2, h))),
		model.VerticalCut("0.1", x2),
		model.Recolor("0.1.1", color(model.R(x2, 0, x3, h))),
		model.VerticalCut("0.1.1", x3),
		model.Recolor("0.1.1.1", color(model.R(x3, 0, x4, h))),
		model.VerticalCut("0.1.1.1", x4),
		model.Recolor("0.1.1.1.1", color(model.R(x4, 0, w, h))),
	}
}

func buildYCut(v []int, w, h int, color func(model.Rect) model.Color) model.Log {
	y1, y2, y3, y4 := v[0], v[1], v[2], v[3]
	return model.Log{
		model.Recolor("0", color(model.R(0, 0, w, y1))),
		model.HorizontalCut("0", y1),
		model.Recolor("0.1", color(model.R(0, y1, w, y2))),
		model.HorizontalCut("0.1", y2),
		model.Recolor("0.1.1", color(model.R(0, y2, w, y3))),
		model.HorizontalCut("0.1.1", y3),
		model.Recolor("0.1.1.1", color(model.R(0, y3, w, y4))),
		model.HorizontalCut("0.1.1.1", y4),
		model.Recolor("0.1.1.1.1", color(model.R(0, y4, w, h))),
	}
}

// buildRect paints the whole canvas with the bottom-left color, cuts it at
// (l, b), cuts the top-right quadrant again at (r, t) and paints the rest.
func buildRect(v []int, w, h int, color func(model.Rect) model.Color) model.Log {
	l, r, b, t := v[0], v[1], v[2], v[3]
	return model.Log{
		model.Recolor("0", color(model.R(0, 0, l, b))),
		model.PointCut("0", model.Point{X: l, Y: b}),
		model.Recolor("0.2", color(model.R(l, b, r, t))),
		model.PointCut("0.2", model.Point{X: r, Y: t}),
		model.Recolor("0.1", color(model.R(l, 0, w, b))),
		model.Recolor("0.2.1", color(model.R(r, b, w, t))),
		model.Recolor("0.2.2", color(model.R(r, t, w, h))),
		model.Recolor("0.2.3", color(model.R(l, t, r, h))),
		model.Recolor("0.3", color(model.R(0, b, l, h))),
	}
}

func buildX3Y2(v []int, w, h int, color func(model.Rect) model.Color) model.Log {
	x1, x2, y1, y2, y3 := v[0], v[1], v[2], v[3], v[4]
	return model.Log{
		model.Recolor("0", color(model.R(0, 0, x1, y1))),
		model.VerticalCut("0", x1),
		model.Recolor("0.1", color(model.R(x1, 0, x2, y2))),
		model.VerticalCut("0.1", x2),
		model.Recolor("0.1.1", color(model.R(x2, 0, w, y3))),
		model.HorizontalCut("0.0", y1),
		model.Recolor("0.0.1", color(model.R(0, y1, x1, h))),
		model.HorizontalCut("0.1.0", y2),
		model.Recolor("0.1.0.1", color(model.R(x1, y2, x2, h))),
		model.HorizontalCut("0.1.1", y3),
		model.Recolor("0.1.1.1", color(model.R(x2, y3, w, h))),
	}
}

// buildX3Y3 samples each column's cells between that column's own cuts.
func buildX3Y3(v []int, w, h int, color func(model.Rect) model.Color) model.Log {
	x1, x2 := v[0], v[1]
	y1, y2, y3, y4, y5, y6 := v[2], v[3], v[4], v[5], v[6], v[7]
	return model.Log{
		model.Recolor("0", color(model.R(0, 0, x1, y1))),
		model.VerticalCut("0", x1),
		model.Recolor("0.1", color(model.R(x1, 0, x2, y3))),
		model.VerticalCut("0.1", x2),
		model.Recolor("0.1.1", color(model.R(x2, 0, w, y5))),

		model.HorizontalCut("0.0", y1),
		model.Recolor("0.0.1", color(model.R(0, y1, x1, y2))),
		model.HorizontalCut("0.0.1", y2),
		model.Recolor("0.0.1.1", color(model.R(0, y2, x1, h))),

		model.HorizontalCut("0.1.0", y3),
		model.Recolor("0.1.0.1", color(model.R(x1, y3, x2, y4))),
		model.HorizontalCut("0.1.0.1", y4),
		model.Recolor("0.1.0.1.1", color(model.R(x1, y4, x2, h))),

		model.HorizontalCut("0.1.1", y5),
		model.Recolor("0.1.1.1", color(model.R(x2, y5, w, y6))),
		model.HorizontalCut("0.1.1.1", y6),
		model.Recolor("0.1.1.1.1", color(model.R(x2, y6, w, h))),
	}
}
