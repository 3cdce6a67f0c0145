package model

import (
	"fmt"
	"math"
	"sort"
)

// Canvas maps block identifiers to blocks. The union of all block shapes
// tiles the canvas rectangle exactly.
type Canvas struct {
	Width  int
	Height int

	// counter is the top-level id counter of the submission format.
	// No current operation advances it.
	counter int
	blocks  map[string]Block
}

// NewCanvas returns a width x height canvas holding a single white leaf "0".
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		blocks: map[string]Block{
			"0": &Leaf{Rect: R(0, 0, width, height), Color: White},
		},
	}
}

// NewCanvasFromBlocks builds a canvas from explicit blocks without
// checking the tiling invariant; call Validate for that.
func NewCanvasFromBlocks(width, height int, blocks map[string]Block) *Canvas {
	c := &Canvas{Width: width, Height: height, blocks: make(map[string]Block, len(blocks))}
	for id, b := range blocks {
		c.blocks[id] = b.clone()
	}
	return c
}

// Bounds returns the full canvas rectangle.
func (c *Canvas) Bounds() Rect {
	return R(0, 0, c.Width, c.Height)
}

// Clone returns a deep copy that can be mutated independently.
func (c *Canvas) Clone() *Canvas {
	cp := &Canvas{
		Width:   c.Width,
		Height:  c.Height,
		counter: c.counter,
		blocks:  make(map[string]Block, len(c.blocks)),
	}
	for id, b := range c.blocks {
		cp.blocks[id] = b.clone()
	}
	return cp
}

// Len returns the number of blocks.
func (c *Canvas) Len() int { return len(c.blocks) }

// Block returns the block stored under id.
func (c *Canvas) Block(id string) (Block, bool) {
	b, ok := c.blocks[id]
	return b, ok
}

// IDs returns all block identifiers in lexical order.
func (c *Canvas) IDs() []string {
	ids := make([]string, 0, len(c.blocks))
	for id := range c.blocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Each calls fn for every block in lexical id order.
func (c *Canvas) Each(fn func(id string, b Block)) {
	for _, id := range c.IDs() {
		fn(id, c.blocks[id])
	}
}

// Apply mutates the canvas with op. On failure the canvas is left unchanged
// and the returned error is an *OpError.
func (c *Canvas) Apply(op Operation) error {
	var err error
	switch op.Kind {
	case OpRecolor:
		err = c.applyColor(op.ID, op.Color)
	case OpPointCut:
		err = c.applyCut(op.ID, func(r Rect) ([]Rect, error) { return r.PointCut(op.Point) })
	case OpVerticalCut:
		err = c.applyCut(op.ID, func(r Rect) ([]Rect, error) { return r.VerticalCut(op.Coord) })
	case OpHorizontalCut:
		err = c.applyCut(op.ID, func(r Rect) ([]Rect, error) { return r.HorizontalCut(op.Coord) })
	case OpSwap:
		err = c.applySwap(op.ID, op.Other)
	case OpMerge:
		err = fmt.Errorf("%w: merge has no mutation semantics", ErrNotSupported)
	default:
		err = fmt.Errorf("%w: unknown operation kind %d", ErrNotSupported, int(op.Kind))
	}
	if err != nil {
		return opError(op, err)
	}
	return nil
}

// applyColor replaces the block with a leaf of the same shape. Composite
// children are discarded.
func (c *Canvas) applyColor(id string, color Color) error {
	block, ok := c.blocks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, id)
	}
	c.blocks[id] = &Leaf{Rect: block.Shape(), Color: color}
	return nil
}

func (c *Canvas) applyCut(id string, cut func(Rect) ([]Rect, error)) error {
	block, ok := c.blocks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, id)
	}
	shapes, err := cut(block.Shape())
	if err != nil {
		return err
	}

	var parts []Block
	switch b := block.(type) {
	case *Leaf:
		parts = make([]Block, len(shapes))
		for i, shape := range shapes {
			parts[i] = &Leaf{Rect: shape, Color: b.Color}
		}
	case *Composite:
		parts = b.split(shapes)
	default:
		return fmt.Errorf("%w: unknown block type %T", ErrMalformedCanvas, block)
	}

	delete(c.blocks, id)
	for i, part := range parts {
		c.blocks[ChildID(id, i)] = part
	}
	return nil
}

// applySwap trades the shapes of two equally sized blocks; colors and
// children stay with their identifiers.
func (c *Canvas) applySwap(id1, id2 string) error {
	block1, ok := c.blocks[id1]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, id1)
	}
	block2, ok := c.blocks[id2]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, id2)
	}
	shape1, shape2 := block1.Shape(), block2.Shape()
	if !shape1.SameSize(shape2) {
		return fmt.Errorf("%w: %s and %s", ErrShapeMismatch, shape1, shape2)
	}
	c.blocks[id1] = block1.withShape(shape2)
	c.blocks[id2] = block2.withShape(shape1)
	return nil
}

// Cost returns the price of op against the current state of the canvas:
// round(base * width * height / area) where area is the target block's
// area, or the sum of both operands' areas for merge.
func (c *Canvas) Cost(op Operation) (int64, error) {
	block, ok := c.blocks[op.ID]
	if !ok {
		return 0, opError(op, fmt.Errorf("%w: %q", ErrBlockNotFound, op.ID))
	}
	area := block.Shape().Area()

	switch op.Kind {
	case OpSwap, OpMerge:
		other, ok := c.blocks[op.Other]
		if !ok {
			return 0, opError(op, fmt.Errorf("%w: %q", ErrBlockNotFound, op.Other))
		}
		if op.Kind == OpMerge {
			area += other.Shape().Area()
		}
	case OpRecolor, OpPointCut, OpVerticalCut, OpHorizontalCut:
	default:
		return 0, opError(op, fmt.Errorf("%w: unknown operation kind %d", ErrNotSupported, int(op.Kind)))
	}

	if area <= 0 {
		return 0, opError(op, fmt.Errorf("%w: block %q has no area", ErrMalformedCanvas, op.ID))
	}
	base := float64(op.Kind.baseCost()) * float64(c.Width) * float64(c.Height)
	return int64(math.Round(base / float64(area))), nil
}

// ColorAt returns the color shown at p.
func (c *Canvas) ColorAt(p Point) (Color, error) {
	for _, block := range c.blocks {
		if !block.Shape().Contains(p) {
			continue
		}
		switch b := block.(type) {
		case *Leaf:
			return b.Color, nil
		case *Composite:
			return b.colorAt(p)
		}
	}
	return Color{}, fmt.Errorf("%w: no block contains %s", ErrMalformedCanvas, p)
}

// Validate checks that every block has positive size, lies within the
// canvas, and that the blocks tile the canvas without gaps or overlaps.
func (c *Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrMalformedCanvas, c.Width, c.Height)
	}
	bounds := c.Bounds()
	ids := c.IDs()
	total := 0
	for i, id := range ids {
		shape := c.blocks[id].Shape()
		if shape.Empty() {
			return fmt.Errorf("%w: block %q has empty shape %s", ErrMalformedCanvas, id, shape)
		}
		if !bounds.ContainsRect(shape) {
			return fmt.Errorf("%w: block %q %s lies outside %s", ErrMalformedCanvas, id, shape, bounds)
		}
		for _, other := range ids[i+1:] {
			if _, overlap := shape.Intersect(c.blocks[other].Shape()); overlap {
				return fmt.Errorf("%w: blocks %q and %q overlap", ErrMalformedCanvas, id, other)
			}
		}
		total += shape.Area()
	}
	if total != bounds.Area() {
		return fmt.Errorf("%w: blocks cover %d of %d pixels", ErrMalformedCanvas, total, bounds.Area())
	}
	return nil
}
