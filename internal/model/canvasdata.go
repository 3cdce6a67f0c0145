package model

import (
	"encoding/json"
	"fmt"
)

// BlockData describes one block of an externally supplied canvas.
// Coordinates are [x, y] pairs and color is [r, g, b, a].
type BlockData struct {
	BlockID    string   `json:"blockId"`
	BottomLeft [2]int   `json:"bottomLeft"`
	TopRight   [2]int   `json:"topRight"`
	Color      [4]uint8 `json:"color"`
}

// UnmarshalJSON accepts both the camelCase keys written by Data and the
// snake_case keys (block_id, bottom_left, top_right).
func (b *BlockData) UnmarshalJSON(data []byte) error {
	var raw struct {
		BlockID         *string  `json:"blockId"`
		BlockIDSnake    *string  `json:"block_id"`
		BottomLeft      *[2]int  `json:"bottomLeft"`
		BottomLeftSnake *[2]int  `json:"bottom_left"`
		TopRight        *[2]int  `json:"topRight"`
		TopRightSnake   *[2]int  `json:"top_right"`
		Color           [4]uint8 `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BlockData{Color: raw.Color}
	if id := firstSet(raw.BlockID, raw.BlockIDSnake); id != nil {
		b.BlockID = *id
	}
	if p := firstSet(raw.BottomLeft, raw.BottomLeftSnake); p != nil {
		b.BottomLeft = *p
	}
	if p := firstSet(raw.TopRight, raw.TopRightSnake); p != nil {
		b.TopRight = *p
	}
	return nil
}

func firstSet[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// CanvasData is the wire form of a starting canvas.
type CanvasData struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Blocks []BlockData `json:"blocks"`
}

// Rect returns the block rectangle.
func (b BlockData) Rect() Rect {
	return R(b.BottomLeft[0], b.BottomLeft[1], b.TopRight[0], b.TopRight[1])
}

// RGBA returns the block color.
func (b BlockData) RGBA() Color {
	return RGBA(b.Color[0], b.Color[1], b.Color[2], b.Color[3])
}

// NewBlockData builds the wire form of a leaf.
func NewBlockData(id string, leaf Leaf) BlockData {
	return BlockData{
		BlockID:    id,
		BottomLeft: [2]int{leaf.Rect.Left, leaf.Rect.Bottom},
		TopRight:   [2]int{leaf.Rect.Right, leaf.Rect.Top},
		Color:      [4]uint8{leaf.Color.R, leaf.Color.G, leaf.Color.B, leaf.Color.A},
	}
}

// CanvasFromData builds a validated canvas of leaf blocks from its wire form.
func CanvasFromData(data CanvasData) (*Canvas, error) {
	blocks := make(map[string]Block, len(data.Blocks))
	for _, b := range data.Blocks {
		if b.BlockID == "" {
			return nil, fmt.Errorf("%w: block without id", ErrMalformedCanvas)
		}
		if _, dup := blocks[b.BlockID]; dup {
			return nil, fmt.Errorf("%w: duplicate block id %q", ErrMalformedCanvas, b.BlockID)
		}
		blocks[b.BlockID] = &Leaf{Rect: b.Rect(), Color: b.RGBA()}
	}
	canvas := NewCanvasFromBlocks(data.Width, data.Height, blocks)
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	return canvas, nil
}

// Data returns the wire form of a canvas. Composite blocks are flattened
// into their children, which keep the composite id with a child suffix.
func (c *Canvas) Data() CanvasData {
	data := CanvasData{Width: c.Width, Height: c.Height}
	c.Each(func(id string, b Block) {
		switch block := b.(type) {
		case *Leaf:
			data.Blocks = append(data.Blocks, NewBlockData(id, *block))
		case *Composite:
			for i, child := range block.Children {
				data.Blocks = append(data.Blocks, NewBlockData(ChildID(id, i), child))
			}
		}
	})
	return data
}
