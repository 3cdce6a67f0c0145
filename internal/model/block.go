package model

import "fmt"

// Block is a region of the canvas: either a *Leaf or a *Composite.
// The set of variants is closed.
type Block interface {
	Shape() Rect
	// withShape returns a copy of the block moved to a new shape.
	withShape(r Rect) Block
	clone() Block
}

// Leaf is a uniformly colored block.
type Leaf struct {
	Rect  Rect
	Color Color
}

func (l *Leaf) Shape() Rect { return l.Rect }

func (l *Leaf) withShape(r Rect) Block {
	return &Leaf{Rect: r, Color: l.Color}
}

func (l *Leaf) clone() Block {
	cp := *l
	return &cp
}

// Composite is a block made of colored leaf children. Children are leaves
// by construction, so nesting never goes deeper than one level.
type Composite struct {
	Rect     Rect
	Children []Leaf
}

// NewComposite builds a composite from arbitrary blocks. Composite children
// are rejected with ErrNestedComposite.
func NewComposite(shape Rect, children []Block) (*Composite, error) {
	leaves := make([]Leaf, 0, len(children))
	for _, child := range children {
		switch c := child.(type) {
		case *Leaf:
			leaves = append(leaves, *c)
		case *Composite:
			return nil, fmt.Errorf("%w: child %s of %s", ErrNestedComposite, c.Rect, shape)
		default:
			return nil, fmt.Errorf("%w: unknown block type %T", ErrMalformedCanvas, child)
		}
	}
	return &Composite{Rect: shape, Children: leaves}, nil
}

func (c *Composite) Shape() Rect { return c.Rect }

func (c *Composite) withShape(r Rect) Block {
	cp := c.clone().(*Composite)
	cp.Rect = r
	return cp
}

func (c *Composite) clone() Block {
	children := make([]Leaf, len(c.Children))
	copy(children, c.Children)
	return &Composite{Rect: c.Rect, Children: children}
}

// colorAt returns the color of the child containing p.
func (c *Composite) colorAt(p Point) (Color, error) {
	for _, child := range c.Children {
		if child.Rect.Contains(p) {
			return child.Color, nil
		}
	}
	return Color{}, fmt.Errorf("%w: no child of composite %s contains %s", ErrMalformedCanvas, c.Rect, p)
}

// split distributes the children over the given sub-shapes. Children that
// miss a sub-shape are dropped from it.
func (c *Composite) split(shapes []Rect) []Block {
	blocks := make([]Block, 0, len(shapes))
	for _, shape := range shapes {
		var children []Leaf
		for _, child := range c.Children {
			if overlap, ok := shape.Intersect(child.Rect); ok {
				children = append(children, Leaf{Rect: overlap, Color: child.Color})
			}
		}
		blocks = append(blocks, &Composite{Rect: shape, Children: children})
	}
	return blocks
}
