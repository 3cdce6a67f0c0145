package model

import (
	"fmt"
	"strings"
)

// OpKind identifies the variant of an Operation.
type OpKind int

const (
	OpRecolor       OpKind = iota // color [id] [r, g, b, a]
	OpPointCut                    // cut [id] [x, y]
	OpVerticalCut                 // cut [id] [X] [x]
	OpHorizontalCut               // cut [id] [Y] [y]
	OpSwap                        // swap [id1] [id2]
	OpMerge                       // merge [id1] [id2]
)

func (k OpKind) String() string {
	switch k {
	case OpRecolor:
		return "color"
	case OpPointCut:
		return "point-cut"
	case OpVerticalCut:
		return "x-cut"
	case OpHorizontalCut:
		return "y-cut"
	case OpSwap:
		return "swap"
	case OpMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// baseCost is the per-kind constant of the cost formula.
func (k OpKind) baseCost() int {
	switch k {
	case OpRecolor:
		return 5
	case OpPointCut:
		return 10
	case OpVerticalCut, OpHorizontalCut:
		return 7
	case OpSwap:
		return 3
	case OpMerge:
		return 1
	default:
		return 0
	}
}

// Operation is one atomic edit of a canvas. Only the fields relevant to
// Kind are meaningful; build values with the constructors below.
type Operation struct {
	Kind  OpKind
	ID    string
	Other string // second operand of swap and merge
	Color Color
	Point Point // point cut position
	Coord int   // x for vertical cuts, y for horizontal cuts
}

// Recolor paints block id with c.
func Recolor(id string, c Color) Operation {
	return Operation{Kind: OpRecolor, ID: id, Color: c}
}

// PointCut splits block id into four quadrants at p.
func PointCut(id string, p Point) Operation {
	return Operation{Kind: OpPointCut, ID: id, Point: p}
}

// VerticalCut splits block id at x.
func VerticalCut(id string, x int) Operation {
	return Operation{Kind: OpVerticalCut, ID: id, Coord: x}
}

// HorizontalCut splits block id at y.
func HorizontalCut(id string, y int) Operation {
	return Operation{Kind: OpHorizontalCut, ID: id, Coord: y}
}

// Swap exchanges the shapes of two equally sized blocks.
func Swap(id1, id2 string) Operation {
	return Operation{Kind: OpSwap, ID: id1, Other: id2}
}

// Merge joins two adjacent blocks. Only its cost is defined.
func Merge(id1, id2 string) Operation {
	return Operation{Kind: OpMerge, ID: id1, Other: id2}
}

// String serializes the operation in the submission grammar.
func (op Operation) String() string {
	switch op.Kind {
	case OpRecolor:
		return fmt.Sprintf("color [%s] [%d, %d, %d, %d]", op.ID, op.Color.R, op.Color.G, op.Color.B, op.Color.A)
	case OpPointCut:
		return fmt.Sprintf("cut [%s] [%d, %d]", op.ID, op.Point.X, op.Point.Y)
	case OpVerticalCut:
		return fmt.Sprintf("cut [%s] [X] [%d]", op.ID, op.Coord)
	case OpHorizontalCut:
		return fmt.Sprintf("cut [%s] [Y] [%d]", op.ID, op.Coord)
	case OpSwap:
		return fmt.Sprintf("swap [%s] [%s]", op.ID, op.Other)
	case OpMerge:
		return fmt.Sprintf("merge [%s] [%s]", op.ID, op.Other)
	default:
		return fmt.Sprintf("unknown operation %d", int(op.Kind))
	}
}

// Log is an ordered sequence of operations replayable from an initial canvas.
type Log []Operation

// Strings serializes each operation.
func (l Log) Strings() []string {
	out := make([]string, len(l))
	for i, op := range l {
		out[i] = op.String()
	}
	return out
}

// String joins the serialized operations with "|".
func (l Log) String() string {
	return strings.Join(l.Strings(), "|")
}

// ChildID returns the identifier of the index-th block produced by cutting parent.
func ChildID(parent string, index int) string {
	return fmt.Sprintf("%s.%d", parent, index)
}
