package importer

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// point is a 2D drawing coordinate.
type point struct {
	X, Y float64
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// snapTolerance is the distance within which drawing coordinates are
// snapped to the integer pixel grid.
const snapTolerance = 0.01

// ImportDXF imports block outlines from a DXF file. Each closed
// LWPOLYLINE, or chain of connected LINEs, that forms an axis-aligned
// rectangle on the pixel grid becomes a white block. Blocks are numbered
// bottom to top, then left to right.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle, *entity.Arc:
			result.Warnings = append(result.Warnings, "Skipped curved entity")

		default:
			// Unsupported entity types are silently skipped
		}
	}

	outlines = append(outlines, chainSegments(segments, snapTolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, outline := range outlines {
		rect, ok := outlineRect(outline)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped non-rectangular shape with %d vertices", len(outline)))
			continue
		}
		if rect.Left < 0 || rect.Bottom < 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Block %s lies outside the first quadrant", rect))
			continue
		}
		white := model.White
		result.Blocks = append(result.Blocks, model.BlockData{
			BottomLeft: [2]int{rect.Left, rect.Bottom},
			TopRight:   [2]int{rect.Right, rect.Top},
			Color:      [4]uint8{white.R, white.G, white.B, white.A},
		})
	}

	sortBlocks(result.Blocks)
	for i := range result.Blocks {
		result.Blocks[i].BlockID = strconv.Itoa(i)
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to its vertex list.
// Bulged edges cannot bound a block and are reported by outlineRect as a
// non-rectangular shape.
func lwPolylineToOutline(lw *entity.LwPolyline) []point {
	outline := make([]point, 0, len(lw.Vertices))
	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			return nil
		}
		outline = append(outline, point{X: v[0], Y: v[1]})
	}
	// Some writers repeat the first vertex to close the shape
	if n := len(outline); n > 1 && pointsClose(outline[0], outline[n-1], snapTolerance) {
		outline = outline[:n-1]
	}
	return outline
}

// outlineRect returns the rectangle an outline bounds when the outline is
// axis-aligned with corners on the integer grid.
func outlineRect(o []point) (model.Rect, bool) {
	corners := dropCollinear(o)
	if len(corners) != 4 {
		return model.Rect{}, false
	}

	xs := map[int]bool{}
	ys := map[int]bool{}
	for _, p := range corners {
		x, okX := snap(p.X)
		y, okY := snap(p.Y)
		if !okX || !okY {
			return model.Rect{}, false
		}
		xs[x] = true
		ys[y] = true
	}
	if len(xs) != 2 || len(ys) != 2 {
		return model.Rect{}, false
	}

	r := model.Rect{Left: math.MaxInt, Bottom: math.MaxInt, Right: math.MinInt, Top: math.MinInt}
	for x := range xs {
		r.Left = min(r.Left, x)
		r.Right = max(r.Right, x)
	}
	for y := range ys {
		r.Bottom = min(r.Bottom, y)
		r.Top = max(r.Top, y)
	}
	return r, true
}

// dropCollinear removes vertices that lie on the line through their
// neighbours, so a rectangle drawn with split edges still has four corners.
func dropCollinear(o []point) []point {
	n := len(o)
	if n < 3 {
		return o
	}
	var out []point
	for i := range o {
		prev := o[(i+n-1)%n]
		next := o[(i+1)%n]
		cross := (o[i].X-prev.X)*(next.Y-o[i].Y) - (o[i].Y-prev.Y)*(next.X-o[i].X)
		if math.Abs(cross) > snapTolerance {
			out = append(out, o[i])
		}
	}
	return out
}

// snap rounds v to the nearest integer if it lies within snapTolerance of it.
func snap(v float64) (int, bool) {
	r := math.Round(v)
	return int(r), math.Abs(v-r) <= snapTolerance
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		// Find the first unused segment
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		// Extend the chain until it closes or no segment continues it
		changed := true
		for changed && !(len(chain) > 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance)) {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Sort outlines by area (largest first) for consistent ordering
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}
