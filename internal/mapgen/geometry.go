package mapgen

import (
	"fmt"
	"math"
)

// Position is a point in continuous map space (tile units).
type Position struct {
	X, Y float64
}

// NewPosition builds a position, rejecting NaN and infinities.
func NewPosition(x, y float64) (Position, error) {
	if !isFinite(x) || !isFinite(y) {
		return Position{}, &GenError{
			Code:      CodeParamOutOfRange,
			Kind:      KindValidation,
			Component: "geometry",
			Op:        "NewPosition",
			Message:   fmt.Sprintf("position (%v, %v) must be finite", x, y),
			Context:   map[string]any{"x": x, "y": y},
		}
	}
	return Position{X: x, Y: y}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Distance returns the Euclidean distance to other.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SubTilePosition locates a point as an integer tile coordinate plus a
// fractional offset within that tile. Offsets stay in [0, 1).
type SubTilePosition struct {
	Col, Row   int
	OffX, OffY float64
}

// NewSubTilePosition validates the fractional offsets.
func NewSubTilePosition(col, row int, offX, offY float64) (SubTilePosition, error) {
	if offX < 0 || offX >= 1 || offY < 0 || offY >= 1 || !isFinite(offX) || !isFinite(offY) {
		return SubTilePosition{}, &GenError{
			Code:      CodeParamOutOfRange,
			Kind:      KindValidation,
			Component: "geometry",
			Op:        "NewSubTilePosition",
			Message:   fmt.Sprintf("sub-tile offset (%v, %v) must be within [0, 1)", offX, offY),
			Context:   map[string]any{"offX": offX, "offY": offY},
		}
	}
	return SubTilePosition{Col: col, Row: row, OffX: offX, OffY: offY}, nil
}

// Resolve composes the tile coordinate and offset into an absolute position.
func (sp SubTilePosition) Resolve() Position {
	return Position{X: float64(sp.Col) + sp.OffX, Y: float64(sp.Row) + sp.OffY}
}

// Dimensions is a positive integer width/height pair.
type Dimensions struct {
	Width, Height int
}

// NewDimensions rejects non-positive extents.
func NewDimensions(w, h int) (Dimensions, error) {
	if w <= 0 || h <= 0 {
		return Dimensions{}, &GenError{
			Code:      CodeParamOutOfRange,
			Kind:      KindValidation,
			Component: "geometry",
			Op:        "NewDimensions",
			Message:   fmt.Sprintf("dimensions %dx%d must be positive", w, h),
			Context:   map[string]any{"width": w, "height": h},
		}
	}
	return Dimensions{Width: w, Height: h}, nil
}

// Area returns width*height.
func (d Dimensions) Area() int { return d.Width * d.Height }

// SpatialBounds is an axis-aligned rectangle in tile space: the area a
// feature claims, used for containment and intersection queries.
type SpatialBounds struct {
	X, Y          int // top-left tile
	Width, Height int
}

// Contains reports whether the position falls inside the bounds.
// The right/bottom edges are exclusive.
func (b SpatialBounds) Contains(p Position) bool {
	return p.X >= float64(b.X) && p.X < float64(b.X+b.Width) &&
		p.Y >= float64(b.Y) && p.Y < float64(b.Y+b.Height)
}

// ContainsTile reports whether the tile coordinate falls inside the bounds.
func (b SpatialBounds) ContainsTile(col, row int) bool {
	return col >= b.X && col < b.X+b.Width && row >= b.Y && row < b.Y+b.Height
}

// Intersects reports whether two bounds overlap (AABB test).
func (b SpatialBounds) Intersects(o SpatialBounds) bool {
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// Intersection returns the overlapping rectangle and whether it is non-empty.
func (b SpatialBounds) Intersection(o SpatialBounds) (SpatialBounds, bool) {
	x0 := maxInt(b.X, o.X)
	y0 := maxInt(b.Y, o.Y)
	x1 := minInt(b.X+b.Width, o.X+o.Width)
	y1 := minInt(b.Y+b.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return SpatialBounds{}, false
	}
	return SpatialBounds{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Center returns the geometric centre of the bounds.
func (b SpatialBounds) Center() Position {
	return Position{X: float64(b.X) + float64(b.Width)/2, Y: float64(b.Y) + float64(b.Height)/2}
}

// Area returns the bounds area in tiles.
func (b SpatialBounds) Area() int { return b.Width * b.Height }

// Expand grows the bounds by n tiles on every side.
func (b SpatialBounds) Expand(n int) SpatialBounds {
	return SpatialBounds{X: b.X - n, Y: b.Y - n, Width: b.Width + 2*n, Height: b.Height + 2*n}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
