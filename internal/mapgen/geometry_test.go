package mapgen

import (
	"math"
	"testing"
)

func TestNewPosition_RejectsNonFinite(t *testing.T) {
	bad := [][2]float64{
		{math.NaN(), 0},
		{0, math.NaN()},
		{math.Inf(1), 0},
		{0, math.Inf(-1)},
	}
	for _, c := range bad {
		if _, err := NewPosition(c[0], c[1]); err == nil {
			t.Fatalf("position (%v,%v) should be rejected", c[0], c[1])
		}
	}
	if _, err := NewPosition(-3.5, 12.25); err != nil {
		t.Fatalf("finite position rejected: %v", err)
	}
}

func TestPosition_Distance(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if d := a.Distance(b); d != 5 {
		t.Fatalf("distance = %v, want 5", d)
	}
	if d := b.Distance(a); d != 5 {
		t.Fatal("distance should be symmetric")
	}
}

func TestNewSubTilePosition_OffsetRange(t *testing.T) {
	if _, err := NewSubTilePosition(2, 3, 1.0, 0.5); err == nil {
		t.Fatal("offset 1.0 should be rejected (offsets are half-open)")
	}
	if _, err := NewSubTilePosition(2, 3, -0.01, 0); err == nil {
		t.Fatal("negative offset should be rejected")
	}
	sp, err := NewSubTilePosition(4, 7, 0.25, 0.75)
	if err != nil {
		t.Fatalf("valid sub-tile position rejected: %v", err)
	}
	p := sp.Resolve()
	if p.X != 4.25 || p.Y != 7.75 {
		t.Fatalf("resolved to (%v,%v), want (4.25,7.75)", p.X, p.Y)
	}
}

func TestSpatialBounds_ContainsTileEdges(t *testing.T) {
	b := SpatialBounds{X: 2, Y: 3, Width: 4, Height: 2}
	if !b.ContainsTile(2, 3) {
		t.Fatal("top-left corner should be inside")
	}
	if !b.ContainsTile(5, 4) {
		t.Fatal("bottom-right interior tile should be inside")
	}
	if b.ContainsTile(6, 3) || b.ContainsTile(2, 5) {
		t.Fatal("right/bottom edges are exclusive")
	}
}

func TestSpatialBounds_Intersection(t *testing.T) {
	a := SpatialBounds{X: 0, Y: 0, Width: 5, Height: 5}
	b := SpatialBounds{X: 3, Y: 4, Width: 10, Height: 2}
	if !a.Intersects(b) || !b.Intersects(a) {
		t.Fatal("rectangles should intersect")
	}
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("intersection should be non-empty")
	}
	want := SpatialBounds{X: 3, Y: 4, Width: 2, Height: 1}
	if got != want {
		t.Fatalf("intersection = %+v, want %+v", got, want)
	}

	c := SpatialBounds{X: 5, Y: 0, Width: 2, Height: 2}
	if a.Intersects(c) {
		t.Fatal("touching edges should not count as intersecting")
	}
	if _, ok := a.Intersection(c); ok {
		t.Fatal("edge-adjacent rectangles have empty intersection")
	}
}

func TestSpatialBounds_Expand(t *testing.T) {
	b := SpatialBounds{X: 4, Y: 4, Width: 2, Height: 3}
	e := b.Expand(2)
	if e.X != 2 || e.Y != 2 || e.Width != 6 || e.Height != 7 {
		t.Fatalf("expanded = %+v", e)
	}
}

func TestNewDimensions_Invalid(t *testing.T) {
	for _, c := range [][2]int{{0, 10}, {10, 0}, {-5, 10}} {
		if _, err := NewDimensions(c[0], c[1]); err == nil {
			t.Fatalf("dimensions %dx%d should be rejected", c[0], c[1])
		}
	}
	d, err := NewDimensions(50, 40)
	if err != nil {
		t.Fatalf("valid dimensions rejected: %v", err)
	}
	if d.Area() != 2000 {
		t.Fatalf("area = %d, want 2000", d.Area())
	}
}
