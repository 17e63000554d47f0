package mapgen

import (
	"math"
	"testing"
)

func TestClassifySegment(t *testing.T) {
	cases := []struct {
		name        string
		step        int
		slope       float64
		prevHeading float64
		heading     float64
		want        RiverSegmentType
	}{
		{"first point is the source", 0, 0.5, math.NaN(), 0, SegmentSource},
		{"steep ground is rapids", 3, rapidsSlope + 0.05, 0, 0, SegmentRapids},
		{"rapids outrank a sharp turn", 3, rapidsSlope + 0.05, 0, 1.2, SegmentRapids},
		{"sharp turn meanders", 3, 0.1, 0, meanderCurvature + 0.1, SegmentMeander},
		{"gentle turn curves", 3, 0.1, 0, curveCurvature + 0.1, SegmentCurve},
		{"slight turn stays straight", 3, 0.1, 0, curveCurvature - 0.1, SegmentStraight},
		{"unknown prior heading stays straight", 1, 0.1, math.NaN(), 0.5, SegmentStraight},
	}
	for _, c := range cases {
		got := classifySegment(c.step, c.slope, c.prevHeading, c.heading)
		if got != c.want {
			t.Fatalf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestMouthSegment_DeltaOnWideFlatGround(t *testing.T) {
	if got := mouthSegment(deltaSlope-0.01, deltaWidth+0.5); got != SegmentDelta {
		t.Fatalf("flat wide mouth: got %s, want delta", got)
	}
	if got := mouthSegment(deltaSlope-0.01, deltaWidth-0.5); got != SegmentMouth {
		t.Fatalf("narrow mouth: got %s, want mouth", got)
	}
	if got := mouthSegment(deltaSlope+0.1, deltaWidth+0.5); got != SegmentMouth {
		t.Fatalf("steep mouth: got %s, want mouth", got)
	}
}

func makeRiverFeature(id string, points []RiverPoint) *MapFeature {
	f := newMapFeature(FeatureID(id), FeatureRiver, riverBounds(points))
	f.River = &River{Points: points}
	return f
}

func straightPoints(x0, y0, x1, y1 float64, n int) []RiverPoint {
	pts := make([]RiverPoint, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pts[i] = RiverPoint{
			Position: Position{X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t},
			Width:    1,
			Segment:  SegmentStraight,
		}
	}
	pts[0].Segment = SegmentSource
	pts[n-1].Segment = SegmentMouth
	return pts
}

func TestAttachTributary_MarksConfluence(t *testing.T) {
	parent := makeRiverFeature("river-0000-aaaaaaaa", straightPoints(0, 10, 30, 10, 16))
	trib := makeRiverFeature("river-0001-bbbbbbbb", straightPoints(15, 0, 15, 9, 8))

	if err := attachTributary(parent, trib); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if len(parent.River.Tributaries) != 1 || parent.River.Tributaries[0] != trib.ID {
		t.Fatalf("tributary id not recorded: %v", parent.River.Tributaries)
	}

	found := false
	for _, p := range parent.River.Points {
		if p.Segment == SegmentConfluence {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("parent should carry a confluence point after attach")
	}
	last := trib.River.Points[len(trib.River.Points)-1]
	if last.Segment != SegmentConfluence {
		t.Fatalf("tributary end segment = %v, want confluence", last.Segment)
	}
}

func TestAttachTributary_OutsideAreaRejected(t *testing.T) {
	parent := makeRiverFeature("river-0000-aaaaaaaa", straightPoints(0, 0, 10, 0, 8))
	far := makeRiverFeature("river-0001-bbbbbbbb", straightPoints(50, 50, 60, 50, 8))

	err := attachTributary(parent, far)
	checkErrCode(t, err, CodeConfluenceOutsideArea)
	if len(parent.River.Tributaries) != 0 {
		t.Fatal("failed attach must not record a tributary")
	}
}

func TestRiverBounds_CoversAllPoints(t *testing.T) {
	pts := straightPoints(5, 3, 20, 17, 12)
	pts[4].Width = 3.5
	b := riverBounds(pts)
	for i, p := range pts {
		if !b.Contains(p.Position) {
			t.Fatalf("point %d at (%v,%v) outside bounds %+v", i, p.Position.X, p.Position.Y, b)
		}
	}
	if b.Width <= 15 || b.Height <= 14 {
		t.Fatalf("bounds should pad past the raw extent, got %+v", b)
	}
}
