package mapgen

// RiverSegmentType classifies one point along a river path.
type RiverSegmentType uint8

const (
	SegmentSource RiverSegmentType = iota
	SegmentStraight
	SegmentCurve
	SegmentMeander
	SegmentRapids
	SegmentConfluence
	SegmentDelta
	SegmentMouth
)

func (s RiverSegmentType) String() string {
	switch s {
	case SegmentSource:
		return "source"
	case SegmentStraight:
		return "straight"
	case SegmentCurve:
		return "curve"
	case SegmentMeander:
		return "meander"
	case SegmentRapids:
		return "rapids"
	case SegmentConfluence:
		return "confluence"
	case SegmentDelta:
		return "delta"
	case SegmentMouth:
		return "mouth"
	default:
		return "unknown"
	}
}

// RiverPoint is one step of a river path, ordered source to mouth.
type RiverPoint struct {
	Position Position
	Width    float64 // tiles
	Depth    float64 // metres
	FlowDir  float64 // radians, downstream direction
	Segment  RiverSegmentType
}

// River is an ordered path of RiverPoints. Tributaries are stored as
// feature id references into the map's feature arena, never as direct
// pointers, so river ownership stays acyclic.
type River struct {
	Points      []RiverPoint
	Tributaries []FeatureID
	SourceElev  float64
}

// attachTributary joins a tributary into a parent river. The two rivers'
// areas must intersect; attaching a river that never touches the parent
// is a domain-rule violation. The join point on the parent is marked as
// a confluence.
func attachTributary(parent, trib *MapFeature) error {
	if _, ok := parent.Area.Intersection(trib.Area); !ok {
		return &GenError{
			Code:      CodeConfluenceOutsideArea,
			Kind:      KindDomainRule,
			Component: "hydrology",
			Op:        "attachTributary",
			Message:   "tributary area does not intersect parent river area",
			Context: map[string]any{
				"parent": string(parent.ID), "tributary": string(trib.ID),
			},
		}
	}

	r := parent.River
	t := trib.River
	if len(t.Points) > 0 {
		join := t.Points[len(t.Points)-1].Position
		// Mark the nearest parent point as the confluence.
		bestIdx := -1
		bestDist := 0.0
		for i := range r.Points {
			d := r.Points[i].Position.Distance(join)
			if bestIdx < 0 || d < bestDist {
				bestIdx, bestDist = i, d
			}
		}
		if bestIdx >= 0 {
			r.Points[bestIdx].Segment = SegmentConfluence
			t.Points[len(t.Points)-1].Segment = SegmentConfluence
		}
	}
	r.Tributaries = append(r.Tributaries, trib.ID)
	return nil
}

// riverBounds computes the area claimed by a path: the bounding box of
// its points expanded by the widest point.
func riverBounds(points []RiverPoint) SpatialBounds {
	if len(points) == 0 {
		return SpatialBounds{}
	}
	minX, minY := points[0].Position.X, points[0].Position.Y
	maxX, maxY := minX, minY
	maxW := 0.0
	for _, p := range points {
		if p.Position.X < minX {
			minX = p.Position.X
		}
		if p.Position.X > maxX {
			maxX = p.Position.X
		}
		if p.Position.Y < minY {
			minY = p.Position.Y
		}
		if p.Position.Y > maxY {
			maxY = p.Position.Y
		}
		if p.Width > maxW {
			maxW = p.Width
		}
	}
	pad := int(maxW/2) + 1
	return SpatialBounds{
		X:      int(minX) - pad,
		Y:      int(minY) - pad,
		Width:  int(maxX-minX) + 2*pad + 1,
		Height: int(maxY-minY) + 2*pad + 1,
	}
}
