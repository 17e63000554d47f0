package mapgen

import "math"

// LakeFormation identifies how a lake formed; it constrains which shore
// types the shoreline ring may use.
type LakeFormation uint8

const (
	FormationDepression LakeFormation = iota
	FormationRiverine
	FormationGlacial
	FormationVolcanic
)

func (f LakeFormation) String() string {
	switch f {
	case FormationDepression:
		return "depression"
	case FormationRiverine:
		return "riverine"
	case FormationGlacial:
		return "glacial"
	case FormationVolcanic:
		return "volcanic"
	default:
		return "unknown"
	}
}

// ShoreType classifies one stretch of lake shoreline.
type ShoreType uint8

const (
	ShoreSandy ShoreType = iota
	ShoreRocky
	ShoreMarshy
	ShoreGravel
)

func (s ShoreType) String() string {
	switch s {
	case ShoreSandy:
		return "sandy"
	case ShoreRocky:
		return "rocky"
	case ShoreMarshy:
		return "marshy"
	case ShoreGravel:
		return "gravel"
	default:
		return "unknown"
	}
}

// formationShoreTypes returns the candidate shore types for a formation.
// Volcanic crater rims never silt into marsh; glacial shores carry till.
func formationShoreTypes(f LakeFormation) []ShoreType {
	switch f {
	case FormationVolcanic:
		return []ShoreType{ShoreRocky, ShoreSandy}
	case FormationGlacial:
		return []ShoreType{ShoreRocky, ShoreGravel}
	case FormationRiverine:
		return []ShoreType{ShoreSandy, ShoreMarshy, ShoreGravel}
	default:
		return []ShoreType{ShoreSandy, ShoreMarshy, ShoreRocky, ShoreGravel}
	}
}

// ShorelinePoint is one point of the ordered shoreline ring.
type ShorelinePoint struct {
	Position   Position
	Shore      ShoreType
	Accessible bool // true if the shore can be walked onto from land
}

// Lake is a standing water body with explicit shoreline geometry.
type Lake struct {
	Formation LakeFormation
	AvgDepth  float64          // metres
	MaxDepth  float64          // metres
	Shoreline []ShorelinePoint // ordered ring
	Islands   []Position
	Inlets    []Position // river entry points
	Outlets   []Position // spillway exit points
	Tiles     [][2]int   // flooded tile coordinates
}

// buildShoreline generates an N-point ring around the lake's centre,
// radius shaped by the flooded tiles, shore types drawn from the
// formation's candidate set.
func buildShoreline(l *Lake, area SpatialBounds, seed Seed, points int) {
	if points < 4 {
		points = 4
	}
	center := area.Center()
	rx := float64(area.Width) / 2
	ry := float64(area.Height) / 2
	candidates := formationShoreTypes(l.Formation)
	rng := seed.Derive("shoreline").RNG()

	l.Shoreline = make([]ShorelinePoint, 0, points)
	for i := 0; i < points; i++ {
		theta := 2 * math.Pi * float64(i) / float64(points)
		jitter := 0.85 + rng.Float64()*0.3
		p := Position{
			X: center.X + math.Cos(theta)*rx*jitter,
			Y: center.Y + math.Sin(theta)*ry*jitter,
		}
		shore := candidates[rng.IntN(len(candidates))]
		l.Shoreline = append(l.Shoreline, ShorelinePoint{
			Position:   p,
			Shore:      shore,
			Accessible: shore != ShoreMarshy,
		})
	}
}
