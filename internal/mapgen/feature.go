package mapgen

import "fmt"

// FeatureID identifies a placed feature. IDs are derived from the run
// seed plus the feature's type and placement ordinal, so regenerating
// with the same seed reproduces the same ids.
type FeatureID string

// newFeatureID derives the deterministic id for the n-th feature of a
// type within one run.
func newFeatureID(seed Seed, t FeatureType, ordinal int) FeatureID {
	h := seed.DeriveIndex("feature:"+t.String(), ordinal)
	return FeatureID(fmt.Sprintf("%s-%04d-%08x", t, ordinal, int64(h)))
}

// FeatureType tags the variant payload of a MapFeature.
type FeatureType uint8

const (
	FeatureRiver FeatureType = iota
	FeatureLake
	FeatureSpring
	FeatureWetland
	FeatureForest
	FeatureGrassland
	FeatureBuilding
	FeatureRoad
	FeatureBridge
	FeatureRockOutcrop
	FeatureCave
	FeatureSinkhole
	featureTypeCount // sentinel
)

var featureTypeNames = [...]string{
	FeatureRiver:       "river",
	FeatureLake:        "lake",
	FeatureSpring:      "spring",
	FeatureWetland:     "wetland",
	FeatureForest:      "forest",
	FeatureGrassland:   "grassland",
	FeatureBuilding:    "building",
	FeatureRoad:        "road",
	FeatureBridge:      "bridge",
	FeatureRockOutcrop: "rock-outcrop",
	FeatureCave:        "cave",
	FeatureSinkhole:    "sinkhole",
}

func (t FeatureType) String() string {
	if int(t) >= len(featureTypeNames) {
		return "unknown"
	}
	return featureTypeNames[t]
}

// FeatureCategory groups feature types for the mixing rule fallback.
type FeatureCategory uint8

const (
	CategoryRelief FeatureCategory = iota
	CategoryNatural
	CategoryArtificial
	CategoryCultural
)

func (c FeatureCategory) String() string {
	switch c {
	case CategoryRelief:
		return "relief"
	case CategoryNatural:
		return "natural"
	case CategoryArtificial:
		return "artificial"
	case CategoryCultural:
		return "cultural"
	default:
		return "unknown"
	}
}

// featureCategory maps each variant to its category.
func featureCategory(t FeatureType) FeatureCategory {
	switch t {
	case FeatureRockOutcrop, FeatureCave, FeatureSinkhole:
		return CategoryRelief
	case FeatureRiver, FeatureLake, FeatureSpring, FeatureWetland, FeatureForest, FeatureGrassland:
		return CategoryNatural
	case FeatureBuilding, FeatureRoad, FeatureBridge:
		return CategoryArtificial
	default:
		return CategoryNatural
	}
}

// featurePriority is the tie-break rank for which feature dominates a
// tile; higher wins.
func featurePriority(t FeatureType) int {
	switch t {
	case FeatureBuilding:
		return 90
	case FeatureBridge:
		return 85
	case FeatureRoad:
		return 70
	case FeatureRiver:
		return 60
	case FeatureLake:
		return 60
	case FeatureRockOutcrop:
		return 50
	case FeatureCave:
		return 45
	case FeatureSinkhole:
		return 45
	case FeatureForest:
		return 40
	case FeatureWetland:
		return 35
	case FeatureSpring:
		return 30
	case FeatureGrassland:
		return 20
	default:
		return 10
	}
}

// MapFeature is a discrete placed entity: a variant tag plus exactly one
// non-nil payload. Variants are dispatched through rule tables rather
// than virtual methods so the mixing engine stays exhaustive.
type MapFeature struct {
	ID       FeatureID
	Type     FeatureType
	Category FeatureCategory
	Area     SpatialBounds
	Priority int
	Seq      int // insertion order, final determinism tie-break

	River     *River
	Lake      *Lake
	Spring    *Spring
	Wetland   *Wetland
	Forest    *Forest
	Grassland *Grassland
	Building  *Building
	Road      *Road
	Bridge    *Bridge
	Relief    *ReliefPoint
}

// newMapFeature fills the common header for a variant.
func newMapFeature(id FeatureID, t FeatureType, area SpatialBounds) *MapFeature {
	return &MapFeature{
		ID:       id,
		Type:     t,
		Category: featureCategory(t),
		Area:     area,
		Priority: featurePriority(t),
	}
}

// CanMixWith reports whether the two features may coexist on a shared
// tile, per the pairwise compatibility table.
func (f *MapFeature) CanMixWith(other *MapFeature) bool {
	return compatibilityOf(f, other) != MixIncompatible
}

// Spring is a point water source.
type Spring struct {
	Position Position
	FlowRate float64 // litres/min equivalent, scales pool size
	IsPool   bool    // standing pool rather than an emerging flow
}

// Wetland is a patch of saturated ground.
type Wetland struct {
	Moisture float64 // [0,1] average tile moisture across the patch
	Tiles    [][2]int
}

// Grassland is an open vegetated region without canopy.
type Grassland struct {
	GrassHeight float64 // metres
	Tiles       [][2]int
}

// ReliefPoint is a point geological feature (outcrop, cave mouth, sinkhole).
type ReliefPoint struct {
	Position Position
	Size     float64 // tiles of influence radius
}
