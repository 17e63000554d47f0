package mapgen

import "fmt"

// TreeSpecies identifies a tree species.
type TreeSpecies uint8

const (
	SpeciesOak TreeSpecies = iota
	SpeciesBeech
	SpeciesPine
	SpeciesSpruce
	SpeciesBirch
	SpeciesWillow
	treeSpeciesCount // sentinel
)

func (s TreeSpecies) String() string {
	switch s {
	case SpeciesOak:
		return "oak"
	case SpeciesBeech:
		return "beech"
	case SpeciesPine:
		return "pine"
	case SpeciesSpruce:
		return "spruce"
	case SpeciesBirch:
		return "birch"
	case SpeciesWillow:
		return "willow"
	default:
		return "unknown"
	}
}

// speciesCompatible reports whether two species can inosculate. Same
// species always can; oak/beech and pine/spruce pairs are close enough.
func speciesCompatible(a, b TreeSpecies) bool {
	if a == b {
		return true
	}
	if a > b {
		a, b = b, a
	}
	return (a == SpeciesOak && b == SpeciesBeech) || (a == SpeciesPine && b == SpeciesSpruce)
}

// graftHealthBoost is the one-time health gain a surviving tree takes
// from a graft; grafting the same pair again has no further effect.
const graftHealthBoost = 0.15

// graftDistanceMul scales the combined canopy radius into the maximum
// trunk distance at which two crowns physically merge.
const graftDistanceMul = 0.45

// Tree is an individual placed plant in the canopy layer.
type Tree struct {
	ID            string
	Species       TreeSpecies
	Position      SubTilePosition
	Health        float64 // [0,1]
	Age           int     // years
	Diameter      float64 // trunk metres
	Height        float64 // metres
	CanopyRadius  float64 // tiles
	CanopyDensity float64 // [0,1] light blocked under the crown

	GraftedFrom []string // ids of trees merged into this one
	GraftedInto string   // id of the tree this one merged into, "" if alive standalone
}

// newTreeID derives a stable per-forest tree id.
func newTreeID(forest FeatureID, ordinal int) string {
	return fmt.Sprintf("%s/tree-%04d", forest, ordinal)
}

// CanGraftWith reports whether two trees are close enough and compatible
// enough to inosculate.
func (t *Tree) CanGraftWith(other *Tree) bool {
	if t == other || t.GraftedInto != "" || other.GraftedInto != "" {
		return false
	}
	if !speciesCompatible(t.Species, other.Species) {
		return false
	}
	limit := (t.CanopyRadius + other.CanopyRadius) * graftDistanceMul
	return t.Position.Resolve().Distance(other.Position.Resolve()) <= limit
}

// Graft merges donor into t: the two canopies physically join, the donor
// stops existing as a standalone tree, and t gains health. The operation
// is one-way and idempotent; grafting an already-grafted pair changes
// nothing.
func (t *Tree) Graft(donor *Tree) {
	if donor == t || donor.GraftedInto != "" {
		return
	}
	for _, id := range t.GraftedFrom {
		if id == donor.ID {
			return // already merged
		}
	}
	donor.GraftedInto = t.ID
	t.GraftedFrom = append(t.GraftedFrom, donor.ID)
	t.CanopyRadius += donor.CanopyRadius * 0.5
	t.CanopyDensity = clampFloat(t.CanopyDensity+donor.CanopyDensity*0.25, 0, 1)
	t.Health = clampFloat(t.Health+graftHealthBoost, 0, 1)
}

// UnderstoryKind identifies a non-canopy plant.
type UnderstoryKind uint8

const (
	PlantShrub UnderstoryKind = iota
	PlantHerbaceous
	PlantMoss
)

func (k UnderstoryKind) String() string {
	switch k {
	case PlantShrub:
		return "shrub"
	case PlantHerbaceous:
		return "herbaceous"
	case PlantMoss:
		return "moss"
	default:
		return "unknown"
	}
}

// UnderstoryPlant is a placed understory plant.
type UnderstoryPlant struct {
	Kind     UnderstoryKind
	Position SubTilePosition
	Size     float64 // metres
}

// Forest owns its trees; every tree position must fall inside the
// forest's area.
type Forest struct {
	Trees           []*Tree
	Understory      []UnderstoryPlant
	DominantSpecies TreeSpecies
	Underbrush      float64 // [0,1] aggregate understory density
	Tiles           [][2]int
}

// TreeByID finds an owned tree, nil if absent.
func (f *Forest) TreeByID(id string) *Tree {
	for _, t := range f.Trees {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// StandingTrees returns the trees that have not been grafted away.
func (f *Forest) StandingTrees() []*Tree {
	out := make([]*Tree, 0, len(f.Trees))
	for _, t := range f.Trees {
		if t.GraftedInto == "" {
			out = append(out, t)
		}
	}
	return out
}
