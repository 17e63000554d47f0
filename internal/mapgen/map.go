package mapgen

import (
	"fmt"
	"time"
)

// MapMetadata describes a generated map for external collaborators.
type MapMetadata struct {
	GeneratedAt time.Time
	Author      string
	Tags        []string
	Biome       Biome
	SeedUsed    Seed
}

// Map is the aggregate returned to external collaborators: the tile
// grid, the feature collections, and metadata. It is populated during
// one generation run and treated as immutable afterwards; all mutation
// happens inside the pipeline.
type Map struct {
	ID         string
	Name       string
	Dimensions Dimensions
	CellSize   float64

	grid     *Grid
	features map[FeatureID]*MapFeature
	order    []FeatureID // insertion order, kept for deterministic iteration
	Metadata MapMetadata
}

// newMap creates an empty map shell for the pipeline to populate.
func newMap(req GenerationRequest) *Map {
	return &Map{
		ID:         fmt.Sprintf("map-%08x-%dx%d", int64(req.Seed), req.Width, req.Height),
		Name:       req.Name,
		Dimensions: Dimensions{Width: req.Width, Height: req.Height},
		CellSize:   req.CellSize,
		grid:       NewGrid(req.Width, req.Height),
		features:   make(map[FeatureID]*MapFeature),
		Metadata: MapMetadata{
			Biome:    req.Biome,
			SeedUsed: req.Seed,
		},
	}
}

// Grid returns the tile grid.
func (m *Map) Grid() *Grid { return m.grid }

// Feature looks up a feature by id.
func (m *Map) Feature(id FeatureID) (*MapFeature, bool) {
	f, ok := m.features[id]
	return f, ok
}

// Features returns all features in insertion order.
func (m *Map) Features() []*MapFeature {
	out := make([]*MapFeature, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.features[id])
	}
	return out
}

// FeaturesOfType returns features of one variant in insertion order.
func (m *Map) FeaturesOfType(t FeatureType) []*MapFeature {
	var out []*MapFeature
	for _, id := range m.order {
		if f := m.features[id]; f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// FeatureCount returns the number of placed features.
func (m *Map) FeatureCount() int { return len(m.order) }

// addFeature registers a feature in the arena, assigning its insertion
// sequence number.
func (m *Map) addFeature(f *MapFeature) {
	f.Seq = len(m.order)
	m.features[f.ID] = f
	m.order = append(m.order, f.ID)
}

// featureSet is a stage-local accumulator: features proposed by a stage
// are collected here and only merged into the Map when the stage
// succeeds.
type featureSet struct {
	list []*MapFeature
}

func (fs *featureSet) add(f *MapFeature)  { fs.list = append(fs.list, f) }
func (fs *featureSet) all() []*MapFeature { return fs.list }

func (fs *featureSet) ofType(t FeatureType) []*MapFeature {
	var out []*MapFeature
	for _, f := range fs.list {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}
