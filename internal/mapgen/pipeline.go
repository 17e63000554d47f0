package mapgen

import (
	"fmt"
	"hash/fnv"
	"time"
)

// stage is one pass of the generation pipeline. Stages run in a fixed
// order and receive the committed outputs of every earlier stage; they
// work on a grid clone and a stage-local feature accumulator, so a
// failed stage never leaves partial writes on the Map.
type stage interface {
	name() string
	run(g *Grid, seed Seed, fs *featureSet) error
}

// Generator runs the layered generation pipeline:
// geology -> topography -> hydrology -> vegetation -> structures -> mixing.
type Generator struct {
	req GenerationRequest
}

// NewGenerator validates the request and builds a generator for it.
func NewGenerator(req GenerationRequest) (*Generator, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Generator{req: req}, nil
}

// Generate runs the full pipeline and returns the finished Map. The
// result is a pure function of the request: equal requests produce
// byte-identical grids and feature collections.
func (gen *Generator) Generate() (*Map, error) {
	req := gen.req
	m := newMap(req)

	stages := []stage{
		&geologyStage{cfg: req.Geology, biome: req.Biome},
		&topographyStage{cfg: req.Topography},
		&hydrologyStage{cfg: req.Hydrology},
		&vegetationStage{cfg: req.Vegetation, biome: req.Biome},
		&structuresStage{cfg: req.Structures, biome: req.Biome},
		&mixingStage{},
	}

	applyBaseTerrain(m.grid, req)

	for _, s := range stages {
		work := m.grid.Clone()
		fs := &featureSet{list: append([]*MapFeature(nil), m.Features()...)}
		preset := len(fs.list)

		if err := s.run(work, req.Seed.Derive(s.name()), fs); err != nil {
			return nil, &GenError{
				Code:      errCode(err),
				Kind:      errKind(err),
				Component: s.name(),
				Op:        "Generate",
				Message:   fmt.Sprintf("stage %s failed", s.name()),
				Err:       err,
			}
		}

		// Commit: merge the working grid and the stage's new features.
		m.grid = work
		for _, f := range fs.list[preset:] {
			m.addFeature(f)
		}
	}

	m.Metadata.GeneratedAt = time.Now().UTC()
	return m, nil
}

// Generate is the package entry point: validate, build, run.
func Generate(req GenerationRequest) (*Map, error) {
	gen, err := NewGenerator(req)
	if err != nil {
		return nil, err
	}
	return gen.Generate()
}

// applyBaseTerrain seeds the pre-geology ground distribution from the
// request's terrain weights.
func applyBaseTerrain(g *Grid, req GenerationRequest) {
	w := req.Weights
	total := w.Open + w.Rough + w.Forest + w.Water
	if total <= 0 {
		return // even spread: leave the default grass
	}
	seed := int64(req.Seed.Derive("base-terrain"))
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			n := valueNoise2D(float64(col)*0.08, float64(row)*0.08, seed) * total
			switch {
			case n < w.Open:
				g.SetTerrain(col, row, TerrainGrass)
			case n < w.Open+w.Rough:
				g.SetTerrain(col, row, TerrainDirt)
			case n < w.Open+w.Rough+w.Forest:
				g.SetTerrain(col, row, TerrainGrassLong)
			default:
				g.SetTerrain(col, row, TerrainMud)
			}
		}
	}
}

// errCode/errKind lift the code and kind of a wrapped GenError so stage
// wrappers keep the inner taxonomy.
func errCode(err error) string {
	if ge, ok := err.(*GenError); ok {
		return ge.Code
	}
	return CodeStageDependencyMissing
}

func errKind(err error) ErrorKind {
	if ge, ok := err.(*GenError); ok {
		return ge.Kind
	}
	return KindInfrastructure
}

// Fingerprint hashes the complete generated state: every tile field that
// generation writes plus every feature id, area, and geometry count, in
// deterministic order. Two runs of one seed must produce equal
// fingerprints; anything else is a reproducibility bug.
func (m *Map) Fingerprint() uint64 {
	h := fnv.New64a()
	write := func(format string, args ...any) {
		fmt.Fprintf(h, format, args...)
	}
	write("%s|%dx%d|", m.ID, m.Dimensions.Width, m.Dimensions.Height)
	for i := range m.grid.Tiles {
		t := &m.grid.Tiles[i]
		write("%d:%d:%t:%.6f:%.6f:%.6f:%.6f:%.6f:%d:%d:%s:%d;",
			i, t.Terrain, t.Passable, t.HeightMul,
			t.Topography.Elevation, t.Hydrology.WaterDepth,
			t.Vegetation.CanopyCover, t.MovementCost,
			t.Cover, t.Concealment, t.PrimaryFeature, len(t.MixedFeatures))
		for _, id := range t.MixedFeatures {
			write("%s,", id)
		}
	}
	for _, f := range m.Features() {
		write("|%s:%d:%d:%+v", f.ID, f.Type, f.Priority, f.Area)
		switch {
		case f.River != nil:
			write(":pts=%d:trib=%d", len(f.River.Points), len(f.River.Tributaries))
			for _, p := range f.River.Points {
				write(":%.4f,%.4f,%d", p.Position.X, p.Position.Y, p.Segment)
			}
		case f.Lake != nil:
			write(":tiles=%d:shore=%d:%.4f", len(f.Lake.Tiles), len(f.Lake.Shoreline), f.Lake.MaxDepth)
		case f.Forest != nil:
			write(":trees=%d:under=%d", len(f.Forest.Trees), len(f.Forest.Understory))
			for _, tr := range f.Forest.Trees {
				p := tr.Position.Resolve()
				write(":%.4f,%.4f,%d,%s", p.X, p.Y, tr.Species, tr.GraftedInto)
			}
		case f.Building != nil:
			write(":floors=%d:mat=%d", len(f.Building.Floors), f.Building.Material.Construction)
		case f.Road != nil:
			write(":tiles=%d:bridges=%d", len(f.Road.Tiles), len(f.Road.Bridges))
		}
	}
	return h.Sum64()
}
