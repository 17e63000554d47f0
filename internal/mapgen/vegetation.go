package mapgen

import (
	"math"
	"sort"
)

// Vegetation tuning. Tree counts come from area * density * probability
// with every factor independently clamped, so extreme configs degrade
// gracefully instead of flooding the map.
const (
	forestNoiseScale   = 0.045
	forestThresholdDef = 0.60 // vegetation noise above this is forest at density 1
	grassThresholdDef  = 0.42

	treesPerTileBase = 0.22 // per-tile tree probability at density 1
	treesPerTileMax  = 0.5
	minForestTiles   = 6

	competitionRadiusMul = 0.8
	competitionPenalty   = 0.08

	shrubLightMin = 0.40
	herbLightMin  = 0.22
)

// vegetationStage populates forests and grasslands with individual
// plants, applies canopy light attenuation to the understory, and
// resolves adjacent-tree interactions.
type vegetationStage struct {
	cfg   VegetationConfig
	biome Biome
}

func (s *vegetationStage) name() string { return "vegetation" }

func (s *vegetationStage) run(g *Grid, seed Seed, fs *featureSet) error {
	if !s.cfg.GenerateForests {
		return nil
	}

	vegSeed := int64(seed.Derive("vegetation"))
	bias := biomeVegetationBias(s.biome)

	// Density lowers the forest threshold: denser settings grow more of
	// the map into woodland. Clamped so density 2 cannot blanket water.
	forestThresh := clampFloat(forestThresholdDef-(s.cfg.Density-1)*0.12, 0.35, 0.85)
	grassThresh := clampFloat(grassThresholdDef-(s.cfg.Density-1)*0.08, 0.25, 0.70)

	veg := make([]float64, len(g.Tiles))
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			n := valueNoise2D(float64(col)*forestNoiseScale, float64(row)*forestNoiseScale, vegSeed)
			// Moist low-slope ground grows more readily.
			t := &g.Tiles[i]
			n += bias + (t.Geology.Moisture-0.5)*0.15 - t.Topography.Slope*0.2
			veg[i] = n
		}
	}

	visited := make([]bool, len(g.Tiles))
	forestOrd, grassOrd := 0, 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			if visited[i] {
				continue
			}
			if !plantable(g, col, row) {
				visited[i] = true
				continue
			}
			if veg[i] >= forestThresh {
				region := growRegion(g, veg, visited, i, forestThresh)
				if len(region) >= minForestTiles {
					s.buildForest(g, seed, fs, region, forestOrd)
					forestOrd++
				}
			} else if veg[i] >= grassThresh {
				region := growRegion(g, veg, visited, i, grassThresh)
				if len(region) >= minForestTiles {
					s.buildGrassland(g, seed, fs, region, grassOrd)
					grassOrd++
				}
			}
		}
	}
	return nil
}

// plantable: dry, unflooded ground that is not bare rock.
func plantable(g *Grid, col, row int) bool {
	t := g.At(col, row)
	if t == nil || t.Hydrology.IsWater {
		return false
	}
	switch t.Terrain {
	case TerrainRock, TerrainWaterShallow, TerrainWaterDeep, TerrainMarsh:
		return false
	}
	return true
}

// growRegion flood-fills the connected component of plantable tiles with
// vegetation noise above the threshold. Deterministic BFS order.
func growRegion(g *Grid, veg []float64, visited []bool, start int, thresh float64) []int {
	var region []int
	visited[start] = true
	frontier := []int{start}
	for len(frontier) > 0 {
		sort.Ints(frontier)
		next := frontier
		frontier = nil
		for _, i := range next {
			region = append(region, i)
			c, r := i%g.Cols, i/g.Cols
			for _, off := range neighborOffsets[:4] {
				nc, nr := c+off[0], r+off[1]
				if !g.InBounds(nc, nr) {
					continue
				}
				ni := nr*g.Cols + nc
				if !visited[ni] && veg[ni] >= thresh && plantable(g, nc, nr) {
					visited[ni] = true
					frontier = append(frontier, ni)
				}
			}
		}
	}
	sort.Ints(region)
	return region
}

// buildForest creates a Forest feature over a region: trees first
// (canopy layer), then understory under the light that the canopy lets
// through, then competition and grafting between neighbours.
func (s *vegetationStage) buildForest(g *Grid, seed Seed, fs *featureSet, region []int, ordinal int) {
	id := newFeatureID(seed, FeatureForest, ordinal)
	area := tileSetBounds(g, region)
	forest := &Forest{}

	// Per-tile tree probability: base * density, diversity skews the
	// species draw, both clamped.
	pTree := clampFloat(treesPerTileBase*s.cfg.Density, 0, treesPerTileMax)

	speciesTally := map[TreeSpecies]int{}
	treeOrd := 0
	for _, i := range region {
		col, row := i%g.Cols, i/g.Cols
		forest.Tiles = append(forest.Tiles, [2]int{col, row})
		rng := seed.DeriveIndex("tree", i).RNG()
		if rng.Float64() >= pTree {
			continue
		}
		species := s.pickSpecies(rng.Float64(), g.Tiles[i].Geology.Moisture)
		pos, _ := NewSubTilePosition(col, row, rng.Float64()*0.999, rng.Float64()*0.999)
		age := 8 + rng.IntN(120)
		height := clampFloat(3+float64(age)*0.25+rng.Float64()*4, 3, 40)
		tree := &Tree{
			ID:            newTreeID(id, treeOrd),
			Species:       species,
			Position:      pos,
			Health:        0.55 + rng.Float64()*0.4,
			Age:           age,
			Diameter:      clampFloat(height*0.02+rng.Float64()*0.2, 0.05, 2.5),
			Height:        height,
			CanopyRadius:  clampFloat(height*0.05, 0.3, 2.0),
			CanopyDensity: clampFloat(0.4+rng.Float64()*0.5, 0, 1),
		}
		forest.Trees = append(forest.Trees, tree)
		speciesTally[species]++
		treeOrd++
	}

	forest.DominantSpecies = dominantSpecies(speciesTally)
	resolveTreeInteractions(forest)
	light := canopyLight(g, area, forest)
	s.placeUnderstory(g, seed, forest, region, light)

	// Tile write-back: canopy cover, understory, terrain.
	for _, i := range region {
		col, row := i%g.Cols, i/g.Cols
		t := &g.Tiles[i]
		t.Vegetation.Light = light[i]
		t.Vegetation.CanopyCover = clampFloat(1-light[i], 0, 1)
		if t.Vegetation.CanopyCover > 0.25 {
			g.SetTerrain(col, row, TerrainForest)
		} else {
			g.SetTerrain(col, row, TerrainGrassLong)
		}
	}

	f := newMapFeature(id, FeatureForest, area)
	f.Forest = forest
	fs.add(f)
}

// pickSpecies draws a species from the biome/moisture profile. Diversity
// flattens the draw toward the rarer species.
func (s *vegetationStage) pickSpecies(roll, moisture float64) TreeSpecies {
	// Diversity widens the band given to secondary species.
	spread := 0.15 + s.cfg.Diversity*0.35
	switch s.biome {
	case BiomeAlpine:
		if roll < 1-spread {
			return SpeciesSpruce
		}
		return SpeciesPine
	case BiomeWetland:
		if roll < 1-spread {
			return SpeciesWillow
		}
		return SpeciesBirch
	default:
		if moisture > 0.7 && roll < 0.3 {
			return SpeciesWillow
		}
		switch {
		case roll < 1-spread*2:
			return SpeciesOak
		case roll < 1-spread:
			return SpeciesBeech
		default:
			return SpeciesBirch
		}
	}
}

func dominantSpecies(tally map[TreeSpecies]int) TreeSpecies {
	best := SpeciesOak
	bestN := -1
	// Iterate species in declared order so ties resolve deterministically.
	for sp := SpeciesOak; sp < treeSpeciesCount; sp++ {
		if n := tally[sp]; n > bestN {
			best, bestN = sp, n
		}
	}
	return best
}

// resolveTreeInteractions applies competition then grafting over all
// close pairs, in tree index order for determinism.
func resolveTreeInteractions(f *Forest) {
	for i := 0; i < len(f.Trees); i++ {
		a := f.Trees[i]
		if a.GraftedInto != "" {
			continue
		}
		for j := i + 1; j < len(f.Trees); j++ {
			b := f.Trees[j]
			if b.GraftedInto != "" {
				continue
			}
			dist := a.Position.Resolve().Distance(b.Position.Resolve())
			if a.CanGraftWith(b) {
				// The taller tree absorbs the shorter.
				if a.Height >= b.Height {
					a.Graft(b)
				} else {
					b.Graft(a)
				}
				continue
			}
			// Crowded incompatible crowns compete for light.
			if dist < (a.CanopyRadius+b.CanopyRadius)*competitionRadiusMul {
				loser := b
				if a.Height < b.Height {
					loser = a
				}
				loser.CanopyDensity = clampFloat(loser.CanopyDensity-competitionPenalty, 0.1, 1)
				loser.Health = clampFloat(loser.Health-competitionPenalty/2, 0.05, 1)
			}
		}
	}
}

// canopyLight computes per-tile ground light from standing trees: each
// canopy shades the tiles within its radius in proportion to its density.
func canopyLight(g *Grid, area SpatialBounds, f *Forest) map[int]float64 {
	light := make(map[int]float64)
	for _, tc := range f.Tiles {
		light[tc[1]*g.Cols+tc[0]] = 1.0
	}
	for _, tree := range f.StandingTrees() {
		p := tree.Position.Resolve()
		rad := tree.CanopyRadius
		r0 := int(math.Floor(p.Y - rad))
		r1 := int(math.Ceil(p.Y + rad))
		c0 := int(math.Floor(p.X - rad))
		c1 := int(math.Ceil(p.X + rad))
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if !g.InBounds(col, row) {
					continue
				}
				i := row*g.Cols + col
				cur, inForest := light[i]
				if !inForest {
					continue
				}
				d := p.Distance(Position{X: float64(col) + 0.5, Y: float64(row) + 0.5})
				if d > rad+0.5 {
					continue
				}
				falloff := 1 - d/(rad+0.5)
				light[i] = clampFloat(cur-tree.CanopyDensity*falloff, 0.02, 1)
			}
		}
	}
	return light
}

// placeUnderstory fills the forest floor by light band: shrubs in gaps,
// herbs in dapple, moss in deep shade.
func (s *vegetationStage) placeUnderstory(g *Grid, seed Seed, f *Forest, region []int, light map[int]float64) {
	var underbrushSum float64
	for _, i := range region {
		col, row := i%g.Cols, i/g.Cols
		l := light[i]
		rng := seed.DeriveIndex("understory", i).RNG()
		p := clampFloat(s.cfg.Density*0.5, 0, 0.9)
		if rng.Float64() >= p {
			continue
		}
		var kind UnderstoryKind
		switch {
		case l >= shrubLightMin:
			kind = PlantShrub
		case l >= herbLightMin:
			kind = PlantHerbaceous
		default:
			kind = PlantMoss
		}
		pos, _ := NewSubTilePosition(col, row, rng.Float64()*0.999, rng.Float64()*0.999)
		size := 0.2 + rng.Float64()*1.2
		if kind == PlantMoss {
			size *= 0.3
		}
		f.Understory = append(f.Understory, UnderstoryPlant{Kind: kind, Position: pos, Size: size})
		underbrushSum += size
		g.Tiles[i].Vegetation.Understory = clampFloat(g.Tiles[i].Vegetation.Understory+size*0.3, 0, 1)
	}
	if len(region) > 0 {
		f.Underbrush = clampFloat(underbrushSum/float64(len(region)), 0, 1)
	}
}

// buildGrassland creates an open vegetated feature over a region.
func (s *vegetationStage) buildGrassland(g *Grid, seed Seed, fs *featureSet, region []int, ordinal int) {
	id := newFeatureID(seed, FeatureGrassland, ordinal)
	gl := &Grassland{}
	rng := seed.DeriveIndex("grassland", ordinal).RNG()
	gl.GrassHeight = 0.3 + rng.Float64()*0.8*s.cfg.Density
	for _, i := range region {
		col, row := i%g.Cols, i/g.Cols
		gl.Tiles = append(gl.Tiles, [2]int{col, row})
		if gl.GrassHeight > 0.6 {
			g.SetTerrain(col, row, TerrainGrassLong)
		}
		g.Tiles[i].Vegetation.Light = 1
	}
	f := newMapFeature(id, FeatureGrassland, tileSetBounds(g, region))
	f.Grassland = gl
	fs.add(f)
}

// biomeVegetationBias shifts the vegetation field per climate profile.
func biomeVegetationBias(b Biome) float64 {
	switch b {
	case BiomeTemperateForest:
		return 0.12
	case BiomeWetland:
		return 0.05
	case BiomeGrassland:
		return -0.05
	case BiomeAlpine:
		return -0.08
	case BiomeArid:
		return -0.22
	default:
		return 0
	}
}
