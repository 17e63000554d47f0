package mapgen

import (
	"errors"
	"math/rand/v2"
	"sort"
)

// Placement retry bounds: a road slot that cannot be bridged and a
// building candidate that collides are domain-rule failures retried with
// adjusted placement, up to these limits.
const (
	roadPlacementRetries     = 3
	buildingCandidateRetries = 40
)

// structuresStage places roads, bridges, and buildings subject to
// footprint-collision and terrain-suitability constraints.
type structuresStage struct {
	cfg   StructureConfig
	biome Biome
}

func (s *structuresStage) name() string { return "structures" }

func (s *structuresStage) run(g *Grid, seed Seed, fs *featureSet) error {
	var roads []*MapFeature
	if s.cfg.GenerateRoads {
		roads = s.placeRoads(g, seed, fs)
	}
	if s.cfg.GenerateBuildings {
		if err := s.placeBuildings(g, seed, fs, roads); err != nil {
			return err
		}
	}
	return nil
}

// placeRoads attempts RoadCount main roads, alternating horizontal and
// vertical. A slot whose water crossings cannot all be bridged is
// abandoned and retried at an adjusted slot, up to the retry bound.
func (s *structuresStage) placeRoads(g *Grid, seed Seed, fs *featureSet) []*MapFeature {
	rng := seed.Derive("roads").RNG()
	numH := (s.cfg.RoadCount + 1) / 2
	numV := s.cfg.RoadCount - numH
	waterFeatures := append(fs.ofType(FeatureRiver), fs.ofType(FeatureLake)...)

	var placed []*MapFeature
	roadOrd, bridgeOrd := 0, 0

	place := func(horizontal bool, slot int) bool {
		for attempt := 0; attempt <= roadPlacementRetries; attempt++ {
			tiles := traceRoadPath(g, rng, horizontal, slot, roadMinStraight, s.cfg.MaxSlope)
			crossings := waterCrossings(g, tiles)
			bridgeable := true
			for _, run := range crossings {
				if len(run) > bridgeMaxSpan {
					bridgeable = false
					break
				}
			}
			if !bridgeable {
				// Adjusted placement: shove the slot and try again.
				slot = adjustSlot(g, horizontal, slot, attempt, rng)
				continue
			}

			roadID := newFeatureID(seed, FeatureRoad, roadOrd)
			road := &Road{Tiles: tiles, Width: roadWidthMain}
			stampRoad(g, road)

			for _, run := range crossings {
				bridgeID := newFeatureID(seed, FeatureBridge, bridgeOrd)
				start := Position{X: float64(run[0][0]) + 0.5, Y: float64(run[0][1]) + 0.5}
				end := Position{X: float64(run[len(run)-1][0]) + 0.5, Y: float64(run[len(run)-1][1]) + 0.5}
				br := &Bridge{Start: start, End: end, Span: len(run), RoadID: roadID}
				area := bridgeBounds(run)
				for _, w := range waterFeatures {
					if w.Area.Intersects(area) {
						br.OverIDs = append(br.OverIDs, w.ID)
					}
				}
				bf := newMapFeature(bridgeID, FeatureBridge, area)
				bf.Bridge = br
				fs.add(bf)
				road.Bridges = append(road.Bridges, bridgeID)
				bridgeOrd++
			}

			rf := newMapFeature(roadID, FeatureRoad, roadPathBounds(tiles, roadWidthMain))
			rf.Road = road
			fs.add(rf)
			placed = append(placed, rf)
			roadOrd++
			return true
		}
		return false
	}

	mainCount := 0
	for _, slot := range spreadSlots(g.Rows, maxInt(numH, 0), rng) {
		if place(true, slot) {
			mainCount++
		}
	}
	horizontalMains := mainCount
	for _, slot := range spreadSlots(g.Cols, maxInt(numV, 0), rng) {
		place(false, slot)
	}

	// Short side streets branch off the mains. They dead-end at water
	// rather than bridge it.
	for i, rf := range placed {
		horizontal := i < horizontalMains
		path := rf.Road.Tiles
		branches := maxInt(1, len(path)/24)
		for b := 0; b < branches; b++ {
			from := path[rng.IntN(len(path))]
			dir := 1
			if rng.IntN(2) == 0 {
				dir = -1
			}
			length := roadMinStraight + rng.IntN(roadMinStraight*2)
			tiles := traceSideStreet(g, from, horizontal, dir, length, s.cfg.MaxSlope)
			if len(tiles) < roadMinStraight/2 {
				continue
			}
			side := &Road{Tiles: tiles, Width: roadWidthSide}
			stampRoad(g, side)
			sf := newMapFeature(newFeatureID(seed, FeatureRoad, roadOrd), FeatureRoad,
				roadPathBounds(tiles, roadWidthSide))
			sf.Road = side
			fs.add(sf)
			roadOrd++
		}
	}
	return placed
}

// adjustSlot nudges a failed road slot toward unexplored rows/cols.
func adjustSlot(g *Grid, horizontal bool, slot, attempt int, rng *rand.Rand) int {
	limit := g.Rows
	if !horizontal {
		limit = g.Cols
	}
	step := (attempt + 1) * (2 + rng.IntN(3))
	if rng.IntN(2) == 0 {
		step = -step
	}
	slot += step
	if slot < 1 {
		slot = 1
	}
	if slot >= limit-1 {
		slot = limit - 2
	}
	return slot
}

func bridgeBounds(run [][2]int) SpatialBounds {
	minC, minR := run[0][0], run[0][1]
	maxC, maxR := minC, minR
	for _, t := range run {
		minC, maxC = minInt(minC, t[0]), maxInt(maxC, t[0])
		minR, maxR = minInt(minR, t[1]), maxInt(maxR, t[1])
	}
	return SpatialBounds{X: minC, Y: minR, Width: maxC - minC + 1, Height: maxR - minR + 1}
}

func roadPathBounds(tiles [][2]int, width int) SpatialBounds {
	b := bridgeBounds(tiles)
	return b.Expand(width / 2)
}

// placeBuildings commits up to BuildingCount buildings from candidate
// sites near roads (falling back to open ground), validating footprint
// bounds, terrain suitability, and footprint collision before each
// commit. A collision or unsuitable site is a retryable domain-rule
// failure: the candidate is dropped and the next one tried, up to the
// retry bound.
func (s *structuresStage) placeBuildings(g *Grid, seed Seed, fs *featureSet, roads []*MapFeature) error {
	rng := seed.Derive("buildings").RNG()
	candidates := buildingCandidates(g, rng, roads)

	var committed []Footprint
	ordinal := 0
	attempts := 0
	for _, c := range candidates {
		if ordinal >= s.cfg.BuildingCount || attempts >= buildingCandidateRetries+s.cfg.BuildingCount {
			break
		}
		attempts++

		bt := buildingTypeFor(rng)
		fp := Footprint{Bounds: c}
		if err := validateFootprint(fp); err != nil {
			return err // generator produced an illegal candidate; not retryable
		}
		if err := s.checkSite(g, fp, bt); err != nil {
			var ge *GenError
			if errors.As(err, &ge) && ge.Retryable() {
				continue
			}
			return err
		}
		if err := footprintCollision(fp, committed); err != nil {
			var ge *GenError
			if errors.As(err, &ge) && ge.Retryable() {
				continue
			}
			return err
		}

		id := newFeatureID(seed, FeatureBuilding, ordinal)
		b := &Building{
			Type:        bt,
			Footprint:   fp,
			Orientation: rng.IntN(4),
			Material:    pickMaterial(rng, s.biome),
			Condition:   0.5 + rng.Float64()*0.5,
			Age:         5 + rng.IntN(120),
		}
		buildInterior(b, id, rng)
		stampBuilding(g, fp)

		f := newMapFeature(id, FeatureBuilding, fp.Bounds)
		f.Building = b
		fs.add(f)
		committed = append(committed, fp)
		ordinal++
	}
	return nil
}

// footprintCollision reports a committed footprint overlapping fp.
// Collisions are domain-rule failures retried with the next candidate.
func footprintCollision(fp Footprint, committed []Footprint) error {
	for _, prev := range committed {
		if fp.Overlaps(prev) {
			return &GenError{
				Code: CodeBuildingCollision, Kind: KindDomainRule,
				Component: "structures", Op: "placeBuildings",
				Message: "footprint overlaps a committed building",
				Context: map[string]any{"bounds": fp.Bounds, "hit": prev.Bounds},
			}
		}
	}
	return nil
}

// checkSite validates terrain suitability for a footprint: inside the
// map, off water, and gentle enough slope for the foundation.
func (s *structuresStage) checkSite(g *Grid, fp Footprint, bt BuildingType) error {
	b := fp.Bounds
	if b.X < 1 || b.Y < 1 || b.X+b.Width > g.Cols-1 || b.Y+b.Height > g.Rows-1 {
		return &GenError{
			Code: CodeTerrainUnsuitable, Kind: KindDomainRule,
			Component: "structures", Op: "checkSite",
			Message: "footprint extends outside the buildable margin",
		}
	}
	maxSlope := s.cfg.MaxSlope
	if bt == BuildingWatchtower {
		maxSlope *= 1.4 // towers take steeper foundations
	}
	for row := b.Y; row < b.Y+b.Height; row++ {
		for col := b.X; col < b.X+b.Width; col++ {
			t := g.At(col, row)
			if t.Hydrology.IsWater || t.Terrain == TerrainRoad || t.Terrain == TerrainMarsh {
				return &GenError{
					Code: CodeTerrainUnsuitable, Kind: KindDomainRule,
					Component: "structures", Op: "checkSite",
					Message: "footprint overlaps water, marsh, or road",
					Context: map[string]any{"col": col, "row": row},
				}
			}
			if t.Topography.Slope > maxSlope {
				return &GenError{
					Code: CodeTerrainUnsuitable, Kind: KindDomainRule,
					Component: "structures", Op: "checkSite",
					Message: "slope too steep for foundation",
					Context: map[string]any{"col": col, "row": row, "slope": t.Topography.Slope},
				}
			}
		}
	}
	return nil
}

// buildingCandidates returns shuffled candidate footprints adjacent to
// road tiles, with off-road fallbacks in open ground.
func buildingCandidates(g *Grid, rng *rand.Rand, roads []*MapFeature) []SpatialBounds {
	var out []SpatialBounds
	sizes := [][2]int{{3, 3}, {3, 4}, {4, 4}, {4, 6}, {2, 2}, {5, 5}}

	for _, rf := range roads {
		step := maxInt(4, len(rf.Road.Tiles)/12)
		for i := 0; i < len(rf.Road.Tiles); i += step {
			t := rf.Road.Tiles[i]
			sz := sizes[rng.IntN(len(sizes))]
			gap := 1 + rng.IntN(2)
			offsets := [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
			for _, off := range offsets {
				x := t[0] + off[0]*(gap+sz[0])
				y := t[1] + off[1]*(gap+sz[1])
				out = append(out, SpatialBounds{X: x, Y: y, Width: sz[0], Height: sz[1]})
			}
		}
	}

	// Off-road fallbacks across the interior.
	fallback := maxInt(4, len(out)/3)
	for i := 0; i < fallback; i++ {
		sz := sizes[rng.IntN(len(sizes))]
		x := 2 + rng.IntN(maxInt(1, g.Cols-sz[0]-4))
		y := 2 + rng.IntN(maxInt(1, g.Rows-sz[1]-4))
		out = append(out, SpatialBounds{X: x, Y: y, Width: sz[0], Height: sz[1]})
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// buildingTypeFor rolls a building type with houses most common.
func buildingTypeFor(rng *rand.Rand) BuildingType {
	roll := rng.Float64()
	switch {
	case roll < 0.5:
		return BuildingHouse
	case roll < 0.7:
		return BuildingBarn
	case roll < 0.85:
		return BuildingWarehouse
	case roll < 0.95:
		return BuildingWatchtower
	default:
		return BuildingChapel
	}
}

// pickMaterial rolls a wall construction the biome will accept.
func pickMaterial(rng *rand.Rand, b Biome) BuildingMaterial {
	constructions := []WallConstruction{WallTimber, WallStone, WallBrick, WallWattle}
	var allowed []WallConstruction
	for _, c := range constructions {
		if materialSuitsBiome(c, b) {
			allowed = append(allowed, c)
		}
	}
	sort.Slice(allowed, func(i, j int) bool { return allowed[i] < allowed[j] })
	return materialFor(allowed[rng.IntN(len(allowed))])
}

// stampBuilding writes interior floor terrain over the footprint.
func stampBuilding(g *Grid, fp Footprint) {
	b := fp.Bounds
	for row := b.Y; row < b.Y+b.Height; row++ {
		for col := b.X; col < b.X+b.Width; col++ {
			g.SetTerrain(col, row, TerrainFloor)
		}
	}
}
