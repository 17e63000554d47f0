package mapgen

import (
	"math"
	"sort"
)

// Hydrology tuning constants. Source/spring thresholds are the
// default-abundance anchors; abundanceInterp shifts them toward the dry
// or wet anchor as water abundance moves across [0, 2].
const (
	sourceFlowDry = 26.0 // flow accumulation needed for a river source, arid
	sourceFlowDef = 14.0
	sourceFlowWet = 7.0

	springMoistDry = 0.97 // moisture needed for a spring, arid
	springMoistDef = 0.88
	springMoistWet = 0.80

	rapidsSlope      = 0.35 // slope above this classifies RAPIDS
	meanderCurvature = 0.9  // heading change (radians) above this classifies MEANDER
	curveCurvature   = 0.35 // heading change above this classifies CURVE
	deltaWidth       = 2.5  // mouth width above this on flat ground forms a delta
	deltaSlope       = 0.08 // ground flatter than this at the mouth permits a delta

	riverWidthBase   = 0.8  // tiles at the source
	riverWidthGrowth = 0.04 // width gain per tile travelled
	riverDepthBase   = 0.4  // metres at the source
	riverDepthGrowth = 0.02

	maxRiverSources = 12
	maxTraceSteps   = 4096

	lakeMinTiles = 4
	lakeMaxTiles = 160
)

// hydrologyStage computes flow accumulation over the elevation field,
// fills depression lakes, threads rivers from high-accumulation sources,
// and places springs, pools, and wetlands.
type hydrologyStage struct {
	cfg HydrologyConfig
}

func (s *hydrologyStage) name() string { return "hydrology" }

func (s *hydrologyStage) run(g *Grid, seed Seed, fs *featureSet) error {
	// Fixed neighbor priority for descent tie-breaks: a seed-derived
	// permutation of the 8-neighborhood, decided once per run. Ties must
	// never depend on map iteration order.
	order := neighborPriority(seed)

	flow := computeFlowAccumulation(g, order)
	for i := range g.Tiles {
		g.Tiles[i].Hydrology.FlowAccumulation = flow[i]
	}

	lakes := s.fillLakes(g, seed, fs, order)

	if s.cfg.GenerateRivers {
		if err := s.traceRivers(g, seed, fs, flow, order, lakes); err != nil {
			return err
		}
	}

	s.placeSprings(g, seed, fs)
	s.placeWetlands(g, seed, fs)
	return nil
}

// neighborOffsets is the 8-neighborhood in a fixed base order.
var neighborOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// neighborPriority returns the run's descent tie-break order.
func neighborPriority(seed Seed) [8][2]int {
	rng := seed.Derive("neighbor-priority").RNG()
	order := neighborOffsets
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// descentNeighbor finds the steepest lower neighbor of (col,row), with
// ties broken by the fixed priority order. Returns ok=false at a local
// minimum.
func descentNeighbor(g *Grid, col, row int, order [8][2]int) (int, int, bool) {
	here := g.Tiles[row*g.Cols+col].Topography.Elevation
	bestC, bestR := -1, -1
	bestDrop := 0.0
	for _, off := range order {
		c, r := col+off[0], row+off[1]
		if !g.InBounds(c, r) {
			continue
		}
		drop := here - g.Tiles[r*g.Cols+c].Topography.Elevation
		// Diagonal steps cover more ground per unit drop.
		if off[0] != 0 && off[1] != 0 {
			drop /= math.Sqrt2
		}
		if drop > bestDrop {
			bestDrop = drop
			bestC, bestR = c, r
		}
	}
	if bestC < 0 {
		return 0, 0, false
	}
	return bestC, bestR, true
}

// computeFlowAccumulation routes one unit of rain per tile down the
// steepest descent. Tiles are processed from highest to lowest so every
// upstream contribution is committed before its receiver is read;
// elevation ties fall back to tile index, which is deterministic.
func computeFlowAccumulation(g *Grid, order [8][2]int) []float64 {
	n := len(g.Tiles)
	flow := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
		flow[i] = 1
	}
	sort.Slice(idx, func(a, b int) bool {
		ea := g.Tiles[idx[a]].Topography.Elevation
		eb := g.Tiles[idx[b]].Topography.Elevation
		if ea != eb {
			return ea > eb
		}
		return idx[a] < idx[b]
	})
	for _, i := range idx {
		col, row := i%g.Cols, i/g.Cols
		c, r, ok := descentNeighbor(g, col, row, order)
		if !ok {
			continue
		}
		flow[r*g.Cols+c] += flow[i]
	}
	return flow
}

// fillLakes floods closed depressions: local minima whose basin holds at
// least lakeMinTiles below the spill level. Returns the set of flooded
// tile indices.
func (s *hydrologyStage) fillLakes(g *Grid, seed Seed, fs *featureSet, order [8][2]int) map[int]FeatureID {
	flooded := make(map[int]FeatureID)
	lakeChance := abundanceInterp(s.cfg.WaterAbundance, 0.2, 0.6, 0.95)
	rng := seed.Derive("lakes").RNG()
	ordinal := 0

	// Scan in row-major order for determinism.
	for row := 1; row < g.Rows-1; row++ {
		for col := 1; col < g.Cols-1; col++ {
			i := row*g.Cols + col
			if _, taken := flooded[i]; taken {
				continue
			}
			if _, _, ok := descentNeighbor(g, col, row, order); ok {
				continue // not a local minimum
			}
			basin, spill := floodBasin(g, col, row)
			if len(basin) < lakeMinTiles || len(basin) > lakeMaxTiles {
				continue
			}
			if rng.Float64() > lakeChance {
				continue
			}

			id := newFeatureID(seed, FeatureLake, ordinal)
			lake := &Lake{Formation: lakeFormation(g, basin)}
			area := tileSetBounds(g, basin)

			var depthSum, depthMax float64
			for _, ti := range basin {
				flooded[ti] = id
				t := &g.Tiles[ti]
				depth := clampFloat((spill-t.Topography.Elevation)*12, 0.3, 8)
				depthSum += depth
				if depth > depthMax {
					depthMax = depth
				}
				t.Hydrology.IsWater = true
				t.Hydrology.WaterDepth = depth
				c, r := ti%g.Cols, ti/g.Cols
				if depth > 1.2 {
					g.SetTerrain(c, r, TerrainWaterDeep)
				} else {
					g.SetTerrain(c, r, TerrainWaterShallow)
				}
				lake.Tiles = append(lake.Tiles, [2]int{c, r})
			}
			lake.AvgDepth = depthSum / float64(len(basin))
			lake.MaxDepth = depthMax
			if out, ok := basinSpillTile(g, basin, flooded); ok {
				lake.Outlets = append(lake.Outlets,
					Position{X: float64(out % g.Cols), Y: float64(out / g.Cols)})
			}
			buildShoreline(lake, area, seed.DeriveIndex("lake-shore", ordinal), 8+len(basin)/4)

			// Shallow humps inside large lakes surface as islands.
			if len(basin) > 24 && lake.MaxDepth > 2 {
				lake.Islands = append(lake.Islands, area.Center())
			}

			f := newMapFeature(id, FeatureLake, area)
			f.Lake = lake
			fs.add(f)
			ordinal++
		}
	}
	return flooded
}

// basinSpillTile returns the lowest dry rim tile around a flooded
// basin, the point water would leave from. Ties break on tile index.
func basinSpillTile(g *Grid, basin []int, flooded map[int]FeatureID) (int, bool) {
	best, bestElev := -1, math.Inf(1)
	for _, bi := range basin {
		c, r := bi%g.Cols, bi/g.Cols
		for _, off := range neighborOffsets[:4] {
			nc, nr := c+off[0], r+off[1]
			if !g.InBounds(nc, nr) {
				continue
			}
			ni := nr*g.Cols + nc
			if _, wet := flooded[ni]; wet {
				continue
			}
			e := g.Tiles[ni].Topography.Elevation
			if e < bestElev || (e == bestElev && ni < best) {
				best, bestElev = ni, e
			}
		}
	}
	return best, best >= 0
}

// floodBasin grows a depression from its minimum up to a spill level a
// fixed margin above the basin floor. Deterministic BFS in row-major
// frontier order.
func floodBasin(g *Grid, col, row int) ([]int, float64) {
	start := row*g.Cols + col
	base := g.Tiles[start].Topography.Elevation

	spill := base + 0.03

	var basin []int
	visited := map[int]bool{start: true}
	frontier := []int{start}
	for len(frontier) > 0 && len(basin) <= lakeMaxTiles {
		sort.Ints(frontier)
		next := frontier
		frontier = nil
		for _, i := range next {
			if g.Tiles[i].Topography.Elevation > spill {
				continue
			}
			basin = append(basin, i)
			c, r := i%g.Cols, i/g.Cols
			for _, off := range neighborOffsets[:4] {
				nc, nr := c+off[0], r+off[1]
				if !g.InBounds(nc, nr) {
					continue
				}
				ni := nr*g.Cols + nc
				if !visited[ni] {
					visited[ni] = true
					frontier = append(frontier, ni)
				}
			}
		}
	}
	sort.Ints(basin)
	return basin, spill
}

// lakeFormation infers the formation type from the surrounding geology.
func lakeFormation(g *Grid, basin []int) LakeFormation {
	basalt, granite := 0, 0
	for _, i := range basin {
		switch g.Tiles[i].Geology.Bedrock {
		case BedrockBasalt:
			basalt++
		case BedrockGranite:
			granite++
		}
	}
	switch {
	case basalt*2 > len(basin):
		return FormationVolcanic
	case granite*2 > len(basin):
		return FormationGlacial
	default:
		return FormationDepression
	}
}

// tileSetBounds returns the bounding rectangle of a non-empty row-major
// tile index set.
func tileSetBounds(g *Grid, tiles []int) SpatialBounds {
	cols := g.Cols
	minC, minR := tiles[0]%cols, tiles[0]/cols
	maxC, maxR := minC, minR
	for _, i := range tiles {
		c, r := i%cols, i/cols
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	return SpatialBounds{X: minC, Y: minR, Width: maxC - minC + 1, Height: maxR - minR + 1}
}

// traceRivers seeds sources at flow-accumulation maxima and threads each
// river downhill to a map edge, a lake, or another river.
func (s *hydrologyStage) traceRivers(g *Grid, seed Seed, fs *featureSet, flow []float64, order [8][2]int, lakes map[int]FeatureID) error {
	threshold := abundanceInterp(s.cfg.WaterAbundance, sourceFlowDry, sourceFlowDef, sourceFlowWet)

	// Candidate sources: local flow maxima above the threshold, highest
	// accumulation first, ties by index.
	type cand struct {
		idx  int
		flow float64
	}
	var cands []cand
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			if flow[i] < threshold || g.Tiles[i].Hydrology.IsWater {
				continue
			}
			if g.Tiles[i].Topography.Elevation < 0.4 {
				continue // sources rise in high ground
			}
			isMax := true
			for _, off := range neighborOffsets {
				c, r := col+off[0], row+off[1]
				if g.InBounds(c, r) && flow[r*g.Cols+c] > flow[i] &&
					g.Tiles[r*g.Cols+c].Topography.Elevation >= g.Tiles[i].Topography.Elevation {
					isMax = false
					break
				}
			}
			if isMax {
				cands = append(cands, cand{idx: i, flow: flow[i]})
			}
		}
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].flow != cands[b].flow {
			return cands[a].flow > cands[b].flow
		}
		return cands[a].idx < cands[b].idx
	})
	if len(cands) > maxRiverSources {
		cands = cands[:maxRiverSources]
	}

	claimed := make(map[int]FeatureID) // tile -> owning river
	ordinal := 0
	for _, c := range cands {
		if _, taken := claimed[c.idx]; taken {
			continue
		}
		f, err := s.traceOne(g, seed, ordinal, c.idx, order, claimed, lakes, fs)
		if err != nil {
			return err
		}
		if f != nil {
			fs.add(f)
			ordinal++
		}
	}
	return nil
}

// classifySegment types a river point from the local slope and the
// heading change since the previous point. Step 0 is always the source;
// steep ground outranks curvature.
func classifySegment(step int, slope, prevHeading, heading float64) RiverSegmentType {
	switch {
	case step == 0:
		return SegmentSource
	case slope > rapidsSlope:
		return SegmentRapids
	case !math.IsNaN(prevHeading) && !math.IsNaN(heading):
		turn := math.Abs(angleDiff(heading, prevHeading))
		if turn > meanderCurvature {
			return SegmentMeander
		}
		if turn > curveCurvature {
			return SegmentCurve
		}
	}
	return SegmentStraight
}

// mouthSegment types a map-edge termination: a wide channel on flat
// ground fans into a delta, everything else is a plain mouth.
func mouthSegment(slope, width float64) RiverSegmentType {
	if slope < deltaSlope && width > deltaWidth {
		return SegmentDelta
	}
	return SegmentMouth
}

// traceOne follows the descent from a source, building one river feature.
// Returns nil if the path was too short to keep.
func (s *hydrologyStage) traceOne(g *Grid, seed Seed, ordinal, start int, order [8][2]int, claimed, lakes map[int]FeatureID, fs *featureSet) (*MapFeature, error) {
	id := newFeatureID(seed, FeatureRiver, ordinal)
	river := &River{SourceElev: g.Tiles[start].Topography.Elevation}

	col, row := start%g.Cols, start/g.Cols
	dist := 0.0
	prevHeading := math.NaN()
	var path []int
	var joinParent FeatureID

	for step := 0; step < maxTraceSteps; step++ {
		i := row*g.Cols + col
		width := riverWidthBase + dist*riverWidthGrowth
		depth := riverDepthBase + dist*riverDepthGrowth

		nc, nr, ok := descentNeighbor(g, col, row, order)
		heading := prevHeading
		if ok {
			heading = math.Atan2(float64(nr-row), float64(nc-col))
		}

		seg := classifySegment(step, g.Tiles[i].Topography.Slope, prevHeading, heading)

		river.Points = append(river.Points, RiverPoint{
			Position: Position{X: float64(col) + 0.5, Y: float64(row) + 0.5},
			Width:    width,
			Depth:    depth,
			FlowDir:  heading,
			Segment:  seg,
		})
		path = append(path, i)

		// Termination: lake absorption.
		if lakeID, inLake := lakes[i]; inLake {
			registerInlet(fs, lakeID, river.Points[len(river.Points)-1].Position)
			break
		}
		// Termination: joined an existing river.
		if owner, taken := claimed[i]; taken && owner != id {
			joinParent = owner
			break
		}
		// Termination: map edge.
		if !ok {
			if onEdge(g, col, row) {
				river.Points[len(river.Points)-1].Segment =
					mouthSegment(g.Tiles[i].Topography.Slope, width)
			}
			break
		}

		prevHeading = heading
		dist += math.Hypot(float64(nc-col), float64(nr-row))
		col, row = nc, nr
	}

	if len(river.Points) < 4 {
		return nil, nil
	}

	f := newMapFeature(id, FeatureRiver, riverBounds(river.Points))
	f.River = river

	// Stamp water onto the path and claim the tiles.
	for pi, i := range path {
		claimed[i] = id
		t := &g.Tiles[i]
		p := river.Points[pi]
		t.Hydrology.IsWater = true
		if p.Depth > t.Hydrology.WaterDepth {
			t.Hydrology.WaterDepth = p.Depth
		}
		c, r := i%g.Cols, i/g.Cols
		if p.Depth > 1.2 {
			g.SetTerrain(c, r, TerrainWaterDeep)
		} else {
			g.SetTerrain(c, r, TerrainWaterShallow)
		}
	}

	if joinParent != "" {
		parent := findFeature(fs, joinParent)
		if parent == nil {
			return nil, &GenError{
				Code:      CodeStageDependencyMissing,
				Kind:      KindDeterministic,
				Component: "hydrology",
				Op:        "traceOne",
				Message:   "river joined a path whose feature was never registered",
				Context:   map[string]any{"parent": string(joinParent)},
			}
		}
		if err := attachTributary(parent, f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// registerInlet records a river entering a lake. A fed depression lake
// is reclassified as riverine.
func registerInlet(fs *featureSet, lakeID FeatureID, pos Position) {
	if f := findFeature(fs, lakeID); f != nil && f.Lake != nil {
		f.Lake.Inlets = append(f.Lake.Inlets, pos)
		if f.Lake.Formation == FormationDepression {
			f.Lake.Formation = FormationRiverine
		}
	}
}

func findFeature(fs *featureSet, id FeatureID) *MapFeature {
	for _, f := range fs.list {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func onEdge(g *Grid, col, row int) bool {
	return col == 0 || row == 0 || col == g.Cols-1 || row == g.Rows-1
}

// angleDiff returns the signed smallest difference between two angles.
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

// placeSprings samples moisture/slope thresholds that shift with water
// abundance: wetter settings lower the bar and yield more springs.
func (s *hydrologyStage) placeSprings(g *Grid, seed Seed, fs *featureSet) {
	threshold := abundanceInterp(s.cfg.WaterAbundance, springMoistDry, springMoistDef, springMoistWet)
	ordinal := 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			if t.Hydrology.IsWater {
				continue
			}
			if t.Geology.Moisture < threshold || t.Topography.Slope > 0.3 {
				continue
			}
			if t.Geology.Permeability < 0.4 {
				continue // water cannot reach the surface
			}
			rng := seed.DeriveIndex("spring", row*g.Cols+col).RNG()
			isPool := t.Topography.Slope < 0.05 && rng.Float64() < 0.5
			pos := Position{X: float64(col) + 0.5, Y: float64(row) + 0.5}
			f := newMapFeature(newFeatureID(seed, FeatureSpring, ordinal), FeatureSpring,
				SpatialBounds{X: col, Y: row, Width: 1, Height: 1})
			f.Spring = &Spring{Position: pos, FlowRate: 5 + rng.Float64()*20, IsPool: isPool}
			fs.add(f)
			if isPool {
				t.Hydrology.IsWater = true
				t.Hydrology.WaterDepth = 0.3
				g.SetTerrain(col, row, TerrainWaterShallow)
			}
			ordinal++
		}
	}
}

// placeWetlands grows marsh patches where wet flat ground borders water.
func (s *hydrologyStage) placeWetlands(g *Grid, seed Seed, fs *featureSet) {
	moistFloor := abundanceInterp(s.cfg.WaterAbundance, 0.92, 0.82, 0.72)
	visited := make([]bool, len(g.Tiles))
	ordinal := 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			if visited[i] || !wetlandEligible(g, col, row, moistFloor) {
				continue
			}
			// Grow the patch with a deterministic BFS.
			var patch []int
			frontier := []int{i}
			visited[i] = true
			for len(frontier) > 0 {
				sort.Ints(frontier)
				next := frontier
				frontier = nil
				for _, fi := range next {
					patch = append(patch, fi)
					fc, fr := fi%g.Cols, fi/g.Cols
					for _, off := range neighborOffsets[:4] {
						nc, nr := fc+off[0], fr+off[1]
						if !g.InBounds(nc, nr) {
							continue
						}
						ni := nr*g.Cols + nc
						if !visited[ni] && wetlandEligible(g, nc, nr, moistFloor) {
							visited[ni] = true
							frontier = append(frontier, ni)
						}
					}
				}
			}
			if len(patch) < 3 {
				continue
			}
			sort.Ints(patch)
			w := &Wetland{}
			var moistSum float64
			for _, pi := range patch {
				c, r := pi%g.Cols, pi/g.Cols
				g.SetTerrain(c, r, TerrainMarsh)
				moistSum += g.Tiles[pi].Geology.Moisture
				w.Tiles = append(w.Tiles, [2]int{c, r})
			}
			w.Moisture = moistSum / float64(len(patch))
			f := newMapFeature(newFeatureID(seed, FeatureWetland, ordinal), FeatureWetland, tileSetBounds(g, patch))
			f.Wetland = w
			fs.add(f)
			ordinal++
		}
	}
}

// wetlandEligible: wet, flat, dry-land tile adjacent to water.
func wetlandEligible(g *Grid, col, row int, moistFloor float64) bool {
	t := g.At(col, row)
	if t == nil || t.Hydrology.IsWater {
		return false
	}
	if t.Geology.Moisture < moistFloor || t.Topography.Slope > 0.12 {
		return false
	}
	for _, off := range neighborOffsets {
		c, r := col+off[0], row+off[1]
		if g.InBounds(c, r) && g.Tiles[r*g.Cols+c].Hydrology.IsWater {
			return true
		}
	}
	return false
}
