package mapgen

// TerrainType identifies the resolved base surface of a tile.
type TerrainType uint8

const (
	TerrainGrass     TerrainType = iota // Default open ground
	TerrainGrassLong                    // Tall grass, minor concealment
	TerrainScrub                        // Low bushes / bramble
	TerrainForest                       // Under tree canopy
	TerrainMud                          // Wet / churned ground
	TerrainSand                         // Sandy / arid patches
	TerrainGravel                       // Loose stone scree
	TerrainRock                         // Exposed bedrock
	TerrainDirt                         // Packed earth
	TerrainRoad                         // Road surface
	TerrainFloor                        // Building interior floor
	TerrainWaterShallow                 // Fordable water
	TerrainWaterDeep                    // Impassable water
	TerrainMarsh                        // Wetland / bog
	terrainTypeCount                    // sentinel
)

var terrainTypeNames = [...]string{
	TerrainGrass:        "grass",
	TerrainGrassLong:    "grass-long",
	TerrainScrub:        "scrub",
	TerrainForest:       "forest",
	TerrainMud:          "mud",
	TerrainSand:         "sand",
	TerrainGravel:       "gravel",
	TerrainRock:         "rock",
	TerrainDirt:         "dirt",
	TerrainRoad:         "road",
	TerrainFloor:        "floor",
	TerrainWaterShallow: "water-shallow",
	TerrainWaterDeep:    "water-deep",
	TerrainMarsh:        "marsh",
}

func (t TerrainType) String() string {
	if int(t) >= len(terrainTypeNames) {
		return "unknown"
	}
	return terrainTypeNames[t]
}

// terrainMovementMul returns the movement speed multiplier for a terrain type.
func terrainMovementMul(t TerrainType) float64 {
	switch t {
	case TerrainGrass:
		return 1.0
	case TerrainGrassLong:
		return 0.9
	case TerrainScrub:
		return 0.8
	case TerrainForest:
		return 0.7
	case TerrainMud:
		return 0.6
	case TerrainSand:
		return 0.75
	case TerrainGravel:
		return 0.85
	case TerrainRock:
		return 0.8
	case TerrainDirt:
		return 0.95
	case TerrainRoad:
		return 1.0
	case TerrainFloor:
		return 1.0
	case TerrainWaterShallow:
		return 0.3
	case TerrainWaterDeep:
		return 0.0
	case TerrainMarsh:
		return 0.5
	default:
		return 1.0
	}
}

// terrainPassable returns true if the terrain can be crossed on foot.
func terrainPassable(t TerrainType) bool {
	return t != TerrainWaterDeep
}

// terrainConcealment returns the innate concealment level for a terrain type.
func terrainConcealment(t TerrainType) ConcealmentLevel {
	switch t {
	case TerrainGrassLong:
		return ConcealmentLight
	case TerrainScrub:
		return ConcealmentLight
	case TerrainForest:
		return ConcealmentModerate
	case TerrainMarsh:
		return ConcealmentLight
	default:
		return ConcealmentNone
	}
}

// CoverLevel grades the hard protection a tile offers.
type CoverLevel uint8

const (
	CoverNone CoverLevel = iota
	CoverLight
	CoverModerate
	CoverHeavy
)

func (c CoverLevel) String() string {
	switch c {
	case CoverLight:
		return "light"
	case CoverModerate:
		return "moderate"
	case CoverHeavy:
		return "heavy"
	default:
		return "none"
	}
}

// ConcealmentLevel grades how well a tile hides an occupant.
type ConcealmentLevel uint8

const (
	ConcealmentNone ConcealmentLevel = iota
	ConcealmentLight
	ConcealmentModerate
	ConcealmentHeavy
)

func (c ConcealmentLevel) String() string {
	switch c {
	case ConcealmentLight:
		return "light"
	case ConcealmentModerate:
		return "moderate"
	case ConcealmentHeavy:
		return "heavy"
	default:
		return "none"
	}
}

// BedrockType identifies the underlying rock of a tile.
type BedrockType uint8

const (
	BedrockGranite BedrockType = iota
	BedrockLimestone
	BedrockSandstone
	BedrockBasalt
	bedrockTypeCount // sentinel
)

func (b BedrockType) String() string {
	switch b {
	case BedrockGranite:
		return "granite"
	case BedrockLimestone:
		return "limestone"
	case BedrockSandstone:
		return "sandstone"
	case BedrockBasalt:
		return "basalt"
	default:
		return "unknown"
	}
}

// bedrockHardness scales how strongly the bedrock resists erosion; harder
// rock holds steeper relief.
func bedrockHardness(b BedrockType) float64 {
	switch b {
	case BedrockGranite:
		return 1.0
	case BedrockBasalt:
		return 0.9
	case BedrockLimestone:
		return 0.6
	case BedrockSandstone:
		return 0.45
	default:
		return 0.7
	}
}

// GeologySummary is the per-tile output of the geology stage.
type GeologySummary struct {
	Bedrock      BedrockType
	SoilDepth    float64 // metres of soil over bedrock
	Permeability float64 // [0,1] infiltration rate
	Moisture     float64 // [0,1] ground moisture
}

// TopographySummary is the per-tile output of the topography stage.
type TopographySummary struct {
	Elevation float64 // [0,1] normalised elevation
	Slope     float64 // [0,1] local gradient magnitude
	Aspect    float64 // radians, downhill direction
}

// HydrologySummary is the per-tile output of the hydrology stage.
type HydrologySummary struct {
	FlowAccumulation float64 // upstream contributing tiles
	WaterDepth       float64 // metres of standing/flowing water
	IsWater          bool
}

// VegetationSummary is the per-tile output of the vegetation stage.
type VegetationSummary struct {
	CanopyCover float64 // [0,1] fraction shaded by canopy
	Understory  float64 // [0,1] understory density
	Light       float64 // [0,1] light reaching the ground
}

// Tile represents one cell of the battle map. Tiles are mutated only by
// the layer generators and the mixing engine, in pipeline order.
type Tile struct {
	Terrain   TerrainType
	Passable  bool
	HeightMul float64 // height multiplier applied to the base cell height

	Geology    GeologySummary
	Topography TopographySummary
	Hydrology  HydrologySummary
	Vegetation VegetationSummary

	PrimaryFeature FeatureID
	MixedFeatures  []FeatureID

	MovementCost float64 // resolved multiplier, 0 = impassable
	Cover        CoverLevel
	Concealment  ConcealmentLevel
}

// Grid is the authoritative per-cell terrain representation, owned by
// the Map aggregate.
type Grid struct {
	Cols  int
	Rows  int
	Tiles []Tile // row-major: index = row*Cols + col
}

// NewGrid creates a grid with default grass tiles.
func NewGrid(cols, rows int) *Grid {
	tiles := make([]Tile, cols*rows)
	for i := range tiles {
		tiles[i].Terrain = TerrainGrass
		tiles[i].Passable = true
		tiles[i].HeightMul = 1.0
		tiles[i].MovementCost = 1.0
	}
	return &Grid{Cols: cols, Rows: rows, Tiles: tiles}
}

// InBounds returns true if (col, row) is within the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// At returns a pointer to the tile at (col, row), or nil if out of bounds.
func (g *Grid) At(col, row int) *Tile {
	if !g.InBounds(col, row) {
		return nil
	}
	return &g.Tiles[row*g.Cols+col]
}

// Terrain returns the terrain type at (col, row).
func (g *Grid) Terrain(col, row int) TerrainType {
	if !g.InBounds(col, row) {
		return TerrainGrass
	}
	return g.Tiles[row*g.Cols+col].Terrain
}

// SetTerrain sets the terrain type for a tile, refreshing passability.
func (g *Grid) SetTerrain(col, row int, t TerrainType) {
	if !g.InBounds(col, row) {
		return
	}
	tile := &g.Tiles[row*g.Cols+col]
	tile.Terrain = t
	tile.Passable = terrainPassable(t)
}

// Clone returns a deep copy of the grid. Stages work on a clone and merge
// it back only on success, so a failed stage never leaves partial writes.
func (g *Grid) Clone() *Grid {
	tiles := make([]Tile, len(g.Tiles))
	copy(tiles, g.Tiles)
	for i := range tiles {
		if len(g.Tiles[i].MixedFeatures) > 0 {
			tiles[i].MixedFeatures = append([]FeatureID(nil), g.Tiles[i].MixedFeatures...)
		}
	}
	return &Grid{Cols: g.Cols, Rows: g.Rows, Tiles: tiles}
}
