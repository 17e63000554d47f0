package mapgen

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Map dimension limits (tiles per edge).
const (
	MinMapEdge = 10
	MaxMapEdge = 200
)

// Biome selects the climate profile biasing terrain and vegetation.
type Biome int

const (
	BiomeTemperateForest Biome = iota
	BiomeGrassland
	BiomeAlpine
	BiomeWetland
	BiomeArid
	biomeCount // sentinel
)

var biomeNames = [...]string{
	BiomeTemperateForest: "temperate-forest",
	BiomeGrassland:       "grassland",
	BiomeAlpine:          "alpine",
	BiomeWetland:         "wetland",
	BiomeArid:            "arid",
}

func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return "unknown"
	}
	return biomeNames[b]
}

// ParseBiome resolves a biome name, suggesting the closest known name on
// a miss.
func ParseBiome(name string) (Biome, error) {
	best := ""
	bestDist := 0
	for i, n := range biomeNames {
		if n == name {
			return Biome(i), nil
		}
		d := levenshtein.ComputeDistance(name, n)
		if best == "" || d < bestDist {
			best, bestDist = n, d
		}
	}
	msg := fmt.Sprintf("unknown biome %q", name)
	if bestDist <= len(best)/2 {
		msg += fmt.Sprintf(" (did you mean %q?)", best)
	}
	return 0, &GenError{
		Code:      CodeBiomeUnknown,
		Kind:      KindValidation,
		Component: "config",
		Op:        "ParseBiome",
		Message:   msg,
		Context:   map[string]any{"biome": name, "suggestion": best},
	}
}

// GeologyConfig tunes the geology layer.
type GeologyConfig struct {
	BedrockScale  float64 // noise frequency for bedrock regions
	MoistureScale float64 // noise frequency for the moisture field
	SoilVariance  float64 // [0,1] spread of soil depth around the bedrock base
}

// DefaultGeologyConfig returns the stock geology tuning.
func DefaultGeologyConfig() GeologyConfig {
	return GeologyConfig{BedrockScale: 0.035, MoistureScale: 0.05, SoilVariance: 0.5}
}

// Validate checks all geology parameters against their documented ranges.
func (c GeologyConfig) Validate() error {
	if c.BedrockScale <= 0 || c.BedrockScale > 1 {
		return paramError("geology", "Validate", "bedrock scale", c.BedrockScale, 0.001, 1)
	}
	if c.MoistureScale <= 0 || c.MoistureScale > 1 {
		return paramError("geology", "Validate", "moisture scale", c.MoistureScale, 0.001, 1)
	}
	if c.SoilVariance < 0 || c.SoilVariance > 1 {
		return paramError("geology", "Validate", "soil variance", c.SoilVariance, 0, 1)
	}
	return nil
}

// TopographyConfig tunes the topography layer.
type TopographyConfig struct {
	Ruggedness        float64 // [0.5, 2.0]; drives fBm octaves/persistence
	ElevationVariance float64 // [0, 1]; spread of elevation around the midpoint
	ElevationScale    float64 // noise frequency for the elevation field
}

// DefaultTopographyConfig returns the stock topography tuning.
func DefaultTopographyConfig() TopographyConfig {
	return TopographyConfig{Ruggedness: 1.0, ElevationVariance: 0.5, ElevationScale: 0.03}
}

// Validate checks all topography parameters against their documented ranges.
func (c TopographyConfig) Validate() error {
	if c.Ruggedness < RuggednessMin || c.Ruggedness > RuggednessMax {
		return paramError("topography", "Validate", "ruggedness", c.Ruggedness, RuggednessMin, RuggednessMax)
	}
	if c.ElevationVariance < 0 || c.ElevationVariance > 1 {
		return paramError("topography", "Validate", "elevation variance", c.ElevationVariance, 0, 1)
	}
	if c.ElevationScale <= 0 || c.ElevationScale > 1 {
		return paramError("topography", "Validate", "elevation scale", c.ElevationScale, 0.001, 1)
	}
	return nil
}

// HydrologyConfig tunes the hydrology layer.
type HydrologyConfig struct {
	WaterAbundance float64 // [0, 2]; 0 = arid, 1 = default, 2 = wet
	GenerateRivers bool
}

// DefaultHydrologyConfig returns the stock hydrology tuning.
func DefaultHydrologyConfig() HydrologyConfig {
	return HydrologyConfig{WaterAbundance: 1.0, GenerateRivers: true}
}

// Validate checks all hydrology parameters against their documented ranges.
func (c HydrologyConfig) Validate() error {
	if c.WaterAbundance < 0 || c.WaterAbundance > 2 {
		return paramError("hydrology", "Validate", "water abundance", c.WaterAbundance, 0, 2)
	}
	return nil
}

// abundanceInterp interpolates between dry/default/wet anchor values as
// water abundance moves across [0, 2]. Piecewise-linear: abundance 0 ->
// dry, 1 -> def, 2 -> wet.
func abundanceInterp(abundance, dry, def, wet float64) float64 {
	a := clampFloat(abundance, 0, 2)
	if a <= 1 {
		return dry + a*(def-dry)
	}
	return def + (a-1)*(wet-def)
}

// VegetationConfig tunes the vegetation layer.
type VegetationConfig struct {
	Density         float64 // [0, 2]; 1 = default stocking
	Diversity       float64 // [0, 1]; species mix evenness
	GenerateForests bool
}

// DefaultVegetationConfig returns the stock vegetation tuning.
func DefaultVegetationConfig() VegetationConfig {
	return VegetationConfig{Density: 1.0, Diversity: 0.6, GenerateForests: true}
}

// Validate checks all vegetation parameters against their documented ranges.
func (c VegetationConfig) Validate() error {
	if c.Density < 0 || c.Density > 2 {
		return paramError("vegetation", "Validate", "density", c.Density, 0, 2)
	}
	if c.Diversity < 0 || c.Diversity > 1 {
		return paramError("vegetation", "Validate", "diversity", c.Diversity, 0, 1)
	}
	return nil
}

// StructureConfig tunes the artificial structure layer.
type StructureConfig struct {
	GenerateRoads     bool
	GenerateBuildings bool
	BuildingCount     int     // target committed buildings
	RoadCount         int     // main roads to attempt
	MaxSlope          float64 // [0,1] steepest buildable slope
}

// DefaultStructureConfig returns the stock structure tuning.
func DefaultStructureConfig() StructureConfig {
	return StructureConfig{
		GenerateRoads:     true,
		GenerateBuildings: true,
		BuildingCount:     8,
		RoadCount:         3,
		MaxSlope:          0.35,
	}
}

// Validate checks all structure parameters against their documented ranges.
func (c StructureConfig) Validate() error {
	if c.BuildingCount < 0 || c.BuildingCount > 200 {
		return paramError("structures", "Validate", "building count", float64(c.BuildingCount), 0, 200)
	}
	if c.RoadCount < 0 || c.RoadCount > 20 {
		return paramError("structures", "Validate", "road count", float64(c.RoadCount), 0, 20)
	}
	if c.MaxSlope <= 0 || c.MaxSlope > 1 {
		return paramError("structures", "Validate", "max slope", c.MaxSlope, 0.01, 1)
	}
	return nil
}

// TerrainWeights biases the base terrain distribution. Zero weights fall
// back to an even spread.
type TerrainWeights struct {
	Open   float64
	Rough  float64
	Forest float64
	// Water seeds wet ground ahead of the hydrology stage; actual water
	// tiles come only from rivers, lakes, springs, and pools.
	Water float64
}

// GenerationRequest is the full input consumed from the surrounding
// command/validation layer.
type GenerationRequest struct {
	Name     string
	Width    int
	Height   int
	CellSize float64 // metres per tile edge
	Seed     Seed
	Biome    Biome

	Weights    TerrainWeights
	Geology    GeologyConfig
	Topography TopographyConfig
	Hydrology  HydrologyConfig
	Vegetation VegetationConfig
	Structures StructureConfig
}

// DefaultRequest returns a fully populated request for the given seed
// and dimensions.
func DefaultRequest(name string, width, height int, seed Seed) GenerationRequest {
	return GenerationRequest{
		Name:       name,
		Width:      width,
		Height:     height,
		CellSize:   5,
		Seed:       seed,
		Biome:      BiomeTemperateForest,
		Geology:    DefaultGeologyConfig(),
		Topography: DefaultTopographyConfig(),
		Hydrology:  DefaultHydrologyConfig(),
		Vegetation: DefaultVegetationConfig(),
		Structures: DefaultStructureConfig(),
	}
}

// Validate checks the whole request. Dimensions must land in
// [MinMapEdge, MaxMapEdge] inclusive.
func (r GenerationRequest) Validate() error {
	if r.Width < MinMapEdge || r.Width > MaxMapEdge || r.Height < MinMapEdge || r.Height > MaxMapEdge {
		return &GenError{
			Code:      CodeMapInvalidDimensions,
			Kind:      KindValidation,
			Component: "config",
			Op:        "Validate",
			Message: fmt.Sprintf("map dimensions %dx%d outside valid range %d-%d",
				r.Width, r.Height, MinMapEdge, MaxMapEdge),
			Context: map[string]any{
				"width": r.Width, "height": r.Height,
				"min": MinMapEdge, "max": MaxMapEdge,
			},
		}
	}
	if r.Seed <= 0 || int64(r.Seed) > MaxSeed {
		return &GenError{
			Code:      CodeSeedOutOfRange,
			Kind:      KindValidation,
			Component: "config",
			Op:        "Validate",
			Message:   fmt.Sprintf("seed %d outside valid range (0, %d]", r.Seed, MaxSeed),
			Context:   map[string]any{"seed": int64(r.Seed)},
		}
	}
	if r.CellSize <= 0 || r.CellSize > 100 {
		return paramError("config", "Validate", "cell size", r.CellSize, 0.1, 100)
	}
	if r.Biome < 0 || r.Biome >= biomeCount {
		return &GenError{
			Code:      CodeBiomeUnknown,
			Kind:      KindValidation,
			Component: "config",
			Op:        "Validate",
			Message:   fmt.Sprintf("biome value %d not recognised", r.Biome),
		}
	}
	if err := r.Geology.Validate(); err != nil {
		return err
	}
	if err := r.Topography.Validate(); err != nil {
		return err
	}
	if err := r.Hydrology.Validate(); err != nil {
		return err
	}
	if err := r.Vegetation.Validate(); err != nil {
		return err
	}
	if err := r.Structures.Validate(); err != nil {
		return err
	}
	return nil
}
