package mapgen

import (
	"github.com/aquilax/go-perlin"
)

// Geology point-feature thresholds. Applied to a detail noise field per
// bedrock type: caves carve into limestone, sinkholes open where wet
// limestone collapses, outcrops break through thin soil on hard rock.
const (
	caveThreshold     = 0.90
	sinkholeThreshold = 0.87
	outcropThreshold  = 0.84
	thinSoilDepth     = 0.6 // metres; below this, hard bedrock can outcrop
)

// geologyStage assigns bedrock, soil depth, permeability, moisture, and
// point geological features.
type geologyStage struct {
	cfg   GeologyConfig
	biome Biome
}

func (s *geologyStage) name() string { return "geology" }

func (s *geologyStage) run(g *Grid, seed Seed, fs *featureSet) error {
	// Two perlin fields: one selecting bedrock regions, one for ground
	// moisture. alpha=2, beta=2, n=3 gives terrain-like noise.
	bedrockNoise := perlin.NewPerlin(2, 2, 3, int64(seed.Derive("bedrock")))
	moistNoise := perlin.NewPerlin(2, 2, 3, int64(seed.Derive("moisture")))
	detailSeed := int64(seed.Derive("geo-detail"))

	moistBias := biomeMoistureBias(s.biome)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)

			bx := float64(col) * s.cfg.BedrockScale
			by := float64(row) * s.cfg.BedrockScale
			bv := (bedrockNoise.Noise2D(bx, by) + 1) / 2 // [0,1]

			var bedrock BedrockType
			switch {
			case bv < 0.3:
				bedrock = BedrockSandstone
			case bv < 0.55:
				bedrock = BedrockLimestone
			case bv < 0.85:
				bedrock = BedrockGranite
			default:
				bedrock = BedrockBasalt
			}

			mx := float64(col) * s.cfg.MoistureScale
			my := float64(row) * s.cfg.MoistureScale
			moisture := clampFloat((moistNoise.Noise2D(mx, my)+1)/2+moistBias, 0, 1)

			// Soft rock weathers into deeper soil.
			baseSoil := 1.6 - bedrockHardness(bedrock)
			soilJitter := (valueNoise2D(float64(col)*0.11, float64(row)*0.11, detailSeed) - 0.5) * s.cfg.SoilVariance
			soil := clampFloat(baseSoil+soilJitter, 0.05, 2.5)

			perm := bedrockPermeability(bedrock) + (moisture-0.5)*0.1
			t.Geology = GeologySummary{
				Bedrock:      bedrock,
				SoilDepth:    soil,
				Permeability: clampFloat(perm, 0, 1),
				Moisture:     moisture,
			}
		}
	}

	s.placePointFeatures(g, seed, fs, detailSeed)
	return nil
}

// placePointFeatures samples a detail field for caves, sinkholes, and
// rock outcrops. Ordinals count per type in scan order, so ids are
// stable for a seed.
func (s *geologyStage) placePointFeatures(g *Grid, seed Seed, fs *featureSet, detailSeed int64) {
	caves, sinks, outcrops := 0, 0, 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			detail := valueNoise2D(float64(col)*0.31, float64(row)*0.31, detailSeed+7)
			pos := Position{X: float64(col) + 0.5, Y: float64(row) + 0.5}
			area := SpatialBounds{X: col, Y: row, Width: 1, Height: 1}

			switch t.Geology.Bedrock {
			case BedrockLimestone:
				if t.Geology.Moisture > 0.7 && detail > sinkholeThreshold {
					f := newMapFeature(newFeatureID(seed, FeatureSinkhole, sinks), FeatureSinkhole, area)
					f.Relief = &ReliefPoint{Position: pos, Size: 1}
					fs.add(f)
					sinks++
				} else if detail > caveThreshold {
					f := newMapFeature(newFeatureID(seed, FeatureCave, caves), FeatureCave, area)
					f.Relief = &ReliefPoint{Position: pos, Size: 1}
					fs.add(f)
					caves++
				}
			case BedrockGranite, BedrockBasalt:
				if t.Geology.SoilDepth < thinSoilDepth && detail > outcropThreshold {
					f := newMapFeature(newFeatureID(seed, FeatureRockOutcrop, outcrops), FeatureRockOutcrop, area)
					f.Relief = &ReliefPoint{Position: pos, Size: 1.5}
					fs.add(f)
					outcrops++
				}
			}
		}
	}
}

// bedrockPermeability returns the base infiltration rate for a bedrock type.
func bedrockPermeability(b BedrockType) float64 {
	switch b {
	case BedrockSandstone:
		return 0.8
	case BedrockLimestone:
		return 0.65
	case BedrockGranite:
		return 0.2
	case BedrockBasalt:
		return 0.3
	default:
		return 0.5
	}
}

// biomeMoistureBias shifts the moisture field per climate profile.
func biomeMoistureBias(b Biome) float64 {
	switch b {
	case BiomeWetland:
		return 0.25
	case BiomeTemperateForest:
		return 0.1
	case BiomeAlpine:
		return 0.05
	case BiomeArid:
		return -0.3
	default:
		return 0.0
	}
}
