package mapgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// topographyStage derives elevation, slope, and aspect per tile from
// layered simplex noise modulated by the geology layer. Runs after
// geology: harder bedrock holds steeper relief.
type topographyStage struct {
	cfg TopographyConfig
}

func (s *topographyStage) name() string { return "topography" }

func (s *topographyStage) run(g *Grid, seed Seed, fs *featureSet) error {
	noise := opensimplex.NewNormalized(int64(seed.Derive("elevation")))
	octaves := ruggednessOctaves(s.cfg.Ruggedness)
	persistence := ruggednessPersistence(s.cfg.Ruggedness)

	// First pass: raw elevation.
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			x := float64(col) * s.cfg.ElevationScale
			y := float64(row) * s.cfg.ElevationScale
			raw := fbm2D(noise, x, y, octaves, persistence)

			// Hard bedrock amplifies relief around the midpoint, soft
			// bedrock flattens it.
			hardness := bedrockHardness(t.Geology.Bedrock)
			amp := s.cfg.ElevationVariance * (0.5 + hardness*0.5)
			elev := clampFloat(0.5+(raw-0.5)*2*amp, 0, 1)
			t.Topography.Elevation = elev
		}
	}

	// Second pass: slope and aspect by central differences over the
	// committed elevations.
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			dzdx := (s.elevAt(g, col+1, row) - s.elevAt(g, col-1, row)) / 2
			dzdy := (s.elevAt(g, col, row+1) - s.elevAt(g, col, row-1)) / 2
			slope := clampFloat(math.Sqrt(dzdx*dzdx+dzdy*dzdy)*float64(g.Cols)/10, 0, 1)
			t.Topography.Slope = slope
			t.Topography.Aspect = math.Atan2(-dzdy, -dzdx)

			t.HeightMul = 0.5 + t.Topography.Elevation

			// Steep thin-soil ground reads as rock or scree.
			if slope > 0.6 && t.Geology.SoilDepth < thinSoilDepth {
				g.SetTerrain(col, row, TerrainRock)
			} else if slope > 0.45 {
				g.SetTerrain(col, row, TerrainGravel)
			}
		}
	}
	return nil
}

// elevAt reads elevation with edge clamping.
func (s *topographyStage) elevAt(g *Grid, col, row int) float64 {
	if col < 0 {
		col = 0
	}
	if col >= g.Cols {
		col = g.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	return g.Tiles[row*g.Cols+col].Topography.Elevation
}
