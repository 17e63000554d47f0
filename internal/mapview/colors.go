package mapview

import (
	"image/color"

	"github.com/mapforge/battlemap/internal/mapgen"
)

// terrainColor is the base render colour for each terrain type.
func terrainColor(t mapgen.TerrainType) color.RGBA {
	switch t {
	case mapgen.TerrainWaterDeep:
		return color.RGBA{R: 24, G: 52, B: 110, A: 255}
	case mapgen.TerrainWaterShallow:
		return color.RGBA{R: 52, G: 90, B: 160, A: 255}
	case mapgen.TerrainMarsh:
		return color.RGBA{R: 56, G: 80, B: 58, A: 255}
	case mapgen.TerrainForest:
		return color.RGBA{R: 26, G: 70, B: 32, A: 255}
	case mapgen.TerrainGrassLong:
		return color.RGBA{R: 60, G: 100, B: 48, A: 255}
	case mapgen.TerrainScrub:
		return color.RGBA{R: 88, G: 104, B: 54, A: 255}
	case mapgen.TerrainRock:
		return color.RGBA{R: 110, G: 108, B: 104, A: 255}
	case mapgen.TerrainGravel:
		return color.RGBA{R: 128, G: 124, B: 116, A: 255}
	case mapgen.TerrainSand:
		return color.RGBA{R: 176, G: 164, B: 120, A: 255}
	case mapgen.TerrainMud:
		return color.RGBA{R: 96, G: 78, B: 56, A: 255}
	case mapgen.TerrainDirt:
		return color.RGBA{R: 120, G: 100, B: 72, A: 255}
	case mapgen.TerrainRoad:
		return color.RGBA{R: 90, G: 88, B: 84, A: 255}
	case mapgen.TerrainFloor:
		return color.RGBA{R: 150, G: 140, B: 128, A: 255}
	default:
		return color.RGBA{R: 72, G: 112, B: 56, A: 255}
	}
}
