package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/mapforge/battlemap/internal/mapgen"
)

func main() {
	var seedArg string
	var runs int
	var width, height int
	var biomeArg string
	var pngPath string

	flag.StringVar(&seedArg, "seed", "epic-mountain-valley", "seed (number or string)")
	flag.IntVar(&runs, "runs", 1, "number of generation runs")
	flag.IntVar(&width, "width", 50, "map width in tiles")
	flag.IntVar(&height, "height", 40, "map height in tiles")
	flag.StringVar(&biomeArg, "biome", "temperate-forest", "biome name")
	flag.StringVar(&pngPath, "png", "", "write a PNG render of the last run to this path")
	flag.Parse()

	seed, err := parseSeed(seedArg)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	biome, err := mapgen.ParseBiome(biomeArg)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}

	fmt.Printf("=== Battle Map Generation Report ===\n")
	fmt.Printf("seed=%q width=%d height=%d biome=%s runs=%d\n\n", seedArg, width, height, biome, runs)

	req := mapgen.DefaultRequest("report", width, height, seed)
	req.Biome = biome

	var last *mapgen.Map
	var firstPrint uint64
	for i := 0; i < runs; i++ {
		m, err := mapgen.Generate(req)
		if err != nil {
			fmt.Printf("run %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
		fp := m.Fingerprint()
		if i == 0 {
			firstPrint = fp
		} else if fp != firstPrint {
			err := &mapgen.GenError{
				Code: mapgen.CodeDeterminismBroken, Kind: mapgen.KindDeterministic,
				Component: "report", Op: "verify",
				Message: fmt.Sprintf("run %d fingerprint %016x != %016x", i+1, fp, firstPrint),
			}
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		printRun(i+1, m, fp)
		last = m
	}
	if runs > 1 {
		fmt.Printf("determinism: all %d runs produced fingerprint %016x\n", runs, firstPrint)
	}

	if pngPath != "" && last != nil {
		if err := renderPNG(last, pngPath); err != nil {
			fmt.Printf("png export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
}

func parseSeed(arg string) (mapgen.Seed, error) {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return mapgen.SeedFromNumber(n)
	}
	return mapgen.SeedFromString(arg)
}

func printRun(run int, m *mapgen.Map, fp uint64) {
	fmt.Printf("--- run %d (fingerprint %016x) ---\n", run, fp)

	counts := map[mapgen.FeatureType]int{}
	for _, f := range m.Features() {
		counts[f.Type]++
	}
	types := make([]mapgen.FeatureType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	fmt.Printf("features (%d total):\n", m.FeatureCount())
	for _, t := range types {
		fmt.Printf("  %-14s %d\n", t, counts[t])
	}

	g := m.Grid()
	water, forest, road, impassable := 0, 0, 0, 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			if t.Hydrology.IsWater {
				water++
			}
			if t.Terrain == mapgen.TerrainForest {
				forest++
			}
			if t.Terrain == mapgen.TerrainRoad {
				road++
			}
			if t.MovementCost == 0 {
				impassable++
			}
		}
	}
	total := g.Cols * g.Rows
	fmt.Printf("tiles: %d water (%.1f%%), %d forest (%.1f%%), %d road, %d impassable\n\n",
		water, pct(water, total), forest, pct(forest, total), road, impassable)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// renderPNG rasterises the tile grid, 8px per tile.
func renderPNG(m *mapgen.Map, path string) error {
	const px = 8
	g := m.Grid()
	dc := gg.NewContext(g.Cols*px, g.Rows*px)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			r, gr, b := terrainColour(g.At(col, row))
			dc.SetRGB255(r, gr, b)
			dc.DrawRectangle(float64(col*px), float64(row*px), px, px)
			dc.Fill()
		}
	}
	return dc.SavePNG(path)
}

func terrainColour(t *mapgen.Tile) (int, int, int) {
	switch t.Terrain {
	case mapgen.TerrainWaterDeep:
		return 24, 52, 110
	case mapgen.TerrainWaterShallow:
		return 52, 90, 160
	case mapgen.TerrainMarsh:
		return 56, 80, 58
	case mapgen.TerrainForest:
		return 26, 70, 32
	case mapgen.TerrainGrassLong:
		return 60, 100, 48
	case mapgen.TerrainScrub:
		return 88, 104, 54
	case mapgen.TerrainRock:
		return 110, 108, 104
	case mapgen.TerrainGravel:
		return 128, 124, 116
	case mapgen.TerrainSand:
		return 176, 164, 120
	case mapgen.TerrainMud:
		return 96, 78, 56
	case mapgen.TerrainDirt:
		return 120, 100, 72
	case mapgen.TerrainRoad:
		return 90, 88, 84
	case mapgen.TerrainFloor:
		return 150, 140, 128
	default:
		return 72, 112, 56
	}
}
