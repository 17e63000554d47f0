package mapview

import (
	"fmt"
	"strings"

	"github.com/mapforge/battlemap/internal/mapgen"
)

// buildReport renders a plain-text summary of a generated map, suitable
// for pasting into a session log.
func buildReport(m *mapgen.Map) string {
	var b strings.Builder
	g := m.Grid()

	fmt.Fprintf(&b, "=== %s ===\n", m.Name)
	fmt.Fprintf(&b, "seed %d  biome %s  %dx%d tiles  cell %.1fm\n",
		int64(m.Metadata.SeedUsed), m.Metadata.Biome, g.Cols, g.Rows, m.CellSize)
	fmt.Fprintf(&b, "fingerprint %016x\n\n", m.Fingerprint())

	fmt.Fprintf(&b, "features (%d):\n", m.FeatureCount())
	for _, t := range featureTypeOrder {
		fs := m.FeaturesOfType(t)
		if len(fs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-13s %d\n", t, len(fs))
	}

	counts := make(map[mapgen.TerrainType]int)
	impassable := 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			counts[t.Terrain]++
			if t.MovementCost == 0 {
				impassable++
			}
		}
	}
	total := g.Cols * g.Rows
	b.WriteString("\nterrain:\n")
	for t := mapgen.TerrainGrass; t <= mapgen.TerrainMarsh; t++ {
		n := counts[t]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-13s %5d (%4.1f%%)\n", t, n, float64(n)*100/float64(total))
	}
	fmt.Fprintf(&b, "\nimpassable tiles: %d of %d\n", impassable, total)

	for _, f := range m.FeaturesOfType(mapgen.FeatureRiver) {
		r := f.River
		fmt.Fprintf(&b, "river %s: %d points, %d tributaries\n", f.ID, len(r.Points), len(r.Tributaries))
	}
	for _, f := range m.FeaturesOfType(mapgen.FeatureBuilding) {
		bd := f.Building
		fmt.Fprintf(&b, "building %s: %s, %d floors\n", f.ID, bd.Type, len(bd.Floors))
	}
	return b.String()
}
