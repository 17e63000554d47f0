package mapgen

import "math/rand/v2"

// Road generation tuning, adapted for tile-space paths: roads traverse
// the map axis-aligned with occasional one-tile shifts after a minimum
// straight run.
const (
	roadMinStraight = 6
	roadWidthMain   = 2
	roadWidthSide   = 1
	bridgeMaxSpan   = 6 // tiles of water a single bridge may cross
)

// Road is an ordered path of tile centres with a width.
type Road struct {
	Tiles   [][2]int // (col, row) centres
	Width   int
	Bridges []FeatureID // bridges carrying this road over water
}

// Bridge carries a road across a river or lake span.
type Bridge struct {
	Start   Position
	End     Position
	Span    int      // tiles
	RoadID  FeatureID
	OverIDs []FeatureID // water features crossed
}

// spreadSlots distributes n road slots evenly across mapSize with jitter.
func spreadSlots(mapSize, n int, rng *rand.Rand) []int {
	slots := make([]int, 0, n)
	margin := mapSize / 8
	usable := mapSize - 2*margin
	if usable < n*4 {
		usable = mapSize
		margin = 0
	}
	for i := 0; i < n; i++ {
		base := margin + (usable*(2*i+1))/(2*n)
		jitter := rng.IntN(maxInt(1, usable/(n*4))) - usable/(n*8)
		pos := base + jitter
		if pos < margin {
			pos = margin
		}
		if pos >= mapSize-margin {
			pos = mapSize - margin - 1
		}
		slots = append(slots, pos)
	}
	return slots
}

// traceRoadPath creates a road path that traverses the map. If
// horizontal, it runs left to right at basePos, shifting by one tile at
// most every minStraight steps; steep tiles push the path aside.
func traceRoadPath(g *Grid, rng *rand.Rand, horizontal bool, basePos, minStraight int, maxSlope float64) [][2]int {
	var tiles [][2]int
	maxLen := g.Cols
	limit := g.Rows
	if !horizontal {
		maxLen = g.Rows
		limit = g.Cols
	}

	pos := basePos
	straight := 0
	nextShiftAfter := minStraight + rng.IntN(maxInt(1, minStraight))

	for along := 0; along < maxLen; along++ {
		col, row := along, pos
		if !horizontal {
			col, row = pos, along
		}

		// Dodge steep ground when an adjacent lane is gentler.
		if g.At(col, row).Topography.Slope > maxSlope {
			best, bestSlope := pos, g.At(col, row).Topography.Slope
			for _, d := range [2]int{-1, 1} {
				nc, nr := col, row
				if horizontal {
					nr = pos + d
				} else {
					nc = pos + d
				}
				if t := g.At(nc, nr); t != nil && t.Topography.Slope < bestSlope {
					best, bestSlope = pos+d, t.Topography.Slope
				}
			}
			if best != pos {
				pos = best
				if horizontal {
					row = pos
				} else {
					col = pos
				}
			}
		}

		tiles = append(tiles, [2]int{col, row})
		straight++

		if straight >= nextShiftAfter && along < maxLen-minStraight {
			shift := rng.IntN(3) - 1
			newPos := pos + shift
			if newPos < 1 {
				newPos = 1
			}
			if newPos >= limit-1 {
				newPos = limit - 2
			}
			if newPos != pos {
				// Fill the transition tile so the path stays connected.
				if horizontal {
					tiles = append(tiles, [2]int{col, newPos})
				} else {
					tiles = append(tiles, [2]int{newPos, along})
				}
				pos = newPos
				straight = 0
				nextShiftAfter = minStraight + rng.IntN(maxInt(1, minStraight*2))
			}
		}
	}
	return tiles
}

// traceSideStreet runs perpendicular from a main road tile until it
// hits water, another road, steep ground, or the requested length. dir
// is +1 or -1 along the perpendicular axis.
func traceSideStreet(g *Grid, from [2]int, parentHorizontal bool, dir, length int, maxSlope float64) [][2]int {
	var tiles [][2]int
	col, row := from[0], from[1]
	for i := 1; i <= length; i++ {
		if parentHorizontal {
			row = from[1] + i*dir
		} else {
			col = from[0] + i*dir
		}
		t := g.At(col, row)
		if t == nil || t.Hydrology.IsWater || t.Topography.Slope > maxSlope {
			break
		}
		if t.Terrain == TerrainRoad {
			// Joined another street; include the junction and stop.
			tiles = append(tiles, [2]int{col, row})
			break
		}
		tiles = append(tiles, [2]int{col, row})
	}
	return tiles
}

// stampRoad writes road terrain, expanding each centre tile by width.
// Water tiles are left alone; bridges claim those spans separately.
func stampRoad(g *Grid, road *Road) {
	hw := road.Width / 2
	for _, t := range road.Tiles {
		for dc := -hw; dc <= hw; dc++ {
			for dr := -hw; dr <= hw; dr++ {
				c, r := t[0]+dc, t[1]+dr
				tile := g.At(c, r)
				if tile == nil || tile.Hydrology.IsWater {
					continue
				}
				g.SetTerrain(c, r, TerrainRoad)
			}
		}
	}
}

// waterCrossings splits a road's path into maximal runs of water tiles,
// each a candidate bridge span.
func waterCrossings(g *Grid, tiles [][2]int) [][][2]int {
	var runs [][][2]int
	var cur [][2]int
	for _, t := range tiles {
		tile := g.At(t[0], t[1])
		if tile != nil && tile.Hydrology.IsWater {
			cur = append(cur, t)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
