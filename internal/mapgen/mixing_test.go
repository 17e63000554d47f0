package mapgen

import "testing"

func pointFeature(id string, t FeatureType, seq, col, row int) *MapFeature {
	f := newMapFeature(FeatureID(id), t, SpatialBounds{X: col, Y: row, Width: 1, Height: 1})
	f.Seq = seq
	switch t {
	case FeatureBuilding:
		f.Building = &Building{
			Type:      BuildingHouse,
			Footprint: Footprint{Bounds: f.Area},
			Floors:    []*Floor{{Level: 0}},
		}
	case FeatureRoad:
		f.Road = &Road{Tiles: [][2]int{{col, row}}, Width: 1}
	case FeatureBridge:
		f.Bridge = &Bridge{}
	case FeatureRiver:
		f.River = &River{Points: []RiverPoint{{
			Position: Position{X: float64(col), Y: float64(row)},
			Width:    1,
			Segment:  SegmentStraight,
		}}}
	case FeatureRockOutcrop, FeatureCave, FeatureSinkhole:
		f.Relief = &ReliefPoint{Position: Position{X: float64(col), Y: float64(row)}, Size: 1}
	}
	return f
}

func TestCompatibilityOf_OrderIndependent(t *testing.T) {
	river := pointFeature("r", FeatureRiver, 0, 1, 1)
	bridge := pointFeature("b", FeatureBridge, 1, 1, 1)
	road := pointFeature("d", FeatureRoad, 2, 1, 1)
	house := pointFeature("h", FeatureBuilding, 3, 1, 1)

	if river.CanMixWith(house) || !river.CanMixWith(bridge) {
		t.Fatal("CanMixWith should mirror the pairwise table")
	}

	pairs := []struct {
		a, b *MapFeature
		want MixCompatibility
	}{
		{river, bridge, MixCompatible},
		{road, bridge, MixSynergistic},
		{river, house, MixIncompatible},
		{river, road, MixIncompatible},
		{house, house, MixIncompatible},
	}
	for _, p := range pairs {
		if got := compatibilityOf(p.a, p.b); got != p.want {
			t.Fatalf("compatibilityOf(%s, %s) = %v, want %v", p.a.Type, p.b.Type, got, p.want)
		}
		if got := compatibilityOf(p.b, p.a); got != p.want {
			t.Fatalf("compatibilityOf(%s, %s) not symmetric", p.b.Type, p.a.Type)
		}
	}
}

func TestCompatibilityOf_CategoryFallback(t *testing.T) {
	cave := pointFeature("c", FeatureCave, 0, 1, 1)
	forest := pointFeature("f", FeatureForest, 1, 1, 1)
	forest.Forest = &Forest{Tiles: [][2]int{{1, 1}}}

	// No variant rule for cave/forest, so relief+natural applies.
	if got := compatibilityOf(cave, forest); got != MixSynergistic {
		t.Fatalf("cave/forest = %v, want synergistic", got)
	}

	outcrop := pointFeature("o", FeatureRockOutcrop, 2, 1, 1)
	if got := compatibilityOf(cave, outcrop); got != MixNeutral {
		t.Fatalf("cave/outcrop = %v, want neutral", got)
	}
}

func TestResolveTile_IncompatibleDropsLowerPriority(t *testing.T) {
	g := NewGrid(4, 4)
	house := pointFeature("house", FeatureBuilding, 0, 1, 1)
	river := pointFeature("river", FeatureRiver, 1, 1, 1)

	resolveTile(g, 1*g.Cols+1, []*MapFeature{river, house})

	tile := g.At(1, 1)
	if tile.PrimaryFeature != house.ID {
		t.Fatalf("primary = %s, want the building (higher priority)", tile.PrimaryFeature)
	}
	if len(tile.MixedFeatures) != 0 {
		t.Fatalf("incompatible river should be dropped, got mixed %v", tile.MixedFeatures)
	}
	if tile.Cover != CoverHeavy {
		t.Fatalf("building tile cover = %v, want heavy", tile.Cover)
	}
}

func TestResolveTile_OrderIndependent(t *testing.T) {
	features := []*MapFeature{
		pointFeature("house", FeatureBuilding, 0, 2, 2),
		pointFeature("road", FeatureRoad, 1, 2, 2),
		pointFeature("river", FeatureRiver, 2, 2, 2),
	}

	g1 := NewGrid(5, 5)
	resolveTile(g1, 2*g1.Cols+2, []*MapFeature{features[0], features[1], features[2]})
	g2 := NewGrid(5, 5)
	resolveTile(g2, 2*g2.Cols+2, []*MapFeature{features[2], features[0], features[1]})

	a, b := g1.At(2, 2), g2.At(2, 2)
	if a.PrimaryFeature != b.PrimaryFeature {
		t.Fatalf("primary differs by candidate order: %s vs %s", a.PrimaryFeature, b.PrimaryFeature)
	}
	if len(a.MixedFeatures) != len(b.MixedFeatures) {
		t.Fatalf("mixed sets differ by candidate order: %v vs %v", a.MixedFeatures, b.MixedFeatures)
	}
	for i := range a.MixedFeatures {
		if a.MixedFeatures[i] != b.MixedFeatures[i] {
			t.Fatalf("mixed order differs: %v vs %v", a.MixedFeatures, b.MixedFeatures)
		}
	}
	if a.MovementCost != b.MovementCost || a.Cover != b.Cover || a.Concealment != b.Concealment {
		t.Fatal("tactical values differ by candidate order")
	}
}

func TestResolveTile_SynergisticAveragesHeight(t *testing.T) {
	g := NewGrid(4, 4)
	road := pointFeature("road", FeatureRoad, 0, 1, 1)
	bridge := pointFeature("bridge", FeatureBridge, 1, 1, 1)

	interaction := resolveTile(g, 1*g.Cols+1, []*MapFeature{road, bridge})

	if interaction.Compatibility != MixSynergistic {
		t.Fatalf("road+bridge compatibility = %v, want synergistic", interaction.Compatibility)
	}
	if interaction.Dominant[AspectMovement] != bridge.ID {
		t.Fatalf("movement dominant = %s, want the bridge", interaction.Dominant[AspectMovement])
	}

	tile := g.At(1, 1)
	if tile.PrimaryFeature != bridge.ID {
		t.Fatalf("primary = %s, want the bridge", tile.PrimaryFeature)
	}
	if len(tile.MixedFeatures) != 1 || tile.MixedFeatures[0] != road.ID {
		t.Fatalf("mixed = %v, want the road", tile.MixedFeatures)
	}
	// Synergistic mix averages the contributions: (0.3 + 0.0) / 2.
	want := 0.5 + tile.Topography.Elevation + 0.15
	if diff := tile.HeightMul - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("height mul = %v, want %v", tile.HeightMul, want)
	}
}

func TestResolveTile_WaterImpassable(t *testing.T) {
	g := NewGrid(3, 3)
	tile := g.At(1, 1)
	tile.Terrain = TerrainWaterDeep
	tile.Passable = false
	tile.Hydrology.IsWater = true
	tile.Hydrology.WaterDepth = 2.5

	resolveTile(g, 1*g.Cols+1, nil)

	if tile.MovementCost != 0 {
		t.Fatalf("deep water movement cost = %v, want 0", tile.MovementCost)
	}
}

func TestResolveTile_TerrainConcealmentFloor(t *testing.T) {
	g := NewGrid(3, 3)
	tile := g.At(0, 0)
	tile.Terrain = TerrainForest

	resolveTile(g, 0, nil)

	if tile.Concealment < ConcealmentModerate {
		t.Fatalf("forest terrain concealment = %v, want at least moderate", tile.Concealment)
	}
}
