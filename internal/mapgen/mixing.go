package mapgen

import "sort"

// MixCompatibility grades how two features coexist on a shared tile.
type MixCompatibility uint8

const (
	MixNeutral MixCompatibility = iota
	MixCompatible
	MixSynergistic
	MixIncompatible
)

func (m MixCompatibility) String() string {
	switch m {
	case MixCompatible:
		return "compatible"
	case MixSynergistic:
		return "synergistic"
	case MixIncompatible:
		return "incompatible"
	default:
		return "neutral"
	}
}

// typePair keys the variant-specific compatibility table.
type typePair struct{ a, b FeatureType }

// typeMixTable holds variant-specific rules; lookups normalise the pair
// order. Pairs absent here fall back to the category table.
var typeMixTable = map[typePair]MixCompatibility{
	{FeatureRiver, FeatureBridge}:      MixCompatible,
	{FeatureLake, FeatureBridge}:       MixCompatible,
	{FeatureRoad, FeatureBridge}:       MixSynergistic,
	{FeatureRiver, FeatureBuilding}:    MixIncompatible,
	{FeatureLake, FeatureBuilding}:     MixIncompatible,
	{FeatureRiver, FeatureRoad}:        MixIncompatible, // a road needs a bridge to cross
	{FeatureLake, FeatureRoad}:         MixIncompatible,
	{FeatureRiver, FeatureWetland}:     MixSynergistic,
	{FeatureLake, FeatureWetland}:      MixSynergistic,
	{FeatureSpring, FeatureWetland}:    MixSynergistic,
	{FeatureSpring, FeatureForest}:     MixCompatible,
	{FeatureForest, FeatureRoad}:       MixCompatible,
	{FeatureForest, FeatureBuilding}:   MixCompatible,
	{FeatureForest, FeatureGrassland}:  MixNeutral,
	{FeatureBuilding, FeatureBuilding}: MixIncompatible,
}

// categoryMixTable is the fallback keyed by category pairs.
var categoryMixTable = map[[2]FeatureCategory]MixCompatibility{
	{CategoryRelief, CategoryNatural}:        MixSynergistic,
	{CategoryRelief, CategoryRelief}:         MixNeutral,
	{CategoryRelief, CategoryArtificial}:     MixNeutral,
	{CategoryNatural, CategoryNatural}:       MixCompatible,
	{CategoryNatural, CategoryArtificial}:    MixNeutral,
	{CategoryArtificial, CategoryArtificial}: MixCompatible,
	{CategoryCultural, CategoryCultural}:     MixCompatible,
	{CategoryNatural, CategoryCultural}:      MixNeutral,
	{CategoryArtificial, CategoryCultural}:   MixCompatible,
	{CategoryRelief, CategoryCultural}:       MixNeutral,
}

// compatibilityOf resolves the pairwise rule for two features: the
// variant table first, then the category fallback.
func compatibilityOf(a, b *MapFeature) MixCompatibility {
	ta, tb := a.Type, b.Type
	if ta > tb {
		ta, tb = tb, ta
	}
	if m, ok := typeMixTable[typePair{ta, tb}]; ok {
		return m
	}
	ca, cb := a.Category, b.Category
	if ca > cb {
		ca, cb = cb, ca
	}
	if m, ok := categoryMixTable[[2]FeatureCategory{ca, cb}]; ok {
		return m
	}
	return MixNeutral
}

// TacticalAspect names one dimension the mixing engine resolves per tile.
type TacticalAspect uint8

const (
	AspectTerrain TacticalAspect = iota
	AspectHeight
	AspectMovement
	AspectBlocking
	AspectVisual
	aspectCount // sentinel
)

func (a TacticalAspect) String() string {
	switch a {
	case AspectTerrain:
		return "terrain"
	case AspectHeight:
		return "height"
	case AspectMovement:
		return "movement"
	case AspectBlocking:
		return "blocking"
	case AspectVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// FeatureInteraction describes, for one tile, which feature dominates
// each tactical aspect and the overall compatibility of the mix.
type FeatureInteraction struct {
	Dominant      [aspectCount]FeatureID
	Compatibility MixCompatibility // worst pairwise grade in the mix
}

// mixingStage resolves every tile claimed by features: compatibility,
// dominance, and the tactical write-back.
type mixingStage struct{}

func (s *mixingStage) name() string { return "mixing" }

func (s *mixingStage) run(g *Grid, seed Seed, fs *featureSet) error {
	claims := make(map[int][]*MapFeature)
	for _, f := range fs.all() {
		for _, tc := range claimedTiles(g, f) {
			if g.InBounds(tc[0], tc[1]) {
				i := tc[1]*g.Cols + tc[0]
				claims[i] = append(claims[i], f)
			}
		}
	}

	// Tiles in index order; candidate order never affects the outcome
	// because resolveTile sorts by (priority, insertion seq).
	idxs := make([]int, 0, len(claims))
	for i := range claims {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		resolveTile(g, i, claims[i])
	}

	// Tiles no feature claims still get their base tactical values.
	for i := range g.Tiles {
		if _, claimed := claims[i]; !claimed {
			resolveTile(g, i, nil)
		}
	}
	return nil
}

// resolveTile computes the interaction for one tile and writes the
// resolved tactical properties back onto it.
func resolveTile(g *Grid, idx int, candidates []*MapFeature) FeatureInteraction {
	t := &g.Tiles[idx]

	// Deterministic dominance order: priority desc, then insertion order.
	ordered := append([]*MapFeature(nil), candidates...)
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].Priority != ordered[b].Priority {
			return ordered[a].Priority > ordered[b].Priority
		}
		return ordered[a].Seq < ordered[b].Seq
	})

	// Drop candidates incompatible with a higher-priority feature; the
	// dominant feature wins the tile outright over them.
	var kept []*MapFeature
	for _, f := range ordered {
		ok := true
		for _, k := range kept {
			if compatibilityOf(k, f) == MixIncompatible {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, f)
		}
	}

	interaction := FeatureInteraction{Compatibility: MixNeutral}
	synergistic := false
	if len(kept) >= 2 {
		worst := MixSynergistic
		for i := 0; i < len(kept); i++ {
			for j := i + 1; j < len(kept); j++ {
				m := compatibilityOf(kept[i], kept[j])
				if m == MixSynergistic {
					synergistic = true
				}
				if mixRank(m) < mixRank(worst) {
					worst = m
				}
			}
		}
		interaction.Compatibility = worst
	}

	if len(kept) > 0 {
		primary := kept[0]
		t.PrimaryFeature = primary.ID
		t.MixedFeatures = nil
		for _, f := range kept[1:] {
			t.MixedFeatures = append(t.MixedFeatures, f.ID)
		}
		for a := TacticalAspect(0); a < aspectCount; a++ {
			interaction.Dominant[a] = primary.ID
		}
		// Height: synergistic mixes average contributions, everything
		// else takes the dominant feature's value outright.
		if synergistic && len(kept) >= 2 {
			sum := 0.0
			for _, f := range kept {
				sum += featureHeight(f)
			}
			t.HeightMul = 0.5 + t.Topography.Elevation + sum/float64(len(kept))
		} else {
			t.HeightMul = 0.5 + t.Topography.Elevation + featureHeight(primary)
		}
	} else {
		t.PrimaryFeature = ""
		t.MixedFeatures = nil
	}

	// Movement cost: multiplicative combination of slope, water depth,
	// vegetation, and structure factors.
	slopeFactor := 1 - clampFloat(t.Topography.Slope, 0, 1)*0.6
	waterFactor := 1.0
	if t.Hydrology.WaterDepth > 0 {
		waterFactor = clampFloat(1-t.Hydrology.WaterDepth/2, 0, 1)
	}
	vegFactor := 1 - t.Vegetation.Understory*0.3 - t.Vegetation.CanopyCover*0.1
	structFactor := 1.0
	for _, f := range kept {
		structFactor *= featureMovementFactor(f)
	}
	base := terrainMovementMul(t.Terrain)
	cost := base * slopeFactor * waterFactor * vegFactor * structFactor
	if !t.Passable || waterFactor == 0 {
		cost = 0
	} else if cost < 0.05 {
		cost = 0.05
	}
	t.MovementCost = cost

	// Cover and concealment: the maximum level contributed by any
	// compatible feature, floored at the terrain's innate value.
	cover := CoverNone
	conceal := terrainConcealment(t.Terrain)
	for _, f := range kept {
		if c := featureCover(f); c > cover {
			cover = c
		}
		if c := featureConcealment(f); c > conceal {
			conceal = c
		}
	}
	t.Cover = cover
	t.Concealment = conceal
	return interaction
}

// mixRank orders compatibility grades from worst to best.
func mixRank(m MixCompatibility) int {
	switch m {
	case MixIncompatible:
		return 0
	case MixNeutral:
		return 1
	case MixCompatible:
		return 2
	case MixSynergistic:
		return 3
	default:
		return 1
	}
}

// claimedTiles enumerates the exact tiles a feature occupies, by variant.
func claimedTiles(g *Grid, f *MapFeature) [][2]int {
	switch {
	case f.River != nil:
		out := make([][2]int, 0, len(f.River.Points))
		for _, p := range f.River.Points {
			out = append(out, [2]int{int(p.Position.X), int(p.Position.Y)})
		}
		return out
	case f.Lake != nil:
		return f.Lake.Tiles
	case f.Wetland != nil:
		return f.Wetland.Tiles
	case f.Forest != nil:
		return f.Forest.Tiles
	case f.Grassland != nil:
		return f.Grassland.Tiles
	case f.Road != nil:
		hw := f.Road.Width / 2
		var out [][2]int
		seen := map[[2]int]bool{}
		for _, t := range f.Road.Tiles {
			for dc := -hw; dc <= hw; dc++ {
				for dr := -hw; dr <= hw; dr++ {
					tc := [2]int{t[0] + dc, t[1] + dr}
					if !seen[tc] {
						seen[tc] = true
						out = append(out, tc)
					}
				}
			}
		}
		sort.Slice(out, func(a, b int) bool {
			if out[a][1] != out[b][1] {
				return out[a][1] < out[b][1]
			}
			return out[a][0] < out[b][0]
		})
		return out
	default:
		// Point and footprint features claim their full area rectangle.
		var out [][2]int
		b := f.Area
		for row := b.Y; row < b.Y+b.Height; row++ {
			for col := b.X; col < b.X+b.Width; col++ {
				out = append(out, [2]int{col, row})
			}
		}
		return out
	}
}

// featureHeight is each variant's contribution to the tile height
// multiplier.
func featureHeight(f *MapFeature) float64 {
	switch f.Type {
	case FeatureBuilding:
		if f.Building != nil {
			return 0.5 + 0.3*float64(len(f.Building.Floors))
		}
		return 0.8
	case FeatureBridge:
		return 0.3
	case FeatureForest:
		return 0.6
	case FeatureRockOutcrop:
		return 0.4
	case FeatureRiver, FeatureLake:
		return -0.3
	case FeatureSinkhole:
		return -0.4
	default:
		return 0
	}
}

// featureMovementFactor is each variant's multiplicative drag on movement.
func featureMovementFactor(f *MapFeature) float64 {
	switch f.Type {
	case FeatureForest:
		return 0.8
	case FeatureWetland:
		return 0.6
	case FeatureRoad, FeatureBridge:
		return 1.0
	case FeatureRockOutcrop:
		return 0.7
	case FeatureSinkhole:
		return 0.5
	case FeatureBuilding:
		return 0.9 // interiors slow but do not stop movement
	default:
		return 1.0
	}
}

// featureCover is each variant's hard-protection grade.
func featureCover(f *MapFeature) CoverLevel {
	switch f.Type {
	case FeatureBuilding:
		return CoverHeavy
	case FeatureRockOutcrop:
		return CoverModerate
	case FeatureBridge:
		return CoverLight
	case FeatureForest:
		return CoverLight
	case FeatureSinkhole:
		return CoverModerate
	default:
		return CoverNone
	}
}

// featureConcealment is each variant's visual-screening grade.
func featureConcealment(f *MapFeature) ConcealmentLevel {
	switch f.Type {
	case FeatureForest:
		return ConcealmentHeavy
	case FeatureGrassland:
		return ConcealmentLight
	case FeatureWetland:
		return ConcealmentLight
	case FeatureBuilding:
		return ConcealmentModerate
	case FeatureRockOutcrop:
		return ConcealmentModerate
	default:
		return ConcealmentNone
	}
}
