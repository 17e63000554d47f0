package mapgen

import "testing"

func shoreSet(types ...ShoreType) map[ShoreType]bool {
	set := make(map[ShoreType]bool, len(types))
	for _, s := range types {
		set[s] = true
	}
	return set
}

func TestBuildShoreline_FormationShoreSets(t *testing.T) {
	cases := []struct {
		formation LakeFormation
		allowed   map[ShoreType]bool
	}{
		{FormationVolcanic, shoreSet(ShoreRocky, ShoreSandy)},
		{FormationGlacial, shoreSet(ShoreRocky, ShoreGravel)},
		{FormationRiverine, shoreSet(ShoreSandy, ShoreMarshy, ShoreGravel)},
		{FormationDepression, shoreSet(ShoreSandy, ShoreMarshy, ShoreRocky, ShoreGravel)},
	}
	area := SpatialBounds{X: 10, Y: 10, Width: 8, Height: 6}
	for _, c := range cases {
		l := &Lake{Formation: c.formation}
		buildShoreline(l, area, Seed(4242), 20)
		if len(l.Shoreline) != 20 {
			t.Fatalf("%s: shoreline has %d points, want 20", c.formation, len(l.Shoreline))
		}
		for i, p := range l.Shoreline {
			if !c.allowed[p.Shore] {
				t.Fatalf("%s: point %d has shore %s outside the formation's set",
					c.formation, i, p.Shore)
			}
			if p.Accessible == (p.Shore == ShoreMarshy) {
				t.Fatalf("%s: point %d accessibility %v contradicts shore %s",
					c.formation, i, p.Accessible, p.Shore)
			}
		}
	}
}

func TestBuildShoreline_MinimumRing(t *testing.T) {
	l := &Lake{Formation: FormationVolcanic}
	buildShoreline(l, SpatialBounds{X: 0, Y: 0, Width: 3, Height: 3}, Seed(7), 1)
	if len(l.Shoreline) != 4 {
		t.Fatalf("ring floor of 4 points not applied, got %d", len(l.Shoreline))
	}
}
