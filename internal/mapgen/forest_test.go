package mapgen

import (
	"math"
	"testing"
)

func testTree(id string, species TreeSpecies, col, row int) *Tree {
	return &Tree{
		ID:            id,
		Species:       species,
		Position:      SubTilePosition{Col: col, Row: row, OffX: 0.5, OffY: 0.5},
		Health:        0.7,
		Height:        12,
		CanopyRadius:  2.0,
		CanopyDensity: 0.6,
	}
}

func TestSpeciesCompatible(t *testing.T) {
	if !speciesCompatible(SpeciesOak, SpeciesOak) {
		t.Fatal("same species should always be compatible")
	}
	if !speciesCompatible(SpeciesOak, SpeciesBeech) || !speciesCompatible(SpeciesBeech, SpeciesOak) {
		t.Fatal("oak/beech should be compatible both ways")
	}
	if !speciesCompatible(SpeciesSpruce, SpeciesPine) {
		t.Fatal("pine/spruce should be compatible")
	}
	if speciesCompatible(SpeciesOak, SpeciesPine) {
		t.Fatal("oak/pine should not be compatible")
	}
	if speciesCompatible(SpeciesBirch, SpeciesWillow) {
		t.Fatal("birch/willow should not be compatible")
	}
}

func TestCanGraftWith_DistanceLimit(t *testing.T) {
	a := testTree("a", SpeciesOak, 0, 0)
	near := testTree("b", SpeciesOak, 1, 0)
	far := testTree("c", SpeciesOak, 10, 0)

	if !a.CanGraftWith(near) {
		t.Fatal("adjacent compatible trees should graft")
	}
	if a.CanGraftWith(far) {
		t.Fatal("trees beyond canopy reach should not graft")
	}
	if a.CanGraftWith(a) {
		t.Fatal("a tree cannot graft with itself")
	}

	other := testTree("d", SpeciesPine, 1, 1)
	if a.CanGraftWith(other) {
		t.Fatal("incompatible species should not graft")
	}
}

func TestGraft_MergesDonor(t *testing.T) {
	a := testTree("a", SpeciesOak, 0, 0)
	b := testTree("b", SpeciesBeech, 1, 0)

	a.Graft(b)

	if b.GraftedInto != a.ID {
		t.Fatalf("donor GraftedInto = %q, want %q", b.GraftedInto, a.ID)
	}
	if len(a.GraftedFrom) != 1 || a.GraftedFrom[0] != b.ID {
		t.Fatalf("survivor GraftedFrom = %v", a.GraftedFrom)
	}
	if math.Abs(a.CanopyRadius-3.0) > 1e-9 {
		t.Fatalf("canopy radius = %v, want 3.0 (base 2.0 + half donor 2.0)", a.CanopyRadius)
	}
	if math.Abs(a.CanopyDensity-0.75) > 1e-9 {
		t.Fatalf("canopy density = %v, want 0.75", a.CanopyDensity)
	}
	if math.Abs(a.Health-0.85) > 1e-9 {
		t.Fatalf("health = %v, want 0.85", a.Health)
	}
}

func TestGraft_Idempotent(t *testing.T) {
	a := testTree("a", SpeciesOak, 0, 0)
	b := testTree("b", SpeciesOak, 1, 0)

	a.Graft(b)
	radius, density, health := a.CanopyRadius, a.CanopyDensity, a.Health

	a.Graft(b)
	a.Graft(b)

	if a.CanopyRadius != radius || a.CanopyDensity != density || a.Health != health {
		t.Fatal("repeat grafts of the same pair must not change the survivor")
	}
	if len(a.GraftedFrom) != 1 {
		t.Fatalf("donor recorded %d times", len(a.GraftedFrom))
	}

	// A grafted-away donor cannot be grafted into a third tree.
	c := testTree("c", SpeciesOak, 2, 0)
	c.Graft(b)
	if b.GraftedInto != a.ID {
		t.Fatal("donor reassigned to a second survivor")
	}
	if len(c.GraftedFrom) != 0 {
		t.Fatal("third tree should not have absorbed an already-merged donor")
	}
}

func TestForest_StandingTrees(t *testing.T) {
	a := testTree("f/tree-0000", SpeciesOak, 0, 0)
	b := testTree("f/tree-0001", SpeciesOak, 1, 0)
	c := testTree("f/tree-0002", SpeciesPine, 5, 5)
	f := &Forest{Trees: []*Tree{a, b, c}}

	a.Graft(b)

	standing := f.StandingTrees()
	if len(standing) != 2 {
		t.Fatalf("standing trees = %d, want 2", len(standing))
	}
	for _, tr := range standing {
		if tr.ID == b.ID {
			t.Fatal("grafted donor should not be standing")
		}
	}
	if f.TreeByID(b.ID) == nil {
		t.Fatal("grafted donor should still be findable by id")
	}
	if f.TreeByID("missing") != nil {
		t.Fatal("unknown id should return nil")
	}
}
