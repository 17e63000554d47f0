package mapgen

import (
	"errors"
	"testing"
)

func testBuilding(bt BuildingType, w, h int) *Building {
	return &Building{
		Type:      bt,
		Footprint: Footprint{Bounds: SpatialBounds{X: 5, Y: 5, Width: w, Height: h}},
		Material:  materialFor(WallTimber),
		Condition: 1,
	}
}

func TestValidateFootprint_EdgeBounds(t *testing.T) {
	bad := [][2]int{{0, 5}, {5, 0}, {41, 5}, {5, 41}}
	for _, c := range bad {
		fp := Footprint{Bounds: SpatialBounds{Width: c[0], Height: c[1]}}
		checkErrCode(t, validateFootprint(fp), CodeFootprintOutOfBounds)
	}
	good := [][2]int{{1, 1}, {40, 40}, {6, 4}}
	for _, c := range good {
		fp := Footprint{Bounds: SpatialBounds{Width: c[0], Height: c[1]}}
		if err := validateFootprint(fp); err != nil {
			t.Fatalf("footprint %dx%d should validate: %v", c[0], c[1], err)
		}
	}
}

func TestFootprint_DerivedMeasures(t *testing.T) {
	fp := Footprint{Bounds: SpatialBounds{X: 2, Y: 3, Width: 6, Height: 4}}
	if fp.Area() != 24 {
		t.Fatalf("area = %d, want 24", fp.Area())
	}
	if fp.Perimeter() != 20 {
		t.Fatalf("perimeter = %d, want 20", fp.Perimeter())
	}
	c := fp.Center()
	if c.X != 5 || c.Y != 5 {
		t.Fatalf("center = (%v,%v), want (5,5)", c.X, c.Y)
	}
}

func TestFootprint_Overlaps(t *testing.T) {
	a := Footprint{Bounds: SpatialBounds{X: 0, Y: 0, Width: 5, Height: 5}}
	b := Footprint{Bounds: SpatialBounds{X: 4, Y: 4, Width: 5, Height: 5}}
	c := Footprint{Bounds: SpatialBounds{X: 5, Y: 0, Width: 5, Height: 5}}
	if !a.Overlaps(b) {
		t.Fatal("overlapping footprints not detected")
	}
	if a.Overlaps(c) {
		t.Fatal("edge-adjacent footprints should not overlap")
	}
}

func TestFootprintCollision_RetryableDomainRule(t *testing.T) {
	committed := []Footprint{{Bounds: SpatialBounds{X: 2, Y: 2, Width: 4, Height: 4}}}

	hit := Footprint{Bounds: SpatialBounds{X: 4, Y: 4, Width: 3, Height: 3}}
	err := footprintCollision(hit, committed)
	checkErrCode(t, err, CodeBuildingCollision)
	var ge *GenError
	if !errors.As(err, &ge) || !ge.Retryable() {
		t.Fatalf("collision should be retryable: %v", err)
	}

	free := Footprint{Bounds: SpatialBounds{X: 10, Y: 10, Width: 2, Height: 2}}
	if err := footprintCollision(free, nil); err != nil {
		t.Fatalf("no committed footprints, got %v", err)
	}
}

func TestAddRoom_AreaCap(t *testing.T) {
	b := testBuilding(BuildingHouse, 4, 4) // 16 tiles
	fl := &Floor{Level: 0}
	b.Floors = append(b.Floors, fl)

	if err := b.addRoom(fl, &Room{ID: "r1", Kind: RoomHall, Area: 10}); err != nil {
		t.Fatalf("first room should fit: %v", err)
	}
	if err := b.addRoom(fl, &Room{ID: "r2", Kind: RoomChamber, Area: 6}); err != nil {
		t.Fatalf("second room should exactly fill the floor: %v", err)
	}
	err := b.addRoom(fl, &Room{ID: "r3", Kind: RoomStore, Area: 1})
	checkErrCode(t, err, CodeRoomAreaExceeded)
	if len(fl.Rooms) != 2 {
		t.Fatalf("failed add must not commit the room, floor has %d rooms", len(fl.Rooms))
	}
}

func TestConnectRooms_BidirectionalDedup(t *testing.T) {
	a := &Room{ID: "a"}
	b := &Room{ID: "b"}
	connectRooms(a, b)
	connectRooms(a, b)
	connectRooms(b, a)

	if len(a.ConnectedTo) != 1 || a.ConnectedTo[0] != "b" {
		t.Fatalf("a.ConnectedTo = %v", a.ConnectedTo)
	}
	if len(b.ConnectedTo) != 1 || b.ConnectedTo[0] != "a" {
		t.Fatalf("b.ConnectedTo = %v", b.ConnectedTo)
	}
}

func TestBuildInterior_WatchtowerLevels(t *testing.T) {
	b := testBuilding(BuildingWatchtower, 4, 4)
	rng := Seed(42).Derive("interior").RNG()
	buildInterior(b, "building-0000-deadbeef", rng)

	if len(b.Floors) != 3 {
		t.Fatalf("watchtower floors = %d, want 3", len(b.Floors))
	}
	for _, lv := range []int{0, 1, 2} {
		fl := b.FloorAt(lv)
		if fl == nil {
			t.Fatalf("missing level %d", lv)
		}
		if len(fl.Rooms) == 0 {
			t.Fatalf("level %d has no rooms", lv)
		}
		capacity := b.Footprint.Area()
		if lv != 0 {
			capacity = capacity * 3 / 4
		}
		if fl.usedArea() > capacity {
			t.Fatalf("level %d packed %d tiles over capacity %d", lv, fl.usedArea(), capacity)
		}
		if len(fl.Rooms) > 1 {
			for _, r := range fl.Rooms {
				if len(r.ConnectedTo) == 0 {
					t.Fatalf("room %s on level %d is unconnected", r.ID, lv)
				}
			}
		}
	}
}

func TestBuildInterior_Deterministic(t *testing.T) {
	a := testBuilding(BuildingHouse, 6, 5)
	b := testBuilding(BuildingHouse, 6, 5)
	buildInterior(a, "building-0000-deadbeef", Seed(7).Derive("interior").RNG())
	buildInterior(b, "building-0000-deadbeef", Seed(7).Derive("interior").RNG())

	if len(a.Floors) != len(b.Floors) {
		t.Fatalf("floor counts diverged: %d vs %d", len(a.Floors), len(b.Floors))
	}
	for i := range a.Floors {
		fa, fb := a.Floors[i], b.Floors[i]
		if fa.Level != fb.Level || len(fa.Rooms) != len(fb.Rooms) {
			t.Fatalf("floor %d diverged", i)
		}
		for j := range fa.Rooms {
			ra, rb := fa.Rooms[j], fb.Rooms[j]
			if ra.ID != rb.ID || ra.Kind != rb.Kind || ra.Area != rb.Area {
				t.Fatalf("room %d on floor %d diverged: %+v vs %+v", j, i, ra, rb)
			}
		}
	}
}

func TestMaterialSuitsBiome(t *testing.T) {
	if materialSuitsBiome(WallWattle, BiomeWetland) {
		t.Fatal("wattle should be rejected in wetland")
	}
	if !materialSuitsBiome(WallTimber, BiomeWetland) {
		t.Fatal("timber should be allowed in wetland")
	}
	if materialSuitsBiome(WallBrick, BiomeAlpine) || materialSuitsBiome(WallWattle, BiomeAlpine) {
		t.Fatal("alpine allows only stone and timber")
	}
	if !materialSuitsBiome(WallStone, BiomeAlpine) || !materialSuitsBiome(WallTimber, BiomeAlpine) {
		t.Fatal("stone and timber should be allowed in alpine")
	}
	if !materialSuitsBiome(WallWattle, BiomeGrassland) {
		t.Fatal("grassland accepts any construction")
	}
}
