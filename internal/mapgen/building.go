package mapgen

import (
	"fmt"
	"math/rand/v2"
)

// Footprint bounds in tiles per edge.
const (
	minFootprintEdge = 1
	maxFootprintEdge = 40
)

// BuildingType identifies the function of a building.
type BuildingType uint8

const (
	BuildingHouse BuildingType = iota
	BuildingBarn
	BuildingWatchtower
	BuildingWarehouse
	BuildingChapel
	buildingTypeCount // sentinel
)

func (t BuildingType) String() string {
	switch t {
	case BuildingHouse:
		return "house"
	case BuildingBarn:
		return "barn"
	case BuildingWatchtower:
		return "watchtower"
	case BuildingWarehouse:
		return "warehouse"
	case BuildingChapel:
		return "chapel"
	default:
		return "unknown"
	}
}

// WallConstruction identifies the wall build of a material.
type WallConstruction uint8

const (
	WallTimber WallConstruction = iota
	WallStone
	WallBrick
	WallWattle
)

func (w WallConstruction) String() string {
	switch w {
	case WallTimber:
		return "timber"
	case WallStone:
		return "stone"
	case WallBrick:
		return "brick"
	case WallWattle:
		return "wattle"
	default:
		return "unknown"
	}
}

// BuildingMaterial describes wall construction and its properties.
type BuildingMaterial struct {
	Construction      WallConstruction
	Durability        float64 // [0,1]
	WeatherResistance float64 // [0,1]
	Cost              float64 // relative build cost
}

// materialFor returns the material profile for a construction type.
func materialFor(c WallConstruction) BuildingMaterial {
	switch c {
	case WallStone:
		return BuildingMaterial{Construction: c, Durability: 0.95, WeatherResistance: 0.9, Cost: 3.0}
	case WallBrick:
		return BuildingMaterial{Construction: c, Durability: 0.85, WeatherResistance: 0.8, Cost: 2.2}
	case WallTimber:
		return BuildingMaterial{Construction: c, Durability: 0.6, WeatherResistance: 0.5, Cost: 1.0}
	default: // wattle
		return BuildingMaterial{Construction: c, Durability: 0.35, WeatherResistance: 0.3, Cost: 0.4}
	}
}

// materialSuitsBiome rejects constructions that cannot weather a climate.
func materialSuitsBiome(c WallConstruction, b Biome) bool {
	switch b {
	case BiomeWetland:
		return c != WallWattle // saturated ground rots wattle
	case BiomeAlpine:
		return c == WallStone || c == WallTimber
	default:
		return true
	}
}

// Footprint is the ground plan a building occupies: a rectangle in tile
// space with derived area/perimeter/centre.
type Footprint struct {
	Bounds SpatialBounds
}

// Area returns the footprint area in tiles.
func (fp Footprint) Area() int { return fp.Bounds.Area() }

// Perimeter returns the footprint perimeter in tile edges.
func (fp Footprint) Perimeter() int { return 2 * (fp.Bounds.Width + fp.Bounds.Height) }

// Center returns the footprint centre.
func (fp Footprint) Center() Position { return fp.Bounds.Center() }

// Overlaps is the AABB collision test used before any building commits.
func (fp Footprint) Overlaps(other Footprint) bool {
	return fp.Bounds.Intersects(other.Bounds)
}

// validateFootprint checks the fixed dimension bounds.
func validateFootprint(fp Footprint) error {
	w, h := fp.Bounds.Width, fp.Bounds.Height
	if w < minFootprintEdge || w > maxFootprintEdge || h < minFootprintEdge || h > maxFootprintEdge {
		return &GenError{
			Code:      CodeFootprintOutOfBounds,
			Kind:      KindValidation,
			Component: "structures",
			Op:        "validateFootprint",
			Message: fmt.Sprintf("footprint %dx%d outside valid edge range %d-%d",
				w, h, minFootprintEdge, maxFootprintEdge),
			Context: map[string]any{"width": w, "height": h},
		}
	}
	return nil
}

// RoomKind identifies the use of a room.
type RoomKind uint8

const (
	RoomHall RoomKind = iota
	RoomChamber
	RoomKitchen
	RoomStore
	RoomWorkshop
)

func (k RoomKind) String() string {
	switch k {
	case RoomHall:
		return "hall"
	case RoomChamber:
		return "chamber"
	case RoomKitchen:
		return "kitchen"
	case RoomStore:
		return "store"
	case RoomWorkshop:
		return "workshop"
	default:
		return "unknown"
	}
}

// Room belongs to exactly one floor. Connectivity between rooms is an
// explicit bidirectional id reference, never a pointer, so room graphs
// cannot form ownership cycles.
type Room struct {
	ID          string
	Kind        RoomKind
	Area        int // tiles
	ConnectedTo []string
}

// Floor is one level of a building. Ground floor is 0, upper floors are
// positive, basements negative.
type Floor struct {
	Level int
	Rooms []*Room
}

// usedArea sums the committed room area on the floor.
func (fl *Floor) usedArea() int {
	total := 0
	for _, r := range fl.Rooms {
		total += r.Area
	}
	return total
}

// Building is a placed structure with an interior.
type Building struct {
	Type        BuildingType
	Footprint   Footprint
	Orientation int // quarter turns from north
	Material    BuildingMaterial
	Condition   float64 // [0,1]
	Age         int     // years
	Floors      []*Floor
}

// FloorAt returns the floor at a level, nil if absent.
func (b *Building) FloorAt(level int) *Floor {
	for _, fl := range b.Floors {
		if fl.Level == level {
			return fl
		}
	}
	return nil
}

// addRoom packs a room onto a floor, failing if it would exceed the
// remaining footprint area.
func (b *Building) addRoom(fl *Floor, room *Room) error {
	if fl.usedArea()+room.Area > b.Footprint.Area() {
		return &GenError{
			Code:      CodeRoomAreaExceeded,
			Kind:      KindDomainRule,
			Component: "structures",
			Op:        "addRoom",
			Message: fmt.Sprintf("room of %d tiles exceeds remaining floor area (%d of %d used)",
				room.Area, fl.usedArea(), b.Footprint.Area()),
			Context: map[string]any{
				"room": room.ID, "roomArea": room.Area,
				"used": fl.usedArea(), "capacity": b.Footprint.Area(),
			},
		}
	}
	fl.Rooms = append(fl.Rooms, room)
	return nil
}

// connectRooms records a bidirectional passage between two rooms.
func connectRooms(a, b *Room) {
	for _, id := range a.ConnectedTo {
		if id == b.ID {
			return
		}
	}
	a.ConnectedTo = append(a.ConnectedTo, b.ID)
	b.ConnectedTo = append(b.ConnectedTo, a.ID)
}

// buildInterior lays out floors and rooms for a building: rooms are
// packed greedily by remaining area, then chained into a connected
// graph with occasional cross-links.
func buildInterior(b *Building, id FeatureID, rng *rand.Rand) {
	levels := []int{0}
	switch b.Type {
	case BuildingWatchtower:
		levels = []int{0, 1, 2}
	case BuildingHouse:
		if b.Footprint.Area() >= 24 && rng.Float64() < 0.5 {
			levels = append(levels, 1)
		}
		if rng.Float64() < 0.2 {
			levels = append(levels, -1) // cellar
		}
	case BuildingWarehouse, BuildingBarn:
		// single open level
	case BuildingChapel:
		if rng.Float64() < 0.3 {
			levels = append(levels, -1) // crypt
		}
	}

	roomOrd := 0
	for _, lv := range levels {
		fl := &Floor{Level: lv}
		b.Floors = append(b.Floors, fl)

		capacity := b.Footprint.Area()
		if lv != 0 {
			capacity = capacity * 3 / 4 // upper floors and cellars run smaller
		}
		var prev *Room
		for capacity-fl.usedArea() >= 4 {
			remaining := capacity - fl.usedArea()
			size := 4 + rng.IntN(maxInt(1, remaining/2))
			if size > remaining {
				size = remaining
			}
			room := &Room{
				ID:   fmt.Sprintf("%s/f%d/room-%02d", id, lv, roomOrd),
				Kind: roomKindFor(b.Type, lv, roomOrd, rng),
				Area: size,
			}
			if err := b.addRoom(fl, room); err != nil {
				break // floor is full
			}
			if prev != nil {
				connectRooms(prev, room)
			}
			prev = room
			roomOrd++
			// Small buildings keep a single open room.
			if b.Footprint.Area() < 9 {
				break
			}
		}
		// Cross-link a random pair on roomy floors.
		if len(fl.Rooms) >= 3 && rng.Float64() < 0.5 {
			a := fl.Rooms[rng.IntN(len(fl.Rooms))]
			c := fl.Rooms[rng.IntN(len(fl.Rooms))]
			if a != c {
				connectRooms(a, c)
			}
		}
	}
}

// roomKindFor picks a plausible room use for the building type.
func roomKindFor(bt BuildingType, level, ordinal int, rng *rand.Rand) RoomKind {
	if level < 0 {
		return RoomStore
	}
	switch bt {
	case BuildingBarn, BuildingWarehouse:
		return RoomStore
	case BuildingWatchtower:
		if level == 0 {
			return RoomStore
		}
		return RoomChamber
	case BuildingChapel:
		return RoomHall
	default:
		if ordinal == 0 {
			return RoomHall
		}
		kinds := []RoomKind{RoomChamber, RoomKitchen, RoomStore, RoomWorkshop}
		return kinds[rng.IntN(len(kinds))]
	}
}
