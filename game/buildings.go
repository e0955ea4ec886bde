package game

import "math"

// BuildingType selects the building model rendered by the client.
type BuildingType string

const (
	Bunker    BuildingType = "bunker"
	Barracks  BuildingType = "barracks"
	Watchtower BuildingType = "watchtower"
)

// Building is a static world obstacle with an axis-aligned box collider. Size
// holds the full extents of the box; Position is its center.
type Building struct {
	Position Position     `json:"position"`
	Type     BuildingType `json:"type"`
	Size     Position     `json:"size"`
	Rotation float64      `json:"rotation"`
}

func newBuilding(t BuildingType, x, z float64, size Position, rotation float64) Building {
	return Building{
		Position: Position{X: x, Y: size.Y / 2, Z: z},
		Type:     t,
		Size:     size,
		Rotation: rotation,
	}
}

// generateBuildings places a small military outpost in each map quadrant plus
// watchtowers along the roads. Layout is fixed so every client sees the same
// world.
func generateBuildings() []Building {
	var buildings []Building

	outpost := func(cx, cz float64, seed int) {
		buildings = append(buildings,
			newBuilding(Bunker, cx, cz, Position{X: 8, Y: 4, Z: 8}, 0),
			newBuilding(Barracks, cx+14, cz, Position{X: 12, Y: 5, Z: 6}, math.Pi/2),
			newBuilding(Barracks, cx-14, cz, Position{X: 12, Y: 5, Z: 6}, math.Pi/2),
			newBuilding(Watchtower, cx, cz+16, Position{X: 3, Y: 10, Z: 3}, float64(seed)),
		)
	}

	outpost(300, 300, 1)
	outpost(-300, 300, 2)
	outpost(300, -300, 3)
	outpost(-300, -300, 4)

	// Watchtowers at intervals along the north-south road.
	for z := -600.0; z <= 600.0; z += 300 {
		if z == 0 {
			continue
		}
		buildings = append(buildings,
			newBuilding(Watchtower, 25, z, Position{X: 3, Y: 10, Z: 3}, 0))
	}

	return buildings
}
