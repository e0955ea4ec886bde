package game

// GameMap holds every static object in the world. The map is generated once
// at startup and never mutated; all generation is deterministic so every
// server instance produces the identical world.
type GameMap struct {
	Trees     []Tree     `json:"trees"`
	Rocks     []Rock     `json:"rocks"`
	Buildings []Building `json:"buildings"`
}

// NewGameMap generates the complete game world.
func NewGameMap() *GameMap {
	return &GameMap{
		Trees:     generateTrees(),
		Rocks:     generateRocks(),
		Buildings: generateBuildings(),
	}
}
