package physics

import (
	"fmt"

	"github.com/charmbracelet/log"

	"tank-game/game"
	"tank-game/game/shared"
)

// RegisterMapColliders converts the generated game map into static colliders
// and registers them with the collision system. Mountain formations get the
// mountain kind so shells detonate against them without attempting damage;
// buildings use box shapes matching their footprint.
func RegisterMapColliders(cs *CollisionSystem, gameMap *game.GameMap) {
	for i, tree := range gameMap.Trees {
		cs.Add(NewStaticCollider(
			fmt.Sprintf("tree-%d", i),
			shared.KindTree,
			shared.Position{X: tree.Position.X, Y: tree.Position.Y, Z: tree.Position.Z},
			tree.Radius,
			nil,
		))
	}

	for i, rock := range gameMap.Rocks {
		kind := shared.KindRock
		if rock.Formation == game.MountainFormation {
			kind = shared.KindMountain
		}
		cs.Add(NewStaticCollider(
			fmt.Sprintf("rock-%d", i),
			kind,
			shared.Position{X: rock.Position.X, Y: rock.Position.Y, Z: rock.Position.Z},
			rock.Radius,
			nil,
		))
	}

	for i, b := range gameMap.Buildings {
		// Building sizes are full extents; the collider takes half-extents.
		size := shared.Position{X: b.Size.X / 2, Y: b.Size.Y / 2, Z: b.Size.Z / 2}
		cs.Add(NewStaticCollider(
			fmt.Sprintf("building-%d", i),
			shared.KindBuilding,
			shared.Position{X: b.Position.X, Y: b.Position.Y, Z: b.Position.Z},
			0,
			&size,
		))
	}

	log.Info("Registered map colliders",
		"trees", len(gameMap.Trees),
		"rocks", len(gameMap.Rocks),
		"buildings", len(gameMap.Buildings))
}
