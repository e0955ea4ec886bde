package physics

import (
	"tank-game/game/shared"
)

// StaticCollider is an immutable collision-only proxy for non-simulated
// scenery (trees, rocks, buildings, mountain bases). It is created once
// during world generation and lives for the session.
type StaticCollider struct {
	id    string
	kind  shared.ColliderKind
	pos   shared.Position
	shape shared.Shape
}

// NewStaticCollider builds a static collider. Exactly one shape is picked:
// a positive radius wins, then a non-nil box size, then a default unit
// sphere. All inputs are accepted.
func NewStaticCollider(id string, kind shared.ColliderKind, pos shared.Position, radius float64, boxSize *shared.Position) *StaticCollider {
	shape := shared.UnitSphere()
	switch {
	case radius > 0:
		shape = shared.Sphere(radius)
	case boxSize != nil:
		shape = shared.Box(boxSize.X, boxSize.Y, boxSize.Z)
	}

	return &StaticCollider{
		id:    id,
		kind:  kind,
		pos:   pos,
		shape: shape,
	}
}

func (c *StaticCollider) ID() string                { return c.id }
func (c *StaticCollider) Kind() shared.ColliderKind { return c.kind }
func (c *StaticCollider) Shape() shared.Shape       { return c.shape }
func (c *StaticCollider) Position() shared.Position { return c.pos }

// Alive always reports true; scenery never despawns in-session.
func (c *StaticCollider) Alive() bool { return true }

// Owner is always nil for scenery.
func (c *StaticCollider) Owner() shared.Collidable { return nil }

// OnCollision is a no-op; scenery has no collision behavior of its own.
func (c *StaticCollider) OnCollision(other shared.Collidable) {}
