package shared

// Position represents a 3D position
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ColliderKind identifies what sort of object participates in collision
// testing. The set is closed; skip policy and damage dispatch key off it.
type ColliderKind string

const (
	KindShell    ColliderKind = "shell"
	KindTank     ColliderKind = "tank"
	KindTree     ColliderKind = "tree"
	KindRock     ColliderKind = "rock"
	KindBuilding ColliderKind = "building"
	KindMountain ColliderKind = "mountain"
)

// kindTraits is the dispatch table for per-kind collision behavior.
// Static kinds are never tested against each other; damageable kinds
// take shell damage on a confirmed hit.
var kindTraits = map[ColliderKind]struct {
	static     bool
	damageable bool
}{
	KindShell:    {},
	KindTank:     {damageable: true},
	KindTree:     {static: true},
	KindRock:     {static: true},
	KindBuilding: {static: true},
	KindMountain: {static: true},
}

// Static reports whether the kind is immovable scenery. Pairs of static
// kinds are skipped by the collision sweep.
func (k ColliderKind) Static() bool {
	return kindTraits[k].static
}

// Damageable reports whether a shell hit against this kind applies damage.
func (k ColliderKind) Damageable() bool {
	return kindTraits[k].damageable
}

// ShapeKind discriminates the collision shape union.
type ShapeKind int

const (
	ShapeNone ShapeKind = iota // malformed; never matches in overlap tests
	ShapeSphere
	ShapeBox
)

// Shape is the collision shape of a Collidable: a sphere (Radius) or an
// axis-aligned box (HalfExtents). The zero value is a malformed shape that
// silently never collides.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents Position
}

// Sphere returns a spherical collision shape.
func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box returns an axis-aligned box collision shape with the given half-extents.
func Box(hx, hy, hz float64) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: Position{X: hx, Y: hy, Z: hz}}
}

// UnitSphere is the default shape when a static collider is built without
// radius or box size.
func UnitSphere() Shape {
	return Sphere(1.0)
}

// Collidable is the capability contract for anything participating in
// collision testing. Liveness and owner identity are part of the contract so
// the collision system never has to reach into concrete types.
type Collidable interface {
	ID() string
	Kind() ColliderKind
	Shape() Shape
	Position() Position

	// Alive reports whether the object should still be tested. A shell that
	// resolved a collision or expired reports false.
	Alive() bool

	// Owner returns the entity that spawned this one, or nil. A projectile
	// never collides with its own owner.
	Owner() Collidable

	// OnCollision is invoked with the other party when a contact is
	// confirmed. Implementations with no collision behavior use a no-op.
	OnCollision(other Collidable)
}

// PhysicsQuery exposes the collision system's point and ray queries to
// consumers outside the physics package (NPC targeting, spawn placement).
type PhysicsQuery interface {
	CheckLineOfSight(from, to Position) bool
	CheckPointCollision(point Position, exclude Collidable) Collidable
}
