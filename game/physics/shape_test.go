package physics

import (
	"testing"

	"tank-game/game/shared"
)

func TestSphereSphereOverlap(t *testing.T) {
	a := shared.Sphere(1.0)
	b := shared.Sphere(1.0)

	cases := []struct {
		name string
		dist float64
		want bool
	}{
		{"well apart", 5.0, false},
		{"exactly touching", 2.0, false},
		{"just inside", 1.999, true},
		{"concentric", 0.0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(a, shared.Position{}, b, shared.Position{X: tc.dist})
			if got != tc.want {
				t.Errorf("Overlaps at distance %v = %v, want %v", tc.dist, got, tc.want)
			}
		})
	}
}

func TestSphereSphereUsesAllAxes(t *testing.T) {
	a := shared.Sphere(1.0)
	b := shared.Sphere(1.0)

	// 3D distance sqrt(1+1+1) < 2 even though each axis delta is 1.
	if !Overlaps(a, shared.Position{}, b, shared.Position{X: 1, Y: 1, Z: 1}) {
		t.Error("expected overlap for diagonal offset inside combined radius")
	}
	if Overlaps(a, shared.Position{}, b, shared.Position{X: 2, Y: 2, Z: 2}) {
		t.Error("expected no overlap for diagonal offset outside combined radius")
	}
}

func TestBoxBoxOverlap(t *testing.T) {
	a := shared.Box(1, 1, 1)
	b := shared.Box(1, 1, 1)

	if !Overlaps(a, shared.Position{}, b, shared.Position{X: 1.9}) {
		t.Error("expected overlapping boxes to collide")
	}
	// Face contact is not a collision.
	if Overlaps(a, shared.Position{}, b, shared.Position{X: 2.0}) {
		t.Error("expected touching boxes not to collide")
	}
	// Separated on one axis is enough.
	if Overlaps(a, shared.Position{}, b, shared.Position{X: 1.0, Y: 3.0}) {
		t.Error("expected boxes separated on Y not to collide")
	}
}

func TestSphereBoxOverlap(t *testing.T) {
	sphere := shared.Sphere(1.0)
	box := shared.Box(1, 1, 1)

	if !Overlaps(sphere, shared.Position{X: 1.5}, box, shared.Position{}) {
		t.Error("expected sphere near box face to collide")
	}
	if Overlaps(sphere, shared.Position{X: 2.0}, box, shared.Position{}) {
		t.Error("expected sphere touching box face not to collide")
	}
	// Corner case: closest point is the box corner.
	if Overlaps(sphere, shared.Position{X: 2, Y: 2, Z: 2}, box, shared.Position{}) {
		t.Error("expected sphere beyond box corner not to collide")
	}
	// Symmetric dispatch for box-sphere ordering.
	if !Overlaps(box, shared.Position{}, sphere, shared.Position{X: 1.5}) {
		t.Error("expected box-sphere order to match sphere-box")
	}
}

func TestMalformedShapeNeverCollides(t *testing.T) {
	var malformed shared.Shape
	sphere := shared.Sphere(100)

	if Overlaps(malformed, shared.Position{}, sphere, shared.Position{}) {
		t.Error("malformed shape must not collide")
	}
	if Overlaps(sphere, shared.Position{}, malformed, shared.Position{}) {
		t.Error("malformed shape must not collide regardless of order")
	}
	if ContainsPoint(malformed, shared.Position{}, shared.Position{}) {
		t.Error("malformed shape must not contain any point")
	}
	if IntersectsSegment(malformed, shared.Position{}, shared.Position{X: -1}, shared.Position{X: 1}) {
		t.Error("malformed shape must not intersect any segment")
	}
}

func TestContainsPoint(t *testing.T) {
	sphere := shared.Sphere(2.0)
	center := shared.Position{X: 10, Y: 0, Z: 10}

	if !ContainsPoint(sphere, center, shared.Position{X: 11, Y: 0, Z: 10}) {
		t.Error("expected point inside sphere")
	}
	if ContainsPoint(sphere, center, shared.Position{X: 12, Y: 0, Z: 10}) {
		t.Error("expected point on sphere surface to be outside")
	}

	box := shared.Box(1, 2, 3)
	if !ContainsPoint(box, shared.Position{}, shared.Position{X: 0.5, Y: 1.5, Z: 2.5}) {
		t.Error("expected point inside box")
	}
	if ContainsPoint(box, shared.Position{}, shared.Position{X: 1.5}) {
		t.Error("expected point outside box X extent")
	}
}

func TestSegmentSphere(t *testing.T) {
	sphere := shared.Sphere(1.0)
	center := shared.Position{X: 5, Y: 0, Z: 0}

	if !IntersectsSegment(sphere, center, shared.Position{}, shared.Position{X: 10}) {
		t.Error("expected segment through sphere to intersect")
	}
	if IntersectsSegment(sphere, center, shared.Position{}, shared.Position{X: 3}) {
		t.Error("expected segment stopping short of sphere not to intersect")
	}
	if IntersectsSegment(sphere, center, shared.Position{Y: 5}, shared.Position{X: 10, Y: 5}) {
		t.Error("expected offset segment to miss sphere")
	}
	// Degenerate segment inside the sphere.
	if !IntersectsSegment(sphere, center, shared.Position{X: 5}, shared.Position{X: 5}) {
		t.Error("expected zero-length segment at center to intersect")
	}
}

func TestSegmentBox(t *testing.T) {
	box := shared.Box(1, 1, 1)
	center := shared.Position{X: 5, Y: 0, Z: 0}

	if !IntersectsSegment(box, center, shared.Position{}, shared.Position{X: 10}) {
		t.Error("expected segment through box to intersect")
	}
	if IntersectsSegment(box, center, shared.Position{}, shared.Position{X: 3}) {
		t.Error("expected segment stopping short of box not to intersect")
	}
	if IntersectsSegment(box, center, shared.Position{Y: 3}, shared.Position{X: 10, Y: 3}) {
		t.Error("expected segment above box to miss")
	}
}

func TestStaticColliderShapeSelection(t *testing.T) {
	pos := shared.Position{X: 1, Y: 2, Z: 3}

	// A positive radius wins over a box size.
	box := shared.Position{X: 4, Y: 4, Z: 4}
	c := NewStaticCollider("a", shared.KindTree, pos, 2.0, &box)
	if c.Shape().Kind != shared.ShapeSphere || c.Shape().Radius != 2.0 {
		t.Errorf("expected sphere radius 2.0, got %+v", c.Shape())
	}

	// Box size applies when radius is absent.
	c = NewStaticCollider("b", shared.KindBuilding, pos, 0, &box)
	if c.Shape().Kind != shared.ShapeBox || c.Shape().HalfExtents != box {
		t.Errorf("expected box shape %+v, got %+v", box, c.Shape())
	}

	// Neither given falls back to the unit sphere.
	c = NewStaticCollider("c", shared.KindRock, pos, 0, nil)
	if c.Shape() != shared.UnitSphere() {
		t.Errorf("expected unit sphere fallback, got %+v", c.Shape())
	}

	if !c.Alive() {
		t.Error("static collider must always be alive")
	}
	if c.Owner() != nil {
		t.Error("static collider must have no owner")
	}
}
