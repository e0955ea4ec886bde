package physics

import (
	"math"

	"tank-game/game/shared"
)

// Overlaps tests two placed shapes for intersection. Sphere-sphere uses a
// strict center-distance test (touching spheres do not collide), box-box
// uses AABB intersection and mixed pairs use sphere-vs-AABB. Any other
// combination, including malformed shapes, reports no collision.
func Overlaps(as shared.Shape, ap shared.Position, bs shared.Shape, bp shared.Position) bool {
	switch {
	case as.Kind == shared.ShapeSphere && bs.Kind == shared.ShapeSphere:
		return sphereSphere(ap, as.Radius, bp, bs.Radius)
	case as.Kind == shared.ShapeBox && bs.Kind == shared.ShapeBox:
		return boxBox(ap, as.HalfExtents, bp, bs.HalfExtents)
	case as.Kind == shared.ShapeSphere && bs.Kind == shared.ShapeBox:
		return sphereBox(ap, as.Radius, bp, bs.HalfExtents)
	case as.Kind == shared.ShapeBox && bs.Kind == shared.ShapeSphere:
		return sphereBox(bp, bs.Radius, ap, as.HalfExtents)
	default:
		return false
	}
}

func sphereSphere(a shared.Position, ra float64, b shared.Position, rb float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	distanceSquared := dx*dx + dy*dy + dz*dz

	sumRadii := ra + rb
	return distanceSquared < sumRadii*sumRadii
}

func boxBox(a, ae, b, be shared.Position) bool {
	return math.Abs(a.X-b.X) < ae.X+be.X &&
		math.Abs(a.Y-b.Y) < ae.Y+be.Y &&
		math.Abs(a.Z-b.Z) < ae.Z+be.Z
}

// sphereBox clamps the sphere center onto the box and compares the distance
// to the closest point against the radius.
func sphereBox(c shared.Position, r float64, b, be shared.Position) bool {
	cx := clamp(c.X, b.X-be.X, b.X+be.X)
	cy := clamp(c.Y, b.Y-be.Y, b.Y+be.Y)
	cz := clamp(c.Z, b.Z-be.Z, b.Z+be.Z)

	dx := c.X - cx
	dy := c.Y - cy
	dz := c.Z - cz
	return dx*dx+dy*dy+dz*dz < r*r
}

// ContainsPoint reports whether a placed shape contains the point. Malformed
// shapes contain nothing.
func ContainsPoint(s shared.Shape, pos, point shared.Position) bool {
	switch s.Kind {
	case shared.ShapeSphere:
		dx := point.X - pos.X
		dy := point.Y - pos.Y
		dz := point.Z - pos.Z
		return dx*dx+dy*dy+dz*dz < s.Radius*s.Radius
	case shared.ShapeBox:
		return math.Abs(point.X-pos.X) < s.HalfExtents.X &&
			math.Abs(point.Y-pos.Y) < s.HalfExtents.Y &&
			math.Abs(point.Z-pos.Z) < s.HalfExtents.Z
	default:
		return false
	}
}

// IntersectsSegment reports whether the segment from start to end passes
// through a placed shape. Used for line-of-sight checks against scenery.
func IntersectsSegment(s shared.Shape, pos, start, end shared.Position) bool {
	switch s.Kind {
	case shared.ShapeSphere:
		return segmentSphere(start, end, pos, s.Radius)
	case shared.ShapeBox:
		return segmentBox(start, end, pos, s.HalfExtents)
	default:
		return false
	}
}

// segmentSphere solves the quadratic for a ray against a sphere and checks
// the intersection parameters against the segment length.
func segmentSphere(start, end, center shared.Position, radius float64) bool {
	dx := end.X - start.X
	dy := end.Y - start.Y
	dz := end.Z - start.Z

	rayLength := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if rayLength < 0.001 {
		sx := start.X - center.X
		sy := start.Y - center.Y
		sz := start.Z - center.Z
		return sx*sx+sy*sy+sz*sz <= radius*radius
	}

	dx /= rayLength
	dy /= rayLength
	dz /= rayLength

	ox := start.X - center.X
	oy := start.Y - center.Y
	oz := start.Z - center.Z

	b := 2 * (ox*dx + oy*dy + oz*dz)
	c := ox*ox + oy*oy + oz*oz - radius*radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / 2
	t2 := (-b + sqrtD) / 2

	return (t1 >= 0 && t1 <= rayLength) || (t2 >= 0 && t2 <= rayLength)
}

// segmentBox is the slab test against an axis-aligned box.
func segmentBox(start, end, center, he shared.Position) bool {
	dir := shared.Position{X: end.X - start.X, Y: end.Y - start.Y, Z: end.Z - start.Z}

	tmin := 0.0
	tmax := 1.0

	for _, axis := range [3][3]float64{
		{start.X - center.X, dir.X, he.X},
		{start.Y - center.Y, dir.Y, he.Y},
		{start.Z - center.Z, dir.Z, he.Z},
	} {
		origin, d, extent := axis[0], axis[1], axis[2]
		if math.Abs(d) < 1e-12 {
			if origin < -extent || origin > extent {
				return false
			}
			continue
		}
		t1 := (-extent - origin) / d
		t2 := (extent - origin) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
