package game

import "math"

// TreeType selects the tree model rendered by the client.
type TreeType string

const (
	PineTree  TreeType = "pine"
	RoundTree TreeType = "round"
)

// Tree is a static world obstacle with a sphere collider.
type Tree struct {
	Position Position `json:"position"`
	Type     TreeType `json:"type"`
	Scale    float64  `json:"scale"`
	Radius   float64  `json:"radius"`
}

func newTree(t TreeType, scale, x, z float64) Tree {
	radius := 1.0 * scale
	if t == RoundTree {
		radius = 1.2 * scale
	}
	return Tree{
		Position: Position{X: x, Y: radius, Z: z},
		Type:     t,
		Scale:    scale,
		Radius:   radius,
	}
}

// generateTrees builds the full forest layout. Ring formations around the
// spawn area and groves at the map corners are fixed landmarks; the outer
// forests come from fractal noise so the layout reads as natural while
// staying deterministic.
func generateTrees() []Tree {
	var trees []Tree

	ring := func(radius float64, count int, t TreeType) {
		for i := 0; i < count; i++ {
			angle := float64(i) / float64(count) * math.Pi * 2
			scale := 1.0 + (math.Sin(angle*3)+1)*0.3
			trees = append(trees, newTree(t, scale, math.Cos(angle)*radius, math.Sin(angle)*radius))
		}
	}

	grove := func(cx, cz, radius float64, count int) {
		for i := 0; i < count; i++ {
			angle := float64(i) / float64(count) * math.Pi * 2
			t := PineTree
			if i%2 != 0 {
				t = RoundTree
			}
			trees = append(trees, newTree(t, 1.5, cx+math.Cos(angle)*radius, cz+math.Sin(angle)*radius))
		}
	}

	// Spawn area rings.
	ring(30, 10, PineTree)
	ring(45, 12, RoundTree)
	ring(60, 16, PineTree)

	// Corner groves.
	grove(200, 200, 40, 12)
	grove(-200, -200, 40, 12)
	grove(200, -200, 40, 12)
	grove(-200, 200, 40, 12)

	// Noise forests in the four outer regions.
	forest := func(x0, x1, z0, z1, step, threshold, baseScale float64, t TreeType) {
		for x := x0; x <= x1; x += step {
			for z := z0; z <= z1; z += step {
				density := fbm(x, z, 3, 2.0, 0.5, 42)*0.4 +
					fbm(x, z, 4, 2.0, 0.5, 123)*0.4 +
					fbm(x, z, 6, 2.2, 0.6, 987)*0.2
				if density <= threshold {
					continue
				}
				kind := t
				if kind == "" {
					if fbm(x, z, 2, 2.5, 0.5, 789) > 0.5 {
						kind = PineTree
					} else {
						kind = RoundTree
					}
				}
				scale := baseScale + fbm(x, z, 3, 2.0, 0.5, 555)*0.5
				trees = append(trees, newTree(kind, scale, x, z))
			}
		}
	}

	forest(-400, 400, 400, 800, 20, 0.46, 1.2, PineTree)
	forest(-400, 400, -800, -400, 20, 0.5, 1.0, RoundTree)
	forest(400, 800, -400, 400, 25, 0.54, 1.1, "")
	forest(-800, -400, -400, 400, 25, 0.54, 1.1, "")

	// Tree lines marking the two roads through the map.
	for z := -1000.0; z <= 1000.0; z += 30 {
		trees = append(trees, newTree(PineTree, 1.5, -15, z), newTree(PineTree, 1.5, 15, z))
	}
	for x := -1000.0; x <= 1000.0; x += 30 {
		trees = append(trees, newTree(RoundTree, 1.3, x, -15), newTree(RoundTree, 1.3, x, 15))
	}

	// Landmark: one oversized pine north of the origin.
	trees = append(trees, newTree(PineTree, 4.0, 0, 100))

	return trees
}
