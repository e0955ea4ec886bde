package game

import "math"

// RockType selects the rock material rendered by the client.
type RockType string

const (
	StandardRock RockType = "standard"
	DarkRock     RockType = "dark"
)

// RockFormation tags how a rock was placed. Mountains are impassable terrain
// rather than individual boulders and get a different collider kind.
type RockFormation string

const (
	ClusterFormation  RockFormation = "cluster"
	MountainFormation RockFormation = "mountain"
	SpireFormation    RockFormation = "spire"
)

// Rock is a static world obstacle with a sphere collider.
type Rock struct {
	Position  Position      `json:"position"`
	Type      RockType      `json:"type"`
	Size      float64       `json:"size"`
	Rotation  Position      `json:"rotation"`
	Scale     Position      `json:"scale"`
	Radius    float64       `json:"radius"`
	Formation RockFormation `json:"formation,omitempty"`
}

func newRock(size, x, y, z float64, rotation, scale Position, t RockType, formation RockFormation) Rock {
	maxScale := math.Max(scale.X, math.Max(scale.Y, scale.Z))
	return Rock{
		Position:  Position{X: x, Y: y, Z: z},
		Type:      t,
		Size:      size,
		Rotation:  rotation,
		Scale:     scale,
		Radius:    size * maxScale * 1.2,
		Formation: formation,
	}
}

func rockCluster(cx, cz float64, seed int) []Rock {
	rocks := make([]Rock, 0, 5)
	for i := 0; i < 5; i++ {
		angle := float64(i) / 5 * math.Pi * 2
		distance := 1 + math.Sin(float64(seed)+float64(i))*0.5

		x := cx + math.Cos(angle)*distance
		z := cz + math.Sin(angle)*distance
		y := 0.2 + math.Sin(float64(seed)*float64(i+1))*0.3

		base := 0.8 + math.Sin(float64(seed)*float64(i))*0.7
		t := StandardRock
		if i%2 != 0 {
			t = DarkRock
		}

		rocks = append(rocks, newRock(
			0.5+math.Sin(float64(seed)+float64(i*7))*0.3,
			x, y, z,
			Position{
				X: math.Sin(float64(seed)+float64(i)) * math.Pi,
				Y: math.Cos(float64(seed)+float64(i*2)) * math.Pi,
				Z: math.Sin(float64(seed)+float64(i*3)) * math.Pi,
			},
			Position{X: base, Y: base * 0.8, Z: base * 1.2},
			t, ClusterFormation,
		))
	}
	return rocks
}

// rockSpire is a tall stacked column covered by a single collider at its
// midpoint.
func rockSpire(x, z, height float64, seed int) Rock {
	return newRock(
		2.0,
		x, height/2, z,
		Position{Y: math.Sin(float64(seed)) * math.Pi * 2},
		Position{X: 1.0, Y: height / 4, Z: 1.0},
		StandardRock, SpireFormation,
	)
}

// mountainPeak is a single large collider; shells detonate on contact but the
// terrain itself is indestructible.
func mountainPeak(x, z, height, radius float64) Rock {
	r := newRock(
		radius,
		x, height*0.5, z,
		Position{},
		Position{X: 1.0, Y: 1.0, Z: 1.0},
		StandardRock, MountainFormation,
	)
	r.Radius = radius * 0.8
	return r
}

// generateRocks builds the rock layout: landmark clusters near spawn, noise
// driven cluster fields in the outer regions, sparse spires, and mountain
// peaks along the north and east edges.
func generateRocks() []Rock {
	var rocks []Rock

	// Circle of clusters around the spawn area.
	for i := 0; i < 8; i++ {
		angle := float64(i) / 8 * math.Pi * 2
		rocks = append(rocks, rockCluster(math.Cos(angle)*20, math.Sin(angle)*20, i)...)
	}

	// Clusters at the inner square corners.
	for i, corner := range []Position{
		{X: -100, Z: -100}, {X: -100, Z: 100},
		{X: 100, Z: -100}, {X: 100, Z: 100},
	} {
		rocks = append(rocks, rockCluster(corner.X, corner.Z, i+10)...)
	}

	rockDensity := func(x, z, biomeScale float64) float64 {
		return (fbm(x, z, 2, 2.0, 0.5, 234)*0.5 +
			fbm(x, z, 3, 2.2, 0.5, 567)*0.3 +
			fbm(x, z, 4, 2.5, 0.6, 789)*0.2) * biomeScale
	}

	clusterField := func(x0, x1, z0, z1, step, threshold, biomeScale float64) {
		for x := x0; x <= x1; x += step {
			for z := z0; z <= z1; z += step {
				if rockDensity(x, z, biomeScale) > threshold {
					seed := int(math.Floor(x*1000 + z))
					rocks = append(rocks, rockCluster(x, z, seed)...)
				}
			}
		}
	}

	clusterField(-400, 400, 280, 400, 30, 0.6, 1.2)  // north
	clusterField(280, 400, -400, 400, 30, 0.6, 1.2)  // east
	clusterField(-400, 400, -550, -400, 30, 0.62, 0.9) // south
	clusterField(-550, -400, -400, 400, 30, 0.62, 0.9) // west

	// Mountain peaks along the map edges.
	peakField := func(x0, x1, z0, z1, step float64) {
		for x := x0; x <= x1; x += step {
			for z := z0; z <= z1; z += step {
				v := rockDensity(x, z, 1.0)
				if v > 0.62 {
					height := 80 + fbm(x, z, 3, 1.8, 0.6, 654)*150
					radius := 40 + fbm(x, z, 2, 2.0, 0.5, 987)*60
					rocks = append(rocks, mountainPeak(x, z, height, radius))
				}
			}
		}
	}

	peakField(-350, 350, 420, 550, 60)
	peakField(420, 550, -350, 350, 60)

	// Sparse spires across the whole map.
	for x := -600.0; x <= 600.0; x += 150 {
		for z := -600.0; z <= 600.0; z += 150 {
			ox := fbm(x, z, 2, 2.0, 0.5, 777)*50 - 25
			oz := fbm(z, x, 2, 2.0, 0.5, 888)*50 - 25
			if rockDensity(x+ox, z+oz, 0.8) > 0.68 {
				height := 5 + fbm(x+ox, z+oz, 3, 1.8, 0.6, 654)*15
				rocks = append(rocks, rockSpire(x+ox, z+oz, height, int(math.Floor(x*z))))
			}
		}
	}

	return rocks
}
