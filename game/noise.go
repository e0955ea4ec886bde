package game

import "math"

// Deterministic gradient noise used by the world generators. The map must be
// identical on every server start, so nothing here touches math/rand.

func permute(i, seed int) int {
	return ((i * 34) + seed*6547 + 12345) % 289
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func gradient(h int, x, y float64) float64 {
	h %= 4
	u, v := x, y
	if h >= 2 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v * 2
	} else {
		v = v * 2
	}
	return u + v
}

// noise2D returns smoothed gradient noise in [0, 1].
func noise2D(x, y float64, seed int) float64 {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	fx := x - float64(ix)
	fy := y - float64(iy)

	a := permute(ix, seed) + permute(iy, seed)
	b := permute(ix+1, seed) + permute(iy, seed)
	c := permute(ix, seed) + permute(iy+1, seed)
	d := permute(ix+1, seed) + permute(iy+1, seed)

	ga := gradient(a, fx, fy)
	gb := gradient(b, fx-1, fy)
	gc := gradient(c, fx, fy-1)
	gd := gradient(d, fx-1, fy-1)

	u := fade(fx)
	v := fade(fy)

	result := (1-u)*((1-v)*ga+v*gc) + u*((1-v)*gb+v*gd)
	return math.Max(0, math.Min(1, (result+1)*0.5))
}

// fbm layers noise2D octaves into fractal Brownian motion, normalized to [0, 1].
func fbm(x, y float64, octaves int, lacunarity, persistence float64, seed int) float64 {
	total := 0.0
	frequency := 0.005
	amplitude := 1.0
	maxValue := 0.0

	for i := 0; i < octaves; i++ {
		total += noise2D(x*frequency, y*frequency, seed+i*1000) * amplitude
		maxValue += amplitude
		frequency *= lacunarity
		amplitude *= persistence
	}
	return total / maxValue
}
