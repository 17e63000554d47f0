package mapgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Ruggedness anchor points for the octave/persistence mapping. The
// mapping is piecewise-linear, monotonic, and clamps outside the anchors:
// ruggedness 0.5 -> 2 octaves / 0.40 persistence, 1.0 -> 4 / 0.60,
// 2.0 -> 6 / 0.80.
const (
	RuggednessMin = 0.5
	RuggednessMax = 2.0
)

// ruggednessOctaves maps ruggedness to an fBm octave count.
func ruggednessOctaves(r float64) int {
	r = clampFloat(r, RuggednessMin, RuggednessMax)
	var o float64
	if r <= 1.0 {
		o = 2 + (r-0.5)/0.5*2 // 0.5->2, 1.0->4
	} else {
		o = 4 + (r-1.0)/1.0*2 // 1.0->4, 2.0->6
	}
	return int(math.Round(o))
}

// ruggednessPersistence maps ruggedness to fBm persistence.
func ruggednessPersistence(r float64) float64 {
	r = clampFloat(r, RuggednessMin, RuggednessMax)
	if r <= 1.0 {
		return 0.40 + (r-0.5)/0.5*0.20 // 0.5->0.40, 1.0->0.60
	}
	return 0.60 + (r-1.0)/1.0*0.20 // 1.0->0.60, 2.0->0.80
}

// fbm2D samples multi-octave simplex noise in [0,1]. Octave count and
// persistence come from the ruggedness mapping above; lacunarity is fixed
// at 2 so the spectrum stays stable under re-seeding.
func fbm2D(n opensimplex.Noise, x, y float64, octaves int, persistence float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	norm := 0.0
	for o := 0; o < octaves; o++ {
		sum += amp * n.Eval2(x*freq, y*freq)
		norm += amp
		amp *= persistence
		freq *= 2
	}
	if norm == 0 {
		return 0.5
	}
	return clampFloat(sum/norm, 0, 1)
}

// --- Lattice value noise (thresholded detail fields) ---

// valueNoise2D returns a smooth noise value in [0,1] for the given
// coordinates. Lattice-based value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	// Hermite smoothstep.
	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue returns a pseudo-random value in [0,1] for integer coordinates.
func latticeValue(x, y int, seed int64) float64 {
	// Hash combine x, y, seed into a deterministic value.
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
