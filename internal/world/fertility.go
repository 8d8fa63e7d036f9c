package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Fertility is a smooth soil-quality field over the map. It is sampled, not
// drawn, so it never disturbs the generator's random stream.
type Fertility struct {
	noise opensimplex.Noise
}

// NewFertility creates a fertility field for a seed.
func NewFertility(seed int64) *Fertility {
	return &Fertility{noise: opensimplex.NewNormalized(seed)}
}

// At returns fertility in [0, 1] at a tile.
func (f *Fertility) At(x, y int) float64 {
	v := octaveNoise(f.noise, float64(x), float64(y), 3, 0.08, 0.5)
	return math.Max(0, math.Min(1, v))
}

// Potency scales a base potency by ±variance according to fertility,
// rounded to three decimals.
func (f *Fertility) Potency(base, variance float64, x, y int) float64 {
	p := base * (1 + variance*(2*f.At(x, y)-1))
	return math.Round(p*1000) / 1000
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
