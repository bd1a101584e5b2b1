// Pond-floor depth generation using layered simplex noise.
package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// DepthMap is a static pond-floor depth field with one value in [0, 1] per
// cell (0 = shallow, 1 = deep). It exists purely for renderers; the
// simulation itself never reads it.
type DepthMap struct {
	width  int
	height int
	depths []float64 // row-major
}

// GenerateDepthMap builds a depth field for a width×height pond,
// deterministic for a given seed.
func GenerateDepthMap(width, height int, seed int64) *DepthMap {
	noise := opensimplex.NewNormalized(seed)

	d := &DepthMap{
		width:  width,
		height: height,
		depths: make([]float64, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d.depths[y*width+x] = octaveNoise(noise, float64(x), float64(y), 3, 0.15, 0.5)
		}
	}
	return d
}

// Width returns the map width in cells.
func (d *DepthMap) Width() int { return d.width }

// Height returns the map height in cells.
func (d *DepthMap) Height() int { return d.height }

// At returns the depth at a coordinate. Coordinates must be in bounds.
func (d *DepthMap) At(c Coord) float64 {
	return d.depths[c.Y*d.width+c.X]
}

// Values returns a row-major copy of the depth field.
func (d *DepthMap) Values() []float64 {
	out := make([]float64, len(d.depths))
	copy(out, d.depths)
	return out
}

// octaveNoise layers multiple noise octaves for a natural-looking field.
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
