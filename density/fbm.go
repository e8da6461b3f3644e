package density

import (
	"math"

	"github.com/nzeal/picongpu/grid"
)

// FBM is a fractal value-noise profile: several octaves of hashed lattice
// noise summed and contrast-shaped into [0,1]. Wavelength is the size of the
// base noise feature in cells.
type FBM struct {
	Wavelength float64
	Octaves    int
	Lacunarity float64
	Gain       float64
	Contrast   float64 // Exponent; higher = sparser high-density patches.
	Seed       uint32
}

// Density evaluates the fractal noise at the cell center.
func (f FBM) Density(cell grid.Idx3) float64 {
	wl := f.Wavelength
	if wl <= 0 {
		wl = 32
	}
	octaves := f.Octaves
	if octaves < 1 {
		octaves = 4
	}
	lac := f.Lacunarity
	if lac <= 0 {
		lac = 2
	}
	gain := f.Gain
	if gain <= 0 {
		gain = 0.5
	}

	x := (float64(cell.X) + 0.5) / wl
	y := (float64(cell.Y) + 0.5) / wl
	z := (float64(cell.Z) + 0.5) / wl

	sum := 0.0
	amp := 0.5
	for o := 0; o < octaves; o++ {
		sum += amp * f.valueNoise(x, y, z)
		x *= lac
		y *= lac
		z *= lac
		amp *= gain
	}

	contrast := f.Contrast
	if contrast <= 0 {
		contrast = 1
	}
	return clamp01(math.Pow(clamp01(sum), contrast))
}

// valueNoise is trilinearly interpolated hashed lattice noise in [0,1).
func (f FBM) valueNoise(x, y, z float64) float64 {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	iz := int(math.Floor(z))

	fx := smoothstep(x - float64(ix))
	fy := smoothstep(y - float64(iy))
	fz := smoothstep(z - float64(iz))

	c000 := f.hash(ix, iy, iz)
	c100 := f.hash(ix+1, iy, iz)
	c010 := f.hash(ix, iy+1, iz)
	c110 := f.hash(ix+1, iy+1, iz)
	c001 := f.hash(ix, iy, iz+1)
	c101 := f.hash(ix+1, iy, iz+1)
	c011 := f.hash(ix, iy+1, iz+1)
	c111 := f.hash(ix+1, iy+1, iz+1)

	x00 := c000 + (c100-c000)*fx
	x10 := c010 + (c110-c010)*fx
	x01 := c001 + (c101-c001)*fx
	x11 := c011 + (c111-c011)*fx

	y0 := x00 + (x10-x00)*fy
	y1 := x01 + (x11-x01)*fy
	return y0 + (y1-y0)*fz
}

// hash generates a pseudo-random float in [0,1) from lattice coordinates.
func (f FBM) hash(ix, iy, iz int) float64 {
	x := uint32(ix)
	y := uint32(iy)
	z := uint32(iz)
	h := x*374761393 + y*668265263 + z*2246822519 + f.Seed*1442695041
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h&0x00FFFFFF) / float64(0x01000000)
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
