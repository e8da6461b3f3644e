package density

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/nzeal/picongpu/grid"
)

// Simplex is an OpenSimplex noise profile normalized to [0,1]. Wavelength is
// the noise feature size in cells; Threshold cuts everything below it to
// vacuum and rescales the rest, carving sharp-edged plasma structures.
type Simplex struct {
	noise      opensimplex.Noise
	wavelength float64
	threshold  float64
}

// NewSimplex creates a Simplex profile. Wavelength <= 0 defaults to 32 cells;
// Threshold is clamped into [0,1).
func NewSimplex(seed int64, wavelength, threshold float64) *Simplex {
	if wavelength <= 0 {
		wavelength = 32
	}
	if threshold < 0 {
		threshold = 0
	}
	if threshold >= 1 {
		threshold = 0.99
	}
	return &Simplex{
		noise:      opensimplex.NewNormalized(seed),
		wavelength: wavelength,
		threshold:  threshold,
	}
}

// Density evaluates the noise at the cell center.
func (s *Simplex) Density(cell grid.Idx3) float64 {
	x := (float64(cell.X) + 0.5) / s.wavelength
	y := (float64(cell.Y) + 0.5) / s.wavelength
	z := (float64(cell.Z) + 0.5) / s.wavelength
	v := s.noise.Eval3(x, y, z)
	if v <= s.threshold {
		return 0
	}
	return (v - s.threshold) / (1 - s.threshold)
}
