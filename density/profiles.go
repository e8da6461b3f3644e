package density

import (
	"math"

	"github.com/nzeal/picongpu/grid"
)

// Uniform is a constant density everywhere.
type Uniform struct {
	Value float64
}

// Density returns the constant value.
func (u Uniform) Density(grid.Idx3) float64 { return clamp0(u.Value) }

// GaussianCloud is a separable Gaussian centered at Center (cell units) with
// per-axis Sigma. Density at the center is 1.
type GaussianCloud struct {
	Center [3]float64
	Sigma  [3]float64
}

// Density evaluates the Gaussian at the cell center.
func (g GaussianCloud) Density(cell grid.Idx3) float64 {
	p := [3]float64{float64(cell.X) + 0.5, float64(cell.Y) + 0.5, float64(cell.Z) + 0.5}
	var e float64
	for i := 0; i < 3; i++ {
		if g.Sigma[i] <= 0 {
			continue
		}
		d := (p[i] - g.Center[i]) / g.Sigma[i]
		e += d * d
	}
	return math.Exp(-0.5 * e)
}

// LinearRamp rises linearly from 0 at cell From to 1 at cell To along one
// axis (0=x, 1=y, 2=z), clamped outside. From > To yields a downramp.
type LinearRamp struct {
	Axis     int
	From, To float64
}

// Density evaluates the ramp at the cell center.
func (r LinearRamp) Density(cell grid.Idx3) float64 {
	var x float64
	switch r.Axis {
	case 1:
		x = float64(cell.Y) + 0.5
	case 2:
		x = float64(cell.Z) + 0.5
	default:
		x = float64(cell.X) + 0.5
	}
	if r.From == r.To {
		if x >= r.To {
			return 1
		}
		return 0
	}
	t := (x - r.From) / (r.To - r.From)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Sphere is 1 inside a ball of Radius around Center (cell units), 0 outside.
type Sphere struct {
	Center [3]float64
	Radius float64
}

// Density evaluates membership at the cell center.
func (s Sphere) Density(cell grid.Idx3) float64 {
	dx := float64(cell.X) + 0.5 - s.Center[0]
	dy := float64(cell.Y) + 0.5 - s.Center[1]
	dz := float64(cell.Z) + 0.5 - s.Center[2]
	if dx*dx+dy*dy+dz*dz <= s.Radius*s.Radius {
		return 1
	}
	return 0
}
