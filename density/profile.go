// Package density provides density functors: pure mappings from an absolute
// domain cell coordinate to a non-negative relative density. A value of zero
// means vacuum; scaling to physical units happens in the species layer.
package density

import "github.com/nzeal/picongpu/grid"

// Profile maps an absolute cell coordinate to a relative density. It must be
// non-negative and must not keep state across cells.
type Profile interface {
	Density(cell grid.Idx3) float64
}

// Free wraps an arbitrary function as a Profile.
type Free struct {
	Fn func(cell grid.Idx3) float64
}

// Density evaluates the wrapped function, clamped at zero.
func (f Free) Density(cell grid.Idx3) float64 {
	return clamp0(f.Fn(cell))
}

func clamp0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
