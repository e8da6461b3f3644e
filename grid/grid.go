// Package grid provides integer cell coordinates, flattened-index conversion,
// and the supercell mapper that translates group coordinates into absolute
// domain cell coordinates.
package grid

// Idx3 is an integer coordinate or extent in 3D cell space.
type Idx3 struct {
	X, Y, Z int
}

// Add returns the component-wise sum of two coordinates.
func (a Idx3) Add(b Idx3) Idx3 {
	return Idx3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the component-wise difference of two coordinates.
func (a Idx3) Sub(b Idx3) Idx3 {
	return Idx3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product of two coordinates.
func (a Idx3) Mul(b Idx3) Idx3 {
	return Idx3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Volume returns the number of cells in the extent. Zero or negative
// components yield zero.
func (a Idx3) Volume() int {
	if a.X <= 0 || a.Y <= 0 || a.Z <= 0 {
		return 0
	}
	return a.X * a.Y * a.Z
}

// Flatten converts a coordinate within extent ext to a linear index,
// x-fastest. The caller must pass a coordinate inside the extent.
func Flatten(p, ext Idx3) int {
	return p.X + ext.X*(p.Y+ext.Y*p.Z)
}

// Unflatten converts a linear index back to a coordinate within extent ext,
// x-fastest. Inverse of Flatten for indices in [0, ext.Volume()).
func Unflatten(i int, ext Idx3) Idx3 {
	x := i % ext.X
	i /= ext.X
	y := i % ext.Y
	z := i / ext.Y
	return Idx3{x, y, z}
}
