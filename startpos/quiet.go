package startpos

import "github.com/nzeal/picongpu/particle"

// Quiet places macro-particles on a regular in-cell lattice, eliminating the
// shot noise a random start would inject into the initial charge density.
type Quiet struct {
	PPC          int
	MinWeighting float64
}

// ForCell builds a lattice placer for one cell.
func (q Quiet) ForCell(CellContext) Placer {
	return &quietPlacer{ppc: q.PPC, minWeighting: q.MinWeighting}
}

type quietPlacer struct {
	ppc          int
	minWeighting float64

	dims      [3]int
	weighting float32
	call      int
}

func (p *quietPlacer) NumberOfMacroParticles(realPerCell float64) int {
	n, w := macroCount(realPerCell, p.ppc, p.minWeighting)
	p.weighting = w
	p.dims = latticeDims(n)
	return n
}

func (p *quietPlacer) Place(rec particle.Record) {
	k := p.call
	p.call++

	// Lattice coordinate of the k-th particle, x-fastest.
	cx := k % p.dims[0]
	k /= p.dims[0]
	cy := k % p.dims[1]
	cz := k / p.dims[1]

	rec.SetPosition([3]float32{
		(float32(cx) + 0.5) / float32(p.dims[0]),
		(float32(cy) + 0.5) / float32(p.dims[1]),
		(float32(cz) + 0.5) / float32(p.dims[2]),
	})
	rec.SetWeighting(p.weighting)
}

// latticeDims factorizes n into three axis counts whose product is exactly n,
// keeping the axes as balanced as the prime factors allow.
func latticeDims(n int) [3]int {
	dims := [3]int{1, 1, 1}
	if n < 1 {
		return dims
	}
	for f := 2; f*f <= n; {
		if n%f == 0 {
			*smallestAxis(&dims) *= f
			n /= f
		} else {
			f++
		}
	}
	// Remaining prime factor (or n itself when prime).
	if n > 1 {
		*smallestAxis(&dims) *= n
	}
	return dims
}

func smallestAxis(dims *[3]int) *int {
	min := &dims[0]
	for i := 1; i < 3; i++ {
		if dims[i] < *min {
			min = &dims[i]
		}
	}
	return min
}
