package startpos

import (
	"math/rand"

	"github.com/nzeal/picongpu/particle"
)

// Random places macro-particles uniformly at random within the cell. The RNG
// is seeded from the species seed and the absolute cell coordinate, so the
// sequence for a fixed cell is reproducible across runs regardless of lane
// assignment or launch order.
type Random struct {
	PPC          int
	MinWeighting float64
	Seed         int64
}

// ForCell builds a randomly placing placer for one cell.
func (r Random) ForCell(ctx CellContext) Placer {
	return &randomPlacer{
		ppc:          r.PPC,
		minWeighting: r.MinWeighting,
		rng:          rand.New(rand.NewSource(cellSeed(r.Seed, ctx))),
	}
}

// cellSeed mixes the species seed with the absolute cell coordinate.
func cellSeed(seed int64, ctx CellContext) int64 {
	h := uint64(seed) ^ 0x9e3779b97f4a7c15
	for _, c := range [3]int{ctx.AbsoluteCell.X, ctx.AbsoluteCell.Y, ctx.AbsoluteCell.Z} {
		h ^= uint64(int64(c))
		h *= 0xbf58476d1ce4e5b9
		h ^= h >> 27
	}
	return int64(h)
}

type randomPlacer struct {
	ppc          int
	minWeighting float64
	rng          *rand.Rand
	weighting    float32
}

func (p *randomPlacer) NumberOfMacroParticles(realPerCell float64) int {
	n, w := macroCount(realPerCell, p.ppc, p.minWeighting)
	p.weighting = w
	return n
}

func (p *randomPlacer) Place(rec particle.Record) {
	rec.SetPosition([3]float32{
		p.rng.Float32(),
		p.rng.Float32(),
		p.rng.Float32(),
	})
	rec.SetWeighting(p.weighting)
}
