package startpos

import "github.com/nzeal/picongpu/particle"

// OnePosition places every macro-particle of a cell at the same fixed in-cell
// position. Useful for cold, perfectly ordered starts and for tests.
type OnePosition struct {
	PPC          int
	MinWeighting float64
	Position     [3]float32 // each component in [0,1)
}

// ForCell builds a fixed-position placer for one cell.
func (o OnePosition) ForCell(CellContext) Placer {
	return &onePositionPlacer{ppc: o.PPC, minWeighting: o.MinWeighting, pos: o.Position}
}

type onePositionPlacer struct {
	ppc          int
	minWeighting float64
	pos          [3]float32
	weighting    float32
}

func (p *onePositionPlacer) NumberOfMacroParticles(realPerCell float64) int {
	n, w := macroCount(realPerCell, p.ppc, p.minWeighting)
	p.weighting = w
	return n
}

func (p *onePositionPlacer) Place(rec particle.Record) {
	rec.SetPosition(p.pos)
	rec.SetWeighting(p.weighting)
}
