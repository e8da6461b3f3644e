// Package startpos provides position functors: per-cell objects that decide
// how many macro-particles a cell receives and assign their in-cell positions
// and weightings, one particle per call, deterministically.
package startpos

import (
	"github.com/nzeal/picongpu/grid"
	"github.com/nzeal/picongpu/particle"
)

// CellContext identifies the cell a placer is built for.
type CellContext struct {
	// SuperCell is the guard-including supercell coordinate.
	SuperCell grid.Idx3
	// Cell is the in-supercell cell coordinate.
	Cell grid.Idx3
	// CellIndex is the linear in-supercell cell index (the frame slot).
	CellIndex int
	// AbsoluteCell is the absolute domain cell coordinate.
	AbsoluteCell grid.Idx3
}

// Policy builds a fresh placer for one cell. The placer is constructed once
// per cell per population run and keeps all per-cell placement state.
type Policy interface {
	ForCell(ctx CellContext) Placer
}

// Placer reports the macro-particle count for a cell and assigns successive
// positions and weightings. Repeated Place calls for a fixed cell produce a
// deterministic sequence; the call index is tracked internally.
type Placer interface {
	// NumberOfMacroParticles converts the expected real-particle count of
	// the cell into the macro-particle count. Must be called before Place.
	NumberOfMacroParticles(realPerCell float64) int
	// Place writes position and weighting of the next particle into the
	// record. The kernel sets mask, cell index and attribute defaults.
	Place(rec particle.Record)
}

// macroCount applies the shared counting rule: ppc macro-particles at full
// weighting, fewer when the per-particle weighting would drop below the
// species minimum. The comparison against zero is a genuine runtime branch;
// zero or negative real counts never create particles.
func macroCount(realPerCell float64, ppc int, minWeighting float64) (n int, weighting float32) {
	if realPerCell <= 0 {
		return 0, 0
	}
	n = ppc
	if minWeighting > 0 && realPerCell/float64(ppc) < minWeighting {
		n = int(realPerCell / minWeighting)
	}
	if n <= 0 {
		return 0, 0
	}
	return n, float32(realPerCell / float64(n))
}
