package seeding

import (
	"errors"
	"sync"
	"testing"

	"github.com/nzeal/picongpu/density"
	"github.com/nzeal/picongpu/grid"
	"github.com/nzeal/picongpu/particle"
	"github.com/nzeal/picongpu/species"
	"github.com/nzeal/picongpu/startpos"
)

// testMapper covers one 4x4x4 supercell with no guard and no offset.
func testMapper() grid.Mapper {
	return grid.Mapper{
		SuperCellSize:   grid.Idx3{X: 4, Y: 4, Z: 4},
		LocalSuperCells: grid.Idx3{X: 1, Y: 1, Z: 1},
	}
}

func testKernel(sp *species.Species, poolFrames int) (*Kernel, *particle.Box) {
	m := testMapper()
	pool := particle.NewPool(poolFrames, m.CellsPerSuperCell(), sp.Schema)
	box := particle.NewBox(pool, m.GridSuperCells())
	return &Kernel{
		Species:    sp,
		Box:        box,
		Mapper:     m,
		CellVolume: 1,
		Lanes:      m.CellsPerSuperCell(),
	}, box
}

func TestPopulateVacuumSuperCell(t *testing.T) {
	sp := &species.Species{
		Name:         "e",
		Profile:      density.Uniform{Value: 0},
		DensityScale: 1,
		Policy:       startpos.Quiet{PPC: 2},
		PPC:          2,
	}
	k, box := testKernel(sp, 4)

	res, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Particles != 0 || res.Frames != 0 {
		t.Errorf("expected empty result for vacuum, got %+v", res)
	}
	if box.Pool().InUse() != 0 {
		t.Error("expected no frame allocated for a vacuum supercell")
	}
	if box.FrameCount(k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})) != 0 {
		t.Error("expected empty chain for a vacuum supercell")
	}
}

func TestPopulateSingleCell(t *testing.T) {
	// Only absolute cell (0,0,0) carries density; it wants 3 particles.
	sp := &species.Species{
		Name: "e",
		Profile: density.Free{Fn: func(cell grid.Idx3) float64 {
			if cell == (grid.Idx3{X: 0, Y: 0, Z: 0}) {
				return 3
			}
			return 0
		}},
		DensityScale: 1,
		Policy:       startpos.OnePosition{PPC: 3, Position: [3]float32{0.25, 0.5, 0.75}},
		PPC:          3,
	}
	k, box := testKernel(sp, 8)

	res, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Particles != 3 {
		t.Errorf("expected 3 particles, got %d", res.Particles)
	}
	// One frame per fill round: a cell wanting 3 particles spans 3 frames.
	if res.Frames != 3 {
		t.Errorf("expected 3 frames, got %d", res.Frames)
	}

	sc := k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	ids := box.Frames(sc)
	if len(ids) != 3 {
		t.Fatalf("expected a 3-frame chain, got %d", len(ids))
	}
	for i, id := range ids {
		frame := box.Frame(id)
		if got := frame.ActiveCount(); got != 1 {
			t.Errorf("frame %d: expected 1 active slot, got %d", i, got)
		}
		rec := frame.Record(0)
		if !rec.Active() {
			t.Fatalf("frame %d: expected slot 0 active", i)
		}
		if rec.CellIndex() != 0 {
			t.Errorf("frame %d: expected cell index 0, got %d", i, rec.CellIndex())
		}
		if got := rec.Position(); got != [3]float32{0.25, 0.5, 0.75} {
			t.Errorf("frame %d: expected the fixed position, got %v", i, got)
		}
		if got := rec.Weighting(); got != 1 {
			t.Errorf("frame %d: expected weighting 1, got %f", i, got)
		}
	}
}

func TestPopulateMatchesIsolatedPlacement(t *testing.T) {
	policy := startpos.Quiet{PPC: 3, MinWeighting: 1}
	sp := &species.Species{
		Name: "e",
		Profile: density.Free{Fn: func(cell grid.Idx3) float64 {
			if cell == (grid.Idx3{X: 0, Y: 0, Z: 0}) {
				return 3
			}
			return 0
		}},
		DensityScale: 1,
		Policy:       policy,
		PPC:          3,
	}
	k, box := testKernel(sp, 8)

	if _, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Reference: the same placer driven in isolation.
	ref := policy.ForCell(startpos.CellContext{})
	n := ref.NumberOfMacroParticles(3)
	if n != 3 {
		t.Fatalf("expected 3 reference particles, got %d", n)
	}
	scratch := particle.NewPool(1, 1, nil)
	scratchID, _ := scratch.AllocEmpty()

	sc := k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	ids := box.Frames(sc)
	if len(ids) != n {
		t.Fatalf("expected %d frames, got %d", n, len(ids))
	}
	for i, id := range ids {
		rec := scratch.Frame(scratchID).Record(0)
		ref.Place(rec)

		got := box.Frame(id).Record(0)
		if got.Position() != rec.Position() {
			t.Errorf("frame %d: position %v, isolated placer gives %v", i, got.Position(), rec.Position())
		}
		if got.Weighting() != rec.Weighting() {
			t.Errorf("frame %d: weighting %f, isolated placer gives %f", i, got.Weighting(), rec.Weighting())
		}
	}
}

func TestPopulateFullSuperCell(t *testing.T) {
	sp := &species.Species{
		Name:         "e",
		Profile:      density.Uniform{Value: 1},
		DensityScale: 2,
		Policy:       startpos.Quiet{PPC: 2},
		PPC:          2,
	}
	k, box := testKernel(sp, 4)

	res, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every cell wants 2 particles: 2 full rounds, 64 cells each.
	if res.Particles != 128 {
		t.Errorf("expected 128 particles, got %d", res.Particles)
	}
	if res.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", res.Frames)
	}

	sc := k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	if got := box.ActiveCount(sc); got != res.Particles {
		t.Errorf("active slots (%d) disagree with reported particles (%d)", got, res.Particles)
	}
	for i, id := range box.Frames(sc) {
		if got := box.Frame(id).ActiveCount(); got != 64 {
			t.Errorf("frame %d: expected all 64 slots active, got %d", i, got)
		}
	}
}

func TestPopulateStopsAtConvergence(t *testing.T) {
	// One cell wants 3 particles, the rest want 1: exactly 3 rounds.
	sp := &species.Species{
		Name: "e",
		Profile: density.Free{Fn: func(cell grid.Idx3) float64 {
			if cell == (grid.Idx3{X: 0, Y: 0, Z: 0}) {
				return 3
			}
			return 1
		}},
		DensityScale: 1,
		Policy:       startpos.Quiet{PPC: 3, MinWeighting: 1},
		PPC:          3,
	}
	k, box := testKernel(sp, 8)

	res, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Frames != 3 {
		t.Errorf("expected frames to match the largest per-cell count (3), got %d", res.Frames)
	}
	if want := 63 + 3; res.Particles != want {
		t.Errorf("expected %d particles, got %d", want, res.Particles)
	}

	sc := k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	ids := box.Frames(sc)
	wantActive := []int{64, 1, 1}
	for i, id := range ids {
		if got := box.Frame(id).ActiveCount(); got != wantActive[i] {
			t.Errorf("frame %d: expected %d active slots, got %d", i, wantActive[i], got)
		}
	}
}

func TestPopulateRerunDuplicates(t *testing.T) {
	sp := &species.Species{
		Name:         "e",
		Profile:      density.Uniform{Value: 1},
		DensityScale: 1,
		Policy:       startpos.Quiet{PPC: 1},
		PPC:          1,
	}
	k, box := testKernel(sp, 4)

	for run := 0; run < 2; run++ {
		if _, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0}); err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
	}

	sc := k.Mapper.SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	if got := box.FrameCount(sc); got != 2 {
		t.Errorf("expected re-running to append a second frame, got %d", got)
	}
	if got := box.ActiveCount(sc); got != 128 {
		t.Errorf("expected duplicated particles (128), got %d", got)
	}
}

func TestPopulatePoolExhaustion(t *testing.T) {
	sp := &species.Species{
		Name:         "e",
		Profile:      density.Uniform{Value: 2},
		DensityScale: 1,
		Policy:       startpos.Quiet{PPC: 2},
		PPC:          2,
	}
	// Two rounds needed, one frame available.
	k, _ := testKernel(sp, 1)

	_, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0})
	if !errors.Is(err, particle.ErrExhausted) {
		t.Fatalf("expected pool exhaustion error, got %v", err)
	}
}

func TestPopulateLaneCountInvariance(t *testing.T) {
	build := func(lanes int) *particle.Box {
		sp := &species.Species{
			Name:         "e",
			Profile:      density.Uniform{Value: 2},
			DensityScale: 1,
			Policy:       startpos.Random{PPC: 2, Seed: 7},
			PPC:          2,
		}
		k, box := testKernel(sp, 4)
		k.Lanes = lanes
		if _, err := k.PopulateSuperCell(grid.Idx3{X: 0, Y: 0, Z: 0}); err != nil {
			t.Fatalf("lanes=%d: unexpected error: %v", lanes, err)
		}
		return box
	}

	sc := testMapper().SuperCellIndex(grid.Idx3{X: 0, Y: 0, Z: 0})
	ref := build(64)
	for _, lanes := range []int{1, 3, 16} {
		box := build(lanes)

		refIDs := ref.Frames(sc)
		ids := box.Frames(sc)
		if len(ids) != len(refIDs) {
			t.Fatalf("lanes=%d: expected %d frames, got %d", lanes, len(refIDs), len(ids))
		}
		for fi := range ids {
			rf := ref.Frame(refIDs[fi])
			f := box.Frame(ids[fi])
			for slot := 0; slot < f.Slots(); slot++ {
				a, b := rf.Record(slot), f.Record(slot)
				if a.Active() != b.Active() {
					t.Fatalf("lanes=%d: frame %d slot %d activity differs", lanes, fi, slot)
				}
				if a.Active() && a.Position() != b.Position() {
					t.Errorf("lanes=%d: frame %d slot %d position %v vs %v",
						lanes, fi, slot, b.Position(), a.Position())
				}
			}
		}
	}
}

func TestPopulatePassesAbsoluteCells(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[grid.Idx3]bool)

	sp := &species.Species{
		Name: "e",
		Profile: density.Free{Fn: func(cell grid.Idx3) float64 {
			mu.Lock()
			seen[cell] = true
			mu.Unlock()
			return 1
		}},
		DensityScale: 1,
		Policy:       startpos.Quiet{PPC: 1},
		PPC:          1,
	}

	m := grid.Mapper{
		SuperCellSize:   grid.Idx3{X: 4, Y: 4, Z: 4},
		LocalSuperCells: grid.Idx3{X: 2, Y: 1, Z: 1},
		Guard:           1,
		DomainOffset:    grid.Idx3{X: 100, Y: 0, Z: 0},
	}
	pool := particle.NewPool(4, m.CellsPerSuperCell(), nil)
	box := particle.NewBox(pool, m.GridSuperCells())
	k := &Kernel{Species: sp, Box: box, Mapper: m, CellVolume: 1, Lanes: 8}

	// Populate the second local supercell along x.
	if _, err := k.PopulateSuperCell(grid.Idx3{X: 1, Y: 0, Z: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The density functor must see absolute domain coordinates: offset plus
	// the local supercell origin, never guard coordinates.
	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				want := grid.Idx3{X: 104 + x, Y: y, Z: z}
				if !seen[want] {
					t.Fatalf("density never evaluated at %v", want)
				}
			}
		}
	}
	if len(seen) != 64 {
		t.Errorf("expected exactly 64 evaluated cells, got %d", len(seen))
	}
}
