package seeding

import (
	"fmt"
	"runtime"

	"github.com/nzeal/picongpu/config"
	"github.com/nzeal/picongpu/grid"
	"github.com/nzeal/picongpu/particle"
	"github.com/nzeal/picongpu/species"
)

// Engine launches one worker group per local supercell across a bounded pool
// of scheduler workers, mirroring a data-parallel accelerator launch. Each
// species gets its own frame pool (schemas differ per species); the pool is
// shared by all of that species' concurrently running groups.
type Engine struct {
	Mapper     grid.Mapper
	CellVolume float64
	// Workers bounds how many groups run concurrently. 0 = GOMAXPROCS.
	Workers int
	// Lanes per group, forwarded to the kernel.
	Lanes int
	// PoolFrames is the per-species frame pool capacity.
	PoolFrames int
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		Mapper: grid.Mapper{
			SuperCellSize: grid.Idx3{
				X: cfg.Grid.SuperCellSize[0],
				Y: cfg.Grid.SuperCellSize[1],
				Z: cfg.Grid.SuperCellSize[2],
			},
			LocalSuperCells: grid.Idx3{
				X: cfg.Derived.LocalSuperCells[0],
				Y: cfg.Derived.LocalSuperCells[1],
				Z: cfg.Derived.LocalSuperCells[2],
			},
			Guard: cfg.Grid.GuardSuperCells,
			DomainOffset: grid.Idx3{
				X: cfg.Grid.DomainOffset[0],
				Y: cfg.Grid.DomainOffset[1],
				Z: cfg.Grid.DomainOffset[2],
			},
		},
		CellVolume: cfg.Derived.CellVolume,
		Workers:    cfg.Seeding.Workers,
		Lanes:      cfg.Seeding.Lanes,
		PoolFrames: cfg.PoolFrames(),
	}
}

// SuperCellSeeded reports one supercell's outcome within a Result.
type SuperCellSeeded struct {
	// Coord is the local supercell coordinate, guards excluded.
	Coord     grid.Idx3
	Particles int
	Frames    int
}

// Result is the outcome of seeding one species over the local domain.
type Result struct {
	Species        string
	Box            *particle.Box
	SuperCells     []SuperCellSeeded
	TotalParticles int
	TotalFrames    int
}

// SeedSpecies populates every local supercell for one species and returns the
// filled particle box with per-supercell statistics. The first kernel error
// (frame pool exhaustion) aborts the run.
func (e *Engine) SeedSpecies(sp *species.Species) (*Result, error) {
	cells := e.Mapper.CellsPerSuperCell()
	pool := particle.NewPool(e.PoolFrames, cells, sp.Schema)
	box := particle.NewBox(pool, e.Mapper.GridSuperCells())

	kernel := &Kernel{
		Species:    sp,
		Box:        box,
		Mapper:     e.Mapper,
		CellVolume: e.CellVolume,
		Lanes:      e.Lanes,
	}

	local := e.Mapper.LocalSuperCells
	total := local.Volume()

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	type outcome struct {
		idx int
		res SuperCellResult
		err error
	}

	jobs := make(chan int, workers)
	outcomes := make(chan outcome, workers)

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				res, err := kernel.PopulateSuperCell(grid.Unflatten(idx, local))
				outcomes <- outcome{idx: idx, res: res, err: err}
			}
		}()
	}
	go func() {
		for i := 0; i < total; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	result := &Result{
		Species:    sp.Name,
		Box:        box,
		SuperCells: make([]SuperCellSeeded, total),
	}

	var firstErr error
	for i := 0; i < total; i++ {
		o := <-outcomes
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		result.SuperCells[o.idx] = SuperCellSeeded{
			Coord:     grid.Unflatten(o.idx, local),
			Particles: o.res.Particles,
			Frames:    o.res.Frames,
		}
		result.TotalParticles += o.res.Particles
		result.TotalFrames += o.res.Frames
	}
	if firstErr != nil {
		return nil, fmt.Errorf("species %q: %w", sp.Name, firstErr)
	}
	return result, nil
}

// SeedAll seeds every species in order.
func (e *Engine) SeedAll(all []*species.Species) ([]*Result, error) {
	results := make([]*Result, 0, len(all))
	for _, sp := range all {
		r, err := e.SeedSpecies(sp)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
