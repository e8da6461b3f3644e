package seeding

import (
	"fmt"
	"sync/atomic"

	"github.com/nzeal/picongpu/grid"
	"github.com/nzeal/picongpu/particle"
	"github.com/nzeal/picongpu/species"
	"github.com/nzeal/picongpu/startpos"
)

// Kernel populates supercells of one species. One worker group runs per
// supercell; the kernel is invoked once per supercell per seeding run, and
// re-running it duplicates particles.
type Kernel struct {
	Species *species.Species
	Box     *particle.Box
	Mapper  grid.Mapper
	// CellVolume in m^3, converting density to a per-cell real count.
	CellVolume float64
	// Lanes per group; 0 or anything above the cell count clamps to one
	// lane per cell.
	Lanes int
}

// SuperCellResult reports what one population invocation created.
type SuperCellResult struct {
	// Particles is the macro-particle total over the supercell's cells.
	Particles int
	// Frames is the number of frames appended, one per fill round.
	Frames int
}

// cellWork is a lane's bookkeeping for one owned cell. It lives in lane-local
// scratch for the duration of one supercell's population; the remaining count
// is computed once and only ever consumed by decrement.
type cellWork struct {
	slot      int
	remaining int
	placer    startpos.Placer
}

// PopulateSuperCell runs the population state machine for the supercell at
// the given group coordinate (0-based over the local domain, guards
// excluded).
//
// Every early return below is taken uniformly by all lanes of the group, so
// no lane is ever left waiting at a barrier.
func (k *Kernel) PopulateSuperCell(groupCoord grid.Idx3) (SuperCellResult, error) {
	superCell := k.Mapper.SuperCellIndex(groupCoord)
	superCellSize := k.Mapper.SuperCellSize
	cells := superCellSize.Volume()

	lanes := k.Lanes
	if lanes <= 0 || lanes > cells {
		lanes = cells
	}

	var (
		done     Flag
		total    atomic.Int64
		current  particle.ID = particle.Invalid
		frames   int
		allocErr error
	)

	// INIT_COUNT starts from "no work"; any lane with a positive count
	// clears it.
	done.Set()

	NewGroup(lanes).Run(func(lane *Lane) {
		// INIT_COUNT: each lane serves the cells congruent to its index.
		var work []cellWork
		for slot := lane.Index; slot < cells; slot += lane.Count {
			inCell := grid.Unflatten(slot, superCellSize)
			absCell := k.Mapper.AbsoluteCell(superCell, inCell)

			realPerCell := k.Species.Profile.Density(absCell) * k.CellVolume * k.Species.DensityScale
			if realPerCell <= 0 {
				continue
			}

			placer := k.Species.Policy.ForCell(startpos.CellContext{
				SuperCell:    superCell,
				Cell:         inCell,
				CellIndex:    slot,
				AbsoluteCell: absCell,
			})
			n := placer.NumberOfMacroParticles(realPerCell)
			if n <= 0 {
				continue
			}

			work = append(work, cellWork{slot: slot, remaining: n, placer: placer})
			total.Add(int64(n))
			done.Clear()
		}
		lane.Sync()

		// Vacuum supercells terminate before any frame is allocated. The
		// flag is re-read into a local and a barrier separates the read
		// from the leader's next write.
		hasWork := !done.IsSet()
		lane.Sync()
		if !hasWork {
			return
		}

		for {
			// ALLOCATE_FRAME: leader only; everyone else observes the
			// result after the barrier. The leader also resets the flag
			// to "assume this round finishes".
			if lane.Leader() {
				id, err := k.Box.GetEmptyFrame()
				if err != nil {
					allocErr = err
				} else {
					k.Box.SetAsLastFrame(id, superCell)
					current = id
					frames++
				}
				done.Set()
			}
			lane.Sync()
			if allocErr != nil {
				return
			}

			// FILL_ROUND: one particle per still-active owned cell, into
			// the cell's fixed slot of the current frame.
			frame := k.Box.Frame(current)
			for i := range work {
				w := &work[i]
				if w.remaining <= 0 {
					continue
				}
				rec := frame.Record(w.slot)
				rec.ResetAttributes()
				rec.SetCellIndex(w.slot)
				w.placer.Place(rec)
				rec.Activate()
				w.remaining--
				if w.remaining > 0 {
					done.Clear()
				}
			}
			lane.Sync()

			more := !done.IsSet()
			lane.Sync()
			if !more {
				return
			}
		}
	})

	if allocErr != nil {
		return SuperCellResult{}, fmt.Errorf("seeding: supercell %v: %w", groupCoord, allocErr)
	}
	return SuperCellResult{Particles: int(total.Load()), Frames: frames}, nil
}
