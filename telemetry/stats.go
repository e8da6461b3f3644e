// Package telemetry collects and exports seeding statistics: per-supercell
// particle and frame counts, domain-level summaries, and phase timings.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nzeal/picongpu/seeding"
)

// SuperCellStats is one supercell's seeding outcome, flattened for CSV
// export.
type SuperCellStats struct {
	Species   string `csv:"species"`
	X         int    `csv:"x"`
	Y         int    `csv:"y"`
	Z         int    `csv:"z"`
	Particles int    `csv:"particles"`
	Frames    int    `csv:"frames"`
}

// CollectSuperCells flattens a seeding result into CSV-ready rows.
func CollectSuperCells(res *seeding.Result) []SuperCellStats {
	rows := make([]SuperCellStats, len(res.SuperCells))
	for i, sc := range res.SuperCells {
		rows[i] = SuperCellStats{
			Species:   res.Species,
			X:         sc.Coord.X,
			Y:         sc.Coord.Y,
			Z:         sc.Coord.Z,
			Particles: sc.Particles,
			Frames:    sc.Frames,
		}
	}
	return rows
}

// Summary aggregates one species' seeding outcome over the local domain.
type Summary struct {
	Species          string  `csv:"species"`
	SuperCells       int     `csv:"supercells"`
	VacuumSuperCells int     `csv:"vacuum_supercells"`
	TotalParticles   int     `csv:"total_particles"`
	TotalFrames      int     `csv:"total_frames"`

	// Distribution of particles per supercell
	MeanParticles float64 `csv:"particles_mean"`
	StdParticles  float64 `csv:"particles_std"`
	P10Particles  float64 `csv:"particles_p10"`
	P50Particles  float64 `csv:"particles_p50"`
	P90Particles  float64 `csv:"particles_p90"`
	MaxParticles  int     `csv:"particles_max"`
}

// Summarize computes the domain summary of one seeding result.
func Summarize(res *seeding.Result) Summary {
	s := Summary{
		Species:        res.Species,
		SuperCells:     len(res.SuperCells),
		TotalParticles: res.TotalParticles,
		TotalFrames:    res.TotalFrames,
	}

	values := make([]float64, 0, len(res.SuperCells))
	for _, sc := range res.SuperCells {
		if sc.Particles == 0 {
			s.VacuumSuperCells++
		}
		if sc.Particles > s.MaxParticles {
			s.MaxParticles = sc.Particles
		}
		values = append(values, float64(sc.Particles))
	}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	s.MeanParticles = stat.Mean(values, nil)
	s.StdParticles = stat.StdDev(values, nil)
	s.P10Particles = stat.Quantile(0.10, stat.Empirical, values, nil)
	s.P50Particles = stat.Quantile(0.50, stat.Empirical, values, nil)
	s.P90Particles = stat.Quantile(0.90, stat.Empirical, values, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("species", s.Species),
		slog.Int("supercells", s.SuperCells),
		slog.Int("vacuum_supercells", s.VacuumSuperCells),
		slog.Int("total_particles", s.TotalParticles),
		slog.Int("total_frames", s.TotalFrames),
		slog.Float64("particles_mean", s.MeanParticles),
		slog.Float64("particles_std", s.StdParticles),
		slog.Float64("particles_p10", s.P10Particles),
		slog.Float64("particles_p50", s.P50Particles),
		slog.Float64("particles_p90", s.P90Particles),
		slog.Int("particles_max", s.MaxParticles),
	)
}

// LogStats logs the summary using slog.
func (s Summary) LogStats() {
	slog.Info("seeded",
		"species", s.Species,
		"supercells", s.SuperCells,
		"vacuum_supercells", s.VacuumSuperCells,
		"total_particles", s.TotalParticles,
		"total_frames", s.TotalFrames,
		"particles_mean", s.MeanParticles,
		"particles_std", s.StdParticles,
		"particles_p10", s.P10Particles,
		"particles_p50", s.P50Particles,
		"particles_p90", s.P90Particles,
		"particles_max", s.MaxParticles,
	)
}
