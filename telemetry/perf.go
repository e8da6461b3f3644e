package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one seeding run.
const (
	PhaseSetup     = "setup"
	PhaseSeeding   = "seeding"
	PhaseTelemetry = "telemetry"
)

// PerfCollector times the phases of one seeding run.
type PerfCollector struct {
	phases     map[string]time.Duration
	order      []string
	runStart   time.Time
	phaseStart time.Time
	lastPhase  string
}

// NewPerfCollector creates a collector.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{phases: make(map[string]time.Duration)}
}

// StartRun begins timing a seeding run.
func (p *PerfCollector) StartRun() {
	p.runStart = time.Now()
	p.phases = make(map[string]time.Duration)
	p.order = p.order[:0]
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	if _, seen := p.phases[phase]; !seen {
		p.order = append(p.order, phase)
		p.phases[phase] = 0
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndRun finishes timing and returns the aggregated stats.
func (p *PerfCollector) EndRun() PerfStats {
	now := time.Now()
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	s := PerfStats{
		Total:    now.Sub(p.runStart),
		PhaseDur: make(map[string]time.Duration, len(p.phases)),
		PhasePct: make(map[string]float64, len(p.phases)),
		Order:    append([]string(nil), p.order...),
	}
	for phase, dur := range p.phases {
		s.PhaseDur[phase] = dur
		if s.Total > 0 {
			s.PhasePct[phase] = float64(dur) / float64(s.Total) * 100
		}
	}
	return s
}

// PerfStats holds aggregated timings of one run.
type PerfStats struct {
	Total    time.Duration
	PhaseDur map[string]time.Duration
	PhasePct map[string]float64
	Order    []string
}

// LogStats logs run timings.
func (s PerfStats) LogStats() {
	attrs := []any{"total_us", s.Total.Microseconds()}
	for _, phase := range s.Order {
		attrs = append(attrs,
			phase+"_us", s.PhaseDur[phase].Microseconds(),
			phase+"_pct", float64(int(s.PhasePct[phase]*10)) / 10,
		)
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of run timings.
type PerfStatsCSV struct {
	TotalUS     int64   `csv:"total_us"`
	SetupPct    float64 `csv:"setup_pct"`
	SeedingPct  float64 `csv:"seeding_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV() PerfStatsCSV {
	return PerfStatsCSV{
		TotalUS:      s.Total.Microseconds(),
		SetupPct:     s.PhasePct[PhaseSetup],
		SeedingPct:   s.PhasePct[PhaseSeeding],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
