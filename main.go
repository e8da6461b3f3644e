package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nzeal/picongpu/config"
	"github.com/nzeal/picongpu/seeding"
	"github.com/nzeal/picongpu/species"
	"github.com/nzeal/picongpu/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	workers := flag.Int("workers", 0, "Concurrent supercell groups (0 = use config)")
	lanes := flag.Int("lanes", 0, "Worker lanes per group (0 = use config)")
	onlySpecies := flag.String("species", "", "Seed only the named species (empty = all)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	perf := telemetry.NewPerfCollector()
	perf.StartRun()
	perf.StartPhase(telemetry.PhaseSetup)

	all, err := species.FromConfig(cfg)
	if err != nil {
		slog.Error("failed to build species", "error", err)
		os.Exit(1)
	}
	if *onlySpecies != "" {
		filtered := all[:0]
		for _, sp := range all {
			if sp.Name == *onlySpecies {
				filtered = append(filtered, sp)
			}
		}
		if len(filtered) == 0 {
			slog.Error("unknown species", "species", *onlySpecies)
			os.Exit(1)
		}
		all = filtered
	}

	engine := seeding.NewEngine(cfg)
	if *workers > 0 {
		engine.Workers = *workers
	}
	if *lanes > 0 {
		engine.Lanes = *lanes
	}

	dir := *outputDir
	if dir == "" {
		dir = cfg.Telemetry.OutputDir
	}
	output, err := telemetry.NewOutputManager(dir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("seeding",
		"species", len(all),
		"supercells", engine.Mapper.LocalSuperCells.Volume(),
		"cells_per_supercell", engine.Mapper.CellsPerSuperCell(),
		"pool_frames", engine.PoolFrames,
	)

	perf.StartPhase(telemetry.PhaseSeeding)
	results, err := engine.SeedAll(all)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	perf.StartPhase(telemetry.PhaseTelemetry)
	for _, res := range results {
		summary := telemetry.Summarize(res)
		summary.LogStats()

		if err := output.WriteSuperCells(telemetry.CollectSuperCells(res)); err != nil {
			slog.Error("failed to write supercell stats", "error", err)
			os.Exit(1)
		}
		if err := output.WriteSummary(summary); err != nil {
			slog.Error("failed to write summary", "error", err)
			os.Exit(1)
		}
	}

	stats := perf.EndRun()
	stats.LogStats()
	if err := output.WritePerf(stats); err != nil {
		slog.Error("failed to write perf stats", "error", err)
		os.Exit(1)
	}
}
