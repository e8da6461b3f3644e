// Package config provides configuration loading and access for the seeding
// engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all seeding configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Pool      PoolConfig      `yaml:"pool"`
	Seeding   SeedingConfig   `yaml:"seeding"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Profiles  []ProfileConfig `yaml:"profiles"`
	Species   []SpeciesConfig `yaml:"species"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the device-local domain layout.
type GridConfig struct {
	Cells           [3]int     `yaml:"cells"`            // Local domain extent in cells
	CellSize        [3]float64 `yaml:"cell_size"`        // Cell edge lengths in meters
	SuperCellSize   [3]int     `yaml:"supercell_size"`   // Cells per supercell per axis
	GuardSuperCells int        `yaml:"guard_supercells"` // Guard border width in supercells
	DomainOffset    [3]int     `yaml:"domain_offset"`    // Device offset within the global domain, in cells
}

// PoolConfig holds frame pool sizing.
type PoolConfig struct {
	// Frames is the arena capacity. 0 sizes the pool for the worst case
	// (every cell of every supercell reaching its species' particles per
	// cell), which can never exhaust.
	Frames int `yaml:"frames"`
}

// SeedingConfig holds kernel launch parameters.
type SeedingConfig struct {
	// Workers is the number of supercell groups running concurrently.
	// 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Lanes is the worker-lane count per group. 0 = one lane per cell;
	// fewer lanes make each lane serve multiple cells.
	Lanes int `yaml:"lanes"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	// OutputDir is where CSV logs and the config snapshot land. Empty
	// disables file output; the -output-dir flag overrides it.
	OutputDir string `yaml:"output_dir"`
}

// ProfileConfig declares one named density profile. Kind selects the
// implementation; the remaining fields are interpreted per kind.
type ProfileConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // uniform | gaussian | ramp | sphere | fbm | simplex

	// uniform
	Value float64 `yaml:"value"`

	// gaussian, sphere (cell units)
	Center [3]float64 `yaml:"center"`
	Sigma  [3]float64 `yaml:"sigma"`
	Radius float64    `yaml:"radius"`

	// ramp
	Axis int     `yaml:"axis"`
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`

	// fbm, simplex
	Wavelength float64 `yaml:"wavelength"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
	Contrast   float64 `yaml:"contrast"`
	Threshold  float64 `yaml:"threshold"`
	Seed       int64   `yaml:"seed"`
}

// SpeciesConfig declares one particle species to seed.
type SpeciesConfig struct {
	Name             string     `yaml:"name"`
	Profile          string     `yaml:"profile"`            // Name of a declared density profile
	BaseDensity      float64    `yaml:"base_density"`       // Physical density scale in 1/m^3
	DensityRatio     float64    `yaml:"density_ratio"`      // Species multiplier on the base density
	ParticlesPerCell int        `yaml:"particles_per_cell"` // Macro-particles per cell at full density
	MinWeighting     float64    `yaml:"min_weighting"`      // Floor below which the macro count is reduced
	Placement        string     `yaml:"placement"`          // quiet | random | one_position
	Position         [3]float64 `yaml:"position"`           // In-cell position for one_position
	Seed             int64      `yaml:"seed"`               // Placement RNG seed (random policy)

	Attributes []AttributeConfig `yaml:"attributes"`
}

// AttributeConfig declares one species attribute column and its default.
type AttributeConfig struct {
	Name    string    `yaml:"name"`
	Kind    string    `yaml:"kind"` // scalar | vec3
	Default []float64 `yaml:"default"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellVolume        float64        // Product of cell edge lengths, m^3
	CellsPerSuperCell int            // Frame slot count
	LocalSuperCells   [3]int         // Cells / SuperCellSize per axis
	ProfileIndex      map[string]int // name -> index into Profiles
	WorstCaseFrames   int            // Pool auto-size: frames if every cell hits its ppc
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects misconfigurations before any kernel runs.
func (c *Config) validate() error {
	for i := 0; i < 3; i++ {
		if c.Grid.Cells[i] <= 0 {
			return fmt.Errorf("grid: cells[%d] must be positive", i)
		}
		if c.Grid.CellSize[i] <= 0 {
			return fmt.Errorf("grid: cell_size[%d] must be positive", i)
		}
		if c.Grid.SuperCellSize[i] <= 0 {
			return fmt.Errorf("grid: supercell_size[%d] must be positive", i)
		}
		if c.Grid.Cells[i]%c.Grid.SuperCellSize[i] != 0 {
			return fmt.Errorf("grid: cells[%d]=%d is not a multiple of supercell_size[%d]=%d",
				i, c.Grid.Cells[i], i, c.Grid.SuperCellSize[i])
		}
	}
	if c.Grid.GuardSuperCells < 0 {
		return fmt.Errorf("grid: guard_supercells must not be negative")
	}

	names := make(map[string]struct{}, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profiles: profile with empty name")
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("profiles: duplicate profile %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}

	for _, s := range c.Species {
		if s.Name == "" {
			return fmt.Errorf("species: species with empty name")
		}
		if _, ok := names[s.Profile]; !ok {
			return fmt.Errorf("species %q: unknown profile %q", s.Name, s.Profile)
		}
		// Selecting density seeding with an identically zero density scale
		// is a configuration error, caught here before any kernel runs.
		if s.BaseDensity*s.DensityRatio == 0 {
			return fmt.Errorf("species %q: base_density * density_ratio is zero while density seeding is selected", s.Name)
		}
		if s.BaseDensity < 0 || s.DensityRatio < 0 {
			return fmt.Errorf("species %q: density scale must not be negative", s.Name)
		}
		if s.ParticlesPerCell <= 0 {
			return fmt.Errorf("species %q: particles_per_cell must be positive", s.Name)
		}
		if s.MinWeighting < 0 {
			return fmt.Errorf("species %q: min_weighting must not be negative", s.Name)
		}
		switch s.Placement {
		case "quiet", "random", "one_position":
		default:
			return fmt.Errorf("species %q: unknown placement %q", s.Name, s.Placement)
		}
		for _, a := range s.Attributes {
			if a.Name == "" {
				return fmt.Errorf("species %q: attribute with empty name", s.Name)
			}
			switch a.Kind {
			case "scalar", "vec3":
			default:
				return fmt.Errorf("species %q: attribute %q has unknown kind %q", s.Name, a.Name, a.Kind)
			}
		}
	}

	if c.Pool.Frames < 0 {
		return fmt.Errorf("pool: frames must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CellVolume = c.Grid.CellSize[0] * c.Grid.CellSize[1] * c.Grid.CellSize[2]
	c.Derived.CellsPerSuperCell = c.Grid.SuperCellSize[0] * c.Grid.SuperCellSize[1] * c.Grid.SuperCellSize[2]
	for i := 0; i < 3; i++ {
		c.Derived.LocalSuperCells[i] = c.Grid.Cells[i] / c.Grid.SuperCellSize[i]
	}

	c.Derived.ProfileIndex = make(map[string]int, len(c.Profiles))
	for i, p := range c.Profiles {
		c.Derived.ProfileIndex[p.Name] = i
	}

	// Worst case: every cell of every local supercell reaches its species'
	// particles-per-cell count, needing one frame per round.
	superCells := c.Derived.LocalSuperCells[0] * c.Derived.LocalSuperCells[1] * c.Derived.LocalSuperCells[2]
	frames := 0
	for _, s := range c.Species {
		frames += superCells * s.ParticlesPerCell
	}
	c.Derived.WorstCaseFrames = frames
}

// PoolFrames returns the configured pool capacity, falling back to the
// worst-case auto size.
func (c *Config) PoolFrames() int {
	if c.Pool.Frames > 0 {
		return c.Pool.Frames
	}
	return c.Derived.WorstCaseFrames
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
