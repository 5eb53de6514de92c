// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Domain    DomainConfig    `yaml:"domain"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Phases    []PhaseConfig   `yaml:"phases"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Solver    SolverConfig    `yaml:"solver"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DomainConfig holds the interior simulation rectangle.
// The domain is the square [-scale/2, scale/2]².
type DomainConfig struct {
	Scale float64 `yaml:"scale"`
}

// PhysicsConfig holds solver physics parameters.
type PhysicsConfig struct {
	DT              float64 `yaml:"dt"`
	Gravity         float64 `yaml:"gravity"`
	TargetNeighbors float64 `yaml:"target_neighbors"` // Average particle count inside the support disk
}

// BoundaryConfig holds boundary frame generation parameters.
type BoundaryConfig struct {
	Layers int    `yaml:"layers"`
	Phase  string `yaml:"phase"` // Phase name used by boundary particles
}

// FluidConfig holds initial fluid placement.
type FluidConfig struct {
	Blocks []FluidBlockConfig `yaml:"blocks"`
}

// FluidBlockConfig is a rectangular block of fluid filled on a regular lattice.
// Min and Max are fractions of the domain scale, so [-0.25, 0.25] spans the middle half.
type FluidBlockConfig struct {
	Min       [2]float64         `yaml:"min"`
	Max       [2]float64         `yaml:"max"`
	Fractions map[string]float64 `yaml:"fractions"` // Phase name -> fraction
}

// PhaseConfig holds the material constants of one phase.
type PhaseConfig struct {
	Name        string     `yaml:"name"`
	Mass        float64    `yaml:"mass"`
	RestDensity float64    `yaml:"rest_density"`
	Viscosity   float64    `yaml:"viscosity"`
	Color       [3]float64 `yaml:"color"`
}

// TerrainConfig selects and parameterizes the terrain height field.
type TerrainConfig struct {
	Kind       string     `yaml:"kind"` // flat, slope, noise, heightmap
	Level      float64    `yaml:"level"`
	Slope      [2]float64 `yaml:"slope"`
	Seed       int64      `yaml:"seed"`
	Amplitude  float64    `yaml:"amplitude"`
	Scale      float64    `yaml:"scale"`
	Octaves    int        `yaml:"octaves"`
	Lacunarity float64    `yaml:"lacunarity"`
	Gain       float64    `yaml:"gain"`
	Resolution int        `yaml:"resolution"` // Heightmap samples per axis
}

// SolverConfig holds execution parameters.
type SolverConfig struct {
	Workers           int `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int `yaml:"parallel_threshold"` // Minimum particles before stages run in parallel
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"`   // Simulation seconds per stats window
	PerfWindow    int     `yaml:"perf_window"`    // Steps averaged by the perf collector
	SnapshotEvery int     `yaml:"snapshot_every"` // Steps between particle CSV dumps (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DomainMin  [2]float64
	DomainMax  [2]float64
	PhaseIndex map[string]int // name -> index into Phases
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes merged over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Only overwrites fields present in data
	if len(data) > 0 {
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// merge unmarshals data over c. Lists in data replace the defaults instead of
// being merged element-wise.
func (c *Config) merge(data []byte) error {
	var probe struct {
		Phases []PhaseConfig `yaml:"phases"`
		Fluid  struct {
			Blocks []FluidBlockConfig `yaml:"blocks"`
		} `yaml:"fluid"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Phases != nil {
		c.Phases = nil
	}
	if probe.Fluid.Blocks != nil {
		c.Fluid.Blocks = nil
	}
	return yaml.Unmarshal(data, c)
}

// validate rejects values that would make the solver degenerate.
func (c *Config) validate() error {
	if c.Domain.Scale <= 0 {
		return fmt.Errorf("config: domain.scale must be positive, got %v", c.Domain.Scale)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.TargetNeighbors <= 0 {
		return fmt.Errorf("config: physics.target_neighbors must be positive, got %v", c.Physics.TargetNeighbors)
	}
	if c.Boundary.Layers < 0 {
		return fmt.Errorf("config: boundary.layers must be non-negative, got %d", c.Boundary.Layers)
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("config: at least one phase is required")
	}
	seen := make(map[string]bool, len(c.Phases))
	for _, p := range c.Phases {
		if seen[p.Name] {
			return fmt.Errorf("config: duplicate phase %q", p.Name)
		}
		seen[p.Name] = true
	}
	if !seen[c.Boundary.Phase] {
		return fmt.Errorf("config: boundary.phase %q is not a configured phase", c.Boundary.Phase)
	}
	for i, b := range c.Fluid.Blocks {
		for name := range b.Fractions {
			if !seen[name] {
				return fmt.Errorf("config: fluid.blocks[%d] references unknown phase %q", i, name)
			}
		}
	}
	switch c.Terrain.Kind {
	case "flat", "slope", "noise", "heightmap":
	default:
		return fmt.Errorf("config: unknown terrain.kind %q", c.Terrain.Kind)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	half := c.Domain.Scale / 2
	c.Derived.DomainMin = [2]float64{-half, -half}
	c.Derived.DomainMax = [2]float64{half, half}

	c.Derived.PhaseIndex = make(map[string]int, len(c.Phases))
	for i, p := range c.Phases {
		c.Derived.PhaseIndex[p.Name] = i
	}
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
