// Package game drives a solver in headless or graphical mode and routes its
// output to telemetry.
package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/shallows/camera"
	"github.com/pthm-cable/shallows/components"
	"github.com/pthm-cable/shallows/config"
	"github.com/pthm-cable/shallows/renderer"
	"github.com/pthm-cable/shallows/solver"
	"github.com/pthm-cable/shallows/systems"
	"github.com/pthm-cable/shallows/telemetry"
	"github.com/pthm-cable/shallows/ui"
)

// maxStepsPerUpdate bounds the steps-per-update control.
const maxStepsPerUpdate = 32

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Logger         *slog.Logger   // nil = slog.Default()
	LogStats       bool           // Log window and perf stats via slog
	StatsWindowSec float64        // 0 = use config
	OutputDir      string         // Empty = no CSV output
	SnapshotEvery  int            // Steps between particle dumps; 0 = use config
	Headless       bool
	StepsPerUpdate int
}

// Game holds the simulation and everything that observes it.
type Game struct {
	solver *solver.Solver
	logger *slog.Logger

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	snapshotEvery int64
	snapshot      components.Snapshot

	// Rendering (nil in headless mode)
	camera           *camera.Camera
	terrainRenderer  *renderer.TerrainRenderer
	particleRenderer *renderer.ParticleRenderer

	// UI (nil in headless mode)
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector

	// State
	step           int64
	paused         bool
	stepRequested  bool
	headless       bool
	stepsPerUpdate int
}

// NewGameWithOptions builds the solver from configuration and sets up
// telemetry and, unless headless, the renderers. Graphical mode requires an
// open raylib window.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	phases, err := solver.PhasesFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building phases: %w", err)
	}
	params, err := solver.ParamsFromConfig(cfg, phases)
	if err != nil {
		return nil, fmt.Errorf("building solver params: %w", err)
	}
	terrain, err := solver.TerrainFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s, err := solver.New(params, phases, terrain, solver.Options{Logger: logger, Perf: perf})
	if err != nil {
		return nil, err
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	snapshotEvery := cfg.Telemetry.SnapshotEvery
	if opts.SnapshotEvery > 0 {
		snapshotEvery = opts.SnapshotEvery
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			s.Close()
			om.Close()
			return nil, err
		}
	}

	g := &Game{
		solver:         s,
		logger:         logger,
		collector:      telemetry.NewCollector(statsWindow, s.StepInterval()),
		perfCollector:  perf,
		outputManager:  om,
		logStats:       opts.LogStats,
		snapshotEvery:  int64(snapshotEvery),
		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
	}

	if !g.headless {
		names := make([]string, phases.Len())
		for k := range names {
			names[k] = phases.Phase(k).Name
		}
		g.setupRenderers(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		g.setupUI(int32(cfg.Screen.Width), names)
	}

	return g, nil
}

// setupRenderers builds the camera and the static terrain shading.
func (g *Game) setupRenderers(width, height int32) {
	bmin, bmax := g.solver.BoundaryRect()
	g.camera = camera.New(float64(width), float64(height), bmin, bmax)
	g.terrainRenderer = renderer.NewTerrainRenderer(g.solver.Terrain(), bmin, bmax)

	// Surface heights sit about one unit above the ground
	ground := systems.SampleTerrainGrid(g.solver.Terrain(), bmin, bmax, 16)
	lo, hi := floats.Min(ground), floats.Max(ground)
	g.particleRenderer = renderer.NewParticleRenderer(g.solver.Radii().Particle, lo+0.5, hi+1.5)
}

// setupUI creates the panels and the overlay registry.
func (g *Game) setupUI(width int32, phaseNames []string) {
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 10, 200)
	g.perfPanel = ui.NewPerfPanel(10, 340)
	g.inspector = ui.NewInspector(width-250, 120, 240, phaseNames)
}

// Update handles input and advances the simulation (graphical mode).
func (g *Game) Update() {
	g.handleInput()

	if g.stepRequested {
		g.stepRequested = false
		g.simulationStep()
	}
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless advances the simulation without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs one solver step and its telemetry hooks.
func (g *Game) simulationStep() {
	g.perfCollector.StartStep()

	g.solver.Step()
	stats := g.solver.Stats()
	g.step = stats.Step

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordClamps(stats.SpeedClamps, stats.PositionClamps)
	g.flushTelemetry()
	g.writeSnapshot()

	g.perfCollector.EndStep()
}

// Unload releases the solver and closes output files.
func (g *Game) Unload() {
	g.solver.Close()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			g.logger.Error("failed to close output", "error", err)
		}
	}
}

// Step returns the number of completed simulation steps.
func (g *Game) Step() int64 {
	return g.step
}

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return g.solver.Stats().SimTime
}
