package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Domain.Scale != 4 {
		t.Errorf("scale = %v, want 4", cfg.Domain.Scale)
	}
	if cfg.Physics.DT != 0.002 {
		t.Errorf("dt = %v, want 0.002", cfg.Physics.DT)
	}
	if cfg.Boundary.Layers != 3 {
		t.Errorf("boundary layers = %d, want 3", cfg.Boundary.Layers)
	}
	if len(cfg.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(cfg.Phases))
	}
	if got := cfg.Derived.PhaseIndex["phase_b"]; got != 2 {
		t.Errorf("PhaseIndex[phase_b] = %d, want 2", got)
	}
	if cfg.Derived.DomainMin != [2]float64{-2, -2} || cfg.Derived.DomainMax != [2]float64{2, 2} {
		t.Errorf("domain = %v..%v, want [-2,-2]..[2,2]", cfg.Derived.DomainMin, cfg.Derived.DomainMax)
	}
}

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  gravity: 1.5\nterrain:\n  kind: noise\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Physics.Gravity != 1.5 {
		t.Errorf("gravity = %v, want 1.5", cfg.Physics.Gravity)
	}
	if cfg.Physics.DT != 0.002 {
		t.Errorf("dt should keep default, got %v", cfg.Physics.DT)
	}
	if cfg.Terrain.Kind != "noise" || cfg.Terrain.Octaves != 4 {
		t.Errorf("terrain = %+v, want noise with default octaves", cfg.Terrain)
	}
}

func TestParseReplacesLists(t *testing.T) {
	yml := `
boundary:
  phase: wall
phases:
  - name: wall
    mass: 1
    rest_density: 1000
    viscosity: 1
  - name: water
    mass: 1
    rest_density: 1000
    viscosity: 1
fluid:
  blocks:
    - min: [-0.1, -0.1]
      max: [0.1, 0.1]
      fractions:
        water: 1
`
	cfg, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Phases) != 2 {
		t.Errorf("phases = %d, want 2", len(cfg.Phases))
	}
	if len(cfg.Fluid.Blocks) != 1 {
		t.Errorf("blocks = %d, want 1", len(cfg.Fluid.Blocks))
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		want string
	}{
		{"zero scale", "domain:\n  scale: 0\n", "domain.scale"},
		{"negative dt", "physics:\n  dt: -1\n", "physics.dt"},
		{"zero neighbors", "physics:\n  target_neighbors: 0\n", "target_neighbors"},
		{"unknown boundary phase", "boundary:\n  phase: nope\n", "boundary.phase"},
		{"unknown terrain", "terrain:\n  kind: lava\n", "terrain.kind"},
		{"unknown block phase", "fluid:\n  blocks:\n    - min: [0, 0]\n      max: [0.1, 0.1]\n      fractions:\n        nope: 1\n", "unknown phase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Physics.Gravity = 3.25

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Physics.Gravity != 3.25 {
		t.Errorf("gravity = %v, want 3.25", loaded.Physics.Gravity)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
