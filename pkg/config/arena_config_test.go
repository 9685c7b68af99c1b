package config

import (
	"strings"
	"testing"
)

func TestParseArenaConfig(t *testing.T) {
	yamlContent := `playerStart: {x: 10, y: 10}
spawnPoints:
  - {name: a, kind: red, position: {x: 1, y: 1}}
  - {name: b, kind: Green, position: {x: 2, y: 2}}
  - {name: c, kind: green, position: {x: 3, y: 3}}
obstacles:
  - {position: {x: 5, y: 5}, radius: 1}
doors:
  - {name: inner, position: {x: 0, y: 9}}
  - {name: outer, position: {x: 0, y: 19}, waveToOpen: 2, prerequisite: inner}
customWavePositions:
  1: {x: -230, y: 230}
`
	cfg, err := ParseArenaConfig([]byte(yamlContent), "inline")
	if err != nil {
		t.Fatalf("ParseArenaConfig() failed: %v", err)
	}

	if cfg.Bounds.Width != 64 || cfg.Bounds.Height != 36 {
		t.Errorf("Expected default bounds 64x36, got %+v", cfg.Bounds)
	}
	if cfg.Obstacles[0].Tag != TagWall {
		t.Errorf("Expected default obstacle tag %q, got %q", TagWall, cfg.Obstacles[0].Tag)
	}
	if cfg.Doors[0].Radius != 1 || cfg.Doors[0].WaveToOpen != 1 {
		t.Errorf("Expected door defaults radius 1 / wave 1, got %+v", cfg.Doors[0])
	}

	tests := []struct {
		kind string
		want int
	}{
		{"", 3},
		{"RED", 1},
		{"GREEN", 2},
		{"bone", 0},
	}
	for _, tt := range tests {
		if got := len(cfg.SpawnPointsOfKind(tt.kind)); got != tt.want {
			t.Errorf("SpawnPointsOfKind(%q) returned %d points, want %d", tt.kind, got, tt.want)
		}
	}

	if pos, ok := cfg.CustomPosition(1); !ok || pos.X != -230 || pos.Y != 230 {
		t.Errorf("CustomPosition(1) = %v, %v", pos, ok)
	}
	if _, ok := cfg.CustomPosition(11); ok {
		t.Error("CustomPosition(11) should be absent")
	}
}

func TestParseArenaConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"spawn point without kind", "spawnPoints:\n  - {name: a}\n", "kind is required"},
		{"zero radius obstacle", "obstacles:\n  - {position: {x: 1, y: 1}, radius: 0}\n", "radius must be positive"},
		{"door without name", "doors:\n  - {waveToOpen: 1}\n", "name is required"},
		{"duplicate door", "doors:\n  - {name: a}\n  - {name: a}\n", "duplicate"},
		{"unknown prerequisite", "doors:\n  - {name: a, prerequisite: z}\n", "unknown prerequisite"},
		{"self prerequisite", "doors:\n  - {name: a, prerequisite: a}\n", "own prerequisite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArenaConfig([]byte(tt.yaml), "inline")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
