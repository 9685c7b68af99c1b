package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadLevelsConfig 测试关卡配置文件加载
func TestLoadLevelsConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "levels.yaml")

		validYAML := `levels:
  - name: Easy
    waves: 10
    spawns:
      - enemy: zombie
        count: "5 wave +"
        hp: "base wave 5 * +"
        sequence: [2, 3]
        location: random green
  - name: Endless
    waves: 0
    advance: auto
    interWaveDelay: 3
    customWavePositions:
      2: {x: 4, y: 5}
    spawns:
      - enemy: skeleton
        count: "wave"
`
		if err := os.WriteFile(testFile, []byte(validYAML), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		cfg, err := LoadLevelsConfig(testFile)
		if err != nil {
			t.Fatalf("LoadLevelsConfig() failed: %v", err)
		}

		if got := cfg.Names(); len(got) != 2 || got[0] != "Easy" || got[1] != "Endless" {
			t.Fatalf("Expected names [Easy Endless], got %v", got)
		}

		easy, ok := cfg.Get("Easy")
		if !ok {
			t.Fatal("Expected level Easy to exist")
		}
		if easy.Waves != 10 || easy.IsEndless() {
			t.Errorf("Easy: expected 10 finite waves, got %d (endless=%v)", easy.Waves, easy.IsEndless())
		}
		if easy.Advance != AdvanceDoor {
			t.Errorf("Easy: expected default advance %q, got %q", AdvanceDoor, easy.Advance)
		}
		if len(easy.Spawns) != 1 {
			t.Fatalf("Easy: expected 1 spawn rule, got %d", len(easy.Spawns))
		}
		rule := easy.Spawns[0]
		if rule.Enemy != "zombie" || rule.Count != "5 wave +" || rule.Speed != "" {
			t.Errorf("Easy spawn 0: unexpected rule %+v", rule)
		}
		if seq := rule.BatchSequence(); len(seq) != 2 || seq[0] != 2 || seq[1] != 3 {
			t.Errorf("Easy spawn 0: expected sequence [2 3], got %v", seq)
		}

		endless, _ := cfg.Get("Endless")
		if !endless.IsEndless() {
			t.Error("Endless: expected IsEndless() to be true")
		}
		if endless.Advance != AdvanceAuto || endless.InterWaveDelay != 3 {
			t.Errorf("Endless: expected auto advance after 3s, got %q after %v", endless.Advance, endless.InterWaveDelay)
		}
		if endless.Spawns[0].Location != LocationRandom {
			t.Errorf("Endless spawn 0: expected default location %q, got %q", LocationRandom, endless.Spawns[0].Location)
		}
		if seq := endless.Spawns[0].BatchSequence(); len(seq) != 1 || seq[0] != 1 {
			t.Errorf("Endless spawn 0: expected default sequence [1], got %v", seq)
		}
		if pos, ok := endless.CustomPosition(2); !ok || pos.X != 4 || pos.Y != 5 {
			t.Errorf("Endless: expected custom position (4,5) for wave 2, got %v (ok=%v)", pos, ok)
		}
		if _, ok := endless.CustomPosition(3); ok {
			t.Error("Endless: wave 3 should have no custom position")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadLevelsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatal("Expected error for missing file")
		}
	})

	t.Run("unknown level lookup", func(t *testing.T) {
		cfg, err := ParseLevelsConfig([]byte("levels:\n  - name: Easy\n    waves: 1\n"), "inline")
		if err != nil {
			t.Fatalf("ParseLevelsConfig() failed: %v", err)
		}
		if _, ok := cfg.Get("Nightmare"); ok {
			t.Error("Expected Get(Nightmare) to report missing level")
		}
	})
}

// TestParseLevelsConfig_Invalid 测试结构错误的关卡配置被拒绝
func TestParseLevelsConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "levels: [",
			wantErr: "failed to parse",
		},
		{
			name:    "no levels",
			yaml:    "levels: []",
			wantErr: "at least one level",
		},
		{
			name:    "missing name",
			yaml:    "levels:\n  - waves: 3\n",
			wantErr: "name is required",
		},
		{
			name:    "duplicate name",
			yaml:    "levels:\n  - name: A\n  - name: A\n",
			wantErr: "duplicate name",
		},
		{
			name:    "bad advance",
			yaml:    "levels:\n  - name: A\n    advance: teleport\n",
			wantErr: "advance must be one of",
		},
		{
			name:    "negative inter-wave delay",
			yaml:    "levels:\n  - name: A\n    interWaveDelay: -1\n",
			wantErr: "interWaveDelay",
		},
		{
			name:    "spawn without enemy",
			yaml:    "levels:\n  - name: A\n    spawns:\n      - count: \"1\"\n",
			wantErr: "enemy is required",
		},
		{
			name:    "spawn without count",
			yaml:    "levels:\n  - name: A\n    spawns:\n      - enemy: zombie\n",
			wantErr: "count is required",
		},
		{
			name:    "zero batch size",
			yaml:    "levels:\n  - name: A\n    spawns:\n      - enemy: zombie\n        count: \"1\"\n        sequence: [2, 0]\n",
			wantErr: "sequence[1]",
		},
		{
			name:    "bad location",
			yaml:    "levels:\n  - name: A\n    spawns:\n      - enemy: zombie\n        count: \"1\"\n        location: north\n",
			wantErr: "invalid location",
		},
		{
			name:    "custom position for wave zero",
			yaml:    "levels:\n  - name: A\n    customWavePositions:\n      0: {x: 1, y: 1}\n",
			wantErr: "customWavePositions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevelsConfig([]byte(tt.yaml), "inline")
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestParseLevelsConfig_BadFormulaIsWarning 公式语法错误只警告，不阻止加载
func TestParseLevelsConfig_BadFormulaIsWarning(t *testing.T) {
	yamlContent := `levels:
  - name: Broken
    waves: 2
    spawns:
      - enemy: zombie
        count: "wave +"
        hp: "base power +"
`
	cfg, err := ParseLevelsConfig([]byte(yamlContent), "inline")
	if err != nil {
		t.Fatalf("Expected malformed formulas to load with a warning, got %v", err)
	}
	level, _ := cfg.Get("Broken")
	errs := level.Spawns[0].formulaErrors()
	if _, ok := errs["count"]; !ok {
		t.Error("Expected count formula error to be reported")
	}
	if _, ok := errs["hp"]; !ok {
		t.Error("Expected hp formula error to be reported")
	}
	if _, ok := errs["speed"]; ok {
		t.Error("Absent speed formula should not be reported")
	}
}

// TestParseLocation 测试位置标签解析
func TestParseLocation(t *testing.T) {
	tests := []struct {
		loc      string
		wantKind string
		wantErr  bool
	}{
		{"", "", false},
		{"random", "", false},
		{"random green", "GREEN", false},
		{"  random   Bone ", "BONE", false},
		{"green", "", true},
		{"random red extra", "", true},
		{"anywhere red", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			kind, err := ParseLocation(tt.loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLocation(%q) error = %v, wantErr %v", tt.loc, err, tt.wantErr)
			}
			if kind != tt.wantKind {
				t.Errorf("ParseLocation(%q) = %q, want %q", tt.loc, kind, tt.wantKind)
			}
		})
	}
}
