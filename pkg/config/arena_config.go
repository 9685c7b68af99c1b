package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/decker502/arena/pkg/types"
	"gopkg.in/yaml.v3"
)

// SpawnPoint 命名生成点
type SpawnPoint struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"` // 生成点类型，如 "red" / "green" / "bone"
	Position types.Vec2 `yaml:"position"`
}

// ObstacleDefinition 场地静态障碍物（圆形碰撞体）
type ObstacleDefinition struct {
	Position types.Vec2 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Tag      string     `yaml:"tag"` // 默认 "wall"
}

// DoorDefinition 波次门
// 第 WaveToOpen 波结束时尝试开启；Prerequisite 指定必须先开启的门
type DoorDefinition struct {
	Name         string     `yaml:"name"`
	Position     types.Vec2 `yaml:"position"`
	Radius       float64    `yaml:"radius"`
	WaveToOpen   int        `yaml:"waveToOpen"`
	Prerequisite string     `yaml:"prerequisite"`
}

// ArenaBounds 场地尺寸（世界单位）
type ArenaBounds struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ArenaConfig 场地配置
type ArenaConfig struct {
	Bounds      ArenaBounds          `yaml:"bounds"`
	PlayerStart types.Vec2           `yaml:"playerStart"`
	SpawnPoints []SpawnPoint         `yaml:"spawnPoints"`
	Obstacles   []ObstacleDefinition `yaml:"obstacles"`
	Doors       []DoorDefinition     `yaml:"doors"`

	// CustomWavePositions 全局的 波次 → 固定生成坐标 表
	// 关卡自己的表优先
	CustomWavePositions map[int]types.Vec2 `yaml:"customWavePositions"`
}

// LoadArenaConfig 从 YAML 文件加载场地配置
func LoadArenaConfig(filepath string) (*ArenaConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read arena file %s: %w", filepath, err)
	}
	return ParseArenaConfig(data, filepath)
}

// ParseArenaConfig 解析场地配置内容
func ParseArenaConfig(data []byte, source string) (*ArenaConfig, error) {
	var cfg ArenaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse arena YAML from %s: %w", source, err)
	}

	applyArenaDefaults(&cfg)

	if err := validateArena(&cfg); err != nil {
		return nil, fmt.Errorf("invalid arena config in %s: %w", source, err)
	}
	return &cfg, nil
}

// applyArenaDefaults 设置场地默认值
func applyArenaDefaults(cfg *ArenaConfig) {
	if cfg.Bounds.Width == 0 {
		cfg.Bounds.Width = 64
	}
	if cfg.Bounds.Height == 0 {
		cfg.Bounds.Height = 36
	}
	for i := range cfg.Obstacles {
		if cfg.Obstacles[i].Tag == "" {
			cfg.Obstacles[i].Tag = TagWall
		}
	}
	for i := range cfg.Doors {
		if cfg.Doors[i].Radius == 0 {
			cfg.Doors[i].Radius = 1
		}
		if cfg.Doors[i].WaveToOpen == 0 {
			cfg.Doors[i].WaveToOpen = 1
		}
	}
}

// validateArena 验证场地配置
func validateArena(cfg *ArenaConfig) error {
	if cfg.Bounds.Width < 0 || cfg.Bounds.Height < 0 {
		return fmt.Errorf("bounds cannot be negative")
	}

	for i, sp := range cfg.SpawnPoints {
		if sp.Kind == "" {
			return fmt.Errorf("spawnPoints[%d]: kind is required", i)
		}
	}

	for i, o := range cfg.Obstacles {
		if o.Radius <= 0 {
			return fmt.Errorf("obstacles[%d]: radius must be positive, got %v", i, o.Radius)
		}
	}

	doors := make(map[string]bool, len(cfg.Doors))
	for i, d := range cfg.Doors {
		if d.Name == "" {
			return fmt.Errorf("doors[%d]: name is required", i)
		}
		if doors[d.Name] {
			return fmt.Errorf("doors[%d]: duplicate name %q", i, d.Name)
		}
		doors[d.Name] = true
	}
	for _, d := range cfg.Doors {
		if d.Prerequisite != "" && !doors[d.Prerequisite] {
			return fmt.Errorf("door %s: unknown prerequisite %q", d.Name, d.Prerequisite)
		}
		if d.Prerequisite == d.Name && d.Name != "" {
			return fmt.Errorf("door %s: cannot be its own prerequisite", d.Name)
		}
	}

	for wave := range cfg.CustomWavePositions {
		if wave < 1 {
			return fmt.Errorf("customWavePositions key must be >= 1, got %d", wave)
		}
	}
	return nil
}

// SpawnPointsOfKind 返回指定类型的生成点（大小写不敏感），kind 为空返回全部
func (c *ArenaConfig) SpawnPointsOfKind(kind string) []SpawnPoint {
	if kind == "" {
		return c.SpawnPoints
	}
	var result []SpawnPoint
	for _, sp := range c.SpawnPoints {
		if strings.EqualFold(sp.Kind, kind) {
			result = append(result, sp)
		}
	}
	return result
}

// CustomPosition 查询全局表中指定波次的固定生成坐标
func (c *ArenaConfig) CustomPosition(wave int) (types.Vec2, bool) {
	if c.CustomWavePositions == nil {
		return types.Vec2{}, false
	}
	pos, ok := c.CustomWavePositions[wave]
	return pos, ok
}
