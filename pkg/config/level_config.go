package config

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/arena/pkg/types"
	"gopkg.in/yaml.v3"
)

// 波次推进方式
const (
	// AdvanceDoor 波次结束后等待外部触发（玩家穿过大门）再开始下一波
	AdvanceDoor = "door"
	// AdvanceAuto 波次结束后经过 InterWaveDelay 秒自动开始下一波
	AdvanceAuto = "auto"
)

// LevelsConfig 关卡配置文件结构
type LevelsConfig struct {
	Levels []LevelDefinition `yaml:"levels"` // 按菜单顺序排列的关卡列表
}

// LevelDefinition 关卡定义
// 内容加载时创建，游戏过程中只读
type LevelDefinition struct {
	Name  string `yaml:"name"`  // 关卡名称，如 "Easy"
	Waves int    `yaml:"waves"` // 波次数，<= 0 表示无尽模式

	// Advance 波次结束后的推进方式："door" 或 "auto"，默认 "door"
	Advance string `yaml:"advance"`
	// InterWaveDelay auto 模式下两波之间的间隔（秒），默认 0
	InterWaveDelay float64 `yaml:"interWaveDelay"`
	// ClearTimeout 等待清场的安全超时（秒），0 表示不设超时
	ClearTimeout float64 `yaml:"clearTimeout"`

	// CustomWavePositions 波次 → 固定生成坐标，覆盖场地的默认表
	CustomWavePositions map[int]types.Vec2 `yaml:"customWavePositions"`

	Spawns []SpawnRule `yaml:"spawns"` // 按声明顺序执行的生成规则
}

// IsEndless 是否为无尽模式
func (l *LevelDefinition) IsEndless() bool {
	return l.Waves <= 0
}

// CustomPosition 查询本关卡指定波次的固定生成坐标
func (l *LevelDefinition) CustomPosition(wave int) (types.Vec2, bool) {
	if l.CustomWavePositions == nil {
		return types.Vec2{}, false
	}
	pos, ok := l.CustomWavePositions[wave]
	return pos, ok
}

// LoadLevelsConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelsConfig - 解析后的配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelsConfig(filepath string) (*LevelsConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels file %s: %w", filepath, err)
	}
	return ParseLevelsConfig(data, filepath)
}

// ParseLevelsConfig 解析关卡配置内容
// source 仅用于错误信息
func ParseLevelsConfig(data []byte, source string) (*LevelsConfig, error) {
	var cfg LevelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse levels YAML from %s: %w", source, err)
	}

	applyLevelDefaults(&cfg)

	if err := validateLevelsConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid levels config in %s: %w", source, err)
	}

	warnInvalidFormulas(&cfg)
	return &cfg, nil
}

// Get 按名称查找关卡
func (c *LevelsConfig) Get(name string) (*LevelDefinition, bool) {
	for i := range c.Levels {
		if c.Levels[i].Name == name {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

// Names 返回所有关卡名称（保持配置顺序）
func (c *LevelsConfig) Names() []string {
	names := make([]string, 0, len(c.Levels))
	for _, l := range c.Levels {
		names = append(names, l.Name)
	}
	return names
}

// applyLevelDefaults 为缺失的可选字段设置默认值
func applyLevelDefaults(cfg *LevelsConfig) {
	for i := range cfg.Levels {
		level := &cfg.Levels[i]
		if level.Advance == "" {
			level.Advance = AdvanceDoor
		}
		for j := range level.Spawns {
			applySpawnRuleDefaults(&level.Spawns[j])
		}
	}
}

// validateLevelsConfig 验证关卡配置的完整性和合法性
func validateLevelsConfig(cfg *LevelsConfig) error {
	if len(cfg.Levels) == 0 {
		return fmt.Errorf("at least one level is required")
	}

	seen := make(map[string]bool, len(cfg.Levels))
	for i, level := range cfg.Levels {
		if level.Name == "" {
			return fmt.Errorf("level %d: name is required", i)
		}
		if seen[level.Name] {
			return fmt.Errorf("level %d: duplicate name %q", i, level.Name)
		}
		seen[level.Name] = true

		if level.Advance != AdvanceDoor && level.Advance != AdvanceAuto {
			return fmt.Errorf("level %q: advance must be one of: door, auto, got %q", level.Name, level.Advance)
		}
		if level.InterWaveDelay < 0 {
			return fmt.Errorf("level %q: interWaveDelay cannot be negative", level.Name)
		}
		if level.ClearTimeout < 0 {
			return fmt.Errorf("level %q: clearTimeout cannot be negative", level.Name)
		}
		for wave := range level.CustomWavePositions {
			if wave < 1 {
				return fmt.Errorf("level %q: customWavePositions key must be >= 1, got %d", level.Name, wave)
			}
		}

		for j := range level.Spawns {
			if err := validateSpawnRule(&level.Spawns[j]); err != nil {
				return fmt.Errorf("level %q, spawn %d: %w", level.Name, j, err)
			}
		}
	}

	return nil
}

// warnInvalidFormulas 检查公式语法
// 公式错误不会阻止加载：运行时求值失败会回退到默认值，这里只提前给出警告
func warnInvalidFormulas(cfg *LevelsConfig) {
	for _, level := range cfg.Levels {
		for j, spawn := range level.Spawns {
			for field, err := range spawn.formulaErrors() {
				log.Printf("[Config] Warning: level %q spawn %d (%s): %s formula invalid, fallback will be used: %v",
					level.Name, j, spawn.Enemy, field, err)
			}
		}
	}
}
