package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyKind 单个敌人类型的默认属性
type EnemyKind struct {
	Name   string  `yaml:"name"`   // 敌人类型名称，生成规则通过名称引用
	Sprite int     `yaml:"sprite"` // 精灵图索引（渲染层使用）
	HP     int     `yaml:"hp"`     // 基础血量
	Speed  float64 `yaml:"speed"`  // 基础速度
	Damage int     `yaml:"damage"` // 接触伤害
}

// EnemiesConfig 敌人属性配置文件结构
type EnemiesConfig struct {
	Enemies []EnemyKind `yaml:"enemies"`

	byName map[string]*EnemyKind
}

// LoadEnemiesConfig 从 YAML 文件加载敌人属性配置
func LoadEnemiesConfig(filepath string) (*EnemiesConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemies file %s: %w", filepath, err)
	}
	return ParseEnemiesConfig(data, filepath)
}

// ParseEnemiesConfig 解析敌人属性配置内容
func ParseEnemiesConfig(data []byte, source string) (*EnemiesConfig, error) {
	var cfg EnemiesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse enemies YAML from %s: %w", source, err)
	}

	if err := validateEnemies(&cfg); err != nil {
		return nil, fmt.Errorf("invalid enemies config in %s: %w", source, err)
	}

	cfg.index()
	return &cfg, nil
}

// validateEnemies 验证敌人属性配置的完整性和合法性
func validateEnemies(cfg *EnemiesConfig) error {
	if len(cfg.Enemies) == 0 {
		return fmt.Errorf("at least one enemy kind is required")
	}

	seen := make(map[string]bool, len(cfg.Enemies))
	for i, e := range cfg.Enemies {
		if e.Name == "" {
			return fmt.Errorf("enemy %d: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("enemy %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true

		if e.HP < 1 {
			return fmt.Errorf("enemy %s: hp must be at least 1, got %d", e.Name, e.HP)
		}
		if e.Speed < 0 {
			return fmt.Errorf("enemy %s: speed cannot be negative, got %v", e.Name, e.Speed)
		}
		if e.Damage < 0 {
			return fmt.Errorf("enemy %s: damage cannot be negative, got %d", e.Name, e.Damage)
		}
	}
	return nil
}

func (c *EnemiesConfig) index() {
	c.byName = make(map[string]*EnemyKind, len(c.Enemies))
	for i := range c.Enemies {
		c.byName[c.Enemies[i].Name] = &c.Enemies[i]
	}
}

// Get 按名称查找敌人类型
// 如果类型不存在，返回 nil 和 false
func (c *EnemiesConfig) Get(name string) (*EnemyKind, bool) {
	if c.byName == nil {
		c.index()
	}
	kind, ok := c.byName[name]
	return kind, ok
}
