package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/decker502/arena/internal/rpn"
	"gopkg.in/yaml.v3"
)

// DefaultClass 未选择职业时使用的职业
const DefaultClass = "mage"

// ClassDefinition 玩家职业定义
// 各属性为以 wave 为变量的公式
type ClassDefinition struct {
	Sprite           int    `yaml:"sprite"`
	Health           string `yaml:"health"`
	Mana             string `yaml:"mana"`
	ManaRegeneration string `yaml:"manaRegeneration"`
	Spellpower       string `yaml:"spellpower"`
	Speed            string `yaml:"speed"`
}

// ClassStats 某一波次下的职业属性（未取整）
type ClassStats struct {
	Health           float64
	Mana             float64
	ManaRegeneration float64
	Spellpower       float64
	Speed            float64
}

// ClassesConfig 职业配置文件结构
type ClassesConfig struct {
	Classes map[string]ClassDefinition `yaml:"classes"`
}

// LoadClassesConfig 从 YAML 文件加载职业配置
func LoadClassesConfig(filepath string) (*ClassesConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read classes file %s: %w", filepath, err)
	}
	return ParseClassesConfig(data, filepath)
}

// ParseClassesConfig 解析职业配置内容
func ParseClassesConfig(data []byte, source string) (*ClassesConfig, error) {
	var cfg ClassesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse classes YAML from %s: %w", source, err)
	}

	if len(cfg.Classes) == 0 {
		return nil, fmt.Errorf("invalid classes config in %s: at least one class is required", source)
	}
	for name, def := range cfg.Classes {
		if def.Health == "" || def.Mana == "" || def.ManaRegeneration == "" || def.Spellpower == "" || def.Speed == "" {
			return nil, fmt.Errorf("invalid classes config in %s: class %s: all stat formulas are required", source, name)
		}
	}

	return &cfg, nil
}

// Names 返回排序后的职业名称列表
func (c *ClassesConfig) Names() []string {
	names := make([]string, 0, len(c.Classes))
	for name := range c.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve 返回职业名称对应的定义；名称为空时使用 DefaultClass
func (c *ClassesConfig) Resolve(name string) (string, ClassDefinition, bool) {
	if name == "" {
		name = DefaultClass
	}
	def, ok := c.Classes[name]
	return name, def, ok
}

// StatsForWave 计算职业在指定波次的属性
//
// 与生成规则不同，这里公式错误会返回错误而不是回退：
// 调用方（每波缩放）负责记录错误并保留上一次的属性
func (c *ClassesConfig) StatsForWave(class string, wave int) (ClassStats, error) {
	name, def, ok := c.Resolve(class)
	if !ok {
		return ClassStats{}, fmt.Errorf("unknown class %q", name)
	}

	vars := rpn.Vars{VarWave: float64(wave)}
	var stats ClassStats
	fields := []struct {
		name string
		expr string
		dst  *float64
	}{
		{"health", def.Health, &stats.Health},
		{"mana", def.Mana, &stats.Mana},
		{"manaRegeneration", def.ManaRegeneration, &stats.ManaRegeneration},
		{"spellpower", def.Spellpower, &stats.Spellpower},
		{"speed", def.Speed, &stats.Speed},
	}
	for _, f := range fields {
		v, err := rpn.Evaluate(f.expr, vars)
		if err != nil {
			return ClassStats{}, fmt.Errorf("class %s: %s: %w", name, f.name, err)
		}
		*f.dst = v
	}
	return stats, nil
}
