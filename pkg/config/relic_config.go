package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// 遗物触发条件
const (
	TriggerWaveEnd    = "wave-end"
	TriggerTakeDamage = "take-damage"
	TriggerOnKill     = "on-kill"
	TriggerCastSpell  = "cast-spell"
	TriggerStandStill = "stand-still"
)

// 遗物效果类型
const (
	EffectGainMana       = "gain-mana"
	EffectGainHealth     = "gain-health"
	EffectGainSpellpower = "gain-spellpower"
	EffectGainMaxHP      = "gain-maxhp"
	EffectSpeedBoost     = "speed-boost"
)

// gain-spellpower 的持续条件
const (
	UntilCastSpell = "cast-spell"
	UntilMove      = "move"
	UntilDamage    = "damage"
)

// RelicTrigger 遗物触发条件
type RelicTrigger struct {
	Type   string `yaml:"type"`
	Amount string `yaml:"amount"` // stand-still: 静止秒数
}

// RelicEffect 遗物效果
type RelicEffect struct {
	Type     string `yaml:"type"`
	Amount   string `yaml:"amount"`   // 数值或公式（gain-spellpower 支持 wave 变量）
	Until    string `yaml:"until"`    // gain-spellpower 的持续条件
	Duration string `yaml:"duration"` // speed-boost 持续秒数
}

// RelicDefinition 遗物定义
type RelicDefinition struct {
	Name        string       `yaml:"name"`
	Sprite      int          `yaml:"sprite"`
	Description string       `yaml:"description"`
	Trigger     RelicTrigger `yaml:"trigger"`
	Effect      RelicEffect  `yaml:"effect"`
}

// RelicsConfig 遗物配置文件结构
type RelicsConfig struct {
	Relics []RelicDefinition `yaml:"relics"`
}

// LoadRelicsConfig 从 YAML 文件加载遗物配置
func LoadRelicsConfig(filepath string) (*RelicsConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read relics file %s: %w", filepath, err)
	}
	return ParseRelicsConfig(data, filepath)
}

// ParseRelicsConfig 解析遗物配置内容
func ParseRelicsConfig(data []byte, source string) (*RelicsConfig, error) {
	var cfg RelicsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse relics YAML from %s: %w", source, err)
	}

	for i := range cfg.Relics {
		if err := validateRelic(&cfg.Relics[i]); err != nil {
			return nil, fmt.Errorf("invalid relics config in %s: relic %d: %w", source, i, err)
		}
	}
	return &cfg, nil
}

// Get 按名称查找遗物
func (c *RelicsConfig) Get(name string) (*RelicDefinition, bool) {
	for i := range c.Relics {
		if c.Relics[i].Name == name {
			return &c.Relics[i], true
		}
	}
	return nil, false
}

// validateRelic 验证遗物定义
// 未知的效果类型是配置错误，在加载时拒绝
func validateRelic(r *RelicDefinition) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch r.Trigger.Type {
	case TriggerWaveEnd, TriggerTakeDamage, TriggerOnKill, TriggerCastSpell:
	case TriggerStandStill:
		if _, err := strconv.ParseFloat(r.Trigger.Amount, 64); err != nil {
			return fmt.Errorf("%s: stand-still trigger amount must be a number: %w", r.Name, err)
		}
	default:
		return fmt.Errorf("%s: unknown trigger type %q", r.Name, r.Trigger.Type)
	}

	e := r.Effect
	switch e.Type {
	case EffectGainMana, EffectGainMaxHP:
		if _, err := strconv.Atoi(e.Amount); err != nil {
			return fmt.Errorf("%s: %s amount must be an integer: %w", r.Name, e.Type, err)
		}
	case EffectGainHealth:
		if _, err := strconv.ParseFloat(e.Amount, 64); err != nil {
			return fmt.Errorf("%s: gain-health amount must be a number: %w", r.Name, err)
		}
	case EffectGainSpellpower:
		switch e.Until {
		case "", UntilMove:
			// 公式，运行时求值
		case UntilCastSpell, UntilDamage:
			if _, err := strconv.Atoi(e.Amount); err != nil {
				return fmt.Errorf("%s: gain-spellpower until %s amount must be an integer: %w", r.Name, e.Until, err)
			}
		default:
			return fmt.Errorf("%s: unknown until %q", r.Name, e.Until)
		}
	case EffectSpeedBoost:
		if _, err := strconv.ParseFloat(e.Amount, 64); err != nil {
			return fmt.Errorf("%s: speed-boost amount must be a number: %w", r.Name, err)
		}
		if _, err := strconv.ParseFloat(e.Duration, 64); err != nil {
			return fmt.Errorf("%s: speed-boost duration must be a number: %w", r.Name, err)
		}
	default:
		return fmt.Errorf("%s: unknown effect type %q", r.Name, e.Type)
	}
	return nil
}
