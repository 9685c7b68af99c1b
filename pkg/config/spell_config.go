package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 法术类型
const (
	SpellKindBolt    = "bolt"    // 普通投射物
	SpellKindRailgun = "railgun" // 自带穿透、无视地形的投射物
	SpellKindBurst   = "burst"   // 命中后范围爆炸
)

// 法术修饰器类型
const (
	ModifierPiercing = "piercing"
	ModifierHaste    = "haste"
)

// 法术公式中可用的变量名
const VarPower = "power"

// MaxSpellSlots 施法者的法术槽数量
const MaxSpellSlots = 4

// ProjectileDefinition 投射物参数
type ProjectileDefinition struct {
	Trajectory string `yaml:"trajectory"` // 轨迹类型（渲染层使用）
	Speed      string `yaml:"speed"`      // 速度公式
	Lifetime   string `yaml:"lifetime"`   // 存活时间公式，默认 "1"
	Sprite     int    `yaml:"sprite"`
}

// SpellDefinition 法术定义
type SpellDefinition struct {
	Name        string               `yaml:"name"`
	Kind        string               `yaml:"kind"`
	Description string               `yaml:"description"`
	Icon        int                  `yaml:"icon"`
	ManaCost    string               `yaml:"manaCost"`
	Cooldown    string               `yaml:"cooldown"`
	Damage      string               `yaml:"damage"`
	Radius      string               `yaml:"radius"` // burst 爆炸半径
	Projectile  ProjectileDefinition `yaml:"projectile"`
}

// ModifierDefinition 法术修饰器定义
type ModifierDefinition struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	SpeedBonus  string `yaml:"speedBonus"` // haste
	Duration    string `yaml:"duration"`   // haste
}

// LoadoutEntry 初始法术槽配置
type LoadoutEntry struct {
	Spell     string   `yaml:"spell"`
	Modifiers []string `yaml:"modifiers"` // 从外到内的修饰器顺序
}

// SpellsConfig 法术配置文件结构
type SpellsConfig struct {
	Spells    []SpellDefinition    `yaml:"spells"`
	Modifiers []ModifierDefinition `yaml:"modifiers"`
	Loadout   []LoadoutEntry       `yaml:"loadout"`
}

// LoadSpellsConfig 从 YAML 文件加载法术配置
func LoadSpellsConfig(filepath string) (*SpellsConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spells file %s: %w", filepath, err)
	}
	return ParseSpellsConfig(data, filepath)
}

// ParseSpellsConfig 解析法术配置内容
func ParseSpellsConfig(data []byte, source string) (*SpellsConfig, error) {
	var cfg SpellsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse spells YAML from %s: %w", source, err)
	}

	applySpellDefaults(&cfg)

	if err := validateSpells(&cfg); err != nil {
		return nil, fmt.Errorf("invalid spells config in %s: %w", source, err)
	}
	return &cfg, nil
}

// applySpellDefaults 设置法术默认值
func applySpellDefaults(cfg *SpellsConfig) {
	for i := range cfg.Spells {
		s := &cfg.Spells[i]
		if s.Kind == "" {
			s.Kind = SpellKindBolt
		}
		if s.Projectile.Lifetime == "" {
			s.Projectile.Lifetime = "1"
		}
		if s.Kind == SpellKindBurst && s.Radius == "" {
			s.Radius = "2.5"
		}
	}
}

// validateSpells 验证法术配置
func validateSpells(cfg *SpellsConfig) error {
	spells := make(map[string]bool, len(cfg.Spells))
	for i, s := range cfg.Spells {
		if s.Name == "" {
			return fmt.Errorf("spell %d: name is required", i)
		}
		switch s.Kind {
		case SpellKindBolt, SpellKindRailgun, SpellKindBurst:
		default:
			return fmt.Errorf("spell %s: unknown kind %q", s.Name, s.Kind)
		}
		spells[s.Name] = true
	}

	modifiers := make(map[string]bool, len(cfg.Modifiers))
	for i, m := range cfg.Modifiers {
		if m.Name == "" {
			return fmt.Errorf("modifier %d: name is required", i)
		}
		switch m.Kind {
		case ModifierPiercing, ModifierHaste:
		default:
			return fmt.Errorf("modifier %s: unknown kind %q", m.Name, m.Kind)
		}
		modifiers[m.Name] = true
	}

	if len(cfg.Loadout) > MaxSpellSlots {
		return fmt.Errorf("loadout has %d entries, at most %d slots", len(cfg.Loadout), MaxSpellSlots)
	}
	for i, entry := range cfg.Loadout {
		if !spells[entry.Spell] {
			return fmt.Errorf("loadout %d: unknown spell %q", i, entry.Spell)
		}
		for _, m := range entry.Modifiers {
			if !modifiers[m] {
				return fmt.Errorf("loadout %d: unknown modifier %q", i, m)
			}
		}
	}
	return nil
}

// GetSpell 按名称查找法术
func (c *SpellsConfig) GetSpell(name string) (*SpellDefinition, bool) {
	for i := range c.Spells {
		if c.Spells[i].Name == name {
			return &c.Spells[i], true
		}
	}
	return nil, false
}

// GetModifier 按名称查找修饰器
func (c *SpellsConfig) GetModifier(name string) (*ModifierDefinition, bool) {
	for i := range c.Modifiers {
		if c.Modifiers[i].Name == name {
			return &c.Modifiers[i], true
		}
	}
	return nil, false
}
