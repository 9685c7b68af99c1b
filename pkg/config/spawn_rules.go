package config

import (
	"fmt"
	"strings"

	"github.com/decker502/arena/internal/rpn"
)

// 生成规则公式中可用的变量名
const (
	VarBase = "base" // 敌人基础值（hp 公式为基础血量，speed 公式为基础速度）
	VarWave = "wave" // 当前波次
)

// LocationRandom 任意生成点
const LocationRandom = "random"

// SpawnRule 单条敌人生成规则
// 公式字段为空表示未配置，使用敌人类型的默认值
type SpawnRule struct {
	Enemy    string `yaml:"enemy"`    // 敌人类型名称
	Count    string `yaml:"count"`    // 总数公式（必填）
	HP       string `yaml:"hp"`       // 血量公式（可选）
	Speed    string `yaml:"speed"`    // 速度公式（可选）
	Delay    string `yaml:"delay"`    // 批次间隔公式（可选，默认 2 秒）
	Sequence []int  `yaml:"sequence"` // 批次大小序列，循环使用，默认 [1]
	Location string `yaml:"location"` // 生成位置标签："random" 或 "random <kind>"
}

// applySpawnRuleDefaults 设置生成规则默认值
func applySpawnRuleDefaults(rule *SpawnRule) {
	if rule.Location == "" {
		rule.Location = LocationRandom
	}
}

// validateSpawnRule 验证生成规则的结构
func validateSpawnRule(rule *SpawnRule) error {
	if rule.Enemy == "" {
		return fmt.Errorf("enemy is required")
	}
	if strings.TrimSpace(rule.Count) == "" {
		return fmt.Errorf("count is required")
	}
	for i, n := range rule.Sequence {
		if n < 1 {
			return fmt.Errorf("sequence[%d] must be a positive integer, got %d", i, n)
		}
	}
	if _, err := ParseLocation(rule.Location); err != nil {
		return err
	}
	return nil
}

// BatchSequence 返回批次序列，未配置时为 [1]
func (r *SpawnRule) BatchSequence() []int {
	if len(r.Sequence) == 0 {
		return []int{1}
	}
	return r.Sequence
}

// formulaErrors 返回各公式字段的语法错误
func (r *SpawnRule) formulaErrors() map[string]error {
	errs := make(map[string]error)
	fields := map[string]string{"count": r.Count, "hp": r.HP, "speed": r.Speed, "delay": r.Delay}
	for name, expr := range fields {
		if name != "count" && expr == "" {
			continue
		}
		if err := rpn.Validate(expr, VarBase, VarWave); err != nil {
			errs[name] = err
		}
	}
	return errs
}

// ParseLocation 解析位置标签，返回生成点类型（空字符串表示任意类型）
//
// 支持格式：
//   - "" 或 "random"：任意生成点
//   - "random <kind>"：指定类型的随机生成点，类型大小写不敏感
func ParseLocation(loc string) (string, error) {
	fields := strings.Fields(loc)
	switch {
	case len(fields) == 0:
		return "", nil
	case len(fields) == 1 && fields[0] == LocationRandom:
		return "", nil
	case len(fields) == 2 && fields[0] == LocationRandom:
		return strings.ToUpper(fields[1]), nil
	default:
		return "", fmt.Errorf("invalid location %q (expected \"random\" or \"random <kind>\")", loc)
	}
}
