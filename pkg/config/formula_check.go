package config

import (
	"fmt"

	"github.com/decker502/arena/internal/rpn"
)

// FormulaIssue 一个无法通过语法检查的公式
type FormulaIssue struct {
	Source string // 公式所在位置，如 `level "Easy" spawn 0`
	Field  string // 字段名
	Expr   string
	Err    error
}

func (i FormulaIssue) String() string {
	return fmt.Sprintf("%s %s %q: %v", i.Source, i.Field, i.Expr, i.Err)
}

// formulaCheck 待检查的公式及其可用变量
type formulaCheck struct {
	source, field, expr string
	vars                []string
}

// CheckFormulas 检查全部内容中的公式语法
// 这些错误不会阻止加载（运行时回退到默认值），由检查工具和验证程序报告
func (c *Content) CheckFormulas() []FormulaIssue {
	var checks []formulaCheck
	add := func(source, field, expr string, vars ...string) {
		if expr != "" {
			checks = append(checks, formulaCheck{source, field, expr, vars})
		}
	}

	if c.Levels != nil {
		for _, level := range c.Levels.Levels {
			for j, rule := range level.Spawns {
				src := fmt.Sprintf("level %q spawn %d", level.Name, j)
				// count 必填，空公式也要报告
				checks = append(checks, formulaCheck{src, "count", rule.Count, []string{VarBase, VarWave}})
				add(src, "hp", rule.HP, VarBase, VarWave)
				add(src, "speed", rule.Speed, VarBase, VarWave)
				add(src, "delay", rule.Delay, VarBase, VarWave)
			}
		}
	}

	if c.Classes != nil {
		for _, name := range c.Classes.Names() {
			def := c.Classes.Classes[name]
			src := fmt.Sprintf("class %q", name)
			add(src, "health", def.Health, VarWave)
			add(src, "mana", def.Mana, VarWave)
			add(src, "manaRegeneration", def.ManaRegeneration, VarWave)
			add(src, "spellpower", def.Spellpower, VarWave)
			add(src, "speed", def.Speed, VarWave)
		}
	}

	if c.Relics != nil {
		for _, r := range c.Relics.Relics {
			src := fmt.Sprintf("relic %q", r.Name)
			add(src, "trigger.amount", r.Trigger.Amount)
			add(src, "effect.amount", r.Effect.Amount, VarWave)
			add(src, "effect.duration", r.Effect.Duration)
		}
	}

	if c.Spells != nil {
		for _, s := range c.Spells.Spells {
			src := fmt.Sprintf("spell %q", s.Name)
			add(src, "manaCost", s.ManaCost, VarPower, VarWave)
			add(src, "cooldown", s.Cooldown, VarPower, VarWave)
			add(src, "damage", s.Damage, VarPower, VarWave)
			add(src, "radius", s.Radius, VarPower, VarWave)
			add(src, "projectile.speed", s.Projectile.Speed, VarPower, VarWave)
			add(src, "projectile.lifetime", s.Projectile.Lifetime, VarPower, VarWave)
		}
		for _, m := range c.Spells.Modifiers {
			src := fmt.Sprintf("modifier %q", m.Name)
			add(src, "speedBonus", m.SpeedBonus, VarPower, VarWave)
			add(src, "duration", m.Duration, VarPower, VarWave)
		}
	}

	var issues []FormulaIssue
	for _, ch := range checks {
		if err := rpn.Validate(ch.expr, ch.vars...); err != nil {
			issues = append(issues, FormulaIssue{Source: ch.source, Field: ch.field, Expr: ch.expr, Err: err})
		}
	}
	return issues
}
