package systems

import (
	"fmt"
	"math"

	"github.com/decker502/arena/internal/rpn"
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/types"
)

// CastContext 一次施法的输入
type CastContext struct {
	Caster    ecs.EntityID
	Team      types.Team
	Origin    types.Vec2
	Direction types.Vec2
	Power     int // 施法时的法术强度（含临时加成）
	Wave      int
}

// vars 法术公式变量
func (c CastContext) vars() rpn.Vars {
	return rpn.Vars{config.VarPower: float64(c.Power), config.VarWave: float64(c.Wave)}
}

// CastFunc 执行一次施法，返回本次创建的投射物
type CastFunc func(ctx CastContext) ([]ecs.EntityID, error)

// CastModifier 包装一个 CastFunc，在其前后追加行为
type CastModifier func(next CastFunc) CastFunc

// ChainModifiers 把修饰器按顺序组合到基础施法上
// mods[0] 在最外层，最先执行
func ChainModifiers(base CastFunc, mods ...CastModifier) CastFunc {
	cast := base
	for i := len(mods) - 1; i >= 0; i-- {
		cast = mods[i](cast)
	}
	return cast
}

// spellDefaults 公式求值失败时使用的回退值
type spellDefaults struct {
	damage, speed, mana, cooldown float64
}

func defaultsFor(kind string) spellDefaults {
	switch kind {
	case config.SpellKindRailgun:
		return spellDefaults{damage: 50, speed: 25, mana: 10, cooldown: 3}
	case config.SpellKindBurst:
		return spellDefaults{damage: 30, speed: 10, mana: 25, cooldown: 4}
	default:
		return spellDefaults{damage: 30, speed: 10, mana: 10, cooldown: 2}
	}
}

// ManaCostAndCooldown 计算法术的法力消耗和冷却时间
// 装备法术时求值一次
func ManaCostAndCooldown(def *config.SpellDefinition, vars rpn.Vars) (int, float64) {
	d := defaultsFor(def.Kind)
	mana := rpn.SafeEvaluateInt(def.ManaCost, vars, int(d.mana))
	if mana < 0 {
		mana = 0
	}
	cooldown := rpn.SafeEvaluate(def.Cooldown, vars, d.cooldown)
	if cooldown < 0 {
		cooldown = 0
	}
	return mana, cooldown
}

// NewSpellCast 创建法术的基础施法：沿方向发射一枚投射物
// 伤害、速度和存活时间在每次施法时按 power / wave 求值
func NewSpellCast(em *ecs.EntityManager, def *config.SpellDefinition) CastFunc {
	d := defaultsFor(def.Kind)
	return func(ctx CastContext) ([]ecs.EntityID, error) {
		vars := ctx.vars()
		spec := entities.ProjectileSpec{
			Team:      ctx.Team,
			Spell:     def.Name,
			Sprite:    def.Projectile.Sprite,
			Origin:    ctx.Origin,
			Direction: ctx.Direction,
			Speed:     rpn.SafeEvaluate(def.Projectile.Speed, vars, d.speed),
			Lifetime:  rpn.SafeEvaluate(def.Projectile.Lifetime, vars, 1),
			Damage:    rpn.SafeEvaluateInt(def.Damage, vars, int(d.damage)),
		}
		switch def.Kind {
		case config.SpellKindRailgun:
			spec.PierceCount = -1
			spec.IgnoreWalls = true
		case config.SpellKindBurst:
			spec.BurstRadius = rpn.SafeEvaluate(def.Radius, vars, 2.5)
		}

		id, err := entities.NewProjectileEntity(em, spec)
		if err != nil {
			return nil, fmt.Errorf("cast %s: %w", def.Name, err)
		}
		return []ecs.EntityID{id}, nil
	}
}

// NewPiercingModifier 内层施法创建的投射物额外穿透一个单位
func NewPiercingModifier(em *ecs.EntityManager) CastModifier {
	return func(next CastFunc) CastFunc {
		return func(ctx CastContext) ([]ecs.EntityID, error) {
			ids, err := next(ctx)
			for _, id := range ids {
				if proj, ok := ecs.GetComponent[*components.ProjectileComponent](em, id); ok && proj.PierceCount >= 0 {
					proj.PierceCount++
				}
			}
			return ids, err
		}
	}
}

// NewHasteModifier 施法时给施法者一个临时速度加成，然后执行内层施法
//
// 加成值 speedBonus（默认 2，取整）和持续时间 duration（默认 2 秒）在每次施法时求值。
// 加成生效期间再次施法只刷新计时，不叠加。
func NewHasteModifier(em *ecs.EntityManager, def *config.ModifierDefinition) CastModifier {
	source := "haste:" + def.Name
	return func(next CastFunc) CastFunc {
		return func(ctx CastContext) ([]ecs.EntityID, error) {
			if player, ok := ecs.GetComponent[*components.PlayerComponent](em, ctx.Caster); ok {
				vars := ctx.vars()
				bonus := 2.0
				if def.SpeedBonus != "" {
					bonus = rpn.SafeEvaluate(def.SpeedBonus, vars, 2)
				}
				duration := 2.0
				if def.Duration != "" {
					duration = rpn.SafeEvaluate(def.Duration, vars, 2)
				}
				ApplySpeedBoost(player, components.SpeedBoost{
					Source:    source,
					Bonus:     math.Round(bonus),
					Remaining: duration,
				})
			}
			return next(ctx)
		}
	}
}

// NewCastModifier 按修饰器类型创建 CastModifier
func NewCastModifier(em *ecs.EntityManager, def *config.ModifierDefinition) (CastModifier, error) {
	switch def.Kind {
	case config.ModifierPiercing:
		return NewPiercingModifier(em), nil
	case config.ModifierHaste:
		return NewHasteModifier(em, def), nil
	default:
		return nil, fmt.Errorf("modifier %s: unknown kind %q", def.Name, def.Kind)
	}
}
