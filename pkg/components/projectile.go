package components

import (
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// ProjectileComponent 法术投射物
type ProjectileComponent struct {
	Team   types.Team // 发射者阵营，只命中敌对阵营
	Spell  string     // 来源法术名称
	Sprite int
	Damage int

	// PierceCount 剩余可穿透的单位数量；0 表示命中即销毁，负数表示无限穿透
	PierceCount int
	// IgnoreWalls 是否穿过墙体（railgun）
	IgnoreWalls bool
	// BurstRadius > 0 时命中后对范围内所有敌人造成伤害
	BurstRadius float64

	// HitEntities 已命中的实体，避免穿透时重复结算
	HitEntities map[ecs.EntityID]bool
}
