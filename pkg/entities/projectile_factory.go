package entities

import (
	"fmt"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// ProjectileSpec 投射物参数（由施法时的公式计算得到）
type ProjectileSpec struct {
	Team        types.Team
	Spell       string
	Sprite      int
	Origin      types.Vec2
	Direction   types.Vec2 // 不要求归一化
	Speed       float64
	Lifetime    float64
	Damage      int
	PierceCount int
	IgnoreWalls bool
	BurstRadius float64
}

// NewProjectileEntity 创建投射物实体
//
// 参数:
//   - em: 实体管理器
//   - spec: 投射物参数
//
// 返回:
//   - ecs.EntityID: 投射物实体ID
//   - error: 方向为零向量时返回错误
func NewProjectileEntity(em *ecs.EntityManager, spec ProjectileSpec) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	dir := spec.Direction.Normalize()
	if dir.IsZero() {
		return 0, fmt.Errorf("projectile direction cannot be zero")
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: spec.Origin})
	ecs.AddComponent(em, id, &components.VelocityComponent{Vel: dir.Scale(spec.Speed)})
	ecs.AddComponent(em, id, &components.ColliderComponent{
		Radius: config.ProjectileRadius,
		Tag:    config.TagProjectile,
	})
	ecs.AddComponent(em, id, &components.LifetimeComponent{Remaining: spec.Lifetime})
	ecs.AddComponent(em, id, &components.ProjectileComponent{
		Team:        spec.Team,
		Spell:       spec.Spell,
		Sprite:      spec.Sprite,
		Damage:      spec.Damage,
		PierceCount: spec.PierceCount,
		IgnoreWalls: spec.IgnoreWalls,
		BurstRadius: spec.BurstRadius,
		HitEntities: make(map[ecs.EntityID]bool),
	})
	return id, nil
}
