package systems

import (
	"log"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// ProjectileSystem 投射物系统
//
// 每帧：推进存活时间 → 移动 → 墙体判定 → 单位命中判定。
// 命中敌对阵营的单位时通过 Combat 结算伤害：
//   - PierceCount == 0：命中后销毁
//   - PierceCount > 0：穿透，计数减一
//   - PierceCount < 0：无限穿透
//
// BurstRadius > 0 的投射物在命中处爆炸，对范围内所有敌对单位再结算一次伤害。
// 撞墙会销毁投射物（IgnoreWalls 除外），爆炸型投射物撞墙也会爆炸。
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	combat        *Combat
}

// NewProjectileSystem 创建投射物系统
func NewProjectileSystem(em *ecs.EntityManager, combat *Combat) *ProjectileSystem {
	return &ProjectileSystem{entityManager: em, combat: combat}
}

// Update 推进所有投射物
func (s *ProjectileSystem) Update(deltaTime float64) {
	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith3[*components.ProjectileComponent, *components.PositionComponent, *components.VelocityComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)

		if lt, ok := ecs.GetComponent[*components.LifetimeComponent](em, id); ok && lt.Expire(deltaTime) {
			em.DestroyEntity(id)
			continue
		}

		pos.Pos = pos.Pos.Add(vel.Vel.Scale(deltaTime))

		if !proj.IgnoreWalls && s.hitsWall(pos.Pos) {
			if proj.BurstRadius > 0 {
				s.explode(proj, pos.Pos)
			}
			em.DestroyEntity(id)
			continue
		}

		s.resolveHits(id, proj, pos.Pos)
	}
}

// hitsWall 位置是否与墙或未开启的门重叠
func (s *ProjectileSystem) hitsWall(p types.Vec2) bool {
	for _, id := range ecs.GetEntitiesWith2[*components.ColliderComponent, *components.PositionComponent](s.entityManager) {
		col, _ := ecs.GetComponent[*components.ColliderComponent](s.entityManager, id)
		if col.Tag != config.TagWall && col.Tag != config.TagDoor {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if pos.Pos.Dist(p) < col.Radius+config.ProjectileRadius {
			return true
		}
	}
	return false
}

// resolveHits 结算投射物与单位的碰撞
func (s *ProjectileSystem) resolveHits(id ecs.EntityID, proj *components.ProjectileComponent, p types.Vec2) {
	em := s.entityManager
	for _, target := range s.hostileUnits(proj.Team) {
		if proj.HitEntities[target] || em.IsMarkedForDestroy(target) {
			continue
		}
		tpos, _ := ecs.GetComponent[*components.PositionComponent](em, target)
		col, _ := ecs.GetComponent[*components.ColliderComponent](em, target)
		if tpos.Pos.Dist(p) >= col.Radius+config.ProjectileRadius {
			continue
		}

		proj.HitEntities[target] = true
		s.combat.Damage(target, proj.Damage)
		if proj.BurstRadius > 0 {
			s.explode(proj, p)
		}

		if proj.PierceCount == 0 {
			em.DestroyEntity(id)
			return
		}
		if proj.PierceCount > 0 {
			proj.PierceCount--
		}
	}
}

// explode 对 center 周围 BurstRadius 内的所有敌对单位造成伤害
func (s *ProjectileSystem) explode(proj *components.ProjectileComponent, center types.Vec2) {
	hits := 0
	for _, target := range s.hostileUnits(proj.Team) {
		if s.entityManager.IsMarkedForDestroy(target) {
			continue
		}
		tpos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, target)
		if tpos.Pos.Dist(center) <= proj.BurstRadius {
			s.combat.Damage(target, proj.Damage)
			hits++
		}
	}
	log.Printf("[ProjectileSystem] %s burst at (%.1f, %.1f) hit %d units", proj.Spell, center.X, center.Y, hits)
}

// hostileUnits 与 team 敌对、带碰撞体的单位
func (s *ProjectileSystem) hostileUnits(team types.Team) []ecs.EntityID {
	em := s.entityManager
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith3[*components.HealthComponent, *components.PositionComponent, *components.ColliderComponent](em) {
		h, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		if h.Team == team || h.CurrentHealth <= 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}
