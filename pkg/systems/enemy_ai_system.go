package systems

import (
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// EnemyAISystem 敌人追击系统
// 敌人以 Speed × EnemySpeedScale 的速度直线追向玩家，
// 进入 ContactRadius 后每 ContactDamageCooldown 秒造成一次接触伤害
type EnemyAISystem struct {
	entityManager *ecs.EntityManager
	combat        *Combat
	arena         *config.ArenaConfig
	isBlocked     BlockedFunc

	playerID ecs.EntityID
}

// NewEnemyAISystem 创建敌人追击系统
func NewEnemyAISystem(em *ecs.EntityManager, combat *Combat, arena *config.ArenaConfig) *EnemyAISystem {
	return &EnemyAISystem{
		entityManager: em,
		combat:        combat,
		arena:         arena,
		isBlocked:     NewColliderBlockedFunc(em),
	}
}

// SetPlayer 设置追击目标
func (s *EnemyAISystem) SetPlayer(id ecs.EntityID) {
	s.playerID = id
}

// Update 移动所有敌人并结算接触伤害
func (s *EnemyAISystem) Update(deltaTime float64) {
	playerPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.PositionComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		vel, hasVel := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)

		if enemy.ContactCooldown > 0 {
			enemy.ContactCooldown -= deltaTime
		}

		toPlayer := playerPos.Pos.Sub(pos.Pos)
		if toPlayer.Len() <= config.ContactRadius {
			if hasVel {
				vel.Vel = types.Vec2{}
			}
			if enemy.ContactCooldown <= 0 {
				enemy.ContactCooldown = config.ContactDamageCooldown
				s.combat.Damage(s.playerID, enemy.Damage)
			}
			continue
		}

		velocity := toPlayer.Normalize().Scale(enemy.Speed * config.EnemySpeedScale)
		if hasVel {
			vel.Vel = velocity
		}
		pos.Pos = clampToArena(moveWithSlide(pos.Pos, velocity.Scale(deltaTime), s.isBlocked), s.arena)
	}
}
