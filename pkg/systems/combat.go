package systems

import (
	"log"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// SetMaxHealth 设置最大生命值
// 原本满血时当前生命值随之变为新上限；否则当前生命值被限制在新上限内
func SetMaxHealth(h *components.HealthComponent, max int) {
	if max < 1 {
		max = 1
	}
	wasFull := h.CurrentHealth >= h.MaxHealth
	h.MaxHealth = max
	if wasFull || h.CurrentHealth > max {
		h.CurrentHealth = max
	}
}

// Heal 回复生命值，不超过上限
func Heal(h *components.HealthComponent, amount int) {
	if amount <= 0 {
		return
	}
	h.CurrentHealth += amount
	if h.CurrentHealth > h.MaxHealth {
		h.CurrentHealth = h.MaxHealth
	}
}

// Combat 伤害结算
// 敌人死亡会同步减少存活计数并发布 enemy-killed；玩家死亡结束对局
type Combat struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	eventBus      *game.EventBus
}

// NewCombat 创建伤害结算器
func NewCombat(em *ecs.EntityManager, gs *game.GameState, bus *game.EventBus) *Combat {
	return &Combat{entityManager: em, gameState: gs, eventBus: bus}
}

// Damage 对实体造成伤害
// 返回：目标是否因此死亡
func (c *Combat) Damage(target ecs.EntityID, amount int) bool {
	if amount <= 0 || c.entityManager.IsMarkedForDestroy(target) {
		return false
	}
	h, ok := ecs.GetComponent[*components.HealthComponent](c.entityManager, target)
	if !ok || h.CurrentHealth <= 0 {
		return false
	}

	h.CurrentHealth -= amount

	if h.Team == types.TeamPlayer {
		c.eventBus.Publish(game.Event{Type: game.EventPlayerDamaged, Amount: amount, Entity: uint64(target)})
		if h.CurrentHealth <= 0 && !c.gameState.IsGameOver() {
			h.CurrentHealth = 0
			log.Printf("[Combat] Player died")
			c.gameState.Lose()
			c.eventBus.Publish(game.Event{Type: game.EventPlayerDied, Entity: uint64(target)})
			return true
		}
		return false
	}

	if h.CurrentHealth <= 0 {
		c.KillEnemy(target)
		return true
	}
	return false
}

// KillEnemy 移除敌人并更新存活计数
// 对同一实体重复调用不会重复减计数
func (c *Combat) KillEnemy(id ecs.EntityID) {
	if c.entityManager.IsMarkedForDestroy(id) || !c.entityManager.Exists(id) {
		return
	}
	if !ecs.HasComponent[*components.EnemyComponent](c.entityManager, id) {
		return
	}
	c.entityManager.DestroyEntity(id)
	c.gameState.RemoveEnemy()
	c.eventBus.Publish(game.Event{Type: game.EventEnemyKilled, Entity: uint64(id)})
}
