package entities

import (
	"fmt"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// NewEnemyEntity 创建敌人实体
//
// 参数:
//   - em: 实体管理器
//   - kind: 敌人类型定义（提供精灵图和接触伤害）
//   - hp: 本波计算出的血量
//   - speed: 本波计算出的速度（调用方已钳制）
//   - pos: 生成位置（已经过位置搜索）
//   - wave: 当前波次
//
// 返回:
//   - ecs.EntityID: 敌人实体ID
//   - error: 参数无效时返回错误
func NewEnemyEntity(em *ecs.EntityManager, kind *config.EnemyKind, hp int, speed float64, pos types.Vec2, wave int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if kind == nil {
		return 0, fmt.Errorf("enemy kind cannot be nil")
	}
	if hp < 1 {
		hp = 1
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	ecs.AddComponent(em, id, &components.HealthComponent{
		Team:          types.TeamMonsters,
		CurrentHealth: hp,
		MaxHealth:     hp,
	})
	ecs.AddComponent(em, id, &components.ColliderComponent{
		Radius: config.UnitRadius,
		Tag:    config.TagUnit,
	})
	ecs.AddComponent(em, id, &components.EnemyComponent{
		Kind:   kind.Name,
		Sprite: kind.Sprite,
		Speed:  speed,
		Damage: kind.Damage,
		Wave:   wave,
	})
	return id, nil
}
