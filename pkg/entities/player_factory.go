package entities

import (
	"fmt"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// NewPlayerEntity 创建玩家实体
// 属性在第一波开始前由职业公式填充，这里只设置最小可用值
func NewPlayerEntity(em *ecs.EntityManager, class string, pos types.Vec2) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if class == "" {
		class = config.DefaultClass
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	ecs.AddComponent(em, id, &components.HealthComponent{
		Team:          types.TeamPlayer,
		CurrentHealth: 1,
		MaxHealth:     1,
	})
	ecs.AddComponent(em, id, &components.ColliderComponent{
		Radius: config.UnitRadius,
		Tag:    config.TagUnit,
	})
	ecs.AddComponent(em, id, &components.PlayerComponent{
		Class:   class,
		FacingX: 1,
	})
	return id, nil
}
