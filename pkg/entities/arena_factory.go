package entities

import (
	"fmt"
	"log"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
)

// NewObstacleEntity 创建静态障碍物
func NewObstacleEntity(em *ecs.EntityManager, def config.ObstacleDefinition) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: def.Position})
	ecs.AddComponent(em, id, &components.ColliderComponent{Radius: def.Radius, Tag: def.Tag})
	return id
}

// NewDoorEntity 创建关闭状态的门
func NewDoorEntity(em *ecs.EntityManager, def config.DoorDefinition) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: def.Position})
	ecs.AddComponent(em, id, &components.ColliderComponent{Radius: def.Radius, Tag: config.TagDoor})
	ecs.AddComponent(em, id, &components.DoorComponent{
		Name:         def.Name,
		WaveToOpen:   def.WaveToOpen,
		Prerequisite: def.Prerequisite,
	})
	return id
}

// BuildArena 根据场地配置创建所有障碍物和门
//
// 返回:
//   - int: 创建的实体数量
//   - error: 场地配置为空时返回错误
func BuildArena(em *ecs.EntityManager, arena *config.ArenaConfig) (int, error) {
	if arena == nil {
		return 0, fmt.Errorf("arena config cannot be nil")
	}

	for _, o := range arena.Obstacles {
		NewObstacleEntity(em, o)
	}
	for _, d := range arena.Doors {
		NewDoorEntity(em, d)
	}

	n := len(arena.Obstacles) + len(arena.Doors)
	log.Printf("[ArenaFactory] Built arena: %d obstacles, %d doors, %d spawn points",
		len(arena.Obstacles), len(arena.Doors), len(arena.SpawnPoints))
	return n, nil
}
