package systems

import (
	"fmt"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// EnemySpawnRequest 一次敌人生成请求
// HP 和 Speed 已按生成规则计算（速度已钳制）
type EnemySpawnRequest struct {
	Kind     *config.EnemyKind
	HP       int
	Speed    float64
	Position types.Vec2
	Wave     int
}

// EnemyFactory 敌人生成回调
// 每生成一个敌人调用一次：负责创建实体并登记到存活计数
type EnemyFactory func(req EnemySpawnRequest) (ecs.EntityID, error)

// NewEnemyFactory 默认的敌人生成回调：创建 ecs 实体并增加存活计数
func NewEnemyFactory(em *ecs.EntityManager, gs *game.GameState, bus *game.EventBus) EnemyFactory {
	return func(req EnemySpawnRequest) (ecs.EntityID, error) {
		id, err := entities.NewEnemyEntity(em, req.Kind, req.HP, req.Speed, req.Position, req.Wave)
		if err != nil {
			return 0, fmt.Errorf("failed to create enemy: %w", err)
		}
		gs.AddEnemy()
		bus.Publish(game.Event{
			Type:   game.EventEnemySpawned,
			Wave:   req.Wave,
			Entity: uint64(id),
			Name:   req.Kind.Name,
		})
		return id, nil
	}
}
