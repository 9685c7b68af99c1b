package systems

import (
	"log"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
)

// DoorSystem 波次门系统
//
// 监听 wave-end(n)：所有 WaveToOpen == n 的门尝试开启。
// 只有存活敌人数为 0 且前置门（如果有）已开启时才会开启；
// 开启的门移除碰撞体，不再阻挡移动和生成位置。
type DoorSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	eventBus      *game.EventBus

	subscription game.SubscriptionID
}

// NewDoorSystem 创建门系统并订阅 wave-end 事件
func NewDoorSystem(em *ecs.EntityManager, gs *game.GameState, bus *game.EventBus) *DoorSystem {
	s := &DoorSystem{
		entityManager: em,
		gameState:     gs,
		eventBus:      bus,
	}
	s.subscription = bus.Subscribe(game.EventWaveEnd, s)
	return s
}

// OnEvent 实现 game.Listener
func (s *DoorSystem) OnEvent(event game.Event) {
	if event.Type == game.EventWaveEnd {
		s.OnWaveEnd(event.Wave)
	}
}

// Close 取消事件订阅
func (s *DoorSystem) Close() {
	s.eventBus.Unsubscribe(s.subscription)
}

// OnWaveEnd 处理第 wave 波结束
// 返回：本次开启的门名称（按实体创建顺序）
func (s *DoorSystem) OnWaveEnd(wave int) []string {
	var opened []string
	for _, id := range ecs.GetEntitiesWith1[*components.DoorComponent](s.entityManager) {
		door, _ := ecs.GetComponent[*components.DoorComponent](s.entityManager, id)
		if door.Open || door.WaveToOpen != wave {
			continue
		}
		if n := s.gameState.EnemyCount(); n != 0 {
			log.Printf("[DoorSystem] Door %q stays closed: %d enemies alive", door.Name, n)
			continue
		}
		if door.Prerequisite != "" && !s.IsOpen(door.Prerequisite) {
			log.Printf("[DoorSystem] Door %q stays closed: prerequisite %q not open", door.Name, door.Prerequisite)
			continue
		}

		door.Open = true
		ecs.RemoveComponent[*components.ColliderComponent](s.entityManager, id)
		opened = append(opened, door.Name)
		log.Printf("[DoorSystem] Door %q opened after wave %d", door.Name, wave)
		s.eventBus.Publish(game.Event{Type: game.EventDoorOpened, Wave: wave, Entity: uint64(id), Name: door.Name})
	}
	return opened
}

// IsOpen 查询门是否已开启，不存在的门视为未开启
func (s *DoorSystem) IsOpen(name string) bool {
	for _, id := range ecs.GetEntitiesWith1[*components.DoorComponent](s.entityManager) {
		door, _ := ecs.GetComponent[*components.DoorComponent](s.entityManager, id)
		if door.Name == name {
			return door.Open
		}
	}
	return false
}

// OpenDoors 已开启的门名称
func (s *DoorSystem) OpenDoors() []string {
	var names []string
	for _, id := range ecs.GetEntitiesWith1[*components.DoorComponent](s.entityManager) {
		door, _ := ecs.GetComponent[*components.DoorComponent](s.entityManager, id)
		if door.Open {
			names = append(names, door.Name)
		}
	}
	return names
}
