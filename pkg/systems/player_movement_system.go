package systems

import (
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// PlayerMovementSystem 玩家移动系统
//
// 职责：
//   - 按输入方向和当前速度移动玩家，墙和未开启的门阻挡移动
//   - 记录静止时间（stand-still 遗物）和朝向（默认施法方向）
//   - 从静止转为移动时发布 player-moved
//   - 推进临时速度加成的计时
type PlayerMovementSystem struct {
	entityManager *ecs.EntityManager
	eventBus      *game.EventBus
	arena         *config.ArenaConfig
	isBlocked     BlockedFunc

	playerID ecs.EntityID
	input    types.Vec2
}

// NewPlayerMovementSystem 创建玩家移动系统
func NewPlayerMovementSystem(em *ecs.EntityManager, bus *game.EventBus, arena *config.ArenaConfig) *PlayerMovementSystem {
	return &PlayerMovementSystem{
		entityManager: em,
		eventBus:      bus,
		arena:         arena,
		isBlocked:     NewColliderBlockedFunc(em),
	}
}

// SetPlayer 设置玩家实体
func (s *PlayerMovementSystem) SetPlayer(id ecs.EntityID) {
	s.playerID = id
}

// SetInput 设置移动输入方向（不要求归一化），零向量表示停止
func (s *PlayerMovementSystem) SetInput(dir types.Vec2) {
	s.input = dir
}

// Update 移动玩家
func (s *PlayerMovementSystem) Update(deltaTime float64) {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	vel, hasVel := ecs.GetComponent[*components.VelocityComponent](s.entityManager, s.playerID)

	TickSpeedBoosts(player, deltaTime)

	dir := s.input.Normalize()
	if dir.IsZero() {
		player.Moving = false
		player.StillTime += deltaTime
		if hasVel {
			vel.Vel = types.Vec2{}
		}
		return
	}

	wasMoving := player.Moving
	player.Moving = true
	player.StillTime = 0
	player.FacingX, player.FacingY = dir.X, dir.Y

	velocity := dir.Scale(player.Speed * config.PlayerSpeedScale)
	if hasVel {
		vel.Vel = velocity
	}
	pos.Pos = clampToArena(moveWithSlide(pos.Pos, velocity.Scale(deltaTime), s.isBlocked), s.arena)

	if !wasMoving {
		s.eventBus.Publish(game.Event{Type: game.EventPlayerMoved, Entity: uint64(s.playerID)})
	}
}
