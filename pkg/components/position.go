package components

import "github.com/decker502/arena/pkg/types"

// PositionComponent 实体在场地中的位置（世界单位）
type PositionComponent struct {
	Pos types.Vec2
}

// VelocityComponent 实体的速度向量（单位/秒）
type VelocityComponent struct {
	Vel types.Vec2
}
