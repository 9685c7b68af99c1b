package systems

import (
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/types"
)

// moveWithSlide 沿 step 移动，目标点被阻挡时尝试只沿 X 或只沿 Y 滑动
// 两个方向都被阻挡时停在原地
func moveWithSlide(pos, step types.Vec2, isBlocked BlockedFunc) types.Vec2 {
	next := pos.Add(step)
	if isBlocked == nil || !isBlocked(next) {
		return next
	}
	if alongX := types.V(pos.X+step.X, pos.Y); step.X != 0 && !isBlocked(alongX) {
		return alongX
	}
	if alongY := types.V(pos.X, pos.Y+step.Y); step.Y != 0 && !isBlocked(alongY) {
		return alongY
	}
	return pos
}

// clampToArena 把位置限制在场地范围内，场地尺寸未配置时不限制
func clampToArena(p types.Vec2, arena *config.ArenaConfig) types.Vec2 {
	if arena == nil || arena.Bounds.Width <= 0 || arena.Bounds.Height <= 0 {
		return p
	}
	p.X = clampFloat(p.X, 0, arena.Bounds.Width)
	p.Y = clampFloat(p.Y, 0, arena.Bounds.Height)
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TickSpeedBoosts 推进临时速度加成的剩余时间，移除到期的加成
// 返回：是否有加成到期（此时 Speed 已重新计算）
func TickSpeedBoosts(player *components.PlayerComponent, deltaTime float64) bool {
	if len(player.SpeedBoosts) == 0 {
		return false
	}
	kept := player.SpeedBoosts[:0]
	expired := false
	for _, b := range player.SpeedBoosts {
		b.Remaining -= deltaTime
		if b.Remaining <= 0 {
			expired = true
			continue
		}
		kept = append(kept, b)
	}
	player.SpeedBoosts = kept
	if expired {
		player.RecomputeSpeed()
	}
	return expired
}

// ApplySpeedBoost 添加或刷新同来源的临时速度加成
// 同一来源重复触发只刷新剩余时间和数值，不叠加
func ApplySpeedBoost(player *components.PlayerComponent, boost components.SpeedBoost) {
	for i := range player.SpeedBoosts {
		if player.SpeedBoosts[i].Source == boost.Source {
			player.SpeedBoosts[i] = boost
			player.RecomputeSpeed()
			return
		}
	}
	player.SpeedBoosts = append(player.SpeedBoosts, boost)
	player.RecomputeSpeed()
}
