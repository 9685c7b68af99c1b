package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

// BlockedFunc 判断某个位置是否被阻挡
type BlockedFunc func(p types.Vec2) bool

// ResolveSpawnPosition 为期望位置寻找一个不被阻挡的生成点
//
// 搜索顺序：
//  1. desired 本身不被阻挡时原样返回
//  2. 以 desired 为圆心，半径从 1 到 5、步长 0.5 的同心圆上，
//     每圈从 0° 开始每 45° 取一个采样点，返回第一个空闲点
//  3. 全部被阻挡时，返回 desired 加上半径不超过 0.5 的随机偏移
//
// 函数只读取 isBlocked，不修改任何共享状态，且总能返回一个位置。
//
// 参数：
//
//	desired - 期望生成位置
//	isBlocked - 阻挡判定，nil 表示没有任何阻挡
//	rng - 随机数源，仅用于最后的随机偏移；nil 时使用全局随机源
func ResolveSpawnPosition(desired types.Vec2, isBlocked BlockedFunc, rng *rand.Rand) types.Vec2 {
	if isBlocked == nil || !isBlocked(desired) {
		return desired
	}

	rings := int(math.Round((config.SpawnSearchMaxRadius-config.SpawnSearchMinRadius)/config.SpawnSearchRadiusStep)) + 1
	step := 2 * math.Pi / config.SpawnSearchSamplesPerRing

	// 用整数圈号计算半径，避免浮点累加误差漏掉最外圈
	for ring := 0; ring < rings; ring++ {
		radius := config.SpawnSearchMinRadius + float64(ring)*config.SpawnSearchRadiusStep
		for i := 0; i < config.SpawnSearchSamplesPerRing; i++ {
			angle := float64(i) * step
			candidate := types.Vec2{
				X: desired.X + math.Cos(angle)*radius,
				Y: desired.Y + math.Sin(angle)*radius,
			}
			if !isBlocked(candidate) {
				return candidate
			}
		}
	}

	return desired.Add(randomInDisk(rng, config.SpawnFallbackJitter))
}

// randomInDisk 返回半径 r 的圆内均匀分布的随机点
func randomInDisk(rng *rand.Rand, r float64) types.Vec2 {
	u, theta := rand.Float64(), rand.Float64()
	if rng != nil {
		u, theta = rng.Float64(), rng.Float64()
	}
	dist := math.Sqrt(u) * r
	angle := theta * 2 * math.Pi
	return types.Vec2{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist}
}

// NewColliderBlockedFunc 基于 ecs 碰撞体的阻挡判定
//
// 以 p 为圆心、半径 0.4 的探测圆与任意碰撞体重叠即视为阻挡，
// 但 unit（敌人、玩家）和 projectile 标签的碰撞体不算阻挡。
// 已标记销毁的实体被忽略。
func NewColliderBlockedFunc(em *ecs.EntityManager) BlockedFunc {
	return func(p types.Vec2) bool {
		for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.ColliderComponent](em) {
			if em.IsMarkedForDestroy(id) {
				continue
			}
			col, _ := ecs.GetComponent[*components.ColliderComponent](em, id)
			if col.Tag == config.TagUnit || col.Tag == config.TagProjectile {
				continue
			}
			pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
			if pos.Pos.Dist(p) < col.Radius+config.BlockProbeRadius {
				return true
			}
		}
		return false
	}
}

// PickSpawnPoint 按位置标签选择生成点
//
// 标签格式见 config.ParseLocation：
//   - "" / "random"：从所有生成点中随机选择
//   - "random <kind>"：从该类型的生成点中随机选择，没有该类型时退回所有生成点
//
// 场地没有任何生成点时返回原点，ok 为 false。
func PickSpawnPoint(arena *config.ArenaConfig, location string, rng *rand.Rand) (types.Vec2, bool) {
	if arena == nil || len(arena.SpawnPoints) == 0 {
		return types.Vec2{}, false
	}

	kind, err := config.ParseLocation(location)
	if err != nil {
		kind = ""
	}

	candidates := arena.SpawnPointsOfKind(kind)
	if len(candidates) == 0 {
		candidates = arena.SpawnPoints
	}

	idx := 0
	if len(candidates) > 1 {
		if rng != nil {
			idx = rng.Intn(len(candidates))
		} else {
			idx = rand.Intn(len(candidates))
		}
	}
	return candidates[idx].Position, true
}
