package components

import "github.com/decker502/arena/pkg/types"

// HealthComponent 可被攻击实体的生命值（Hittable）
// 用于敌人和玩家；Team 决定投射物和接触伤害的目标
type HealthComponent struct {
	Team          types.Team // 所属阵营
	CurrentHealth int        // 当前生命值
	MaxHealth     int        // 最大生命值
}
