package systems

import (
	"fmt"
	"math"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
)

// ScalePlayerForWave 按职业公式重新计算玩家属性
//
// 最大生命 = 职业公式生命值 + 遗物累积的永久加成；
// 法力回满；回复、法术强度和基础速度直接覆盖。临时速度加成保留。
//
// 参数：
//
//	em - 实体管理器
//	classes - 职业配置
//	playerID - 玩家实体
//	wave - 即将开始的波次
//
// 返回：玩家组件缺失返回 ErrMissingPlayer；公式错误原样返回，属性保持不变
func ScalePlayerForWave(em *ecs.EntityManager, classes *config.ClassesConfig, playerID ecs.EntityID, wave int) error {
	player, ok := ecs.GetComponent[*components.PlayerComponent](em, playerID)
	if !ok {
		return ErrMissingPlayer
	}
	hp, ok := ecs.GetComponent[*components.HealthComponent](em, playerID)
	if !ok {
		return ErrMissingPlayer
	}
	if classes == nil {
		return fmt.Errorf("no class table loaded")
	}

	stats, err := classes.StatsForWave(player.Class, wave)
	if err != nil {
		return err
	}

	baseHP := int(math.Round(stats.Health))
	SetMaxHealth(hp, baseHP+player.RelicMaxHPBonus)

	player.MaxMana = int(math.Round(stats.Mana))
	player.Mana = player.MaxMana
	player.ManaRegen = int(math.Round(stats.ManaRegeneration))
	player.SpellPower = int(math.Round(stats.Spellpower))
	player.BaseSpeed = math.Round(stats.Speed)
	player.RecomputeSpeed()
	return nil
}
