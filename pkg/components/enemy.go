package components

// EnemyComponent 敌人数据
// 生成时由波次系统根据生成规则计算 HP 和速度
type EnemyComponent struct {
	Kind   string  // 敌人类型名称
	Sprite int     // 精灵图索引
	Speed  float64 // 速度（已钳制到 [1, 20]）
	Damage int     // 接触伤害
	Wave   int     // 生成时的波次

	// ContactCooldown 距离下一次可造成接触伤害的剩余时间（秒）
	ContactCooldown float64
}
