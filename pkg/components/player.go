package components

// PlayerComponent 玩家属性（生命值见 HealthComponent）
// 每波开始前由职业公式重新计算；遗物效果在此基础上叠加
type PlayerComponent struct {
	Class string // 职业名称

	Mana      int
	MaxMana   int
	ManaRegen int // 每秒回复的法力
	// ManaRegenTimer 距离下一次回复的累计时间（秒）
	ManaRegenTimer float64

	SpellPower int
	// BonusSpellPower 遗物提供的临时法术强度，按 Until 条件清除
	BonusSpellPower []SpellPowerBonus

	// BaseSpeed 职业公式给出的移动速度，Speed 为叠加临时加成后的实际速度
	BaseSpeed float64
	Speed     float64
	// SpeedBoosts 正在生效的临时速度加成
	SpeedBoosts []SpeedBoost

	// RelicMaxHPBonus 遗物累积的永久最大生命加成，每波缩放时保留
	RelicMaxHPBonus int

	// Moving 本帧是否在移动，StillTime 连续静止的时间（秒）
	Moving    bool
	StillTime float64

	// Facing 最近一次的移动方向，用于默认施法方向
	FacingX, FacingY float64
}

// SpellPowerBonus 一条临时法术强度加成
type SpellPowerBonus struct {
	Source string // 来源遗物名称
	Amount int
	Until  string // config.UntilCastSpell / UntilMove / UntilDamage，空表示永久
}

// TotalSpellPower 基础法术强度加上所有临时加成
func (p *PlayerComponent) TotalSpellPower() int {
	total := p.SpellPower
	for _, b := range p.BonusSpellPower {
		total += b.Amount
	}
	return total
}

// SpeedBoost 一条临时速度加成
// 实际速度 = BaseSpeed × 所有 Multiplier + 所有 Bonus
type SpeedBoost struct {
	Source     string  // 来源（遗物或修饰器名称），同来源再次触发时刷新
	Multiplier float64 // 乘法加成，0 视为 1
	Bonus      float64 // 加法加成
	Remaining  float64 // 剩余时间（秒）
}

// RecomputeSpeed 根据 BaseSpeed 和当前加成重新计算 Speed
func (p *PlayerComponent) RecomputeSpeed() {
	speed := p.BaseSpeed
	bonus := 0.0
	for _, b := range p.SpeedBoosts {
		if b.Multiplier != 0 {
			speed *= b.Multiplier
		}
		bonus += b.Bonus
	}
	p.Speed = speed + bonus
}
