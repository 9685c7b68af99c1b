package systems

import "errors"

// 配置与流程错误
// 公开操作在拒绝请求时记录日志并返回这些错误，调用方可以忽略返回值
var (
	// ErrUnknownLevel 关卡名称不存在
	ErrUnknownLevel = errors.New("unknown level")
	// ErrMissingPlayer 玩家实体或必需组件缺失
	ErrMissingPlayer = errors.New("player entity is missing required components")
	// ErrWaveInProgress 已有一波正在进行
	ErrWaveInProgress = errors.New("a wave is already in progress")
	// ErrUnknownEnemyKind 生成规则引用了未知敌人类型
	ErrUnknownEnemyKind = errors.New("unknown enemy kind")
	// ErrNoLevel 尚未开始任何关卡
	ErrNoLevel = errors.New("no level has been started")
	// ErrLevelOver 关卡已结束
	ErrLevelOver = errors.New("level is already over")
	// ErrInvalidWave 波次编号无效
	ErrInvalidWave = errors.New("wave number must be at least 1")
)

// 施法与遗物错误
var (
	// ErrInvalidSlot 法术槽编号越界
	ErrInvalidSlot = errors.New("invalid spell slot")
	// ErrEmptySlot 法术槽为空
	ErrEmptySlot = errors.New("spell slot is empty")
	// ErrSpellCooldown 法术冷却中
	ErrSpellCooldown = errors.New("spell is on cooldown")
	// ErrNotEnoughMana 法力不足
	ErrNotEnoughMana = errors.New("not enough mana")
	// ErrUnknownSpell 法术或修饰器名称不存在
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrUnknownRelic 遗物名称不存在
	ErrUnknownRelic = errors.New("unknown relic")
)
