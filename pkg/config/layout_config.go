package config

// 玩法常量
// 本文件定义了波次流程、生成位置搜索和战斗判定使用的固定参数
// 数据驱动的部分（关卡、敌人、职业、遗物、法术、场地）见各 *_config.go

// Wave Flow (波次流程)
const (
	// CountdownTicks 每波开始前的倒计时次数（3, 2, 1）
	CountdownTicks = 3

	// CountdownTickSeconds 倒计时每一跳的时长（秒）
	CountdownTickSeconds = 1.0

	// DefaultSpawnDelay 生成规则未配置 delay 时批次之间的默认间隔（秒）
	DefaultSpawnDelay = 2.0

	// MinEnemySpeed / MaxEnemySpeed 敌人速度的钳制范围
	// 无论公式输出多少，速度都会被限制在 [1, 20]
	MinEnemySpeed = 1.0
	MaxEnemySpeed = 20.0

	// FirstWave 关卡开始时的波次编号
	FirstWave = 1
)

// Spawn Position Search (生成位置搜索)
const (
	// SpawnSearchMinRadius / SpawnSearchMaxRadius 同心圆搜索半径范围
	SpawnSearchMinRadius = 1.0
	SpawnSearchMaxRadius = 5.0

	// SpawnSearchRadiusStep 每圈半径增量
	SpawnSearchRadiusStep = 0.5

	// SpawnSearchSamplesPerRing 每圈采样点数（每 45° 一个）
	SpawnSearchSamplesPerRing = 8

	// SpawnFallbackJitter 所有采样点都被阻挡时，随机偏移的最大半径
	SpawnFallbackJitter = 0.5

	// BlockProbeRadius 阻挡检测使用的探测圆半径
	BlockProbeRadius = 0.4
)

// Collider Tags (碰撞体标签)
// 阻挡检测忽略 unit 和 projectile 标签的碰撞体
const (
	TagWall       = "wall"
	TagUnit       = "unit"
	TagProjectile = "projectile"
	TagDoor       = "door"
)

// Combat (战斗)
const (
	// EnemySpeedScale 敌人配置速度到世界速度（单位/秒）的换算系数
	EnemySpeedScale = 0.5

	// UnitRadius 敌人和玩家的碰撞半径
	UnitRadius = 0.4

	// ContactRadius 敌人对玩家造成接触伤害的距离
	ContactRadius = 0.9

	// ContactDamageCooldown 同一敌人两次接触伤害的最小间隔（秒）
	ContactDamageCooldown = 1.0

	// ProjectileRadius 投射物命中判定半径
	ProjectileRadius = 0.3

	// ManaRegenInterval 法力回复间隔（秒）
	ManaRegenInterval = 1.0

	// PlayerSpeedScale 玩家速度属性到世界速度的换算系数
	PlayerSpeedScale = 1.0
)

// Host Display (宿主显示)
const (
	// PixelsPerUnit 图形宿主中一个世界单位对应的像素数
	PixelsPerUnit = 20.0

	// HUDHeight 场地下方状态栏高度（像素）
	HUDHeight = 64

	// TicksPerSecond 宿主每秒推进会话的次数
	TicksPerSecond = 60
)
