package components

// WavePhase 波次状态机阶段
type WavePhase int

const (
	// WavePhaseIdle 未开始或等待下一波触发
	WavePhaseIdle WavePhase = iota
	// WavePhaseCountdown 开波倒计时（3, 2, 1）
	WavePhaseCountdown
	// WavePhaseSpawning 按生成规则分批生成敌人
	WavePhaseSpawning
	// WavePhaseAwaitingClear 等待存活敌人数归零
	WavePhaseAwaitingClear
	// WavePhaseWaveEnd 本波结束，等待推进到下一波
	WavePhaseWaveEnd
	// WavePhaseLevelComplete 关卡结束（终态）
	WavePhaseLevelComplete
)

// String 返回阶段名称（日志与调试接口使用）
func (p WavePhase) String() string {
	switch p {
	case WavePhaseIdle:
		return "IDLE"
	case WavePhaseCountdown:
		return "COUNTDOWN"
	case WavePhaseSpawning:
		return "SPAWNING"
	case WavePhaseAwaitingClear:
		return "AWAITING_CLEAR"
	case WavePhaseWaveEnd:
		return "WAVE_END"
	case WavePhaseLevelComplete:
		return "LEVEL_COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// WaveStateComponent 波次状态
// 挂在关卡的状态实体上，只由 WaveSystem 修改；UI 与调试接口只读
//
// 时间单位：秒。每个挂起点对应一个计时字段，Update 每帧累减
type WaveStateComponent struct {
	LevelName string

	// CurrentWave 当前波次编号（从 1 开始，每完成一波加 1）
	CurrentWave int

	// InProgress 是否有一波正在进行（防止重入）
	InProgress bool

	// LastWaveEnemyCount 上一波生成的敌人总数（诊断用）
	LastWaveEnemyCount int

	Phase WavePhase

	// CountdownRemaining 剩余倒计时跳数，CountdownTimer 当前跳剩余时间
	CountdownRemaining int
	CountdownTimer     float64

	// RuleIndex 正在执行的生成规则下标
	RuleIndex int
	// RuleActive 当前规则是否已解析（total/hp/speed/delay 已计算）
	RuleActive bool
	RuleTotal  int
	RuleHP     int
	RuleSpeed  float64
	RuleDelay  float64
	// RuleSpawned 当前规则已生成数量，SequenceIndex 批次序列游标
	RuleSpawned   int
	SequenceIndex int
	// BatchWait 距离下一批的剩余等待时间
	BatchWait float64

	// SpawnedThisWave 本波累计生成数量
	SpawnedThisWave int

	// ClearElapsed 等待清场已用时间（用于可选的安全超时）
	ClearElapsed float64

	// NextWaveTimer auto 推进模式下距离下一波的剩余时间，<0 表示不自动推进
	NextWaveTimer float64
}
