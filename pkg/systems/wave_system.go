package systems

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/arena/internal/rpn"
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// maxStepsPerUpdate 单帧内最多执行的状态转换次数
// delay 为 0 的大批量生成会在一帧内连续转换，这里只防止死循环
const maxStepsPerUpdate = 10000

// WaveSystem 波次编排系统
//
// 职责：
//   - 关卡开始后依次执行：倒计时 → 按规则分批生成 → 等待清场 → 波次结束 / 关卡胜利
//   - 每波开始前按职业公式缩放玩家属性
//   - 用生成规则的公式计算数量、血量、速度和批次间隔
//   - 通过 EnemyFactory 生成敌人，并用位置搜索避开障碍物
//
// 架构说明：
//   - 状态保存在状态实体的 WaveStateComponent 上，每个挂起点对应一个计时字段
//   - Update(dt) 由游戏循环每帧调用，单线程推进状态机
//   - "波次进行中" 标志拒绝重入：同一时间只有一波在执行
//   - 波次结束通过 EventBus 发布 wave-end，门等监听者据此解锁
type WaveSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	eventBus      *game.EventBus
	content       *config.Content
	rng           *rand.Rand

	createEnemy EnemyFactory
	isBlocked   BlockedFunc
	scalePlayer func(wave int) error

	// stateEntityID 波次状态组件所在的实体ID
	stateEntityID ecs.EntityID
	level         *config.LevelDefinition
	playerID      ecs.EntityID
}

// NewWaveSystem 创建波次编排系统
//
// 参数：
//   - em: 实体管理器
//   - gs: 本局游戏状态
//   - bus: 事件分发器
//   - content: 已加载的内容配置
//   - rng: 随机数源（生成点选择、位置兜底偏移），nil 时使用全局随机源
//
// 返回：
//   - *WaveSystem: 波次系统实例，默认使用 ecs 敌人工厂和碰撞体阻挡判定
func NewWaveSystem(em *ecs.EntityManager, gs *game.GameState, bus *game.EventBus, content *config.Content, rng *rand.Rand) *WaveSystem {
	s := &WaveSystem{
		entityManager: em,
		gameState:     gs,
		eventBus:      bus,
		content:       content,
		rng:           rng,
	}
	s.createEnemy = NewEnemyFactory(em, gs, bus)
	s.isBlocked = NewColliderBlockedFunc(em)
	s.scalePlayer = func(wave int) error {
		return ScalePlayerForWave(s.entityManager, s.content.Classes, s.playerID, wave)
	}

	s.createStateEntity()
	return s
}

// createStateEntity 创建波次状态实体
func (s *WaveSystem) createStateEntity() {
	s.stateEntityID = s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, s.stateEntityID, &components.WaveStateComponent{
		Phase:         components.WavePhaseIdle,
		NextWaveTimer: -1,
	})
	log.Printf("[WaveSystem] Created wave state entity (ID: %d)", s.stateEntityID)
}

// SetPlayer 设置玩家实体（属性缩放的目标）
func (s *WaveSystem) SetPlayer(id ecs.EntityID) {
	s.playerID = id
}

// SetEnemyFactory 替换敌人生成回调
func (s *WaveSystem) SetEnemyFactory(f EnemyFactory) {
	if f != nil {
		s.createEnemy = f
	}
}

// SetBlockedFunc 替换生成位置的阻挡判定
func (s *WaveSystem) SetBlockedFunc(f BlockedFunc) {
	s.isBlocked = f
}

// getState 获取波次状态组件
func (s *WaveSystem) getState() *components.WaveStateComponent {
	st, ok := ecs.GetComponent[*components.WaveStateComponent](s.entityManager, s.stateEntityID)
	if !ok {
		return nil
	}
	return st
}

// State 返回波次状态的副本（UI / 调试读取）
func (s *WaveSystem) State() components.WaveStateComponent {
	if st := s.getState(); st != nil {
		return *st
	}
	return components.WaveStateComponent{}
}

// Level 当前关卡定义，未开始时为 nil
func (s *WaveSystem) Level() *config.LevelDefinition {
	return s.level
}

// StartLevel 开始关卡，从第 1 波开始
//
// 关卡名不存在或玩家实体缺少必需组件时记录错误并返回，不修改任何状态
func (s *WaveSystem) StartLevel(name string) error {
	level, ok := s.content.Levels.Get(name)
	if !ok {
		log.Printf("[WaveSystem] ERROR: StartLevel: level %q not found", name)
		return fmt.Errorf("start level %q: %w", name, ErrUnknownLevel)
	}
	if !ecs.HasComponent[*components.PlayerComponent](s.entityManager, s.playerID) ||
		!ecs.HasComponent[*components.HealthComponent](s.entityManager, s.playerID) {
		log.Printf("[WaveSystem] ERROR: StartLevel: player entity %d is missing components", s.playerID)
		return fmt.Errorf("start level %q: %w", name, ErrMissingPlayer)
	}

	st := s.getState()
	if st == nil {
		return fmt.Errorf("start level %q: wave state entity missing", name)
	}

	*st = components.WaveStateComponent{
		LevelName:     name,
		CurrentWave:   config.FirstWave,
		Phase:         components.WavePhaseIdle,
		NextWaveTimer: -1,
	}
	s.level = level
	s.gameState.LevelName = name

	if level.IsEndless() {
		log.Printf("[WaveSystem] Starting level %q (endless, %d spawn rules)", name, len(level.Spawns))
	} else {
		log.Printf("[WaveSystem] Starting level %q (%d waves, %d spawn rules)", name, level.Waves, len(level.Spawns))
	}
	return s.beginWave(st)
}

// NextWave 开始下一波（门控推进模式下由玩家穿过大门触发）
// 已有一波正在进行时为空操作
func (s *WaveSystem) NextWave() error {
	st := s.getState()
	if st == nil || s.level == nil {
		return ErrNoLevel
	}
	if st.Phase == components.WavePhaseLevelComplete || s.gameState.IsGameOver() {
		return ErrLevelOver
	}
	if st.InProgress {
		return ErrWaveInProgress
	}
	return s.beginWave(st)
}

// ForceStartWave 跳转到指定波次并立即开始
// 已有一波正在进行时拒绝，当前波次不受影响
func (s *WaveSystem) ForceStartWave(wave int) error {
	st := s.getState()
	if st == nil || s.level == nil {
		return ErrNoLevel
	}
	if st.InProgress {
		log.Printf("[WaveSystem] Warning: Tried to force wave %d while wave %d is in progress", wave, st.CurrentWave)
		return fmt.Errorf("force wave %d: %w", wave, ErrWaveInProgress)
	}
	if wave < 1 {
		return fmt.Errorf("force wave %d: %w", wave, ErrInvalidWave)
	}
	if st.Phase == components.WavePhaseLevelComplete || s.gameState.IsGameOver() {
		return ErrLevelOver
	}

	log.Printf("[WaveSystem] Forcing wave %d (was %d)", wave, st.CurrentWave)
	st.CurrentWave = wave
	return s.beginWave(st)
}

// beginWave 设置进行中标志，缩放玩家属性并进入倒计时
func (s *WaveSystem) beginWave(st *components.WaveStateComponent) error {
	if st.InProgress {
		log.Printf("[WaveSystem] Warning: wave %d already in progress", st.CurrentWave)
		return ErrWaveInProgress
	}
	st.InProgress = true

	s.safeScalePlayer(st.CurrentWave)

	st.Phase = components.WavePhaseCountdown
	st.CountdownRemaining = config.CountdownTicks
	st.CountdownTimer = config.CountdownTickSeconds
	st.RuleIndex = 0
	st.RuleActive = false
	st.RuleSpawned = 0
	st.SequenceIndex = 0
	st.BatchWait = 0
	st.SpawnedThisWave = 0
	st.ClearElapsed = 0
	st.NextWaveTimer = -1

	s.gameState.Phase = game.PhaseCountdown
	s.gameState.Countdown = config.CountdownTicks
	s.eventBus.Publish(game.Event{Type: game.EventCountdownTick, Wave: st.CurrentWave, Amount: config.CountdownTicks})

	log.Printf("[WaveSystem] Wave %d countdown started", st.CurrentWave)
	return nil
}

// safeScalePlayer 缩放玩家属性，任何错误或 panic 都只记录日志
func (s *WaveSystem) safeScalePlayer(wave int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WaveSystem] ERROR: player scaling for wave %d panicked: %v", wave, r)
		}
	}()
	if s.scalePlayer == nil {
		return
	}
	if err := s.scalePlayer(wave); err != nil {
		log.Printf("[WaveSystem] ERROR: player scaling for wave %d failed: %v (keeping previous stats)", wave, err)
	}
}

// Update 推进波次状态机
//
// 参数：
//   - deltaTime: 距上一帧的时间（秒）
//
// 一帧内可以连续经过多个不耗时的状态转换；计时器的剩余时间会带入下一个计时器
func (s *WaveSystem) Update(deltaTime float64) {
	st := s.getState()
	if st == nil || s.level == nil {
		return
	}
	if deltaTime < 0 {
		deltaTime = 0
	}

	budget := deltaTime
	for i := 0; i < maxStepsPerUpdate; i++ {
		if s.gameState.IsGameOver() {
			return
		}
		if !s.step(st, &budget) {
			return
		}
	}
	log.Printf("[WaveSystem] Warning: step limit reached in wave %d, continuing next frame", st.CurrentWave)
}

// step 执行一次状态转换，返回 false 表示本帧无法继续推进
func (s *WaveSystem) step(st *components.WaveStateComponent, budget *float64) bool {
	switch st.Phase {
	case components.WavePhaseCountdown:
		return s.stepCountdown(st, budget)
	case components.WavePhaseSpawning:
		return s.stepSpawning(st, budget)
	case components.WavePhaseAwaitingClear:
		return s.stepAwaitClear(st, budget)
	case components.WavePhaseWaveEnd:
		return s.stepWaveEnd(st, budget)
	default:
		return false
	}
}

// consumeTimer 用本帧剩余时间消耗计时器
// 返回：计时器是否到期（到期后多余的时间留在 budget 中）
func consumeTimer(timer, budget *float64) bool {
	if *timer <= *budget {
		*budget -= *timer
		*timer = 0
		return true
	}
	*timer -= *budget
	*budget = 0
	return false
}

func (s *WaveSystem) stepCountdown(st *components.WaveStateComponent, budget *float64) bool {
	if !consumeTimer(&st.CountdownTimer, budget) {
		return false
	}

	st.CountdownRemaining--
	if st.CountdownRemaining > 0 {
		s.gameState.Countdown = st.CountdownRemaining
		st.CountdownTimer = config.CountdownTickSeconds
		s.eventBus.Publish(game.Event{Type: game.EventCountdownTick, Wave: st.CurrentWave, Amount: st.CountdownRemaining})
		return true
	}

	s.gameState.Countdown = 0
	s.gameState.Phase = game.PhaseInWave
	st.Phase = components.WavePhaseSpawning
	log.Printf("[WaveSystem] Wave %d spawning (%d rules)", st.CurrentWave, len(s.level.Spawns))
	s.eventBus.Publish(game.Event{Type: game.EventWaveStart, Wave: st.CurrentWave})
	return true
}

func (s *WaveSystem) stepSpawning(st *components.WaveStateComponent, budget *float64) bool {
	if st.BatchWait > 0 && !consumeTimer(&st.BatchWait, budget) {
		return false
	}

	if st.RuleIndex >= len(s.level.Spawns) {
		st.LastWaveEnemyCount = st.SpawnedThisWave
		st.Phase = components.WavePhaseAwaitingClear
		st.ClearElapsed = 0
		log.Printf("[WaveSystem] Wave %d spawned %d enemies, awaiting clear", st.CurrentWave, st.SpawnedThisWave)
		return true
	}

	rule := &s.level.Spawns[st.RuleIndex]
	if !st.RuleActive {
		if !s.resolveRule(st, rule) {
			s.advanceRule(st)
		}
		return true
	}

	if st.RuleSpawned >= st.RuleTotal {
		s.advanceRule(st)
		return true
	}

	kind, _ := s.content.Enemies.Get(rule.Enemy)
	seq := rule.BatchSequence()
	batch := seq[st.SequenceIndex%len(seq)]
	st.SequenceIndex++

	for i := 0; i < batch && st.RuleSpawned < st.RuleTotal; i++ {
		s.spawnOne(st, rule, kind)
		st.RuleSpawned++
	}

	// 每一批之后（包括最后一批）都等待 delay
	st.BatchWait = st.RuleDelay
	return true
}

// resolveRule 计算当前规则的数量、血量、速度和间隔
// 返回 false 表示该规则不生成任何敌人
func (s *WaveSystem) resolveRule(st *components.WaveStateComponent, rule *config.SpawnRule) bool {
	kind, ok := s.content.Enemies.Get(rule.Enemy)
	if !ok {
		log.Printf("[WaveSystem] ERROR: %v %q in level %q, rule skipped", ErrUnknownEnemyKind, rule.Enemy, s.level.Name)
		return false
	}

	wave := float64(st.CurrentWave)
	vars := rpn.Vars{config.VarBase: float64(kind.HP), config.VarWave: wave}

	total := rpn.SafeEvaluateInt(rule.Count, vars, 0)

	hp := kind.HP
	if rule.HP != "" {
		hp = rpn.SafeEvaluateInt(rule.HP, vars, kind.HP)
	}

	// 速度公式中的 base 是基础速度而不是基础血量
	speed := kind.Speed
	if rule.Speed != "" {
		speed = rpn.SafeEvaluate(rule.Speed, rpn.Vars{config.VarBase: kind.Speed, config.VarWave: wave}, kind.Speed)
	}
	// 钳制后取整，敌人速度总是整数
	speed = math.Round(clampSpeed(speed))

	delay := config.DefaultSpawnDelay
	if rule.Delay != "" {
		delay = rpn.SafeEvaluate(rule.Delay, vars, config.DefaultSpawnDelay)
	}
	if delay < 0 {
		delay = 0
	}

	st.RuleActive = true
	st.RuleTotal = total
	st.RuleHP = hp
	st.RuleSpeed = speed
	st.RuleDelay = delay
	st.RuleSpawned = 0
	st.SequenceIndex = 0
	st.BatchWait = 0

	if total <= 0 {
		log.Printf("[WaveSystem] Wave %d rule %d (%s): count %d, nothing to spawn", st.CurrentWave, st.RuleIndex, rule.Enemy, total)
		return false
	}

	log.Printf("[WaveSystem] Wave %d rule %d: %d x %s (hp=%d, speed=%.1f, delay=%.2fs, sequence=%v)",
		st.CurrentWave, st.RuleIndex, total, rule.Enemy, hp, speed, delay, rule.BatchSequence())
	return true
}

func (s *WaveSystem) advanceRule(st *components.WaveStateComponent) {
	st.RuleIndex++
	st.RuleActive = false
	st.RuleTotal = 0
	st.RuleSpawned = 0
	st.SequenceIndex = 0
	st.BatchWait = 0
}

func clampSpeed(speed float64) float64 {
	if speed < config.MinEnemySpeed {
		return config.MinEnemySpeed
	}
	if speed > config.MaxEnemySpeed {
		return config.MaxEnemySpeed
	}
	return speed
}

// spawnOne 选择位置并通过回调生成一个敌人
func (s *WaveSystem) spawnOne(st *components.WaveStateComponent, rule *config.SpawnRule, kind *config.EnemyKind) {
	desired := s.desiredPosition(st.CurrentWave, rule.Location)
	pos := ResolveSpawnPosition(desired, s.isBlocked, s.rng)

	_, err := s.createEnemy(EnemySpawnRequest{
		Kind:     kind,
		HP:       st.RuleHP,
		Speed:    st.RuleSpeed,
		Position: pos,
		Wave:     st.CurrentWave,
	})
	if err != nil {
		log.Printf("[WaveSystem] ERROR: failed to spawn %s: %v", kind.Name, err)
		return
	}
	st.SpawnedThisWave++
}

// desiredPosition 本波固定生成坐标优先（关卡表优先于场地表），否则按位置标签选择生成点
func (s *WaveSystem) desiredPosition(wave int, location string) types.Vec2 {
	if pos, ok := s.level.CustomPosition(wave); ok {
		return pos
	}
	if s.content.Arena != nil {
		if pos, ok := s.content.Arena.CustomPosition(wave); ok {
			return pos
		}
	}
	pos, _ := PickSpawnPoint(s.content.Arena, location, s.rng)
	return pos
}

// stepAwaitClear 等待存活敌人归零
// 清场的这一帧不再计入波次间隔，间隔从下一帧开始计时
func (s *WaveSystem) stepAwaitClear(st *components.WaveStateComponent, budget *float64) bool {
	if s.gameState.EnemyCount() == 0 {
		*budget = 0
		s.completeWave(st)
		return true
	}

	st.ClearElapsed += *budget
	*budget = 0

	timeout := s.level.ClearTimeout
	if timeout <= 0 || st.ClearElapsed < timeout {
		return false
	}

	// 超时后用实际存活实体数校正计数
	live := s.countLiveEnemies()
	log.Printf("[WaveSystem] Warning: wave %d not cleared after %.0fs (tracked=%d, live=%d)",
		st.CurrentWave, st.ClearElapsed, s.gameState.EnemyCount(), live)
	s.gameState.ReconcileEnemyCount(live)
	st.ClearElapsed = 0
	return live == 0
}

// countLiveEnemies 统计 ecs 中仍存活的敌人实体
func (s *WaveSystem) countLiveEnemies() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		if h, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id); ok && h.CurrentHealth <= 0 {
			continue
		}
		n++
	}
	return n
}

// completeWave 清场后：最后一波则胜利，否则结束本波并推进波次
func (s *WaveSystem) completeWave(st *components.WaveStateComponent) {
	finished := st.CurrentWave

	if !s.level.IsEndless() && finished >= s.level.Waves {
		st.Phase = components.WavePhaseLevelComplete
		st.InProgress = false
		s.gameState.Win()
		log.Printf("[WaveSystem] Level %q complete after wave %d", s.level.Name, finished)
		s.eventBus.Publish(game.Event{Type: game.EventLevelComplete, Wave: finished, Name: s.level.Name})
		return
	}

	s.gameState.Phase = game.PhaseWaveEnd
	s.gameState.WavesCompleted++
	st.Phase = components.WavePhaseWaveEnd
	log.Printf("[WaveSystem] Wave %d cleared (%d waves completed)", finished, s.gameState.WavesCompleted)
	s.eventBus.Publish(game.Event{Type: game.EventWaveEnd, Wave: finished, Name: s.level.Name})

	st.CurrentWave++
	st.InProgress = false

	if s.level.Advance == config.AdvanceAuto {
		st.NextWaveTimer = s.level.InterWaveDelay
	} else {
		st.NextWaveTimer = -1
	}
}

func (s *WaveSystem) stepWaveEnd(st *components.WaveStateComponent, budget *float64) bool {
	if st.NextWaveTimer < 0 {
		return false
	}
	if !consumeTimer(&st.NextWaveTimer, budget) {
		return false
	}
	st.NextWaveTimer = -1
	return s.beginWave(st) == nil
}
