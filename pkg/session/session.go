// Package session 组装一局游戏：内容配置、ecs 世界和所有玩法系统
//
// Session 只在模拟协程上推进（Update）。其他协程（调试服务器、宿主输入）
// 通过 Submit 提交命令，命令在下一次 Update 开始时执行；
// 读取状态使用 Snapshot，返回受读写锁保护的副本。
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/systems"
	"github.com/decker502/arena/pkg/types"
)

// commandQueueSize 待执行命令队列长度
const commandQueueSize = 64

// ErrClosed 会话已关闭
var ErrClosed = errors.New("session closed")

// Options 会话选项
type Options struct {
	Class    string               // 玩家职业，空表示默认职业
	Relics   []string             // 开局持有的遗物
	Seed     int64                // 随机种子，0 表示使用当前时间
	Progress *game.ProgressManager // 进度存储，nil 表示不记录
}

// Command 在模拟协程上执行的命令
type Command func(s *Session) error

type queuedCommand struct {
	run   Command
	reply chan error
}

// Session 一局游戏
type Session struct {
	id       string
	content  *config.Content
	class    string
	relics   []string
	progress *game.ProgressManager
	rng      *rand.Rand

	// 当前关卡的世界，每次 StartLevel 重建
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	eventBus      *game.EventBus
	combat        *systems.Combat
	waves         *systems.WaveSystem
	doors         *systems.DoorSystem
	relicSystem   *systems.RelicSystem
	spells        *systems.SpellSystem
	movement      *systems.PlayerMovementSystem
	enemyAI       *systems.EnemyAISystem
	projectiles   *systems.ProjectileSystem
	playerID      ecs.EntityID

	commands chan queuedCommand
	done     chan struct{}
	closeOne sync.Once

	mu       sync.RWMutex
	snapshot Snapshot
}

// New 创建会话
//
// 参数：
//   - content: 已加载的内容配置
//   - opts: 会话选项
//
// 返回：
//   - *Session: 尚未开始关卡的会话
//   - error: 内容不完整或缺少默认职业时返回错误
func New(content *config.Content, opts Options) (*Session, error) {
	if content == nil || content.Levels == nil || content.Enemies == nil || content.Classes == nil {
		return nil, fmt.Errorf("session: content is incomplete")
	}
	class, _, ok := content.Classes.Resolve(opts.Class)
	if !ok {
		log.Printf("[Session] Warning: unknown class %q, using %s", class, config.DefaultClass)
		if class, _, ok = content.Classes.Resolve(config.DefaultClass); !ok {
			return nil, fmt.Errorf("session: default class %q is missing", config.DefaultClass)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		id:       uuid.NewString(),
		content:  content,
		class:    class,
		relics:   append([]string(nil), opts.Relics...),
		progress: opts.Progress,
		rng:      rand.New(rand.NewSource(seed)),
		commands: make(chan queuedCommand, commandQueueSize),
		done:     make(chan struct{}),
	}
	s.refreshSnapshot()
	log.Printf("[Session] Created session %s (class=%s, seed=%d)", s.id, class, seed)
	return s, nil
}

// ID 会话ID
func (s *Session) ID() string {
	return s.id
}

// Class 玩家职业
func (s *Session) Class() string {
	return s.class
}

// Content 内容配置
func (s *Session) Content() *config.Content {
	return s.content
}

// EventBus 当前关卡的事件分发器，未开始关卡时为 nil
// 只能在模拟协程上订阅
func (s *Session) EventBus() *game.EventBus {
	return s.eventBus
}

// StartLevel 重建世界并开始关卡
// 必须在模拟协程上调用（或通过 Submit）
func (s *Session) StartLevel(name string) error {
	if _, ok := s.content.Levels.Get(name); !ok {
		log.Printf("[Session] ERROR: StartLevel: level %q not found", name)
		return fmt.Errorf("start level %q: %w", name, systems.ErrUnknownLevel)
	}
	if err := s.buildWorld(name); err != nil {
		return err
	}
	if err := s.waves.StartLevel(name); err != nil {
		return err
	}
	s.refreshSnapshot()
	return nil
}

// buildWorld 创建新的 ecs 世界、场地、玩家和所有系统
func (s *Session) buildWorld(levelName string) error {
	s.closeWorld()

	em := ecs.NewEntityManager()
	gs := game.NewGameState()
	gs.Reset(levelName)
	bus := game.NewEventBus()

	if s.content.Arena != nil {
		if _, err := entities.BuildArena(em, s.content.Arena); err != nil {
			return fmt.Errorf("build arena: %w", err)
		}
	}

	start := types.Vec2{}
	if s.content.Arena != nil {
		start = s.content.Arena.PlayerStart
	}
	playerID, err := entities.NewPlayerEntity(em, s.class, start)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}

	s.entityManager = em
	s.gameState = gs
	s.eventBus = bus
	s.playerID = playerID

	s.combat = systems.NewCombat(em, gs, bus)
	s.waves = systems.NewWaveSystem(em, gs, bus, s.content, s.rng)
	s.waves.SetPlayer(playerID)
	s.doors = systems.NewDoorSystem(em, gs, bus)

	relics := s.content.Relics
	if relics == nil {
		relics = &config.RelicsConfig{}
	}
	s.relicSystem = systems.NewRelicSystem(em, gs, bus, relics)
	s.relicSystem.SetPlayer(playerID)
	for _, name := range s.relics {
		if err := s.relicSystem.AddRelic(name); err != nil {
			log.Printf("[Session] Warning: %v", err)
		}
	}

	s.movement = systems.NewPlayerMovementSystem(em, bus, s.content.Arena)
	s.movement.SetPlayer(playerID)
	s.enemyAI = systems.NewEnemyAISystem(em, s.combat, s.content.Arena)
	s.enemyAI.SetPlayer(playerID)
	s.projectiles = systems.NewProjectileSystem(em, s.combat)

	spells := s.content.Spells
	if spells == nil {
		spells = &config.SpellsConfig{}
	}
	s.spells = systems.NewSpellSystem(em, bus, spells)
	s.spells.SetPlayer(playerID)
	s.spells.SetWaveSource(func() int { return s.waves.State().CurrentWave })

	s.subscribeProgress(levelName)

	// 法力消耗按第一波的属性求值
	if err := systems.ScalePlayerForWave(em, s.content.Classes, playerID, config.FirstWave); err != nil {
		log.Printf("[Session] Warning: initial player scaling failed: %v", err)
	}
	if err := s.spells.EquipLoadout(); err != nil {
		log.Printf("[Session] ERROR: failed to equip loadout: %v", err)
	}
	return nil
}

// closeWorld 取消上一个世界的事件订阅
func (s *Session) closeWorld() {
	if s.doors != nil {
		s.doors.Close()
	}
	if s.relicSystem != nil {
		s.relicSystem.Close()
	}
}

// subscribeProgress 波次结束和关卡胜利时记录进度
func (s *Session) subscribeProgress(levelName string) {
	if s.progress == nil {
		return
	}
	save := func() {
		if err := s.progress.Save(s.class); err != nil {
			log.Printf("[Session] ERROR: failed to save progress: %v", err)
		}
	}
	s.eventBus.SubscribeFunc(game.EventWaveEnd, func(e game.Event) {
		s.progress.RecordWaveCompleted(s.class, levelName, e.Wave, s.id)
		save()
	})
	s.eventBus.SubscribeFunc(game.EventLevelComplete, func(e game.Event) {
		s.progress.RecordWaveCompleted(s.class, levelName, e.Wave, s.id)
		s.progress.RecordLevelWon(s.class, levelName, s.id)
		save()
	})
}

// NextWave 开始下一波（门控推进）
func (s *Session) NextWave() error {
	if s.waves == nil {
		return systems.ErrNoLevel
	}
	return s.waves.NextWave()
}

// ForceStartWave 跳转到指定波次
func (s *Session) ForceStartWave(wave int) error {
	if s.waves == nil {
		return systems.ErrNoLevel
	}
	return s.waves.ForceStartWave(wave)
}

// SetMoveInput 设置玩家移动方向
func (s *Session) SetMoveInput(dir types.Vec2) {
	if s.movement != nil {
		s.movement.SetInput(dir)
	}
}

// Cast 使用法术槽向目标施法
func (s *Session) Cast(slot int, target types.Vec2) error {
	if s.spells == nil {
		return fmt.Errorf("cast slot %d: %w", slot, systems.ErrNoLevel)
	}
	if s.gameState.IsGameOver() {
		return fmt.Errorf("cast slot %d: %w", slot, systems.ErrLevelOver)
	}
	return s.spells.Cast(slot, target)
}

// Update 推进一帧
//
// 先执行排队的命令，再依次推进：波次 → 玩家移动 → 遗物 → 施法 → 投射物 → 敌人，
// 最后清理已标记的实体并刷新快照。对局结束后只执行命令。
func (s *Session) Update(deltaTime float64) {
	s.drainCommands()

	if s.waves != nil && !s.gameState.IsGameOver() {
		s.waves.Update(deltaTime)
		s.movement.Update(deltaTime)
		s.relicSystem.Update(deltaTime)
		s.spells.Update(deltaTime)
		s.projectiles.Update(deltaTime)
		s.enemyAI.Update(deltaTime)
		s.entityManager.RemoveMarkedEntities()
	}

	s.refreshSnapshot()
}

// drainCommands 执行所有已排队的命令
func (s *Session) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- s.runCommand(cmd.run)
		default:
			return
		}
	}
}

// runCommand 执行命令，命令中的 panic 转换为错误
func (s *Session) runCommand(cmd Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Session] ERROR: command panicked: %v", r)
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return cmd(s)
}

// Submit 提交命令并等待执行结果
//
// 命令在模拟协程的下一次 Update 中执行。不能在模拟协程上调用，否则会一直等待。
//
// 返回：命令本身的错误；ctx 取消或会话关闭时返回对应错误
func (s *Session) Submit(ctx context.Context, cmd Command) error {
	q := queuedCommand{run: cmd, reply: make(chan error, 1)}
	select {
	case s.commands <- q:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-q.reply:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run 以固定间隔推进会话，直到 ctx 取消
func (s *Session) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Update(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Close 关闭会话，等待中的 Submit 返回 ErrClosed
func (s *Session) Close() {
	s.closeOne.Do(func() {
		close(s.done)
		s.closeWorld()
		log.Printf("[Session] Closed session %s", s.id)
	})
}
