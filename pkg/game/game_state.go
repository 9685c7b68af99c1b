package game

import (
	"fmt"
	"log"
)

// Phase 对局阶段
type Phase int

const (
	// PhasePregame 关卡尚未开始
	PhasePregame Phase = iota
	// PhaseCountdown 开波倒计时
	PhaseCountdown
	// PhaseInWave 波次进行中（生成或等待清场）
	PhaseInWave
	// PhaseWaveEnd 两波之间
	PhaseWaveEnd
	// PhaseGameOver 对局结束（胜利或失败，见 PlayerWon）
	PhaseGameOver
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhasePregame:
		return "PREGAME"
	case PhaseCountdown:
		return "COUNTDOWN"
	case PhaseInWave:
		return "INWAVE"
	case PhaseWaveEnd:
		return "WAVEEND"
	case PhaseGameOver:
		return "GAMEOVER"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// GameState 一局游戏的共享状态
//
// 由 GameSession 创建并持有，每局游戏一个实例，显式传给需要它的系统。
// 存活敌人计数由敌人生成回调增加、敌人死亡时减少；波次系统只读取它来判断清场。
//
// 不是并发安全的：只能在模拟 goroutine 中访问，外部读者使用 session 快照。
type GameState struct {
	LevelName string
	Phase     Phase

	// Countdown 倒计时显示值（3, 2, 1），0 表示不在倒计时
	Countdown int

	// WavesCompleted 已完成的波次数
	WavesCompleted int

	// PlayerWon 对局结束时玩家是否胜利
	PlayerWon bool
	// PlayerDead 玩家是否已死亡
	PlayerDead bool

	enemyCount int
}

// NewGameState 创建新的对局状态
func NewGameState() *GameState {
	return &GameState{Phase: PhasePregame}
}

// Reset 重置为开局前状态（重新开始关卡时调用）
func (gs *GameState) Reset(levelName string) {
	*gs = GameState{LevelName: levelName, Phase: PhasePregame}
}

// AddEnemy 存活敌人数加一
func (gs *GameState) AddEnemy() {
	gs.enemyCount++
}

// RemoveEnemy 存活敌人数减一
// 计数不会低于 0；出现多减说明调用方重复结算了死亡，记录警告
func (gs *GameState) RemoveEnemy() {
	if gs.enemyCount == 0 {
		log.Printf("[GameState] Warning: RemoveEnemy called with no live enemies")
		return
	}
	gs.enemyCount--
}

// EnemyCount 当前存活敌人数
func (gs *GameState) EnemyCount() int {
	return gs.enemyCount
}

// ReconcileEnemyCount 用实际存活实体数修正计数
// 只在清场等待超时后调用
func (gs *GameState) ReconcileEnemyCount(actual int) {
	if actual < 0 {
		actual = 0
	}
	if actual != gs.enemyCount {
		log.Printf("[GameState] Warning: live enemy count drifted (tracked=%d, actual=%d), reconciling", gs.enemyCount, actual)
	}
	gs.enemyCount = actual
}

// IsGameOver 对局是否已结束
func (gs *GameState) IsGameOver() bool {
	return gs.Phase == PhaseGameOver
}

// Win 标记玩家胜利并结束对局
func (gs *GameState) Win() {
	gs.PlayerWon = true
	gs.Countdown = 0
	gs.Phase = PhaseGameOver
}

// Lose 标记玩家死亡并结束对局
func (gs *GameState) Lose() {
	gs.PlayerWon = false
	gs.PlayerDead = true
	gs.Countdown = 0
	gs.Phase = PhaseGameOver
}
