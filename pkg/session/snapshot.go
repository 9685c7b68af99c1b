package session

import (
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// PlayerSnapshot 玩家状态
type PlayerSnapshot struct {
	Position   types.Vec2 `json:"position"`
	HP         int        `json:"hp"`
	MaxHP      int        `json:"maxHp"`
	Mana       int        `json:"mana"`
	MaxMana    int        `json:"maxMana"`
	SpellPower int        `json:"spellPower"`
	Speed      float64    `json:"speed"`
}

// EnemySnapshot 敌人状态
type EnemySnapshot struct {
	ID       uint64     `json:"id"`
	Kind     string     `json:"kind"`
	Sprite   int        `json:"sprite"`
	Position types.Vec2 `json:"position"`
	HP       int        `json:"hp"`
	MaxHP    int        `json:"maxHp"`
}

// ProjectileSnapshot 投射物状态
type ProjectileSnapshot struct {
	Spell    string     `json:"spell"`
	Sprite   int        `json:"sprite"`
	Position types.Vec2 `json:"position"`
}

// DoorSnapshot 门状态
type DoorSnapshot struct {
	Name     string     `json:"name"`
	Position types.Vec2 `json:"position"`
	Radius   float64    `json:"radius"`
	Open     bool       `json:"open"`
}

// SpellSlotSnapshot 法术槽状态
type SpellSlotSnapshot struct {
	Slot              int      `json:"slot"`
	Spell             string   `json:"spell"`
	Modifiers         []string `json:"modifiers,omitempty"`
	ManaCost          int      `json:"manaCost"`
	CooldownRemaining float64  `json:"cooldownRemaining"`
}

// Snapshot 会话状态的只读副本
// 每次 Update 结束后刷新，供调试服务器和宿主渲染读取
type Snapshot struct {
	SessionID string `json:"sessionId"`
	Class     string `json:"class"`
	Level     string `json:"level"`

	Phase              string `json:"phase"`     // 对局阶段（PREGAME / COUNTDOWN / INWAVE / WAVEEND / GAMEOVER）
	WavePhase          string `json:"wavePhase"` // 波次状态机阶段
	Wave               int    `json:"wave"`
	InProgress         bool   `json:"inProgress"`
	Countdown          int    `json:"countdown"`
	EnemyCount         int    `json:"enemyCount"`
	LastWaveEnemyCount int    `json:"lastWaveEnemyCount"`
	WavesCompleted     int    `json:"wavesCompleted"`
	Endless            bool   `json:"endless"`
	TotalWaves         int    `json:"totalWaves"`
	PlayerWon          bool   `json:"playerWon"`
	PlayerDead         bool   `json:"playerDead"`

	Player      PlayerSnapshot       `json:"player"`
	Enemies     []EnemySnapshot      `json:"enemies"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Doors       []DoorSnapshot       `json:"doors"`
	Spells      []SpellSlotSnapshot  `json:"spells"`
	Relics      []string             `json:"relics"`
}

// Snapshot 返回最近一次 Update 后的状态副本，可在任意协程调用
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// refreshSnapshot 在模拟协程上重建快照
func (s *Session) refreshSnapshot() {
	snap := Snapshot{
		SessionID: s.id,
		Class:     s.class,
		Phase:     game.PhasePregame.String(),
	}
	if s.waves != nil {
		s.fillSnapshot(&snap)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

func (s *Session) fillSnapshot(snap *Snapshot) {
	em := s.entityManager
	gs := s.gameState
	st := s.waves.State()

	snap.Level = gs.LevelName
	snap.Phase = gs.Phase.String()
	snap.WavePhase = st.Phase.String()
	snap.Wave = st.CurrentWave
	snap.InProgress = st.InProgress
	snap.Countdown = gs.Countdown
	snap.EnemyCount = gs.EnemyCount()
	snap.LastWaveEnemyCount = st.LastWaveEnemyCount
	snap.WavesCompleted = gs.WavesCompleted
	snap.PlayerWon = gs.PlayerWon
	snap.PlayerDead = gs.PlayerDead
	if level := s.waves.Level(); level != nil {
		snap.Endless = level.IsEndless()
		snap.TotalWaves = level.Waves
	}

	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, s.playerID); ok {
		snap.Player.Position = pos.Pos
	}
	if hp, ok := ecs.GetComponent[*components.HealthComponent](em, s.playerID); ok {
		snap.Player.HP, snap.Player.MaxHP = hp.CurrentHealth, hp.MaxHealth
	}
	if p, ok := ecs.GetComponent[*components.PlayerComponent](em, s.playerID); ok {
		snap.Player.Mana, snap.Player.MaxMana = p.Mana, p.MaxMana
		snap.Player.SpellPower = p.TotalSpellPower()
		snap.Player.Speed = p.Speed
	}

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		es := EnemySnapshot{ID: uint64(id), Kind: enemy.Kind, Sprite: enemy.Sprite, Position: pos.Pos}
		if hp, ok := ecs.GetComponent[*components.HealthComponent](em, id); ok {
			es.HP, es.MaxHP = hp.CurrentHealth, hp.MaxHealth
		}
		snap.Enemies = append(snap.Enemies, es)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{Spell: proj.Spell, Sprite: proj.Sprite, Position: pos.Pos})
	}

	if s.content.Arena != nil {
		for _, d := range s.content.Arena.Doors {
			snap.Doors = append(snap.Doors, DoorSnapshot{
				Name:     d.Name,
				Position: d.Position,
				Radius:   d.Radius,
				Open:     s.doors.IsOpen(d.Name),
			})
		}
	}

	for i, slot := range s.spells.Slots() {
		if slot == nil {
			continue
		}
		snap.Spells = append(snap.Spells, SpellSlotSnapshot{
			Slot:              i,
			Spell:             slot.Spell,
			Modifiers:         slot.Modifiers,
			ManaCost:          slot.ManaCost,
			CooldownRemaining: max(slot.CooldownRemaining, 0),
		})
	}
	snap.Relics = s.relicSystem.Owned()
}
