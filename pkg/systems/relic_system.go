package systems

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/decker502/arena/internal/rpn"
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
)

// RelicSystem 遗物系统
//
// 职责：
//   - 订阅 wave-end / player-damaged / enemy-killed / spell-cast 事件触发对应遗物
//   - 每帧检查 stand-still 条件：连续静止满 N 秒触发一次，移动后重新计时
//   - 按 until 条件清除临时法术强度（施法、移动、受伤）
//
// 事件处理中先清除到期的加成，再触发本次事件的遗物，
// 所以由受伤触发的加成不会被同一次受伤清除。
type RelicSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	eventBus      *game.EventBus
	relics        *config.RelicsConfig

	playerID ecs.EntityID
	owned    []*config.RelicDefinition

	// standStillFired 本次静止期间已触发的 stand-still 遗物
	standStillFired map[string]bool
	subscriptions   []game.SubscriptionID
}

// NewRelicSystem 创建遗物系统并订阅触发事件
func NewRelicSystem(em *ecs.EntityManager, gs *game.GameState, bus *game.EventBus, relics *config.RelicsConfig) *RelicSystem {
	s := &RelicSystem{
		entityManager:   em,
		gameState:       gs,
		eventBus:        bus,
		relics:          relics,
		standStillFired: make(map[string]bool),
	}
	for _, t := range []game.EventType{game.EventWaveEnd, game.EventPlayerDamaged, game.EventEnemyKilled, game.EventSpellCast, game.EventPlayerMoved} {
		s.subscriptions = append(s.subscriptions, bus.Subscribe(t, s))
	}
	return s
}

// SetPlayer 设置遗物持有者
func (s *RelicSystem) SetPlayer(id ecs.EntityID) {
	s.playerID = id
}

// Close 取消所有事件订阅
func (s *RelicSystem) Close() {
	for _, id := range s.subscriptions {
		s.eventBus.Unsubscribe(id)
	}
	s.subscriptions = nil
}

// AddRelic 获得遗物，同名遗物只能持有一个
func (s *RelicSystem) AddRelic(name string) error {
	def, ok := s.relics.Get(name)
	if !ok {
		return fmt.Errorf("add relic %q: %w", name, ErrUnknownRelic)
	}
	for _, r := range s.owned {
		if r.Name == name {
			return nil
		}
	}
	s.owned = append(s.owned, def)
	log.Printf("[RelicSystem] Acquired relic %q (%s -> %s)", def.Name, def.Trigger.Type, def.Effect.Type)
	return nil
}

// Owned 已持有的遗物名称
func (s *RelicSystem) Owned() []string {
	names := make([]string, len(s.owned))
	for i, r := range s.owned {
		names[i] = r.Name
	}
	return names
}

// OnEvent 实现 game.Listener
func (s *RelicSystem) OnEvent(event game.Event) {
	switch event.Type {
	case game.EventWaveEnd:
		s.fire(config.TriggerWaveEnd)
	case game.EventPlayerDamaged:
		s.clearSpellPower(config.UntilDamage)
		s.fire(config.TriggerTakeDamage)
	case game.EventEnemyKilled:
		s.fire(config.TriggerOnKill)
	case game.EventSpellCast:
		s.clearSpellPower(config.UntilCastSpell)
		s.fire(config.TriggerCastSpell)
	case game.EventPlayerMoved:
		s.clearSpellPower(config.UntilMove)
		for k := range s.standStillFired {
			delete(s.standStillFired, k)
		}
	}
}

// Update 检查 stand-still 触发条件
func (s *RelicSystem) Update(deltaTime float64) {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	if player.Moving {
		return
	}
	for _, r := range s.owned {
		if r.Trigger.Type != config.TriggerStandStill || s.standStillFired[r.Name] {
			continue
		}
		seconds, _ := strconv.ParseFloat(r.Trigger.Amount, 64)
		if player.StillTime >= seconds {
			s.standStillFired[r.Name] = true
			s.apply(r)
		}
	}
}

// fire 触发所有条件匹配的遗物
func (s *RelicSystem) fire(trigger string) {
	for _, r := range s.owned {
		if r.Trigger.Type == trigger {
			s.apply(r)
		}
	}
}

// apply 执行遗物效果
func (s *RelicSystem) apply(r *config.RelicDefinition) {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	hp, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}

	e := r.Effect
	switch e.Type {
	case config.EffectGainMana:
		n, _ := strconv.Atoi(e.Amount)
		player.Mana += n
		if player.Mana > player.MaxMana {
			player.Mana = player.MaxMana
		}
		log.Printf("[RelicSystem] %s: +%d mana (%d/%d)", r.Name, n, player.Mana, player.MaxMana)

	case config.EffectGainHealth:
		amount, _ := strconv.ParseFloat(e.Amount, 64)
		heal := int(math.Round(amount))
		if amount <= 1 {
			heal = int(math.Round(amount * float64(hp.MaxHealth)))
		}
		Heal(hp, heal)
		log.Printf("[RelicSystem] %s: +%d health (%d/%d)", r.Name, heal, hp.CurrentHealth, hp.MaxHealth)

	case config.EffectGainSpellpower:
		// until cast-spell / move 的加成在清除前不会重复获得
		if e.Until == config.UntilCastSpell || e.Until == config.UntilMove {
			if pendingBonus(player, r.Name, e.Until) {
				log.Printf("[RelicSystem] %s: bonus still pending, skipped", r.Name)
				return
			}
		}
		vars := rpn.Vars{config.VarWave: float64(s.gameState.WavesCompleted)}
		n := rpn.SafeEvaluateInt(e.Amount, vars, 0)
		if n == 0 {
			return
		}
		player.BonusSpellPower = append(player.BonusSpellPower, components.SpellPowerBonus{
			Source: r.Name,
			Amount: n,
			Until:  e.Until,
		})
		log.Printf("[RelicSystem] %s: +%d spellpower until %q (total %d)", r.Name, n, e.Until, player.TotalSpellPower())

	case config.EffectGainMaxHP:
		n, _ := strconv.Atoi(e.Amount)
		player.RelicMaxHPBonus += n
		SetMaxHealth(hp, hp.MaxHealth+n)
		Heal(hp, n)
		log.Printf("[RelicSystem] %s: +%d max health (bonus %d)", r.Name, n, player.RelicMaxHPBonus)

	case config.EffectSpeedBoost:
		multiplier, _ := strconv.ParseFloat(e.Amount, 64)
		duration, _ := strconv.ParseFloat(e.Duration, 64)
		ApplySpeedBoost(player, components.SpeedBoost{
			Source:     "relic:" + r.Name,
			Multiplier: multiplier,
			Remaining:  duration,
		})
		log.Printf("[RelicSystem] %s: speed x%.2f for %.1fs", r.Name, multiplier, duration)
	}
}

// clearSpellPower 移除持续条件为 until 的临时法术强度
func (s *RelicSystem) clearSpellPower(until string) {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok || len(player.BonusSpellPower) == 0 {
		return
	}
	kept := player.BonusSpellPower[:0]
	for _, b := range player.BonusSpellPower {
		if b.Until != until {
			kept = append(kept, b)
		}
	}
	player.BonusSpellPower = kept
}

// pendingBonus 玩家身上是否还有该遗物尚未清除的同类加成
func pendingBonus(player *components.PlayerComponent, source, until string) bool {
	for _, b := range player.BonusSpellPower {
		if b.Source == source && b.Until == until {
			return true
		}
	}
	return false
}
