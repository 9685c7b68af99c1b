package systems

import (
	"fmt"
	"log"

	"github.com/decker502/arena/internal/rpn"
	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// SpellSlot 一个已装备的法术
type SpellSlot struct {
	Spell     string
	Modifiers []string

	ManaCost          int
	Cooldown          float64
	CooldownRemaining float64

	cast CastFunc
}

// Ready 冷却是否结束
func (s *SpellSlot) Ready() bool {
	return s.CooldownRemaining <= 0
}

// SpellSystem 玩家施法系统
//
// 职责：
//   - 管理最多 MaxSpellSlots 个法术槽（法术 + 修饰器链）
//   - 每秒回复一次法力
//   - 施法时检查冷却和法力，扣除消耗，执行修饰器链，发布 spell-cast
type SpellSystem struct {
	entityManager *ecs.EntityManager
	eventBus      *game.EventBus
	spells        *config.SpellsConfig

	playerID ecs.EntityID
	slots    [config.MaxSpellSlots]*SpellSlot

	// currentWave 提供法术公式中的 wave 变量
	currentWave func() int
}

// NewSpellSystem 创建施法系统
func NewSpellSystem(em *ecs.EntityManager, bus *game.EventBus, spells *config.SpellsConfig) *SpellSystem {
	return &SpellSystem{
		entityManager: em,
		eventBus:      bus,
		spells:        spells,
		currentWave:   func() int { return config.FirstWave },
	}
}

// SetPlayer 设置施法者
func (s *SpellSystem) SetPlayer(id ecs.EntityID) {
	s.playerID = id
}

// SetWaveSource 设置当前波次的来源
func (s *SpellSystem) SetWaveSource(f func() int) {
	if f != nil {
		s.currentWave = f
	}
}

// Equip 把法术装备到指定槽位
//
// 修饰器按列表顺序从外到内包装基础施法。
// 法力消耗和冷却按装备时的法术强度和波次求值一次。
func (s *SpellSystem) Equip(slot int, entry config.LoadoutEntry) error {
	if slot < 0 || slot >= len(s.slots) {
		return fmt.Errorf("equip %s: slot %d: %w", entry.Spell, slot, ErrInvalidSlot)
	}
	def, ok := s.spells.GetSpell(entry.Spell)
	if !ok {
		return fmt.Errorf("equip %q: %w", entry.Spell, ErrUnknownSpell)
	}

	mods := make([]CastModifier, 0, len(entry.Modifiers))
	for _, name := range entry.Modifiers {
		mdef, ok := s.spells.GetModifier(name)
		if !ok {
			return fmt.Errorf("equip %s: modifier %q: %w", entry.Spell, name, ErrUnknownSpell)
		}
		mod, err := NewCastModifier(s.entityManager, mdef)
		if err != nil {
			return fmt.Errorf("equip %s: %w", entry.Spell, err)
		}
		mods = append(mods, mod)
	}

	power := 0
	if player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID); ok {
		power = player.TotalSpellPower()
	}
	mana, cooldown := ManaCostAndCooldown(def, rpn.Vars{
		config.VarPower: float64(power),
		config.VarWave:  float64(s.currentWave()),
	})

	s.slots[slot] = &SpellSlot{
		Spell:     def.Name,
		Modifiers: append([]string(nil), entry.Modifiers...),
		ManaCost:  mana,
		Cooldown:  cooldown,
		cast:      ChainModifiers(NewSpellCast(s.entityManager, def), mods...),
	}
	log.Printf("[SpellSystem] Slot %d: %s %v (mana=%d, cooldown=%.1fs)", slot, def.Name, entry.Modifiers, mana, cooldown)
	return nil
}

// EquipLoadout 按配置的初始法术槽装备
func (s *SpellSystem) EquipLoadout() error {
	for i, entry := range s.spells.Loadout {
		if err := s.Equip(i, entry); err != nil {
			return err
		}
	}
	return nil
}

// Slots 已装备法术槽的副本，空槽为 nil
func (s *SpellSystem) Slots() []*SpellSlot {
	out := make([]*SpellSlot, len(s.slots))
	for i, slot := range s.slots {
		if slot != nil {
			cp := *slot
			out[i] = &cp
		}
	}
	return out
}

// Cast 使用指定槽位向 target 施法
//
// 参数：
//   - slot: 槽位编号
//   - target: 目标位置；与玩家重合时沿当前朝向施法
//
// 返回：槽位无效、冷却中或法力不足时返回对应错误，状态不变
func (s *SpellSystem) Cast(slot int, target types.Vec2) error {
	if slot < 0 || slot >= len(s.slots) {
		return fmt.Errorf("cast slot %d: %w", slot, ErrInvalidSlot)
	}
	sp := s.slots[slot]
	if sp == nil {
		log.Printf("[SpellSystem] Warning: No spell in slot %d", slot)
		return fmt.Errorf("cast slot %d: %w", slot, ErrEmptySlot)
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return ErrMissingPlayer
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	if !ok {
		return ErrMissingPlayer
	}
	if !sp.Ready() {
		return fmt.Errorf("cast %s: %w", sp.Spell, ErrSpellCooldown)
	}
	if player.Mana < sp.ManaCost {
		return fmt.Errorf("cast %s: %w", sp.Spell, ErrNotEnoughMana)
	}

	dir := target.Sub(pos.Pos)
	if dir.IsZero() {
		dir = types.V(player.FacingX, player.FacingY)
	}
	if dir.IsZero() {
		dir = types.V(1, 0)
	}

	player.Mana -= sp.ManaCost
	sp.CooldownRemaining = sp.Cooldown

	ctx := CastContext{
		Caster:    s.playerID,
		Team:      types.TeamPlayer,
		Origin:    pos.Pos,
		Direction: dir,
		Power:     player.TotalSpellPower(),
		Wave:      s.currentWave(),
	}
	ids, err := sp.cast(ctx)
	if err != nil {
		log.Printf("[SpellSystem] ERROR: %v", err)
		return err
	}

	log.Printf("[SpellSystem] Slot %d -> Cast %q (mana=%d, cost=%d, projectiles=%d)", slot, sp.Spell, player.Mana, sp.ManaCost, len(ids))
	s.eventBus.Publish(game.Event{Type: game.EventSpellCast, Wave: ctx.Wave, Amount: sp.ManaCost, Entity: uint64(s.playerID), Name: sp.Spell})
	return nil
}

// Update 推进冷却和法力回复
func (s *SpellSystem) Update(deltaTime float64) {
	for _, sp := range s.slots {
		if sp != nil && sp.CooldownRemaining > 0 {
			sp.CooldownRemaining -= deltaTime
		}
	}

	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	player.ManaRegenTimer += deltaTime
	for player.ManaRegenTimer >= config.ManaRegenInterval {
		player.ManaRegenTimer -= config.ManaRegenInterval
		player.Mana += player.ManaRegen
		if player.Mana > player.MaxMana {
			player.Mana = player.MaxMana
		}
	}
}
