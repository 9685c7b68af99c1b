package systems

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

func testSpells() *config.SpellsConfig {
	return &config.SpellsConfig{
		Spells: []config.SpellDefinition{
			{Name: "Bolt", Kind: config.SpellKindBolt, ManaCost: "10", Cooldown: "2", Damage: "25 power 5 / +",
				Projectile: config.ProjectileDefinition{Speed: "14", Lifetime: "2"}},
			{Name: "Rail", Kind: config.SpellKindRailgun, ManaCost: "bad bad", Damage: "power power",
				Projectile: config.ProjectileDefinition{Speed: "25 wave +", Lifetime: "1"}},
			{Name: "Burst", Kind: config.SpellKindBurst, ManaCost: "25", Cooldown: "4", Damage: "30", Radius: "2.5",
				Projectile: config.ProjectileDefinition{Speed: "10", Lifetime: "2"}},
		},
		Modifiers: []config.ModifierDefinition{
			{Name: "pierce", Kind: config.ModifierPiercing},
			{Name: "hasted", Kind: config.ModifierHaste, SpeedBonus: "2 power 50 / +", Duration: "2"},
		},
		Loadout: []config.LoadoutEntry{
			{Spell: "Bolt"},
			{Spell: "Rail"},
			{Spell: "Burst", Modifiers: []string{"hasted", "pierce"}},
		},
	}
}

func newSpellFixture(t *testing.T) (*world, *SpellSystem) {
	t.Helper()
	w := newWorld(t, types.V(10, 10))
	s := NewSpellSystem(w.em, w.bus, testSpells())
	s.SetPlayer(w.playerID)
	if err := s.EquipLoadout(); err != nil {
		t.Fatalf("EquipLoadout() failed: %v", err)
	}
	return w, s
}

// lastProjectile 最近创建的投射物
func lastProjectile(t *testing.T, em *ecs.EntityManager) (*components.ProjectileComponent, *components.VelocityComponent) {
	t.Helper()
	ids := ecs.GetEntitiesWith1[*components.ProjectileComponent](em)
	if len(ids) == 0 {
		t.Fatal("no projectile created")
	}
	id := ids[len(ids)-1]
	proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	return proj, vel
}

func TestSpellSystem_Equip(t *testing.T) {
	_, s := newSpellFixture(t)
	slots := s.Slots()

	if slots[0].ManaCost != 10 || slots[0].Cooldown != 2 {
		t.Errorf("Bolt: mana=%d cooldown=%v", slots[0].ManaCost, slots[0].Cooldown)
	}
	// 公式错误时使用 railgun 的回退值
	if slots[1].ManaCost != 10 || slots[1].Cooldown != 3 {
		t.Errorf("Rail fallbacks: mana=%d cooldown=%v, want 10/3", slots[1].ManaCost, slots[1].Cooldown)
	}
	if !reflect.DeepEqual(slots[2].Modifiers, []string{"hasted", "pierce"}) {
		t.Errorf("Burst modifiers = %v", slots[2].Modifiers)
	}
	if slots[3] != nil {
		t.Error("slot 3 should be empty")
	}

	if err := s.Equip(0, config.LoadoutEntry{Spell: "Nova"}); !errors.Is(err, ErrUnknownSpell) {
		t.Errorf("unknown spell: got %v", err)
	}
	if err := s.Equip(0, config.LoadoutEntry{Spell: "Bolt", Modifiers: []string{"split"}}); !errors.Is(err, ErrUnknownSpell) {
		t.Errorf("unknown modifier: got %v", err)
	}
	if err := s.Equip(config.MaxSpellSlots, config.LoadoutEntry{Spell: "Bolt"}); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot out of range: got %v", err)
	}
}

func TestSpellSystem_Cast(t *testing.T) {
	w, s := newSpellFixture(t)

	var casts []game.Event
	w.bus.SubscribeFunc(game.EventSpellCast, func(e game.Event) { casts = append(casts, e) })

	if err := s.Cast(0, types.V(20, 10)); err != nil {
		t.Fatalf("Cast(0) failed: %v", err)
	}
	if w.player.Mana != 90 {
		t.Errorf("mana = %d, want 90", w.player.Mana)
	}
	proj, vel := lastProjectile(t, w.em)
	if proj.Damage != 27 || proj.Spell != "Bolt" || proj.PierceCount != 0 {
		t.Errorf("bolt projectile: %+v", proj)
	}
	if !near(vel.Vel, types.V(14, 0)) {
		t.Errorf("bolt velocity = %v, want (14, 0)", vel.Vel)
	}
	if len(casts) != 1 || casts[0].Name != "Bolt" || casts[0].Amount != 10 {
		t.Errorf("spell-cast events = %+v", casts)
	}

	// 冷却中
	if err := s.Cast(0, types.V(20, 10)); !errors.Is(err, ErrSpellCooldown) {
		t.Errorf("expected ErrSpellCooldown, got %v", err)
	}
	if w.player.Mana != 90 || len(casts) != 1 {
		t.Error("rejected cast changed state")
	}

	// 冷却结束，法力回复 2 次并封顶
	s.Update(2)
	if !s.Slots()[0].Ready() {
		t.Error("cooldown should be over")
	}
	if w.player.Mana != w.player.MaxMana {
		t.Errorf("mana = %d, want capped at %d", w.player.Mana, w.player.MaxMana)
	}

	// 目标与玩家重合时沿朝向施法
	if err := s.Cast(1, w.pos.Pos); err != nil {
		t.Fatalf("Cast(1) failed: %v", err)
	}
	proj, vel = lastProjectile(t, w.em)
	if proj.Damage != 50 || proj.PierceCount >= 0 || !proj.IgnoreWalls {
		t.Errorf("railgun projectile: %+v", proj)
	}
	if !near(vel.Vel, types.V(26, 0)) {
		t.Errorf("railgun velocity = %v, want (26, 0)", vel.Vel)
	}
}

func TestSpellSystem_CastErrors(t *testing.T) {
	w, s := newSpellFixture(t)

	if err := s.Cast(-1, types.V(0, 0)); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot -1: got %v", err)
	}
	if err := s.Cast(3, types.V(0, 0)); !errors.Is(err, ErrEmptySlot) {
		t.Errorf("empty slot: got %v", err)
	}
	w.player.Mana = 5
	if err := s.Cast(0, types.V(0, 0)); !errors.Is(err, ErrNotEnoughMana) {
		t.Errorf("low mana: got %v", err)
	}
	if w.player.Mana != 5 || len(ecs.GetEntitiesWith1[*components.ProjectileComponent](w.em)) != 0 {
		t.Error("failed cast should not spend mana or create projectiles")
	}
}

func TestSpellSystem_ModifierPipeline(t *testing.T) {
	w, s := newSpellFixture(t)

	if err := s.Cast(2, types.V(10, 20)); err != nil {
		t.Fatalf("Cast(2) failed: %v", err)
	}
	proj, _ := lastProjectile(t, w.em)
	if proj.PierceCount != 1 || proj.BurstRadius != 2.5 || proj.Damage != 30 {
		t.Errorf("burst projectile: %+v", proj)
	}
	// power 10：2 + 10/50 = 2.2，取整为 2
	if w.player.Speed != 7 || len(w.player.SpeedBoosts) != 1 {
		t.Fatalf("haste: speed=%v boosts=%d, want 7/1", w.player.Speed, len(w.player.SpeedBoosts))
	}

	// 再次施法刷新计时，不叠加
	s.Update(4)
	TickSpeedBoosts(w.player, 1.5)
	if err := s.Cast(2, types.V(10, 20)); err != nil {
		t.Fatalf("second Cast(2) failed: %v", err)
	}
	if w.player.Speed != 7 || len(w.player.SpeedBoosts) != 1 || w.player.SpeedBoosts[0].Remaining != 2 {
		t.Errorf("haste refresh: speed=%v boosts=%+v", w.player.Speed, w.player.SpeedBoosts)
	}

	TickSpeedBoosts(w.player, 2)
	if w.player.Speed != 5 {
		t.Errorf("speed after haste = %v, want 5", w.player.Speed)
	}
}

func TestChainModifiers_Order(t *testing.T) {
	var trace []string
	wrap := func(name string) CastModifier {
		return func(next CastFunc) CastFunc {
			return func(ctx CastContext) ([]ecs.EntityID, error) {
				trace = append(trace, name+">")
				ids, err := next(ctx)
				trace = append(trace, "<"+name)
				return ids, err
			}
		}
	}
	base := func(CastContext) ([]ecs.EntityID, error) {
		trace = append(trace, "cast")
		return nil, nil
	}

	cast := ChainModifiers(base, wrap("outer"), wrap("inner"))
	if _, err := cast(CastContext{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"outer>", "inner>", "cast", "<inner", "<outer"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestNewCastModifier_UnknownKind(t *testing.T) {
	if _, err := NewCastModifier(ecs.NewEntityManager(), &config.ModifierDefinition{Name: "x", Kind: "split"}); err == nil {
		t.Error("expected an error for an unknown modifier kind")
	}
}
