package systems

import (
	"testing"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// world 玩法系统测试夹具：玩家 + 伤害结算
type world struct {
	em       *ecs.EntityManager
	gs       *game.GameState
	bus      *game.EventBus
	combat   *Combat
	playerID ecs.EntityID
	player   *components.PlayerComponent
	hp       *components.HealthComponent
	pos      *components.PositionComponent
}

func newWorld(t *testing.T, playerPos types.Vec2) *world {
	t.Helper()
	w := &world{
		em:  ecs.NewEntityManager(),
		gs:  game.NewGameState(),
		bus: game.NewEventBus(),
	}
	w.combat = NewCombat(w.em, w.gs, w.bus)
	id, err := entities.NewPlayerEntity(w.em, "mage", playerPos)
	if err != nil {
		t.Fatalf("NewPlayerEntity() failed: %v", err)
	}
	w.playerID = id
	if err := ScalePlayerForWave(w.em, testContent().Classes, id, 1); err != nil {
		t.Fatalf("ScalePlayerForWave() failed: %v", err)
	}
	w.player, _ = ecs.GetComponent[*components.PlayerComponent](w.em, id)
	w.hp, _ = ecs.GetComponent[*components.HealthComponent](w.em, id)
	w.pos, _ = ecs.GetComponent[*components.PositionComponent](w.em, id)
	return w
}

func (w *world) spawnEnemy(t *testing.T, pos types.Vec2, hp int) ecs.EntityID {
	t.Helper()
	create := NewEnemyFactory(w.em, w.gs, w.bus)
	id, err := create(EnemySpawnRequest{
		Kind:     &config.EnemyKind{Name: "zombie", HP: hp, Speed: 4, Damage: 5},
		HP:       hp,
		Speed:    4,
		Position: pos,
		Wave:     1,
	})
	if err != nil {
		t.Fatalf("spawn enemy: %v", err)
	}
	return id
}

func (w *world) wall(pos types.Vec2, radius float64) {
	id := w.em.CreateEntity()
	ecs.AddComponent(w.em, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(w.em, id, &components.ColliderComponent{Radius: radius, Tag: config.TagWall})
}

func near(a, b types.Vec2) bool {
	return a.Dist(b) < 1e-6
}

func TestPlayerMovementSystem(t *testing.T) {
	w := newWorld(t, types.V(10, 10))
	arena := &config.ArenaConfig{Bounds: config.ArenaBounds{Width: 20, Height: 20}}
	s := NewPlayerMovementSystem(w.em, w.bus, arena)
	s.SetPlayer(w.playerID)

	moved := 0
	w.bus.SubscribeFunc(game.EventPlayerMoved, func(game.Event) { moved++ })

	s.Update(0.5)
	if w.player.Moving || w.player.StillTime != 0.5 {
		t.Errorf("idle: moving=%v still=%v", w.player.Moving, w.player.StillTime)
	}

	// 速度 5，向右 1 秒
	s.SetInput(types.V(3, 0))
	s.Update(0.5)
	s.Update(0.5)
	if !near(w.pos.Pos, types.V(15, 10)) {
		t.Errorf("position = %v, want (15, 10)", w.pos.Pos)
	}
	if moved != 1 {
		t.Errorf("player-moved published %d times, want 1 per start of movement", moved)
	}
	if w.player.StillTime != 0 || w.player.FacingX != 1 || w.player.FacingY != 0 {
		t.Errorf("still=%v facing=(%v,%v)", w.player.StillTime, w.player.FacingX, w.player.FacingY)
	}

	// 场地边界
	s.Update(10)
	if w.pos.Pos.X != 20 {
		t.Errorf("X = %v, want clamped to 20", w.pos.Pos.X)
	}

	s.SetInput(types.Vec2{})
	s.Update(1)
	s.SetInput(types.V(-1, 0))
	s.Update(0.1)
	if moved != 2 {
		t.Errorf("player-moved published %d times, want 2", moved)
	}
}

func TestPlayerMovementSystem_WallsBlock(t *testing.T) {
	w := newWorld(t, types.V(10, 10))
	w.wall(types.V(11, 10), 0.5)
	s := NewPlayerMovementSystem(w.em, w.bus, nil)
	s.SetPlayer(w.playerID)

	s.SetInput(types.V(1, 0))
	s.Update(0.1)
	if !near(w.pos.Pos, types.V(10, 10)) {
		t.Errorf("walked into wall: %v", w.pos.Pos)
	}

	// 斜向移动时沿 Y 轴滑动
	s.SetInput(types.V(1, 1))
	s.Update(0.1)
	if w.pos.Pos.X != 10 || w.pos.Pos.Y <= 10 {
		t.Errorf("expected slide along Y, got %v", w.pos.Pos)
	}
}

func TestTickSpeedBoosts(t *testing.T) {
	p := &components.PlayerComponent{BaseSpeed: 4}
	ApplySpeedBoost(p, components.SpeedBoost{Source: "a", Multiplier: 1.5, Remaining: 1})
	ApplySpeedBoost(p, components.SpeedBoost{Source: "b", Bonus: 2, Remaining: 3})
	if p.Speed != 8 {
		t.Fatalf("Speed = %v, want 4*1.5+2 = 8", p.Speed)
	}

	// 同来源刷新而不是叠加
	ApplySpeedBoost(p, components.SpeedBoost{Source: "a", Multiplier: 1.5, Remaining: 2})
	if len(p.SpeedBoosts) != 2 || p.Speed != 8 {
		t.Fatalf("refresh stacked: %d boosts, speed %v", len(p.SpeedBoosts), p.Speed)
	}

	if TickSpeedBoosts(p, 1.5) {
		t.Error("no boost should expire after 1.5s")
	}
	if !TickSpeedBoosts(p, 1) || p.Speed != 6 {
		t.Errorf("after 2.5s: speed %v, want 6", p.Speed)
	}
	TickSpeedBoosts(p, 1)
	if len(p.SpeedBoosts) != 0 || p.Speed != 4 {
		t.Errorf("all expired: %d boosts, speed %v", len(p.SpeedBoosts), p.Speed)
	}
}

func TestEnemyAISystem(t *testing.T) {
	w := newWorld(t, types.V(0, 0))
	id := w.spawnEnemy(t, types.V(10, 0), 20)
	s := NewEnemyAISystem(w.em, w.combat, nil)
	s.SetPlayer(w.playerID)

	// 速度 4 × 0.5 = 2 单位/秒
	s.Update(1)
	pos, _ := ecs.GetComponent[*components.PositionComponent](w.em, id)
	if !near(pos.Pos, types.V(8, 0)) {
		t.Errorf("enemy at %v, want (8, 0)", pos.Pos)
	}

	pos.Pos = types.V(0.5, 0)
	start := w.hp.CurrentHealth
	s.Update(0.1)
	if w.hp.CurrentHealth != start-5 {
		t.Fatalf("contact damage: hp %d, want %d", w.hp.CurrentHealth, start-5)
	}
	s.Update(0.5)
	if w.hp.CurrentHealth != start-5 {
		t.Error("contact damage should respect cooldown")
	}
	s.Update(0.5)
	if w.hp.CurrentHealth != start-10 {
		t.Errorf("after cooldown: hp %d, want %d", w.hp.CurrentHealth, start-10)
	}
}

func TestEnemyAISystem_KillsPlayer(t *testing.T) {
	w := newWorld(t, types.V(0, 0))
	w.spawnEnemy(t, types.V(0.2, 0), 20)
	w.hp.CurrentHealth = 3

	s := NewEnemyAISystem(w.em, w.combat, nil)
	s.SetPlayer(w.playerID)
	s.Update(0.1)

	if !w.gs.PlayerDead || w.gs.Phase != game.PhaseGameOver {
		t.Errorf("expected defeat, dead=%v phase=%v", w.gs.PlayerDead, w.gs.Phase)
	}
}

func fireProjectile(t *testing.T, w *world, spec entities.ProjectileSpec) ecs.EntityID {
	t.Helper()
	if spec.Lifetime == 0 {
		spec.Lifetime = 10
	}
	id, err := entities.NewProjectileEntity(w.em, spec)
	if err != nil {
		t.Fatalf("NewProjectileEntity() failed: %v", err)
	}
	return id
}

func TestProjectileSystem_Hits(t *testing.T) {
	tests := []struct {
		name        string
		pierce      int
		wantHits    int
		wantDestroy bool
	}{
		{"destroyed on first hit", 0, 1, true},
		{"pierces one", 1, 2, true},
		{"unlimited pierce", -1, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, types.V(0, 0))
			var enemies []ecs.EntityID
			for _, x := range []float64{3, 6, 9} {
				enemies = append(enemies, w.spawnEnemy(t, types.V(x, 0), 100))
			}
			proj := fireProjectile(t, w, entities.ProjectileSpec{
				Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0),
				Speed: 10, Damage: 10, PierceCount: tt.pierce,
			})

			s := NewProjectileSystem(w.em, w.combat)
			for i := 0; i < 100; i++ {
				s.Update(0.01)
			}

			hits := 0
			for _, id := range enemies {
				h, _ := ecs.GetComponent[*components.HealthComponent](w.em, id)
				if h.CurrentHealth == 90 {
					hits++
				}
			}
			if hits != tt.wantHits {
				t.Errorf("hit %d enemies, want %d", hits, tt.wantHits)
			}
			if w.em.IsMarkedForDestroy(proj) != tt.wantDestroy {
				t.Errorf("destroyed = %v, want %v", w.em.IsMarkedForDestroy(proj), tt.wantDestroy)
			}
		})
	}
}

func TestProjectileSystem_KillUpdatesCount(t *testing.T) {
	w := newWorld(t, types.V(0, 0))
	w.spawnEnemy(t, types.V(2, 0), 10)
	fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0), Speed: 10, Damage: 25,
	})
	killed := 0
	w.bus.SubscribeFunc(game.EventEnemyKilled, func(game.Event) { killed++ })

	s := NewProjectileSystem(w.em, w.combat)
	for i := 0; i < 20; i++ {
		s.Update(0.01)
	}
	if w.gs.EnemyCount() != 0 || killed != 1 {
		t.Errorf("count=%d killed=%d, want 0/1", w.gs.EnemyCount(), killed)
	}
}

func TestProjectileSystem_WallsAndLifetime(t *testing.T) {
	w := newWorld(t, types.V(0, 0))
	w.wall(types.V(3, 0), 0.5)
	far := w.spawnEnemy(t, types.V(6, 0), 100)

	blockedShot := fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0), Speed: 10, Damage: 10,
	})
	railShot := fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0), Speed: 10, Damage: 10,
		PierceCount: -1, IgnoreWalls: true,
	})
	shortShot := fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 5), Direction: types.V(0, 1), Speed: 1, Lifetime: 0.5, Damage: 10,
	})

	s := NewProjectileSystem(w.em, w.combat)
	for i := 0; i < 80; i++ {
		s.Update(0.01)
	}

	if !w.em.IsMarkedForDestroy(blockedShot) {
		t.Error("projectile should be stopped by the wall")
	}
	if w.em.IsMarkedForDestroy(railShot) {
		t.Error("wall-ignoring projectile should still be alive")
	}
	if !w.em.IsMarkedForDestroy(shortShot) {
		t.Error("projectile should expire after its lifetime")
	}
	h, _ := ecs.GetComponent[*components.HealthComponent](w.em, far)
	if h.CurrentHealth != 90 {
		t.Errorf("enemy behind wall hp = %d, want 90 (only the railgun shot)", h.CurrentHealth)
	}
}

func TestProjectileSystem_Burst(t *testing.T) {
	w := newWorld(t, types.V(0, 0))
	direct := w.spawnEnemy(t, types.V(3, 0), 100)
	splash := w.spawnEnemy(t, types.V(3, 2), 100)
	outside := w.spawnEnemy(t, types.V(3, 5), 100)

	fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0),
		Speed: 10, Damage: 10, BurstRadius: 2.5,
	})
	s := NewProjectileSystem(w.em, w.combat)
	for i := 0; i < 30; i++ {
		s.Update(0.01)
	}

	want := map[ecs.EntityID]int{direct: 80, splash: 90, outside: 100}
	for id, hp := range want {
		h, _ := ecs.GetComponent[*components.HealthComponent](w.em, id)
		if h.CurrentHealth != hp {
			t.Errorf("enemy %d hp = %d, want %d", id, h.CurrentHealth, hp)
		}
	}
	if w.hp.CurrentHealth != w.hp.MaxHealth {
		t.Error("burst must not damage the caster's team")
	}
}

func TestProjectileSystem_TeamFilter(t *testing.T) {
	w := newWorld(t, types.V(3, 0))
	fireProjectile(t, w, entities.ProjectileSpec{
		Team: types.TeamPlayer, Origin: types.V(1, 0), Direction: types.V(1, 0), Speed: 10, Damage: 10,
	})
	s := NewProjectileSystem(w.em, w.combat)
	for i := 0; i < 40; i++ {
		s.Update(0.01)
	}
	if w.hp.CurrentHealth != w.hp.MaxHealth {
		t.Error("player projectile hit the player")
	}
}
