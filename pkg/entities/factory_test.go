package entities

import (
	"math"
	"testing"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/types"
)

func TestNewEnemyEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	kind := &config.EnemyKind{Name: "zombie", Sprite: 2, HP: 20, Speed: 5, Damage: 7}

	id, err := NewEnemyEntity(em, kind, 35, 6.5, types.V(3, 4), 2)
	if err != nil {
		t.Fatalf("NewEnemyEntity() failed: %v", err)
	}

	hp, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	if !ok || hp.CurrentHealth != 35 || hp.MaxHealth != 35 || hp.Team != types.TeamMonsters {
		t.Errorf("Unexpected health component: %+v", hp)
	}
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
	if enemy.Kind != "zombie" || enemy.Speed != 6.5 || enemy.Damage != 7 || enemy.Wave != 2 {
		t.Errorf("Unexpected enemy component: %+v", enemy)
	}
	col, _ := ecs.GetComponent[*components.ColliderComponent](em, id)
	if col.Tag != config.TagUnit {
		t.Errorf("Enemy collider tag = %q, want %q", col.Tag, config.TagUnit)
	}

	if _, err := NewEnemyEntity(em, nil, 1, 1, types.Vec2{}, 1); err == nil {
		t.Error("Expected error for nil kind")
	}
	if _, err := NewEnemyEntity(nil, kind, 1, 1, types.Vec2{}, 1); err == nil {
		t.Error("Expected error for nil entity manager")
	}
}

func TestNewPlayerEntity_DefaultClass(t *testing.T) {
	em := ecs.NewEntityManager()
	id, err := NewPlayerEntity(em, "", types.V(32, 18))
	if err != nil {
		t.Fatalf("NewPlayerEntity() failed: %v", err)
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](em, id)
	if !ok || player.Class != config.DefaultClass {
		t.Errorf("Expected default class %q, got %+v", config.DefaultClass, player)
	}
	hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
	if hp.Team != types.TeamPlayer {
		t.Errorf("Player team = %v, want %v", hp.Team, types.TeamPlayer)
	}
}

func TestBuildArena(t *testing.T) {
	em := ecs.NewEntityManager()
	arena := &config.ArenaConfig{
		Obstacles: []config.ObstacleDefinition{{Position: types.V(1, 1), Radius: 1, Tag: config.TagWall}},
		Doors:     []config.DoorDefinition{{Name: "inner", Radius: 1, WaveToOpen: 1}},
	}

	n, err := BuildArena(em, arena)
	if err != nil || n != 2 {
		t.Fatalf("BuildArena() = %d, %v", n, err)
	}
	doors := ecs.GetEntitiesWith1[*components.DoorComponent](em)
	if len(doors) != 1 {
		t.Fatalf("Expected 1 door, got %d", len(doors))
	}
	col, _ := ecs.GetComponent[*components.ColliderComponent](em, doors[0])
	if col.Tag != config.TagDoor {
		t.Errorf("Door collider tag = %q, want %q", col.Tag, config.TagDoor)
	}

	if _, err := BuildArena(em, nil); err == nil {
		t.Error("Expected error for nil arena")
	}
}

func TestNewProjectileEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id, err := NewProjectileEntity(em, ProjectileSpec{
		Team:      types.TeamPlayer,
		Origin:    types.V(0, 0),
		Direction: types.V(3, 4),
		Speed:     10,
		Lifetime:  2,
		Damage:    25,
	})
	if err != nil {
		t.Fatalf("NewProjectileEntity() failed: %v", err)
	}

	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	if math.Abs(vel.Vel.X-6) > 1e-9 || math.Abs(vel.Vel.Y-8) > 1e-9 {
		t.Errorf("Velocity = %v, want (6, 8)", vel.Vel)
	}
	proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
	if proj.Damage != 25 || proj.HitEntities == nil {
		t.Errorf("Unexpected projectile component: %+v", proj)
	}

	if _, err := NewProjectileEntity(em, ProjectileSpec{Speed: 1}); err == nil {
		t.Error("Expected error for zero direction")
	}
}
