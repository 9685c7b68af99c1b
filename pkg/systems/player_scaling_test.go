package systems

import (
	"errors"
	"testing"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/types"
)

func TestScalePlayerForWave(t *testing.T) {
	classes := testContent().Classes

	tests := []struct {
		name        string
		current     int
		max         int
		relicBonus  int
		wave        int
		wantCurrent int
		wantMax     int
	}{
		{"full health follows formula plus relic bonus", 100, 100, 15, 4, 135, 135},
		{"damaged player keeps current health", 60, 100, 15, 4, 60, 135},
		{"no bonus", 1, 1, 0, 2, 110, 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			id, _ := entities.NewPlayerEntity(em, "mage", types.V(0, 0))
			hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
			player, _ := ecs.GetComponent[*components.PlayerComponent](em, id)
			hp.CurrentHealth, hp.MaxHealth = tt.current, tt.max
			player.RelicMaxHPBonus = tt.relicBonus

			if err := ScalePlayerForWave(em, classes, id, tt.wave); err != nil {
				t.Fatalf("ScalePlayerForWave() failed: %v", err)
			}
			if hp.CurrentHealth != tt.wantCurrent || hp.MaxHealth != tt.wantMax {
				t.Errorf("health %d/%d, want %d/%d", hp.CurrentHealth, hp.MaxHealth, tt.wantCurrent, tt.wantMax)
			}
			wantMana := 90 + 10*tt.wave
			if player.MaxMana != wantMana || player.Mana != wantMana {
				t.Errorf("mana %d/%d, want full %d", player.Mana, player.MaxMana, wantMana)
			}
			if player.ManaRegen != 10+tt.wave || player.SpellPower != 10*tt.wave {
				t.Errorf("regen=%d power=%d", player.ManaRegen, player.SpellPower)
			}
			if player.BaseSpeed != 5 || player.Speed != 5 {
				t.Errorf("speed base=%v effective=%v, want 5", player.BaseSpeed, player.Speed)
			}
		})
	}
}

func TestScalePlayerForWave_KeepsSpeedBoosts(t *testing.T) {
	em := ecs.NewEntityManager()
	id, _ := entities.NewPlayerEntity(em, "mage", types.V(0, 0))
	player, _ := ecs.GetComponent[*components.PlayerComponent](em, id)
	player.SpeedBoosts = []components.SpeedBoost{{Source: "boots", Multiplier: 2, Remaining: 3}}

	if err := ScalePlayerForWave(em, testContent().Classes, id, 1); err != nil {
		t.Fatalf("ScalePlayerForWave() failed: %v", err)
	}
	if player.Speed != 10 {
		t.Errorf("Speed = %v, want 10 with the boost applied", player.Speed)
	}
}

func TestScalePlayerForWave_Errors(t *testing.T) {
	em := ecs.NewEntityManager()
	classes := testContent().Classes

	if err := ScalePlayerForWave(em, classes, 42, 1); !errors.Is(err, ErrMissingPlayer) {
		t.Errorf("missing player: expected ErrMissingPlayer, got %v", err)
	}

	id, _ := entities.NewPlayerEntity(em, "mage", types.V(0, 0))
	hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
	hp.CurrentHealth, hp.MaxHealth = 70, 80

	broken := &config.ClassesConfig{Classes: map[string]config.ClassDefinition{
		"mage": {Health: "wave +", Mana: "1", ManaRegeneration: "1", Spellpower: "1", Speed: "1"},
	}}
	if err := ScalePlayerForWave(em, broken, id, 3); err == nil {
		t.Fatal("expected an error for a malformed formula")
	}
	if hp.CurrentHealth != 70 || hp.MaxHealth != 80 {
		t.Errorf("stats changed after failed scaling: %d/%d", hp.CurrentHealth, hp.MaxHealth)
	}
}
