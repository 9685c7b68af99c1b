package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/arena/pkg/components"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/ecs"
	"github.com/decker502/arena/pkg/entities"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/types"
)

// testContent 构造测试用的内容配置
func testContent(levels ...config.LevelDefinition) *config.Content {
	return &config.Content{
		Levels: &config.LevelsConfig{Levels: levels},
		Enemies: &config.EnemiesConfig{Enemies: []config.EnemyKind{
			{Name: "zombie", HP: 20, Speed: 5, Damage: 5},
			{Name: "skeleton", HP: 10, Speed: 8, Damage: 3},
		}},
		Classes: &config.ClassesConfig{Classes: map[string]config.ClassDefinition{
			"mage": {
				Health:           "100 wave 5 * +",
				Mana:             "90 wave 10 * +",
				ManaRegeneration: "10 wave +",
				Spellpower:       "wave 10 *",
				Speed:            "5",
			},
		}},
		Relics: &config.RelicsConfig{},
		Spells: &config.SpellsConfig{},
		Arena: &config.ArenaConfig{
			Bounds:      config.ArenaBounds{Width: 64, Height: 36},
			PlayerStart: types.V(32, 18),
			SpawnPoints: []config.SpawnPoint{
				{Name: "n", Kind: "red", Position: types.V(32, 2)},
				{Name: "w", Kind: "green", Position: types.V(3, 10)},
			},
		},
	}
}

// waveHarness 波次系统测试夹具
type waveHarness struct {
	t        *testing.T
	em       *ecs.EntityManager
	gs       *game.GameState
	bus      *game.EventBus
	combat   *Combat
	ws       *WaveSystem
	playerID ecs.EntityID

	clock    float64
	spawns   []EnemySpawnRequest
	waveEnds []int
}

func newWaveHarness(t *testing.T, levels ...config.LevelDefinition) *waveHarness {
	t.Helper()
	h := &waveHarness{
		t:   t,
		em:  ecs.NewEntityManager(),
		gs:  game.NewGameState(),
		bus: game.NewEventBus(),
	}
	content := testContent(levels...)
	h.combat = NewCombat(h.em, h.gs, h.bus)
	h.ws = NewWaveSystem(h.em, h.gs, h.bus, content, rand.New(rand.NewSource(1)))

	pid, err := entities.NewPlayerEntity(h.em, "mage", content.Arena.PlayerStart)
	if err != nil {
		t.Fatalf("NewPlayerEntity() failed: %v", err)
	}
	h.playerID = pid
	h.ws.SetPlayer(pid)

	create := NewEnemyFactory(h.em, h.gs, h.bus)
	h.ws.SetEnemyFactory(func(req EnemySpawnRequest) (ecs.EntityID, error) {
		h.spawns = append(h.spawns, req)
		return create(req)
	})
	h.bus.SubscribeFunc(game.EventWaveEnd, func(e game.Event) {
		h.waveEnds = append(h.waveEnds, e.Wave)
	})
	return h
}

// advance 以 0.25 秒步长推进
func (h *waveHarness) advance(seconds float64) {
	for seconds > 1e-9 {
		step := 0.25
		if seconds < step {
			step = seconds
		}
		h.ws.Update(step)
		h.em.RemoveMarkedEntities()
		h.clock += step
		seconds -= step
	}
}

// killAll 击杀所有存活敌人
func (h *waveHarness) killAll() {
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](h.em) {
		h.combat.KillEnemy(id)
	}
	h.em.RemoveMarkedEntities()
}

// clearWave 推进到等待清场阶段后击杀全部敌人，并推进一帧完成波次
func (h *waveHarness) clearWave() {
	h.t.Helper()
	for i := 0; i < 4000 && h.ws.State().Phase != components.WavePhaseAwaitingClear; i++ {
		h.advance(0.25)
	}
	if h.ws.State().Phase != components.WavePhaseAwaitingClear {
		h.t.Fatalf("wave %d never reached AWAITING_CLEAR (phase %v)", h.ws.State().CurrentWave, h.ws.State().Phase)
	}
	h.killAll()
	h.advance(0.25)
}
