package app

import (
	"context"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/debugserver"
	"github.com/decker502/arena/pkg/session"
	"github.com/decker502/arena/pkg/types"
)

// ArenaScene 一局游戏：持有会话，把输入转换为会话操作
type ArenaScene struct {
	app     *App
	session *session.Session
	hud     *hud
	level   string

	selectedSlot int
	lastPhase    string
	lastWave     int

	cancelDebug context.CancelFunc
}

// newArenaScene 创建会话并开始关卡
func newArenaScene(a *App, level, class string) (*ArenaScene, error) {
	s, err := session.New(a.content, session.Options{
		Class:    class,
		Relics:   a.cfg.Relics,
		Seed:     a.cfg.Seed,
		Progress: a.progress,
	})
	if err != nil {
		return nil, fmt.Errorf("会话创建失败: %w", err)
	}
	if err := s.StartLevel(level); err != nil {
		s.Close()
		return nil, err
	}

	scene := &ArenaScene{
		app:     a,
		session: s,
		hud:     newHUD(),
		level:   level,
	}

	if a.cfg.DebugAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		scene.cancelDebug = cancel
		go func() {
			if err := debugserver.ListenAndServe(ctx, a.cfg.DebugAddr, s); err != nil {
				log.Printf("[ArenaScene] ERROR: debug server stopped: %v", err)
			}
		}()
	}

	log.Printf("[ArenaScene] Started level %s as %s (session %s)", level, s.Class(), s.ID())
	return scene, nil
}

// Update 处理输入并推进会话
func (s *ArenaScene) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		// 切换场景会关闭本场景，之后不能再访问会话
		s.app.showMenu()
		return
	}

	s.handleInput()
	s.session.Update(deltaTime)
	s.playCues()
}

// handleInput 键盘移动、数字键选择法术槽、鼠标施法、N 进入下一波、R 重开
func (s *ArenaScene) handleInput() {
	s.session.SetMoveInput(moveDirection(ebiten.IsKeyPressed))

	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if inpututil.IsKeyJustPressed(key) {
			s.selectedSlot = i
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		x, y := ebiten.CursorPosition()
		if err := s.session.Cast(s.selectedSlot, screenToWorld(x, y)); err != nil {
			log.Printf("[ArenaScene] Cast rejected: %v", err)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := s.session.NextWave(); err != nil {
			log.Printf("[ArenaScene] NextWave rejected: %v", err)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := s.session.StartLevel(s.level); err != nil {
			log.Printf("[ArenaScene] ERROR: restart failed: %v", err)
		}
	}
}

// playCues 根据快照变化播放提示音
func (s *ArenaScene) playCues() {
	snap := s.session.Snapshot()
	if snap.Phase != s.lastPhase || snap.Wave != s.lastWave {
		s.app.sounds.play(cueFor(snap.Phase, snap.PlayerWon))
	}
	s.lastPhase, s.lastWave = snap.Phase, snap.Wave
}

// Draw 绘制场地和状态栏
func (s *ArenaScene) Draw(screen *ebiten.Image) {
	snap := s.session.Snapshot()
	drawArena(screen, s.app.content.Arena, snap)
	s.hud.draw(screen, snap, s.selectedSlot, s.app.arenaHeight())
}

// Close 停止调试服务器并关闭会话
func (s *ArenaScene) Close() {
	if s.cancelDebug != nil {
		s.cancelDebug()
	}
	s.session.Close()
}

// moveDirection 根据按键状态计算移动方向（WASD 和方向键）
func moveDirection(pressed func(ebiten.Key) bool) types.Vec2 {
	var dir types.Vec2
	if pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp) {
		dir.Y--
	}
	if pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown) {
		dir.Y++
	}
	if pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	return dir
}

// screenToWorld 屏幕像素坐标转世界坐标
func screenToWorld(x, y int) types.Vec2 {
	return types.V(float64(x)/config.PixelsPerUnit, float64(y)/config.PixelsPerUnit)
}

// worldToScreen 世界坐标转屏幕像素坐标
func worldToScreen(p types.Vec2) (float32, float32) {
	return float32(p.X * config.PixelsPerUnit), float32(p.Y * config.PixelsPerUnit)
}
