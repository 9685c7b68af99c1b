package app

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MenuScene 关卡和职业选择
// 上下键选择关卡，左右键切换职业，回车开始
type MenuScene struct {
	app     *App
	hud     *hud
	levels  []string
	classes []string
	level   int
	class   int
}

func newMenuScene(a *App, lastLevel, lastClass string) *MenuScene {
	m := &MenuScene{app: a, hud: newHUD(), classes: a.content.Classes.Names()}
	for _, l := range a.content.Levels.Levels {
		m.levels = append(m.levels, l.Name)
	}
	m.level = max(slices.Index(m.levels, lastLevel), 0)
	m.class = max(slices.Index(m.classes, lastClass), 0)
	return m
}

// Update 处理菜单按键
func (m *MenuScene) Update(deltaTime float64) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp), inpututil.IsKeyJustPressed(ebiten.KeyW):
		m.moveLevel(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown), inpututil.IsKeyJustPressed(ebiten.KeyS):
		m.moveLevel(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft), inpututil.IsKeyJustPressed(ebiten.KeyA):
		m.moveClass(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyD):
		m.moveClass(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		level, class := m.selection()
		m.app.startLevel(level, class)
	}
}

func (m *MenuScene) moveLevel(d int) {
	m.level = wrap(m.level+d, len(m.levels))
}

func (m *MenuScene) moveClass(d int) {
	m.class = wrap(m.class+d, len(m.classes))
}

// selection 当前选中的关卡和职业
func (m *MenuScene) selection() (string, string) {
	return m.levels[m.level], m.classes[m.class]
}

// Draw 绘制关卡列表和当前职业的历史进度
func (m *MenuScene) Draw(screen *ebiten.Image) {
	_, class := m.selection()
	progress := m.app.progress.Get(class)

	y := 40
	m.hud.drawText(screen, "ARENA - choose a level", 40, y, hudHighlight)
	y += 2 * hudLineHeight
	m.hud.drawText(screen, fmt.Sprintf("< class: %s >", class), 40, y, hudText)
	y += 2 * hudLineHeight

	for i, name := range m.levels {
		clr := hudText
		prefix := "  "
		if i == m.level {
			clr, prefix = hudHighlight, "> "
		}
		line := prefix + name
		if best := progress.BestWave[name]; best > 0 {
			line += fmt.Sprintf("   best wave %d", best)
		}
		if slices.Contains(progress.LevelsWon, name) {
			line += "   WON"
		}
		m.hud.drawText(screen, line, 40, y, clr)
		y += hudLineHeight
	}

	y += hudLineHeight
	m.hud.drawText(screen, fmt.Sprintf("waves completed: %d", progress.TotalWavesCompleted), 40, y, hudText)
	m.hud.drawText(screen, "Enter: start   Esc in game: back to this menu   F11: fullscreen", 40, screen.Bounds().Dy()-30, hudText)
}

// wrap 循环索引
func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
