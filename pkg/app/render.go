package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/session"
)

var (
	backgroundColor = color.RGBA{R: 24, G: 28, B: 36, A: 255}
	obstacleColor   = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	doorClosedColor = color.RGBA{R: 160, G: 110, B: 60, A: 255}
	doorOpenColor   = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	playerColor     = color.RGBA{R: 90, G: 160, B: 255, A: 255}
	healthBarColor  = color.RGBA{R: 220, G: 60, B: 60, A: 255}
)

// enemyPalette 按敌人 sprite 编号着色
var enemyPalette = []color.RGBA{
	{R: 110, G: 170, B: 80, A: 255},  // zombie
	{R: 220, G: 220, B: 200, A: 255}, // skeleton
	{R: 170, G: 80, B: 200, A: 255},  // warlock
	{R: 150, G: 120, B: 90, A: 255},  // golem
}

// projectilePalette 按法术 sprite 编号着色
var projectilePalette = []color.RGBA{
	{R: 150, G: 200, B: 255, A: 255},
	{R: 255, G: 240, B: 120, A: 255},
	{R: 255, G: 140, B: 60, A: 255},
}

func paletteColor(p []color.RGBA, i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// drawArena 绘制障碍物、门、敌人、投射物和玩家
func drawArena(screen *ebiten.Image, arena *config.ArenaConfig, snap session.Snapshot) {
	unit := float32(config.PixelsPerUnit)

	for _, o := range arena.Obstacles {
		x, y := worldToScreen(o.Position)
		vector.DrawFilledCircle(screen, x, y, float32(o.Radius)*unit, obstacleColor, true)
	}

	for _, d := range snap.Doors {
		x, y := worldToScreen(d.Position)
		if d.Open {
			vector.StrokeCircle(screen, x, y, float32(d.Radius)*unit, 2, doorOpenColor, true)
		} else {
			vector.DrawFilledCircle(screen, x, y, float32(d.Radius)*unit, doorClosedColor, true)
		}
	}

	for _, e := range snap.Enemies {
		x, y := worldToScreen(e.Position)
		r := float32(config.UnitRadius) * unit
		vector.DrawFilledCircle(screen, x, y, r, paletteColor(enemyPalette, e.Sprite), true)
		drawHealthBar(screen, x-r, y-r-5, 2*r, e.HP, e.MaxHP)
	}

	for _, p := range snap.Projectiles {
		x, y := worldToScreen(p.Position)
		vector.DrawFilledCircle(screen, x, y, float32(config.ProjectileRadius)*unit, paletteColor(projectilePalette, p.Sprite), true)
	}

	x, y := worldToScreen(snap.Player.Position)
	vector.DrawFilledCircle(screen, x, y, float32(config.UnitRadius)*unit, playerColor, true)
}

// drawHealthBar 在单位上方绘制血条
func drawHealthBar(screen *ebiten.Image, x, y, width float32, hp, maxHP int) {
	if maxHP <= 0 || hp >= maxHP {
		return
	}
	ratio := float32(max(hp, 0)) / float32(maxHP)
	vector.DrawFilledRect(screen, x, y, width, 3, color.RGBA{R: 40, G: 40, B: 40, A: 255}, false)
	vector.DrawFilledRect(screen, x, y, width*ratio, 3, healthBarColor, false)
}
