package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/session"
	"github.com/decker502/arena/pkg/types"
)

// 终端字符高约为宽的两倍，纵向每个字符对应两个世界单位
const (
	cellsPerUnitX = 1.0
	cellsPerUnitY = 0.5
)

var (
	styleDefault    = tcell.StyleDefault
	styleWall       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleObstacle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleDoorClosed = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleDoorOpen   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePlayer     = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHighlight  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// enemyGlyphs 按敌人 sprite 编号选择字符和颜色
var enemyGlyphs = []struct {
	r     rune
	style tcell.Style
}{
	{'z', tcell.StyleDefault.Foreground(tcell.ColorGreen)},
	{'s', tcell.StyleDefault.Foreground(tcell.ColorWhite)},
	{'w', tcell.StyleDefault.Foreground(tcell.ColorPurple)},
	{'G', tcell.StyleDefault.Foreground(tcell.ColorSandyBrown)},
}

func worldToCell(p types.Vec2) (int, int) {
	return int(p.X * cellsPerUnitX), int(p.Y * cellsPerUnitY)
}

func cellToWorld(x, y int) types.Vec2 {
	return types.V((float64(x)+0.5)/cellsPerUnitX, (float64(y)+0.5)/cellsPerUnitY)
}

func (t *Terminal) draw() {
	snap := t.session.Snapshot()
	t.screen.Clear()

	arena := t.content.Arena
	w, h := worldToCell(types.V(arena.Bounds.Width, arena.Bounds.Height))
	for x := 0; x <= w; x++ {
		t.screen.SetContent(x, h, '─', nil, styleWall)
	}
	for y := 0; y < h; y++ {
		t.screen.SetContent(w, y, '│', nil, styleWall)
	}

	for _, o := range arena.Obstacles {
		x, y := worldToCell(o.Position)
		t.screen.SetContent(x, y, '#', nil, styleObstacle)
	}
	for _, d := range snap.Doors {
		x, y := worldToCell(d.Position)
		if d.Open {
			t.screen.SetContent(x, y, '○', nil, styleDoorOpen)
		} else {
			t.screen.SetContent(x, y, '█', nil, styleDoorClosed)
		}
	}
	for _, p := range snap.Projectiles {
		x, y := worldToCell(p.Position)
		t.screen.SetContent(x, y, '*', nil, styleProjectile)
	}
	for _, e := range snap.Enemies {
		g := enemyGlyphs[((e.Sprite%len(enemyGlyphs))+len(enemyGlyphs))%len(enemyGlyphs)]
		x, y := worldToCell(e.Position)
		t.screen.SetContent(x, y, g.r, nil, g.style)
	}
	x, y := worldToCell(snap.Player.Position)
	t.screen.SetContent(x, y, '@', nil, stylePlayer)

	row := h + 1
	for _, line := range statusLines(snap) {
		t.drawText(0, row, line, styleDefault)
		row++
	}
	for _, slot := range snap.Spells {
		style := styleDefault
		if slot.Slot == t.selected {
			style = styleHighlight
		}
		t.drawText(0, row, slotLabel(slot), style)
		row++
	}
	if banner := banner(snap); banner != "" {
		t.drawText(max(w/2-len(banner)/2, 0), h/2, banner, styleHighlight)
	}

	t.screen.Show()
}

func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func statusLines(snap session.Snapshot) []string {
	wave := fmt.Sprintf("wave %d", snap.Wave)
	if !snap.Endless {
		wave = fmt.Sprintf("wave %d/%d", snap.Wave, snap.TotalWaves)
	}
	lines := []string{
		fmt.Sprintf("%s  %s  %s  enemies:%d", snap.Level, wave, snap.Phase, snap.EnemyCount),
		fmt.Sprintf("HP %d/%d  mana %d/%d  power %d  class %s", snap.Player.HP, snap.Player.MaxHP,
			snap.Player.Mana, snap.Player.MaxMana, snap.Player.SpellPower, snap.Class),
	}
	if len(snap.Relics) > 0 {
		lines = append(lines, "relics: "+strings.Join(snap.Relics, ", "))
	}
	return lines
}

func slotLabel(slot session.SpellSlotSnapshot) string {
	label := fmt.Sprintf("[%d] %s (%d mana)", slot.Slot+1, slot.Spell, slot.ManaCost)
	if len(slot.Modifiers) > 0 {
		label += " +" + strings.Join(slot.Modifiers, "+")
	}
	if slot.CooldownRemaining > 0 {
		label += fmt.Sprintf(" %.1fs", slot.CooldownRemaining)
	}
	return label
}

func banner(snap session.Snapshot) string {
	switch {
	case snap.PlayerWon:
		return " VICTORY - R to play again "
	case snap.PlayerDead:
		return " DEFEATED - R to retry "
	case snap.Phase == game.PhaseCountdown.String():
		return fmt.Sprintf(" wave %d in %d ", snap.Wave, snap.Countdown)
	case snap.Phase == game.PhaseWaveEnd.String():
		return " wave cleared - N for next wave "
	default:
		return ""
	}
}
