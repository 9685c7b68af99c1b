package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/session"
)

// hudLineHeight 状态栏行高（像素）
const hudLineHeight = 15

var (
	hudBackground = color.RGBA{R: 12, G: 14, B: 20, A: 255}
	hudText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	hudHighlight  = color.RGBA{R: 255, G: 220, B: 90, A: 255}
)

// hud 场地下方的状态栏
type hud struct {
	face *text.GoXFace
}

func newHUD() *hud {
	return &hud{face: text.NewGoXFace(basicfont.Face7x13)}
}

func (h *hud) draw(screen *ebiten.Image, snap session.Snapshot, selected int, top int) {
	w := float32(screen.Bounds().Dx())
	vector.DrawFilledRect(screen, 0, float32(top), w, float32(screen.Bounds().Dy()-top), hudBackground, false)

	lines := hudLines(snap)
	for i, line := range lines {
		h.drawText(screen, line, 8, top+4+i*hudLineHeight, hudText)
	}

	x := int(w) / 2
	for _, slot := range snap.Spells {
		clr := hudText
		if slot.Slot == selected {
			clr = hudHighlight
		}
		h.drawText(screen, spellLabel(slot), x, top+4+slot.Slot*hudLineHeight, clr)
	}

	if banner := bannerText(snap); banner != "" {
		h.drawText(screen, banner, int(w)/2-len(banner)*7/2, top/2, hudHighlight)
	}
}

func (h *hud) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}

// hudLines 状态栏左侧的文字
func hudLines(snap session.Snapshot) []string {
	wave := fmt.Sprintf("Wave %d", snap.Wave)
	if !snap.Endless && snap.TotalWaves > 0 {
		wave = fmt.Sprintf("Wave %d/%d", snap.Wave, snap.TotalWaves)
	}
	lines := []string{
		fmt.Sprintf("%s  %s  [%s]  enemies %d", snap.Level, wave, snap.Phase, snap.EnemyCount),
		fmt.Sprintf("HP %d/%d  Mana %d/%d  Power %d", snap.Player.HP, snap.Player.MaxHP, snap.Player.Mana, snap.Player.MaxMana, snap.Player.SpellPower),
	}
	if len(snap.Relics) > 0 {
		lines = append(lines, "Relics: "+strings.Join(snap.Relics, ", "))
	}
	return lines
}

// spellLabel 法术槽文字，冷却中显示剩余秒数
func spellLabel(slot session.SpellSlotSnapshot) string {
	label := fmt.Sprintf("%d %s (%d)", slot.Slot+1, slot.Spell, slot.ManaCost)
	if len(slot.Modifiers) > 0 {
		label += " +" + strings.Join(slot.Modifiers, "+")
	}
	if slot.CooldownRemaining > 0 {
		label += fmt.Sprintf(" %.1fs", slot.CooldownRemaining)
	}
	return label
}

// bannerText 场地中央的提示文字
func bannerText(snap session.Snapshot) string {
	switch {
	case snap.PlayerWon:
		return "VICTORY - press R to play again"
	case snap.PlayerDead:
		return "DEFEATED - press R to retry"
	case snap.Phase == game.PhaseCountdown.String():
		return fmt.Sprintf("Wave %d in %d", snap.Wave, snap.Countdown)
	case snap.Phase == game.PhaseWaveEnd.String():
		return "Wave cleared - press N for the next wave"
	default:
		return ""
	}
}
