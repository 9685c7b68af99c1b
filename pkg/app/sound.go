package app

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/arena/pkg/game"
)

// sampleRate 提示音采样率
const sampleRate = 48000

// soundBank 预先生成的提示音
type soundBank struct {
	context *audio.Context
	volume  float64
	enabled bool
	clips   map[game.Cue][]byte
}

func newSoundBank(settings game.Settings) *soundBank {
	b := &soundBank{
		volume:  settings.SoundVolume,
		enabled: settings.SoundEnabled,
		clips:   make(map[game.Cue][]byte),
	}
	if !b.enabled {
		return b
	}

	// audio.Context 每个进程只能创建一个
	b.context = audio.CurrentContext()
	if b.context == nil {
		b.context = audio.NewContext(sampleRate)
	}
	for _, c := range []game.Cue{game.CueCountdown, game.CueWaveStart, game.CueWaveEnd, game.CueVictory, game.CueDefeat} {
		if tone, ok := game.ToneFor(c); ok {
			b.clips[c] = sineClip(tone)
		}
	}
	return b
}

// play 播放提示音，失败只记录日志
func (b *soundBank) play(c game.Cue) {
	if !b.enabled || b.context == nil {
		return
	}
	clip, ok := b.clips[c]
	if !ok {
		return
	}
	p := b.context.NewPlayerFromBytes(clip)
	p.SetVolume(b.volume)
	p.Play()
	log.Printf("[Sound] Playing cue %d", c)
}

// sineClip 生成 16 位立体声正弦波 PCM，首尾做淡入淡出避免爆音
func sineClip(tone game.Tone) []byte {
	n := int(tone.Duration.Seconds() * sampleRate)
	fade := sampleRate / 100
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		amp := 0.3
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if n-i < fade {
			amp *= float64(n-i) / float64(fade)
		}
		v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*tone.Frequency*float64(i)/sampleRate))
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}

// cueFor 快照阶段名称对应的提示音
func cueFor(phase string, playerWon bool) game.Cue {
	p, ok := game.ParsePhase(phase)
	if !ok {
		return game.CueNone
	}
	return game.CueForPhase(p, playerWon)
}
