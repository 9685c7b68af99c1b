package main

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/decker502/arena/pkg/game"
)

const sampleRate = beep.SampleRate(44100)

// cuePlayer 通过扬声器播放提示音
// 音频初始化失败不是致命错误，此时 play 为空操作
type cuePlayer struct {
	ready  bool
	volume float64 // 以 2 为底的对数音量
	silent bool
}

func newCuePlayer(settings game.Settings) *cuePlayer {
	p := &cuePlayer{silent: !settings.SoundEnabled || settings.SoundVolume <= 0}
	if p.silent {
		return p
	}
	p.volume = math.Log2(settings.SoundVolume)

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Sound] Warning: audio initialization failed: %v (running without sound)", err)
		return p
	}
	p.ready = true
	return p
}

func (p *cuePlayer) play(c game.Cue) {
	if !p.ready || p.silent {
		return
	}
	tone, ok := game.ToneFor(c)
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, tone.Frequency)
	if err != nil {
		log.Printf("[Sound] ERROR: failed to create tone %.0fHz: %v", tone.Frequency, err)
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(tone.Duration), sine),
		Base:     2,
		Volume:   p.volume,
	})
}

func (p *cuePlayer) close() {
	if p.ready {
		speaker.Clear()
	}
}
