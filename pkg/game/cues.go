package game

import "time"

// Cue 宿主播放的提示音
type Cue int

const (
	CueNone Cue = iota
	CueCountdown
	CueWaveStart
	CueWaveEnd
	CueVictory
	CueDefeat
)

// Tone 提示音参数
type Tone struct {
	Frequency float64       // 频率（Hz）
	Duration  time.Duration // 时长
}

var cueTones = map[Cue]Tone{
	CueCountdown: {Frequency: 440, Duration: 120 * time.Millisecond},
	CueWaveStart: {Frequency: 660, Duration: 250 * time.Millisecond},
	CueWaveEnd:   {Frequency: 523.25, Duration: 300 * time.Millisecond},
	CueVictory:   {Frequency: 880, Duration: 600 * time.Millisecond},
	CueDefeat:    {Frequency: 196, Duration: 600 * time.Millisecond},
}

// CueForPhase 进入某个对局阶段时应播放的提示音
func CueForPhase(p Phase, playerWon bool) Cue {
	switch p {
	case PhaseCountdown:
		return CueCountdown
	case PhaseInWave:
		return CueWaveStart
	case PhaseWaveEnd:
		return CueWaveEnd
	case PhaseGameOver:
		if playerWon {
			return CueVictory
		}
		return CueDefeat
	default:
		return CueNone
	}
}

// ToneFor 返回提示音参数，CueNone 返回 false
func ToneFor(c Cue) (Tone, bool) {
	t, ok := cueTones[c]
	return t, ok
}

// ParsePhase 将快照中的阶段名称还原为 Phase
func ParsePhase(name string) (Phase, bool) {
	for p := PhasePregame; p <= PhaseGameOver; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return PhasePregame, false
}
