// verify_waves 无界面验证程序
//
// 默认模式：自动驾驶玩家（向最近的敌人施法，清场后进入下一波），
// 以模拟时间快速推进关卡并打印每一波的摘要。
// -serve 模式：以实时速度运行会话并启动调试服务器，直到 Ctrl+C。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/debugserver"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/session"
	"github.com/decker502/arena/pkg/types"
)

var (
	dataDir   = flag.String("data", "data", "内容目录")
	level     = flag.String("level", "Easy", "关卡名称")
	class     = flag.String("class", "", "玩家职业")
	relics    = flag.String("relics", "", "开局持有的遗物，逗号分隔")
	seed      = flag.Int64("seed", 1, "随机种子")
	maxWaves  = flag.Int("waves", 10, "最多模拟的波数")
	timeLimit = flag.Duration("limit", 30*time.Minute, "最长模拟时间（模拟时钟）")
	serve     = flag.Bool("serve", false, "实时运行并启动调试服务器")
	debugAddr = flag.String("debug-addr", "127.0.0.1:8080", "-serve 模式的监听地址")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	content, err := config.LoadContent(os.ReadFile, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "内容加载失败: %v\n", err)
		os.Exit(1)
	}

	s, err := session.New(content, session.Options{
		Class:    *class,
		Relics:   splitList(*relics),
		Seed:     *seed,
		Progress: game.NewProgressManager(nil),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "会话创建失败: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := s.StartLevel(*level); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *serve {
		runServer(s)
		return
	}

	summary := simulate(s, *maxWaves, timeLimit.Seconds())
	fmt.Print(summary)
	if snap := s.Snapshot(); snap.PlayerDead {
		os.Exit(2)
	}
}

// runServer 实时推进会话并提供调试接口
func runServer(s *session.Session) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go s.Run(ctx, time.Second/config.TicksPerSecond)
	fmt.Printf("会话 %s 已启动，调试接口 http://%s/state\n", s.ID(), *debugAddr)
	if err := debugserver.ListenAndServe(ctx, *debugAddr, s); err != nil {
		fmt.Fprintf(os.Stderr, "调试服务器错误: %v\n", err)
		os.Exit(1)
	}
}

// waveRecord 一波的统计
type waveRecord struct {
	wave     int
	spawned  int
	duration float64
	hpAfter  int
}

// simulate 以固定步长推进，直到胜利、失败、达到波数上限或超时
func simulate(s *session.Session, maxWaves int, limit float64) string {
	const dt = 1.0 / config.TicksPerSecond

	var (
		records   []waveRecord
		clock     float64
		waveStart float64
		lastPhase string
	)

	for clock < limit {
		autopilot(s)
		s.Update(dt)
		clock += dt

		snap := s.Snapshot()
		if snap.Phase != lastPhase {
			switch snap.Phase {
			case game.PhaseCountdown.String():
				waveStart = clock
			case game.PhaseWaveEnd.String(), game.PhaseGameOver.String():
				if !snap.PlayerDead {
					records = append(records, waveRecord{
						wave:     snap.WavesCompleted + boolInt(snap.PlayerWon),
						spawned:  snap.LastWaveEnemyCount,
						duration: clock - waveStart,
						hpAfter:  snap.Player.HP,
					})
				}
			}
			lastPhase = snap.Phase
		}

		if snap.Phase == game.PhaseGameOver.String() || len(records) >= maxWaves {
			break
		}
	}

	return formatSummary(s.Snapshot(), records, clock)
}

// autopilot 向最近的敌人施法；两波之间进入下一波
func autopilot(s *session.Session) {
	snap := s.Snapshot()
	switch snap.Phase {
	case game.PhaseWaveEnd.String():
		if err := s.NextWave(); err != nil {
			log.Printf("[verify] NextWave: %v", err)
		}
		return
	case game.PhaseInWave.String():
	default:
		return
	}

	target, ok := nearestEnemy(snap)
	if !ok {
		return
	}
	for _, slot := range snap.Spells {
		if slot.CooldownRemaining <= 0 && slot.ManaCost <= snap.Player.Mana {
			if err := s.Cast(slot.Slot, target); err == nil {
				return
			}
		}
	}
}

func nearestEnemy(snap session.Snapshot) (types.Vec2, bool) {
	best, found := types.Vec2{}, false
	bestDist := 0.0
	for _, e := range snap.Enemies {
		d := e.Position.Dist(snap.Player.Position)
		if !found || d < bestDist {
			best, bestDist, found = e.Position, d, true
		}
	}
	return best, found
}

func formatSummary(snap session.Snapshot, records []waveRecord, clock float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "会话 %s  关卡 %s  职业 %s\n", snap.SessionID, snap.Level, snap.Class)
	fmt.Fprintf(&b, "%-6s %-8s %-10s %-8s\n", "波次", "生成数", "用时(秒)", "剩余血量")
	for _, r := range records {
		fmt.Fprintf(&b, "%-6d %-8d %-10.1f %-8d\n", r.wave, r.spawned, r.duration, r.hpAfter)
	}

	switch {
	case snap.PlayerWon:
		fmt.Fprintf(&b, "结果: 胜利（%.0f 秒）\n", clock)
	case snap.PlayerDead:
		fmt.Fprintf(&b, "结果: 失败，第 %d 波（%.0f 秒）\n", snap.Wave, clock)
	default:
		fmt.Fprintf(&b, "结果: 已完成 %d 波，停在第 %d 波 %s（%.0f 秒）\n", snap.WavesCompleted, snap.Wave, snap.Phase, clock)
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// splitList 解析逗号分隔的列表，忽略空项
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
