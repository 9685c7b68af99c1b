// arena-term 终端宿主
//
// WASD/方向键移动，1-4 选择法术槽，鼠标左键向点击位置施法，F 向最近的敌人施法，
// N 进入下一波，R 重开，Esc/Ctrl+C 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/game"
	"github.com/decker502/arena/pkg/session"
	"github.com/decker502/arena/pkg/types"
)

var (
	dataDir = flag.String("data", "data", "内容目录")
	level   = flag.String("level", "", "开始的关卡（为空则使用上次的关卡）")
	class   = flag.String("class", "", "玩家职业（为空则使用上次的职业）")
	relics  = flag.String("relics", "", "开局持有的遗物，逗号分隔")
	seed    = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	logFile = flag.String("log", "", "日志文件（终端界面运行时不能输出到屏幕）")
)

// moveHold 终端没有按键抬起事件，一次按键保持移动的时长（秒）
const moveHold = 0.25

// Terminal 终端宿主
type Terminal struct {
	screen   tcell.Screen
	session  *session.Session
	content  *config.Content
	settings *game.SettingsManager
	sounds   *cuePlayer

	level     string
	selected  int
	moveDir   types.Vec2
	moveTimer float64
	lastPhase string
	quit      bool
}

func main() {
	flag.Parse()
	setupLogging(*logFile)

	content, err := config.LoadContent(os.ReadFile, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "内容加载失败: %v\n", err)
		os.Exit(1)
	}

	term, err := newTerminal(content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	term.run()
}

func setupLogging(path string) {
	if path == "" {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法打开日志文件: %v\n", err)
		os.Exit(1)
	}
	log.SetOutput(f)
}

func newTerminal(content *config.Content) (*Terminal, error) {
	storage := game.OpenStorage(game.AppName)
	settings := game.NewSettingsManager(storage)
	prefs := settings.Get()

	name := *class
	if name == "" {
		name = prefs.Class
	}
	s, err := session.New(content, session.Options{
		Class:    name,
		Relics:   splitList(*relics),
		Seed:     *seed,
		Progress: game.NewProgressManager(storage),
	})
	if err != nil {
		return nil, err
	}

	lvl := *level
	if lvl == "" {
		lvl = prefs.LastLevel
	}
	if _, ok := content.Levels.Get(lvl); !ok {
		lvl = content.Levels.Levels[0].Name
	}
	if err := s.StartLevel(lvl); err != nil {
		s.Close()
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		s.Close()
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	settings.Update(func(p *game.Settings) {
		p.Class = s.Class()
		p.LastLevel = lvl
	})
	if err := settings.Save(); err != nil {
		log.Printf("[Terminal] Warning: failed to save settings: %v", err)
	}

	return &Terminal{
		screen:   screen,
		session:  s,
		content:  content,
		settings: settings,
		sounds:   newCuePlayer(prefs),
		level:    lvl,
	}, nil
}

// run 主循环：事件在单独的协程读取，会话只在本协程推进
func (t *Terminal) run() {
	defer t.close()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := 1.0 / config.TicksPerSecond
	ticker := time.NewTicker(time.Second / config.TicksPerSecond)
	defer ticker.Stop()

	for !t.quit {
		select {
		case ev := <-events:
			t.handleEvent(ev)
		case <-ticker.C:
			t.step(dt)
			t.draw()
		}
	}
}

func (t *Terminal) step(dt float64) {
	if t.moveTimer > 0 {
		t.moveTimer -= dt
		if t.moveTimer <= 0 {
			t.moveDir = types.Vec2{}
		}
	}
	t.session.SetMoveInput(t.moveDir)
	t.session.Update(dt)

	snap := t.session.Snapshot()
	if snap.Phase != t.lastPhase {
		if p, ok := game.ParsePhase(snap.Phase); ok {
			t.sounds.play(game.CueForPhase(p, snap.PlayerWon))
		}
		t.lastPhase = snap.Phase
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			t.cast(cellToWorld(x, y))
		}
	case *tcell.EventKey:
		t.handleKey(ev)
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return
	case tcell.KeyUp:
		t.hold(types.V(0, -1))
	case tcell.KeyDown:
		t.hold(types.V(0, 1))
	case tcell.KeyLeft:
		t.hold(types.V(-1, 0))
	case tcell.KeyRight:
		t.hold(types.V(1, 0))
	case tcell.KeyRune:
		t.handleRune(ev.Rune())
	}
}

func (t *Terminal) handleRune(r rune) {
	switch r {
	case 'w', 'W':
		t.hold(types.V(0, -1))
	case 's', 'S':
		t.hold(types.V(0, 1))
	case 'a', 'A':
		t.hold(types.V(-1, 0))
	case 'd', 'D':
		t.hold(types.V(1, 0))
	case '1', '2', '3', '4':
		t.selected = int(r - '1')
	case 'f', 'F':
		if target, ok := nearestEnemy(t.session.Snapshot()); ok {
			t.cast(target)
		}
	case 'n', 'N':
		if err := t.session.NextWave(); err != nil {
			log.Printf("[Terminal] NextWave rejected: %v", err)
		}
	case 'r', 'R':
		if err := t.session.StartLevel(t.level); err != nil {
			log.Printf("[Terminal] ERROR: restart failed: %v", err)
		}
	case 'q', 'Q':
		t.quit = true
	}
}

func (t *Terminal) hold(dir types.Vec2) {
	t.moveDir = dir
	t.moveTimer = moveHold
}

func (t *Terminal) cast(target types.Vec2) {
	if err := t.session.Cast(t.selected, target); err != nil {
		log.Printf("[Terminal] Cast rejected: %v", err)
	}
}

func (t *Terminal) close() {
	t.screen.Fini()
	t.sounds.close()
	t.session.Close()
}

func nearestEnemy(snap session.Snapshot) (types.Vec2, bool) {
	best, found := types.Vec2{}, false
	bestDist := 0.0
	for _, e := range snap.Enemies {
		if d := e.Position.Dist(snap.Player.Position); !found || d < bestDist {
			best, bestDist, found = e.Position, d, true
		}
	}
	return best, found
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
