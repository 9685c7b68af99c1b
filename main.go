package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/arena/pkg/app"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/embedded"
	"github.com/decker502/arena/pkg/game"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	level     = flag.String("level", "", "开始的关卡（为空则使用上次的关卡）")
	class     = flag.String("class", "", "玩家职业（为空则使用上次的职业）")
	relics    = flag.String("relics", "", "开局持有的遗物，逗号分隔")
	seed      = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	debugAddr = flag.String("debug-addr", "", "调试服务器监听地址，如 127.0.0.1:8080")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)
	content, err := config.LoadContent(embedded.ReadFile, "data")
	if err != nil {
		fmt.Fprintf(os.Stderr, "内容加载失败: %v\n", err)
		os.Exit(1)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		Level:     *level,
		Class:     *class,
		Relics:    splitList(*relics),
		Seed:      *seed,
		DebugAddr: *debugAddr,
	}, content, game.OpenStorage(game.AppName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Arena")

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
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
