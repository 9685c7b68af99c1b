//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要先把 data/ 复制到本目录：
//
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.arena -o build/android/arena.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/arena/pkg/app"
	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/embedded"
	"github.com/decker502/arena/pkg/game"
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	content, err := config.LoadContent(embedded.ReadFile, "data")
	if err != nil {
		log.Fatalf("内容加载失败: %v", err)
	}

	// 使用上次的职业和关卡
	gameApp, err := app.NewApp(app.Config{Verbose: true}, content, game.OpenStorage(game.AppName))
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
