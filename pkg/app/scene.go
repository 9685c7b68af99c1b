package app

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 图形宿主的一个场景（关卡选择、竞技场）
type Scene interface {
	// Update 按经过的时间（秒）推进场景
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Closer 可选接口：场景被替换或程序退出时释放资源（会话、调试服务器）
type Closer interface {
	Close()
}
