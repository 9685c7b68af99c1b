// Package app 提供图形界面宿主
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/game"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要开始的关卡，为空则显示关卡选择界面
	Level string
	// Class 玩家职业，为空则使用上次的职业
	Class string
	// Relics 开局持有的遗物
	Relics []string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// DebugAddr 调试服务器监听地址，为空则不启动
	DebugAddr string
}

// App 图形宿主，实现 ebiten.Game 接口
type App struct {
	cfg          Config
	content      *config.Content
	settings     *game.SettingsManager
	progress     *game.ProgressManager
	sounds       *soundBank
	sceneManager *SceneManager

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 参数：
//   - cfg: 启动配置
//   - content: 已加载的内容配置
//   - storage: 设置和进度存储，可为 nil（降级模式）
//
// 指定了关卡时直接进入竞技场，否则显示关卡选择界面
func NewApp(cfg Config, content *config.Content, storage *gdata.Manager) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := game.NewSettingsManager(storage)
	prefs := settings.Get()
	if prefs.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	a := &App{
		cfg:          cfg,
		content:      content,
		settings:     settings,
		progress:     game.NewProgressManager(storage),
		sounds:       newSoundBank(prefs),
		sceneManager: NewSceneManager(),
	}
	a.sceneManager.SetSceneFactory(func(level, class string) (Scene, error) {
		scene, err := newArenaScene(a, level, class)
		if err != nil {
			return nil, err
		}
		return scene, nil
	})

	class := cfg.Class
	if class == "" {
		class = prefs.Class
	}

	if cfg.Level != "" {
		if err := a.sceneManager.LoadLevel(cfg.Level, class); err != nil {
			return nil, fmt.Errorf("关卡 %s 启动失败: %w", cfg.Level, err)
		}
		return a, nil
	}

	a.showMenu()
	return a, nil
}

// showMenu 切换到关卡选择界面，默认选中上次的关卡和职业
func (a *App) showMenu() {
	prefs := a.settings.Get()
	class := a.cfg.Class
	if class == "" {
		class = prefs.Class
	}
	a.sceneManager.SwitchTo(newMenuScene(a, prefs.LastLevel, class))
}

// startLevel 从菜单进入竞技场，并记住选择
func (a *App) startLevel(level, class string) {
	if err := a.sceneManager.LoadLevel(level, class); err != nil {
		log.Printf("[App] ERROR: %v", err)
		return
	}
	a.settings.Update(func(p *game.Settings) {
		p.Class = class
		p.LastLevel = level
	})
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.Layout(0, 0))
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(1.0 / config.TicksPerSecond)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	}
	a.settings.Update(func(p *game.Settings) { p.Fullscreen = fullscreen })
	a.saveSettings()
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸：场地加状态栏
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := int(a.content.Arena.Bounds.Width * config.PixelsPerUnit)
	return w, a.arenaHeight() + config.HUDHeight
}

func (a *App) arenaHeight() int {
	return int(a.content.Arena.Bounds.Height * config.PixelsPerUnit)
}

// Close 关闭当前场景（会话和调试服务器）
func (a *App) Close() {
	a.sceneManager.Close()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.cfg.Verbose
}
