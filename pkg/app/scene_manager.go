package app

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 创建指定关卡和职业的竞技场场景
type SceneFactory func(level, class string) (Scene, error)

// SceneManager 管理当前活动的场景
// 任意时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到新场景，被替换的场景如果实现了 Closer 会被关闭
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if c, ok := sm.currentScene.(Closer); ok {
		c.Close()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 通过工厂创建关卡场景并切换过去
// 创建失败时保留当前场景
func (sm *SceneManager) LoadLevel(level, class string) error {
	log.Printf("[SceneManager] Loading level %s (class=%s)", level, class)

	if sm.sceneFactory == nil {
		return fmt.Errorf("load level %s: scene factory not set", level)
	}
	scene, err := sm.sceneFactory(level, class)
	if err != nil {
		log.Printf("[SceneManager] ERROR: failed to create scene for %s: %v", level, err)
		return fmt.Errorf("load level %s: %w", level, err)
	}
	sm.SwitchTo(scene)
	return nil
}

// Update 推进当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景
func (sm *SceneManager) Close() {
	sm.SwitchTo(nil)
}
