package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings 宿主程序的本地设置
// 与进度不同，设置不按职业区分
type Settings struct {
	Class        string  `yaml:"class"`        // 上次选择的职业
	LastLevel    string  `yaml:"lastLevel"`    // 上次开始的关卡
	SoundVolume  float64 `yaml:"soundVolume"`  // 提示音音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 提示音开关
	Fullscreen   bool    `yaml:"fullscreen"`   // 图形界面启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() Settings {
	return Settings{
		SoundVolume:  0.5,
		SoundEnabled: true,
	}
}

// 存储路径
const (
	settingsObject   = "settings"
	settingsProperty = "host"
)

// SettingsManager 设置的加载与保存
// gdataManager 为 nil 时只在内存中保存（降级模式）
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     Settings
}

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
// 加载失败只记录警告，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置，不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	sm.settings = loaded
	return nil
}

// Save 保存设置，降级模式下为空操作
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// Get 当前设置的副本
func (sm *SettingsManager) Get() Settings {
	return sm.settings
}

// Update 修改设置（只修改内存，需调用 Save 持久化）
// 音量会被限制在 0.0 ~ 1.0
func (sm *SettingsManager) Update(fn func(s *Settings)) {
	fn(&sm.settings)
	sm.settings.SoundVolume = clampVolume(sm.settings.SoundVolume)
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
