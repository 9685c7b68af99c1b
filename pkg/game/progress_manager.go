package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ClassProgress 某个职业的历史进度
type ClassProgress struct {
	// BestWave 每个关卡达到过的最高波次
	BestWave map[string]int `yaml:"bestWave"`
	// TotalWavesCompleted 累计完成的波次数
	TotalWavesCompleted int `yaml:"totalWavesCompleted"`
	// LevelsWon 胜利过的关卡
	LevelsWon []string `yaml:"levelsWon"`
	// LastSessionID 最近一次写入的会话
	LastSessionID string `yaml:"lastSessionID"`
}

// ProgressManager 玩家进度管理器
// 按职业持久化进度，gdata 不可用时退化为纯内存模式
type ProgressManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	progress     map[string]*ClassProgress
}

// 存储路径常量
const progressObject = "progress"

// NewProgressManager 创建进度管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存进度）
func NewProgressManager(gdataManager *gdata.Manager) *ProgressManager {
	return &ProgressManager{
		gdataManager: gdataManager,
		progress:     make(map[string]*ClassProgress),
	}
}

// Get 返回职业的进度，首次访问时从存储加载
// 加载失败不是致命错误：记录警告并从空进度开始
func (pm *ProgressManager) Get(class string) *ClassProgress {
	if p, ok := pm.progress[class]; ok {
		return p
	}

	p, err := pm.load(class)
	if err != nil {
		log.Printf("[ProgressManager] Warning: Failed to load progress for %s: %v (starting fresh)", class, err)
		p = newClassProgress()
	}
	pm.progress[class] = p
	return p
}

func newClassProgress() *ClassProgress {
	return &ClassProgress{BestWave: make(map[string]int)}
}

func (pm *ProgressManager) load(class string) (*ClassProgress, error) {
	if pm.gdataManager == nil || !pm.gdataManager.ObjectPropExists(progressObject, class) {
		return newClassProgress(), nil
	}

	data, err := pm.gdataManager.LoadObjectProp(progressObject, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	var p ClassProgress
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	if p.BestWave == nil {
		p.BestWave = make(map[string]int)
	}
	return &p, nil
}

// RecordWaveCompleted 记录一波完成
func (pm *ProgressManager) RecordWaveCompleted(class, level string, wave int, sessionID string) {
	p := pm.Get(class)
	p.TotalWavesCompleted++
	if wave > p.BestWave[level] {
		p.BestWave[level] = wave
	}
	p.LastSessionID = sessionID
}

// RecordLevelWon 记录关卡胜利
func (pm *ProgressManager) RecordLevelWon(class, level string, sessionID string) {
	p := pm.Get(class)
	p.LastSessionID = sessionID
	for _, won := range p.LevelsWon {
		if won == level {
			return
		}
	}
	p.LevelsWon = append(p.LevelsWon, level)
	sort.Strings(p.LevelsWon)
}

// Save 保存职业进度
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (pm *ProgressManager) Save(class string) error {
	if pm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.Get(class))
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := pm.gdataManager.SaveObjectProp(progressObject, class, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	log.Printf("[ProgressManager] Progress saved for %s", class)
	return nil
}

// IsPersistent 是否能持久化进度
func (pm *ProgressManager) IsPersistent() bool {
	return pm.gdataManager != nil
}
