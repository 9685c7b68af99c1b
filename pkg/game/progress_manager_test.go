package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("Cannot create gdata manager for testing: %v", err)
	}
	return manager
}

// TestProgressManager_Degraded 测试 gdataManager 为 nil 时的降级行为
func TestProgressManager_Degraded(t *testing.T) {
	pm := NewProgressManager(nil)
	if pm.IsPersistent() {
		t.Error("Expected non-persistent manager")
	}

	pm.RecordWaveCompleted("mage", "Easy", 3, "s1")
	pm.RecordWaveCompleted("mage", "Easy", 2, "s1")
	pm.RecordLevelWon("mage", "Easy", "s1")
	pm.RecordLevelWon("mage", "Easy", "s1")

	if err := pm.Save("mage"); err != nil {
		t.Fatalf("Save in degraded mode should not fail: %v", err)
	}

	p := pm.Get("mage")
	if p.BestWave["Easy"] != 3 {
		t.Errorf("BestWave[Easy] = %d, want 3", p.BestWave["Easy"])
	}
	if p.TotalWavesCompleted != 2 {
		t.Errorf("TotalWavesCompleted = %d, want 2", p.TotalWavesCompleted)
	}
	if len(p.LevelsWon) != 1 {
		t.Errorf("LevelsWon = %v, want one entry", p.LevelsWon)
	}
	if other := pm.Get("warlock"); other.TotalWavesCompleted != 0 {
		t.Error("Progress should be tracked per class")
	}
}

// TestProgressManager_SaveLoad 测试进度持久化
func TestProgressManager_SaveLoad(t *testing.T) {
	manager := createTestGdataManager(t, "test_arena_progress")

	pm1 := NewProgressManager(manager)
	pm1.RecordWaveCompleted("warlock", "Medium", 7, "session-a")
	pm1.RecordLevelWon("warlock", "Easy", "session-a")
	if err := pm1.Save("warlock"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	pm2 := NewProgressManager(manager)
	p := pm2.Get("warlock")
	if p.BestWave["Medium"] != 7 || p.TotalWavesCompleted != 1 {
		t.Errorf("Loaded progress mismatch: %+v", p)
	}
	if len(p.LevelsWon) != 1 || p.LevelsWon[0] != "Easy" {
		t.Errorf("LevelsWon = %v, want [Easy]", p.LevelsWon)
	}
	if p.LastSessionID != "session-a" {
		t.Errorf("LastSessionID = %q, want session-a", p.LastSessionID)
	}
}
