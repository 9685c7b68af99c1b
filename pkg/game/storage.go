package game

import (
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "arena"

// OpenStorage 打开本地存储
// 失败时返回 nil，调用方以降级模式运行（只在内存中保存设置和进度）
func OpenStorage(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Storage] Warning: Failed to open storage for %s: %v (progress will not be saved)", appName, err)
		return nil
	}
	return manager
}
