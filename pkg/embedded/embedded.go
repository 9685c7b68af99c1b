// Package embedded 提供嵌入内容文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让 config 等包可以通过 "data/..." 路径读取内容。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// DataPrefix 内容文件路径前缀
const DataPrefix = "data/"

// ErrNotInitialized 在 Init() 之前访问内容时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	mu          sync.RWMutex
	dataFS      fs.FS
	initialized bool
)

// Init 设置内容文件系统
// 必须在 main() 开始时、任何内容加载之前调用
// 参数 data 通常是根目录 embed.go 中的 embed.FS，测试可以传入 fstest.MapFS
func Init(data fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	dataFS = data
	initialized = data != nil
}

// Reset 清除初始化状态（测试使用）
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return initialized
}

// resolve 标准化路径并返回内容文件系统
func resolve(path string) (fs.FS, string, error) {
	mu.RLock()
	fsys, ok := dataFS, initialized
	mu.RUnlock()
	if !ok {
		return nil, "", ErrNotInitialized
	}

	// embed.FS 使用正斜杠，且不接受 "./" 前缀
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if path+"/" != DataPrefix && !strings.HasPrefix(path, DataPrefix) {
		return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, DataPrefix)
	}
	return fsys, path, nil
}

// Open 打开内容文件，路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(p)
}

// ReadFile 读取内容文件，路径必须以 "data/" 开头
// 签名与 os.ReadFile 一致，可直接作为 config.ReadFileFunc 使用
func ReadFile(path string) ([]byte, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, p)
}

// Exists 检查内容文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配内容文件
func Glob(pattern string) ([]string, error) {
	fsys, p, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(fsys, p)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, p)
}
