//go:build !mobile

// Package mobile 在普通构建下只保留导出符号
//
// 绑定入口在 mobile.go 中，需要 -tags mobile 并先把 data/ 复制到本目录。
package mobile

// Dummy 与移动端构建导出相同的符号，保证 ./... 在桌面环境下可编译
func Dummy() {}
