package components

// DoorComponent 波次门
// 关闭时带有 tag 为 door 的碰撞体，开启后碰撞体被移除
type DoorComponent struct {
	Name         string
	WaveToOpen   int    // 第几波结束时尝试开启
	Prerequisite string // 必须先开启的门，空表示无
	Open         bool
}
