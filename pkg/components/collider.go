package components

// ColliderComponent 圆形碰撞体
// Tag 取值见 config.TagWall / TagUnit / TagProjectile / TagDoor
// 生成位置搜索会忽略 unit 和 projectile 标签
type ColliderComponent struct {
	Radius float64
	Tag    string
}
