package components

// LifetimeComponent 投射物的剩余飞行时间（秒）
type LifetimeComponent struct {
	Remaining float64
}

// Expire 扣除时间，到期返回 true
func (l *LifetimeComponent) Expire(deltaTime float64) bool {
	l.Remaining -= deltaTime
	return l.Remaining <= 0
}
