package game

import "log"

// EventType 事件类型
type EventType string

// 对局事件
const (
	// EventWaveStart 一波开始生成（倒计时结束），Wave 为波次
	EventWaveStart EventType = "wave-start"
	// EventWaveEnd 一波清场结束，Wave 为刚完成的波次
	EventWaveEnd EventType = "wave-end"
	// EventLevelComplete 关卡胜利
	EventLevelComplete EventType = "level-complete"
	// EventPlayerDied 玩家死亡
	EventPlayerDied EventType = "player-died"
	// EventCountdownTick 倒计时跳动，Amount 为剩余显示值
	EventCountdownTick EventType = "countdown-tick"
	// EventEnemySpawned 敌人生成，Entity 为敌人实体
	EventEnemySpawned EventType = "enemy-spawned"
	// EventEnemyKilled 敌人被击杀
	EventEnemyKilled EventType = "enemy-killed"
	// EventPlayerDamaged 玩家受到伤害，Amount 为伤害值
	EventPlayerDamaged EventType = "player-damaged"
	// EventSpellCast 玩家成功施法
	EventSpellCast EventType = "spell-cast"
	// EventPlayerMoved 玩家从静止开始移动
	EventPlayerMoved EventType = "player-moved"
	// EventDoorOpened 门被打开，Name 为门名称
	EventDoorOpened EventType = "door-opened"
)

// Event 事件数据
// 字段按事件类型使用，未使用的字段为零值
type Event struct {
	Type   EventType
	Wave   int
	Amount int
	Entity uint64
	Name   string
}

// Listener 事件订阅者
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc 函数形式的订阅者
type ListenerFunc func(event Event)

// OnEvent 调用函数本身
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// SubscriptionID 订阅标识，用于取消订阅
type SubscriptionID uint64

type subscription struct {
	id       SubscriptionID
	listener Listener
}

// EventBus 同步事件分发器
//
// 事件在 Publish 调用方的 goroutine 中同步分发，按订阅顺序通知。
// 订阅者在处理事件时可以订阅、取消订阅或发布新事件：
// 分发使用订阅列表的快照，新订阅者从下一次 Publish 开始生效。
type EventBus struct {
	nextID    SubscriptionID
	listeners map[EventType][]subscription
}

// NewEventBus 创建事件分发器
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]subscription),
	}
}

// Subscribe 订阅事件
// 返回：订阅标识，传给 Unsubscribe 取消订阅
func (b *EventBus) Subscribe(eventType EventType, listener Listener) SubscriptionID {
	b.nextID++
	id := b.nextID
	b.listeners[eventType] = append(b.listeners[eventType], subscription{id: id, listener: listener})
	return id
}

// SubscribeFunc 以函数形式订阅事件
func (b *EventBus) SubscribeFunc(eventType EventType, fn func(Event)) SubscriptionID {
	return b.Subscribe(eventType, ListenerFunc(fn))
}

// Unsubscribe 取消订阅；未知标识被忽略
func (b *EventBus) Unsubscribe(id SubscriptionID) {
	for eventType, subs := range b.listeners {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			// 复制而不是原地删除，正在进行的分发持有旧切片
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.listeners[eventType] = next
			return
		}
	}
}

// Publish 向订阅者分发事件
// 订阅者 panic 会被恢复并记录，不影响其他订阅者
func (b *EventBus) Publish(event Event) {
	subs := b.listeners[event.Type]
	for _, s := range subs {
		b.notify(s, event)
	}
}

func (b *EventBus) notify(s subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] ERROR: listener %d panicked on %s: %v", s.id, event.Type, r)
		}
	}()
	s.listener.OnEvent(event)
}

// ListenerCount 指定事件类型的订阅者数量
func (b *EventBus) ListenerCount(eventType EventType) int {
	return len(b.listeners[eventType])
}
