package types

// Team 阵营，Hittable 通过阵营区分敌我
type Team int

const (
	// TeamPlayer 玩家阵营
	TeamPlayer Team = iota
	// TeamMonsters 怪物阵营
	TeamMonsters
)

// String 返回阵营名称（用于日志和调试接口）
func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "PLAYER"
	case TeamMonsters:
		return "MONSTERS"
	default:
		return "UNKNOWN"
	}
}
