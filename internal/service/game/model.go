package game

import "time"

// 玩家身份
const (
	ROLE_UNSET      = ""
	ROLE_CIVILIAN   = "Civilian"
	ROLE_UNDERCOVER = "Undercover"
	ROLE_BLANK      = "Blank"
)

// 房间状态
const (
	STATUS_WAITING  = "Waiting"
	STATUS_PLAYING  = "Playing"
	STATUS_FINISHED = "Finished"
)

type Player struct {
	ID       string
	Nickname string
	Role     string
	// Blank 玩家没有词语
	Word   string
	IsDead bool
}

func (p *Player) alive() bool {
	return !p.IsDead
}

// 是否参与本局游戏（开局后加入的玩家没有身份）
func (p *Player) assigned() bool {
	return p.Role != ROLE_UNSET
}

type WordPair struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Room 是一个房间的聚合根，只允许在房间自己的状态机协程内修改
type Room struct {
	ID        string
	Players   []*Player
	HostID    string
	Status    string
	Words     WordPair
	Rounds    []*Round
	CreatedAt time.Time
}

func NewRoom(roomID string, createdAt time.Time) *Room {
	return &Room{
		ID:        roomID,
		Players:   make([]*Player, 0),
		Status:    STATUS_WAITING,
		Rounds:    make([]*Round, 0),
		CreatedAt: createdAt,
	}
}

func (r *Room) Player(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}

	return nil
}

// AddPlayer 追加玩家，房间没有房主时由该玩家担任
func (r *Room) AddPlayer(p *Player) {
	r.Players = append(r.Players, p)

	if r.HostID == "" {
		r.HostID = p.ID
	}
}

// RemovePlayer 移除玩家并重新计算房主，返回是否确实移除了玩家
func (r *Room) RemovePlayer(playerID string) bool {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}

	if idx < 0 {
		return false
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	r.HostID = ""
	if len(r.Players) > 0 {
		r.HostID = r.Players[0].ID
	}

	if round := r.CurrentRound(); round != nil && !round.Resolved() {
		round.dropParticipant(playerID)
	}

	return true
}

func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// AlivePlayers 返回本局仍然存活且有身份的玩家，顺序与加入顺序一致
func (r *Room) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.assigned() && p.alive() {
			alive = append(alive, p)
		}
	}

	return alive
}

// CurrentRound 返回最近一轮投票，没有则为 nil
func (r *Room) CurrentRound() *Round {
	if len(r.Rounds) == 0 {
		return nil
	}

	return r.Rounds[len(r.Rounds)-1]
}
