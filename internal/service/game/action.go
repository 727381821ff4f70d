package game

import "encoding/json"

type CreateRoomRequest struct {
	RoomID string `json:"roomId"`
}

type StartGameRequest struct {
	RoomID string `json:"roomId"`
}

type ExitRoomRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"userId"`
}

type GetRoomInfoRequest struct {
	RoomID string `json:"roomId"`
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname,omitempty"`
}

// 可选的 CandidateIDs 由房主指定（平票 PK），为空表示所有存活玩家
type VoteStartRequest struct {
	RoomID       string   `json:"roomId"`
	CandidateIDs []string `json:"candidateIds,omitempty"`
}

// 旧版客户端会在投票时附带 candidateUser / oprateUser，
// 这两个字段只用于识别并拒绝这类请求
type VoteToRequest struct {
	RoomID        string          `json:"roomId"`
	TargetID      string          `json:"userId"`
	VoterID       string          `json:"voteFromId"`
	CandidateUser json.RawMessage `json:"candidateUser,omitempty"`
	OprateUser    json.RawMessage `json:"oprateUser,omitempty"`
}

func (req *VoteToRequest) declaresSets() bool {
	return len(req.CandidateUser) > 0 || len(req.OprateUser) > 0
}

type VoteEndRequest struct {
	RoomID string `json:"roomId"`
}

// PlayerView 是玩家对外展示的快照，投票相关字段来自当前轮次
type PlayerView struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	Role      string `json:"role,omitempty"`
	Word      string `json:"word,omitempty"`
	IsDead    bool   `json:"isDead"`
	HaveVoted bool   `json:"haveVoted"`
	VoteCount int    `json:"voteCount"`
}

type RoomView struct {
	RoomID string       `json:"roomId"`
	Users  []PlayerView `json:"users"`
	Host   string       `json:"host"`
	Status string       `json:"status"`
	Round  int          `json:"round"`
	// 毫秒时间戳
	CreatedAt int64 `json:"createdAt"`
}

type RoomCreatedResponse struct {
	Room RoomView `json:"room"`
}

type RoomUpdateResponse struct {
	RoomID string   `json:"roomId"`
	Room   RoomView `json:"room"`
}

// Room 为 nil 表示房间不存在
type RoomInfoResponse struct {
	Room *RoomView `json:"room"`
}

type JoinRoomSuccessResponse struct {
	User PlayerView `json:"user"`
	Room RoomView   `json:"room"`
}

type GameStartedResponse struct {
	RoomID string       `json:"roomId"`
	Users  []PlayerView `json:"users"`
}

type VoteStartedResponse struct {
	RoomID     string   `json:"roomId"`
	Round      int      `json:"round"`
	Voters     []string `json:"voters"`
	Candidates []string `json:"candidates"`
}

type VoteUpdateResponse struct {
	RoomID string       `json:"roomId"`
	Round  int          `json:"round"`
	Users  []PlayerView `json:"users"`
}

type VoteEndedResponse struct {
	RoomID    string       `json:"roomId"`
	Round     int          `json:"round"`
	DeadUser  []PlayerView `json:"deadUser"`
	TopVoted  []PlayerView `json:"topVoted"`
	AliveUser []PlayerView `json:"aliveUser"`
	Message   string       `json:"message"`
}

func (r *Room) playerView(p *Player) PlayerView {
	view := PlayerView{
		ID:       p.ID,
		Nickname: p.Nickname,
		Role:     p.Role,
		Word:     p.Word,
		IsDead:   p.IsDead,
	}

	if round := r.CurrentRound(); round != nil {
		view.HaveVoted = round.HasVoted(p.ID)
		view.VoteCount = round.Tally()[p.ID]
	}

	return view
}

func (r *Room) playerViews(players []*Player) []PlayerView {
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, r.playerView(p))
	}

	return views
}

// View 返回房间的完整快照
func (r *Room) View() RoomView {
	return RoomView{
		RoomID: r.ID,
		Users:  r.playerViews(r.Players),
		Host:   r.HostID,
		Status: r.Status,
		Round:  len(r.Rounds),

		CreatedAt: r.CreatedAt.UnixMilli(),
	}
}
