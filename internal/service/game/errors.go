package game

import "errors"

// 这些错误的文本会直接回复给发起请求的客户端
var (
	ErrRoomExists           = errors.New("房间已存在")
	ErrRoomNotFound         = errors.New("房间不存在")
	ErrInsufficientPlayers  = errors.New("人数不足，无法开始游戏")
	ErrWordSupply           = errors.New("分配词语失败")
	ErrNotEligibleVoter     = errors.New("你不是操作者")
	ErrNotEligibleCandidate = errors.New("不在被投票者里")
	ErrAlreadyVoted         = errors.New("你已投票，不能重复投票")
	ErrNoActiveRound        = errors.New("当前没有进行中的投票")
	ErrGameNotStarted       = errors.New("游戏未在进行中")
	ErrClientDeclaredSets   = errors.New("投票者和候选人由服务器决定")
)
