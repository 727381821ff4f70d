package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"undercover-be/internal/history"

	"go.uber.org/zap"
)

type requestHandler func(gm *GameMachine, client *Client, req RequestWrapper) error

// 房间内可以处理的请求，create_room 由房间注册表处理
var handlers map[string]requestHandler

func init() {
	handlers = map[string]requestHandler{
		REQ_JOIN_ROOM:     onJoinRoom,
		REQ_EXIT_ROOM:     onExitRoom,
		REQ_GET_ROOM_INFO: onGetRoomInfo,
		REQ_START_GAME:    onStartGame,
		REQ_VOTE_START:    onVoteStart,
		REQ_VOTE_TO:       onVoteTo,
		REQ_VOTE_END:      onVoteEnd,
	}
}

var userFacingErrors = []error{
	ErrRoomExists,
	ErrRoomNotFound,
	ErrInsufficientPlayers,
	ErrWordSupply,
	ErrNotEligibleVoter,
	ErrNotEligibleCandidate,
	ErrAlreadyVoted,
	ErrNoActiveRound,
	ErrGameNotStarted,
	ErrClientDeclaredSets,
}

// ErrorResponse 把错误转换成回复给客户端的响应，
// 包装过的错误只暴露其对应的预定义文本
func ErrorResponse(err error) ResponseWrapper {
	if errors.Is(err, ErrRoomExists) {
		return ResponseWrapper{
			RespType: RESP_ROOM_EXIST,
			ErrMsg:   ErrRoomExists.Error(),
		}
	}

	for _, known := range userFacingErrors {
		if errors.Is(err, known) {
			return WrapErrResponse(known.Error())
		}
	}

	return WrapErrResponse("请求处理失败")
}

func onJoinRoom(gm *GameMachine, client *Client, wrapper RequestWrapper) error {
	req := TryUnwrapJoinRoomRequest(wrapper)
	if req == nil {
		return ErrMalformedRequest
	}

	room := gm.ctx.Room

	playerID := gm.opts.NewID()
	nickname := req.Nickname
	if nickname == "" {
		nickname = defaultNickname(playerID)
	}

	player := &Player{
		ID:       playerID,
		Nickname: nickname,
	}

	room.AddPlayer(player)
	gm.ctx.subscribe(player.ID, client)

	zap.L().Info(
		"玩家加入房间",
		zap.String("room_id", room.ID),
		zap.String("player_id", player.ID),
		zap.String("nickname", player.Nickname),
	)

	view := room.View()

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_ROOM_UPDATE,
		RoomUpdateResponse{RoomID: room.ID, Room: view},
	))

	gm.ctx.UnicastResp(client, WrapResponse(
		RESP_JOIN_ROOM_SUCCESS,
		JoinRoomSuccessResponse{User: room.playerView(player), Room: view},
	))

	return nil
}

func onExitRoom(gm *GameMachine, _ *Client, wrapper RequestWrapper) error {
	req := TryUnwrapExitRoomRequest(wrapper)
	if req == nil {
		return ErrMalformedRequest
	}

	room := gm.ctx.Room

	if !room.RemovePlayer(req.PlayerID) {
		zap.L().Debug(
			"玩家不存在，无需退出",
			zap.String("room_id", room.ID),
			zap.String("player_id", req.PlayerID),
		)
		return nil
	}

	gm.ctx.unsubscribe(req.PlayerID)

	zap.L().Info(
		"玩家退出房间",
		zap.String("room_id", room.ID),
		zap.String("player_id", req.PlayerID),
	)

	// 房间已空，直接销毁，不再发送通知
	if room.IsEmpty() {
		gm.emptied = true
		return nil
	}

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_ROOM_UPDATE,
		RoomUpdateResponse{RoomID: room.ID, Room: room.View()},
	))

	// 退出的玩家可能是最后一个没投票的人
	if result := room.ResolveIfComplete(); result != nil {
		announceResult(gm, result)
		recordResult(gm, result)
	}

	return nil
}

func onGetRoomInfo(gm *GameMachine, client *Client, wrapper RequestWrapper) error {
	if TryUnwrapGetRoomInfoRequest(wrapper) == nil {
		return ErrMalformedRequest
	}

	view := gm.ctx.Room.View()

	gm.ctx.UnicastResp(client, WrapResponse(
		RESP_ROOM_INFO,
		RoomInfoResponse{Room: &view},
	))

	return nil
}

func onStartGame(gm *GameMachine, _ *Client, wrapper RequestWrapper) error {
	if TryUnwrapStartGameRequest(wrapper) == nil {
		return ErrMalformedRequest
	}

	room := gm.ctx.Room

	if len(room.Players) < gm.opts.MinPlayers {
		return ErrInsufficientPlayers
	}

	// 取词期间房间保持不变，后续请求在通道中排队
	fetchCtx, cancel := context.WithTimeout(gm.baseCtx, gm.opts.WordTimeout)
	defer cancel()

	words, err := gm.opts.Words.FetchWords(fetchCtx)
	if err != nil {
		zap.L().Warn(
			"获取词语失败",
			zap.String("room_id", room.ID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrWordSupply, err)
	}

	gm.opts.Assigner.Assign(room.Players, words)

	room.Words = words
	room.Rounds = make([]*Round, 0)
	room.Status = STATUS_PLAYING

	zap.L().Info(
		"游戏开始",
		zap.String("room_id", room.ID),
		zap.Int("players", len(room.Players)),
	)

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_GAME_STARTED,
		GameStartedResponse{RoomID: room.ID, Users: room.playerViews(room.Players)},
	))

	return nil
}

func onVoteStart(gm *GameMachine, _ *Client, wrapper RequestWrapper) error {
	req := TryUnwrapVoteStartRequest(wrapper)
	if req == nil {
		return ErrMalformedRequest
	}

	room := gm.ctx.Room

	round, err := room.BeginRound(req.CandidateIDs)
	if err != nil {
		return err
	}

	zap.L().Info(
		"投票开始",
		zap.String("room_id", room.ID),
		zap.Int("round", round.Number),
		zap.Strings("candidates", round.Candidates),
	)

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_VOTE_STARTED,
		VoteStartedResponse{
			RoomID:     room.ID,
			Round:      round.Number,
			Voters:     slices.Clone(round.Voters),
			Candidates: slices.Clone(round.Candidates),
		},
	))

	return nil
}

func onVoteTo(gm *GameMachine, _ *Client, wrapper RequestWrapper) error {
	req := TryUnwrapVoteToRequest(wrapper)
	if req == nil {
		return ErrMalformedRequest
	}

	if req.declaresSets() {
		return ErrClientDeclaredSets
	}

	room := gm.ctx.Room

	result, err := room.CastBallot(req.VoterID, req.TargetID)
	if err != nil {
		return err
	}

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_VOTE_UPDATE,
		VoteUpdateResponse{
			RoomID: room.ID,
			Round:  room.CurrentRound().Number,
			Users:  room.playerViews(room.Players),
		},
	))

	if result != nil {
		announceResult(gm, result)
		recordResult(gm, result)
	}

	return nil
}

func onVoteEnd(gm *GameMachine, _ *Client, wrapper RequestWrapper) error {
	if TryUnwrapVoteEndRequest(wrapper) == nil {
		return ErrMalformedRequest
	}

	room := gm.ctx.Room
	alreadyResolved := room.CurrentRound() != nil && room.CurrentRound().Resolved()

	result, err := room.ResolveRound()
	if err != nil {
		return err
	}

	// 重复结算只重新广播结果
	announceResult(gm, result)
	if !alreadyResolved {
		recordResult(gm, result)
	}

	return nil
}

func announceResult(gm *GameMachine, result *RoundResult) {
	room := gm.ctx.Room

	zap.L().Info(
		"投票结束",
		zap.String("room_id", room.ID),
		zap.Int("round", result.Round),
		zap.Int("eliminated", len(result.Eliminated)),
		zap.String("outcome", result.Outcome),
	)

	gm.ctx.BroadcastResp(WrapResponse(
		RESP_VOTE_ENDED,
		VoteEndedResponse{
			RoomID:    room.ID,
			Round:     result.Round,
			DeadUser:  room.playerViews(result.Eliminated),
			TopVoted:  room.playerViews(result.TopVoted),
			AliveUser: room.playerViews(result.Alive),
			Message:   result.Outcome,
		},
	))
}

func recordResult(gm *GameMachine, result *RoundResult) {
	room := gm.ctx.Room

	record := history.RoundRecord{
		RoomID:    room.ID,
		Round:     result.Round,
		Ballots:   make(map[string]string),
		Outcome:   result.Outcome,
		Forced:    result.Forced,
		Timestamp: time.Now().Unix(),
	}

	if round := room.CurrentRound(); round != nil && round.Number == result.Round {
		for voter, target := range round.Ballots {
			record.Ballots[voter] = target
		}
	}

	if len(result.Eliminated) > 0 {
		record.EliminatedID = result.Eliminated[0].ID
	}

	// 记录历史不能阻塞房间协程
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := gm.opts.Recorder.RecordRound(ctx, record); err != nil {
			zap.L().Warn(
				"记录投票历史失败",
				zap.String("room_id", record.RoomID),
				zap.Int("round", record.Round),
				zap.Error(err),
			)
		}
	}()
}
