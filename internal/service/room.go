package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"undercover-be/internal/service/game"

	"go.uber.org/zap"
)

// DefaultRoomTTL 房间创建后两小时自动销毁，与房间内的活动无关
const DefaultRoomTTL = 2 * time.Hour

type RoomServiceOptions struct {
	RoomTTL   time.Duration
	Scheduler Scheduler
	Clock     func() time.Time
	Machine   game.MachineOptions
}

// RoomService 是进程内的房间注册表，并负责把请求分发给对应房间的状态机
type RoomService struct {
	state *roomServiceState
	opts  RoomServiceOptions
}

type roomEntry struct {
	machine *game.GameMachine
	expiry  Timer
}

type roomServiceState struct {
	mu sync.RWMutex

	// 从房间 ID 到房间的映射
	rooms map[string]*roomEntry
}

func NewRoomService(opts RoomServiceOptions) *RoomService {
	if opts.RoomTTL <= 0 {
		opts.RoomTTL = DefaultRoomTTL
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	rs := &RoomService{
		state: &roomServiceState{
			rooms: make(map[string]*roomEntry),
		},
		opts: opts,
	}

	rs.opts.Machine.OnEmpty = rs.removeMachine

	return rs
}

// CreateRoom 注册一个空房间并安排到期销毁
func (rs *RoomService) CreateRoom(ctx context.Context, roomID string) (game.RoomView, error) {
	// 房间 ID 原样使用，只拒绝空白 ID
	if strings.TrimSpace(roomID) == "" {
		return game.RoomView{}, game.ErrMalformedRequest
	}

	rs.state.mu.Lock()

	if _, exists := rs.state.rooms[roomID]; exists {
		rs.state.mu.Unlock()
		return game.RoomView{}, game.ErrRoomExists
	}

	machine := game.NewGameMachine(roomID, rs.opts.Clock(), rs.opts.Machine)

	entry := &roomEntry{machine: machine}
	entry.expiry = rs.opts.Scheduler.AfterFunc(rs.opts.RoomTTL, func() {
		zap.S().Infof("房间 %s 已过期，开始清理", roomID)
		rs.removeMachine(machine)
	})

	rs.state.rooms[roomID] = entry

	rs.state.mu.Unlock()

	// 创建对应的独立 goroutine 来处理这个房间的请求
	go machine.Start()

	zap.S().Infof("房间 %s 已创建", roomID)

	var view game.RoomView
	if err := machine.Inspect(ctx, func(gc *game.GameContext) {
		view = gc.Room.View()
	}); err != nil {
		return game.RoomView{}, err
	}

	return view, nil
}

func (rs *RoomService) GetRoom(roomID string) (*game.GameMachine, bool) {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	entry, ok := rs.state.rooms[roomID]
	if !ok {
		return nil, false
	}

	return entry.machine, true
}

// RemoveRoom 注销并停止房间，可以重复调用
func (rs *RoomService) RemoveRoom(roomID string) {
	rs.state.mu.Lock()
	entry, ok := rs.state.rooms[roomID]
	if ok {
		delete(rs.state.rooms, roomID)
	}
	rs.state.mu.Unlock()

	if !ok {
		return
	}

	entry.expiry.Stop()
	entry.machine.Stop()

	zap.S().Infof("房间 %s 已移除", roomID)
}

// removeMachine 只在注册表中的房间仍是 gm 时才移除，
// 避免过期的定时器误删同名的新房间
func (rs *RoomService) removeMachine(gm *game.GameMachine) {
	rs.state.mu.Lock()
	entry, ok := rs.state.rooms[gm.RoomID()]
	if ok && entry.machine == gm {
		delete(rs.state.rooms, gm.RoomID())
		entry.expiry.Stop()
	}
	rs.state.mu.Unlock()

	gm.Stop()
}

func (rs *RoomService) RoomCount() int {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	return len(rs.state.rooms)
}

// RoomInfo 返回房间快照
func (rs *RoomService) RoomInfo(ctx context.Context, roomID string) (game.RoomView, error) {
	machine, ok := rs.GetRoom(roomID)
	if !ok {
		return game.RoomView{}, game.ErrRoomNotFound
	}

	var view game.RoomView
	if err := machine.Inspect(ctx, func(gc *game.GameContext) {
		view = gc.Room.View()
	}); err != nil {
		return game.RoomView{}, err
	}

	return view, nil
}

// Close 停止所有房间
func (rs *RoomService) Close() {
	rs.state.mu.Lock()
	entries := rs.state.rooms
	rs.state.rooms = make(map[string]*roomEntry)
	rs.state.mu.Unlock()

	for _, entry := range entries {
		entry.expiry.Stop()
		entry.machine.Stop()
	}
}

// Dispatch 处理一条客户端请求，回复与广播都写入对应连接的响应通道
func (rs *RoomService) Dispatch(ctx context.Context, client *game.Client, req game.RequestWrapper) {
	if createReq := game.TryUnwrapCreateRoomRequest(req); createReq != nil {
		view, err := rs.CreateRoom(ctx, createReq.RoomID)
		if err != nil {
			if errors.Is(err, game.ErrMalformedRequest) {
				return
			}

			client.Send(game.ErrorResponse(err))
			return
		}

		client.Send(game.WrapResponse(
			game.RESP_ROOM_CREATED,
			game.RoomCreatedResponse{Room: view},
		))
		return
	}

	machine, ok := rs.GetRoom(req.RoomID)
	if !ok {
		rs.replyRoomMissing(client, req)
		return
	}

	if err := machine.Submit(ctx, client, req); err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			rs.replyRoomMissing(client, req)
			return
		}

		zap.L().Warn(
			"提交请求到房间失败",
			zap.String("room_id", req.RoomID),
			zap.String("request_type", req.ReqType),
			zap.Error(err),
		)
	}
}

func (rs *RoomService) replyRoomMissing(client *game.Client, req game.RequestWrapper) {
	switch req.ReqType {
	case game.REQ_GET_ROOM_INFO:
		client.Send(game.WrapResponse(
			game.RESP_ROOM_INFO,
			game.RoomInfoResponse{Room: nil},
		))
	case game.REQ_EXIT_ROOM:
		// 房间已经不存在，退出无需回复
	default:
		client.Send(game.ErrorResponse(game.ErrRoomNotFound))
	}
}

// Disconnect 在连接断开时让该连接加入的所有玩家退出房间
func (rs *RoomService) Disconnect(ctx context.Context, client *game.Client) {
	for _, m := range client.Memberships() {
		exitReq := game.WrapRequest(
			game.REQ_EXIT_ROOM,
			game.ExitRoomRequest{RoomID: m.RoomID, PlayerID: m.PlayerID},
		)

		zap.L().Debug(
			"连接断开，发送退出请求",
			zap.String("room_id", m.RoomID),
			zap.String("player_id", m.PlayerID),
		)

		rs.Dispatch(ctx, client, exitReq)
	}
}
