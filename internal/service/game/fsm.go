package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"undercover-be/internal/history"

	"go.uber.org/zap"
)

type MachineOptions struct {
	Words       WordSource
	Assigner    *RoleAssigner
	Recorder    history.Recorder
	MinPlayers  int
	WordTimeout time.Duration
	NewID       func() string

	// 房间最后一名玩家退出时调用，由房间注册表负责注销
	OnEmpty func(gm *GameMachine)
}

func (opts *MachineOptions) setDefaults() {
	if opts.Words == nil {
		opts.Words = NewListSource(nil, nil)
	}
	if opts.Assigner == nil {
		opts.Assigner = NewRoleAssigner(nil, 0)
	}
	if opts.Recorder == nil {
		opts.Recorder = history.NopRecorder{}
	}
	if opts.MinPlayers <= 0 {
		opts.MinPlayers = 4
	}
	if opts.WordTimeout <= 0 {
		opts.WordTimeout = 5 * time.Second
	}
	if opts.NewID == nil {
		opts.NewID = GenID
	}
}

type action struct {
	req    RequestWrapper
	client *Client
	// 非空时表示服务器内部的只读/检查操作，不经过请求分发
	inspect func(gc *GameContext)
	done    chan struct{}
}

// GameMachine 是一个房间的状态机，所有对房间的修改都在它自己的协程里串行执行
type GameMachine struct {
	ctx  *GameContext
	opts MachineOptions

	// 这是所有的用户的请求汇总的通道
	reqCh chan action
	// 结束通道，用于通知游戏状态机退出事件循环
	doneCh   chan struct{}
	stopOnce sync.Once

	// 用于取消停机时仍在等待的外部调用（例如取词）
	baseCtx context.Context
	cancel  context.CancelFunc

	// 最后一名玩家退出后置位，当前请求完成后销毁房间
	emptied bool
}

func NewGameMachine(roomID string, createdAt time.Time, opts MachineOptions) *GameMachine {
	opts.setDefaults()

	baseCtx, cancel := context.WithCancel(context.Background())

	return &GameMachine{
		ctx:     newGameContext(NewRoom(roomID, createdAt)),
		opts:    opts,
		reqCh:   make(chan action),
		doneCh:  make(chan struct{}),
		baseCtx: baseCtx,
		cancel:  cancel,
	}
}

func (gm *GameMachine) RoomID() string {
	return gm.ctx.Room.ID
}

func (gm *GameMachine) Done() <-chan struct{} {
	return gm.doneCh
}

// Start 进入事件循环，直到 Stop 被调用
func (gm *GameMachine) Start() {
	for {
		select {
		case act := <-gm.reqCh:
			gm.handle(act)
			close(act.done)

			if gm.emptied {
				gm.destroy()
				return
			}

		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束游戏状态机",
				zap.String("room_id", gm.RoomID()),
			)
			return
		}
	}
}

func (gm *GameMachine) destroy() {
	zap.L().Info(
		"房间已空，销毁房间",
		zap.String("room_id", gm.RoomID()),
	)

	if gm.opts.OnEmpty != nil {
		gm.opts.OnEmpty(gm)
	}

	gm.Stop()
}

// Stop 可以重复调用
func (gm *GameMachine) Stop() {
	gm.stopOnce.Do(func() {
		gm.cancel()
		close(gm.doneCh)
	})
}

// Submit 把请求交给状态机并等待处理完成
func (gm *GameMachine) Submit(ctx context.Context, client *Client, req RequestWrapper) error {
	return gm.submit(ctx, action{
		req:    req,
		client: client,
		done:   make(chan struct{}),
	})
}

// Inspect 在状态机协程内执行 fn，fn 不应保留 GameContext 的引用
func (gm *GameMachine) Inspect(ctx context.Context, fn func(gc *GameContext)) error {
	return gm.submit(ctx, action{
		inspect: fn,
		done:    make(chan struct{}),
	})
}

func (gm *GameMachine) submit(ctx context.Context, act action) error {
	select {
	case gm.reqCh <- act:
	case <-gm.doneCh:
		return ErrRoomNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-act.done:
		return nil
	case <-gm.doneCh:
		// 让房间销毁的那条请求本身已经处理完成
		select {
		case <-act.done:
			return nil
		default:
			return ErrRoomNotFound
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (gm *GameMachine) handle(act action) {
	if act.inspect != nil {
		act.inspect(gm.ctx)
		return
	}

	handler, ok := handlers[act.req.ReqType]
	if !ok {
		zap.L().Debug(
			"状态机不支持该请求类型",
			zap.String("room_id", gm.RoomID()),
			zap.String("request_type", act.req.ReqType),
		)
		return
	}

	zap.L().Debug(
		"接收到客户端请求",
		zap.String("room_id", gm.RoomID()),
		zap.String("request_type", act.req.ReqType),
	)

	if err := handler(gm, act.client, act.req); err != nil {
		zap.L().Debug(
			"处理请求失败",
			zap.String("room_id", gm.RoomID()),
			zap.String("request_type", act.req.ReqType),
			zap.Error(err),
		)

		// 格式错误的请求直接丢弃，不回复
		if errors.Is(err, ErrMalformedRequest) {
			return
		}

		gm.ctx.UnicastResp(act.client, ErrorResponse(err))
	}
}
