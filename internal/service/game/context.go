package game

import (
	"go.uber.org/zap"
)

// GameContext 是房间状态机协程独占的状态
type GameContext struct {
	Room *Room

	// key: 玩家 ID，value: 该玩家所在的连接
	subscribers map[string]*Client
}

func newGameContext(room *Room) *GameContext {
	return &GameContext{
		Room:        room,
		subscribers: make(map[string]*Client),
	}
}

func (gc *GameContext) subscribe(playerID string, client *Client) {
	if client == nil {
		return
	}

	gc.subscribers[playerID] = client
	client.bind(gc.Room.ID, playerID)
}

func (gc *GameContext) unsubscribe(playerID string) {
	client, ok := gc.subscribers[playerID]
	if !ok {
		return
	}

	delete(gc.subscribers, playerID)
	client.unbind(gc.Room.ID, playerID)
}

// BroadcastResp 只发送给本房间玩家所在的连接，同一连接只发送一次
func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	sent := make(map[*Client]struct{}, len(gc.subscribers))

	for _, p := range gc.Room.Players {
		client, ok := gc.subscribers[p.ID]
		if !ok {
			continue
		}

		if _, dup := sent[client]; dup {
			continue
		}
		sent[client] = struct{}{}

		client.Send(resp)
	}

	zap.L().Debug(
		"广播响应",
		zap.String("room_id", gc.Room.ID),
		zap.String("response_type", resp.RespType),
		zap.Int("receivers", len(sent)),
	)
}

// UnicastResp 只回复发起请求的连接
func (gc *GameContext) UnicastResp(client *Client, resp ResponseWrapper) {
	if client == nil {
		zap.L().Warn(
			"无法找到连接进行单播响应",
			zap.String("room_id", gc.Room.ID),
			zap.String("response_type", resp.RespType),
		)
		return
	}

	client.Send(resp)
}
