package game

import (
	"sync"

	"go.uber.org/zap"
)

// Client 代表一条客户端连接，服务器向它的 RespCh 写入响应，
// 由传输层（websocket 写协程）负责发送
type Client struct {
	ID     string
	RespCh chan ResponseWrapper

	mu sync.Mutex
	// key: 房间 ID，value: 该连接在房间内加入的玩家 ID 列表
	memberships map[string][]string
}

func NewClient(bufSize int) *Client {
	return &Client{
		ID:          GenID(),
		RespCh:      make(chan ResponseWrapper, bufSize),
		memberships: make(map[string][]string),
	}
}

// Send 非阻塞地投递响应，通道已满时丢弃
func (c *Client) Send(resp ResponseWrapper) {
	select {
	case c.RespCh <- resp:
	default:
		zap.L().Warn(
			"发送响应失败：客户端响应通道已满",
			zap.String("client_id", c.ID),
			zap.String("response_type", resp.RespType),
		)
	}
}

func (c *Client) bind(roomID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memberships[roomID] = append(c.memberships[roomID], playerID)
}

func (c *Client) unbind(roomID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.memberships[roomID]
	for i, id := range ids {
		if id == playerID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	if len(ids) == 0 {
		delete(c.memberships, roomID)
		return
	}

	c.memberships[roomID] = ids
}

// Membership 是连接在某个房间里加入的一名玩家
type Membership struct {
	RoomID   string
	PlayerID string
}

// Memberships 返回连接当前加入的全部玩家，用于断线时清理
func (c *Client) Memberships() []Membership {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]Membership, 0, len(c.memberships))
	for roomID, ids := range c.memberships {
		for _, id := range ids {
			list = append(list, Membership{RoomID: roomID, PlayerID: id})
		}
	}

	return list
}
