package websocket

import (
	"context"
	"time"

	"undercover-be/internal/service/game"
	"undercover-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// ServeGame 把连接升级为 WebSocket，一条消息对应一个房间操作
func ServeGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()
		client := game.NewClient(RESP_BUFFER_SIZE)

		conn.SetReadLimit(MAX_MESSAGE_SIZE)
		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		zap.L().Info(
			"WebSocket连接已建立",
			zap.String("client_ip", clientIP),
			zap.String("client_id", client.ID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		writerExitedCh := make(chan struct{})

		go writeLoop(conn, client, clientIP, writeDoneCh, writerExitedCh)

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseNoStatusReceived,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			req, err := game.ParseRequest(msg)
			if err != nil {
				// 格式错误的消息直接丢弃
				zap.L().Debug(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				continue
			}

			appState.RoomSvc.Dispatch(context.Background(), client, req)
		}

		// 读循环退出，表示客户端断开连接，让该连接加入的玩家退出房间
		exitCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		appState.RoomSvc.Disconnect(exitCtx, client)
		cancel()

		close(writeDoneCh)
		<-writerExitedCh

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("client_id", client.ID),
		)
	}
}

func writeLoop(
	conn *websocket.Conn,
	client *game.Client,
	clientIP string,
	doneCh <-chan struct{},
	exitedCh chan<- struct{},
) {
	defer close(exitedCh)

	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-doneCh:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				// 关闭连接让读协程退出
				conn.Close()
				return
			}

		case resp := <-client.RespCh:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				conn.Close()
				return
			}

			zap.L().Debug(
				"发送消息",
				zap.String("client_ip", clientIP),
				zap.String("response_type", resp.RespType),
			)
		}
	}
}
