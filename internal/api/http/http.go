package http

import (
	"os"

	"undercover-be/internal/api/http/websocket"
	"undercover-be/internal/state"

	"github.com/kataras/iris/v12"
)

// NewApp 组装路由，不负责监听端口
func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()
	app.Logger().SetLevel(appState.Cfg.LogLevel)

	if dir := appState.Cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			app.HandleDir(
				"/",
				iris.Dir(dir),
				iris.DirOptions{
					IndexName: "index.html",
					SPA:       true,
					Compress:  true,
				},
			)
		}
	}

	app.Get("/healthz", HealthCheck(appState))

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Get("/rooms/{roomId}", GetRoom(appState))
	api.Get("/rooms/{roomId}/qrcode", RoomQRCode(appState))

	api.Get("/ws", websocket.ServeGame(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	return app.Listen(appState.Cfg.Addr(), iris.WithoutStartupLog)
}
