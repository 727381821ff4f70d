package http

import (
	"errors"
	"net/url"
	"strings"

	"undercover-be/internal/service/dto"
	"undercover-be/internal/service/game"
	"undercover-be/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 320

func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateRoomRequest

		if err := ctx.ReadJSON(&req); err != nil || strings.TrimSpace(req.RoomID) == "" {
			ctx.StopWithJSON(iris.StatusBadRequest, dto.ErrorResponse{
				Error: "请求参数无效",
			})
			return
		}

		view, err := appState.RoomSvc.CreateRoom(ctx.Request().Context(), req.RoomID)
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, game.ErrRoomExists) {
				status = iris.StatusConflict
			}

			ctx.StopWithJSON(status, dto.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		ctx.JSON(dto.CreateRoomResponse{RoomID: view.RoomID})
	}
}

func GetRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("roomId")

		view, err := appState.RoomSvc.RoomInfo(ctx.Request().Context(), roomID)
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, game.ErrRoomNotFound) {
				status = iris.StatusNotFound
			}

			ctx.StopWithJSON(status, dto.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		ctx.JSON(view)
	}
}

// RoomQRCode 生成加入房间链接的二维码
func RoomQRCode(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("roomId")

		if _, ok := appState.RoomSvc.GetRoom(roomID); !ok {
			ctx.StopWithJSON(iris.StatusNotFound, dto.ErrorResponse{
				Error: game.ErrRoomNotFound.Error(),
			})
			return
		}

		link := strings.TrimSuffix(appState.Cfg.PublicURL, "/") + "/?room=" + url.QueryEscape(roomID)

		png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
		if err != nil {
			zap.L().Error("生成二维码失败", zap.String("room_id", roomID), zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}

func HealthCheck(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.HealthResponse{
			Status: "ok",
			Rooms:  appState.RoomSvc.RoomCount(),
		})
	}
}
