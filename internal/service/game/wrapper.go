package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_CREATE_ROOM   = "create_room"
	REQ_START_GAME    = "start_game"
	REQ_EXIT_ROOM     = "exit_room"
	REQ_GET_ROOM_INFO = "get_room_info"
	REQ_JOIN_ROOM     = "join_room"
	REQ_VOTE_START    = "vote_start"
	REQ_VOTE_TO       = "vote_to"
	REQ_VOTE_END      = "vote_end"
)

var knownRequests = map[string]struct{}{
	REQ_CREATE_ROOM:   {},
	REQ_START_GAME:    {},
	REQ_EXIT_ROOM:     {},
	REQ_GET_ROOM_INFO: {},
	REQ_JOIN_ROOM:     {},
	REQ_VOTE_START:    {},
	REQ_VOTE_TO:       {},
	REQ_VOTE_END:      {},
}

// RequestWrapper 是一条客户端消息，消息体是扁平的 JSON 对象，
// Data 保留原始字节，由 TryUnwrapXxx 解析成具体请求
type RequestWrapper struct {
	ReqType string          `json:"type"`
	RoomID  string          `json:"roomId"`
	Data    json.RawMessage `json:"-"`
}

var ErrMalformedRequest = errors.New("malformed request")

// ParseRequest 解析一条客户端消息，格式不对或类型未知时返回 ErrMalformedRequest
func ParseRequest(msg []byte) (RequestWrapper, error) {
	var wrapper RequestWrapper

	if err := json.Unmarshal(msg, &wrapper); err != nil {
		return RequestWrapper{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	if _, ok := knownRequests[wrapper.ReqType]; !ok {
		return RequestWrapper{}, fmt.Errorf("%w: unknown type %q", ErrMalformedRequest, wrapper.ReqType)
	}

	if wrapper.RoomID == "" {
		return RequestWrapper{}, fmt.Errorf("%w: missing roomId", ErrMalformedRequest)
	}

	wrapper.Data = msg

	return wrapper, nil
}

// WrapRequest 用于服务器内部构造请求（例如连接断开时的退出请求）
func WrapRequest(reqType string, req any) RequestWrapper {
	data := mustMarshal(req)

	var wrapper RequestWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		zap.L().Error(
			"Failed to wrap request",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
	}
	wrapper.ReqType = reqType
	wrapper.Data = data

	return wrapper
}

func tryUnwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	var req T

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"Failed to unwrap request",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return nil
	}

	return &req
}

func TryUnwrapCreateRoomRequest(wrapper RequestWrapper) *CreateRoomRequest {
	return tryUnwrap[CreateRoomRequest](wrapper, REQ_CREATE_ROOM)
}

func TryUnwrapStartGameRequest(wrapper RequestWrapper) *StartGameRequest {
	return tryUnwrap[StartGameRequest](wrapper, REQ_START_GAME)
}

func TryUnwrapExitRoomRequest(wrapper RequestWrapper) *ExitRoomRequest {
	return tryUnwrap[ExitRoomRequest](wrapper, REQ_EXIT_ROOM)
}

func TryUnwrapGetRoomInfoRequest(wrapper RequestWrapper) *GetRoomInfoRequest {
	return tryUnwrap[GetRoomInfoRequest](wrapper, REQ_GET_ROOM_INFO)
}

func TryUnwrapJoinRoomRequest(wrapper RequestWrapper) *JoinRoomRequest {
	return tryUnwrap[JoinRoomRequest](wrapper, REQ_JOIN_ROOM)
}

func TryUnwrapVoteStartRequest(wrapper RequestWrapper) *VoteStartRequest {
	return tryUnwrap[VoteStartRequest](wrapper, REQ_VOTE_START)
}

func TryUnwrapVoteToRequest(wrapper RequestWrapper) *VoteToRequest {
	return tryUnwrap[VoteToRequest](wrapper, REQ_VOTE_TO)
}

func TryUnwrapVoteEndRequest(wrapper RequestWrapper) *VoteEndRequest {
	return tryUnwrap[VoteEndRequest](wrapper, REQ_VOTE_END)
}

// 响应类型
const (
	RESP_ERROR = "error"

	RESP_ROOM_CREATED      = "room_created"
	RESP_ROOM_EXIST        = "room_exist"
	RESP_GAME_STARTED      = "game_started"
	RESP_ROOM_UPDATE       = "room_update"
	RESP_ROOM_INFO         = "room_info"
	RESP_JOIN_ROOM_SUCCESS = "join_room_success"
	RESP_VOTE_STARTED      = "vote_started"
	RESP_VOTE_UPDATE       = "vote_update"
	RESP_VOTE_ENDED        = "vote_ended"
)

// ResponseWrapper 在序列化时会把 Data 的字段平铺到顶层，与 type 并列
type ResponseWrapper struct {
	RespType string
	Data     any
	ErrMsg   string
}

func (rw ResponseWrapper) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any)

	if rw.Data != nil {
		data, err := json.Marshal(rw.Data)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("response data must be an object: %w", err)
		}
	}

	fields["type"] = rw.RespType
	if rw.ErrMsg != "" {
		fields["message"] = rw.ErrMsg
	}

	return json.Marshal(fields)
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
