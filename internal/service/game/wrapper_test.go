package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseRequest_RejectsMalformed(t *testing.T) {
	for _, msg := range []string{
		`not json`,
		`{"type":"dance","roomId":"R1"}`,
		`{"type":"join_room"}`,
		`{"type":"join_room","roomId":""}`,
		`[1,2,3]`,
	} {
		_, err := ParseRequest([]byte(msg))
		assert.ErrorIs(t, err, ErrMalformedRequest, msg)
	}
}

func TestParseRequest_FlatMessage(t *testing.T) {
	req, err := ParseRequest([]byte(`{"type":"vote_to","roomId":"R1","userId":"b","voteFromId":"a"}`))
	require.NoError(t, err)

	assert.Equal(t, REQ_VOTE_TO, req.ReqType)
	assert.Equal(t, "R1", req.RoomID)

	vote := TryUnwrapVoteToRequest(req)
	require.NotNil(t, vote)
	assert.Equal(t, "b", vote.TargetID)
	assert.Equal(t, "a", vote.VoterID)
	assert.False(t, vote.declaresSets())

	assert.Nil(t, TryUnwrapJoinRoomRequest(req), "type mismatch should not unwrap")
}

func TestParseRequest_DetectsDeclaredSets(t *testing.T) {
	req, err := ParseRequest([]byte(`{"type":"vote_to","roomId":"R1","userId":"b","voteFromId":"a","oprateUser":[{"id":"a"}]}`))
	require.NoError(t, err)

	vote := TryUnwrapVoteToRequest(req)
	require.NotNil(t, vote)
	assert.True(t, vote.declaresSets())
}

func TestWrapRequest_CarriesRoomID(t *testing.T) {
	req := WrapRequest(REQ_EXIT_ROOM, ExitRoomRequest{RoomID: "R1", PlayerID: "p1"})

	assert.Equal(t, REQ_EXIT_ROOM, req.ReqType)
	assert.Equal(t, "R1", req.RoomID)

	exit := TryUnwrapExitRoomRequest(req)
	require.NotNil(t, exit)
	assert.Equal(t, "p1", exit.PlayerID)
}

func TestResponseWrapper_FlattensData(t *testing.T) {
	data, err := json.Marshal(WrapResponse(RESP_VOTE_STARTED, VoteStartedResponse{
		RoomID:     "R1",
		Round:      2,
		Voters:     []string{"a"},
		Candidates: []string{"b"},
	}))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, RESP_VOTE_STARTED, fields["type"])
	assert.Equal(t, "R1", fields["roomId"])
	assert.EqualValues(t, 2, fields["round"])
	assert.NotContains(t, fields, "message")
}

func TestResponseWrapper_ErrorMessage(t *testing.T) {
	data, err := json.Marshal(ErrorResponse(ErrNotEligibleVoter))
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"error","message":"你不是操作者"}`, string(data))

	data, err = json.Marshal(ErrorResponse(ErrRoomExists))
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"room_exist","message":"房间已存在"}`, string(data))
}

func TestErrorResponse_HidesUnknownErrors(t *testing.T) {
	resp := ErrorResponse(assert.AnError)

	assert.Equal(t, RESP_ERROR, resp.RespType)
	assert.Equal(t, "请求处理失败", resp.ErrMsg)
}

func TestWrapRequest_LogsNonObjectPayload(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	req := WrapRequest(REQ_EXIT_ROOM, "R1")

	assert.Equal(t, REQ_EXIT_ROOM, req.ReqType)
	assert.Empty(t, req.RoomID)
	require.Equal(t, 1, logs.FilterMessage("Failed to wrap request").Len())
}
