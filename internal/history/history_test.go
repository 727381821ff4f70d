package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopRecorder(t *testing.T) {
	var rec Recorder = NopRecorder{}

	assert.NoError(t, rec.RecordRound(context.Background(), RoundRecord{RoomID: "R1"}))
	assert.NoError(t, rec.Close())
}

func TestRoundRecordJSON(t *testing.T) {
	data, err := json.Marshal(RoundRecord{
		RoomID:    "R1",
		Round:     1,
		Ballots:   map[string]string{"a": "b"},
		Outcome:   "continue",
		Timestamp: 100,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"room_id": "R1",
		"round": 1,
		"ballots": {"a": "b"},
		"outcome": "continue",
		"forced": false,
		"timestamp": 100
	}`, string(data))
}

func TestNewRedisRecorder_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisRecorder(ctx, "127.0.0.1:1", 0, "")
	assert.Error(t, err)
}
