package game

import (
	"encoding/json"

	"github.com/google/uuid"
)

func GenID() string {
	return uuid.NewString()
}

// 昵称缺省时使用 ID 的前 4 位
func defaultNickname(playerID string) string {
	short := playerID
	if len(short) > 4 {
		short = short[:4]
	}

	return "玩家" + short
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("Failed to marshal: " + err.Error())
	}

	return data
}
