package game

import (
	"context"
	"testing"
	"time"
)

// fixedPicker 总是按顺序返回预设的下标
type fixedPicker []int

func (fp fixedPicker) Pick(k, n int) []int {
	picked := make([]int, 0, k)
	for _, idx := range fp {
		if len(picked) == k {
			break
		}
		if idx < n {
			picked = append(picked, idx)
		}
	}

	return picked
}

type fixedWords struct {
	pair WordPair
	err  error
}

func (fw fixedWords) FetchWords(ctx context.Context) (WordPair, error) {
	if fw.err != nil {
		return WordPair{}, fw.err
	}

	return fw.pair, ctx.Err()
}

var testWords = WordPair{Primary: "苹果", Secondary: "梨"}

// newPlayingRoom 创建一个已开局的房间，第二个玩家是卧底
func newPlayingRoom(t *testing.T, ids ...string) *Room {
	t.Helper()

	room := NewRoom("room", time.Now())
	for _, id := range ids {
		room.AddPlayer(&Player{ID: id, Nickname: id})
	}

	NewRoleAssigner(fixedPicker{1}, 0).Assign(room.Players, testWords)
	room.Words = testWords
	room.Status = STATUS_PLAYING

	return room
}

func mustVote(t *testing.T, room *Room, voterID, targetID string) {
	t.Helper()

	if _, err := room.CastBallot(voterID, targetID); err != nil {
		t.Fatalf("vote %s -> %s should succeed, got: %v", voterID, targetID, err)
	}
}

// drain 取出连接上已经收到的全部响应
func drain(c *Client) []ResponseWrapper {
	resps := make([]ResponseWrapper, 0)
	for {
		select {
		case resp := <-c.RespCh:
			resps = append(resps, resp)
		default:
			return resps
		}
	}
}

func respTypes(resps []ResponseWrapper) []string {
	types := make([]string, 0, len(resps))
	for _, resp := range resps {
		types = append(types, resp.RespType)
	}

	return types
}

// sequentialIDs 依次返回给定的玩家 ID
func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
