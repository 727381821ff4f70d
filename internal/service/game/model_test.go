package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertHost(t *testing.T, room *Room) {
	t.Helper()

	if room.IsEmpty() {
		assert.Empty(t, room.HostID)
		return
	}

	assert.Equal(t, room.Players[0].ID, room.HostID)
}

func TestRoom_HostFollowsJoinOrder(t *testing.T) {
	room := NewRoom("R1", time.Now())
	assertHost(t, room)

	for _, id := range []string{"a", "b", "c"} {
		room.AddPlayer(&Player{ID: id})
		assertHost(t, room)
	}

	require.True(t, room.RemovePlayer("b"))
	assertHost(t, room)
	assert.Equal(t, "a", room.HostID)

	require.True(t, room.RemovePlayer("a"))
	assertHost(t, room)
	assert.Equal(t, "c", room.HostID)

	assert.False(t, room.RemovePlayer("a"), "removing twice should report false")

	require.True(t, room.RemovePlayer("c"))
	assertHost(t, room)
	assert.True(t, room.IsEmpty())
}

func TestRoom_LateJoinerIsNotAlive(t *testing.T) {
	room := newPlayingRoom(t, "a", "b", "c", "d")
	room.AddPlayer(&Player{ID: "late"})

	alive := room.AlivePlayers()
	assert.Len(t, alive, 4)

	round, err := room.BeginRound(nil)
	require.NoError(t, err)
	assert.False(t, round.IsVoter("late"))
	assert.False(t, round.IsCandidate("late"))
}

func TestRoom_ViewDerivesVoteCounters(t *testing.T) {
	room := newPlayingRoom(t, "a", "b", "c", "d")

	_, err := room.BeginRound(nil)
	require.NoError(t, err)

	mustVote(t, room, "a", "c")
	mustVote(t, room, "d", "c")

	view := room.View()
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, "a", view.Host)

	byID := map[string]PlayerView{}
	for _, u := range view.Users {
		byID[u.ID] = u
	}

	assert.True(t, byID["a"].HaveVoted)
	assert.False(t, byID["c"].HaveVoted)
	assert.Equal(t, 2, byID["c"].VoteCount)
	assert.Equal(t, 0, byID["a"].VoteCount)

	// 新一轮开始后计数清零
	result, err := room.ResolveRound()
	require.NoError(t, err)
	require.Equal(t, OUTCOME_CONTINUE, result.Outcome)

	_, err = room.BeginRound(nil)
	require.NoError(t, err)

	for _, u := range room.View().Users {
		assert.False(t, u.HaveVoted)
		assert.Zero(t, u.VoteCount)
	}
}
