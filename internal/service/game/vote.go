package game

import (
	"slices"
)

// Round 记录一轮投票的全部选票，下标即轮次
type Round struct {
	Number     int
	Voters     []string
	Candidates []string
	// key: 投票者 ID，value: 被投票者 ID
	Ballots map[string]string
	Result  *RoundResult
}

type RoundResult struct {
	Round      int
	Eliminated []*Player
	TopVoted   []*Player
	Alive      []*Player
	Outcome    string
	Forced     bool
}

func (rd *Round) Resolved() bool {
	return rd.Result != nil
}

func (rd *Round) IsVoter(playerID string) bool {
	return slices.Contains(rd.Voters, playerID)
}

func (rd *Round) IsCandidate(playerID string) bool {
	return slices.Contains(rd.Candidates, playerID)
}

func (rd *Round) HasVoted(playerID string) bool {
	_, ok := rd.Ballots[playerID]
	return ok
}

// Tally 统计每位候选人获得的票数，为 0 的不会出现在结果里
func (rd *Round) Tally() map[string]int {
	counts := make(map[string]int, len(rd.Ballots))
	for _, target := range rd.Ballots {
		counts[target]++
	}

	return counts
}

func (rd *Round) complete() bool {
	for _, voterID := range rd.Voters {
		if !rd.HasVoted(voterID) {
			return false
		}
	}

	return true
}

// 玩家中途退出：从投票者和候选人中移除，作废其投出的选票，
// 投给他的选票也作废，这些投票者可以重新投票
// 已广播的响应可能仍引用旧切片，这里总是生成新切片
func (rd *Round) dropParticipant(playerID string) {
	rd.Voters = without(rd.Voters, playerID)
	rd.Candidates = without(rd.Candidates, playerID)

	delete(rd.Ballots, playerID)
	for voterID, targetID := range rd.Ballots {
		if targetID == playerID {
			delete(rd.Ballots, voterID)
		}
	}
}

func without(ids []string, playerID string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != playerID {
			kept = append(kept, id)
		}
	}

	return kept
}

// BeginRound 开启新一轮投票，投票者与候选人由服务器根据存活玩家计算
// candidateIDs 非空时表示房主指定的候选人（例如平票后的 PK），
// 此时投票者为候选人以外的存活玩家
func (r *Room) BeginRound(candidateIDs []string) (*Round, error) {
	if r.Status != STATUS_PLAYING {
		return nil, ErrGameNotStarted
	}

	alive := r.AlivePlayers()
	aliveIDs := make([]string, 0, len(alive))
	for _, p := range alive {
		aliveIDs = append(aliveIDs, p.ID)
	}

	voters := aliveIDs
	candidates := aliveIDs

	if len(candidateIDs) > 0 {
		candidates = make([]string, 0, len(candidateIDs))
		for _, id := range candidateIDs {
			if !slices.Contains(aliveIDs, id) {
				return nil, ErrNotEligibleCandidate
			}
			if !slices.Contains(candidates, id) {
				candidates = append(candidates, id)
			}
		}

		voters = make([]string, 0, len(aliveIDs))
		for _, id := range aliveIDs {
			if !slices.Contains(candidates, id) {
				voters = append(voters, id)
			}
		}

		if len(voters) == 0 {
			voters = aliveIDs
		}
	}

	// 未结算的上一轮直接作废
	if cur := r.CurrentRound(); cur != nil && !cur.Resolved() {
		r.Rounds = r.Rounds[:len(r.Rounds)-1]
	}

	round := &Round{
		Number:     len(r.Rounds) + 1,
		Voters:     slices.Clone(voters),
		Candidates: slices.Clone(candidates),
		Ballots:    make(map[string]string),
	}

	r.Rounds = append(r.Rounds, round)

	return round, nil
}

// CastBallot 记录一张选票；所有投票者都投完后自动结算，此时返回结算结果
func (r *Room) CastBallot(voterID, targetID string) (*RoundResult, error) {
	round := r.CurrentRound()
	if round == nil || round.Resolved() {
		return nil, ErrNoActiveRound
	}

	if !round.IsVoter(voterID) {
		return nil, ErrNotEligibleVoter
	}

	if !round.IsCandidate(targetID) {
		return nil, ErrNotEligibleCandidate
	}

	if round.HasVoted(voterID) {
		return nil, ErrAlreadyVoted
	}

	round.Ballots[voterID] = targetID

	return r.ResolveIfComplete(), nil
}

// ResolveIfComplete 在当前轮所有投票者都已投票时结算
func (r *Room) ResolveIfComplete() *RoundResult {
	round := r.CurrentRound()
	if round == nil || round.Resolved() || !round.complete() {
		return nil
	}

	return r.resolve(round, false)
}

// ResolveRound 强制结算当前轮；已结算的轮次直接返回原结果
func (r *Room) ResolveRound() (*RoundResult, error) {
	round := r.CurrentRound()
	if round == nil {
		return nil, ErrNoActiveRound
	}

	if round.Resolved() {
		return round.Result, nil
	}

	return r.resolve(round, true), nil
}

func (r *Room) resolve(round *Round, forced bool) *RoundResult {
	counts := round.Tally()

	maxVotes := 0
	for _, p := range r.AlivePlayers() {
		if counts[p.ID] > maxVotes {
			maxVotes = counts[p.ID]
		}
	}

	topVoted := make([]*Player, 0)
	if maxVotes > 0 {
		for _, p := range r.AlivePlayers() {
			if counts[p.ID] == maxVotes {
				topVoted = append(topVoted, p)
			}
		}
	}

	// 平票时无人出局
	eliminated := make([]*Player, 0, 1)
	if len(topVoted) == 1 {
		topVoted[0].IsDead = true
		eliminated = append(eliminated, topVoted[0])
	}

	alive := r.AlivePlayers()
	outcome := EvaluateOutcome(alive)

	if outcome != OUTCOME_CONTINUE {
		r.Status = STATUS_FINISHED
	}

	round.Result = &RoundResult{
		Round:      round.Number,
		Eliminated: eliminated,
		TopVoted:   topVoted,
		Alive:      alive,
		Outcome:    outcome,
		Forced:     forced,
	}

	return round.Result
}
