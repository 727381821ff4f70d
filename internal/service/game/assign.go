package game

import (
	"math/rand"
)

// Picker 从 n 个位置中选出 k 个互不相同的下标
type Picker interface {
	Pick(k, n int) []int
}

// RandPicker 是默认的均匀随机选择器
type RandPicker struct{}

func (RandPicker) Pick(k, n int) []int {
	if k > n {
		k = n
	}

	return rand.Perm(n)[:k]
}

// RoleAssigner 负责开局时的身份与词语分配
type RoleAssigner struct {
	Picker     Picker
	BlankCount int
}

func NewRoleAssigner(picker Picker, blankCount int) *RoleAssigner {
	if picker == nil {
		picker = RandPicker{}
	}

	return &RoleAssigner{
		Picker:     picker,
		BlankCount: blankCount,
	}
}

// 白板数量至少要保证场上还剩两名平民
func (ra *RoleAssigner) blanksFor(n int) int {
	blanks := ra.BlankCount
	if blanks > n-3 {
		blanks = n - 3
	}
	if blanks < 0 {
		blanks = 0
	}

	return blanks
}

// Assign 为全部玩家重新分配身份和词语，并重置为新一局
// 调用者需保证人数已经满足开局要求
func (ra *RoleAssigner) Assign(players []*Player, words WordPair) {
	n := len(players)
	if n == 0 {
		return
	}

	picked := ra.Picker.Pick(1+ra.blanksFor(n), n)

	for _, p := range players {
		p.Role = ROLE_CIVILIAN
		p.Word = words.Primary
		p.IsDead = false
	}

	// 第一个被选中的是卧底，其余是白板
	for i, idx := range picked {
		p := players[idx]
		if i == 0 {
			p.Role = ROLE_UNDERCOVER
			p.Word = words.Secondary
			continue
		}

		p.Role = ROLE_BLANK
		p.Word = ""
	}
}
