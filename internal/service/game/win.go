package game

// 每轮结算后的游戏走向
const (
	OUTCOME_CONTINUE       = "continue"
	OUTCOME_CIVILIANS_WIN  = "civilians"
	OUTCOME_UNDERCOVER_WIN = "undercover"
)

// EvaluateOutcome 根据存活玩家判断胜负，白板与平民算作同一阵营
func EvaluateOutcome(alive []*Player) string {
	undercoverAlive := 0
	normalAlive := 0

	for _, p := range alive {
		switch p.Role {
		case ROLE_UNDERCOVER:
			undercoverAlive++
		case ROLE_CIVILIAN, ROLE_BLANK:
			normalAlive++
		}
	}

	// 卧底全部出局优先判定，避免空房间被误判为卧底胜利
	if undercoverAlive == 0 {
		return OUTCOME_CIVILIANS_WIN
	}

	if undercoverAlive >= normalAlive {
		return OUTCOME_UNDERCOVER_WIN
	}

	return OUTCOME_CONTINUE
}
