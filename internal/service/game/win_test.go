package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateOutcome(t *testing.T) {
	p := func(role string) *Player {
		return &Player{Role: role}
	}

	tests := []struct {
		name  string
		alive []*Player
		want  string
	}{
		{"two civilians", []*Player{p(ROLE_CIVILIAN), p(ROLE_CIVILIAN)}, OUTCOME_CIVILIANS_WIN},
		{"undercover equals civilians", []*Player{p(ROLE_UNDERCOVER), p(ROLE_CIVILIAN)}, OUTCOME_UNDERCOVER_WIN},
		{"undercover outnumbered", []*Player{p(ROLE_CIVILIAN), p(ROLE_CIVILIAN), p(ROLE_UNDERCOVER)}, OUTCOME_CONTINUE},
		{"blank counts with civilians", []*Player{p(ROLE_BLANK), p(ROLE_CIVILIAN), p(ROLE_UNDERCOVER)}, OUTCOME_CONTINUE},
		{"undercover and blank", []*Player{p(ROLE_BLANK), p(ROLE_UNDERCOVER)}, OUTCOME_UNDERCOVER_WIN},
		{"nobody alive", nil, OUTCOME_CIVILIANS_WIN},
		{"unassigned players ignored", []*Player{p(ROLE_UNDERCOVER), p(ROLE_UNSET), p(ROLE_UNSET)}, OUTCOME_UNDERCOVER_WIN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateOutcome(tt.alive))
		})
	}
}
