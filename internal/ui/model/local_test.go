package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game/card"
)

func enter(m tea.Model, line string) (tea.Model, tea.Cmd) {
	lm := m.(*LocalModel)
	lm.input.SetValue(line)
	return lm.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

// playOut 人类按提示出牌、机器人自动出牌，直到本局结束
func playOut(t *testing.T, m *LocalModel) {
	t.Helper()
	for steps := 0; !m.room.Finished; steps++ {
		require.Less(t, steps, 2000, "hand did not terminate")
		if m.room.CurrentSeat() != HumanSeat {
			m.Update(botTurnMsg{})
			continue
		}
		enter(m, "?")
		if len(m.hint) == 0 {
			enter(m, "p")
			continue
		}
		m.humanPlay(m.hint)
	}
}

func TestLocalModel_PlaysWholeHand(t *testing.T) {
	t.Parallel()

	m := NewLocalModel("我", card.StartLevel)
	m.startHand()
	require.True(t, m.room.Started)
	assert.Len(t, m.room.HandOf(HumanSeat), card.HandSize)
	assert.Equal(t, card.DeckSize-card.HandSize, m.counter.Total())

	playOut(t, m)
	assert.Contains(t, m.notices[len(m.notices)-1], "🏁")
	assert.Contains(t, m.View(), "第 1 局")

	enter(m, "n")
	assert.Equal(t, 2, m.room.HandNumber)
	assert.NotNil(t, m.room.TributeInfo())
}

func TestLocalModel_Rejections(t *testing.T) {
	t.Parallel()

	m := NewLocalModel("我", card.StartLevel)
	m.startHand()
	for m.room.CurrentSeat() != HumanSeat && !m.room.Finished {
		m.Update(botTurnMsg{})
	}

	enter(m, "n")
	assert.Contains(t, m.notices[len(m.notices)-1], "还没结束")

	enter(m, "XYZ")
	assert.Contains(t, m.notices[len(m.notices)-1], "⚠️")

	enter(m, "join 123456")
	assert.Contains(t, m.notices[len(m.notices)-1], "不支持")

	_, cmd := enter(m, "quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLocalModel_HumanMove(t *testing.T) {
	t.Parallel()

	m := NewLocalModel("我", card.StartLevel)
	m.startHand()
	for m.room.CurrentSeat() != HumanSeat && !m.room.Finished {
		m.Update(botTurnMsg{})
	}
	require.Equal(t, HumanSeat, m.room.CurrentSeat())

	enter(m, "?")
	hint := m.hint
	if len(hint) == 0 {
		enter(m, "p")
	} else {
		enter(m, "W")
		// 没有逢人配或牌型不合法时只会得到提示，不改变牌桌
		if m.room.CurrentSeat() == HumanSeat {
			m.room.PlayCards(HumanSeat, hint)
		}
	}
	assert.NotEqual(t, HumanSeat, m.room.CurrentSeat())
}
