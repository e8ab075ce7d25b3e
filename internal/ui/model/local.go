// Package model 终端客户端的 bubbletea 模型
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/guandan/internal/apperrors"
	gameClient "github.com/palemoky/guandan/internal/client"
	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/ui/input"
	"github.com/palemoky/guandan/internal/ui/view"
)

// HumanSeat 单机模式下玩家的座位
const HumanSeat = 0

// 机器人每步之间的停顿
const botDelay = 600 * time.Millisecond

type botTurnMsg struct{}

// LocalModel 单机模式：一名玩家和三个机器人
type LocalModel struct {
	room    *game.GameRoom
	counter *gameClient.CardCounter
	input   textinput.Model
	hint    []card.Card
	notices []string
	width   int
	delay   time.Duration
}

// NewLocalModel 创建单机模式
func NewLocalModel(name string, level card.Level) *LocalModel {
	players := [game.SeatCount]*game.Player{
		{ID: "me", Name: name},
		{ID: "bot-1", Name: "机器人1", Bot: true},
		{ID: "bot-2", Name: "机器人2", Bot: true},
		{ID: "bot-3", Name: "机器人3", Bot: true},
	}

	ti := textinput.New()
	ti.Placeholder = "输入要出的牌，p 不出，? 提示，help 查看说明"
	ti.CharLimit = 64
	ti.Width = 50
	ti.Focus()

	return &LocalModel{
		room:    game.NewGameRoom("LOCAL", players, level),
		counter: gameClient.NewCardCounter(),
		input:   ti,
		delay:   botDelay,
	}
}

func (m *LocalModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startHand())
}

// startHand 发牌并在机器人先手时安排它出牌
func (m *LocalModel) startHand() tea.Cmd {
	if err := m.room.InitGame(); err != nil {
		if errors.Is(err, apperrors.ErrMatchOver) {
			m.notify("🏆 比赛已结束，输入 quit 退出")
			return nil
		}
		m.notify("⚠️ " + err.Error())
		return nil
	}

	m.hint = nil
	m.counter.Reset()
	m.counter.DeductCards(m.room.HandOf(HumanSeat))
	m.notify(fmt.Sprintf("🃏 第 %d 局开始，打 %s", m.room.HandNumber, m.room.Level))
	if st := m.room.TributeInfo(); st != nil {
		m.notify(m.describeTribute(st))
	}
	return m.scheduleBot()
}

func (m *LocalModel) scheduleBot() tea.Cmd {
	if m.room.Finished || m.room.CurrentSeat() == HumanSeat {
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return botTurnMsg{} })
}

func (m *LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case botTurnMsg:
		return m, m.botTurn()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			return m, m.handleLine(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// botTurn 让当前机器人出一手
func (m *LocalModel) botTurn() tea.Cmd {
	seat := m.room.CurrentSeat()
	if m.room.Finished || seat == HumanSeat || seat < 0 {
		return nil
	}
	cards := m.room.SuggestPlay(seat)
	if err := m.room.Play(seat, cards); err != nil {
		m.notify("⚠️ " + err.Error())
		return nil
	}
	m.counter.DeductCards(cards)
	m.afterMove(seat, cards)
	return m.scheduleBot()
}

func (m *LocalModel) handleLine(line string) tea.Cmd {
	cmd, ok := input.Parse(line)
	if !ok {
		return nil
	}

	switch cmd.Kind {
	case input.Quit:
		return tea.Quit
	case input.Help:
		m.notify(input.HelpText)
		return nil
	case input.Next:
		if !m.room.Finished {
			m.notify("⚠️ 本局还没结束")
			return nil
		}
		return m.startHand()
	case input.Hint:
		m.hint = m.room.SuggestPlay(HumanSeat)
		if len(m.hint) == 0 {
			m.notify("💡 建议不出")
		}
		return nil
	case input.Pass:
		return m.humanPlay(nil)
	case input.Play:
		cards, err := card.ParseCards(m.room.HandOf(HumanSeat), cmd.Arg, m.room.Level)
		if err != nil {
			m.notify("⚠️ " + err.Error())
			return nil
		}
		return m.humanPlay(cards)
	default:
		m.notify("⚠️ 单机模式不支持该命令")
		return nil
	}
}

func (m *LocalModel) humanPlay(cards []card.Card) tea.Cmd {
	if err := m.room.Play(HumanSeat, cards); err != nil {
		m.notify("⚠️ " + err.Error())
		return nil
	}
	m.hint = nil
	m.afterMove(HumanSeat, cards)
	return m.scheduleBot()
}

// afterMove 记录一手牌的提示，本局结束时给出结果
func (m *LocalModel) afterMove(seat int, cards []card.Card) {
	name := m.room.Players[seat].Name
	if len(cards) == 0 {
		m.notify(name + " 不出")
	} else {
		pattern, _ := m.room.TablePattern()
		m.notify(fmt.Sprintf("%s 出了 %s [%s]", name, card.FormatCards(cards), pattern.Type))
	}

	if m.room.Finished {
		res := m.room.LastResult
		outcome := "输了"
		if res.WinningTeam == game.TeamOf(HumanSeat) {
			outcome = "赢了"
		}
		m.notify(fmt.Sprintf("🏁 你们%s，胜方升 %d 级，输入 n 开始下一局", outcome, res.Upgrade))
	}
}

func (m *LocalModel) describeTribute(st *game.TributeState) string {
	if st.AntiTribute {
		return "🛡️ 抗贡成功"
	}
	msg := "🎁"
	for _, t := range st.Transfers {
		verb := "进贡"
		if t.Return {
			verb = "还贡"
		}
		msg += fmt.Sprintf(" %s%s%s给%s", m.room.Players[t.From].Name, verb, t.Card, m.room.Players[t.To].Name)
	}
	return msg
}

func (m *LocalModel) notify(text string) {
	m.notices = append(m.notices, text)
	if len(m.notices) > 50 {
		m.notices = m.notices[len(m.notices)-50:]
	}
}

func (m *LocalModel) View() string {
	return view.RenderTable(view.Table{
		View:    m.room.Snapshot(HumanSeat),
		Counter: m.counter,
		Hint:    m.hint,
		Notices: m.notices,
		Input:   m.input.View(),
		Width:   m.width,
	})
}
