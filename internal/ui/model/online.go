package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gameClient "github.com/palemoky/guandan/internal/client"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/convert"
	"github.com/palemoky/guandan/internal/transport"
	"github.com/palemoky/guandan/internal/ui/common"
	"github.com/palemoky/guandan/internal/ui/input"
	"github.com/palemoky/guandan/internal/ui/view"
)

const connectTimeout = 10 * time.Second

// Sender 发送消息给服务器
type Sender interface {
	Send(msgType protocol.MessageType, payload any) error
}

type (
	connectedMsg    struct{ client *transport.Client }
	connectErrMsg   struct{ err error }
	serverMsg       struct{ msg *protocol.Message }
	disconnectedMsg struct{}
)

// OnlineModel 联网模式
type OnlineModel struct {
	serverURL string
	client    *transport.Client
	sender    Sender
	state     *gameClient.GameState
	input     textinput.Model
	notices   []string
	width     int
	err       error
}

// NewOnlineModel 创建联网模式
func NewOnlineModel(serverURL string) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "create / join 房间号 / match，help 查看说明"
	ti.CharLimit = 64
	ti.Width = 50
	ti.Focus()

	return &OnlineModel{
		serverURL: serverURL,
		state:     gameClient.NewGameState(),
		input:     ti,
	}
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connect())
}

func (m *OnlineModel) connect() tea.Cmd {
	return func() tea.Msg {
		c := transport.NewClient(m.serverURL)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := c.Connect(ctx); err != nil {
			return connectErrMsg{err: err}
		}
		return connectedMsg{client: c}
	}
}

// waitForMessage 等待下一条服务端消息
func (m *OnlineModel) waitForMessage() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		msg, ok := <-c.Messages()
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case connectedMsg:
		m.client = msg.client
		m.sender = msg.client
		return m, m.waitForMessage()

	case connectErrMsg:
		m.err = msg.err
		return m, nil

	case disconnectedMsg:
		m.notify("🔌 与服务器的连接已断开，输入 quit 退出")
		m.sender = nil
		return m, nil

	case serverMsg:
		m.handleServerMessage(msg.msg)
		return m, m.waitForMessage()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.quit()
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

// handleServerMessage 更新本地状态，牌局有变化时拉取快照
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) {
	notice, refresh, err := m.state.Apply(msg)
	if err != nil {
		m.notify("⚠️ 消息解析失败: " + err.Error())
		return
	}
	if notice != "" {
		m.notify(notice)
	}
	if refresh && m.state.RoomCode != "" {
		m.send(protocol.MsgGetState, nil)
	}
}

func (m *OnlineModel) handleLine(line string) tea.Cmd {
	cmd, ok := input.Parse(line)
	if !ok {
		return nil
	}

	switch cmd.Kind {
	case input.Quit:
		return m.quit()
	case input.Help:
		m.notify(input.HelpText)
	case input.Create:
		level, err := input.LevelArg(cmd.Arg)
		if err != nil {
			m.notify("⚠️ 无效的级别: " + cmd.Arg)
			return nil
		}
		m.send(protocol.MsgCreateRoom, protocol.CreateRoomPayload{StartLevel: level})
	case input.Join:
		if cmd.Arg == "" {
			m.notify("⚠️ 请输入房间号")
			return nil
		}
		m.send(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: cmd.Arg})
	case input.Match:
		m.send(protocol.MsgQuickMatch, nil)
		m.notify("🔍 正在匹配...")
	case input.Ready:
		m.send(protocol.MsgReady, nil)
	case input.Unready:
		m.send(protocol.MsgCancelReady, nil)
	case input.Bots:
		m.send(protocol.MsgAddBots, nil)
	case input.Leave:
		m.send(protocol.MsgLeaveRoom, nil)
	case input.Stats:
		m.send(protocol.MsgGetStats, nil)
	case input.Top:
		m.send(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Type: "total", Limit: 10})
	case input.Pause:
		m.send(protocol.MsgPause, nil)
	case input.Resume:
		m.send(protocol.MsgResume, nil)
	case input.State:
		m.send(protocol.MsgGetState, nil)
	case input.Hint:
		m.send(protocol.MsgHint, nil)
	case input.Next:
		m.send(protocol.MsgReady, nil)
	case input.Pass:
		m.send(protocol.MsgPass, nil)
	case input.Play:
		if !m.state.HasView {
			m.notify("⚠️ 还没有开局")
			return nil
		}
		cards, err := card.ParseCards(m.state.Hand(), cmd.Arg, m.state.View.Level)
		if err != nil {
			m.notify("⚠️ " + err.Error())
			return nil
		}
		m.send(protocol.MsgPlayCards, protocol.PlayCardsPayload{Cards: convert.CardsToInfos(cards)})
	}
	return nil
}

func (m *OnlineModel) send(msgType protocol.MessageType, payload any) {
	if m.sender == nil {
		m.notify("⚠️ 尚未连接服务器")
		return
	}
	if err := m.sender.Send(msgType, payload); err != nil {
		m.notify("⚠️ 发送失败: " + err.Error())
	}
}

func (m *OnlineModel) quit() tea.Cmd {
	if m.client != nil {
		m.client.Close()
	}
	return tea.Quit
}

func (m *OnlineModel) notify(text string) {
	m.notices = append(m.notices, text)
	if len(m.notices) > 50 {
		m.notices = m.notices[len(m.notices)-50:]
	}
}

func (m *OnlineModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	if m.err != nil {
		return common.DocStyle.Render(center(common.ErrorStyle.Render(fmt.Sprintf("无法连接 %s: %v\n按 Esc 退出", m.serverURL, m.err))))
	}
	if m.sender == nil && m.state.PlayerID == "" {
		return common.DocStyle.Render(center("正在连接 " + m.serverURL + " ..."))
	}

	if m.state.HasView && m.state.View.Started {
		return view.RenderTable(view.Table{
			View:    m.state.View,
			Counter: m.state.CardCounter,
			Hint:    m.state.Hint,
			Notices: m.notices,
			Input:   m.input.View(),
			Width:   width,
		})
	}

	var sb strings.Builder
	sb.WriteString(center(common.TitleStyle(fmt.Sprintf("🀄 掼蛋 · %s", m.state.PlayerName))))
	sb.WriteString("\n\n")
	if m.state.RoomCode != "" {
		sb.WriteString(center(view.RenderRoom(m.state.RoomCode, m.state.Players, m.state.PlayerID)))
		sb.WriteString("\n")
	}
	if notices := view.RenderNotices(m.notices); notices != "" {
		sb.WriteString(center(notices))
		sb.WriteString("\n")
	}
	sb.WriteString(center(common.PromptStyle.Render(m.input.View())))
	return common.DocStyle.Render(sb.String())
}
