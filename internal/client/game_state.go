package client

import (
	"fmt"
	"strings"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/protocol/convert"
)

// GameState 客户端维护的牌桌状态
type GameState struct {
	PlayerID   string
	PlayerName string
	RoomCode   string
	Players    []protocol.PlayerInfo

	// 最近一次拉取的牌桌快照，手牌以它为准
	View    game.View
	HasView bool

	Turn   *protocol.PlayTurnPayload
	Hint   []card.Card
	Result *protocol.HandOverPayload

	Stats       *protocol.StatsResultPayload
	Leaderboard []protocol.LeaderboardEntry

	CardCounter *CardCounter
}

// NewGameState 创建客户端状态
func NewGameState() *GameState {
	return &GameState{CardCounter: NewCardCounter()}
}

// Hand 自己的手牌
func (gs *GameState) Hand() []card.Card {
	return gs.View.Hand
}

// MySeat 自己的座位，未入座时为 -1
func (gs *GameState) MySeat() int {
	for _, p := range gs.Players {
		if p.ID == gs.PlayerID {
			return p.Seat
		}
	}
	return -1
}

// MyTurn 是否轮到自己出牌
func (gs *GameState) MyTurn() bool {
	return gs.Turn != nil && gs.Turn.PlayerID == gs.PlayerID
}

// SeatName 座位上的玩家名
func (gs *GameState) SeatName(seat int) string {
	for _, p := range gs.Players {
		if p.Seat == seat {
			return p.Name
		}
	}
	return fmt.Sprintf("座位%d", seat+1)
}

// ApplyView 用服务端快照覆盖本地状态
func (gs *GameState) ApplyView(v game.View) {
	gs.View = v
	gs.HasView = true
}

// Apply 处理一条服务端消息，返回要展示的提示以及是否需要重新拉取快照
func (gs *GameState) Apply(msg *protocol.Message) (notice string, refresh bool, err error) {
	switch msg.Type {
	case protocol.MsgConnected:
		p, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.PlayerID, gs.PlayerName = p.PlayerID, p.PlayerName
		return fmt.Sprintf("✅ 已连接，你是 %s", p.PlayerName), false, nil

	case protocol.MsgRoomCreated:
		p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.RoomCode = p.RoomCode
		gs.Players = []protocol.PlayerInfo{p.Player}
		return fmt.Sprintf("🏠 房间 %s 已创建", p.RoomCode), false, nil

	case protocol.MsgRoomJoined:
		p, err := codec.ParsePayload[protocol.RoomJoinedPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.RoomCode = p.RoomCode
		gs.Players = p.Players
		return fmt.Sprintf("🚪 已加入房间 %s", p.RoomCode), false, nil

	case protocol.MsgMatchFound:
		p, err := codec.ParsePayload[protocol.MatchFoundPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.RoomCode = p.RoomCode
		gs.Players = p.Players
		return fmt.Sprintf("🎯 匹配成功，房间 %s", p.RoomCode), false, nil

	case protocol.MsgPlayerJoined:
		p, err := codec.ParsePayload[protocol.PlayerJoinedPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.upsertPlayer(p.Player)
		return fmt.Sprintf("👋 %s 加入了房间", p.Player.Name), false, nil

	case protocol.MsgPlayerLeft:
		p, err := codec.ParsePayload[protocol.PlayerLeftPayload](msg)
		if err != nil {
			return "", false, err
		}
		if p.PlayerID == gs.PlayerID {
			gs.leaveRoom()
			return "🚶 已离开房间", false, nil
		}
		gs.removePlayer(p.PlayerID)
		return fmt.Sprintf("🚶 %s 离开了房间", p.PlayerName), gs.HasView, nil

	case protocol.MsgPlayerReady:
		p, err := codec.ParsePayload[protocol.PlayerReadyPayload](msg)
		if err != nil {
			return "", false, err
		}
		for i := range gs.Players {
			if gs.Players[i].ID == p.PlayerID {
				gs.Players[i].Ready = p.Ready
			}
		}
		return "", false, nil

	case protocol.MsgHandStart:
		p, err := codec.ParsePayload[protocol.HandStartPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Players = p.Players
		gs.Result = nil
		gs.Hint = nil
		gs.Turn = nil
		return fmt.Sprintf("🃏 第 %d 局开始，打 %s", p.HandNumber, p.Level), true, nil

	case protocol.MsgDealCards:
		p, err := codec.ParsePayload[protocol.DealCardsPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.CardCounter.Reset()
		gs.CardCounter.DeductCards(convert.InfosToCards(p.Cards))
		return "", true, nil

	case protocol.MsgTribute:
		p, err := codec.ParsePayload[protocol.TributePayload](msg)
		if err != nil {
			return "", false, err
		}
		return gs.describeTribute(p), false, nil

	case protocol.MsgPlayTurn:
		p, err := codec.ParsePayload[protocol.PlayTurnPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Turn = p
		gs.Hint = nil
		if p.PlayerID == gs.PlayerID {
			return "👉 轮到你出牌", true, nil
		}
		return "", true, nil

	case protocol.MsgCardPlayed:
		p, err := codec.ParsePayload[protocol.CardPlayedPayload](msg)
		if err != nil {
			return "", false, err
		}
		cards := convert.InfosToCards(p.Cards)
		if p.PlayerID != gs.PlayerID {
			gs.CardCounter.DeductCards(cards)
		}
		return fmt.Sprintf("%s 出了 %s [%s]", p.PlayerName, card.FormatCards(cards), p.PatternType), true, nil

	case protocol.MsgPlayerPass:
		p, err := codec.ParsePayload[protocol.PlayerPassPayload](msg)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%s 不出", p.PlayerName), true, nil

	case protocol.MsgTrickCleared:
		p, err := codec.ParsePayload[protocol.TrickClearedPayload](msg)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("🔄 新一轮，%s 领出", gs.SeatName(p.Leader)), true, nil

	case protocol.MsgPlayerFinished:
		p, err := codec.ParsePayload[protocol.PlayerFinishedPayload](msg)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("🏅 %s 第 %d 个出完", gs.SeatName(p.Seat), p.Place), true, nil

	case protocol.MsgHandOver:
		p, err := codec.ParsePayload[protocol.HandOverPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Result = p
		gs.Turn = nil
		for i := range gs.Players {
			gs.Players[i].Ready = gs.Players[i].Bot
		}
		return gs.describeResult(p), true, nil

	case protocol.MsgMatchOver:
		return "🏆 整场比赛结束，准备后开始新的一场", false, nil

	case protocol.MsgGameState:
		v, err := codec.ParsePayload[game.View](msg)
		if err != nil {
			return "", false, err
		}
		gs.ApplyView(*v)
		return "", false, nil

	case protocol.MsgHintResult:
		p, err := codec.ParsePayload[protocol.HintResultPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Hint = convert.InfosToCards(p.Cards)
		if len(gs.Hint) == 0 {
			return "💡 建议不出", false, nil
		}
		return "💡 建议: " + card.FormatCards(gs.Hint), false, nil

	case protocol.MsgGamePaused:
		p, err := codec.ParsePayload[protocol.GamePausedPayload](msg)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("⏸️ %s 暂停了游戏", p.PlayerName), true, nil

	case protocol.MsgGameResumed:
		p, err := codec.ParsePayload[protocol.GamePausedPayload](msg)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("▶️ %s 继续了游戏", p.PlayerName), true, nil

	case protocol.MsgStatsResult:
		p, err := codec.ParsePayload[protocol.StatsResultPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Stats = p
		return fmt.Sprintf("📊 %d 局 %d 胜，积分 %d，排名 %d", p.TotalGames, p.Wins, p.Score, p.Rank), false, nil

	case protocol.MsgLeaderboardResult:
		p, err := codec.ParsePayload[protocol.LeaderboardResultPayload](msg)
		if err != nil {
			return "", false, err
		}
		gs.Leaderboard = p.Entries
		return fmt.Sprintf("🏆 排行榜共 %d 条", len(p.Entries)), false, nil

	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return "", false, err
		}
		return "⚠️ " + p.Message, false, nil
	}
	return "", false, nil
}

func (gs *GameState) upsertPlayer(p protocol.PlayerInfo) {
	for i := range gs.Players {
		if gs.Players[i].Seat == p.Seat {
			gs.Players[i] = p
			return
		}
	}
	gs.Players = append(gs.Players, p)
}

func (gs *GameState) removePlayer(id string) {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			gs.Players = append(gs.Players[:i], gs.Players[i+1:]...)
			return
		}
	}
}

func (gs *GameState) leaveRoom() {
	gs.RoomCode = ""
	gs.Players = nil
	gs.View = game.View{}
	gs.HasView = false
	gs.Turn = nil
	gs.Hint = nil
	gs.Result = nil
	gs.CardCounter.Reset()
}

func (gs *GameState) describeTribute(p *protocol.TributePayload) string {
	if p.AntiTribute {
		return "🛡️ 抗贡成功"
	}
	parts := make([]string, 0, len(p.Transfers))
	for _, t := range p.Transfers {
		verb := "进贡"
		if t.Return {
			verb = "还贡"
		}
		parts = append(parts, fmt.Sprintf("%s %s %s 给 %s",
			gs.SeatName(t.From), verb, convert.InfoToCard(t.Card), gs.SeatName(t.To)))
	}
	return "🎁 " + strings.Join(parts, "，")
}

func (gs *GameState) describeResult(p *protocol.HandOverPayload) string {
	outcome := "输了"
	if seat := gs.MySeat(); seat >= 0 && game.TeamOf(seat) == p.WinningTeam {
		outcome = "赢了"
	}
	return fmt.Sprintf("🏁 第 %d 局结束，你们%s，胜方升 %d 级（%s → %s）",
		p.HandNumber, outcome, p.Upgrade, p.LevelBefore, p.LevelAfter)
}
