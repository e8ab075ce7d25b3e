// Package view 终端界面的渲染
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	gameClient "github.com/palemoky/guandan/internal/client"
	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/ui/common"
)

const (
	maxNotices = 8
	nameWidth  = 8
)

// counterOrder 记牌器的展示顺序
var counterOrder = []card.Face{
	card.FaceRedJoker, card.FaceBlackJoker, card.FaceA, card.FaceK, card.FaceQ, card.FaceJ,
	card.Face10, card.Face9, card.Face8, card.Face7, card.Face6, card.Face5, card.Face4, card.Face3, card.Face2,
}

// Table 渲染牌桌所需的数据
type Table struct {
	View    game.View
	Counter *gameClient.CardCounter
	Hint    []card.Card
	Notices []string
	Input   string
	Width   int
}

// RenderCard 渲染单张牌，逢人配高亮
func RenderCard(c card.Card, level card.Level) string {
	switch {
	case c.Face == card.FaceRedJoker:
		return common.RedStyle.Render("大王")
	case c.Face == card.FaceBlackJoker:
		return common.BlackStyle.Render("小王")
	case c.IsWild(level):
		return common.WildStyle.Render(c.String())
	case c.Suit == card.Heart || c.Suit == card.Diamond:
		return common.RedStyle.Render(c.String())
	default:
		return common.BlackStyle.Render(c.String())
	}
}

// RenderCards 渲染一组牌
func RenderCards(cards []card.Card, level card.Level) string {
	if len(cards) == 0 {
		return common.GrayStyle.Render("不出")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = RenderCard(c, level)
	}
	return strings.Join(parts, " ")
}

// RenderTable 渲染整个牌桌
func RenderTable(t Table) string {
	v := t.View
	me := v.ViewerSeat
	width := t.Width
	if width <= 0 {
		width = 80
	}
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	var sb strings.Builder

	title := fmt.Sprintf("🀄 掼蛋 · 打 %s · 第 %d 局", v.Level, v.HandNumber)
	if v.Paused {
		title += " · ⏸️ 已暂停"
	}
	sb.WriteString(center(common.TitleStyle(title)))
	sb.WriteString("\n\n")

	if me >= 0 {
		teammate := game.Teammate(me)
		left, right := (me+3)%game.SeatCount, (me+1)%game.SeatCount

		sb.WriteString(center(seatBlock(v, teammate)))
		sb.WriteString("\n")
		sides := lipgloss.JoinHorizontal(lipgloss.Top,
			seatBlock(v, left), "    ", trickBlock(v), "    ", seatBlock(v, right))
		sb.WriteString(center(sides))
		sb.WriteString("\n")

		hand := slices.Clone(v.Hand)
		card.SortHand(hand, v.Level)
		sb.WriteString(center(seatLine(v, me)))
		sb.WriteString("\n")
		sb.WriteString(center(RenderCards(hand, v.Level)))
		sb.WriteString("\n")
	} else {
		for seat := range game.SeatCount {
			sb.WriteString(center(seatLine(v, seat)))
			sb.WriteString("\n")
		}
		sb.WriteString(center(trickBlock(v)))
		sb.WriteString("\n")
	}

	if len(t.Hint) > 0 {
		sb.WriteString(center("💡 " + RenderCards(t.Hint, v.Level)))
		sb.WriteString("\n")
	}
	if t.Counter != nil {
		sb.WriteString(center(RenderCounter(t.Counter)))
		sb.WriteString("\n")
	}
	if v.Finished && v.LastResult != nil {
		sb.WriteString(center(RenderResult(*v.LastResult, v)))
		sb.WriteString("\n")
	}
	if notices := RenderNotices(t.Notices); notices != "" {
		sb.WriteString(center(notices))
		sb.WriteString("\n")
	}
	if t.Input != "" {
		sb.WriteString(center(common.PromptStyle.Render(t.Input)))
	}
	return common.DocStyle.Render(sb.String())
}

func seatOf(v game.View, seat int) (game.SeatView, bool) {
	for _, s := range v.Seats {
		if s.Seat == seat {
			return s, true
		}
	}
	return game.SeatView{}, false
}

// seatLine 座位信息：名字、剩余牌数、名次
func seatLine(v game.View, seat int) string {
	s, ok := seatOf(v, seat)
	if !ok {
		return common.GrayStyle.Render("（空座）")
	}

	var icons []string
	if v.CurrentSeat == seat {
		icons = append(icons, common.TurnIcon)
	}
	switch {
	case seat == v.ViewerSeat:
		icons = append(icons, common.MeIcon)
	case v.ViewerSeat >= 0 && seat == game.Teammate(v.ViewerSeat):
		icons = append(icons, common.TeammateIcon)
	}
	if s.Bot {
		icons = append(icons, common.BotIcon)
	}

	line := fmt.Sprintf("%s %s [%d 张]", strings.Join(icons, ""), common.TruncateName(s.Name, nameWidth), s.CardsLeft)
	if s.Rank > 0 {
		line += fmt.Sprintf(" 第%d名", s.Rank)
	} else if place := slices.Index(v.FinishOrder, seat); place >= 0 {
		line += fmt.Sprintf(" 第%d个出完", place+1)
	}
	return line
}

// seatBlock 座位信息加本轮出的牌
func seatBlock(v game.View, seat int) string {
	played := "…"
	if cards, ok := v.RoundCards[seat]; ok {
		played = RenderCards(cards, v.Level)
	}
	return lipgloss.JoinVertical(lipgloss.Center, seatLine(v, seat), played)
}

// trickBlock 桌面上需要压的牌
func trickBlock(v game.View) string {
	if v.Table == nil {
		return common.BoxStyle.Render("新一轮")
	}
	owner := "?"
	if s, ok := seatOf(v, v.LastPlayer); ok {
		owner = s.Name
	}
	return common.BoxStyle.Render(fmt.Sprintf("%s · %s\n%s", owner, v.Table.Type, RenderCards(v.Table.Cards, v.Level)))
}

// RenderCounter 记牌器：各点数还有几张没看到
func RenderCounter(cc *gameClient.CardCounter) string {
	parts := make([]string, 0, len(counterOrder))
	for _, f := range counterOrder {
		name := f.String()
		switch f {
		case card.FaceRedJoker:
			name = "大王"
		case card.FaceBlackJoker:
			name = "小王"
		}
		parts = append(parts, fmt.Sprintf("%s:%d", name, cc.Remaining(f)))
	}
	return common.GrayStyle.Render("记牌 " + strings.Join(parts, " "))
}

// RenderResult 一局结果
func RenderResult(res game.HandResult, v game.View) string {
	names := make([]string, 0, len(res.Order))
	for _, seat := range res.Order {
		if s, ok := seatOf(v, seat); ok {
			names = append(names, s.Name)
		}
	}
	text := fmt.Sprintf("🏁 第 %d 局结束：%d 队升 %d 级（%s → %s）\n名次：%s",
		res.HandNumber, res.WinningTeam, res.Upgrade, res.LevelBefore, res.LevelAfter, strings.Join(names, " > "))
	if res.MatchOver {
		text += "\n🏆 比赛结束"
	}
	return common.BoxStyle.Render(text)
}

// RenderNotices 最近的几条提示
func RenderNotices(notices []string) string {
	if len(notices) == 0 {
		return ""
	}
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}
	return common.BoxStyle.Render(strings.Join(notices, "\n"))
}

// RenderRoom 等待开局时的房间信息
func RenderRoom(code string, players []protocol.PlayerInfo, meID string) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle(fmt.Sprintf("🏠 房间: %s", code)))
	sb.WriteString("\n\n")

	bySeat := make(map[int]protocol.PlayerInfo, len(players))
	for _, p := range players {
		bySeat[p.Seat] = p
	}
	for seat := range game.SeatCount {
		p, ok := bySeat[seat]
		if !ok {
			fmt.Fprintf(&sb, "  %d. %s\n", seat+1, common.GrayStyle.Render("（空座）"))
			continue
		}
		ready := "❌"
		if p.Ready {
			ready = "✅"
		}
		suffix := ""
		if p.ID == meID {
			suffix = " (你)"
		}
		if p.Bot {
			suffix += " " + common.BotIcon
		}
		fmt.Fprintf(&sb, "  %d. %s %s  %d 队%s\n", seat+1, ready, p.Name, p.Team, suffix)
	}
	return common.BoxStyle.Render(sb.String())
}
