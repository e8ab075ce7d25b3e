package game

import (
	"maps"
	"slices"

	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/game/rule"
)

// CurrentSeat 当前应出牌的座位，无人行动时为 -1
func (r *GameRoom) CurrentSeat() int {
	return r.CurrentPlayer
}

// TablePattern 当前需要压的牌型，新一轮时返回 false
func (r *GameRoom) TablePattern() (rule.Pattern, bool) {
	if r.LastPattern == nil {
		return rule.Pattern{}, false
	}
	return *r.LastPattern, true
}

// HandOf 座位手牌的副本
func (r *GameRoom) HandOf(seat int) []card.Card {
	if seat < 0 || seat >= SeatCount || r.Players[seat] == nil {
		return nil
	}
	return slices.Clone(r.Players[seat].Hand)
}

// HandCounts 各座位剩余牌数
func (r *GameRoom) HandCounts() [SeatCount]int {
	var counts [SeatCount]int
	for i, p := range r.Players {
		if p != nil {
			counts[i] = len(p.Hand)
		}
	}
	return counts
}

// FinishOrder 本局已出完牌的座位顺序
func (r *GameRoom) FinishOrder() []int {
	return slices.Clone(r.FinishedPlayers)
}

// FinalRanks 本局名次，仅在本局结束后有效
func (r *GameRoom) FinalRanks() ([SeatCount]int, bool) {
	if !r.Finished {
		return [SeatCount]int{}, false
	}
	return r.Ranks, true
}

// TributeInfo 本局进贡情况的副本，没有进贡时返回 nil
func (r *GameRoom) TributeInfo() *TributeState {
	if r.Tribute == nil {
		return nil
	}
	st := *r.Tribute
	st.TributeCards = maps.Clone(r.Tribute.TributeCards)
	st.ReturnCards = maps.Clone(r.Tribute.ReturnCards)
	st.Receivers = maps.Clone(r.Tribute.Receivers)
	st.Transfers = slices.Clone(r.Tribute.Transfers)
	return &st
}

// SeatView 对外展示的座位信息，不含手牌
type SeatView struct {
	Seat      int    `json:"seat"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bot       bool   `json:"bot"`
	Score     int    `json:"score"`
	CardsLeft int    `json:"cards_left"`
	Rank      int    `json:"rank,omitempty"`
}

// View 某个座位视角下的牌桌快照，只包含该座位自己的手牌
type View struct {
	Code        string              `json:"code"`
	Level       card.Level          `json:"level"`
	HandNumber  int                 `json:"hand_number"`
	Started     bool                `json:"started"`
	Finished    bool                `json:"finished"`
	Paused      bool                `json:"paused"`
	MatchOver   bool                `json:"match_over"`
	CurrentSeat int                 `json:"current_seat"`
	LastPlayer  int                 `json:"last_player"`
	Table       *rule.Pattern       `json:"table,omitempty"`
	RoundCards  map[int][]card.Card `json:"round_cards"`
	FinishOrder []int               `json:"finish_order"`
	Seats       []SeatView          `json:"seats"`
	Hand        []card.Card         `json:"hand,omitempty"`
	Tribute     *TributeState       `json:"tribute,omitempty"`
	LastResult  *HandResult         `json:"last_result,omitempty"`
	ViewerSeat  int                 `json:"viewer_seat"`
}

// Snapshot 生成 viewer 座位视角的快照，viewer 为 -1 时不含任何手牌
func (r *GameRoom) Snapshot(viewer int) View {
	v := View{
		Code:        r.Code,
		Level:       r.Level,
		HandNumber:  r.HandNumber,
		Started:     r.Started,
		Finished:    r.Finished,
		Paused:      r.Paused,
		MatchOver:   r.MatchOver,
		CurrentSeat: r.CurrentPlayer,
		LastPlayer:  r.LastPlayerID,
		RoundCards:  make(map[int][]card.Card, len(r.CurrentRoundCards)),
		FinishOrder: r.FinishOrder(),
		Tribute:     r.TributeInfo(),
		LastResult:  r.LastResult,
		ViewerSeat:  viewer,
	}
	if p, ok := r.TablePattern(); ok {
		v.Table = &p
	}
	for seat, cards := range r.CurrentRoundCards {
		v.RoundCards[seat] = slices.Clone(cards)
	}
	for i, p := range r.Players {
		if p == nil {
			continue
		}
		v.Seats = append(v.Seats, SeatView{
			Seat:      i,
			ID:        p.ID,
			Name:      p.Name,
			Bot:       p.Bot,
			Score:     p.Score,
			CardsLeft: len(p.Hand),
			Rank:      r.Ranks[i],
		})
	}
	v.Hand = r.HandOf(viewer)
	return v
}
