package game

import (
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/game/rule"
)

// SuggestPlay 为座位给出建议出牌，nil 表示不出。
// 领出时总会给出牌；跟牌时不压队友，除非这手能直接出完。
func (r *GameRoom) SuggestPlay(seat int) []card.Card {
	if seat < 0 || seat >= SeatCount || r.Players[seat] == nil {
		return nil
	}
	hand := r.Players[seat].Hand
	if r.LastPattern == nil {
		return rule.FindLead(hand, r.Level)
	}

	cards := rule.FindSmallestBeating(hand, *r.LastPattern, r.Level)
	if cards == nil {
		return nil
	}
	if r.LastPlayerID == Teammate(seat) && len(cards) < len(hand) {
		return nil
	}
	return cards
}

// AutoPlay 以建议出牌替当前座位行动，用于机器人和超时托管
func (r *GameRoom) AutoPlay() error {
	seat := r.CurrentPlayer
	return r.Play(seat, r.SuggestPlay(seat))
}
