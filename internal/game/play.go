package game

import (
	"github.com/palemoky/guandan/internal/apperrors"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/game/rule"
)

// PlayCards 出牌或不出（cards 为空），非法操作返回 false 且不改变任何状态
func (r *GameRoom) PlayCards(seat int, cards []card.Card) bool {
	return r.Play(seat, cards) == nil
}

// Play 与 PlayCards 相同，但返回拒绝原因
func (r *GameRoom) Play(seat int, cards []card.Card) error {
	switch {
	case !r.Started:
		return apperrors.ErrGameNotStart
	case r.Finished:
		return apperrors.ErrHandFinished
	case r.Paused:
		return apperrors.ErrGamePaused
	case seat < 0 || seat >= SeatCount:
		return apperrors.ErrInvalidSeat
	case r.hasFinished(seat):
		return apperrors.ErrPlayerFinished
	case seat != r.CurrentPlayer:
		return apperrors.ErrNotYourTurn
	}

	if len(cards) == 0 {
		return r.pass(seat)
	}
	return r.play(seat, cards)
}

func (r *GameRoom) pass(seat int) error {
	if r.LastPattern == nil {
		return apperrors.ErrMustPlay
	}

	r.PassCount++
	r.CurrentRoundCards[seat] = []card.Card{}

	if r.PassCount >= r.passThreshold() {
		r.closeTrick()
		return nil
	}
	r.CurrentPlayer = r.nextActive(seat)
	return nil
}

// passThreshold 结束一轮所需的连续不出次数：
// 上手出牌者仍在场时为其余在场人数，已出完时为全部在场人数
func (r *GameRoom) passThreshold() int {
	if r.hasFinished(r.LastPlayerID) {
		return r.activeCount()
	}
	return r.activeCount() - 1
}

// closeTrick 清空桌面，由最后出牌者领出；其已出完则由队友接风，否则顺延
func (r *GameRoom) closeTrick() {
	leader := r.LastPlayerID
	r.resetTrick()

	switch {
	case !r.hasFinished(leader):
		r.CurrentPlayer = leader
	case !r.hasFinished(Teammate(leader)):
		r.CurrentPlayer = Teammate(leader)
	default:
		r.CurrentPlayer = r.nextActive(leader)
	}
}

func (r *GameRoom) play(seat int, cards []card.Card) error {
	p := r.Players[seat]

	rest, removed, ok := card.RemoveCards(p.Hand, cards)
	if !ok {
		return apperrors.ErrCardsNotOwned
	}
	pattern, ok := rule.Analyze(removed, r.Level)
	if !ok {
		return apperrors.ErrInvalidCards
	}
	if r.LastPattern != nil && !rule.CanBeat(pattern, *r.LastPattern) {
		return apperrors.ErrCannotBeat
	}

	p.Hand = rest
	r.Played = append(r.Played, removed...)
	r.LastPattern = &pattern
	r.LastPlayerID = seat
	r.PassCount = 0
	r.CurrentRoundCards[seat] = removed

	if len(rest) == 0 {
		r.FinishedPlayers = append(r.FinishedPlayers, seat)
		if r.handComplete() {
			r.finishHand()
			return nil
		}
	}
	r.CurrentPlayer = r.nextActive(seat)
	return nil
}

// handComplete 一队两人都出完即结束
func (r *GameRoom) handComplete() bool {
	if len(r.FinishedPlayers) >= SeatCount {
		return true
	}
	for _, seat := range r.FinishedPlayers {
		if r.hasFinished(Teammate(seat)) {
			return true
		}
	}
	return false
}
