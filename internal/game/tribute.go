package game

import (
	"cmp"
	"slices"

	"github.com/palemoky/guandan/internal/game/card"
)

// TributeTransfer 一次进贡或还贡
type TributeTransfer struct {
	From   int       `json:"from"`
	To     int       `json:"to"`
	Card   card.Card `json:"card"`
	Return bool      `json:"return"`
}

// TributeState 本局开局前的进贡情况，两张表都以进贡座位为键
type TributeState struct {
	Required     bool              `json:"required"`
	Completed    bool              `json:"completed"`
	AntiTribute  bool              `json:"anti_tribute"`
	Double       bool              `json:"double"`
	TributeCards map[int]card.Card `json:"tribute_cards"`
	ReturnCards  map[int]card.Card `json:"return_cards"`
	Receivers    map[int]int       `json:"receivers"` // 进贡座位 -> 收贡座位
	Transfers    []TributeTransfer `json:"transfers"`
}

func newTributeState() *TributeState {
	return &TributeState{
		Required:     true,
		TributeCards: make(map[int]card.Card),
		ReturnCards:  make(map[int]card.Card),
		Receivers:    make(map[int]int),
	}
}

// resolveTribute 按上一局名次完成进贡、还贡，返回本局先手座位
func (r *GameRoom) resolveTribute(prior [SeatCount]int) int {
	var seatAt [SeatCount + 1]int
	for seat, rank := range prior {
		seatAt[rank] = seat
	}
	up := seatAt[1]
	winTeam := TeamOf(up)

	// 输方落在三游、末游的座位进贡
	var payers []int
	for _, rank := range []int{3, 4} {
		if seat := seatAt[rank]; TeamOf(seat) != winTeam {
			payers = append(payers, seat)
		}
	}

	st := newTributeState()
	r.Tribute = st
	st.Double = len(payers) == 2

	if r.countRedJokers(payers) >= 2 {
		st.AntiTribute = true
		st.Completed = true
		return up
	}

	if !st.Double {
		payer := payers[0]
		r.exchange(payer, up)
		st.Completed = true
		return payer
	}

	// 双贡：大的给头游，小的给头游队友；同样大时离头游顺时针近的给头游
	first, second := payers[0], payers[1]
	c1 := tributeCard(r.Players[first].Hand, r.Level)
	c2 := tributeCard(r.Players[second].Hand, r.Level)
	r1, r2 := c1.Rank(r.Level), c2.Rank(r.Level)
	if r2 > r1 || (r2 == r1 && clockwiseDistance(up, second) < clockwiseDistance(up, first)) {
		first, second = second, first
	}

	r.exchange(first, up)
	r.exchange(second, Teammate(up))
	st.Completed = true
	return first
}

// exchange 进贡方交出最大牌，收贡方还一张小牌
func (r *GameRoom) exchange(payer, receiver int) {
	st := r.Tribute

	given := tributeCard(r.Players[payer].Hand, r.Level)
	r.moveCard(payer, receiver, given)
	st.TributeCards[payer] = given
	st.Receivers[payer] = receiver
	st.Transfers = append(st.Transfers, TributeTransfer{From: payer, To: receiver, Card: given})

	back := returnCard(r.Players[receiver].Hand, r.Level)
	r.moveCard(receiver, payer, back)
	st.ReturnCards[payer] = back
	st.Transfers = append(st.Transfers, TributeTransfer{From: receiver, To: payer, Card: back, Return: true})
}

func (r *GameRoom) moveCard(from, to int, c card.Card) {
	rest, moved, ok := card.RemoveCards(r.Players[from].Hand, []card.Card{c})
	if !ok {
		panic("game: tribute card missing from hand")
	}
	r.Players[from].Hand = rest
	r.Players[to].Hand = append(r.Players[to].Hand, moved...)
}

func (r *GameRoom) countRedJokers(seats []int) int {
	n := 0
	for _, seat := range seats {
		for _, c := range r.Players[seat].Hand {
			if c.Face == card.FaceRedJoker {
				n++
			}
		}
	}
	return n
}

func clockwiseDistance(from, to int) int {
	return (to - from + SeatCount) % SeatCount
}

// tributeCard 进贡的牌：除逢人配外牌力最大的一张，同点取花色靠后的
func tributeCard(hand []card.Card, level card.Level) card.Card {
	candidates := slices.DeleteFunc(slices.Clone(hand), func(c card.Card) bool { return c.IsWild(level) })
	return slices.MaxFunc(candidates, byRankThenSuit(level))
}

// returnCard 还贡的牌：点数不超过 10 中牌力最小的一张，没有则取全手最小
func returnCard(hand []card.Card, level card.Level) card.Card {
	candidates := slices.DeleteFunc(slices.Clone(hand), func(c card.Card) bool {
		return c.Face < card.Face2 || c.Face > card.Face10
	})
	if len(candidates) == 0 {
		candidates = hand
	}
	return slices.MinFunc(candidates, byRankThenSuit(level))
}

func byRankThenSuit(level card.Level) func(a, b card.Card) int {
	return func(a, b card.Card) int {
		if c := cmp.Compare(a.Rank(level), b.Rank(level)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Suit, b.Suit); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}
