package client

import "github.com/palemoky/guandan/internal/game/card"

// 两副牌中每个点数 8 张，每种王 2 张
const (
	copiesPerFace  = 8
	copiesPerJoker = 2
)

// CardCounter 记牌器，统计自己看不到的牌
type CardCounter struct {
	remaining map[card.Face]int
}

// NewCardCounter 创建记牌器
func NewCardCounter() *CardCounter {
	cc := &CardCounter{
		remaining: make(map[card.Face]int),
	}
	cc.Reset()
	return cc
}

// Reset 恢复为整副 108 张
func (cc *CardCounter) Reset() {
	for f := card.FaceA; f <= card.FaceK; f++ {
		cc.remaining[f] = copiesPerFace
	}
	cc.remaining[card.FaceBlackJoker] = copiesPerJoker
	cc.remaining[card.FaceRedJoker] = copiesPerJoker
}

// DeductCards 扣除已经看到的牌
func (cc *CardCounter) DeductCards(cards []card.Card) {
	for _, c := range cards {
		if cc.remaining[c.Face] > 0 {
			cc.remaining[c.Face]--
		}
	}
}

// Remaining 某个点数还剩几张没看到
func (cc *CardCounter) Remaining(f card.Face) int {
	return cc.remaining[f]
}

// Total 没看到的牌总数
func (cc *CardCounter) Total() int {
	total := 0
	for _, n := range cc.remaining {
		total += n
	}
	return total
}
