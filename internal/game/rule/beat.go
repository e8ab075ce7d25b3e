package rule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/palemoky/guandan/internal/game/card"
)

// 按手牌组成生成的连牌长度：顺子 5 张，连对 3 对，钢板 2 组
const (
	straightLength       = 5
	pairStraightLength   = 3
	tripleStraightLength = 2
)

// Candidates 根据手牌组成列出可出的牌型，按牌型再按大小排序。
// 只按牌面和花色分组构造，逢人配只用来补同点牌和连牌的空位，不枚举子集。
func Candidates(hand []card.Card, level card.Level) []Pattern {
	h := indexHand(hand, level)

	var groups [][]card.Card
	for f := range h.byFace {
		for n := 1; n <= 3; n++ {
			if cards, ok := h.sameFace(f, n); ok {
				groups = append(groups, cards)
			}
		}
	}
	groups = append(groups, h.fullHouses()...)
	groups = append(groups, h.runs(straightLength, 1, nil)...)
	groups = append(groups, h.runs(pairStraightLength, 2, nil)...)
	groups = append(groups, h.runs(tripleStraightLength, 3, nil)...)
	groups = append(groups, h.bombs(straightLength)...)

	seen := make(map[string]bool)
	var out []Pattern
	for _, cards := range groups {
		p, ok := Analyze(cards, level)
		if !ok || p.Type == Pass {
			continue
		}
		key := patternKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b Pattern) int {
		if c := cmp.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		if c := comparePower(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Size, b.Size)
	})
	return out
}

// patternKey 同型同大小同长度视为同一个候选
func patternKey(p Pattern) string {
	return fmt.Sprintf("%d/%d/%d", p.Type, p.Size, p.PrimaryRank)
}

// CanBeatWithHand 手牌中是否存在能压过 onTable 的出牌
func CanBeatWithHand(hand []card.Card, onTable Pattern, level card.Level) bool {
	if onTable.IsOpen() {
		return len(hand) > 0
	}
	return FindSmallestBeating(hand, onTable, level) != nil
}
