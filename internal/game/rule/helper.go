package rule

import (
	"cmp"
	"slices"

	"github.com/palemoky/guandan/internal/game/card"
)

// handIndex 按牌面分组的手牌，逢人配单独存放
type handIndex struct {
	level  card.Level
	byFace map[card.Face][]card.Card
	wild   []card.Card
}

func indexHand(hand []card.Card, level card.Level) handIndex {
	sorted := slices.Clone(hand)
	card.SortHand(sorted, level)

	h := handIndex{level: level, byFace: make(map[card.Face][]card.Card)}
	for _, c := range sorted {
		if c.IsWild(level) {
			h.wild = append(h.wild, c)
			continue
		}
		h.byFace[c.Face] = append(h.byFace[c.Face], c)
	}
	return h
}

// facesAscending 按牌力升序返回手中出现的牌面
func (h handIndex) facesAscending() []card.Face {
	faces := make([]card.Face, 0, len(h.byFace))
	for f := range h.byFace {
		faces = append(faces, f)
	}
	slices.SortFunc(faces, func(a, b card.Face) int {
		return cmp.Compare(card.Card{Face: a}.Rank(h.level), card.Card{Face: b}.Rank(h.level))
	})
	return faces
}

// sameFace 取 n 张同点牌，不足时用逢人配补齐（王不能补）
func (h handIndex) sameFace(f card.Face, n int) ([]card.Card, bool) {
	natural := h.byFace[f]
	if len(natural) == 0 {
		return nil, false
	}
	if len(natural) >= n {
		return slices.Clone(natural[:n]), true
	}
	need := n - len(natural)
	if f.IsJoker() || need > len(h.wild) {
		return nil, false
	}
	return append(slices.Clone(natural), h.wild[:need]...), true
}

// run 组出以 top 为顶、长 length、每位 width 张的连牌。
// suit 为 nil 时不限花色；allowWild 控制是否用逢人配补位。
func (h handIndex) run(top, length, width int, suit *card.Suit, allowWild bool) ([]card.Card, bool) {
	levelFace := h.level.Face()
	cards := make([]card.Card, 0, length*width)
	need := 0
	for idx := top - length + 1; idx <= top; idx++ {
		f := faceAtIndex(idx)
		took := 0
		if f != levelFace {
			for _, c := range h.byFace[f] {
				if took == width {
					break
				}
				if suit != nil && c.Suit != *suit {
					continue
				}
				cards = append(cards, c)
				took++
			}
		}
		need += width - took
	}
	if need > 0 && (!allowWild || need > len(h.wild)) {
		return nil, false
	}
	return append(cards, h.wild[:need]...), true
}

// sameShape 生成与目标同型同长的候选组合
func (h handIndex) sameShape(t PatternType, size int) [][]card.Card {
	var out [][]card.Card
	switch t {
	case Single, Pair, Triple:
		n := size
		for f := range h.byFace {
			if cards, ok := h.sameFace(f, n); ok {
				out = append(out, cards)
			}
		}
		if len(h.wild) >= n {
			out = append(out, slices.Clone(h.wild[:n]))
		}
	case FullHouse:
		out = h.fullHouses()
	case Straight:
		out = h.runs(size, 1, nil)
	case PairStraight:
		out = h.runs(size/2, 2, nil)
	case TripleStraight:
		out = h.runs(size/3, 3, nil)
	}
	return out
}

func (h handIndex) fullHouses() [][]card.Card {
	var out [][]card.Card
	for trip, tripCards := range h.byFace {
		if trip.IsJoker() {
			continue
		}
		for pair, pairCards := range h.byFace {
			if pair == trip {
				continue
			}
			nt, np := min(3, len(tripCards)), min(2, len(pairCards))
			if pair.IsJoker() && np != 2 {
				continue
			}
			need := (3 - nt) + (2 - np)
			if need > len(h.wild) {
				continue
			}
			cards := slices.Concat(tripCards[:nt], pairCards[:np], h.wild[:need])
			out = append(out, cards)
		}
	}
	return out
}

func (h handIndex) runs(length, width int, suit *card.Suit) [][]card.Card {
	var out [][]card.Card
	for top := lowRunIndex + length - 1; top <= highAceIndex; top++ {
		if cards, ok := h.run(top, length, width, suit, true); ok {
			out = append(out, cards)
		}
	}
	return out
}

// bombs 生成所有炸弹家族候选
func (h handIndex) bombs(flushLengths ...int) [][]card.Card {
	var out [][]card.Card
	for f, natural := range h.byFace {
		if f.IsJoker() {
			continue
		}
		for n := 4; n <= len(natural)+len(h.wild); n++ {
			if cards, ok := h.sameFace(f, n); ok {
				out = append(out, cards)
			}
		}
	}
	for s := card.Spade; s <= card.Diamond; s++ {
		for _, length := range flushLengths {
			out = append(out, h.runs(length, 1, &s)...)
		}
	}
	if len(h.byFace[card.FaceBlackJoker]) == 2 && len(h.byFace[card.FaceRedJoker]) == 2 {
		out = append(out, slices.Concat(h.byFace[card.FaceBlackJoker], h.byFace[card.FaceRedJoker]))
	}
	return out
}

type scored struct {
	pattern Pattern
	wild    int
}

// pickSmallest 从候选中选出能压过 onTable 的最小牌型
func pickSmallest(candidates [][]card.Card, onTable Pattern, level card.Level, accept func(Pattern) bool, less func(a, b scored) int) []card.Card {
	var best *scored
	for _, cards := range candidates {
		p, ok := Analyze(cards, level)
		if !ok || !accept(p) || !CanBeat(p, onTable) {
			continue
		}
		s := scored{pattern: p, wild: card.CountWild(cards, level)}
		if best == nil || less(s, *best) < 0 {
			best = &s
		}
	}
	if best == nil {
		return nil
	}
	return best.pattern.Cards
}

// FindSmallestBeating 找到能压过 onTable 的最小出牌，同型优先，炸弹最后。
// 如果找不到，返回 nil
func FindSmallestBeating(hand []card.Card, onTable Pattern, level card.Level) []card.Card {
	if onTable.IsOpen() {
		return FindLead(hand, level)
	}

	h := indexHand(hand, level)

	if !onTable.Type.IsBomb() {
		sameType := func(p Pattern) bool { return p.Type == onTable.Type }
		// 同型时优先少用逢人配
		fewerWild := func(a, b scored) int {
			if c := cmp.Compare(a.wild, b.wild); c != 0 {
				return c
			}
			return cmp.Compare(a.pattern.PrimaryRank, b.pattern.PrimaryRank)
		}
		if cards := pickSmallest(h.sameShape(onTable.Type, onTable.Size), onTable, level, sameType, fewerWild); cards != nil {
			return cards
		}
	}

	flushLengths := []int{5}
	if onTable.Type == StraightFlush && onTable.Size > 5 {
		flushLengths = append(flushLengths, onTable.Size)
	}
	anyBomb := func(p Pattern) bool { return p.Type.IsBomb() }
	weaker := func(a, b scored) int {
		if c := comparePower(a.pattern, b.pattern); c != 0 {
			return c
		}
		return cmp.Compare(a.wild, b.wild)
	}
	return pickSmallest(h.bombs(flushLengths...), onTable, level, anyBomb, weaker)
}

// FindLead 领出：能一手出完就出完，否则出最小的非炸弹牌组
func FindLead(hand []card.Card, level card.Level) []card.Card {
	if len(hand) == 0 {
		return nil
	}
	if p, ok := Analyze(hand, level); ok && p.Type != Pass {
		return slices.Clone(hand)
	}

	h := indexHand(hand, level)
	for _, f := range h.facesAscending() {
		natural := h.byFace[f]
		switch n := len(natural); {
		case n >= 4 && !f.IsJoker():
			continue // 保留炸弹
		case n == 3:
			if pair := h.lowestPairExcept(f); pair != nil {
				return slices.Concat(natural, pair)
			}
			return slices.Clone(natural)
		case n == 2:
			return slices.Clone(natural)
		default:
			if straight := h.straightFrom(f); straight != nil {
				return straight
			}
			return []card.Card{natural[0]}
		}
	}

	// 只剩炸弹或逢人配
	weaker := func(a, b scored) int { return comparePower(a.pattern, b.pattern) }
	if cards := pickSmallest(h.bombs(), Pattern{}, level, func(p Pattern) bool { return p.Type.IsBomb() }, weaker); cards != nil {
		return cards
	}
	sorted := slices.Clone(hand)
	card.SortHand(sorted, level)
	return sorted[:1]
}

// lowestPairExcept 找到最小的天然对子，不拆炸弹
func (h handIndex) lowestPairExcept(skip card.Face) []card.Card {
	for _, f := range h.facesAscending() {
		if f == skip || len(h.byFace[f]) != 2 {
			continue
		}
		return slices.Clone(h.byFace[f])
	}
	return nil
}

// straightFrom 以 f 为最低位、不用逢人配组五张顺子
func (h handIndex) straightFrom(f card.Face) []card.Card {
	if f.IsJoker() || f == h.level.Face() {
		return nil
	}
	bottom := f.Order()
	top := bottom + 4
	if top > highAceIndex {
		return nil
	}
	for idx := bottom; idx <= top; idx++ {
		if len(h.byFace[faceAtIndex(idx)]) >= 4 {
			return nil
		}
	}
	cards, ok := h.run(top, 5, 1, nil, false)
	if !ok {
		return nil
	}
	if p, valid := Analyze(cards, h.level); !valid || p.Type != Straight {
		return nil
	}
	return cards
}
