package rule

import "github.com/palemoky/guandan/internal/game/card"

// 连牌位置：1..12 为 2..K，13 为 A。A 只能接在 K 之后
const (
	lowRunIndex  = 1
	highAceIndex = 13
	maxRunLength = highAceIndex - lowRunIndex + 1
)

// faceAtIndex 返回连牌位置对应的牌面
func faceAtIndex(idx int) card.Face {
	if idx == highAceIndex {
		return card.FaceA
	}
	return card.Face(idx + 1)
}

func isKingBomb(a cardAnalysis) (PatternType, int, bool) {
	if a.size == 4 && a.counts[card.FaceBlackJoker] == 2 && a.counts[card.FaceRedJoker] == 2 {
		return KingBomb, card.RankRedJoker, true
	}
	return Invalid, 0, false
}

func isBomb(a cardAnalysis) (PatternType, int, bool) {
	if a.size < 4 || a.hasJoker() {
		return Invalid, 0, false
	}
	f, ok := a.singleFace()
	if !ok {
		return Invalid, 0, false
	}
	return Bomb, a.rankOf(f), true
}

func isSimple(a cardAnalysis) (PatternType, int, bool) {
	var t PatternType
	switch a.size {
	case 1:
		t = Single
	case 2:
		t = Pair
	case 3:
		t = Triple
	default:
		return Invalid, 0, false
	}

	// 全是逢人配，按级牌计
	if len(a.counts) == 0 {
		return t, card.RankLevel, true
	}
	f, ok := a.singleFace()
	if !ok {
		return Invalid, 0, false
	}
	// 王不能由逢人配代替
	if f.IsJoker() && a.wild > 0 {
		return Invalid, 0, false
	}
	return t, a.rankOf(f), true
}

func isFullHouse(a cardAnalysis) (PatternType, int, bool) {
	if a.size != 5 || len(a.counts) != 2 {
		return Invalid, 0, false
	}

	faces := make([]card.Face, 0, 2)
	for f := range a.counts {
		faces = append(faces, f)
	}

	best, found := 0, false
	for i := range faces {
		trip, pair := faces[i], faces[1-i]
		if trip.IsJoker() || a.counts[trip] > 3 || a.counts[pair] > 2 {
			continue
		}
		if pair.IsJoker() && a.counts[pair] != 2 {
			continue
		}
		if (3-a.counts[trip])+(2-a.counts[pair]) != a.wild {
			continue
		}
		if r := a.rankOf(trip); !found || r > best {
			best, found = r, true
		}
	}
	if !found {
		return Invalid, 0, false
	}
	return FullHouse, best, true
}

func isStraightFlush(a cardAnalysis) (PatternType, int, bool) {
	if a.size < 5 || len(a.suits) > 1 {
		return Invalid, 0, false
	}
	if top, ok := runTop(a, a.size, 1); ok {
		return StraightFlush, top, true
	}
	return Invalid, 0, false
}

func isStraight(a cardAnalysis) (PatternType, int, bool) {
	if a.size < 5 {
		return Invalid, 0, false
	}
	if top, ok := runTop(a, a.size, 1); ok {
		return Straight, top, true
	}
	return Invalid, 0, false
}

func isPairStraight(a cardAnalysis) (PatternType, int, bool) {
	if a.size < 6 || a.size%2 != 0 {
		return Invalid, 0, false
	}
	if top, ok := runTop(a, a.size/2, 2); ok {
		return PairStraight, top, true
	}
	return Invalid, 0, false
}

func isTripleStraight(a cardAnalysis) (PatternType, int, bool) {
	if a.size < 6 || a.size%3 != 0 {
		return Invalid, 0, false
	}
	if top, ok := runTop(a, a.size/3, 3); ok {
		return TripleStraight, top, true
	}
	return Invalid, 0, false
}

// runTop 寻找能容纳全部牌的最高连续区间，返回区间顶端位置。
// 连牌中不能有王和非逢人配的级牌，缺口由逢人配补齐。
func runTop(a cardAnalysis, length, width int) (int, bool) {
	if length < 2 || length > maxRunLength {
		return 0, false
	}
	levelFace := a.level.Face()
	for f, n := range a.counts {
		if f.IsJoker() || f == levelFace || n > width {
			return 0, false
		}
	}

	for top := highAceIndex; top >= lowRunIndex+length-1; top-- {
		start := top - length + 1
		if windowHolds(a, start, top) {
			return top, true
		}
	}
	return 0, false
}

// windowHolds 区间 [start, top] 是否包含所有出现的牌面
func windowHolds(a cardAnalysis, start, top int) bool {
	inWindow := make(map[card.Face]bool, top-start+1)
	for idx := start; idx <= top; idx++ {
		inWindow[faceAtIndex(idx)] = true
	}
	for f := range a.counts {
		if !inWindow[f] {
			return false
		}
	}
	return true
}
