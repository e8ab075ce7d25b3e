package rule

import (
	"cmp"

	"github.com/palemoky/guandan/internal/game/card"
)

// PatternType 定义牌型
type PatternType int

const (
	Invalid   PatternType = iota
	Pass                  // 不出
	Single                // 单张
	Pair                  // 对子
	Triple                // 三张
	FullHouse             // 三带二

	Straight       // 顺子（5张或以上）
	PairStraight   // 连对
	TripleStraight // 钢板（连续三张）

	Bomb          // 炸弹（4张或以上同点）
	StraightFlush // 同花顺
	KingBomb      // 天王炸（四王）
)

// patternTypeNames 牌型名称映射表
var patternTypeNames = map[PatternType]string{
	Pass:           "不出",
	Single:         "单张",
	Pair:           "对子",
	Triple:         "三张",
	FullHouse:      "三带二",
	Straight:       "顺子",
	PairStraight:   "连对",
	TripleStraight: "钢板",
	Bomb:           "炸弹",
	StraightFlush:  "同花顺",
	KingBomb:       "天王炸",
}

func (t PatternType) String() string {
	if name, ok := patternTypeNames[t]; ok {
		return name
	}
	return "无效"
}

// IsBomb 是否属于炸弹家族
func (t PatternType) IsBomb() bool {
	return t == Bomb || t == StraightFlush || t == KingBomb
}

// Pattern 识别后的牌型，用于比较
type Pattern struct {
	Type        PatternType `json:"type"`
	PrimaryRank int         `json:"primary_rank"` // 决定大小的点数：同点牌的牌力，三带二的三张，连牌的最高位
	Size        int         `json:"size"`
	Cards       []card.Card `json:"cards"`
}

// IsOpen 桌面上没有需要压的牌
func (p Pattern) IsOpen() bool {
	return p.Type == Invalid || p.Type == Pass
}

// cardAnalysis 对一组牌做预统计
type cardAnalysis struct {
	level   card.Level
	size    int
	wild    int
	counts  map[card.Face]int // 非逢人配的牌面计数（含大小王）
	suits   map[card.Suit]int // 非逢人配的花色计数
	regular []card.Card
}

func analyzeCards(cards []card.Card, level card.Level) cardAnalysis {
	a := cardAnalysis{
		level:  level,
		size:   len(cards),
		counts: make(map[card.Face]int),
		suits:  make(map[card.Suit]int),
	}
	for _, c := range cards {
		if c.IsWild(level) {
			a.wild++
			continue
		}
		a.counts[c.Face]++
		a.suits[c.Suit]++
		a.regular = append(a.regular, c)
	}
	return a
}

func (a cardAnalysis) hasJoker() bool {
	return a.counts[card.FaceBlackJoker] > 0 || a.counts[card.FaceRedJoker] > 0
}

// singleFace 非逢人配的牌是否只有一种牌面
func (a cardAnalysis) singleFace() (card.Face, bool) {
	if len(a.counts) != 1 {
		return 0, false
	}
	for f := range a.counts {
		return f, true
	}
	return 0, false
}

func (a cardAnalysis) rankOf(f card.Face) int {
	return card.Card{Face: f}.Rank(a.level)
}

// Analyze 识别牌型，不合法返回 false。空牌为不出。
func Analyze(cards []card.Card, level card.Level) (Pattern, bool) {
	if len(cards) == 0 {
		return Pattern{Type: Pass}, true
	}

	a := analyzeCards(cards, level)

	// 按优先级检查各种牌型
	checks := []func(cardAnalysis) (PatternType, int, bool){
		isKingBomb,       // 天王炸
		isBomb,           // 炸弹
		isSimple,         // 单张、对子、三张
		isFullHouse,      // 三带二
		isStraightFlush,  // 同花顺
		isStraight,       // 顺子
		isPairStraight,   // 连对
		isTripleStraight, // 钢板
	}

	for _, check := range checks {
		if t, rank, ok := check(a); ok {
			return Pattern{
				Type:        t,
				PrimaryRank: rank,
				Size:        len(cards),
				Cards:       append([]card.Card(nil), cards...),
			}, true
		}
	}
	return Pattern{}, false
}

// power 炸弹家族的强度：四炸 < 同花顺 < 五张及以上炸弹 < 天王炸
func power(p Pattern) int {
	switch {
	case p.Type == KingBomb:
		return 4
	case p.Type == Bomb && p.Size >= 5:
		return 3
	case p.Type == StraightFlush:
		return 2
	case p.Type == Bomb:
		return 1
	default:
		return 0
	}
}

// comparePower 比较两个牌型的压制关系，非炸弹只比较同型同长
func comparePower(a, b Pattern) int {
	if c := cmp.Compare(power(a), power(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Size, b.Size); c != 0 {
		return c
	}
	return cmp.Compare(a.PrimaryRank, b.PrimaryRank)
}

// CanBeat 判断 candidate 是否能压过 onTable
func CanBeat(candidate, onTable Pattern) bool {
	if candidate.IsOpen() {
		return false
	}
	if onTable.IsOpen() {
		return true
	}

	if candidate.Type.IsBomb() || onTable.Type.IsBomb() {
		return comparePower(candidate, onTable) > 0
	}

	// 非炸弹必须同型同长
	if candidate.Type != onTable.Type || candidate.Size != onTable.Size {
		return false
	}
	return candidate.PrimaryRank > onTable.PrimaryRank
}
