package card

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Suit 定义花色
type Suit int

// Face 定义牌面
type Face int

const (
	Spade   Suit = iota // 黑桃
	Club                // 梅花
	Heart               // 红心
	Diamond             // 方块
	Joker               // 王牌
)

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Club:    "♣",
	Heart:   "♥",
	Diamond: "♦",
	Joker:   "",
}

// suitLetters 用于生成牌的唯一 ID
var suitLetters = map[Suit]string{
	Spade:   "S",
	Club:    "C",
	Heart:   "H",
	Diamond: "D",
	Joker:   "J",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

const (
	FaceA Face = iota + 1
	Face2
	Face3
	Face4
	Face5
	Face6
	Face7
	Face8
	Face9
	Face10
	FaceJ
	FaceQ
	FaceK
	FaceBlackJoker
	FaceRedJoker
)

// faceNames 牌面字符串映射表
var faceNames = map[Face]string{
	FaceA:          "A",
	Face2:          "2",
	Face3:          "3",
	Face4:          "4",
	Face5:          "5",
	Face6:          "6",
	Face7:          "7",
	Face8:          "8",
	Face9:          "9",
	Face10:         "10",
	FaceJ:          "J",
	FaceQ:          "Q",
	FaceK:          "K",
	FaceBlackJoker: "B",
	FaceRedJoker:   "R",
}

func (f Face) String() string {
	if name, ok := faceNames[f]; ok {
		return name
	}
	return strconv.Itoa(int(f))
}

// IsJoker 是否为大小王
func (f Face) IsJoker() bool {
	return f == FaceBlackJoker || f == FaceRedJoker
}

// Order 返回牌面的自然顺序：2 为 1，K 为 12，A 为 13，王为 0
func (f Face) Order() int {
	switch {
	case f.IsJoker():
		return 0
	case f == FaceA:
		return 13
	default:
		return int(f) - 1
	}
}

// 派生点数。级牌固定排在 A 之上、王之下。
const (
	RankLevel      = 14
	RankBlackJoker = 15
	RankRedJoker   = 16
)

// Level 级牌等级，沿用牌面编码：1 为 A，2..13 同牌面，14 为 "2"（升级阶梯的顶端）
type Level int

const (
	MinLevel   Level = 1
	StartLevel Level = 2
	MaxLevel   Level = 14
)

// Face 当前等级对应的级牌牌面
func (l Level) Face() Face {
	switch {
	case l >= MaxLevel:
		return Face2
	case l < MinLevel:
		return FaceA
	default:
		return Face(l)
	}
}

// Valid 等级是否在 1..14 之间
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

func (l Level) String() string {
	return l.Face().String()
}

// Card 定义一张牌，ID 在两副牌中唯一
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Face Face   `json:"face"`
}

func (c Card) String() string {
	return c.Suit.String() + c.Face.String()
}

// Rank 返回当前级别下的牌力：2 < 3 < … < K < A < 级牌 < 小王 < 大王
func (c Card) Rank(level Level) int {
	switch {
	case c.Face == FaceRedJoker:
		return RankRedJoker
	case c.Face == FaceBlackJoker:
		return RankBlackJoker
	case c.Face == level.Face():
		return RankLevel
	default:
		return c.Face.Order()
	}
}

// IsWild 红心级牌为逢人配
func (c Card) IsWild(level Level) bool {
	return c.Suit == Heart && c.Face == level.Face()
}

// IsLevel 是否为级牌（含逢人配）
func (c Card) IsLevel(level Level) bool {
	return c.Face == level.Face()
}

const (
	DeckSize   = 108
	HandSize   = 27
	DeckCopies = 2
)

// Deck 定义两副牌
type Deck []Card

// NewDeck 生成 108 张牌：两副各 52 张加大小王各一
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for copyIdx := range DeckCopies {
		for s := Spade; s <= Diamond; s++ {
			for f := FaceA; f <= FaceK; f++ {
				deck = append(deck, New(copyIdx, s, f))
			}
		}
		deck = append(deck,
			New(copyIdx, Joker, FaceBlackJoker),
			New(copyIdx, Joker, FaceRedJoker),
		)
	}
	return deck
}

// New 生成第 copyIdx 副牌中的一张
func New(copyIdx int, s Suit, f Face) Card {
	return Card{
		ID:   fmt.Sprintf("%d-%s-%s", copyIdx, suitLetters[s], f),
		Suit: s,
		Face: f,
	}
}

// CopyIndex 从 ID 解析出属于第几副牌
func (c Card) CopyIndex() (int, bool) {
	prefix, _, found := strings.Cut(c.ID, "-")
	if !found {
		return 0, false
	}
	idx, err := strconv.Atoi(prefix)
	if err != nil || idx < 0 || idx >= DeckCopies {
		return 0, false
	}
	return idx, true
}

func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Deal 将牌依次发成 4 手，每手 27 张
func (d Deck) Deal() [4][]Card {
	if len(d) != DeckSize {
		panic(fmt.Sprintf("card: deck has %d cards, want %d", len(d), DeckSize))
	}
	var hands [4][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i, c := range d {
		hands[i%4] = append(hands[i%4], c)
	}
	return hands
}
