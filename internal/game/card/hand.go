package card

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortHand 按牌力升序排列，同点按花色
func SortHand(hand []Card, level Level) {
	slices.SortFunc(hand, func(a, b Card) int {
		if c := cmp.Compare(a.Rank(level), b.Rank(level)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Suit, b.Suit); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// RemoveCards 从手牌中整体移除指定的牌。
// 优先按 ID 匹配；ID 为空时按花色+牌面匹配。每张实体牌最多匹配一次，
// 任意一张找不到则返回原手牌和 false。
func RemoveCards(hand, toRemove []Card) (rest, removed []Card, ok bool) {
	used := make([]bool, len(hand))
	removed = make([]Card, 0, len(toRemove))

	for _, want := range toRemove {
		idx := matchCard(hand, used, want)
		if idx < 0 {
			return hand, nil, false
		}
		used[idx] = true
		removed = append(removed, hand[idx])
	}

	rest = make([]Card, 0, len(hand)-len(removed))
	for i, c := range hand {
		if !used[i] {
			rest = append(rest, c)
		}
	}
	return rest, removed, true
}

func matchCard(hand []Card, used []bool, want Card) int {
	for i, c := range hand {
		if used[i] {
			continue
		}
		if want.ID != "" {
			if c.ID == want.ID {
				return i
			}
			continue
		}
		if c.Suit == want.Suit && c.Face == want.Face {
			return i
		}
	}
	return -1
}

// CountWild 统计逢人配数量
func CountWild(cards []Card, level Level) int {
	n := 0
	for _, c := range cards {
		if c.IsWild(level) {
			n++
		}
	}
	return n
}

// wildToken 输入中代表逢人配的字符
const wildToken = 'W'

// charToFace 用于快速查找字符对应的 Face
var charToFace = map[rune]Face{
	'A': FaceA,
	'2': Face2,
	'3': Face3,
	'4': Face4,
	'5': Face5,
	'6': Face6,
	'7': Face7,
	'8': Face8,
	'9': Face9,
	'T': Face10,
	'J': FaceJ,
	'Q': FaceQ,
	'K': FaceK,
	'B': FaceBlackJoker,
	'R': FaceRedJoker,
}

// FaceFromChar 解析单个牌面字符
func FaceFromChar(char rune) (Face, error) {
	if f, ok := charToFace[char]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("无法识别的牌面: %c", char)
}

// suitPrefixes 牌面前的花色字母，用于指定同花顺等需要花色的牌
var suitPrefixes = map[rune]Suit{
	'S': Spade,
	'C': Club,
	'H': Heart,
	'D': Diamond,
}

// ParseCards 从手牌中根据输入字符串找出对应的牌。
// 牌面字符不会消耗逢人配，逢人配需显式写 W；
// 牌面前可加花色字母 S/C/H/D 指定花色，如 H5H6H7H8H9。
func ParseCards(hand []Card, input string, level Level) ([]Card, error) {
	clean := strings.ToUpper(strings.ReplaceAll(input, " ", ""))
	clean = strings.ReplaceAll(clean, "10", "T")
	if clean == "" {
		return nil, fmt.Errorf("请输入要出的牌")
	}

	used := make([]bool, len(hand))
	result := make([]Card, 0, len(clean))
	suit, suited := Suit(0), false
	for _, char := range clean {
		if s, ok := suitPrefixes[char]; ok {
			if suited {
				return nil, fmt.Errorf("花色后面缺少牌面")
			}
			suit, suited = s, true
			continue
		}

		idx := -1
		switch {
		case char == wildToken:
			if suited {
				return nil, fmt.Errorf("逢人配不能指定花色")
			}
			idx = findUnused(hand, used, func(c Card) bool { return c.IsWild(level) })
			if idx < 0 {
				return nil, fmt.Errorf("你没有逢人配")
			}
		default:
			f, err := FaceFromChar(char)
			if err != nil {
				return nil, err
			}
			if suited {
				want := suit
				idx = findUnused(hand, used, func(c Card) bool { return c.Face == f && c.Suit == want })
				if idx < 0 {
					return nil, fmt.Errorf("你没有 %s", Card{Suit: want, Face: f})
				}
			} else {
				idx = findUnused(hand, used, func(c Card) bool { return c.Face == f && !c.IsWild(level) })
				if idx < 0 {
					return nil, fmt.Errorf("你的 %s 不够", f)
				}
			}
		}
		suited = false
		used[idx] = true
		result = append(result, hand[idx])
	}
	if suited {
		return nil, fmt.Errorf("花色后面缺少牌面")
	}
	return result, nil
}

func findUnused(hand []Card, used []bool, match func(Card) bool) int {
	for i, c := range hand {
		if !used[i] && match(c) {
			return i
		}
	}
	return -1
}

// FormatCards 将牌格式化为紧凑字符串
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
