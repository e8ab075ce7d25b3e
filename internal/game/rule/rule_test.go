package rule

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game/card"
)

func c(s card.Suit, f card.Face) card.Card {
	return card.Card{Suit: s, Face: f}
}

// mixed 生成花色交替的一组牌，避免意外构成同花
func mixed(faces ...card.Face) []card.Card {
	suits := []card.Suit{card.Spade, card.Club, card.Diamond}
	cards := make([]card.Card, len(faces))
	for i, f := range faces {
		cards[i] = c(suits[i%len(suits)], f)
	}
	return cards
}

func mustAnalyze(t *testing.T, cards []card.Card, level card.Level) Pattern {
	t.Helper()
	p, ok := Analyze(cards, level)
	require.True(t, ok, "expected valid pattern for %v", cards)
	return p
}

var (
	wild2 = c(card.Heart, card.Face2) // 打 2 时的逢人配
	bj    = c(card.Joker, card.FaceBlackJoker)
	rj    = c(card.Joker, card.FaceRedJoker)
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    []card.Card
		level    card.Level
		wantType PatternType
		wantRank int
	}{
		{"empty is pass", nil, 2, Pass, 0},
		{"single", mixed(card.Face3), 2, Single, 2},
		{"single wildcard", []card.Card{wild2}, 2, Single, card.RankLevel},
		{"pair", mixed(card.Face3, card.Face3), 2, Pair, 2},
		{"pair with wildcard", append(mixed(card.Face9), wild2), 2, Pair, 8},
		{"pair of wildcards", []card.Card{wild2, wild2}, 2, Pair, card.RankLevel},
		{"pair of red jokers", []card.Card{rj, rj}, 2, Pair, card.RankRedJoker},
		{"triple", mixed(card.Face7, card.Face7, card.Face7), 2, Triple, 6},
		{"full house", mixed(card.Face3, card.Face3, card.Face3, card.Face4, card.Face4), 2, FullHouse, 2},
		{"full house prefers higher triple", append(mixed(card.Face3, card.Face3, card.Face4, card.Face4), wild2), 2, FullHouse, 3},
		{"full house with joker pair", append(mixed(card.Face8, card.Face8, card.Face8), bj, bj), 2, FullHouse, 7},
		{"straight", mixed(card.Face3, card.Face4, card.Face5, card.Face6, card.Face7), 2, Straight, 6},
		{"straight with gap filled", append(mixed(card.Face3, card.Face4, card.Face6, card.Face7), wild2), 2, Straight, 6},
		{"ace high straight", mixed(card.Face10, card.FaceJ, card.FaceQ, card.FaceK, card.FaceA), 2, Straight, 13},
		{"straight from two", mixed(card.Face2, card.Face3, card.Face4, card.Face5, card.Face6), 7, Straight, 5},
		{"pair straight", mixed(card.Face3, card.Face3, card.Face4, card.Face4, card.Face5, card.Face5), 2, PairStraight, 4},
		{"triple straight", mixed(card.Face3, card.Face3, card.Face3, card.Face4, card.Face4, card.Face4), 2, TripleStraight, 3},
		{"bomb", mixed(card.Face4, card.Face4, card.Face4, card.Face4), 2, Bomb, 3},
		{"bomb completed by wildcard", append(mixed(card.Face4, card.Face4, card.Face4), wild2), 2, Bomb, 3},
		{"five card bomb", mixed(card.Face5, card.Face5, card.Face5, card.Face5, card.Face5), 2, Bomb, 4},
		{"level card bomb", mixed(card.Face9, card.Face9, card.Face9, card.Face9), 9, Bomb, card.RankLevel},
		{"king bomb", []card.Card{bj, bj, rj, rj}, 2, KingBomb, card.RankRedJoker},
		{
			"straight flush",
			[]card.Card{
				c(card.Spade, card.Face3), c(card.Spade, card.Face4), c(card.Spade, card.Face5),
				c(card.Spade, card.Face6), c(card.Spade, card.Face7),
			},
			2, StraightFlush, 6,
		},
		{
			"straight flush with wildcard",
			[]card.Card{
				c(card.Club, card.Face9), c(card.Club, card.Face10), wild2,
				c(card.Club, card.FaceQ), c(card.Club, card.FaceK),
			},
			2, StraightFlush, 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := mustAnalyze(t, tt.cards, tt.level)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.wantRank, p.PrimaryRank)
			assert.Equal(t, len(tt.cards), p.Size)
		})
	}
}

func TestAnalyzeRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []card.Card
		level card.Level
	}{
		{"mixed jokers", []card.Card{bj, rj}, 2},
		{"joker with wildcard", []card.Card{rj, wild2}, 2},
		{"three jokers", []card.Card{bj, bj, rj}, 2},
		{"unrelated cards", mixed(card.Face3, card.Face3, card.Face4, card.Face5), 2},
		{"wrapping straight", mixed(card.FaceQ, card.FaceK, card.FaceA, card.Face2, card.Face3), 7},
		{"ace below two straight", mixed(card.FaceA, card.Face2, card.Face3, card.Face4, card.Face5), 7},
		{"ace below two pair straight", mixed(card.FaceA, card.FaceA, card.Face2, card.Face2, card.Face3, card.Face3), 7},
		{"ace below two triple straight", mixed(card.FaceA, card.FaceA, card.FaceA, card.Face2, card.Face2, card.Face2), 7},
		{"ace below two straight flush", []card.Card{
			c(card.Spade, card.FaceA), c(card.Spade, card.Face2), c(card.Spade, card.Face3),
			c(card.Spade, card.Face4), c(card.Spade, card.Face5),
		}, 7},
		{"straight through natural level card", mixed(card.Face3, card.Face4, card.Face5, card.Face6, card.Face7), 5},
		{"straight with joker", append(mixed(card.Face3, card.Face4, card.Face5, card.Face6), bj), 2},
		{"two pairs", mixed(card.Face3, card.Face3, card.Face4, card.Face4), 2},
		{"broken pair straight", mixed(card.Face3, card.Face3, card.Face4, card.Face4, card.Face6, card.Face6), 2},
		{"four plus one", mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face4), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := Analyze(tt.cards, tt.level)
			assert.False(t, ok)
		})
	}
}

func TestAnalyzeIsOrderIndependent(t *testing.T) {
	t.Parallel()

	hands := [][]card.Card{
		append(mixed(card.Face3, card.Face4, card.Face6, card.Face7), wild2),
		append(mixed(card.Face3, card.Face3, card.Face4, card.Face4), wild2),
		mixed(card.Face8, card.Face8, card.Face9, card.Face9, card.Face10, card.Face10),
		{bj, bj, rj, rj},
	}

	for _, hand := range hands {
		want := mustAnalyze(t, hand, 2)
		for range 20 {
			shuffled := append([]card.Card(nil), hand...)
			rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			got := mustAnalyze(t, shuffled, 2)
			assert.Equal(t, want.Type, got.Type)
			assert.Equal(t, want.PrimaryRank, got.PrimaryRank)
		}
	}
}

func TestCanBeat(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	pair3 := mustAnalyze(t, mixed(card.Face3, card.Face3), level)
	pair4 := mustAnalyze(t, mixed(card.Face4, card.Face4), level)
	single5 := mustAnalyze(t, mixed(card.Face5), level)
	straight7 := mustAnalyze(t, mixed(card.Face3, card.Face4, card.Face5, card.Face6, card.Face7), level)
	straight8 := mustAnalyze(t, mixed(card.Face4, card.Face5, card.Face6, card.Face7, card.Face8), level)
	straight6long := mustAnalyze(t, mixed(card.Face4, card.Face5, card.Face6, card.Face7, card.Face8, card.Face9), level)
	bomb4 := mustAnalyze(t, mixed(card.FaceA, card.FaceA, card.FaceA, card.FaceA), level)
	bomb4low := mustAnalyze(t, mixed(card.Face3, card.Face3, card.Face3, card.Face3), level)
	bomb5 := mustAnalyze(t, mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face3), level)
	bomb6 := mustAnalyze(t, mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face3, card.Face3), level)
	flush := mustAnalyze(t, []card.Card{
		c(card.Diamond, card.Face9), c(card.Diamond, card.Face10), c(card.Diamond, card.FaceJ),
		c(card.Diamond, card.FaceQ), c(card.Diamond, card.FaceK),
	}, level)
	kings := mustAnalyze(t, []card.Card{bj, bj, rj, rj}, level)
	pass := Pattern{Type: Pass}

	tests := []struct {
		name      string
		candidate Pattern
		onTable   Pattern
		want      bool
	}{
		{"higher pair", pair4, pair3, true},
		{"equal pair", pair3, pair3, false},
		{"lower pair", pair3, pair4, false},
		{"different type", single5, pair3, false},
		{"higher straight", straight8, straight7, true},
		{"straight of different length", straight6long, straight7, false},
		{"anything beats pass", single5, pass, true},
		{"anything beats open table", single5, Pattern{}, true},
		{"pass beats nothing", pass, pair3, false},
		{"bomb beats non bomb", bomb4low, straight8, true},
		{"non bomb never beats bomb", straight6long, bomb4low, false},
		{"higher four bomb", bomb4, bomb4low, true},
		{"four bomb loses to straight flush", bomb4, flush, false},
		{"straight flush beats four bomb", flush, bomb4, true},
		{"five bomb beats straight flush", bomb5, flush, true},
		{"straight flush loses to five bomb", flush, bomb5, false},
		{"longer bomb wins", bomb6, bomb5, true},
		{"shorter high bomb loses", bomb4, bomb5, false},
		{"king bomb beats everything", kings, bomb6, true},
		{"nothing beats king bomb", bomb6, kings, false},
		{"king bomb does not beat itself", kings, kings, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanBeat(tt.candidate, tt.onTable))
		})
	}
}

func TestNoNonBombBeatsBomb(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	bomb := mustAnalyze(t, mixed(card.Face3, card.Face3, card.Face3, card.Face3), level)
	nonBombs := [][]card.Card{
		{rj},
		{rj, rj},
		mixed(card.FaceA, card.FaceA, card.FaceA),
		mixed(card.FaceA, card.FaceA, card.FaceA, card.FaceK, card.FaceK),
		mixed(card.Face10, card.FaceJ, card.FaceQ, card.FaceK, card.FaceA),
		mixed(card.FaceQ, card.FaceQ, card.FaceK, card.FaceK, card.FaceA, card.FaceA),
	}
	for _, cards := range nonBombs {
		p := mustAnalyze(t, cards, level)
		assert.False(t, CanBeat(p, bomb), "%s should not beat a bomb", p.Type)
		assert.True(t, CanBeat(bomb, p))
	}
}
