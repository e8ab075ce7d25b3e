package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	ids := make(map[string]bool)
	faces := make(map[Face]int)
	for _, c := range deck {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		faces[c.Face]++
	}
	for f := FaceA; f <= FaceK; f++ {
		assert.Equal(t, 8, faces[f], "face %s", f)
	}
	assert.Equal(t, 2, faces[FaceBlackJoker])
	assert.Equal(t, 2, faces[FaceRedJoker])
}

func TestDeal(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	deck.Shuffle()
	hands := deck.Deal()

	seen := make(map[string]bool)
	for _, hand := range hands {
		assert.Len(t, hand, HandSize)
		for _, c := range hand {
			assert.False(t, seen[c.ID], "card dealt twice: %s", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, DeckSize)
}

func TestDealPanicsOnShortDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()[:100]
	assert.Panics(t, func() { deck.Deal() })
}

func TestRank(t *testing.T) {
	t.Parallel()

	level := Level(5)
	tests := []struct {
		name string
		card Card
		want int
	}{
		{"two is lowest", Card{Suit: Spade, Face: Face2}, 1},
		{"king", Card{Suit: Club, Face: FaceK}, 12},
		{"ace above king", Card{Suit: Club, Face: FaceA}, 13},
		{"level card", Card{Suit: Spade, Face: Face5}, RankLevel},
		{"wildcard is a level card", Card{Suit: Heart, Face: Face5}, RankLevel},
		{"black joker", Card{Suit: Joker, Face: FaceBlackJoker}, RankBlackJoker},
		{"red joker", Card{Suit: Joker, Face: FaceRedJoker}, RankRedJoker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.card.Rank(level))
		})
	}
}

func TestLevelFace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Face2, StartLevel.Face())
	assert.Equal(t, FaceK, Level(13).Face())
	assert.Equal(t, Face2, MaxLevel.Face())
	assert.Equal(t, FaceA, MinLevel.Face())
	assert.True(t, Level(14).Valid())
	assert.False(t, Level(15).Valid())
}

func TestIsWild(t *testing.T) {
	t.Parallel()

	level := Level(7)
	assert.True(t, Card{Suit: Heart, Face: Face7}.IsWild(level))
	assert.False(t, Card{Suit: Spade, Face: Face7}.IsWild(level))
	assert.False(t, Card{Suit: Heart, Face: Face8}.IsWild(level))
	assert.True(t, Card{Suit: Spade, Face: Face7}.IsLevel(level))
}

func TestRemoveCards(t *testing.T) {
	t.Parallel()

	hand := []Card{
		{ID: "0-S-3", Suit: Spade, Face: Face3},
		{ID: "1-S-3", Suit: Spade, Face: Face3},
		{ID: "0-H-9", Suit: Heart, Face: Face9},
	}

	tests := []struct {
		name     string
		toRemove []Card
		ok       bool
		restLen  int
	}{
		{
			name:     "by id",
			toRemove: []Card{{ID: "0-H-9"}},
			ok:       true,
			restLen:  2,
		},
		{
			name:     "legacy suit and face",
			toRemove: []Card{{Suit: Spade, Face: Face3}, {Suit: Spade, Face: Face3}},
			ok:       true,
			restLen:  1,
		},
		{
			name:     "legacy fallback cannot reuse a card",
			toRemove: []Card{{Suit: Spade, Face: Face3}, {Suit: Spade, Face: Face3}, {Suit: Spade, Face: Face3}},
			ok:       false,
			restLen:  3,
		},
		{
			name:     "duplicate id",
			toRemove: []Card{{ID: "0-S-3"}, {ID: "0-S-3"}},
			ok:       false,
			restLen:  3,
		},
		{
			name:     "unknown id",
			toRemove: []Card{{ID: "9-S-3", Suit: Spade, Face: Face3}},
			ok:       false,
			restLen:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rest, removed, ok := RemoveCards(hand, tt.toRemove)
			assert.Equal(t, tt.ok, ok)
			assert.Len(t, rest, tt.restLen)
			if ok {
				assert.Len(t, removed, len(tt.toRemove))
			}
		})
	}

	assert.Len(t, hand, 3, "input hand must not be modified")
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	level := Level(2)
	hand := []Card{
		{ID: "a", Suit: Spade, Face: Face10},
		{ID: "b", Suit: Club, Face: FaceJ},
		{ID: "c", Suit: Heart, Face: Face2},
		{ID: "d", Suit: Spade, Face: Face2},
		{ID: "e", Suit: Joker, Face: FaceRedJoker},
	}

	tests := []struct {
		name    string
		input   string
		wantIDs []string
		wantErr bool
	}{
		{"ten and jack", "10J", []string{"a", "b"}, false},
		{"plain two skips wildcard", "2", []string{"d"}, false},
		{"explicit wildcard", "w", []string{"c"}, false},
		{"joker", "R", []string{"e"}, false},
		{"suit prefix", "s10", []string{"a"}, false},
		{"suit prefix picks wildcard as natural", "h2", []string{"c"}, false},
		{"suit prefix missing card", "h10", nil, true},
		{"dangling suit", "J c", nil, true},
		{"suited wildcard", "hw", nil, true},
		{"not enough", "22", nil, true},
		{"bad char", "X", nil, true},
		{"empty", "  ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards, err := ParseCards(hand, tt.input, level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, len(cards))
			for i, c := range cards {
				ids[i] = c.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSortHand(t *testing.T) {
	t.Parallel()

	level := Level(3)
	hand := []Card{
		{ID: "1", Suit: Joker, Face: FaceRedJoker},
		{ID: "2", Suit: Spade, Face: Face3},
		{ID: "3", Suit: Club, Face: FaceA},
		{ID: "4", Suit: Diamond, Face: Face2},
	}
	SortHand(hand, level)

	faces := []Face{hand[0].Face, hand[1].Face, hand[2].Face, hand[3].Face}
	assert.Equal(t, []Face{Face2, FaceA, Face3, FaceRedJoker}, faces)
}
