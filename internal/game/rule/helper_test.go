package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game/card"
)

func faces(cards []card.Card) []card.Face {
	out := make([]card.Face, len(cards))
	for i, cc := range cards {
		out[i] = cc.Face
	}
	return out
}

func TestFindSmallestBeating(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	kings := []card.Card{bj, bj, rj, rj}

	tests := []struct {
		name      string
		hand      []card.Card
		onTable   []card.Card
		wantFaces []card.Face
		wantType  PatternType
	}{
		{
			name:      "Single: beat 3 with 4",
			hand:      mixed(card.Face9, card.Face4, card.FaceK),
			onTable:   mixed(card.Face3),
			wantFaces: []card.Face{card.Face4},
			wantType:  Single,
		},
		{
			name:      "Pair: beat 3s with 5s",
			hand:      mixed(card.Face5, card.Face5, card.Face9, card.Face9),
			onTable:   mixed(card.Face3, card.Face3),
			wantFaces: []card.Face{card.Face5, card.Face5},
			wantType:  Pair,
		},
		{
			name:      "Pair: natural pair preferred over wildcard",
			hand:      append(mixed(card.Face4, card.Face9, card.Face9), wild2),
			onTable:   mixed(card.Face3, card.Face3),
			wantFaces: []card.Face{card.Face9, card.Face9},
			wantType:  Pair,
		},
		{
			name:      "Pair: wildcard completes when needed",
			hand:      append(mixed(card.Face4, card.Face7), wild2),
			onTable:   mixed(card.Face3, card.Face3),
			wantFaces: []card.Face{card.Face4, card.Face2},
			wantType:  Pair,
		},
		{
			name:      "Straight: same length higher",
			hand:      mixed(card.Face4, card.Face5, card.Face6, card.Face7, card.Face8, card.FaceK),
			onTable:   mixed(card.Face3, card.Face4, card.Face5, card.Face6, card.Face7),
			wantFaces: []card.Face{card.Face4, card.Face5, card.Face6, card.Face7, card.Face8},
			wantType:  Straight,
		},
		{
			name:      "Bomb when no same type",
			hand:      mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face5),
			onTable:   mixed(card.FaceA, card.FaceA),
			wantFaces: []card.Face{card.Face3, card.Face3, card.Face3, card.Face3},
			wantType:  Bomb,
		},
		{
			name:     "Nothing beats king bomb",
			hand:     mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face3),
			onTable:  kings,
			wantType: Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			table := mustAnalyze(t, tt.onTable, level)
			got := FindSmallestBeating(tt.hand, table, level)
			if tt.wantType == Invalid {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			p := mustAnalyze(t, got, level)
			assert.Equal(t, tt.wantType, p.Type)
			assert.ElementsMatch(t, tt.wantFaces, faces(got))
			assert.True(t, CanBeat(p, table))
		})
	}
}

func TestFindLead(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	tests := []struct {
		name      string
		hand      []card.Card
		wantFaces []card.Face
		wantType  PatternType
	}{
		{
			name:      "whole hand when it is one pattern",
			hand:      mixed(card.Face7, card.Face7),
			wantFaces: []card.Face{card.Face7, card.Face7},
			wantType:  Pair,
		},
		{
			name:      "keeps bombs",
			hand:      mixed(card.Face3, card.Face3, card.Face3, card.Face3, card.Face9, card.FaceK),
			wantFaces: []card.Face{card.Face9},
			wantType:  Single,
		},
		{
			name:      "triple takes lowest pair",
			hand:      mixed(card.Face5, card.Face5, card.Face5, card.Face8, card.Face8, card.FaceK, card.FaceK, card.FaceA),
			wantFaces: []card.Face{card.Face5, card.Face5, card.Face5, card.Face8, card.Face8},
			wantType:  FullHouse,
		},
		{
			name:      "natural straight from lowest card",
			hand:      mixed(card.Face6, card.Face7, card.Face8, card.Face9, card.Face10, card.FaceK, card.FaceK),
			wantFaces: []card.Face{card.Face6, card.Face7, card.Face8, card.Face9, card.Face10},
			wantType:  Straight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindLead(tt.hand, level)
			require.NotEmpty(t, got)
			p := mustAnalyze(t, got, level)
			assert.Equal(t, tt.wantType, p.Type)
			assert.ElementsMatch(t, tt.wantFaces, faces(got))
		})
	}
}

func TestFindLeadAlwaysValid(t *testing.T) {
	t.Parallel()

	level := card.Level(9)
	for range 50 {
		deck := card.NewDeck()
		deck.Shuffle()
		for _, hand := range deck.Deal() {
			lead := FindLead(hand, level)
			require.NotEmpty(t, lead)
			p, ok := Analyze(lead, level)
			require.True(t, ok, "lead %v is not a pattern", lead)
			assert.NotEqual(t, Pass, p.Type)

			_, _, owned := card.RemoveCards(hand, lead)
			assert.True(t, owned)
		}
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	hand := append(mixed(card.Face3, card.Face4, card.Face5, card.Face6, card.Face7, card.Face9, card.Face9, card.Face9), wild2)

	got := Candidates(hand, level)
	require.NotEmpty(t, got)

	types := make(map[PatternType]int)
	for _, p := range got {
		types[p.Type]++
		_, ok := Analyze(p.Cards, level)
		assert.True(t, ok, "candidate %v must classify", p.Cards)
	}
	assert.Positive(t, types[Single])
	assert.Positive(t, types[Pair])
	assert.Positive(t, types[Triple])
	assert.Positive(t, types[Straight])
	assert.Positive(t, types[Bomb], "three nines plus the wildcard make a bomb")

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Type, got[i].Type, "sorted by type")
	}
}

func TestCandidatesNoJokerWildPair(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	for _, p := range Candidates([]card.Card{rj, wild2}, level) {
		assert.NotEqual(t, Pair, p.Type)
	}
}

func TestCandidatesNeverPutAceBelowTwo(t *testing.T) {
	t.Parallel()

	level := card.Level(7)
	hand := mixed(card.FaceA, card.FaceA, card.Face2, card.Face2, card.Face3, card.Face3, card.Face4, card.Face5)
	for _, p := range Candidates(hand, level) {
		assert.NotContains(t, []PatternType{Straight, PairStraight, StraightFlush}, p.Type, "%v", p.Cards)
	}

	onTable := mustAnalyze(t, mixed(card.Face3, card.Face3, card.Face4, card.Face4, card.Face5, card.Face5), level)
	assert.False(t, CanBeatWithHand(mixed(card.FaceA, card.FaceA, card.Face2, card.Face2, card.Face3, card.Face3), onTable, level))
}

func TestCanBeatWithHand(t *testing.T) {
	t.Parallel()

	level := card.Level(2)
	onTable := mustAnalyze(t, mixed(card.FaceK, card.FaceK), level)

	assert.True(t, CanBeatWithHand(mixed(card.FaceA, card.FaceA), onTable, level))
	assert.False(t, CanBeatWithHand(mixed(card.Face3, card.Face4), onTable, level))
	assert.True(t, CanBeatWithHand(mixed(card.Face3), Pattern{}, level))
	assert.False(t, CanBeatWithHand(nil, Pattern{}, level))
}
