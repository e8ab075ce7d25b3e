package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/guandan/internal/game/card"
)

func TestCardsRoundTrip(t *testing.T) {
	t.Parallel()

	deck := card.NewDeck()
	data, err := EncodeCards(deck)
	require.NoError(t, err)
	assert.Less(t, len(data), 3*card.DeckSize, "compact encoding")

	got, err := DecodeCards(data)
	require.NoError(t, err)
	assert.Equal(t, []card.Card(deck), got)
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	data, err := EncodeCards(nil)
	require.NoError(t, err)

	got, err := DecodeCards(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeRejectsUnknownID(t *testing.T) {
	t.Parallel()

	_, err := EncodeCards([]card.Card{{ID: "x", Suit: card.Spade, Face: card.Face3}})
	assert.Error(t, err)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	t.Parallel()

	hand := []card.Card{card.New(1, card.Heart, card.Face10), card.New(0, card.Joker, card.FaceRedJoker)}
	data, err := EncodeCards(hand)
	require.NoError(t, err)

	prefix := protowire.AppendTag(nil, 7, protowire.VarintType)
	prefix = protowire.AppendVarint(prefix, 42)

	got, err := DecodeCards(append(prefix, data...))
	require.NoError(t, err)
	assert.Equal(t, hand, got)
	assert.Equal(t, "1-H-10", got[0].ID)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated tag", []byte{0xff}},
		{"truncated bytes", protowire.AppendTag(nil, cardsField, protowire.BytesType)},
		{"bad card value", protowire.AppendBytes(protowire.AppendTag(nil, cardsField, protowire.BytesType), protowire.AppendVarint(nil, 9<<8))},
	}
	for _, tt := range tests {
		_, err := DecodeCards(tt.data)
		assert.Error(t, err, tt.name)
	}
}
