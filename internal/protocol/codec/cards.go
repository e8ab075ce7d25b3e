package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/guandan/internal/game/card"
)

// 手牌紧凑编码：字段 1 为 packed varint，每张牌占一个 varint，
// 取值为 copy<<8 | suit<<4 | face。ID 在解码时按同样规则重建。
const cardsField protowire.Number = 1

var errMalformedCards = errors.New("codec: malformed card encoding")

func packCard(c card.Card) (uint64, error) {
	copyIdx, ok := c.CopyIndex()
	if !ok || c.Suit < card.Spade || c.Suit > card.Joker || c.Face < card.FaceA || c.Face > card.FaceRedJoker {
		return 0, fmt.Errorf("codec: cannot encode card %q", c.ID)
	}
	return uint64(copyIdx)<<8 | uint64(c.Suit)<<4 | uint64(c.Face), nil
}

func unpackCard(v uint64) (card.Card, error) {
	copyIdx := int(v >> 8)
	s := card.Suit(v >> 4 & 0xf)
	f := card.Face(v & 0xf)
	if copyIdx >= card.DeckCopies || s > card.Joker || f < card.FaceA || f > card.FaceRedJoker {
		return card.Card{}, errMalformedCards
	}
	return card.New(copyIdx, s, f), nil
}

// EncodeCards 将一组牌编码为 protobuf wire 格式
func EncodeCards(cards []card.Card) ([]byte, error) {
	scratch := scratches.get()
	defer scratches.put(scratch)

	packed := *scratch
	for _, c := range cards {
		v, err := packCard(c)
		if err != nil {
			return nil, err
		}
		packed = protowire.AppendVarint(packed, v)
	}
	*scratch = packed

	b := make([]byte, 0, len(packed)+protowire.SizeTag(cardsField)+protowire.SizeVarint(uint64(len(packed))))
	b = protowire.AppendTag(b, cardsField, protowire.BytesType)
	return protowire.AppendBytes(b, packed), nil
}

// DecodeCards 解码 EncodeCards 的结果，未知字段会被跳过
func DecodeCards(data []byte) ([]card.Card, error) {
	cards := []card.Card{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		if num != cardsField || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}

		packed, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return nil, protowire.ParseError(m)
			}
			packed = packed[m:]
			c, err := unpackCard(v)
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}
