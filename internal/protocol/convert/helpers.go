package convert

import (
	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/rule"
	"github.com/palemoky/guandan/internal/protocol"
)

// --- 牌桌投影 -> 消息 ---

// TributeToPayload 进贡结果
func TributeToPayload(st *game.TributeState) protocol.TributePayload {
	p := protocol.TributePayload{
		AntiTribute: st.AntiTribute,
		Double:      st.Double,
		Transfers:   make([]protocol.TributeTransfer, len(st.Transfers)),
	}
	for i, t := range st.Transfers {
		p.Transfers[i] = protocol.TributeTransfer{
			From:   t.From,
			To:     t.To,
			Card:   CardToInfo(t.Card),
			Return: t.Return,
		}
	}
	return p
}

// CardPlayedToPayload 出牌通知
func CardPlayedToPayload(p *game.Player, pattern rule.Pattern) protocol.CardPlayedPayload {
	return protocol.CardPlayedPayload{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Seat:        p.Seat,
		Cards:       CardsToInfos(pattern.Cards),
		CardsLeft:   len(p.Hand),
		PatternType: pattern.Type.String(),
	}
}

// HandOverToPayload 一局结算，附带未出完玩家的剩余手牌
func HandOverToPayload(r *game.GameRoom) protocol.HandOverPayload {
	res := r.LastResult
	p := protocol.HandOverPayload{
		HandNumber:  res.HandNumber,
		WinningTeam: res.WinningTeam,
		Upgrade:     res.Upgrade,
		Ranks:       res.Ranks[:],
		LevelBefore: res.LevelBefore.String(),
		LevelAfter:  res.LevelAfter.String(),
		MatchOver:   res.MatchOver,
	}
	for _, player := range r.Players {
		if player == nil || len(player.Hand) == 0 {
			continue
		}
		p.PlayerHands = append(p.PlayerHands, protocol.PlayerHand{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Cards:      CardsToInfos(player.Hand),
		})
	}
	return p
}

// PlayTurnToPayload 轮到 seat 出牌
func PlayTurnToPayload(r *game.GameRoom, timeoutSec int) protocol.PlayTurnPayload {
	seat := r.CurrentSeat()
	p := protocol.PlayTurnPayload{Seat: seat, Timeout: timeoutSec}
	if seat < 0 || r.Players[seat] == nil {
		return p
	}
	p.PlayerID = r.Players[seat].ID
	table, ok := r.TablePattern()
	p.MustPlay = !ok
	p.CanBeat = rule.CanBeatWithHand(r.Players[seat].Hand, table, r.Level)
	return p
}
