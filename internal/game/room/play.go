package room

import (
	"time"

	"github.com/palemoky/guandan/internal/apperrors"
	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/protocol/convert"
	"github.com/palemoky/guandan/internal/server/history"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/types"
)

// Play 玩家出牌，cards 为空表示不出
func (rm *RoomManager) Play(client types.ClientInterface, cards []card.Card) error {
	room, seat, err := rm.lockClientRoom(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if room.Game == nil {
		return apperrors.ErrGameNotStart
	}
	if err := rm.applyMove(room, seat, cards); err != nil {
		return err
	}
	rm.advance(room)
	rm.persist(room)
	return nil
}

// Pass 玩家不出
func (rm *RoomManager) Pass(client types.ClientInterface) error {
	return rm.Play(client, nil)
}

// Hint 给出建议出牌，nil 表示建议不出
func (rm *RoomManager) Hint(client types.ClientInterface) ([]card.Card, error) {
	room, seat, err := rm.lockClientRoom(client)
	if err != nil {
		return nil, err
	}
	defer room.mu.Unlock()

	if !room.inHand() {
		return nil, apperrors.ErrGameNotStart
	}
	return room.Game.SuggestPlay(seat), nil
}

// State 玩家视角的牌桌快照
func (rm *RoomManager) State(client types.ClientInterface) (game.View, error) {
	room, seat, err := rm.lockClientRoom(client)
	if err != nil {
		return game.View{}, err
	}
	defer room.mu.Unlock()

	if room.Game == nil {
		return game.View{}, apperrors.ErrGameNotStart
	}
	return room.Game.Snapshot(seat), nil
}

// Pause 暂停对局，暂停期间不计时
func (rm *RoomManager) Pause(client types.ClientInterface) error {
	room, _, err := rm.lockClientRoom(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if !room.inHand() {
		return apperrors.ErrGameNotStart
	}
	room.Game.Pause()
	room.stopTimer()
	room.touch()

	room.Broadcast(codec.MustNewMessage(protocol.MsgGamePaused, protocol.GamePausedPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))
	rm.persist(room)
	return nil
}

// Resume 恢复对局并重新计时
func (rm *RoomManager) Resume(client types.ClientInterface) error {
	room, _, err := rm.lockClientRoom(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if !room.inHand() {
		return apperrors.ErrGameNotStart
	}
	if !room.Game.Paused {
		return nil
	}
	room.Game.Resume()
	room.touch()

	room.Broadcast(codec.MustNewMessage(protocol.MsgGameResumed, protocol.GamePausedPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))
	rm.advance(room)
	rm.persist(room)
	return nil
}

// maybeStart 四个座位都准备好时开下一局，比赛结束后重新开一场
func (rm *RoomManager) maybeStart(room *Room) {
	if room.inHand() || !room.allReady() {
		return
	}
	if room.Game != nil && room.Game.MatchOver {
		room.Game = nil
	}
	if err := rm.startHand(room); err != nil {
		logger.Error("房间 %s 开局失败: %v", room.Code, err)
	}
}

// startHand 发牌、进贡并通知各座位
func (rm *RoomManager) startHand(room *Room) error {
	var players [game.SeatCount]*game.Player
	for seat, s := range room.Seats {
		players[seat] = &game.Player{ID: s.ID, Name: s.Name, Bot: s.Bot}
	}

	if room.Game == nil {
		room.Game = game.NewGameRoom(room.Code, players, room.StartLevel)
	} else {
		// 上一局后换过人的座位沿用名次和积分，身份更新
		for seat, p := range room.Game.Players {
			p.ID, p.Name, p.Bot = players[seat].ID, players[seat].Name, players[seat].Bot
		}
	}

	if err := room.Game.InitGame(); err != nil {
		return err
	}
	room.touch()

	g := room.Game
	logger.Info("🃏 房间 %s 第 %d 局开始，打 %s", room.Code, g.HandNumber, g.Level)

	room.Broadcast(codec.MustNewMessage(protocol.MsgHandStart, protocol.HandStartPayload{
		HandNumber: g.HandNumber,
		Level:      g.Level.String(),
		Players:    room.playerInfos(),
		Leader:     g.CurrentSeat(),
	}))
	if st := g.TributeInfo(); st != nil {
		room.Broadcast(codec.MustNewMessage(protocol.MsgTribute, convert.TributeToPayload(st)))
	}
	for seat := range room.Seats {
		room.sendTo(seat, codec.MustNewMessage(protocol.MsgDealCards, protocol.DealCardsPayload{
			Cards: convert.CardsToInfos(g.HandOf(seat)),
		}))
	}

	rm.advance(room)
	return nil
}

// applyMove 执行一步并广播结果，调用方需持有房间锁
func (rm *RoomManager) applyMove(room *Room, seat int, cards []card.Card) error {
	g := room.Game
	if err := g.Play(seat, cards); err != nil {
		return err
	}
	room.touch()

	p := g.Players[seat]
	if len(cards) == 0 {
		room.Broadcast(codec.MustNewMessage(protocol.MsgPlayerPass, protocol.PlayerPassPayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Seat:       seat,
		}))
		if _, open := g.TablePattern(); !open && !g.Finished {
			room.Broadcast(codec.MustNewMessage(protocol.MsgTrickCleared, protocol.TrickClearedPayload{
				Leader: g.CurrentSeat(),
			}))
		}
	} else {
		pattern := *g.LastPattern
		room.Broadcast(codec.MustNewMessage(protocol.MsgCardPlayed, convert.CardPlayedToPayload(p, pattern)))
		if len(p.Hand) == 0 {
			room.Broadcast(codec.MustNewMessage(protocol.MsgPlayerFinished, protocol.PlayerFinishedPayload{
				PlayerID: p.ID,
				Seat:     seat,
				Place:    len(g.FinishOrder()),
			}))
		}
	}

	if g.Finished {
		rm.finishHand(room)
	}
	return nil
}

// advance 替机器人和托管座位出牌，直到轮到在线玩家，然后开始计时
func (rm *RoomManager) advance(room *Room) {
	for room.inHand() && !room.Game.Paused {
		seat := room.Game.CurrentSeat()
		if room.Seats[seat].Online() {
			room.Broadcast(codec.MustNewMessage(protocol.MsgPlayTurn,
				convert.PlayTurnToPayload(room.Game, int(rm.opts.TurnTimeout/time.Second))))
			rm.armTimer(room)
			return
		}
		if err := rm.applyMove(room, seat, room.Game.SuggestPlay(seat)); err != nil {
			// 建议出牌总是合法的，走到这里说明牌桌状态已损坏
			logger.Error("房间 %s 座位 %d 托管出牌失败: %v", room.Code, seat, err)
			room.stopTimer()
			return
		}
	}
	room.stopTimer()
}

func (rm *RoomManager) armTimer(room *Room) {
	room.stopTimer()
	if rm.opts.TurnTimeout <= 0 {
		return
	}
	seq := room.turnSeq
	room.turnTimer = time.AfterFunc(rm.opts.TurnTimeout, func() {
		rm.onTurnTimeout(room, seq)
	})
}

// stopTimer 停止计时并让已触发的回调失效
func (r *Room) stopTimer() {
	r.turnSeq++
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// onTurnTimeout 超时按建议出牌
func (rm *RoomManager) onTurnTimeout(room *Room, seq uint64) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if seq != room.turnSeq || room.closed || !room.inHand() || room.Game.Paused {
		return
	}

	seat := room.Game.CurrentSeat()
	logger.Info("⏰ 房间 %s 座位 %d 超时，自动出牌", room.Code, seat)
	if err := rm.applyMove(room, seat, room.Game.SuggestPlay(seat)); err != nil {
		logger.Error("房间 %s 座位 %d 超时出牌失败: %v", room.Code, seat, err)
		return
	}
	rm.advance(room)
	rm.persist(room)
}

// finishHand 广播结算，重置准备状态，异步写入排行榜和历史
func (rm *RoomManager) finishHand(room *Room) {
	room.stopTimer()
	g := room.Game
	res := g.LastResult

	payload := convert.HandOverToPayload(g)
	room.Broadcast(codec.MustNewMessage(protocol.MsgHandOver, payload))
	if res.MatchOver {
		room.Broadcast(codec.MustNewMessage(protocol.MsgMatchOver, payload))
		logger.Info("🏆 房间 %s 比赛结束，队伍 %d 获胜", room.Code, res.WinningTeam)
	} else {
		logger.Info("🏁 房间 %s 第 %d 局结束，队伍 %d 升 %d 级", room.Code, res.HandNumber, res.WinningTeam, res.Upgrade)
	}

	var outcomes []storage.HandOutcome
	for seat, s := range room.Seats {
		s.Ready = s.Bot
		if s.Bot {
			continue
		}
		outcomes = append(outcomes, storage.HandOutcome{
			PlayerID:   s.ID,
			PlayerName: s.Name,
			Won:        game.TeamOf(seat) == res.WinningTeam,
			Upgrade:    res.Upgrade,
		})
	}
	rec := history.NewHandRecord(g, time.Now())

	rm.wg.Add(1)
	go rm.recordHand(outcomes, rec)
}

func (rm *RoomManager) recordHand(outcomes []storage.HandOutcome, rec *history.HandRecord) {
	defer rm.wg.Done()
	ctx, cancel := storeContext()
	defer cancel()

	if rm.opts.Leaderboard != nil {
		for _, o := range outcomes {
			if err := rm.opts.Leaderboard.RecordHandResult(ctx, o); err != nil {
				logger.Warn("记录玩家 %s 战绩失败: %v", o.PlayerID, err)
				continue
			}
			if rm.opts.StatsCache != nil {
				rm.opts.StatsCache.Invalidate(o.PlayerID)
			}
		}
	}
	if err := rm.opts.History.Save(ctx, rec); err != nil {
		logger.Warn("保存房间 %s 对局记录失败: %v", rec.RoomCode, err)
	}
}
