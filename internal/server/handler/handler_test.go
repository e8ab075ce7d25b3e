package handler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game/match"
	"github.com/palemoky/guandan/internal/game/room"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/protocol/convert"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/testutil"
)

type fixture struct {
	h      *Handler
	rm     *room.RoomManager
	lb     *storage.LeaderboardManager
	server *testutil.MockServer
}

func newFixture(t *testing.T, maintenance bool) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	lb := storage.NewLeaderboardManager(rdb)
	rm := room.NewRoomManager(room.Options{Leaderboard: lb})
	t.Cleanup(rm.Close)

	srv := new(testutil.MockServer)
	srv.On("IsMaintenanceMode").Return(maintenance).Maybe()

	h := NewHandler(HandlerDeps{
		Server:      srv,
		RoomManager: rm,
		Matcher:     match.NewMatcher(match.MatcherDeps{RoomManager: rm}),
		Stats:       lb,
		Leaderboard: lb,
	})
	return &fixture{h: h, rm: rm, lb: lb, server: srv}
}

func lastError(t *testing.T, c *testutil.SimpleClient) int {
	t.Helper()
	errs := c.MessagesOfType(protocol.MsgError)
	require.NotEmpty(t, errs)
	payload, err := codec.ParsePayload[protocol.ErrorPayload](errs[len(errs)-1])
	require.NoError(t, err)
	return payload.Code
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := testutil.NewSimpleClient("p1", "玩家1")

	f.h.Handle(c, &protocol.Message{Type: "bid"})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastError(t, c))
}

func TestHandle_Ping(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := testutil.NewSimpleClient("p1", "玩家1")

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 42}))

	pongs := c.MessagesOfType(protocol.MsgPong)
	require.Len(t, pongs, 1)
	pong, err := codec.ParsePayload[protocol.PongPayload](pongs[0])
	require.NoError(t, err)
	assert.Equal(t, int64(42), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandle_CreateAndJoin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	owner := testutil.NewSimpleClient("p1", "玩家1")
	guest := testutil.NewSimpleClient("p2", "玩家2")
	stranger := testutil.NewSimpleClient("p3", "玩家3")

	f.h.Handle(owner, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{StartLevel: 10}))
	created := owner.MessagesOfType(protocol.MsgRoomCreated)
	require.Len(t, created, 1)
	cp, err := codec.ParsePayload[protocol.RoomCreatedPayload](created[0])
	require.NoError(t, err)
	assert.Equal(t, 0, cp.Player.Seat)
	assert.Equal(t, "p1", cp.Player.ID)

	f.h.Handle(guest, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: cp.RoomCode}))
	joined := guest.MessagesOfType(protocol.MsgRoomJoined)
	require.Len(t, joined, 1)
	jp, err := codec.ParsePayload[protocol.RoomJoinedPayload](joined[0])
	require.NoError(t, err)
	assert.Equal(t, 1, jp.Player.Seat)
	assert.Equal(t, 1, jp.Player.Team)
	assert.Len(t, jp.Players, 2)

	f.h.Handle(stranger, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "nope"}))
	assert.Equal(t, protocol.ErrCodeRoomNotFound, lastError(t, stranger))

	f.h.Handle(stranger, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{}))
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastError(t, stranger))

	f.h.Handle(guest, &protocol.Message{Type: protocol.MsgLeaveRoom})
	assert.Empty(t, guest.GetRoom())
	assert.Len(t, owner.MessagesOfType(protocol.MsgPlayerLeft), 1)
}

func TestHandle_Maintenance(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	c := testutil.NewSimpleClient("p1", "玩家1")

	for _, msgType := range []protocol.MessageType{protocol.MsgCreateRoom, protocol.MsgQuickMatch} {
		c.Reset()
		f.h.Handle(c, &protocol.Message{Type: msgType})
		assert.Equal(t, protocol.ErrCodeMaintenance, lastError(t, c), msgType)
	}
	assert.Equal(t, 0, f.rm.RoomCount())
}

func TestHandle_GameFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := testutil.NewSimpleClient("p1", "玩家1")

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgPass})
	assert.Equal(t, protocol.ErrCodeNotInRoom, lastError(t, c))

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgCreateRoom})
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgAddBots})
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgHint})
	assert.Equal(t, protocol.ErrCodeGameNotStart, lastError(t, c))

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgReady})
	require.Len(t, c.MessagesOfType(protocol.MsgHandStart), 1)

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgHint})
	hints := c.MessagesOfType(protocol.MsgHintResult)
	require.Len(t, hints, 1)
	hint, err := codec.ParsePayload[protocol.HintResultPayload](hints[0])
	require.NoError(t, err)

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgPlayCards, protocol.PlayCardsPayload{}))
	assert.Equal(t, protocol.ErrCodeInvalidCards, lastError(t, c))

	if len(hint.Cards) == 0 {
		f.h.Handle(c, &protocol.Message{Type: protocol.MsgPass})
	} else {
		f.h.Handle(c, codec.MustNewMessage(protocol.MsgPlayCards, protocol.PlayCardsPayload{Cards: hint.Cards}))
	}

	var mine []protocol.CardInfo
	for _, m := range c.MessagesOfType(protocol.MsgCardPlayed) {
		p, err := codec.ParsePayload[protocol.CardPlayedPayload](m)
		require.NoError(t, err)
		if p.PlayerID == "p1" {
			mine = p.Cards
		}
	}
	if len(hint.Cards) > 0 {
		assert.ElementsMatch(t, convert.InfosToCards(hint.Cards), convert.InfosToCards(mine))
	}

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgGetState})
	states := c.MessagesOfType(protocol.MsgGameState)
	require.Len(t, states, 1)
}

func TestHandle_PauseResume(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := testutil.NewSimpleClient("p1", "玩家1")

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgPause})
	assert.Equal(t, protocol.ErrCodeNotInRoom, lastError(t, c))

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgCreateRoom})
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgAddBots})
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgReady})

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgPause})
	assert.Len(t, c.MessagesOfType(protocol.MsgGamePaused), 1)

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgPass})
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgResume})
	assert.Len(t, c.MessagesOfType(protocol.MsgGameResumed), 1)
}

func TestHandle_Stats(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := testutil.NewSimpleClient("p1", "玩家1")

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgGetStats})
	res := c.MessagesOfType(protocol.MsgStatsResult)
	require.Len(t, res, 1)
	empty, err := codec.ParsePayload[protocol.StatsResultPayload](res[0])
	require.NoError(t, err)
	assert.Equal(t, "p1", empty.PlayerID)
	assert.Equal(t, -1, empty.Rank)

	ctx := context.Background()
	require.NoError(t, f.lb.RecordHandResult(ctx, storage.HandOutcome{PlayerID: "p1", PlayerName: "玩家1", Won: true, Upgrade: 3}))
	require.NoError(t, f.lb.RecordHandResult(ctx, storage.HandOutcome{PlayerID: "p2", PlayerName: "玩家2", Won: false, Upgrade: 3}))

	c.Reset()
	f.h.Handle(c, &protocol.Message{Type: protocol.MsgGetStats})
	stats, err := codec.ParsePayload[protocol.StatsResultPayload](c.LastMessage())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.DoubleWins)
	assert.InDelta(t, 100.0, stats.WinRate, 0.001)
	assert.Equal(t, 1, stats.Rank)

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: 500}))
	board, err := codec.ParsePayload[protocol.LeaderboardResultPayload](c.LastMessage())
	require.NoError(t, err)
	assert.Equal(t, storage.BoardTotal, board.Type)
	require.NotEmpty(t, board.Entries)
	assert.Equal(t, "p1", board.Entries[0].PlayerID)
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{0, 0, 0, defaultBoardLimit},
		{-3, 20, 0, 20},
		{5, maxBoardLimit + 1, 5, defaultBoardLimit},
		{2, maxBoardLimit, 2, maxBoardLimit},
	}
	for _, tt := range tests {
		offset, limit := ClampPage(tt.offset, tt.limit)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}
