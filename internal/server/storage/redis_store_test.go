package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisStore(client), mr
}

func newStartedRoom(t *testing.T) *game.GameRoom {
	t.Helper()
	var players [game.SeatCount]*game.Player
	for i := range players {
		players[i] = &game.Player{ID: "p" + string(rune('0'+i)), Name: "玩家", Bot: i > 0}
	}
	r := game.NewGameRoom("SNAP01", players, card.StartLevel)
	require.NoError(t, r.InitGame())
	for range 9 {
		require.NoError(t, r.AutoPlay())
	}
	return r
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	roomData := &RoomData{
		Code:      "TEST123",
		Seats:     []PlayerData{{ID: "p1", Name: "小明", Seat: 0, Ready: true}},
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, store.SaveRoom(ctx, roomData))
	assert.True(t, mr.Exists(roomKeyPrefix+"TEST123"))
	assert.Greater(t, mr.TTL(roomKeyPrefix+"TEST123"), time.Duration(0))

	loaded, err := store.LoadRoom(ctx, "TEST123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData.Seats, loaded.Seats)
	assert.Nil(t, loaded.Game)

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TEST123"}, codes)

	require.NoError(t, store.DeleteRoom(ctx, "TEST123"))
	loaded, err = store.LoadRoom(ctx, "TEST123")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	assert.NoError(t, store.SaveRoom(context.Background(), nil))
}

func TestGameSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	r := newStartedRoom(t)

	gameData, err := NewGameData(r)
	require.NoError(t, err)
	assert.NotContains(t, string(gameData.State), r.Players[0].Hand[0].ID, "hands are not stored as JSON")

	require.NoError(t, store.SaveRoom(ctx, &RoomData{Code: r.Code, Game: gameData}))
	loaded, err := store.LoadRoom(ctx, r.Code)
	require.NoError(t, err)
	require.NotNil(t, loaded.Game)

	restored, err := loaded.Game.Restore()
	require.NoError(t, err)

	assert.Equal(t, r.Snapshot(0), restored.Snapshot(0))
	for seat := range game.SeatCount {
		assert.Equal(t, r.HandOf(seat), restored.HandOf(seat), "seat %d", seat)
	}
	assert.Equal(t, r.Played, restored.Played)

	// 恢复后的牌桌可以继续打
	require.NoError(t, restored.AutoPlay())
}

func TestGameSnapshotLeavesRoomIntact(t *testing.T) {
	t.Parallel()

	r := newStartedRoom(t)
	before := r.HandCounts()
	_, err := NewGameData(r)
	require.NoError(t, err)
	assert.Equal(t, before, r.HandCounts())
}

func TestRedisStore_MatchQueue(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		require.NoError(t, store.AddToMatchQueue(ctx, id))
	}
	require.NoError(t, store.RemoveFromMatchQueue(ctx, "p2"))

	length, err := store.GetMatchQueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), length)

	popped, err := store.PopFromMatchQueue(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3", "p4", "p5"}, popped)

	popped, err = store.PopFromMatchQueue(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, popped)
}

func TestRedisStore_DrainAndList(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	drained, err := store.DrainMatchQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, drained)

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, store.AddToMatchQueue(ctx, id))
	}
	drained, err = store.DrainMatchQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, drained)

	length, err := store.GetMatchQueueLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)

	for _, code := range []string{"222222", "111111"} {
		require.NoError(t, store.SaveRoom(ctx, &RoomData{Code: code}))
	}
	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "111111", rooms[0].Code)
	assert.Equal(t, "222222", rooms[1].Code)
}
