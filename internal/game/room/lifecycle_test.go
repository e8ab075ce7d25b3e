package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/testutil"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGenerateRoomCode(t *testing.T) {
	t.Parallel()

	rm := newManager(t, Options{})
	rm.mu.Lock()
	defer rm.mu.Unlock()

	seen := make(map[string]bool)
	for range 50 {
		code := rm.generateRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, ch := range code {
			assert.Contains(t, roomCodeChars, string(ch))
		}
		rm.rooms[code] = &Room{Code: code}
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestCleanupRemovesIdleRooms(t *testing.T) {
	t.Parallel()

	rm := newManager(t, Options{RoomTimeout: time.Minute})
	idle := testutil.NewSimpleClient("p1", "玩家1")
	busy := testutil.NewSimpleClient("p2", "玩家2")

	idleRoom, err := rm.CreateRoom(idle, 0)
	require.NoError(t, err)
	busyRoom, err := rm.CreateRoom(busy, 0)
	require.NoError(t, err)

	now := time.Now()
	idleRoom.Inspect(func(r *Room) { r.lastActive = now.Add(-2 * time.Minute) })

	rm.cleanup(now)

	assert.Nil(t, rm.GetRoom(idleRoom.Code))
	assert.Empty(t, idle.GetRoom())
	assert.Len(t, idle.MessagesOfType(protocol.MsgError), 1)

	assert.NotNil(t, rm.GetRoom(busyRoom.Code))
	assert.Equal(t, busyRoom.Code, busy.GetRoom())
	assert.Equal(t, 1, rm.RoomCount())
}

func TestRoomSnapshotPersisted(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	store := storage.NewRedisStore(client)
	rm := NewRoomManager(Options{Store: store})

	room, players := fullRoom(t, rm)
	rm.Close()

	data, err := store.LoadRoom(context.Background(), room.Code)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Len(t, data.Seats, game.SeatCount)
	require.NotNil(t, data.Game)

	restored, err := data.Game.Restore()
	require.NoError(t, err)
	var want game.View
	room.Inspect(func(r *Room) { want = r.Game.Snapshot(0) })
	assert.Equal(t, want, restored.Snapshot(0))

	rm2 := newManager(t, Options{Store: store})
	rm2.AddRoomForTest(room)
	for _, p := range players {
		rm2.LeaveRoom(p)
	}
	rm2.Close()

	data, err = store.LoadRoom(context.Background(), room.Code)
	require.NoError(t, err)
	assert.Nil(t, data, "dissolved room is deleted")
}

func TestHandResultRecorded(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	lb := storage.NewLeaderboardManager(client)
	rm := newManager(t, Options{Leaderboard: lb})

	human := testutil.NewSimpleClient("p1", "玩家1")
	room, err := rm.CreateRoom(human, 0)
	require.NoError(t, err)
	require.NoError(t, rm.AddBots(human))
	require.NoError(t, rm.SetPlayerReady(human, true))

	for steps := 0; steps < 500; steps++ {
		var inHand bool
		room.Inspect(func(r *Room) { inHand = r.inHand() })
		if !inHand {
			break
		}
		hint, err := rm.Hint(human)
		require.NoError(t, err)
		require.NoError(t, rm.Play(human, hint))
	}

	assert.Eventually(t, func() bool {
		stats, err := lb.GetPlayerStats(context.Background(), "p1")
		return err == nil && stats != nil && stats.TotalGames == 1
	}, 2*time.Second, 10*time.Millisecond)

	stats, err := lb.GetPlayerStats(context.Background(), "bot-"+room.Code+"-1")
	require.NoError(t, err)
	assert.Nil(t, stats, "bots are not ranked")
}

func TestCloseConcurrent(t *testing.T) {
	t.Parallel()

	rm := NewRoomManager(Options{Store: storage.NewRedisStore(newRedis(t))})
	_, _ = fullRoom(t, rm)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.NotPanics(t, rm.Close)
		})
	}
	wg.Wait()
	assert.NotPanics(t, rm.Close)
}
