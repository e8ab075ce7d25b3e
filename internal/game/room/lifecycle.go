package room

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
)

const (
	cleanupInterval = time.Minute
	storeTimeout    = 5 * time.Second
)

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// generateRoomCode 生成房间号，调用方需持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	defer rm.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.cleanup(time.Now())
		case <-rm.done:
			return
		}
	}
}

// cleanup 清理长时间无动作的房间
func (rm *RoomManager) cleanup(now time.Time) {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	for _, room := range rooms {
		room.mu.Lock()
		if room.closed || now.Sub(room.lastActive) <= rm.opts.RoomTimeout {
			room.mu.Unlock()
			continue
		}

		room.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
		for _, s := range room.Seats {
			if s.Online() {
				s.Client.SetRoom("")
			}
		}
		room.closed = true
		room.stopTimer()
		room.mu.Unlock()

		rm.removeRoom(room.Code)
		logger.Info("🏠 房间 %s 超时已清理", room.Code)
	}
}
