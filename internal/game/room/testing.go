//go:build !production

package room

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/guandan/internal/types"
)

// MockMatcher 匹配器 mock
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) AddToQueue(client types.ClientInterface) {
	m.Called(client)
}

func (m *MockMatcher) RemoveFromQueue(client types.ClientInterface) {
	m.Called(client)
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}

// Inspect 在房间锁内读取房间状态
func (r *Room) Inspect(fn func(r *Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}
