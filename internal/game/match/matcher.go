package match

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/room"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/types"
)

// RoomCreator 为凑齐的四名玩家开房
type RoomCreator interface {
	CreateMatchedRoom(clients []types.ClientInterface) (*room.Room, error)
}

// QueueMirror 在 Redis 中镜像匹配队列，便于观察排队人数
type QueueMirror interface {
	AddToMatchQueue(ctx context.Context, playerID string) error
	RemoveFromMatchQueue(ctx context.Context, playerID string) error
}

// MatcherDeps 匹配器依赖，均可为 nil
type MatcherDeps struct {
	RoomManager RoomCreator
	Mirror      QueueMirror
}

// Matcher 匹配系统，按入队顺序每四人开一桌
type Matcher struct {
	deps  MatcherDeps
	queue []types.ClientInterface
	mu    sync.Mutex
}

// NewMatcher 创建匹配器
func NewMatcher(deps MatcherDeps) *Matcher {
	return &Matcher{
		deps:  deps,
		queue: make([]types.ClientInterface, 0, game.SeatCount),
	}
}

// AddToQueue 加入匹配队列，已在队列中时忽略
func (m *Matcher) AddToQueue(client types.ClientInterface) {
	m.mu.Lock()
	for _, c := range m.queue {
		if c.GetID() == client.GetID() {
			m.mu.Unlock()
			return
		}
	}
	m.queue = append(m.queue, client)
	logger.Info("🔍 玩家 %s 加入匹配队列，当前队列长度: %d", client.GetName(), len(m.queue))

	players := m.takeGroup()
	m.mu.Unlock()

	m.mirror(func(ctx context.Context, q QueueMirror) error {
		return q.AddToMatchQueue(ctx, client.GetID())
	})

	if players != nil {
		m.createMatchRoom(players)
	}
}

// RemoveFromQueue 从匹配队列移除
func (m *Matcher) RemoveFromQueue(client types.ClientInterface) {
	m.mu.Lock()
	removed := false
	for i, c := range m.queue {
		if c.GetID() == client.GetID() {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			removed = true
			break
		}
	}
	m.mu.Unlock()

	if !removed {
		return
	}
	logger.Info("🔍 玩家 %s 离开匹配队列", client.GetName())
	m.mirror(func(ctx context.Context, q QueueMirror) error {
		return q.RemoveFromMatchQueue(ctx, client.GetID())
	})
}

// GetQueueLength 获取队列长度
func (m *Matcher) GetQueueLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// takeGroup 队列满四人时取出前四人，调用方需持有 m.mu
func (m *Matcher) takeGroup() []types.ClientInterface {
	if len(m.queue) < game.SeatCount || m.deps.RoomManager == nil {
		return nil
	}
	players := make([]types.ClientInterface, game.SeatCount)
	copy(players, m.queue)
	m.queue = m.queue[game.SeatCount:]
	return players
}

// createMatchRoom 创建匹配房间，失败时把玩家放回队首
func (m *Matcher) createMatchRoom(players []types.ClientInterface) {
	for _, c := range players {
		m.mirror(func(ctx context.Context, q QueueMirror) error {
			return q.RemoveFromMatchQueue(ctx, c.GetID())
		})
	}

	r, err := m.deps.RoomManager.CreateMatchedRoom(players)
	if err != nil {
		logger.Warn("匹配创建房间失败: %v", err)
		m.mu.Lock()
		m.queue = append(players, m.queue...)
		m.mu.Unlock()
		return
	}
	logger.Info("🎮 匹配成功！房间 %s，玩家: %s, %s, %s, %s", r.Code,
		players[0].GetName(), players[1].GetName(), players[2].GetName(), players[3].GetName())
}

func (m *Matcher) mirror(op func(ctx context.Context, q QueueMirror) error) {
	if m.deps.Mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op(ctx, m.deps.Mirror); err != nil {
		logger.Warn("同步匹配队列失败: %v", err)
	}
}
