package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/protocol/codec"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "room:"
	matchQueueKey = "match:queue"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour
)

// RoomData 房间数据（用于 Redis 序列化）
type RoomData struct {
	Code      string       `json:"code"`
	Seats     []PlayerData `json:"seats"`
	CreatedAt int64        `json:"created_at"`
	Game      *GameData    `json:"game,omitempty"`
}

// PlayerData 座位上的玩家
type PlayerData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Ready bool   `json:"ready"`
	Bot   bool   `json:"bot"`
}

// GameData 牌桌快照：手牌以外的状态为 JSON，手牌单独紧凑编码
type GameData struct {
	State json.RawMessage        `json:"state"`
	Hands [game.SeatCount][]byte `json:"hands"`
}

// NewGameData 生成牌桌快照，调用方需持有房间锁
func NewGameData(r *game.GameRoom) (*GameData, error) {
	stripped := *r
	var data GameData
	for i, p := range r.Players {
		if p == nil {
			continue
		}
		hand, err := codec.EncodeCards(p.Hand)
		if err != nil {
			return nil, fmt.Errorf("编码座位 %d 手牌失败: %w", i, err)
		}
		data.Hands[i] = hand

		cp := *p
		cp.Hand = nil
		stripped.Players[i] = &cp
	}

	state, err := json.Marshal(&stripped)
	if err != nil {
		return nil, fmt.Errorf("序列化牌桌失败: %w", err)
	}
	data.State = state
	return &data, nil
}

// Restore 从快照重建牌桌
func (d *GameData) Restore() (*game.GameRoom, error) {
	var r game.GameRoom
	if err := json.Unmarshal(d.State, &r); err != nil {
		return nil, fmt.Errorf("反序列化牌桌失败: %w", err)
	}
	for i, p := range r.Players {
		if p == nil {
			continue
		}
		hand, err := codec.DecodeCards(d.Hands[i])
		if err != nil {
			return nil, fmt.Errorf("解码座位 %d 手牌失败: %w", i, err)
		}
		p.Hand = hand
	}
	return &r, nil
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 房间存储 ---

// SaveRoom 保存房间到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	return rs.client.Set(ctx, roomKeyPrefix+data.Code, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间，不存在时返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	data, err := rs.client.Get(ctx, roomKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}
	return &roomData, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return rs.client.Del(ctx, roomKeyPrefix+code).Err()
}

// GetAllRoomCodes 获取所有房间号
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	var codes []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, iter.Val()[len(roomKeyPrefix):])
	}
	return codes, iter.Err()
}

// --- 匹配队列 ---

// AddToMatchQueue 添加玩家到匹配队列
func (rs *RedisStore) AddToMatchQueue(ctx context.Context, playerID string) error {
	return rs.client.RPush(ctx, matchQueueKey, playerID).Err()
}

// RemoveFromMatchQueue 从匹配队列移除玩家
func (rs *RedisStore) RemoveFromMatchQueue(ctx context.Context, playerID string) error {
	return rs.client.LRem(ctx, matchQueueKey, 0, playerID).Err()
}

// GetMatchQueueLength 获取匹配队列长度
func (rs *RedisStore) GetMatchQueueLength(ctx context.Context) (int64, error) {
	return rs.client.LLen(ctx, matchQueueKey).Result()
}

// PopFromMatchQueue 从匹配队列弹出指定数量的玩家
func (rs *RedisStore) PopFromMatchQueue(ctx context.Context, count int) ([]string, error) {
	pipe := rs.client.Pipeline()
	results := make([]*redis.StringCmd, count)
	for i := range count {
		results[i] = pipe.LPop(ctx, matchQueueKey)
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	players := make([]string, 0, count)
	for _, result := range results {
		if playerID, err := result.Result(); err == nil {
			players = append(players, playerID)
		}
	}
	return players, nil
}

// DrainMatchQueue 清空匹配队列，返回被移除的玩家
func (rs *RedisStore) DrainMatchQueue(ctx context.Context) ([]string, error) {
	n, err := rs.GetMatchQueueLength(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	return rs.PopFromMatchQueue(ctx, int(n))
}

// ListRooms 按房间号顺序加载所有房间快照，期间过期的房间会被跳过
func (rs *RedisStore) ListRooms(ctx context.Context) ([]*RoomData, error) {
	codes, err := rs.GetAllRoomCodes(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(codes)

	rooms := make([]*RoomData, 0, len(codes))
	for _, code := range codes {
		data, err := rs.LoadRoom(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("加载房间 %s 失败: %w", code, err)
		}
		if data != nil {
			rooms = append(rooms, data)
		}
	}
	return rooms, nil
}
