package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// StatsSource 玩家统计的数据来源
type StatsSource interface {
	GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error)
}

// StatsCache 玩家统计的本地读穿缓存
type StatsCache struct {
	source StatsSource
	cache  *ristretto.Cache
	ttl    time.Duration
}

// NewStatsCache 创建统计缓存
// maxCost: 最大条目数（每条成本为 1）
func NewStatsCache(source StatsSource, maxCost int64, ttl time.Duration) (*StatsCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &StatsCache{source: source, cache: cache, ttl: ttl}, nil
}

// GetPlayerStats 先查缓存，未命中时回源并写入缓存
func (c *StatsCache) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	if v, ok := c.cache.Get(playerID); ok {
		if stats, ok := v.(*PlayerStats); ok {
			cp := *stats
			return &cp, nil
		}
	}

	stats, err := c.source.GetPlayerStats(ctx, playerID)
	if err != nil || stats == nil {
		return stats, err
	}
	cp := *stats
	c.cache.SetWithTTL(playerID, &cp, 1, c.ttl)
	return stats, nil
}

// Invalidate 玩家统计更新后清除缓存
func (c *StatsCache) Invalidate(playerID string) {
	c.cache.Del(playerID)
}

// Wait 等待写缓冲落地
func (c *StatsCache) Wait() {
	c.cache.Wait()
}

// Close 关闭缓存
func (c *StatsCache) Close() {
	c.cache.Close()
}
