package handler

import (
	"context"
	"time"

	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/types"
)

const (
	defaultBoardLimit = 10
	maxBoardLimit     = 50
	queryTimeout      = 3 * time.Second
)

// --- 排行榜处理 ---

// handleGetStats 获取个人统计
func (h *Handler) handleGetStats(client types.ClientInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	playerStats, err := h.stats.GetPlayerStats(ctx, client.GetID())
	if err != nil {
		logger.Warn("获取玩家 %s 统计失败: %v", client.GetID(), err)
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取统计失败"))
		return
	}

	if playerStats == nil {
		// 没有统计数据，返回空数据
		client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
			Rank:       -1,
		}))
		return
	}

	rank, _ := h.leaderboard.GetPlayerRank(ctx, client.GetID())
	client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, StatsToPayload(playerStats, rank)))
}

// StatsToPayload 个人统计转为消息
func StatsToPayload(s *storage.PlayerStats, rank int64) protocol.StatsResultPayload {
	return protocol.StatsResultPayload{
		PlayerID:      s.PlayerID,
		PlayerName:    s.PlayerName,
		TotalGames:    s.TotalGames,
		Wins:          s.Wins,
		Losses:        s.Losses,
		WinRate:       s.WinRate(),
		DoubleWins:    s.DoubleWins,
		Score:         s.Score,
		Rank:          int(rank),
		CurrentStreak: s.CurrentStreak,
		MaxWinStreak:  s.MaxWinStreak,
	}
}

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		payload = &protocol.GetLeaderboardPayload{}
	}
	if payload.Type == "" {
		payload.Type = storage.BoardTotal
	}
	payload.Offset, payload.Limit = ClampPage(payload.Offset, payload.Limit)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, payload.Type, payload.Offset, payload.Limit)
	if err != nil {
		logger.Warn("获取排行榜失败: %v", err)
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取排行榜失败"))
		return
	}

	protocolEntries := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		protocolEntries = append(protocolEntries, protocol.LeaderboardEntry{
			Rank:       entry.Rank,
			PlayerID:   entry.PlayerID,
			PlayerName: entry.PlayerName,
			Score:      entry.Score,
			Wins:       entry.Wins,
			WinRate:    entry.WinRate,
		})
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Type:    payload.Type,
		Entries: protocolEntries,
	}))
}

// ClampPage 限制分页参数
func ClampPage(offset, limit int) (int, int) {
	if limit <= 0 || limit > maxBoardLimit {
		limit = defaultBoardLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
