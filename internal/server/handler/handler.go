package handler

import (
	"context"

	"github.com/palemoky/guandan/internal/game/match"
	"github.com/palemoky/guandan/internal/game/room"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/types"
)

// StatsReader 玩家统计读取，通常是带缓存的排行榜
type StatsReader interface {
	GetPlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error)
}

// LeaderboardReader 排行榜读取
type LeaderboardReader interface {
	GetLeaderboard(ctx context.Context, boardType string, offset, limit int) ([]storage.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, playerID string) (int64, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	RoomManager *room.RoomManager
	Matcher     *match.Matcher
	Stats       StatsReader
	Leaderboard LeaderboardReader
}

// Handler 消息处理器
type Handler struct {
	server      types.ServerInterface
	roomManager *room.RoomManager
	matcher     *match.Matcher
	stats       StatsReader
	leaderboard LeaderboardReader
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		roomManager: deps.RoomManager,
		matcher:     deps.Matcher,
		stats:       deps.Stats,
		leaderboard: deps.Leaderboard,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 房间操作
		protocol.MsgCreateRoom:  h.handleCreateRoom,
		protocol.MsgJoinRoom:    h.handleJoinRoom,
		protocol.MsgLeaveRoom:   func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },
		protocol.MsgQuickMatch:  func(c types.ClientInterface, _ *protocol.Message) { h.handleQuickMatch(c) },
		protocol.MsgReady:       func(c types.ClientInterface, _ *protocol.Message) { h.handleReady(c, true) },
		protocol.MsgCancelReady: func(c types.ClientInterface, _ *protocol.Message) { h.handleReady(c, false) },
		protocol.MsgAddBots:     func(c types.ClientInterface, _ *protocol.Message) { h.handleAddBots(c) },

		// 游戏操作
		protocol.MsgPlayCards: h.handlePlayCards,
		protocol.MsgPass:      func(c types.ClientInterface, _ *protocol.Message) { h.handlePass(c) },
		protocol.MsgHint:      func(c types.ClientInterface, _ *protocol.Message) { h.handleHint(c) },
		protocol.MsgGetState:  func(c types.ClientInterface, _ *protocol.Message) { h.handleGetState(c) },
		protocol.MsgPause:     func(c types.ClientInterface, _ *protocol.Message) { h.handlePause(c, true) },
		protocol.MsgResume:    func(c types.ClientInterface, _ *protocol.Message) { h.handlePause(c, false) },

		// 信息查询
		protocol.MsgGetStats:       func(c types.ClientInterface, _ *protocol.Message) { h.handleGetStats(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.Warn("⚠️ 未知消息类型: '%s' (来自玩家: %s, ID: %s, Payload %d bytes)",
		msg.Type, client.GetName(), client.GetID(), len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// reply 操作失败时回复错误
func reply(client types.ClientInterface, err error) {
	if err != nil {
		client.SendMessage(codec.ErrorMessageFrom(err))
	}
}

func (h *Handler) inMaintenance(client types.ClientInterface, what string) bool {
	if h.server == nil || !h.server.IsMaintenanceMode() {
		return false
	}
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeMaintenance, "服务器维护中，暂停"+what))
	return true
}
