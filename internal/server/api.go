package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/guandan/internal/apperrors"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/server/handler"
)

const apiTimeout = 3 * time.Second

// newRouter 注册 WebSocket 入口和只读 REST 接口
func (s *Server) newRouter() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/health", s.handleHealth)
	engine.GET("/ws", s.handleWebSocket)

	api := engine.Group("/api")
	{
		api.GET("/online", s.handleOnline)
		api.GET("/rooms", s.handleRoomList)
		api.GET("/rooms/:code", s.handleRoomInfo)
		api.GET("/leaderboard", s.handleLeaderboard)
		api.GET("/players/:id/stats", s.handlePlayerStats)
		api.GET("/players/:id/history", s.handlePlayerHistory)
	}
	return engine
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(c *gin.Context) {
	if s.IsMaintenanceMode() {
		c.String(http.StatusServiceUnavailable, "MAINTENANCE")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleOnline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"online":       s.GetOnlineCount(),
		"rooms":        s.roomManager.RoomCount(),
		"active_games": s.roomManager.GetActiveGamesCount(),
		"queue":        s.matcher.GetQueueLength(),
		"maintenance":  s.IsMaintenanceMode(),
	})
}

func (s *Server) handleRoomList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.roomManager.GetRoomList()})
}

// handleRoomInfo 房间概况，不含任何手牌
func (s *Server) handleRoomInfo(c *gin.Context) {
	info, err := s.roomManager.RoomInfo(c.Param("code"))
	if errors.Is(err, apperrors.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	offset, limit := handler.ClampPage(queryInt(c, "offset"), queryInt(c, "limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	entries, err := s.leaderboard.GetLeaderboard(ctx, c.DefaultQuery("type", "total"), offset, limit)
	if err != nil {
		logger.Error("获取排行榜失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取排行榜失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "offset": offset, "limit": limit})
}

func (s *Server) handlePlayerStats(c *gin.Context) {
	playerID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	stats, err := s.statsCache.GetPlayerStats(ctx, playerID)
	if err != nil {
		logger.Error("获取玩家统计失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计失败"})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "玩家没有战绩"})
		return
	}

	rank, err := s.leaderboard.GetPlayerRank(ctx, playerID)
	if err != nil {
		rank = -1
	}
	c.JSON(http.StatusOK, handler.StatsToPayload(stats, rank))
}

func (s *Server) handlePlayerHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	records, err := s.history.FindByPlayer(ctx, c.Param("id"), queryInt(c, "limit"))
	if err != nil {
		logger.Error("查询对局历史失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询历史失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// queryInt 解析整数查询参数，缺失或非法时为 0
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
