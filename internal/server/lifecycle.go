package server

import (
	"context"
	"runtime"
	"time"

	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
)

const (
	monitorInterval       = 30 * time.Second
	shutdownCheckInterval = time.Second
)

// monitorStats 定期记录服务器状态并清理过期的限流记录
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		s.rateLimiter.Sweep()

		logger.Info("📊 [监控] 在线: %d | 房间: %d | 对局中: %d | 匹配队列: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.roomManager.RoomCount(),
			s.roomManager.GetActiveGamesCount(),
			s.matcher.GetQueueLength(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToLobby(codec.NewErrorMessageWithText(protocol.ErrCodeMaintenance, "👷🏻‍♂️ 维护模式：停止新的房间创建"))

	logger.Info("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 进入维护模式，等待进行中的对局打完或 ctx 到期后关闭
func (s *Server) GracefulShutdown(ctx context.Context) {
	s.EnterMaintenanceMode()

	ticker := time.NewTicker(shutdownCheckInterval)
	defer ticker.Stop()

wait:
	for {
		activeGames := s.roomManager.GetActiveGamesCount()
		if activeGames == 0 {
			logger.Info("✅ 所有对局已结束")
			break
		}
		logger.Info("⏳ 等待 %d 个对局结束...", activeGames)
		select {
		case <-ctx.Done():
			logger.Warn("⚠️ 超时，仍有 %d 个对局进行中，强制关闭", activeGames)
			break wait
		case <-ticker.C:
		}
	}

	s.BroadcastToLobby(codec.NewErrorMessageWithText(protocol.ErrCodeMaintenance, "🚧 服务器停机维护！"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Shutdown(shutdownCtx)
}

// Shutdown 关闭连接并释放存储
func (s *Server) Shutdown(ctx context.Context) {
	s.closeOnce.Do(func() {
		close(s.done)

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(ctx); err != nil {
				logger.Warn("HTTP 服务关闭失败: %v", err)
			}
		}
		if s.metricsServer != nil {
			_ = s.metricsServer.Shutdown(ctx)
		}

		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clientsMu.Unlock()

		// 房间管理器会落盘剩余快照并等待战绩写完
		s.roomManager.Close()
		s.statsCache.Close()

		if err := s.history.Close(ctx); err != nil {
			logger.Warn("关闭对局历史失败: %v", err)
		}
		_ = s.redis.Close()

		logger.Info("服务器已关闭")
		close(s.stopped)
	})
}
