package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(c *gin.Context) {
	clientIP := c.ClientIP()

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		logger.Info("🔧 维护模式，拒绝新连接: %s", clientIP)
		c.String(http.StatusServiceUnavailable, "Server is under maintenance, please try again later")
		return
	}

	// 连接数限制，信号量在连接断开时释放
	select {
	case s.semaphore <- struct{}{}:
	default:
		logger.Warn("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		c.String(http.StatusServiceUnavailable, "Server Full")
		return
	}
	release := func() { <-s.semaphore }

	if !s.originChecker.Check(c.Request) {
		release()
		logger.Warn("🚫 来源验证失败: %s (IP: %s)", c.GetHeader("Origin"), clientIP)
		c.String(http.StatusForbidden, "Origin not allowed")
		return
	}

	if !s.rateLimiter.Allow(clientIP) {
		release()
		logger.Warn("🚫 IP %s 请求过于频繁", clientIP)
		c.String(http.StatusTooManyRequests, "Too Many Requests")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		release()
		logger.Warn("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.Name,
	}))

	logger.Info("✅ 玩家 %s (%s) 已连接", client.Name, client.ID)

	go func() {
		defer release()
		client.ReadPump()
	}()
	go client.WritePump()
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		logger.Info("❌ 玩家 %s (%s) 已断开", client.Name, client.ID)
	}
}

func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.clients[id] = c
	}
}

func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}
