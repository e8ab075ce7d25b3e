package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/guandan/internal/config"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/game/match"
	"github.com/palemoky/guandan/internal/game/room"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/server/handler"
	"github.com/palemoky/guandan/internal/server/history"
	"github.com/palemoky/guandan/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client
	redisStore  *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	statsCache  *storage.StatsCache
	history     history.Recorder
	roomManager *room.RoomManager
	matcher     *match.Matcher
	handler     *handler.Handler
	clients     map[string]*Client
	clientsMu   sync.RWMutex

	upgrader websocket.Upgrader
	engine   *gin.Engine

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{}

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer    *http.Server
	metricsServer *http.Server
	done          chan struct{}
	stopped       chan struct{} // Shutdown 落盘完成后关闭
	closeOnce     sync.Once
}

// Open 连接 Redis 和 MongoDB 并创建服务器
func Open(ctx context.Context, cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	// 匹配队列只在内存中，Redis 里的镜像都是上次进程遗留的
	if stale, err := storage.NewRedisStore(rdb).DrainMatchQueue(pingCtx); err != nil {
		logger.Warn("清理匹配队列失败: %v", err)
	} else if len(stale) > 0 {
		logger.Info("🧹 清理遗留的 %d 个排队玩家", len(stale))
	}

	var rec history.Recorder = history.NopRecorder{}
	if cfg.Mongo.URI != "" {
		mongoRec, err := history.NewMongoRecorder(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		rec = mongoRec
		logger.Info("📚 对局历史写入 MongoDB 库 %s", cfg.Mongo.Database)
	}

	return NewServer(cfg, rdb, rec)
}

// NewServer 用已连接的存储创建服务器实例
func NewServer(cfg *config.Config, rdb *redis.Client, rec history.Recorder) (*Server, error) {
	s := &Server{
		config:      cfg,
		redis:       rdb,
		redisStore:  storage.NewRedisStore(rdb),
		leaderboard: storage.NewLeaderboardManager(rdb),
		history:     rec,
		clients:     make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Server.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}

	statsCache, err := storage.NewStatsCache(s.leaderboard, cfg.Cache.MaxCost, cfg.Cache.StatsTTLDuration())
	if err != nil {
		return nil, fmt.Errorf("创建统计缓存失败: %w", err)
	}
	s.statsCache = statsCache

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	s.roomManager = room.NewRoomManager(room.Options{
		Store:       s.redisStore,
		Leaderboard: s.leaderboard,
		StatsCache:  s.statsCache,
		History:     s.history,
		TurnTimeout: cfg.Game.TurnTimeoutDuration(),
		RoomTimeout: cfg.Game.RoomTimeoutDuration(),
		StartLevel:  card.Level(cfg.Game.StartLevel),
	})

	s.matcher = match.NewMatcher(match.MatcherDeps{
		RoomManager: s.roomManager,
		Mirror:      s.redisStore,
	})

	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
		Matcher:     s.matcher,
		Stats:       s.statsCache,
		Leaderboard: s.leaderboard,
	})

	s.engine = s.newRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.Server.MetricsPort > 0 {
		metrics, err := newMetricsServer(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort))
		if err != nil {
			return nil, err
		}
		s.metricsServer = metrics
	}

	logger.Info("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections)

	return s, nil
}

// Handler HTTP 入口，包含 WebSocket 和 REST 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	go s.monitorStats()

	if s.metricsServer != nil {
		go func() {
			logger.Info("📈 运行时监控: http://%s/debug/statsviz/", s.metricsServer.Addr)
			if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("监控服务异常退出: %v", err)
			}
		}()
	}

	logger.Info("🚀 服务器启动在 ws://%s/ws", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	// ListenAndServe 在 Shutdown 开始时就返回，等剩余快照和战绩写完
	<-s.stopped
	return nil
}
