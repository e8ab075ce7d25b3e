package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMetricsPort    = 1781
	defaultMaxConnections = 2000
	defaultRedisAddr      = "localhost:6379"
	defaultMongoDatabase  = "guandan"
	defaultTurnTimeout    = 30
	defaultRoomTimeout    = 10
	defaultStartLevel     = 2
	defaultStatsCacheTTL  = 30
	defaultLogLevel       = "info"

	defaultConnPerSecond = 10
	defaultConnPerMinute = 60
	defaultBanDuration   = 60
	defaultMsgPerSecond  = 20
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Game     GameConfig     `yaml:"game"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig HTTP / WebSocket 服务器配置
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	MetricsPort    int      `yaml:"metrics_port"` // statsviz 监控端口，0 为关闭
	MaxConnections int      `yaml:"max_connections"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MongoConfig 对局历史存储，URI 为空时不记录
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// GameConfig 游戏配置
type GameConfig struct {
	TurnTimeout int `yaml:"turn_timeout"` // 出牌超时（秒），0 为不限时
	RoomTimeout int `yaml:"room_timeout"` // 房间空闲超时（分钟）
	StartLevel  int `yaml:"start_level"`  // 起始级别，沿用牌面编码（2 为打 2）
}

// CacheConfig 本地缓存
type CacheConfig struct {
	StatsTTL int   `yaml:"stats_ttl"` // 玩家统计缓存（秒）
	MaxCost  int64 `yaml:"max_cost"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // 为空时只输出到标准输出
}

// SecurityConfig 连接与消息限流
type SecurityConfig struct {
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 每个 IP 的建连频率
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 每个连接的消息频率
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// RoomTimeoutDuration 返回房间空闲超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// StatsTTLDuration 返回统计缓存时长
func (c *CacheConfig) StatsTTLDuration() time.Duration {
	return time.Duration(c.StatsTTL) * time.Second
}

// Addr 监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.Game.StartLevel < 1 || cfg.Game.StartLevel > 14 {
		return nil, fmt.Errorf("game.start_level 必须在 1 到 14 之间: %d", cfg.Game.StartLevel)
	}
	return &cfg, nil
}

// applyDefaults 设置默认值
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = defaultMongoDatabase
	}
	if c.Game.TurnTimeout == 0 {
		c.Game.TurnTimeout = defaultTurnTimeout
	}
	if c.Game.RoomTimeout == 0 {
		c.Game.RoomTimeout = defaultRoomTimeout
	}
	if c.Game.StartLevel == 0 {
		c.Game.StartLevel = defaultStartLevel
	}
	if c.Cache.StatsTTL == 0 {
		c.Cache.StatsTTL = defaultStatsCacheTTL
	}
	if c.Cache.MaxCost == 0 {
		c.Cache.MaxCost = 1 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = defaultConnPerSecond
	}
	if c.Security.RateLimit.MaxPerMinute == 0 {
		c.Security.RateLimit.MaxPerMinute = defaultConnPerMinute
	}
	if c.Security.RateLimit.BanDuration == 0 {
		c.Security.RateLimit.BanDuration = defaultBanDuration
	}
	if c.Security.MessageLimit.MaxPerSecond == 0 {
		c.Security.MessageLimit.MaxPerSecond = defaultMsgPerSecond
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{MetricsPort: defaultMetricsPort},
	}
	cfg.applyDefaults()
	return cfg
}
