package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8080
  metrics_port: 8081
  allowed_origins:
    - "http://localhost:3000"

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

mongo:
  uri: "mongodb://mongo:27017"
  database: "cards"

game:
  turn_timeout: 60
  room_timeout: 15
  start_level: 5

log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Server.MetricsPort)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "cards", cfg.Mongo.Database)
	assert.Equal(t, 60, cfg.Game.TurnTimeout)
	assert.Equal(t, 5, cfg.Game.StartLevel)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidStartLevel(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "game:\n  start_level: 20\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Equal(t, defaultMongoDatabase, cfg.Mongo.Database)
	assert.Equal(t, defaultTurnTimeout, cfg.Game.TurnTimeout)
	assert.Equal(t, defaultStartLevel, cfg.Game.StartLevel)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMetricsPort, cfg.Server.MetricsPort)
	assert.Equal(t, defaultTurnTimeout, cfg.Game.TurnTimeout)
}

func TestDurationMethods(t *testing.T) {
	t.Parallel()

	game := &GameConfig{TurnTimeout: 30, RoomTimeout: 10}
	assert.Equal(t, 30*time.Second, game.TurnTimeoutDuration())
	assert.Equal(t, 10*time.Minute, game.RoomTimeoutDuration())

	cache := &CacheConfig{StatsTTL: 45}
	assert.Equal(t, 45*time.Second, cache.StatsTTLDuration())
}

func TestLoad_Security(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
security:
  rate_limit:
    max_per_second: 3
    ban_duration: 120
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Security.RateLimit.MaxPerSecond)
	assert.Equal(t, defaultConnPerMinute, cfg.Security.RateLimit.MaxPerMinute)
	assert.Equal(t, 2*time.Minute, cfg.Security.RateLimit.BanDurationTime())
	assert.Equal(t, defaultMsgPerSecond, cfg.Security.MessageLimit.MaxPerSecond)
}

func TestLoad_SampleConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Equal(t, defaultStartLevel, cfg.Game.StartLevel)
	assert.Equal(t, int64(1<<20), cfg.Cache.MaxCost)
}
