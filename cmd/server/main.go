package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/palemoky/guandan/internal/config"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/server"
)

var (
	configFile      string
	shutdownTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "guandan-server",
	Short: "掼蛋游戏服务器",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "configs/config.yaml", "配置文件路径")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Minute, "停机前等待对局结束的最长时间")
	rootCmd.AddCommand(simulateCmd, roomsCmd)
}

// loadConfig 加载配置，文件缺失时使用默认配置
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Warn("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}
	return cfg
}

func serve(ctx context.Context) error {
	cfg := loadConfig()
	if err := logger.Init("guandan", cfg.Log.Level, cfg.Log.File); err != nil {
		return err
	}
	defer logger.Close()

	srv, err := server.Open(ctx, cfg)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("收到 %s，正在关闭服务器...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.GracefulShutdown(shutdownCtx)
	}()

	logger.Info("🎮 掼蛋服务器启动中...")
	return srv.Start()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("启动失败: %v", err)
		os.Exit(1)
	}
}
