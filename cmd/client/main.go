package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/ui"
)

var (
	serverAddr string
	localMode  bool
	startLevel int
	playerName string
)

var rootCmd = &cobra.Command{
	Use:   "guandan",
	Short: "掼蛋终端客户端",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 日志写文件，避免打乱界面
		if err := logger.Init("guandan-client", "info", logger.DefaultPath()); err != nil {
			return err
		}
		defer logger.Close()

		var model tea.Model
		if localMode {
			level := card.Level(startLevel)
			if !level.Valid() {
				return fmt.Errorf("无效的起始级别: %d", startLevel)
			}
			model = ui.NewLocalModel(playerName, level)
		} else {
			model = ui.NewOnlineModel(fmt.Sprintf("ws://%s/ws", serverAddr))
		}

		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			logger.Error("界面异常退出: %v", err)
			return fmt.Errorf("%w（日志见 %s）", err, logger.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverAddr, "server", "localhost:1780", "服务器地址")
	rootCmd.Flags().BoolVar(&localMode, "local", false, "单机模式，和三个机器人对打")
	rootCmd.Flags().IntVar(&startLevel, "level", int(card.StartLevel), "单机模式的起始级别")
	rootCmd.Flags().StringVar(&playerName, "name", "我", "单机模式的玩家名")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "启动客户端时出错: %v\n", err)
		os.Exit(1)
	}
}
