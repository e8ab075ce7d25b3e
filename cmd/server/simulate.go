package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/logger"
)

// 单局出牌步数上限，超过说明出牌逻辑卡住
const maxStepsPerHand = 2000

var (
	simHands int
	simLevel int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "四个机器人对打，检查规则引擎",
	RunE: func(cmd *cobra.Command, args []string) error {
		level := card.Level(simLevel)
		if !level.Valid() {
			return fmt.Errorf("无效的起始级别: %d", simLevel)
		}
		return simulate(simHands, level)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simHands, "hands", 20, "最多打多少局")
	simulateCmd.Flags().IntVar(&simLevel, "level", int(card.StartLevel), "起始级别")
}

func simulate(hands int, level card.Level) error {
	var players [game.SeatCount]*game.Player
	for i := range players {
		players[i] = &game.Player{ID: fmt.Sprintf("bot-%d", i), Name: fmt.Sprintf("机器人%d", i+1), Bot: true}
	}
	r := game.NewGameRoom("SIM001", players, level)

	for n := 0; n < hands && !r.MatchOver; n++ {
		if err := r.InitGame(); err != nil {
			return err
		}
		if st := r.TributeInfo(); st != nil {
			logger.Info("🎁 第 %d 局进贡: 抗贡=%v 双贡=%v 交换=%d 张", r.HandNumber, st.AntiTribute, st.Double, len(st.Transfers))
		}

		steps := 0
		for !r.Finished {
			if steps++; steps > maxStepsPerHand {
				return fmt.Errorf("第 %d 局超过 %d 步仍未结束", r.HandNumber, maxStepsPerHand)
			}
			if err := r.AutoPlay(); err != nil {
				return fmt.Errorf("第 %d 局座位 %d 出牌失败: %w", r.HandNumber, r.CurrentSeat(), err)
			}
		}

		res := r.LastResult
		logger.Info("🏁 第 %d 局: %d 队胜, 名次 %v, 升 %d 级 (%s -> %s), %d 步",
			res.HandNumber, res.WinningTeam, res.Order, res.Upgrade, res.LevelBefore, res.LevelAfter, steps)
	}

	if r.MatchOver {
		logger.Info("🏆 比赛结束，打到 %s", r.Level)
	} else {
		logger.Info("⏸️ 打满 %d 局，当前级别 %s", hands, r.Level)
	}
	return nil
}
