package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/palemoky/guandan/internal/server/storage"
)

var purgeRooms bool

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "查看 Redis 中的房间快照",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		return listRooms(ctx, cmd.OutOrStdout(), storage.NewRedisStore(rdb), purgeRooms)
	},
}

func init() {
	roomsCmd.Flags().BoolVar(&purgeRooms, "purge", false, "列出后删除所有快照")
}

func listRooms(ctx context.Context, out io.Writer, store *storage.RedisStore, purge bool) error {
	rooms, err := store.ListRooms(ctx)
	if err != nil {
		return err
	}

	for _, data := range rooms {
		created := time.Unix(data.CreatedAt, 0).Format(time.DateTime)
		fmt.Fprintf(out, "%s  %d 人  创建于 %s", data.Code, len(data.Seats), created)
		if data.Game != nil {
			r, err := data.Game.Restore()
			if err != nil {
				fmt.Fprintf(out, "  快照损坏: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "  打 %s  第 %d 局  手牌 %v", r.Level, r.HandNumber, r.HandCounts())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "共 %d 个房间\n", len(rooms))

	if !purge {
		return nil
	}
	for _, data := range rooms {
		if err := store.DeleteRoom(ctx, data.Code); err != nil {
			return fmt.Errorf("删除房间 %s 失败: %w", data.Code, err)
		}
	}
	fmt.Fprintf(out, "🧹 已删除 %d 个快照\n", len(rooms))
	return nil
}
