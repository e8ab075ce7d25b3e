// Package ui 终端客户端入口
package ui

import (
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/ui/model"
)

// NewOnlineModel 联网模式
func NewOnlineModel(serverURL string) *model.OnlineModel {
	return model.NewOnlineModel(serverURL)
}

// NewLocalModel 单机模式，和三个机器人对打
func NewLocalModel(name string, level card.Level) *model.LocalModel {
	return model.NewLocalModel(name, level)
}
