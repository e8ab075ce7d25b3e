package handler

import (
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.inMaintenance(client, "创建房间") {
		return
	}

	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.CreateRoom(client, card.Level(payload.StartLevel))
	if err != nil {
		reply(client, err)
		return
	}

	self, _ := r.PlayerInfo(client.GetID())
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Player:   self,
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.inMaintenance(client, "加入房间") {
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil || payload.RoomCode == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		reply(client, err)
		return
	}

	self, _ := r.PlayerInfo(client.GetID())
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Player:   self,
		Players:  r.Players(),
	}))
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.roomManager.LeaveRoom(client)
}

// handleQuickMatch 处理快速匹配
func (h *Handler) handleQuickMatch(client types.ClientInterface) {
	if h.inMaintenance(client, "快速匹配") {
		return
	}

	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	h.matcher.AddToQueue(client)
}

// handleReady 处理准备
func (h *Handler) handleReady(client types.ClientInterface, ready bool) {
	reply(client, h.roomManager.SetPlayerReady(client, ready))
}

// handleAddBots 处理机器人补位
func (h *Handler) handleAddBots(client types.ClientInterface) {
	reply(client, h.roomManager.AddBots(client))
}
