package handler

import (
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/protocol/convert"
	"github.com/palemoky/guandan/internal/types"
)

// handlePlayCards 处理出牌
func (h *Handler) handlePlayCards(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardsPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if len(payload.Cards) == 0 {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidCards))
		return
	}

	reply(client, h.roomManager.Play(client, convert.InfosToCards(payload.Cards)))
}

// handlePass 处理不出
func (h *Handler) handlePass(client types.ClientInterface) {
	reply(client, h.roomManager.Pass(client))
}

// handleHint 处理出牌提示
func (h *Handler) handleHint(client types.ClientInterface) {
	cards, err := h.roomManager.Hint(client)
	if err != nil {
		reply(client, err)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgHintResult, protocol.HintResultPayload{
		Cards: convert.CardsToInfos(cards),
	}))
}

// handleGetState 获取当前牌桌
func (h *Handler) handleGetState(client types.ClientInterface) {
	view, err := h.roomManager.State(client)
	if err != nil {
		reply(client, err)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgGameState, view))
}

// handlePause 暂停或恢复
func (h *Handler) handlePause(client types.ClientInterface, pause bool) {
	if pause {
		reply(client, h.roomManager.Pause(client))
		return
	}
	reply(client, h.roomManager.Resume(client))
}
