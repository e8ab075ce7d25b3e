package apperrors

import (
	"github.com/palemoky/guandan/internal/protocol"
)

// GameError 游戏错误（引擎、房间和处理器共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound   = newError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull       = newError(protocol.ErrCodeRoomFull)
	ErrNotInRoom      = newError(protocol.ErrCodeNotInRoom)
	ErrAlreadyInRoom  = newError(protocol.ErrCodeAlreadyInRoom)
	ErrGameStarted    = newError(protocol.ErrCodeGameStarted)
	ErrGameNotStart   = newError(protocol.ErrCodeGameNotStart)
	ErrNotYourTurn    = newError(protocol.ErrCodeNotYourTurn)
	ErrInvalidCards   = newError(protocol.ErrCodeInvalidCards)
	ErrCannotBeat     = newError(protocol.ErrCodeCannotBeat)
	ErrMustPlay       = newError(protocol.ErrCodeMustPlay)
	ErrPlayerFinished = newError(protocol.ErrCodePlayerDone)
	ErrCardsNotOwned  = newError(protocol.ErrCodeCardsNotOwned)
	ErrHandFinished   = newError(protocol.ErrCodeHandFinished)
	ErrMatchOver      = newError(protocol.ErrCodeMatchOver)
	ErrGamePaused     = newError(protocol.ErrCodeGamePaused)
	ErrInvalidSeat    = newError(protocol.ErrCodeInvalidSeat)
)
