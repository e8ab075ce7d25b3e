package protocol

// 错误码
const (
	ErrCodeUnknown       = 1000
	ErrCodeInvalidMsg    = 1001
	ErrCodeMaintenance   = 1002
	ErrCodeRateLimit     = 1003
	ErrCodeRoomNotFound  = 2001
	ErrCodeRoomFull      = 2002
	ErrCodeNotInRoom     = 2003
	ErrCodeGameStarted   = 2004 // 游戏已开始
	ErrCodeAlreadyInRoom = 2005
	ErrCodeGameNotStart  = 3001
	ErrCodeNotYourTurn   = 3002
	ErrCodeInvalidCards  = 3003
	ErrCodeCannotBeat    = 3004
	ErrCodeMustPlay      = 3005
	ErrCodePlayerDone    = 3006 // 已出完牌
	ErrCodeCardsNotOwned = 3007
	ErrCodeHandFinished  = 3008
	ErrCodeMatchOver     = 3009
	ErrCodeGamePaused    = 3010
	ErrCodeInvalidSeat   = 3011
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:       "未知错误",
	ErrCodeInvalidMsg:    "无效的消息格式",
	ErrCodeMaintenance:   "服务器维护中",
	ErrCodeRateLimit:     "请求过于频繁",
	ErrCodeRoomNotFound:  "房间不存在",
	ErrCodeRoomFull:      "房间已满",
	ErrCodeNotInRoom:     "您不在房间中",
	ErrCodeGameStarted:   "游戏已开始",
	ErrCodeAlreadyInRoom: "您已在房间中",
	ErrCodeGameNotStart:  "游戏尚未开始",
	ErrCodeNotYourTurn:   "还没轮到您",
	ErrCodeInvalidCards:  "无效的牌型",
	ErrCodeCannotBeat:    "您的牌大不过上家",
	ErrCodeMustPlay:      "您必须出牌",
	ErrCodePlayerDone:    "您已出完牌",
	ErrCodeCardsNotOwned: "手中没有这些牌",
	ErrCodeHandFinished:  "本局已结束",
	ErrCodeMatchOver:     "比赛已结束",
	ErrCodeGamePaused:    "游戏已暂停",
	ErrCodeInvalidSeat:   "无效的座位",
}
