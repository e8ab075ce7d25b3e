package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	StartLevel int `json:"start_level,omitempty"` // 起始级别，0 用服务端默认
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// PlayCardsPayload 出牌请求
type PlayCardsPayload struct {
	Cards []CardInfo `json:"cards"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Type   string `json:"type"`   // total/daily/weekly
	Offset int    `json:"offset"` // 偏移量
	Limit  int    `json:"limit"`  // 数量
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string     `json:"room_code"`
	Player   PlayerInfo `json:"player"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"` // 房间内所有玩家
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PlayerReadyPayload 玩家准备通知
type PlayerReadyPayload struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// MatchFoundPayload 匹配成功通知
type MatchFoundPayload struct {
	RoomCode string       `json:"room_code"`
	Players  []PlayerInfo `json:"players"`
}

// GamePausedPayload 暂停或恢复通知
type GamePausedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// HandStartPayload 一局开始通知
type HandStartPayload struct {
	HandNumber int          `json:"hand_number"`
	Level      string       `json:"level"` // 当前打几
	Players    []PlayerInfo `json:"players"`
	Leader     int          `json:"leader"` // 先出牌的座位
}

// DealCardsPayload 发牌通知，已完成进贡还贡
type DealCardsPayload struct {
	Cards []CardInfo `json:"cards"`
}

// TributePayload 进贡结果
type TributePayload struct {
	AntiTribute bool              `json:"anti_tribute"`
	Double      bool              `json:"double"`
	Transfers   []TributeTransfer `json:"transfers"`
}

// TributeTransfer 一次进贡或还贡
type TributeTransfer struct {
	From   int      `json:"from"`
	To     int      `json:"to"`
	Card   CardInfo `json:"card"`
	Return bool     `json:"return"`
}

// PlayTurnPayload 轮到出牌通知
type PlayTurnPayload struct {
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
	Timeout  int    `json:"timeout"`   // 超时时间（秒）
	MustPlay bool   `json:"must_play"` // 是否必须出牌（新一轮开始时为 true）
	CanBeat  bool   `json:"can_beat"`  // 是否有牌能打过上家
}

// CardPlayedPayload 出牌通知
type CardPlayedPayload struct {
	PlayerID    string     `json:"player_id"`
	PlayerName  string     `json:"player_name"`
	Seat        int        `json:"seat"`
	Cards       []CardInfo `json:"cards"`
	CardsLeft   int        `json:"cards_left"`   // 剩余手牌数
	PatternType string     `json:"pattern_type"` // 牌型名称
}

// PlayerPassPayload 不出通知
type PlayerPassPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
}

// TrickClearedPayload 一轮结束
type TrickClearedPayload struct {
	Leader int `json:"leader"`
}

// PlayerFinishedPayload 有人出完
type PlayerFinishedPayload struct {
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
	Place    int    `json:"place"` // 第几个出完
}

// HandOverPayload 一局结束通知
type HandOverPayload struct {
	HandNumber  int          `json:"hand_number"`
	WinningTeam int          `json:"winning_team"`
	Upgrade     int          `json:"upgrade"`
	Ranks       []int        `json:"ranks"` // 按座位
	LevelBefore string       `json:"level_before"`
	LevelAfter  string       `json:"level_after"`
	MatchOver   bool         `json:"match_over"`
	PlayerHands []PlayerHand `json:"player_hands"` // 未出完玩家的剩余手牌
}

// PlayerHand 玩家手牌信息（用于一局结束展示）
type PlayerHand struct {
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Cards      []CardInfo `json:"cards"`
}

// HintResultPayload 提示结果，Cards 为空表示建议不出
type HintResultPayload struct {
	Cards []CardInfo `json:"cards"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatsResultPayload 个人统计结果
type StatsResultPayload struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TotalGames    int     `json:"total_games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	DoubleWins    int     `json:"double_wins"` // 双上次数
	Score         int     `json:"score"`
	Rank          int     `json:"rank"`
	CurrentStreak int     `json:"current_streak"`
	MaxWinStreak  int     `json:"max_win_streak"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Type    string             `json:"type"` // total/daily/weekly
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// --- 通用数据结构 ---

// PlayerInfo 玩家信息，座位 0、2 与 1、3 各为一队
type PlayerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Team       int    `json:"team"`
	Ready      bool   `json:"ready"`
	Bot        bool   `json:"bot"`
	CardsCount int    `json:"cards_count"`
	Online     bool   `json:"online"`
}

// CardInfo 牌信息
type CardInfo struct {
	ID   string `json:"id,omitempty"`
	Suit int    `json:"suit"` // 花色: 0=黑桃, 1=梅花, 2=红心, 3=方块, 4=王
	Face int    `json:"face"` // 牌面: 1=A ... 13=K, 14=小王, 15=大王
}
