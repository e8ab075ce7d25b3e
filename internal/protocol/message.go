package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgCreateRoom  MessageType = "create_room"  // 创建房间
	MsgJoinRoom    MessageType = "join_room"    // 加入房间
	MsgLeaveRoom   MessageType = "leave_room"   // 离开房间
	MsgQuickMatch  MessageType = "quick_match"  // 快速匹配
	MsgReady       MessageType = "ready"        // 准备就绪
	MsgCancelReady MessageType = "cancel_ready" // 取消准备
	MsgAddBots     MessageType = "add_bots"     // 空座补机器人

	// 游戏操作
	MsgPlayCards MessageType = "play_cards" // 出牌
	MsgPass      MessageType = "pass"       // 不出
	MsgHint      MessageType = "hint"       // 请求提示
	MsgGetState  MessageType = "get_state"  // 获取牌桌快照
	MsgPause     MessageType = "pause"      // 暂停
	MsgResume    MessageType = "resume"     // 继续

	// 排行榜
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开
	MsgPlayerReady  MessageType = "player_ready"  // 玩家准备
	MsgMatchFound   MessageType = "match_found"   // 匹配成功

	// 游戏流程
	MsgHandStart      MessageType = "hand_start"      // 一局开始
	MsgDealCards      MessageType = "deal_cards"      // 发牌（进贡后的手牌）
	MsgTribute        MessageType = "tribute"         // 进贡结果
	MsgPlayTurn       MessageType = "play_turn"       // 轮到出牌
	MsgCardPlayed     MessageType = "card_played"     // 有人出牌
	MsgPlayerPass     MessageType = "player_pass"     // 有人不出
	MsgTrickCleared   MessageType = "trick_cleared"   // 一轮结束，重新领出
	MsgPlayerFinished MessageType = "player_finished" // 有人出完
	MsgHandOver       MessageType = "hand_over"       // 一局结束
	MsgMatchOver      MessageType = "match_over"      // 整场结束
	MsgGameState      MessageType = "game_state"      // 牌桌快照
	MsgHintResult     MessageType = "hint_result"     // 提示结果
	MsgGamePaused     MessageType = "game_paused"     // 已暂停
	MsgGameResumed    MessageType = "game_resumed"    // 已继续

	// 排行榜
	MsgStatsResult       MessageType = "stats_result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
