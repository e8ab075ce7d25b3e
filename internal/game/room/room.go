package room

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/server/history"
	"github.com/palemoky/guandan/internal/server/storage"
	"github.com/palemoky/guandan/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集
)

// Seat 房间座位，机器人和掉线托管的座位 Client 为 nil
type Seat struct {
	Client types.ClientInterface
	ID     string
	Name   string
	Ready  bool
	Bot    bool
}

// Online 座位上是否有在线的真人
func (s *Seat) Online() bool {
	return s != nil && s.Client != nil
}

// Room 游戏房间，所有字段由 mu 保护
type Room struct {
	Code       string
	Seats      [game.SeatCount]*Seat
	Game       *game.GameRoom // 第一局开始前为 nil
	StartLevel card.Level
	CreatedAt  time.Time
	lastActive time.Time

	turnSeq   uint64 // 每次出牌或重新计时递增，过期的计时器据此失效
	turnTimer *time.Timer
	closed    bool

	mu sync.Mutex
}

// RoomSummary 房间概况
type RoomSummary struct {
	Code      string                `json:"code"`
	Players   []protocol.PlayerInfo `json:"players"`
	InHand    bool                  `json:"in_hand"`
	Level     string                `json:"level"`
	CreatedAt time.Time             `json:"created_at"`
	Table     *game.View            `json:"table,omitempty"`
}

// inHand 是否有一局正在进行
func (r *Room) inHand() bool {
	return r.Game != nil && r.Game.Started && !r.Game.Finished
}

func (r *Room) touch() {
	r.lastActive = time.Now()
}

// seatOf 玩家所在座位，不在房间返回 -1
func (r *Room) seatOf(playerID string) int {
	for i, s := range r.Seats {
		if s != nil && s.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) emptySeat() int {
	for i, s := range r.Seats {
		if s == nil {
			return i
		}
	}
	return -1
}

func (r *Room) allReady() bool {
	for _, s := range r.Seats {
		if s == nil || !s.Ready {
			return false
		}
	}
	return true
}

func (r *Room) onlineCount() int {
	n := 0
	for _, s := range r.Seats {
		if s.Online() {
			n++
		}
	}
	return n
}

func (r *Room) level() card.Level {
	if r.Game != nil {
		return r.Game.Level
	}
	return r.StartLevel
}

// Broadcast 向房间内所有在线玩家发送消息
func (r *Room) Broadcast(msg *protocol.Message) {
	for _, s := range r.Seats {
		if s.Online() {
			s.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept 向除指定玩家外的所有在线玩家发送消息
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	for _, s := range r.Seats {
		if s.Online() && s.ID != excludeID {
			s.Client.SendMessage(msg)
		}
	}
}

func (r *Room) sendTo(seat int, msg *protocol.Message) {
	if s := r.Seats[seat]; s.Online() {
		s.Client.SendMessage(msg)
	}
}

// playerInfo 座位信息，座位为空时返回 false
func (r *Room) playerInfo(seat int) (protocol.PlayerInfo, bool) {
	s := r.Seats[seat]
	if s == nil {
		return protocol.PlayerInfo{}, false
	}
	info := protocol.PlayerInfo{
		ID:     s.ID,
		Name:   s.Name,
		Seat:   seat,
		Team:   game.TeamOf(seat),
		Ready:  s.Ready,
		Bot:    s.Bot,
		Online: s.Online(),
	}
	if r.Game != nil && r.Game.Players[seat] != nil && r.Game.Players[seat].ID == s.ID {
		info.CardsCount = len(r.Game.Players[seat].Hand)
	}
	return info, true
}

func (r *Room) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, game.SeatCount)
	for seat := range r.Seats {
		if info, ok := r.playerInfo(seat); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// Players 房间内所有座位信息
func (r *Room) Players() []protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerInfos()
}

// PlayerInfo 某个玩家的座位信息
func (r *Room) PlayerInfo(playerID string) (protocol.PlayerInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatOf(playerID)
	if seat < 0 {
		return protocol.PlayerInfo{}, false
	}
	return r.playerInfo(seat)
}

func (r *Room) summary(withTable bool) RoomSummary {
	sum := RoomSummary{
		Code:      r.Code,
		Players:   r.playerInfos(),
		InHand:    r.inHand(),
		Level:     r.level().String(),
		CreatedAt: r.CreatedAt,
	}
	if withTable && r.Game != nil {
		v := r.Game.Snapshot(-1)
		sum.Table = &v
	}
	return sum
}

// RoomStore 房间快照存储
type RoomStore interface {
	SaveRoom(ctx context.Context, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, code string) error
}

// ResultRecorder 记录一局结果到排行榜
type ResultRecorder interface {
	RecordHandResult(ctx context.Context, o storage.HandOutcome) error
}

// StatsInvalidator 排行榜更新后清除统计缓存
type StatsInvalidator interface {
	Invalidate(playerID string)
}

// Options 房间管理器依赖，存储类依赖均可为 nil
type Options struct {
	Store       RoomStore
	Leaderboard ResultRecorder
	StatsCache  StatsInvalidator
	History     history.Recorder
	TurnTimeout time.Duration // 0 为不限时
	RoomTimeout time.Duration
	StartLevel  card.Level
}

// persistOp 一次房间快照写入或删除
type persistOp struct {
	code string
	data *storage.RoomData // nil 表示删除
}

// RoomManager 房间管理器
type RoomManager struct {
	opts  Options
	rooms map[string]*Room
	mu    sync.RWMutex

	persistCh chan persistOp
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRoomManager 创建房间管理器
func NewRoomManager(opts Options) *RoomManager {
	if opts.History == nil {
		opts.History = history.NopRecorder{}
	}
	if !opts.StartLevel.Valid() {
		opts.StartLevel = card.StartLevel
	}
	if opts.RoomTimeout <= 0 {
		opts.RoomTimeout = 10 * time.Minute
	}

	rm := &RoomManager{
		opts:      opts,
		rooms:     make(map[string]*Room),
		persistCh: make(chan persistOp, 256),
		done:      make(chan struct{}),
	}

	// 房间快照按顺序写入，避免旧快照覆盖新快照
	rm.wg.Add(2)
	go rm.persistLoop()
	go rm.cleanupLoop()

	return rm
}

// Close 停止后台协程并停掉所有计时器
func (rm *RoomManager) Close() {
	rm.closeOnce.Do(func() {
		close(rm.done)

		rm.mu.RLock()
		for _, room := range rm.rooms {
			room.mu.Lock()
			room.stopTimer()
			room.mu.Unlock()
		}
		rm.mu.RUnlock()
	})
	rm.wg.Wait()
}
