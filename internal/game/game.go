package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/guandan/internal/apperrors"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/game/rule"
)

// SeatCount 座位数，0/2 为一队，1/3 为一队
const SeatCount = 4

// noSeat 表示没有座位（新一轮尚无人出牌、本局结束后无人行动）
const noSeat = -1

// TeamOf 返回座位所属队伍
func TeamOf(seat int) int {
	return seat % 2
}

// Teammate 返回队友座位
func Teammate(seat int) int {
	return (seat + 2) % SeatCount
}

// Player 座位上的玩家
type Player struct {
	Seat  int         `json:"seat"`
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Hand  []card.Card `json:"hand"`
	Score int         `json:"score"`
	Bot   bool        `json:"bot"`
}

// GameRoom 一张掼蛋牌桌的完整状态
type GameRoom struct {
	Code    string             `json:"code"`
	Level   card.Level         `json:"level"`
	Players [SeatCount]*Player `json:"players"`

	Started   bool `json:"started"`
	Finished  bool `json:"finished"` // 本局已结束
	Paused    bool `json:"paused"`
	MatchOver bool `json:"match_over"` // 升级到顶，比赛结束

	CurrentPlayer     int                 `json:"current_player"`
	LastPattern       *rule.Pattern       `json:"last_pattern,omitempty"`
	LastPlayerID      int                 `json:"last_player_id"`
	PassCount         int                 `json:"pass_count"`
	CurrentRoundCards map[int][]card.Card `json:"current_round_cards"` // 空切片表示不出

	FinishedPlayers []int          `json:"finished_players"`
	Ranks           [SeatCount]int `json:"ranks"` // 上一局或本局的名次，0 表示未定
	Tribute         *TributeState  `json:"tribute,omitempty"`
	FirstPlayer     int            `json:"first_player"`
	HandNumber      int            `json:"hand_number"`
	Played          []card.Card    `json:"played"`
	LastResult      *HandResult    `json:"last_result,omitempty"`
}

// NewGameRoom 创建牌桌，首局先手随机
func NewGameRoom(code string, players [SeatCount]*Player, startLevel card.Level) *GameRoom {
	if !startLevel.Valid() {
		startLevel = card.StartLevel
	}
	for i, p := range players {
		if p != nil {
			p.Seat = i
		}
	}
	return &GameRoom{
		Code:          code,
		Level:         startLevel,
		Players:       players,
		CurrentPlayer: noSeat,
		LastPlayerID:  noSeat,
		FirstPlayer:   rand.IntN(SeatCount),
	}
}

func (r *GameRoom) mustHaveSeats() {
	for i, p := range r.Players {
		if p == nil {
			panic(fmt.Sprintf("game: seat %d of room %s is empty", i, r.Code))
		}
	}
}

// InitGame 洗牌发牌并开始新的一局
func (r *GameRoom) InitGame() error {
	deck := card.NewDeck()
	deck.Shuffle()
	return r.InitGameWithDeck(deck)
}

// InitGameWithDeck 使用给定的牌堆开局：发牌、进贡、确定先手
func (r *GameRoom) InitGameWithDeck(deck card.Deck) error {
	if r.MatchOver {
		return apperrors.ErrMatchOver
	}
	r.mustHaveSeats()

	hands := deck.Deal()
	for i, p := range r.Players {
		p.Hand = hands[i]
	}

	prior := r.Ranks
	r.Ranks = [SeatCount]int{}
	r.Started = true
	r.Finished = false
	r.Paused = false
	r.FinishedPlayers = nil
	r.Played = nil
	r.LastResult = nil
	r.resetTrick()

	leader := r.FirstPlayer
	r.Tribute = nil
	if hasRanks(prior) {
		leader = r.resolveTribute(prior)
	}

	for _, p := range r.Players {
		card.SortHand(p.Hand, r.Level)
	}
	r.CurrentPlayer = leader
	r.HandNumber++
	return nil
}

func hasRanks(ranks [SeatCount]int) bool {
	for _, rank := range ranks {
		if rank == 0 {
			return false
		}
	}
	return true
}

func (r *GameRoom) resetTrick() {
	r.LastPattern = nil
	r.LastPlayerID = noSeat
	r.PassCount = 0
	r.CurrentRoundCards = make(map[int][]card.Card)
}

func (r *GameRoom) hasFinished(seat int) bool {
	for _, s := range r.FinishedPlayers {
		if s == seat {
			return true
		}
	}
	return false
}

func (r *GameRoom) activeCount() int {
	return SeatCount - len(r.FinishedPlayers)
}

// nextActive 顺时针寻找下一个未出完牌的座位
func (r *GameRoom) nextActive(seat int) int {
	for i := 1; i <= SeatCount; i++ {
		next := (seat + i) % SeatCount
		if !r.hasFinished(next) {
			return next
		}
	}
	return noSeat
}

// Pause 暂停，暂停期间拒绝一切出牌
func (r *GameRoom) Pause() {
	if r.Started && !r.Finished {
		r.Paused = true
	}
}

// Resume 恢复
func (r *GameRoom) Resume() {
	r.Paused = false
}
