package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/guandan/internal/game"
)

// PlayerRecord 一局中某个座位的结果
type PlayerRecord struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Seat int    `bson:"seat" json:"seat"`
	Team int    `bson:"team" json:"team"`
	Rank int    `bson:"rank" json:"rank"`
	Bot  bool   `bson:"bot" json:"bot"`
	Won  bool   `bson:"won" json:"won"`
}

// HandRecord 一局的历史记录
type HandRecord struct {
	ID          string         `bson:"_id" json:"id"`
	RoomCode    string         `bson:"room_code" json:"room_code"`
	HandNumber  int            `bson:"hand_number" json:"hand_number"`
	LevelBefore string         `bson:"level_before" json:"level_before"`
	LevelAfter  string         `bson:"level_after" json:"level_after"`
	WinningTeam int            `bson:"winning_team" json:"winning_team"`
	Upgrade     int            `bson:"upgrade" json:"upgrade"`
	MatchOver   bool           `bson:"match_over" json:"match_over"`
	AntiTribute bool           `bson:"anti_tribute" json:"anti_tribute"`
	Tributes    int            `bson:"tributes" json:"tributes"` // 进贡张数
	Players     []PlayerRecord `bson:"players" json:"players"`
	EndedAt     time.Time      `bson:"ended_at" json:"ended_at"`
}

// NewHandRecord 根据刚结束的一局生成记录，调用方需持有房间锁
func NewHandRecord(r *game.GameRoom, endedAt time.Time) *HandRecord {
	res := r.LastResult
	rec := &HandRecord{
		ID:          uuid.NewString(),
		RoomCode:    r.Code,
		HandNumber:  res.HandNumber,
		LevelBefore: res.LevelBefore.String(),
		LevelAfter:  res.LevelAfter.String(),
		WinningTeam: res.WinningTeam,
		Upgrade:     res.Upgrade,
		MatchOver:   res.MatchOver,
		EndedAt:     endedAt,
	}
	if st := r.Tribute; st != nil {
		rec.AntiTribute = st.AntiTribute
		rec.Tributes = len(st.TributeCards)
	}
	for seat, p := range r.Players {
		if p == nil {
			continue
		}
		rec.Players = append(rec.Players, PlayerRecord{
			ID:   p.ID,
			Name: p.Name,
			Seat: seat,
			Team: game.TeamOf(seat),
			Rank: res.Ranks[seat],
			Bot:  p.Bot,
			Won:  game.TeamOf(seat) == res.WinningTeam,
		})
	}
	return rec
}
