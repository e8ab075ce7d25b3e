package game

import "github.com/palemoky/guandan/internal/game/card"

// HandResult 一局的结算结果
type HandResult struct {
	HandNumber  int            `json:"hand_number"`
	WinningTeam int            `json:"winning_team"`
	Upgrade     int            `json:"upgrade"`
	Ranks       [SeatCount]int `json:"ranks"`
	Order       []int          `json:"order"` // 按名次排列的座位
	LevelBefore card.Level     `json:"level_before"`
	LevelAfter  card.Level     `json:"level_after"`
	MatchOver   bool           `json:"match_over"`
}

// UpgradeFor 根据头游队友的名次计算升级数：二游 3 级，三游 2 级，末游 1 级
func UpgradeFor(partnerRank int) int {
	switch partnerRank {
	case 2:
		return 3
	case 3:
		return 2
	default:
		return 1
	}
}

// finishOrder 出完顺序，未出完的按座位号补在后面
func (r *GameRoom) finishOrder() []int {
	order := append([]int(nil), r.FinishedPlayers...)
	for seat := range SeatCount {
		if !r.hasFinished(seat) {
			order = append(order, seat)
		}
	}
	return order
}

// finishHand 结算名次、分数和级别
func (r *GameRoom) finishHand() {
	order := r.finishOrder()
	var ranks [SeatCount]int
	for i, seat := range order {
		ranks[seat] = i + 1
	}

	winner := order[0]
	team := TeamOf(winner)
	upgrade := UpgradeFor(ranks[Teammate(winner)])

	for seat, p := range r.Players {
		if TeamOf(seat) == team {
			p.Score += upgrade
		} else {
			p.Score -= upgrade
		}
	}

	before := r.Level
	next := before + card.Level(upgrade)
	if next > card.MaxLevel {
		next = card.MaxLevel
		r.MatchOver = true
	}

	r.Ranks = ranks
	r.Level = next
	r.Finished = true
	r.CurrentPlayer = noSeat
	r.LastResult = &HandResult{
		HandNumber:  r.HandNumber,
		WinningTeam: team,
		Upgrade:     upgrade,
		Ranks:       ranks,
		Order:       order,
		LevelBefore: before,
		LevelAfter:  next,
		MatchOver:   r.MatchOver,
	}
}
