package room

import (
	"fmt"
	"time"

	"github.com/palemoky/guandan/internal/apperrors"
	"github.com/palemoky/guandan/internal/game"
	"github.com/palemoky/guandan/internal/game/card"
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/protocol"
	"github.com/palemoky/guandan/internal/protocol/codec"
	"github.com/palemoky/guandan/internal/types"
)

// CreateRoom 创建房间，startLevel 无效时使用默认级数
func (rm *RoomManager) CreateRoom(client types.ClientInterface, startLevel card.Level) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}
	if !startLevel.Valid() {
		startLevel = rm.opts.StartLevel
	}

	rm.mu.Lock()
	code := rm.generateRoomCode()
	now := time.Now()
	room := &Room{
		Code:       code,
		StartLevel: startLevel,
		CreatedAt:  now,
		lastActive: now,
	}
	room.Seats[0] = &Seat{Client: client, ID: client.GetID(), Name: client.GetName()}
	rm.rooms[code] = room
	rm.mu.Unlock()

	client.SetRoom(code)

	room.mu.Lock()
	rm.persist(room)
	room.mu.Unlock()

	logger.Info("🏠 房间 %s 已创建，玩家 %s，从 %s 打起", code, client.GetName(), startLevel)

	return room, nil
}

// JoinRoom 加入房间，坐到第一个空座位
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}

	room := rm.GetRoom(code)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return nil, apperrors.ErrRoomNotFound
	}
	if room.inHand() {
		return nil, apperrors.ErrGameStarted
	}
	seat := room.emptySeat()
	if seat < 0 {
		return nil, apperrors.ErrRoomFull
	}

	room.Seats[seat] = &Seat{Client: client, ID: client.GetID(), Name: client.GetName()}
	room.touch()
	client.SetRoom(code)

	logger.Info("👤 玩家 %s 加入房间 %s (座位 %d)", client.GetName(), code, seat)

	info, _ := room.playerInfo(seat)
	room.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: info,
	}))

	rm.persist(room)

	return room, nil
}

// LeaveRoom 离开房间。对局中离开的座位交给机器人托管，房间没有在线玩家时解散
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}
	client.SetRoom("")

	room := rm.GetRoom(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	seat := room.seatOf(client.GetID())
	if seat < 0 || room.closed {
		room.mu.Unlock()
		return
	}

	room.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))

	if room.inHand() {
		s := room.Seats[seat]
		s.Client = nil
		s.Bot = true
		room.Game.Players[seat].Bot = true
		logger.Info("🤖 玩家 %s 离开房间 %s，座位 %d 由机器人托管", client.GetName(), code, seat)
	} else {
		room.Seats[seat] = nil
		logger.Info("👋 玩家 %s 离开房间 %s (座位 %d)", client.GetName(), code, seat)
	}
	room.touch()

	if room.onlineCount() == 0 {
		room.closed = true
		room.stopTimer()
		room.mu.Unlock()
		rm.removeRoom(code)
		logger.Info("🏠 房间 %s 已解散", code)
		return
	}

	if room.inHand() && room.Game.CurrentSeat() == seat {
		rm.advance(room)
	}
	rm.persist(room)
	room.mu.Unlock()
}

// SetPlayerReady 设置玩家准备状态，四个座位都准备后开局
func (rm *RoomManager) SetPlayerReady(client types.ClientInterface, ready bool) error {
	room, seat, err := rm.lockClientRoom(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if room.inHand() {
		return apperrors.ErrGameStarted
	}

	room.Seats[seat].Ready = ready
	room.touch()

	room.Broadcast(codec.MustNewMessage(protocol.MsgPlayerReady, protocol.PlayerReadyPayload{
		PlayerID: client.GetID(),
		Ready:    ready,
	}))

	rm.maybeStart(room)
	rm.persist(room)
	return nil
}

// AddBots 用机器人坐满空座位
func (rm *RoomManager) AddBots(client types.ClientInterface) error {
	room, _, err := rm.lockClientRoom(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if room.inHand() {
		return apperrors.ErrGameStarted
	}

	for seat, s := range room.Seats {
		if s != nil {
			continue
		}
		room.Seats[seat] = &Seat{
			ID:    fmt.Sprintf("bot-%s-%d", room.Code, seat),
			Name:  fmt.Sprintf("机器人%d", seat+1),
			Ready: true,
			Bot:   true,
		}
		info, _ := room.playerInfo(seat)
		room.Broadcast(codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{Player: info}))
	}
	room.touch()

	rm.maybeStart(room)
	rm.persist(room)
	return nil
}

// CreateMatchedRoom 为匹配成功的四名玩家建房并直接开局
func (rm *RoomManager) CreateMatchedRoom(clients []types.ClientInterface) (*Room, error) {
	if len(clients) != game.SeatCount {
		return nil, fmt.Errorf("匹配需要 %d 名玩家，实际 %d", game.SeatCount, len(clients))
	}

	rm.mu.Lock()
	code := rm.generateRoomCode()
	now := time.Now()
	room := &Room{
		Code:       code,
		StartLevel: rm.opts.StartLevel,
		CreatedAt:  now,
		lastActive: now,
	}
	for seat, c := range clients {
		room.Seats[seat] = &Seat{Client: c, ID: c.GetID(), Name: c.GetName(), Ready: true}
	}
	rm.rooms[code] = room
	rm.mu.Unlock()

	for _, c := range clients {
		c.SetRoom(code)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.Broadcast(codec.MustNewMessage(protocol.MsgMatchFound, protocol.MatchFoundPayload{
		RoomCode: code,
		Players:  room.playerInfos(),
	}))
	logger.Info("🎯 匹配成功，房间 %s", code)

	rm.maybeStart(room)
	rm.persist(room)
	return room, nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// RoomInfo 房间概况，包含不含手牌的牌桌快照
func (rm *RoomManager) RoomInfo(code string) (RoomSummary, error) {
	room := rm.GetRoom(code)
	if room == nil {
		return RoomSummary{}, apperrors.ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.summary(true), nil
}

// GetRoomList 获取可加入的房间列表
func (rm *RoomManager) GetRoomList() []RoomSummary {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	list := make([]RoomSummary, 0)
	for _, room := range rooms {
		room.mu.Lock()
		if !room.closed && !room.inHand() && room.emptySeat() >= 0 {
			list = append(list, room.summary(false))
		}
		room.mu.Unlock()
	}
	return list
}

// GetActiveGamesCount 获取进行中的对局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	count := 0
	for _, room := range rooms {
		room.mu.Lock()
		if room.inHand() {
			count++
		}
		room.mu.Unlock()
	}
	return count
}

// RoomCount 房间总数
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// lockClientRoom 锁住玩家所在房间，成功时由调用方解锁
func (rm *RoomManager) lockClientRoom(client types.ClientInterface) (*Room, int, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, -1, apperrors.ErrNotInRoom
	}
	room := rm.GetRoom(code)
	if room == nil {
		return nil, -1, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return nil, -1, apperrors.ErrRoomNotFound
	}
	seat := room.seatOf(client.GetID())
	if seat < 0 {
		room.mu.Unlock()
		return nil, -1, apperrors.ErrNotInRoom
	}
	return room, seat, nil
}

func (rm *RoomManager) removeRoom(code string) {
	rm.mu.Lock()
	delete(rm.rooms, code)
	rm.mu.Unlock()
	rm.forget(code)
}
