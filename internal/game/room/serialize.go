package room

import (
	"github.com/palemoky/guandan/internal/logger"
	"github.com/palemoky/guandan/internal/server/storage"
)

// toRoomData 将 Room 转换为可序列化的 RoomData，调用方需持有房间锁
func (r *Room) toRoomData() *storage.RoomData {
	data := &storage.RoomData{
		Code:      r.Code,
		Seats:     make([]storage.PlayerData, 0, len(r.Seats)),
		CreatedAt: r.CreatedAt.Unix(),
	}

	for seat, s := range r.Seats {
		if s == nil {
			continue
		}
		data.Seats = append(data.Seats, storage.PlayerData{
			ID:    s.ID,
			Name:  s.Name,
			Seat:  seat,
			Ready: s.Ready,
			Bot:   s.Bot,
		})
	}

	if r.Game != nil {
		gd, err := storage.NewGameData(r.Game)
		if err != nil {
			logger.Error("房间 %s 牌桌快照失败: %v", r.Code, err)
		} else {
			data.Game = gd
		}
	}

	return data
}

// persist 排队保存房间快照，调用方需持有房间锁
func (rm *RoomManager) persist(r *Room) {
	if rm.opts.Store == nil {
		return
	}
	rm.enqueue(persistOp{code: r.Code, data: r.toRoomData()})
}

// forget 排队删除房间快照
func (rm *RoomManager) forget(code string) {
	if rm.opts.Store == nil {
		return
	}
	rm.enqueue(persistOp{code: code})
}

func (rm *RoomManager) enqueue(op persistOp) {
	select {
	case rm.persistCh <- op:
	default:
		logger.Warn("房间 %s 持久化队列已满，丢弃本次写入", op.code)
	}
}

// persistLoop 按入队顺序写入 Redis
func (rm *RoomManager) persistLoop() {
	defer rm.wg.Done()
	for {
		select {
		case op := <-rm.persistCh:
			rm.apply(op)
		case <-rm.done:
			// 退出前写完已排队的快照
			for {
				select {
				case op := <-rm.persistCh:
					rm.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (rm *RoomManager) apply(op persistOp) {
	ctx, cancel := storeContext()
	defer cancel()

	var err error
	if op.data == nil {
		err = rm.opts.Store.DeleteRoom(ctx, op.code)
	} else {
		err = rm.opts.Store.SaveRoom(ctx, op.data)
	}
	if err != nil {
		logger.Warn("房间 %s 持久化失败: %v", op.code, err)
	}
}
