package codec

import (
	"bytes"
	"sync"

	"github.com/palemoky/guandan/internal/protocol"
)

// pool 带类型的 sync.Pool，归还前由 reset 清理
type pool[T any] struct {
	p     sync.Pool
	reset func(T)
}

func newPool[T any](alloc func() T, reset func(T)) *pool[T] {
	return &pool[T]{
		p:     sync.Pool{New: func() any { return alloc() }},
		reset: reset,
	}
}

func (p *pool[T]) get() T {
	return p.p.Get().(T)
}

func (p *pool[T]) put(v T) {
	p.reset(v)
	p.p.Put(v)
}

var (
	messages = newPool(
		func() *protocol.Message { return &protocol.Message{} },
		func(m *protocol.Message) { m.Type, m.Payload = "", nil },
	)
	buffers = newPool(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		(*bytes.Buffer).Reset,
	)
	// 手牌编码的 varint 暂存区，一手牌最多 28 张，每张不超过 2 字节
	scratches = newPool(
		func() *[]byte { b := make([]byte, 0, 64); return &b },
		func(b *[]byte) { *b = (*b)[:0] },
	)
)

// GetMessage 从池中取一个空消息
func GetMessage() *protocol.Message {
	return messages.get()
}

// PutMessage 清空消息并归还
func PutMessage(msg *protocol.Message) {
	if msg != nil {
		messages.put(msg)
	}
}

// GetBuffer 从池中取一个空缓冲区
func GetBuffer() *bytes.Buffer {
	return buffers.get()
}

// PutBuffer 归还缓冲区，保留已分配的容量
func PutBuffer(buf *bytes.Buffer) {
	if buf != nil {
		buffers.put(buf)
	}
}
