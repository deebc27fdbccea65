// Package redis provides a Redis-backed message buffer, so messages can be
// dispatched into a program's loop from other processes.
package redis

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/xloggr/elmish"
	"github.com/xloggr/elmish/internal/codec"
)

// Buffer implements elmish.AsyncMessageBuffer on a single Redis list.
//
// Push LPUSHes a gob-encoded message and Pop BRPOPs, so FIFO order is
// preserved across all producers, local and remote. Capacity is governed
// by Redis itself rather than a fixed bound; producers never block.
//
// Close is process-local: it releases this Buffer's blocked Pops and fails
// its future Pushes, but leaves the list and any other consumers untouched.
//
// Message types must be gob-encodable; interface-typed messages need their
// concrete types registered with gob.Register.
type Buffer[Msg any] struct {
	client *redis.Client
	key    string
	done   chan struct{}
	once   sync.Once
}

// New constructs a Buffer on the list <prefix>messages. An empty prefix
// defaults to "elmish:".
func New[Msg any](client *redis.Client, prefix string) *Buffer[Msg] {
	if prefix == "" {
		prefix = "elmish:"
	}
	return &Buffer[Msg]{
		client: client,
		key:    prefix + "messages",
		done:   make(chan struct{}),
	}
}

// Ensure Buffer implements the buffer contract.
var _ elmish.AsyncMessageBuffer[int] = (*Buffer[int])(nil)

// Push enqueues msg at the head of the list. It returns
// elmish.ErrBufferClosed after Close, an encoding failure, or the Redis
// client's error.
func (b *Buffer[Msg]) Push(msg Msg) error {
	select {
	case <-b.done:
		return elmish.ErrBufferClosed
	default:
	}
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	return b.client.LPush(context.Background(), b.key, data).Err()
}

// Pop blocks until a message arrives or the buffer is closed. A transport
// failure is indistinguishable from a close here: both end the consuming
// loop. Use PopContext when the distinction matters.
func (b *Buffer[Msg]) Pop() (Msg, bool) {
	msg, err := b.PopContext(context.Background())
	if err != nil {
		var zero Msg
		return zero, false
	}
	return msg, true
}

// PopContext blocks in BRPOP until a message arrives, ctx ends, or the
// buffer is closed. It returns elmish.ErrBufferClosed after Close and
// ctx.Err() on cancellation.
func (b *Buffer[Msg]) PopContext(ctx context.Context) (Msg, error) {
	var zero Msg

	// BRPop only honors ctx, so a close must cancel it explicitly.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-b.done:
			cancel()
		case <-watchDone:
		}
	}()

	for {
		res, err := b.client.BRPop(ctx, 0, b.key).Result()
		if err != nil {
			select {
			case <-b.done:
				return zero, elmish.ErrBufferClosed
			default:
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			return zero, err
		}
		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}
		return codec.Decode[Msg]([]byte(res[1]))
	}
}

// Close releases this Buffer's blocked Pops and fails its future Pushes.
// The underlying Redis list is not modified. Safe to call multiple times.
func (b *Buffer[Msg]) Close() {
	b.once.Do(func() { close(b.done) })
}

// Len reports the current length of the backing list (LLEN); it returns 0
// when the query fails.
func (b *Buffer[Msg]) Len() int {
	n, err := b.client.LLen(context.Background(), b.key).Result()
	if err != nil {
		return 0
	}
	return int(n)
}
