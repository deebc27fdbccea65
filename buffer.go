package elmish

import (
	"context"
	"errors"
	"sync"
)

// ErrBufferClosed is returned by Push after a buffer has been closed, and
// by PopContext once a closed buffer has drained.
var ErrBufferClosed = errors.New("elmish: message buffer closed")

// DefaultCapacity is the buffer size used by Run, RunWith, and their
// context-aware equivalents.
const DefaultCapacity = 10

// MessageBuffer is the handoff between message producers and the loop's
// single consumer. Implementations must be safe for concurrent producers.
//
// Pop blocks while the buffer is empty. ok == false means the buffer was
// closed — never that it was transiently empty — and the loop treats it as
// the shutdown signal. An implementation's behavior on a full Push must be
// fixed and documented: block the producer (BoundedBuffer) or overwrite the
// oldest entry (RingBuffer); silently dropping the new message is not
// acceptable.
type MessageBuffer[Msg any] interface {
	Push(msg Msg) error
	Pop() (msg Msg, ok bool)
	Close()
}

// AsyncMessageBuffer is a MessageBuffer whose blocking receive can also be
// abandoned through a context, for loops that must stop on cancellation
// rather than only on close.
type AsyncMessageBuffer[Msg any] interface {
	MessageBuffer[Msg]

	// PopContext blocks like Pop but additionally honors ctx. It returns
	// ErrBufferClosed once the buffer is closed and drained, or ctx.Err()
	// if the context ends first.
	PopContext(ctx context.Context) (Msg, error)
}

// BoundedBuffer is the default MessageBuffer: a fixed-capacity FIFO backed
// by a buffered channel. Push blocks while the buffer is full, so messages
// are never dropped silently; messages already queued when Close is called
// are still delivered before Pop reports closed.
type BoundedBuffer[Msg any] struct {
	ch   chan Msg
	done chan struct{}
	once sync.Once
}

// NewBoundedBuffer creates a buffer holding up to capacity messages.
// capacity <= 0 falls back to DefaultCapacity.
func NewBoundedBuffer[Msg any](capacity int) *BoundedBuffer[Msg] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BoundedBuffer[Msg]{
		ch:   make(chan Msg, capacity),
		done: make(chan struct{}),
	}
}

// Ensure BoundedBuffer implements both buffer interfaces.
var _ AsyncMessageBuffer[int] = (*BoundedBuffer[int])(nil)

// Push enqueues msg, blocking while the buffer is full. It returns
// ErrBufferClosed once the buffer has been closed.
func (b *BoundedBuffer[Msg]) Push(msg Msg) error {
	select {
	case <-b.done:
		return ErrBufferClosed
	default:
	}
	select {
	case b.ch <- msg:
		return nil
	case <-b.done:
		return ErrBufferClosed
	}
}

// Pop blocks until a message arrives or the buffer is closed and drained.
func (b *BoundedBuffer[Msg]) Pop() (Msg, bool) {
	select {
	case msg := <-b.ch:
		return msg, true
	case <-b.done:
		// Deliver messages that were queued before the close.
		select {
		case msg := <-b.ch:
			return msg, true
		default:
			var zero Msg
			return zero, false
		}
	}
}

// PopContext blocks like Pop but also honors ctx.
func (b *BoundedBuffer[Msg]) PopContext(ctx context.Context) (Msg, error) {
	var zero Msg
	select {
	case msg := <-b.ch:
		return msg, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-b.done:
		select {
		case msg := <-b.ch:
			return msg, nil
		default:
			return zero, ErrBufferClosed
		}
	}
}

// Close marks the buffer closed. Queued messages remain poppable; new
// pushes fail with ErrBufferClosed. Safe to call multiple times and from
// any goroutine.
func (b *BoundedBuffer[Msg]) Close() {
	b.once.Do(func() { close(b.done) })
}

// Len reports the approximate number of queued messages.
func (b *BoundedBuffer[Msg]) Len() int {
	return len(b.ch)
}

// RingBuffer is a MessageBuffer that favors producer liveness over
// completeness: when full, Push overwrites the oldest queued message
// instead of blocking. Use it where producers must never stall and stale
// messages lose their value anyway, such as high-rate progress events.
type RingBuffer[Msg any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []Msg
	head     int
	count    int
	closed   bool
}

// NewRingBuffer creates a ring holding up to capacity messages.
// capacity <= 0 falls back to DefaultCapacity.
func NewRingBuffer[Msg any](capacity int) *RingBuffer[Msg] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	b := &RingBuffer[Msg]{items: make([]Msg, capacity)}
	b.nonEmpty = sync.NewCond(&b.mu)
	return b
}

var _ MessageBuffer[int] = (*RingBuffer[int])(nil)

// Push enqueues msg, overwriting the oldest queued message when the ring
// is full. It never blocks. Returns ErrBufferClosed after Close.
func (b *RingBuffer[Msg]) Push(msg Msg) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBufferClosed
	}
	if b.count == len(b.items) {
		b.items[b.head] = msg
		b.head = (b.head + 1) % len(b.items)
	} else {
		b.items[(b.head+b.count)%len(b.items)] = msg
		b.count++
	}
	b.nonEmpty.Signal()
	return nil
}

// Pop blocks until a message arrives or the buffer is closed and drained.
func (b *RingBuffer[Msg]) Pop() (Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.count == 0 && !b.closed {
		b.nonEmpty.Wait()
	}
	var zero Msg
	if b.count == 0 {
		return zero, false
	}
	msg := b.items[b.head]
	b.items[b.head] = zero
	b.head = (b.head + 1) % len(b.items)
	b.count--
	return msg, true
}

// Close marks the ring closed and wakes any blocked Pop. Queued messages
// remain poppable.
func (b *RingBuffer[Msg]) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.nonEmpty.Broadcast()
}

// Len reports the number of queued messages.
func (b *RingBuffer[Msg]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
