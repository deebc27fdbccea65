package elmish

import (
	"context"
	"errors"
	"sync"
)

// Runner drives a program's loop on a background goroutine, the way most
// services embed one: start once, dispatch from anywhere, stop on shutdown.
//
// Typical usage:
//
//	runner := elmish.NewRunner(program)
//	if err := runner.Start(ctx, struct{}{}); err != nil {
//		log.Fatal(err)
//	}
//	defer runner.Stop()
//
//	runner.Dispatch(msg)
type Runner[Arg, Model, Msg, View any] struct {
	program Program[Arg, Model, Msg, View]
	buf     AsyncMessageBuffer[Msg]

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	running bool
}

// NewRunner pairs p with a fresh BoundedBuffer of DefaultCapacity.
func NewRunner[Arg, Model, Msg, View any](p Program[Arg, Model, Msg, View]) *Runner[Arg, Model, Msg, View] {
	return NewRunnerWithBuffer(NewBoundedBuffer[Msg](DefaultCapacity), p)
}

// NewRunnerWithBuffer pairs p with a caller-supplied buffer, for capacity
// tuning or alternative implementations such as the redis module's.
func NewRunnerWithBuffer[Arg, Model, Msg, View any](
	buf AsyncMessageBuffer[Msg],
	p Program[Arg, Model, Msg, View],
) *Runner[Arg, Model, Msg, View] {
	return &Runner[Arg, Model, Msg, View]{program: p, buf: buf}
}

// Start launches the loop with arg on a new goroutine. Calling Start again
// while the loop is running returns an error.
func (r *Runner[Arg, Model, Msg, View]) Start(ctx context.Context, arg Arg) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("elmish: runner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	done := r.done
	go func() {
		defer close(done)
		err := RunWithAsyncMessageBuffer(ctx, r.buf, arg, r.program)

		r.mu.Lock()
		r.err = err
		r.running = false
		r.mu.Unlock()
	}()

	return nil
}

// Dispatch injects msg into the loop. It reports the buffer's push error,
// if any; dispatching to a stopped runner returns ErrBufferClosed.
func (r *Runner[Arg, Model, Msg, View]) Dispatch(msg Msg) error {
	return r.buf.Push(msg)
}

// Stop closes the buffer, waits for the loop to drain the remaining
// messages and exit, then releases the context. Safe to call multiple
// times and before Start.
func (r *Runner[Arg, Model, Msg, View]) Stop() {
	r.mu.Lock()
	done := r.done
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	r.buf.Close()
	if done != nil {
		<-done
	}
	if cancel != nil {
		cancel()
	}
}

// Err reports how the loop ended: nil after a clean close, or the
// context's error if Start's context was cancelled first. Only meaningful
// once Stop has returned or the loop has otherwise exited.
func (r *Runner[Arg, Model, Msg, View]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
