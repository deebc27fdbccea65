package elmish

import (
	"context"
	"errors"
	"fmt"
)

// Run starts p with a fresh BoundedBuffer of DefaultCapacity and no
// argument, and blocks until the buffer is closed.
func Run[Model, Msg, View any](p Program[struct{}, Model, Msg, View]) {
	RunWith(struct{}{}, p)
}

// RunWith starts p with arg and a fresh BoundedBuffer of DefaultCapacity.
func RunWith[Arg, Model, Msg, View any](arg Arg, p Program[Arg, Model, Msg, View]) {
	RunWithMessageBuffer(NewBoundedBuffer[Msg](DefaultCapacity), arg, p)
}

// RunWithMessageBuffer drives p using the supplied buffer, blocking in Pop
// between messages and returning when the buffer reports closed. Every
// failure the loop recovers from is routed through the program's error
// handler; nothing stops the loop except closing the buffer.
func RunWithMessageBuffer[Arg, Model, Msg, View any](
	buf MessageBuffer[Msg],
	arg Arg,
	p Program[Arg, Model, Msg, View],
) {
	model, dispatch := start(buf, arg, p)
	for {
		msg, ok := buf.Pop()
		if !ok {
			return
		}
		model = step(p, model, msg, dispatch)
	}
}

// RunContext is the context-aware Run: it stops with ctx.Err() when ctx is
// cancelled, or nil after a clean close.
func RunContext[Model, Msg, View any](ctx context.Context, p Program[struct{}, Model, Msg, View]) error {
	return RunWithContext(ctx, struct{}{}, p)
}

// RunWithContext is the context-aware RunWith.
func RunWithContext[Arg, Model, Msg, View any](ctx context.Context, arg Arg, p Program[Arg, Model, Msg, View]) error {
	return RunWithAsyncMessageBuffer(ctx, NewBoundedBuffer[Msg](DefaultCapacity), arg, p)
}

// RunWithAsyncMessageBuffer drives p using a context-aware buffer. It parks
// in PopContext instead of a bare blocking receive, so cancelling ctx
// releases the goroutine even if no close ever arrives. It returns nil
// after a clean close and ctx.Err() on cancellation.
//
// Ordering and isolation guarantees are identical to the synchronous loop.
// Cancellation only stops message consumption; effects already started keep
// running to completion on their own goroutines.
func RunWithAsyncMessageBuffer[Arg, Model, Msg, View any](
	ctx context.Context,
	buf AsyncMessageBuffer[Msg],
	arg Arg,
	p Program[Arg, Model, Msg, View],
) error {
	model, dispatch := start(buf, arg, p)
	for {
		msg, err := buf.PopContext(ctx)
		if err != nil {
			if errors.Is(err, ErrBufferClosed) {
				return nil
			}
			return err
		}
		model = step(p, model, msg, dispatch)
	}
}

// start performs the initializing transition: derive the external dispatch
// function through the program's hook, produce and publish the initial
// state, collect subscriptions, and execute the initial effects.
//
// A failing subscriber is substituted with no effects and reported; init's
// own command still runs.
func start[Arg, Model, Msg, View any](
	buf MessageBuffer[Msg],
	arg Arg,
	p Program[Arg, Model, Msg, View],
) (Model, Dispatch[Msg]) {
	dispatch := p.syncDispatch(func(msg Msg) {
		if err := buf.Push(msg); err != nil {
			p.onError(fmt.Sprintf("unable to dispatch message %+v", msg), err)
		}
	})

	model, cmd := p.init(arg)
	p.setState(model, dispatch)

	var sub Cmd[Msg]
	if err := catch(func() { sub = p.subscribe(model) }); err != nil {
		sub = nil
		p.onError("unable to subscribe", err)
	}

	Batch(sub, cmd).exec(dispatch, func(err error) {
		p.onError("error in initial effect", err)
	})
	return model, dispatch
}

// step performs one running transition. update and setState share a single
// failure boundary: if either panics, the failure is reported tagged with
// msg, the previous state is retained unchanged, and the message's effects
// are discarded entirely. Effect failures are isolated per effect and
// reported with the same tag.
func step[Arg, Model, Msg, View any](
	p Program[Arg, Model, Msg, View],
	model Model,
	msg Msg,
	dispatch Dispatch[Msg],
) Model {
	var (
		next Model
		cmd  Cmd[Msg]
	)
	if err := catch(func() {
		next, cmd = p.update(msg, model)
		p.setState(next, dispatch)
	}); err != nil {
		p.onError(fmt.Sprintf("unable to process message %+v", msg), err)
		return model
	}
	cmd.exec(dispatch, func(err error) {
		p.onError(fmt.Sprintf("error in effect while handling message %+v", msg), err)
	})
	return next
}
