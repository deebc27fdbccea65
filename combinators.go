package elmish

import "log/slog"

// Combinators refine an existing Program into a new one. Methods take the
// descriptor by value and return the modified copy, so the receiver is
// never changed and chains like
//
//	p := elmish.MkSimple(init, update, view).
//		WithSubscription(timer).
//		WithConsoleTrace(nil)
//
// read top to bottom.

// WithSubscription merges an additional subscription source into the
// program. Both sources are consulted once at startup with the initial
// state; the existing source's effects run before the added one's. The
// previous subscription is never replaced.
func (p Program[Arg, Model, Msg, View]) WithSubscription(sub func(Model) Cmd[Msg]) Program[Arg, Model, Msg, View] {
	prev := p.subscribe
	p.subscribe = func(model Model) Cmd[Msg] {
		return Batch(prev(model), sub(model))
	}
	return p
}

// WithConsoleTrace wraps init and update to log their inputs and resulting
// state through logger; nil selects slog.Default(). Tracing is diagnostic
// only and adds no behavior, but a failure inside the logger is not caught
// here — it surfaces like a failure of init or update itself.
func (p Program[Arg, Model, Msg, View]) WithConsoleTrace(logger *slog.Logger) Program[Arg, Model, Msg, View] {
	if logger == nil {
		logger = slog.Default()
	}
	init, update := p.init, p.update
	p.init = func(arg Arg) (Model, Cmd[Msg]) {
		logger.Info("initial state", slog.Any("arg", arg))
		model, cmd := init(arg)
		logger.Info("initialized", slog.Any("state", model))
		return model, cmd
	}
	p.update = func(msg Msg, model Model) (Model, Cmd[Msg]) {
		logger.Info("new message", slog.Any("message", msg))
		next, cmd := update(msg, model)
		logger.Info("updated state", slog.Any("state", next))
		return next, cmd
	}
	return p
}

// WithTrace invokes trace after every update, strictly for observation; its
// return value does not exist and its failures are not caught here. A panic
// inside trace falls under the loop's per-message failure boundary, exactly
// like a panic in update.
func (p Program[Arg, Model, Msg, View]) WithTrace(trace func(Msg, Model)) Program[Arg, Model, Msg, View] {
	update := p.update
	p.update = func(msg Msg, model Model) (Model, Cmd[Msg]) {
		next, cmd := update(msg, model)
		trace(msg, next)
		return next, cmd
	}
	return p
}

// WithErrorHandler replaces the program's error handler. The handler
// receives a short description of where the failure was recovered and the
// failure itself; it is the only place the runtime reports errors.
func (p Program[Arg, Model, Msg, View]) WithErrorHandler(onError func(string, error)) Program[Arg, Model, Msg, View] {
	p.onError = onError
	return p
}

// MapErrorHandler derives a new error handler from the current one, for
// combinators that want to observe or filter failures without dropping the
// existing reporting.
func (p Program[Arg, Model, Msg, View]) MapErrorHandler(f func(func(string, error)) func(string, error)) Program[Arg, Model, Msg, View] {
	p.onError = f(p.onError)
	return p
}

// WithSetState replaces the state-publish function. The default renders
// through view and discards the result; replace it to deliver state
// snapshots somewhere else.
func (p Program[Arg, Model, Msg, View]) WithSetState(setState func(Model, Dispatch[Msg])) Program[Arg, Model, Msg, View] {
	p.setState = setState
	return p
}

// WithSyncDispatch replaces the hook the loop applies exactly once, at
// startup, to derive the externally visible dispatch function. Use it to
// marshal dispatches onto a particular execution context. The hook must
// preserve "one dispatch call, at most one eventual update".
func (p Program[Arg, Model, Msg, View]) WithSyncDispatch(wrap func(Dispatch[Msg]) Dispatch[Msg]) Program[Arg, Model, Msg, View] {
	p.syncDispatch = wrap
	return p
}

// MapProgram builds a new descriptor by transforming init, update, view,
// setState, and subscribe at once. It is the escape hatch for higher-order
// combinators that must change the program's type parameters. The error
// handler carries over unchanged.
//
// The syncDispatch hook is reset to the identity: a hook installed before
// MapProgram is not preserved and must be re-applied afterwards with
// WithSyncDispatch.
func MapProgram[Arg, Model, Msg, View, Arg2, Model2, Msg2, View2 any](
	mapInit func(func(Arg) (Model, Cmd[Msg])) func(Arg2) (Model2, Cmd[Msg2]),
	mapUpdate func(func(Msg, Model) (Model, Cmd[Msg])) func(Msg2, Model2) (Model2, Cmd[Msg2]),
	mapView func(func(Model, Dispatch[Msg]) View) func(Model2, Dispatch[Msg2]) View2,
	mapSetState func(func(Model, Dispatch[Msg])) func(Model2, Dispatch[Msg2]),
	mapSubscribe func(func(Model) Cmd[Msg]) func(Model2) Cmd[Msg2],
	p Program[Arg, Model, Msg, View],
) Program[Arg2, Model2, Msg2, View2] {
	return Program[Arg2, Model2, Msg2, View2]{
		init:         mapInit(p.init),
		update:       mapUpdate(p.update),
		view:         mapView(p.view),
		setState:     mapSetState(p.setState),
		subscribe:    mapSubscribe(p.subscribe),
		onError:      p.onError,
		syncDispatch: func(d Dispatch[Msg2]) Dispatch[Msg2] { return d },
	}
}
