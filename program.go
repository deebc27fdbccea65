package elmish

import "log/slog"

// Program is an immutable descriptor of a message-driven application: how
// the initial state is produced, how each message transforms the state, how
// state is published, where external events come from, and how failures are
// reported. All fields are unexported; descriptors are built with MkProgram
// or MkSimple and refined with combinators, every one of which returns a
// new value and leaves the original untouched.
//
// The four type parameters are the application's own: Arg is the value the
// loop hands to init, Model the state snapshot, Msg the event type consumed
// by update, and View whatever the view function renders to. The runtime
// treats all four as opaque.
type Program[Arg, Model, Msg, View any] struct {
	init         func(Arg) (Model, Cmd[Msg])
	update       func(Msg, Model) (Model, Cmd[Msg])
	view         func(Model, Dispatch[Msg]) View
	subscribe    func(Model) Cmd[Msg]
	setState     func(Model, Dispatch[Msg])
	onError      func(string, error)
	syncDispatch func(Dispatch[Msg]) Dispatch[Msg]
}

// MkProgram builds a descriptor from an effectful init and update. The
// remaining fields start at their defaults: no subscription, setState
// renders through view and discards the result, errors go to a structured
// diagnostic log, and the dispatch hook is the identity.
func MkProgram[Arg, Model, Msg, View any](
	init func(Arg) (Model, Cmd[Msg]),
	update func(Msg, Model) (Model, Cmd[Msg]),
	view func(Model, Dispatch[Msg]) View,
) Program[Arg, Model, Msg, View] {
	return Program[Arg, Model, Msg, View]{
		init:      init,
		update:    update,
		view:      view,
		subscribe: func(Model) Cmd[Msg] { return nil },
		setState: func(model Model, dispatch Dispatch[Msg]) {
			_ = view(model, dispatch)
		},
		onError:      defaultErrorHandler,
		syncDispatch: func(d Dispatch[Msg]) Dispatch[Msg] { return d },
	}
}

// MkSimple builds a descriptor from an init and update that yield no
// effects; both are lifted to return (state, None).
func MkSimple[Arg, Model, Msg, View any](
	init func(Arg) Model,
	update func(Msg, Model) Model,
	view func(Model, Dispatch[Msg]) View,
) Program[Arg, Model, Msg, View] {
	return MkProgram(
		func(arg Arg) (Model, Cmd[Msg]) { return init(arg), nil },
		func(msg Msg, model Model) (Model, Cmd[Msg]) { return update(msg, model), nil },
		view,
	)
}

// defaultErrorHandler logs failures the loop recovered from. Programs that
// need different reporting replace it with WithErrorHandler.
func defaultErrorHandler(context string, err error) {
	slog.Error("elmish: unhandled failure",
		slog.String("context", context),
		slog.Any("error", err),
	)
}

// OnError returns the program's current error handler.
func (p Program[Arg, Model, Msg, View]) OnError() func(string, error) {
	return p.onError
}

// SetState returns the program's current state-publish function.
func (p Program[Arg, Model, Msg, View]) SetState() func(Model, Dispatch[Msg]) {
	return p.setState
}
