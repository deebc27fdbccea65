package elmish

// Dispatch injects a message into a running program's loop. The loop hands
// a Dispatch to views, setState, and every executing effect; it is safe to
// call from any goroutine, and it is the only way back into the loop.
type Dispatch[Msg any] func(Msg)

// Effect is a single deferred side effect. When executed it receives the
// program's dispatch function and may emit zero or more messages, either
// immediately or from goroutines it starts.
type Effect[Msg any] func(Dispatch[Msg])

// Cmd is an ordered collection of deferred side effects. A Cmd is inert:
// constructing or combining commands never runs anything. The loop executes
// a command's effects in declaration order, each isolated from the failures
// of its siblings.
type Cmd[Msg any] []Effect[Msg]

// None is the command that carries no effects.
func None[Msg any]() Cmd[Msg] { return nil }

// OfMsg returns a command that dispatches msg when executed.
func OfMsg[Msg any](msg Msg) Cmd[Msg] {
	return Cmd[Msg]{func(dispatch Dispatch[Msg]) { dispatch(msg) }}
}

// OfEffect wraps a single effect as a command. A nil effect yields None.
func OfEffect[Msg any](eff Effect[Msg]) Cmd[Msg] {
	if eff == nil {
		return nil
	}
	return Cmd[Msg]{eff}
}

// Batch flattens commands into one, preserving order: every effect of
// cmds[0] precedes every effect of cmds[1], and so on.
func Batch[Msg any](cmds ...Cmd[Msg]) Cmd[Msg] {
	var n int
	for _, c := range cmds {
		n += len(c)
	}
	if n == 0 {
		return nil
	}
	out := make(Cmd[Msg], 0, n)
	for _, c := range cmds {
		out = append(out, c...)
	}
	return out
}

// MapCmd re-tags every message a command would emit, so a child component's
// commands can be embedded into a parent's message space.
func MapCmd[A, B any](f func(A) B, cmd Cmd[A]) Cmd[B] {
	if len(cmd) == 0 {
		return nil
	}
	out := make(Cmd[B], len(cmd))
	for i, eff := range cmd {
		eff := eff // per-iteration copy; required while go.mod targets go < 1.22
		out[i] = func(dispatch Dispatch[B]) {
			eff(func(msg A) { dispatch(f(msg)) })
		}
	}
	return out
}

// exec starts every effect of the command in order. Each effect runs under
// its own panic boundary; a failure is passed to report and never prevents
// the remaining effects from starting.
func (c Cmd[Msg]) exec(dispatch Dispatch[Msg], report func(error)) {
	for _, eff := range c {
		if eff == nil {
			continue
		}
		if err := catch(func() { eff(dispatch) }); err != nil {
			report(err)
		}
	}
}
