package elmish

import "sync/atomic"

// LoopMetrics collects simple counters for a running program. Attach with
// WithMetrics; it is safe for concurrent use and can be shared between
// several programs if an aggregate view is wanted.
type LoopMetrics struct {
	messagesProcessed atomic.Int64
	statesPublished   atomic.Int64
	errorsReported    atomic.Int64
}

// LoopMetricsSnapshot is an immutable snapshot of LoopMetrics.
type LoopMetricsSnapshot struct {
	// MessagesProcessed counts updates that ran to completion.
	MessagesProcessed int64

	// StatesPublished counts setState calls, including the initial publish.
	StatesPublished int64

	// ErrorsReported counts every failure routed through the program's
	// error handler: update failures, effect failures, subscription
	// failures, and rejected dispatches alike.
	ErrorsReported int64
}

// Snapshot returns a consistent-enough point-in-time copy of the counters.
func (m *LoopMetrics) Snapshot() LoopMetricsSnapshot {
	return LoopMetricsSnapshot{
		MessagesProcessed: m.messagesProcessed.Load(),
		StatesPublished:   m.statesPublished.Load(),
		ErrorsReported:    m.errorsReported.Load(),
	}
}

// WithMetrics instruments the program so m observes its message, publish,
// and error counts. Existing trace, setState, and error-handling behavior
// is preserved underneath.
func (p Program[Arg, Model, Msg, View]) WithMetrics(m *LoopMetrics) Program[Arg, Model, Msg, View] {
	setState := p.setState
	return p.
		WithTrace(func(Msg, Model) { m.messagesProcessed.Add(1) }).
		WithSetState(func(model Model, dispatch Dispatch[Msg]) {
			m.statesPublished.Add(1)
			setState(model, dispatch)
		}).
		MapErrorHandler(func(next func(string, error)) func(string, error) {
			return func(context string, err error) {
				m.errorsReported.Add(1)
				next(context, err)
			}
		})
}
