// Package elmish provides a small, embeddable message-driven state machine
// runtime for Go, modeled after the model-view-update architecture.
//
// Applications are described, not wired: a Program bundles an initializer,
// an update function, a view, an optional subscription source, and an error
// handler into one immutable descriptor, and the runtime pumps messages
// through it on a single logical consumer.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Program
//  2. Cmd
//  3. Dispatch
//  4. MessageBuffer
//  5. Runner
//
// # Program
//
// A Program describes an application completely. It is built with MkSimple
// or MkProgram and refined with combinators such as WithSubscription,
// WithConsoleTrace, or WithErrorHandler. Combinators never mutate; each
// returns a new descriptor, so partially configured programs can be shared
// freely.
//
// # Cmd
//
// A Cmd is an inert, ordered description of side effects. Executing a Cmd
// hands each effect the program's Dispatch function; effects may dispatch
// messages immediately or from goroutines they start. Composing commands
// with Batch and MapCmd never runs anything.
//
// # The loop
//
// Run, RunWith, and RunWithMessageBuffer drive a program synchronously:
// messages are consumed one at a time from a bounded buffer, each applied
// to the current state by update, the new state published, and the yielded
// command executed. RunContext and its variants are the context-aware
// equivalents for loops that must stop on cancellation.
//
// Failures never kill the loop. A panicking update retains the previous
// state, a panicking effect does not block its siblings, and everything is
// reported through the program's single error handler. The loop stops only
// when its buffer is closed.
//
// # Buffers
//
// The default buffer is a fixed-capacity FIFO (capacity 10) that blocks
// producers when full. Alternative implementations can be substituted
// through the MessageBuffer interface: RingBuffer drops the oldest message
// instead of blocking, the journal package records every message in SQLite
// for later replay, and the redis sub-module delivers messages across
// processes.
//
// # Example
//
//	type counterMsg int
//
//	const (
//		inc counterMsg = iota
//		dec
//	)
//
//	program := elmish.MkSimple(
//		func(struct{}) int { return 0 },
//		func(msg counterMsg, count int) int {
//			switch msg {
//			case inc:
//				return count + 1
//			case dec:
//				return count - 1
//			}
//			return count
//		},
//		func(count int, _ elmish.Dispatch[counterMsg]) string {
//			return strconv.Itoa(count)
//		},
//	)
//
//	elmish.Run(program)
package elmish
