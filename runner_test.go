package elmish

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRunnerLifecycle verifies start, background dispatch, and a clean stop
// that drains in-flight messages.
func TestRunnerLifecycle(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		published []int
	)
	p := counterProgram().WithSetState(func(count int, _ Dispatch[counterMsg]) {
		mu.Lock()
		published = append(published, count)
		mu.Unlock()
	})

	runner := NewRunner(p)
	require.NoError(t, runner.Start(context.Background(), struct{}{}))

	require.NoError(t, runner.Dispatch(inc))
	require.NoError(t, runner.Dispatch(inc))
	require.NoError(t, runner.Dispatch(dec))

	runner.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1, 2, 1}, published, "queued messages are drained before stop returns")
	require.NoError(t, runner.Err())
}

// TestRunnerDoubleStart verifies that a second Start without Stop fails.
func TestRunnerDoubleStart(t *testing.T) {
	t.Parallel()

	p := counterProgram().WithSetState(func(int, Dispatch[counterMsg]) {})
	runner := NewRunner(p)

	require.NoError(t, runner.Start(context.Background(), struct{}{}))
	defer runner.Stop()

	require.Error(t, runner.Start(context.Background(), struct{}{}))
}

// TestRunnerDispatchAfterStop verifies that dispatching to a stopped runner
// reports a closed buffer.
func TestRunnerDispatchAfterStop(t *testing.T) {
	t.Parallel()

	p := counterProgram().WithSetState(func(int, Dispatch[counterMsg]) {})
	runner := NewRunner(p)
	require.NoError(t, runner.Start(context.Background(), struct{}{}))

	runner.Stop()
	runner.Stop() // idempotent

	require.ErrorIs(t, runner.Dispatch(inc), ErrBufferClosed)
}

// TestRunnerContextCancellation verifies that cancelling Start's context
// stops the loop and surfaces the context error through Err.
func TestRunnerContextCancellation(t *testing.T) {
	t.Parallel()

	p := counterProgram().WithSetState(func(int, Dispatch[counterMsg]) {})
	runner := NewRunner(p)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, runner.Start(ctx, struct{}{}))

	cancel()

	require.Eventually(t, func() bool {
		return runner.Err() != nil
	}, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, runner.Err(), context.Canceled)
}

// TestRunnerStopBeforeStart verifies Stop is safe on a never-started runner.
func TestRunnerStopBeforeStart(t *testing.T) {
	t.Parallel()

	p := counterProgram().WithSetState(func(int, Dispatch[counterMsg]) {})
	runner := NewRunner(p)
	runner.Stop()
	require.ErrorIs(t, runner.Dispatch(inc), ErrBufferClosed)
}
