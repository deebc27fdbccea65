package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/xloggr/elmish"
	"github.com/xloggr/elmish/redis/internal/testutil"
)

type counterMsg int

const (
	inc counterMsg = iota
	dec
)

func newTestBuffer(t *testing.T, prefix string) *Buffer[counterMsg] {
	t.Helper()

	addr := testutil.GetRedisAddress(t)
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})

	buf := New[counterMsg](client, prefix)
	t.Cleanup(func() {
		_ = client.Del(context.Background(), buf.key).Err()
	})
	return buf
}

// TestBufferFIFO verifies ordered delivery through the Redis list.
func TestBufferFIFO(t *testing.T) {
	t.Parallel()

	buf := newTestBuffer(t, "elmish-test-fifo:")
	ctx := context.Background()

	for _, msg := range []counterMsg{inc, dec, inc} {
		require.NoError(t, buf.Push(msg))
	}
	require.Equal(t, 3, buf.Len())

	for _, want := range []counterMsg{inc, dec, inc} {
		got, err := buf.PopContext(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// TestBufferCloseReleasesPop verifies that Close wakes a blocked receive
// with the closed sentinel.
func TestBufferCloseReleasesPop(t *testing.T) {
	t.Parallel()

	buf := newTestBuffer(t, "elmish-test-close:")

	errCh := make(chan error, 1)
	go func() {
		_, err := buf.PopContext(context.Background())
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	buf.Close()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, elmish.ErrBufferClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not release the blocked PopContext")
	}

	require.ErrorIs(t, buf.Push(inc), elmish.ErrBufferClosed)
}

// TestBufferContextCancellation verifies that a cancelled context releases
// the blocked receive with the context's error.
func TestBufferContextCancellation(t *testing.T) {
	t.Parallel()

	buf := newTestBuffer(t, "elmish-test-cancel:")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := buf.PopContext(ctx)
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation did not release the blocked PopContext")
	}
}

// TestLoopOverRedisBuffer runs a full program over the Redis buffer: the
// counter scenario, driven end to end through Redis.
func TestLoopOverRedisBuffer(t *testing.T) {
	t.Parallel()

	buf := newTestBuffer(t, "elmish-test-loop:")

	var published []int
	program := elmish.MkSimple(
		func(struct{}) int { return 0 },
		func(msg counterMsg, count int) int {
			if msg == inc {
				return count + 1
			}
			return count - 1
		},
		func(count int, _ elmish.Dispatch[counterMsg]) int { return count },
	).WithSetState(func(count int, _ elmish.Dispatch[counterMsg]) {
		published = append(published, count)
	})

	for _, msg := range []counterMsg{inc, inc, dec} {
		require.NoError(t, buf.Push(msg))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- elmish.RunWithAsyncMessageBuffer[struct{}, int, counterMsg, int](
			context.Background(), buf, struct{}{}, program)
	}()

	// The list has no close signal of its own; stop once it is drained.
	require.Eventually(t, func() bool {
		return buf.Len() == 0
	}, 10*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	buf.Close()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after close")
	}

	require.Equal(t, []int{0, 1, 2, 1}, published)
}
