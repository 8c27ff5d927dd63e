package listener

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"mmtools/broker"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func waitSubscribed(t *testing.T, mr *miniredis.Miniredis, channel string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListenConfigPrintsUntilCancelled(t *testing.T) {
	mr, rdb := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- ListenConfig(ctx, rdb, &out, zaptest.NewLogger(t)) }()

	waitSubscribed(t, mr, broker.ConfigChannel)
	mr.Publish(broker.ConfigChannel, `{"symbol":"BTC","enable_trading":false}`)
	mr.Publish(broker.ConfigChannel, `garbage`)

	require.Eventually(t, func() bool {
		return bytes.Count([]byte(out.String()), []byte(separator)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case <-done:
		t.Fatal("listener returned before being cancelled")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}

	got := out.String()
	assert.Contains(t, got, "  symbol: BTC")
	assert.Contains(t, got, "  enable_trading: false")
	assert.Contains(t, got, "Received message: garbage\nCould not parse message as JSON")

	assert.Eventually(t, func() bool {
		return mr.PubSubNumSub(broker.ConfigChannel)[broker.ConfigChannel] == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListenConfigFailsWhenBrokerGoesAway(t *testing.T) {
	mr, rdb := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ListenConfig(ctx, rdb, &syncBuffer{}, zaptest.NewLogger(t)) }()

	waitSubscribed(t, mr, broker.ConfigChannel)
	mr.Close()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("listener kept running after the broker closed")
	}
}

func TestListenPositionsFailsWhenBrokerGoesAway(t *testing.T) {
	mr, rdb := setup(t)

	done := make(chan error, 1)
	go func() {
		_, err := ListenPositions(context.Background(), rdb, time.Minute, &syncBuffer{}, zaptest.NewLogger(t))
		done <- err
	}()

	waitSubscribed(t, mr, broker.PositionChannel)
	mr.Close()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("listener kept running after the broker closed")
	}
}

func TestListenPositionsStopsAtBudget(t *testing.T) {
	_, rdb := setup(t)

	start := time.Now()
	reason, err := ListenPositions(context.Background(), rdb, 300*time.Millisecond, &syncBuffer{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, StopTimeout, reason)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestListenPositionsInterrupted(t *testing.T) {
	mr, rdb := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan StopReason, 1)
	go func() {
		reason, err := ListenPositions(ctx, rdb, time.Minute, &syncBuffer{}, zaptest.NewLogger(t))
		assert.NoError(t, err)
		done <- reason
	}()

	waitSubscribed(t, mr, broker.PositionChannel)
	cancel()

	select {
	case reason := <-done:
		assert.Equal(t, StopInterrupted, reason)
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}

func TestListenPositionsPrintsUpdates(t *testing.T) {
	mr, rdb := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ListenPositions(ctx, rdb, 10*time.Second, &out, zaptest.NewLogger(t))
	}()

	waitSubscribed(t, mr, broker.PositionChannel)
	mr.Publish(broker.PositionChannel, `{"timestamp":1,"positions":[],"total_pnl":0}`)
	mr.Publish(broker.PositionChannel, `oops`)

	require.Eventually(t, func() bool {
		s := out.String()
		return bytes.Contains([]byte(s), []byte("Received position update:")) &&
			bytes.Contains([]byte(s), []byte("Received non-JSON data: oops"))
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Contains(t, out.String(), "Summary: 0 positions [] long=$0.00 short=$0.00 pnl=$0.00")
}

func TestStopReasonString(t *testing.T) {
	assert.Equal(t, "timeout", StopTimeout.String())
	assert.Equal(t, "interrupted", StopInterrupted.String())
}
