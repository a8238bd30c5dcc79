package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monitorFunc func(ctx context.Context) error

func (f monitorFunc) Run(ctx context.Context) error { return f(ctx) }

func TestHostWatcher_RestartsOnEachLaunch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// not running, running, not running, running
	sequence := []bool{false, true, false, true}
	var polls atomic.Int32
	probe := probeFunc(func(ctx context.Context) bool {
		i := int(polls.Add(1)) - 1
		if i < len(sequence) {
			return sequence[i]
		}
		return false
	})

	var sessions, hooks atomic.Int32
	monitor := monitorFunc(func(ctx context.Context) error {
		if sessions.Add(1) == 2 {
			cancel()
			return ctx.Err()
		}
		return errors.New("career database missing")
	})

	w := NewHostWatcher(probe, monitor, time.Millisecond, nil,
		func(ctx context.Context) { hooks.Add(1) },
	)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, int32(2), sessions.Load())
	assert.Equal(t, int32(2), hooks.Load())
}

func TestHostWatcher_CancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	probe := probeFunc(func(ctx context.Context) bool { return false })
	w := NewHostWatcher(probe, monitorFunc(func(ctx context.Context) error { return nil }), time.Hour, nil)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
