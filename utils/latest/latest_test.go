package latest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_NewerRequestCancelsOlder(t *testing.T) {
	var g Guard

	ctx1, t1 := g.Begin(context.Background(), "search")
	ctx2, t2 := g.Begin(context.Background(), "search")
	defer t2.Done()

	select {
	case <-ctx1.Done():
	default:
		t.Fatal("older context should be cancelled")
	}
	assert.NoError(t, ctx2.Err())

	assert.False(t, t1.Current())
	assert.True(t, t2.Current())
	assert.ErrorIs(t, t1.Commit(func() { t.Fatal("stale commit applied") }), ErrSuperseded)

	applied := false
	require.NoError(t, t2.Commit(func() { applied = true }))
	assert.True(t, applied)

	t1.Done()
	assert.True(t, t2.Current(), "done on a stale ticket must not release the newer one")
}

func TestGuard_KeysAreIndependent(t *testing.T) {
	var g Guard
	_, a := g.Begin(context.Background(), "groups")
	_, b := g.Begin(context.Background(), "posts")
	assert.True(t, a.Current())
	assert.True(t, b.Current())
	a.Done()
	b.Done()
	assert.False(t, a.Current())
}

func TestGuard_Cancel(t *testing.T) {
	var g Guard
	ctx, tk := g.Begin(context.Background(), "k")
	g.Cancel("k")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, tk.Current())
}

func TestDo_SlowResponseDiscarded(t *testing.T) {
	var g Guard
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = Do(context.Background(), &g, "search", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "slow", nil
		})
	}()

	<-started
	fast, err := Do(context.Background(), &g, "search", func(ctx context.Context) (string, error) {
		return "fast", nil
	})
	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "fast", fast)
	assert.ErrorIs(t, slowErr, ErrSuperseded)
}

func TestDo_PassesErrorThrough(t *testing.T) {
	var g Guard
	boom := errors.New("boom")
	_, err := Do(context.Background(), &g, "k", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestDo_ContextCancelledWhenSuperseded(t *testing.T) {
	var g Guard
	cancelled := make(chan struct{})
	go func() {
		_, _ = Do(context.Background(), &g, "k", func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		})
	}()

	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		_, ok := g.slots["k"]
		return ok
	}, time.Second, 5*time.Millisecond)

	_, tk := g.Begin(context.Background(), "k")
	defer tk.Done()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded request was not cancelled")
	}
}
