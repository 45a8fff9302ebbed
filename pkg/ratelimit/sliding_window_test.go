package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/ratelimit"
)

func TestNewSlidingWindow(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(nil)
		assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)
		assert.Nil(t, sw)
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		store := ratelimit.NewMemoryStore()
		defer store.Close()
		sw, err := ratelimit.NewSlidingWindow(store)
		require.NoError(t, err)
		assert.NotNil(t, sw)
	})
}

func TestSlidingWindowAllow(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	sw, err := ratelimit.NewSlidingWindow(store)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("argument validation", func(t *testing.T) {
		t.Parallel()
		_, err := sw.Allow(ctx, "", 5, time.Second)
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)

		_, err = sw.Allow(ctx, "k", 0, time.Second)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)

		_, err = sw.Allow(ctx, "k", 5, 0)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidWindow)
	})

	t.Run("limit enforced within window", func(t *testing.T) {
		t.Parallel()
		key := "email:user-1"

		for i := range 5 {
			res, err := sw.Allow(ctx, key, 5, time.Minute)
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 4-i, res.Remaining)
		}

		// The (N+1)-th request within the window is rejected and consumes
		// no slot.
		res, err := sw.Allow(ctx, key, 5, time.Minute)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("window slides", func(t *testing.T) {
		t.Parallel()
		key := "email:user-2"
		window := 80 * time.Millisecond

		for range 3 {
			res, err := sw.Allow(ctx, key, 3, window)
			require.NoError(t, err)
			require.True(t, res.Allowed)
		}

		res, err := sw.Allow(ctx, key, 3, window)
		require.NoError(t, err)
		assert.False(t, res.Allowed)

		time.Sleep(window + 20*time.Millisecond)

		res, err = sw.Allow(ctx, key, 3, window)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})
}

func TestSlidingWindowConcurrent(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	sw, err := ratelimit.NewSlidingWindow(store)
	require.NoError(t, err)

	const limit = 10
	const callers = 50

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := sw.Allow(context.Background(), "shared", limit, time.Minute)
			if err != nil {
				return
			}
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

// failingStore simulates an unreachable backing store.
type failingStore struct{}

func (failingStore) ReserveSlot(context.Context, string, int, time.Duration) (bool, int64, error) {
	return false, 0, errors.New("connection refused")
}

func (failingStore) CountInWindow(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error {
	return errors.New("connection refused")
}

func TestSlidingWindowFailsOpen(t *testing.T) {
	t.Parallel()

	sw, err := ratelimit.NewSlidingWindow(failingStore{})
	require.NoError(t, err)

	res, err := sw.Allow(context.Background(), "k", 7, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 7, res.Remaining)
}

func TestSlidingWindowStatusAndReset(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	sw, err := ratelimit.NewSlidingWindow(store)
	require.NoError(t, err)

	ctx := context.Background()
	key := "in_app:user-3"

	for range 2 {
		_, err := sw.Allow(ctx, key, 5, time.Minute)
		require.NoError(t, err)
	}

	// Status does not consume a slot.
	for range 3 {
		res, err := sw.Status(ctx, key, 5, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Remaining)
	}

	require.NoError(t, sw.Reset(ctx, key))

	res, err := sw.Status(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Remaining)
}
