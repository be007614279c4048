package ratelimit_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisio/contactrelay/pkg/kvstore"
	"github.com/praxisio/contactrelay/pkg/ratelimit"
)

func newTestStore(t *testing.T) *kvstore.MemoryStore {
	t.Helper()
	s := kvstore.NewMemoryStore()
	t.Cleanup(s.Close)
	return s
}

func TestNewSlidingWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		store       kvstore.Store
		limit       int
		window      time.Duration
		expectError error
	}{
		{name: "nil store", store: nil, limit: 5, window: time.Minute, expectError: ratelimit.ErrStoreRequired},
		{name: "zero limit", store: newTestStore(t), limit: 0, window: time.Minute, expectError: ratelimit.ErrInvalidLimit},
		{name: "negative limit", store: newTestStore(t), limit: -1, window: time.Minute, expectError: ratelimit.ErrInvalidLimit},
		{name: "zero window", store: newTestStore(t), limit: 5, window: 0, expectError: ratelimit.ErrInvalidWindow},
		{name: "valid", store: newTestStore(t), limit: 5, window: time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sw, err := ratelimit.NewSlidingWindow(tt.store, tt.limit, tt.window)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, sw)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sw)
			}
		})
	}
}

func TestSlidingWindowAllow(t *testing.T) {
	t.Parallel()

	t.Run("allows up to limit then rejects", func(t *testing.T) {
		t.Parallel()

		sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 5, 15*time.Minute)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			res, err := sw.Allow(context.Background(), "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 5-(i+1), res.Remaining)
		}

		res, err := sw.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Zero(t, res.Remaining)
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 1, time.Minute)
		require.NoError(t, err)

		res, err := sw.Allow(context.Background(), "a")
		require.NoError(t, err)
		require.True(t, res.Allowed)

		res, err = sw.Allow(context.Background(), "b")
		require.NoError(t, err)
		assert.True(t, res.Allowed)

		res, err = sw.Allow(context.Background(), "a")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	})

	t.Run("blocked key admitted again after window elapses", func(t *testing.T) {
		t.Parallel()

		sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 2, 60*time.Millisecond)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			res, err := sw.Allow(context.Background(), "k")
			require.NoError(t, err)
			require.True(t, res.Allowed)
		}

		res, err := sw.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.False(t, res.Allowed)

		time.Sleep(80 * time.Millisecond)

		res, err = sw.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		t.Parallel()

		sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 1, time.Minute)
		require.NoError(t, err)

		_, err = sw.Allow(context.Background(), "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
	})
}

func TestSlidingWindowStatus(t *testing.T) {
	t.Parallel()

	sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 2, time.Minute)
	require.NoError(t, err)

	res, err := sw.Status(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)

	// Status must not consume capacity.
	for i := 0; i < 3; i++ {
		res, err = sw.Status(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	_, err = sw.Allow(context.Background(), "k")
	require.NoError(t, err)

	res, err = sw.Status(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
}

func TestSlidingWindowReset(t *testing.T) {
	t.Parallel()

	sw, err := ratelimit.NewSlidingWindow(newTestStore(t), 1, time.Minute)
	require.NoError(t, err)

	res, err := sw.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = sw.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	require.NoError(t, sw.Reset(context.Background(), "k"))

	res, err = sw.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestByClientIP(t *testing.T) {
	t.Parallel()

	keyFn := ratelimit.ByClientIP("contact")

	r := httptest.NewRequest("POST", "/api/contact", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	assert.Equal(t, "contact:1.2.3.4", keyFn(r))

	r.Header.Set("CF-Connecting-IP", "203.0.113.9")
	assert.Equal(t, "contact:203.0.113.9", keyFn(r))
}
