package ratelimit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/praxisio/contactrelay/pkg/kvstore"
)

// SlidingWindow counts request timestamps within a trailing window, persisted
// as a JSON-encoded timestamp list in a TTL key-value store. The key expires
// together with the window, so idle clients cost nothing.
//
// The read-modify-write cycle is not atomic: two near-simultaneous requests
// for the same key may both read the same window and under-count by one
// request per race. This is an accepted approximation for abuse throttling.
// If strict counting is ever needed, switch the backend to a store-native
// atomic counter (e.g. Redis INCR with EXPIRE) instead of patching this type.
type SlidingWindow struct {
	store  kvstore.Store
	limit  int
	window time.Duration
}

// NewSlidingWindow creates a sliding window limiter.
func NewSlidingWindow(store kvstore.Store, limit int, window time.Duration) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Allow records one request for key if the window has capacity, and reports
// the decision. Timestamps older than the window never count toward the
// limit.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	timestamps, err := sw.load(ctx, key)
	if err != nil {
		return nil, err
	}
	timestamps = pruneOlderThan(timestamps, now.Add(-sw.window))

	allowed := len(timestamps) < sw.limit
	if allowed {
		timestamps = append(timestamps, now)
		if err := sw.save(ctx, key, timestamps); err != nil {
			return nil, err
		}
	}

	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-len(timestamps)),
		ResetAt:   resetAt(timestamps, now, sw.window),
	}, nil
}

// Status reports the current window state without recording a request.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	timestamps, err := sw.load(ctx, key)
	if err != nil {
		return nil, err
	}
	timestamps = pruneOlderThan(timestamps, now.Add(-sw.window))

	return &Result{
		Allowed:   len(timestamps) < sw.limit,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-len(timestamps)),
		ResetAt:   resetAt(timestamps, now, sw.window),
	}, nil
}

// Reset clears the window for key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Delete(ctx, key)
}

func (sw *SlidingWindow) load(ctx context.Context, key string) ([]time.Time, error) {
	raw, ok, err := sw.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var millis []int64
	if err := json.Unmarshal([]byte(raw), &millis); err != nil {
		// A corrupt record resets the window rather than blocking traffic.
		return nil, nil
	}

	timestamps := make([]time.Time, 0, len(millis))
	for _, ms := range millis {
		timestamps = append(timestamps, time.UnixMilli(ms))
	}
	return timestamps, nil
}

func (sw *SlidingWindow) save(ctx context.Context, key string, timestamps []time.Time) error {
	millis := make([]int64, 0, len(timestamps))
	for _, ts := range timestamps {
		millis = append(millis, ts.UnixMilli())
	}

	raw, err := json.Marshal(millis)
	if err != nil {
		return err
	}

	// TTL equals the window so the record self-expires once the oldest
	// entry can no longer matter.
	return sw.store.Put(ctx, key, string(raw), sw.window)
}

func pruneOlderThan(timestamps []time.Time, cutoff time.Time) []time.Time {
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// resetAt is when the oldest counted request leaves the window. With an
// empty window the limit resets a full window from now.
func resetAt(timestamps []time.Time, now time.Time, window time.Duration) time.Time {
	if len(timestamps) == 0 {
		return now.Add(window)
	}
	return timestamps[0].Add(window)
}
