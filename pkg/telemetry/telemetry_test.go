package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisio/contactrelay/pkg/telemetry"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []telemetry.Event
	err    error
}

func (r *recordingNotifier) Send(_ context.Context, event telemetry.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNotifier) Close() error { return nil }

func TestTryNotify(t *testing.T) {
	t.Parallel()

	t.Run("delivers event", func(t *testing.T) {
		t.Parallel()

		rec := &recordingNotifier{}
		telemetry.TryNotify(context.Background(), rec, telemetry.NewEvent("form_submitted", "203.0.113.9", map[string]any{
			"form_type": "contact",
		}))

		require.Len(t, rec.events, 1)
		assert.Equal(t, "form_submitted", rec.events[0].Name)
		assert.Equal(t, "203.0.113.9", rec.events[0].DistinctID)
		assert.Equal(t, "contact", rec.events[0].Payload["form_type"])
	})

	t.Run("swallows backend errors", func(t *testing.T) {
		t.Parallel()

		rec := &recordingNotifier{err: errors.New("backend down")}
		assert.NotPanics(t, func() {
			telemetry.TryNotify(context.Background(), rec, telemetry.NewEvent("x", "y", nil))
		})
	})

	t.Run("nil notifier is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			telemetry.TryNotify(context.Background(), nil, telemetry.NewEvent("x", "y", nil))
		})
	})
}

func TestNewPostHog(t *testing.T) {
	t.Parallel()

	t.Run("empty api key falls back to noop", func(t *testing.T) {
		t.Parallel()

		n, err := telemetry.NewPostHog(telemetry.PostHogConfig{})
		require.NoError(t, err)
		assert.NoError(t, n.Send(context.Background(), telemetry.NewEvent("x", "y", nil)))
		assert.NoError(t, n.Close())
	})

	t.Run("disabled flag falls back to noop", func(t *testing.T) {
		t.Parallel()

		n, err := telemetry.NewPostHog(telemetry.PostHogConfig{APIKey: "phc_test", Disabled: true})
		require.NoError(t, err)
		assert.NoError(t, n.Send(context.Background(), telemetry.NewEvent("x", "y", nil)))
	})
}
