package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/posthog/posthog-go"
)

// PostHogConfig configures the PostHog-backed notifier.
type PostHogConfig struct {
	APIKey   string `env:"POSTHOG_API_KEY"`
	Endpoint string `env:"POSTHOG_ENDPOINT" envDefault:"https://eu.i.posthog.com"`
	Disabled bool   `env:"POSTHOG_DISABLED" envDefault:"false"`
}

// ErrInvalidConfig is returned when the PostHog notifier cannot be built.
var ErrInvalidConfig = errors.New("telemetry: invalid config")

type postHogNotifier struct {
	client posthog.Client
}

// NewPostHog creates a PostHog-backed notifier. An empty API key or the
// disabled flag yield a noop notifier rather than an error, so callers can
// wire telemetry unconditionally.
func NewPostHog(cfg PostHogConfig) (Notifier, error) {
	if cfg.Disabled || cfg.APIKey == "" {
		return NewNoop(), nil
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &postHogNotifier{client: client}, nil
}

func (p *postHogNotifier) Send(_ context.Context, event Event) error {
	props := posthog.NewProperties()
	for k, v := range event.Payload {
		props.Set(k, v)
	}

	return p.client.Enqueue(posthog.Capture{
		DistinctId: event.DistinctID,
		Event:      event.Name,
		Properties: props,
	})
}

func (p *postHogNotifier) Close() error {
	return p.client.Close()
}
