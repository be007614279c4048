package telemetry

import "context"

type noop struct{}

// NewNoop returns a notifier that drops every event. Used when telemetry
// is disabled or misconfigured.
func NewNoop() Notifier {
	return noop{}
}

func (noop) Send(context.Context, Event) error { return nil }

func (noop) Close() error { return nil }
