// Package telemetry records product analytics events. Delivery is
// best-effort: a submission must never fail because the analytics backend
// is down, so errors are swallowed by TryNotify and only surface through
// the optional error return of Send.
package telemetry

import "context"

// Event is a single analytics occurrence attributed to a distinct caller.
type Event struct {
	// Name identifies the event, e.g. "contact_form_submitted".
	Name string
	// DistinctID groups events by origin. For anonymous web submissions
	// this is typically the client IP or a request ID.
	DistinctID string
	// Payload carries arbitrary event properties.
	Payload map[string]any
}

// NewEvent builds an event with the given name and payload.
func NewEvent(name, distinctID string, payload map[string]any) Event {
	return Event{Name: name, DistinctID: distinctID, Payload: payload}
}

// Notifier delivers analytics events.
type Notifier interface {
	Send(ctx context.Context, event Event) error
	Close() error
}

// TryNotify sends the event and discards any error. Safe to call with a
// nil notifier.
func TryNotify(ctx context.Context, n Notifier, event Event) {
	if n == nil {
		return
	}
	_ = n.Send(ctx, event)
}
