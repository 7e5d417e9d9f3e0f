package notification

import (
	"context"

	"appointly/models"
)

// Notifier hands booking lifecycle events to the outbound delivery
// collaborator. Publishing is best-effort: callers log failures and move on.
type Notifier interface {
	Publish(ctx context.Context, event models.BookingEvent) error
	Close() error
}

// NoopNotifier drops every event. Used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) Publish(context.Context, models.BookingEvent) error { return nil }
func (NoopNotifier) Close() error                                      { return nil }

// Deliverer performs the actual outbound delivery of an event (email, push).
// The worker calls it once per dequeued task.
type Deliverer interface {
	Deliver(ctx context.Context, event models.BookingEvent) error
}
