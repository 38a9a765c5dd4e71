package service

// Live dashboard event types.
const (
	EventContributionCreated = "contribution.created"
	EventPaymentConfirmed    = "payment.confirmed"
	EventCollectionClosed    = "collection.closed"
)

// EventPublisher pushes an event to everyone watching a collection.
// Publish must not block the caller.
type EventPublisher interface {
	Publish(room, eventType string, data any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, any) {}
