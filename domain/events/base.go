package events

import "time"

// DomainEvent is something that has already happened to the board. Mutation
// handlers emit events; subscribers (the change-log recorder, the logger)
// react to them. The engine itself performs no logging side effects.
type DomainEvent interface {
	// GetAggregateID identifies the entity the event concerns (node id,
	// edge id, project id).
	GetAggregateID() string
	// GetAction is the change-log action tag, e.g. "node_moved".
	GetAction() string
	// GetDetails is the human-readable history line for the event.
	GetDetails() string
	GetTimestamp() time.Time
}

// BaseEvent provides the common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetAction() string       { return e.Action }
func (e BaseEvent) GetDetails() string      { return e.Details }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBase(aggregateID, action, details string) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		Action:      action,
		Details:     details,
		Timestamp:   time.Now(),
	}
}

// Publisher delivers domain events to subscribers. Delivery is synchronous;
// subscribers must not mutate the engine re-entrantly.
type Publisher interface {
	Publish(event DomainEvent)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(event DomainEvent)

func (f PublisherFunc) Publish(event DomainEvent) { f(event) }

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) Publish(DomainEvent) {}
