package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes a persisted event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", raw.EventType, err)
	}
	return event, nil
}

// DefaultRegistry returns a registry with every event type in this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventRequestCreated, func() Event { return &RequestCreated{} })
	r.Register(EventRequestStatusChanged, func() Event { return &RequestStatusChanged{} })
	r.Register(EventRequestDeleted, func() Event { return &RequestDeleted{} })
	r.Register(EventAcquisitionStarted, func() Event { return &AcquisitionStarted{} })
	r.Register(EventAcquisitionSucceeded, func() Event { return &AcquisitionSucceeded{} })
	r.Register(EventAcquisitionFailed, func() Event { return &AcquisitionFailed{} })
	r.Register(EventWorkflowAbandoned, func() Event { return &WorkflowAbandoned{} })
	return r
}
