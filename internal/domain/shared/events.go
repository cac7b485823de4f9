package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. A CollectionChanged event is published for every
// mutated collection; the sync adapter keys its debounce off these.
const (
	// Collection change events (one per synced collection)
	EventStudentsChanged        EventType = "collection.students_changed"
	EventAttendanceChanged      EventType = "collection.attendance_changed"
	EventFinancialsChanged      EventType = "collection.financials_changed"
	EventPlansChanged           EventType = "collection.plans_changed"
	EventSchedulesChanged       EventType = "collection.schedules_changed"
	EventGraduationRulesChanged EventType = "collection.graduation_rules_changed"

	// Student events
	EventStudentEnrolled EventType = "student.enrolled"
	EventStudentPromoted EventType = "student.promoted"
	EventCheckInRecorded EventType = "student.check_in_recorded"

	// Session events
	EventUserLoggedIn  EventType = "session.logged_in"
	EventUserLoggedOut EventType = "session.logged_out"

	// System events
	EventSnapshotImported EventType = "system.snapshot_imported"
	EventSnapshotApplied  EventType = "system.snapshot_applied"
	EventDataReset        EventType = "system.data_reset"
)

// SyncedCollectionEvents lists the change events that must wake the remote
// sync adapter. The session user is local-only and deliberately absent.
var SyncedCollectionEvents = []EventType{
	EventStudentsChanged,
	EventAttendanceChanged,
	EventFinancialsChanged,
	EventPlansChanged,
	EventSchedulesChanged,
	EventGraduationRulesChanged,
}

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single event.
type EventHandler func(event Event) error

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload implements Event interface; events with no extra data inherit it.
func (e BaseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// CollectionChangedEvent is emitted after every committed mutation of a
// collection. Origin distinguishes local edits from a sync pull apply.
type CollectionChangedEvent struct {
	BaseEvent
	Collection string `json:"collection"`
	Origin     string `json:"origin"` // "local" or "remote"
}

// Payload implements Event interface.
func (e CollectionChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"collection": e.Collection,
		"origin":     e.Origin,
	}
}

// NewCollectionChangedEvent creates a CollectionChangedEvent.
func NewCollectionChangedEvent(eventType EventType, collection, origin string) CollectionChangedEvent {
	return CollectionChangedEvent{
		BaseEvent:  NewBaseEvent(eventType, collection),
		Collection: collection,
		Origin:     origin,
	}
}

// EventBus decouples event producers from consumers.
type EventBus interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error

	// Publish sends an event to all subscribed handlers.
	Publish(event Event) error

	// Close gracefully shuts down the bus.
	Close() error
}
