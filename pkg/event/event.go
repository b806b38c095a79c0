// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	SphereAdded       Type = "sphere_added"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	StepCompleted     Type = "step_completed"
	StateCorrupted    Type = "state_corrupted"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// SphereEvent contains information about a newly registered sphere
type SphereEvent struct {
	BaseEvent
	Index  int
	Radius float32
}

// NewSphereEvent creates a new sphere event
func NewSphereEvent(source interface{}, index int, radius float32) *SphereEvent {
	return &SphereEvent{
		BaseEvent: BaseEvent{
			EventType: SphereAdded,
			Source:    source,
		},
		Index:  index,
		Radius: radius,
	}
}

// StepEvent contains information about a completed simulation step
type StepEvent struct {
	BaseEvent
	Tick uint64
}

// NewStepEvent creates a new step event
func NewStepEvent(source interface{}, tick uint64) *StepEvent {
	return &StepEvent{
		BaseEvent: BaseEvent{
			EventType: StepCompleted,
			Source:    source,
		},
		Tick: tick,
	}
}

// LifecycleEvent marks simulation start and stop
type LifecycleEvent struct {
	BaseEvent
	Tick uint64
}

// NewLifecycleEvent creates a new lifecycle event
func NewLifecycleEvent(eventType Type, source interface{}, tick uint64) *LifecycleEvent {
	return &LifecycleEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick: tick,
	}
}

// CorruptionEvent reports unhealthy simulation state found by diagnostics
type CorruptionEvent struct {
	BaseEvent
	Check   string
	Message string
}

// NewCorruptionEvent creates a new corruption event
func NewCorruptionEvent(source interface{}, check, message string) *CorruptionEvent {
	return &CorruptionEvent{
		BaseEvent: BaseEvent{
			EventType: StateCorrupted,
			Source:    source,
		},
		Check:   check,
		Message: message,
	}
}
