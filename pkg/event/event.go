// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Event types published by the orrery
const (
	SceneAssembled  Type = "scene_assembled"
	TextureLoaded   Type = "texture_loaded"
	TextureFailed   Type = "texture_failed"
	ViewportResized Type = "viewport_resized"
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

// SubscriptionID identifies a registered handler so it can be removed.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler. It reports whether the handler was found.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			// Copy so a concurrent Publish iterating the old slice is unaffected.
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			b.handlers[eventType] = append(next, subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers, synchronously and in
// subscription order. A nil bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}

// TextureEvent reports the outcome of an asynchronous texture load.
type TextureEvent struct {
	BaseEvent
	Path string
	Err  error
}

// NewTextureEvent creates a TextureLoaded event, or TextureFailed when err
// is non-nil.
func NewTextureEvent(source interface{}, path string, err error) *TextureEvent {
	eventType := TextureLoaded
	if err != nil {
		eventType = TextureFailed
	}
	return &TextureEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Path: path,
		Err:  err,
	}
}

// ResizeEvent reports a new viewport size.
type ResizeEvent struct {
	BaseEvent
	Width  int
	Height int
	Aspect float64
}

// NewResizeEvent creates a ViewportResized event
func NewResizeEvent(source interface{}, width, height int, aspect float64) *ResizeEvent {
	return &ResizeEvent{
		BaseEvent: BaseEvent{
			EventType: ViewportResized,
			Source:    source,
		},
		Width:  width,
		Height: height,
		Aspect: aspect,
	}
}

// SceneEvent reports a completed scene assembly.
type SceneEvent struct {
	BaseEvent
	Bodies int
	Rings  int
}

// NewSceneEvent creates a SceneAssembled event
func NewSceneEvent(source interface{}, bodies, rings int) *SceneEvent {
	return &SceneEvent{
		BaseEvent: BaseEvent{
			EventType: SceneAssembled,
			Source:    source,
		},
		Bodies: bodies,
		Rings:  rings,
	}
}
