package core

import "sync"

// EventContext carries the payload of a fired event.
type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// New batches were built.
	/* Context usage:
	 * data = []string batch ids
	 */
	EVENT_CODE_BATCHES_BUILT SystemEventCode = 0x01

	// Draw-range overrides changed on at least one batch. The next frame must redraw.
	EVENT_CODE_DRAW_RANGES_CHANGED SystemEventCode = 0x02

	// All batches, render views and the world extent were dropped.
	EVENT_CODE_SCENE_CLEARED SystemEventCode = 0x03

	// The configuration file was reloaded.
	/* Context usage:
	 * data = *config.Config
	 */
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// Should return true if handled.
type FnOnEvent func(ctx EventContext) bool

type registeredEvent struct {
	id       uint32
	callback FnOnEvent
}

// EventBus dispatches engine events to registered listeners synchronously.
type EventBus struct {
	mu         sync.RWMutex
	nextID     uint32
	registered map[SystemEventCode][]registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code.
 * @returns a handle to pass to Unregister.
 */
func (eb *EventBus) Register(code SystemEventCode, onEvent FnOnEvent) uint32 {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextID++
	eb.registered[code] = append(eb.registered[code], registeredEvent{
		id:       eb.nextID,
		callback: onEvent,
	})
	return eb.nextID
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the listener was found and removed.
 */
func (eb *EventBus) Unregister(code SystemEventCode, handle uint32) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	events := eb.registered[code]
	for i, e := range events {
		if e.id == handle {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (eb *EventBus) Fire(code SystemEventCode, data interface{}) bool {
	eb.mu.RLock()
	events := make([]registeredEvent, len(eb.registered[code]))
	copy(events, eb.registered[code])
	eb.mu.RUnlock()

	ctx := EventContext{Type: code, Data: data}
	for _, e := range events {
		if e.callback(ctx) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
