package component

import (
	"github.com/vellum-ui/vellum/internal/errors"
)

// Listener receives the arguments passed to Emit.
type Listener func(args ...interface{})

type registration struct {
	fn   Listener
	once bool
}

// EventEmitter is a minimal synchronous listener table. Components embed
// one for lifecycle events (mount, update, destroy) and for custom
// bubbling events.
type EventEmitter struct {
	listeners map[string][]*registration
}

// NewEventEmitter creates an empty emitter.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{listeners: make(map[string][]*registration)}
}

// On subscribes a listener. A nil listener is a programmer error.
func (e *EventEmitter) On(event string, fn Listener) error {
	_, err := e.on(event, fn, false)
	return err
}

// Once subscribes a listener removed after its first invocation.
func (e *EventEmitter) Once(event string, fn Listener) error {
	_, err := e.on(event, fn, true)
	return err
}

func (e *EventEmitter) on(event string, fn Listener, once bool) (*registration, error) {
	if fn == nil {
		return nil, errors.ErrInvalidListener(event)
	}
	r := &registration{fn: fn, once: once}
	e.listeners[event] = append(e.listeners[event], r)
	return r, nil
}

// removeRegistration drops one specific listener registration.
func (e *EventEmitter) removeRegistration(event string, reg *registration) {
	regs := e.listeners[event]
	for i, r := range regs {
		if r == reg {
			e.listeners[event] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// Off removes every listener for an event; with event == "" it removes
// all listeners.
func (e *EventEmitter) Off(event string) {
	if event == "" {
		e.listeners = make(map[string][]*registration)
		return
	}
	delete(e.listeners, event)
}

// Emit invokes every listener for an event in subscription order. Once
// listeners are removed before invocation.
func (e *EventEmitter) Emit(event string, args ...interface{}) {
	regs := e.listeners[event]
	if len(regs) == 0 {
		return
	}

	kept := regs[:0]
	run := make([]*registration, len(regs))
	copy(run, regs)
	for _, r := range regs {
		if !r.once {
			kept = append(kept, r)
		}
	}
	e.listeners[event] = kept

	for _, r := range run {
		r.fn(args...)
	}
}

// ListenerCount reports the number of live listeners for an event.
func (e *EventEmitter) ListenerCount(event string) int {
	return len(e.listeners[event])
}
