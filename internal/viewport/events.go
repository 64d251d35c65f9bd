package viewport

import (
	"errors"
	"fmt"
	"slices"

	"github.com/inamate/fractal/internal/geom"
)

// EventKind identifies what changed.
type EventKind string

const (
	EventPan    EventKind = "pan"
	EventResize EventKind = "resize"
)

// Event is delivered to observers after the viewport has been updated.
type Event struct {
	Kind EventKind
	Rect geom.Rect
}

// Observer receives viewport events.
type Observer interface {
	ViewportChanged(Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event) error

func (f ObserverFunc) ViewportChanged(e Event) error {
	return f(e)
}

// ErrSubscriber matches any error raised by an observer during notification.
var ErrSubscriber = errors.New("viewport: subscriber failed")

// SubscriberError reports the observer that aborted a notification.
type SubscriberError struct {
	Kind  EventKind
	Index int
	Err   error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("viewport: %s subscriber %d: %v", e.Kind, e.Index, e.Err)
}

func (e *SubscriberError) Unwrap() []error {
	return []error{ErrSubscriber, e.Err}
}

type subscription struct {
	id  int
	obs Observer
}

// Subscribe registers obs for events of the given kind. Observers run
// synchronously in subscription order. The returned function removes the
// subscription.
func (v *Viewport) Subscribe(kind EventKind, obs Observer) (cancel func()) {
	v.nextID++
	id := v.nextID
	v.observers[kind] = append(v.observers[kind], subscription{id: id, obs: obs})

	return func() {
		v.observers[kind] = slices.DeleteFunc(v.observers[kind], func(s subscription) bool {
			return s.id == id
		})
	}
}

// notify delivers an event to the observers registered at call time. The
// first observer error stops delivery and is returned.
func (v *Viewport) notify(kind EventKind) error {
	subs := slices.Clone(v.observers[kind])
	e := Event{Kind: kind, Rect: v.Rect()}
	for i, s := range subs {
		if err := s.obs.ViewportChanged(e); err != nil {
			return &SubscriberError{Kind: kind, Index: i, Err: err}
		}
	}
	return nil
}
