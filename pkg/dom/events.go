package dom

import "time"

// Event is a native event delivered to listeners.
type Event struct {
	// Type is the event name, e.g. "click".
	Type string

	// Target is the element the event was dispatched to.
	Target *Element

	// CurrentTarget is the element whose listener is running.
	CurrentTarget *Element

	// Value carries the control value for input-class events.
	Value string

	// Key carries the key for keyboard events.
	Key string

	// TimeStamp is the dispatch time.
	TimeStamp time.Time

	stopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from bubbling further.
func (ev *Event) StopPropagation() { ev.stopped = true }

// Listener handles a native event. Listeners must not block.
type Listener func(ev *Event)

type listener struct {
	fn Listener
}

// AddEventListener registers fn for events of type name and returns the
// function that removes it. Calling the returned function more than once is
// a no-op.
func (e *Element) AddEventListener(name string, fn Listener) (remove func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[name] = append(e.listeners[name], l)
	return func() { e.removeListener(name, l) }
}

func (e *Element) removeListener(name string, l *listener) {
	list := e.listeners[name]
	for i, cur := range list {
		if cur == l {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.listeners, name)
		return
	}
	e.listeners[name] = list
}

// ListenerCount returns the number of listeners for name, or for every
// event type when name is empty.
func (e *Element) ListenerCount(name string) int {
	if name != "" {
		return len(e.listeners[name])
	}
	n := 0
	for _, list := range e.listeners {
		n += len(list)
	}
	return n
}

// HasListeners reports whether any listener is registered on e.
func (e *Element) HasListeners() bool {
	return len(e.listeners) > 0
}

// mouseEvents are suppressed on disabled form controls.
var mouseEvents = map[string]bool{
	"click":     true,
	"dblclick":  true,
	"mousedown": true,
	"mouseup":   true,
	"auxclick":  true,
}

var formControls = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"fieldset": true,
}

// Dispatch delivers ev to target and bubbles it through its ancestors. It
// reports whether the event reached dispatch at all: mouse events aimed at a
// disabled form control are dropped.
func (d *Document) Dispatch(target *Element, ev *Event) bool {
	if target == nil || ev == nil {
		return false
	}
	if mouseEvents[ev.Type] && target.disabled && formControls[target.tag] {
		return false
	}
	ev.Target = target
	if ev.TimeStamp.IsZero() {
		ev.TimeStamp = time.Now()
	}
	for cur := target; cur != nil && !ev.stopped; cur = cur.parent {
		// Snapshot: listeners may remove themselves while running.
		list := append([]*listener(nil), cur.listeners[ev.Type]...)
		ev.CurrentTarget = cur
		for _, l := range list {
			l.fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return true
}
