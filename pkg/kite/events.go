package kite

import (
	"iter"

	"github.com/vango-dev/kite/pkg/dom"
)

// QueuePolicy decides what a stream keeps while its consumer is busy.
// Native listeners never block, so undelivered events must go somewhere.
type QueuePolicy uint8

const (
	// QueueAll keeps every event in arrival order, without bound.
	QueueAll QueuePolicy = iota

	// QueueLatest keeps only the most recent undelivered event.
	QueueLatest
)

// String returns the string representation of the QueuePolicy.
func (p QueuePolicy) String() string {
	switch p {
	case QueueAll:
		return "all"
	case QueueLatest:
		return "latest"
	default:
		return "unknown"
	}
}

// Source names one native event on one element.
type Source struct {
	Name   string
	Target *dom.Element
}

// Stream is a single-reader sequence of events merged from its sources.
// Only the instance that created it may read from it.
type Stream struct {
	host   *Host
	owner  *Instance
	policy QueuePolicy
	subs   []*subscription
	resume chan (<-chan struct{})

	// Guarded by the host loop.
	queue   []*dom.Event
	closed  bool
	waiting bool
}

type subscription struct {
	stream   *Stream
	source   Source
	remove   func()
	released bool
}

// subscribe registers the native listeners for a new stream. Called with the
// host loop held.
func (h *Host) subscribe(owner *Instance, policy QueuePolicy, sources []Source) *Stream {
	s := &Stream{
		host:   h,
		owner:  owner,
		policy: policy,
		resume: make(chan (<-chan struct{}), 1),
	}
	if owner.unmounted || owner.finished {
		s.closed = true
		return s
	}
	for _, src := range sources {
		if src.Target == nil {
			continue
		}
		sub := &subscription{stream: s, source: src}
		sub.remove = src.Target.AddEventListener(src.Name, sub.handle)
		s.subs = append(s.subs, sub)
		h.targets[src.Target] = append(h.targets[src.Target], sub)
	}
	if len(s.subs) == 0 {
		s.closed = true
		return s
	}
	owner.streams[s] = struct{}{}
	h.metrics.RecordSubscribe(len(s.subs))
	owner.logger.Debug("event stream opened", "sources", len(s.subs), "policy", policy.String())
	return s
}

// handle is the native listener. It runs inside a dispatch, holding the
// host loop, and never blocks.
func (sub *subscription) handle(ev *dom.Event) {
	s := sub.stream
	if s.closed || sub.released {
		return
	}
	cp := *ev
	cp.CurrentTarget = sub.source.Target
	if s.policy == QueueLatest {
		s.host.metrics.RecordDiscarded(len(s.queue))
		s.queue = append(s.queue[:0], &cp)
	} else {
		s.queue = append(s.queue, &cp)
	}
	s.wake()
}

// wake hands a parked consumer back to the scheduler. Its turn is queued
// behind the current holder of the loop.
func (s *Stream) wake() {
	if !s.waiting {
		return
	}
	s.waiting = false
	s.host.sched.busy()
	s.resume <- s.host.sched.reserve()
}

// release removes the native listener. It reports whether it was still
// registered.
func (sub *subscription) release() bool {
	if sub.released {
		return false
	}
	sub.released = true
	sub.remove()
	sub.stream.host.dropTarget(sub)
	return true
}

// Next blocks until an event is available and returns it. It returns false
// once the stream is closed; queued events are discarded on close.
func (s *Stream) Next() (*dom.Event, bool) {
	for len(s.queue) == 0 && !s.closed {
		s.waiting = true
		s.owner.setState(StateSuspended)
		s.host.sched.park()
		s.host.sched.leave()
		<-<-s.resume
		s.owner.setState(StateRunning)
	}
	if s.closed {
		return nil, false
	}
	ev := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.host.metrics.RecordDelivered()
	return ev, true
}

// Wait is Next returning an error matching ErrStreamClosed instead of false.
func (s *Stream) Wait() (*dom.Event, error) {
	ev, ok := s.Next()
	if !ok {
		return nil, streamClosed(s.owner)
	}
	return ev, nil
}

// All returns an iterator over the stream. Leaving the loop for any reason
// (break, return, panic, exhaustion) closes the stream.
func (s *Stream) All() iter.Seq[*dom.Event] {
	return func(yield func(*dom.Event) bool) {
		defer s.Close()
		for {
			ev, ok := s.Next()
			if !ok {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Close releases every subscription and discards undelivered events.
// Closing twice is a no-op.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	released := 0
	for _, sub := range s.subs {
		if sub.release() {
			released++
		}
	}
	s.host.metrics.RecordUnsubscribe(released)
	s.host.metrics.RecordDiscarded(len(s.queue))
	s.queue = nil
	delete(s.owner.streams, s)
	s.wake()
	s.owner.logger.Debug("event stream closed")
}

// Closed reports whether the stream is closed.
func (s *Stream) Closed() bool { return s.closed }

// Pending returns the number of queued, undelivered events.
func (s *Stream) Pending() int { return len(s.queue) }

// Discard drops every queued, undelivered event and returns how many were
// dropped. The stream stays open.
func (s *Stream) Discard() int {
	n := len(s.queue)
	clear(s.queue)
	s.queue = s.queue[:0]
	s.host.metrics.RecordDiscarded(n)
	return n
}

// Policy returns the queue policy.
func (s *Stream) Policy() QueuePolicy { return s.policy }

// sourceGone is called when a subscription's target is unmounted. The stream
// ends once no source is left.
func (s *Stream) sourceGone() {
	for _, sub := range s.subs {
		if !sub.released {
			return
		}
	}
	s.Close()
}
