package kite

import (
	"context"
	"sync"
)

// scheduler serializes component execution on the host loop and tracks how
// many instances still have work to do.
//
// The loop is handed over in FIFO order: releasing it passes ownership to
// the oldest reserved turn. A child started during its parent's render
// reserves its turn right away, so it runs before the parent comes back
// from its next suspension point.
//
// An instance is busy from the moment it is started until it parks on an
// event stream or finishes. Awaits and sleeps keep it busy. Whoever wakes a
// parked instance (a dispatch pushing an event, a stream closing) marks it
// busy before releasing the loop, so Settle never observes a gap.
type scheduler struct {
	turns sync.Mutex
	held  bool
	queue []chan struct{}

	mu     sync.Mutex
	idle   *sync.Cond
	active int

	commits chan struct{}
}

func newScheduler() *scheduler {
	s := &scheduler{commits: make(chan struct{}, 1)}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// reserve queues a turn on the host loop. The returned channel is closed
// when the turn comes up; the receiver then holds the loop.
func (s *scheduler) reserve() <-chan struct{} {
	s.turns.Lock()
	defer s.turns.Unlock()
	turn := make(chan struct{})
	if !s.held {
		s.held = true
		close(turn)
		return turn
	}
	s.queue = append(s.queue, turn)
	return turn
}

// enter acquires the host loop, behind every turn already reserved.
func (s *scheduler) enter() {
	<-s.reserve()
}

// unlock passes the loop to the next reserved turn, or frees it.
func (s *scheduler) unlock() {
	s.turns.Lock()
	defer s.turns.Unlock()
	if len(s.queue) == 0 {
		s.held = false
		return
	}
	next := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	close(next)
}

// leave releases the host loop and signals a commit.
func (s *scheduler) leave() {
	s.notify()
	s.unlock()
}

// leaveQuiet releases the host loop without signalling a commit, for
// read-only access.
func (s *scheduler) leaveQuiet() {
	s.unlock()
}

// notify signals a commit; pending signals coalesce.
func (s *scheduler) notify() {
	select {
	case s.commits <- struct{}{}:
	default:
	}
}

// busy marks one instance as having work to do.
func (s *scheduler) busy() {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
}

// park marks one instance as waiting for an external event or finished.
func (s *scheduler) park() {
	s.mu.Lock()
	s.active--
	if s.active <= 0 {
		s.active = 0
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// settle blocks until no instance is busy or ctx is done.
func (s *scheduler) settle(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.idle.Broadcast()
		s.mu.Unlock()
	})
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.active > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.idle.Wait()
	}
	return nil
}

// busyCount returns the number of busy instances.
func (s *scheduler) busyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
