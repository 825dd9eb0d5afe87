package kite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/vdom"
)

func listenerCount(h *Host) int {
	var n int
	h.View(func(doc *dom.Document) { n = doc.ListenerCount() })
	return n
}

func TestWaitEventsMergesInArrivalOrder(t *testing.T) {
	h := newTestHost(t)
	var got []string
	comp := Define("Merge", func(c *Context) error {
		err := c.Render(
			vdom.Button(vdom.Key("a"), vdom.ID("a"), "A"),
			vdom.Button(vdom.Key("b"), vdom.ID("b"), "B"),
		)
		if err != nil {
			return err
		}
		a, _ := c.Element("a")
		b, _ := c.Element("b")
		for ev := range c.WaitEvents(c.DomEvent("click", a), c.DomEvent("click", b)).All() {
			id, _ := ev.CurrentTarget.Attribute("id")
			got = append(got, id)
			if len(got) == 4 {
				break
			}
		}
		return nil
	})
	in := h.Mount(nil, comp, nil)
	settle(t, h)

	a, b := byID(t, h, "a"), byID(t, h, "b")
	// No settling in between: events pile up in the queue.
	for _, el := range []*dom.Element{a, b, b, a} {
		h.Dispatch(el, dom.NewEvent("click"))
	}
	waitDone(t, in)

	if diff := cmp.Diff([]string{"a", "b", "b", "a"}, got); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
	if n := listenerCount(h); n != 0 {
		t.Errorf("ListenerCount() = %d after leaving the loop, want 0", n)
	}
}

func TestStreamQueuesWhileConsumerBusy(t *testing.T) {
	tests := []struct {
		name   string
		latest bool
		want   []string
	}{
		{"all", false, []string{"1", "2", "3"}},
		{"latest", true, []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(t)
			ready := make(chan struct{})
			gate := make(chan struct{})
			var got []string
			comp := Define("Busy", func(c *Context) error {
				if err := c.Render(vdom.Input(vdom.Key("in"), vdom.ID("in"))); err != nil {
					return err
				}
				el, _ := c.Element("in")
				src := c.DomEvent("input", el)
				var s *Stream
				if tt.latest {
					s = c.WaitLatestEvents(src)
				} else {
					s = c.WaitEvents(src)
				}
				_, err := Await(c, func(context.Context) (struct{}, error) {
					close(ready)
					<-gate
					return struct{}{}, nil
				})
				if err != nil {
					return err
				}
				for s.Pending() > 0 {
					ev, _ := s.Next()
					got = append(got, ev.Value)
				}
				s.Close()
				return nil
			})
			in := h.Mount(nil, comp, nil)
			<-ready
			el := byID(t, h, "in")
			for _, v := range []string{"1", "2", "3"} {
				ev := dom.NewEvent("input")
				ev.Value = v
				h.Dispatch(el, ev)
			}
			close(gate)
			waitDone(t, in)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("delivered mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStreamDiscardKeepsStreamOpen(t *testing.T) {
	h := newTestHost(t)
	ready := make(chan struct{})
	gate := make(chan struct{})
	var dropped int
	var got []string
	comp := Define("Discard", func(c *Context) error {
		if err := c.Render(vdom.Input(vdom.Key("in"), vdom.ID("in"))); err != nil {
			return err
		}
		el, _ := c.Element("in")
		s := c.WaitEvents(c.DomEvent("input", el))
		_, err := Await(c, func(context.Context) (struct{}, error) {
			close(ready)
			<-gate
			return struct{}{}, nil
		})
		if err != nil {
			return err
		}
		dropped = s.Discard()
		ev, err := s.Wait()
		if err != nil {
			return err
		}
		got = append(got, ev.Value)
		s.Close()
		return nil
	})
	in := h.Mount(nil, comp, nil)
	<-ready
	el := byID(t, h, "in")
	for _, v := range []string{"1", "2"} {
		ev := dom.NewEvent("input")
		ev.Value = v
		h.Dispatch(el, ev)
	}
	close(gate)
	settle(t, h)

	ev := dom.NewEvent("input")
	ev.Value = "3"
	h.Dispatch(el, ev)
	waitDone(t, in)

	if dropped != 2 {
		t.Errorf("Discard() = %d, want 2", dropped)
	}
	if diff := cmp.Diff([]string{"3"}, got); diff != "" {
		t.Errorf("delivered mismatch (-want +got):\n%s", diff)
	}
	if err := in.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestStreamCloseRemovesListeners(t *testing.T) {
	h := newTestHost(t)
	var during, after int
	comp := Define("Close", func(c *Context) error {
		if err := c.Render(vdom.Button(vdom.Key("b"), "b"), vdom.Button(vdom.Key("c"), "c")); err != nil {
			return err
		}
		b, _ := c.Element("b")
		el, _ := c.Element("c")
		s := c.WaitEvents(c.DomEvent("click", b), c.DomEvent("click", el), c.DomEvent("keydown", el))
		during = c.Document().ListenerCount()
		s.Close()
		s.Close()
		after = c.Document().ListenerCount()
		if _, ok := s.Next(); ok {
			t.Error("Next() on a closed stream returned an event")
		}
		return nil
	})
	waitDone(t, h.Mount(nil, comp, nil))
	if during != 3 || after != 0 {
		t.Errorf("listeners = %d then %d, want 3 then 0", during, after)
	}
}

func TestStreamEndsWhenTargetUnmounts(t *testing.T) {
	h := newTestHost(t)
	var child *Instance
	ended := false
	watcher := Define("Watcher", func(c *Context) error {
		child = c.Instance()
		if err := c.Render(vdom.Button(vdom.Key("b"), "watched")); err != nil {
			return err
		}
		b, _ := c.Element("b")
		for range c.WaitEvents(c.DomEvent("click", b)).All() {
		}
		ended = true
		return nil
	})
	parent := Define("Parent", func(c *Context) error {
		err := c.Render(
			watcher.With(nil, vdom.Key("w")),
			vdom.Button(vdom.Key("kill"), vdom.ID("kill"), "kill"),
		)
		if err != nil {
			return err
		}
		kill, _ := c.Element("kill")
		s := c.WaitEvents(c.DomEvent("click", kill))
		if _, ok := s.Next(); !ok {
			return nil
		}
		return c.ReplaceChild("w", func() *vdom.VNode { return vdom.P("gone") })
	})
	h.Mount(nil, parent, nil)
	settle(t, h)
	if n := listenerCount(h); n != 2 {
		t.Fatalf("ListenerCount() = %d, want 2", n)
	}

	click(t, h, "kill")
	waitDone(t, child)

	if !ended {
		t.Error("watcher loop did not end")
	}
	if got := child.State(); got != StateCanceled {
		t.Errorf("watcher state = %s, want canceled", got)
	}
	if n := listenerCount(h); n != 0 {
		t.Errorf("ListenerCount() = %d, want 0", n)
	}
}

func TestWaitEventsAfterFinishIsClosed(t *testing.T) {
	h := newTestHost(t)
	var ctx *Context
	comp := Define("Short", func(c *Context) error {
		ctx = c
		return c.Render(vdom.Button(vdom.Key("b")))
	})
	in := h.Mount(nil, comp, nil)
	waitDone(t, in)

	var s *Stream
	h.Do(func(*dom.Document) {
		b := in.Region().ChildElements()[0]
		s = ctx.WaitEvents(ctx.DomEvent("click", b))
	})
	if !s.Closed() {
		t.Error("stream of a finished instance is open")
	}
	if n := listenerCount(h); n != 0 {
		t.Errorf("ListenerCount() = %d, want 0", n)
	}
}

func TestQueuePolicyString(t *testing.T) {
	tests := []struct {
		p    QueuePolicy
		want string
	}{
		{QueueAll, "all"},
		{QueueLatest, "latest"},
		{QueuePolicy(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestStreamWaitAfterClose(t *testing.T) {
	h := newTestHost(t)
	var err error
	comp := Define("Wait", func(c *Context) error {
		if err := c.Render(vdom.Button(vdom.Key("b"))); err != nil {
			return err
		}
		b, _ := c.Element("b")
		s := c.WaitEvents(c.DomEvent("click", b))
		s.Close()
		_, err = s.Wait()
		return nil
	})
	waitDone(t, h.Mount(nil, comp, nil))
	if !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Wait() = %v, want ErrStreamClosed", err)
	}
}
