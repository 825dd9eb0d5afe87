package kite

import (
	"context"
	"log/slog"
	"time"

	kerrors "github.com/vango-dev/kite/internal/errors"
	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/vdom"
)

// Context is the capability object handed to every component instance.
// It must only be used from the instance's own body.
type Context struct {
	inst *Instance
}

// check returns an error once the instance can no longer touch its region.
func (c *Context) check() error {
	if c.inst.unmounted || c.inst.finished {
		return unmounted(c.inst)
	}
	return nil
}

// Render synchronously replaces the content of the instance's region with
// nodes. Keys are validated first: a duplicate key fails the call before
// anything is mutated. Entries whose keys reappear with a compatible kind are
// updated in place; everything else is torn down and mounted fresh.
func (c *Context) Render(nodes ...*vdom.VNode) error {
	if err := c.check(); err != nil {
		return err
	}
	start := time.Now()
	err := c.inst.mount.render(nodes)
	c.inst.host.metrics.RecordRender(time.Since(start), err)
	if err == nil {
		c.inst.span.AddEvent("render")
	}
	return err
}

// ReplaceChild tears down the entry mounted under key and mounts build()
// in its place, under the same key. Siblings are left untouched. A key that
// is not mounted returns a *MissingKeyError without invoking build.
func (c *Context) ReplaceChild(key string, build func() *vdom.VNode) error {
	if err := c.check(); err != nil {
		return err
	}
	err := c.inst.mount.replace(key, build)
	c.inst.host.metrics.RecordReplace(err)
	if err == nil {
		c.inst.span.AddEvent("replace")
	}
	return err
}

// Element returns the element mounted under key.
func (c *Context) Element(key string) (*dom.Element, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	e, ok := c.inst.mount.keys[key]
	if !ok {
		return nil, missingKey(c.inst, key)
	}
	if e.el == nil {
		return nil, kerrors.New("K005").
			WithDetailf("key %q in %s holds a %s", key, c.inst.Name(), e.desc.Kind).
			Wrap(ErrNotElement)
	}
	return e.el, nil
}

// DomEvent creates an event source for events of type name on el.
func (c *Context) DomEvent(name string, el *dom.Element) Source {
	return Source{Name: name, Target: el}
}

// WaitEvents subscribes to every source and merges their events, in arrival
// order, into one stream. Events are queued without bound. The subscriptions
// are released when the stream is closed, when every target is unmounted, or
// when the instance finishes or is unmounted.
func (c *Context) WaitEvents(sources ...Source) *Stream {
	return c.inst.host.subscribe(c.inst, QueueAll, sources)
}

// WaitLatestEvents is WaitEvents keeping only the most recent undelivered
// event.
func (c *Context) WaitLatestEvents(sources ...Source) *Stream {
	return c.inst.host.subscribe(c.inst, QueueLatest, sources)
}

// Sleep suspends the instance for d. It returns early with an error if the
// instance is unmounted.
func (c *Context) Sleep(d time.Duration) error {
	_, err := Await(c, func(ctx context.Context) (struct{}, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	})
	return err
}

// Props returns the instance's current props. A parent render that keeps
// the instance under its key reassigns them.
func (c *Context) Props() any { return c.inst.props }

// Std returns a context canceled when the instance is unmounted or finishes.
func (c *Context) Std() context.Context { return c.inst.std }

// Logger returns the instance logger.
func (c *Context) Logger() *slog.Logger { return c.inst.logger }

// Document returns the host document.
func (c *Context) Document() *dom.Document { return c.inst.host.doc }

// Region returns the element the instance renders into.
func (c *Context) Region() *dom.Element { return c.inst.region }

// Instance returns the instance this context belongs to.
func (c *Context) Instance() *Instance { return c.inst }

// PropsAs returns the instance props as T.
func PropsAs[T any](c *Context) (T, bool) {
	v, ok := c.inst.props.(T)
	return v, ok
}
