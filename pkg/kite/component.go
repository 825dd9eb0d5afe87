package kite

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	kerrors "github.com/vango-dev/kite/internal/errors"
	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/vdom"
)

// Func is the body of a component. It receives its instance's context
// explicitly and may render, await, loop and render again. Returning ends
// the instance; its rendered output stays mounted until the parent removes it.
type Func func(c *Context) error

// Definition is a named component. Instances of the same Definition are
// compatible for in-place updates under a key.
type Definition struct {
	name string
	fn   Func
}

// Define creates a component definition.
func Define(name string, fn Func) *Definition {
	if fn == nil {
		panic("kite: Define called with nil Func")
	}
	return &Definition{name: name, fn: fn}
}

// ComponentName implements vdom.Component.
func (d *Definition) ComponentName() string { return d.name }

// With creates a descriptor mounting d with props. Pass vdom.Key to key it.
func (d *Definition) With(props any, attrs ...vdom.Attr) *vdom.VNode {
	return vdom.ComponentNode(d, props, attrs...)
}

// State is the execution state of an instance.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateSuspended
	StateCompleted
	StateCanceled
	StateFailed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Finished reports whether the state is terminal.
func (s State) Finished() bool {
	return s == StateCompleted || s == StateCanceled || s == StateFailed
}

// Instance is one running occurrence of a Definition, owning a region of the
// document. Its identity is the pair (definition, mount position).
type Instance struct {
	id     uint64
	host   *Host
	def    *Definition
	parent *Instance
	region *dom.Element
	mount  *mount
	ctx    *Context
	logger *slog.Logger

	// Guarded by the host loop.
	props     any
	unmounted bool
	finished  bool
	streams   map[*Stream]struct{}

	std    context.Context
	cancel context.CancelFunc
	span   trace.Span

	state atomic.Int32
	err   atomic.Pointer[error]
	done  chan struct{}
}

func (h *Host) newInstance(parent *Instance, def *Definition, props any) *Instance {
	id := h.nextID.Add(1)
	region := h.doc.CreateElement(h.regionTag)
	region.SetAttribute("data-component", def.name)

	in := &Instance{
		id:      id,
		host:    h,
		def:     def,
		parent:  parent,
		region:  region,
		props:   props,
		streams: make(map[*Stream]struct{}),
		done:    make(chan struct{}),
		logger:  h.logger.With("instance_id", id, "component_name", def.name),
	}
	in.mount = newMount(in)
	in.ctx = &Context{inst: in}
	in.std, in.span = h.startInstanceSpan(in)
	in.std, in.cancel = context.WithCancel(in.std)
	return in
}

// ID returns the host-unique instance ID.
func (in *Instance) ID() uint64 { return in.id }

// Name returns the component name.
func (in *Instance) Name() string { return in.def.name }

// Definition returns the instance's definition.
func (in *Instance) Definition() *Definition { return in.def }

// Parent returns the owning instance, nil for a root.
func (in *Instance) Parent() *Instance { return in.parent }

// Region returns the element the instance renders into.
func (in *Instance) Region() *dom.Element { return in.region }

// State returns the current execution state. Safe from any goroutine.
func (in *Instance) State() State { return State(in.state.Load()) }

// Err returns the error the body returned, once finished.
func (in *Instance) Err() error {
	if p := in.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Done is closed when the body has returned.
func (in *Instance) Done() <-chan struct{} { return in.done }

func (in *Instance) setState(s State) { in.state.Store(int32(s)) }

// start schedules the body. Called with the host loop held, so the body's
// turn is queued ahead of the caller's next one.
func (in *Instance) start() {
	in.host.sched.busy()
	in.host.metrics.RecordMount()
	in.logger.Debug("instance mounted")
	go in.run(in.host.sched.reserve())
}

func (in *Instance) run(turn <-chan struct{}) {
	s := in.host.sched
	<-turn
	if in.unmounted {
		// Removed before it ever ran.
		in.finish(nil)
		s.leaveQuiet()
		s.park()
		return
	}
	in.setState(StateRunning)
	err := in.invoke()
	in.finish(err)
	s.leave()
	s.park()
}

func (in *Instance) invoke() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = kerrors.New("K003").WithDetailf("%v", r).Wrap(ErrPanic)
			in.logger.Error("component panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	return in.def.fn(in.ctx)
}

// finish records the outcome. Called with the host loop held.
func (in *Instance) finish(err error) {
	in.finished = true
	if err != nil {
		in.err.Store(&err)
	}
	for s := range in.streams {
		s.Close()
	}

	state := StateCompleted
	switch {
	case in.unmounted:
		state = StateCanceled
	case err != nil:
		state = StateFailed
		in.logger.Error("component failed", "error", err)
	}
	in.setState(state)
	in.cancel()
	in.host.endInstanceSpan(in, state, err)
	in.host.metrics.RecordFinish(in.def.name, state.String())
	in.logger.Debug("instance finished", "state", state.String())
	close(in.done)
}

// unmount tears the instance and its region down. Called with the host loop
// held. A body still running observes ErrUnmounted at its next call.
func (in *Instance) unmount() {
	if in.unmounted {
		return
	}
	in.unmounted = true
	in.cancel()
	for s := range in.streams {
		s.Close()
	}
	in.mount.clear()
	in.host.metrics.RecordUnmount()
	in.logger.Debug("instance unmounted")
}
