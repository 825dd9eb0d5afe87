package kite

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/metrics"
)

// DefaultRegionTag is the tag of the element each component instance
// renders into.
const DefaultRegionTag = "kite-region"

// Host owns a document and runs the component instances mounted into it.
type Host struct {
	doc       *dom.Document
	sched     *scheduler
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer
	regionTag string

	base   context.Context
	cancel context.CancelFunc
	nextID atomic.Uint64

	// Guarded by the host loop.
	roots   []*Instance
	targets map[*dom.Element][]*subscription
	closed  bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics records runtime metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Host) {
		h.metrics = c
	}
}

// WithTracerName resolves the tracer from the global OpenTelemetry provider
// under name.
func WithTracerName(name string) Option {
	return func(h *Host) {
		h.tracer = otel.Tracer(name)
	}
}

// WithTracer sets the tracer directly.
func WithTracer(t trace.Tracer) Option {
	return func(h *Host) {
		if t != nil {
			h.tracer = t
		}
	}
}

// WithDocument mounts into an existing document.
func WithDocument(doc *dom.Document) Option {
	return func(h *Host) {
		if doc != nil {
			h.doc = doc
		}
	}
}

// WithRegionTag overrides DefaultRegionTag.
func WithRegionTag(tag string) Option {
	return func(h *Host) {
		if tag != "" {
			h.regionTag = tag
		}
	}
}

// NewHost creates a host with an empty document.
func NewHost(opts ...Option) *Host {
	h := &Host{
		doc:       dom.NewDocument(),
		sched:     newScheduler(),
		logger:    slog.Default().With("component", "kite"),
		tracer:    otel.Tracer(defaultTracerName),
		regionTag: DefaultRegionTag,
		targets:   make(map[*dom.Element][]*subscription),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.base, h.cancel = context.WithCancel(context.Background())
	return h
}

// Document returns the host document. Access it through Do or View.
func (h *Host) Document() *dom.Document { return h.doc }

// Logger returns the host logger.
func (h *Host) Logger() *slog.Logger { return h.logger }

// SetLogger replaces the logger used for instances mounted from now on.
func (h *Host) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	h.sched.enter()
	defer h.sched.leaveQuiet()
	h.logger = logger
}

// Mount creates a root instance of def rendering into target (the document
// body when nil) and starts it. It must not be called from a component body.
func (h *Host) Mount(target *dom.Element, def *Definition, props any) *Instance {
	h.sched.enter()
	defer h.sched.leave()

	if target == nil {
		target = h.doc.Body()
	}
	in := h.newInstance(nil, def, props)
	target.AppendChild(in.region)
	h.roots = append(h.roots, in)
	if h.closed {
		in.unmount()
	}
	in.start()
	return in
}

// Unmount tears a root instance down and removes its region.
func (h *Host) Unmount(in *Instance) {
	h.sched.enter()
	defer h.sched.leave()

	for i, r := range h.roots {
		if r == in {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			break
		}
	}
	in.unmount()
	in.region.Remove()
}

// Roots returns the mounted root instances.
func (h *Host) Roots() []*Instance {
	h.sched.enter()
	defer h.sched.leaveQuiet()
	return append([]*Instance(nil), h.roots...)
}

// Do runs fn holding the host loop and signals a commit afterwards.
func (h *Host) Do(fn func(doc *dom.Document)) {
	h.sched.enter()
	defer h.sched.leave()
	fn(h.doc)
}

// View runs fn holding the host loop, for read-only access.
func (h *Host) View(fn func(doc *dom.Document)) {
	h.sched.enter()
	defer h.sched.leaveQuiet()
	fn(h.doc)
}

// HTML serializes the document body's content.
func (h *Host) HTML() string {
	var out string
	h.View(func(doc *dom.Document) { out = doc.Body().InnerHTML() })
	return out
}

// Dispatch delivers a native event to el. It reports false when the event
// was dropped (e.g. a click on a disabled button).
func (h *Host) Dispatch(el *dom.Element, ev *dom.Event) bool {
	h.sched.enter()
	defer h.sched.leave()
	return h.doc.Dispatch(el, ev)
}

// DispatchID delivers an event of type typ to the connected element with
// the given ID. It reports false when no such element exists or the event
// was dropped.
func (h *Host) DispatchID(id uint64, typ string) bool {
	h.sched.enter()
	defer h.sched.leave()
	el := h.doc.ElementByID(id)
	if el == nil {
		return false
	}
	return h.doc.Dispatch(el, dom.NewEvent(typ))
}

// Settle blocks until every instance is parked on an event stream or
// finished, or ctx is done. Instances inside Await or Sleep count as busy.
func (h *Host) Settle(ctx context.Context) error {
	return h.sched.settle(ctx)
}

// Busy returns the number of instances that are running, runnable or
// awaiting.
func (h *Host) Busy() int {
	return h.sched.busyCount()
}

// Commits receives a value after the document may have changed. Signals
// coalesce; the channel is shared by all readers.
func (h *Host) Commits() <-chan struct{} {
	return h.sched.commits
}

// Close unmounts every root instance. Instances blocked in Await see their
// context canceled.
func (h *Host) Close() {
	h.sched.enter()
	defer h.sched.leave()

	h.closed = true
	for _, r := range h.roots {
		r.unmount()
	}
	h.roots = nil
	h.cancel()
}

// releaseTarget releases every subscription on el, which is leaving the
// document. Called with the host loop held.
func (h *Host) releaseTarget(el *dom.Element) {
	subs := h.targets[el]
	if len(subs) == 0 {
		return
	}
	delete(h.targets, el)
	for _, sub := range subs {
		if sub.release() {
			h.metrics.RecordUnsubscribe(1)
			sub.stream.sourceGone()
		}
	}
}

// dropTarget forgets a released subscription.
func (h *Host) dropTarget(sub *subscription) {
	el := sub.source.Target
	list := h.targets[el]
	for i, s := range list {
		if s == sub {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.targets, el)
		return
	}
	h.targets[el] = list
}
