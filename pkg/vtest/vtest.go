package vtest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/kite"
	"github.com/vango-dev/kite/pkg/vdom"
)

// DefaultTimeout bounds Settle and Wait.
const DefaultTimeout = 5 * time.Second

// Harness drives a kite host from a test.
type Harness struct {
	t       testing.TB
	host    *kite.Host
	timeout time.Duration
}

// Option configures a Harness.
type Option func(*harnessConfig)

type harnessConfig struct {
	timeout time.Duration
	logger  *slog.Logger
	host    []kite.Option
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *harnessConfig) {
		c.timeout = d
	}
}

// WithLogger sets the host logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *harnessConfig) {
		c.logger = logger
	}
}

// WithHostOptions passes options through to kite.NewHost.
func WithHostOptions(opts ...kite.Option) Option {
	return func(c *harnessConfig) {
		c.host = append(c.host, opts...)
	}
}

// New creates a harness. The host is closed when the test ends.
func New(t testing.TB, opts ...Option) *Harness {
	t.Helper()
	config := harnessConfig{
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&config)
	}
	host := kite.NewHost(append([]kite.Option{kite.WithLogger(config.logger)}, config.host...)...)
	t.Cleanup(host.Close)
	return &Harness{t: t, host: host, timeout: config.timeout}
}

// Host returns the underlying host.
func (h *Harness) Host() *kite.Host { return h.host }

// Mount mounts def into the document body. It does not settle.
func (h *Harness) Mount(def *kite.Definition, props any) *kite.Instance {
	return h.host.Mount(nil, def, props)
}

// Settle waits until every instance is parked or finished.
func (h *Harness) Settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.host.Settle(ctx); err != nil {
		h.t.Fatalf("host did not settle (%d busy): %v\n%s", h.host.Busy(), err, truncate(h.host.HTML(), 500))
	}
}

// Wait polls the document until cond holds. Use it when an instance is
// blocked on something the test has not released yet.
func (h *Harness) Wait(cond func(doc *dom.Document) bool) {
	h.t.Helper()
	deadline := time.Now().Add(h.timeout)
	for {
		var ok bool
		h.host.View(func(doc *dom.Document) { ok = cond(doc) })
		if ok {
			return
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("condition not met within %s:\n%s", h.timeout, truncate(h.host.HTML(), 500))
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitDone waits for in to finish.
func (h *Harness) WaitDone(in *kite.Instance) {
	h.t.Helper()
	select {
	case <-in.Done():
	case <-time.After(h.timeout):
		h.t.Fatalf("%s did not finish (state %s)", in.Name(), in.State())
	}
}

// Find returns the first element matching match, or nil.
func (h *Harness) Find(match func(*dom.Element) bool) *dom.Element {
	var el *dom.Element
	h.host.View(func(doc *dom.Document) { el = doc.Body().Query(match) })
	return el
}

// MustFind is Find failing the test when nothing matches.
func (h *Harness) MustFind(match func(*dom.Element) bool) *dom.Element {
	h.t.Helper()
	el := h.Find(match)
	if el == nil {
		h.t.Fatalf("no matching element in:\n%s", truncate(h.host.HTML(), 500))
	}
	return el
}

// FindAll returns every element matching match.
func (h *Harness) FindAll(match func(*dom.Element) bool) []*dom.Element {
	var out []*dom.Element
	h.host.View(func(doc *dom.Document) { out = doc.Body().QueryAll(match) })
	return out
}

// Click dispatches a click to el and settles. It reports whether the click
// was dispatched; clicks on disabled controls are dropped.
func (h *Harness) Click(el *dom.Element) bool {
	h.t.Helper()
	if el == nil {
		h.t.Fatal("Click on a nil element")
	}
	ok := h.host.Dispatch(el, dom.NewEvent("click"))
	h.Settle()
	return ok
}

// ClickNoSettle dispatches a click without settling.
func (h *Harness) ClickNoSettle(el *dom.Element) bool {
	h.t.Helper()
	if el == nil {
		h.t.Fatal("Click on a nil element")
	}
	return h.host.Dispatch(el, dom.NewEvent("click"))
}

// Text returns the text content of the document.
func (h *Harness) Text() string {
	var s string
	h.host.View(func(doc *dom.Document) { s = doc.Body().TextContent() })
	return s
}

// TextOf returns the text content of el.
func (h *Harness) TextOf(el *dom.Element) string {
	var s string
	h.host.View(func(*dom.Document) { s = el.TextContent() })
	return s
}

// Disabled reads the disabled property of el.
func (h *Harness) Disabled(el *dom.Element) bool {
	var d bool
	h.host.View(func(*dom.Document) { d = el.Disabled() })
	return d
}

// HTML returns the serialized document.
func (h *Harness) HTML() string { return h.host.HTML() }

// ListenerCount returns the number of native listeners in the document.
func (h *Harness) ListenerCount() int {
	var n int
	h.host.View(func(doc *dom.Document) { n = doc.ListenerCount() })
	return n
}

// ExpectText asserts that the document text contains expected.
func (h *Harness) ExpectText(expected string) {
	h.t.Helper()
	if text := h.Text(); !strings.Contains(text, expected) {
		h.t.Errorf("expected document text to contain %q, got %q", expected, truncate(text, 500))
	}
}

// ExpectNoText asserts that the document text does not contain unexpected.
func (h *Harness) ExpectNoText(unexpected string) {
	h.t.Helper()
	if text := h.Text(); strings.Contains(text, unexpected) {
		h.t.Errorf("expected document text to NOT contain %q, got %q", unexpected, truncate(text, 500))
	}
}

// RenderToString mounts node in a throwaway host and returns the HTML of
// what it renders.
//
// Example:
//
//	html := vtest.RenderToString(vdom.P("hi"))
func RenderToString(node *vdom.VNode) string {
	host := kite.NewHost(kite.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer host.Close()

	static := kite.Define("Static", func(c *kite.Context) error {
		return c.Render(node)
	})
	in := host.Mount(nil, static, nil)
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	if err := host.Settle(ctx); err != nil || in.Err() != nil {
		return ""
	}
	var html string
	host.View(func(*dom.Document) { html = in.Region().InnerHTML() })
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, vdom.P("Welcome"), "Welcome")
func ExpectContains(t *testing.T, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t *testing.T, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t *testing.T, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
// An empty value matches a boolean attribute.
func ExpectAttribute(t *testing.T, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := " " + attr + `="` + value + `"`
	if value == "" {
		needle = " " + attr
	}
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
