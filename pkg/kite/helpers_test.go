package kite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/kite/pkg/dom"
)

func newTestHost(t *testing.T, opts ...Option) *Host {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	h := NewHost(opts...)
	t.Cleanup(h.Close)
	return h
}

func settle(t *testing.T, h *Host) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Settle(ctx); err != nil {
		t.Fatalf("Settle() = %v (busy %d)", err, h.Busy())
	}
}

func waitDone(t *testing.T, in *Instance) {
	t.Helper()
	select {
	case <-in.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not finish (state %s)", in.Name(), in.State())
	}
}

// byID finds the element carrying the id attribute.
func byID(t *testing.T, h *Host, id string) *dom.Element {
	t.Helper()
	var el *dom.Element
	h.View(func(doc *dom.Document) {
		el = doc.Body().Query(dom.ByAttr("id", id))
	})
	if el == nil {
		t.Fatalf("no element with id %q in %s", id, h.HTML())
	}
	return el
}

func textOf(t *testing.T, h *Host, id string) string {
	t.Helper()
	el := byID(t, h, id)
	var s string
	h.View(func(*dom.Document) { s = el.TextContent() })
	return s
}

func click(t *testing.T, h *Host, id string) {
	t.Helper()
	if !h.Dispatch(byID(t, h, id), dom.NewEvent("click")) {
		t.Fatalf("click on %q was dropped", id)
	}
	settle(t, h)
}
