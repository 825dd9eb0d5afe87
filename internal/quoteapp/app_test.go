package quoteapp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/kite/internal/quotes"
	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/kite"
	"github.com/vango-dev/kite/pkg/vtest"
)

type result struct {
	q   quotes.Quote
	err error
}

// gatedFetcher blocks every fetch until the test hands it a result.
type gatedFetcher struct {
	results chan result

	mu          sync.Mutex
	calls       int
	inflight    int
	maxInflight int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{results: make(chan result)}
}

func (f *gatedFetcher) Fetch(ctx context.Context) (quotes.Quote, error) {
	f.mu.Lock()
	f.calls++
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	select {
	case r := <-f.results:
		return r.q, r.err
	case <-ctx.Done():
		return quotes.Quote{}, ctx.Err()
	}
}

func (f *gatedFetcher) stats() (calls, maxInflight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.maxInflight
}

func fixed(q quotes.Quote, err error) Fetcher {
	return FetcherFunc(func(context.Context) (quotes.Quote, error) { return q, err })
}

func byClass(a *App, name string) func(*dom.Element) bool {
	return dom.ByClass(a.Styles().Class(name))
}

func TestRandomQuoteSuccess(t *testing.T) {
	app := New(fixed(quotes.Quote{Content: "A", Author: "B"}, nil))
	h := vtest.New(t)
	h.Mount(app.RandomQuote, nil)
	h.Settle()

	contents := h.FindAll(byClass(app, "content"))
	authors := h.FindAll(byClass(app, "author"))
	if len(contents) != 1 || len(authors) != 1 {
		t.Fatalf("content nodes = %d, author nodes = %d, want 1 and 1", len(contents), len(authors))
	}
	if got := h.TextOf(contents[0]); got != "A" {
		t.Errorf("content = %q, want A", got)
	}
	if got := h.TextOf(authors[0]); got != "B" {
		t.Errorf("author = %q, want B", got)
	}
	if text := h.Text(); strings.Index(text, "A") > strings.Index(text, "B") {
		t.Errorf("text %q: content must come before author", text)
	}
	if h.Find(byClass(app, "loading")) != nil {
		t.Error("loading node still mounted")
	}
	if h.Find(byClass(app, "error")) != nil {
		t.Error("error node mounted after success")
	}
}

func TestRandomQuoteFailure(t *testing.T) {
	app := New(fixed(quotes.Quote{}, errors.New("network down")))
	h := vtest.New(t)
	in := h.Mount(app.RandomQuote, nil)
	h.Settle()

	errNode := h.Find(byClass(app, "error"))
	if errNode == nil {
		t.Fatalf("no error node in %s", h.HTML())
	}
	if got := h.TextOf(errNode); got != "network down" {
		t.Errorf("error text = %q, want %q", got, "network down")
	}
	if h.Find(byClass(app, "quote")) != nil {
		t.Error("quote node mounted after failure")
	}
	if h.Find(byClass(app, "loading")) != nil {
		t.Error("loading node still mounted")
	}
	if in.State() != kite.StateCompleted {
		t.Errorf("state = %s, want completed (the failure is handled locally)", in.State())
	}
}

func TestRandomQuoteShowsLoadingWhileFetching(t *testing.T) {
	f := newGatedFetcher()
	app := New(f)
	h := vtest.New(t)
	h.Mount(app.RandomQuote, nil)

	loading := byClass(app, "loading")
	h.Wait(func(doc *dom.Document) bool { return doc.Body().Query(loading) != nil })

	f.results <- result{q: quotes.Quote{Content: "late", Author: "x"}}
	h.Settle()
	h.ExpectText("late")
	if h.Find(loading) != nil {
		t.Error("loading node still mounted")
	}
}

func TestRandomQuoteUnmountCancelsFetch(t *testing.T) {
	f := newGatedFetcher()
	app := New(f)
	h := vtest.New(t)
	in := h.Mount(app.RandomQuote, nil)
	h.Wait(func(doc *dom.Document) bool { return doc.Body().Query(byClass(app, "loading")) != nil })

	h.Host().Unmount(in)
	h.WaitDone(in)
	if in.State() != kite.StateCanceled {
		t.Errorf("state = %s, want canceled", in.State())
	}
	if in.Err() != nil {
		t.Errorf("Err() = %v, want nil", in.Err())
	}
}

func TestRandomQuoteTimeout(t *testing.T) {
	f := newGatedFetcher()
	app := New(f, WithTimeout(10*time.Millisecond))
	h := vtest.New(t)
	h.Mount(app.RandomQuote, nil)
	h.Settle()

	if h.Find(byClass(app, "error")) == nil {
		t.Errorf("no error node after timeout: %s", h.HTML())
	}
	h.ExpectText("deadline exceeded")
}

// refreshable mounts RefreshableQuote and answers its first fetch.
func refreshable(t *testing.T, opts ...Option) (*vtest.Harness, *App, *gatedFetcher, *kite.Instance) {
	t.Helper()
	f := newGatedFetcher()
	app := New(f, opts...)
	h := vtest.New(t)
	in := h.Mount(app.RefreshableQuote, nil)
	f.results <- result{q: quotes.Quote{Content: "first", Author: "one"}}
	h.Settle()
	h.ExpectText("first")
	return h, app, f, in
}

func TestRefreshDisablesButtonDuringFetch(t *testing.T) {
	h, app, f, _ := refreshable(t)
	btn := h.MustFind(byClass(app, "button"))
	if h.Disabled(btn) {
		t.Fatal("button disabled after the first fetch")
	}

	for i, q := range []string{"second", "third"} {
		if !h.ClickNoSettle(btn) {
			t.Fatalf("click %d dropped on an enabled button", i)
		}
		h.Wait(func(doc *dom.Document) bool {
			return btn.Disabled() && doc.Body().Query(byClass(app, "loading")) != nil
		})
		// Clicks during the fetch never reach the component.
		if h.ClickNoSettle(btn) {
			t.Error("click on the disabled button was dispatched")
		}
		f.results <- result{q: quotes.Quote{Content: q, Author: "x"}}
		h.Settle()
		h.ExpectText(q)
		if h.Disabled(btn) {
			t.Errorf("button still disabled after fetch %q", q)
		}
	}

	calls, maxInflight := f.stats()
	if calls != 3 {
		t.Errorf("fetches = %d, want 3", calls)
	}
	if maxInflight != 1 {
		t.Errorf("max concurrent fetches = %d, want 1", maxInflight)
	}
}

func TestRefreshDropsClicksQueuedDuringFetch(t *testing.T) {
	h, app, f, _ := refreshable(t)
	btn := h.MustFind(byClass(app, "button"))

	// Two clicks in one turn of the loop: both reach the queue before the
	// component can disable the button.
	h.Host().Do(func(doc *dom.Document) {
		doc.Dispatch(btn, dom.NewEvent("click"))
		doc.Dispatch(btn, dom.NewEvent("click"))
	})
	h.Wait(func(*dom.Document) bool { return btn.Disabled() })
	f.results <- result{q: quotes.Quote{Content: "second", Author: "two"}}
	h.Settle()

	h.ExpectText("second")
	if h.Disabled(btn) {
		t.Error("button disabled: the queued click started another fetch")
	}
	if calls, _ := f.stats(); calls != 2 {
		t.Errorf("fetches = %d, want 2", calls)
	}
}

func TestRefreshStopOnError(t *testing.T) {
	h, app, f, in := refreshable(t)
	btn := h.MustFind(byClass(app, "button"))

	h.ClickNoSettle(btn)
	h.Wait(func(*dom.Document) bool { return btn.Disabled() })
	f.results <- result{err: errors.New("network down")}
	h.WaitDone(in)
	h.Settle()

	errNode := h.Find(byClass(app, "error"))
	if errNode == nil || h.TextOf(errNode) != "network down" {
		t.Fatalf("error node missing or wrong: %s", h.HTML())
	}
	if h.Find(byClass(app, "quote")) != nil {
		t.Error("quote node still mounted")
	}
	if !h.Disabled(btn) {
		t.Error("refresh button re-enabled under StopOnError")
	}
	if in.State() != kite.StateCompleted {
		t.Errorf("state = %s, want completed", in.State())
	}
	if n := h.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount() = %d after the loop ended, want 0", n)
	}
}

func TestRefreshRetryOnError(t *testing.T) {
	h, app, f, in := refreshable(t, WithFailurePolicy(RetryOnError))
	btn := h.MustFind(byClass(app, "button"))

	h.ClickNoSettle(btn)
	h.Wait(func(*dom.Document) bool { return btn.Disabled() })
	f.results <- result{err: errors.New("network down")}
	h.Settle()

	h.ExpectText("network down")
	if h.Disabled(btn) {
		t.Fatal("refresh button disabled under RetryOnError")
	}

	h.ClickNoSettle(btn)
	h.Wait(func(*dom.Document) bool { return btn.Disabled() })
	f.results <- result{q: quotes.Quote{Content: "back", Author: "again"}}
	h.Settle()

	h.ExpectText("back")
	h.ExpectNoText("network down")
	if in.State().Finished() {
		t.Errorf("state = %s, want the loop still running", in.State())
	}
}

func TestRefreshFirstFetchFails(t *testing.T) {
	app := New(fixed(quotes.Quote{}, errors.New("network down")))
	h := vtest.New(t)
	in := h.Mount(app.RefreshableQuote, nil)
	h.Settle()

	h.ExpectText("network down")
	if !h.Disabled(h.MustFind(byClass(app, "button"))) {
		t.Error("refresh button enabled after a failed first fetch")
	}
	if in.State() != kite.StateCompleted {
		t.Errorf("state = %s, want completed", in.State())
	}
}

func TestPage(t *testing.T) {
	app := New(fixed(quotes.Quote{Content: "A", Author: "B"}, nil))
	h := vtest.New(t)
	h.Mount(app.Page, nil)
	h.Settle()

	if got := len(h.FindAll(byClass(app, "quote"))); got != 2 {
		t.Errorf("quote nodes = %d, want 2", got)
	}
	if h.Find(dom.ByAttr("data-component", "RefreshableQuote")) == nil {
		t.Error("RefreshableQuote region missing")
	}
}

func TestFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{"stop", StopOnError, false},
		{"", StopOnError, false},
		{"retry", RetryOnError, false},
		{"ignore", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFailurePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFailurePolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
	if StopOnError.String() != "stop" || RetryOnError.String() != "retry" {
		t.Error("String() does not round-trip")
	}
	if New(nil).Policy() != StopOnError {
		t.Error("default policy is not StopOnError")
	}
}
