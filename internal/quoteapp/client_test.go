package quoteapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/kite/internal/quotes"
	"github.com/vango-dev/kite/pkg/vtest"
)

func quoteServer(t *testing.T, opts ...quotes.HandlerOption) (*httptest.Server, *quotes.Handler) {
	t.Helper()
	src := quotes.NewMemorySource(quotes.Quote{Content: "A", Author: "B"})
	h := quotes.NewHandler(src, opts...)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, h
}

func TestClientFetch(t *testing.T) {
	srv, _ := quoteServer(t)
	q, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() = %v", err)
	}
	if q.Content != "A" || q.Author != "B" {
		t.Errorf("Fetch() = %+v", q)
	}
}

func TestClientFetchErrors(t *testing.T) {
	t.Run("api error message is verbatim", func(t *testing.T) {
		srv, _ := quoteServer(t, quotes.WithDown(true))
		_, err := NewClient(srv.URL).Fetch(context.Background())
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Fetch() = %v, want *StatusError", err)
		}
		if se.Error() != "network down" || se.Code != http.StatusServiceUnavailable {
			t.Errorf("StatusError = %d %q", se.Code, se.Message)
		}
	})

	t.Run("status without body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		defer srv.Close()
		_, err := NewClient(srv.URL).Fetch(context.Background())
		if err == nil || err.Error() != "quote api: 418 I'm a teapot" {
			t.Errorf("Fetch() = %v", err)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}))
		defer srv.Close()
		if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
			t.Error("Fetch() decoded HTML")
		}
	})

	t.Run("canceled", func(t *testing.T) {
		srv, _ := quoteServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewClient(srv.URL).Fetch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Fetch() = %v, want context.Canceled", err)
		}
	})
}

func TestRandomQuoteOverHTTP(t *testing.T) {
	srv, api := quoteServer(t)
	app := New(NewClient(srv.URL))

	h := vtest.New(t)
	h.Mount(app.RandomQuote, nil)
	h.Settle()
	h.ExpectText("A")
	h.ExpectText("B")

	api.SetDown(true)
	h2 := vtest.New(t)
	h2.Mount(app.RandomQuote, nil)
	h2.Settle()
	h2.ExpectText("network down")
}

func TestLoadStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	if err := os.WriteFile(path, []byte(`{"error": "err_x1"}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadStyles(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Class("error") != "err_x1" {
		t.Errorf("Class(error) = %q", s.Class("error"))
	}
	if s.Class("quote") != "quote" {
		t.Errorf("Class(quote) = %q, want default", s.Class("quote"))
	}
	if s.Class("unmapped") != "unmapped" {
		t.Error("unmapped names must pass through")
	}

	if _, err := LoadStyles(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadStyles(missing) succeeded")
	}
}

func TestLocalClient(t *testing.T) {
	src := quotes.NewMemorySource(quotes.Quote{Content: "A", Author: "B"})

	tests := []struct {
		name    string
		opts    []quotes.HandlerOption
		want    quotes.Quote
		wantErr string
		code    int
	}{
		{name: "ok", want: quotes.Quote{Content: "A", Author: "B"}},
		{name: "down", opts: []quotes.HandlerOption{quotes.WithDown(true)}, wantErr: quotes.DownMessage, code: http.StatusServiceUnavailable},
		{name: "injected failure", opts: []quotes.HandlerOption{quotes.WithFailEvery(1)}, wantErr: "upstream unavailable", code: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLocalClient(quotes.NewHandler(src, tt.opts...))
			if c.Endpoint() != LocalEndpoint {
				t.Errorf("Endpoint() = %q", c.Endpoint())
			}
			q, err := c.Fetch(context.Background())
			if tt.wantErr == "" {
				if err != nil || q != tt.want {
					t.Fatalf("Fetch() = %+v, %v; want %+v", q, err, tt.want)
				}
				return
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("Fetch() error = %v, want *StatusError", err)
			}
			if se.Message != tt.wantErr || se.Code != tt.code {
				t.Errorf("error = %d %q, want %d %q", se.Code, se.Message, tt.code, tt.wantErr)
			}
		})
	}
}

func TestLocalClientCanceled(t *testing.T) {
	h := quotes.NewHandler(quotes.NewMemorySource(), quotes.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalClient(h).Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
