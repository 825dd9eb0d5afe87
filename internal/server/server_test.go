package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/kite/internal/config"
	"github.com/vango-dev/kite/internal/live"
	"github.com/vango-dev/kite/internal/quoteapp"
	"github.com/vango-dev/kite/internal/quotes"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	st, err := Assemble(cfg, discard())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	s := New(st)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Live().CloseAll()
		srv.Close()
	})
	return s, srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRoutes(t *testing.T) {
	_, srv := newTestServer(t, nil)

	tests := []struct {
		path string
		code int
		want string
	}{
		{"/", http.StatusOK, `<div id="kite-root">`},
		{"/healthz", http.StatusOK, "ok"},
		{"/api/quote", http.StatusOK, `"author"`},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, srv.URL+tt.path)
			if code != tt.code {
				t.Fatalf("status = %d, want %d", code, tt.code)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body %q does not contain %q", body, tt.want)
			}
		})
	}
}

func TestQuoteRoute(t *testing.T) {
	_, srv := newTestServer(t, nil)

	_, body := get(t, srv.URL+"/api/quote")
	var q quotes.Quote
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	found := false
	for _, d := range quotes.DefaultQuotes {
		if d == q {
			found = true
		}
	}
	if !found {
		t.Errorf("quote %+v is not one of the default quotes", q)
	}

	resp, err := http.Post(srv.URL+"/api/quote", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}

func TestMetricsRoute(t *testing.T) {
	_, srv := newTestServer(t, nil)

	get(t, srv.URL+"/healthz")
	code, body := get(t, srv.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		`kite_http_requests_total{code="200",route="/healthz"} 1`,
		"kite_live_sessions 0",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	_, srv := newTestServer(t, func(c *config.Config) {
		c.Telemetry.DisableMetrics = true
	})
	if code, _ := get(t, srv.URL+"/metrics"); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestLivePageShowsQuotes(t *testing.T) {
	s, srv := newTestServer(t, func(c *config.Config) {
		c.Quotes.Source = config.SourceFile
		c.Quotes.File = writeQuotes(t, `[{"content":"Stay hungry","author":"Jobs"}]`)
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/live", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var m live.ServerMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		// Both quote components resolved and the refresh button is live.
		if m.Type == live.TypeRender &&
			strings.Count(m.HTML, "Stay hungry") == 2 &&
			!strings.Contains(m.HTML, "Loading") &&
			strings.Contains(m.HTML, "data-kid=") {
			break
		}
	}
	if got := s.Live().Active(); got != 1 {
		t.Errorf("Active() = %d, want 1", got)
	}
}

func TestAssemble(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		st, err := Assemble(nil, discard())
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		if st.Source.Name() != "memory" {
			t.Errorf("source = %q, want memory", st.Source.Name())
		}
		c, ok := st.Fetcher.(*quoteapp.Client)
		if !ok || c.Endpoint() != quoteapp.LocalEndpoint {
			t.Errorf("fetcher = %#v, want local client", st.Fetcher)
		}
		if st.App.Policy() != quoteapp.StopOnError {
			t.Errorf("policy = %v", st.App.Policy())
		}
		if st.Registry == nil || st.Metrics == nil {
			t.Error("metrics not set up")
		}
	})

	t.Run("remote endpoint and retry", func(t *testing.T) {
		cfg := config.New()
		cfg.App.Endpoint = "http://quotes.example/api"
		cfg.App.Refresh = config.RefreshRetry
		st, err := Assemble(cfg, discard())
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		if got := st.Fetcher.(*quoteapp.Client).Endpoint(); got != cfg.App.Endpoint {
			t.Errorf("endpoint = %q", got)
		}
		if st.App.Policy() != quoteapp.RetryOnError {
			t.Errorf("policy = %v", st.App.Policy())
		}
	})

	t.Run("s3 source", func(t *testing.T) {
		cfg := config.New()
		cfg.Quotes.Source = config.SourceS3
		cfg.Quotes.S3.Bucket = "b"
		cfg.Quotes.S3.Key = "quotes.json"
		st, err := Assemble(cfg, discard())
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		if st.Source.Name() != "s3://b/quotes.json" {
			t.Errorf("source = %q", st.Source.Name())
		}
	})

	t.Run("styles manifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.json")
		if err := os.WriteFile(path, []byte(`{"quote":"q-x"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := config.New()
		cfg.App.Styles = path
		st, err := Assemble(cfg, discard())
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		if got := st.App.Styles().Class("quote"); got != "q-x" {
			t.Errorf("Class(quote) = %q", got)
		}
	})

	errTests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown source", func(c *config.Config) { c.Quotes.Source = "ftp" }},
		{"missing styles", func(c *config.Config) { c.App.Styles = filepath.Join(t.TempDir(), "none.json") }},
		{"bad refresh policy", func(c *config.Config) { c.App.Refresh = "sometimes" }},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			if _, err := Assemble(cfg, discard()); err == nil {
				t.Error("Assemble succeeded, want error")
			}
		})
	}
}

func TestServeAndShutdown(t *testing.T) {
	st, err := Assemble(nil, discard())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	s := New(st)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var code int
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			code = resp.StatusCode
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if code != http.StatusOK {
		t.Fatalf("healthz status = %d", code)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func writeQuotes(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
