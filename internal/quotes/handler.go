package quotes

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"
)

// DownMessage is the error reported while the handler is marked down.
const DownMessage = "network down"

// Handler answers quote requests from a Source.
type Handler struct {
	source    Source
	logger    *slog.Logger
	latency   time.Duration
	failEvery int64
	pick      func(n int) int

	down     atomic.Bool
	requests atomic.Int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLatency delays every response by d.
func WithLatency(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.latency = d
	}
}

// WithFailEvery fails every nth request with 503.
func WithFailEvery(n int) HandlerOption {
	return func(h *Handler) {
		h.failEvery = int64(n)
	}
}

// WithDown starts the handler marked down.
func WithDown(down bool) HandlerOption {
	return func(h *Handler) {
		h.down.Store(down)
	}
}

// WithPicker replaces the random index choice, for deterministic tests.
func WithPicker(pick func(n int) int) HandlerOption {
	return func(h *Handler) {
		if pick != nil {
			h.pick = pick
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a handler serving quotes from source.
func NewHandler(source Source, opts ...HandlerOption) *Handler {
	h := &Handler{
		source: source,
		logger: slog.Default().With("component", "quotes"),
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetDown marks the handler down or up.
func (h *Handler) SetDown(down bool) {
	h.down.Store(down)
}

// Random returns a random quote.
func (h *Handler) Random(ctx context.Context) (Quote, error) {
	quotes, err := h.source.Quotes(ctx)
	if err != nil {
		return Quote{}, err
	}
	if len(quotes) == 0 {
		return Quote{}, ErrEmpty
	}
	return quotes[h.pick(len(quotes))], nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := h.requests.Add(1)

	if h.latency > 0 {
		t := time.NewTimer(h.latency)
		select {
		case <-t.C:
		case <-r.Context().Done():
			t.Stop()
			return
		}
	}

	if h.down.Load() {
		writeError(w, http.StatusServiceUnavailable, DownMessage)
		return
	}
	if h.failEvery > 0 && n%h.failEvery == 0 {
		h.logger.Debug("injected failure", "request", n)
		writeError(w, http.StatusServiceUnavailable, "upstream unavailable")
		return
	}

	q, err := h.Random(r.Context())
	if err != nil {
		h.logger.Error("quote source failed", "source", h.source.Name(), "error", err)
		writeError(w, http.StatusBadGateway, "quote source unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(q)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
