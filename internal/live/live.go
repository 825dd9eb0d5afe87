package live

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/kite/pkg/kite"
)

// Config holds the WebSocket session settings.
type Config struct {
	// ReadTimeout is how long a session waits for any client frame,
	// pongs included. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write. Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the heartbeat period. It must be shorter than
	// ReadTimeout. Default: 25 seconds.
	PingInterval time.Duration

	// MaxMessageSize is the largest client frame accepted. Default: 4KB.
	MaxMessageSize int64

	ReadBufferSize  int
	WriteBufferSize int

	// AllowedOrigins lists origins accepted besides the request host.
	// "*" accepts any origin.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    25 * time.Second,
		MaxMessageSize:  4 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
}

func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval <= 0 || out.PingInterval >= out.ReadTimeout {
		out.PingInterval = out.ReadTimeout * 5 / 12
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.ReadBufferSize <= 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize <= 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	return &out
}

// CheckOrigin returns an origin check that accepts requests without an
// Origin header, same-origin requests, and the listed origins.
func CheckOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if r.Host != "" && u.Host == r.Host {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// Handler upgrades requests and runs one live session per connection.
type Handler struct {
	root      *kite.Definition
	props     any
	config    *Config
	hostOpts  []kite.Option
	upgrader  websocket.Upgrader
	logger    *slog.Logger
	active    atomic.Int64
	nextID    atomic.Uint64
	onSession func(*Session)

	mu       sync.Mutex
	sessions map[uint64]*Session
}

// Option configures a Handler.
type Option func(*Handler)

// WithProps sets the props the root component is mounted with.
func WithProps(props any) Option {
	return func(h *Handler) { h.props = props }
}

// WithHostOptions are applied to every session's host.
func WithHostOptions(opts ...kite.Option) Option {
	return func(h *Handler) { h.hostOpts = append(h.hostOpts, opts...) }
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSessionHook is called with every session before its loops start.
func WithSessionHook(fn func(*Session)) Option {
	return func(h *Handler) { h.onSession = fn }
}

// NewHandler creates a handler mounting root for every connection.
func NewHandler(root *kite.Definition, cfg *Config, opts ...Option) *Handler {
	cfg = cfg.withDefaults()
	h := &Handler{
		root:     root,
		config:   cfg,
		sessions: make(map[uint64]*Session),
		logger:   slog.Default().With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     CheckOrigin(cfg.AllowedOrigins),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Active returns the number of open sessions.
func (h *Handler) Active() int { return int(h.active.Load()) }

// CloseAll ends every open session.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	open := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}

func (h *Handler) track(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	h.active.Add(1)
}

func (h *Handler) untrack(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	h.active.Add(-1)
}

// Config returns the effective session configuration.
func (h *Handler) Config() *Config { return h.config }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		h.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	id := h.nextID.Add(1)
	opts := append([]kite.Option{
		kite.WithLogger(h.logger.With("session_id", id)),
	}, h.hostOpts...)
	s := newSession(id, conn, kite.NewHost(opts...), h.config, h.logger)
	if h.onSession != nil {
		h.onSession(s)
	}

	h.track(s)
	defer h.untrack(s)

	s.logger.Info("session started", "remote", r.RemoteAddr)
	s.Run(h.root, h.props)
	s.logger.Info("session ended")
}
