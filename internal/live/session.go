package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/kite/pkg/kite"
)

// Message types.
const (
	TypeClick  = "click"
	TypeRender = "render"
	TypeError  = "error"
)

// ClientMessage is a frame sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`
}

// ServerMessage is a frame sent to the browser.
type ServerMessage struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// Session is one browser connection and the host it drives.
type Session struct {
	ID     uint64
	conn   *websocket.Conn
	host   *kite.Host
	config *Config
	logger *slog.Logger

	mu       sync.Mutex // guards writes to conn
	closed   atomic.Bool
	done     chan struct{}
	once     sync.Once
	lastHTML string
	sent     atomic.Uint64
}

func newSession(id uint64, conn *websocket.Conn, host *kite.Host, cfg *Config, logger *slog.Logger) *Session {
	return &Session{
		ID:     id,
		conn:   conn,
		host:   host,
		config: cfg,
		logger: logger.With("session_id", id),
		done:   make(chan struct{}),
	}
}

// Host returns the session's host.
func (s *Session) Host() *kite.Host { return s.host }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Renders returns the number of render frames sent.
func (s *Session) Renders() uint64 { return s.sent.Load() }

// Run mounts root and serves the connection until it closes.
func (s *Session) Run(root *kite.Definition, props any) {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	s.host.Mount(nil, root, props)
	go s.WriteLoop()
	go s.PushLoop()
	s.ReadLoop()
}

// ReadLoop reads client frames until the connection fails.
func (s *Session) ReadLoop() {
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var m ClientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			s.logger.Warn("message decode error", "error", err)
			s.sendError("invalid message")
			continue
		}
		s.handle(m)
	}
}

func (s *Session) handle(m ClientMessage) {
	switch m.Type {
	case TypeClick:
		if !s.host.DispatchID(m.ID, "click") {
			s.logger.Debug("click dropped", "element_id", m.ID)
		}
	default:
		s.logger.Warn("unknown message type", "type", m.Type)
		s.sendError("unknown message type " + m.Type)
	}
}

// PushLoop sends the document after every commit.
func (s *Session) PushLoop() {
	s.push()
	for {
		select {
		case <-s.host.Commits():
			if !s.push() {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// WriteLoop sends heartbeats until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// push sends the body HTML when it changed. It reports false when the
// connection is unusable.
func (s *Session) push() bool {
	html := s.host.HTML()
	if html == s.lastHTML {
		return true
	}
	if err := s.write(ServerMessage{Type: TypeRender, HTML: html}); err != nil {
		s.logger.Error("render send error", "error", err)
		return false
	}
	s.lastHTML = html
	s.sent.Add(1)
	return true
}

func (s *Session) sendError(msg string) {
	if err := s.write(ServerMessage{Type: TypeError, Error: msg}); err != nil {
		s.logger.Error("error send error", "error", err)
	}
}

func (s *Session) write(m ServerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteJSON(m)
}

func (s *Session) sendPing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return websocket.ErrCloseSent
	}
	deadline := time.Now().Add(s.config.WriteTimeout)
	return s.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Close ends the session, unmounting every component.
func (s *Session) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.conn.Close()
		s.mu.Unlock()

		close(s.done)
		s.host.Close()
	})
}
