package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/kite/internal/live"
)

// Server serves the quote app over HTTP.
type Server struct {
	stack      *Stack
	router     chi.Router
	live       *live.Handler
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server for st.
func New(st *Stack) *Server {
	cfg := st.Config
	logger := st.Logger.With("component", "server")

	s := &Server{
		stack:  st,
		logger: logger,
		live: live.NewHandler(st.App.Page,
			&live.Config{AllowedOrigins: cfg.Server.AllowedOrigins},
			live.WithLogger(st.Logger.With("component", "live")),
			live.WithHostOptions(st.HostOptions()...),
		),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(Tracing(otel.Tracer(cfg.Telemetry.TracerName)))
	if st.Registry != nil {
		r.Use(newHTTPMetrics(st.Registry, cfg.Telemetry.Namespace).Metrics)
		promauto.With(st.Registry).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: cfg.Telemetry.Namespace,
			Name:      "live_sessions",
			Help:      "Number of open live sessions",
		}, func() float64 { return float64(s.live.Active()) })
	}

	r.Get("/", s.handlePage)
	r.Get("/live", s.live.ServeHTTP)
	r.Method(http.MethodGet, "/api/quote", st.Quotes)
	r.Get("/healthz", handleHealth)
	if st.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(st.Registry, promhttp.HandlerOpts{}))
	}
	s.router = r
	s.httpServer = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
	}
	s.httpServer.RegisterOnShutdown(s.live.CloseAll)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Live returns the live bridge handler.
func (s *Server) Live() *live.Handler { return s.live }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := live.WritePage(w, live.PageData{
		Title:    s.stack.Config.Name,
		LivePath: "/live",
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// Run starts the server and blocks until an interrupt or a listener error.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.stack.Config.Server.Address)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until an interrupt or a listener error.
func (s *Server) Serve(ln net.Listener) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.stack.Config.ShutdownTimeout())
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}
