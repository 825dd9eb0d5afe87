package server

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/kite/internal/config"
	"github.com/vango-dev/kite/internal/quoteapp"
	"github.com/vango-dev/kite/internal/quotes"
	"github.com/vango-dev/kite/pkg/kite"
	"github.com/vango-dev/kite/pkg/metrics"
)

// Stack is the quote app and its collaborators, built from configuration.
type Stack struct {
	Config  *config.Config
	Source  quotes.Source
	Quotes  *quotes.Handler
	Fetcher quoteapp.Fetcher
	App     *quoteapp.App

	// Registry and Metrics are nil when metrics are disabled.
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	Logger *slog.Logger
}

// Assemble builds a Stack from cfg.
func Assemble(cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := &Stack{Config: cfg, Logger: logger}

	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}
	st.Source = src
	st.Quotes = quotes.NewHandler(src,
		quotes.WithLatency(cfg.QuoteLatency()),
		quotes.WithFailEvery(cfg.Quotes.FailEvery),
		quotes.WithDown(cfg.Quotes.Down),
		quotes.WithLogger(logger.With("component", "quotes")),
	)

	if cfg.App.Endpoint != "" {
		st.Fetcher = quoteapp.NewClient(cfg.App.Endpoint)
	} else {
		st.Fetcher = quoteapp.NewLocalClient(st.Quotes)
	}

	policy, err := quoteapp.ParseFailurePolicy(cfg.App.Refresh)
	if err != nil {
		return nil, err
	}
	styles := quoteapp.DefaultStyles()
	if cfg.App.Styles != "" {
		styles, err = quoteapp.LoadStyles(cfg.ResolvePath(cfg.App.Styles))
		if err != nil {
			return nil, err
		}
	}
	st.App = quoteapp.New(st.Fetcher,
		quoteapp.WithStyles(styles),
		quoteapp.WithFailurePolicy(policy),
		quoteapp.WithTimeout(cfg.FetchTimeout()),
	)

	if !cfg.Telemetry.DisableMetrics {
		st.Registry = prometheus.NewRegistry()
		st.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		st.Metrics = metrics.New(
			metrics.WithNamespace(cfg.Telemetry.Namespace),
			metrics.WithRegistry(st.Registry),
		)
	}

	logger.Debug("stack assembled",
		"source", src.Name(),
		"endpoint", endpointOf(st.Fetcher),
		"policy", policy.String(),
		"metrics", st.Registry != nil,
	)
	return st, nil
}

// HostOptions returns the options every host of this stack is created
// with.
func (st *Stack) HostOptions() []kite.Option {
	return []kite.Option{
		kite.WithLogger(st.Logger.With("component", "kite")),
		kite.WithMetrics(st.Metrics),
		kite.WithTracerName(st.Config.Telemetry.TracerName),
	}
}

// NewHost creates a host configured for this stack.
func (st *Stack) NewHost(opts ...kite.Option) *kite.Host {
	return kite.NewHost(append(st.HostOptions(), opts...)...)
}

func newSource(cfg *config.Config) (quotes.Source, error) {
	switch cfg.Quotes.Source {
	case config.SourceMemory:
		return quotes.NewMemorySource(), nil
	case config.SourceFile:
		return quotes.NewFileSource(cfg.ResolvePath(cfg.Quotes.File)), nil
	case config.SourceS3:
		s3 := cfg.Quotes.S3
		return quotes.NewS3Source(quotes.S3Options{
			Bucket:    s3.Bucket,
			Key:       s3.Key,
			Region:    s3.Region,
			Endpoint:  s3.Endpoint,
			PathStyle: s3.PathStyle,
		}), nil
	default:
		return nil, fmt.Errorf("server: unknown quote source %q", cfg.Quotes.Source)
	}
}

func endpointOf(f quoteapp.Fetcher) string {
	if c, ok := f.(*quoteapp.Client); ok {
		return c.Endpoint()
	}
	return "custom"
}
