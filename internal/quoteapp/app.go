package quoteapp

import (
	"context"
	"errors"
	"time"

	"github.com/vango-dev/kite/internal/quotes"
	"github.com/vango-dev/kite/pkg/kite"
	"github.com/vango-dev/kite/pkg/vdom"
)

// Keys used by the quote components.
const (
	QuoteKey   = "quote"
	RefreshKey = "refresh"
)

// App holds the quote component definitions and what they share.
type App struct {
	fetcher Fetcher
	styles  Styles
	policy  FailurePolicy
	timeout time.Duration

	Loading          *kite.Definition
	ErrorMessage     *kite.Definition
	QuoteView        *kite.Definition
	RandomQuote      *kite.Definition
	RefreshableQuote *kite.Definition
	Page             *kite.Definition
}

// Option configures an App.
type Option func(*App)

// WithStyles sets the class-name mapping.
func WithStyles(s Styles) Option {
	return func(a *App) {
		if s != nil {
			a.styles = s
		}
	}
}

// WithFailurePolicy sets the refresh failure policy.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(a *App) {
		a.policy = p
	}
}

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *App) {
		a.timeout = d
	}
}

// New creates the quote app over fetcher.
func New(fetcher Fetcher, opts ...Option) *App {
	a := &App{
		fetcher: fetcher,
		styles:  DefaultStyles(),
		policy:  StopOnError,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Loading = kite.Define("Loading", a.loading)
	a.ErrorMessage = kite.Define("ErrorMessage", a.errorMessage)
	a.QuoteView = kite.Define("Quote", a.quoteView)
	a.RandomQuote = kite.Define("RandomQuote", a.randomQuote)
	a.RefreshableQuote = kite.Define("RefreshableQuote", a.refreshableQuote)
	a.Page = kite.Define("Page", a.page)
	return a
}

// Policy returns the refresh failure policy.
func (a *App) Policy() FailurePolicy { return a.policy }

// Styles returns the class-name mapping.
func (a *App) Styles() Styles { return a.styles }

func (a *App) loading(c *kite.Context) error {
	return c.Render(vdom.P(
		vdom.Class(a.styles.Class("loading")),
		vdom.AriaBusy(true),
		"Loading…",
	))
}

// errorMessage takes the message as its string props.
func (a *App) errorMessage(c *kite.Context) error {
	msg, _ := kite.PropsAs[string](c)
	return c.Render(vdom.P(
		vdom.Class(a.styles.Class("error")),
		vdom.Role("alert"),
		msg,
	))
}

// quoteView takes a quotes.Quote as props.
func (a *App) quoteView(c *kite.Context) error {
	q, _ := kite.PropsAs[quotes.Quote](c)
	return c.Render(vdom.Figure(
		vdom.Class(a.styles.Class("quote")),
		vdom.Blockquote(vdom.Class(a.styles.Class("content")), q.Content),
		vdom.Figcaption(vdom.Class(a.styles.Class("author")), q.Author),
	))
}

func (a *App) fetch(ctx context.Context) (quotes.Quote, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.fetcher.Fetch(ctx)
}

// show replaces the quote slot with the outcome of a fetch.
func (a *App) show(c *kite.Context, q quotes.Quote, err error) error {
	if err != nil {
		c.Logger().Warn("quote fetch failed", "error", err)
		return c.ReplaceChild(QuoteKey, func() *vdom.VNode {
			return a.ErrorMessage.With(err.Error())
		})
	}
	c.Logger().Debug("quote fetched", "author", q.Author)
	return c.ReplaceChild(QuoteKey, func() *vdom.VNode {
		return a.QuoteView.With(q)
	})
}

func (a *App) randomQuote(c *kite.Context) error {
	err := c.Render(vdom.Div(
		vdom.Class(a.styles.Class("container")),
		a.Loading.With(nil, vdom.Key(QuoteKey)),
	))
	if err != nil {
		return err
	}

	q, err := kite.Await(c, a.fetch)
	if errors.Is(err, kite.ErrUnmounted) {
		return nil
	}
	return a.show(c, q, err)
}

func (a *App) refreshableQuote(c *kite.Context) error {
	err := c.Render(vdom.Div(
		vdom.Class(a.styles.Class("container")),
		a.Loading.With(nil, vdom.Key(QuoteKey)),
		vdom.Button(
			vdom.Key(RefreshKey),
			vdom.Class(a.styles.Class("button")),
			vdom.Type("button"),
			vdom.Disabled(true),
			"Refresh",
		),
	))
	if err != nil {
		return err
	}
	btn, err := c.Element(RefreshKey)
	if err != nil {
		return err
	}

	clicks := c.WaitEvents(c.DomEvent("click", btn))
	defer clicks.Close()

	for {
		btn.SetDisabled(true)
		q, err := kite.Await(c, a.fetch)
		if errors.Is(err, kite.ErrUnmounted) {
			return nil
		}
		if showErr := a.show(c, q, err); showErr != nil {
			return showErr
		}
		if err != nil && a.policy == StopOnError {
			return nil
		}
		// Clicks queued while the fetch ran were aimed at the old quote.
		if n := clicks.Discard(); n > 0 {
			c.Logger().Debug("dropped stale refresh clicks", "count", n)
		}
		btn.SetDisabled(false)

		if _, err := clicks.Wait(); err != nil {
			return nil
		}
		err = c.ReplaceChild(QuoteKey, func() *vdom.VNode {
			return a.Loading.With(nil)
		})
		if err != nil {
			return err
		}
	}
}

// page is the root of the live demo.
func (a *App) page(c *kite.Context) error {
	return c.Render(
		vdom.Header(vdom.H1("Quotes")),
		vdom.Main(
			vdom.Section(
				vdom.H2("Random quote"),
				a.RandomQuote.With(nil, vdom.Key("random")),
			),
			vdom.Section(
				vdom.H2("Refreshable quote"),
				a.RefreshableQuote.With(nil, vdom.Key("refreshable")),
			),
		),
	)
}
