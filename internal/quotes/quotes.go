package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/vango-dev/kite/internal/errors"
)

// ErrEmpty is returned when a source holds no quotes.
var ErrEmpty = errors.New("quotes: source is empty")

// ErrInvalid is returned for malformed quote payloads.
var ErrInvalid = errors.New("quotes: invalid payload")

// Quote is one quote. The JSON shape is the wire format of the quote API.
type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Source supplies quotes.
type Source interface {
	// Quotes returns every quote of the source. Implementations may cache.
	Quotes(ctx context.Context) ([]Quote, error)

	// Name identifies the source in logs.
	Name() string
}

// DefaultQuotes is the built-in quote list.
var DefaultQuotes = []Quote{
	{Content: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra"},
	{Content: "Clear is better than clever.", Author: "Rob Pike"},
	{Content: "A little copying is better than a little dependency.", Author: "Rob Pike"},
	{Content: "Premature optimization is the root of all evil.", Author: "Donald Knuth"},
	{Content: "Make it work, make it right, make it fast.", Author: "Kent Beck"},
	{Content: "The cheapest, fastest, and most reliable components are those that aren't there.", Author: "Gordon Bell"},
	{Content: "Programs must be written for people to read.", Author: "Harold Abelson"},
}

// MemorySource serves a fixed list.
type MemorySource struct {
	quotes []Quote
}

// NewMemorySource creates a source over quotes, or DefaultQuotes when none
// are given.
func NewMemorySource(quotes ...Quote) *MemorySource {
	if len(quotes) == 0 {
		quotes = DefaultQuotes
	}
	return &MemorySource{quotes: append([]Quote(nil), quotes...)}
}

// Quotes implements Source.
func (s *MemorySource) Quotes(context.Context) ([]Quote, error) {
	return s.quotes, nil
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// Decode reads a JSON array of quotes. Every quote needs content; a missing
// author is allowed.
func Decode(r io.Reader) ([]Quote, error) {
	var quotes []Quote
	if err := json.NewDecoder(r).Decode(&quotes); err != nil {
		return nil, kerrors.New("K152").WithDetail(err.Error()).Wrap(ErrInvalid)
	}
	if len(quotes) == 0 {
		return nil, kerrors.New("K151").Wrap(ErrEmpty)
	}
	for i, q := range quotes {
		if strings.TrimSpace(q.Content) == "" {
			return nil, kerrors.New("K152").
				WithDetail(fmt.Sprintf("quote %d has no content", i)).
				Wrap(ErrInvalid)
		}
	}
	return quotes, nil
}
