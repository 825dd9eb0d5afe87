package quotes

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileSource reads quotes from a JSON file, re-reading it when its
// modification time changes.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	quotes  []Quote
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Quotes implements Source.
func (s *FileSource) Quotes(context.Context) ([]Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("quotes: %w", err)
	}
	if s.quotes != nil && info.ModTime().Equal(s.modTime) {
		return s.quotes, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("quotes: %w", err)
	}
	defer f.Close()

	quotes, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("quotes: %s: %w", s.path, err)
	}
	s.quotes = quotes
	s.modTime = info.ModTime()
	return quotes, nil
}

// Name implements Source.
func (s *FileSource) Name() string { return "file:" + s.path }
