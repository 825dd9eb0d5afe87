package quoteapp

import (
	"encoding/json"
	"fmt"
	"os"
)

// Styles maps logical class names to the class names of a stylesheet
// module. Unmapped names pass through unchanged.
type Styles map[string]string

// DefaultStyles returns the built-in class names.
func DefaultStyles() Styles {
	return Styles{
		"container": "quote-container",
		"loading":   "quote-loading",
		"error":     "quote-error",
		"quote":     "quote",
		"content":   "quote-content",
		"author":    "quote-author",
		"button":    "quote-refresh",
	}
}

// LoadStyles reads a JSON object of class names from path and lays it over
// DefaultStyles.
func LoadStyles(path string) (Styles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}
	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("styles: %s: %w", path, err)
	}
	s := DefaultStyles()
	for k, v := range manifest {
		s[k] = v
	}
	return s, nil
}

// Class returns the class name for name.
func (s Styles) Class(name string) string {
	if v, ok := s[name]; ok {
		return v
	}
	return name
}
