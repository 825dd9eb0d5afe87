// Package errors provides structured, actionable errors for kite.
// Format styles its output with lipgloss and falls back to plain text when
// stdout is not a terminal.
//
// Every error carries a short code (e.g. "K002") that maps to a registered
// template with a category, a one-line message and a longer detail. Errors
// can wrap a cause so that errors.Is and errors.As keep working across the
// boundary, which is how the public sentinels in package kite are exposed:
//
//	err := errors.New("K002").
//	    WithDetail(`no entry is mounted under key "quote"`).
//	    Wrap(kite.ErrMissingKey)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR K002: Missing key
//	//
//	//   no entry is mounted under key "quote"
//	//
//	//   Cause: kite: missing key
//	//
//	//   Hint: Render the key before calling ReplaceChild on it
//
// # Error Categories
//
//   - runtime: scheduling and instance lifecycle errors
//   - render: composition and reconciliation errors
//   - config: project configuration errors
//   - source: quote source and network collaborator errors
//   - cli: command line errors
package errors
