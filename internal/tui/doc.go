// Package tui drives a kite host from the terminal with bubbletea.
//
// The model renders the host document as styled text after every commit.
// Buttons with click listeners are focusable; pressing one dispatches a
// click into the host, exactly as a browser click would.
package tui
