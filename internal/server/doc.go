// Package server wires configuration into a running kite deployment: the
// quote source and API, the quote app, the live bridge, and metrics,
// routed with chi.
//
// Routes:
//
//	GET /           page shell for the live session
//	GET /live       WebSocket live bridge
//	GET /api/quote  quote API
//	GET /metrics    Prometheus metrics (unless disabled)
//	GET /healthz    liveness probe
//
// Use Assemble alone to build the app for a front-end that does not serve
// HTTP, such as the terminal UI.
package server
