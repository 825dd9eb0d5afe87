// Package live serves a kite host to a browser over a WebSocket.
//
// Every connection gets its own host with the root component mounted into
// its body. After each commit the session sends the body's HTML to the
// browser, which swaps it into the page. Clicks on elements carrying a
// data-kid attribute come back as small JSON messages and are dispatched
// to the matching element.
//
// Wire format (JSON text frames):
//
//	client → server  {"type":"click","id":12}
//	server → client  {"type":"render","html":"..."}
//	server → client  {"type":"error","error":"..."}
package live
