package quoteapp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// LocalEndpoint is the endpoint of clients created by NewLocalClient.
const LocalEndpoint = "http://kite.local/api/quote"

// NewLocalClient creates a client whose requests are served by h in
// process, without a network round trip.
func NewLocalClient(h http.Handler) *Client {
	return NewClient(LocalEndpoint, WithHTTPClient(&http.Client{
		Transport: handlerTransport{h},
	}))
}

type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rec := &responseRecorder{header: make(http.Header)}
	t.h.ServeHTTP(rec, r)
	if err := r.Context().Err(); err != nil {
		return nil, err
	}
	if rec.code == 0 {
		rec.code = http.StatusOK
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", rec.code, http.StatusText(rec.code)),
		StatusCode:    rec.code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        rec.header,
		Body:          io.NopCloser(&rec.body),
		ContentLength: int64(rec.body.Len()),
		Request:       r,
	}, nil
}

type responseRecorder struct {
	header http.Header
	body   bytes.Buffer
	code   int
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}
	return r.body.Write(p)
}
