// Package quotes serves random quotes over HTTP.
//
// A Source supplies the list of quotes: MemorySource for a fixed list,
// FileSource for a JSON file on disk, S3Source for a JSON object in an S3
// bucket. Handler picks one at random per request and answers with
//
//	{"content": "...", "author": "..."}
//
// Handler can inject latency and failures, which makes the loading and error
// paths of a client easy to see:
//
//	h := quotes.NewHandler(quotes.NewMemorySource(),
//	    quotes.WithLatency(300*time.Millisecond),
//	    quotes.WithFailEvery(3),
//	)
//	r.Get("/api/quote", h.ServeHTTP)
package quotes
