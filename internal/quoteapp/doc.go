// Package quoteapp is the quote example built on kite.
//
// RandomQuote renders a loading placeholder under a key, awaits one fetch,
// and replaces the placeholder with the quote or an error message.
// RefreshableQuote adds a refresh button and loops: the button is disabled
// for the duration of every fetch, so two fetches never overlap. What happens
// after a failed refresh is a FailurePolicy:
//
//	StopOnError   the loop ends and the button stays disabled (default)
//	RetryOnError  the error stays visible, the button is re-enabled
package quoteapp
