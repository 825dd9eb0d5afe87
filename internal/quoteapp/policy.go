package quoteapp

import (
	"fmt"

	"github.com/vango-dev/kite/internal/config"
)

// FailurePolicy decides what RefreshableQuote does after a failed fetch.
type FailurePolicy int

const (
	// StopOnError ends the refresh loop. The error stays visible and the
	// refresh button stays disabled.
	StopOnError FailurePolicy = iota

	// RetryOnError keeps the error visible and re-enables the refresh
	// button.
	RetryOnError
)

// String returns the config spelling of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case StopOnError:
		return config.RefreshStop
	case RetryOnError:
		return config.RefreshRetry
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "stop" or "retry".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case config.RefreshStop, "":
		return StopOnError, nil
	case config.RefreshRetry:
		return RetryOnError, nil
	default:
		return 0, fmt.Errorf("quoteapp: unknown failure policy %q", s)
	}
}
