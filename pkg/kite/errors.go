package kite

import (
	"errors"
	"fmt"

	kerrors "github.com/vango-dev/kite/internal/errors"
)

// Sentinel errors. Errors returned by the runtime wrap these, so callers
// test with errors.Is.
var (
	// ErrMissingKey is returned by ReplaceChild and Element for an
	// unregistered key.
	ErrMissingKey = errors.New("kite: missing key")

	// ErrDuplicateKey is returned when one render uses a key twice.
	ErrDuplicateKey = errors.New("kite: duplicate key")

	// ErrUnmounted is returned when an unmounted or finished instance keeps
	// using its context, and by awaits interrupted by an unmount.
	ErrUnmounted = errors.New("kite: instance unmounted")

	// ErrInvalidDescriptor is returned for descriptors the composition layer
	// cannot mount.
	ErrInvalidDescriptor = errors.New("kite: invalid descriptor")

	// ErrNotElement is returned by Element when the key holds a text node
	// or a component.
	ErrNotElement = errors.New("kite: key does not hold an element")

	// ErrStreamClosed is returned by Stream.Wait once the stream is closed.
	ErrStreamClosed = errors.New("kite: event stream closed")

	// ErrPanic is the cause recorded for a component that panicked.
	ErrPanic = errors.New("kite: component panicked")
)

// MissingKeyError reports a replacement or lookup of a key that is not
// mounted in the instance's region. It matches ErrMissingKey.
type MissingKeyError struct {
	Key       string
	Component string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("kite: %s has no entry under key %q", e.Component, e.Key)
}

// Is reports whether target is ErrMissingKey.
func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }

// DuplicateKeyError reports a key used twice in one region. It matches
// ErrDuplicateKey.
type DuplicateKeyError struct {
	Key       string
	Component string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("kite: %s renders key %q more than once", e.Component, e.Key)
}

// Is reports whether target is ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

func missingKey(in *Instance, key string) error {
	return kerrors.New("K002").
		WithDetailf("no entry is mounted under key %q in %s", key, in.Name()).
		Wrap(&MissingKeyError{Key: key, Component: in.Name()})
}

func duplicateKey(in *Instance, key string) error {
	return kerrors.New("K050").
		WithDetailf("key %q appears more than once in %s", key, in.Name()).
		Wrap(&DuplicateKeyError{Key: key, Component: in.Name()})
}

func unmounted(in *Instance) error {
	return kerrors.New("K001").
		WithDetailf("%s (instance %d) is no longer mounted", in.Name(), in.id).
		Wrap(ErrUnmounted)
}

func invalidDescriptor(format string, args ...any) error {
	return kerrors.New("K051").WithDetailf(format, args...).Wrap(ErrInvalidDescriptor)
}

func streamClosed(in *Instance) error {
	return kerrors.New("K004").WithDetailf("stream of %s", in.Name()).Wrap(ErrStreamClosed)
}
