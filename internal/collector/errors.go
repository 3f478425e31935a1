package collector

import "github.com/pkg/errors"

// ErrRetryExhausted signals that every attempt of one HTTP call failed.
// It aborts the remaining work of the job that issued the call.
var ErrRetryExhausted = errors.New("all attempts failed")

// ErrConfiguration signals an entity descriptor missing required fields
// for the requested shape. Resolution fails before any network call.
var ErrConfiguration = errors.New("invalid entity descriptor")
