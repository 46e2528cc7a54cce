package domain

import "errors"

// ErrProviderFailure marks a strategy provider error after fallbacks are
// exhausted.
var ErrProviderFailure = errors.New("provider failure")
