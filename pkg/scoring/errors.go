package scoring

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when the user or reference answer is empty
// after trimming. Scoring is never attempted.
var ErrMissingInput = errors.New("user answer and correct answer are required")

// ErrInvalidThreshold is returned when the threshold lies outside [0, 1].
// Out-of-range thresholds are rejected rather than clamped so caller bugs
// are not masked.
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

// ProviderError wraps a failure from the embedding provider. It is never
// retried here and there is no degraded-mode scoring without the semantic
// component; the provider's message is kept for diagnostics.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func errUnexpectedVectorCount(n int) error {
	return fmt.Errorf("expected 2 embedding vectors, got %d", n)
}
