package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrChargeNotFound is returned when the processor does not know the charge.
	ErrChargeNotFound = errors.New("payment: charge not found")

	// ErrInvalidAPIKey is returned when the processor secret key is missing or rejected.
	ErrInvalidAPIKey = errors.New("payment: invalid or missing API key")
)

// GatewayError wraps a processor API failure with enough context to
// diagnose it from logs. Timeouts and connection failures carry a zero
// StatusCode and the transport error in Err.
type GatewayError struct {
	// Op is the gateway operation that failed ("create_charge", "retrieve_charge").
	Op string

	// StatusCode is the HTTP status returned by the processor, 0 for
	// transport-level failures.
	StatusCode int

	// Body is the processor's response body, truncated for logging.
	Body string

	// Err is the underlying transport error, if any.
	Err error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("payment gateway: %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("payment gateway: %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsTemporary reports whether the failure is likely transient. Callers
// surface these to the client rather than retrying; re-submission is
// the customer's decision.
func (e *GatewayError) IsTemporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
