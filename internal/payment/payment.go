// Package payment integrates with the external charge processor.
// The processor hosts the actual payment page; this package only opens
// charges and reads their state back.
package payment

import (
	"context"
	"strings"
)

// Gateway defines the interface for the external charge processor.
// Implementations can use Tap, or a mock for testing.
type Gateway interface {
	// CreateCharge opens a charge with the processor and returns the
	// charge reference plus the hosted payment page URL the customer
	// must be redirected to.
	CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error)

	// RetrieveCharge fetches the current state of a previously opened
	// charge. The processor is the source of truth for charge status.
	RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error)
}

// ChargeStatus is the processor-reported state of a charge, folded into
// the small set of states the rest of the system acts on.
type ChargeStatus string

const (
	// StatusInitiated means the charge exists but the customer has not
	// reached the payment page yet.
	StatusInitiated ChargeStatus = "initiated"

	// StatusPending means the customer started paying but the processor
	// has not settled the charge.
	StatusPending ChargeStatus = "pending"

	// StatusSucceeded means the processor captured the funds.
	StatusSucceeded ChargeStatus = "succeeded"

	// StatusFailed means the charge was declined, timed out, or failed.
	StatusFailed ChargeStatus = "failed"

	// StatusCancelled means the customer abandoned or voided the charge.
	StatusCancelled ChargeStatus = "cancelled"

	// StatusUnknown is the fallback for processor statuses this system
	// does not recognize. Callers must not treat it as terminal.
	StatusUnknown ChargeStatus = "unknown"
)

// mapStatus folds a raw processor status string into a ChargeStatus.
// Unrecognized values map to StatusUnknown, never to failure.
func mapStatus(raw string) ChargeStatus {
	switch strings.ToUpper(raw) {
	case "INITIATED":
		return StatusInitiated
	case "IN_PROGRESS", "PENDING", "AUTHORIZED":
		return StatusPending
	case "CAPTURED", "PAID":
		return StatusSucceeded
	case "FAILED", "DECLINED", "RESTRICTED", "TIMEDOUT":
		return StatusFailed
	case "ABANDONED", "CANCELLED", "VOID":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// CreateChargeParams contains parameters for opening a charge.
type CreateChargeParams struct {
	// Amount in currency major units (the processor accepts decimals).
	Amount float64

	// Currency code (ISO 4217) - e.g., "EGP".
	Currency string

	// Customer details shown on the hosted payment page.
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	// RedirectURL is where the processor sends the customer's browser
	// after payment, with the charge id appended as a query parameter.
	RedirectURL string

	// PostURL receives the processor's server-to-server notification.
	// Optional.
	PostURL string

	// Description appears on the processor dashboard.
	Description string

	// Metadata for correlating the charge back to local records
	// (user_id, plan_id, order_id, store_id).
	Metadata map[string]string
}

// Charge represents a charge as reported by the processor.
type Charge struct {
	// ID is the processor's charge reference (chg_...).
	ID string

	// Status is the folded charge state.
	Status ChargeStatus

	// RawStatus is the processor's verbatim status string, kept for
	// logging and diagnosis of StatusUnknown.
	RawStatus string

	Amount   float64
	Currency string

	// PaymentURL is the hosted payment page. Only set on creation.
	PaymentURL string

	// Metadata echoed back by the processor.
	Metadata map[string]string
}
