// Package gateway is the boundary to the third-party payment processor.
// The core only ever creates intents and reads them back; entitlement is
// never granted from a client-claimed success without RetrieveIntent
// confirming it server-side.
package gateway

import "context"

// IntentStatus is the processor's own view of a payment intent. Only
// "succeeded" and "canceled" are terminal for the local record; everything
// else leaves the record pending.
type IntentStatus string

const (
	IntentStatusSucceeded  IntentStatus = "succeeded"
	IntentStatusCanceled   IntentStatus = "canceled"
	IntentStatusProcessing IntentStatus = "processing"
)

// CreatedIntent is what the client needs to complete a charge.
type CreatedIntent struct {
	IntentID     string
	ClientSecret string
}

// RetrievedIntent is the processor's current record of an attempt.
type RetrievedIntent struct {
	IntentID string
	Status   IntentStatus
	Amount   float64 // major units
	Currency string
	Metadata map[string]string
}

// PaymentGateway abstracts the payment processor. Implementations must
// bound every call with a timeout; failures are non-retryable within the
// request and are surfaced as apperrors.ErrGateway / ErrGatewayTimeout.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*CreatedIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*RetrievedIntent, error)
}
