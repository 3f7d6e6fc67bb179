package gateway

import (
	"context"
	"errors"
	"math"
	"time"

	"jobboard_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/paymentintent"
)

// StripeGateway implements PaymentGateway on Stripe payment intents.
type StripeGateway struct {
	timeout time.Duration
}

// NewStripeGateway sets the account key and the per-call deadline.
func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	stripe.Key = secretKey
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &StripeGateway{timeout: timeout}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*CreatedIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapStripeError(ctx, err)
	}

	return &CreatedIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*RetrievedIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	pi, err := paymentintent.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeError(ctx, err)
	}

	return &RetrievedIntent{
		IntentID: pi.ID,
		Status:   IntentStatus(pi.Status),
		Amount:   fromMinorUnits(pi.Amount),
		Currency: string(pi.Currency),
		Metadata: pi.Metadata,
	}, nil
}

// wrapStripeError keeps the processor's error text out of API responses;
// it survives only inside the wrapped error for the logs.
func wrapStripeError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.ErrGatewayTimeout(err)
	}
	return apperrors.ErrGateway(err)
}

// Stripe charges in minor units; records keep major units like the rest of
// the system.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
