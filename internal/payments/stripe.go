package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// ErrNotConfigured is returned when no processor key is set.
var ErrNotConfigured = errors.New("payment processor not configured")

// StripeProcessor creates card payment intents through the Stripe API.
type StripeProcessor struct {
	client paymentintent.Client
}

// NewStripeProcessor returns a processor authenticated with secretKey.
func NewStripeProcessor(secretKey string) (*StripeProcessor, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	return &StripeProcessor{
		client: paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: secretKey,
		},
	}, nil
}

// CreateIntent creates a card-only intent for amount minor units.
func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("stripe %s: %s: %w", stripeErr.Type, stripeErr.Msg, err)
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// Unconfigured rejects every request. It stands in for Stripe when no
// secret key is configured so the rest of the API still starts.
type Unconfigured struct{}

func (Unconfigured) CreateIntent(context.Context, int64, string) (*Intent, error) {
	return nil, ErrNotConfigured
}
