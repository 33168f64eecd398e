package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"

	pkgstripe "github.com/starconnect/starconnect-backend/pkg/stripe"
)

// StripePaymentClient exposes the subset of Stripe operations required by the billing service.
type StripePaymentClient interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
}

type stripeClientWrapper struct {
	api *stripe.Client
}

// NewStripeClient adapts the platform Stripe client so the billing service can be tested.
func NewStripeClient(client *pkgstripe.Client) (StripePaymentClient, error) {
	if client == nil || client.API() == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	return &stripeClientWrapper{api: client.API()}, nil
}

func (w *stripeClientWrapper) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	return w.api.V1PaymentIntents.Create(ctx, params)
}
