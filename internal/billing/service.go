package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

// MetadataUIDKey names the payment intent metadata entry carrying the star's
// user id; the webhook reads it back to know which profile to upgrade.
const MetadataUIDKey = "uid"

const upgradeCurrency = "usd"

// Service defines the plan upgrade billing operations. It only prepares
// payments; the premium write happens exclusively on the webhook path.
type Service interface {
	CreateUpgradeIntent(ctx context.Context, userID uuid.UUID, req CreatePaymentIntentRequest) (*UpgradeIntentResponse, error)
	GetPlan(ctx context.Context, userID uuid.UUID) (*PlanStatusResponse, error)
}

type starDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error)
}

type service struct {
	stripe         StripePaymentClient
	stars          starDirectory
	premiumCents   int64
	publishableKey string
}

// ServiceParams bundles the dependencies for the billing service.
type ServiceParams struct {
	Stripe        StripePaymentClient
	Stars         starDirectory
	BookingConfig config.BookingConfig
	StripeConfig  config.StripeConfig
}

// NewService constructs the billing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	if params.Stars == nil {
		return nil, fmt.Errorf("star directory is required")
	}
	if params.BookingConfig.PremiumPriceCents <= 0 {
		return nil, fmt.Errorf("premium price must be positive")
	}
	return &service{
		stripe:         params.Stripe,
		stars:          params.Stars,
		premiumCents:   params.BookingConfig.PremiumPriceCents,
		publishableKey: params.StripeConfig.PublishableKey,
	}, nil
}

func (s *service) CreateUpgradeIntent(ctx context.Context, userID uuid.UUID, req CreatePaymentIntentRequest) (*UpgradeIntentResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive number of cents")
	}
	if req.AmountCents != s.premiumCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount does not match the premium plan price")
	}

	star, err := s.stars.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star profile required before upgrading")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star profile")
	}
	if star.Plan == enums.PlanPremium {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "profile is already premium")
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(s.premiumCents),
		Currency:           stripe.String(upgradeCurrency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.AddMetadata(MetadataUIDKey, userID.String())

	intent, err := s.stripe.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create payment intent")
	}

	return &UpgradeIntentResponse{
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.publishableKey,
		AmountCents:    s.premiumCents,
		Currency:       upgradeCurrency,
	}, nil
}

func (s *service) GetPlan(ctx context.Context, userID uuid.UUID) (*PlanStatusResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	star, err := s.stars.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star profile")
	}
	return &PlanStatusResponse{
		Plan:               star.Plan,
		PlanUpdatedAt:      star.PlanUpdatedAt,
		PaymentID:          star.PaymentID,
		PaymentAmountCents: star.PaymentAmountCents,
	}, nil
}
