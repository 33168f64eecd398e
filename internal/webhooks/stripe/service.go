package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/internal/billing"
	"github.com/starconnect/starconnect-backend/internal/stars"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies for the webhook processor.
type ServiceParams struct {
	TransactionRunner txRunner
	Logger            *logger.Logger
}

// Service applies Stripe events to star plans. It is the only writer of the
// plan and payment columns; the HTTP profile paths never touch them.
type Service struct {
	txRunner txRunner
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		txRunner: params.TransactionRunner,
		logg:     params.Logger,
	}, nil
}

// HandleEvent routes a verified Stripe event. Unknown event types are
// acknowledged without action so Stripe stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.applyUpgrade(ctx, &intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		if s.logg != nil {
			s.logg.Warn(ctx, "payment intent failed: "+event.GetObjectValue("id"))
		}
		return nil
	default:
		return nil
	}
}

// applyUpgrade promotes the star named in the intent metadata to premium.
// Idempotent per payment intent: a second delivery finds the payment_id
// already recorded and does nothing.
func (s *Service) applyUpgrade(ctx context.Context, intent *stripe.PaymentIntent) error {
	if intent == nil || intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent is required")
	}

	rawUID := intent.Metadata[billing.MetadataUIDKey]
	starID, err := uuid.Parse(rawUID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent metadata missing uid")
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := stars.NewRepository(tx)

		if _, err := repo.FindByPaymentID(ctx, intent.ID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check payment reference")
		}

		if _, err := repo.FindByID(ctx, starID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "star not found for payment")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load star")
		}

		err := repo.UpgradePlan(ctx, starID, enums.PlanPremium, intent.ID, intent.Amount, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record plan upgrade")
		}
		return nil
	})
}
