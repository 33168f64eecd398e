package billing

import (
	"time"

	"github.com/starconnect/starconnect-backend/pkg/enums"
)

// CreatePaymentIntentRequest carries the charge the client expects to pay.
// Only the configured premium price is accepted; the field exists so a stale
// client fails loudly instead of confirming a different amount.
type CreatePaymentIntentRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}

// UpgradeIntentResponse hands the client everything it needs to confirm the
// card payment in the browser. The plan write itself happens later, on the
// webhook.
type UpgradeIntentResponse struct {
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
}

// PlanStatusResponse is the poll target after a client-side card
// confirmation: it reflects whatever the webhook has written so far.
type PlanStatusResponse struct {
	Plan               enums.Plan `json:"plan"`
	PlanUpdatedAt      *time.Time `json:"plan_updated_at,omitempty"`
	PaymentID          *string    `json:"payment_id,omitempty"`
	PaymentAmountCents *int64     `json:"payment_amount_cents,omitempty"`
}
