package billing

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/api/middleware"
	"github.com/starconnect/starconnect-backend/api/responses"
	"github.com/starconnect/starconnect-backend/api/validators"
	internalbilling "github.com/starconnect/starconnect-backend/internal/billing"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
)

// CreateUpgradeIntent prepares a Stripe payment intent for the premium
// upgrade and hands back the client secret. No plan state changes here; the
// webhook performs the write once the payment settles.
func CreateUpgradeIntent(svc internalbilling.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalbilling.CreatePaymentIntentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateUpgradeIntent(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

// PlanStatus reports the caller's current plan; clients poll it after a
// client-side card confirmation.
func PlanStatus(svc internalbilling.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.GetPlan(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return id, nil
}
