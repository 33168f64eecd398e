package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
)

// CreateBookingRequest is the payload for booking a star.
type CreateBookingRequest struct {
	StarID    uuid.UUID `json:"star_id" validate:"required"`
	EventDate string    `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime string    `json:"event_time" validate:"required,max=40"`
}

// QuoteResponse breaks a booking price down before the user commits.
type QuoteResponse struct {
	StarID            uuid.UUID `json:"star_id"`
	BasePriceCents    int64     `json:"base_price_cents"`
	ServiceFeeCents   int64     `json:"service_fee_cents"`
	TotalCents        int64     `json:"total_cents"`
	ServiceFeePercent int       `json:"service_fee_percent"`
}

// BookingDTO is the transport shape of a confirmed booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	StarID          uuid.UUID `json:"star_id"`
	UserID          uuid.UUID `json:"user_id"`
	EventDate       time.Time `json:"event_date"`
	EventTime       string    `json:"event_time"`
	BasePriceCents  int64     `json:"base_price_cents"`
	ServiceFeeCents int64     `json:"service_fee_cents"`
	TotalCents      int64     `json:"total_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

// FromModel converts a persisted booking row.
func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:              b.ID,
		StarID:          b.StarID,
		UserID:          b.UserID,
		EventDate:       b.EventDate,
		EventTime:       b.EventTime,
		BasePriceCents:  b.BasePriceCents,
		ServiceFeeCents: b.ServiceFeeCents,
		TotalCents:      b.TotalCents,
		CreatedAt:       b.CreatedAt,
	}
}
