package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking records a confirmed booking request. There is no availability or
// conflict engine behind it; the row is an acknowledgement, not a reservation.
type Booking struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StarID          uuid.UUID `gorm:"column:star_id;type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	EventDate       time.Time `gorm:"column:event_date;not null"`
	EventTime       string    `gorm:"column:event_time;type:text;not null"`
	BasePriceCents  int64     `gorm:"column:base_price_cents;not null"`
	ServiceFeeCents int64     `gorm:"column:service_fee_cents;not null"`
	TotalCents      int64     `gorm:"column:total_cents;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
