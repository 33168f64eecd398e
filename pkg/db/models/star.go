package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/enums"
	"github.com/starconnect/starconnect-backend/pkg/types"
)

// Star is a performer profile offering paid bookings. Its primary key is the
// owning user's id: a user "becomes" a star by row existence, not a type flag.
type Star struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name               string            `gorm:"type:text;not null"`
	Email              string            `gorm:"type:text;not null"`
	Phone              *string           `gorm:"column:phone"`
	Category           string            `gorm:"type:text;not null;index"`
	ExperienceYears    int               `gorm:"column:experience_years;not null;default:0"`
	HourlyRateCents    int64             `gorm:"column:hourly_rate_cents;not null;default:0"`
	ProfilePicture     *string           `gorm:"column:profile_picture"`
	VideoIntroduction  *string           `gorm:"column:video_introduction"`
	Social             types.Social      `gorm:"column:social;type:jsonb"`
	GovernmentID       *string           `gorm:"column:government_id"`
	AdvertisingImages  types.StringArray `gorm:"column:advertising_images;type:jsonb"`
	Plan               enums.Plan        `gorm:"column:plan;type:text;not null;default:'free'"`
	PlanUpdatedAt      *time.Time        `gorm:"column:plan_updated_at"`
	PaymentID          *string           `gorm:"column:payment_id;uniqueIndex"`
	PaymentAmountCents *int64            `gorm:"column:payment_amount_cents"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
