package stars

import (
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	"github.com/starconnect/starconnect-backend/pkg/types"
)

// BecomeStarRequest is the payload used to open a star profile.
type BecomeStarRequest struct {
	Name            string        `json:"name" validate:"required,max=120"`
	Email           string        `json:"email" validate:"required,email"`
	Phone           *string       `json:"phone,omitempty"`
	Category        string        `json:"category" validate:"required,max=80"`
	ExperienceYears int           `json:"experience_years" validate:"min=0,max=80"`
	HourlyRateCents int64         `json:"hourly_rate_cents" validate:"min=0"`
	Social          *types.Social `json:"social,omitempty"`
}

// UpdateProfileRequest carries a partial profile edit. Nil fields are untouched.
type UpdateProfileRequest struct {
	Name              *string       `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone             *string       `json:"phone,omitempty"`
	Category          *string       `json:"category,omitempty" validate:"omitempty,max=80"`
	ExperienceYears   *int          `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	HourlyRateCents   *int64        `json:"hourly_rate_cents,omitempty" validate:"omitempty,min=0"`
	ProfilePicture    *string       `json:"profile_picture,omitempty"`
	VideoIntroduction *string       `json:"video_introduction,omitempty"`
	Social            *types.Social `json:"social,omitempty"`
	GovernmentID      *string       `json:"government_id,omitempty"`
	AdvertisingImages []string      `json:"advertising_images,omitempty"`
}

// StarDTO is the public transport shape of a star profile.
type StarDTO struct {
	ID                uuid.UUID    `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             *string      `json:"phone,omitempty"`
	Category          string       `json:"category"`
	ExperienceYears   int          `json:"experience_years"`
	HourlyRateCents   int64        `json:"hourly_rate_cents"`
	ProfilePicture    *string      `json:"profile_picture,omitempty"`
	VideoIntroduction *string      `json:"video_introduction,omitempty"`
	Social            types.Social `json:"social"`
	AdvertisingImages []string     `json:"advertising_images"`
	Plan              enums.Plan   `json:"plan"`
	PlanUpdatedAt     *time.Time   `json:"plan_updated_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// OwnerStarDTO extends StarDTO with fields only the profile owner may see.
type OwnerStarDTO struct {
	StarDTO
	GovernmentID       *string `json:"government_id,omitempty"`
	PaymentID          *string `json:"payment_id,omitempty"`
	PaymentAmountCents *int64  `json:"payment_amount_cents,omitempty"`
}

// FromModel converts the persisted star to its public shape. The government id
// and payment references never leave through this path.
func FromModel(s *models.Star) *StarDTO {
	if s == nil {
		return nil
	}
	images := s.AdvertisingImages
	if images == nil {
		images = []string{}
	}
	return &StarDTO{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		Category:          s.Category,
		ExperienceYears:   s.ExperienceYears,
		HourlyRateCents:   s.HourlyRateCents,
		ProfilePicture:    s.ProfilePicture,
		VideoIntroduction: s.VideoIntroduction,
		Social:            s.Social,
		AdvertisingImages: images,
		Plan:              s.Plan,
		PlanUpdatedAt:     s.PlanUpdatedAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// OwnerFromModel converts the persisted star for the owning user.
func OwnerFromModel(s *models.Star) *OwnerStarDTO {
	if s == nil {
		return nil
	}
	return &OwnerStarDTO{
		StarDTO:            *FromModel(s),
		GovernmentID:       s.GovernmentID,
		PaymentID:          s.PaymentID,
		PaymentAmountCents: s.PaymentAmountCents,
	}
}
