package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/db/models"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/pagination"
)

// Service defines the booking operations. There is no availability engine
// behind Create: a booking is an acknowledged request, not a reservation.
type Service interface {
	Quote(ctx context.Context, starID uuid.UUID) (*QuoteResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingDTO, error)
	ListForStar(ctx context.Context, starID uuid.UUID, limit, offset int) ([]BookingDTO, error)
}

type repository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, error)
	ListForStar(ctx context.Context, starID uuid.UUID, limit, offset int) ([]models.Booking, error)
}

type starDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error)
}

type service struct {
	repo  repository
	stars starDirectory
	cfg   config.BookingConfig
}

// ServiceParams bundles the dependencies for the bookings service.
type ServiceParams struct {
	Repo   repository
	Stars  starDirectory
	Config config.BookingConfig
}

// NewService constructs the bookings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("bookings repository is required")
	}
	if params.Stars == nil {
		return nil, fmt.Errorf("star directory is required")
	}
	if params.Config.ServiceFeePercent < 0 || params.Config.ServiceFeePercent > 100 {
		return nil, fmt.Errorf("service fee percent out of range: %d", params.Config.ServiceFeePercent)
	}
	return &service{repo: params.Repo, stars: params.Stars, cfg: params.Config}, nil
}

func (s *service) Quote(ctx context.Context, starID uuid.UUID) (*QuoteResponse, error) {
	star, err := s.loadStar(ctx, starID)
	if err != nil {
		return nil, err
	}

	fee := serviceFee(star.HourlyRateCents, s.cfg.ServiceFeePercent)
	return &QuoteResponse{
		StarID:            star.ID,
		BasePriceCents:    star.HourlyRateCents,
		ServiceFeeCents:   fee,
		TotalCents:        star.HourlyRateCents + fee,
		ServiceFeePercent: s.cfg.ServiceFeePercent,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.StarID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot book yourself")
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event_date must be YYYY-MM-DD")
	}

	star, err := s.loadStar(ctx, req.StarID)
	if err != nil {
		return nil, err
	}

	// Price is captured at booking time so a later rate change never
	// rewrites what the user agreed to.
	fee := serviceFee(star.HourlyRateCents, s.cfg.ServiceFeePercent)
	booking := &models.Booking{
		StarID:          star.ID,
		UserID:          userID,
		EventDate:       eventDate,
		EventTime:       req.EventTime,
		BasePriceCents:  star.HourlyRateCents,
		ServiceFeeCents: fee,
		TotalCents:      star.HourlyRateCents + fee,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
	}
	return FromModel(created), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListForUser(ctx, userID, pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	return fromModels(rows), nil
}

func (s *service) ListForStar(ctx context.Context, starID uuid.UUID, limit, offset int) ([]BookingDTO, error) {
	if starID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListForStar(ctx, starID, pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list star bookings")
	}
	return fromModels(rows), nil
}

func (s *service) loadStar(ctx context.Context, starID uuid.UUID) (*models.Star, error) {
	if starID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "star id is required")
	}
	star, err := s.stars.FindByID(ctx, starID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star")
	}
	return star, nil
}

// serviceFee computes the platform cut in cents, rounded half up.
func serviceFee(baseCents int64, percent int) int64 {
	return decimal.NewFromInt(baseCents).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func fromModels(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
