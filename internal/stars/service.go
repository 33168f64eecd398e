package stars

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/pagination"
	"github.com/starconnect/starconnect-backend/pkg/types"
)

// Service defines the star catalog and profile operations.
type Service interface {
	BecomeStar(ctx context.Context, userID uuid.UUID, req BecomeStarRequest) (*OwnerStarDTO, error)
	GetStar(ctx context.Context, id uuid.UUID) (*StarDTO, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*OwnerStarDTO, error)
	ListStars(ctx context.Context, category string, limit, offset int) ([]StarDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*OwnerStarDTO, error)
}

type repository interface {
	Create(ctx context.Context, star *models.Star) (*models.Star, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, category string, limit, offset int) ([]models.Star, error)
	Categories(ctx context.Context) ([]string, error)
	UpdateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type service struct {
	repo repository
}

// ServiceParams bundles the dependencies for the stars service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs the star catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stars repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) BecomeStar(ctx context.Context, userID uuid.UUID, req BecomeStarRequest) (*OwnerStarDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check star profile")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "star profile already exists")
	}

	star := &models.Star{
		ID:              userID,
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           req.Phone,
		Category:        strings.TrimSpace(req.Category),
		ExperienceYears: req.ExperienceYears,
		HourlyRateCents: req.HourlyRateCents,
		Plan:            enums.PlanFree,
	}
	if req.Social != nil {
		star.Social = *req.Social
	}

	created, err := s.repo.Create(ctx, star)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create star profile")
	}
	return OwnerFromModel(created), nil
}

func (s *service) GetStar(ctx context.Context, id uuid.UUID) (*StarDTO, error) {
	star, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star")
	}
	return FromModel(star), nil
}

func (s *service) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*OwnerStarDTO, error) {
	star, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star profile")
	}
	return OwnerFromModel(star), nil
}

func (s *service) ListStars(ctx context.Context, category string, limit, offset int) ([]StarDTO, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(category), pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stars")
	}
	out := make([]StarDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*OwnerStarDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "star profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load star profile")
	}

	updates := buildUpdates(req)
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields provided")
	}

	if err := s.repo.UpdateColumns(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update star profile")
	}

	star, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload star profile")
	}
	return OwnerFromModel(star), nil
}

// buildUpdates maps the non-nil request fields to their columns. Plan and
// payment columns are deliberately absent: only the webhook path writes those.
func buildUpdates(req UpdateProfileRequest) map[string]any {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = req.Phone
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.ExperienceYears != nil {
		updates["experience_years"] = *req.ExperienceYears
	}
	if req.HourlyRateCents != nil {
		updates["hourly_rate_cents"] = *req.HourlyRateCents
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = req.ProfilePicture
	}
	if req.VideoIntroduction != nil {
		updates["video_introduction"] = req.VideoIntroduction
	}
	if req.Social != nil {
		updates["social"] = *req.Social
	}
	if req.GovernmentID != nil {
		updates["government_id"] = req.GovernmentID
	}
	if req.AdvertisingImages != nil {
		updates["advertising_images"] = types.StringArray(req.AdvertisingImages)
	}
	return updates
}
