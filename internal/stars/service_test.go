package stars

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type stubStarsRepo struct {
	stars       map[uuid.UUID]*models.Star
	lastUpdates map[string]any
}

func newStubStarsRepo() *stubStarsRepo {
	return &stubStarsRepo{stars: map[uuid.UUID]*models.Star{}}
}

func (s *stubStarsRepo) Create(ctx context.Context, star *models.Star) (*models.Star, error) {
	s.stars[star.ID] = star
	return star, nil
}

func (s *stubStarsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error) {
	star, ok := s.stars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return star, nil
}

func (s *stubStarsRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.stars[id]
	return ok, nil
}

func (s *stubStarsRepo) List(ctx context.Context, category string, limit, offset int) ([]models.Star, error) {
	var out []models.Star
	for _, star := range s.stars {
		if category == "" || star.Category == category {
			out = append(out, *star)
		}
	}
	return out, nil
}

func (s *stubStarsRepo) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, star := range s.stars {
		if _, ok := seen[star.Category]; !ok {
			seen[star.Category] = struct{}{}
			out = append(out, star.Category)
		}
	}
	return out, nil
}

func (s *stubStarsRepo) UpdateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.lastUpdates = updates
	star := s.stars[id]
	if name, ok := updates["name"].(string); ok {
		star.Name = name
	}
	return nil
}

func buildStarsService(t *testing.T, repo *stubStarsRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestBecomeStarCreatesFreeProfile(t *testing.T) {
	repo := newStubStarsRepo()
	svc := buildStarsService(t, repo)
	userID := uuid.New()

	profile, err := svc.BecomeStar(context.Background(), userID, BecomeStarRequest{
		Name:            "  Nova Rae ",
		Email:           "Nova@Example.com",
		Category:        "music",
		ExperienceYears: 5,
		HourlyRateCents: 20000,
	})
	if err != nil {
		t.Fatalf("become star: %v", err)
	}
	if profile.ID != userID {
		t.Fatalf("expected star keyed by user id, got %s", profile.ID)
	}
	if profile.Name != "Nova Rae" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}
	if profile.Email != "nova@example.com" {
		t.Fatalf("expected lowercased email, got %q", profile.Email)
	}
	if profile.Plan != enums.PlanFree {
		t.Fatalf("new star profiles must start on the free plan, got %s", profile.Plan)
	}
}

func TestBecomeStarRejectsExistingProfile(t *testing.T) {
	repo := newStubStarsRepo()
	svc := buildStarsService(t, repo)
	userID := uuid.New()
	repo.stars[userID] = &models.Star{ID: userID, Name: "existing"}

	_, err := svc.BecomeStar(context.Background(), userID, BecomeStarRequest{
		Name:     "again",
		Email:    "again@example.com",
		Category: "music",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateProfileNeverTouchesPlanColumns(t *testing.T) {
	repo := newStubStarsRepo()
	svc := buildStarsService(t, repo)
	userID := uuid.New()
	repo.stars[userID] = &models.Star{ID: userID, Name: "Nova", Plan: enums.PlanFree}

	name := "Nova Rae"
	rate := int64(25000)
	if _, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileRequest{
		Name:            &name,
		HourlyRateCents: &rate,
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	for _, forbidden := range []string{"plan", "plan_updated_at", "payment_id", "payment_amount_cents"} {
		if _, ok := repo.lastUpdates[forbidden]; ok {
			t.Fatalf("profile update must not write %q", forbidden)
		}
	}
	if repo.lastUpdates["name"] != "Nova Rae" {
		t.Fatalf("expected name update, got %v", repo.lastUpdates)
	}
}

func TestUpdateProfileRequiresAtLeastOneField(t *testing.T) {
	repo := newStubStarsRepo()
	svc := buildStarsService(t, repo)
	userID := uuid.New()
	repo.stars[userID] = &models.Star{ID: userID, Name: "Nova"}

	_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetStarHidesOwnerOnlyFields(t *testing.T) {
	repo := newStubStarsRepo()
	svc := buildStarsService(t, repo)
	userID := uuid.New()
	govID := "governmentIds/nova/id.png"
	paymentID := "pi_999"
	repo.stars[userID] = &models.Star{
		ID:           userID,
		Name:         "Nova",
		GovernmentID: &govID,
		PaymentID:    &paymentID,
	}

	public, err := svc.GetStar(context.Background(), userID)
	if err != nil {
		t.Fatalf("get star: %v", err)
	}
	// StarDTO has no government or payment fields at all; make sure the owner
	// view still carries them.
	owner, err := svc.GetOwnProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("get own profile: %v", err)
	}
	if owner.GovernmentID == nil || *owner.GovernmentID != govID {
		t.Fatalf("expected government id on owner view, got %v", owner.GovernmentID)
	}
	if public.Name != owner.Name {
		t.Fatalf("public and owner views should share base fields")
	}
}

func TestGetStarNotFound(t *testing.T) {
	svc := buildStarsService(t, newStubStarsRepo())

	_, err := svc.GetStar(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
