package stars

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
)

// Repository exposes star profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stars repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new star profile keyed by the owning user's id.
func (r *Repository) Create(ctx context.Context, star *models.Star) (*models.Star, error) {
	if err := r.db.WithContext(ctx).Create(star).Error; err != nil {
		return nil, err
	}
	return star, nil
}

// FindByID loads the star profile for the given user id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error) {
	var star models.Star
	if err := r.db.WithContext(ctx).First(&star, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &star, nil
}

// Exists reports whether a star profile exists for the user.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Star{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns star profiles, optionally filtered by category. Premium
// profiles sort ahead of free ones; ties break newest first.
func (r *Repository) List(ctx context.Context, category string, limit, offset int) ([]models.Star, error) {
	query := r.db.WithContext(ctx).Model(&models.Star{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var stars []models.Star
	err := query.
		Order("plan DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stars).Error
	if err != nil {
		return nil, err
	}
	return stars, nil
}

// Categories returns the distinct category names currently in use.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Star{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateColumns applies a partial update to the star row.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Star{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindByPaymentID returns the star already linked to a payment, if any.
func (r *Repository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Star, error) {
	var star models.Star
	if err := r.db.WithContext(ctx).First(&star, "payment_id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	return &star, nil
}

// UpgradePlan records the paid plan change along with the payment reference.
func (r *Repository) UpgradePlan(ctx context.Context, id uuid.UUID, plan enums.Plan, paymentID string, amountCents int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Star{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"plan":                 plan,
			"plan_updated_at":      at,
			"payment_id":           paymentID,
			"payment_amount_cents": amountCents,
		}).Error
}
