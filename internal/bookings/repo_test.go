package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  star_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  event_date DATETIME NOT NULL,
  event_time TEXT NOT NULL,
  base_price_cents INTEGER NOT NULL,
  service_fee_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS bookings`).Error)
	require.NoError(t, db.Exec(bookings).Error)
	return db
}

func TestBookingsRepoCreateAndList(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	starID := uuid.New()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, eventTime := range []string{"18:00", "20:00"} {
		_, err := repo.Create(ctx, &models.Booking{
			StarID:          starID,
			UserID:          userID,
			EventDate:       base.AddDate(0, 0, i),
			EventTime:       eventTime,
			BasePriceCents:  15000,
			ServiceFeeCents: 1500,
			TotalCents:      16500,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	// Another user's booking against the same star.
	_, err := repo.Create(ctx, &models.Booking{
		StarID:          starID,
		UserID:          uuid.New(),
		EventDate:       base,
		EventTime:       "09:00",
		BasePriceCents:  15000,
		ServiceFeeCents: 1500,
		TotalCents:      16500,
		CreatedAt:       base.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	mine, err := repo.ListForUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "20:00", mine[0].EventTime, "newest booking first")

	forStar, err := repo.ListForStar(ctx, starID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, forStar, 3)
}
