package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/shared/apperr"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&ObservationModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func dec(f float64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromFloat(f)) }

func vol(v int64) *int64 { return &v }

func bar(day time.Time, close float64) entity.Observation {
	return entity.Observation{Date: day, Open: dec(close - 1), High: dec(close + 1), Low: dec(close - 2), Close: dec(close), Volume: vol(1000)}
}

func TestNewObservationRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewObservationRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestObservationGorm_InsertIgnore(t *testing.T) {
	t.Parallel()

	baseTime := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rows         []entity.Observation
		setupFunc    func(t *testing.T, repo *observationGorm)
		wantInserted int
		validateFunc func(t *testing.T, db *gorm.DB)
	}{
		{
			name:         "success: insert multiple rows",
			rows:         []entity.Observation{bar(baseTime, 182), bar(baseTime.AddDate(0, 0, 1), 183)},
			wantInserted: 2,
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&ObservationModel{}).Count(&count)
				assert.Equal(t, int64(2), count)
			},
		},
		{
			name:         "success: empty slice",
			rows:         []entity.Observation{},
			wantInserted: 0,
		},
		{
			name: "success: existing date is ignored, not updated",
			setupFunc: func(t *testing.T, repo *observationGorm) {
				_, err := repo.InsertIgnore(context.Background(), 1, []entity.Observation{bar(baseTime, 182)})
				require.NoError(t, err)
			},
			rows:         []entity.Observation{bar(baseTime, 999), bar(baseTime.AddDate(0, 0, 1), 183)},
			wantInserted: 1,
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&ObservationModel{}).Count(&count)
				assert.Equal(t, int64(2), count)

				var m ObservationModel
				require.NoError(t, db.Where("instrument_id = ?", 1).Order("id").First(&m).Error)
				assert.True(t, decimal.NewFromFloat(182).Equal(m.Close.Decimal), "existing bar must stay immutable")
			},
		},
		{
			name: "success: same date for another instrument is inserted",
			setupFunc: func(t *testing.T, repo *observationGorm) {
				_, err := repo.InsertIgnore(context.Background(), 2, []entity.Observation{bar(baseTime, 50)})
				require.NoError(t, err)
			},
			rows:         []entity.Observation{bar(baseTime, 182)},
			wantInserted: 1,
		},
		{
			name:         "success: null prices stay null and nil volume becomes zero",
			rows:         []entity.Observation{{Date: baseTime, Open: dec(180)}},
			wantInserted: 1,
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var m ObservationModel
				require.NoError(t, db.First(&m).Error)
				assert.False(t, m.Close.Valid, "close should be NULL")
				assert.True(t, m.Open.Valid)
				assert.Equal(t, int64(0), m.Volume)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewObservationRepository(db)

			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			n, err := repo.InsertIgnore(context.Background(), 1, tt.rows)

			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, n)
			if tt.validateFunc != nil {
				tt.validateFunc(t, db)
			}
		})
	}
}

func TestObservationGorm_InsertIgnore_StoreFailure(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	repo := NewObservationRepository(db)

	_, err = repo.InsertIgnore(context.Background(), 1, []entity.Observation{bar(time.Now(), 1)})

	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestObservationGorm_Recent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewObservationRepository(db)
	ctx := context.Background()
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]entity.Observation, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, bar(baseTime.AddDate(0, 0, i), float64(100+i)))
	}
	_, err := repo.InsertIgnore(ctx, 1, rows)
	require.NoError(t, err)
	_, err = repo.InsertIgnore(ctx, 2, []entity.Observation{bar(baseTime, 1)})
	require.NoError(t, err)

	got, err := repo.Recent(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024-01-05", got[0].Date.UTC().Format(entity.DateLayout), "newest first")
	assert.True(t, got[0].Date.After(got[1].Date))
	assert.True(t, got[1].Date.After(got[2].Date))
	assert.Equal(t, uint(1), got[0].InstrumentID)
	assert.True(t, decimal.NewFromFloat(104).Equal(got[0].Close.Decimal))
	require.NotNil(t, got[0].Volume)
	assert.Equal(t, int64(1000), *got[0].Volume)

	all, err := repo.Recent(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "limit 0 returns all")
}
