package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleancity/pkg/models"
)

func TestMemoryStatsRepositoryGetOrCreate(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	stats, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", stats.UserID)
	assert.Equal(t, int64(1), stats.Version)
	assert.Equal(t, 1, stats.Level)

	again, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, stats.Version, again.Version)
}

func TestMemoryStatsRepositorySaveBumpsVersion(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	stats, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	stats.TotalPoints = 42
	require.NoError(t, repo.Save(ctx, stats))
	assert.Equal(t, int64(2), stats.Version)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, stored.TotalPoints)
	assert.Equal(t, int64(2), stored.Version)
}

func TestMemoryStatsRepositorySaveConflict(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	a, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	b, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	a.TotalPoints = 10
	require.NoError(t, repo.Save(ctx, a))

	// b still carries the pre-save version, so its write must lose.
	b.TotalPoints = 99
	err = repo.Save(ctx, b)
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalPoints)
}

func TestMemoryStatsRepositoryReadsAreIsolated(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	stats, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	stats.Badges = append(stats.Badges, "Eco Warrior")

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Badges)
}

func TestMemoryStatsRepositoryListAll(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_, err := repo.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].UserID)
	assert.Equal(t, "c", all[2].UserID)
}

func TestMemoryEventRepositoryWindowQuery(t *testing.T) {
	repo := NewMemoryEventRepository()
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	add := func(userID string, ts time.Time) {
		require.NoError(t, repo.Append(ctx, &models.ClassificationEvent{
			ID: userID + ts.String(), UserID: userID,
			Category: models.CategoryRecycle, Points: 10, Timestamp: ts,
		}))
	}

	add("u1", base.AddDate(0, 0, -1)) // before window
	add("u1", base)                   // inclusive start
	add("u1", base.AddDate(0, 0, 10))
	add("u2", base.AddDate(0, 0, 10)) // other user
	add("u1", base.AddDate(0, 1, 0))  // exclusive end

	events, err := repo.ListByUserBetween(ctx, "u1", base, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestMemoryBinRepository(t *testing.T) {
	repo := NewMemoryBinRepository()
	ctx := context.Background()

	bin := &models.BinLocation{ID: "b1", Name: "Central", Status: models.BinStatusActive}
	require.NoError(t, repo.Create(ctx, bin))
	require.NoError(t, repo.Create(ctx, &models.BinLocation{ID: "b2", Name: "Down", Status: models.BinStatusFull}))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Central", got.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrBinNotFound)

	active, err := repo.List(ctx, models.BinStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bin.Status = models.BinStatusMaintenance
	require.NoError(t, repo.Update(ctx, bin))
	got, err = repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BinStatusMaintenance, got.Status)
}

func TestMemoryReportRepositoryListNewestFirst(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.WasteReport{
			ID:        string(rune('a' + i)),
			Timestamp: base.AddDate(0, 0, i),
			Status:    models.ReportStatusPending,
		}))
	}

	reports, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "c", reports[0].ID)
	assert.Equal(t, "b", reports[1].ID)
}

func TestMemoryUserRepositoryUniqueUsername(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "alice"}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &models.User{ID: "u2", Username: "alice"})
	assert.ErrorIs(t, err, models.ErrUsernameExists)

	exists, err := repo.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}
