package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferrante/anchorline/internal/core/domain"
)

func TestPostgresSettingsRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresSettingsRepository(db)
	ctx := context.Background()

	t.Run("Get before any write reports not found", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrSettingsNotFound)
	})

	t.Run("Upsert inserts then updates the same row", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		settings := domain.NewUserSettings(userID)
		require.NoError(t, repo.Upsert(ctx, settings))

		settings.WeeklyGoal = 3
		settings.Theme = string(domain.ThemeOcean)
		settings.HasCompletedOnboarding = true
		require.NoError(t, repo.Upsert(ctx, settings))

		loaded, err := repo.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.WeeklyGoal)
		assert.Equal(t, string(domain.ThemeOcean), loaded.Theme)
		assert.True(t, loaded.HasCompletedOnboarding)

		var count int
		require.NoError(t, db.Get(&count, `SELECT count(*) FROM user_settings WHERE user_id = $1`, userID))
		assert.Equal(t, 1, count)
	})
}
