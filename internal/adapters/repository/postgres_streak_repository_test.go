package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
)

func TestPostgresStreakRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresStreakRepository(db)
	ctx := context.Background()
	today := dateutil.TodayUTC()

	findRow := func(t *testing.T, userID string) *domain.DailyRecord {
		t.Helper()
		records, err := repo.ListByUserSince(ctx, userID, dateutil.AddDaysUTC(today, -1))
		require.NoError(t, err)
		require.Len(t, records, 1)
		return records[0]
	}

	t.Run("IncrementTotal creates the row as 1/0", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.IncrementTotal(ctx, userID, today))

		row := findRow(t, userID)
		assert.Equal(t, 1, row.TotalTasks)
		assert.Equal(t, 0, row.TasksCompleted)
		assert.False(t, row.GoalMet)
	})

	t.Run("IncrementCompleted without prior create seeds 1/1", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.IncrementCompleted(ctx, userID, today))

		row := findRow(t, userID)
		assert.Equal(t, 1, row.TotalTasks)
		assert.Equal(t, 1, row.TasksCompleted)
		assert.True(t, row.GoalMet)
	})

	t.Run("completed never exceeds total", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.IncrementTotal(ctx, userID, today))
		require.NoError(t, repo.IncrementCompleted(ctx, userID, today))
		require.NoError(t, repo.IncrementCompleted(ctx, userID, today))

		row := findRow(t, userID)
		assert.Equal(t, 2, row.TasksCompleted)
		assert.GreaterOrEqual(t, row.TotalTasks, row.TasksCompleted)
	})

	t.Run("DecrementCompleted floors at zero and recomputes goal_met", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.IncrementCompleted(ctx, userID, today))
		require.NoError(t, repo.DecrementCompleted(ctx, userID, today))
		require.NoError(t, repo.DecrementCompleted(ctx, userID, today))

		row := findRow(t, userID)
		assert.Equal(t, 0, row.TasksCompleted)
		assert.False(t, row.GoalMet)
	})

	t.Run("DecrementCompleted on a missing row is a no-op", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.DecrementCompleted(ctx, userID, today))

		records, err := repo.ListByUserSince(ctx, userID, dateutil.AddDaysUTC(today, -1))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("one row per day under concurrent writes", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		const workers = 10
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.IncrementTotal(ctx, userID, today))
			}()
		}
		wg.Wait()

		row := findRow(t, userID)
		assert.Equal(t, workers, row.TotalTasks)
	})

	t.Run("ListByUserSince honors the cutoff", func(t *testing.T) {
		userID := uuid.NewString()
		createUserFixture(t, db, userID)

		require.NoError(t, repo.IncrementTotal(ctx, userID, dateutil.AddDaysUTC(today, -10)))
		require.NoError(t, repo.IncrementTotal(ctx, userID, today))

		records, err := repo.ListByUserSince(ctx, userID, dateutil.AddDaysUTC(today, -5))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, dateutil.SameDayUTC(records[0].Date, today))
	})

	t.Run("DeleteByUser wipes only that user's ledger", func(t *testing.T) {
		userA := uuid.NewString()
		userB := uuid.NewString()
		createUserFixture(t, db, userA)
		createUserFixture(t, db, userB)

		require.NoError(t, repo.IncrementTotal(ctx, userA, today))
		require.NoError(t, repo.IncrementTotal(ctx, userB, today))

		require.NoError(t, repo.DeleteByUser(ctx, userA))

		gone, err := repo.ListByUserSince(ctx, userA, dateutil.AddDaysUTC(today, -1))
		require.NoError(t, err)
		assert.Empty(t, gone)

		kept, err := repo.ListByUserSince(ctx, userB, dateutil.AddDaysUTC(today, -1))
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})
}
