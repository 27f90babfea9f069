package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/streaks"
)

func TestStreakHandler_Summary(t *testing.T) {
	env := newTestEnv(t, "development")

	t.Run("empty ledger yields a zeroed summary", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/streaks", "user-1", "")

		require.Equal(t, http.StatusOK, w.Code)
		var summary domain.StreakSummary
		decodeJSON(t, w, &summary)
		assert.Equal(t, 0, summary.CurrentStreak)
		assert.Equal(t, 0, summary.ConsistencyRate)
		assert.False(t, summary.IsOnFire)
		assert.Len(t, summary.WeeklyProgress, 7)
		assert.Len(t, summary.ContributionData, streaks.DefaultContributionWeeks*7)
	})

	t.Run("completing a task shows up in the summary", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/tasks", "user-1", `{"title": "Run"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		var task domain.Task
		decodeJSON(t, w, &task)

		w = env.do(t, "PATCH", "/api/v1/tasks/"+task.ID, "user-1",
			`{"status": "completed"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/v1/streaks", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)
		var summary domain.StreakSummary
		decodeJSON(t, w, &summary)
		assert.Equal(t, 1, summary.CurrentStreak)
		assert.Equal(t, 1, summary.ThisWeekCompleted)

		today := time.Now().UTC().Truncate(24 * time.Hour)
		last := summary.ContributionData[len(summary.ContributionData)-1]
		assert.True(t, last.Date.Equal(today))
		assert.Equal(t, 1, last.Count)
	})

	t.Run("weeks parameter widens the contribution window", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/streaks?weeks=52", "user-1", "")

		require.Equal(t, http.StatusOK, w.Code)
		var summary domain.StreakSummary
		decodeJSON(t, w, &summary)
		assert.Len(t, summary.ContributionData, 52*7)
	})

	t.Run("Fail: 400 on out of range or malformed weeks", func(t *testing.T) {
		for _, q := range []string{"0", "53", "-1", "abc"} {
			w := env.do(t, "GET", "/api/v1/streaks?weeks="+q, "user-1", "")
			assert.Equal(t, http.StatusBadRequest, w.Code, "weeks=%s", q)
		}
	})
}
