package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/services"
)

type MockSettingsRepo struct {
	store         map[string]*domain.UserSettings
	simulateError error
}

func NewMockSettingsRepo() *MockSettingsRepo {
	return &MockSettingsRepo{store: make(map[string]*domain.UserSettings)}
}

func (m *MockSettingsRepo) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	s, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MockSettingsRepo) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *settings
	m.store[settings.UserID] = &clone
	return nil
}

func newSettingsService(repo *MockSettingsRepo) *services.SettingsService {
	return services.NewSettingsService(repo, zap.NewNop())
}

func TestSettingsService_Get(t *testing.T) {
	t.Run("first read creates the default row", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		settings, err := svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 5, settings.WeeklyGoal)
		assert.Equal(t, string(domain.ThemeGitHub), settings.Theme)
		assert.Equal(t, "UTC", settings.Timezone)
		assert.False(t, settings.HasCompletedOnboarding)

		assert.Contains(t, repo.store, "user-1")
	})

	t.Run("existing row is returned as stored", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		existing := domain.NewUserSettings("user-1")
		existing.WeeklyGoal = 3
		repo.Upsert(context.Background(), existing)

		settings, err := svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 3, settings.WeeklyGoal)
	})
}

func TestSettingsService_Update(t *testing.T) {
	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		updated, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID: "user-1",
			Theme:  ptr(string(domain.ThemeOcean)),
		})

		assert.NoError(t, err)
		assert.Equal(t, string(domain.ThemeOcean), updated.Theme)
		assert.Equal(t, 5, updated.WeeklyGoal)
	})

	t.Run("onboarding flag flips once and stays", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		updated, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID:                 "user-1",
			HasCompletedOnboarding: ptr(true),
		})
		assert.NoError(t, err)
		assert.True(t, updated.HasCompletedOnboarding)

		again, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID:     "user-1",
			WeeklyGoal: ptr(6),
		})
		assert.NoError(t, err)
		assert.True(t, again.HasCompletedOnboarding)
	})

	t.Run("notifications toggle persists", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		updated, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID:               "user-1",
			NotificationsEnabled: ptr(false),
		})
		assert.NoError(t, err)
		assert.False(t, updated.NotificationsEnabled)

		settings, err := svc.Get(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.False(t, settings.NotificationsEnabled)
	})

	t.Run("Fail: weekly goal out of range", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		_, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID:     "user-1",
			WeeklyGoal: ptr(8),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidWeeklyGoal)
	})

	t.Run("Fail: unknown theme", func(t *testing.T) {
		repo := NewMockSettingsRepo()
		svc := newSettingsService(repo)

		_, err := svc.Update(context.Background(), services.UpdateSettingsInput{
			UserID: "user-1",
			Theme:  ptr("neon"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidTheme)

		settings, getErr := svc.Get(context.Background(), "user-1")
		assert.NoError(t, getErr)
		assert.Equal(t, string(domain.ThemeGitHub), settings.Theme)
	})
}
