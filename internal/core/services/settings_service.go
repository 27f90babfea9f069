package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/domain"
)

type SettingsService struct {
	settingsRepo domain.SettingsRepository
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo domain.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

type UpdateSettingsInput struct {
	UserID                 string
	WeeklyGoal             *int
	Theme                  *string
	NotificationsEnabled   *bool
	Timezone               *string
	HasCompletedOnboarding *bool
}

// Get returns the user's settings, lazily creating the default row on first
// read so callers never see a not-found.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, err
	}

	settings = domain.NewUserSettings(userID)
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, input UpdateSettingsInput) (*domain.UserSettings, error) {
	settings, err := s.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.WeeklyGoal != nil {
		settings.WeeklyGoal = *input.WeeklyGoal
	}
	if input.Theme != nil {
		settings.Theme = *input.Theme
	}
	if input.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.HasCompletedOnboarding != nil {
		settings.HasCompletedOnboarding = *input.HasCompletedOnboarding
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
